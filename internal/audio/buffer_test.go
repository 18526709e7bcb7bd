// SPDX-License-Identifier: MIT
package audio

import (
	"testing"
)

func TestBinderInstrumentLayout(t *testing.T) {
	b := NewBinder(0, 2, 1024)

	if len(b.Inputs()) != 0 {
		t.Errorf("inputs = %d, want 0", len(b.Inputs()))
	}
	if len(b.Outputs()) != 2 {
		t.Fatalf("outputs = %d, want 2", len(b.Outputs()))
	}
	for c, ch := range b.Outputs() {
		if len(ch) != 1024 {
			t.Errorf("output %d has %d frames, want 1024", c, len(ch))
		}
		for i, v := range ch {
			if v != 0 {
				t.Fatalf("output %d frame %d = %f, want 0", c, i, v)
			}
		}
	}

	b.MustMatch(Info{Inputs: 0, Outputs: 2})
}

func TestBinderViewAliasesStorage(t *testing.T) {
	b := NewBinder(2, 2, 8)
	view := b.Bind()

	if view.Frames != 8 || len(view.Inputs) != 2 || len(view.Outputs) != 2 {
		t.Fatalf("unexpected view shape: %d frames, %d in, %d out", view.Frames, len(view.Inputs), len(view.Outputs))
	}

	view.Outputs[1][3] = 0.25
	if b.Outputs()[1][3] != 0.25 {
		t.Error("write through view did not reach binder storage")
	}

	// Reslicing the view must not change what the next Bind hands out.
	view.Outputs[0] = view.Outputs[0][:2]
	next := b.Bind()
	if len(next.Outputs[0]) != 8 {
		t.Errorf("next view output 0 has %d frames, want 8", len(next.Outputs[0]))
	}
	if len(b.Outputs()[0]) != 8 {
		t.Errorf("owned output 0 has %d frames, want 8", len(b.Outputs()[0]))
	}
}

func TestBinderChannelsDoNotOverlap(t *testing.T) {
	b := NewBinder(1, 3, 4)
	for c, ch := range b.Outputs() {
		for i := range ch {
			ch[i] = float32(c + 1)
		}
	}
	for c, ch := range b.Outputs() {
		for i, v := range ch {
			if v != float32(c+1) {
				t.Fatalf("output %d frame %d = %f, want %d", c, i, v, c+1)
			}
		}
	}
	// Appending to a channel must reallocate rather than spill into the next.
	_ = append(b.Outputs()[0], 9)
	if b.Outputs()[1][0] != 2 {
		t.Error("append on channel 0 overwrote channel 1")
	}
}

func TestBinderMustMatchPanics(t *testing.T) {
	tests := []struct {
		desc string
		info Info
	}{
		{"Too many inputs", Info{Inputs: 2, Outputs: 2}},
		{"Too few outputs", Info{Inputs: 0, Outputs: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			b := NewBinder(0, 2, 16)
			defer func() {
				if recover() == nil {
					t.Error("expected panic on layout mismatch")
				}
			}()
			b.MustMatch(tt.info)
		})
	}
}

func TestNewBinderInvalidPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero frames")
		}
	}()
	NewBinder(0, 2, 0)
}

func TestBinderBindNoAllocs(t *testing.T) {
	b := NewBinder(2, 2, 1024)
	allocs := testing.AllocsPerRun(100, func() {
		_ = b.Bind()
	})
	if allocs > 0 {
		t.Errorf("Bind allocated memory: got %.1f allocs, want 0", allocs)
	}
}
