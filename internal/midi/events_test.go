package midi

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestNoteOn(t *testing.T) {
	tests := []struct {
		desc                    string
		channel, pitch, vel     uint8
		wantStatus, wantChannel uint8
	}{
		{"Channel 1", 0, 74, 90, 0x90, 0},
		{"Channel 10", 9, 36, 127, 0x99, 9},
		{"Channel 16", 15, 0, 1, 0x9F, 15},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			e := NoteOn(tt.channel, tt.pitch, tt.vel)
			if e.Status != tt.wantStatus || e.Channel() != tt.wantChannel {
				t.Errorf("status = %#x channel = %d, want %#x / %d", e.Status, e.Channel(), tt.wantStatus, tt.wantChannel)
			}
			if e.Pitch != tt.pitch || e.Velocity != tt.vel || e.Offset != 0 {
				t.Errorf("unexpected event %+v", e)
			}
			if e.Bytes() != [3]byte{tt.wantStatus, tt.pitch, tt.vel} {
				t.Errorf("Bytes() = %v", e.Bytes())
			}
		})
	}
}

func TestNoteEventMessage(t *testing.T) {
	e := NoteOn(0, 74, 90)
	var ch, key, vel uint8
	if !e.Message().GetNoteOn(&ch, &key, &vel) {
		t.Fatalf("Message() is not a note-on: %v", e.Message())
	}
	if ch != 0 || key != 74 || vel != 90 {
		t.Errorf("decoded (%d, %d, %d), want (0, 74, 90)", ch, key, vel)
	}
	if !strings.Contains(e.String(), "offset: 0") {
		t.Errorf("String() = %q", e.String())
	}
}

func TestNewScale(t *testing.T) {
	pitches := []int{74, 76, 78, 79, 81, 83, 85, 86}
	scale := NewScale(0, 90, pitches)

	if len(scale) != len(pitches) {
		t.Fatalf("len = %d, want %d", len(scale), len(pitches))
	}
	for i, e := range scale {
		if e.Status != 144 || e.Velocity != 90 {
			t.Errorf("event %d = %+v", i, e)
		}
	}
	got := scale.Pitches()
	for i := range pitches {
		if got[i] != pitches[i] {
			t.Errorf("Pitches()[%d] = %d, want %d", i, got[i], pitches[i])
		}
	}
}

func writeSMF(t *testing.T, notes ...gomidi.Message) []byte {
	t.Helper()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)

	var track smf.Track
	for _, n := range notes {
		track.Add(120, n)
	}
	track.Close(0)
	if err := s.Add(track); err != nil {
		t.Fatalf("failed to add track: %v", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("failed to write MIDI: %v", err)
	}
	return buf.Bytes()
}

func TestLoadScale(t *testing.T) {
	data := writeSMF(t,
		gomidi.NoteOn(1, 60, 100),
		gomidi.NoteOff(1, 60),
		gomidi.NoteOn(1, 64, 80),
		gomidi.NoteOn(1, 64, 0),
		gomidi.NoteOn(1, 67, 70),
	)

	scale, err := LoadScale(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadScale() error: %v", err)
	}

	want := []NoteEvent{NoteOn(1, 60, 100), NoteOn(1, 64, 80), NoteOn(1, 67, 70)}
	if len(scale) != len(want) {
		t.Fatalf("scale = %v, want %v", scale, want)
	}
	for i := range want {
		if scale[i] != want[i] {
			t.Errorf("scale[%d] = %+v, want %+v", i, scale[i], want[i])
		}
	}
}

func TestLoadScaleErrors(t *testing.T) {
	t.Run("No notes", func(t *testing.T) {
		data := writeSMF(t, gomidi.NoteOff(0, 60))
		if _, err := LoadScale(bytes.NewReader(data)); !errors.Is(err, ErrEmptyScale) {
			t.Errorf("expected ErrEmptyScale, got %v", err)
		}
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := LoadScale(strings.NewReader("not a midi file"))
		if err == nil || !strings.Contains(err.Error(), "failed to parse MIDI") {
			t.Errorf("expected parse error, got %v", err)
		}
	})

	t.Run("Missing file", func(t *testing.T) {
		if _, err := LoadScaleFile("/nonexistent/scale.mid"); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
