// SPDX-License-Identifier: MIT
package audio

import (
	"errors"
	"os"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"vsthost/internal/midi"
	"vsthost/pkg/utils"
)

const (
	testSampleRate = 44100
	testFrameSize  = 64
	testRampPeriod = 100
)

var errBoom = errors.New("boom")

// rampPlugin writes a left ramp and an inverted right ramp so every output
// sample is known in advance. It records the order of calls it receives.
type rampPlugin struct {
	info       Info
	calls      []string
	delivered  []midi.NoteEvent
	frame      int64
	sampleRate int
	initErr    error
	failAt     int // Process call index that fails, -1 for never
	processed  int
	closed     int
	badView    bool
}

func newRampPlugin(inputs, outputs int) *rampPlugin {
	return &rampPlugin{
		info:   Info{Name: "ramp", Vendor: "test", Inputs: inputs, Outputs: outputs},
		failAt: -1,
	}
}

func (p *rampPlugin) Info() Info { return p.info }

func (p *rampPlugin) Init() error {
	p.calls = append(p.calls, "init")
	return p.initErr
}

func (p *rampPlugin) SetSampleRate(rate int) error {
	p.calls = append(p.calls, "rate")
	p.sampleRate = rate
	return nil
}

func (p *rampPlugin) ProcessEvents(events []midi.NoteEvent) error {
	p.calls = append(p.calls, "events")
	p.delivered = append(p.delivered, events...)
	return nil
}

func (p *rampPlugin) Process(view View) error {
	p.calls = append(p.calls, "process")
	if p.processed == p.failAt {
		return errBoom
	}
	p.processed++

	if len(view.Inputs) != p.info.Inputs || len(view.Outputs) != p.info.Outputs {
		p.badView = true
	}
	for c := range view.Outputs {
		if len(view.Outputs[c]) != view.Frames {
			p.badView = true
		}
	}

	for i := range view.Frames {
		v := rampValue(p.frame + int64(i))
		for c := range view.Outputs {
			if c%2 == 0 {
				view.Outputs[c][i] = v
			} else {
				view.Outputs[c][i] = -v
			}
		}
	}
	p.frame += int64(view.Frames)
	return nil
}

func (p *rampPlugin) Close() error {
	p.closed++
	return nil
}

func rampValue(n int64) float32 {
	return utils.RampSample(n, testRampPeriod) * 0.9
}

func decodeWAV(t *testing.T, path string) (*wav.Decoder, *audio.IntBuffer) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	t.Cleanup(func() { f.Close() })

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		t.Fatalf("%s is not a valid WAV file", path)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		t.Fatalf("failed to decode %s: %v", path, err)
	}
	return d, buf
}
