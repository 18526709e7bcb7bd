// SPDX-License-Identifier: MIT
// Package synth provides a deterministic sine instrument, hosted in place of
// a binary plugin when the plugin path is "builtin:sine".
package synth

import (
	"errors"
	"fmt"
	"math"

	"vsthost/internal/audio"
	"vsthost/internal/midi"
)

const (
	// Name is reported as the instrument name.
	Name = "builtin:sine"

	// MaxAmplitude is the output level of a velocity 127 note.
	MaxAmplitude = 0.5

	outputs = 2
)

// ErrNotInitialized is returned by Process before Init and SetSampleRate.
var ErrNotInitialized = errors.New("sine instrument not initialized")

// Sine is a monophonic instrument. Every note-on retunes a single
// oscillator without resetting its phase, so the output has no
// discontinuities between notes. It is silent until the first note.
type Sine struct {
	sampleRate float64
	ready      bool

	phase     float64 // Oscillator phase in cycles, [0, 1)
	frequency float64
	amplitude float64

	pending   []midi.NoteEvent // Events for the next Process call
	delivered []midi.NoteEvent
	closed    bool
}

var _ audio.Plugin = (*Sine)(nil)

// NewSine creates a stereo sine instrument with no audio inputs.
func NewSine() *Sine {
	return &Sine{}
}

// Frequency returns the equal-tempered frequency of a MIDI pitch,
// with A4 (69) at 440Hz.
func Frequency(pitch uint8) float64 {
	return 440 * math.Pow(2, (float64(pitch)-69)/12)
}

// Amplitude returns the oscillator level for a note-on velocity.
func Amplitude(velocity uint8) float64 {
	return float64(velocity&0x7F) / 127 * MaxAmplitude
}

func (s *Sine) Info() audio.Info {
	return audio.Info{Name: Name, Vendor: "vsthost", Inputs: 0, Outputs: outputs}
}

func (s *Sine) Init() error {
	if s.closed {
		return errors.New("sine instrument closed")
	}
	s.phase, s.frequency, s.amplitude = 0, 0, 0
	s.pending = s.pending[:0]
	return nil
}

func (s *Sine) SetSampleRate(rate int) error {
	if rate <= 0 {
		return fmt.Errorf("invalid sample rate %d", rate)
	}
	s.sampleRate = float64(rate)
	s.ready = true
	return nil
}

// ProcessEvents queues events for the next block. Only note-on messages
// are acted on; a zero velocity note-on silences the oscillator.
func (s *Sine) ProcessEvents(events []midi.NoteEvent) error {
	s.pending = append(s.pending, events...)
	s.delivered = append(s.delivered, events...)
	return nil
}

// Process renders one block into every output. Queued events take effect
// at their frame offset.
func (s *Sine) Process(view audio.View) error {
	if !s.ready {
		return ErrNotInitialized
	}
	if len(view.Outputs) != outputs {
		return fmt.Errorf("view has %d outputs, instrument has %d", len(view.Outputs), outputs)
	}

	next := 0
	for i := range view.Frames {
		for next < len(s.pending) && int(s.pending[next].Offset) <= i {
			s.apply(s.pending[next])
			next++
		}

		v := float32(math.Sin(2*math.Pi*s.phase) * s.amplitude)
		for _, ch := range view.Outputs {
			ch[i] = v
		}

		s.phase += s.frequency / s.sampleRate
		s.phase -= math.Floor(s.phase)
	}
	// Offsets past the end of the block take effect from the next one.
	for ; next < len(s.pending); next++ {
		s.apply(s.pending[next])
	}
	s.pending = s.pending[:0]
	return nil
}

func (s *Sine) apply(ev midi.NoteEvent) {
	if ev.Status&0xF0 != 0x90 {
		return
	}
	if ev.Velocity == 0 {
		s.amplitude = 0
		return
	}
	s.frequency = Frequency(ev.Pitch)
	s.amplitude = Amplitude(ev.Velocity)
}

// Delivered returns every event received since creation.
func (s *Sine) Delivered() []midi.NoteEvent {
	return s.delivered
}

// Playing returns the current oscillator frequency and level.
func (s *Sine) Playing() (frequency, amplitude float64) {
	return s.frequency, s.amplitude
}

func (s *Sine) Close() error {
	s.closed = true
	s.ready = false
	return nil
}
