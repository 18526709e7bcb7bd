// SPDX-License-Identifier: MIT
package audio

import "vsthost/internal/midi"

// Info describes a plugin instance as declared by the plugin itself.
type Info struct {
	Name    string
	Vendor  string
	Inputs  int // Declared audio input channels
	Outputs int // Declared audio output channels
	Params  int
}

// Plugin is the capability a render session drives. Implementations wrap
// an opaque processor and must not retain slices from a View past the
// call that supplied it.
type Plugin interface {
	// Info reports the declared channel layout.
	Info() Info

	// Init prepares the instance for processing.
	Init() error

	// SetSampleRate configures the rate the instance renders at.
	SetSampleRate(rate int) error

	// ProcessEvents delivers a batch of events for the next Process call.
	ProcessEvents(events []midi.NoteEvent) error

	// Process fills view.Outputs in place for one block.
	Process(view View) error

	// Close tears the instance down.
	Close() error
}
