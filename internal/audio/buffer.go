// SPDX-License-Identifier: MIT
package audio

import "fmt"

// View is the per-call handle passed to Plugin.Process. Its channel slices
// alias storage owned by the Binder that produced it.
type View struct {
	Inputs  [][]float32
	Outputs [][]float32
	Frames  int
}

// Binder owns the host side channel buffers of a session. Storage is
// allocated once, zeroed, and reused for every block.
type Binder struct {
	frames  int
	inputs  [][]float32
	outputs [][]float32

	// Scratch headers handed out by Bind so a plugin reslicing its view
	// cannot disturb the owned headers.
	inView  [][]float32
	outView [][]float32
}

// NewBinder allocates inputs and outputs channel arrays of frames samples
// each. Negative counts or a non-positive frame count panic.
func NewBinder(inputs, outputs, frames int) *Binder {
	if inputs < 0 || outputs < 0 || frames <= 0 {
		panic(fmt.Sprintf("audio: invalid binder layout %d in / %d out / %d frames", inputs, outputs, frames))
	}

	b := &Binder{
		frames:  frames,
		inputs:  allocChannels(inputs, frames),
		outputs: allocChannels(outputs, frames),
		inView:  make([][]float32, inputs),
		outView: make([][]float32, outputs),
	}
	return b
}

// allocChannels carves n channels out of one contiguous allocation.
func allocChannels(n, frames int) [][]float32 {
	storage := make([]float32, n*frames)
	channels := make([][]float32, n)
	for i := range channels {
		channels[i] = storage[i*frames : (i+1)*frames : (i+1)*frames]
	}
	return channels
}

// MustMatch panics unless the binder layout equals the declared plugin
// layout.
func (b *Binder) MustMatch(info Info) {
	if len(b.inputs) != info.Inputs || len(b.outputs) != info.Outputs {
		panic(fmt.Sprintf("audio: binder layout %d/%d does not match plugin %q layout %d/%d",
			len(b.inputs), len(b.outputs), info.Name, info.Inputs, info.Outputs))
	}
}

// Bind returns the view for the next Process call. The view is only valid
// until the next Bind.
func (b *Binder) Bind() View {
	copy(b.inView, b.inputs)
	copy(b.outView, b.outputs)
	return View{
		Inputs:  b.inView,
		Outputs: b.outView,
		Frames:  b.frames,
	}
}

// Outputs returns the owned output channels, read by the encoder after
// each Process call.
func (b *Binder) Outputs() [][]float32 {
	return b.outputs
}

// Inputs returns the owned input channels.
func (b *Binder) Inputs() [][]float32 {
	return b.inputs
}

// Frames returns the block length.
func (b *Binder) Frames() int {
	return b.frames
}
