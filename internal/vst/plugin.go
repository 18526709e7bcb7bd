// SPDX-License-Identifier: MIT
package vst

import (
	"bytes"
	"errors"
	"fmt"
	"unsafe"

	"pipelined.dev/audio/vst2"
	"pipelined.dev/signal"

	"vsthost/internal/audio"
	"vsthost/internal/log"
	"vsthost/internal/midi"
)

// instance is the part of *vst2.Plugin the adapter drives.
type instance interface {
	Dispatch(opcode vst2.PluginOpcode, index int32, value int64, ptr unsafe.Pointer, opt float32) uintptr
	NumParams() int
	SetBufferSize(bufferSize int)
	SetSampleRate(sampleRate signal.Frequency)
	Start()
	Resume()
	Suspend()
	ProcessFloat(in, out vst2.FloatBuffer)
	Close()
}

var _ instance = (*vst2.Plugin)(nil)

// Plugin adapts a VST2 instance to audio.Plugin. Audio crosses into the
// plugin through C allocated buffers owned by the adapter, so host slices
// never leave the Process call that supplied them.
type Plugin struct {
	plugin instance
	unload func() error
	info   audio.Info
	frames int

	in, out       vst2.FloatBuffer
	inSig, outSig signal.Floating

	// Event batch handed to the plugin. It must stay valid until the
	// following ProcessFloat returns.
	pending *vst2.EventsPtr

	started bool
	closed  bool
}

var _ audio.Plugin = (*Plugin)(nil)

// newPlugin wraps p for blocks of frames samples. unload runs after the
// instance is closed.
func newPlugin(name string, p instance, inputs, outputs, frames int, unload func() error) *Plugin {
	var vendor [maxHostStringLen]byte
	p.Dispatch(vst2.PlugGetVendorString, 0, 0, unsafe.Pointer(&vendor[0]), 0)

	vp := &Plugin{
		plugin: p,
		unload: unload,
		info: audio.Info{
			Name:    name,
			Vendor:  string(bytes.TrimRight(vendor[:], "\x00")),
			Inputs:  inputs,
			Outputs: outputs,
			Params:  p.NumParams(),
		},
		frames: frames,
		// ProcessFloat takes the address of the first channel, so an
		// instrument without inputs still gets one silent channel.
		in:     vst2.NewFloatBuffer(max(inputs, 1), frames),
		out:    vst2.NewFloatBuffer(outputs, frames),
		outSig: signal.Allocator{Channels: outputs, Length: frames, Capacity: frames}.Float32(),
	}
	if inputs > 0 {
		vp.inSig = signal.Allocator{Channels: inputs, Length: frames, Capacity: frames}.Float32()
	}
	return vp
}

func (p *Plugin) Info() audio.Info {
	return p.info
}

// Init declares the block size, opens the plugin and resumes processing.
func (p *Plugin) Init() error {
	if p.closed {
		return errors.New("plugin closed")
	}
	p.plugin.SetBufferSize(p.frames)
	p.plugin.Start()
	p.plugin.Resume()
	p.started = true
	return nil
}

func (p *Plugin) SetSampleRate(rate int) error {
	if rate <= 0 {
		return fmt.Errorf("invalid sample rate %d", rate)
	}
	p.plugin.SetSampleRate(signal.Frequency(rate))
	return nil
}

// ProcessEvents hands events to the plugin for the next block. The batch
// is released once that block has been processed.
func (p *Plugin) ProcessEvents(events []midi.NoteEvent) error {
	if len(events) == 0 {
		return nil
	}
	p.releaseEvents()
	p.pending = newEvents(events)
	p.plugin.Dispatch(vst2.PlugProcessEvents, 0, 0, unsafe.Pointer(p.pending), 0)
	return nil
}

// newEvents copies events into a C allocated batch. The caller frees it.
func newEvents(events []midi.NoteEvent) *vst2.EventsPtr {
	batch := make([]vst2.Event, len(events))
	for i, ev := range events {
		batch[i] = &vst2.MIDIEvent{
			Data:        ev.Bytes(),
			DeltaFrames: ev.Offset,
		}
	}
	return vst2.Events(batch...)
}

// Process copies the host inputs into the plugin buffers, runs one block
// and copies the plugin outputs back into the view.
func (p *Plugin) Process(view audio.View) error {
	if p.closed {
		return errors.New("plugin closed")
	}
	if view.Frames != p.frames {
		return fmt.Errorf("block of %d frames, plugin was started with %d", view.Frames, p.frames)
	}
	if len(view.Inputs) != p.info.Inputs || len(view.Outputs) != p.info.Outputs {
		return fmt.Errorf("view layout %d/%d, plugin has %d/%d",
			len(view.Inputs), len(view.Outputs), p.info.Inputs, p.info.Outputs)
	}

	if p.info.Inputs > 0 {
		for c, ch := range view.Inputs {
			for i, s := range ch {
				p.inSig.SetSample(p.inSig.BufferIndex(c, i), float64(s))
			}
		}
		p.in.Write(p.inSig)
	}

	p.plugin.ProcessFloat(p.in, p.out)
	p.releaseEvents()

	p.out.Read(p.outSig)
	for c, ch := range view.Outputs {
		for i := range ch {
			ch[i] = float32(p.outSig.Sample(p.outSig.BufferIndex(c, i)))
		}
	}
	return nil
}

func (p *Plugin) releaseEvents() {
	if p.pending != nil {
		p.pending.Free()
		p.pending = nil
	}
}

// Close stops the plugin, frees the adapter buffers and unloads the binary.
func (p *Plugin) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	if p.started {
		p.plugin.Suspend()
	}
	p.releaseEvents()
	p.plugin.Close()
	p.in.Free()
	p.out.Free()
	log.Debugf("Plugin %q closed", p.info.Name)

	if p.unload == nil {
		return nil
	}
	return p.unload()
}
