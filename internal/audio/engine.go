// SPDX-License-Identifier: MIT
/*
Package audio implements the host side of a plugin render session:
- Binder owns the channel buffers the plugin processes in place
- Encoder writes the rendered output as 16-bit PCM WAV
- Engine drives event delivery, block processing and encoding

Execution Model:
- Single-threaded and blocking; every call completes before the next begins
- Buffers are allocated once per session and reused every block
- The render goroutine is locked to its OS thread for the session
- Any failure is fatal and ends the session
*/
package audio

import (
	"errors"
	"fmt"
	"runtime"

	"vsthost/internal/config"
	"vsthost/internal/fft"
	"vsthost/internal/log"
	"vsthost/internal/midi"
)

// Report summarizes a finished render.
type Report struct {
	Blocks int
	Frames int64
	Events int
	Output fft.Summary
}

type Engine struct {
	// Core configuration and state.
	config *config.Config
	info   Info

	// Plugin and its host owned buffers.
	plugin Plugin
	binder *Binder

	// Event scheduling.
	scheduler *midi.Scheduler
	batch     []midi.NoteEvent // Reusable single event batch

	// Output analysis of the first output channel.
	analyzer *fft.Analyzer

	// Recording state.
	encoder *Encoder
	events  int
	closed  bool
}

// NewEngine initializes plugin, configures its sample rate and allocates
// the session buffers for its declared layout. The engine takes ownership
// of plugin: it is closed by Close, or immediately if setup fails.
func NewEngine(cfg *config.Config, plugin Plugin, scheduler *midi.Scheduler) (*Engine, error) {
	info := plugin.Info()
	log.Infof("Plugin %q by %q: %d inputs, %d outputs, %d parameters",
		info.Name, info.Vendor, info.Inputs, info.Outputs, info.Params)

	if info.Outputs < cfg.Output.Channels {
		plugin.Close()
		return nil, fmt.Errorf("%w: plugin %q has %d outputs, output stream needs %d",
			ErrLayout, info.Name, info.Outputs, cfg.Output.Channels)
	}
	if info.Outputs > cfg.Output.Channels {
		log.Warnf("Plugin %q has %d outputs; only the first %d are written",
			info.Name, info.Outputs, cfg.Output.Channels)
	}

	if err := plugin.Init(); err != nil {
		plugin.Close()
		return nil, fmt.Errorf("%w: init: %w", ErrProcess, err)
	}
	if err := plugin.SetSampleRate(cfg.Render.SampleRate); err != nil {
		plugin.Close()
		return nil, fmt.Errorf("%w: set sample rate %d: %w", ErrProcess, cfg.Render.SampleRate, err)
	}

	binder := NewBinder(info.Inputs, info.Outputs, cfg.Render.BlockSize)
	binder.MustMatch(info)

	return &Engine{
		config:    cfg,
		info:      info,
		plugin:    plugin,
		binder:    binder,
		scheduler: scheduler,
		batch:     make([]midi.NoteEvent, 1),
		analyzer:  fft.NewAnalyzer(cfg.Render.BlockSize, float64(cfg.Render.SampleRate)),
	}, nil
}

// StartRecording opens the output stream. The file is truncated if it
// already exists.
func (e *Engine) StartRecording(filename string) error {
	if e.encoder != nil {
		return ErrRecording
	}

	encoder, err := NewEncoder(filename, e.config.Output.Channels, e.config.Render.SampleRate)
	if err != nil {
		return err
	}
	e.encoder = encoder
	return nil
}

// StopRecording finalizes the output stream.
func (e *Engine) StopRecording() error {
	if e.encoder == nil {
		return nil
	}
	err := e.encoder.Close()
	e.encoder = nil
	return err
}

// Run renders totalBlocks blocks into the open output stream. For each
// block it delivers the next scheduled event when the block is a tick,
// processes the block and encodes the outputs. The first error aborts the
// render.
func (e *Engine) Run(totalBlocks int) (Report, error) {
	if e.encoder == nil {
		return Report{}, ErrNotRecording
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var report Report
	for block := range totalBlocks {
		if err := e.processBlock(block); err != nil {
			report.Blocks = block
			report.Frames = e.encoder.Frames()
			report.Events = e.events
			return report, fmt.Errorf("block %d: %w", block, err)
		}
	}

	report.Blocks = totalBlocks
	report.Frames = e.encoder.Frames()
	report.Events = e.events
	report.Output = e.analyzer.Summary()
	return report, nil
}

// processBlock runs one iteration of the render loop.
func (e *Engine) processBlock(block int) error {
	if e.scheduler.Due(block) {
		e.batch[0] = e.scheduler.Next()
		log.Debugf("Block %d: delivering %s", block, e.batch[0])
		if err := e.plugin.ProcessEvents(e.batch); err != nil {
			return fmt.Errorf("%w: process events: %w", ErrProcess, err)
		}
		e.events++
	}

	if err := e.plugin.Process(e.binder.Bind()); err != nil {
		return fmt.Errorf("%w: process: %w", ErrProcess, err)
	}

	outputs := e.binder.Outputs()
	if err := e.encoder.WriteBlock(outputs); err != nil {
		return err
	}
	e.analyzer.Process(outputs[0])
	return nil
}

// Close finalizes recording if active and tears the plugin down. It is
// safe to call more than once.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	recErr := e.StopRecording()
	if errors.Is(recErr, ErrFinalized) {
		recErr = nil
	}
	return errors.Join(recErr, e.plugin.Close())
}

// Info returns the plugin layout the session was bound to.
func (e *Engine) Info() Info {
	return e.info
}

// Binder returns the session buffers.
func (e *Engine) Binder() *Binder {
	return e.binder
}
