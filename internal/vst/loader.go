// SPDX-License-Identifier: MIT
/*
Package vst hosts VST2 binaries through pipelined.dev/audio/vst2.

Load opens the binary and Loader.Instance creates the plugin, which
implements audio.Plugin. The Callback answers every query the plugin makes
of the host during loading and processing.
*/
package vst

import (
	"errors"
	"fmt"
	"os"

	"pipelined.dev/audio/vst2"

	"vsthost/internal/log"
)

// Loader holds an opened plugin binary.
type Loader struct {
	path     string
	vst      *vst2.VST
	callback *Callback
}

// Load opens the VST2 binary at path. Every plugin instance created from the
// loader calls back into cb.
func Load(path string, cb *Callback) (*Loader, error) {
	if cb == nil {
		return nil, fmt.Errorf("%w: %s: no host callback", ErrLoad, path)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	log.Infof("Loading %s...", path)
	v, err := vst2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}

	return &Loader{path: path, vst: v, callback: cb}, nil
}

// Instance creates a plugin instance driven with the given channel layout.
// VST2 binaries do not report their layout before they are started, so the
// host declares it.
func (l *Loader) Instance(inputs, outputs int) (*Plugin, error) {
	if inputs < 0 || outputs < 1 {
		return nil, fmt.Errorf("%w: %s: invalid layout %d/%d", ErrInstance, l.path, inputs, outputs)
	}

	p := l.vst.Plugin(l.callback.Dispatch)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrInstance, l.path)
	}

	return newPlugin(l.Name(), p, inputs, outputs, l.callback.blockSize, l.Close), nil
}

// Name is the name the binary was opened under.
func (l *Loader) Name() string {
	return l.vst.Name
}

// Close unloads the binary. Instances must be closed first.
func (l *Loader) Close() error {
	if l.vst == nil {
		return errors.New("loader already closed")
	}
	err := l.vst.Close()
	l.vst = nil
	return err
}
