// SPDX-License-Identifier: MIT
package vst

import "errors"

var (
	// ErrLoad marks a plugin path that is missing or is not a loadable
	// VST2 binary.
	ErrLoad = errors.New("failed to load plugin")

	// ErrInstance marks a loaded binary that failed to create an instance.
	ErrInstance = errors.New("failed to create plugin instance")

	// ErrCallbackMisuse is the panic value raised when a plugin invokes a
	// host capability this host does not provide.
	ErrCallbackMisuse = errors.New("unsupported host callback")
)
