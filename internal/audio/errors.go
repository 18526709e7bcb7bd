// SPDX-License-Identifier: MIT
package audio

import "errors"

var (
	// ErrIO marks a failure creating or writing the output stream. A
	// partially written file may be left behind.
	ErrIO = errors.New("output stream failure")

	// ErrLayout marks a plugin that cannot feed the output stream's channels.
	ErrLayout = errors.New("channel layout mismatch")

	// ErrFinalized is returned when writing to or finalizing a stream that
	// was already finalized.
	ErrFinalized = errors.New("output stream already finalized")

	// ErrProcess wraps any failure reported by the plugin.
	ErrProcess = errors.New("plugin failure")

	ErrNotRecording = errors.New("not recording")
	ErrRecording    = errors.New("already recording")
)
