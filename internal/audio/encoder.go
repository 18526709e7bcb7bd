// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"vsthost/internal/config"
)

// pcmFormat is the WAVE audio format tag for integer PCM.
const pcmFormat = 1

// Quantize scales a sample in [-1, 1] to the signed 16-bit range and
// truncates toward zero. Values outside the nominal range are not clamped;
// they wrap when the encoder narrows them to 16 bits.
func Quantize(s float32) int {
	return int(float64(s) * math.MaxInt16)
}

// Encoder appends frame-interleaved 16-bit PCM to a WAV file. The header
// layout is fixed at creation.
type Encoder struct {
	file       *os.File
	wavEncoder *wav.Encoder
	sampleBuf  *audio.IntBuffer // Reusable buffer for format conversion

	channels   int
	sampleRate int
	frames     int64
	finalized  bool
}

// NewEncoder creates (or truncates) path and writes a WAV header for
// channels at sampleRate, 16 bits per sample.
func NewEncoder(path string, channels, sampleRate int) (*Encoder, error) {
	if channels < 1 {
		return nil, fmt.Errorf("%w: encoder needs at least one channel", ErrLayout)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	e := &Encoder{
		file:       file,
		wavEncoder: wav.NewEncoder(file, sampleRate, config.BitDepth, channels, pcmFormat),
		sampleBuf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: channels,
				SampleRate:  sampleRate,
			},
			SourceBitDepth: config.BitDepth,
		},
		channels:   channels,
		sampleRate: sampleRate,
	}

	// An empty write emits the header and opens the data chunk, so a
	// session with no blocks still finalizes to a valid file.
	e.sampleBuf.Data = make([]int, 0, config.DefaultBlockSize*channels)
	if err := e.wavEncoder.Write(e.sampleBuf); err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: write header: %w", ErrIO, err)
	}

	return e, nil
}

// WriteFrame appends one stereo frame, left then right.
func (e *Encoder) WriteFrame(left, right float32) error {
	if e.channels != 2 {
		return fmt.Errorf("%w: WriteFrame needs a 2 channel stream, have %d", ErrLayout, e.channels)
	}
	if e.finalized {
		return ErrFinalized
	}

	e.sampleBuf.Data = append(e.sampleBuf.Data[:0], Quantize(left), Quantize(right))
	return e.flush(1)
}

// WriteBlock interleaves the first Channels() of channels frame by frame
// and appends them. Every channel must have the same length; extra
// channels are ignored.
func (e *Encoder) WriteBlock(channels [][]float32) error {
	if e.finalized {
		return ErrFinalized
	}
	if len(channels) < e.channels {
		return fmt.Errorf("%w: block has %d channels, stream needs %d", ErrLayout, len(channels), e.channels)
	}

	frames := len(channels[0])
	data := e.sampleBuf.Data[:0]
	for i := range frames {
		for c := range e.channels {
			data = append(data, Quantize(channels[c][i]))
		}
	}
	e.sampleBuf.Data = data

	return e.flush(frames)
}

func (e *Encoder) flush(frames int) error {
	if err := e.wavEncoder.Write(e.sampleBuf); err != nil {
		return fmt.Errorf("%w: write samples: %w", ErrIO, err)
	}
	e.frames += int64(frames)
	return nil
}

// Close finalizes the header sizes and closes the file. It must be called
// exactly once; later calls return ErrFinalized without touching the file.
func (e *Encoder) Close() error {
	if e.finalized {
		return ErrFinalized
	}
	e.finalized = true

	if err := e.wavEncoder.Close(); err != nil {
		e.file.Close()
		return fmt.Errorf("%w: finalize: %w", ErrIO, err)
	}
	if err := e.file.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", ErrIO, err)
	}
	return nil
}

// Frames returns the number of frames written so far.
func (e *Encoder) Frames() int64 {
	return e.frames
}

// Channels returns the stream channel count.
func (e *Encoder) Channels() int {
	return e.channels
}

// SampleRate returns the stream sample rate.
func (e *Encoder) SampleRate() int {
	return e.sampleRate
}
