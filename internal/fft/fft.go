// SPDX-License-Identifier: MIT
package fft

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"

	"vsthost/pkg/bitint"
	"vsthost/pkg/utils"
)

// Summary describes the signal an Analyzer has seen.
type Summary struct {
	Frames     int64
	Peak       float64 // Largest absolute sample
	RMS        float64 // Root mean square over every frame
	DominantHz float64 // Strongest bin of the most recent block, 0 if it was silent
}

// Workspace holds pre-allocated buffers for FFT calculations.
type Workspace struct {
	input     []float64    // ...for real input samples (zero padded, windowed)
	fftOutput []complex128 // ...for FFT complex output
	magnitude []float64    // ...for magnitude output
	window    []float64    // ...for Hann window coefficients
}

// Analyzer accumulates level statistics over rendered blocks and tracks
// the dominant frequency of the latest one.
type Analyzer struct {
	fftSize    int
	sampleRate float64
	workspace  Workspace
	fftObj     *fourier.FFT

	frames     int64
	peak       float64
	sumSquares float64
	dominantHz float64
}

// NewAnalyzer creates an analyzer for blocks of up to blockSize frames.
// The transform size is blockSize rounded up to a power of 2.
func NewAnalyzer(blockSize int, sampleRate float64) *Analyzer {
	fftSize := bitint.NextPowerOfTwo(blockSize)
	if !bitint.IsPowerOfTwo(fftSize) {
		panic("FFT size must be a power of 2")
	}

	coeffs := make([]float64, fftSize)
	for i := range coeffs {
		coeffs[i] = 1
	}
	window.Hann(coeffs)

	outputSize := fftSize/2 + 1

	return &Analyzer{
		fftSize:    fftSize,
		sampleRate: sampleRate,
		fftObj:     fourier.NewFFT(fftSize),
		workspace: Workspace{
			input:     make([]float64, fftSize),
			fftOutput: make([]complex128, outputSize),
			magnitude: make([]float64, outputSize),
			window:    coeffs,
		},
	}
}

// Process folds block into the running statistics and re-estimates the
// dominant frequency. Blocks longer than the transform size are truncated
// for the spectrum but still counted in the level statistics.
func (a *Analyzer) Process(block []float32) {
	if len(block) == 0 {
		return
	}

	var blockPeak float64
	for _, s := range block {
		v := math.Abs(float64(s))
		a.sumSquares += v * v
		if v > blockPeak {
			blockPeak = v
		}
	}
	a.frames += int64(len(block))
	a.peak = math.Max(a.peak, blockPeak)

	if blockPeak == 0 {
		a.dominantHz = 0
		return
	}

	in := a.workspace.input
	for i := range in {
		if i < len(block) {
			in[i] = float64(block[i])
		} else {
			in[i] = 0
		}
	}
	floats.Mul(in, a.workspace.window)

	_ = a.fftObj.Coefficients(a.workspace.fftOutput, in)
	for i, c := range a.workspace.fftOutput {
		a.workspace.magnitude[i] = cmplx.Abs(c)
	}

	// Bin 0 is DC and never a pitch.
	bin := utils.FindPeakBin(a.workspace.magnitude, 1, len(a.workspace.magnitude)-1)
	a.dominantHz = a.GetFrequencyBin(bin)
}

// Summary returns the statistics gathered so far.
func (a *Analyzer) Summary() Summary {
	s := Summary{
		Frames:     a.frames,
		Peak:       a.peak,
		DominantHz: a.dominantHz,
	}
	if a.frames > 0 {
		s.RMS = math.Sqrt(a.sumSquares / float64(a.frames))
	}
	return s
}

// Magnitudes returns the spectrum of the latest non-silent block. The
// slice is reused by the next Process call.
func (a *Analyzer) Magnitudes() []float64 {
	return a.workspace.magnitude
}

// GetFrequencyBin returns the frequency in Hz for a given FFT bin index.
func (a *Analyzer) GetFrequencyBin(i int) float64 {
	if i < 0 || i >= len(a.workspace.fftOutput) {
		return 0
	}
	return a.fftObj.Freq(i) * a.sampleRate
}

// Size returns the transform size.
func (a *Analyzer) Size() int {
	return a.fftSize
}
