// Package psd estimates one-sided power spectra of generated signals.
//
// It is the measurement counterpart of the process generators: tests and
// callers use it to check band limits and signal power of a realization.
package psd

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"
)

// Errors returned by spectrum estimation.
var (
	ErrEmptySignal       = errors.New("psd: signal must not be empty")
	ErrInvalidSampleRate = errors.New("psd: sample rate must be > 0")
	ErrLengthMismatch    = errors.New("psd: power and frequency grids must match")
)

// Periodogram returns the one-sided squared-magnitude spectrum of signal and
// the matching frequency grid in Hz. The signal is zero-padded to the next
// power of two; when the input length already is one, the result is the exact
// DFT of the signal.
func Periodogram(signal []float64, sampleRate float64) (power, freqs []float64, err error) {
	if len(signal) == 0 {
		return nil, nil, ErrEmptySignal
	}
	if sampleRate <= 0 {
		return nil, nil, fmt.Errorf("%w, got %g", ErrInvalidSampleRate, sampleRate)
	}

	fftSize := nextPowerOf2(len(signal))
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, nil, fmt.Errorf("psd: failed to create FFT plan: %w", err)
	}

	padded := make([]complex128, fftSize)
	for i, v := range signal {
		padded[i] = complex(v, 0)
	}
	spectrum := make([]complex128, fftSize)
	if err := plan.Forward(spectrum, padded); err != nil {
		return nil, nil, fmt.Errorf("psd: forward FFT failed: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := 0; i < bins; i++ {
		re[i] = real(spectrum[i])
		im[i] = imag(spectrum[i])
	}

	power = make([]float64, bins)
	vecmath.Power(power, re, im)

	freqs = make([]float64, bins)
	for i := range freqs {
		freqs[i] = float64(i) * sampleRate / float64(fftSize)
	}
	return power, freqs, nil
}

// BandPower splits a one-sided power spectrum at the cutoff frequency and
// returns the total power at and below the cutoff and the total power above
// it.
func BandPower(power, freqs []float64, cutoff float64) (below, above float64, err error) {
	if len(power) != len(freqs) {
		return 0, 0, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(power), len(freqs))
	}
	for i, p := range power {
		if freqs[i] > cutoff {
			above += p
		} else {
			below += p
		}
	}
	return below, above, nil
}

// RMS returns the root-mean-square value of signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	sq := make([]float64, len(signal))
	vecmath.MulBlock(sq, signal, signal)
	sum := 0.0
	for _, v := range sq {
		sum += v
	}
	return math.Sqrt(sum / float64(len(signal)))
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
