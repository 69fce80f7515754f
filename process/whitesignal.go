package process

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat/distuv"
)

// WhiteSignal is an ideal low-pass filtered white noise process. The signal is
// constructed in the frequency domain to have equal power at every frequency
// below High and no power above it.
//
// The construction makes the signal naturally periodic with period Period:
// it can be evaluated beyond its period while staying continuous with
// continuous derivatives across the wrap point, unlike naively looped noise.
// Compilation materializes one full period; stepping is a pure O(1) lookup.
type WhiteSignal struct {
	// Period is the repetition interval of the signal in seconds.
	Period float64

	// High is the cut-off frequency in Hz. It must be at least 1/Period
	// (checked at construction) and at most the Nyquist frequency 0.5/dt
	// (checked at compile time, since dt is unknown earlier).
	High float64

	// RMS is the target root-mean-square power of the signal.
	RMS float64

	// PhaseAnchor, when set, rolls each output dimension so its value at the
	// first simulation instant t = dt is the sample closest in absolute value
	// to the anchor.
	PhaseAnchor *float64

	Seed uint64
}

// NewWhiteSignal returns a validated white signal process with the default
// RMS of 0.5.
func NewWhiteSignal(period, high float64) (*WhiteSignal, error) {
	w := &WhiteSignal{Period: period, High: high, RMS: 0.5}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Validate checks all configuration invariants that do not depend on dt.
func (w *WhiteSignal) Validate() error {
	if w.Period <= 0 {
		return validationErrorf("WhiteSignal", "Period", "must be > 0, got %g", w.Period)
	}
	if w.High <= 0 {
		return validationErrorf("WhiteSignal", "High", "must be > 0, got %g", w.High)
	}
	if w.RMS <= 0 {
		return validationErrorf("WhiteSignal", "RMS", "must be > 0, got %g", w.RMS)
	}
	if w.High < 1/w.Period {
		return validationErrorf("WhiteSignal", "High",
			"must be >= 1/Period (%g) to produce a non-zero signal, got %g", 1/w.Period, w.High)
	}
	return nil
}

// SizeIn returns 0: the signal is a pure generator.
func (w *WhiteSignal) SizeIn() int { return 0 }

// SizeOut returns the default output dimensionality. Any size is accepted at
// compile time; dimensions are independent realizations.
func (w *WhiteSignal) SizeOut() int { return 1 }

// MakeStep synthesizes one period of the signal and returns a lookup step.
//
// Per output dimension, n+1 complex coefficients (n = ceil(Period/dt/2)) are
// drawn with independent normal real and imaginary parts of standard
// deviation RMS*sqrt(1/2). The DC coefficient and the Nyquist imaginary part
// are forced to zero, coefficients above High are suppressed, the survivors
// are rescaled to preserve total power, and the inverse real FFT yields the
// time-domain period.
func (w *WhiteSignal) MakeStep(sizeIn, sizeOut int, dt float64, rng *rand.Rand) (Step, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if err := checkShapes("WhiteSignal", sizeIn, sizeOut, dt); err != nil {
		return nil, err
	}
	nyquist := 0.5 / dt
	if w.High > nyquist {
		return nil, validationErrorf("WhiteSignal", "High",
			"must not exceed the Nyquist frequency %g for dt=%g, got %g", nyquist, dt, w.High)
	}

	n := int(math.Ceil(w.Period / dt / 2))
	length := 2 * n
	sigma := w.RMS * math.Sqrt(0.5)
	normal := distuv.Normal{Mu: 0, Sigma: sigma, Src: rng}

	coeffs := make([][]complex128, sizeOut)
	for d := range coeffs {
		c := make([]complex128, n+1)
		for k := range c {
			c[k] = complex(normal.Rand(), normal.Rand())
		}
		c[0] = 0
		c[n] = complex(real(c[n]), 0)
		coeffs[d] = c
	}

	// Suppress everything above the cutoff on the real-FFT frequency grid
	// f_k = k / (length*dt).
	zeroed := 0
	for k := 0; k <= n; k++ {
		if float64(k)/(float64(length)*dt) > w.High {
			zeroed++
			for d := range coeffs {
				coeffs[d][k] = 0
			}
		}
	}

	// Rescale the surviving coefficients so total power still matches RMS,
	// and fold in the inverse-transform normalization sqrt(length).
	scale := math.Sqrt(float64(length))
	if correction := math.Sqrt(1 - float64(zeroed)/float64(n)); correction > 0 {
		scale /= correction
	}

	fft := fourier.NewFFT(length)
	inv := 1 / float64(length) // Sequence computes the unnormalized inverse
	buf := make([]float64, length)

	signal := make([][]float64, length)
	for i := range signal {
		signal[i] = make([]float64, sizeOut)
	}

	for d := 0; d < sizeOut; d++ {
		c := coeffs[d]
		for k := range c {
			c[k] *= complex(scale, 0)
		}
		fft.Sequence(buf, c)
		for i := range buf {
			buf[i] *= inv
		}

		// Roll so the sample closest to the anchor lands at index 1,
		// which is where time t = dt reads from.
		shift := 0
		if w.PhaseAnchor != nil {
			shift = nearestIndex(buf, *w.PhaseAnchor) - 1
		}
		for i := range buf {
			signal[i][d] = buf[((i+shift)%length+length)%length]
		}
	}

	return func(t float64) []float64 {
		i := int(math.Round(t/dt)) % length
		if i < 0 {
			i += length
		}
		return signal[i]
	}, nil
}

// nearestIndex returns the index of the value closest to target in absolute
// difference. Ties keep the earliest index.
func nearestIndex(values []float64, target float64) int {
	best := 0
	bestDiff := math.Abs(target - values[0])
	for i, v := range values[1:] {
		if diff := math.Abs(target - v); diff < bestDiff {
			best = i + 1
			bestDiff = diff
		}
	}
	return best
}
