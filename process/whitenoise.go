package process

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/cwbudde/algo-proc/process/dists"
)

// WhiteNoise is a full-spectrum white noise process. Every step draws a fresh
// independent sample from Dist, ignoring the time argument.
//
// When Scale is set (the default), samples are multiplied by 1/sqrt(dt).
// Integrating discrete-time white noise with step dt requires compensating by
// sqrt(dt) so the variance of the integrated process does not depend on the
// choice of dt (the Euler-Maruyama scaling for a Wiener process).
type WhiteNoise struct {
	Dist  dists.Distribution // nil means the standard normal
	Scale bool
	Seed  uint64
}

// NewWhiteNoise returns a validated white noise process with scaling enabled.
func NewWhiteNoise(dist dists.Distribution) (*WhiteNoise, error) {
	w := &WhiteNoise{Dist: dist, Scale: true}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Validate checks the configured distribution.
func (w *WhiteNoise) Validate() error {
	if w.Dist == nil {
		return nil
	}
	if err := w.Dist.Validate(); err != nil {
		return validationErrorf("WhiteNoise", "Dist", "%v", err)
	}
	return nil
}

func (w *WhiteNoise) dist() dists.Distribution {
	if w.Dist == nil {
		return dists.Gaussian{Mean: 0, Std: 1}
	}
	return w.Dist
}

// SizeIn returns 0: white noise is a pure generator.
func (w *WhiteNoise) SizeIn() int { return 0 }

// SizeOut returns the default output dimensionality. Any size is accepted at
// compile time.
func (w *WhiteNoise) SizeOut() int { return 1 }

// MakeStep compiles the process. The returned step allocates a fresh sample
// on every call and keeps no state beyond the shared generator.
func (w *WhiteNoise) MakeStep(sizeIn, sizeOut int, dt float64, rng *rand.Rand) (Step, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if err := checkShapes("WhiteNoise", sizeIn, sizeOut, dt); err != nil {
		return nil, err
	}

	dist := w.dist()
	scale := w.Scale
	alpha := 1 / math.Sqrt(dt)

	return func(t float64) []float64 {
		x := dist.Sample(1, sizeOut, rng)
		if scale {
			for i := range x {
				x[i] *= alpha
			}
		}
		return x
	}, nil
}
