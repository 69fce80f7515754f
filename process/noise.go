package process

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/cwbudde/algo-proc/process/dists"
	"github.com/cwbudde/algo-proc/process/synapse"
)

// FilteredNoise passes white noise through a compiled linear filter. Each step
// draws one sample from Dist, applies the optional 1/sqrt(dt) scale (see
// [WhiteNoise]), and feeds it through the filter's stateful step function.
//
// The compiled step owns mutable filter state and is single-pass: it must be
// called with increasing time values only.
type FilteredNoise struct {
	Synapse    *synapse.LinearFilter // nil means Lowpass(0.005)
	Dist       dists.Distribution    // nil means the standard normal
	Scale      bool
	FilterOpts []synapse.StepOption // extra filter compile options
	Seed       uint64
}

// NewFilteredNoise returns a validated filtered noise process with scaling
// enabled.
func NewFilteredNoise(syn *synapse.LinearFilter, dist dists.Distribution) (*FilteredNoise, error) {
	f := &FilteredNoise{Synapse: syn, Dist: dist, Scale: true}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks the configured filter and distribution.
func (f *FilteredNoise) Validate() error {
	if f.Synapse != nil {
		if err := f.Synapse.Validate(); err != nil {
			return validationErrorf("FilteredNoise", "Synapse", "%v", err)
		}
	}
	if f.Dist != nil {
		if err := f.Dist.Validate(); err != nil {
			return validationErrorf("FilteredNoise", "Dist", "%v", err)
		}
	}
	return nil
}

func (f *FilteredNoise) synapseOrDefault() (*synapse.LinearFilter, error) {
	if f.Synapse != nil {
		return f.Synapse, nil
	}
	return synapse.Lowpass(0.005)
}

func (f *FilteredNoise) dist() dists.Distribution {
	if f.Dist == nil {
		return dists.Gaussian{Mean: 0, Std: 1}
	}
	return f.Dist
}

// SizeIn returns 0: filtered noise is a pure generator.
func (f *FilteredNoise) SizeIn() int { return 0 }

// SizeOut returns the default output dimensionality. Any size is accepted at
// compile time.
func (f *FilteredNoise) SizeOut() int { return 1 }

// MakeStep compiles the process: the filter is compiled once for the output
// size and timestep, and each call to the step draws, scales, and filters one
// sample.
func (f *FilteredNoise) MakeStep(sizeIn, sizeOut int, dt float64, rng *rand.Rand) (Step, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := checkShapes("FilteredNoise", sizeIn, sizeOut, dt); err != nil {
		return nil, err
	}

	syn, err := f.synapseOrDefault()
	if err != nil {
		return nil, err
	}
	fs, err := syn.MakeStep(sizeOut, sizeOut, dt, f.FilterOpts...)
	if err != nil {
		return nil, err
	}

	dist := f.dist()
	scale := f.Scale
	alpha := 1 / math.Sqrt(dt)

	return func(t float64) []float64 {
		x := dist.Sample(1, sizeOut, rng)
		if scale {
			for i := range x {
				x[i] *= alpha
			}
		}
		return fs.Step(t, x)
	}, nil
}

// BrownNoise is brown noise (Brownian noise, red noise): the integral of
// white noise, a discrete approximation of a Wiener process. It is
// [FilteredNoise] specialized with a pure integrator compiled by the explicit
// forward Euler rule, so the output is the running sum of dt-weighted scaled
// white noise increments.
type BrownNoise struct {
	FilteredNoise
}

// NewBrownNoise returns a validated brown noise process.
func NewBrownNoise(dist dists.Distribution) (*BrownNoise, error) {
	b := &BrownNoise{FilteredNoise{
		Synapse:    synapse.Integrator(),
		Dist:       dist,
		Scale:      true,
		FilterOpts: []synapse.StepOption{synapse.WithMethod(synapse.MethodEuler)},
	}}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}
