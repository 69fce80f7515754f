package process

import (
	"golang.org/x/exp/rand"
)

// PresentInput presents a series of fixed inputs, each for the same amount of
// simulation time, cycling through the table indefinitely.
type PresentInput struct {
	// Inputs holds one flattened input per row. All rows must have the same
	// nonzero length.
	Inputs [][]float64

	// PresentationTime is how long each input is shown, in seconds.
	PresentationTime float64

	// Seed is unused: input presentation is fully deterministic. The field
	// exists for configuration uniformity with the stochastic generators.
	Seed uint64
}

// NewPresentInput returns a validated input-presentation process.
func NewPresentInput(inputs [][]float64, presentationTime float64) (*PresentInput, error) {
	p := &PresentInput{Inputs: inputs, PresentationTime: presentationTime}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the input table and presentation time.
func (p *PresentInput) Validate() error {
	if len(p.Inputs) == 0 {
		return validationErrorf("PresentInput", "Inputs", "must not be empty")
	}
	d := len(p.Inputs[0])
	if d == 0 {
		return validationErrorf("PresentInput", "Inputs", "rows must not be empty")
	}
	for i, row := range p.Inputs {
		if len(row) != d {
			return validationErrorf("PresentInput", "Inputs",
				"row %d has length %d, want %d", i, len(row), d)
		}
	}
	if p.PresentationTime <= 0 {
		return validationErrorf("PresentInput", "PresentationTime",
			"must be > 0, got %g", p.PresentationTime)
	}
	return nil
}

// SizeIn returns 0: input presentation is a pure generator.
func (p *PresentInput) SizeIn() int { return 0 }

// SizeOut returns the flattened length of one input.
func (p *PresentInput) SizeOut() int {
	if len(p.Inputs) == 0 {
		return 0
	}
	return len(p.Inputs[0])
}

// MakeStep compiles the process. The step computes the presentation index
// from (t-dt)/PresentationTime with a small tolerance absorbing float
// round-off at exact boundaries, and returns the matching table row.
func (p *PresentInput) MakeStep(sizeIn, sizeOut int, dt float64, rng *rand.Rand) (Step, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := checkShapes("PresentInput", sizeIn, sizeOut, dt); err != nil {
		return nil, err
	}
	if sizeOut != p.SizeOut() {
		return nil, validationErrorf("PresentInput", "sizeOut",
			"must match the input size %d, got %d", p.SizeOut(), sizeOut)
	}

	const epsilon = 1e-7
	inputs := p.Inputs
	n := len(inputs)
	pt := p.PresentationTime

	return func(t float64) []float64 {
		i := int((t-dt)/pt+epsilon) % n
		if i < 0 {
			i += n
		}
		return inputs[i]
	}, nil
}
