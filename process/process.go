package process

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

// Step is a compiled stepping function mapping simulation time to an output
// value vector. The returned slice may be reused or point into precomputed
// storage; callers that retain values across calls must copy them.
type Step func(t float64) []float64

// Process is a validated signal-generator configuration that can be compiled
// into a stepping function. It is the single polymorphism point of this
// package; every generator implements it.
//
// All processes here are pure generators: SizeIn is always zero and MakeStep
// rejects any other input size. SizeOut reports the default output
// dimensionality; variants without an intrinsic dimensionality (the noise
// generators and WhiteSignal) report 1 and accept any size at compile time.
type Process interface {
	SizeIn() int
	SizeOut() int

	// MakeStep compiles the process for one simulation run. The generator is
	// owned by the returned step and must not be shared with other steps.
	MakeStep(sizeIn, sizeOut int, dt float64, rng *rand.Rand) (Step, error)
}

// ValidationError reports a violated configuration invariant. It carries the
// owning configuration type and the offending attribute for diagnostics.
type ValidationError struct {
	Obj  string // configuration type, e.g. "WhiteSignal"
	Attr string // offending attribute, e.g. "High"
	Msg  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("process: %s.%s: %s", e.Obj, e.Attr, e.Msg)
}

func validationErrorf(obj, attr, format string, args ...any) *ValidationError {
	return &ValidationError{Obj: obj, Attr: attr, Msg: fmt.Sprintf(format, args...)}
}

// NewRNG returns the dedicated pseudo-random generator for a process compile.
// One generator per compiled step; its sequence position is part of the
// reproducibility contract and it must not be called concurrently.
func NewRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// checkShapes validates the common MakeStep contract shared by all variants.
func checkShapes(obj string, sizeIn, sizeOut int, dt float64) error {
	if sizeIn != 0 {
		return validationErrorf(obj, "sizeIn", "pure generators take no input, got size %d", sizeIn)
	}
	if sizeOut < 1 {
		return validationErrorf(obj, "sizeOut", "must be >= 1, got %d", sizeOut)
	}
	if dt <= 0 {
		return validationErrorf(obj, "dt", "must be > 0, got %g", dt)
	}
	return nil
}

// Trange returns the simulation time grid t = dt, 2*dt, ..., steps*dt.
// Time starts at dt, not zero: step k reports the state after k timesteps.
func Trange(steps int, dt float64) []float64 {
	if steps <= 0 {
		return nil
	}
	out := make([]float64, steps)
	for i := range out {
		out[i] = float64(i+1) * dt
	}
	return out
}

// RunSteps compiles p and evaluates it over the grid returned by [Trange].
// Each row of the result is an independent copy of the step output.
func RunSteps(p Process, sizeOut, steps int, dt float64, rng *rand.Rand) ([][]float64, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("process: steps must be > 0, got %d", steps)
	}
	step, err := p.MakeStep(0, sizeOut, dt, rng)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, steps)
	for i := range out {
		v := step(float64(i+1) * dt)
		row := make([]float64, len(v))
		copy(row, v)
		out[i] = row
	}
	return out, nil
}

// Run compiles p and evaluates it for simTime seconds of simulation,
// rounding to the nearest whole number of timesteps.
func Run(p Process, sizeOut int, simTime, dt float64, rng *rand.Rand) ([][]float64, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("process: dt must be > 0, got %g", dt)
	}
	steps := int(math.Round(simTime / dt))
	return RunSteps(p, sizeOut, steps, dt, rng)
}
