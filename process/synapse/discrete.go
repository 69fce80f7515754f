package synapse

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Method selects the discretization scheme used to compile a continuous-time
// filter for a concrete timestep.
type Method int

const (
	// MethodZOH discretizes by zero-order hold via the matrix exponential.
	// This is the default and is exact for piecewise-constant input.
	MethodZOH Method = iota

	// MethodEuler discretizes by the explicit forward Euler rule
	// Ad = I + dt*A, Bd = dt*B.
	MethodEuler
)

func (m Method) String() string {
	switch m {
	case MethodZOH:
		return "zoh"
	case MethodEuler:
		return "euler"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

type stepConfig struct {
	method Method
}

// StepOption configures filter compilation.
type StepOption func(*stepConfig)

// WithMethod selects the discretization method.
func WithMethod(m Method) StepOption {
	return func(cfg *stepConfig) {
		cfg.method = m
	}
}

// FilterStep is a compiled stateful filter. It advances one discrete state
// vector per signal dimension on each call to Step; calls must be made in
// increasing-time order, and the step must not be shared between streams.
type FilterStep struct {
	ad *mat.Dense
	bd *mat.VecDense
	c  *mat.VecDense
	d  float64

	order int
	dims  int

	state []*mat.VecDense
	tmp   *mat.VecDense
	out   []float64
}

// MakeStep compiles the filter for the given signal size and timestep.
// sizeIn and sizeOut must match: the filter is applied elementwise.
func (f *LinearFilter) MakeStep(sizeIn, sizeOut int, dt float64, opts ...StepOption) (*FilterStep, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if sizeIn != sizeOut {
		return nil, fmt.Errorf("%w: %d != %d", ErrSizeMismatch, sizeIn, sizeOut)
	}
	if sizeOut < 1 {
		return nil, fmt.Errorf("synapse: size must be >= 1, got %d", sizeOut)
	}
	if dt <= 0 {
		return nil, fmt.Errorf("%w, got %g", ErrInvalidTimestep, dt)
	}

	cfg := stepConfig{method: MethodZOH}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	a, b, c, d := f.stateSpace()
	n := f.Order()

	fs := &FilterStep{d: d, order: n, dims: sizeOut, out: make([]float64, sizeOut)}
	if n == 0 {
		// Pure gain, no state.
		return fs, nil
	}

	switch cfg.method {
	case MethodZOH:
		fs.ad, fs.bd = discretizeZOH(a, b, dt)
	case MethodEuler:
		fs.ad, fs.bd = discretizeEuler(a, b, dt)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMethod, cfg.method)
	}

	fs.c = mat.NewVecDense(n, c)
	fs.tmp = mat.NewVecDense(n, nil)
	fs.state = make([]*mat.VecDense, sizeOut)
	for i := range fs.state {
		fs.state[i] = mat.NewVecDense(n, nil)
	}
	return fs, nil
}

// stateSpace converts the transfer function to controllable canonical form
// x' = A x + B u, y = C x + D u, with B = e1. Coefficients are normalized so
// the denominator is monic.
func (f *LinearFilter) stateSpace() (a *mat.Dense, b []float64, c []float64, d float64) {
	n := f.Order()
	den := make([]float64, len(f.Den))
	for i, v := range f.Den {
		den[i] = v / f.Den[0]
	}

	// Numerator padded with leading zeros to denominator length.
	num := make([]float64, n+1)
	for i, v := range f.Num {
		num[n+1-len(f.Num)+i] = v / f.Den[0]
	}

	d = num[0]
	if n == 0 {
		return nil, nil, nil, d
	}

	a = mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		a.Set(0, j, -den[j+1])
	}
	for i := 1; i < n; i++ {
		a.Set(i, i-1, 1)
	}

	b = make([]float64, n)
	b[0] = 1

	c = make([]float64, n)
	for i := 0; i < n; i++ {
		c[i] = num[i+1] - d*den[i+1]
	}
	return a, b, c, d
}

// discretizeZOH computes Ad, Bd from the matrix exponential of the augmented
// block matrix [[A*dt, B*dt], [0, 0]].
func discretizeZOH(a *mat.Dense, b []float64, dt float64) (*mat.Dense, *mat.VecDense) {
	n, _ := a.Dims()
	m := mat.NewDense(n+1, n+1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.Set(i, j, dt*a.At(i, j))
		}
		m.Set(i, n, dt*b[i])
	}

	var e mat.Dense
	e.Exp(m)

	ad := mat.DenseCopyOf(e.Slice(0, n, 0, n))
	bd := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		bd.SetVec(i, e.At(i, n))
	}
	return ad, bd
}

// discretizeEuler computes Ad = I + dt*A, Bd = dt*B.
func discretizeEuler(a *mat.Dense, b []float64, dt float64) (*mat.Dense, *mat.VecDense) {
	n, _ := a.Dims()
	ad := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := dt * a.At(i, j)
			if i == j {
				v++
			}
			ad.Set(i, j, v)
		}
	}
	bd := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		bd.SetVec(i, dt*b[i])
	}
	return ad, bd
}

// Step advances the filter by one timestep and returns the filtered sample.
// The input length must equal the compiled size. The returned slice is reused
// between calls.
func (s *FilterStep) Step(t float64, u []float64) []float64 {
	_ = t // time is implicit in call order

	if s.order == 0 {
		for i, ui := range u {
			s.out[i] = s.d * ui
		}
		return s.out
	}

	for i, ui := range u {
		x := s.state[i]
		s.tmp.MulVec(s.ad, x)
		s.tmp.AddScaledVec(s.tmp, ui, s.bd)
		x.CopyVec(s.tmp)
		s.out[i] = mat.Dot(s.c, x) + s.d*ui
	}
	return s.out
}

// Size returns the signal dimensionality the step was compiled for.
func (s *FilterStep) Size() int { return s.dims }

// Order returns the state order per dimension.
func (s *FilterStep) Order() int { return s.order }

// Reset clears all state vectors to zero.
func (s *FilterStep) Reset() {
	for _, x := range s.state {
		x.Zero()
	}
}

// State returns a copy of the per-dimension state vectors.
func (s *FilterStep) State() [][]float64 {
	out := make([][]float64, s.dims)
	for i := range out {
		row := make([]float64, s.order)
		if s.order > 0 {
			copy(row, s.state[i].RawVector().Data)
		}
		out[i] = row
	}
	return out
}

// SetState restores state previously captured with [FilterStep.State].
func (s *FilterStep) SetState(state [][]float64) error {
	if len(state) != s.dims {
		return fmt.Errorf("synapse: state has %d dimensions, want %d", len(state), s.dims)
	}
	for i, row := range state {
		if len(row) != s.order {
			return fmt.Errorf("synapse: state[%d] has order %d, want %d", i, len(row), s.order)
		}
		for j, v := range row {
			s.state[i].SetVec(j, v)
		}
	}
	return nil
}
