package synapse

import (
	"errors"
	"fmt"
)

// Errors returned by filter validation and compilation.
var (
	ErrNoDenominator       = errors.New("synapse: denominator must not be empty")
	ErrNoNumerator         = errors.New("synapse: numerator must not be empty")
	ErrLeadingZero         = errors.New("synapse: leading denominator coefficient must be nonzero")
	ErrImproper            = errors.New("synapse: numerator order must not exceed denominator order")
	ErrInvalidTimeConstant = errors.New("synapse: time constant must be > 0")
	ErrInvalidTimestep     = errors.New("synapse: timestep must be > 0")
	ErrUnknownMethod       = errors.New("synapse: unknown discretization method")
	ErrSizeMismatch        = errors.New("synapse: filter input and output sizes must match")
)

// LinearFilter is a continuous-time linear filter described by the transfer
// function
//
//	H(s) = (Num[0]*s^(m-1) + ... + Num[m-1]) / (Den[0]*s^(n-1) + ... + Den[n-1])
//
// The filter must be proper: len(Num) <= len(Den).
type LinearFilter struct {
	Num []float64
	Den []float64
}

// NewLinearFilter returns a validated filter for the given transfer function
// coefficients, highest order first.
func NewLinearFilter(num, den []float64) (*LinearFilter, error) {
	f := &LinearFilter{Num: num, Den: den}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Lowpass returns a first-order lowpass filter 1/(tau*s + 1).
func Lowpass(tau float64) (*LinearFilter, error) {
	if tau <= 0 {
		return nil, fmt.Errorf("%w, got %g", ErrInvalidTimeConstant, tau)
	}
	return &LinearFilter{Num: []float64{1}, Den: []float64{tau, 1}}, nil
}

// Alpha returns a second-order alpha filter 1/(tau*s + 1)^2. Its impulse
// response is (t/tau^2)*exp(-t/tau), a smoothed version of the lowpass.
func Alpha(tau float64) (*LinearFilter, error) {
	if tau <= 0 {
		return nil, fmt.Errorf("%w, got %g", ErrInvalidTimeConstant, tau)
	}
	return &LinearFilter{Num: []float64{1}, Den: []float64{tau * tau, 2 * tau, 1}}, nil
}

// Integrator returns the pure integrator 1/s. Combined with the forward Euler
// method this accumulates the running sum of dt-weighted inputs.
func Integrator() *LinearFilter {
	return &LinearFilter{Num: []float64{1}, Den: []float64{1, 0}}
}

// Validate checks the transfer function coefficients.
func (f *LinearFilter) Validate() error {
	if len(f.Den) == 0 {
		return ErrNoDenominator
	}
	if len(f.Num) == 0 {
		return ErrNoNumerator
	}
	if f.Den[0] == 0 {
		return ErrLeadingZero
	}
	if len(f.Num) > len(f.Den) {
		return fmt.Errorf("%w: %d > %d", ErrImproper, len(f.Num), len(f.Den))
	}
	return nil
}

// Order returns the state order of the filter (denominator order).
func (f *LinearFilter) Order() int {
	return len(f.Den) - 1
}

func (f *LinearFilter) String() string {
	return fmt.Sprintf("LinearFilter(num=%v, den=%v)", f.Num, f.Den)
}
