package synapse

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-proc/internal/testutil"
)

func TestValidateRejectsBadCoefficients(t *testing.T) {
	cases := []struct {
		name string
		num  []float64
		den  []float64
		want error
	}{
		{"empty denominator", []float64{1}, nil, ErrNoDenominator},
		{"empty numerator", nil, []float64{1, 1}, ErrNoNumerator},
		{"leading zero", []float64{1}, []float64{0, 1}, ErrLeadingZero},
		{"improper", []float64{1, 0, 0}, []float64{1, 1}, ErrImproper},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLinearFilter(tc.num, tc.den)
			if !errors.Is(err, tc.want) {
				t.Fatalf("NewLinearFilter() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestConvenienceConstructors(t *testing.T) {
	if _, err := Lowpass(0); !errors.Is(err, ErrInvalidTimeConstant) {
		t.Fatalf("Lowpass(0) error = %v, want %v", err, ErrInvalidTimeConstant)
	}
	if _, err := Alpha(-1); !errors.Is(err, ErrInvalidTimeConstant) {
		t.Fatalf("Alpha(-1) error = %v, want %v", err, ErrInvalidTimeConstant)
	}

	lp, err := Lowpass(0.005)
	if err != nil {
		t.Fatalf("Lowpass() error = %v", err)
	}
	if lp.Order() != 1 {
		t.Fatalf("lowpass order = %d, want 1", lp.Order())
	}

	al, err := Alpha(0.005)
	if err != nil {
		t.Fatalf("Alpha() error = %v", err)
	}
	if al.Order() != 2 {
		t.Fatalf("alpha order = %d, want 2", al.Order())
	}

	if Integrator().Order() != 1 {
		t.Fatal("integrator order != 1")
	}
}

func TestMakeStepRejectsBadShapes(t *testing.T) {
	lp, err := Lowpass(0.005)
	if err != nil {
		t.Fatalf("Lowpass() error = %v", err)
	}
	if _, err := lp.MakeStep(1, 2, 0.001); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("size mismatch error = %v, want %v", err, ErrSizeMismatch)
	}
	if _, err := lp.MakeStep(1, 1, 0); !errors.Is(err, ErrInvalidTimestep) {
		t.Fatalf("zero dt error = %v, want %v", err, ErrInvalidTimestep)
	}
}

func TestIntegratorEulerAccumulates(t *testing.T) {
	const dt = 0.001
	fs, err := Integrator().MakeStep(1, 1, dt, WithMethod(MethodEuler))
	if err != nil {
		t.Fatalf("MakeStep() error = %v", err)
	}

	inputs := []float64{1, -2, 3, 0.5, -0.25}
	sum := 0.0
	for k, u := range inputs {
		got := fs.Step(float64(k+1)*dt, []float64{u})
		sum += dt * u
		testutil.RequireNear(t, got[0], sum, 1e-12)
	}
}

func TestLowpassZOHClosedForm(t *testing.T) {
	const (
		tau = 0.02
		dt  = 0.001
	)
	lp, err := Lowpass(tau)
	if err != nil {
		t.Fatalf("Lowpass() error = %v", err)
	}
	fs, err := lp.MakeStep(1, 1, dt)
	if err != nil {
		t.Fatalf("MakeStep() error = %v", err)
	}

	a := math.Exp(-dt / tau)
	inputs := []float64{1, 1, 1, -1, 0.5, 0, 2, -3}
	y := 0.0
	for k, u := range inputs {
		got := fs.Step(float64(k+1)*dt, []float64{u})
		y = a*y + (1-a)*u
		testutil.RequireNear(t, got[0], y, 1e-12)
	}
}

func TestDiscretizationMethodsDiffer(t *testing.T) {
	const (
		tau = 0.02
		dt  = 0.005
	)
	lp, err := Lowpass(tau)
	if err != nil {
		t.Fatalf("Lowpass() error = %v", err)
	}
	zoh, err := lp.MakeStep(1, 1, dt)
	if err != nil {
		t.Fatalf("MakeStep(zoh) error = %v", err)
	}
	euler, err := lp.MakeStep(1, 1, dt, WithMethod(MethodEuler))
	if err != nil {
		t.Fatalf("MakeStep(euler) error = %v", err)
	}

	yz := zoh.Step(dt, []float64{1})[0]
	ye := euler.Step(dt, []float64{1})[0]
	if yz == ye {
		t.Fatalf("zoh and euler first samples identical: %v", yz)
	}
	// Euler response to a unit step after one sample is dt/tau.
	testutil.RequireNear(t, ye, dt/tau, 1e-12)
	testutil.RequireNear(t, yz, 1-math.Exp(-dt/tau), 1e-12)
}

func TestPureGain(t *testing.T) {
	f, err := NewLinearFilter([]float64{2}, []float64{4})
	if err != nil {
		t.Fatalf("NewLinearFilter() error = %v", err)
	}
	fs, err := f.MakeStep(3, 3, 0.001)
	if err != nil {
		t.Fatalf("MakeStep() error = %v", err)
	}
	if fs.Order() != 0 {
		t.Fatalf("order = %d, want 0", fs.Order())
	}
	got := fs.Step(0.001, []float64{1, -2, 4})
	testutil.RequireSliceNearlyEqual(t, got, []float64{0.5, -1, 2}, 1e-15)
}

func TestResetRestoresZeroState(t *testing.T) {
	lp, err := Lowpass(0.01)
	if err != nil {
		t.Fatalf("Lowpass() error = %v", err)
	}
	fs, err := lp.MakeStep(2, 2, 0.001)
	if err != nil {
		t.Fatalf("MakeStep() error = %v", err)
	}

	first := append([]float64(nil), fs.Step(0.001, []float64{1, -1})...)
	fs.Step(0.002, []float64{2, 0.5})

	fs.Reset()
	again := fs.Step(0.001, []float64{1, -1})
	testutil.RequireSliceNearlyEqual(t, again, first, 1e-15)
}

func TestStateRoundTrip(t *testing.T) {
	al, err := Alpha(0.01)
	if err != nil {
		t.Fatalf("Alpha() error = %v", err)
	}
	fs, err := al.MakeStep(1, 1, 0.001)
	if err != nil {
		t.Fatalf("MakeStep() error = %v", err)
	}

	fs.Step(0.001, []float64{1})
	fs.Step(0.002, []float64{-2})
	saved := fs.State()
	if len(saved) != 1 || len(saved[0]) != 2 {
		t.Fatalf("state shape = %dx%d, want 1x2", len(saved), len(saved[0]))
	}

	want := append([]float64(nil), fs.Step(0.003, []float64{0.5})...)

	if err := fs.SetState(saved); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}
	got := fs.Step(0.003, []float64{0.5})
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-15)

	if err := fs.SetState([][]float64{{1}}); err == nil {
		t.Fatal("SetState with wrong order should fail")
	}
	if err := fs.SetState(nil); err == nil {
		t.Fatal("SetState with wrong dimensionality should fail")
	}
}
