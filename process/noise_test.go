package process

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-proc/internal/testutil"
	"github.com/cwbudde/algo-proc/process/dists"
	"github.com/cwbudde/algo-proc/process/synapse"
)

func TestBrownNoiseIsCumulativeSum(t *testing.T) {
	const (
		dt    = 0.001
		d     = 3
		steps = 200
		seed  = 17
	)
	b, err := NewBrownNoise(nil)
	if err != nil {
		t.Fatalf("NewBrownNoise() error = %v", err)
	}
	rows, err := RunSteps(b, d, steps, dt, NewRNG(seed))
	if err != nil {
		t.Fatalf("RunSteps() error = %v", err)
	}

	// Replay the same draw sequence: the output must be the running sum of
	// the dt-weighted, 1/sqrt(dt)-scaled increments.
	rng := NewRNG(seed)
	gauss := dists.Gaussian{Mean: 0, Std: 1}
	alpha := 1 / math.Sqrt(dt)
	want := make([]float64, d)
	for k := 0; k < steps; k++ {
		x := gauss.Sample(1, d, rng)
		for i := range want {
			want[i] += dt * alpha * x[i]
		}
		testutil.RequireSliceNearlyEqual(t, rows[k], want, 1e-9)
	}
}

func TestFilteredNoiseDefaultLowpass(t *testing.T) {
	const (
		dt   = 0.001
		tau  = 0.005
		seed = 23
	)
	f, err := NewFilteredNoise(nil, nil)
	if err != nil {
		t.Fatalf("NewFilteredNoise() error = %v", err)
	}
	rows, err := RunSteps(f, 2, 100, dt, NewRNG(seed))
	if err != nil {
		t.Fatalf("RunSteps() error = %v", err)
	}

	rng := NewRNG(seed)
	gauss := dists.Gaussian{Mean: 0, Std: 1}
	alpha := 1 / math.Sqrt(dt)
	a := math.Exp(-dt / tau)
	y := make([]float64, 2)
	for k := range rows {
		x := gauss.Sample(1, 2, rng)
		for i := range y {
			y[i] = a*y[i] + (1-a)*alpha*x[i]
		}
		testutil.RequireSliceNearlyEqual(t, rows[k], y, 1e-9)
	}
}

func TestFilteredNoiseUnscaled(t *testing.T) {
	const (
		dt   = 0.004
		seed = 5
	)
	f, err := NewFilteredNoise(nil, nil)
	if err != nil {
		t.Fatalf("NewFilteredNoise() error = %v", err)
	}
	f.Scale = false
	rows, err := RunSteps(f, 1, 50, dt, NewRNG(seed))
	if err != nil {
		t.Fatalf("RunSteps() error = %v", err)
	}

	rng := NewRNG(seed)
	gauss := dists.Gaussian{Mean: 0, Std: 1}
	a := math.Exp(-dt / 0.005)
	y := 0.0
	for k := range rows {
		x := gauss.Sample(1, 1, rng)
		y = a*y + (1-a)*x[0]
		testutil.RequireNear(t, rows[k][0], y, 1e-9)
	}
}

func TestFilteredNoiseCustomFilterOptions(t *testing.T) {
	const (
		dt   = 0.001
		seed = 31
	)
	f, err := NewFilteredNoise(synapse.Integrator(), nil)
	if err != nil {
		t.Fatalf("NewFilteredNoise() error = %v", err)
	}
	f.FilterOpts = []synapse.StepOption{synapse.WithMethod(synapse.MethodEuler)}

	rows, err := RunSteps(f, 1, 50, dt, NewRNG(seed))
	if err != nil {
		t.Fatalf("RunSteps() error = %v", err)
	}

	b, err := NewBrownNoise(nil)
	if err != nil {
		t.Fatalf("NewBrownNoise() error = %v", err)
	}
	brown, err := RunSteps(b, 1, 50, dt, NewRNG(seed))
	if err != nil {
		t.Fatalf("RunSteps() error = %v", err)
	}
	for k := range rows {
		testutil.RequireSliceNearlyEqual(t, rows[k], brown[k], 0)
	}
}

func TestFilteredNoiseDeterministic(t *testing.T) {
	f, err := NewFilteredNoise(nil, dists.Gaussian{Mean: 0, Std: 0.5})
	if err != nil {
		t.Fatalf("NewFilteredNoise() error = %v", err)
	}
	a, err := RunSteps(f, 4, 25, 0.001, NewRNG(2))
	if err != nil {
		t.Fatalf("RunSteps() error = %v", err)
	}
	b, err := RunSteps(f, 4, 25, 0.001, NewRNG(2))
	if err != nil {
		t.Fatalf("RunSteps() error = %v", err)
	}
	for i := range a {
		testutil.RequireSliceNearlyEqual(t, a[i], b[i], 0)
	}
}

func TestFilteredNoiseRejectsInvalidConfig(t *testing.T) {
	if _, err := NewFilteredNoise(nil, dists.Gaussian{Std: -1}); err == nil {
		t.Fatal("expected invalid distribution to fail construction")
	}
	bad := &synapse.LinearFilter{Num: []float64{1}, Den: nil}
	if _, err := NewFilteredNoise(bad, nil); err == nil {
		t.Fatal("expected invalid filter to fail construction")
	}
}
