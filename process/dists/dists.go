// Package dists provides the probability distributions that stochastic
// processes draw their samples from.
//
// Sampling is deterministic given the generator state: the same seed always
// yields the same sequence. All distributions delegate to gonum's distuv
// samplers with an explicit source.
package dists

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Errors returned by distribution validation.
var (
	ErrInvalidStd    = errors.New("dists: standard deviation must be > 0")
	ErrInvalidBounds = errors.New("dists: lower bound must be below upper bound")
)

// Distribution draws independent, identically distributed samples using an
// explicit generator. Sample returns n*d values in row-major order: row i of
// an (n, d) draw occupies out[i*d : (i+1)*d].
type Distribution interface {
	Validate() error
	Sample(n, d int, rng *rand.Rand) []float64
}

// Gaussian is a normal distribution with the given mean and standard
// deviation.
type Gaussian struct {
	Mean float64
	Std  float64
}

// NewGaussian returns a validated Gaussian distribution.
func NewGaussian(mean, std float64) (Gaussian, error) {
	g := Gaussian{Mean: mean, Std: std}
	if err := g.Validate(); err != nil {
		return Gaussian{}, err
	}
	return g, nil
}

// Validate checks the distribution parameters.
func (g Gaussian) Validate() error {
	if g.Std <= 0 {
		return fmt.Errorf("%w, got %g", ErrInvalidStd, g.Std)
	}
	return nil
}

// Sample draws n*d normal values.
func (g Gaussian) Sample(n, d int, rng *rand.Rand) []float64 {
	normal := distuv.Normal{Mu: g.Mean, Sigma: g.Std, Src: rng}
	out := make([]float64, n*d)
	for i := range out {
		out[i] = normal.Rand()
	}
	return out
}

// Uniform is a uniform distribution on the half-open interval [Low, High).
type Uniform struct {
	Low  float64
	High float64
}

// NewUniform returns a validated Uniform distribution.
func NewUniform(low, high float64) (Uniform, error) {
	u := Uniform{Low: low, High: high}
	if err := u.Validate(); err != nil {
		return Uniform{}, err
	}
	return u, nil
}

// Validate checks the distribution parameters.
func (u Uniform) Validate() error {
	if u.Low >= u.High {
		return fmt.Errorf("%w, got [%g, %g)", ErrInvalidBounds, u.Low, u.High)
	}
	return nil
}

// Sample draws n*d uniform values.
func (u Uniform) Sample(n, d int, rng *rand.Rand) []float64 {
	uni := distuv.Uniform{Min: u.Low, Max: u.High, Src: rng}
	out := make([]float64, n*d)
	for i := range out {
		out[i] = uni.Rand()
	}
	return out
}
