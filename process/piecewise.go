package process

import (
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/interp"
)

// Interpolation selects how a [Piecewise] process resolves values between
// breakpoints.
type Interpolation int

const (
	// Hold returns the most recent breakpoint's value without blending
	// (zero-order hold). Before the first breakpoint the output is zero.
	Hold Interpolation = iota

	// Linear blends linearly between neighboring breakpoints.
	Linear

	// Nearest returns the value of the closest breakpoint.
	Nearest

	// SLinear is a first-order spline, identical to Linear.
	SLinear

	// Quadratic fits a local second-order polynomial through the three
	// breakpoints around the query.
	Quadratic

	// Cubic fits a natural cubic spline through all breakpoints.
	Cubic
)

func (i Interpolation) String() string {
	switch i {
	case Hold:
		return "hold"
	case Linear:
		return "linear"
	case Nearest:
		return "nearest"
	case SLinear:
		return "slinear"
	case Quadratic:
		return "quadratic"
	case Cubic:
		return "cubic"
	}
	return "unknown"
}

// Piecewise presents breakpoint data as a function of time.
//
// In Hold mode, a breakpoint becomes active at the simulation step nearest
// its time point: the active breakpoint at time t is the last one with
// timePoint <= t + dt/2. A breakpoint lying exactly half a step ahead of t is
// therefore already active (the comparison is inclusive on the left).
//
// All other modes interpolate over the breakpoints, require one-dimensional
// values, and return zero outside the breakpoint range (no extrapolation).
type Piecewise struct {
	// Times and Values hold one breakpoint per index in any order; MakeStep
	// sorts a copy by time. All value rows have the same length.
	Times  []float64
	Values [][]float64

	Interpolation Interpolation

	// Seed is unused: piecewise data is fully deterministic. The field exists
	// for configuration uniformity with the stochastic generators.
	Seed uint64
}

// NewPiecewise returns a validated piecewise process over parallel time and
// value slices. The breakpoints are sorted by time internally.
func NewPiecewise(times []float64, values [][]float64, kind Interpolation) (*Piecewise, error) {
	p := &Piecewise{
		Times:         append([]float64(nil), times...),
		Values:        append([][]float64(nil), values...),
		Interpolation: kind,
	}
	sort.Sort(byTime{p.Times, p.Values})
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewPiecewiseMap is a convenience constructor from a time-to-value mapping.
func NewPiecewiseMap(data map[float64][]float64, kind Interpolation) (*Piecewise, error) {
	times := make([]float64, 0, len(data))
	for t := range data {
		times = append(times, t)
	}
	sort.Float64s(times)
	values := make([][]float64, len(times))
	for i, t := range times {
		values[i] = data[t]
	}
	return NewPiecewise(times, values, kind)
}

type byTime struct {
	times  []float64
	values [][]float64
}

func (b byTime) Len() int           { return len(b.times) }
func (b byTime) Less(i, j int) bool { return b.times[i] < b.times[j] }
func (b byTime) Swap(i, j int) {
	b.times[i], b.times[j] = b.times[j], b.times[i]
	if i < len(b.values) && j < len(b.values) {
		b.values[i], b.values[j] = b.values[j], b.values[i]
	}
}

// Validate checks breakpoint consistency and interpolation support.
func (p *Piecewise) Validate() error {
	if len(p.Times) == 0 {
		return validationErrorf("Piecewise", "Times", "must not be empty")
	}
	if len(p.Times) != len(p.Values) {
		return validationErrorf("Piecewise", "Values",
			"length %d must equal the number of time points %d", len(p.Values), len(p.Times))
	}
	d := len(p.Values[0])
	if d == 0 {
		return validationErrorf("Piecewise", "Values", "rows must not be empty")
	}
	for i, row := range p.Values {
		if len(row) != d {
			return validationErrorf("Piecewise", "Values",
				"row %d has length %d, want %d", i, len(row), d)
		}
	}

	if p.Interpolation == Hold {
		return nil
	}
	if d != 1 {
		return validationErrorf("Piecewise", "Interpolation",
			"%v interpolation is only supported for 1-dimensional values, got %d", p.Interpolation, d)
	}
	for i := 1; i < len(p.Times); i++ {
		if p.Times[i] == p.Times[i-1] {
			return validationErrorf("Piecewise", "Times",
				"must be distinct for %v interpolation, got %g twice", p.Interpolation, p.Times[i])
		}
	}
	if _, err := p.predictor(); err != nil {
		return err
	}
	return nil
}

// predictor returns the interpolation backend for the configured kind.
func (p *Piecewise) predictor() (interp.FittablePredictor, error) {
	switch p.Interpolation {
	case Linear, SLinear:
		return &interp.PiecewiseLinear{}, nil
	case Cubic:
		return &interp.NaturalCubic{}, nil
	case Nearest:
		return &nearestPredictor{}, nil
	case Quadratic:
		return &quadraticPredictor{}, nil
	}
	return nil, validationErrorf("Piecewise", "Interpolation",
		"no interpolation backend for %v", p.Interpolation)
}

// SizeIn returns 0: piecewise data is a pure generator.
func (p *Piecewise) SizeIn() int { return 0 }

// SizeOut returns the value dimensionality.
func (p *Piecewise) SizeOut() int {
	if len(p.Values) == 0 {
		return 0
	}
	return len(p.Values[0])
}

// MakeStep compiles the process. The breakpoints are sorted on a copy, so
// struct-literal configurations behave like constructed ones and p itself is
// never mutated. Hold mode binary-searches the sorted breakpoints per call;
// interpolated modes fit the backend once and evaluate it directly.
func (p *Piecewise) MakeStep(sizeIn, sizeOut int, dt float64, rng *rand.Rand) (Step, error) {
	sorted := &Piecewise{
		Times:         append([]float64(nil), p.Times...),
		Values:        append([][]float64(nil), p.Values...),
		Interpolation: p.Interpolation,
	}
	sort.Sort(byTime{sorted.Times, sorted.Values})
	if err := sorted.Validate(); err != nil {
		return nil, err
	}
	if err := checkShapes("Piecewise", sizeIn, sizeOut, dt); err != nil {
		return nil, err
	}
	if sizeOut != sorted.SizeOut() {
		return nil, validationErrorf("Piecewise", "sizeOut",
			"must match the value size %d, got %d", sorted.SizeOut(), sizeOut)
	}

	if p.Interpolation == Hold {
		times := sorted.Times
		values := sorted.Values
		zero := make([]float64, sizeOut)
		half := 0.5 * dt

		return func(t float64) []float64 {
			i := sort.Search(len(times), func(k int) bool { return times[k] > t+half }) - 1
			if i < 0 {
				return zero
			}
			return values[i]
		}, nil
	}

	pred, err := sorted.predictor()
	if err != nil {
		return nil, err
	}
	ys := make([]float64, len(sorted.Values))
	for i, row := range sorted.Values {
		ys[i] = row[0]
	}
	if err := pred.Fit(sorted.Times, ys); err != nil {
		return nil, validationErrorf("Piecewise", "Interpolation",
			"%v backend rejected the breakpoints: %v", p.Interpolation, err)
	}

	tMin := sorted.Times[0]
	tMax := sorted.Times[len(sorted.Times)-1]
	out := make([]float64, 1)

	return func(t float64) []float64 {
		if t < tMin || t > tMax {
			out[0] = 0
		} else {
			out[0] = pred.Predict(t)
		}
		return out
	}, nil
}

// nearestPredictor returns the value of the closest breakpoint. At the exact
// midpoint between two breakpoints the earlier one wins.
type nearestPredictor struct {
	xs, ys []float64
}

func (n *nearestPredictor) Fit(xs, ys []float64) error {
	n.xs = append(n.xs[:0], xs...)
	n.ys = append(n.ys[:0], ys...)
	return nil
}

func (n *nearestPredictor) Predict(x float64) float64 {
	i := sort.SearchFloat64s(n.xs, x)
	switch {
	case i == 0:
		return n.ys[0]
	case i == len(n.xs):
		return n.ys[len(n.ys)-1]
	case x-n.xs[i-1] <= n.xs[i]-x:
		return n.ys[i-1]
	default:
		return n.ys[i]
	}
}

// quadraticPredictor evaluates a local second-order Lagrange polynomial
// through the three breakpoints around the query.
type quadraticPredictor struct {
	xs, ys []float64
}

func (q *quadraticPredictor) Fit(xs, ys []float64) error {
	if len(xs) < 3 {
		return validationErrorf("Piecewise", "Interpolation",
			"quadratic interpolation needs at least 3 breakpoints, got %d", len(xs))
	}
	q.xs = append(q.xs[:0], xs...)
	q.ys = append(q.ys[:0], ys...)
	return nil
}

func (q *quadraticPredictor) Predict(x float64) float64 {
	// Left index of the segment containing x, clamped to the interior.
	li := sort.SearchFloat64s(q.xs, x) - 1
	if li < 0 {
		li = 0
	}
	if li > len(q.xs)-2 {
		li = len(q.xs) - 2
	}

	// Three-point window starting one left of the segment when possible.
	s := li - 1
	if s < 0 {
		s = 0
	}
	if s > len(q.xs)-3 {
		s = len(q.xs) - 3
	}

	x0, x1, x2 := q.xs[s], q.xs[s+1], q.xs[s+2]
	y0, y1, y2 := q.ys[s], q.ys[s+1], q.ys[s+2]

	l0 := (x - x1) * (x - x2) / ((x0 - x1) * (x0 - x2))
	l1 := (x - x0) * (x - x2) / ((x1 - x0) * (x1 - x2))
	l2 := (x - x0) * (x - x1) / ((x2 - x0) * (x2 - x1))
	return y0*l0 + y1*l1 + y2*l2
}
