// Package process provides deterministic, time-indexed signal generators used
// to drive the inputs of a discretized dynamical simulation.
//
// A [Process] is configured once, validated at construction, and compiled with
// [Process.MakeStep] exactly once per simulation run. Compilation receives the
// simulation timestep dt and a dedicated pseudo-random generator, performs any
// heavy precomputation, and returns a [Step] that maps simulation time to an
// output vector. The caller invokes the step with non-decreasing time values;
// stateful variants (FilteredNoise, BrownNoise) are single-pass and do not
// support out-of-order or repeated evaluation.
//
// Reproducibility is part of the contract: compiling a process with a
// generator from [NewRNG] using the same seed and dt produces bit-identical
// output across runs. Generators are never shared between compiled steps.
//
// Available generators:
//
//   - [WhiteNoise]: fresh independent draws from a distribution, optionally
//     scaled by 1/sqrt(dt) for timestep-invariant integration.
//   - [FilteredNoise]: white noise passed through a compiled linear filter.
//   - [BrownNoise]: integrated white noise (a discrete Wiener process).
//   - [WhiteSignal]: a periodic band-limited signal built in the frequency
//     domain, with equal power at all frequencies up to a cutoff.
//   - [PresentInput]: cycles through a table of fixed inputs, each shown for a
//     fixed presentation time.
//   - [Piecewise]: breakpoint data resolved by zero-order hold or
//     interpolation.
package process
