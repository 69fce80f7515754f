// Package synapse provides linear dynamical filters applied to sampled input
// streams, producing colored (correlated) output from white input.
//
// A [LinearFilter] describes a continuous-time transfer function Num(s)/Den(s).
// [LinearFilter.MakeStep] converts it to controllable-canonical state space,
// discretizes it for a concrete timestep (zero-order hold by default, forward
// Euler on request), and returns a [FilterStep] that advances one sample per
// call. The step owns one state vector per signal dimension; calls must be
// made in increasing-time order, single-pass.
package synapse
