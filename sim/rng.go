package sim

import "math/rand"

// RunRNG is the single ordered random stream for one simulation run.
// Every draw of a run (group assignment, registration status, deboarding
// delays, walking speeds, service times) is consumed from this stream in a
// fixed order, so two runs with the same seed, flights and configuration
// produce bit-for-bit identical results.
//
// Thread-safety: NOT thread-safe. A RunRNG belongs to exactly one run and is
// only touched from that run's event loop. Independent terminal runs each
// get their own RunRNG seeded with the same value.
type RunRNG struct {
	seed int64
	rng  *rand.Rand
}

// NewRunRNG creates the random stream for a run.
func NewRunRNG(seed int64) *RunRNG {
	return &RunRNG{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed this stream was created with.
func (r *RunRNG) Seed() int64 {
	return r.seed
}

// Float64 draws a uniform value in [0, 1).
func (r *RunRNG) Float64() float64 {
	return r.rng.Float64()
}

// NormFloat64 draws a standard normal value.
func (r *RunRNG) NormFloat64() float64 {
	return r.rng.NormFloat64()
}

// IntBetween draws a uniform integer in [lo, hi], both bounds inclusive.
func (r *RunRNG) IntBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.rng.Intn(hi-lo+1)
}
