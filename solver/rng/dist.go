package rng

import (
	"math/rand"
)

// Rand wraps an MT19937_64 source in the standard library's
// distribution helpers, and adds the index-capped uniform pick that
// WalkSAT uses when choosing an unsatisfied clause and, in its
// random-walk move, one of that clause's literals
// (spec.md Design Notes section 9, "Open question" on the original's
// index cap of 20).
type Rand struct {
	*rand.Rand
}

// New seeds a Rand from seed.
func New(seed uint64) *Rand {
	return &Rand{Rand: rand.New(NewMT19937_64(seed))}
}

// Bool returns a uniformly random boolean.
func (r *Rand) Bool() bool {
	return r.Int63()&1 == 1
}

// Float01 returns a uniformly random float in [0, 1), mirroring
// std::uniform_real_distribution<double>(0, 1).
func (r *Rand) Float01() float64 {
	return r.Float64()
}

// prefixCap bounds how many candidates a biased pick will consider,
// preserving the original's behavior of favoring elements near the
// front of its container (spec.md Design Notes section 9: "preserve
// this bias verbatim for fidelity to the source").
const prefixCap = 20

// PickIndexBiased chooses an index in [0, n) uniformly among the first
// min(n, prefixCap) indices. Used by WalkSAT's random-walk move, which
// in the original draws from a discrete_distribution built over an
// unordered_set's iteration order — in practice biased toward whatever
// the hash table placed first, which this reproduces with an explicit,
// deterministic-given-seed cap instead of relying on map iteration
// order.
func (r *Rand) PickIndexBiased(n int) int {
	if n <= 0 {
		return 0
	}
	limit := n
	if limit > prefixCap {
		limit = prefixCap
	}
	return r.Intn(limit)
}
