package rng_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lmoonie/sat-solver/solver/rng"
)

func TestSeededSequenceIsDeterministic(t *testing.T) {
	a := rng.New(42)
	b := rng.New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := rng.New(1)
	b := rng.New(2)
	assert.NotEqual(t, a.Uint64(), b.Uint64())
}

func TestPickIndexBiasedStaysInBounds(t *testing.T) {
	r := rng.New(7)
	for n := 1; n <= 50; n++ {
		idx := r.PickIndexBiased(n)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, n)
	}
}

func TestPickIndexBiasedCapsAtPrefix(t *testing.T) {
	r := rng.New(7)
	seen := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		seen[r.PickIndexBiased(1000)] = true
	}
	for idx := range seen {
		assert.Less(t, idx, 20)
	}
}

func TestFloat01InRange(t *testing.T) {
	r := rng.New(9)
	for i := 0; i < 100; i++ {
		f := r.Float01()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
	}
}
