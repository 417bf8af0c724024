package random

import "math/rand/v2"

// Source is the random stream behind probabilistic decisions (match trials,
// reply selection, feed generation). Injected so tests can supply
// deterministic sequences.
type Source interface {
	// Float64 returns a value uniformly in [0, 1).
	Float64() float64
	// IntN returns a value uniformly in [0, n). Panics if n <= 0.
	IntN(n int) int
}

type systemSource struct{}

func (systemSource) Float64() float64 { return rand.Float64() }
func (systemSource) IntN(n int) int   { return rand.IntN(n) }

// System returns a source backed by math/rand/v2's shared generator.
func System() Source { return systemSource{} }

// Seeded returns a reproducible source for scripted runs.
func Seeded(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
