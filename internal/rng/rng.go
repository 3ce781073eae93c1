// Package rng provides the uniform random sources used by the synthesizer,
// the forecaster and the savings estimator.
package rng

import (
	"math/rand/v2"
	"sync"
)

// Source draws uniform values in [0, 1).
type Source interface {
	Float64() float64
}

type systemSource struct{}

// Float64 uses the runtime-seeded global generator, which is goroutine-safe.
func (systemSource) Float64() float64 { return rand.Float64() }

// System returns the default entropy-backed source.
func System() Source { return systemSource{} }

type seededSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// Seeded returns a deterministic source. It is safe for concurrent use,
// though concurrent callers will observe draws in scheduling order.
func Seeded(seed uint64) Source {
	return &seededSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// FromSeed returns Seeded(seed), or System() when seed is 0.
func FromSeed(seed uint64) Source {
	if seed == 0 {
		return System()
	}
	return Seeded(seed)
}

// Uniform draws a value in [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Fixed always returns the same value. Useful for pinning draws in tests.
type Fixed float64

func (f Fixed) Float64() float64 { return float64(f) }
