// Package sim generates the synthetic market data behind the dashboard:
// bounded random deltas and memoryless quote synthesis.
package sim

import (
	"math"
	"math/rand/v2"
)

// Source yields uniform random values in [0, 1). It exists so tests can
// supply a deterministic sequence and assert exact formulas.
type Source interface {
	Float64() float64
}

type realSource struct{}

func (realSource) Float64() float64 { return rand.Float64() }

// NewSource returns a non-deterministic Source backed by math/rand/v2.
func NewSource() Source { return realSource{} }

// Generator produces bounded symmetric random deltas from a Source.
type Generator struct {
	src Source
}

// NewGenerator creates a Generator over the given source.
func NewGenerator(src Source) *Generator {
	return &Generator{src: src}
}

// Delta returns a value uniformly distributed in [-rng/2, +rng/2]. The
// symmetric bounded shape is a contract the tick engine relies on for
// plausible movement; the distribution is not seeded or reproducible.
func (g *Generator) Delta(rng float64) float64 {
	return (g.src.Float64() - 0.5) * rng
}

// Uniform returns a value uniformly distributed in [lo, hi).
func (g *Generator) Uniform(lo, hi float64) float64 {
	return lo + g.src.Float64()*(hi-lo)
}

// Round2 rounds v to 2 decimal places, the precision every displayed value
// is reported with.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
