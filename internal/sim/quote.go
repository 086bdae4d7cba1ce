package sim

import (
	"errors"
	"fmt"
	"strings"

	"stockdeck/internal/domain"
)

// ErrBadSymbol is returned when a symbol is empty or too long after trimming.
var ErrBadSymbol = errors.New("symbol must be 1-10 characters")

// SynthConfig bounds the random draws of the synthesizer.
type SynthConfig struct {
	PriceMin    float64 // lower bound of the synthetic price range
	PriceMax    float64 // upper bound of the synthetic price range
	ChangeRange float64 // full range of the change draw, centred on zero
}

// DefaultSynthConfig returns the reference ranges: price 50–550, change ±10.
func DefaultSynthConfig() SynthConfig {
	return SynthConfig{PriceMin: 50, PriceMax: 550, ChangeRange: 20}
}

// Synthesizer produces fresh synthetic quotes. Every call is an independent
// draw; consecutive quotes for the same symbol have no continuity.
type Synthesizer struct {
	gen   *Generator
	names map[string]string
	cfg   SynthConfig
}

// NewSynthesizer creates a Synthesizer. names maps uppercase symbols to
// display names; symbols not in the map fall back to "<SYMBOL> Corp.".
func NewSynthesizer(gen *Generator, names map[string]string, cfg SynthConfig) *Synthesizer {
	if names == nil {
		names = DefaultNames()
	}
	return &Synthesizer{gen: gen, names: names, cfg: cfg}
}

// Synthesize returns a new quote for the symbol. The symbol is trimmed and
// uppercased before lookup. Price and change are independent draws;
// changePercent is derived from them so the quote is internally consistent.
func (s *Synthesizer) Synthesize(symbol string) (domain.Quote, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if len(sym) < 1 || len(sym) > 10 {
		return domain.Quote{}, fmt.Errorf("%q: %w", symbol, ErrBadSymbol)
	}

	name, ok := s.names[sym]
	if !ok {
		name = sym + " Corp."
	}

	price := Round2(s.gen.Uniform(s.cfg.PriceMin, s.cfg.PriceMax))
	change := Round2(s.gen.Delta(s.cfg.ChangeRange))

	// changePercent is relative to the implied previous close, not the new
	// price: change / (price - change) * 100.
	pct := 0.0
	if prev := price - change; prev != 0 {
		pct = Round2(change / prev * 100)
	}

	return domain.Quote{
		Symbol:        sym,
		DisplayName:   name,
		Price:         price,
		Change:        change,
		ChangePercent: pct,
	}, nil
}
