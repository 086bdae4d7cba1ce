// Package engine drives the periodic market simulation across every
// registered dashboard surface and owns the single write pathway for
// surface values and quote renders.
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"stockdeck/internal/domain"
	"stockdeck/internal/sched"
	"stockdeck/internal/sim"
)

// Projector is the slot projection capability set the engine consumes. The
// engine never touches concrete presentation structure; it only reads and
// writes named slots through this interface.
type Projector interface {
	Surfaces(class domain.SurfaceClass) []domain.SurfaceID
	Value(id domain.SurfaceID) (float64, error)
	SetValue(id domain.SurfaceID, value, delta float64, dir domain.Direction)
	RenderQuote(q domain.Quote)
}

// ClassRanges holds the configured delta range per surface class. Each value
// is the full range fed to the generator; the resulting swing is ±range/2.
type ClassRanges struct {
	Index        float64 // additive, units
	WatchlistPct float64 // multiplicative, percent
	Portfolio    float64 // additive, units
}

// Engine mutates every registered surface once per tick period. Surface
// values are exclusively owned by the engine: external refreshes go through
// RefreshQuote so there is never a second writer racing a tick.
type Engine struct {
	proj   Projector
	gen    *sim.Generator
	synth  *sim.Synthesizer
	sched  *sched.Scheduler
	ranges ClassRanges
	period time.Duration
	log    *slog.Logger

	mu      sync.Mutex
	handle  sched.Handle
	running bool
}

// New creates an Engine. period is the tick interval.
func New(proj Projector, gen *sim.Generator, synth *sim.Synthesizer, scheduler *sched.Scheduler, ranges ClassRanges, period time.Duration, log *slog.Logger) *Engine {
	return &Engine{
		proj:   proj,
		gen:    gen,
		synth:  synth,
		sched:  scheduler,
		ranges: ranges,
		period: period,
		log:    log,
	}
}

// Start begins the periodic tick. Ticks are strictly serialized: the next is
// only armed after the previous completed.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return
	}
	e.running = true
	e.handle = e.sched.Every(e.period, e.safeTick)
}

// Stop cancels the periodic tick.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	e.running = false
	e.sched.Cancel(e.handle)
}

// safeTick runs one tick and converts any panic into a log entry so one bad
// cycle never halts the scheduler.
func (e *Engine) safeTick() {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("tick panicked", "panic", r)
		}
	}()
	e.Tick()
}

// Tick runs one simulation step across all registered surfaces. A surface
// whose rendered value cannot be parsed back is skipped for this cycle and
// picks up again once it is numeric.
func (e *Engine) Tick() {
	for _, id := range e.proj.Surfaces(domain.ClassIndex) {
		e.stepAdditive(id, e.ranges.Index)
	}
	for _, id := range e.proj.Surfaces(domain.ClassWatchlist) {
		e.stepMultiplicative(id, e.ranges.WatchlistPct)
	}
	for _, id := range e.proj.Surfaces(domain.ClassPortfolio) {
		e.stepAdditive(id, e.ranges.Portfolio)
	}
}

// stepAdditive moves a surface by an absolute delta drawn from rng.
func (e *Engine) stepAdditive(id domain.SurfaceID, rng float64) {
	cur, err := e.proj.Value(id)
	if err != nil {
		e.log.Warn("skipping surface for this cycle", "surface", id, "error", err)
		return
	}
	delta := e.gen.Delta(rng)
	next := sim.Round2(cur + delta)
	if next < 0 {
		next = 0
	}
	e.proj.SetValue(id, next, sim.Round2(delta), domain.DirectionOf(delta))
}

// stepMultiplicative moves a surface by a percentage delta drawn from rng.
func (e *Engine) stepMultiplicative(id domain.SurfaceID, rng float64) {
	cur, err := e.proj.Value(id)
	if err != nil {
		e.log.Warn("skipping surface for this cycle", "surface", id, "error", err)
		return
	}
	pct := e.gen.Delta(rng)
	next := sim.Round2(cur * (1 + pct/100))
	if next < 0 {
		next = 0
	}
	e.proj.SetValue(id, next, sim.Round2(pct), domain.DirectionOf(pct))
}

// Quote synthesizes a fresh quote without rendering it.
func (e *Engine) Quote(symbol string) (domain.Quote, error) {
	q, err := e.synth.Synthesize(symbol)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("synthesizing %q: %w", symbol, err)
	}
	return q, nil
}

// RefreshQuote synthesizes a quote and renders it into the quote panel. All
// external quote refreshes funnel through here so the projection layer has a
// single writer.
func (e *Engine) RefreshQuote(symbol string) (domain.Quote, error) {
	q, err := e.Quote(symbol)
	if err != nil {
		return domain.Quote{}, err
	}
	e.proj.RenderQuote(q)
	return q, nil
}
