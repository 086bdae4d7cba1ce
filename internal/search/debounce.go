// Package search implements the quote lookup pipeline: keystrokes are
// debounced, short queries are ignored, and a simulated lookup latency is
// applied before the result lands on the quote panel. Results from superseded
// queries are suppressed.
package search

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"stockdeck/internal/domain"
	"stockdeck/internal/sched"
)

// Lookup resolves a symbol into a rendered quote. The engine implements it.
type Lookup interface {
	RefreshQuote(symbol string) (domain.Quote, error)
}

// StatusPanel receives busy state changes while a lookup is in flight. The
// board implements it.
type StatusPanel interface {
	SetSearchBusy(busy bool)
}

// Config carries the debouncer's timing knobs.
type Config struct {
	Quiet       time.Duration // silence required after the last keystroke
	MinQueryLen int           // queries shorter than this never dispatch
	Latency     time.Duration // simulated lookup round trip
}

// Debouncer collapses rapid query edits into at most one lookup per quiet
// window. Every Input or Commit bumps the generation counter; a completed
// lookup only applies its result if its generation is still current.
type Debouncer struct {
	cfg    Config
	lookup Lookup
	panel  StatusPanel
	sched  *sched.Scheduler
	log    *slog.Logger

	mu       sync.Mutex
	gen      uint64
	pending  sched.Handle // armed quiet timer, 0 when none
	inflight int          // dispatched lookups not yet completed
	closed   bool
}

// New creates a Debouncer.
func New(cfg Config, lookup Lookup, panel StatusPanel, scheduler *sched.Scheduler, log *slog.Logger) *Debouncer {
	return &Debouncer{
		cfg:    cfg,
		lookup: lookup,
		panel:  panel,
		sched:  scheduler,
		log:    log,
	}
}

// Input records a query edit. Any pending dispatch is cancelled; if the query
// is long enough, a new dispatch is armed to fire after the quiet window.
func (d *Debouncer) Input(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.gen++
	d.cancelPendingLocked()

	q := normalize(query)
	if len(q) < d.cfg.MinQueryLen {
		return
	}
	gen := d.gen
	d.pending = d.sched.After(d.cfg.Quiet, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.closed || gen != d.gen {
			return
		}
		d.pending = 0
		d.dispatchLocked(q)
	})
}

// Commit dispatches the query immediately, bypassing the quiet window. The
// minimum length rule still applies.
func (d *Debouncer) Commit(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.gen++
	d.cancelPendingLocked()

	q := normalize(query)
	if len(q) < d.cfg.MinQueryLen {
		return
	}
	d.dispatchLocked(q)
}

// dispatchLocked starts one simulated lookup. Caller holds d.mu.
func (d *Debouncer) dispatchLocked(query string) {
	gen := d.gen
	d.inflight++
	d.panel.SetSearchBusy(true)
	d.sched.After(d.cfg.Latency, func() {
		d.mu.Lock()
		d.inflight--
		settled := d.inflight == 0
		current := !d.closed && gen == d.gen
		d.mu.Unlock()

		// A superseded result is discarded, but the panel still settles once
		// the last outstanding lookup drains.
		if current {
			if _, err := d.lookup.RefreshQuote(query); err != nil {
				d.log.Warn("quote lookup failed", "query", query, "error", err)
			}
		}
		if settled {
			d.panel.SetSearchBusy(false)
		}
	})
}

// Close cancels any pending dispatch and rejects further input.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.cancelPendingLocked()
}

// cancelPendingLocked stops the armed quiet timer, if any. Caller holds d.mu.
func (d *Debouncer) cancelPendingLocked() {
	if d.pending != 0 {
		d.sched.Cancel(d.pending)
		d.pending = 0
	}
}

func normalize(query string) string {
	// Surrounding whitespace never counts toward the minimum length.
	return strings.TrimSpace(query)
}
