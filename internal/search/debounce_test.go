package search

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"stockdeck/internal/domain"
	"stockdeck/internal/sched"
)

type fakeLookup struct {
	mu      sync.Mutex
	symbols []string
}

func (f *fakeLookup) RefreshQuote(symbol string) (domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.symbols = append(f.symbols, symbol)
	return domain.Quote{Symbol: symbol}, nil
}

func (f *fakeLookup) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.symbols...)
}

type fakePanel struct {
	mu     sync.Mutex
	states []bool
}

func (f *fakePanel) SetSearchBusy(busy bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states = append(f.states, busy)
}

func (f *fakePanel) history() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.states...)
}

func newTestDebouncer(t *testing.T) (*Debouncer, *fakeLookup, *fakePanel, *sched.FakeClock) {
	t.Helper()
	clock := sched.NewFakeClock(time.Unix(0, 0))
	s := sched.New(clock)
	lookup := &fakeLookup{}
	panel := &fakePanel{}
	cfg := Config{Quiet: 300 * time.Millisecond, MinQueryLen: 2, Latency: 500 * time.Millisecond}
	d := New(cfg, lookup, panel, s, slog.New(slog.DiscardHandler))
	t.Cleanup(d.Close)
	return d, lookup, panel, clock
}

func TestRapidTypingDispatchesOnce(t *testing.T) {
	d, lookup, _, clock := newTestDebouncer(t)

	// Keystrokes 100ms apart never leave a full quiet window.
	d.Input("A")
	clock.Advance(100 * time.Millisecond)
	d.Input("AA")
	clock.Advance(100 * time.Millisecond)
	d.Input("AAP")
	clock.Advance(100 * time.Millisecond)
	d.Input("AAPL")

	if got := lookup.calls(); len(got) != 0 {
		t.Fatalf("lookups before quiet window = %v, want none", got)
	}

	clock.Advance(300 * time.Millisecond) // quiet window elapses
	clock.Advance(500 * time.Millisecond) // lookup latency

	got := lookup.calls()
	if len(got) != 1 || got[0] != "AAPL" {
		t.Errorf("lookups = %v, want [AAPL]", got)
	}
}

func TestShortQueryNeverDispatches(t *testing.T) {
	d, lookup, _, clock := newTestDebouncer(t)

	d.Input("A")
	clock.Advance(time.Second)
	d.Commit("A")
	clock.Advance(time.Second)

	if got := lookup.calls(); len(got) != 0 {
		t.Errorf("lookups = %v, want none for single-character query", got)
	}
}

func TestWhitespaceDoesNotCountTowardLength(t *testing.T) {
	d, lookup, _, clock := newTestDebouncer(t)

	d.Input("  A  ")
	clock.Advance(time.Second)

	if got := lookup.calls(); len(got) != 0 {
		t.Errorf("lookups = %v, want none for padded single character", got)
	}

	// Tabs and newlines are trimmed the same as spaces.
	d.Input("\tA\n")
	clock.Advance(time.Second)

	if got := lookup.calls(); len(got) != 0 {
		t.Errorf("lookups = %v, want none for tab/newline padded single character", got)
	}
}

func TestCommitBypassesQuietWindow(t *testing.T) {
	d, lookup, _, clock := newTestDebouncer(t)

	d.Commit("MSFT")

	// No quiet wait: only the lookup latency stands between commit and result.
	clock.Advance(500 * time.Millisecond)
	got := lookup.calls()
	if len(got) != 1 || got[0] != "MSFT" {
		t.Errorf("lookups = %v, want [MSFT] right after latency", got)
	}
}

func TestCommitCancelsPendingDebounce(t *testing.T) {
	d, lookup, _, clock := newTestDebouncer(t)

	d.Input("AAPL")
	clock.Advance(100 * time.Millisecond)
	d.Commit("MSFT")
	clock.Advance(2 * time.Second)

	got := lookup.calls()
	if len(got) != 1 || got[0] != "MSFT" {
		t.Errorf("lookups = %v, want only the committed [MSFT]", got)
	}
}

func TestBusyLifecycle(t *testing.T) {
	d, _, panel, clock := newTestDebouncer(t)

	d.Commit("AAPL")
	if got := panel.history(); len(got) != 1 || !got[0] {
		t.Fatalf("busy history at dispatch = %v, want [true]", got)
	}

	clock.Advance(500 * time.Millisecond)
	got := panel.history()
	if len(got) != 2 || got[1] {
		t.Errorf("busy history after completion = %v, want [true false]", got)
	}
}

func TestStaleResultSuppressed(t *testing.T) {
	d, lookup, panel, clock := newTestDebouncer(t)

	d.Commit("AAPL")
	clock.Advance(100 * time.Millisecond)
	// A newer commit supersedes the in-flight AAPL lookup.
	d.Commit("MSFT")

	clock.Advance(400 * time.Millisecond) // AAPL's latency elapses
	if got := lookup.calls(); len(got) != 0 {
		t.Fatalf("lookups after stale completion = %v, want none applied", got)
	}

	clock.Advance(100 * time.Millisecond) // MSFT's latency elapses
	got := lookup.calls()
	if len(got) != 1 || got[0] != "MSFT" {
		t.Errorf("lookups = %v, want [MSFT] only", got)
	}

	// The panel settles exactly once, after the last outstanding lookup.
	h := panel.history()
	if len(h) != 3 || !h[0] || !h[1] || h[2] {
		t.Errorf("busy history = %v, want [true true false]", h)
	}
}

func TestStaleWithoutSuccessorStillSettles(t *testing.T) {
	d, lookup, panel, clock := newTestDebouncer(t)

	d.Commit("AAPL")
	// A too-short edit invalidates the in-flight lookup without replacing it.
	d.Input("A")

	clock.Advance(500 * time.Millisecond)

	if got := lookup.calls(); len(got) != 0 {
		t.Errorf("lookups = %v, want none", got)
	}
	h := panel.history()
	if len(h) != 2 || !h[0] || h[1] {
		t.Errorf("busy history = %v, want [true false] (panel settles)", h)
	}
}

func TestCloseCancelsPendingDispatch(t *testing.T) {
	clock := sched.NewFakeClock(time.Unix(0, 0))
	s := sched.New(clock)
	lookup := &fakeLookup{}
	panel := &fakePanel{}
	d := New(Config{Quiet: 300 * time.Millisecond, MinQueryLen: 2, Latency: 500 * time.Millisecond},
		lookup, panel, s, slog.New(slog.DiscardHandler))

	d.Input("AAPL")
	d.Close()
	clock.Advance(time.Minute)

	if got := lookup.calls(); len(got) != 0 {
		t.Errorf("lookups after Close = %v, want none", got)
	}
	if got := clock.PendingTimers(); got != 0 {
		t.Errorf("pending timers after Close = %d, want 0", got)
	}
}
