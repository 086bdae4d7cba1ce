package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"stockdeck/internal/board"
	"stockdeck/internal/domain"
	"stockdeck/internal/engine"
	"stockdeck/internal/notify"
	"stockdeck/internal/sched"
	"stockdeck/internal/search"
	"stockdeck/internal/sim"
	"stockdeck/internal/store"
	"stockdeck/internal/util"
)

type testEnv struct {
	srv   *httptest.Server
	board *board.Board
	clock *sched.FakeClock
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()

	log := slog.New(slog.DiscardHandler)
	clock := sched.NewFakeClock(time.Unix(0, 0))
	scheduler := sched.New(clock)
	t.Cleanup(scheduler.Stop)

	b := board.New()
	gen := sim.NewGenerator(sim.NewSource())
	synth := sim.NewSynthesizer(gen, nil, sim.DefaultSynthConfig())
	eng := engine.New(b, gen, synth, scheduler, engine.ClassRanges{Index: 5, WatchlistPct: 5, Portfolio: 500}, 5*time.Second, log)

	deb := search.New(search.Config{Quiet: 300 * time.Millisecond, MinQueryLen: 2, Latency: 500 * time.Millisecond},
		eng, b, scheduler, log)
	t.Cleanup(deb.Close)

	notifier := notify.New(notify.Config{Enter: 100 * time.Millisecond, Hold: 3 * time.Second, Exit: 300 * time.Millisecond}, b, scheduler)
	t.Cleanup(notifier.Close)

	catalog, err := store.NewSQLiteCatalog(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("NewSQLiteCatalog returned error: %v", err)
	}
	t.Cleanup(func() { catalog.Close() })

	s := NewServer(b, eng, deb, notifier, catalog, util.NewRateLimiter(6000), log)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, board: b, clock: clock}
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	return v
}

func doRequest(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func TestBoardSnapshot(t *testing.T) {
	env := newTestServer(t)
	env.board.Register("idx:spx", domain.ClassIndex, "S&P 500", 5234.18)

	resp, err := http.Get(env.srv.URL + "/api/board")
	if err != nil {
		t.Fatalf("GET /api/board: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	snap := decodeBody[board.Snapshot](t, resp)
	if len(snap.Surfaces) != 1 || snap.Surfaces[0].Text != "5234.18" {
		t.Errorf("snapshot surfaces = %+v, want one S&P 500 at 5234.18", snap.Surfaces)
	}
}

func TestQuoteEndpoint(t *testing.T) {
	env := newTestServer(t)

	resp, err := http.Get(env.srv.URL + "/api/quote/AAPL")
	if err != nil {
		t.Fatalf("GET /api/quote/AAPL: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	q := decodeBody[QuoteResponse](t, resp)
	if q.Quote.DisplayName != "Apple Inc." {
		t.Errorf("DisplayName = %q, want %q", q.Quote.DisplayName, "Apple Inc.")
	}
	if q.Quote.Price < 50 || q.Quote.Price > 550 {
		t.Errorf("Price = %v, outside [50, 550]", q.Quote.Price)
	}

	// The lookup endpoint never renders into the board.
	if env.board.Snapshot().Quote != nil {
		t.Error("GET /api/quote must not render into the quote panel")
	}
}

func TestQuoteEndpointBadSymbol(t *testing.T) {
	env := newTestServer(t)

	resp, err := http.Get(env.srv.URL + "/api/quote/TOOLONGSYMBOL")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestWatchlistRoundTrip(t *testing.T) {
	env := newTestServer(t)

	resp := doRequest(t, http.MethodPut, env.srv.URL+"/api/watchlist/nflx", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("PUT status = %d, want 204", resp.StatusCode)
	}

	resp, err := http.Get(env.srv.URL + "/api/watchlist")
	if err != nil {
		t.Fatalf("GET /api/watchlist: %v", err)
	}
	wl := decodeBody[WatchlistResponse](t, resp)
	found := false
	for _, s := range wl.Symbols {
		if s == "NFLX" {
			found = true
		}
	}
	if !found {
		t.Errorf("watchlist = %v, want NFLX present (uppercased)", wl.Symbols)
	}

	// The symbol got a live surface.
	if _, err := env.board.Value(WatchlistSurfaceID("NFLX")); err != nil {
		t.Errorf("watchlist surface missing after PUT: %v", err)
	}

	resp = doRequest(t, http.MethodDelete, env.srv.URL+"/api/watchlist/NFLX", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want 204", resp.StatusCode)
	}
	if _, err := env.board.Value(WatchlistSurfaceID("NFLX")); err == nil {
		t.Error("watchlist surface still present after DELETE")
	}

	resp = doRequest(t, http.MethodDelete, env.srv.URL+"/api/watchlist/NFLX", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second DELETE status = %d, want 404", resp.StatusCode)
	}
}

func TestWatchlistRejectsBadSymbol(t *testing.T) {
	env := newTestServer(t)

	resp := doRequest(t, http.MethodPut, env.srv.URL+"/api/watchlist/THISISWAYTOOLONG", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("PUT status = %d, want 400", resp.StatusCode)
	}
}

func TestNotificationEndpoints(t *testing.T) {
	env := newTestServer(t)

	resp := doRequest(t, http.MethodPost, env.srv.URL+"/api/notifications",
		NotifyRequest{Message: "order filled", Severity: "success"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST status = %d, want 200", resp.StatusCode)
	}
	nr := decodeBody[NotifyResponse](t, resp)
	if nr.ID == "" {
		t.Fatal("POST returned empty notification ID")
	}

	if got := len(env.board.Snapshot().Notifications); got != 1 {
		t.Errorf("overlay has %d notifications, want 1", got)
	}

	resp = doRequest(t, http.MethodDelete, env.srv.URL+"/api/notifications/"+nr.ID, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want 204", resp.StatusCode)
	}
	// Dismissal short-circuits to exiting; the exit animation then disposes.
	env.clock.Advance(300 * time.Millisecond)
	if got := len(env.board.Snapshot().Notifications); got != 0 {
		t.Errorf("overlay has %d notifications after dismiss and exit, want 0", got)
	}
}

func TestNotificationRejectsUnknownSeverity(t *testing.T) {
	env := newTestServer(t)

	resp := doRequest(t, http.MethodPost, env.srv.URL+"/api/notifications",
		NotifyRequest{Message: "x", Severity: "catastrophic"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("POST status = %d, want 400", resp.StatusCode)
	}
}

func TestSearchEndpointsAccepted(t *testing.T) {
	env := newTestServer(t)

	resp := doRequest(t, http.MethodPost, env.srv.URL+"/api/search", SearchRequest{Query: "AAP"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("POST /api/search status = %d, want 202", resp.StatusCode)
	}

	resp = doRequest(t, http.MethodPost, env.srv.URL+"/api/search/commit", SearchRequest{Query: "AAPL"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("POST /api/search/commit status = %d, want 202", resp.StatusCode)
	}

	// Commit dispatched immediately; after the simulated latency the quote
	// panel holds the result.
	env.clock.Advance(500 * time.Millisecond)
	snap := env.board.Snapshot()
	if snap.Quote == nil || snap.Quote.Symbol != "AAPL" {
		t.Errorf("quote panel = %+v, want committed AAPL quote", snap.Quote)
	}
}

func TestNewsEndpointEmpty(t *testing.T) {
	env := newTestServer(t)

	resp, err := http.Get(env.srv.URL + "/api/news")
	if err != nil {
		t.Fatalf("GET /api/news: %v", err)
	}
	nr := decodeBody[NewsResponse](t, resp)
	if nr.Headlines == nil || len(nr.Headlines) != 0 {
		t.Errorf("headlines = %v, want empty non-nil slice", nr.Headlines)
	}
}
