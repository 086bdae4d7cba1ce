package stockdeck

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// The client is exercised against a stub server speaking the API's JSON
// shapes; full wire behavior is covered by the server's own tests.
func newStubServer(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/board", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Snapshot{
			Session: "Market Open",
			Surfaces: []SurfaceUpdate{
				{ID: "idx:spx", Class: "index", Label: "S&P 500", Text: "5234.18", Direction: "flat"},
			},
		})
	})
	mux.HandleFunc("GET /api/quote/{symbol}", func(w http.ResponseWriter, r *http.Request) {
		sym := r.PathValue("symbol")
		if len(sym) > 10 {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid symbol"})
			return
		}
		json.NewEncoder(w).Encode(map[string]Quote{"quote": {
			Symbol: sym, DisplayName: sym + " Corp.", Price: 123.45, Change: 1.5, ChangePercent: 1.23,
		}})
	})
	mux.HandleFunc("GET /api/watchlist", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string][]string{"symbols": {"AAPL", "MSFT"}})
	})
	mux.HandleFunc("PUT /api/watchlist/{symbol}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/notifications", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "n-1"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL)
}

func TestClientBoard(t *testing.T) {
	_, c := newStubServer(t)

	snap, err := c.Board(context.Background())
	if err != nil {
		t.Fatalf("Board returned error: %v", err)
	}
	if snap.Session != "Market Open" {
		t.Errorf("Session = %q, want %q", snap.Session, "Market Open")
	}
	if len(snap.Surfaces) != 1 || snap.Surfaces[0].Text != "5234.18" {
		t.Errorf("Surfaces = %+v, want one at 5234.18", snap.Surfaces)
	}
}

func TestClientQuote(t *testing.T) {
	_, c := newStubServer(t)

	q, err := c.Quote(context.Background(), "NVDA")
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if q.Symbol != "NVDA" || q.Price != 123.45 {
		t.Errorf("quote = %+v, want NVDA at 123.45", q)
	}
}

func TestClientErrorEnvelope(t *testing.T) {
	_, c := newStubServer(t)

	_, err := c.Quote(context.Background(), "TOOLONGSYMBOL")
	if err == nil {
		t.Fatal("Quote for bad symbol returned nil error")
	}
}

func TestClientWatchlist(t *testing.T) {
	_, c := newStubServer(t)
	ctx := context.Background()

	symbols, err := c.Watchlist(ctx)
	if err != nil {
		t.Fatalf("Watchlist returned error: %v", err)
	}
	if len(symbols) != 2 || symbols[0] != "AAPL" {
		t.Errorf("Watchlist = %v, want [AAPL MSFT]", symbols)
	}

	if err := c.AddWatchlist(ctx, "NFLX"); err != nil {
		t.Errorf("AddWatchlist returned error: %v", err)
	}
}

func TestClientNotify(t *testing.T) {
	_, c := newStubServer(t)

	id, err := c.Notify(context.Background(), "hello", "info")
	if err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}
	if id != "n-1" {
		t.Errorf("Notify ID = %q, want %q", id, "n-1")
	}
}
