// Package api serves the dashboard HTTP API: a REST surface over the board,
// the search pipeline, the notification overlay, and the watchlist catalog,
// plus a WebSocket stream of board events.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"stockdeck/internal/board"
	"stockdeck/internal/domain"
	"stockdeck/internal/engine"
	"stockdeck/internal/notify"
	"stockdeck/internal/search"
	"stockdeck/internal/sim"
	"stockdeck/internal/store"
	"stockdeck/internal/util"
)

// Server serves the dashboard HTTP API.
type Server struct {
	board    *board.Board
	engine   *engine.Engine
	search   *search.Debouncer
	notifier *notify.Notifier
	catalog  store.Catalog
	limiter  *util.RateLimiter
	log      *slog.Logger

	httpSrv *http.Server
}

// NewServer creates a Server wired to the running dashboard components.
func NewServer(
	b *board.Board,
	eng *engine.Engine,
	deb *search.Debouncer,
	notifier *notify.Notifier,
	catalog store.Catalog,
	limiter *util.RateLimiter,
	log *slog.Logger,
) *Server {
	return &Server{
		board:    b,
		engine:   eng,
		search:   deb,
		notifier: notifier,
		catalog:  catalog,
		limiter:  limiter,
		log:      log,
	}
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/board", s.handleBoard)
	mux.HandleFunc("GET /api/quote/{symbol}", s.handleQuote)
	mux.HandleFunc("POST /api/search", s.handleSearch)
	mux.HandleFunc("POST /api/search/commit", s.handleSearchCommit)
	mux.HandleFunc("GET /api/watchlist", s.handleGetWatchlist)
	mux.HandleFunc("PUT /api/watchlist/{symbol}", s.handleAddWatchlist)
	mux.HandleFunc("DELETE /api/watchlist/{symbol}", s.handleRemoveWatchlist)
	mux.HandleFunc("POST /api/notifications", s.handlePushNotification)
	mux.HandleFunc("DELETE /api/notifications/{id}", s.handleDismissNotification)
	mux.HandleFunc("GET /api/news", s.handleNews)
	mux.HandleFunc("GET /ws", s.handleStream)
}

// Handler returns an http.Handler with CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return corsMiddleware(mux)
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then shuts it
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.httpSrv = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.ListenAndServe()
	}()
	s.log.Info("api server listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutCtx); err != nil {
		return fmt.Errorf("shutting down api server: %w", err)
	}
	return nil
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Board and quotes
// ---------------------------------------------------------------------------

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.board.Snapshot())
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if err := s.limiter.Wait(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "rate limit wait cancelled")
		return
	}

	symbol := r.PathValue("symbol")
	q, err := s.engine.Quote(symbol)
	if err != nil {
		if errors.Is(err, sim.ErrBadSymbol) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid symbol %q", symbol))
			return
		}
		writeError(w, http.StatusInternalServerError, "quote synthesis failed")
		return
	}
	writeJSON(w, QuoteResponse{Quote: q})
}

// ---------------------------------------------------------------------------
// Search
// ---------------------------------------------------------------------------

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.search.Input(req.Query)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleSearchCommit(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.search.Commit(req.Query)
	w.WriteHeader(http.StatusAccepted)
}

// ---------------------------------------------------------------------------
// Watchlist
// ---------------------------------------------------------------------------

func (s *Server) handleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	symbols, err := s.catalog.Watchlist(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read watchlist")
		return
	}
	if symbols == nil {
		symbols = []string{}
	}
	writeJSON(w, WatchlistResponse{Symbols: symbols})
}

func (s *Server) handleAddWatchlist(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(r.PathValue("symbol")))

	// Synthesize first: it validates the symbol and seeds the row's value.
	q, err := s.engine.Quote(symbol)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid symbol %q", symbol))
		return
	}

	if err := s.catalog.AddWatchlist(r.Context(), symbol); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to add %s: %v", symbol, err))
		return
	}
	if err := s.board.Register(WatchlistSurfaceID(symbol), domain.ClassWatchlist, symbol, q.Price); err != nil {
		// Already registered: the catalog add was a duplicate, nothing to do.
		s.log.Debug("watchlist surface already registered", "symbol", symbol)
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveWatchlist(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(r.PathValue("symbol")))

	existed, err := s.catalog.RemoveWatchlist(r.Context(), symbol)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to remove %s: %v", symbol, err))
		return
	}
	if !existed {
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s not in watchlist", symbol))
		return
	}
	s.board.Unregister(WatchlistSurfaceID(symbol))

	w.WriteHeader(http.StatusNoContent)
}

// WatchlistSurfaceID maps a symbol to its watchlist surface handle.
func WatchlistSurfaceID(symbol string) domain.SurfaceID {
	return domain.SurfaceID("wl:" + symbol)
}

// ---------------------------------------------------------------------------
// Notifications
// ---------------------------------------------------------------------------

func (s *Server) handlePushNotification(w http.ResponseWriter, r *http.Request) {
	var req NotifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message required")
		return
	}
	sev, ok := domain.ParseSeverity(req.Severity)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown severity %q", req.Severity))
		return
	}

	id := s.notifier.Push(req.Message, sev)
	writeJSON(w, NotifyResponse{ID: id})
}

func (s *Server) handleDismissNotification(w http.ResponseWriter, r *http.Request) {
	s.notifier.Dismiss(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// News
// ---------------------------------------------------------------------------

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	snap := s.board.Snapshot()
	headlines := snap.News
	if headlines == nil {
		headlines = []domain.Headline{}
	}
	writeJSON(w, NewsResponse{Headlines: headlines})
}
