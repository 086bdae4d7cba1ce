package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockdeck/internal/api"
	"stockdeck/internal/board"
	"stockdeck/internal/config"
	"stockdeck/internal/domain"
	"stockdeck/internal/engine"
	"stockdeck/internal/newsgen"
	"stockdeck/internal/notify"
	"stockdeck/internal/sched"
	"stockdeck/internal/search"
	"stockdeck/internal/sim"
	"stockdeck/internal/store"
	"stockdeck/internal/util"
)

// sessionRefreshPeriod controls how often the header session label is
// reclassified.
const sessionRefreshPeriod = 30 * time.Second

func main() {
	cfgPath := "config/stockdeck.yaml"
	if p := os.Getenv("STOCKDECK_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = config.Default()
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// A previous instance still releasing its file lock makes the open fail
	// transiently, so retry briefly before giving up.
	var catalog *store.SQLiteCatalog
	err = util.Retry(ctx, 3, 500*time.Millisecond, func() error {
		var openErr error
		catalog, openErr = store.NewSQLiteCatalog(ctx, cfg.Storage.SQLitePath)
		return openErr
	})
	if err != nil {
		logger.Error("opening catalog", "path", cfg.Storage.SQLitePath, "error", err)
		os.Exit(1)
	}
	defer catalog.Close()

	names, err := catalog.DisplayNames(ctx)
	if err != nil {
		logger.Warn("loading display names, using built-in table", "error", err)
		names = nil
	}

	b := board.New()
	scheduler := sched.New(sched.RealClock{})
	defer scheduler.Stop()

	gen := sim.NewGenerator(sim.NewSource())
	synth := sim.NewSynthesizer(gen, names, sim.SynthConfig{
		PriceMin:    cfg.Sim.PriceMin,
		PriceMax:    cfg.Sim.PriceMax,
		ChangeRange: cfg.Sim.ChangeRange,
	})

	eng := engine.New(b, gen, synth, scheduler, engine.ClassRanges{
		Index:        cfg.Sim.IndexRange,
		WatchlistPct: cfg.Sim.WatchlistPctRange,
		Portfolio:    cfg.Sim.PortfolioRange,
	}, cfg.Sim.TickPeriod(), logger)

	if err := registerSurfaces(ctx, b, eng, catalog, logger); err != nil {
		logger.Error("registering surfaces", "error", err)
		os.Exit(1)
	}

	deb := search.New(search.Config{
		Quiet:       cfg.Search.Quiet(),
		MinQueryLen: cfg.Search.MinQueryLen,
		Latency:     cfg.Search.Latency(),
	}, eng, b, scheduler, logger)
	defer deb.Close()

	notifier := notify.New(notify.Config{
		Enter: cfg.Notify.Enter(),
		Hold:  cfg.Notify.Hold(),
		Exit:  cfg.Notify.Exit(),
	}, b, scheduler)
	defer notifier.Close()

	feed := newsgen.New(b, gen, scheduler, cfg.News.Period(), watchlistUniverse(ctx, catalog))

	// Header session label, refreshed on the shared scheduler.
	sessions := util.NewSessionClock()
	b.SetSession(string(sessions.Session(scheduler.Clock().Now())))
	scheduler.Every(sessionRefreshPeriod, func() {
		b.SetSession(string(sessions.Session(scheduler.Clock().Now())))
	})

	eng.Start()
	defer eng.Stop()
	feed.Start()
	defer feed.Stop()

	server := api.NewServer(b, eng, deb, notifier, catalog, util.NewRateLimiter(600), logger)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	if err := server.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("api server", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

// registerSurfaces seeds the board from the catalog: index cards at their
// base values, watchlist rows and the portfolio total at synthesized prices.
func registerSurfaces(ctx context.Context, b *board.Board, eng *engine.Engine, catalog store.Catalog, logger *slog.Logger) error {
	indexes, err := catalog.Indexes(ctx)
	if err != nil {
		return fmt.Errorf("loading indexes: %w", err)
	}
	for _, idx := range indexes {
		if err := b.Register(domain.SurfaceID("idx:"+idx.ID), domain.ClassIndex, idx.Label, idx.BaseValue); err != nil {
			return err
		}
	}

	watchlist, err := catalog.Watchlist(ctx)
	if err != nil {
		return fmt.Errorf("loading watchlist: %w", err)
	}
	for _, symbol := range watchlist {
		q, err := eng.Quote(symbol)
		if err != nil {
			logger.Warn("skipping watchlist symbol", "symbol", symbol, "error", err)
			continue
		}
		if err := b.Register(api.WatchlistSurfaceID(symbol), domain.ClassWatchlist, symbol, q.Price); err != nil {
			return err
		}
	}

	holdings, err := catalog.Holdings(ctx)
	if err != nil {
		return fmt.Errorf("loading holdings: %w", err)
	}
	var total float64
	for _, h := range holdings {
		q, err := eng.Quote(h.Symbol)
		if err != nil {
			logger.Warn("skipping holding", "symbol", h.Symbol, "error", err)
			continue
		}
		total += h.Qty * q.Price
	}
	return b.Register("pf:total", domain.ClassPortfolio, "Portfolio Value", sim.Round2(total))
}

// watchlistUniverse returns the symbols headlines are generated about.
func watchlistUniverse(ctx context.Context, catalog store.Catalog) []string {
	symbols, err := catalog.Watchlist(ctx)
	if err != nil || len(symbols) == 0 {
		return []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "NVDA"}
	}
	return symbols
}
