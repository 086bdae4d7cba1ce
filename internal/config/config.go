package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the stockdeck dashboard.
type Config struct {
	Server  Server  `yaml:"server"`
	Storage Storage `yaml:"storage"`
	Logging Logging `yaml:"logging"`
	Sim     Sim     `yaml:"sim"`
	Search  Search  `yaml:"search"`
	Notify  Notify  `yaml:"notify"`
	News    News    `yaml:"news"`
}

// Server holds network listener configuration.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Storage holds the path of the reference catalog database.
type Storage struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Sim controls the market tick engine and the quote synthesizer.
type Sim struct {
	TickPeriodMS      int     `yaml:"tick_period_ms"`
	IndexRange        float64 `yaml:"index_delta_range"`
	WatchlistPctRange float64 `yaml:"watchlist_delta_pct_range"`
	PortfolioRange    float64 `yaml:"portfolio_delta_range"`
	PriceMin          float64 `yaml:"price_min"`
	PriceMax          float64 `yaml:"price_max"`
	ChangeRange       float64 `yaml:"change_range"`
}

// Search controls the search debouncer.
type Search struct {
	DebounceMS      int `yaml:"debounce_ms"`
	MinQueryLen     int `yaml:"min_query_len"`
	LookupLatencyMS int `yaml:"lookup_latency_ms"`
}

// Notify controls the notification lifecycle timeline.
type Notify struct {
	EnterMS int `yaml:"enter_ms"`
	HoldMS  int `yaml:"hold_ms"`
	ExitMS  int `yaml:"exit_ms"`
}

// News controls the synthetic headline generator.
type News struct {
	PeriodMS int `yaml:"period_ms"`
}

// ---------------------------------------------------------------------------
// Duration accessors
// ---------------------------------------------------------------------------

// TickPeriod returns the tick period as a duration.
func (s Sim) TickPeriod() time.Duration { return time.Duration(s.TickPeriodMS) * time.Millisecond }

// Quiet returns the debounce quiet period as a duration.
func (s Search) Quiet() time.Duration { return time.Duration(s.DebounceMS) * time.Millisecond }

// Latency returns the simulated lookup latency as a duration.
func (s Search) Latency() time.Duration {
	return time.Duration(s.LookupLatencyMS) * time.Millisecond
}

// Enter returns the notification enter-transition duration.
func (n Notify) Enter() time.Duration { return time.Duration(n.EnterMS) * time.Millisecond }

// Hold returns the notification hold duration.
func (n Notify) Hold() time.Duration { return time.Duration(n.HoldMS) * time.Millisecond }

// Exit returns the notification exit-transition duration.
func (n Notify) Exit() time.Duration { return time.Duration(n.ExitMS) * time.Millisecond }

// Period returns the headline generation period.
func (n News) Period() time.Duration { return time.Duration(n.PeriodMS) * time.Millisecond }

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Default returns a Config populated with the reference defaults.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, fills in defaults for unset fields, and then applies
// environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyDefaults fills zero-valued fields with the reference defaults.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "127.0.0.1"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "stockdeck.db"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Sim.TickPeriodMS == 0 {
		cfg.Sim.TickPeriodMS = 5000
	}
	if cfg.Sim.IndexRange == 0 {
		cfg.Sim.IndexRange = 5
	}
	if cfg.Sim.WatchlistPctRange == 0 {
		cfg.Sim.WatchlistPctRange = 5
	}
	if cfg.Sim.PortfolioRange == 0 {
		cfg.Sim.PortfolioRange = 500
	}
	if cfg.Sim.PriceMin == 0 {
		cfg.Sim.PriceMin = 50
	}
	if cfg.Sim.PriceMax == 0 {
		cfg.Sim.PriceMax = 550
	}
	if cfg.Sim.ChangeRange == 0 {
		cfg.Sim.ChangeRange = 20
	}

	if cfg.Search.DebounceMS == 0 {
		cfg.Search.DebounceMS = 300
	}
	if cfg.Search.MinQueryLen == 0 {
		cfg.Search.MinQueryLen = 2
	}
	if cfg.Search.LookupLatencyMS == 0 {
		cfg.Search.LookupLatencyMS = 500
	}

	if cfg.Notify.EnterMS == 0 {
		cfg.Notify.EnterMS = 100
	}
	if cfg.Notify.HoldMS == 0 {
		cfg.Notify.HoldMS = 3000
	}
	if cfg.Notify.ExitMS == 0 {
		cfg.Notify.ExitMS = 300
	}

	if cfg.News.PeriodMS == 0 {
		cfg.News.PeriodMS = 15000
	}
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STOCKDECK_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("STOCKDECK_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
