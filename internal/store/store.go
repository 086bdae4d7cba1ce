// Package store persists the dashboard catalog: index definitions, the user's
// watchlist and holdings, and the symbol name table. The catalog is read at
// startup to register surfaces and written when the watchlist changes;
// generated tick values are never persisted.
package store

import "context"

// IndexDef is a market index card seeded into the board at startup.
type IndexDef struct {
	ID        string
	Label     string
	BaseValue float64
}

// Holding is one position in the user's portfolio.
type Holding struct {
	Symbol    string
	Qty       float64
	CostBasis float64
}

// Catalog is the persistence surface the rest of the system depends on.
type Catalog interface {
	// DisplayNames returns the symbol to company name table.
	DisplayNames(ctx context.Context) (map[string]string, error)
	// Watchlist returns the tracked symbols in insertion order.
	Watchlist(ctx context.Context) ([]string, error)
	// AddWatchlist inserts a symbol. Adding an existing symbol is a no-op.
	AddWatchlist(ctx context.Context, symbol string) error
	// RemoveWatchlist deletes a symbol. It reports whether the symbol existed.
	RemoveWatchlist(ctx context.Context, symbol string) (bool, error)
	// Indexes returns the index card definitions.
	Indexes(ctx context.Context) ([]IndexDef, error)
	// Holdings returns the portfolio positions.
	Holdings(ctx context.Context) ([]Holding, error)
	Close() error
}
