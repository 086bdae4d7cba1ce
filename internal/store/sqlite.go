package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ Catalog = (*SQLiteCatalog)(nil)

// SQLiteCatalog implements Catalog backed by a SQLite database.
type SQLiteCatalog struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS symbols (
	symbol       TEXT PRIMARY KEY,
	display_name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS watchlist (
	symbol   TEXT PRIMARY KEY,
	added_at INTEGER NOT NULL DEFAULT (unixepoch())
);
CREATE TABLE IF NOT EXISTS indexes (
	id         TEXT PRIMARY KEY,
	label      TEXT NOT NULL,
	base_value REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS holdings (
	symbol     TEXT PRIMARY KEY,
	qty        REAL NOT NULL,
	cost_basis REAL NOT NULL
);
`

// NewSQLiteCatalog opens (or creates) a SQLite database at dbPath, runs the
// schema, and seeds the default catalog into empty tables.
func NewSQLiteCatalog(ctx context.Context, dbPath string) (*SQLiteCatalog, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	c := &SQLiteCatalog{db: db}
	if err := c.seed(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("seeding catalog: %w", err)
	}
	return c, nil
}

// seed fills empty tables with the default catalog. Existing rows are left
// alone, so user edits survive restarts.
func (c *SQLiteCatalog) seed(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for symbol, name := range defaultSymbolNames {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO symbols (symbol, display_name) VALUES (?, ?)`,
			symbol, name); err != nil {
			return err
		}
	}

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM indexes`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		for _, idx := range defaultIndexes {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO indexes (id, label, base_value) VALUES (?, ?, ?)`,
				idx.ID, idx.Label, idx.BaseValue); err != nil {
				return err
			}
		}
	}

	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM watchlist`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		for _, symbol := range defaultWatchlist {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO watchlist (symbol) VALUES (?)`, symbol); err != nil {
				return err
			}
		}
	}

	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM holdings`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		for _, h := range defaultHoldings {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO holdings (symbol, qty, cost_basis) VALUES (?, ?, ?)`,
				h.Symbol, h.Qty, h.CostBasis); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// Close closes the underlying database connection.
func (c *SQLiteCatalog) Close() error {
	return c.db.Close()
}

// DisplayNames returns the symbol to company name table.
func (c *SQLiteCatalog) DisplayNames(ctx context.Context) (map[string]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT symbol, display_name FROM symbols`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var symbol, name string
		if err := rows.Scan(&symbol, &name); err != nil {
			return nil, err
		}
		names[symbol] = name
	}
	return names, rows.Err()
}

// Watchlist returns the tracked symbols in insertion order.
func (c *SQLiteCatalog) Watchlist(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT symbol FROM watchlist ORDER BY added_at, symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

// AddWatchlist inserts a symbol. Adding an existing symbol is a no-op.
func (c *SQLiteCatalog) AddWatchlist(ctx context.Context, symbol string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO watchlist (symbol) VALUES (?)`, symbol)
	return err
}

// RemoveWatchlist deletes a symbol. It reports whether the symbol existed.
func (c *SQLiteCatalog) RemoveWatchlist(ctx context.Context, symbol string) (bool, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM watchlist WHERE symbol = ?`, symbol)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Indexes returns the index card definitions.
func (c *SQLiteCatalog) Indexes(ctx context.Context) ([]IndexDef, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, label, base_value FROM indexes ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defs []IndexDef
	for rows.Next() {
		var d IndexDef
		if err := rows.Scan(&d.ID, &d.Label, &d.BaseValue); err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return defs, rows.Err()
}

// Holdings returns the portfolio positions.
func (c *SQLiteCatalog) Holdings(ctx context.Context) ([]Holding, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT symbol, qty, cost_basis FROM holdings ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hs []Holding
	for rows.Next() {
		var h Holding
		if err := rows.Scan(&h.Symbol, &h.Qty, &h.CostBasis); err != nil {
			return nil, err
		}
		hs = append(hs, h)
	}
	return hs, rows.Err()
}
