// Package sqlite stores transactions and price quotes in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection. Writes are serialized through mu.
type DB struct {
	*sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the database at path and runs migrations.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if path == ":memory:" {
		// Every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	} else if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	d := &DB{DB: db}
	if err := d.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", path)
	return d, nil
}

// Amounts and prices are TEXT so no precision is lost; sorting casts to REAL.
// Timestamps are Unix nanoseconds.
func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS eth_transactions (
			seq         INTEGER PRIMARY KEY AUTOINCREMENT,
			id          TEXT NOT NULL UNIQUE,
			side        TEXT NOT NULL CHECK (side IN ('BUY', 'SELL')),
			amount      TEXT NOT NULL,
			price       TEXT NOT NULL,
			executed_at INTEGER NOT NULL,
			created_at  INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_eth_transactions_executed_at ON eth_transactions(executed_at)`,

		`CREATE TABLE IF NOT EXISTS price_quotes (
			seq         INTEGER PRIMARY KEY AUTOINCREMENT,
			id          TEXT NOT NULL UNIQUE,
			usd         TEXT NOT NULL,
			change_24h  TEXT NOT NULL,
			fetched_at  INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_price_quotes_fetched_at ON price_quotes(fetched_at)`,
	}

	for _, s := range stmts {
		if _, err := d.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}
