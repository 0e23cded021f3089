package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=ethfolio sslmode=disable"
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// schema is applied by Migrate. seq preserves insertion order for ties and the unsorted listing.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS eth_transactions (
		seq         BIGSERIAL PRIMARY KEY,
		id          UUID NOT NULL UNIQUE,
		side        TEXT NOT NULL CHECK (side IN ('BUY', 'SELL')),
		amount      NUMERIC NOT NULL CHECK (amount > 0),
		price       NUMERIC NOT NULL CHECK (price > 0),
		executed_at TIMESTAMPTZ NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_eth_transactions_executed_at ON eth_transactions(executed_at)`,

	`CREATE TABLE IF NOT EXISTS price_quotes (
		id          UUID PRIMARY KEY,
		usd         NUMERIC NOT NULL CHECK (usd > 0),
		change_24h  NUMERIC NOT NULL,
		fetched_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_price_quotes_fetched_at ON price_quotes(fetched_at)`,
}

// Migrate creates the tables if they do not exist yet
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
