package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/ethfolio-backend/internal/domain"
)

// quoteRepository implements domain.QuoteRepository
type quoteRepository struct {
	db *DB
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *DB) domain.QuoteRepository {
	return &quoteRepository{db: db}
}

// Add creates a new price history entry
func (r *quoteRepository) Add(ctx context.Context, quote *domain.Quote) error {
	query := `
		INSERT INTO price_quotes (id, usd, change_24h, fetched_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		quote.ID,
		quote.USD.String(),
		quote.ChangePercent24h.String(),
		quote.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert price quote: %w", err)
	}

	return nil
}

// GetLatest retrieves the most recent quote
func (r *quoteRepository) GetLatest(ctx context.Context) (*domain.Quote, error) {
	query := `
		SELECT id, usd, change_24h, fetched_at
		FROM price_quotes
		ORDER BY fetched_at DESC
		LIMIT 1
	`

	var quote domain.Quote
	var usdStr, changeStr string

	err := r.db.QueryRowContext(ctx, query).Scan(
		&quote.ID,
		&usdStr,
		&changeStr,
		&quote.FetchedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no price quote stored: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get latest price quote: %w", err)
	}

	// Parse NUMERIC columns
	if quote.USD, err = decimal.NewFromString(usdStr); err != nil {
		return nil, fmt.Errorf("failed to parse usd: %w", err)
	}
	if quote.ChangePercent24h, err = decimal.NewFromString(changeStr); err != nil {
		return nil, fmt.Errorf("failed to parse change_24h: %w", err)
	}

	return &quote, nil
}
