package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
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

// Add inserts a fetched quote
func (r *quoteRepository) Add(ctx context.Context, quote *domain.Quote) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO price_quotes
		(id, usd, change_24h, fetched_at)
		VALUES (?, ?, ?, ?)`,
		quote.ID.String(),
		quote.USD.String(),
		quote.ChangePercent24h.String(),
		quote.FetchedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert price quote: %w", err)
	}
	return nil
}

// GetLatest retrieves the most recent quote
func (r *quoteRepository) GetLatest(ctx context.Context) (*domain.Quote, error) {
	var (
		id, usdStr, changeStr string
		fetchedAt             int64
	)
	err := r.db.QueryRowContext(ctx, `SELECT id, usd, change_24h, fetched_at
		FROM price_quotes ORDER BY fetched_at DESC, seq DESC LIMIT 1`).
		Scan(&id, &usdStr, &changeStr, &fetchedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no price quote stored: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get latest price quote: %w", err)
	}

	quote := &domain.Quote{FetchedAt: time.Unix(0, fetchedAt).UTC()}
	if quote.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse id: %w", err)
	}
	if quote.USD, err = decimal.NewFromString(usdStr); err != nil {
		return nil, fmt.Errorf("parse usd: %w", err)
	}
	if quote.ChangePercent24h, err = decimal.NewFromString(changeStr); err != nil {
		return nil, fmt.Errorf("parse change_24h: %w", err)
	}
	return quote, nil
}
