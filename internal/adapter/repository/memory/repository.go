// Package memory provides in-process repositories for tests and the memory store driver.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/simaogato/ethfolio-backend/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository in memory
type TransactionRepository struct {
	mu   sync.RWMutex
	rows []*domain.Transaction
}

// NewTransactionRepository creates an empty repository
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

// Create stores a copy of tx
func (r *TransactionRepository) Create(_ context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if row.ID == tx.ID {
			return fmt.Errorf("insert transaction: duplicate id %s", tx.ID)
		}
	}
	stored := *tx
	r.rows = append(r.rows, &stored)
	return nil
}

// List returns copies ordered like the SQL stores: the sort column, then insertion order
// in the same direction
func (r *TransactionRepository) List(_ context.Context, filter domain.ListFilter) ([]*domain.Transaction, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	type indexed struct {
		seq int
		tx  *domain.Transaction
	}
	rows := make([]indexed, len(r.rows))
	for i, row := range r.rows {
		rows[i] = indexed{seq: i, tx: row}
	}
	r.mu.RUnlock()

	if filter.SortField != "" {
		compare := comparator(filter.SortField)
		slices.SortFunc(rows, func(a, b indexed) int {
			c := compare(a.tx, b.tx)
			if c == 0 {
				c = cmp.Compare(a.seq, b.seq)
			}
			if filter.SortOrder == domain.SortDesc {
				return -c
			}
			return c
		})
	}

	start := min(filter.Offset, len(rows))
	end := len(rows)
	if filter.Limit > 0 {
		end = min(start+filter.Limit, len(rows))
	}

	out := make([]*domain.Transaction, 0, end-start)
	for _, row := range rows[start:end] {
		tx := *row.tx
		out = append(out, &tx)
	}
	return out, nil
}

// Count returns the number of stored transactions
func (r *TransactionRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows), nil
}

func comparator(field domain.SortField) func(a, b *domain.Transaction) int {
	switch field {
	case domain.SortByType:
		return func(a, b *domain.Transaction) int { return strings.Compare(string(a.Side), string(b.Side)) }
	case domain.SortByAmount:
		return func(a, b *domain.Transaction) int { return a.Amount.Cmp(b.Amount) }
	case domain.SortByPrice:
		return func(a, b *domain.Transaction) int { return a.Price.Cmp(b.Price) }
	default:
		return func(a, b *domain.Transaction) int { return a.Timestamp.Compare(b.Timestamp) }
	}
}

// QuoteRepository implements domain.QuoteRepository in memory
type QuoteRepository struct {
	mu     sync.RWMutex
	quotes []domain.Quote
}

// NewQuoteRepository creates an empty repository
func NewQuoteRepository() *QuoteRepository {
	return &QuoteRepository{}
}

// Add stores a copy of quote
func (r *QuoteRepository) Add(_ context.Context, quote *domain.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quotes = append(r.quotes, *quote)
	return nil
}

// GetLatest returns the quote with the latest FetchedAt; later inserts win ties
func (r *QuoteRepository) GetLatest(_ context.Context) (*domain.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.quotes) == 0 {
		return nil, fmt.Errorf("no price quote stored: %w", domain.ErrNotFound)
	}
	latest := r.quotes[0]
	for _, q := range r.quotes[1:] {
		if !q.FetchedAt.Before(latest.FetchedAt) {
			latest = q
		}
	}
	return &latest, nil
}
