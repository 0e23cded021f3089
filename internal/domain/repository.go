package domain

import (
	"context"
)

// TransactionRepository defines the interface for transaction persistence operations
type TransactionRepository interface {
	// Create stores a new transaction
	Create(ctx context.Context, tx *Transaction) error

	// List retrieves transactions ordered and paginated by filter.
	// A zero filter returns every transaction in insertion order.
	List(ctx context.Context, filter ListFilter) ([]*Transaction, error)

	// Count returns the total number of transactions
	Count(ctx context.Context) (int, error)
}

// QuoteRepository defines the interface for price history persistence operations
type QuoteRepository interface {
	// Add stores a fetched quote
	Add(ctx context.Context, quote *Quote) error

	// GetLatest retrieves the most recent quote.
	// Returns an error wrapping ErrNotFound when no quote was ever stored.
	GetLatest(ctx context.Context) (*Quote, error)
}
