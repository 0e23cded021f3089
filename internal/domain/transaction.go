package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side represents the direction of a transaction
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide converts user input ("buy", "SELL", ...) to a Side
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToUpper(strings.TrimSpace(s))) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	default:
		return "", fmt.Errorf("%w: side must be BUY or SELL, got %q", ErrInvalidTransaction, s)
	}
}

// Transaction represents a single buy or sell of the tracked asset.
// Transactions are immutable once stored.
type Transaction struct {
	ID        uuid.UUID
	Amount    decimal.Decimal // Quantity of the asset (Always Positive)
	Price     decimal.Decimal // Unit price in USD at execution (Always Positive)
	Timestamp time.Time       // Execution instant
	Side      Side            // 'BUY' or 'SELL'
	CreatedAt time.Time       // When the record was stored
}

// Validate ensures the transaction adheres to domain rules.
// Every failure wraps ErrInvalidTransaction.
func (t *Transaction) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidTransaction)
	}

	if t.Price.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: price must be positive", ErrInvalidTransaction)
	}

	if t.Timestamp.IsZero() {
		return fmt.Errorf("%w: timestamp is missing", ErrInvalidTransaction)
	}

	if t.Side != SideBuy && t.Side != SideSell {
		return fmt.Errorf("%w: side must be BUY or SELL", ErrInvalidTransaction)
	}

	return nil
}

// Total returns amount * price
func (t *Transaction) Total() decimal.Decimal {
	return t.Amount.Mul(t.Price)
}

// SortField is a column the transaction list can be ordered by
type SortField string

const (
	SortByDate   SortField = "date"
	SortByType   SortField = "type"
	SortByAmount SortField = "amount"
	SortByPrice  SortField = "price"
)

// SortOrder is the direction of a sort
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListFilter controls ordering and pagination of TransactionRepository.List.
// The zero value lists every transaction in insertion order.
type ListFilter struct {
	SortField SortField
	SortOrder SortOrder
	Limit     int // 0 means no limit
	Offset    int
}

// Validate checks the filter fields
func (f ListFilter) Validate() error {
	switch f.SortField {
	case "", SortByDate, SortByType, SortByAmount, SortByPrice:
	default:
		return fmt.Errorf("%w: sort field %q", ErrInvalidArgument, f.SortField)
	}
	switch f.SortOrder {
	case "", SortAsc, SortDesc:
	default:
		return fmt.Errorf("%w: sort order %q", ErrInvalidArgument, f.SortOrder)
	}
	if f.Limit < 0 {
		return fmt.Errorf("%w: limit %d must be non-negative", ErrInvalidArgument, f.Limit)
	}
	if f.Offset < 0 {
		return fmt.Errorf("%w: offset %d must be non-negative", ErrInvalidArgument, f.Offset)
	}
	return nil
}
