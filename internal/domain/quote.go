package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quote is a market price observation for the tracked asset
type Quote struct {
	ID               uuid.UUID
	USD              decimal.Decimal // Unit price
	ChangePercent24h decimal.Decimal
	FetchedAt        time.Time
}

// Validate ensures the quote can be used for valuation
func (q *Quote) Validate() error {
	if !q.USD.IsPositive() {
		return fmt.Errorf("%w: quote price must be positive", ErrFetch)
	}
	if q.FetchedAt.IsZero() {
		return fmt.Errorf("%w: quote timestamp is missing", ErrFetch)
	}
	return nil
}
