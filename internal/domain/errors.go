package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidTransaction is returned for malformed transactions (non-positive amount or price,
	// missing timestamp, unknown side)
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrOverSell is returned when a sell exceeds the holdings at that point of the history
	ErrOverSell = errors.New("sell exceeds holdings")

	// ErrPriceUnavailable is returned when no market price has been fetched yet
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrFetch is returned when an upstream source (price API, news feed) fails
	ErrFetch = errors.New("fetch failed")

	// ErrInvalidArgument is returned for malformed queries (unknown sort field, negative page)
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned by repositories when a record does not exist
	ErrNotFound = errors.New("not found")
)

// OverSellError identifies the sell that made the position negative
type OverSellError struct {
	TransactionID uuid.UUID
	Amount        decimal.Decimal
	Holdings      decimal.Decimal // Holdings immediately before the sell
}

func (e *OverSellError) Error() string {
	return fmt.Sprintf("transaction %s sells %s but only %s held", e.TransactionID, e.Amount, e.Holdings)
}

// Unwrap lets errors.Is(err, ErrOverSell) match
func (e *OverSellError) Unwrap() error {
	return ErrOverSell
}
