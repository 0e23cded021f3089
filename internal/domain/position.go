package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PositionState is the derived state of the holding after folding a prefix of the history.
// It is never persisted.
type PositionState struct {
	Holdings  decimal.Decimal // Quantity currently held
	CostBasis decimal.Decimal // Total cost attributed to Holdings
}

// AverageCost returns CostBasis / Holdings, invalid when nothing is held
func (p PositionState) AverageCost() decimal.NullDecimal {
	if !p.Holdings.IsPositive() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(p.CostBasis.Div(p.Holdings))
}

// Snapshot is the position at one instant together with its market context.
// The market fields are invalid when no price was available.
type Snapshot struct {
	PositionState
	AsOf             time.Time
	Price            decimal.NullDecimal
	ChangePercent24h decimal.NullDecimal
	MarketValue      decimal.NullDecimal // Holdings * Price
	UnrealizedPnL    decimal.NullDecimal // MarketValue - CostBasis
	PnLPercent       decimal.NullDecimal // UnrealizedPnL / CostBasis * 100, invalid when CostBasis is zero
}

// DailyPoint is the position at the end of one calendar day.
// MarketValue and UnrealizedPnL use the current price for every day, not the price of that day.
type DailyPoint struct {
	PositionState
	Day           time.Time // Local midnight
	MarketValue   decimal.NullDecimal
	UnrealizedPnL decimal.NullDecimal
}

// Date returns the day formatted as YYYY-MM-DD
func (d DailyPoint) Date() string {
	return d.Day.Format(time.DateOnly)
}
