// Package position reconstructs the holding, its weighted-average cost basis and the
// unrealized P&L from an unordered list of buy/sell transactions.
//
// Everything in this package is a pure function: no I/O, no shared state, and the input
// slices are never mutated. Callers recompute from the full history whenever it changes.
package position

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/ethfolio-backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Apply folds a single transaction into state and returns the new state.
//
// Logic:
//   - BUY: holdings += amount, costBasis += amount * price
//   - SELL: costBasis is reduced proportionally to the share of holdings sold
//     (costBasis * amount / holdings). Selling the whole position leaves a zero cost basis.
//   - A SELL larger than the current holdings (including any sell from an empty position)
//     is rejected with *domain.OverSellError. Nothing is clamped.
func Apply(state domain.PositionState, tx *domain.Transaction) (domain.PositionState, error) {
	if tx == nil {
		return state, fmt.Errorf("%w: nil transaction", domain.ErrInvalidTransaction)
	}
	if err := tx.Validate(); err != nil {
		return state, fmt.Errorf("transaction %s: %w", tx.ID, err)
	}

	switch tx.Side {
	case domain.SideBuy:
		return domain.PositionState{
			Holdings:  state.Holdings.Add(tx.Amount),
			CostBasis: state.CostBasis.Add(tx.Total()),
		}, nil

	case domain.SideSell:
		if tx.Amount.GreaterThan(state.Holdings) {
			return state, &domain.OverSellError{
				TransactionID: tx.ID,
				Amount:        tx.Amount,
				Holdings:      state.Holdings,
			}
		}

		holdings := state.Holdings.Sub(tx.Amount)
		if holdings.IsZero() {
			return domain.PositionState{Holdings: decimal.Zero, CostBasis: decimal.Zero}, nil
		}

		// Multiply before dividing to keep the rounding to a single step
		reduction := state.CostBasis.Mul(tx.Amount).Div(state.Holdings)
		return domain.PositionState{
			Holdings:  holdings,
			CostBasis: state.CostBasis.Sub(reduction),
		}, nil
	}

	// Unreachable: Validate rejects unknown sides
	return state, fmt.Errorf("%w: side %q", domain.ErrInvalidTransaction, tx.Side)
}

// Sorted returns a copy of txs ordered by timestamp ascending.
// Transactions with equal timestamps keep their relative input order.
// Returns an error wrapping domain.ErrInvalidTransaction if any entry is malformed.
func Sorted(txs []*domain.Transaction) ([]*domain.Transaction, error) {
	for i, tx := range txs {
		if tx == nil {
			return nil, fmt.Errorf("%w: nil transaction at index %d", domain.ErrInvalidTransaction, i)
		}
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
	}

	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b *domain.Transaction) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return sorted, nil
}

// Fold computes the position as of cutoff (inclusive) starting from the zero state.
// On error no state is returned.
func Fold(txs []*domain.Transaction, cutoff time.Time) (domain.PositionState, error) {
	sorted, err := Sorted(txs)
	if err != nil {
		return domain.PositionState{}, err
	}

	var state domain.PositionState
	for _, tx := range sorted {
		if tx.Timestamp.After(cutoff) {
			break
		}
		state, err = Apply(state, tx)
		if err != nil {
			return domain.PositionState{}, err
		}
	}
	return state, nil
}

// Snapshot computes the position as of asOf and values it with quote.
// A nil quote means the price is not available yet: the position figures are still
// computed but the market fields are left invalid.
func Snapshot(txs []*domain.Transaction, quote *domain.Quote, asOf time.Time) (*domain.Snapshot, error) {
	state, err := Fold(txs, asOf)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.Snapshot{
		PositionState: state,
		AsOf:          asOf,
	}
	if quote == nil {
		return snapshot, nil
	}

	marketValue, pnl, pnlPercent := Valuate(state, quote.USD)
	snapshot.Price = decimal.NewNullDecimal(quote.USD)
	snapshot.ChangePercent24h = decimal.NewNullDecimal(quote.ChangePercent24h)
	snapshot.MarketValue = decimal.NewNullDecimal(marketValue)
	snapshot.UnrealizedPnL = decimal.NewNullDecimal(pnl)
	snapshot.PnLPercent = pnlPercent
	return snapshot, nil
}

// Valuate marks state to price.
// pnlPercent is invalid when the cost basis is zero.
func Valuate(state domain.PositionState, price decimal.Decimal) (marketValue, pnl decimal.Decimal, pnlPercent decimal.NullDecimal) {
	marketValue = state.Holdings.Mul(price)
	pnl = marketValue.Sub(state.CostBasis)
	if !state.CostBasis.IsZero() {
		pnlPercent = decimal.NewNullDecimal(pnl.Mul(hundred).Div(state.CostBasis))
	}
	return marketValue, pnl, pnlPercent
}
