package position

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/ethfolio-backend/internal/domain"
)

// DailySeries builds one point per calendar day from the day of the first transaction
// through the day of now, both inclusive. Day boundaries use now.Location().
//
// Logic:
//  1. Sort transactions by timestamp (stable)
//  2. Walk the days and the sorted transactions together in a single forward merge,
//     applying every transaction that happened before the end of the current day
//  3. Each day carries the state after the last transaction on or before that day,
//     so quiet days repeat the previous state
//
// Every point is valued with the same current quote (nil leaves the market fields invalid).
// An over-sell anywhere in the history fails the whole series.
func DailySeries(txs []*domain.Transaction, quote *domain.Quote, now time.Time) ([]domain.DailyPoint, error) {
	sorted, err := Sorted(txs)
	if err != nil {
		return nil, err
	}
	if len(sorted) == 0 {
		return []domain.DailyPoint{}, nil
	}

	loc := now.Location()
	first := StartOfDay(sorted[0].Timestamp, loc)
	last := StartOfDay(now, loc)
	if first.After(last) {
		return []domain.DailyPoint{}, nil
	}

	points := make([]domain.DailyPoint, 0, daysBetween(first, last)+1)
	var state domain.PositionState
	next := 0

	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		end := day.AddDate(0, 0, 1)
		for next < len(sorted) && sorted[next].Timestamp.Before(end) {
			state, err = Apply(state, sorted[next])
			if err != nil {
				return nil, err
			}
			next++
		}
		points = append(points, newPoint(day, state, quote))
	}

	return points, nil
}

// StartOfDay returns local midnight of the calendar day containing t
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func newPoint(day time.Time, state domain.PositionState, quote *domain.Quote) domain.DailyPoint {
	point := domain.DailyPoint{
		PositionState: state,
		Day:           day,
	}
	if quote != nil {
		marketValue, pnl, _ := Valuate(state, quote.USD)
		point.MarketValue = decimal.NewNullDecimal(marketValue)
		point.UnrealizedPnL = decimal.NewNullDecimal(pnl)
	}
	return point
}

// daysBetween is only a capacity hint; DST days may be 23 or 25 hours long
func daysBetween(from, to time.Time) int {
	n := int(to.Sub(from).Hours()/24 + 0.5)
	if n < 0 {
		return 0
	}
	return n
}
