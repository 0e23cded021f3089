package position

import (
	"testing"
	"time"

	"github.com/simaogato/ethfolio-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailySeries_Empty(t *testing.T) {
	points, err := DailySeries(nil, quoteAt("1500"), day1)

	require.NoError(t, err)
	assert.NotNil(t, points)
	assert.Empty(t, points)
}

func TestDailySeries_ForwardFill(t *testing.T) {
	now := day1.AddDate(0, 0, 4).Add(5 * time.Hour) // day 5
	txs := []*domain.Transaction{buy("1.0", "1000", day1)}

	points, err := DailySeries(txs, quoteAt("1500"), now)

	require.NoError(t, err)
	require.Len(t, points, 5)
	for i, p := range points {
		assert.Equal(t, StartOfDay(day1, time.UTC).AddDate(0, 0, i), p.Day)
		assertDecimal(t, "1", p.Holdings)
		assertDecimal(t, "1000", p.CostBasis)
		assertNullDecimal(t, "1500", p.MarketValue)
		assertNullDecimal(t, "500", p.UnrealizedPnL)
	}
	assert.Equal(t, "2024-01-01", points[0].Date())
	assert.Equal(t, "2024-01-05", points[4].Date())
}

func TestDailySeries_SellOnlyAffectsLaterDays(t *testing.T) {
	now := day1.AddDate(0, 0, 4)
	txs := []*domain.Transaction{
		buy("2.0", "1000", day1),
		sell("1.0", "1200", day1.AddDate(0, 0, 2).Add(3*time.Hour)), // day 3
	}

	points, err := DailySeries(txs, quoteAt("1500"), now)

	require.NoError(t, err)
	require.Len(t, points, 5)
	for _, p := range points[:2] {
		assertDecimal(t, "2", p.Holdings)
		assertDecimal(t, "2000", p.CostBasis)
	}
	for _, p := range points[2:] {
		assertDecimal(t, "1", p.Holdings)
		assertDecimal(t, "1000", p.CostBasis)
		assertNullDecimal(t, "500", p.UnrealizedPnL)
	}
}

func TestDailySeries_MultipleTransactionsSameDay(t *testing.T) {
	now := day1.AddDate(0, 0, 1)
	txs := []*domain.Transaction{
		buy("1", "1000", day1),
		buy("1", "2000", day1.Add(time.Hour)),
		sell("0.5", "3000", day1.Add(2*time.Hour)),
	}

	points, err := DailySeries(txs, nil, now)

	require.NoError(t, err)
	require.Len(t, points, 2)
	// After both buys: 2 units, cost 3000; selling a quarter removes 750
	assertDecimal(t, "1.5", points[0].Holdings)
	assertDecimal(t, "2250", points[0].CostBasis)
	assert.Equal(t, points[0].PositionState, points[1].PositionState)
	assert.False(t, points[0].MarketValue.Valid)
	assert.False(t, points[0].UnrealizedPnL.Valid)
}

func TestDailySeries_MatchesSnapshotAtEndOfEachDay(t *testing.T) {
	now := day1.AddDate(0, 0, 9).Add(12 * time.Hour)
	txs := []*domain.Transaction{
		sell("0.3", "1900", day1.AddDate(0, 0, 6)),
		buy("1.5", "1800", day1),
		buy("0.25", "1700", day1.AddDate(0, 0, 3).Add(23*time.Hour)),
		sell("1.0", "2100", day1.AddDate(0, 0, 3).Add(23*time.Hour+30*time.Minute)),
	}

	points, err := DailySeries(txs, quoteAt("2000"), now)
	require.NoError(t, err)
	require.Len(t, points, 10)

	for _, p := range points {
		endOfDay := p.Day.AddDate(0, 0, 1).Add(-time.Nanosecond)
		snapshot, err := Snapshot(txs, quoteAt("2000"), endOfDay)
		require.NoError(t, err)
		assert.True(t, snapshot.Holdings.Equal(p.Holdings), "holdings on %s", p.Date())
		assert.True(t, snapshot.CostBasis.Equal(p.CostBasis), "cost basis on %s", p.Date())
		assert.True(t, snapshot.UnrealizedPnL.Decimal.Equal(p.UnrealizedPnL.Decimal), "P&L on %s", p.Date())
	}
}

func TestDailySeries_LocalDayBoundary(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 20:00 UTC on Jan 1 is already Jan 2 in Tokyo
	txs := []*domain.Transaction{buy("1", "1000", time.Date(2024, time.January, 1, 20, 0, 0, 0, time.UTC))}
	now := time.Date(2024, time.January, 3, 12, 0, 0, 0, tokyo)

	points, err := DailySeries(txs, nil, now)

	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "2024-01-02", points[0].Date())
	assert.Equal(t, "2024-01-03", points[1].Date())
	assert.Equal(t, tokyo, points[0].Day.Location())
}

func TestDailySeries_FirstTransactionInFuture(t *testing.T) {
	txs := []*domain.Transaction{buy("1", "1000", day1.AddDate(0, 0, 3))}

	points, err := DailySeries(txs, nil, day1)

	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestDailySeries_LaterTransactionTodayIsIncluded(t *testing.T) {
	now := day1 // 09:30
	txs := []*domain.Transaction{
		buy("1", "1000", day1.Add(-time.Hour)),
		buy("1", "1000", day1.Add(5*time.Hour)),
	}

	points, err := DailySeries(txs, nil, now)

	require.NoError(t, err)
	require.Len(t, points, 1)
	assertDecimal(t, "2", points[0].Holdings)
}

func TestDailySeries_OverSellFailsWholeSeries(t *testing.T) {
	txs := []*domain.Transaction{
		buy("1", "1000", day1),
		sell("1.5", "1000", day1.AddDate(0, 0, 2)),
	}

	points, err := DailySeries(txs, quoteAt("1500"), day1.AddDate(0, 0, 4))

	assert.Nil(t, points)
	assert.ErrorIs(t, err, domain.ErrOverSell)
}

func TestDailySeries_AcrossDSTChange(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// Clocks go forward on 2024-03-31
	txs := []*domain.Transaction{buy("1", "1000", time.Date(2024, time.March, 30, 12, 0, 0, 0, berlin))}
	now := time.Date(2024, time.April, 1, 0, 30, 0, 0, berlin)

	points, err := DailySeries(txs, nil, now)

	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, []string{"2024-03-30", "2024-03-31", "2024-04-01"},
		[]string{points[0].Date(), points[1].Date(), points[2].Date()})
	for _, p := range points {
		assert.Equal(t, 0, p.Day.Hour())
		assertDecimal(t, "1", p.Holdings)
	}
}

func TestStartOfDay(t *testing.T) {
	got := StartOfDay(time.Date(2024, time.June, 15, 23, 59, 59, 0, time.UTC), time.UTC)
	assert.Equal(t, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC), got)
}
