package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/ethfolio-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTransactionRepository is a mock implementation of TransactionRepository for testing
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockPriceLookup is a mock implementation of PriceLookup for testing
type MockPriceLookup struct {
	mock.Mock
}

func (m *MockPriceLookup) Latest(ctx context.Context) (*domain.Quote, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

var now = time.Date(2024, time.February, 10, 15, 0, 0, 0, time.UTC)

func history() []*domain.Transaction {
	return []*domain.Transaction{
		{ID: uuid.New(), Amount: decimal.NewFromInt(2), Price: decimal.NewFromInt(2000), Timestamp: now.AddDate(0, 0, -2), Side: domain.SideBuy},
		{ID: uuid.New(), Amount: decimal.NewFromInt(1), Price: decimal.NewFromInt(2500), Timestamp: now.AddDate(0, 0, -1), Side: domain.SideSell},
	}
}

func newTestService(repo domain.TransactionRepository, prices PriceLookup) *DashboardService {
	service := NewDashboardService(repo, prices)
	service.Location = time.UTC
	service.now = func() time.Time { return now }
	return service
}

func TestGetOverview(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)
	mockPrices := new(MockPriceLookup)
	service := newTestService(mockTxRepo, mockPrices)

	mockTxRepo.On("List", ctx, domain.ListFilter{}).Return(history(), nil)
	mockPrices.On("Latest", ctx).Return(&domain.Quote{USD: decimal.NewFromInt(3000), ChangePercent24h: decimal.NewFromFloat(1.5), FetchedAt: now}, nil)

	snapshot, err := service.GetOverview(ctx, time.Time{})

	require.NoError(t, err)
	assert.Equal(t, now, snapshot.AsOf)
	assert.True(t, snapshot.Holdings.Equal(decimal.NewFromInt(1)))
	assert.True(t, snapshot.CostBasis.Equal(decimal.NewFromInt(2000)))
	assert.True(t, snapshot.MarketValue.Decimal.Equal(decimal.NewFromInt(3000)))
	assert.True(t, snapshot.UnrealizedPnL.Decimal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, snapshot.PnLPercent.Decimal.Equal(decimal.NewFromInt(50)))
}

func TestGetOverview_AsOfInPast(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)
	service := newTestService(mockTxRepo, nil)

	mockTxRepo.On("List", ctx, domain.ListFilter{}).Return(history(), nil)

	snapshot, err := service.GetOverview(ctx, now.AddDate(0, 0, -2))

	require.NoError(t, err)
	assert.True(t, snapshot.Holdings.Equal(decimal.NewFromInt(2)))
	assert.False(t, snapshot.MarketValue.Valid)
}

func TestGetOverview_PriceUnavailable(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)
	mockPrices := new(MockPriceLookup)
	service := newTestService(mockTxRepo, mockPrices)

	mockTxRepo.On("List", ctx, domain.ListFilter{}).Return(history(), nil)
	mockPrices.On("Latest", ctx).Return(nil, domain.ErrPriceUnavailable)

	snapshot, err := service.GetOverview(ctx, time.Time{})

	require.NoError(t, err)
	assert.True(t, snapshot.Holdings.Equal(decimal.NewFromInt(1)))
	assert.False(t, snapshot.Price.Valid)
	assert.False(t, snapshot.UnrealizedPnL.Valid)
}

func TestGetOverview_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("store failure", func(t *testing.T) {
		mockTxRepo := new(MockTransactionRepository)
		mockTxRepo.On("List", ctx, domain.ListFilter{}).Return(nil, errors.New("db down"))

		_, err := newTestService(mockTxRepo, nil).GetOverview(ctx, time.Time{})
		assert.ErrorContains(t, err, "failed to list transactions: db down")
	})

	t.Run("price lookup failure", func(t *testing.T) {
		mockTxRepo := new(MockTransactionRepository)
		mockPrices := new(MockPriceLookup)
		mockTxRepo.On("List", ctx, domain.ListFilter{}).Return(history(), nil)
		mockPrices.On("Latest", ctx).Return(nil, errors.New("db down"))

		_, err := newTestService(mockTxRepo, mockPrices).GetOverview(ctx, time.Time{})
		assert.ErrorContains(t, err, "failed to get latest price")
	})

	t.Run("over-sell in history", func(t *testing.T) {
		mockTxRepo := new(MockTransactionRepository)
		txs := append(history(), &domain.Transaction{
			ID: uuid.New(), Amount: decimal.NewFromInt(5), Price: decimal.NewFromInt(1), Timestamp: now.Add(-time.Hour), Side: domain.SideSell,
		})
		mockTxRepo.On("List", ctx, domain.ListFilter{}).Return(txs, nil)

		_, err := newTestService(mockTxRepo, nil).GetOverview(ctx, time.Time{})
		assert.ErrorIs(t, err, domain.ErrOverSell)
	})
}

func TestGetDailySeries(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)
	mockPrices := new(MockPriceLookup)
	service := newTestService(mockTxRepo, mockPrices)

	mockTxRepo.On("List", ctx, domain.ListFilter{}).Return(history(), nil)
	mockPrices.On("Latest", ctx).Return(&domain.Quote{USD: decimal.NewFromInt(3000), FetchedAt: now}, nil)

	points, err := service.GetDailySeries(ctx)

	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, "2024-02-08", points[0].Date())
	assert.Equal(t, "2024-02-10", points[2].Date())
	assert.True(t, points[0].Holdings.Equal(decimal.NewFromInt(2)))
	assert.True(t, points[1].Holdings.Equal(decimal.NewFromInt(1)))
	assert.True(t, points[2].UnrealizedPnL.Decimal.Equal(decimal.NewFromInt(1000)))
}

func TestGetDailySeries_Empty(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)
	mockTxRepo.On("List", ctx, domain.ListFilter{}).Return([]*domain.Transaction{}, nil)

	points, err := newTestService(mockTxRepo, nil).GetDailySeries(ctx)

	require.NoError(t, err)
	assert.Empty(t, points)
}
