package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/simaogato/ethfolio-backend/internal/domain"
	"github.com/simaogato/ethfolio-backend/internal/usecase/position"
)

// PriceLookup provides the latest market quote
type PriceLookup interface {
	Latest(ctx context.Context) (*domain.Quote, error)
}

// DashboardService assembles the position views from the stored history and the latest quote
type DashboardService struct {
	TransactionRepo domain.TransactionRepository
	Prices          PriceLookup

	// Location sets the calendar day boundaries of the daily series
	Location *time.Location

	now func() time.Time
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(transactionRepo domain.TransactionRepository, prices PriceLookup) *DashboardService {
	return &DashboardService{
		TransactionRepo: transactionRepo,
		Prices:          prices,
		Location:        time.Local,
		now:             time.Now,
	}
}

// GetOverview computes the position as of asOf (zero means now)
// Logic:
//   - Load the full history and the latest quote
//   - A missing price leaves the market fields undefined instead of failing
//   - Over-sell or invalid history fails the whole overview
func (s *DashboardService) GetOverview(ctx context.Context, asOf time.Time) (*domain.Snapshot, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}

	txs, quote, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	return position.Snapshot(txs, quote, asOf)
}

// GetDailySeries computes one point per day from the first transaction through today
func (s *DashboardService) GetDailySeries(ctx context.Context) ([]domain.DailyPoint, error) {
	txs, quote, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	return position.DailySeries(txs, quote, s.now().In(loc))
}

func (s *DashboardService) load(ctx context.Context) ([]*domain.Transaction, *domain.Quote, error) {
	txs, err := s.TransactionRepo.List(ctx, domain.ListFilter{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	if s.Prices == nil {
		return txs, nil, nil
	}

	quote, err := s.Prices.Latest(ctx)
	if errors.Is(err, domain.ErrPriceUnavailable) {
		return txs, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get latest price: %w", err)
	}

	return txs, quote, nil
}
