package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/ethfolio-backend/internal/domain"
	"github.com/simaogato/ethfolio-backend/internal/usecase/notify"
	"github.com/simaogato/ethfolio-backend/internal/usecase/position"
)

const (
	// DefaultPageSize is the page size of the transaction table
	DefaultPageSize = 10
	// MaxPageSize caps client supplied page sizes
	MaxPageSize = 100
)

// PriceLookup provides the latest market quote
type PriceLookup interface {
	Latest(ctx context.Context) (*domain.Quote, error)
}

// RecordInput represents the input for recording a buy or sell
type RecordInput struct {
	Amount          decimal.Decimal
	Price           decimal.Decimal // Ignored when UseCurrentPrice is set
	Timestamp       time.Time
	Side            domain.Side
	UseCurrentPrice bool // Fill Price from the latest market quote
}

// ListInput represents a request for one page of the transaction table
type ListInput struct {
	SortField domain.SortField // Defaults to date
	SortOrder domain.SortOrder // Defaults to desc
	Page      int              // 1-based, defaults to 1
	PageSize  int              // Defaults to DefaultPageSize
}

// Page is one page of the transaction table
type Page struct {
	Transactions []*domain.Transaction
	TotalCount   int
	Page         int
	PageSize     int
	TotalPages   int
}

// LedgerService handles recording and listing transactions
type LedgerService struct {
	TransactionRepo domain.TransactionRepository
	Prices          PriceLookup
	Events          notify.Publisher

	// RejectOverSell refuses a record that would make the position negative at any point.
	// Stored transactions cannot be removed, so turning it off lets one bad sell break every
	// later overview.
	RejectOverSell bool

	// mu serializes the over-sell check with the write that follows it
	mu  sync.Mutex
	now func() time.Time
}

// NewLedgerService creates a new LedgerService instance.
// prices and events may be nil.
func NewLedgerService(transactionRepo domain.TransactionRepository, prices PriceLookup, events notify.Publisher) *LedgerService {
	return &LedgerService{
		TransactionRepo: transactionRepo,
		Prices:          prices,
		Events:          events,
		RejectOverSell:  true,
		now:             time.Now,
	}
}

// Record validates and stores a new transaction
// Logic:
//  1. Resolve the price (explicit, or the latest quote when UseCurrentPrice is set)
//  2. Build and validate the transaction
//  3. Under the service lock, fold the whole history with a sell to catch an over-sell (on by default)
//  4. Save using TransactionRepo.Create and notify subscribers
func (s *LedgerService) Record(ctx context.Context, input RecordInput) (*domain.Transaction, error) {
	price := input.Price
	if input.UseCurrentPrice {
		if s.Prices == nil {
			return nil, domain.ErrPriceUnavailable
		}
		quote, err := s.Prices.Latest(ctx)
		if err != nil {
			return nil, err
		}
		price = quote.USD
	}

	now := s.now()
	tx := &domain.Transaction{
		ID:        uuid.New(),
		Amount:    input.Amount,
		Price:     price,
		Timestamp: input.Timestamp,
		Side:      input.Side,
		CreatedAt: now,
	}

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	if err := s.store(ctx, tx); err != nil {
		return nil, err
	}

	if s.Events != nil {
		s.Events.Publish(notify.Event{Type: notify.EventTransactionsChanged, At: now})
	}

	return tx, nil
}

// store writes tx. The lock covers the history fold too, so two concurrent sells cannot both
// pass against the same holdings.
func (s *LedgerService) store(ctx context.Context, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.RejectOverSell && tx.Side == domain.SideSell {
		if err := s.checkOverSell(ctx, tx); err != nil {
			return err
		}
	}
	return s.TransactionRepo.Create(ctx, tx)
}

// checkOverSell folds the stored history plus tx through the position engine
func (s *LedgerService) checkOverSell(ctx context.Context, tx *domain.Transaction) error {
	history, err := s.TransactionRepo.List(ctx, domain.ListFilter{})
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	all := append(history, tx)
	cutoff := tx.Timestamp
	for _, h := range history {
		if h.Timestamp.After(cutoff) {
			cutoff = h.Timestamp
		}
	}

	_, err = position.Fold(all, cutoff)
	if errors.Is(err, domain.ErrInvalidTransaction) {
		return fmt.Errorf("stored history is corrupt: %w", err)
	}
	return err
}

// List returns one page of transactions sorted as requested
func (s *LedgerService) List(ctx context.Context, input ListInput) (*Page, error) {
	if input.SortField == "" {
		input.SortField = domain.SortByDate
	}
	if input.SortOrder == "" {
		input.SortOrder = domain.SortDesc
	}
	if input.Page == 0 {
		input.Page = 1
	}
	if input.PageSize == 0 {
		input.PageSize = DefaultPageSize
	}

	if input.Page < 0 {
		return nil, fmt.Errorf("%w: page must be positive", domain.ErrInvalidArgument)
	}
	if input.PageSize < 0 || input.PageSize > MaxPageSize {
		return nil, fmt.Errorf("%w: page size must be between 1 and %d", domain.ErrInvalidArgument, MaxPageSize)
	}

	filter := domain.ListFilter{
		SortField: input.SortField,
		SortOrder: input.SortOrder,
		Limit:     input.PageSize,
		Offset:    (input.Page - 1) * input.PageSize,
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	totalCount, err := s.TransactionRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	transactions, err := s.TransactionRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &Page{
		Transactions: transactions,
		TotalCount:   totalCount,
		Page:         input.Page,
		PageSize:     input.PageSize,
		TotalPages:   (totalCount + input.PageSize - 1) / input.PageSize,
	}, nil
}

// All returns every stored transaction in insertion order
func (s *LedgerService) All(ctx context.Context) ([]*domain.Transaction, error) {
	return s.TransactionRepo.List(ctx, domain.ListFilter{})
}
