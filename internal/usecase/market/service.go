package market

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/simaogato/ethfolio-backend/internal/domain"
	"github.com/simaogato/ethfolio-backend/internal/usecase/notify"
)

// PriceSource fetches the current market quote from an upstream API
type PriceSource interface {
	// CurrentPrice returns a fresh quote. Failures wrap domain.ErrFetch.
	CurrentPrice(ctx context.Context) (*domain.Quote, error)
}

// MarketService keeps the latest known quote of the tracked asset
type MarketService struct {
	Source    PriceSource
	QuoteRepo domain.QuoteRepository
	Events    notify.Publisher

	mu     sync.RWMutex
	latest *domain.Quote
}

// NewMarketService creates a new MarketService instance.
// quoteRepo and events may be nil.
func NewMarketService(source PriceSource, quoteRepo domain.QuoteRepository, events notify.Publisher) *MarketService {
	return &MarketService{
		Source:    source,
		QuoteRepo: quoteRepo,
		Events:    events,
	}
}

// Refresh fetches a new quote and makes it the latest
// Logic:
//  1. Fetch from the price source
//  2. Validate the quote (USD > 0), assigning an ID if missing
//  3. Persist to price history when a repository is configured
//  4. Keep as last good quote and notify subscribers
//
// On failure the previous quote stays in place.
func (s *MarketService) Refresh(ctx context.Context) (*domain.Quote, error) {
	quote, err := s.Source.CurrentPrice(ctx)
	if err != nil {
		return nil, err
	}

	if quote.ID == uuid.Nil {
		quote.ID = uuid.New()
	}
	if err := quote.Validate(); err != nil {
		return nil, err
	}

	if s.QuoteRepo != nil {
		if err := s.QuoteRepo.Add(ctx, quote); err != nil {
			return nil, fmt.Errorf("failed to store quote: %w", err)
		}
	}

	s.mu.Lock()
	s.latest = quote
	s.mu.Unlock()

	if s.Events != nil {
		s.Events.Publish(notify.Event{Type: notify.EventPriceRefreshed, At: quote.FetchedAt})
	}

	return quote, nil
}

// Latest returns the last good quote
// Logic:
//   - In-memory quote from the last successful Refresh
//   - Otherwise the most recent persisted quote (survives restarts)
//   - Otherwise domain.ErrPriceUnavailable
func (s *MarketService) Latest(ctx context.Context) (*domain.Quote, error) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()
	if latest != nil {
		return latest, nil
	}

	if s.QuoteRepo == nil {
		return nil, domain.ErrPriceUnavailable
	}

	quote, err := s.QuoteRepo.GetLatest(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrPriceUnavailable
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.latest == nil {
		s.latest = quote
	}
	s.mu.Unlock()

	return quote, nil
}
