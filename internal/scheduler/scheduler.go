// Package scheduler runs the periodic price and news refreshes.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/simaogato/ethfolio-backend/internal/domain"
)

// jobTimeout bounds a single refresh so a hung upstream cannot pile up runs
const jobTimeout = 30 * time.Second

// PriceRefresher fetches and stores a new quote
type PriceRefresher interface {
	Refresh(ctx context.Context) (*domain.Quote, error)
}

// NewsRefresher reloads the headline list
type NewsRefresher interface {
	Refresh(ctx context.Context) ([]domain.NewsItem, error)
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron   *cron.Cron
	Prices PriceRefresher
	News   NewsRefresher
	Ctx    context.Context
}

// NewScheduler creates a new Scheduler. news may be nil.
func NewScheduler(ctx context.Context, prices PriceRefresher, news NewsRefresher) *Scheduler {
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		Prices: prices,
		News:   news,
		Ctx:    ctx,
	}
}

// RegisterAll registers the price and news refresh tasks.
func (s *Scheduler) RegisterAll(priceCron, newsCron string) error {
	if _, err := s.Cron.AddFunc(priceCron, s.priceTask); err != nil {
		return fmt.Errorf("register price task: %w", err)
	}
	if s.News == nil {
		return nil
	}
	if _, err := s.Cron.AddFunc(newsCron, s.newsTask); err != nil {
		return fmt.Errorf("register news task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes every task once (for RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.priceTask()
	if s.News != nil {
		s.newsTask()
	}
}

func (s *Scheduler) priceTask() {
	ctx, cancel := context.WithTimeout(s.Ctx, jobTimeout)
	defer cancel()

	quote, err := s.Prices.Refresh(ctx)
	if err != nil {
		log.Printf("[ERROR] price refresh: %v", err)
		return
	}
	log.Printf("[INFO] price refreshed: %s USD (%s%% 24h)", quote.USD, quote.ChangePercent24h.StringFixed(2))
}

func (s *Scheduler) newsTask() {
	ctx, cancel := context.WithTimeout(s.Ctx, jobTimeout)
	defer cancel()

	items, err := s.News.Refresh(ctx)
	if err != nil {
		log.Printf("[WARN] news refresh: %v", err)
		return
	}
	log.Printf("[INFO] news refreshed: %d items", len(items))
}
