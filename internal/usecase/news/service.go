package news

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/simaogato/ethfolio-backend/internal/domain"
)

const cacheKey = "news:items"

// Default filter and timing
var (
	DefaultKeywords   = []string{"以太坊", "ETH", "Ethereum"}
	DefaultMaxItems   = 5
	DefaultCacheTTL   = 30 * time.Minute
	DefaultRetryDelay = time.Hour
)

// Feed fetches headlines from an upstream source
type Feed interface {
	Fetch(ctx context.Context) ([]domain.NewsItem, error)
}

// Cache stores values with a time to live. Owned by the caller.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
}

// Options tunes filtering and refresh timing. Zero fields take the defaults.
type Options struct {
	Keywords   []string
	MaxItems   int
	CacheTTL   time.Duration
	RetryDelay time.Duration
}

// NewsService serves a filtered, cached list of headlines about the tracked asset
type NewsService struct {
	Feed  Feed
	Cache Cache

	opts Options
	now  func() time.Time

	mu         sync.Mutex
	lastGood   []domain.NewsItem
	retryAfter time.Time
}

// NewNewsService creates a new NewsService instance
func NewNewsService(feed Feed, cache Cache, opts Options) *NewsService {
	if len(opts.Keywords) == 0 {
		opts.Keywords = DefaultKeywords
	}
	if opts.MaxItems <= 0 {
		opts.MaxItems = DefaultMaxItems
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	return &NewsService{
		Feed:  feed,
		Cache: cache,
		opts:  opts,
		now:   time.Now,
	}
}

// Latest returns the current headlines
// Logic:
//  1. Serve from cache while the entry is fresh
//  2. Inside the retry window after a failure, serve the last good items without fetching
//  3. Otherwise fetch, filter and cache
func (s *NewsService) Latest(ctx context.Context) ([]domain.NewsItem, error) {
	if items, ok := s.cached(); ok {
		return items, nil
	}
	return s.fetch(ctx)
}

// Refresh fetches regardless of the cache but still honours the retry window
func (s *NewsService) Refresh(ctx context.Context) ([]domain.NewsItem, error) {
	return s.fetch(ctx)
}

func (s *NewsService) cached() ([]domain.NewsItem, bool) {
	if s.Cache == nil {
		return nil, false
	}
	v, ok := s.Cache.Get(cacheKey)
	if !ok {
		return nil, false
	}
	items, ok := v.([]domain.NewsItem)
	if !ok {
		return nil, false
	}
	return slices.Clone(items), true
}

func (s *NewsService) fetch(ctx context.Context) ([]domain.NewsItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Before(s.retryAfter) {
		if s.lastGood != nil {
			return slices.Clone(s.lastGood), nil
		}
		return nil, fmt.Errorf("%w: news feed backing off until %s", domain.ErrFetch, s.retryAfter.Format(time.RFC3339))
	}

	raw, err := s.Feed.Fetch(ctx)
	if err != nil {
		s.retryAfter = now.Add(s.opts.RetryDelay)
		if s.lastGood != nil {
			return slices.Clone(s.lastGood), nil
		}
		return nil, err
	}

	items := Filter(raw, s.opts.Keywords, s.opts.MaxItems)
	s.lastGood = items
	s.retryAfter = time.Time{}
	if s.Cache != nil {
		s.Cache.Set(cacheKey, items, s.opts.CacheTTL)
	}
	// Callers get their own copy so the cached slice stays intact
	return slices.Clone(items), nil
}

// Filter keeps items whose title contains any keyword (case-insensitive), in feed order,
// truncated to maxItems. The result is never nil.
func Filter(items []domain.NewsItem, keywords []string, maxItems int) []domain.NewsItem {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			lowered = append(lowered, strings.ToLower(kw))
		}
	}

	out := make([]domain.NewsItem, 0, maxItems)
	for _, item := range items {
		if len(out) == maxItems {
			break
		}
		title := strings.ToLower(item.Title)
		for _, kw := range lowered {
			if strings.Contains(title, kw) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}
