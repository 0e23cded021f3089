// Package coingecko implements the price source on top of the CoinGecko simple price API.
package coingecko

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/buger/jsonparser"
	"github.com/shopspring/decimal"
	"github.com/simaogato/ethfolio-backend/internal/domain"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public API root
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// Config configures the client. Zero fields take the defaults.
type Config struct {
	BaseURL    string
	CoinID     string        // Default "ethereum"
	VsCurrency string        // Default "usd"
	MinGap     time.Duration // Minimum spacing between requests, default 10s
	Timeout    time.Duration // Default 15s
}

// Client fetches the current price and 24h change of one coin
type Client struct {
	HTTP    *http.Client
	cfg     Config
	limiter *rate.Limiter
	now     func() time.Time
}

// NewClient creates a new CoinGecko client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.CoinID == "" {
		cfg.CoinID = "ethereum"
	}
	if cfg.VsCurrency == "" {
		cfg.VsCurrency = "usd"
	}
	if cfg.MinGap <= 0 {
		cfg.MinGap = 10 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		HTTP:    &http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(cfg.MinGap), 1),
		now:     time.Now,
	}
}

// CurrentPrice fetches a fresh quote. Every failure wraps domain.ErrFetch.
func (c *Client) CurrentPrice(ctx context.Context) (*domain.Quote, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter wait: %v", domain.ErrFetch, err)
	}

	q := url.Values{}
	q.Set("ids", c.cfg.CoinID)
	q.Set("vs_currencies", c.cfg.VsCurrency)
	q.Set("include_24hr_change", "true")
	u := c.cfg.BaseURL + "/simple/price?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: coingecko: %v", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: coingecko read body: %v", domain.ErrFetch, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: coingecko: status %d, body: %s", domain.ErrFetch, resp.StatusCode, truncate(body, 200))
	}

	return c.parse(body)
}

// parse reads {"<coin>": {"<vs>": 3012.45, "<vs>_24h_change": 2.1}} keeping the exact decimal text
func (c *Client) parse(body []byte) (*domain.Quote, error) {
	price, err := c.number(body, c.cfg.VsCurrency)
	if err != nil {
		return nil, err
	}

	// The change field is absent for freshly listed coins and null when CoinGecko lacks data
	change := decimal.Zero
	if _, dataType, _, err := jsonparser.Get(body, c.cfg.CoinID, c.cfg.VsCurrency+"_24h_change"); err == nil && dataType != jsonparser.Null {
		if change, err = c.number(body, c.cfg.VsCurrency+"_24h_change"); err != nil {
			return nil, err
		}
	}

	quote := &domain.Quote{
		USD:              price,
		ChangePercent24h: change,
		FetchedAt:        c.now(),
	}
	if err := quote.Validate(); err != nil {
		return nil, err
	}
	return quote, nil
}

func (c *Client) number(body []byte, field string) (decimal.Decimal, error) {
	raw, dataType, _, err := jsonparser.Get(body, c.cfg.CoinID, field)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: coingecko: %s.%s: %v", domain.ErrFetch, c.cfg.CoinID, field, err)
	}
	if dataType != jsonparser.Number {
		return decimal.Zero, fmt.Errorf("%w: coingecko: %s.%s is %s, not a number", domain.ErrFetch, c.cfg.CoinID, field, dataType)
	}
	d, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: coingecko: %s.%s: %v", domain.ErrFetch, c.cfg.CoinID, field, err)
	}
	return d, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
