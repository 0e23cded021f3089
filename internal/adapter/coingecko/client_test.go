package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/ethfolio-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(Config{BaseURL: srv.URL, MinGap: time.Millisecond})
	c.now = func() time.Time { return time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC) }
	return c
}

func TestCurrentPrice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "ethereum", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		assert.Equal(t, "true", r.URL.Query().Get("include_24hr_change"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ethereum":{"usd":3012.45,"usd_24h_change":-1.8723456789012}}`))
	})

	quote, err := c.CurrentPrice(context.Background())

	require.NoError(t, err)
	assert.True(t, quote.USD.Equal(decimal.RequireFromString("3012.45")))
	assert.True(t, quote.ChangePercent24h.Equal(decimal.RequireFromString("-1.8723456789012")))
	assert.Equal(t, 2024, quote.FetchedAt.Year())
}

func TestCurrentPrice_MissingChange(t *testing.T) {
	for _, body := range []string{
		`{"ethereum":{"usd":2500}}`,
		`{"ethereum":{"usd":2500,"usd_24h_change":null}}`,
	} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})

		quote, err := c.CurrentPrice(context.Background())

		require.NoError(t, err, body)
		assert.True(t, quote.ChangePercent24h.IsZero(), body)
	}
}

func TestCurrentPrice_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"status":{"error_code":429}}`, wantMsg: "status 429"},
		{name: "unknown coin", status: http.StatusOK, body: `{}`, wantMsg: "ethereum.usd"},
		{name: "price is a string", status: http.StatusOK, body: `{"ethereum":{"usd":"3000"}}`, wantMsg: "not a number"},
		{name: "zero price", status: http.StatusOK, body: `{"ethereum":{"usd":0}}`, wantMsg: "must be positive"},
		{name: "malformed json", status: http.StatusOK, body: `{"ethereum":`, wantMsg: "coingecko"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			quote, err := c.CurrentPrice(context.Background())

			assert.Nil(t, quote)
			assert.ErrorIs(t, err, domain.ErrFetch)
			assert.ErrorContains(t, err, tt.wantMsg)
		})
	}
}

func TestCurrentPrice_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ethereum":{"usd":1}}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.CurrentPrice(ctx)
	assert.ErrorIs(t, err, domain.ErrFetch)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{})

	assert.Equal(t, DefaultBaseURL, c.cfg.BaseURL)
	assert.Equal(t, "ethereum", c.cfg.CoinID)
	assert.Equal(t, "usd", c.cfg.VsCurrency)
	assert.Equal(t, 15*time.Second, c.HTTP.Timeout)
}
