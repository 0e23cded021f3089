package rss

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/simaogato/ethfolio-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Cointelegraph</title>
    <link>https://cn.cointelegraph.com</link>
    <item>
      <title>以太坊价格突破4000美元</title>
      <link>https://cn.cointelegraph.com/news/eth-4000</link>
      <pubDate>Mon, 11 Mar 2024 08:00:00 +0000</pubDate>
    </item>
    <item>
      <title><![CDATA[ Bitcoin halving approaches ]]></title>
      <link>https://cn.cointelegraph.com/news/btc-halving</link>
    </item>
    <item>
      <title></title>
      <link>https://cn.cointelegraph.com/news/untitled</link>
    </item>
  </channel>
</rss>`

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	items, err := NewFeed(srv.URL).Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "以太坊价格突破4000美元", items[0].Title)
	assert.Equal(t, "https://cn.cointelegraph.com/news/eth-4000", items[0].URL)
	assert.True(t, items[0].PublishedAt.Equal(time.Date(2024, time.March, 11, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Bitcoin halving approaches", items[1].Title)
	assert.True(t, items[1].PublishedAt.IsZero())
}

func TestRaw_ReturnsDocumentUnchanged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	body, err := NewFeed(srv.URL).Raw(context.Background())

	require.NoError(t, err)
	assert.Equal(t, sampleFeed, string(body))
}

func TestFetch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "upstream error", status: http.StatusForbidden, body: "denied", wantMsg: "status 403"},
		{name: "not a feed", status: http.StatusOK, body: "<html><body>hi</body></html>", wantMsg: "rss parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			items, err := NewFeed(srv.URL).Fetch(context.Background())

			assert.Nil(t, items)
			assert.ErrorIs(t, err, domain.ErrFetch)
			assert.ErrorContains(t, err, tt.wantMsg)
		})
	}
}

func TestNewFeed_DefaultURL(t *testing.T) {
	assert.Equal(t, DefaultURL, NewFeed("").URL)
}
