// Package rss reads headlines from an RSS or Atom feed.
package rss

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/simaogato/ethfolio-backend/internal/domain"
)

const (
	// DefaultURL is the Cointelegraph Chinese edition feed
	DefaultURL = "https://cn.cointelegraph.com/rss"

	// Some feeds reject non-browser clients
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	maxBodyBytes = 5 << 20
)

// Feed fetches one feed URL
type Feed struct {
	URL    string
	Client *http.Client
	parser *gofeed.Parser
}

// NewFeed creates a Feed for url (DefaultURL when empty)
func NewFeed(url string) *Feed {
	if url == "" {
		url = DefaultURL
	}
	return &Feed{
		URL:    url,
		Client: &http.Client{Timeout: 20 * time.Second},
		parser: gofeed.NewParser(),
	}
}

// Raw returns the feed document as served. Failures wrap domain.ErrFetch.
func (f *Feed) Raw(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrFetch, err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml;q=0.9, */*;q=0.8")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: rss: %v", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: rss read body: %v", domain.ErrFetch, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: rss: status %d", domain.ErrFetch, resp.StatusCode)
	}
	return body, nil
}

// Fetch downloads and parses the feed into headlines, in feed order
func (f *Feed) Fetch(ctx context.Context) ([]domain.NewsItem, error) {
	body, err := f.Raw(ctx)
	if err != nil {
		return nil, err
	}
	return f.Parse(body)
}

// Parse converts a feed document into headlines. Items without a title are skipped.
func (f *Feed) Parse(body []byte) ([]domain.NewsItem, error) {
	parsed, err := f.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: rss parse: %v", domain.ErrFetch, err)
	}

	items := make([]domain.NewsItem, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		title := strings.TrimSpace(it.Title)
		if title == "" {
			continue
		}
		item := domain.NewsItem{
			Title: title,
			URL:   strings.TrimSpace(it.Link),
		}
		if it.PublishedParsed != nil {
			item.PublishedAt = *it.PublishedParsed
		}
		items = append(items, item)
	}
	return items, nil
}
