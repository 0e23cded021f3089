package domain

import "time"

// NewsItem is a single headline from the news feed
type NewsItem struct {
	Title       string
	URL         string
	PublishedAt time.Time
}
