package rest

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/ethfolio-backend/internal/domain"
)

// Decimals are strings so clients never see float rounding; undefined values are null.

type overviewJSON struct {
	AsOf             time.Time `json:"as_of"`
	Holdings         string    `json:"holdings"`
	CostBasis        string    `json:"cost_basis"`
	AverageCost      *string   `json:"average_cost"`
	Price            *string   `json:"price"`
	ChangePercent24h *string   `json:"change_percent_24h"`
	MarketValue      *string   `json:"market_value"`
	UnrealizedPnL    *string   `json:"unrealized_pnl"`
	PnLPercent       *string   `json:"pnl_percent"`
}

func newOverview(s *domain.Snapshot) overviewJSON {
	return overviewJSON{
		AsOf:             s.AsOf,
		Holdings:         s.Holdings.String(),
		CostBasis:        s.CostBasis.String(),
		AverageCost:      nullable(s.AverageCost()),
		Price:            nullable(s.Price),
		ChangePercent24h: nullable(s.ChangePercent24h),
		MarketValue:      nullable(s.MarketValue),
		UnrealizedPnL:    nullable(s.UnrealizedPnL),
		PnLPercent:       nullable(s.PnLPercent),
	}
}

type dailyPointJSON struct {
	Date          string  `json:"date"`
	Holdings      string  `json:"holdings"`
	CostBasis     string  `json:"cost_basis"`
	MarketValue   *string `json:"market_value"`
	UnrealizedPnL *string `json:"unrealized_pnl"`
}

type transactionJSON struct {
	ID        string    `json:"id"`
	Side      string    `json:"side"`
	Amount    string    `json:"amount"`
	Price     string    `json:"price"`
	Total     string    `json:"total"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
}

func newTransaction(tx *domain.Transaction) transactionJSON {
	return transactionJSON{
		ID:        tx.ID.String(),
		Side:      string(tx.Side),
		Amount:    tx.Amount.String(),
		Price:     tx.Price.String(),
		Total:     tx.Total().String(),
		Timestamp: tx.Timestamp,
		CreatedAt: tx.CreatedAt,
	}
}

type transactionPageJSON struct {
	Transactions []transactionJSON `json:"transactions"`
	TotalCount   int               `json:"total_count"`
	Page         int               `json:"page"`
	PageSize     int               `json:"page_size"`
	TotalPages   int               `json:"total_pages"`
}

// recordRequestJSON accepts amount and price as JSON strings or numbers
type recordRequestJSON struct {
	Side            string          `json:"side"`
	Amount          decimal.Decimal `json:"amount"`
	Price           decimal.Decimal `json:"price"`
	Timestamp       time.Time       `json:"timestamp"`
	UseCurrentPrice bool            `json:"use_current_price"`
}

type quoteJSON struct {
	USD              string    `json:"usd"`
	ChangePercent24h string    `json:"change_percent_24h"`
	FetchedAt        time.Time `json:"fetched_at"`
}

func newQuote(q *domain.Quote) quoteJSON {
	return quoteJSON{
		USD:              q.USD.String(),
		ChangePercent24h: q.ChangePercent24h.String(),
		FetchedAt:        q.FetchedAt,
	}
}

type newsItemJSON struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

type wsMessageJSON struct {
	Event string        `json:"event"`
	Data  *overviewJSON `json:"data,omitempty"`
	Error string        `json:"error,omitempty"`
}
