package ethfoliov1

import (
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Decimal values travel as strings. Optional decimals are nil when undefined.

type Transaction struct {
	Id        string                 `json:"id"`
	Side      string                 `json:"side"`
	Amount    string                 `json:"amount"`
	Price     string                 `json:"price"`
	Timestamp *timestamppb.Timestamp `json:"timestamp"`
	CreatedAt *timestamppb.Timestamp `json:"created_at,omitempty"`
}

type RecordTransactionRequest struct {
	Side            string                 `json:"side"`
	Amount          string                 `json:"amount"`
	Price           string                 `json:"price,omitempty"`
	Timestamp       *timestamppb.Timestamp `json:"timestamp,omitempty"` // Defaults to the server time
	UseCurrentPrice bool                   `json:"use_current_price,omitempty"`
}

type RecordTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type ListTransactionsRequest struct {
	SortField string `json:"sort_field,omitempty"`
	SortOrder string `json:"sort_order,omitempty"`
	Page      int32  `json:"page,omitempty"`
	PageSize  int32  `json:"page_size,omitempty"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
	TotalCount   int32          `json:"total_count"`
	Page         int32          `json:"page"`
	PageSize     int32          `json:"page_size"`
	TotalPages   int32          `json:"total_pages"`
}

type GetOverviewRequest struct {
	AsOf *timestamppb.Timestamp `json:"as_of,omitempty"` // Defaults to now
}

type Overview struct {
	AsOf             *timestamppb.Timestamp  `json:"as_of"`
	Holdings         string                  `json:"holdings"`
	CostBasis        string                  `json:"cost_basis"`
	AverageCost      *wrapperspb.StringValue `json:"average_cost,omitempty"`
	Price            *wrapperspb.StringValue `json:"price,omitempty"`
	ChangePercent24H *wrapperspb.StringValue `json:"change_percent_24h,omitempty"`
	MarketValue      *wrapperspb.StringValue `json:"market_value,omitempty"`
	UnrealizedPnl    *wrapperspb.StringValue `json:"unrealized_pnl,omitempty"`
	PnlPercent       *wrapperspb.StringValue `json:"pnl_percent,omitempty"`
}

type GetOverviewResponse struct {
	Overview *Overview `json:"overview"`
}

type GetDailySeriesRequest struct{}

type DailyPoint struct {
	Date          string                  `json:"date"` // YYYY-MM-DD
	Holdings      string                  `json:"holdings"`
	CostBasis     string                  `json:"cost_basis"`
	MarketValue   *wrapperspb.StringValue `json:"market_value,omitempty"`
	UnrealizedPnl *wrapperspb.StringValue `json:"unrealized_pnl,omitempty"`
}

type GetDailySeriesResponse struct {
	Points []*DailyPoint `json:"points"`
}

type Quote struct {
	Usd              string                 `json:"usd"`
	ChangePercent24H string                 `json:"change_percent_24h"`
	FetchedAt        *timestamppb.Timestamp `json:"fetched_at"`
}

type GetPriceRequest struct{}

type GetPriceResponse struct {
	Quote *Quote `json:"quote"`
}

type RefreshPriceRequest struct{}

type RefreshPriceResponse struct {
	Quote *Quote `json:"quote"`
}

type ListNewsRequest struct{}

type NewsItem struct {
	Title       string                 `json:"title"`
	Url         string                 `json:"url"`
	PublishedAt *timestamppb.Timestamp `json:"published_at,omitempty"`
}

type ListNewsResponse struct {
	Items []*NewsItem `json:"items"`
}
