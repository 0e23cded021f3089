package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	ethfoliov1 "github.com/simaogato/ethfolio-backend/internal/adapter/grpc/ethfolio/v1"
	"github.com/simaogato/ethfolio-backend/internal/domain"
	"github.com/simaogato/ethfolio-backend/internal/usecase/dashboard"
	"github.com/simaogato/ethfolio-backend/internal/usecase/ledger"
	"github.com/simaogato/ethfolio-backend/internal/usecase/market"
	"github.com/simaogato/ethfolio-backend/internal/usecase/news"
)

// Server implements the PortfolioService gRPC server
type Server struct {
	ethfoliov1.UnimplementedPortfolioServiceServer

	LedgerService    *ledger.LedgerService
	MarketService    *market.MarketService
	NewsService      *news.NewsService
	DashboardService *dashboard.DashboardService

	now func() time.Time
}

// NewServer creates a new gRPC server instance
func NewServer(
	ledgerService *ledger.LedgerService,
	marketService *market.MarketService,
	newsService *news.NewsService,
	dashboardService *dashboard.DashboardService,
) *Server {
	return &Server{
		LedgerService:    ledgerService,
		MarketService:    marketService,
		NewsService:      newsService,
		DashboardService: dashboardService,
		now:              time.Now,
	}
}

// RecordTransaction handles the RecordTransaction RPC
func (s *Server) RecordTransaction(ctx context.Context, req *ethfoliov1.RecordTransactionRequest) (*ethfoliov1.RecordTransactionResponse, error) {
	side, err := domain.ParseSide(req.Side)
	if err != nil {
		return nil, mapError(err)
	}

	// Parse amount from string to decimal
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid amount format: %v", err)
	}

	// Price may be omitted when the current market price is requested
	price := decimal.Zero
	if !req.UseCurrentPrice || req.Price != "" {
		if price, err = decimal.NewFromString(req.Price); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid price format: %v", err)
		}
	}

	timestamp := s.now()
	if req.Timestamp != nil {
		if err := req.Timestamp.CheckValid(); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid timestamp: %v", err)
		}
		timestamp = req.Timestamp.AsTime()
	}

	tx, err := s.LedgerService.Record(ctx, ledger.RecordInput{
		Amount:          amount,
		Price:           price,
		Timestamp:       timestamp,
		Side:            side,
		UseCurrentPrice: req.UseCurrentPrice,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return &ethfoliov1.RecordTransactionResponse{
		Transaction: domainTransactionToProto(tx),
	}, nil
}

// ListTransactions handles the ListTransactions RPC
func (s *Server) ListTransactions(ctx context.Context, req *ethfoliov1.ListTransactionsRequest) (*ethfoliov1.ListTransactionsResponse, error) {
	page, err := s.LedgerService.List(ctx, ledger.ListInput{
		SortField: domain.SortField(req.SortField),
		SortOrder: domain.SortOrder(req.SortOrder),
		Page:      int(req.Page),
		PageSize:  int(req.PageSize),
	})
	if err != nil {
		return nil, mapError(err)
	}

	protoTransactions := make([]*ethfoliov1.Transaction, 0, len(page.Transactions))
	for _, tx := range page.Transactions {
		protoTransactions = append(protoTransactions, domainTransactionToProto(tx))
	}

	return &ethfoliov1.ListTransactionsResponse{
		Transactions: protoTransactions,
		TotalCount:   int32(page.TotalCount),
		Page:         int32(page.Page),
		PageSize:     int32(page.PageSize),
		TotalPages:   int32(page.TotalPages),
	}, nil
}

// GetOverview handles the GetOverview RPC
func (s *Server) GetOverview(ctx context.Context, req *ethfoliov1.GetOverviewRequest) (*ethfoliov1.GetOverviewResponse, error) {
	var asOf time.Time
	if req.AsOf != nil {
		if err := req.AsOf.CheckValid(); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid as_of: %v", err)
		}
		asOf = req.AsOf.AsTime()
	}

	snapshot, err := s.DashboardService.GetOverview(ctx, asOf)
	if err != nil {
		return nil, mapError(err)
	}

	return &ethfoliov1.GetOverviewResponse{
		Overview: domainSnapshotToProto(snapshot),
	}, nil
}

// GetDailySeries handles the GetDailySeries RPC
func (s *Server) GetDailySeries(ctx context.Context, req *ethfoliov1.GetDailySeriesRequest) (*ethfoliov1.GetDailySeriesResponse, error) {
	points, err := s.DashboardService.GetDailySeries(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	protoPoints := make([]*ethfoliov1.DailyPoint, 0, len(points))
	for _, p := range points {
		protoPoints = append(protoPoints, &ethfoliov1.DailyPoint{
			Date:          p.Date(),
			Holdings:      p.Holdings.String(),
			CostBasis:     p.CostBasis.String(),
			MarketValue:   nullDecimalToProto(p.MarketValue),
			UnrealizedPnl: nullDecimalToProto(p.UnrealizedPnL),
		})
	}

	return &ethfoliov1.GetDailySeriesResponse{Points: protoPoints}, nil
}

// GetPrice handles the GetPrice RPC
func (s *Server) GetPrice(ctx context.Context, req *ethfoliov1.GetPriceRequest) (*ethfoliov1.GetPriceResponse, error) {
	quote, err := s.MarketService.Latest(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return &ethfoliov1.GetPriceResponse{Quote: domainQuoteToProto(quote)}, nil
}

// RefreshPrice handles the RefreshPrice RPC
func (s *Server) RefreshPrice(ctx context.Context, req *ethfoliov1.RefreshPriceRequest) (*ethfoliov1.RefreshPriceResponse, error) {
	quote, err := s.MarketService.Refresh(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return &ethfoliov1.RefreshPriceResponse{Quote: domainQuoteToProto(quote)}, nil
}

// ListNews handles the ListNews RPC
func (s *Server) ListNews(ctx context.Context, req *ethfoliov1.ListNewsRequest) (*ethfoliov1.ListNewsResponse, error) {
	items, err := s.NewsService.Latest(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	protoItems := make([]*ethfoliov1.NewsItem, 0, len(items))
	for _, item := range items {
		protoItem := &ethfoliov1.NewsItem{
			Title: item.Title,
			Url:   item.URL,
		}
		if !item.PublishedAt.IsZero() {
			protoItem.PublishedAt = timestamppb.New(item.PublishedAt)
		}
		protoItems = append(protoItems, protoItem)
	}

	return &ethfoliov1.ListNewsResponse{Items: protoItems}, nil
}

// domainTransactionToProto converts a domain Transaction to a proto Transaction message
func domainTransactionToProto(tx *domain.Transaction) *ethfoliov1.Transaction {
	protoTx := &ethfoliov1.Transaction{
		Id:        tx.ID.String(),
		Side:      string(tx.Side),
		Amount:    tx.Amount.String(),
		Price:     tx.Price.String(),
		Timestamp: timestamppb.New(tx.Timestamp),
	}
	if !tx.CreatedAt.IsZero() {
		protoTx.CreatedAt = timestamppb.New(tx.CreatedAt)
	}
	return protoTx
}

func domainSnapshotToProto(snapshot *domain.Snapshot) *ethfoliov1.Overview {
	return &ethfoliov1.Overview{
		AsOf:             timestamppb.New(snapshot.AsOf),
		Holdings:         snapshot.Holdings.String(),
		CostBasis:        snapshot.CostBasis.String(),
		AverageCost:      nullDecimalToProto(snapshot.AverageCost()),
		Price:            nullDecimalToProto(snapshot.Price),
		ChangePercent24H: nullDecimalToProto(snapshot.ChangePercent24h),
		MarketValue:      nullDecimalToProto(snapshot.MarketValue),
		UnrealizedPnl:    nullDecimalToProto(snapshot.UnrealizedPnL),
		PnlPercent:       nullDecimalToProto(snapshot.PnLPercent),
	}
}

func domainQuoteToProto(quote *domain.Quote) *ethfoliov1.Quote {
	return &ethfoliov1.Quote{
		Usd:              quote.USD.String(),
		ChangePercent24H: quote.ChangePercent24h.String(),
		FetchedAt:        timestamppb.New(quote.FetchedAt),
	}
}

// nullDecimalToProto maps an undefined value to nil
func nullDecimalToProto(d decimal.NullDecimal) *wrapperspb.StringValue {
	if !d.Valid {
		return nil
	}
	return wrapperspb.String(d.Decimal.String())
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	errorMsg := err.Error()

	switch {
	case errors.Is(err, domain.ErrInvalidTransaction), errors.Is(err, domain.ErrInvalidArgument):
		return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
	case errors.Is(err, domain.ErrOverSell):
		return status.Errorf(codes.FailedPrecondition, "%s", errorMsg)
	case errors.Is(err, domain.ErrPriceUnavailable), errors.Is(err, domain.ErrFetch):
		return status.Errorf(codes.Unavailable, "%s", errorMsg)
	case errors.Is(err, domain.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s", errorMsg)
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", errorMsg)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", errorMsg)
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", errorMsg)
}
