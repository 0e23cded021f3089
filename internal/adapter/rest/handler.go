package rest

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/simaogato/ethfolio-backend/internal/domain"
	"github.com/simaogato/ethfolio-backend/internal/usecase/dashboard"
	"github.com/simaogato/ethfolio-backend/internal/usecase/ledger"
	"github.com/simaogato/ethfolio-backend/internal/usecase/market"
	"github.com/simaogato/ethfolio-backend/internal/usecase/news"
	"github.com/simaogato/ethfolio-backend/internal/usecase/notify"
)

// RawFeed returns the upstream news document for the relay endpoint
type RawFeed interface {
	Raw(ctx context.Context) ([]byte, error)
}

// Subscriber delivers change events until ctx is done
type Subscriber interface {
	Subscribe(ctx context.Context) <-chan notify.Event
}

// Handler serves the REST and websocket endpoints
type Handler struct {
	Ledger    *ledger.LedgerService
	Market    *market.MarketService
	News      *news.NewsService
	Feed      RawFeed
	Dashboard *dashboard.DashboardService
	Events    Subscriber

	// APIToken is compared with the Authorization header (or the token query parameter for
	// websocket clients). Empty disables the check.
	APIToken string

	upgrader websocket.Upgrader
	now      func() time.Time
}

// NewHandler creates a Handler
func NewHandler(
	ledgerService *ledger.LedgerService,
	marketService *market.MarketService,
	newsService *news.NewsService,
	feed RawFeed,
	dashboardService *dashboard.DashboardService,
	events Subscriber,
	apiToken string,
) *Handler {
	return &Handler{
		Ledger:    ledgerService,
		Market:    marketService,
		News:      newsService,
		Feed:      feed,
		Dashboard: dashboardService,
		Events:    events,
		APIToken:  apiToken,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		now: time.Now,
	}
}

func (h *Handler) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.APIToken == "" {
			next.ServeHTTP(w, r)
			return
		}
		token := r.Header.Get("Authorization")
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(h.APIToken)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) getOverview(w http.ResponseWriter, r *http.Request) {
	var asOf time.Time
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid as_of: must be RFC3339")
			return
		}
		asOf = parsed
	}

	snapshot, err := h.Dashboard.GetOverview(r.Context(), asOf)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newOverview(snapshot))
}

func (h *Handler) getDailySeries(w http.ResponseWriter, r *http.Request) {
	points, err := h.Dashboard.GetDailySeries(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}

	out := make([]dailyPointJSON, 0, len(points))
	for _, p := range points {
		out = append(out, dailyPointJSON{
			Date:          p.Date(),
			Holdings:      p.Holdings.String(),
			CostBasis:     p.CostBasis.String(),
			MarketValue:   nullable(p.MarketValue),
			UnrealizedPnL: nullable(p.UnrealizedPnL),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"points": out})
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := ledger.ListInput{
		SortField: domain.SortField(q.Get("sort")),
		SortOrder: domain.SortOrder(q.Get("order")),
	}

	var err error
	if input.Page, err = intParam(q.Get("page")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid page")
		return
	}
	if input.PageSize, err = intParam(q.Get("page_size")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid page_size")
		return
	}

	page, err := h.Ledger.List(r.Context(), input)
	if err != nil {
		httpError(w, err)
		return
	}

	txs := make([]transactionJSON, 0, len(page.Transactions))
	for _, tx := range page.Transactions {
		txs = append(txs, newTransaction(tx))
	}
	writeJSON(w, http.StatusOK, transactionPageJSON{
		Transactions: txs,
		TotalCount:   page.TotalCount,
		Page:         page.Page,
		PageSize:     page.PageSize,
		TotalPages:   page.TotalPages,
	})
}

func (h *Handler) recordTransaction(w http.ResponseWriter, r *http.Request) {
	var req recordRequestJSON
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	side, err := domain.ParseSide(req.Side)
	if err != nil {
		httpError(w, err)
		return
	}

	input := ledger.RecordInput{
		Amount:          req.Amount,
		Price:           req.Price,
		Timestamp:       req.Timestamp,
		Side:            side,
		UseCurrentPrice: req.UseCurrentPrice,
	}
	if input.Timestamp.IsZero() {
		input.Timestamp = h.now()
	}

	tx, err := h.Ledger.Record(r.Context(), input)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newTransaction(tx))
}

func (h *Handler) getPrice(w http.ResponseWriter, r *http.Request) {
	quote, err := h.Market.Latest(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newQuote(quote))
}

func (h *Handler) refreshPrice(w http.ResponseWriter, r *http.Request) {
	quote, err := h.Market.Refresh(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newQuote(quote))
}

func (h *Handler) listNews(w http.ResponseWriter, r *http.Request) {
	items, err := h.News.Latest(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}

	out := make([]newsItemJSON, 0, len(items))
	for _, item := range items {
		n := newsItemJSON{Title: item.Title, URL: item.URL}
		if !item.PublishedAt.IsZero() {
			published := item.PublishedAt
			n.PublishedAt = &published
		}
		out = append(out, n)
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

// newsRelay serves the upstream feed from this origin so browsers avoid CORS
func (h *Handler) newsRelay(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")

	body, err := h.Feed.Raw(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"xml": string(body)})
}

// serveWebsocket sends the overview on connect and again after every change event
func (h *Handler) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WARN] websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reading is required to process close frames; client messages are ignored
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	events := h.Events.Subscribe(ctx)
	if err := h.pushOverview(ctx, conn, "snapshot"); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			if err := h.pushOverview(ctx, conn, string(evt.Type)); err != nil {
				return
			}
		}
	}
}

func (h *Handler) pushOverview(ctx context.Context, conn *websocket.Conn, event string) error {
	msg := wsMessageJSON{Event: event}
	snapshot, err := h.Dashboard.GetOverview(ctx, time.Time{})
	if err != nil {
		msg.Error = err.Error()
	} else {
		overview := newOverview(snapshot)
		msg.Data = &overview
	}

	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[WARN] websocket write: %v", err)
		return err
	}
	return nil
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// httpError maps domain errors to HTTP status codes
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidTransaction), errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrOverSell):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrPriceUnavailable), errors.Is(err, domain.ErrFetch):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("[ERROR] request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, response any) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("[ERROR] failed to send JSON response: %v", err)
	}
}

func nullable(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.String()
	return &s
}
