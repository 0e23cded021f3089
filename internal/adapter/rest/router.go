// Package rest exposes the portfolio over HTTP/JSON and pushes live overviews over a websocket.
package rest

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Route binds a named handler to a method and path
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc http.HandlerFunc
}

// RequestLogger logs every request with its route name and duration. Only the path is
// logged so a token passed in the query string never reaches the log.
func RequestLogger(inner http.Handler, name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		inner.ServeHTTP(w, r)

		log.Printf(
			"[INFO] %s\t%s\t%s\t%s",
			r.Method,
			r.URL.Path,
			name,
			time.Since(start),
		)
	})
}

// NewRouter returns the API multiplexer. Every route except the health check requires the
// API token when one is configured.
func NewRouter(h *Handler) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)

	routes := []Route{
		{"Health", http.MethodGet, "/healthz", h.health},
		{"GetOverview", http.MethodGet, "/api/overview", h.getOverview},
		{"GetDailySeries", http.MethodGet, "/api/series", h.getDailySeries},
		{"ListTransactions", http.MethodGet, "/api/transactions", h.listTransactions},
		{"RecordTransaction", http.MethodPost, "/api/transactions", h.recordTransaction},
		{"GetPrice", http.MethodGet, "/api/price", h.getPrice},
		{"RefreshPrice", http.MethodPost, "/api/price/refresh", h.refreshPrice},
		{"ListNews", http.MethodGet, "/api/news", h.listNews},
		{"NewsRelay", http.MethodGet, "/api/news/rss", h.newsRelay},
		{"Websocket", http.MethodGet, "/ws", h.serveWebsocket},
	}

	for _, route := range routes {
		var handler http.Handler
		handler = route.HandlerFunc
		if route.Name != "Health" {
			handler = h.requireToken(handler)
		}
		handler = RequestLogger(handler, route.Name)

		router.
			Methods(route.Method).
			Path(route.Pattern).
			Name(route.Name).
			Handler(handler)
	}
	return router
}
