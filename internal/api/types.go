package api

import "stockdeck/internal/domain"

// WatchlistResponse is the JSON shape for GET /api/watchlist.
type WatchlistResponse struct {
	Symbols []string `json:"symbols"`
}

// QuoteResponse is the JSON shape for GET /api/quote/{symbol}.
type QuoteResponse struct {
	Quote domain.Quote `json:"quote"`
}

// SearchRequest is the JSON body for the search endpoints.
type SearchRequest struct {
	Query string `json:"query"`
}

// NotifyRequest is the JSON body for POST /api/notifications.
type NotifyRequest struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// NotifyResponse is the JSON shape for POST /api/notifications.
type NotifyResponse struct {
	ID string `json:"id"`
}

// NewsResponse is the JSON shape for GET /api/news.
type NewsResponse struct {
	Headlines []domain.Headline `json:"headlines"`
}
