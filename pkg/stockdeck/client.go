// Package stockdeck is the Go client for the stockdeck dashboard API. It
// wraps the REST endpoints and the WebSocket board stream.
package stockdeck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// Client talks to one stockdeck server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the given base URL, e.g. "http://localhost:8080".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// apiError is the server's JSON error envelope.
type apiError struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var ae apiError
		if json.NewDecoder(resp.Body).Decode(&ae) == nil && ae.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, ae.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// Board fetches the full board snapshot.
func (c *Client) Board(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := c.do(ctx, http.MethodGet, "/api/board", nil, &snap)
	return snap, err
}

// Quote synthesizes a quote for a symbol without touching the quote panel.
func (c *Client) Quote(ctx context.Context, symbol string) (Quote, error) {
	var resp struct {
		Quote Quote `json:"quote"`
	}
	err := c.do(ctx, http.MethodGet, "/api/quote/"+url.PathEscape(symbol), nil, &resp)
	return resp.Quote, err
}

// Search feeds one query edit into the server side debouncer.
func (c *Client) Search(ctx context.Context, query string) error {
	return c.do(ctx, http.MethodPost, "/api/search", map[string]string{"query": query}, nil)
}

// Commit submits a query immediately, bypassing the debounce window.
func (c *Client) Commit(ctx context.Context, query string) error {
	return c.do(ctx, http.MethodPost, "/api/search/commit", map[string]string{"query": query}, nil)
}

// Watchlist returns the tracked symbols.
func (c *Client) Watchlist(ctx context.Context) ([]string, error) {
	var resp struct {
		Symbols []string `json:"symbols"`
	}
	err := c.do(ctx, http.MethodGet, "/api/watchlist", nil, &resp)
	return resp.Symbols, err
}

// AddWatchlist adds a symbol to the watchlist.
func (c *Client) AddWatchlist(ctx context.Context, symbol string) error {
	return c.do(ctx, http.MethodPut, "/api/watchlist/"+url.PathEscape(symbol), nil, nil)
}

// RemoveWatchlist removes a symbol from the watchlist.
func (c *Client) RemoveWatchlist(ctx context.Context, symbol string) error {
	return c.do(ctx, http.MethodDelete, "/api/watchlist/"+url.PathEscape(symbol), nil, nil)
}

// Notify pushes a notification and returns its ID.
func (c *Client) Notify(ctx context.Context, message, severity string) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, "/api/notifications",
		map[string]string{"message": message, "severity": severity}, &resp)
	return resp.ID, err
}

// Dismiss short-circuits a notification to its exit animation.
func (c *Client) Dismiss(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/notifications/"+url.PathEscape(id), nil, nil)
}

// News returns the current headline feed, newest first.
func (c *Client) News(ctx context.Context) ([]Headline, error) {
	var resp struct {
		Headlines []Headline `json:"headlines"`
	}
	err := c.do(ctx, http.MethodGet, "/api/news", nil, &resp)
	return resp.Headlines, err
}

// streamURL converts the base URL to its WebSocket equivalent.
func (c *Client) streamURL() string {
	u := c.baseURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/ws"
}

// Stream connects to the board stream and calls fn for every event, starting
// with a full snapshot. It reconnects with linear backoff until ctx is
// cancelled; each reconnect delivers a fresh snapshot first.
func (c *Client) Stream(ctx context.Context, fn func(Event)) error {
	const reconnectDelay = 2 * time.Second

	for {
		err := c.streamOnce(ctx, fn)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_ = err // transient; the next attempt starts from a fresh snapshot

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

// streamOnce runs a single stream connection until it fails or ctx ends.
func (c *Client) streamOnce(ctx context.Context, fn func(Event)) error {
	conn, _, err := websocket.Dial(ctx, c.streamURL(), nil)
	if err != nil {
		return err
	}
	defer conn.CloseNow()

	for {
		var evt Event
		if err := wsjson.Read(ctx, conn, &evt); err != nil {
			return err
		}
		fn(evt)
	}
}
