// Package domain defines the shared types for the stockdeck dashboard:
// quotes, display surfaces, notifications, and news headlines.
package domain

import "time"

// ---------------------------------------------------------------------------
// Surfaces
// ---------------------------------------------------------------------------

// SurfaceID is an opaque handle identifying a single displayed numeric widget.
type SurfaceID string

// SurfaceClass groups surfaces that share a delta rule during a tick.
type SurfaceClass string

const (
	// ClassIndex is a market index card; ticks move it by an additive delta.
	ClassIndex SurfaceClass = "index"
	// ClassWatchlist is a watchlist row; ticks move it by a multiplicative
	// percentage delta.
	ClassWatchlist SurfaceClass = "watchlist"
	// ClassPortfolio is the portfolio total; ticks move it by an additive delta.
	ClassPortfolio SurfaceClass = "portfolio"
)

// Direction reports which way a surface moved on its last update.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// DirectionOf returns the direction implied by a signed delta.
func DirectionOf(delta float64) Direction {
	switch {
	case delta > 0:
		return DirectionUp
	case delta < 0:
		return DirectionDown
	default:
		return DirectionFlat
	}
}

// ---------------------------------------------------------------------------
// Quotes
// ---------------------------------------------------------------------------

// Quote is a single synthetic quote for the quote panel. Each synthesis call
// produces a fresh Quote with no continuity to prior calls for the same
// symbol.
type Quote struct {
	Symbol        string  `json:"symbol"`
	DisplayName   string  `json:"displayName"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// ---------------------------------------------------------------------------
// Notifications
// ---------------------------------------------------------------------------

// Severity classifies a notification for styling.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ParseSeverity validates a severity string from an external caller.
func ParseSeverity(s string) (Severity, bool) {
	switch Severity(s) {
	case SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError:
		return Severity(s), true
	}
	return "", false
}

// Phase is one stage of a notification's fixed-duration visual lifecycle.
type Phase string

const (
	PhaseEntering Phase = "entering"
	PhaseVisible  Phase = "visible"
	PhaseExiting  Phase = "exiting"
	PhaseDisposed Phase = "disposed"
)

// Notification is a transient message rendered in the ephemeral overlay.
// Multiple notifications coexist with independent lifetimes.
type Notification struct {
	ID       string   `json:"id"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Phase    Phase    `json:"phase"`
}

// ---------------------------------------------------------------------------
// News
// ---------------------------------------------------------------------------

// Headline is a single entry in the dashboard news feed.
type Headline struct {
	Time   time.Time `json:"time"`
	Symbol string    `json:"symbol"`
	Sector string    `json:"sector"`
	Text   string    `json:"text"`
	Source string    `json:"source"`
}
