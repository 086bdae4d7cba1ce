package util

import "time"

// Session labels the market phase the dashboard header displays. The data is
// synthetic either way; the label only gives the page plausible context.
type Session string

const (
	SessionPreMarket  Session = "pre-market"
	SessionRegular    Session = "open"
	SessionAfterHours Session = "after-hours"
	SessionClosed     Session = "closed"
)

// SessionClock classifies wall-clock times into NYSE-style market sessions:
// pre-market 4:00–9:30 ET, regular 9:30–16:00 ET, after-hours 16:00–20:00 ET.
// Weekends are closed. Exchange holidays are not modelled.
type SessionClock struct {
	loc *time.Location
}

// NewSessionClock creates a SessionClock pinned to Eastern Time. If the zone
// database is unavailable it falls back to a fixed UTC-5 offset.
func NewSessionClock() *SessionClock {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.FixedZone("ET", -5*3600)
	}
	return &SessionClock{loc: loc}
}

// Session returns the market session at time t.
func (sc *SessionClock) Session(t time.Time) Session {
	et := t.In(sc.loc)

	switch et.Weekday() {
	case time.Saturday, time.Sunday:
		return SessionClosed
	}

	minutes := et.Hour()*60 + et.Minute()
	switch {
	case minutes < 4*60:
		return SessionClosed
	case minutes < 9*60+30:
		return SessionPreMarket
	case minutes < 16*60:
		return SessionRegular
	case minutes < 20*60:
		return SessionAfterHours
	default:
		return SessionClosed
	}
}
