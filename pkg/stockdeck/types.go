package stockdeck

import "time"

// Quote is a synthetic quote as served by the API.
type Quote struct {
	Symbol        string  `json:"symbol"`
	DisplayName   string  `json:"displayName"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// SurfaceUpdate is the rendered state of one dashboard surface.
type SurfaceUpdate struct {
	ID        string  `json:"id"`
	Class     string  `json:"class"`
	Label     string  `json:"label"`
	Text      string  `json:"text"`
	Delta     float64 `json:"delta"`
	Direction string  `json:"direction"`
}

// Notification is one entry in the ephemeral overlay.
type Notification struct {
	ID       string `json:"id"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Phase    string `json:"phase"`
}

// Headline is one entry in the news feed.
type Headline struct {
	Time   time.Time `json:"time"`
	Symbol string    `json:"symbol"`
	Sector string    `json:"sector"`
	Text   string    `json:"text"`
	Source string    `json:"source"`
}

// Snapshot is the whole board state, delivered first on every stream connect.
type Snapshot struct {
	Session       string          `json:"session"`
	SearchBusy    bool            `json:"searchBusy"`
	Surfaces      []SurfaceUpdate `json:"surfaces"`
	Quote         *Quote          `json:"quote,omitempty"`
	Notifications []Notification  `json:"notifications,omitempty"`
	News          []Headline      `json:"news,omitempty"`
}

// Event types delivered on the stream.
const (
	EventSnapshot            = "snapshot"
	EventSurface             = "surface"
	EventSurfaceRemoved      = "surface_removed"
	EventQuote               = "quote"
	EventSearch              = "search"
	EventSession             = "session"
	EventNotification        = "notification"
	EventNotificationRemoved = "notification_removed"
	EventHeadline            = "headline"
)

// Event is one board change from the stream. Exactly one payload field is
// set, matching Type.
type Event struct {
	Type           string         `json:"type"`
	Snapshot       *Snapshot      `json:"snapshot,omitempty"`
	Surface        *SurfaceUpdate `json:"surface,omitempty"`
	SurfaceID      string         `json:"surfaceId,omitempty"`
	Quote          *Quote         `json:"quote,omitempty"`
	SearchBusy     *bool          `json:"searchBusy,omitempty"`
	Session        string         `json:"session,omitempty"`
	Notification   *Notification  `json:"notification,omitempty"`
	NotificationID string         `json:"notificationId,omitempty"`
	Headline       *Headline      `json:"headline,omitempty"`
}
