package board

import (
	"stockdeck/internal/domain"
)

// EventType discriminates the payload of a board Event.
type EventType string

const (
	EventSnapshot            EventType = "snapshot"
	EventSurface             EventType = "surface"
	EventSurfaceRemoved      EventType = "surface_removed"
	EventQuote               EventType = "quote"
	EventSearch              EventType = "search"
	EventSession             EventType = "session"
	EventNotification        EventType = "notification"
	EventNotificationRemoved EventType = "notification_removed"
	EventHeadline            EventType = "headline"
)

// SurfaceUpdate is the rendered state of one surface as sent to clients.
type SurfaceUpdate struct {
	ID        string              `json:"id"`
	Class     domain.SurfaceClass `json:"class"`
	Label     string              `json:"label"`
	Text      string              `json:"text"`
	Delta     float64             `json:"delta"`
	Direction domain.Direction    `json:"direction"`
}

// Snapshot is the whole board state, sent once when a client connects.
type Snapshot struct {
	Session       string                `json:"session"`
	SearchBusy    bool                  `json:"searchBusy"`
	Surfaces      []SurfaceUpdate       `json:"surfaces"`
	Quote         *domain.Quote         `json:"quote,omitempty"`
	Notifications []domain.Notification `json:"notifications,omitempty"`
	News          []domain.Headline     `json:"news,omitempty"`
}

// Event is one board change pushed to stream subscribers. Exactly one
// payload field is set, matching Type.
type Event struct {
	Type           EventType            `json:"type"`
	Snapshot       *Snapshot            `json:"snapshot,omitempty"`
	Surface        *SurfaceUpdate       `json:"surface,omitempty"`
	SurfaceID      string               `json:"surfaceId,omitempty"`
	Quote          *domain.Quote        `json:"quote,omitempty"`
	SearchBusy     *bool                `json:"searchBusy,omitempty"`
	Session        string               `json:"session,omitempty"`
	Notification   *domain.Notification `json:"notification,omitempty"`
	NotificationID string               `json:"notificationId,omitempty"`
	Headline       *domain.Headline     `json:"headline,omitempty"`
}

// Subscribe creates a new subscription channel for board events.
func (b *Board) Subscribe(bufSize int) (id int, ch <-chan Event) {
	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	id = b.nextSubID
	b.nextSubID++
	c := make(chan Event, bufSize)
	b.subs[id] = c
	return id, c
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Board) Unsubscribe(id int) {
	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	if ch, ok := b.subs[id]; ok {
		close(ch)
		delete(b.subs, id)
	}
}

// publish fans an event out to all subscribers (non-blocking send).
func (b *Board) publish(evt Event) {
	b.subsMu.Lock()
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
			// Slow subscriber, drop event.
		}
	}
	b.subsMu.Unlock()
}
