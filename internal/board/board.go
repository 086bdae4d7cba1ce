// Package board is the in-memory slot projection layer for the dashboard: it
// holds the rendered state of every named surface, the quote panel, the
// notification overlay, and the news feed, and publishes change events to
// stream subscribers. The board only stores what the engine and its
// collaborators write into it; it never mutates surface values itself.
package board

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"

	"stockdeck/internal/domain"
)

// Errors surfaced to callers reading slots.
var (
	// ErrNoSurface means the surface handle is not registered.
	ErrNoSurface = errors.New("no such surface")
	// ErrParseFailure means a slot's rendered text could not be read back as
	// a number. The tick engine skips such surfaces for one cycle.
	ErrParseFailure = errors.New("surface value not numeric")
)

// maxHeadlines caps the news feed; older entries fall off the end.
const maxHeadlines = 50

// slot is the rendered state of one surface.
type slot struct {
	class     domain.SurfaceClass
	label     string
	text      string // last rendered value, parsed back by the engine each tick
	delta     float64
	direction domain.Direction
}

// Board implements the slot projection layer. All access is mutex-guarded;
// writers are the tick engine and the overlay/feed components, readers are
// the API snapshot and stream.
type Board struct {
	mu         sync.RWMutex
	order      []domain.SurfaceID
	slots      map[domain.SurfaceID]*slot
	quote      *domain.Quote
	searchBusy bool
	session    string
	notifOrder []string
	notifs     map[string]domain.Notification
	news       []domain.Headline

	subsMu    sync.Mutex
	nextSubID int
	subs      map[int]chan Event
}

// New creates an empty Board.
func New() *Board {
	return &Board{
		slots:  make(map[domain.SurfaceID]*slot),
		notifs: make(map[string]domain.Notification),
		subs:   make(map[int]chan Event),
	}
}

// ---------------------------------------------------------------------------
// Surfaces
// ---------------------------------------------------------------------------

// Register adds a surface with an initial value. Registration is structural;
// after it, only the tick engine writes the surface's value.
func (b *Board) Register(id domain.SurfaceID, class domain.SurfaceClass, label string, initial float64) error {
	b.mu.Lock()
	if _, exists := b.slots[id]; exists {
		b.mu.Unlock()
		return fmt.Errorf("surface %q already registered", id)
	}
	b.slots[id] = &slot{
		class:     class,
		label:     label,
		text:      formatValue(initial),
		direction: domain.DirectionFlat,
	}
	b.order = append(b.order, id)
	upd := b.surfaceUpdateLocked(id)
	b.mu.Unlock()

	b.publish(Event{Type: EventSurface, Surface: &upd})
	return nil
}

// Unregister removes a surface. Removing an unknown surface is a no-op.
func (b *Board) Unregister(id domain.SurfaceID) {
	b.mu.Lock()
	if _, ok := b.slots[id]; !ok {
		b.mu.Unlock()
		return
	}
	delete(b.slots, id)
	for i, oid := range b.order {
		if oid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	b.mu.Unlock()

	b.publish(Event{Type: EventSurfaceRemoved, SurfaceID: string(id)})
}

// Surfaces returns the registered surface handles of a class, in
// registration order.
func (b *Board) Surfaces(class domain.SurfaceClass) []domain.SurfaceID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var ids []domain.SurfaceID
	for _, id := range b.order {
		if b.slots[id].class == class {
			ids = append(ids, id)
		}
	}
	return ids
}

// Value parses a surface's last rendered text back into a number.
func (b *Board) Value(id domain.SurfaceID) (float64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.slots[id]
	if !ok {
		return 0, fmt.Errorf("%q: %w", id, ErrNoSurface)
	}
	v, err := strconv.ParseFloat(s.text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		// ParseFloat accepts "NaN" and "Inf"; neither is a usable slot value.
		return 0, fmt.Errorf("%q: %q: %w", id, s.text, ErrParseFailure)
	}
	return v, nil
}

// SetValue renders a new value into a surface slot with its delta and
// direction. Values display with exactly 2 decimal places.
func (b *Board) SetValue(id domain.SurfaceID, value, delta float64, dir domain.Direction) {
	b.mu.Lock()
	s, ok := b.slots[id]
	if !ok {
		b.mu.Unlock()
		return
	}
	s.text = formatValue(value)
	s.delta = delta
	s.direction = dir
	upd := b.surfaceUpdateLocked(id)
	b.mu.Unlock()

	b.publish(Event{Type: EventSurface, Surface: &upd})
}

// SetText overwrites a surface's rendered text verbatim. It exists for
// external renderers and for exercising the parse-failure path; the engine
// never calls it.
func (b *Board) SetText(id domain.SurfaceID, text string) {
	b.mu.Lock()
	s, ok := b.slots[id]
	if !ok {
		b.mu.Unlock()
		return
	}
	s.text = text
	upd := b.surfaceUpdateLocked(id)
	b.mu.Unlock()

	b.publish(Event{Type: EventSurface, Surface: &upd})
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// surfaceUpdateLocked builds the event payload for a slot. Caller holds b.mu.
func (b *Board) surfaceUpdateLocked(id domain.SurfaceID) SurfaceUpdate {
	s := b.slots[id]
	return SurfaceUpdate{
		ID:        string(id),
		Class:     s.class,
		Label:     s.label,
		Text:      s.text,
		Delta:     s.delta,
		Direction: s.direction,
	}
}

// ---------------------------------------------------------------------------
// Quote panel, search state, header
// ---------------------------------------------------------------------------

// RenderQuote replaces the quote panel's contents.
func (b *Board) RenderQuote(q domain.Quote) {
	b.mu.Lock()
	b.quote = &q
	b.mu.Unlock()

	b.publish(Event{Type: EventQuote, Quote: &q})
}

// SetSearchBusy flags the quote panel as waiting on a lookup.
func (b *Board) SetSearchBusy(busy bool) {
	b.mu.Lock()
	b.searchBusy = busy
	b.mu.Unlock()

	b.publish(Event{Type: EventSearch, SearchBusy: &busy})
}

// SetSession updates the market session label in the header.
func (b *Board) SetSession(label string) {
	b.mu.Lock()
	changed := b.session != label
	b.session = label
	b.mu.Unlock()

	if changed {
		b.publish(Event{Type: EventSession, Session: label})
	}
}

// ---------------------------------------------------------------------------
// Notification overlay
// ---------------------------------------------------------------------------

// RenderNotification adds or updates a notification in the overlay. Phase
// transitions arrive as repeated renders of the same ID.
func (b *Board) RenderNotification(n domain.Notification) {
	b.mu.Lock()
	if _, ok := b.notifs[n.ID]; !ok {
		b.notifOrder = append(b.notifOrder, n.ID)
	}
	b.notifs[n.ID] = n
	b.mu.Unlock()

	b.publish(Event{Type: EventNotification, Notification: &n})
}

// RemoveNotification drops a disposed notification from the overlay.
func (b *Board) RemoveNotification(id string) {
	b.mu.Lock()
	if _, ok := b.notifs[id]; !ok {
		b.mu.Unlock()
		return
	}
	delete(b.notifs, id)
	for i, nid := range b.notifOrder {
		if nid == id {
			b.notifOrder = append(b.notifOrder[:i], b.notifOrder[i+1:]...)
			break
		}
	}
	b.mu.Unlock()

	b.publish(Event{Type: EventNotificationRemoved, NotificationID: id})
}

// ---------------------------------------------------------------------------
// News feed
// ---------------------------------------------------------------------------

// AppendHeadline adds a headline to the front of the news feed, trimming the
// oldest entry past the cap.
func (b *Board) AppendHeadline(h domain.Headline) {
	b.mu.Lock()
	b.news = append([]domain.Headline{h}, b.news...)
	if len(b.news) > maxHeadlines {
		b.news = b.news[:maxHeadlines]
	}
	b.mu.Unlock()

	b.publish(Event{Type: EventHeadline, Headline: &h})
}

// ---------------------------------------------------------------------------
// Snapshot
// ---------------------------------------------------------------------------

// Snapshot returns a copy of the whole board for first render.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snap := Snapshot{
		Session:    b.session,
		SearchBusy: b.searchBusy,
		Surfaces:   make([]SurfaceUpdate, 0, len(b.order)),
		News:       make([]domain.Headline, len(b.news)),
	}
	for _, id := range b.order {
		snap.Surfaces = append(snap.Surfaces, b.surfaceUpdateLocked(id))
	}
	if b.quote != nil {
		q := *b.quote
		snap.Quote = &q
	}
	for _, id := range b.notifOrder {
		snap.Notifications = append(snap.Notifications, b.notifs[id])
	}
	copy(snap.News, b.news)
	return snap
}
