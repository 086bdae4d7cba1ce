// Package notify runs the notification overlay lifecycle. Each notification
// walks entering, visible, exiting, disposed on its own timers, so any number
// of them animate concurrently without sharing state.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"stockdeck/internal/domain"
	"stockdeck/internal/sched"
)

// Overlay receives phase renders and final removal. The board implements it.
type Overlay interface {
	RenderNotification(n domain.Notification)
	RemoveNotification(id string)
}

// Config carries the phase durations.
type Config struct {
	Enter time.Duration // entering animation
	Hold  time.Duration // fully visible
	Exit  time.Duration // exiting animation
}

// Notifier owns every live notification and its pending phase timer.
type Notifier struct {
	cfg     Config
	overlay Overlay
	sched   *sched.Scheduler

	mu     sync.Mutex
	live   map[string]*entry
	closed bool
}

type entry struct {
	n      domain.Notification
	handle sched.Handle // timer driving the next phase transition
}

// New creates a Notifier.
func New(cfg Config, overlay Overlay, scheduler *sched.Scheduler) *Notifier {
	return &Notifier{
		cfg:     cfg,
		overlay: overlay,
		sched:   scheduler,
		live:    make(map[string]*entry),
	}
}

// Push enqueues a notification. It enters immediately and runs its full
// lifecycle unattended. The assigned ID is returned for dismissal.
func (n *Notifier) Push(message string, severity domain.Severity) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return ""
	}

	id := uuid.NewString()
	e := &entry{n: domain.Notification{
		ID:       id,
		Message:  message,
		Severity: severity,
		Phase:    domain.PhaseEntering,
	}}
	n.live[id] = e
	n.overlay.RenderNotification(e.n)

	e.handle = n.sched.After(n.cfg.Enter, func() { n.advance(id, domain.PhaseVisible) })
	return id
}

// Dismiss short-circuits a notification to its exit animation, whatever phase
// it is in. Unknown or already exiting IDs are a no-op.
func (n *Notifier) Dismiss(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	e, ok := n.live[id]
	if !ok || e.n.Phase == domain.PhaseExiting {
		return
	}
	n.sched.Cancel(e.handle)
	n.transitionLocked(e, domain.PhaseExiting)
}

// advance is the timer callback moving a notification into its next phase.
func (n *Notifier) advance(id string, phase domain.Phase) {
	n.mu.Lock()
	defer n.mu.Unlock()
	e, ok := n.live[id]
	if !ok {
		return
	}
	n.transitionLocked(e, phase)
}

// transitionLocked applies a phase change and arms the follow-up timer.
// Caller holds n.mu.
func (n *Notifier) transitionLocked(e *entry, phase domain.Phase) {
	e.n.Phase = phase
	switch phase {
	case domain.PhaseVisible:
		n.overlay.RenderNotification(e.n)
		// The hold window counts from push, so the enter animation eats into
		// it rather than extending the total lifetime.
		hold := n.cfg.Hold - n.cfg.Enter
		if hold < 0 {
			hold = 0
		}
		e.handle = n.sched.After(hold, func() { n.advance(e.n.ID, domain.PhaseExiting) })
	case domain.PhaseExiting:
		n.overlay.RenderNotification(e.n)
		e.handle = n.sched.After(n.cfg.Exit, func() { n.advance(e.n.ID, domain.PhaseDisposed) })
	case domain.PhaseDisposed:
		delete(n.live, e.n.ID)
		n.overlay.RemoveNotification(e.n.ID)
	}
}

// Phase reports the current phase of a live notification.
func (n *Notifier) Phase(id string) (domain.Phase, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	e, ok := n.live[id]
	if !ok {
		return "", false
	}
	return e.n.Phase, true
}

// Active returns the number of notifications not yet disposed.
func (n *Notifier) Active() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.live)
}

// Close cancels every pending phase timer and rejects further pushes. Live
// notifications are removed from the overlay without exit animation.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	for id, e := range n.live {
		n.sched.Cancel(e.handle)
		delete(n.live, id)
		n.overlay.RemoveNotification(id)
	}
}
