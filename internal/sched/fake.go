package sched

import (
	"sync"
	"time"
)

// FakeClock is a manually advanced Clock for tests. Timer callbacks run
// synchronously on the goroutine calling Advance, in due order; callbacks may
// arm further timers, which also fire if they fall inside the advance window.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int64
	timers map[*fakeTimer]struct{}
}

// NewFakeClock creates a FakeClock starting at the given instant.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{
		now:    start,
		timers: make(map[*fakeTimer]struct{}),
	}
}

type fakeTimer struct {
	clock *FakeClock
	when  time.Time
	seq   int64
	fn    func()
}

// Stop removes the timer. It reports whether the callback had not yet fired.
func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if _, ok := t.clock.timers[t]; ok {
		delete(t.clock.timers, t)
		return true
	}
	return false
}

// Now returns the fake current time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc registers fn to fire once the clock has advanced by d.
func (c *FakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{clock: c, when: c.now.Add(d), seq: c.seq, fn: fn}
	c.timers[t] = struct{}{}
	return t
}

// Advance moves the clock forward by d, firing every due timer in order of
// deadline (ties break by arming order).
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)

	for {
		var next *fakeTimer
		for t := range c.timers {
			if t.when.After(target) {
				continue
			}
			if next == nil || t.when.Before(next.when) ||
				(t.when.Equal(next.when) && t.seq < next.seq) {
				next = t
			}
		}
		if next == nil {
			break
		}

		delete(c.timers, next)
		if next.when.After(c.now) {
			c.now = next.when
		}
		c.mu.Unlock()
		next.fn()
		c.mu.Lock()
	}

	c.now = target
	c.mu.Unlock()
}

// PendingTimers returns the number of timers not yet fired. Useful for
// asserting that teardown left nothing armed.
func (c *FakeClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}
