// Package sched provides the timing backbone for the dashboard engine: an
// injectable clock and a scheduler that owns every timed task, so teardown
// cancels them all and tests can drive time manually.
package sched

import (
	"sync"
	"time"
)

// Timer is a cancellable pending callback. Stop reports whether the call
// prevented the callback from firing.
type Timer interface {
	Stop() bool
}

// Clock abstracts wall-clock time and timer creation. RealClock delegates to
// the time package; FakeClock lets tests advance time manually.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// RealClock implements Clock using the time package.
type RealClock struct{}

// Now returns the current wall-clock time.
func (RealClock) Now() time.Time { return time.Now() }

// AfterFunc schedules fn after d on a real timer.
func (RealClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Handle identifies a scheduled task. The zero Handle is never issued.
type Handle int64

// Scheduler owns a registry of timed tasks, each cancellable by handle.
// After Stop, no task callback runs and no new task can be scheduled.
type Scheduler struct {
	clock Clock

	mu      sync.Mutex
	next    Handle
	tasks   map[Handle]Timer
	stopped bool
}

// New creates a Scheduler driven by the given clock.
func New(clock Clock) *Scheduler {
	return &Scheduler{
		clock: clock,
		tasks: make(map[Handle]Timer),
	}
}

// Clock returns the clock the scheduler runs on.
func (s *Scheduler) Clock() Clock { return s.clock }

// After schedules fn to run once after d. It returns the task handle, or the
// zero handle if the scheduler is already stopped.
func (s *Scheduler) After(d time.Duration, fn func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return 0
	}

	s.next++
	h := s.next
	s.tasks[h] = s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		_, live := s.tasks[h]
		delete(s.tasks, h)
		stopped := s.stopped
		s.mu.Unlock()
		if !live || stopped {
			return
		}
		fn()
	})
	return h
}

// Every schedules fn to run repeatedly with period d until cancelled. The
// same handle stays valid across runs.
func (s *Scheduler) Every(d time.Duration, fn func()) Handle {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return 0
	}
	s.next++
	h := s.next
	s.mu.Unlock()

	s.arm(h, d, fn)
	return h
}

// arm installs the next timer for a repeating task under its existing handle.
func (s *Scheduler) arm(h Handle, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.tasks[h] = s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		_, live := s.tasks[h]
		stopped := s.stopped
		s.mu.Unlock()
		if !live || stopped {
			return
		}
		fn()
		// A Cancel that landed while fn ran removed the handle; only a
		// still-live handle re-arms.
		s.mu.Lock()
		_, live = s.tasks[h]
		s.mu.Unlock()
		if live {
			s.arm(h, d, fn)
		}
	})
}

// Cancel stops the task with the given handle. It reports whether a pending
// task was found.
func (s *Scheduler) Cancel(h Handle) bool {
	s.mu.Lock()
	t, ok := s.tasks[h]
	delete(s.tasks, h)
	s.mu.Unlock()
	if ok {
		t.Stop()
	}
	return ok
}

// Stop cancels every pending task and prevents new ones. After Stop returns,
// no task callback will run.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	tasks := s.tasks
	s.tasks = make(map[Handle]Timer)
	s.mu.Unlock()

	for _, t := range tasks {
		t.Stop()
	}
}
