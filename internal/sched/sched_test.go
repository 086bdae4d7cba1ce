package sched

import (
	"testing"
	"time"
)

func TestAfterFiresInOrder(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	s := New(clock)

	var order []string
	s.After(200*time.Millisecond, func() { order = append(order, "b") })
	s.After(100*time.Millisecond, func() { order = append(order, "a") })
	s.After(300*time.Millisecond, func() { order = append(order, "c") })

	clock.Advance(250 * time.Millisecond)

	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("order after 250ms = %v, want [a b]", order)
	}

	clock.Advance(100 * time.Millisecond)
	if len(order) != 3 || order[2] != "c" {
		t.Fatalf("order after 350ms = %v, want [a b c]", order)
	}
}

func TestCancelPreventsRun(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	s := New(clock)

	ran := false
	h := s.After(100*time.Millisecond, func() { ran = true })

	if !s.Cancel(h) {
		t.Fatal("Cancel returned false for pending task")
	}
	clock.Advance(time.Second)

	if ran {
		t.Error("cancelled task still ran")
	}
	if s.Cancel(h) {
		t.Error("second Cancel should return false")
	}
}

func TestEveryRepeats(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	s := New(clock)

	count := 0
	h := s.Every(100*time.Millisecond, func() { count++ })

	clock.Advance(350 * time.Millisecond)
	if count != 3 {
		t.Errorf("count after 350ms = %d, want 3", count)
	}

	s.Cancel(h)
	clock.Advance(time.Second)
	if count != 3 {
		t.Errorf("count after cancel = %d, want 3", count)
	}
}

func TestEveryCallbackSeesConsistentClock(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	s := New(clock)

	var stamps []time.Time
	s.Every(time.Second, func() { stamps = append(stamps, clock.Now()) })

	clock.Advance(3 * time.Second)

	if len(stamps) != 3 {
		t.Fatalf("got %d runs, want 3", len(stamps))
	}
	for i, ts := range stamps {
		want := time.Unix(int64(i+1), 0)
		if !ts.Equal(want) {
			t.Errorf("run %d at %v, want %v", i, ts, want)
		}
	}
}

func TestCancelFromInsideEveryCallback(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	s := New(clock)

	count := 0
	var h Handle
	h = s.Every(100*time.Millisecond, func() {
		count++
		if !s.Cancel(h) {
			t.Error("Cancel from inside the callback returned false")
		}
	})

	clock.Advance(time.Second)

	if count != 1 {
		t.Errorf("count = %d, want 1 (self-cancel must stick)", count)
	}
	if clock.PendingTimers() != 0 {
		t.Errorf("%d timers still armed after self-cancel, want 0", clock.PendingTimers())
	}
}

func TestStopCancelsEverything(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	s := New(clock)

	ran := 0
	s.After(100*time.Millisecond, func() { ran++ })
	s.Every(100*time.Millisecond, func() { ran++ })

	s.Stop()
	clock.Advance(time.Second)

	if ran != 0 {
		t.Errorf("%d callbacks ran after Stop, want 0", ran)
	}
	if clock.PendingTimers() != 0 {
		t.Errorf("%d timers still armed after Stop, want 0", clock.PendingTimers())
	}

	if h := s.After(time.Millisecond, func() {}); h != 0 {
		t.Error("After on stopped scheduler should return zero handle")
	}
}

func TestNestedScheduling(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	s := New(clock)

	var fired []string
	s.After(100*time.Millisecond, func() {
		fired = append(fired, "outer")
		s.After(100*time.Millisecond, func() {
			fired = append(fired, "inner")
		})
	})

	// The inner timer is armed mid-advance and falls inside the window.
	clock.Advance(250 * time.Millisecond)

	if len(fired) != 2 || fired[0] != "outer" || fired[1] != "inner" {
		t.Fatalf("fired = %v, want [outer inner]", fired)
	}
}
