package animate

import (
	"sync"
	"time"
)

// CancelFunc stops a scheduled recurring callback. Safe to call more than
// once.
type CancelFunc func()

// Clock is the host timer capability. Injecting it keeps the animation
// controller independent of wall-clock time and unit-testable without
// sleeping.
type Clock interface {
	Now() time.Time
	// Every invokes fn on each tick of a recurring interval until the
	// returned CancelFunc is called.
	Every(d time.Duration, fn func()) CancelFunc
}

// realClock schedules on a time.Ticker.
type realClock struct{}

// NewClock returns the wall-clock implementation.
func NewClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Every(d time.Duration, fn func()) CancelFunc {
	if d <= 0 {
		d = time.Millisecond
	}
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

// ManualClock is a deterministic Clock for tests: time only moves when the
// test advances it, and due callbacks fire synchronously.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	interval time.Duration
	next     time.Time
	fn       func()
	stopped  bool
}

// NewManualClock creates a manual clock starting at the given instant.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now implements Clock.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Every implements Clock.
func (c *ManualClock) Every(d time.Duration, fn func()) CancelFunc {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{interval: d, next: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		t.stopped = true
	}
}

// Advance moves time forward, firing due callbacks in order.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var due *manualTimer
		for _, t := range c.timers {
			if t.stopped || t.next.After(target) {
				continue
			}
			if due == nil || t.next.Before(due.next) {
				due = t
			}
		}
		if due == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = due.next
		due.next = due.next.Add(due.interval)
		fn := due.fn
		c.mu.Unlock()
		fn()
	}
}
