// Package clock abstracts the timer facility used by time-driven components.
//
// Production code injects Real(). Tests inject Fake() and move time forward
// explicitly with Advance, which fires due callbacks synchronously.
package clock

import (
	"sync"
	"time"
)

// Clock provides the current time and deferred callbacks.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc calls f once d has elapsed. There is no way to cancel the
	// call; callers that need cancellation should not use this interface.
	AfterFunc(d time.Duration, f func())
}

// Real returns a Clock backed by the time package. Callbacks run on their
// own goroutines.
func Real() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// FakeClock is a deterministic Clock. Time stands still until Advance is
// called. It is safe for concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	waiters []fakeWaiter
}

type fakeWaiter struct {
	deadline time.Time
	callback func()
}

// Fake returns a FakeClock set to initial.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

// Now returns the fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// AfterFunc registers f to run when the clock is advanced to now+d.
// A non-positive d runs f immediately on the calling goroutine.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) {
	if d <= 0 {
		f()
		return
	}
	c.mu.Lock()
	c.waiters = append(c.waiters, fakeWaiter{deadline: c.current.Add(d), callback: f})
	c.mu.Unlock()
}

// Advance moves the clock forward by d and runs every callback whose
// deadline falls within the window, in deadline order (registration order
// for equal deadlines). Callbacks registered while advancing also fire if
// they fall due before the new time. Callbacks must not call Advance.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.current.Add(d)
	for {
		next := -1
		for i, w := range c.waiters {
			if w.deadline.After(target) {
				continue
			}
			if next < 0 || w.deadline.Before(c.waiters[next].deadline) {
				next = i
			}
		}
		if next < 0 {
			break
		}

		waiter := c.waiters[next]
		c.waiters = append(c.waiters[:next], c.waiters[next+1:]...)
		if waiter.deadline.After(c.current) {
			c.current = waiter.deadline
		}

		c.mu.Unlock()
		waiter.callback()
		c.mu.Lock()
	}
	c.current = target
	c.mu.Unlock()
}

// Pending returns the number of callbacks that have not fired yet.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}
