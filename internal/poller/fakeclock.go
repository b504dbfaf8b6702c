package poller

import (
	"sort"
	"sync"
	"time"
)

// FakeClock is a manually advanced Clock for tests. Timers fire only from
// Advance, in deadline order, with the same drop-if-full delivery as the
// time package.
type FakeClock struct {
	mu     sync.Mutex
	cond   *sync.Cond
	now    time.Time
	timers []*fakeTimer
}

// NewFakeClock returns a FakeClock set to now.
func NewFakeClock(now time.Time) *FakeClock {
	c := &FakeClock{now: now}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Now returns the fake current time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// NewTicker registers a periodic timer.
func (c *FakeClock) NewTicker(d time.Duration) Ticker {
	return c.add(d, d)
}

// NewTimer registers a one-shot timer.
func (c *FakeClock) NewTimer(d time.Duration) Timer {
	return c.add(d, 0)
}

func (c *FakeClock) add(d, period time.Duration) *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTimer{
		clock:  c,
		ch:     make(chan time.Time, 1),
		next:   c.now.Add(d),
		period: period,
	}
	c.timers = append(c.timers, t)
	c.cond.Broadcast()
	return t
}

// Advance moves the clock forward by d, firing every timer that comes due.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	target := c.now.Add(d)
	for {
		due := c.dueLocked(target)
		if len(due) == 0 {
			break
		}
		sort.SliceStable(due, func(i, j int) bool { return due[i].next.Before(due[j].next) })

		t := due[0]
		c.now = t.next
		select {
		case t.ch <- c.now:
		default:
		}
		if t.period > 0 {
			t.next = t.next.Add(t.period)
		} else {
			t.stopped = true
		}
	}
	c.now = target
	c.cond.Broadcast()
}

func (c *FakeClock) dueLocked(target time.Time) []*fakeTimer {
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.next.After(target) {
			due = append(due, t)
		}
	}
	return due
}

// Active returns the number of timers and tickers that can still fire.
func (c *FakeClock) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeLocked()
}

func (c *FakeClock) activeLocked() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// BlockUntil waits until at least n timers are active.
func (c *FakeClock) BlockUntil(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.activeLocked() < n {
		c.cond.Wait()
	}
}

type fakeTimer struct {
	clock   *FakeClock
	ch      chan time.Time
	next    time.Time
	period  time.Duration
	stopped bool
}

func (t *fakeTimer) C() <-chan time.Time { return t.ch }

func (t *fakeTimer) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.stopped = true
	t.clock.cond.Broadcast()
}
