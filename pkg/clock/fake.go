package clock

import (
	"sync"
	"time"
)

// Fake is a virtual clock. Time only moves when Advance is called, and due
// callbacks run synchronously on the caller's goroutine in (due time,
// scheduling order) order.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*fakeTimer
}

type fakeTimer struct {
	clock *Fake
	when  time.Time
	seq   uint64
	fn    func()
}

// NewFake creates a virtual clock set to start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the virtual time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// AfterFunc schedules fn to run once virtual time reaches now+d.
func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()

	if d < 0 {
		d = 0
	}
	f.seq++
	t := &fakeTimer{clock: f, when: f.now.Add(d), seq: f.seq, fn: fn}
	f.timers = append(f.timers, t)
	return t
}

// Advance moves virtual time forward by d, firing every timer that becomes due,
// including timers scheduled by callbacks during the advance.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		f.mu.Lock()
		next := f.popDue(target)
		if next == nil {
			f.now = target
			f.mu.Unlock()
			return
		}
		if next.when.After(f.now) {
			f.now = next.when
		}
		f.mu.Unlock()

		next.fn()
	}
}

// Pending returns the number of timers not yet fired or stopped.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

// popDue removes and returns the earliest timer due at or before target. Caller holds f.mu.
func (f *Fake) popDue(target time.Time) *fakeTimer {
	best := -1
	for i, t := range f.timers {
		if t.when.After(target) {
			continue
		}
		if best < 0 || t.when.Before(f.timers[best].when) ||
			(t.when.Equal(f.timers[best].when) && t.seq < f.timers[best].seq) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	t := f.timers[best]
	f.timers = append(f.timers[:best], f.timers[best+1:]...)
	return t
}

func (t *fakeTimer) Stop() bool {
	f := t.clock
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, other := range f.timers {
		if other == t {
			f.timers = append(f.timers[:i], f.timers[i+1:]...)
			return true
		}
	}
	return false
}
