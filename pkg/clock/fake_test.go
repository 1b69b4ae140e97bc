package clock_test

import (
	"testing"
	"time"

	"github.com/identify-labs/marquee/pkg/clock"
	"github.com/stretchr/testify/assert"
)

func TestFake_FiresInDueOrder(t *testing.T) {
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	c := clock.NewFake(start)

	var fired []string
	c.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
	c.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	c.AfterFunc(2*time.Second, func() { fired = append(fired, "c") })
	c.AfterFunc(5*time.Second, func() { fired = append(fired, "late") })

	c.Advance(3 * time.Second)

	assert.Equal(t, []string{"a", "b", "c"}, fired)
	assert.Equal(t, start.Add(3*time.Second), c.Now())
	assert.Equal(t, 1, c.Pending())
}

func TestFake_ChainedTimersFireWithinOneAdvance(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))

	var at []time.Duration
	var schedule func()
	schedule = func() {
		at = append(at, c.Now().Sub(time.Unix(0, 0)))
		if len(at) < 3 {
			c.AfterFunc(time.Second, schedule)
		}
	}
	c.AfterFunc(time.Second, schedule)

	c.Advance(10 * time.Second)

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, at)
	assert.Equal(t, 0, c.Pending())
}

func TestFake_Stop(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))

	called := false
	timer := c.AfterFunc(time.Second, func() { called = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop reports nothing was stopped")

	c.Advance(time.Minute)
	assert.False(t, called)
}

func TestReal_AfterFunc(t *testing.T) {
	done := make(chan struct{})
	clock.Real().AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("real timer did not fire")
	}
}
