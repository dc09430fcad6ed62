package datatable

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestDebouncerLastWriteWins(t *testing.T) {
	clock := &manualClock{}
	d := NewDebouncer(clock, DefaultDebounce)

	var calls []string
	for _, s := range []string{"a", "al", "ali"} {
		s := s
		d.Trigger(func() { calls = append(calls, s) })
		clock.Advance(100 * time.Millisecond)
	}
	assert.Empty(t, calls, "every keystroke restarts the quiet period")
	assert.Equal(t, 1, clock.active(), "only one timer pending")

	clock.Advance(200 * time.Millisecond)
	assert.Equal(t, []string{"ali"}, calls)
	assert.False(t, d.Pending())

	clock.Advance(time.Second)
	assert.Len(t, calls, 1)
}

func TestDebouncerFlush(t *testing.T) {
	clock := &manualClock{}
	d := NewDebouncer(clock, DefaultDebounce)

	assert.False(t, d.Flush())

	n := 0
	d.Trigger(func() { n++ })
	require.True(t, d.Pending())
	require.True(t, d.Flush())
	assert.Equal(t, 1, n)

	clock.Advance(time.Second)
	assert.Equal(t, 1, n, "flushed timer does not fire again")
}

func TestDebouncerStopReleasesTimer(t *testing.T) {
	clock := &manualClock{}
	d := NewDebouncer(clock, DefaultDebounce)

	n := 0
	d.Trigger(func() { n++ })
	d.Stop()
	assert.Equal(t, 0, clock.active())

	d.Trigger(func() { n++ })
	clock.Advance(time.Second)
	assert.Equal(t, 0, n)
}

func TestDebouncerStaleFireIgnored(t *testing.T) {
	clock := &manualClock{}
	d := NewDebouncer(clock, DefaultDebounce)

	n := 0
	d.Trigger(func() { n++ })
	// A timer callback that lost the race with Stop still runs fire.
	d.mu.Lock()
	seq := d.seq
	d.mu.Unlock()
	d.Trigger(func() { n += 10 })
	d.fire(seq)
	assert.Equal(t, 0, n)

	clock.Advance(DefaultDebounce)
	assert.Equal(t, 10, n)
}

func TestDebouncerRealClockNoLeak(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDebouncer(nil, 5*time.Millisecond)
	var fired atomic.Int32
	done := make(chan struct{})
	d.Trigger(func() {
		fired.Add(1)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced call never ran")
	}
	assert.Equal(t, int32(1), fired.Load())

	d.Trigger(func() { fired.Add(1) })
	d.Stop()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}
