package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable time source for stepping through expiries.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestCenterShowsPushedNotification(t *testing.T) {
	clock := newFakeClock()
	center := NewCenter(WithClock(clock.now))

	center.Success("order created")

	got, ok := center.Current()
	require.True(t, ok)
	assert.Equal(t, KindSuccess, got.Kind)
	assert.Equal(t, "order created", got.Message)
	assert.Equal(t, clock.t.Add(DefaultTTL), got.Expiry)
}

func TestCenterExpiresAfterTTL(t *testing.T) {
	clock := newFakeClock()
	center := NewCenter(WithClock(clock.now), WithTTL(time.Second))

	center.Error("backend unreachable")

	clock.advance(999 * time.Millisecond)
	_, ok := center.Current()
	assert.True(t, ok, "still visible just before the deadline")

	clock.advance(time.Millisecond)
	_, ok = center.Current()
	assert.False(t, ok, "gone exactly at the deadline")
}

func TestCenterQueuesWhileShowing(t *testing.T) {
	clock := newFakeClock()
	center := NewCenter(WithClock(clock.now), WithTTL(time.Second))

	center.Success("first")
	center.Error("second")

	got, ok := center.Current()
	require.True(t, ok)
	assert.Equal(t, "first", got.Message, "newcomer must not clobber the visible one")

	clock.advance(time.Second)
	got, ok = center.Current()
	require.True(t, ok)
	assert.Equal(t, "second", got.Message)
	assert.Equal(t, KindError, got.Kind)
	assert.Equal(t, clock.t.Add(time.Second), got.Expiry, "promoted entry gets a fresh deadline")
}

func TestCenterDrainsQueueAcrossExpiries(t *testing.T) {
	clock := newFakeClock()
	center := NewCenter(WithClock(clock.now), WithTTL(time.Second))

	center.Success("one")
	center.Success("two")
	center.Success("three")

	// Promotion is lazy: it happens when Current is called, and the promoted
	// entry's deadline starts then. A long gap therefore surfaces the next
	// queued entry with a fresh TTL rather than skipping it.
	clock.advance(3 * time.Second)
	got, ok := center.Current()
	require.True(t, ok)
	assert.Equal(t, "two", got.Message)

	clock.advance(time.Second)
	got, ok = center.Current()
	require.True(t, ok)
	assert.Equal(t, "three", got.Message)

	clock.advance(time.Second)
	_, ok = center.Current()
	assert.False(t, ok)
}

func TestCenterDismiss(t *testing.T) {
	clock := newFakeClock()
	center := NewCenter(WithClock(clock.now))

	center.Success("first")
	center.Error("second")

	center.Dismiss()
	got, ok := center.Current()
	require.True(t, ok)
	assert.Equal(t, "second", got.Message)

	center.Dismiss()
	_, ok = center.Current()
	assert.False(t, ok)
}

func TestCenterEmpty(t *testing.T) {
	center := NewCenter()
	_, ok := center.Current()
	assert.False(t, ok)

	center.Dismiss() // no-op on empty
	_, ok = center.Current()
	assert.False(t, ok)
}
