// Package notify holds the transient notification state the dashboard
// shows after each user action.
//
// There are no background timers: a notification carries its expiry
// timestamp and Current compares it against the injected clock. Pushing
// while one is showing queues the newcomer instead of clobbering a pending
// dismissal.
package notify

import "time"

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 2800 * time.Millisecond

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is one transient message with its dismissal deadline.
type Notification struct {
	Kind    Kind
	Message string
	Expiry  time.Time
}

// Center owns the current notification and the queue behind it. Not safe
// for concurrent use; the dashboard drives it from one goroutine.
type Center struct {
	ttl     time.Duration
	now     func() time.Time
	current *Notification
	queue   []Notification
}

// Option configures a Center.
type Option func(*Center)

// WithTTL overrides the display duration.
func WithTTL(ttl time.Duration) Option {
	return func(c *Center) { c.ttl = ttl }
}

// WithClock injects the time source. Tests use this to step through
// expiries deterministically.
func WithClock(now func() time.Time) Option {
	return func(c *Center) { c.now = now }
}

func NewCenter(opts ...Option) *Center {
	c := &Center{ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Success pushes a success notification.
func (c *Center) Success(message string) { c.push(KindSuccess, message) }

// Error pushes an error notification.
func (c *Center) Error(message string) { c.push(KindError, message) }

func (c *Center) push(kind Kind, message string) {
	if _, ok := c.Current(); ok {
		c.queue = append(c.queue, Notification{Kind: kind, Message: message})
		return
	}
	c.current = &Notification{Kind: kind, Message: message, Expiry: c.now().Add(c.ttl)}
}

// Current returns the live notification, promoting the next queued one
// when the current expired. The second return is false when nothing is
// showing.
func (c *Center) Current() (Notification, bool) {
	now := c.now()
	for c.current != nil && !now.Before(c.current.Expiry) {
		c.promote(now)
	}
	if c.current == nil {
		return Notification{}, false
	}
	return *c.current, true
}

// Dismiss drops the current notification immediately and promotes the next
// queued one.
func (c *Center) Dismiss() {
	c.promote(c.now())
}

func (c *Center) promote(now time.Time) {
	if len(c.queue) == 0 {
		c.current = nil
		return
	}
	next := c.queue[0]
	c.queue = c.queue[1:]
	next.Expiry = now.Add(c.ttl)
	c.current = &next
}
