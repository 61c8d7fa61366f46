// Package notify carries transient user-facing notifications (toasts).
package notify

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultTTL is how long a toast stays visible.
const DefaultTTL = 3 * time.Second

type Level int

const (
	Info Level = iota
	Success
	Error
)

// ParseLevel maps "success", "error" and "info"; anything else is Info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "success":
		return Success
	case "error":
		return Error
	default:
		return Info
	}
}

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// CSSClass is the bootstrap background class of the toast.
func (l Level) CSSClass() string {
	switch l {
	case Error:
		return "bg-danger"
	case Success:
		return "bg-success"
	default:
		return "bg-info"
	}
}

// Icon is the font-awesome icon name shown next to the message.
func (l Level) Icon() string {
	switch l {
	case Success:
		return "check-circle"
	case Error:
		return "exclamation-circle"
	default:
		return "info-circle"
	}
}

func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *Level) UnmarshalText(b []byte) error {
	*l = ParseLevel(string(b))
	return nil
}

type Notification struct {
	Message string    `json:"message"`
	Level   Level     `json:"level"`
	At      time.Time `json:"at"`
}

// ToastClass is the full class attribute of the rendered toast element.
func (n Notification) ToastClass() string {
	return "toast toast-custom show " + n.Level.CSSClass() + " text-white"
}

// Sink receives notifications.
type Sink interface {
	Notify(message string, level Level)
}

type SinkFunc func(message string, level Level)

func (f SinkFunc) Notify(message string, level Level) { f(message, level) }

// Multi fans a notification out to every sink in order.
type Multi []Sink

func (m Multi) Notify(message string, level Level) {
	for _, s := range m {
		s.Notify(message, level)
	}
}

// Feed buffers notifications until they expire or are drained.
type Feed struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items []Notification
}

func NewFeed(ttl time.Duration) *Feed {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Feed{ttl: ttl, now: time.Now}
}

func (f *Feed) Notify(message string, level Level) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.prune(), Notification{Message: message, Level: level, At: f.now()})
}

// Pending returns the notifications that have not expired yet.
func (f *Feed) Pending() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = f.prune()
	out := make([]Notification, len(f.items))
	copy(out, f.items)
	return out
}

// Drain returns the live notifications and empties the feed.
func (f *Feed) Drain() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.prune()
	f.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

// prune drops expired entries. Caller holds f.mu.
func (f *Feed) prune() []Notification {
	cutoff := f.now().Add(-f.ttl)
	live := f.items[:0]
	for _, n := range f.items {
		if n.At.After(cutoff) {
			live = append(live, n)
		}
	}
	return live
}

// LogSink writes notifications to a zap logger.
type LogSink struct {
	Log *zap.Logger
}

func (s LogSink) Notify(message string, level Level) {
	s.Log.Debug("notification", zap.String("level", level.String()), zap.String("message", message))
}
