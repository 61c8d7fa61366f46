// Package refresh runs periodic page refresh work with explicit stop handles.
package refresh

import (
	"context"
	"strings"
	"sync"
	"time"
)

const (
	BadgeInterval       = 5 * time.Second
	OrderStatusInterval = 30 * time.Second

	// OrderPathMarker enables order-status polling for paths that contain it.
	OrderPathMarker = "order"
)

// Handle controls one periodic task.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Every calls fn every d until ctx is done or the handle is stopped. The
// first call happens after one interval. A non-positive d returns a handle
// that is already stopped.
func Every(ctx context.Context, d time.Duration, fn func(context.Context)) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	if d <= 0 {
		cancel()
		close(h.done)
		return h
	}

	go func() {
		defer close(h.done)
		t := time.NewTicker(d)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				fn(ctx)
			}
		}
	}()
	return h
}

// Stop cancels the task and waits for an in-flight call to return. It is
// safe to call more than once.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

// Done is closed once the task has exited.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Options configures Start. Zero intervals use the package defaults.
type Options struct {
	Badge               func(context.Context)
	OrderStatus         func(context.Context)
	BadgeInterval       time.Duration
	OrderStatusInterval time.Duration
}

// Group is a set of periodic tasks stopped together.
type Group struct {
	once    sync.Once
	handles []*Handle
}

// Start begins the badge refresh, and the order-status poll when path
// contains OrderPathMarker. Nil callbacks are skipped.
func Start(ctx context.Context, path string, opts Options) *Group {
	if opts.BadgeInterval <= 0 {
		opts.BadgeInterval = BadgeInterval
	}
	if opts.OrderStatusInterval <= 0 {
		opts.OrderStatusInterval = OrderStatusInterval
	}

	g := &Group{}
	if opts.Badge != nil {
		g.handles = append(g.handles, Every(ctx, opts.BadgeInterval, opts.Badge))
	}
	if opts.OrderStatus != nil && strings.Contains(path, OrderPathMarker) {
		g.handles = append(g.handles, Every(ctx, opts.OrderStatusInterval, opts.OrderStatus))
	}
	return g
}

// Len is the number of running tasks started by the group.
func (g *Group) Len() int { return len(g.handles) }

func (g *Group) Stop() {
	g.once.Do(func() {
		for _, h := range g.handles {
			h.Stop()
		}
	})
}
