package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"restaurant-cart/badge"
	"restaurant-cart/cart"
	"restaurant-cart/catalog"
	"restaurant-cart/format"
	models "restaurant-cart/model"
	"restaurant-cart/notify"
	"restaurant-cart/refresh"
	"restaurant-cart/store"
	"restaurant-cart/validate"
)

var ErrSessionRequired = errors.New("session_id required")

// Service keeps one cart per browsing session. Carts are hydrated from the
// session store on first use and kept open until they sit idle past a Sweep,
// or until Forget or Close.
type Service struct {
	sessions    store.SessionStore
	catalog     catalog.Catalog
	log         *zap.Logger
	ttl         time.Duration
	orderStatus func(ctx context.Context, sessionID string)
	now         func() time.Time

	// per-session mutexes; a cart.Store must not be used concurrently.
	// Keys are session_id -> *sync.Mutex
	locks sync.Map

	mu   sync.Mutex
	open map[string]*session
}

type session struct {
	cart     *cart.Store
	badge    *badge.Presenter
	feed     *notify.Feed
	watch    *refresh.Group
	lastUsed time.Time
}

type Option func(*Service)

// WithNotificationTTL sets how long toasts stay pending.
func WithNotificationTTL(d time.Duration) Option {
	return func(s *Service) { s.ttl = d }
}

// WithOrderStatus sets the order-status poll run by Watch on order pages.
func WithOrderStatus(fn func(ctx context.Context, sessionID string)) Option {
	return func(s *Service) { s.orderStatus = fn }
}

func NewService(sessions store.SessionStore, c catalog.Catalog, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		sessions: sessions,
		catalog:  c,
		log:      log,
		ttl:      notify.DefaultTTL,
		now:      time.Now,
		open:     map[string]*session{},
	}
	s.orderStatus = func(_ context.Context, sessionID string) {
		s.log.Debug("refreshing order status", zap.String("session_id", sessionID))
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// helper: acquire per-session lock (process-local). Returns unlock func.
// A mutex dropped from the map by eviction while we waited on it is
// retried with the current one.
func (s *Service) lockForSession(sessionID string) func() {
	for {
		v, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
		m := v.(*sync.Mutex)
		m.Lock()
		if cur, ok := s.locks.Load(sessionID); ok && cur == m {
			return m.Unlock
		}
		m.Unlock()
	}
}

// do runs fn with the session's cart while holding the session lock and
// marks the session as used.
func (s *Service) do(ctx context.Context, sessionID string, fn func(*session) error) error {
	if sessionID == "" {
		return ErrSessionRequired
	}
	unlock := s.lockForSession(sessionID)
	defer unlock()
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return err
	}
	sess.lastUsed = s.now()
	return fn(sess)
}

// peek runs fn on an already open session without hydrating it or touching
// its last use. It reports whether the session was open.
func (s *Service) peek(sessionID string, fn func(*session)) bool {
	unlock := s.lockForSession(sessionID)
	defer unlock()
	s.mu.Lock()
	sess, ok := s.open[sessionID]
	s.mu.Unlock()
	if ok {
		fn(sess)
	}
	return ok
}

// session returns the open session, hydrating it on first use. A session
// whose stored cart cannot be read is not cached. Caller holds the session
// lock.
func (s *Service) session(ctx context.Context, sessionID string) (*session, error) {
	s.mu.Lock()
	sess, ok := s.open[sessionID]
	s.mu.Unlock()
	if ok {
		return sess, nil
	}

	log := s.log.With(zap.String("session_id", sessionID))
	p := cart.NewPersister(store.Scope(s.sessions, sessionID), log)
	c, err := cart.Open(ctx, p)
	if err != nil {
		log.Error("hydrate session", zap.Error(err))
		return nil, err
	}
	sess = &session{
		cart:  c,
		badge: badge.NewPresenter(),
		feed:  notify.NewFeed(s.ttl),
	}
	sess.badge.Refresh(sess.cart.ItemCount())
	sess.cart.Subscribe(sess.badge)
	sess.cart.Subscribe(cart.Notifier(notify.Multi{sess.feed, notify.LogSink{Log: log}}))

	s.mu.Lock()
	s.open[sessionID] = sess
	s.mu.Unlock()
	log.Debug("session opened", zap.Int("items", sess.cart.ItemCount()))
	return sess, nil
}

func (s *Service) AddToCart(ctx context.Context, sessionID, itemID string, qty int) error {
	return s.do(ctx, sessionID, func(sess *session) error {
		s.log.Info("adding item", zap.String("session_id", sessionID), zap.String("item_id", itemID), zap.Int("quantity", qty))
		return sess.cart.AddItem(ctx, itemID, qty)
	})
}

func (s *Service) RemoveFromCart(ctx context.Context, sessionID, itemID string) error {
	return s.do(ctx, sessionID, func(sess *session) error {
		s.log.Info("removing item", zap.String("session_id", sessionID), zap.String("item_id", itemID))
		return sess.cart.RemoveItem(ctx, itemID)
	})
}

func (s *Service) UpdateQuantity(ctx context.Context, sessionID, itemID string, qty int) error {
	return s.do(ctx, sessionID, func(sess *session) error {
		s.log.Info("updating quantity", zap.String("session_id", sessionID), zap.String("item_id", itemID), zap.Int("new_quantity", qty))
		return sess.cart.SetQuantity(ctx, itemID, qty)
	})
}

func (s *Service) ClearCart(ctx context.Context, sessionID string) error {
	return s.do(ctx, sessionID, func(sess *session) error {
		s.log.Info("clearing cart", zap.String("session_id", sessionID))
		return sess.cart.Clear(ctx)
	})
}

// GetCart returns the cart lines sorted by item id, priced from the catalog.
func (s *Service) GetCart(ctx context.Context, sessionID string) (models.Cart, error) {
	var out models.Cart
	err := s.do(ctx, sessionID, func(sess *session) error {
		lines := sess.cart.Lines()
		ids := make([]string, 0, len(lines))
		for id := range lines {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		out = models.Cart{
			SessionID: sessionID,
			Lines:     make([]models.CartLine, 0, len(ids)),
			Count:     sess.cart.ItemCount(),
			Total:     sess.cart.Total(s.catalog),
		}
		for _, id := range ids {
			l := models.CartLine{ItemID: id, Quantity: lines[id], Price: decimal.Zero, Subtotal: decimal.Zero}
			if e, ok := s.catalog.Lookup(id); ok {
				l.Name = e.Name
				l.Price = e.Price
				l.Subtotal = e.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
				l.Known = true
			}
			out.Lines = append(out.Lines, l)
		}
		out.TotalText = format.Price(out.Total)
		return nil
	})
	return out, err
}

func (s *Service) Badge(ctx context.Context, sessionID string) (badge.Badge, error) {
	var b badge.Badge
	err := s.do(ctx, sessionID, func(sess *session) error {
		b = sess.badge.Current()
		return nil
	})
	return b, err
}

// Notifications drains the session's pending notifications.
func (s *Service) Notifications(ctx context.Context, sessionID string) ([]notify.Notification, error) {
	var out []notify.Notification
	err := s.do(ctx, sessionID, func(sess *session) error {
		out = sess.feed.Drain()
		return nil
	})
	return out, err
}

// ReportValidation queues a form validation failure as an error
// notification. Other errors are ignored.
func (s *Service) ReportValidation(ctx context.Context, sessionID string, verr error) error {
	return s.do(ctx, sessionID, func(sess *session) error {
		if validate.Notify(verr, sess.feed) {
			s.log.Debug("form rejected", zap.String("session_id", sessionID), zap.Error(verr))
		}
		return nil
	})
}

// RefreshBadges recomputes the badge of every open session.
func (s *Service) RefreshBadges(ctx context.Context) {
	for _, id := range s.openSessions() {
		s.peek(id, func(sess *session) {
			sess.badge.Refresh(sess.cart.ItemCount())
		})
	}
}

// Watch starts the periodic refresh for the page at path, replacing the
// session's previous page watch. The timers outlive the request and stop on
// Unwatch, eviction or Close.
func (s *Service) Watch(ctx context.Context, sessionID, path string) (*refresh.Group, error) {
	var g, old *refresh.Group
	err := s.do(ctx, sessionID, func(sess *session) error {
		old = sess.watch
		g = refresh.Start(context.WithoutCancel(ctx), path, refresh.Options{
			Badge: func(context.Context) {
				s.peek(sessionID, func(sess *session) {
					sess.badge.Refresh(sess.cart.ItemCount())
				})
			},
			OrderStatus: func(ctx context.Context) { s.orderStatus(ctx, sessionID) },
		})
		sess.watch = g
		s.log.Debug("page watch started", zap.String("session_id", sessionID), zap.String("path", path), zap.Int("timers", g.Len()))
		return nil
	})
	// Stopping waits for the timer goroutines, which take the session lock.
	if old != nil {
		old.Stop()
	}
	return g, err
}

// Unwatch stops the session's page watch, if any.
func (s *Service) Unwatch(ctx context.Context, sessionID string) error {
	var old *refresh.Group
	err := s.do(ctx, sessionID, func(sess *session) error {
		old, sess.watch = sess.watch, nil
		return nil
	})
	if old != nil {
		old.Stop()
	}
	return err
}

// Forget closes the in-process view of a session. Its stored cart is kept.
func (s *Service) Forget(sessionID string) {
	unlock := s.lockForSession(sessionID)
	w := s.evict(sessionID)
	unlock()
	if w != nil {
		w.Stop()
	}
}

// evict drops an open session and its lock and returns its page watch for
// the caller to stop once the lock is released. Caller holds the session
// lock.
func (s *Service) evict(sessionID string) *refresh.Group {
	s.mu.Lock()
	sess, ok := s.open[sessionID]
	delete(s.open, sessionID)
	s.mu.Unlock()
	s.locks.Delete(sessionID)
	if !ok {
		return nil
	}
	return sess.watch
}

// Sweep evicts sessions unused for longer than idle and returns how many
// were dropped. Their stored carts are kept.
func (s *Service) Sweep(idle time.Duration) int {
	n := 0
	for _, id := range s.openSessions() {
		unlock := s.lockForSession(id)
		s.mu.Lock()
		sess, ok := s.open[id]
		s.mu.Unlock()
		var w *refresh.Group
		if ok && s.now().Sub(sess.lastUsed) > idle {
			w = s.evict(id)
			n++
		}
		unlock()
		if w != nil {
			w.Stop()
		}
	}
	if n > 0 {
		s.log.Debug("idle sessions evicted", zap.Int("evicted", n), zap.Int("open", s.OpenSessions()))
	}
	return n
}

// OpenSessions is the number of sessions currently held in memory.
func (s *Service) OpenSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.open)
}

func (s *Service) openSessions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.open))
	for id := range s.open {
		ids = append(ids, id)
	}
	return ids
}

// Close stops every page watch, drops every open session and closes the
// session store.
func (s *Service) Close() error {
	s.mu.Lock()
	open := s.open
	s.open = map[string]*session{}
	s.mu.Unlock()
	for _, sess := range open {
		if sess.watch != nil {
			sess.watch.Stop()
		}
	}
	return s.sessions.Close()
}
