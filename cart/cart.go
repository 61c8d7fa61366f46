// Package cart holds the session shopping cart: a mapping from menu item id
// to quantity, its aggregates, and the observers bound to it.
package cart

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"restaurant-cart/catalog"
	"restaurant-cart/notify"
)

// ErrInvalidArgument is returned for an empty item id, a non-positive
// quantity where a positive one is required, or a quantity above MaxQuantity.
var ErrInvalidArgument = errors.New("invalid argument")

// MaxQuantity bounds a single line so every cart the store accepts can be
// saved and loaded back.
const MaxQuantity = math.MaxInt32

// Messages sent to observers after each mutation.
const (
	MsgItemAdded   = "Item added to cart!"
	MsgItemRemoved = "Item removed from cart!"
	MsgCartUpdated = "Cart updated!"
	MsgCartCleared = "Cart cleared!"
)

// Lines maps item id to quantity. Every stored quantity is >= 1.
type Lines map[string]int

// Clone returns an independent copy of l.
func (l Lines) Clone() Lines {
	out := make(Lines, len(l))
	for id, q := range l {
		out[id] = q
	}
	return out
}

// Count is the sum of all quantities.
func (l Lines) Count() int {
	n := 0
	for _, q := range l {
		n += q
	}
	return n
}

type Op int

const (
	OpAdd Op = iota + 1
	OpRemove
	OpUpdate
	OpClear
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	case OpUpdate:
		return "update"
	case OpClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Change describes a completed mutation. Count is the item count after it.
type Change struct {
	Op      Op
	ItemID  string
	Count   int
	Message string
	Level   notify.Level
}

// Observer is called synchronously after every mutation.
type Observer interface {
	CartChanged(Change)
}

type ObserverFunc func(Change)

func (f ObserverFunc) CartChanged(c Change) { f(c) }

// Notifier forwards each change's message to a notification sink.
func Notifier(sink notify.Sink) Observer {
	return ObserverFunc(func(c Change) { sink.Notify(c.Message, c.Level) })
}

// Saver persists the cart lines after a mutation.
type Saver interface {
	Save(ctx context.Context, lines Lines) error
}

// Store owns the cart lines. It is not safe for concurrent use; callers
// serialize access per session.
type Store struct {
	lines     Lines
	saver     Saver
	observers []subscription
	nextSub   int
}

type subscription struct {
	id int
	o  Observer
}

// New returns an empty cart that persists through saver. A nil saver keeps
// the cart in memory only.
func New(saver Saver) *Store {
	return &Store{lines: Lines{}, saver: saver}
}

// Open hydrates a cart from p and keeps persisting through it. It fails only
// when session storage cannot be read.
func Open(ctx context.Context, p *Persister) (*Store, error) {
	lines, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}
	s := New(p)
	s.lines = lines
	return s, nil
}

// Subscribe registers o and returns a function that removes it again.
func (s *Store) Subscribe(o Observer) (unsubscribe func()) {
	s.nextSub++
	id := s.nextSub
	s.observers = append(s.observers, subscription{id: id, o: o})
	return func() {
		for i, sub := range s.observers {
			if sub.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// AddItem increments the quantity of id by qty, inserting it if absent.
func (s *Store) AddItem(ctx context.Context, id string, qty int) error {
	if id == "" {
		return fmt.Errorf("%w: item id is required", ErrInvalidArgument)
	}
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be > 0, got %d", ErrInvalidArgument, qty)
	}
	if qty > MaxQuantity-s.lines[id] {
		return fmt.Errorf("%w: quantity of %q would exceed %d", ErrInvalidArgument, id, MaxQuantity)
	}
	s.lines[id] += qty
	return s.commit(ctx, Change{Op: OpAdd, ItemID: id, Message: MsgItemAdded, Level: notify.Success})
}

// RemoveItem deletes id. Removing an absent id is not an error.
func (s *Store) RemoveItem(ctx context.Context, id string) error {
	delete(s.lines, id)
	return s.commit(ctx, Change{Op: OpRemove, ItemID: id, Message: MsgItemRemoved, Level: notify.Info})
}

// SetQuantity overwrites the quantity of id. A quantity <= 0 removes it.
func (s *Store) SetQuantity(ctx context.Context, id string, qty int) error {
	if id == "" {
		return fmt.Errorf("%w: item id is required", ErrInvalidArgument)
	}
	if qty <= 0 {
		return s.RemoveItem(ctx, id)
	}
	if qty > MaxQuantity {
		return fmt.Errorf("%w: quantity must be <= %d, got %d", ErrInvalidArgument, MaxQuantity, qty)
	}
	s.lines[id] = qty
	return s.commit(ctx, Change{Op: OpUpdate, ItemID: id, Message: MsgCartUpdated, Level: notify.Success})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	s.lines = Lines{}
	return s.commit(ctx, Change{Op: OpClear, Message: MsgCartCleared, Level: notify.Info})
}

// Total sums price*quantity over all lines. Ids the catalog does not know
// contribute nothing.
func (s *Store) Total(c catalog.Catalog) decimal.Decimal {
	total := decimal.Zero
	for id, q := range s.lines {
		e, ok := c.Lookup(id)
		if !ok {
			continue
		}
		total = total.Add(e.Price.Mul(decimal.NewFromInt(int64(q))))
	}
	return total
}

// ItemCount is the sum of all quantities.
func (s *Store) ItemCount() int { return s.lines.Count() }

// Len is the number of distinct items.
func (s *Store) Len() int { return len(s.lines) }

// Quantity returns the stored quantity of id, 0 if absent.
func (s *Store) Quantity(id string) int { return s.lines[id] }

// Lines returns a snapshot of the cart.
func (s *Store) Lines() Lines { return s.lines.Clone() }

// commit persists the lines and then notifies observers. The in-memory
// mutation stands even when saving fails.
func (s *Store) commit(ctx context.Context, c Change) error {
	var err error
	if s.saver != nil {
		if serr := s.saver.Save(ctx, s.lines); serr != nil {
			err = fmt.Errorf("save cart: %w", serr)
		}
	}
	c.Count = s.lines.Count()
	for _, sub := range s.observers {
		sub.o.CartChanged(c)
	}
	return err
}
