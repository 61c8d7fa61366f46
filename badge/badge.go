// Package badge presents the cart item count as a navbar badge.
package badge

import (
	"strconv"
	"sync"

	"restaurant-cart/cart"
)

// Badge is what the page shows: the count as text, hidden when zero.
type Badge struct {
	Text    string `json:"text"`
	Visible bool   `json:"visible"`
}

func For(count int) Badge {
	return Badge{Text: strconv.Itoa(count), Visible: count > 0}
}

// Presenter tracks the badge of one cart. It is a cart.Observer.
type Presenter struct {
	mu  sync.RWMutex
	cur Badge
}

func NewPresenter() *Presenter {
	return &Presenter{cur: For(0)}
}

func (p *Presenter) CartChanged(c cart.Change) { p.Refresh(c.Count) }

// Refresh sets the badge from count.
func (p *Presenter) Refresh(count int) {
	b := For(count)
	p.mu.Lock()
	p.cur = b
	p.mu.Unlock()
}

func (p *Presenter) Current() Badge {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur
}
