// Package catalog resolves menu item ids to their display name and price.
package catalog

import "github.com/shopspring/decimal"

// Entry is one priced menu item.
type Entry struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Catalog looks up menu items. The bool is false when the id is unknown.
type Catalog interface {
	Lookup(id string) (Entry, bool)
}

// Func adapts a plain function to Catalog.
type Func func(id string) (Entry, bool)

func (f Func) Lookup(id string) (Entry, bool) { return f(id) }

// Static is an in-memory catalog keyed by item id.
type Static map[string]Entry

func (s Static) Lookup(id string) (Entry, bool) {
	e, ok := s[id]
	return e, ok
}

// Add stores e under its own id.
func (s Static) Add(e Entry) {
	s[e.ID] = e
}

// Placeholder answers every lookup with the same sample item. It stands in
// until a real menu source is configured.
var Placeholder Catalog = placeholder{}

var placeholderPrice = decimal.RequireFromString("10.99")

type placeholder struct{}

func (placeholder) Lookup(id string) (Entry, bool) {
	return Entry{ID: id, Name: "Sample Item", Price: placeholderPrice}, true
}
