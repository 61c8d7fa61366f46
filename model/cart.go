package models

import "github.com/shopspring/decimal"

// CartLine is one cart entry joined with its menu data. Known is false when
// the catalog has no entry for the id; such lines carry a zero price.
type CartLine struct {
	ItemID   string          `json:"item_id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Known    bool            `json:"known"`
}

type Cart struct {
	SessionID string          `json:"session_id"`
	Lines     []CartLine      `json:"lines"`
	Count     int             `json:"count"`
	Total     decimal.Decimal `json:"total"`
	TotalText string          `json:"total_text"`
}
