package store

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/shopspring/decimal"

	"restaurant-cart/catalog"
)

// MenuItemRow is one row of the menu_item table.
type MenuItemRow struct {
	ID          int64
	Name        string
	Description sql.NullString
	Price       decimal.Decimal
}

// ListMenuItems returns the available menu items ordered by id.
func (s *PostgresStore) ListMenuItems(ctx context.Context) ([]MenuItemRow, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, name, description, price FROM menu_item WHERE is_available = TRUE ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []MenuItemRow{}
	for rows.Next() {
		var m MenuItemRow
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Price); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MenuCatalog snapshots the available menu items into a catalog keyed by the
// decimal item id.
func (s *PostgresStore) MenuCatalog(ctx context.Context) (catalog.Static, error) {
	items, err := s.ListMenuItems(ctx)
	if err != nil {
		return nil, err
	}
	out := make(catalog.Static, len(items))
	for _, m := range items {
		out.Add(catalog.Entry{ID: strconv.FormatInt(m.ID, 10), Name: m.Name, Price: m.Price})
	}
	return out, nil
}
