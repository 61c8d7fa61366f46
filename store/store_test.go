package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

func TestGetItem_FoundAndMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()
	s := &PostgresStore{DB: db}
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM session_items WHERE session_id = $1 AND key = $2`)).
		WithArgs("s1", "cart").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"soup":2}`))

	v, ok, err := s.GetItem(ctx, "s1", "cart")
	if err != nil || !ok || v != `{"soup":2}` {
		t.Fatalf("GetItem = %q %v %v", v, ok, err)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM session_items WHERE session_id = $1 AND key = $2`)).
		WithArgs("s2", "cart").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	v, ok, err = s.GetItem(ctx, "s2", "cart")
	if err != nil || ok || v != "" {
		t.Fatalf("expected missing item, got %q %v %v", v, ok, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetItem_QueryError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}

	boom := errors.New("conn refused")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM session_items`)).
		WithArgs("s1", "cart").
		WillReturnError(boom)

	if _, _, err := s.GetItem(context.Background(), "s1", "cart"); !errors.Is(err, boom) {
		t.Fatalf("expected query error, got %v", err)
	}
}

func TestSetItem_Upsert(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO session_items (session_id, key, value, updated_at)`)).
		WithArgs("s1", "cart", `{"a":1}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.SetItem(context.Background(), "s1", "cart", `{"a":1}`); err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRemoveItemAndClear(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM session_items WHERE session_id = $1 AND key = $2`)).
		WithArgs("s1", "cart").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM session_items WHERE session_id = $1`)).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := s.RemoveItem(ctx, "s1", "cart"); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if err := s.Clear(ctx, "s1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMenuCatalog(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}

	rows := sqlmock.NewRows([]string{"id", "name", "description", "price"}).
		AddRow(int64(1), "Margherita", "tomato, basil", "9.50").
		AddRow(int64(2), "Lemonade", nil, "2.25")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, description, price FROM menu_item WHERE is_available = TRUE ORDER BY id`)).
		WillReturnRows(rows)

	menu, err := s.MenuCatalog(context.Background())
	if err != nil {
		t.Fatalf("MenuCatalog: %v", err)
	}
	if len(menu) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(menu))
	}
	e, ok := menu.Lookup("2")
	if !ok || e.Name != "Lemonade" || !e.Price.Equal(decimal.RequireFromString("2.25")) {
		t.Fatalf("unexpected entry %+v", e)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	if _, ok, _ := m.GetItem(ctx, "s1", "cart"); ok {
		t.Fatalf("expected empty store")
	}
	_ = m.SetItem(ctx, "s1", "cart", "a")
	_ = m.SetItem(ctx, "s2", "cart", "b")
	_ = m.SetItem(ctx, "s1", "theme", "dark")

	if v, ok, _ := m.GetItem(ctx, "s1", "cart"); !ok || v != "a" {
		t.Fatalf("unexpected s1 cart %q %v", v, ok)
	}
	_ = m.RemoveItem(ctx, "s1", "cart")
	if _, ok, _ := m.GetItem(ctx, "s1", "cart"); ok {
		t.Fatalf("expected s1 cart removed")
	}
	_ = m.Clear(ctx, "s1")
	if _, ok, _ := m.GetItem(ctx, "s1", "theme"); ok {
		t.Fatalf("expected s1 cleared")
	}
	if v, _, _ := m.GetItem(ctx, "s2", "cart"); v != "b" {
		t.Fatalf("other sessions must be untouched, got %q", v)
	}
}

func TestScopedBindsSession(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	a := Scope(m, "a")
	b := Scope(m, "b")

	_ = a.SetItem(ctx, "cart", "{}")
	if _, ok, _ := b.GetItem(ctx, "cart"); ok {
		t.Fatalf("scopes must not share items")
	}
	if v, ok, _ := m.GetItem(ctx, "a", "cart"); !ok || v != "{}" {
		t.Fatalf("scoped write not visible in backing store")
	}
	_ = a.RemoveItem(ctx, "cart")
	if _, ok, _ := a.GetItem(ctx, "cart"); ok {
		t.Fatalf("expected scoped remove")
	}
}
