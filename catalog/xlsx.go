package catalog

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// FromXLSX reads a menu sheet with an "id", "name", "price" header row. The
// columns may appear in any order. An empty sheet name selects the first
// sheet. Rows with a blank id or an unreadable price are skipped and counted.
func FromXLSX(r io.Reader, sheet string) (Static, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("open menu workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, 0, errors.New("menu workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, 0, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("sheet %q has no rows", sheet)
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range []string{"id", "name", "price"} {
		if _, ok := cols[name]; !ok {
			return nil, 0, fmt.Errorf("sheet %q: missing %q column", sheet, name)
		}
	}

	cell := func(row []string, name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := Static{}
	skipped := 0
	for _, row := range rows[1:] {
		id := cell(row, "id")
		if id == "" {
			skipped++
			continue
		}
		price, err := decimal.NewFromString(cell(row, "price"))
		if err != nil || price.IsNegative() {
			skipped++
			continue
		}
		out.Add(Entry{ID: id, Name: cell(row, "name"), Price: price})
	}
	return out, skipped, nil
}
