package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPrice(t *testing.T) {
	cases := map[string]string{
		"0":           "$0.00",
		"10.99":       "$10.99",
		"6":           "$6.00",
		"1234.5":      "$1,234.50",
		"1234567.891": "$1,234,567.89",
		"-3":          "-$3.00",
		"0.005":       "$0.01",
	}
	for in, want := range cases {
		if got := Price(decimal.RequireFromString(in)); got != want {
			t.Fatalf("Price(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestDate(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 18, 7, 0, 0, time.UTC)
	if got := Date(ts); got != "March 5, 2024 at 06:07 PM" {
		t.Fatalf("unexpected date %q", got)
	}
}
