// Package format renders prices and timestamps the way the site shows them.
package format

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

var hundred = decimal.NewFromInt(100)

// Price renders d as US dollars with digit grouping, e.g. "$1,234.50".
func Price(d decimal.Decimal) string {
	r := d.Round(2)
	sign := ""
	if r.IsNegative() {
		sign = "-"
		r = r.Neg()
	}
	whole := r.Truncate(0)
	cents := r.Sub(whole).Mul(hundred).IntPart()
	return sign + "$" + printer.Sprintf("%d", whole.IntPart()) + fmt.Sprintf(".%02d", cents)
}

// DateLayout is the long US date with a 12-hour clock.
const DateLayout = "January 2, 2006 at 03:04 PM"

func Date(t time.Time) string { return t.Format(DateLayout) }
