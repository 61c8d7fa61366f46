// Package page applies the menu search filter and checkout panel toggles to
// rendered HTML.
package page

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	displayBlock = "display: block"
	displayNone  = "display: none"
)

// Result is a document after a filter or toggle was applied.
type Result struct {
	doc *goquery.Document

	// Visible holds the data-name of each card left visible, in document order.
	Visible   []string
	NoResults bool
}

// HTML renders the modified document.
func (r *Result) HTML() (string, error) { return r.doc.Html() }

// Document exposes the parsed document for further queries.
func (r *Result) Document() *goquery.Document { return r.doc }

// FilterMenu shows the .menu-item-card elements whose data-name or
// data-description contains query, lower-cased, and hides the rest. The
// attributes are matched as stored, so pages render them in lower case.
// #noResults is shown only when no card is left visible.
func FilterMenu(r io.Reader, query string) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	res := &Result{doc: doc}

	doc.Find(".menu-item-card").Each(func(_ int, card *goquery.Selection) {
		name := card.AttrOr("data-name", "")
		desc := card.AttrOr("data-description", "")
		if strings.Contains(name, q) || strings.Contains(desc, q) {
			card.SetAttr("style", displayBlock)
			res.Visible = append(res.Visible, name)
			return
		}
		card.SetAttr("style", displayNone)
	})

	res.NoResults = len(res.Visible) == 0
	noResults := doc.Find("#noResults")
	if res.NoResults {
		noResults.SetAttr("style", displayBlock)
	} else {
		noResults.SetAttr("style", displayNone)
	}
	return res, nil
}

// PaymentCard is the payment method that needs card details.
const PaymentCard = "card"

// ToggleCardDetails shows #cardDetails only when method is PaymentCard. It
// also marks the matching payment_method radio as checked.
func ToggleCardDetails(r io.Reader, method string) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	doc.Find(`input[name="payment_method"]`).Each(func(_ int, in *goquery.Selection) {
		if in.AttrOr("value", "") == method {
			in.SetAttr("checked", "checked")
		} else {
			in.RemoveAttr("checked")
		}
	})

	details := doc.Find("#cardDetails")
	if method == PaymentCard {
		details.SetAttr("style", displayBlock)
	} else {
		details.SetAttr("style", displayNone)
	}
	return &Result{doc: doc}, nil
}
