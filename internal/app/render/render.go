/*
Package render turns backend payloads into the HTML that fills one console region.

Each function returns the complete new content of its region; nothing is diffed
against what the page currently shows. Payloads are only read. Empty lists render
the region's placeholder text instead of an empty container.
*/
package render

import (
	"bytes"
	_ "embed"
	"html/template"
	"strconv"

	"shopreco/internal/app/shop"
	"shopreco/internal/pkg/logx"
)

// Placeholder texts.
const (
	ChooseUser             = "-- Choose a user --"
	SelectUserForHistory   = "Select a user to see purchase history"
	SelectUserForRecs      = `Select a user and click "Get Recommendations"`
	NoPurchases            = "No purchases yet"
	LoadingRecommendations = "Loading recommendations..."
	NoRecommendations      = "No recommendations available"
	NoProducts             = "No products available"
)

//go:embed fragments.html
var fragmentsHTML string

var fragments = template.Must(template.New("fragments").Funcs(template.FuncMap{
	"price": FormatPrice,
	"score": func(sim *float64) string { return FormatMatchScore(*sim) },
}).Parse(fragmentsHTML))

// FormatPrice renders a unit price with exactly two decimals, without currency.
func FormatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}

// FormatMatchScore renders a similarity in [0,1] as a percentage with one decimal.
func FormatMatchScore(sim float64) string {
	return strconv.FormatFloat(sim*100, 'f', 1, 64)
}

// Placeholder renders msg as an empty-state paragraph.
func Placeholder(msg string) template.HTML {
	return execute("placeholder", msg)
}

// RenderUserList renders the user selector options, led by the no-selection option.
func RenderUserList(users []shop.UserID) template.HTML {
	return execute("user-list", struct {
		Placeholder string
		Users       []shop.UserID
	}{ChooseUser, users})
}

// RenderPurchaseHistory renders one entry per purchase line.
func RenderPurchaseHistory(items []shop.PurchaseItem) template.HTML {
	if len(items) == 0 {
		return Placeholder(NoPurchases)
	}
	return execute("purchase-history", items)
}

// RenderRecommendations renders ranked items. The match score line appears only for
// items that carry a similarity.
func RenderRecommendations(items []shop.RecommendationItem) template.HTML {
	if len(items) == 0 {
		return Placeholder(NoRecommendations)
	}
	return execute("recommendations", items)
}

// RenderCatalog renders the product catalog. Every entry carries a pick-sku action
// with its sku so the page can report clicks back.
func RenderCatalog(items []shop.CatalogItem) template.HTML {
	if len(items) == 0 {
		return Placeholder(NoProducts)
	}
	return execute("catalog", items)
}

func execute(name string, data any) template.HTML {
	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, name, data); err != nil {
		logx.Error(err, "Failed to render fragment", "template", name)
		return ""
	}
	return template.HTML(buf.String())
}
