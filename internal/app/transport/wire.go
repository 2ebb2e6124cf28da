package transport

import (
	"github.com/go-playground/validator/v10"

	"shopreco/internal/app/shop"
)

var validate = validator.New()

// Response bodies are decoded into these before being handed out, so that a
// missing key or a malformed item is caught here rather than in a render function.

type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// statusBody answers the two writes. Any status other than "success" is a failure
// the backend reported.
type statusBody struct {
	Status  string `json:"status" validate:"required"`
	Message string `json:"message"`
}

func (b *statusBody) failure() (string, bool) {
	return b.Message, b.Status != shop.StatusSuccess
}

// reportingBody is implemented by bodies that can carry a reported failure.
type reportingBody interface {
	failure() (message string, failed bool)
}

type wireItem struct {
	SKU        string   `json:"sku" validate:"required"`
	Color      string   `json:"color"`
	Size       string   `json:"size"`
	UnitPrice  *float64 `json:"unit_price" validate:"required"`
	Similarity *float64 `json:"similarity"`
}

func (w wireItem) item() shop.Item {
	return shop.Item{SKU: w.SKU, Color: w.Color, Size: w.Size, UnitPrice: *w.UnitPrice}
}

func (w wireItem) recommendation() shop.RecommendationItem {
	return shop.RecommendationItem{Item: w.item(), Similarity: w.Similarity}
}

type usersBody struct {
	Users []string `json:"users" validate:"required"`
}

type historyBody struct {
	History []wireItem `json:"history" validate:"required,dive"`
}

type recommendationsBody struct {
	Recommendations []wireItem `json:"recommendations" validate:"required,dive"`
}

type productsBody struct {
	Products []wireItem `json:"products" validate:"required,dive"`
}

func items(in []wireItem) []shop.Item {
	out := make([]shop.Item, len(in))
	for i, w := range in {
		out[i] = w.item()
	}
	return out
}
