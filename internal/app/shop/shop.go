/*
Package shop defines the domain values shared by the backend API and the console
controller, together with the JSON bodies of every backend endpoint.
*/
package shop

// UserID identifies a shopper. It is an opaque, non-empty string.
type UserID = string

// Item is one product line as it travels on the wire. Purchase history entries
// and catalog entries have exactly this shape.
type Item struct {
	SKU       string  `json:"sku"`
	Color     string  `json:"color"`
	Size      string  `json:"size"`
	UnitPrice float64 `json:"unit_price"`
}

// PurchaseItem is one line of a user's purchase history.
type PurchaseItem = Item

// CatalogItem is a browsable product, not tied to a user.
type CatalogItem = Item

// RecommendationItem is a ranked product. Similarity is nil when the backend
// produced the item without a ranking score.
type RecommendationItem struct {
	Item
	Similarity *float64 `json:"similarity,omitempty"`
}

// Status values of StatusResponse.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// StatusResponse is returned by the create-user and add-purchase endpoints.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// OK reports whether the backend accepted the request.
func (s StatusResponse) OK() bool {
	return s.Status == StatusSuccess
}

// CreateUserRequest is the body of POST /api/add-user.
type CreateUserRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// AddPurchaseRequest is the body of POST /api/add-purchase.
type AddPurchaseRequest struct {
	UserID string `json:"user_id" validate:"required"`
	SKU    string `json:"sku" validate:"required"`
}

// UsersResponse is the body of GET /api/users.
type UsersResponse struct {
	Users []UserID `json:"users"`
}

// HistoryResponse is the body of GET /api/user-history/{userId}.
type HistoryResponse struct {
	History []PurchaseItem `json:"history"`
}

// RecommendationsResponse is the body of GET /api/recommendations/{userId}.
type RecommendationsResponse struct {
	Recommendations []RecommendationItem `json:"recommendations"`
}

// ProductsResponse is the body of GET /api/products.
type ProductsResponse struct {
	Products []CatalogItem `json:"products"`
}
