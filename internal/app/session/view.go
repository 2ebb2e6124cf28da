package session

import (
	"context"
	"html/template"

	"shopreco/internal/app/shop"
)

// Region is a page area whose whole content the controller replaces.
type Region string

const (
	RegionUserSelect      Region = "selectUser"
	RegionUserInfo        Region = "userInfo"
	RegionPurchaseHistory Region = "purchaseHistory"
	RegionRecommendations Region = "recommendations"
	RegionCatalog         Region = "productCatalog"
)

// Field is a single text element or input on the page.
type Field string

const (
	FieldUserInput       Field = "userInput"
	FieldSKUInput        Field = "skuInput"
	FieldCurrentUserName Field = "currentUserName"
	FieldPurchaseCount   Field = "purchaseCount"
)

// NoticeKind selects how a notice is presented.
type NoticeKind string

const (
	NoticeSuccess    NoticeKind = "success"
	NoticeError      NoticeKind = "error"
	NoticeValidation NoticeKind = "validation"
)

// Notice is a message the user has to acknowledge.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// View is the page the controller draws on. Implementations must be safe for
// concurrent use.
type View interface {
	ReplaceRegion(region Region, html template.HTML)
	SetText(field Field, text string)
	SetVisible(region Region, visible bool)
	SetInput(field Field, value string)
	Notify(n Notice)
}

// Backend is the set of calls the controller makes. *transport.Client satisfies it.
type Backend interface {
	ListUsers(ctx context.Context) ([]shop.UserID, error)
	CreateUser(ctx context.Context, id shop.UserID) error
	UserHistory(ctx context.Context, id shop.UserID) ([]shop.PurchaseItem, error)
	Recommendations(ctx context.Context, id shop.UserID, count int) ([]shop.RecommendationItem, error)
	AddPurchase(ctx context.Context, id shop.UserID, sku string) error
	Products(ctx context.Context) ([]shop.CatalogItem, error)
}
