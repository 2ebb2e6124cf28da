package session

import (
	"context"
	"html/template"
	"sync"

	"shopreco/internal/app/shop"
)

type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	users     []shop.UserID
	history   map[shop.UserID][]shop.PurchaseItem
	recs      []shop.RecommendationItem
	products  []shop.CatalogItem
	lastCount int

	listErr, createErr, historyErr, recsErr, purchaseErr, productsErr error

	// beforeHistory, when set, runs inside UserHistory before it returns.
	beforeHistory func(id shop.UserID)
}

func (b *fakeBackend) record(call string) {
	b.mu.Lock()
	b.calls = append(b.calls, call)
	b.mu.Unlock()
}

func (b *fakeBackend) count(call string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (b *fakeBackend) ListUsers(context.Context) ([]shop.UserID, error) {
	b.record("ListUsers")
	return b.users, b.listErr
}

func (b *fakeBackend) CreateUser(_ context.Context, id shop.UserID) error {
	b.record("CreateUser")
	if b.createErr == nil {
		b.users = append(b.users, id)
	}
	return b.createErr
}

func (b *fakeBackend) UserHistory(_ context.Context, id shop.UserID) ([]shop.PurchaseItem, error) {
	b.record("UserHistory")
	if b.beforeHistory != nil {
		b.beforeHistory(id)
	}
	if b.historyErr != nil {
		return nil, b.historyErr
	}
	return b.history[id], nil
}

func (b *fakeBackend) Recommendations(_ context.Context, _ shop.UserID, count int) ([]shop.RecommendationItem, error) {
	b.record("Recommendations")
	b.lastCount = count
	return b.recs, b.recsErr
}

func (b *fakeBackend) AddPurchase(_ context.Context, id shop.UserID, sku string) error {
	b.record("AddPurchase")
	if b.purchaseErr != nil {
		return b.purchaseErr
	}
	if b.history == nil {
		b.history = map[shop.UserID][]shop.PurchaseItem{}
	}
	b.history[id] = append(b.history[id], shop.PurchaseItem{SKU: sku, Color: "red", Size: "M", UnitPrice: 1})
	return nil
}

func (b *fakeBackend) Products(context.Context) ([]shop.CatalogItem, error) {
	b.record("Products")
	return b.products, b.productsErr
}

type fakeView struct {
	mu       sync.Mutex
	regions  map[Region]template.HTML
	replaced map[Region][]template.HTML
	texts    map[Field]string
	inputs   map[Field]string
	visible  map[Region]bool
	notices  []Notice
}

func newFakeView() *fakeView {
	return &fakeView{
		regions:  map[Region]template.HTML{},
		replaced: map[Region][]template.HTML{},
		texts:    map[Field]string{},
		inputs:   map[Field]string{},
		visible:  map[Region]bool{},
	}
}

func (v *fakeView) ReplaceRegion(r Region, html template.HTML) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.regions[r] = html
	v.replaced[r] = append(v.replaced[r], html)
}

func (v *fakeView) SetText(f Field, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.texts[f] = text
}

func (v *fakeView) SetVisible(r Region, visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visible[r] = visible
}

func (v *fakeView) SetInput(f Field, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inputs[f] = value
}

func (v *fakeView) Notify(n Notice) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notices = append(v.notices, n)
}

func (v *fakeView) lastNotice() Notice {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.notices) == 0 {
		return Notice{}
	}
	return v.notices[len(v.notices)-1]
}
