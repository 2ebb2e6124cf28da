package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopreco/internal/app/catalog"
	"shopreco/internal/app/recommend"
	"shopreco/internal/app/shop"
	"shopreco/internal/app/store"
	"shopreco/internal/configs"
)

func testConfig() *configs.AppConfig {
	return &configs.AppConfig{
		Environment: "test",
		WriteRate:   1000,
		WriteBurst:  1000,
		Catalog:     configs.CatalogConfig{Limit: 2},
		Recommend:   configs.RecommendConfig{DefaultCount: 5, MaxCount: 3},
	}
}

func testDeps(t *testing.T) *AppDeps {
	t.Helper()

	cat := catalog.New([]shop.CatalogItem{
		{SKU: "A1", Color: "red", Size: "M", UnitPrice: 9.5},
		{SKU: "A2", Color: "red", Size: "M", UnitPrice: 11},
		{SKU: "B1", Color: "blue", Size: "L", UnitPrice: 50},
		{SKU: "B2", Color: "blue", Size: "M", UnitPrice: 30},
	})
	st := store.NewMemory()

	return &AppDeps{
		Config:      testConfig(),
		Store:       st,
		Catalog:     cat,
		Recommender: recommend.NewService(st, recommend.NewEngine(cat), nil),
	}
}

func newAPI(t *testing.T) (*httptest.Server, *AppDeps) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	deps := testDeps(t)
	srv := httptest.NewServer(APIRouter(ctx, deps))
	t.Cleanup(srv.Close)
	return srv, deps
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return res.StatusCode, out
}

func TestAddUser(t *testing.T) {
	srv, _ := newAPI(t)

	status, body := doJSON(t, srv, http.MethodPost, "/api/add-user", `{"user_id":"alice"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "User alice created", body["message"])

	tests := []struct {
		name string
		body string
	}{
		{"duplicate", `{"user_id":"alice"}`},
		{"empty", `{"user_id":""}`},
		{"missing", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doJSON(t, srv, http.MethodPost, "/api/add-user", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "error", body["status"])
			assert.Equal(t, "User already exists or invalid ID", body["message"])
		})
	}

	_, body = doJSON(t, srv, http.MethodGet, "/api/users", "")
	assert.Equal(t, []any{"alice"}, body["users"])
}

func TestListUsers_Empty(t *testing.T) {
	srv, _ := newAPI(t)

	status, body := doJSON(t, srv, http.MethodGet, "/api/users", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{}, body["users"])
}

func TestAddPurchase(t *testing.T) {
	srv, deps := newAPI(t)

	status, body := doJSON(t, srv, http.MethodPost, "/api/add-purchase", `{"user_id":"bob","sku":"A1"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Purchase added for bob", body["message"])

	users, err := deps.Store.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, users, "unknown users are registered")

	status, body = doJSON(t, srv, http.MethodPost, "/api/add-purchase", `{"user_id":"bob","sku":"ZZ"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid SKU", body["message"])

	status, _ = doJSON(t, srv, http.MethodPost, "/api/add-purchase", `{"user_id":"carol","sku":"ZZ"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	users, err = deps.Store.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "carol"}, users, "a rejected purchase still registers the user")

	_, body = doJSON(t, srv, http.MethodGet, "/api/user-history/carol", "")
	assert.Equal(t, []any{}, body["history"])

	status, _ = doJSON(t, srv, http.MethodPost, "/api/add-purchase", `{"user_id":"bob"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestUserHistory(t *testing.T) {
	srv, deps := newAPI(t)
	require.NoError(t, deps.Store.AddPurchase(context.Background(), "alice", "A1"))

	_, body := doJSON(t, srv, http.MethodGet, "/api/user-history/alice", "")
	assert.Equal(t, []any{map[string]any{"sku": "A1", "color": "red", "size": "M", "unit_price": 9.5}}, body["history"])

	_, body = doJSON(t, srv, http.MethodGet, "/api/user-history/nobody", "")
	assert.Equal(t, []any{}, body["history"])
}

func TestRecommendations(t *testing.T) {
	srv, deps := newAPI(t)
	require.NoError(t, deps.Store.AddPurchase(context.Background(), "alice", "A1"))

	_, body := doJSON(t, srv, http.MethodGet, "/api/recommendations/alice?n=1", "")
	recs := body["recommendations"].([]any)
	require.Len(t, recs, 1)
	first := recs[0].(map[string]any)
	assert.Equal(t, "A2", first["sku"])
	assert.Contains(t, first, "similarity")

	_, body = doJSON(t, srv, http.MethodGet, "/api/recommendations/alice?n=0", "")
	assert.Equal(t, []any{}, body["recommendations"])

	_, body = doJSON(t, srv, http.MethodGet, "/api/recommendations/nobody", "")
	recs = body["recommendations"].([]any)
	assert.Len(t, recs, 3, "default count is capped by the maximum")
	assert.NotContains(t, recs[0].(map[string]any), "similarity")
	assert.Equal(t, "B1", recs[0].(map[string]any)["sku"])
}

func TestRecommendationCount(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 5},
		{"abc", 5},
		{"0", 0},
		{"-2", 0},
		{"3", 3},
		{"100", 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, recommendationCount(tt.raw, 5, 10), "n=%q", tt.raw)
	}
}

func TestProducts(t *testing.T) {
	srv, _ := newAPI(t)

	_, body := doJSON(t, srv, http.MethodGet, "/api/products", "")
	products := body["products"].([]any)
	require.Len(t, products, 2, "catalog limit applies")
	assert.Equal(t, "A1", products[0].(map[string]any)["sku"])
}

func TestHealth(t *testing.T) {
	srv, _ := newAPI(t)

	status, body := doJSON(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestWriteRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	deps := testDeps(t)
	deps.Config.WriteRate = 0.001
	deps.Config.WriteBurst = 1
	srv := httptest.NewServer(APIRouter(ctx, deps))
	t.Cleanup(srv.Close)

	status, _ := doJSON(t, srv, http.MethodPost, "/api/add-user", `{"user_id":"a"}`)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, srv, http.MethodPost, "/api/add-user", `{"user_id":"b"}`)
	assert.Equal(t, http.StatusTooManyRequests, status)

	status, _ = doJSON(t, srv, http.MethodGet, "/api/users", "")
	assert.Equal(t, http.StatusOK, status, "reads are not limited")
}
