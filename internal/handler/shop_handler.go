/*
Package handler provides the HTTP handlers and routing of the backend API and the
console server.
*/
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"shopreco/internal/app/shop"
	"shopreco/internal/app/store"
	"shopreco/internal/pkg/errs"
	"shopreco/internal/pkg/req"
	"shopreco/internal/pkg/resp"
)

// HandleListUsers answers GET /api/users with users in creation order.
func HandleListUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := deps.Store.ListUsers(r.Context())
		if err != nil {
			storeFailure(w, r, err, "list users")
			return
		}
		if users == nil {
			users = []shop.UserID{}
		}

		resp.RespondData(w, r, shop.UsersResponse{Users: users})
	}
}

// HandleAddUser answers POST /api/add-user. Empty and duplicate ids are rejected.
func HandleAddUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input shop.CreateUserRequest
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			if errs.Is(customErr, errs.ErrInvalidParams) {
				customErr = errs.NewError(errs.ErrInvalidUserID)
			}
			resp.RespondError(w, r, customErr)
			return
		}

		err := deps.Store.CreateUser(r.Context(), input.UserID)
		if errors.Is(err, store.ErrUserExists) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidUserID))
			return
		}
		if err != nil {
			storeFailure(w, r, err, "create user")
			return
		}

		zerolog.Ctx(r.Context()).Info().Str("user_id", input.UserID).Msg("User created")
		resp.RespondSuccess(w, r, fmt.Sprintf("User %s created", input.UserID))
	}
}

// HandleAddPurchase answers POST /api/add-purchase. An unknown user is registered
// before the sku is checked, so a rejected purchase still creates the user.
func HandleAddPurchase(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input shop.AddPurchaseRequest
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		err := deps.Store.CreateUser(r.Context(), input.UserID)
		if err != nil && !errors.Is(err, store.ErrUserExists) {
			storeFailure(w, r, err, "register purchaser")
			return
		}

		if !deps.Catalog.Contains(input.SKU) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidSKU))
			return
		}

		if err := deps.Store.AddPurchase(r.Context(), input.UserID, input.SKU); err != nil {
			storeFailure(w, r, err, "add purchase")
			return
		}
		deps.Recommender.Invalidate(r.Context(), input.UserID)

		zerolog.Ctx(r.Context()).Info().Str("user_id", input.UserID).Str("sku", input.SKU).Msg("Purchase added")
		resp.RespondSuccess(w, r, fmt.Sprintf("Purchase added for %s", input.UserID))
	}
}

// HandleUserHistory answers GET /api/user-history/{userId}. Unknown users have an
// empty history.
func HandleUserHistory(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userId")

		skus, err := deps.Store.Purchases(r.Context(), userID)
		if err != nil {
			storeFailure(w, r, err, "user history")
			return
		}

		history := make([]shop.PurchaseItem, 0, len(skus))
		for _, sku := range skus {
			item, ok := deps.Catalog.Lookup(sku)
			if !ok {
				zerolog.Ctx(r.Context()).Warn().Str("sku", sku).Msg("Purchased sku missing from catalog, skipped")
				continue
			}
			history = append(history, item)
		}

		resp.RespondData(w, r, shop.HistoryResponse{History: history})
	}
}

// HandleRecommendations answers GET /api/recommendations/{userId}?n=.
func HandleRecommendations(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userId")
		n := recommendationCount(r.URL.Query().Get("n"), deps.Config.Recommend.DefaultCount, deps.Config.Recommend.MaxCount)

		recs, err := deps.Recommender.ForUser(r.Context(), userID, n)
		if err != nil {
			storeFailure(w, r, err, "recommendations")
			return
		}

		resp.RespondData(w, r, shop.RecommendationsResponse{Recommendations: recs})
	}
}

// recommendationCount parses n, falling back to def when it is missing or not a
// number, and capping it at limit. Counts below 1 yield an empty list.
func recommendationCount(raw string, def, limit int) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		n = def
	}
	return max(min(n, limit), 0)
}

// HandleProducts answers GET /api/products with the head of the catalog.
func HandleProducts(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondData(w, r, shop.ProductsResponse{Products: deps.Catalog.Head(deps.Config.Catalog.Limit)})
	}
}

func storeFailure(w http.ResponseWriter, r *http.Request, err error, op string) {
	zerolog.Ctx(r.Context()).Error().Err(err).Str("op", op).Msg("Store call failed")
	resp.RespondError(w, r, errs.NewError(errs.ErrStoreUnavailable))
}
