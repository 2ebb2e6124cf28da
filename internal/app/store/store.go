/*
Package store persists users and their purchases for the backend API.

Two implementations exist: Memory, the default, which lives as long as the process,
and Postgres, selected when a database DSN is configured.
*/
package store

import (
	"context"
	"errors"

	"shopreco/internal/app/shop"
)

// ErrUserExists is returned by CreateUser for an id that is already registered.
var ErrUserExists = errors.New("store: user already exists")

// Store is the persistence contract of the backend.
type Store interface {
	// ListUsers returns user ids in creation order.
	ListUsers(ctx context.Context) ([]shop.UserID, error)

	// CreateUser registers id or fails with ErrUserExists.
	CreateUser(ctx context.Context, id shop.UserID) error

	// AddPurchase appends sku to the user's history, registering the user first
	// when it is unknown.
	AddPurchase(ctx context.Context, id shop.UserID, sku string) error

	// Purchases returns the skus bought by id, oldest first. Unknown users have
	// an empty history.
	Purchases(ctx context.Context, id shop.UserID) ([]string, error)
}
