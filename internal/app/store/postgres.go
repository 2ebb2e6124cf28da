package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopreco/internal/app/db"
	"shopreco/internal/app/shop"
)

// Postgres is a Store backed by the users and purchases tables.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an open pool. The schema must already be migrated (db.NewPool does that).
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) ListUsers(ctx context.Context) ([]shop.UserID, error) {
	rows, err := p.pool.Query(ctx, `SELECT id FROM users ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return ids, nil
}

func (p *Postgres) CreateUser(ctx context.Context, id shop.UserID) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO users (id) VALUES ($1)`, id)
	if db.IsUniqueViolation(err) {
		return ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (p *Postgres) AddPurchase(ctx context.Context, id shop.UserID, sku string) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO users (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, id); err != nil {
			return fmt.Errorf("add purchase: ensure user: %w", err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO purchases (user_id, sku) VALUES ($1, $2)`, id, sku); err != nil {
			return fmt.Errorf("add purchase: %w", err)
		}
		return nil
	})
}

func (p *Postgres) Purchases(ctx context.Context, id shop.UserID) ([]string, error) {
	rows, err := p.pool.Query(ctx, `SELECT sku FROM purchases WHERE user_id = $1 ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("purchases: %w", err)
	}

	skus, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("purchases: %w", err)
	}
	return skus, nil
}
