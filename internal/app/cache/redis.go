// Package cache keeps computed recommendation lists in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"

	"shopreco/internal/app/shop"
)

// Redis stores one hash per user, keyed by requested count, so a purchase can
// drop every list for that user at once. A separate counter per user holds its
// generation.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis connects to addr and verifies the connection.
func NewRedis(ctx context.Context, addr string, ttl time.Duration) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: ping %s: %w", addr, err)
	}

	return &Redis{rdb: rdb, ttl: ttl}, nil
}

func userKey(id shop.UserID) string {
	return "reco:" + id
}

func generationKey(id shop.UserID) string {
	return "reco-gen:" + id
}

// getter is the part of *redis.Client and *redis.Tx that readGeneration needs.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, cmd getter, id shop.UserID) (int64, error) {
	gen, err := cmd.Get(ctx, generationKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Generation returns the user's current generation; 0 before the first invalidation.
func (c *Redis) Generation(ctx context.Context, id shop.UserID) (int64, error) {
	return readGeneration(ctx, c.rdb, id)
}

// Get returns the cached list for (id, n) if present.
func (c *Redis) Get(ctx context.Context, id shop.UserID, n int) ([]shop.RecommendationItem, bool, error) {
	data, err := c.rdb.HGet(ctx, userKey(id), strconv.Itoa(n)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var items []shop.RecommendationItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, fmt.Errorf("cache: decode %s: %w", userKey(id), err)
	}
	return items, true, nil
}

// Set stores items for (id, n) and refreshes the user's TTL, unless the user's
// generation moved past gen. A skipped write is not an error.
func (c *Redis) Set(ctx context.Context, id shop.UserID, gen int64, n int, items []shop.RecommendationItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}

	key := userKey(id)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, id)
		if err != nil {
			return err
		}
		if current != gen {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, strconv.Itoa(n), data)
			pipe.Expire(ctx, key, c.ttl)
			return nil
		})
		return err
	}, generationKey(id))

	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// Invalidate drops every cached list for id and advances its generation.
func (c *Redis) Invalidate(ctx context.Context, id shop.UserID) error {
	pipe := c.rdb.TxPipeline()
	pipe.Incr(ctx, generationKey(id))
	pipe.Del(ctx, userKey(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (c *Redis) Close() error {
	return c.rdb.Close()
}
