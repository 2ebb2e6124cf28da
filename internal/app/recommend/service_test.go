package recommend

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopreco/internal/app/shop"
	"shopreco/internal/app/store"
)

type mapCache struct {
	mu          sync.Mutex
	entries     map[string][]shop.RecommendationItem
	generations map[string]int64
	invalidated []string
	getErr      error
}

func newMapCache() *mapCache {
	return &mapCache{
		entries:     map[string][]shop.RecommendationItem{},
		generations: map[string]int64{},
	}
}

func (c *mapCache) Get(_ context.Context, id shop.UserID, _ int) ([]shop.RecommendationItem, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	items, ok := c.entries[id]
	return items, ok, nil
}

func (c *mapCache) Generation(_ context.Context, id shop.UserID) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[id], nil
}

func (c *mapCache) Set(_ context.Context, id shop.UserID, gen int64, _ int, items []shop.RecommendationItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[id] == gen {
		c.entries[id] = items
	}
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, id shop.UserID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[id]++
	delete(c.entries, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

// gatedStore pauses Purchases after it has read the history until release is closed.
type gatedStore struct {
	store.Store
	reached chan struct{}
	release chan struct{}
}

func (g *gatedStore) Purchases(ctx context.Context, id shop.UserID) ([]string, error) {
	skus, err := g.Store.Purchases(ctx, id)
	close(g.reached)
	<-g.release
	return skus, err
}

func TestService_ForUser(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, st.AddPurchase(ctx, "alice", "A1"))

	cache := newMapCache()
	svc := NewService(st, NewEngine(testCatalog()), cache)

	got, err := svc.ForUser(ctx, "alice", 2)
	require.NoError(t, err)
	assert.Equal(t, "A2", got[0].SKU)
	assert.Contains(t, cache.entries, "alice")

	cache.entries["alice"] = []shop.RecommendationItem{{Item: shop.Item{SKU: "cached"}}}
	got, err = svc.ForUser(ctx, "alice", 2)
	require.NoError(t, err)
	assert.Equal(t, "cached", got[0].SKU)

	svc.Invalidate(ctx, "alice")
	assert.Equal(t, []string{"alice"}, cache.invalidated)
	assert.NotContains(t, cache.entries, "alice")
}

func TestService_CacheErrorFallsThrough(t *testing.T) {
	ctx := context.Background()
	cache := newMapCache()
	cache.getErr = errors.New("down")
	svc := NewService(store.NewMemory(), NewEngine(testCatalog()), cache)

	got, err := svc.ForUser(ctx, "nobody", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"B1"}, skus(got))
}

func TestService_NilCache(t *testing.T) {
	svc := NewService(store.NewMemory(), NewEngine(testCatalog()), nil)

	got, err := svc.ForUser(context.Background(), "x", 5)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestService_PurchaseDuringComputationIsNotCached(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, st.AddPurchase(ctx, "alice", "A1"))

	engine := NewEngine(testCatalog())
	cache := newMapCache()
	gated := &gatedStore{Store: st, reached: make(chan struct{}), release: make(chan struct{})}
	slow := NewService(gated, engine, cache)

	type result struct {
		items []shop.RecommendationItem
		err   error
	}
	done := make(chan result, 1)
	go func() {
		items, err := slow.ForUser(ctx, "alice", 5)
		done <- result{items, err}
	}()

	<-gated.reached
	require.NoError(t, st.AddPurchase(ctx, "alice", "A2"))
	slow.Invalidate(ctx, "alice")
	close(gated.release)

	first := <-done
	require.NoError(t, first.err)
	assert.Equal(t, "A2", first.items[0].SKU)

	got, err := NewService(st, engine, cache).ForUser(ctx, "alice", 5)
	require.NoError(t, err)
	assert.NotContains(t, skus(got), "A2")
	assert.NotContains(t, skus(got), "A1")
}
