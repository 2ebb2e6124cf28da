package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopreco/internal/app/shop"
)

// Runs against a live server only when SHOPRECO_TEST_REDIS is set.
func TestRedis_RoundTrip(t *testing.T) {
	addr := os.Getenv("SHOPRECO_TEST_REDIS")
	if addr == "" {
		t.Skip("SHOPRECO_TEST_REDIS not set")
	}

	ctx := context.Background()
	c, err := NewRedis(ctx, addr, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	id := "cache-test-user"
	require.NoError(t, c.Invalidate(ctx, id))

	_, hit, err := c.Get(ctx, id, 3)
	require.NoError(t, err)
	assert.False(t, hit)

	sim := 0.5
	items := []shop.RecommendationItem{{Item: shop.Item{SKU: "A1", Color: "red", Size: "M", UnitPrice: 9.5}, Similarity: &sim}}
	gen, err := c.Generation(ctx, id)
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, id, gen, 3, items))

	got, hit, err := c.Get(ctx, id, 3)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, items, got)

	require.NoError(t, c.Invalidate(ctx, id))
	_, hit, err = c.Get(ctx, id, 3)
	require.NoError(t, err)
	assert.False(t, hit)
}

// Runs against a live server only when SHOPRECO_TEST_REDIS is set.
func TestRedis_SetAfterInvalidateIsDropped(t *testing.T) {
	addr := os.Getenv("SHOPRECO_TEST_REDIS")
	if addr == "" {
		t.Skip("SHOPRECO_TEST_REDIS not set")
	}

	ctx := context.Background()
	c, err := NewRedis(ctx, addr, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	id := "cache-test-generation"
	require.NoError(t, c.Invalidate(ctx, id))

	before, err := c.Generation(ctx, id)
	require.NoError(t, err)

	require.NoError(t, c.Invalidate(ctx, id))
	after, err := c.Generation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	stale := []shop.RecommendationItem{{Item: shop.Item{SKU: "B1", Color: "blue", Size: "L", UnitPrice: 50}}}
	require.NoError(t, c.Set(ctx, id, before, 2, stale))

	_, hit, err := c.Get(ctx, id, 2)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "reco:alice", userKey("alice"))
	assert.Equal(t, "reco-gen:alice", generationKey("alice"))
}
