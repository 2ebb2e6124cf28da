package recommend

import (
	"context"

	"shopreco/internal/app/shop"
	"shopreco/internal/app/store"
	"shopreco/internal/pkg/logx"
	"shopreco/internal/pkg/metrics"
)

// Cache stores computed recommendation lists per user and count.
//
// Every user has a generation that Invalidate advances. Set stores a list only while
// the user's generation still equals the one read before the list was computed, so a
// list built from purchases that predate an invalidation is never cached.
type Cache interface {
	Get(ctx context.Context, userID shop.UserID, n int) ([]shop.RecommendationItem, bool, error)
	Generation(ctx context.Context, userID shop.UserID) (int64, error)
	Set(ctx context.Context, userID shop.UserID, gen int64, n int, items []shop.RecommendationItem) error
	Invalidate(ctx context.Context, userID shop.UserID) error
}

// NopCache never hits.
type NopCache struct{}

func (NopCache) Get(context.Context, shop.UserID, int) ([]shop.RecommendationItem, bool, error) {
	return nil, false, nil
}

func (NopCache) Generation(context.Context, shop.UserID) (int64, error) { return 0, nil }

func (NopCache) Set(context.Context, shop.UserID, int64, int, []shop.RecommendationItem) error {
	return nil
}

func (NopCache) Invalidate(context.Context, shop.UserID) error { return nil }

// Service joins the purchase store with the ranking engine.
type Service struct {
	store  store.Store
	engine *Engine
	cache  Cache
}

// NewService returns a Service. A nil cache disables caching.
func NewService(s store.Store, e *Engine, c Cache) *Service {
	if c == nil {
		c = NopCache{}
	}
	return &Service{store: s, engine: e, cache: c}
}

// ForUser returns up to n recommendations for userID.
// Cache failures are logged and fall through to a fresh computation.
func (s *Service) ForUser(ctx context.Context, userID shop.UserID, n int) ([]shop.RecommendationItem, error) {
	items, hit, err := s.cache.Get(ctx, userID, n)
	switch {
	case err != nil:
		metrics.RecommendationCacheLookups.WithLabelValues("error").Inc()
		logx.Warn("Recommendation cache read failed", "user_id", userID, "error", err.Error())
	case hit:
		metrics.RecommendationCacheLookups.WithLabelValues("hit").Inc()
		return items, nil
	default:
		metrics.RecommendationCacheLookups.WithLabelValues("miss").Inc()
	}

	gen, genErr := s.cache.Generation(ctx, userID)
	if genErr != nil {
		logx.Warn("Recommendation cache generation read failed", "user_id", userID, "error", genErr.Error())
	}

	purchased, err := s.store.Purchases(ctx, userID)
	if err != nil {
		return nil, err
	}

	items = s.engine.Recommend(purchased, n)

	if genErr == nil {
		if err := s.cache.Set(ctx, userID, gen, n, items); err != nil {
			logx.Warn("Recommendation cache write failed", "user_id", userID, "error", err.Error())
		}
	}

	return items, nil
}

// Invalidate drops every cached list for userID and advances its generation.
// Called after a purchase is stored.
func (s *Service) Invalidate(ctx context.Context, userID shop.UserID) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logx.Warn("Recommendation cache invalidation failed", "user_id", userID, "error", err.Error())
	}
}
