/*
Package recommend ranks catalog products for a user.

Every product is described by a feature vector: a one-hot block for its color, a
one-hot block for its size and its unit price min-max scaled into [0,1]. A user's
profile is the mean vector of everything they bought, and candidates are ranked by
cosine similarity to that profile. Items the user already owns are never suggested.

Users without a usable history get the most expensive products instead; those items
carry no similarity score.
*/
package recommend

import (
	"math"
	"sort"

	"shopreco/internal/app/catalog"
	"shopreco/internal/app/shop"
)

// Engine holds the precomputed feature vectors of one catalog.
type Engine struct {
	products []shop.CatalogItem
	vectors  [][]float64
	index    map[string]int
}

// NewEngine computes feature vectors for every product in c.
func NewEngine(c *catalog.Catalog) *Engine {
	products := c.All()

	colors := make(map[string]int)
	sizes := make(map[string]int)
	minPrice, maxPrice := math.Inf(1), math.Inf(-1)

	for _, p := range products {
		if _, ok := colors[p.Color]; !ok {
			colors[p.Color] = len(colors)
		}
		if _, ok := sizes[p.Size]; !ok {
			sizes[p.Size] = len(sizes)
		}
		minPrice = math.Min(minPrice, p.UnitPrice)
		maxPrice = math.Max(maxPrice, p.UnitPrice)
	}

	dim := len(colors) + len(sizes) + 1
	e := &Engine{
		products: products,
		vectors:  make([][]float64, len(products)),
		index:    make(map[string]int, len(products)),
	}

	for i, p := range products {
		v := make([]float64, dim)
		v[colors[p.Color]] = 1
		v[len(colors)+sizes[p.Size]] = 1
		if maxPrice > minPrice {
			v[dim-1] = (p.UnitPrice - minPrice) / (maxPrice - minPrice)
		}

		e.vectors[i] = v
		e.index[p.SKU] = i
	}

	return e
}

// Recommend returns up to n products for a user who bought purchased (skus,
// repeats allowed, oldest first). n <= 0 yields an empty list.
func (e *Engine) Recommend(purchased []string, n int) []shop.RecommendationItem {
	if n <= 0 {
		return []shop.RecommendationItem{}
	}

	profile, owned := e.profile(purchased)
	if profile == nil {
		return e.mostExpensive(n)
	}

	type scored struct {
		idx int
		sim float64
	}

	candidates := make([]scored, 0, len(e.products))
	for i, p := range e.products {
		if _, ok := owned[p.SKU]; ok {
			continue
		}
		candidates = append(candidates, scored{idx: i, sim: cosine(profile, e.vectors[i])})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].sim > candidates[b].sim
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}

	out := make([]shop.RecommendationItem, len(candidates))
	for i, c := range candidates {
		sim := c.sim
		out[i] = shop.RecommendationItem{Item: e.products[c.idx], Similarity: &sim}
	}
	return out
}

// profile averages the vectors of the purchased skus that exist in the catalog.
// It returns nil when none do.
func (e *Engine) profile(purchased []string) ([]float64, map[string]struct{}) {
	owned := make(map[string]struct{}, len(purchased))
	var sum []float64
	count := 0

	for _, sku := range purchased {
		owned[sku] = struct{}{}

		i, ok := e.index[sku]
		if !ok {
			continue
		}
		if sum == nil {
			sum = make([]float64, len(e.vectors[i]))
		}
		for d, x := range e.vectors[i] {
			sum[d] += x
		}
		count++
	}

	if count == 0 {
		return nil, owned
	}

	for d := range sum {
		sum[d] /= float64(count)
	}
	return sum, owned
}

func (e *Engine) mostExpensive(n int) []shop.RecommendationItem {
	ranked := make([]shop.CatalogItem, len(e.products))
	copy(ranked, e.products)

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].UnitPrice > ranked[b].UnitPrice
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	out := make([]shop.RecommendationItem, len(ranked))
	for i, p := range ranked {
		out[i] = shop.RecommendationItem{Item: p}
	}
	return out
}

// cosine returns the cosine similarity of a and b, or 0 if either is the zero vector.
func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
