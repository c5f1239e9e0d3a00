// Package ranking orders stored items by distance to a query and selects the top k.
package ranking

import (
	"sort"

	"github.com/hyperjump/chikai/internal/metric"
	"github.com/hyperjump/chikai/internal/models"
)

// TopK scores every item against query with m and returns the k closest, nearest first.
// Every item is scored exactly once. Items with equal distance keep their insertion order.
// k larger than len(items) is clamped; k <= 0 or no items yields an empty, non-nil slice.
// items is not modified.
func TopK(query string, items []models.Item, k int, m metric.Metric) []models.Hit {
	if k <= 0 || len(items) == 0 {
		return []models.Hit{}
	}

	hits := make([]models.Hit, len(items))
	for i, item := range items {
		hits[i] = models.Hit{Distance: m.Distance(query, item.Content), Item: item}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })

	if k > len(hits) {
		k = len(hits)
	}
	hits = hits[:k:k]
	for i := range hits {
		hits[i].Rank = i + 1
	}
	return hits
}

// Contents returns the content of each hit, in order.
func Contents(hits []models.Hit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Item.Content
	}
	return out
}
