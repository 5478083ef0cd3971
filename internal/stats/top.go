// Package stats contains statistics calculations and reporting.
package stats

import (
	"sort"

	"github.com/verte-zerg/factcurve/internal/model"
)

// TopItemsByCount returns the keys of the N items with the most trials.
func TopItemsByCount(items []model.ItemStats, n int) []string {
	if n <= 0 || len(items) == 0 {
		return nil
	}
	sorted := make([]model.ItemStats, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].N == sorted[j].N {
			return sorted[i].ItemKey < sorted[j].ItemKey
		}
		return sorted[i].N > sorted[j].N
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, sorted[i].ItemKey)
	}
	return out
}
