// Package stats contains statistics calculations and reporting.
package stats

import (
	"sort"

	"github.com/verte-zerg/factcurve/internal/model"
)

// WeakestItems returns up to top items sorted by lowest mean accuracy, item
// key breaking ties. It drives the "needs practice" section of the report.
func WeakestItems(items []model.ItemStats, top int) []model.ItemStats {
	if len(items) == 0 {
		return nil
	}
	candidates := make([]model.ItemStats, len(items))
	copy(candidates, items)
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].MeanAccuracy == candidates[j].MeanAccuracy {
			return candidates[i].ItemKey < candidates[j].ItemKey
		}
		return candidates[i].MeanAccuracy < candidates[j].MeanAccuracy
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	return candidates[:top]
}
