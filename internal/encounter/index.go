// Package encounter numbers trials within each (user, item) history and
// selects first/middle/last encounter subsets.
package encounter

import (
	"sort"

	"github.com/verte-zerg/factcurve/internal/model"
)

type groupKey struct {
	userID  string
	level   model.Level
	itemKey string
}

// Index groups trials by (user, level, item), orders each group by
// presentation time with Seq as tie-break, and assigns 1-based encounter
// numbers plus the group's total size. The comparator is total, so the
// assignment is identical for any permutation of the input. Including the
// level in the group key keeps identical cues from different levels apart
// even if a caller passes a mixed slice.
//
// The returned slice is sorted by (user, level, item, encounter number);
// the input is never modified.
func Index(trials []model.Trial) []model.EncounterTrial {
	groups := make(map[groupKey][]model.Trial)
	for _, tr := range trials {
		key := groupKey{userID: tr.UserID, level: tr.Level, itemKey: tr.ItemKey}
		groups[key] = append(groups[key], tr)
	}

	keys := make([]groupKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].userID != keys[j].userID {
			return keys[i].userID < keys[j].userID
		}
		if keys[i].level != keys[j].level {
			return keys[i].level < keys[j].level
		}
		return keys[i].itemKey < keys[j].itemKey
	})

	out := make([]model.EncounterTrial, 0, len(trials))
	for _, key := range keys {
		group := groups[key]
		sort.Slice(group, func(i, j int) bool {
			if !group[i].PresentedAt.Equal(group[j].PresentedAt) {
				return group[i].PresentedAt.Before(group[j].PresentedAt)
			}
			return group[i].Seq < group[j].Seq
		})
		for i, tr := range group {
			out = append(out, model.EncounterTrial{
				Trial:        tr,
				EncounterNum: i + 1,
				GroupSize:    len(group),
			})
		}
	}
	return out
}
