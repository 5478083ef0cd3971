package encounter

import (
	"fmt"

	"github.com/verte-zerg/factcurve/internal/model"
)

// Group selects which encounter of a (user, item) history to keep.
type Group int

// The three encounter groups. A history of size 1 belongs to all three.
const (
	First Group = iota
	Middle
	Last
)

// Groups lists all encounter groups in classification order.
var Groups = []Group{First, Middle, Last}

// String returns the lowercase group label used in export file names.
func (g Group) String() string {
	switch g {
	case First:
		return "first"
	case Middle:
		return "middle"
	case Last:
		return "last"
	default:
		panic(fmt.Sprintf("encounter: unknown group %d", int(g)))
	}
}

// ParseGroup maps a label to its Group. Unknown labels are an error so the
// CLI can reject them before they reach Classify.
func ParseGroup(s string) (Group, error) {
	switch s {
	case "first":
		return First, nil
	case "middle":
		return Middle, nil
	case "last":
		return Last, nil
	default:
		return 0, fmt.Errorf("unknown encounter group %q (expected first, middle, or last)", s)
	}
}

// Classify returns the rows whose encounter number matches the requested
// group within their (user, item) history. Relative input order is kept.
// An unknown Group value is a programming error and panics.
//
// The middle selection is m = ceil(n/2), except that a history longer than
// one trial whose m lands on 1 uses encounter 2 instead. Without that guard,
// middle would collapse onto first for two-trial histories. A single-trial
// history keeps m = 1 and so is simultaneously first, middle, and last.
func Classify(rows []model.EncounterTrial, g Group) []model.EncounterTrial {
	out := make([]model.EncounterTrial, 0, len(rows))
	for _, row := range rows {
		if row.EncounterNum == targetEncounter(g, row.GroupSize) {
			out = append(out, row)
		}
	}
	return out
}

func targetEncounter(g Group, n int) int {
	switch g {
	case First:
		return 1
	case Last:
		return n
	case Middle:
		m := (n + 1) / 2
		if m == 1 && n > 1 {
			return 2
		}
		return m
	default:
		panic(fmt.Sprintf("encounter: unknown group %d", int(g)))
	}
}
