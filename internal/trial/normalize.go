// Package trial normalizes raw practice records into clean trials.
package trial

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/verte-zerg/factcurve/internal/model"
)

const (
	minResponse = 0
	maxResponse = 100
)

// DropCounts reports how many raw rows each validation rule rejected.
type DropCounts struct {
	BadCorrect  int
	BadResponse int
	BadCue      int
}

// Total returns the number of dropped rows.
func (d DropCounts) Total() int {
	return d.BadCorrect + d.BadResponse + d.BadCue
}

// Normalize cleans raw trial records: correctness is coerced to {0, 1},
// responses outside the integer range [0, 100] are rejected, and cues
// without the digit runs their level requires are rejected. Rejected rows
// are absent from every downstream stage, denominators included. Seq is
// assigned from input position so later stages have a total order even when
// presentation times tie. The input slice is never modified.
func Normalize(raws []model.RawTrial) ([]model.Trial, DropCounts) {
	var drops DropCounts
	out := make([]model.Trial, 0, len(raws))
	for i, raw := range raws {
		correct, ok := parseCorrect(raw.Correct)
		if !ok {
			drops.BadCorrect++
			continue
		}
		response, ok := parseResponse(raw.Response)
		if !ok {
			drops.BadResponse++
			continue
		}
		runs := DigitRuns(raw.ItemKey)
		if len(runs) == 0 || (raw.Level >= 2 && len(runs) < 2) {
			drops.BadCue++
			continue
		}
		a, b, err := ParseOperands(raw.ItemKey)
		if err != nil {
			drops.BadCue++
			continue
		}
		out = append(out, model.Trial{
			UserID:      raw.UserID,
			SessionID:   raw.SessionID,
			Level:       model.Level(raw.Level),
			ItemKey:     raw.ItemKey,
			OperandA:    a,
			OperandB:    b,
			PresentedAt: raw.PresentedAt,
			Seq:         int64(i),
			Response:    response,
			Correct:     correct,
		})
	}
	return out, drops
}

// ParseOperands extracts the item's numeric operands from its cue text: the
// first and the last maximal digit run. A cue with a single digit run yields
// that run as both operands.
func ParseOperands(itemKey string) (int, int, error) {
	runs := DigitRuns(itemKey)
	if len(runs) == 0 {
		return 0, 0, fmt.Errorf("cue %q contains no number", itemKey)
	}
	return runs[0], runs[len(runs)-1], nil
}

// DigitRuns returns every maximal run of ASCII digits in the cue, in order.
func DigitRuns(s string) []int {
	var runs []int
	start := -1
	for i := 0; i <= len(s); i++ {
		digit := i < len(s) && s[i] >= '0' && s[i] <= '9'
		switch {
		case digit && start < 0:
			start = i
		case !digit && start >= 0:
			v, err := strconv.Atoi(s[start:i])
			if err == nil {
				runs = append(runs, v)
			}
			start = -1
		}
	}
	return runs
}

func parseCorrect(s string) (int, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "true", "t":
		return 1, true
	case "false", "f":
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if v == 0 {
		return 0, true
	}
	return 1, true
}

func parseResponse(s string) (int, bool) {
	s = strings.TrimSpace(s)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	if v < minResponse || v > maxResponse {
		return 0, false
	}
	return v, true
}
