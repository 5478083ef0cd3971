// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"sort"

	"github.com/verte-zerg/factcurve/internal/model"
	"github.com/verte-zerg/factcurve/internal/trial"
)

// AggregateItems groups trials by item and computes the per-item row count,
// mean accuracy, and standard error (sample standard deviation over the
// square root of n). A single-trial item has no defined sample deviation,
// so its standard error is NaN; renderers print it as "-". The caller
// chooses the subset; nothing is filtered here.
//
// Results are sorted by (operand A, operand B, item key) for presentation.
func AggregateItems(trials []model.Trial) []model.ItemStats {
	byItem := make(map[string][]int)
	for _, tr := range trials {
		byItem[tr.ItemKey] = append(byItem[tr.ItemKey], tr.Correct)
	}

	out := make([]model.ItemStats, 0, len(byItem))
	for itemKey, corrects := range byItem {
		a, b, err := trial.ParseOperands(itemKey)
		if err != nil {
			// Normalized trials always carry a parseable cue.
			continue
		}
		mean := meanInts(corrects)
		out = append(out, model.ItemStats{
			ItemKey:       itemKey,
			OperandA:      a,
			OperandB:      b,
			N:             len(corrects),
			MeanAccuracy:  mean,
			StandardError: standardError(corrects, mean),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OperandA != out[j].OperandA {
			return out[i].OperandA < out[j].OperandA
		}
		if out[i].OperandB != out[j].OperandB {
			return out[i].OperandB < out[j].OperandB
		}
		return out[i].ItemKey < out[j].ItemKey
	})
	return out
}

// AggregateEncounters aggregates an encounter-group subset by item.
func AggregateEncounters(rows []model.EncounterTrial) []model.ItemStats {
	trials := make([]model.Trial, len(rows))
	for i, row := range rows {
		trials[i] = row.Trial
	}
	return AggregateItems(trials)
}

// AccuracyByEncounter computes the mean accuracy at each encounter number
// across every (user, item) history in the subset, sorted by encounter
// number. It feeds the encounter curve plots.
func AccuracyByEncounter(rows []model.EncounterTrial) []model.EncounterPoint {
	byNum := make(map[int][]int)
	for _, row := range rows {
		byNum[row.EncounterNum] = append(byNum[row.EncounterNum], row.Correct)
	}
	out := make([]model.EncounterPoint, 0, len(byNum))
	for num, corrects := range byNum {
		out = append(out, model.EncounterPoint{
			EncounterNum: num,
			N:            len(corrects),
			MeanAccuracy: meanInts(corrects),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].EncounterNum < out[j].EncounterNum
	})
	return out
}

func meanInts(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func standardError(values []int, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return math.NaN()
	}
	var ss float64
	for _, v := range values {
		d := float64(v) - mean
		ss += d * d
	}
	sd := math.Sqrt(ss / float64(n-1))
	return sd / math.Sqrt(float64(n))
}
