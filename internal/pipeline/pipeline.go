// Package pipeline runs the per-level analysis chain: normalize, index,
// classify, aggregate.
package pipeline

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/verte-zerg/factcurve/internal/encounter"
	"github.com/verte-zerg/factcurve/internal/model"
	"github.com/verte-zerg/factcurve/internal/stats"
	"github.com/verte-zerg/factcurve/internal/trial"
)

// Source lists raw trial records for one level.
type Source interface {
	ListTrials(ctx context.Context, level model.Level) ([]model.RawTrial, error)
}

// LevelResult holds every derived artifact for one level.
type LevelResult struct {
	Level   model.Level
	Drops   trial.DropCounts
	Trials  []model.Trial
	Indexed []model.EncounterTrial
	Groups  map[encounter.Group][]model.EncounterTrial
	Items   []model.ItemStats
	Curve   []model.EncounterPoint
}

// Run processes the requested levels concurrently, one goroutine per level.
// Levels share no state, so the only synchronization is the final join; each
// result lands in its own pre-sized slot.
func Run(ctx context.Context, src Source, levels []model.Level) ([]LevelResult, error) {
	for _, level := range levels {
		if !level.Valid() {
			return nil, fmt.Errorf("invalid level %d (expected 1-3)", int(level))
		}
	}
	results := make([]LevelResult, len(levels))
	p := pool.New().WithErrors()
	for i, level := range levels {
		p.Go(func() error {
			raws, err := src.ListTrials(ctx, level)
			if err != nil {
				return fmt.Errorf("level %d: %w", int(level), err)
			}
			results[i] = RunLevel(level, raws)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RunLevel runs the full chain over one level's raw records. Indexing
// completes before any classification because group sizes are only known
// once every trial of a (user, item) pair has been seen.
func RunLevel(level model.Level, raws []model.RawTrial) LevelResult {
	trials, drops := trial.Normalize(raws)
	indexed := encounter.Index(trials)

	groups := make(map[encounter.Group][]model.EncounterTrial, len(encounter.Groups))
	for _, g := range encounter.Groups {
		groups[g] = encounter.Classify(indexed, g)
	}

	return LevelResult{
		Level:   level,
		Drops:   drops,
		Trials:  trials,
		Indexed: indexed,
		Groups:  groups,
		Items:   stats.AggregateItems(trials),
		Curve:   stats.AccuracyByEncounter(indexed),
	}
}

// MeanAccuracy computes the overall accuracy of a level's trials.
func (r LevelResult) MeanAccuracy() float64 {
	if len(r.Trials) == 0 {
		return 0
	}
	sum := 0
	for _, tr := range r.Trials {
		sum += tr.Correct
	}
	return float64(sum) / float64(len(r.Trials))
}

// Summary condenses the result for the report's summary table.
func (r LevelResult) Summary() stats.LevelSummary {
	return stats.LevelSummary{
		Level:        r.Level,
		Trials:       len(r.Trials),
		Items:        len(r.Items),
		Dropped:      r.Drops.Total(),
		MeanAccuracy: r.MeanAccuracy(),
	}
}
