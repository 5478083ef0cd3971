// Package model defines shared data structures.
package model

import "time"

// Level identifies one of the three practice difficulty levels. Items and
// users are independent populations per level and are never merged across
// levels.
type Level int

// Levels lists all valid practice levels in order.
var Levels = []Level{1, 2, 3}

// Valid reports whether the level is one of the known populations.
func (l Level) Valid() bool {
	return l >= 1 && l <= 3
}

// RawTrial is one trial record as loaded from the practice application,
// before normalization. Response and Correct keep their raw textual form so
// the normalizer owns all coercion and filtering.
type RawTrial struct {
	UserID      string
	SessionID   string
	Level       int
	ItemKey     string
	PresentedAt time.Time
	Response    string
	Correct     string
}

// Trial is a normalized trial record. Seq preserves the original input
// position and breaks presentation-time ties during encounter indexing.
type Trial struct {
	UserID      string
	SessionID   string
	Level       Level
	ItemKey     string
	OperandA    int
	OperandB    int
	PresentedAt time.Time
	Seq         int64
	Response    int
	Correct     int
}

// EncounterTrial is a trial with its chronological encounter number within
// the (user, item) history and the total size of that history. GroupSize is
// attached by the indexer so classification never recounts groups inside a
// predicate.
type EncounterTrial struct {
	Trial
	EncounterNum int
	GroupSize    int
}

// ItemStats summarizes accuracy for one practice item over some trial
// subset. StandardError is NaN when N == 1, where the sample standard
// deviation has zero degrees of freedom.
type ItemStats struct {
	ItemKey       string
	OperandA      int
	OperandB      int
	N             int
	MeanAccuracy  float64
	StandardError float64
}

// EncounterPoint is the mean accuracy at one encounter number across all
// (user, item) histories of a subset.
type EncounterPoint struct {
	EncounterNum int
	N            int
	MeanAccuracy float64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Level      int
	Items      string
	PlotHeight int
}
