package encounter

import (
	"math/rand"
	"testing"
	"time"

	"github.com/verte-zerg/factcurve/internal/model"
)

func trialAt(user, itemKey string, level model.Level, seq int64, at time.Time, correct int) model.Trial {
	return model.Trial{
		UserID:      user,
		SessionID:   "s1",
		Level:       level,
		ItemKey:     itemKey,
		PresentedAt: at,
		Seq:         seq,
		Correct:     correct,
	}
}

func TestIndexAssignsDenseEncounterNumbers(t *testing.T) {
	base := time.Unix(1000, 0)
	trials := []model.Trial{
		trialAt("u1", "3x4", 2, 0, base.Add(2*time.Minute), 1),
		trialAt("u1", "3x4", 2, 1, base, 0),
		trialAt("u1", "3x4", 2, 2, base.Add(time.Minute), 1),
		trialAt("u1", "5x6", 2, 3, base, 1),
	}
	rows := Index(trials)
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}

	seen := map[string]map[int]bool{}
	for _, row := range rows {
		key := row.UserID + "|" + row.ItemKey
		if seen[key] == nil {
			seen[key] = map[int]bool{}
		}
		if seen[key][row.EncounterNum] {
			t.Fatalf("duplicate encounter %d for %s", row.EncounterNum, key)
		}
		seen[key][row.EncounterNum] = true
		if row.EncounterNum < 1 || row.EncounterNum > row.GroupSize {
			t.Fatalf("encounter %d outside [1, %d]", row.EncounterNum, row.GroupSize)
		}
	}
	for key, nums := range seen {
		for n := 1; n <= len(nums); n++ {
			if !nums[n] {
				t.Fatalf("group %s missing encounter %d", key, n)
			}
		}
	}

	// Earliest presentation gets encounter 1 regardless of input position.
	for _, row := range rows {
		if row.ItemKey == "3x4" && row.Seq == 1 && row.EncounterNum != 1 {
			t.Fatalf("earliest trial numbered %d", row.EncounterNum)
		}
	}
}

func TestIndexBreaksTimeTiesBySeq(t *testing.T) {
	at := time.Unix(1000, 0)
	trials := []model.Trial{
		trialAt("u1", "3x4", 2, 7, at, 1),
		trialAt("u1", "3x4", 2, 3, at, 0),
	}
	rows := Index(trials)
	if rows[0].Seq != 3 || rows[0].EncounterNum != 1 {
		t.Fatalf("lower seq should come first, got %+v", rows[0])
	}
	if rows[1].Seq != 7 || rows[1].EncounterNum != 2 {
		t.Fatalf("higher seq should come second, got %+v", rows[1])
	}
}

func TestIndexIsOrderInsensitive(t *testing.T) {
	base := time.Unix(1000, 0)
	var trials []model.Trial
	for i := 0; i < 20; i++ {
		trials = append(trials, trialAt("u1", "3x4", 2, int64(i), base.Add(time.Duration(i)*time.Second), i%2))
	}

	want := Index(trials)
	shuffled := make([]model.Trial, len(trials))
	copy(shuffled, trials)
	rng := rand.New(rand.NewSource(42))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	got := Index(shuffled)

	if len(got) != len(want) {
		t.Fatalf("length mismatch: %d vs %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d differs after shuffle:\n want %+v\n got  %+v", i, want[i], got[i])
		}
	}
}

func TestIndexKeepsLevelsApart(t *testing.T) {
	at := time.Unix(1000, 0)
	trials := []model.Trial{
		trialAt("u1", "3x4", 2, 0, at, 1),
		trialAt("u1", "3x4", 3, 1, at.Add(time.Second), 1),
	}
	rows := Index(trials)
	for _, row := range rows {
		if row.GroupSize != 1 || row.EncounterNum != 1 {
			t.Fatalf("levels shared a group: %+v", row)
		}
	}
}

func TestIndexDoesNotMutateInput(t *testing.T) {
	base := time.Unix(1000, 0)
	trials := []model.Trial{
		trialAt("u1", "3x4", 2, 0, base.Add(time.Minute), 1),
		trialAt("u1", "3x4", 2, 1, base, 0),
	}
	before := make([]model.Trial, len(trials))
	copy(before, trials)
	Index(trials)
	for i := range trials {
		if trials[i] != before[i] {
			t.Fatalf("input reordered at %d: %+v", i, trials[i])
		}
	}
}
