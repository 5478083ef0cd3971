package trial

import (
	"testing"
	"time"

	"github.com/verte-zerg/factcurve/internal/model"
)

func rawTrial(level int, itemKey, response, correct string) model.RawTrial {
	return model.RawTrial{
		UserID:      "u1",
		SessionID:   "s1",
		Level:       level,
		ItemKey:     itemKey,
		PresentedAt: time.Unix(0, 0),
		Response:    response,
		Correct:     correct,
	}
}

func TestNormalizeCoercesCorrect(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"1", 1},
		{"0", 0},
		{"1.0", 1},
		{"true", 1},
		{"FALSE", 0},
	}
	for _, tc := range cases {
		trials, drops := Normalize([]model.RawTrial{rawTrial(2, "3x4", "12", tc.raw)})
		if drops.Total() != 0 {
			t.Fatalf("correct=%q: unexpected drops %+v", tc.raw, drops)
		}
		if len(trials) != 1 || trials[0].Correct != tc.want {
			t.Fatalf("correct=%q: expected %d, got %+v", tc.raw, tc.want, trials)
		}
	}

	trials, drops := Normalize([]model.RawTrial{rawTrial(2, "3x4", "12", "maybe")})
	if len(trials) != 0 || drops.BadCorrect != 1 {
		t.Fatalf("expected bad-correct drop, got trials=%d drops=%+v", len(trials), drops)
	}
}

func TestNormalizeFiltersResponses(t *testing.T) {
	raws := []model.RawTrial{
		rawTrial(2, "3x4", "12", "1"),
		rawTrial(2, "3x4", "abc", "1"),
		rawTrial(2, "3x4", "150", "1"),
		rawTrial(2, "3x4", "-1", "1"),
		rawTrial(2, "3x4", "0", "0"),
		rawTrial(2, "3x4", "100", "0"),
	}
	trials, drops := Normalize(raws)
	if len(trials) != 3 {
		t.Fatalf("expected 3 surviving trials, got %d", len(trials))
	}
	if drops.BadResponse != 3 {
		t.Fatalf("expected 3 bad-response drops, got %+v", drops)
	}
}

func TestNormalizeRequiresTwoOperandsAboveLevelOne(t *testing.T) {
	raws := []model.RawTrial{
		rawTrial(1, "7", "7", "1"),
		rawTrial(2, "7", "7", "1"),
		rawTrial(2, "3x4", "12", "1"),
		rawTrial(3, "nope", "1", "1"),
	}
	trials, drops := Normalize(raws)
	if len(trials) != 2 {
		t.Fatalf("expected 2 surviving trials, got %d", len(trials))
	}
	if drops.BadCue != 2 {
		t.Fatalf("expected 2 bad-cue drops, got %+v", drops)
	}
	if trials[0].OperandA != 7 || trials[0].OperandB != 7 {
		t.Fatalf("level-1 single run should serve as both operands: %+v", trials[0])
	}
}

func TestNormalizeAssignsSeqFromInputOrder(t *testing.T) {
	raws := []model.RawTrial{
		rawTrial(2, "3x4", "12", "1"),
		rawTrial(2, "3x4", "abc", "1"),
		rawTrial(2, "3x4", "11", "0"),
	}
	trials, _ := Normalize(raws)
	if len(trials) != 2 {
		t.Fatalf("expected 2 trials, got %d", len(trials))
	}
	if trials[0].Seq != 0 || trials[1].Seq != 2 {
		t.Fatalf("seq should track raw input positions, got %d and %d", trials[0].Seq, trials[1].Seq)
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	raws := []model.RawTrial{rawTrial(2, "3x4", "12", "1")}
	before := raws[0]
	if _, drops := Normalize(raws); drops.Total() != 0 {
		t.Fatalf("unexpected drops: %+v", drops)
	}
	if raws[0] != before {
		t.Fatalf("input slice modified: %+v", raws[0])
	}
}

func TestParseOperands(t *testing.T) {
	cases := []struct {
		cue    string
		a, b   int
		hasErr bool
	}{
		{"3x4", 3, 4, false},
		{"12 * 7", 12, 7, false},
		{"9", 9, 9, false},
		{"what is 6 times 8?", 6, 8, false},
		{"3x4x5", 3, 5, false},
		{"no numbers", 0, 0, true},
	}
	for _, tc := range cases {
		a, b, err := ParseOperands(tc.cue)
		if tc.hasErr {
			if err == nil {
				t.Fatalf("cue %q: expected error", tc.cue)
			}
			continue
		}
		if err != nil {
			t.Fatalf("cue %q: unexpected error: %v", tc.cue, err)
		}
		if a != tc.a || b != tc.b {
			t.Fatalf("cue %q: expected (%d, %d), got (%d, %d)", tc.cue, tc.a, tc.b, a, b)
		}
	}
}

func TestDigitRuns(t *testing.T) {
	runs := DigitRuns("a12b345c6")
	if len(runs) != 3 || runs[0] != 12 || runs[1] != 345 || runs[2] != 6 {
		t.Fatalf("unexpected runs: %v", runs)
	}
	if runs := DigitRuns("abc"); len(runs) != 0 {
		t.Fatalf("expected no runs, got %v", runs)
	}
}
