package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/verte-zerg/factcurve/internal/model"
)

func TestRenderLevelSummaries(t *testing.T) {
	var buf bytes.Buffer
	err := RenderLevelSummaries(&buf, []LevelSummary{
		{Level: 1, Trials: 10, Items: 4, Dropped: 2, MeanAccuracy: 0.8},
		{Level: 2, Trials: 5, Items: 3, Dropped: 0, MeanAccuracy: 0.6},
	})
	if err != nil {
		t.Fatalf("RenderLevelSummaries failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Summary") {
		t.Fatalf("expected Summary title in output")
	}
	if !strings.Contains(out, "80.00%") || !strings.Contains(out, "60.00%") {
		t.Fatalf("expected formatted accuracy in output: %q", out)
	}

	buf.Reset()
	if err := RenderLevelSummaries(&buf, nil); err != nil {
		t.Fatalf("RenderLevelSummaries failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No trials found.") {
		t.Fatalf("expected empty message, got %q", buf.String())
	}
}

func TestRenderItemTable(t *testing.T) {
	var buf bytes.Buffer
	items := []model.ItemStats{
		{ItemKey: "3x4", OperandA: 3, OperandB: 4, N: 2, MeanAccuracy: 0.5, StandardError: 0.35},
		{ItemKey: "9x9", OperandA: 9, OperandB: 9, N: 1, MeanAccuracy: 1, StandardError: math.NaN()},
	}
	if err := RenderItemTable(&buf, "Level 2 items", items); err != nil {
		t.Fatalf("RenderItemTable failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Level 2 items") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "50.00%") {
		t.Fatalf("expected accuracy cell in output: %q", out)
	}

	buf.Reset()
	if err := RenderItemTable(&buf, "Empty", nil); err != nil {
		t.Fatalf("RenderItemTable failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No items found.") {
		t.Fatalf("expected empty message, got %q", buf.String())
	}
}

func TestCurveSeries(t *testing.T) {
	points := []model.EncounterPoint{
		{EncounterNum: 1, N: 3, MeanAccuracy: 0.5},
		{EncounterNum: 2, N: 3, MeanAccuracy: 0.9},
	}
	s := CurveSeries("Level 1", points)
	if s.Name != "Level 1" {
		t.Fatalf("unexpected series name %q", s.Name)
	}
	if len(s.Values) != 2 || s.Values[0] != 0.5 || s.Values[1] != 0.9 {
		t.Fatalf("unexpected series values: %v", s.Values)
	}
}
