package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/factcurve/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	st, err := Open(filepath.Join(dir, "factcurve.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestInsertAndListTrials(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	raws := []model.RawTrial{
		{UserID: "u1", SessionID: "s1", Level: 2, ItemKey: "3x4", PresentedAt: base.Add(time.Minute), Response: "12", Correct: "1"},
		{UserID: "u1", SessionID: "s1", Level: 2, ItemKey: "3x4", PresentedAt: base, Response: "11", Correct: "0"},
		{UserID: "u2", SessionID: "s2", Level: 1, ItemKey: "7", PresentedAt: base, Response: "7", Correct: "true"},
	}
	n, err := st.InsertTrials(ctx, raws)
	if err != nil {
		t.Fatalf("insert trials: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 inserted, got %d", n)
	}

	level2, err := st.ListTrials(ctx, 2)
	if err != nil {
		t.Fatalf("list trials: %v", err)
	}
	if len(level2) != 2 {
		t.Fatalf("expected 2 level-2 trials, got %d", len(level2))
	}
	// Ordered by presentation time, not insertion order.
	if !level2[0].PresentedAt.Equal(base) || level2[0].Response != "11" {
		t.Fatalf("unexpected first trial: %+v", level2[0])
	}
	if level2[1].Response != "12" {
		t.Fatalf("unexpected second trial: %+v", level2[1])
	}
	// Raw textual fields survive the round trip untouched.
	if level2[0].Correct != "0" {
		t.Fatalf("expected raw correct %q, got %q", "0", level2[0].Correct)
	}

	level1, err := st.ListTrials(ctx, 1)
	if err != nil {
		t.Fatalf("list trials: %v", err)
	}
	if len(level1) != 1 || level1[0].Correct != "true" {
		t.Fatalf("unexpected level-1 trials: %+v", level1)
	}

	count, err := st.CountTrials(ctx)
	if err != nil {
		t.Fatalf("count trials: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
}

func TestListTrialsBreaksTimeTiesByInsertionOrder(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	raws := []model.RawTrial{
		{UserID: "u1", SessionID: "s1", Level: 3, ItemKey: "12x7", PresentedAt: at, Response: "84", Correct: "1"},
		{UserID: "u1", SessionID: "s1", Level: 3, ItemKey: "12x7", PresentedAt: at, Response: "83", Correct: "0"},
	}
	if _, err := st.InsertTrials(ctx, raws); err != nil {
		t.Fatalf("insert trials: %v", err)
	}
	listed, err := st.ListTrials(ctx, 3)
	if err != nil {
		t.Fatalf("list trials: %v", err)
	}
	if len(listed) != 2 || listed[0].Response != "84" || listed[1].Response != "83" {
		t.Fatalf("tie not broken by insertion order: %+v", listed)
	}
}

func TestInsertTrialsRejectsInvalidLevel(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	raws := []model.RawTrial{
		{UserID: "u1", SessionID: "s1", Level: 4, ItemKey: "3x4", PresentedAt: time.Now(), Response: "12", Correct: "1"},
	}
	if _, err := st.InsertTrials(ctx, raws); err == nil {
		t.Fatalf("expected error for level 4")
	}
	count, err := st.CountTrials(ctx)
	if err != nil {
		t.Fatalf("count trials: %v", err)
	}
	if count != 0 {
		t.Fatalf("rejected batch should leave store empty, got %d", count)
	}
}

func TestListTrialsRejectsInvalidLevel(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.ListTrials(context.Background(), 0); err == nil {
		t.Fatalf("expected error for level 0")
	}
}
