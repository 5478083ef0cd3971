package ingest

import (
	"strings"
	"testing"
	"time"
)

func TestReadParsesRecords(t *testing.T) {
	input := strings.Join([]string{
		"u1,s1,2,3x4,2026-03-01T12:00:00Z,12,1",
		"u1,s1,2,3x4,2026-03-01T12:01:00Z,11,0",
		"u2,s2,1,7,2026-03-01 12:02:00,7,true",
	}, "\n")
	raws, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(raws) != 3 {
		t.Fatalf("expected 3 records, got %d", len(raws))
	}
	first := raws[0]
	if first.UserID != "u1" || first.SessionID != "s1" || first.Level != 2 || first.ItemKey != "3x4" {
		t.Fatalf("unexpected first record: %+v", first)
	}
	want := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if !first.PresentedAt.Equal(want) {
		t.Fatalf("expected time %v, got %v", want, first.PresentedAt)
	}
	if first.Response != "12" || first.Correct != "1" {
		t.Fatalf("raw fields should stay textual: %+v", first)
	}
	if raws[2].Correct != "true" {
		t.Fatalf("expected unparsed correct %q, got %q", "true", raws[2].Correct)
	}
}

func TestReadSkipsHeaderRow(t *testing.T) {
	input := strings.Join([]string{
		"user_id,session_id,level,item_key,presented_at,response,correct",
		"u1,s1,2,3x4,1000,12,1",
	}, "\n")
	raws, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(raws) != 1 || raws[0].UserID != "u1" {
		t.Fatalf("unexpected records: %+v", raws)
	}
}

func TestReadAcceptsMillisecondTimestamps(t *testing.T) {
	raws, err := Read(strings.NewReader("u1,s1,2,3x4,1500,12,1"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !raws[0].PresentedAt.Equal(time.UnixMilli(1500).UTC()) {
		t.Fatalf("unexpected time: %v", raws[0].PresentedAt)
	}
}

func TestReadRejectsBadRows(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"bad level", "u1,s1,9,3x4,1000,12,1"},
		{"non-numeric level past header", "u1,s1,2,3x4,1000,12,1\nu2,s2,two,3x4,1000,12,1"},
		{"bad timestamp", "u1,s1,2,3x4,yesterday,12,1"},
		{"wrong field count", "u1,s1,2,3x4,1000,12"},
	}
	for _, tc := range cases {
		if _, err := Read(strings.NewReader(tc.input)); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}
