// Package ingest reads raw trial records from CSV files.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/factcurve/internal/model"
)

// Column order expected in trial CSV files.
const fieldCount = 7

// ReadFile loads trial records from a CSV file. A header row is detected by
// a non-numeric level field and skipped.
func ReadFile(path string) ([]model.RawTrial, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()
	raws, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return raws, nil
}

// Read parses trial records from CSV data with columns
// user_id, session_id, level, item_key, presented_at, response, correct.
func Read(r io.Reader) ([]model.RawTrial, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = fieldCount
	reader.TrimLeadingSpace = true

	var raws []model.RawTrial
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		level, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil {
			if line == 1 {
				// Header row.
				continue
			}
			return nil, fmt.Errorf("record %d: invalid level %q", line, record[2])
		}
		if !model.Level(level).Valid() {
			return nil, fmt.Errorf("record %d: invalid level %d (expected 1-3)", line, level)
		}
		presentedAt, err := parsePresentedAt(record[4])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", line, err)
		}
		raws = append(raws, model.RawTrial{
			UserID:      strings.TrimSpace(record[0]),
			SessionID:   strings.TrimSpace(record[1]),
			Level:       level,
			ItemKey:     strings.TrimSpace(record[3]),
			PresentedAt: presentedAt,
			Response:    strings.TrimSpace(record[5]),
			Correct:     strings.TrimSpace(record[6]),
		})
	}
	return raws, nil
}

// parsePresentedAt accepts absolute RFC 3339 timestamps or plain integer
// milliseconds for session-relative clocks. Either form only has to order
// trials within a (user, item) pair.
func parsePresentedAt(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid presented_at %q", s)
}
