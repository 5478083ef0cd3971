// Package export writes encounter-group row sets for the external
// learning-curve modeling tool.
package export

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/verte-zerg/factcurve/internal/encounter"
	"github.com/verte-zerg/factcurve/internal/model"
)

// DefaultDelimiter separates fields in export files.
const DefaultDelimiter = " "

// FileName returns the export file name for one (level, group) subset.
func FileName(level model.Level, g encounter.Group) string {
	return fmt.Sprintf("level%d_%s.txt", int(level), g)
}

// WriteSubset writes one encounter-group subset as a header-less delimited
// file with fields user_id, item_key, correct in that order, correctness as
// 0 or 1. The file is written to a temp file first and
// renamed into place.
func WriteSubset(path string, rows []model.EncounterTrial, delimiter string) error {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "export-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp export file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	for _, row := range rows {
		fields := []string{row.UserID, row.ItemKey, strconv.Itoa(row.Correct)}
		if _, err := fmt.Fprintln(writer, strings.Join(fields, delimiter)); err != nil {
			return fmt.Errorf("failed to write export row: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush export file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

// Subsets maps each encounter group to its classified rows for one level.
type Subsets map[encounter.Group][]model.EncounterTrial

// WriteLevel writes the three encounter-group files for one level and
// returns the written paths.
func WriteLevel(dir string, level model.Level, subsets Subsets, delimiter string) ([]string, error) {
	paths := make([]string, 0, len(encounter.Groups))
	for _, g := range encounter.Groups {
		path := filepath.Join(dir, FileName(level, g))
		if err := WriteSubset(path, subsets[g], delimiter); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
