// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/factcurve/internal/model"
)

// LevelSummary condenses one level's pipeline run for the summary block.
type LevelSummary struct {
	Level        model.Level
	Trials       int
	Items        int
	Dropped      int
	MeanAccuracy float64
}

// RenderLevelSummaries prints one summary line per level.
func RenderLevelSummaries(w io.Writer, sums []LevelSummary) error {
	if len(sums) == 0 {
		_, err := fmt.Fprintln(w, "No trials found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	headers := []string{"Level", "Trials", "Items", "Dropped", "Accuracy"}
	rows := make([][]string, 0, len(sums))
	for _, s := range sums {
		rows = append(rows, []string{
			fmt.Sprintf("%d", s.Level),
			fmt.Sprintf("%d", s.Trials),
			fmt.Sprintf("%d", s.Items),
			fmt.Sprintf("%d", s.Dropped),
			fmt.Sprintf("%.2f%%", s.MeanAccuracy*100),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderItemTable prints a titled per-item statistics table.
func RenderItemTable(w io.Writer, title string, items []model.ItemStats) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No items found.")
		return err
	}
	for _, line := range ItemTableLines(items) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// CurveSeries converts accuracy-by-encounter points into a plottable series.
func CurveSeries(name string, points []model.EncounterPoint) Series {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.MeanAccuracy
	}
	return Series{Name: name, Values: values}
}

// RenderEncounterCurves plots accuracy-by-encounter series sized to a given
// total width.
func RenderEncounterCurves(w io.Writer, title string, series []Series, totalWidth, height int, useColor bool) error {
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotAccuracySeriesWithColor(w, title, series, width, height, useColor)
}
