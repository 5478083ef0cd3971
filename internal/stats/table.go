// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/factcurve/internal/model"
)

var itemTableHeaders = []string{"Item", "A", "B", "N", "Accuracy", "Std Err"}

var itemTableRightAlign = map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}

// ItemTableLines renders per-item statistics as aligned text lines.
func ItemTableLines(items []model.ItemStats) []string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.ItemKey,
			fmt.Sprintf("%d", item.OperandA),
			fmt.Sprintf("%d", item.OperandB),
			fmt.Sprintf("%d", item.N),
			fmt.Sprintf("%.2f%%", item.MeanAccuracy*100),
			FormatStandardError(item.StandardError),
		})
	}
	return formatTable(itemTableHeaders, rows, itemTableRightAlign)
}

// FormatStandardError renders a standard error, mapping the undefined
// single-observation case to "-".
func FormatStandardError(se float64) string {
	if math.IsNaN(se) {
		return "-"
	}
	return fmt.Sprintf("%.4f", se)
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return b.String()
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
