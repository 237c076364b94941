package stats

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/kakite/internal/model"
)

// CharTableHeaders are the column titles of the per-character table.
var CharTableHeaders = []string{"Char", "Attempts", "Avg Score", "Pass", "Direction", "Spatial"}

// CharTableRows formats aggregates as table rows, weakest character first.
func CharTableRows(aggs []model.CharAggregate) [][]string {
	sorted := make([]model.CharAggregate, len(aggs))
	copy(sorted, aggs)
	sortWeakestFirst(sorted)
	rows := make([][]string, 0, len(sorted))
	for _, agg := range sorted {
		rows = append(rows, []string{
			agg.Char,
			fmt.Sprintf("%d", agg.Attempts),
			fmt.Sprintf("%.1f", agg.MeanScore()),
			fmt.Sprintf("%.0f%%", agg.PassRate()*100),
			fmt.Sprintf("%.0f%%", agg.DirectionRate()*100),
			fmt.Sprintf("%.0f%%", agg.MeanSpatial()*100),
		})
	}
	return rows
}

// RenderCharTable prints per-character aggregates.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Character (Windowed)"); err != nil {
		return err
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(CharTableHeaders, CharTableRows(aggs), rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func sortWeakestFirst(aggs []model.CharAggregate) {
	sort.SliceStable(aggs, func(i, j int) bool {
		si, sj := aggs[i].MeanScore(), aggs[j].MeanScore()
		if si == sj {
			return aggs[i].Char < aggs[j].Char
		}
		return si < sj
	})
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}
	if colCount == 0 {
		return nil
	}
	widths := make([]int, colCount)
	measure := func(row []string) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
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
	cells := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if rightAlignCols[i] {
			cells[i] = runewidth.FillLeft(cell, width)
		} else {
			cells[i] = runewidth.FillRight(cell, width)
		}
	}
	return strings.Join(cells, " ")
}
