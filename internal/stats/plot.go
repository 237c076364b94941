package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

type lineStyle struct {
	name   string
	period int
	on     int
}

func (ls lineStyle) plots(x int) bool {
	if ls.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%ls.period < ls.on
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

// axisLabels sit at the top, middle and bottom rows of the plot.
var axisLabels = [3]string{"100%", "50%", "0%"}

var lineStyles = []lineStyle{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
	{name: "dashdot", period: 8, on: 3},
}

var colorPalette = []string{
	"\x1b[36m", // cyan
	"\x1b[35m", // magenta
	"\x1b[33m", // yellow
	"\x1b[32m", // green
	"\x1b[34m", // blue
}

// brailleBits maps a dot at (x%2, y%4) inside a cell to its braille bit.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// PlotScores renders percentage series on a fixed 0–100 axis using braille
// cells. width and height are in terminal cells; zero picks defaults.
func PlotScores(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	series = nonEmpty(series)
	if len(series) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)

	layers := make([]*dotGrid, len(series))
	for i, s := range series {
		layers[i] = newDotGrid(width, height)
		layers[i].trace(resampleSeries(s.Values, width), lineStyles[i%len(lineStyles)])
	}

	useColor := shouldUseColor(w, forceColor)
	var out []string
	if title != "" {
		out = append(out, title)
	}
	for _, s := range series {
		out = append(out, fmt.Sprintf("%s: last=%.1f%%", s.Name, clampPct(s.Values[len(s.Values)-1])))
	}
	labelWidth := utf8.RuneCountInString(axisLabels[0])
	for y := 0; y < height; y++ {
		var row strings.Builder
		fmt.Fprintf(&row, "%*s%s", labelWidth, axisLabel(y, height), axisSeparator)
		for x := 0; x < width; x++ {
			var mask uint8
			owner := -1
			for i, layer := range layers {
				if m := layer.cells[y][x]; m != 0 {
					mask |= m
					if owner < 0 {
						owner = i
					}
				}
			}
			ch := rune(0x2800 + int(mask))
			if useColor && owner >= 0 {
				row.WriteString(colorPalette[owner%len(colorPalette)])
				row.WriteRune(ch)
				row.WriteString(colorReset)
				continue
			}
			row.WriteRune(ch)
		}
		out = append(out, row.String())
	}
	out = append(out, legend(series, useColor), "")
	for _, line := range out {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func axisLabel(y, height int) string {
	switch {
	case y == 0:
		return axisLabels[0]
	case height > 1 && y == height-1:
		return axisLabels[2]
	case height > 2 && y == height/2:
		return axisLabels[1]
	}
	return ""
}

func nonEmpty(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	axisWidth := utf8.RuneCountInString(axisLabels[0]) + utf8.RuneCountInString(axisSeparator)
	return max(totalWidth-axisWidth, minPlotWidth)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", rune(0x2801), s.Name, lineStyles[i%len(lineStyles)].name)
		if useColor {
			label = colorPalette[i%len(colorPalette)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// dotGrid is a width×height block of braille cells, each 2×4 dots.
type dotGrid struct {
	cells [][]uint8
}

func newDotGrid(width, height int) *dotGrid {
	g := &dotGrid{cells: make([][]uint8, height)}
	for y := range g.cells {
		g.cells[y] = make([]uint8, width)
	}
	return g
}

func (g *dotGrid) set(x, y int) {
	cy, cx := y/4, x/2
	if x < 0 || y < 0 || cy >= len(g.cells) || cx >= len(g.cells[cy]) {
		return
	}
	g.cells[cy][cx] |= brailleBits[x%2][y%4]
}

// trace plots one value per cell column and joins neighbours with lines.
func (g *dotGrid) trace(values []float64, style lineStyle) {
	rows := len(g.cells) * 4
	prevX, prevY := -1, -1
	for i, v := range values {
		x := i * 2
		y := int(math.Round((1 - clampPct(v)/100) * float64(rows-1)))
		if prevX < 0 {
			if style.plots(x) {
				g.set(x, y)
			}
		} else {
			bresenham(prevX, prevY, x, y, func(px, py int) {
				if style.plots(px) {
					g.set(px, py)
				}
			})
		}
		prevX, prevY = x, y
	}
}

func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// resampleSeries fits values to width points: buckets are averaged when
// shrinking and linearly interpolated when stretching.
func resampleSeries(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	switch {
	case len(values) == width:
		copy(out, values)
	case len(values) > width:
		for i := range out {
			start := i * len(values) / width
			end := max((i+1)*len(values)/width, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case len(values) == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		step := float64(len(values)-1) / float64(width-1)
		for i := range out {
			pos := float64(i) * step
			idx := int(pos)
			if idx >= len(values)-1 {
				out[i] = values[len(values)-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}
