package tui

import (
	"strings"

	"github.com/verte-zerg/kakite/internal/geom"
	"github.com/verte-zerg/kakite/internal/grade"
	"github.com/verte-zerg/kakite/internal/svgpath"
)

const (
	minGridSize = 8
	maxGridSize = 32
	// cellColumns is the number of terminal columns per grid cell, which
	// keeps cells roughly square.
	cellColumns = 2
)

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellGuide
	cellMidline
	cellInk
	cellGood
	cellBad
	cellActive
)

// grid is a square drawing surface of size×size cells mapped onto a
// canvasSize×canvasSize pixel space.
type grid struct {
	size       int
	canvasSize float64
}

func gridSizeFor(width, height, reservedRows int) int {
	size := min(height-reservedRows, (width-2)/cellColumns, maxGridSize)
	return max(size, minGridSize)
}

// point maps a cell to the pixel at its centre.
func (g grid) point(cx, cy int) geom.Point {
	scale := g.canvasSize / float64(g.size)
	return geom.Point{X: (float64(cx) + 0.5) * scale, Y: (float64(cy) + 0.5) * scale}
}

// cell maps a pixel-space point back to the cell containing it.
func (g grid) cell(p geom.Point, space float64) (int, int) {
	clamp := func(v float64) int {
		c := int(v / space * float64(g.size))
		return min(max(c, 0), g.size-1)
	}
	return clamp(p.X), clamp(p.Y)
}

type raster [][]cellKind

func (g grid) newRaster() raster {
	r := make(raster, g.size)
	for y := range r {
		r[y] = make([]cellKind, g.size)
	}
	mid := g.size / 2
	for i := 0; i < g.size; i++ {
		r[mid][i] = cellMidline
		r[i][mid] = cellMidline
	}
	return r
}

// polyline marks the cells a point sequence passes through. Points are in a
// space×space coordinate system.
func (g grid) polyline(r raster, points []geom.Point, space float64, kind cellKind) {
	if len(points) == 0 {
		return
	}
	px, py := g.cell(points[0], space)
	r.mark(px, py, kind)
	for _, p := range points[1:] {
		x, y := g.cell(p, space)
		cellLine(px, py, x, y, func(cx, cy int) {
			r.mark(cx, cy, kind)
		})
		px, py = x, y
	}
}

// guide draws the reference strokes faintly.
func (g grid) guide(r raster, ch grade.Character) {
	space := ch.ViewBox
	if space <= 0 {
		space = 109
	}
	for _, s := range ch.Strokes {
		g.polyline(r, svgpath.Parse(s.Path).Waypoints, space, cellGuide)
	}
}

func (r raster) mark(x, y int, kind cellKind) {
	if y < 0 || y >= len(r) || x < 0 || x >= len(r[y]) {
		return
	}
	if kind >= r[y][x] {
		r[y][x] = kind
	}
}

func (r raster) render() string {
	lines := make([]string, len(r))
	for y, row := range r {
		var b strings.Builder
		for _, kind := range row {
			b.WriteString(renderCell(kind))
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

func renderCell(kind cellKind) string {
	switch kind {
	case cellGuide:
		return guideStyle.Render("░░")
	case cellMidline:
		return midlineStyle.Render("··")
	case cellInk:
		return inkStyle.Render("██")
	case cellGood:
		return goodStyle.Render("██")
	case cellBad:
		return badStyle.Render("██")
	case cellActive:
		return activeStyle.Render("██")
	default:
		return "  "
	}
}

func cellLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy > 0 {
		dy = -dy
	}
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
