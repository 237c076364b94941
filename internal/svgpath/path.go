// Package svgpath decodes SVG path data into the points a stroke passes through.
//
// Only the on-curve points are tracked: control points of Bézier segments and
// arc radii are consumed but never reported. The decoder never fails. A command
// with too few parameters is skipped and leaves the current point where it was.
package svgpath

import (
	"strconv"
	"strings"

	"github.com/verte-zerg/kakite/internal/geom"
)

const commands = "MmLlHhVvCcSsQqTtAaZz"

// Analysis is the result of decoding one path.
type Analysis struct {
	StartX, StartY float64
	EndX, EndY     float64

	// Waypoints holds one point per resulting point of every command,
	// including the initial moveto.
	Waypoints []geom.Point
}

// Start returns the first moveto point, or the origin if there was none.
func (a Analysis) Start() geom.Point {
	return geom.Point{X: a.StartX, Y: a.StartY}
}

// End returns the current point after the last command.
func (a Analysis) End() geom.Point {
	return geom.Point{X: a.EndX, Y: a.EndY}
}

// Parse decodes path data d.
func Parse(d string) Analysis {
	dec := pathdecoder{data: d}
	dec.run()
	return Analysis{
		StartX:    dec.first.X,
		StartY:    dec.first.Y,
		EndX:      dec.last.X,
		EndY:      dec.last.Y,
		Waypoints: dec.waypoints,
	}
}

type pathdecoder struct {
	data string
	pos  int

	first    geom.Point // first moveto of the whole path
	hasFirst bool
	subpath  geom.Point // start of the current subpath, target of Z
	last     geom.Point

	waypoints []geom.Point
}

func (d *pathdecoder) run() {
	for d.pos < len(d.data) {
		c := d.data[d.pos]
		d.pos++
		if !iscmd(c) {
			continue
		}
		d.step(c, d.args(c))
	}
}

func (d *pathdecoder) step(c byte, v []float64) {
	rel := c >= 'a'
	switch c &^ 0x20 {
	case 'M':
		if len(v) < 2 {
			return
		}
		d.moveTo(d.target(v[0], v[1], rel))
		for i := 2; i+1 < len(v); i += 2 {
			d.lineTo(d.target(v[i], v[i+1], rel))
		}

	case 'L', 'T':
		for i := 0; i+1 < len(v); i += 2 {
			d.lineTo(d.target(v[i], v[i+1], rel))
		}

	case 'H':
		for _, n := range v {
			p := d.last
			if rel {
				p.X += n
			} else {
				p.X = n
			}
			d.lineTo(p)
		}

	case 'V':
		for _, n := range v {
			p := d.last
			if rel {
				p.Y += n
			} else {
				p.Y = n
			}
			d.lineTo(p)
		}

	case 'C':
		d.sets(v, 6, rel)

	case 'S', 'Q':
		d.sets(v, 4, rel)

	case 'A':
		d.sets(v, 7, rel)

	case 'Z':
		d.lineTo(d.subpath)
	}
}

// sets consumes complete parameter groups of the given size. The last two
// values of each group are the end point.
func (d *pathdecoder) sets(v []float64, size int, rel bool) {
	for i := 0; i+size <= len(v); i += size {
		d.lineTo(d.target(v[i+size-2], v[i+size-1], rel))
	}
}

func (d *pathdecoder) target(x, y float64, rel bool) geom.Point {
	if rel {
		return geom.Point{X: d.last.X + x, Y: d.last.Y + y}
	}
	return geom.Point{X: x, Y: y}
}

func (d *pathdecoder) moveTo(p geom.Point) {
	if !d.hasFirst {
		d.first = p
		d.hasFirst = true
	}
	d.subpath = p
	d.lineTo(p)
}

func (d *pathdecoder) lineTo(p geom.Point) {
	d.last = p
	d.waypoints = append(d.waypoints, p)
}

// args collects the numeric parameters following command c, stopping at the
// next command letter. Bytes that cannot start a number are skipped.
func (d *pathdecoder) args(c byte) []float64 {
	var v []float64
	arc := c == 'A' || c == 'a'
	for d.pos < len(d.data) {
		b := d.data[d.pos]
		if iscmd(b) {
			break
		}
		// Arc flags are single digits and may abut the next number ("0 01.5").
		if arc && isflagslot(len(v)) && (b == '0' || b == '1') {
			v = append(v, float64(b-'0'))
			d.pos++
			continue
		}
		if n, ok := d.number(); ok {
			v = append(v, n)
			continue
		}
		d.pos++
	}
	return v
}

// number scans a signed float at the current position. A second '.' or a
// sign ends the number, so "1.5-2.5.5" yields 1.5, -2.5 and .5.
func (d *pathdecoder) number() (float64, bool) {
	s := d.pos
	e := s
	if e < len(d.data) && (d.data[e] == '-' || d.data[e] == '+') {
		e++
	}
	digits := 0
	for e < len(d.data) && isdigit(d.data[e]) {
		e++
		digits++
	}
	if e < len(d.data) && d.data[e] == '.' {
		e++
		for e < len(d.data) && isdigit(d.data[e]) {
			e++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}
	if e < len(d.data) && (d.data[e] == 'e' || d.data[e] == 'E') {
		x := e + 1
		if x < len(d.data) && (d.data[x] == '-' || d.data[x] == '+') {
			x++
		}
		if x < len(d.data) && isdigit(d.data[x]) {
			for x < len(d.data) && isdigit(d.data[x]) {
				x++
			}
			e = x
		}
	}
	v, err := strconv.ParseFloat(d.data[s:e], 64)
	if err != nil {
		return 0, false
	}
	d.pos = e
	return v, true
}

func isflagslot(n int) bool {
	i := n % 7
	return i == 3 || i == 4
}

func iscmd(c byte) bool {
	return strings.IndexByte(commands, c) >= 0
}

func isdigit(c byte) bool {
	return '0' <= c && c <= '9'
}
