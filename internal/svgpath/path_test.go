package svgpath

import (
	"math"
	"testing"

	"github.com/verte-zerg/kakite/internal/geom"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func expectPoints(t *testing.T, got []geom.Point, want []geom.Point) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d waypoints, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if !near(got[i].X, want[i].X) || !near(got[i].Y, want[i].Y) {
			t.Fatalf("waypoint %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestParseAbsoluteLines(t *testing.T) {
	a := Parse("M10,20 L30,20 40,50")
	if a.StartX != 10 || a.StartY != 20 {
		t.Fatalf("unexpected start: %v", a.Start())
	}
	if a.EndX != 40 || a.EndY != 50 {
		t.Fatalf("unexpected end: %v", a.End())
	}
	expectPoints(t, a.Waypoints, []geom.Point{{X: 10, Y: 20}, {X: 30, Y: 20}, {X: 40, Y: 50}})
}

func TestParseConcatenatedNumbers(t *testing.T) {
	a := Parse("M1.5-2.5.5.5l-1-1")
	expectPoints(t, a.Waypoints, []geom.Point{
		{X: 1.5, Y: -2.5},
		{X: 0.5, Y: 0.5},
		{X: -0.5, Y: -0.5},
	})
}

func TestParseRelativeCubicSets(t *testing.T) {
	// Two bezier sets in one command yield two waypoints.
	a := Parse("M11,54c1,1,2,2,10,0c1,1,2,2,10,0,1,1,2,2,5,5")
	expectPoints(t, a.Waypoints, []geom.Point{
		{X: 11, Y: 54},
		{X: 21, Y: 54},
		{X: 31, Y: 54},
		{X: 36, Y: 59},
	})
	if !near(a.EndX, 36) || !near(a.EndY, 59) {
		t.Fatalf("unexpected end: %v", a.End())
	}
}

func TestParseHorizontalVertical(t *testing.T) {
	a := Parse("M10 10 H50 h5 V30 v-10")
	expectPoints(t, a.Waypoints, []geom.Point{
		{X: 10, Y: 10},
		{X: 50, Y: 10},
		{X: 55, Y: 10},
		{X: 55, Y: 30},
		{X: 55, Y: 20},
	})
}

func TestParseSmoothAndQuadratic(t *testing.T) {
	a := Parse("M0 0 Q5 5 10 0 T20 0 S25 5 30 0 s5 5 10 0 q1 1 2 0 t2 0")
	expectPoints(t, a.Waypoints, []geom.Point{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 20, Y: 0},
		{X: 30, Y: 0},
		{X: 40, Y: 0},
		{X: 42, Y: 0},
		{X: 44, Y: 0},
	})
}

func TestParseArcFlags(t *testing.T) {
	a := Parse("M10 10 A5 5 0 0110 20 a5,5 0 1,0 10,0")
	expectPoints(t, a.Waypoints, []geom.Point{
		{X: 10, Y: 10},
		{X: 10, Y: 20},
		{X: 20, Y: 20},
	})
}

func TestParseClosePath(t *testing.T) {
	a := Parse("M10 10 L20 10 L20 20 Z")
	if a.EndX != 10 || a.EndY != 10 {
		t.Fatalf("expected end at start after Z, got %v", a.End())
	}
	if len(a.Waypoints) != 4 {
		t.Fatalf("expected Z to emit a waypoint, got %v", a.Waypoints)
	}
}

func TestParseClosePathReturnsToCurrentSubpath(t *testing.T) {
	a := Parse("M5,5 Z M10,10 l5,0 Z")
	if a.StartX != 5 || a.StartY != 5 {
		t.Fatalf("expected start at first moveto, got %v", a.Start())
	}
	if a.EndX != 10 || a.EndY != 10 {
		t.Fatalf("expected Z to close the second subpath, got %v", a.End())
	}
	expectPoints(t, a.Waypoints, []geom.Point{
		{X: 5, Y: 5}, {X: 5, Y: 5}, {X: 10, Y: 10}, {X: 15, Y: 10}, {X: 10, Y: 10},
	})
}

func TestParseSkipsInsufficientParameters(t *testing.T) {
	a := Parse("M10 10 L20 C1 2 3 L30 30")
	expectPoints(t, a.Waypoints, []geom.Point{{X: 10, Y: 10}, {X: 30, Y: 30}})
}

func TestParseMalformed(t *testing.T) {
	for _, d := range []string{"", "garbage", "M", "M x y", "--..", "L5 5"} {
		a := Parse(d)
		if d == "L5 5" {
			if a.StartX != 0 || a.StartY != 0 || a.EndX != 5 || a.EndY != 5 {
				t.Fatalf("unexpected analysis for %q: %+v", d, a)
			}
			continue
		}
		if a.StartX != 0 || a.StartY != 0 || a.EndX != 0 || a.EndY != 0 {
			t.Fatalf("expected zero geometry for %q, got %+v", d, a)
		}
	}
}

func TestParseExponent(t *testing.T) {
	a := Parse("M1e1,2E-1 L3e,4")
	expectPoints(t, a.Waypoints, []geom.Point{{X: 10, Y: 0.2}, {X: 3, Y: 4}})
}
