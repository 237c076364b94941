package stroke

import (
	"github.com/verte-zerg/kakite/internal/geom"
	"github.com/verte-zerg/kakite/internal/svgpath"
)

// Reference canvas defaults.
const (
	DefaultViewBox     = 109.0
	DefaultMinSegment  = 5.0
	DefaultBendDegrees = 50.0
)

// Metadata is what a reference stroke's path says about its shape.
type Metadata struct {
	Direction Direction
	// Primary is the straight-line direction of a Curved stroke. It is nil
	// for straight strokes.
	Primary       *Direction
	StartQuadrant Quadrant
	EndQuadrant   Quadrant
}

// Options tunes Derive.
type Options struct {
	ViewBox     float64
	MinSegment  float64
	BendDegrees float64
}

// DefaultOptions returns the thresholds used for the 109×109 reference data.
func DefaultOptions() Options {
	return Options{
		ViewBox:     DefaultViewBox,
		MinSegment:  DefaultMinSegment,
		BendDegrees: DefaultBendDegrees,
	}
}

// Derive computes metadata for path data d on a canvas of viewBox units.
func Derive(d string, viewBox float64) Metadata {
	opts := DefaultOptions()
	if viewBox > 0 {
		opts.ViewBox = viewBox
	}
	return DeriveWith(d, opts)
}

// DeriveWith is Derive with explicit thresholds.
func DeriveWith(d string, opts Options) Metadata {
	a := svgpath.Parse(d)
	candidate := OctantOf(a.EndX-a.StartX, a.EndY-a.StartY)
	meta := Metadata{
		Direction:     candidate,
		StartQuadrant: QuadrantOf(a.StartX, a.StartY, opts.ViewBox),
		EndQuadrant:   QuadrantOf(a.EndX, a.EndY, opts.ViewBox),
	}
	if IsCurved(a.Waypoints, opts.MinSegment, opts.BendDegrees) {
		primary := candidate
		meta.Direction = Curved
		meta.Primary = &primary
	}
	return meta
}

// IsCurved thins waypoints to those more than minDist from the previously
// kept one and reports whether any turn between consecutive kept segments
// exceeds bendDeg. Fewer than three kept points is straight.
func IsCurved(waypoints []geom.Point, minDist, bendDeg float64) bool {
	if len(waypoints) < 3 {
		return false
	}
	kept := []geom.Point{waypoints[0]}
	for _, p := range waypoints[1:] {
		if geom.Dist(kept[len(kept)-1], p) > minDist {
			kept = append(kept, p)
		}
	}
	if len(kept) < 3 {
		return false
	}
	for i := 2; i < len(kept); i++ {
		in := Heading(kept[i-1].X-kept[i-2].X, kept[i-1].Y-kept[i-2].Y)
		out := Heading(kept[i].X-kept[i-1].X, kept[i].Y-kept[i-1].Y)
		if TurnAngle(in, out) > bendDeg {
			return true
		}
	}
	return false
}
