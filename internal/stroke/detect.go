package stroke

import (
	"math"

	"github.com/verte-zerg/kakite/internal/geom"
)

// Drawn-stroke curvature thresholds.
const (
	DefaultCurveDeviation = 0.15
	DefaultCurveMinPoints = 5
	minChordLength        = 10.0
)

// Straight returns the octant of the chord from the first to the last point.
// Strokes with fewer than two points are Right.
func Straight(points []geom.Point) Direction {
	if len(points) < 2 {
		return Right
	}
	start, end := points[0], points[len(points)-1]
	return OctantOf(end.X-start.X, end.Y-start.Y)
}

// Detect classifies a drawn stroke. A stroke with more than minPoints points
// whose largest deviation from its chord exceeds deviation times the chord
// length is Curved; otherwise it is the chord's octant.
func Detect(points []geom.Point, deviation float64, minPoints int) Direction {
	if len(points) < 2 {
		return Right
	}
	if len(points) > minPoints && deviatesFromChord(points, deviation) {
		return Curved
	}
	return Straight(points)
}

func deviatesFromChord(points []geom.Point, ratio float64) bool {
	start, end := points[0], points[len(points)-1]
	chord := geom.Dist(start, end)
	if chord < minChordLength {
		return false
	}
	maxDev := 0.0
	for _, p := range points {
		maxDev = math.Max(maxDev, segmentDistance(p, start, end))
	}
	return maxDev/chord > ratio
}

// segmentDistance is the distance from p to the closest point of segment ab.
func segmentDistance(p, a, b geom.Point) float64 {
	cx, cy := b.X-a.X, b.Y-a.Y
	lenSq := cx*cx + cy*cy
	if lenSq == 0 {
		return geom.Dist(p, a)
	}
	t := ((p.X-a.X)*cx + (p.Y-a.Y)*cy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return geom.Dist(p, geom.Point{X: a.X + t*cx, Y: a.Y + t*cy})
}

// Matches reports whether a detected drawn direction satisfies a reference
// direction. Curved references accept Curved strokes and strokes within one
// step of their primary direction.
func Matches(detected, expected Direction, primary *Direction) bool {
	if detected == expected {
		return true
	}
	if expected != Curved {
		return false
	}
	return primary != nil && Adjacent(detected, *primary)
}
