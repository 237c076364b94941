package grade

import (
	"math"

	"github.com/verte-zerg/kakite/internal/dtw"
	"github.com/verte-zerg/kakite/internal/geom"
	"github.com/verte-zerg/kakite/internal/stroke"
	"github.com/verte-zerg/kakite/internal/svgpath"
)

// Assignment pairs drawn strokes with reference strokes.
type Assignment struct {
	// Matched[i] is the reference index for drawn stroke i, or -1.
	Matched []int
	// Accuracy[i] is the spatial accuracy of drawn stroke i in [0, 1].
	Accuracy []float64
	// OrderCorrect is true when the matched reference indices strictly
	// increase in drawing order.
	OrderCorrect bool
}

// reference is a reference stroke decoded and scaled to canvas space.
type reference struct {
	dir       stroke.Direction
	start     geom.Point
	end       geom.Point
	waypoints []geom.Point
}

func scaleReferences(refs []ReferenceStroke, scale float64) []reference {
	out := make([]reference, len(refs))
	for i, r := range refs {
		a := svgpath.Parse(r.Path)
		pts := make([]geom.Point, len(a.Waypoints))
		for j, p := range a.Waypoints {
			pts[j] = p.Scale(scale)
		}
		out[i] = reference{
			dir:       r.Direction,
			start:     a.Start().Scale(scale),
			end:       a.End().Scale(scale),
			waypoints: pts,
		}
	}
	return out
}

// MatchStrokes greedily assigns each drawn stroke, in drawing order, to the
// cheapest reference stroke not yet taken. Ties go to the lower reference
// index. Reference paths live in a viewBox-sized space and are scaled to
// canvasSize before comparison.
func MatchStrokes(drawn [][]geom.Point, refs []ReferenceStroke, viewBox, canvasSize float64, opts Options) Assignment {
	if viewBox <= 0 {
		viewBox = stroke.DefaultViewBox
	}
	if canvasSize <= 0 {
		canvasSize = viewBox
	}
	scaled := scaleReferences(refs, canvasSize/viewBox)
	samples := opts.sampleCount()

	asg := Assignment{
		Matched:  make([]int, len(drawn)),
		Accuracy: make([]float64, len(drawn)),
	}
	used := make([]bool, len(refs))
	for i, points := range drawn {
		asg.Matched[i] = -1
		if len(points) < 2 {
			continue
		}
		best := -1
		bestCost := math.Inf(1)
		for j := range scaled {
			if used[j] {
				continue
			}
			if c := pairCost(points, scaled[j], canvasSize); c < bestCost {
				best, bestCost = j, c
			}
		}
		if best < 0 {
			continue
		}
		used[best] = true
		asg.Matched[i] = best
		asg.Accuracy[i] = spatialAccuracy(points, scaled[best].waypoints, canvasSize, samples)
	}
	asg.OrderCorrect = increasing(asg.Matched)
	return asg
}

// pairCost blends start proximity, end proximity and direction agreement.
// Lower is better; distances are in canvas widths so the cost is unitless.
func pairCost(points []geom.Point, ref reference, canvasSize float64) float64 {
	startDist := geom.Dist(points[0], ref.start) / canvasSize
	endDist := geom.Dist(points[len(points)-1], ref.end) / canvasSize
	steps, _ := stroke.RingDistance(stroke.Straight(points), ref.dir)
	dirCost := float64(steps) / 4
	return startDist*startWeight + endDist*endWeight + dirCost*directionWeight
}

// spatialAccuracy maps the DTW distance between the drawn stroke and the
// reference polyline to [0, 1]. An average deviation of a quarter canvas or
// more scores zero.
func spatialAccuracy(points, ref []geom.Point, canvasSize float64, samples int) float64 {
	d := dtw.Distance(dtw.Resample(points, samples), dtw.Resample(ref, samples))
	acc := 1 - d/(canvasSize/4)
	if math.IsNaN(acc) || acc < 0 {
		return 0
	}
	return math.Min(acc, 1)
}

func increasing(matched []int) bool {
	prev := -1
	for _, idx := range matched {
		if idx < 0 {
			continue
		}
		if idx <= prev {
			return false
		}
		prev = idx
	}
	return true
}
