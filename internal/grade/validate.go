package grade

import (
	"math"

	"github.com/verte-zerg/kakite/internal/geom"
	"github.com/verte-zerg/kakite/internal/stroke"
)

// Validate grades drawn strokes against ch with the default options.
// canvasSize is the side of the square drawing canvas in the same units as
// the drawn points.
func Validate(drawn [][]geom.Point, ch Character, canvasSize float64) Result {
	return ValidateWith(drawn, ch, canvasSize, DefaultOptions())
}

// ValidateWith grades drawn strokes against ch.
//
// Direction flags compare drawn stroke i with reference stroke i, independent
// of the matcher. Order and spatial accuracy come from the matcher's
// assignment. The two can disagree on out-of-order drawings.
func ValidateWith(drawn [][]geom.Point, ch Character, canvasSize float64, opts Options) Result {
	expected := len(ch.Strokes)
	actual := len(drawn)
	shared := min(expected, actual)

	res := Result{
		StrokeCountMatch:       expected == actual,
		ExpectedStrokes:        expected,
		ActualStrokes:          actual,
		StrokeDirectionMatches: make([]bool, expected),
		PerStroke:              make([]StrokeResult, 0, shared),
	}

	for i := 0; i < shared; i++ {
		points := drawn[i]
		if len(points) < 2 {
			continue
		}
		ref := ch.Strokes[i]
		detected := stroke.Detect(points, opts.CurveDeviation, opts.CurveMinPoints)
		res.StrokeDirectionMatches[i] = stroke.Matches(detected, ref.Direction, ref.Primary)
	}

	asg := MatchStrokes(drawn, ch.Strokes, ch.ViewBox, canvasSize, opts)
	res.StrokeOrderCorrect = asg.OrderCorrect
	res.Matched = asg.Matched
	for i := 0; i < shared; i++ {
		res.PerStroke = append(res.PerStroke, StrokeResult{
			DirectionMatch:  res.StrokeDirectionMatches[i],
			SpatialAccuracy: asg.Accuracy[i],
			OrderCorrect:    asg.Matched[i] == i,
		})
	}

	ratio := res.DirectionMatchRatio()
	score := ratio*100*scoreDirectionWeight + res.MeanSpatialAccuracy()*100*scoreSpatialWeight
	if res.StrokeOrderCorrect {
		score += orderBonus
	}
	if !res.StrokeCountMatch {
		score -= countPenalty
	}
	res.OverallScore = clampScore(score)
	res.OverallMatch = res.StrokeCountMatch && ratio >= opts.PassRatio
	return res
}

func clampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, v))))
}
