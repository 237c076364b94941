package grade

import "github.com/verte-zerg/kakite/internal/stroke"

// Weights of the matcher's pairing cost and the scorer's formula.
const (
	startWeight     = 0.4
	endWeight       = 0.3
	directionWeight = 0.3

	scoreDirectionWeight = 0.4
	scoreSpatialWeight   = 0.4
	orderBonus           = 10
	countPenalty         = 20
)

// Options tunes grading. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// SampleCount is the number of points both strokes are resampled to
	// before DTW. Keep it small: DTW is quadratic in it.
	SampleCount int
	// PassRatio is the share of direction matches needed to pass.
	PassRatio float64
	// CurveDeviation and CurveMinPoints classify drawn strokes as curved.
	CurveDeviation float64
	CurveMinPoints int
}

// DefaultOptions returns the standard grading thresholds.
func DefaultOptions() Options {
	return Options{
		SampleCount:    50,
		PassRatio:      0.7,
		CurveDeviation: stroke.DefaultCurveDeviation,
		CurveMinPoints: stroke.DefaultCurveMinPoints,
	}
}

func (o Options) sampleCount() int {
	if o.SampleCount < 2 {
		return DefaultOptions().SampleCount
	}
	return o.SampleCount
}
