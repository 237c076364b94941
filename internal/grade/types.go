// Package grade scores a drawn character against its reference strokes.
//
// Every function in this package is a pure function of its arguments. A
// Character may be shared by concurrent calls as long as nobody mutates it.
package grade

import "github.com/verte-zerg/kakite/internal/stroke"

// ReferenceStroke is one canonical stroke of a character.
type ReferenceStroke struct {
	ID     string  `json:"id"`
	Path   string  `json:"path"`
	Length float64 `json:"length"`

	Direction     stroke.Direction  `json:"direction"`
	Primary       *stroke.Direction `json:"primaryDirection,omitempty"`
	StartQuadrant stroke.Quadrant   `json:"startQuadrant"`
	EndQuadrant   stroke.Quadrant   `json:"endQuadrant"`
}

// Character is a reference character. Strokes are in correct drawing order.
type Character struct {
	Char    string            `json:"character"`
	Meaning string            `json:"meaning,omitempty"`
	Level   string            `json:"level,omitempty"`
	ViewBox float64           `json:"viewBox"`
	Strokes []ReferenceStroke `json:"strokes"`
}

// StrokeResult is the feedback for one drawn stroke.
type StrokeResult struct {
	DirectionMatch  bool    `json:"directionMatch"`
	SpatialAccuracy float64 `json:"spatialAccuracy"`
	OrderCorrect    bool    `json:"orderCorrect"`
}

// Result is the graded report for one drawing.
type Result struct {
	StrokeCountMatch       bool           `json:"strokeCountMatch"`
	ExpectedStrokes        int            `json:"expectedStrokes"`
	ActualStrokes          int            `json:"actualStrokes"`
	StrokeDirectionMatches []bool         `json:"strokeDirectionMatches"`
	StrokeOrderCorrect     bool           `json:"strokeOrderCorrect"`
	PerStroke              []StrokeResult `json:"perStroke"`
	// Matched holds the reference index assigned to each drawn stroke, -1
	// when unmatched.
	Matched      []int `json:"matched"`
	OverallScore int   `json:"overallScore"`
	OverallMatch bool  `json:"overallMatch"`
}

// DirectionMatchRatio is the share of reference strokes whose sequential
// direction check passed.
func (r Result) DirectionMatchRatio() float64 {
	if r.ExpectedStrokes == 0 {
		return 0
	}
	n := 0
	for _, ok := range r.StrokeDirectionMatches {
		if ok {
			n++
		}
	}
	return float64(n) / float64(r.ExpectedStrokes)
}

// MeanSpatialAccuracy averages the per-stroke spatial accuracy.
func (r Result) MeanSpatialAccuracy() float64 {
	if len(r.PerStroke) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range r.PerStroke {
		sum += s.SpatialAccuracy
	}
	return sum / float64(len(r.PerStroke))
}
