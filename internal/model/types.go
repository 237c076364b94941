// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/verte-zerg/kakite/internal/grade"
)

// PracticeConfig defines practice settings.
type PracticeConfig struct {
	Level      string
	Count      int
	CanvasSize float64
	Trace      bool
	FocusWeak  bool
	WeakTop    int
	WeakFactor float64
	WeakWindow int
	Grading    grade.Options
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Level       string
	Char        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// Attempt captures one graded drawing.
type Attempt struct {
	// UUID is assigned by the store when empty.
	UUID            string
	Char            string
	Level           string
	StartedAt       time.Time
	EndedAt         time.Time
	ExpectedStrokes int
	ActualStrokes   int
	Score           int
	Passed          bool
	OrderCorrect    bool
	CountMatch      bool
	DurationMs      int64
}

// StrokeStats stores the feedback for one drawn stroke of an attempt.
type StrokeStats struct {
	Index           int
	DirectionMatch  bool
	SpatialAccuracy float64
	OrderCorrect    bool
}

// NewAttempt converts a grading result into storable records.
func NewAttempt(ch grade.Character, res grade.Result, startedAt, endedAt time.Time) (Attempt, []StrokeStats) {
	a := Attempt{
		Char:            ch.Char,
		Level:           ch.Level,
		StartedAt:       startedAt,
		EndedAt:         endedAt,
		ExpectedStrokes: res.ExpectedStrokes,
		ActualStrokes:   res.ActualStrokes,
		Score:           res.OverallScore,
		Passed:          res.OverallMatch,
		OrderCorrect:    res.StrokeOrderCorrect,
		CountMatch:      res.StrokeCountMatch,
		DurationMs:      endedAt.Sub(startedAt).Milliseconds(),
	}
	if a.DurationMs < 0 {
		a.DurationMs = 0
	}
	strokes := make([]StrokeStats, len(res.PerStroke))
	for i, s := range res.PerStroke {
		strokes[i] = StrokeStats{
			Index:           i,
			DirectionMatch:  s.DirectionMatch,
			SpatialAccuracy: s.SpatialAccuracy,
			OrderCorrect:    s.OrderCorrect,
		}
	}
	return a, strokes
}

// CharAggregate aggregates attempts of one character.
type CharAggregate struct {
	Char             string
	Attempts         int
	Passed           int
	ScoreSum         int
	DurationMs       int64
	Strokes          int
	DirectionMatches int
	SpatialSum       float64
}

// MeanScore returns the average score, 0 without attempts.
func (c CharAggregate) MeanScore() float64 {
	if c.Attempts == 0 {
		return 0
	}
	return float64(c.ScoreSum) / float64(c.Attempts)
}

// PassRate returns the share of passed attempts.
func (c CharAggregate) PassRate() float64 {
	if c.Attempts == 0 {
		return 0
	}
	return float64(c.Passed) / float64(c.Attempts)
}

// DirectionRate returns the share of graded strokes with a direction match.
func (c CharAggregate) DirectionRate() float64 {
	if c.Strokes == 0 {
		return 0
	}
	return float64(c.DirectionMatches) / float64(c.Strokes)
}

// MeanSpatial returns the average spatial accuracy of graded strokes.
func (c CharAggregate) MeanSpatial() float64 {
	if c.Strokes == 0 {
		return 0
	}
	return c.SpatialSum / float64(c.Strokes)
}

// AttemptAggregate summarizes an attempt for reporting.
type AttemptAggregate struct {
	AttemptID    int64
	UUID         string
	Char         string
	Level        string
	EndedAt      time.Time
	Score        int
	Passed       bool
	OrderCorrect bool
	CountMatch   bool
	DurationMs   int64
}
