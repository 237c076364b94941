// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/kakite/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Metrics summarizes a run of attempts.
type Metrics struct {
	Attempts      int
	MeanScore     float64
	BestScore     int
	PassRate      float64
	OrderRate     float64
	CountRate     float64
	MeanDuration  time.Duration
	DistinctChars int
}

// AttemptMetrics computes summary metrics over attempts.
func AttemptMetrics(attempts []model.AttemptAggregate) Metrics {
	m := Metrics{Attempts: len(attempts)}
	if len(attempts) == 0 {
		return m
	}
	var scoreSum, passed, ordered, counted int
	var durationSum int64
	chars := map[string]struct{}{}
	for _, a := range attempts {
		scoreSum += a.Score
		if a.Score > m.BestScore {
			m.BestScore = a.Score
		}
		if a.Passed {
			passed++
		}
		if a.OrderCorrect {
			ordered++
		}
		if a.CountMatch {
			counted++
		}
		durationSum += a.DurationMs
		chars[a.Char] = struct{}{}
	}
	n := float64(len(attempts))
	m.MeanScore = float64(scoreSum) / n
	m.PassRate = float64(passed) / n
	m.OrderRate = float64(ordered) / n
	m.CountRate = float64(counted) / n
	m.MeanDuration = time.Duration(durationSum/int64(len(attempts))) * time.Millisecond
	m.DistinctChars = len(chars)
	return m
}

// ScoreSeries returns attempt scores in order.
func ScoreSeries(attempts []model.AttemptAggregate) []float64 {
	out := make([]float64, len(attempts))
	for i, a := range attempts {
		out[i] = float64(a.Score)
	}
	return out
}

// PassSeries returns 100 for passed attempts and 0 otherwise, so that a
// moving average reads as a pass percentage.
func PassSeries(attempts []model.AttemptAggregate) []float64 {
	out := make([]float64, len(attempts))
	for i, a := range attempts {
		if a.Passed {
			out[i] = 100
		}
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for percentages in
// [0,100]. Values outside the range are clamped.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	var b strings.Builder
	top := float64(len(sparkChars) - 1)
	for _, v := range values {
		idx := int(math.Round(clampPct(v) / 100 * top))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func clampPct(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// RenderSummary prints a summary block for attempts.
func RenderSummary(w io.Writer, attempts []model.AttemptAggregate) error {
	if len(attempts) == 0 {
		_, err := fmt.Fprintln(w, "No attempts found.")
		return err
	}
	m := AttemptMetrics(attempts)
	recent := attempts
	if len(recent) > 40 {
		recent = recent[len(recent)-40:]
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Attempts: %d (%d characters)", m.Attempts, m.DistinctChars),
		fmt.Sprintf("Avg Score: %.1f", m.MeanScore),
		fmt.Sprintf("Best Score: %d", m.BestScore),
		fmt.Sprintf("Pass Rate: %.1f%%", m.PassRate*100),
		fmt.Sprintf("Order Correct: %.1f%%", m.OrderRate*100),
		fmt.Sprintf("Stroke Count Correct: %.1f%%", m.CountRate*100),
		fmt.Sprintf("Avg Time: %s", m.MeanDuration.Round(100*time.Millisecond)),
		fmt.Sprintf("Recent: [%s]", Sparkline(ScoreSeries(recent))),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints score and pass-rate learning curves sized to a given
// total width. A zero width uses the terminal width.
func RenderCurves(w io.Writer, attempts []model.AttemptAggregate, window, totalWidth, height int, useColor bool) error {
	if len(attempts) == 0 {
		return nil
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotScores(w, "Learning Curves", []Series{
		{Name: "Score", Values: MovingAverage(ScoreSeries(attempts), window)},
		{Name: "Pass", Values: MovingAverage(PassSeries(attempts), window)},
	}, width, height, useColor)
}

// RenderCharCurves prints a score curve per character.
func RenderCharCurves(w io.Writer, attempts []model.AttemptAggregate, chars []string, window, totalWidth, height int, useColor bool) error {
	if len(chars) == 0 || len(attempts) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Character Curves"); err != nil {
		return err
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	for _, ch := range chars {
		var own []model.AttemptAggregate
		for _, a := range attempts {
			if a.Char == ch {
				own = append(own, a)
			}
		}
		if len(own) == 0 {
			continue
		}
		if err := PlotScores(w, fmt.Sprintf("Char %s", ch), []Series{
			{Name: "Score", Values: MovingAverage(ScoreSeries(own), window)},
		}, width, height, useColor); err != nil {
			return err
		}
	}
	return nil
}
