package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/kakite/internal/config"
	"github.com/verte-zerg/kakite/internal/geom"
	"github.com/verte-zerg/kakite/internal/grade"
	"github.com/verte-zerg/kakite/internal/model"
	"github.com/verte-zerg/kakite/internal/store"
)

type gradeFlags struct {
	char   string
	input  string
	canvas float64
	json   bool
	save   bool
}

func newGradeCmd() *cobra.Command {
	var flags gradeFlags
	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Grade a recorded drawing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGradeCmd(cmd, flags)
		},
	}
	cmd.Flags().StringVar(&flags.char, "char", "", "character to grade against")
	cmd.Flags().StringVar(&flags.input, "input", "-", "JSON file of strokes ('-' for stdin)")
	cmd.Flags().Float64Var(&flags.canvas, "canvas", 0, "canvas size the strokes were drawn on (default: viewBox)")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&flags.save, "save", false, "record the attempt in the stats database")
	return cmd
}

func runGradeCmd(cmd *cobra.Command, flags gradeFlags) error {
	if strings.TrimSpace(flags.char) == "" {
		return fmt.Errorf("--char is required")
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	catalog, err := loadCatalog(fileCfg)
	if err != nil {
		return err
	}
	ch, ok := catalog.Lookup(strings.TrimSpace(flags.char))
	if !ok {
		return fmt.Errorf("unknown character %q", flags.char)
	}

	drawn, err := readStrokes(cmd.InOrStdin(), flags.input)
	if err != nil {
		return err
	}
	res := grade.ValidateWith(drawn, ch, flags.canvas, fileCfg.Grading.Options(grade.DefaultOptions()))

	if flags.save {
		if err := saveAttempt(ch, res, drawn); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if flags.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := writeGradeReport(out, ch, res); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// readStrokes decodes [[{"x":..,"y":..,"t":..}, ...], ...] from path or,
// for "-", from stdin.
func readStrokes(stdin io.Reader, path string) ([][]geom.Point, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				_ = cerr
			}
		}()
		r = f
	}
	var drawn [][]geom.Point
	if err := json.NewDecoder(r).Decode(&drawn); err != nil {
		return nil, fmt.Errorf("failed to decode strokes: %w", err)
	}
	return drawn, nil
}

// drawingSpan derives attempt timestamps from the point times, ending now.
func drawingSpan(drawn [][]geom.Point, now time.Time) (time.Time, time.Time) {
	var first, last int64
	seen := false
	for _, s := range drawn {
		for _, p := range s {
			if !seen {
				first, last, seen = p.T, p.T, true
				continue
			}
			first = min(first, p.T)
			last = max(last, p.T)
		}
	}
	return now.Add(-time.Duration(last-first) * time.Millisecond), now
}

func saveAttempt(ch grade.Character, res grade.Result, drawn [][]geom.Point) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	startedAt, endedAt := drawingSpan(drawn, time.Now())
	attempt, strokes := model.NewAttempt(ch, res, startedAt, endedAt)
	if _, err := st.InsertAttempt(context.Background(), attempt, strokes); err != nil {
		return fmt.Errorf("failed to save attempt: %w", err)
	}
	return nil
}

func writeGradeReport(w io.Writer, ch grade.Character, res grade.Result) error {
	verdict := "FAIL"
	if res.OverallMatch {
		verdict = "PASS"
	}
	label := ch.Char
	if ch.Meaning != "" {
		label += " (" + ch.Meaning + ")"
	}
	lines := []string{
		fmt.Sprintf("%s  %s  score %d", runewidth.FillRight(label, 16), verdict, res.OverallScore),
		fmt.Sprintf("Strokes: %d/%d  Order: %s  Direction: %.0f%%  Spatial: %.0f%%",
			res.ActualStrokes, res.ExpectedStrokes, yesNo(res.StrokeOrderCorrect),
			res.DirectionMatchRatio()*100, res.MeanSpatialAccuracy()*100),
	}
	if len(res.PerStroke) > 0 {
		lines = append(lines, "", "#   Ref  Direction  Spatial  Order")
	}
	for i, s := range res.PerStroke {
		ref := "-"
		if i < len(res.Matched) && res.Matched[i] >= 0 {
			ref = fmt.Sprintf("%d", res.Matched[i]+1)
		}
		lines = append(lines, fmt.Sprintf("%-3d %-4s %-10s %6.0f%%  %s",
			i+1, ref, yesNo(s.DirectionMatch), s.SpatialAccuracy*100, yesNo(s.OrderCorrect)))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func yesNo(ok bool) string {
	if ok {
		return "ok"
	}
	return "no"
}
