// Package main provides the CLI entrypoint for kakite.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/kakite/internal/config"
	"github.com/verte-zerg/kakite/internal/generator"
	"github.com/verte-zerg/kakite/internal/grade"
	"github.com/verte-zerg/kakite/internal/model"
	"github.com/verte-zerg/kakite/internal/refdata"
	"github.com/verte-zerg/kakite/internal/stats"
	"github.com/verte-zerg/kakite/internal/store"
	"github.com/verte-zerg/kakite/internal/stroke"
	"github.com/verte-zerg/kakite/internal/tui"
)

const (
	defaultLevel      = "n5"
	defaultCount      = 10
	defaultCanvasSize = 109.0
	defaultWeakTop    = 5
	defaultWeakFactor = 3.0
	defaultWeakWindow = 50
)

var (
	practiceLevel      string
	practiceCount      int
	practiceCanvasSize float64
	practiceTrace      bool
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceWeakWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "kakite",
		Short:         "TUI kanji stroke trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceLevel, "level", defaultLevel, "character level to practise (empty for all)")
	rootCmd.Flags().IntVar(&practiceCount, "count", defaultCount, "characters per round")
	rootCmd.Flags().Float64Var(&practiceCanvasSize, "canvas-size", defaultCanvasSize, "drawing canvas size in pixels")
	rootCmd.Flags().BoolVar(&practiceTrace, "trace", false, "show the reference strokes as a guide")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias practice toward weak characters")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak characters to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak characters")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent attempts to compute weak characters")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCharsCmd())
	rootCmd.AddCommand(newGradeCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newBundleCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, "level", &practiceLevel, fileCfg.Practice.Level)
	applyConfig(cmd, "count", &practiceCount, fileCfg.Practice.Count)
	applyConfig(cmd, "canvas-size", &practiceCanvasSize, fileCfg.Practice.CanvasSize)
	applyConfig(cmd, "trace", &practiceTrace, fileCfg.Practice.Trace)
	applyConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)

	cfg := model.PracticeConfig{
		Level:      strings.ToLower(strings.TrimSpace(practiceLevel)),
		Count:      practiceCount,
		CanvasSize: practiceCanvasSize,
		Trace:      practiceTrace,
		FocusWeak:  practiceFocusWeak,
		WeakTop:    practiceWeakTop,
		WeakFactor: practiceWeakFactor,
		WeakWindow: practiceWeakWindow,
		Grading:    fileCfg.Grading.Options(grade.DefaultOptions()),
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	catalog, err := loadCatalog(fileCfg)
	if err != nil {
		return err
	}
	pool := catalog.ByLevel(cfg.Level)
	if len(pool) == 0 {
		return fmt.Errorf("no characters for level %q (available: %s)", cfg.Level, strings.Join(catalog.Levels(), ", "))
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	weakSet := map[string]struct{}{}
	weakNoticePrinted := false
	if cfg.FocusWeak {
		aggs, err := st.GetWeakChars(context.Background(), cfg.WeakWindow, cfg.Level)
		if err != nil {
			logErrf("failed to load weak chars: %v\n", err)
		} else {
			weakSet = stats.SelectWeakChars(aggs, cfg.WeakTop)
			if len(weakSet) == 0 {
				logErrln("no stats available for weak-char focus yet; using normal generator")
				weakNoticePrinted = true
			}
		}
	}

	m := tui.NewModel(cfg, st, generator.New(), pool, weakSet, weakNoticePrinted)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// loadCatalog reads the built-in characters plus any installed bundles.
func loadCatalog(fileCfg config.FileConfig) (*refdata.Catalog, error) {
	opts := fileCfg.Grading.StrokeOptions(stroke.DefaultOptions())
	catalog, err := refdata.LoadWith(opts, config.DefaultBundleDir())
	if err != nil {
		return nil, fmt.Errorf("failed to load reference data: %w", err)
	}
	return catalog, nil
}

func newCharsCmd() *cobra.Command {
	var level string
	cmd := &cobra.Command{
		Use:   "chars",
		Short: "List reference characters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			catalog, err := loadCatalog(fileCfg)
			if err != nil {
				return err
			}
			chars := catalog.ByLevel(strings.ToLower(strings.TrimSpace(level)))
			if len(chars) == 0 {
				return fmt.Errorf("no characters for level %q", level)
			}
			for _, ch := range chars {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\t%s\n", ch.Char, len(ch.Strokes), ch.Level, ch.Meaning); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&level, "level", "", "level filter")
	return cmd
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// ensureConfigFile writes the commented template unless a config exists.
func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	grading := grade.DefaultOptions()
	ref := stroke.DefaultOptions()
	return fmt.Sprintf(`# kakite configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# level = %q              # Character level to practise ("" for all)
# count = %d              # Characters per round
# canvas-size = %.0f       # Drawing canvas size in pixels
# trace = false           # Show the reference strokes as a guide
# focus-weak = false      # Bias practice toward weak characters
# weak-top = %d            # Number of weak characters to focus on
# weak-factor = %.1f      # Weight factor for weak characters
# weak-window = %d        # Number of recent attempts to compute weak chars

[grading]
# sample-count = %d       # Points per stroke before comparison
# pass-ratio = %.2f       # Share of matching directions needed to pass
# curve-deviation = %.2f  # Drawn strokes bending more than this are curved
# min-segment = %.1f      # Reference segments shorter than this are ignored
# bend-degrees = %.1f     # Reference turns sharper than this mark a curve
`,
		defaultLevel,
		defaultCount,
		defaultCanvasSize,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
		grading.SampleCount,
		grading.PassRatio,
		grading.CurveDeviation,
		ref.MinSegment,
		ref.BendDegrees,
	)
}

func validateConfig(cfg model.PracticeConfig) error {
	if cfg.Count <= 0 {
		return fmt.Errorf("--count must be > 0")
	}
	if cfg.CanvasSize <= 0 {
		return fmt.Errorf("--canvas-size must be > 0")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
