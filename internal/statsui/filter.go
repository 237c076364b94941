package statsui

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/kakite/internal/model"
)

const dateLayout = "2006-01-02"

const (
	fieldLevel = iota
	fieldChar
	fieldSince
	fieldLast
	fieldWindow
)

// filterForm edits the stats filters.
type filterForm struct {
	active bool
	inputs []textinput.Model
	index  int
	err    string
}

func newFilterForm() filterForm {
	return filterForm{inputs: []textinput.Model{
		fieldLevel:  newInput("Level: "),
		fieldChar:   newInput("Char: "),
		fieldSince:  newInput("Since (YYYY-MM-DD): "),
		fieldLast:   newInput("Last: "),
		fieldWindow: newInput("Curve window: "),
	}}
}

func newInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

// load opens the form with cfg's values.
func (f *filterForm) load(cfg model.StatsConfig) {
	f.active = true
	f.err = ""
	f.inputs[fieldLevel].SetValue(cfg.Level)
	f.inputs[fieldChar].SetValue(cfg.Char)
	since := ""
	if cfg.Since != nil {
		since = cfg.Since.Format(dateLayout)
	}
	f.inputs[fieldSince].SetValue(since)
	last := ""
	if cfg.Last > 0 {
		last = strconv.Itoa(cfg.Last)
	}
	f.inputs[fieldLast].SetValue(last)
	f.inputs[fieldWindow].SetValue(strconv.Itoa(cfg.CurveWindow))
}

func (f *filterForm) close() {
	f.active = false
	f.err = ""
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f *filterForm) focus(idx int) tea.Cmd {
	n := len(f.inputs)
	f.index = (idx%n + n) % n
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.index {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (f *filterForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.index], cmd = f.inputs[f.index].Update(msg)
	return cmd
}

func (f *filterForm) setWidth(width int) {
	for i := range f.inputs {
		f.inputs[i].Width = max(10, width-lipgloss.Width(f.inputs[i].Prompt)-2)
	}
}

// apply validates the inputs and returns the resulting filters.
func (f *filterForm) apply() (model.StatsConfig, error) {
	cfg := model.StatsConfig{
		Level: strings.ToLower(strings.TrimSpace(f.inputs[fieldLevel].Value())),
		Char:  strings.TrimSpace(f.inputs[fieldChar].Value()),
	}
	if v := strings.TrimSpace(f.inputs[fieldSince].Value()); v != "" {
		since, err := time.ParseInLocation(dateLayout, v, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		cfg.Since = &since
	}
	if v := strings.TrimSpace(f.inputs[fieldLast].Value()); v != "" {
		last, err := strconv.Atoi(v)
		if err != nil || last < 0 {
			return model.StatsConfig{}, fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		cfg.Last = last
	}
	cfg.CurveWindow = 1
	if v := strings.TrimSpace(f.inputs[fieldWindow].Value()); v != "" {
		window, err := strconv.Atoi(v)
		if err != nil || window < 1 {
			return model.StatsConfig{}, fmt.Errorf("invalid curve window (use integer >= 1)")
		}
		cfg.CurveWindow = window
	}
	return cfg, nil
}

func (f *filterForm) view() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range f.inputs {
		lines = append(lines, input.View())
	}
	if f.err != "" {
		lines = append(lines, errorStyle.Render(f.err))
	}
	return strings.Join(lines, "\n")
}

// splitChars turns free text into one entry per character, ignoring
// separators.
func splitChars(input string) []string {
	var out []string
	for _, r := range input {
		if r == ',' || unicode.IsSpace(r) {
			continue
		}
		out = append(out, string(r))
	}
	return out
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w < width {
			lines[i] = line + strings.Repeat(" ", width-w)
		}
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
