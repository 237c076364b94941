package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/kakite/internal/generator"
	"github.com/verte-zerg/kakite/internal/grade"
	"github.com/verte-zerg/kakite/internal/model"
	"github.com/verte-zerg/kakite/internal/stroke"
)

func threeLines() grade.Character {
	paths := []string{"M20,25 L89,25", "M30,55 L80,55", "M15,89 L95,89"}
	ch := grade.Character{Char: "三", Meaning: "three", Level: "n5", ViewBox: 109}
	for _, p := range paths {
		meta := stroke.Derive(p, 109)
		ch.Strokes = append(ch.Strokes, grade.ReferenceStroke{
			Path:          p,
			Direction:     meta.Direction,
			Primary:       meta.Primary,
			StartQuadrant: meta.StartQuadrant,
			EndQuadrant:   meta.EndQuadrant,
		})
	}
	return ch
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	cfg := model.PracticeConfig{Count: 2, CanvasSize: 109, Grading: grade.DefaultOptions()}
	m := NewModel(cfg, nil, generator.NewSeeded(1), []grade.Character{threeLines()}, nil, false)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	return m
}

// drag draws a stroke between two grid cells.
func drag(m *Model, x0, y0, x1, y1 int) {
	left, top := m.canvasOrigin()
	m.Update(tea.MouseMsg{X: left + x0*cellColumns, Y: top + y0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: left + (x0+x1)/2*cellColumns, Y: top + (y0+y1)/2, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: left + x1*cellColumns, Y: top + y1, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: left + x1*cellColumns, Y: top + y1, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestGridFitsWindow(t *testing.T) {
	m := newTestModel(t)
	if m.grid.size != 31 {
		t.Fatalf("expected grid size 31, got %d", m.grid.size)
	}
	left, top := m.canvasOrigin()
	if left != 9 || top != 3 {
		t.Fatalf("unexpected origin (%d,%d)", left, top)
	}
	if _, _, ok := m.cellAt(left-1, top); ok {
		t.Fatalf("expected cell left of canvas to be outside")
	}
	if cx, cy, ok := m.cellAt(left+3, top+2); !ok || cx != 1 || cy != 2 {
		t.Fatalf("unexpected cell (%d,%d,%v)", cx, cy, ok)
	}
}

func TestDrawAndGrade(t *testing.T) {
	m := newTestModel(t)
	drag(m, 4, 6, 26, 6)
	drag(m, 8, 15, 22, 15)
	drag(m, 3, 25, 27, 25)
	if len(m.strokes) != 3 {
		t.Fatalf("expected 3 strokes, got %d", len(m.strokes))
	}
	if got := len(m.strokes[0]); got != 3 {
		t.Fatalf("expected 3 points in first stroke, got %d", got)
	}

	m.Update(key("enter"))
	if m.result == nil {
		t.Fatalf("expected a graded result")
	}
	if !m.result.StrokeCountMatch || !m.result.OverallMatch {
		t.Fatalf("expected a pass, got %+v", m.result)
	}
	if m.result.OverallScore < 70 {
		t.Fatalf("expected a good score, got %d", m.result.OverallScore)
	}
	if !m.hasLast || m.allAttempts != 1 {
		t.Fatalf("expected footer stats to update")
	}
	view := m.View()
	if !strings.Contains(view, "PASS") || !strings.Contains(view, "1 ✓") {
		t.Fatalf("expected feedback in view:\n%s", view)
	}

	// Drawing is locked after grading; enter moves on.
	drag(m, 1, 1, 5, 5)
	if len(m.strokes) != 3 {
		t.Fatalf("expected drawing to be locked after grading")
	}
	m.Update(key("enter"))
	if m.result != nil || len(m.strokes) != 0 || m.pos != 1 {
		t.Fatalf("expected next character, got pos %d", m.pos)
	}
}

func TestUndoClearAndTrace(t *testing.T) {
	m := newTestModel(t)
	drag(m, 4, 6, 26, 6)
	drag(m, 8, 15, 22, 15)
	m.Update(key("u"))
	if len(m.strokes) != 1 {
		t.Fatalf("expected undo to drop a stroke, got %d", len(m.strokes))
	}
	m.Update(key("c"))
	if len(m.strokes) != 0 {
		t.Fatalf("expected clear to drop all strokes")
	}
	m.Update(key("enter"))
	if m.result != nil {
		t.Fatalf("expected no grading without strokes")
	}

	before := m.renderCanvas()
	m.Update(key("t"))
	if !m.trace {
		t.Fatalf("expected trace on")
	}
	if after := m.renderCanvas(); after == before || !strings.Contains(after, "░░") {
		t.Fatalf("expected trace guide in canvas")
	}
}

func TestQueueRefills(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 5; i++ {
		m.Update(key("n"))
	}
	if len(m.queue) != 2 || m.pos >= len(m.queue) {
		t.Fatalf("unexpected queue state: len %d pos %d", len(m.queue), m.pos)
	}
	if m.current.Char != "三" {
		t.Fatalf("unexpected current char %q", m.current.Char)
	}
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(t)
	for _, k := range []tea.KeyMsg{key("esc"), {Type: tea.KeyCtrlC}} {
		if _, cmd := m.Update(k); cmd == nil {
			t.Fatalf("expected quit command for %s", k.String())
		}
	}
}

func TestRenderFooterFormats(t *testing.T) {
	m := &Model{
		queue:       make([]grade.Character, 4),
		pos:         1,
		hasLast:     true,
		lastScore:   87,
		allAttempts: 4,
		allScoreSum: 302,
		allPassed:   3,
	}
	out := m.renderFooter()
	if !containsAll(out, []string{"Char 2/4", "Last 87", "All-time 75.5", "75% pass"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
