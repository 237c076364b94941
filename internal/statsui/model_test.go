package statsui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/kakite/internal/model"
	"github.com/verte-zerg/kakite/internal/store"
)

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "kakite.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for i, ch := range []string{"三", "二", "三", "十"} {
		a := model.Attempt{
			Char:            ch,
			Level:           "n5",
			StartedAt:       base.Add(time.Duration(i) * time.Minute),
			EndedAt:         base.Add(time.Duration(i)*time.Minute + 5*time.Second),
			ExpectedStrokes: 2,
			ActualStrokes:   2,
			Score:           50 + i*10,
			Passed:          i%2 == 0,
			OrderCorrect:    true,
			CountMatch:      true,
			DurationMs:      5000,
		}
		if _, err := st.InsertAttempt(context.Background(), a, []model.StrokeStats{{Index: 0, DirectionMatch: true, SpatialAccuracy: 0.7}}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	return st
}

func TestOverviewAndTabs(t *testing.T) {
	m := NewModel(seededStore(t), model.StatsConfig{CurveWindow: 2})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	view := m.View()
	for _, want := range []string{"Overview", "Char Table", "Avg Score", "Learning Curves", "window=2"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
	if len(strings.Split(view, "\n")) != 40 {
		t.Fatalf("expected view to fill the window height")
	}
	if got := m.charSelection; len(got) != 3 || got[0] != "三" {
		t.Fatalf("unexpected default char selection: %v", got)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabCharTable {
		t.Fatalf("expected char table tab, got %d", m.activeTab)
	}
	if view := m.View(); !strings.Contains(view, "十") || !strings.Contains(view, "Avg Score") {
		t.Fatalf("expected char table rows:\n%s", view)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabCharCurves {
		t.Fatalf("expected wrap to last tab, got %d", m.activeTab)
	}
}

func TestWindowKeys(t *testing.T) {
	m := NewModel(seededStore(t), model.StatsConfig{CurveWindow: 1})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("=")})
	if m.cfg.CurveWindow != 5 {
		t.Fatalf("expected window 5, got %d", m.cfg.CurveWindow)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("=")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	if m.cfg.CurveWindow != 5 {
		t.Fatalf("expected window 5, got %d", m.cfg.CurveWindow)
	}
	if got := prevCurveWindow(7); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if got := nextCurveWindow(7); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
}

func TestFilterForm(t *testing.T) {
	m := NewModel(seededStore(t), model.StatsConfig{CurveWindow: 1})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.filter.active {
		t.Fatalf("expected filter form")
	}
	m.filter.inputs[fieldChar].SetValue("三")
	m.filter.inputs[fieldLast].SetValue("x")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.filter.active || !strings.Contains(m.filter.err, "invalid last") {
		t.Fatalf("expected validation error, got %q", m.filter.err)
	}
	m.filter.inputs[fieldLast].SetValue("")
	m.filter.inputs[fieldLevel].SetValue(" N5 ")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filter.active {
		t.Fatalf("expected form to close")
	}
	if m.cfg.Char != "三" || m.cfg.Level != "n5" {
		t.Fatalf("unexpected config: %+v", m.cfg)
	}
	if len(m.report.Attempts) != 2 {
		t.Fatalf("expected filtered attempts, got %d", len(m.report.Attempts))
	}
}

func TestCharSelectionInput(t *testing.T) {
	m := NewModel(seededStore(t), model.StatsConfig{CurveWindow: 1})
	m.activeTab = tabCharCurves
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.charInputMode {
		t.Fatalf("expected char input mode")
	}
	m.charInput.SetValue("十, 二")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.charSelection) != 2 || m.charSelection[0] != "十" || !m.charCustom {
		t.Fatalf("unexpected selection: %v", m.charSelection)
	}
}

func TestSplitChars(t *testing.T) {
	got := splitChars(" 一,二 三\t")
	if strings.Join(got, "") != "一二三" {
		t.Fatalf("unexpected split: %v", got)
	}
}
