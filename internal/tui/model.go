// Package tui provides the Bubble Tea drawing interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/kakite/internal/generator"
	"github.com/verte-zerg/kakite/internal/geom"
	"github.com/verte-zerg/kakite/internal/grade"
	"github.com/verte-zerg/kakite/internal/model"
	statsPkg "github.com/verte-zerg/kakite/internal/stats"
	"github.com/verte-zerg/kakite/internal/store"
)

// Rows around the canvas: title, blank, two border rows, feedback (2),
// blank, footer and help.
const (
	headerRows   = 2
	reservedRows = headerRows + 2 + 2 + 3
)

// Model implements the Bubble Tea practice UI.
type Model struct {
	config            model.PracticeConfig
	store             *store.Store
	gen               *generator.Generator
	pool              []grade.Character
	weakSet           map[string]struct{}
	weakNoticePrinted bool

	width  int
	height int
	grid   grid

	queue   []grade.Character
	pos     int
	current grade.Character
	trace   bool

	strokes   [][]geom.Point
	active    []geom.Point
	drawing   bool
	started   bool
	startedAt time.Time
	result    *grade.Result

	lastScore   int
	hasLast     bool
	allAttempts int
	allScoreSum int
	allPassed   int
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	meaningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	guideStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A"))
	midlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2A2A2A"))
	inkStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	goodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#4A4A4A"))
)

// NewModel constructs a practice TUI model. pool must not be empty.
func NewModel(cfg model.PracticeConfig, store *store.Store, gen *generator.Generator, pool []grade.Character, weakSet map[string]struct{}, weakNoticePrinted bool) *Model {
	m := &Model{
		config:            cfg,
		store:             store,
		gen:               gen,
		pool:              pool,
		weakSet:           weakSet,
		weakNoticePrinted: weakNoticePrinted,
		trace:             cfg.Trace,
		grid:              grid{size: minGridSize, canvasSize: cfg.CanvasSize},
	}
	if m.grid.canvasSize <= 0 {
		m.grid.canvasSize = 109
	}
	m.refillQueue()
	m.loadFooterStats()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.grid.size = gridSizeFor(msg.Width, msg.Height, reservedRows)
		return m, nil
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if m.result != nil {
				m.advance()
			} else {
				m.gradeDrawing()
			}
		case "u":
			m.undo()
		case "c":
			m.clear()
		case "n":
			m.advance()
		case "t":
			m.trace = !m.trace
		}
		return m, nil
	default:
		return m, nil
	}
}

// canvasOrigin returns the terminal cell of grid cell (0,0).
func (m *Model) canvasOrigin() (int, int) {
	boxWidth := m.grid.size*cellColumns + 2
	return max((m.width-boxWidth)/2, 0) + 1, headerRows + 1
}

// cellAt maps a terminal cell to a grid cell.
func (m *Model) cellAt(x, y int) (int, int, bool) {
	left, top := m.canvasOrigin()
	cx := x - left
	cy := y - top
	if cx < 0 || cy < 0 {
		return 0, 0, false
	}
	cx /= cellColumns
	if cx >= m.grid.size || cy >= m.grid.size {
		return 0, 0, false
	}
	return cx, cy, true
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.result != nil {
		return
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		cx, cy, ok := m.cellAt(msg.X, msg.Y)
		if !ok {
			return
		}
		if !m.started {
			m.started = true
			m.startedAt = time.Now()
		}
		m.drawing = true
		m.active = []geom.Point{m.stamp(cx, cy)}
	case tea.MouseActionMotion:
		if !m.drawing {
			return
		}
		if cx, cy, ok := m.cellAt(msg.X, msg.Y); ok {
			p := m.stamp(cx, cy)
			if last := m.active[len(m.active)-1]; last.X != p.X || last.Y != p.Y {
				m.active = append(m.active, p)
			}
		}
	case tea.MouseActionRelease:
		if !m.drawing {
			return
		}
		m.drawing = false
		m.strokes = append(m.strokes, m.active)
		m.active = nil
	}
}

func (m *Model) stamp(cx, cy int) geom.Point {
	p := m.grid.point(cx, cy)
	p.T = time.Since(m.startedAt).Milliseconds()
	return p
}

func (m *Model) undo() {
	if m.result != nil || len(m.strokes) == 0 {
		return
	}
	m.strokes = m.strokes[:len(m.strokes)-1]
}

func (m *Model) clear() {
	m.strokes = nil
	m.active = nil
	m.drawing = false
	m.started = false
	m.result = nil
}

func (m *Model) gradeDrawing() {
	if len(m.strokes) == 0 {
		return
	}
	endedAt := time.Now()
	res := grade.ValidateWith(m.strokes, m.current, m.grid.canvasSize, m.config.Grading)
	m.result = &res

	m.lastScore = res.OverallScore
	m.hasLast = true
	m.allAttempts++
	m.allScoreSum += res.OverallScore
	if res.OverallMatch {
		m.allPassed++
	}
	if m.store == nil {
		return
	}
	attempt, strokes := model.NewAttempt(m.current, res, m.startedAt, endedAt)
	if _, err := m.store.InsertAttempt(context.Background(), attempt, strokes); err != nil {
		logErrf("failed to save attempt: %v\n", err)
	}
}

func (m *Model) advance() {
	m.clear()
	m.pos++
	if m.pos >= len(m.queue) {
		if m.config.FocusWeak {
			m.refreshWeakSet()
		}
		m.refillQueue()
		return
	}
	m.current = m.queue[m.pos]
}

func (m *Model) refillQueue() {
	count := max(m.config.Count, 1)
	if m.config.FocusWeak && len(m.weakSet) > 0 {
		m.queue = m.gen.NextWeighted(m.pool, count, m.weakSet, m.config.WeakFactor)
	} else {
		m.queue = m.gen.Next(m.pool, count)
	}
	m.pos = 0
	if len(m.queue) > 0 {
		m.current = m.queue[0]
	}
}

func (m *Model) refreshWeakSet() {
	if m.store == nil {
		return
	}
	aggs, err := m.store.GetWeakChars(context.Background(), m.config.WeakWindow, m.config.Level)
	if err != nil {
		logErrf("failed to load weak chars: %v\n", err)
		return
	}
	if len(aggs) == 0 {
		if !m.weakNoticePrinted {
			logErrln("no stats available for weak-char focus yet; using uniform queue")
			m.weakNoticePrinted = true
		}
		m.weakSet = map[string]struct{}{}
		return
	}
	m.weakSet = statsPkg.SelectWeakChars(aggs, m.config.WeakTop)
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	attempts, err := m.store.ListAttempts(context.Background(), model.StatsConfig{Level: m.config.Level})
	if err != nil {
		logErrf("failed to load attempt stats: %v\n", err)
		return
	}
	if len(attempts) == 0 {
		return
	}
	m.lastScore = attempts[len(attempts)-1].Score
	m.hasLast = true
	for _, a := range attempts {
		m.allAttempts++
		m.allScoreSum += a.Score
		if a.Passed {
			m.allPassed++
		}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if len(m.current.Strokes) == 0 {
		return ""
	}
	boxWidth := m.grid.size*cellColumns + 2
	left, _ := m.canvasOrigin()
	indent := lipgloss.NewStyle().MarginLeft(left - 1)

	lines := []string{
		indent.Render(m.renderTitle(boxWidth)),
		"",
		indent.Render(boxStyle.Render(m.renderCanvas())),
		indent.Render(m.renderFeedback(boxWidth)),
		"",
		indent.Render(m.renderFooter()),
		indent.Render(footerStyle.Render("enter grade · u undo · c clear · n next · t trace · esc quit")),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderTitle(width int) string {
	var meta []string
	if m.current.Meaning != "" {
		meta = append(meta, m.current.Meaning)
	}
	if m.current.Level != "" {
		meta = append(meta, m.current.Level)
	}
	meta = append(meta, fmt.Sprintf("%d strokes", len(m.current.Strokes)))
	info := strings.Join(meta, " · ")
	pad := centerPad(m.current.Char+"  "+info, width)
	return pad + titleStyle.Render(m.current.Char) + "  " + meaningStyle.Render(info)
}

func (m *Model) renderCanvas() string {
	r := m.grid.newRaster()
	if m.trace {
		m.grid.guide(r, m.current)
	}
	for i, s := range m.strokes {
		m.grid.polyline(r, s, m.grid.canvasSize, m.strokeKind(i))
	}
	m.grid.polyline(r, m.active, m.grid.canvasSize, cellActive)
	return r.render()
}

func (m *Model) strokeKind(i int) cellKind {
	if m.result == nil {
		return cellInk
	}
	if i < len(m.result.PerStroke) {
		s := m.result.PerStroke[i]
		if s.DirectionMatch && s.OrderCorrect {
			return cellGood
		}
	}
	return cellBad
}

func (m *Model) renderFeedback(width int) string {
	if m.result == nil {
		return footerStyle.Render(fmt.Sprintf("Strokes %d/%d", len(m.strokes), len(m.current.Strokes)))
	}
	res := m.result
	verdict := badStyle.Render("RETRY")
	if res.OverallMatch {
		verdict = goodStyle.Render("PASS")
	}
	head := fmt.Sprintf("Score %d %s  order %s  strokes %d/%d",
		res.OverallScore, verdict, mark(res.StrokeOrderCorrect), res.ActualStrokes, res.ExpectedStrokes)
	segs := make([]segment, 0, len(res.PerStroke))
	for i, s := range res.PerStroke {
		style := goodStyle.Render
		if !s.DirectionMatch || !s.OrderCorrect {
			style = badStyle.Render
		}
		segs = append(segs, newSegment(fmt.Sprintf("%d %s %.0f%%", i+1, mark(s.DirectionMatch), s.SpatialAccuracy*100), style))
	}
	if len(segs) == 0 {
		return head
	}
	return head + "\n" + wrapSegments(segs, "  ", width)
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func (m *Model) renderFooter() string {
	segments := []string{fmt.Sprintf("Char %d/%d", m.pos+1, len(m.queue))}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %d", m.lastScore))
	}
	if m.allAttempts > 0 {
		mean := float64(m.allScoreSum) / float64(m.allAttempts)
		pass := float64(m.allPassed) / float64(m.allAttempts) * 100
		segments = append(segments, fmt.Sprintf("All-time %.1f · %.0f%% pass", mean, pass))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
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
