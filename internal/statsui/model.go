// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/kakite/internal/model"
	"github.com/verte-zerg/kakite/internal/stats"
	"github.com/verte-zerg/kakite/internal/store"
)

const (
	tabOverview = iota
	tabCharTable
	tabCharCurves
)

const (
	plotHeight   = 10
	defaultWidth = 80
	topChars     = 5
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	charTable table.Model

	width  int
	height int

	filter filterForm

	charSelection []string
	charCustom    bool
	charInputMode bool
	charInput     textinput.Model
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store:     st,
		cfg:       cfg,
		tabs:      []string{"Overview", "Char Table", "Char Curves"},
		filter:    newFilterForm(),
		charInput: newInput("Chars: "),
		charTable: table.New(table.WithColumns(charColumns()), table.WithHeight(1)),
	}
	m.charTable.SetStyles(charTableStyles())
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.refreshReport()
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
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filter.active {
			return m.updateFilter(msg)
		}
		if m.charInputMode {
			return m.updateCharInput(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h":
		m.moveTab(-1)
		return m, tea.ClearScreen
	case "right", "l", "tab":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "=":
		m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
		m.refreshReport()
		return m, nil
	case "-":
		m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
		m.refreshReport()
		return m, nil
	case "/":
		m.filter.load(m.cfg)
		return m, m.filter.focus(0)
	case "enter":
		if m.activeTab == tabCharCurves {
			m.charInputMode = true
			m.charInput.SetValue(strings.Join(m.charSelection, ""))
			return m, m.charInput.Focus()
		}
		return m, nil
	}
	if m.activeTab == tabCharTable {
		var cmd tea.Cmd
		m.charTable, cmd = m.charTable.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
	return m, cmd
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filter.close()
		return m, nil
	case tea.KeyEnter:
		cfg, err := m.filter.apply()
		if err != nil {
			m.filter.err = err.Error()
			return m, nil
		}
		m.filter.close()
		m.cfg = cfg
		m.refreshReport()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.filter.focus(m.filter.index + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.filter.focus(m.filter.index - 1)
	}
	return m, m.filter.update(msg)
}

func (m *Model) updateCharInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.charInputMode = false
		m.charInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.charInputMode = false
		m.charInput.Blur()
		m.charSelection = splitChars(m.charInput.Value())
		m.charCustom = len(m.charSelection) > 0
		if !m.charCustom {
			m.charSelection = stats.TopCharsByAttempts(m.report.CharAggsAll, topChars)
		}
		m.renderTabContents()
		return m, nil
	}
	var cmd tea.Cmd
	m.charInput, cmd = m.charInput.Update(msg)
	return m, cmd
}

func (m *Model) moveTab(delta int) {
	m.activeTab = (m.activeTab + delta + len(m.tabs)) % len(m.tabs)
	if m.activeTab == tabCharTable {
		m.charTable.Focus()
	} else {
		m.charTable.Blur()
	}
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.renderTabContents()
		return
	}
	m.errMsg = ""
	m.report = report
	if !m.charCustom {
		m.charSelection = stats.TopCharsByAttempts(report.CharAggsAll, topChars)
	}
	m.charTable.SetRows(charRows(report.CharAggsWindow))
	m.updateLayout()
	m.renderTabContents()
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m *Model) layoutHeights() (header, body, footer int) {
	header = lipgloss.Height(activeNavStyle.Render("X")) + 1
	footer = 1
	if m.errMsg != "" && !m.filter.active {
		footer++
	}
	body = max(m.height-header-footer, 1)
	return header, body, footer
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, body, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = body
	}
	m.charTable.SetWidth(m.width)
	m.charTable.SetHeight(body)
	m.filter.setWidth(m.width)
	m.charInput.Width = max(10, m.width-lipgloss.Width(m.charInput.Prompt)-2)
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	width := m.contentWidth()
	m.viewports[tabOverview].SetContent(renderOverview(m.report, m.cfg.CurveWindow, width))
	m.viewports[tabCharCurves].SetContent(renderCharCurves(m.report, m.charSelection, m.cfg.CurveWindow, width))
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderTabs()+"\n"+m.renderSettings(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) renderTabs() string {
	parts := make([]string, len(m.tabs))
	for i, tab := range m.tabs {
		style := inactiveNavStyle
		if i == m.activeTab {
			style = activeNavStyle
		}
		parts[i] = style.Render(tab)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderSettings() string {
	level, char, since, last := "any", "any", "any", "all"
	if m.cfg.Level != "" {
		level = m.cfg.Level
	}
	if m.cfg.Char != "" {
		char = m.cfg.Char
	}
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format(dateLayout)
	}
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Settings: level=%s  char=%s  since=%s  last=%s  window=%d", level, char, since, last, m.cfg.CurveWindow)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderBody() string {
	switch {
	case m.filter.active:
		return m.filter.view()
	case m.charInputMode:
		return strings.Join([]string{
			cardValueStyle.Render("Select Characters"),
			m.charInput.View(),
			headerStyle.Render("Type the characters to plot. Empty resets to the most practised."),
		}, "\n")
	case m.activeTab == tabCharTable:
		if len(m.report.CharAggsWindow) == 0 {
			return "No character stats found."
		}
		return tableMutedStyle.Render(m.charTable.View())
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) renderFooter() string {
	var help string
	switch {
	case m.filter.active:
		help = "tab/shift+tab: next field  enter: apply  esc: cancel"
	case m.charInputMode:
		help = "enter: apply  esc: cancel"
	case m.activeTab == tabCharCurves:
		help = "Nav: left/right  Scroll: up/down  Chars: enter  Window: -/=  Settings: /  Quit: q"
	default:
		help = "Nav: left/right  Scroll: up/down  Window: -/=  Settings: /  Quit: q"
	}
	out := headerStyle.Render(help)
	if m.errMsg != "" && !m.filter.active {
		out += "\n" + errorStyle.Render(m.errMsg)
	}
	return out
}

func renderOverview(report stats.Report, window, width int) string {
	if len(report.Attempts) == 0 {
		return "No attempts found."
	}
	metrics := stats.AttemptMetrics(report.Attempts)
	cards := []string{
		metricCard("Attempts", strconv.Itoa(metrics.Attempts)),
		metricCard("Characters", strconv.Itoa(metrics.DistinctChars)),
		metricCard("Avg Score", fmt.Sprintf("%.1f", metrics.MeanScore)),
		metricCard("Best", strconv.Itoa(metrics.BestScore)),
		metricCard("Pass", fmt.Sprintf("%.0f%%", metrics.PassRate*100)),
		metricCard("Order OK", fmt.Sprintf("%.0f%%", metrics.OrderRate*100)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		summary = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, cards[:3]...),
			lipgloss.JoinHorizontal(lipgloss.Top, cards[3:]...))
	}
	var buf bytes.Buffer
	if err := stats.RenderCurves(&buf, report.Attempts, window, width, plotHeight, true); err != nil {
		return summary + "\n\n" + fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func renderCharCurves(report stats.Report, chars []string, window, width int) string {
	if len(report.Attempts) == 0 {
		return "No attempts found."
	}
	if len(chars) == 0 {
		return "No characters selected. Press Enter to set chars."
	}
	var buf bytes.Buffer
	buf.WriteString(headerStyle.Render("Chars: "+strings.Join(chars, " ")) + "\n")
	if err := stats.RenderCharCurves(&buf, report.Attempts, chars, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render character curves: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func charColumns() []table.Column {
	widths := []int{6, 9, 10, 6, 10, 8}
	cols := make([]table.Column, len(stats.CharTableHeaders))
	for i, title := range stats.CharTableHeaders {
		cols[i] = table.Column{Title: title, Width: widths[i]}
	}
	return cols
}

func charRows(aggs []model.CharAggregate) []table.Row {
	raw := stats.CharTableRows(aggs)
	rows := make([]table.Row, len(raw))
	for i, r := range raw {
		rows[i] = table.Row(r)
	}
	return rows
}

func charTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		PaddingLeft(0)
	styles.Cell = styles.Cell.PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return n / 5 * 5
}
