// Package gradingui provides the Bubble Tea grading dashboard.
package gradingui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/peercount/internal/config"
	"github.com/verte-zerg/peercount/internal/model"
	"github.com/verte-zerg/peercount/internal/participation"
	"github.com/verte-zerg/peercount/internal/report"
)

const (
	tabRanked = iota
	tabStudent
)

const (
	fieldSince = iota
	fieldUntil
	fieldThreshold
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
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea grading dashboard.
type Model struct {
	src report.Source
	svc *participation.Service

	report  report.Report
	errMsg  string
	student string

	tabs      []string
	activeTab int
	ranked    table.Model
	detail    viewport.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a dashboard over src. The service keeps the threshold and window.
func NewModel(src report.Source, svc *participation.Service) *Model {
	m := &Model{
		src:    src,
		svc:    svc,
		tabs:   []string{"Ranked", "Student"},
		detail: viewport.New(0, 0),
	}
	m.initInputs()
	m.ranked = buildRankedTable(nil, 80, 10)
	m.reload()
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
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.filterMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "left", "h", "right", "l", "tab":
			m.moveTab()
			return m, tea.ClearScreen
		case "esc":
			if m.activeTab == tabStudent {
				m.moveTab()
			}
			return m, nil
		case "enter":
			if m.activeTab == tabRanked {
				m.openSelected()
			}
			return m, nil
		case "+", "=":
			m.adjustThreshold(1)
			return m, nil
		case "-":
			m.adjustThreshold(-1)
			return m, nil
		case "r":
			m.reload()
			return m, nil
		case "/":
			return m.startFilter()
		default:
			var cmd tea.Cmd
			if m.activeTab == tabRanked {
				m.ranked, cmd = m.ranked.Update(msg)
			} else {
				m.detail, cmd = m.detail.Update(msg)
			}
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Until (YYYY-MM-DD): "),
		newFilterInput("Threshold: "),
	}
	m.setInputsFromService()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromService() {
	w := m.svc.DateWindow()
	m.filterInputs[fieldSince].SetValue(formatDate(w.Start))
	m.filterInputs[fieldUntil].SetValue(formatDate(w.End))
	m.filterInputs[fieldThreshold].SetValue(strconv.Itoa(m.svc.RequiredThreshold()))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.detail.Width = m.width
	m.detail.Height = bodyHeight
	m.rebuildRanked(m.width, bodyHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
	m.renderDetail()
}

func (m *Model) moveTab() {
	if m.activeTab == tabRanked {
		m.activeTab = tabStudent
		m.ranked.Blur()
		return
	}
	m.activeTab = tabRanked
	m.ranked.Focus()
}

// reload re-reads the board and recomputes with the current settings.
func (m *Model) reload() {
	if err := report.Load(context.Background(), m.src, m.svc); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.recompute()
}

// recompute re-summarizes the held snapshot after a settings change.
func (m *Model) recompute() {
	m.report = report.Summarize(m.svc)
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, height, _ := m.layoutHeights()
	m.rebuildRanked(width, height)
	m.renderDetail()
}

// rebuildRanked replaces the ranked table, keeping the selected row and focus.
func (m *Model) rebuildRanked(width, height int) {
	selected := m.ranked.Cursor()
	focused := m.ranked.Focused()
	m.ranked = buildRankedTable(m.report.Ranked, width, height)
	if selected < len(m.report.Ranked) {
		m.ranked.SetCursor(selected)
	}
	if !focused {
		m.ranked.Blur()
	}
}

func (m *Model) openSelected() {
	row := m.ranked.SelectedRow()
	if len(row) < 2 {
		return
	}
	m.student = row[1]
	m.renderDetail()
	m.detail.GotoTop()
	m.moveTab()
}

func (m *Model) adjustThreshold(delta int) {
	next := m.svc.RequiredThreshold() + delta
	if err := m.svc.SetRequiredThreshold(next); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.setInputsFromService()
	m.recompute()
}

func (m *Model) renderDetail() {
	if m.student == "" {
		m.detail.SetContent("Select a student on the Ranked tab and press enter.")
		return
	}
	d, err := report.BuildStudentDetail(m.svc, m.student)
	if err != nil {
		m.detail.SetContent(fmt.Sprintf("Failed to load student: %v", err))
		return
	}
	var buf bytes.Buffer
	if err := report.RenderStudent(&buf, d, m.width); err != nil {
		m.detail.SetContent(fmt.Sprintf("Failed to render student: %v", err))
		return
	}
	m.detail.SetContent(strings.TrimRight(buf.String(), "\n"))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == tabStudent && m.student != "" {
			tab = "Student: " + m.student
		}
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	return tabs + "\n" + padLine(m.renderSettingsSummary(), m.width)
}

func (m *Model) renderSettingsSummary() string {
	summary := fmt.Sprintf("Settings: threshold=%d  window=%s  students=%d  meeting=%d  needs more=%d",
		m.report.Threshold, m.report.Window, len(m.report.Ranked), m.report.Meeting, m.report.NotMeeting)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Nav: left/right  Open: enter  Threshold: -/+  Settings: /  Reload: r  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(truncateLine(m.errMsg, m.width))
	}
	return help
}

func (m *Model) renderBody() string {
	if m.filterMode {
		lines := []string{"Settings (enter to apply, esc to cancel)"}
		for _, input := range m.filterInputs {
			lines = append(lines, input.View())
		}
		if m.filterError != "" {
			lines = append(lines, errorStyle.Render(m.filterError))
		}
		return strings.Join(lines, "\n")
	}
	if m.activeTab == tabStudent {
		return m.detail.View()
	}
	if len(m.report.Ranked) == 0 {
		return "No qualifying replies found."
	}
	return tableMutedStyle.Render(m.ranked.View())
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromService()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case "tab", "down":
		return m, m.setFilterIndex((m.filterIndex + 1) % len(m.filterInputs))
	case "shift+tab", "up":
		return m, m.setFilterIndex((m.filterIndex - 1 + len(m.filterInputs)) % len(m.filterInputs))
	case "enter":
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	m.filterIndex = idx
	var cmds []tea.Cmd
	for i := range m.filterInputs {
		if i == idx {
			cmds = append(cmds, m.filterInputs[i].Focus())
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return tea.Batch(cmds...)
}

// applyFilter validates every field before touching the service.
func (m *Model) applyFilter() error {
	since, err := config.ParseDate(strings.TrimSpace(m.filterInputs[fieldSince].Value()))
	if err != nil {
		return fmt.Errorf("invalid since date: %w", err)
	}
	until, err := config.ParseDate(strings.TrimSpace(m.filterInputs[fieldUntil].Value()))
	if err != nil {
		return fmt.Errorf("invalid until date: %w", err)
	}
	if since != nil && until != nil && until.Before(*since) {
		return errors.New("until must not be before since")
	}
	threshold, err := strconv.Atoi(strings.TrimSpace(m.filterInputs[fieldThreshold].Value()))
	if err != nil || threshold < 1 {
		return errors.New("threshold must be a whole number >= 1")
	}
	if err := m.svc.SetRequiredThreshold(threshold); err != nil {
		return err
	}
	m.svc.SetDateWindow(model.DayWindow(since, until))
	m.recompute()
	return nil
}

func buildRankedTable(records []model.ParticipationRecord, width, height int) table.Model {
	nameWidth := maxInt(12, width-40)
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Student", Width: nameWidth},
		{Title: "Distinct Peers", Width: 14},
		{Title: "Status", Width: 10},
	}
	rows := make([]table.Row, 0, len(records))
	for i, rec := range records {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			rec.Student,
			strconv.Itoa(rec.DistinctPeers),
			report.Status(rec),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(maxInt(1, height-1)),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#5A4A2A")).
		Bold(false)
	t.SetStyles(styles)
	return t
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(config.DateLayout)
}
