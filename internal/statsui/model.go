// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tufocus/internal/model"
	"github.com/verte-zerg/tufocus/internal/nav"
	"github.com/verte-zerg/tufocus/internal/stats"
)

// DefaultChartDays is how many days the analysis chart covers.
const DefaultChartDays = 14

// Source is the read side of the record store.
type Source interface {
	Today() string
	GetHistoryRecords() []model.DayRecord
	GetStatistics() model.Statistics
	GetTodaySummary() model.TodaySummary
	GetDayRecord(date any) (model.DayRecord, bool)
	GetDaySummary(date any) model.DaySummary
}

var tabs = []nav.Destination{nav.Analysis, nav.Record, nav.About}

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
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	source    Source
	router    *nav.Router
	chartDays int

	history []model.DayRecord
	stats   model.Statistics
	today   model.TodaySummary

	overview     viewport.Model
	detail       viewport.Model
	about        viewport.Model
	historyTable table.Model

	selectedDate string

	dateMode  bool
	dateInput textinput.Model
	dateError string

	width  int
	height int
}

// NewModel constructs a stats UI model.
func NewModel(source Source, chartDays int) *Model {
	if chartDays <= 0 {
		chartDays = DefaultChartDays
	}
	m := &Model{
		source:    source,
		router:    nav.NewRouter(nav.Analysis),
		chartDays: chartDays,
		overview:  viewport.New(0, 0),
		detail:    viewport.New(0, 0),
		about:     viewport.New(0, 0),
	}
	m.dateInput = textinput.New()
	m.dateInput.Prompt = "Date (YYYY-MM-DD): "
	m.dateInput.Placeholder = source.Today()
	m.dateInput.Cursor.SetMode(cursor.CursorBlink)
	m.refresh()
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
		m.renderContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.dateMode {
			return m.updateDateInput(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "esc", "backspace":
			m.router.Back()
			return m, nil
		case "r":
			m.refresh()
			return m, nil
		case "/":
			m.dateMode = true
			m.dateError = ""
			m.dateInput.SetValue("")
			return m, m.dateInput.Focus()
		case "enter":
			if m.router.Current() == nav.Record {
				if row := m.historyTable.SelectedRow(); len(row) > 0 {
					m.openDay(row[0])
				}
			}
			return m, nil
		}
		return m.updateActive(msg)
	}
	return m, nil
}

func (m *Model) updateActive(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.router.Current() {
	case nav.Record:
		m.historyTable, cmd = m.historyTable.Update(msg)
	case nav.Detail:
		m.detail, cmd = m.detail.Update(msg)
	case nav.About:
		m.about, cmd = m.about.Update(msg)
	default:
		m.overview, cmd = m.overview.Update(msg)
	}
	return m, cmd
}

func (m *Model) updateDateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.dateMode = false
		m.dateInput.Blur()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.dateInput.Value())
		if value == "" {
			value = m.source.Today()
		}
		if _, err := time.Parse(model.DateLayout, value); err != nil {
			m.dateError = fmt.Sprintf("invalid date %q", value)
			return m, nil
		}
		if _, ok := m.source.GetDayRecord(value); !ok {
			sum := m.source.GetDaySummary(value)
			m.dateError = fmt.Sprintf("%s: %s, %d sessions", value, stats.FormatMinutes(sum.Total), sum.SessionCount)
			return m, nil
		}
		m.dateMode = false
		m.dateInput.Blur()
		m.openDay(value)
		return m, nil
	}
	var cmd tea.Cmd
	m.dateInput, cmd = m.dateInput.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderTabs(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) refresh() {
	m.history = m.source.GetHistoryRecords()
	m.stats = m.source.GetStatistics()
	m.today = m.source.GetTodaySummary()
	m.historyTable = buildHistoryTable(m.history, m.historyTable.Height())
	m.renderContents()
}

func (m *Model) openDay(date string) {
	m.selectedDate = date
	m.router.Push(nav.Detail)
	m.renderContents()
	m.detail.GotoTop()
}

func (m *Model) moveTab(delta int) {
	if m.router.Current() == nav.Detail {
		m.router.Back()
	}
	idx := 0
	for i, tab := range tabs {
		if tab == m.router.Current() {
			idx = i
		}
	}
	idx = (idx + delta + len(tabs)) % len(tabs)
	m.router.Replace(tabs[idx])
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = maxInt(1, lipgloss.Height(activeNavStyle.Render("X")))
	footerHeight = 1
	if m.dateMode {
		footerHeight = 2
		if m.dateError != "" {
			footerHeight = 3
		}
	}
	bodyHeight = maxInt(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for _, vp := range []*viewport.Model{&m.overview, &m.detail, &m.about} {
		vp.Width = m.width
		vp.Height = bodyHeight
	}
	m.historyTable.SetWidth(m.width)
	m.historyTable.SetHeight(bodyHeight)
	m.dateInput.Width = maxInt(10, m.width-lipgloss.Width(m.dateInput.Prompt)-2)
}

func (m *Model) renderContents() {
	m.overview.SetContent(renderOverview(m.history, m.stats, m.today, m.source.Today(), m.chartDays, m.width))
	m.about.SetContent(renderAbout())
	if m.selectedDate != "" {
		r, _ := m.source.GetDayRecord(m.selectedDate)
		if r.Date == "" {
			r.Date = m.selectedDate
		}
		var buf bytes.Buffer
		if err := stats.RenderDay(&buf, r); err != nil {
			m.detail.SetContent(errorStyle.Render(err.Error()))
		} else {
			m.detail.SetContent(strings.TrimRight(buf.String(), "\n"))
		}
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(tabs)+1)
	current := m.router.Current()
	for _, tab := range tabs {
		if tab == current || (current == nav.Detail && tab == nav.Record) {
			parts = append(parts, activeNavStyle.Render(tab.Title()))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab.Title()))
		}
	}
	if current == nav.Detail {
		parts = append(parts, activeNavStyle.Render(nav.Detail.Title()+" "+m.selectedDate))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderBody() string {
	switch m.router.Current() {
	case nav.Record:
		if len(m.history) == 0 {
			return "No history found."
		}
		return m.historyTable.View()
	case nav.Detail:
		return m.detail.View()
	case nav.About:
		return m.about.View()
	default:
		return m.overview.View()
	}
}

func (m *Model) renderFooter() string {
	help := "Nav: left/right  Scroll: up/down  Day: /  Refresh: r  Quit: q"
	switch m.router.Current() {
	case nav.Record:
		help = "Nav: left/right  Select: up/down  Open day: enter  Day: /  Refresh: r  Quit: q"
	case nav.Detail:
		help = "Back: esc  Scroll: up/down  Day: /  Quit: q"
	}
	lines := []string{headerStyle.Render(truncateLine(help, m.width))}
	if m.dateMode {
		lines = append(lines, m.dateInput.View())
		if m.dateError != "" {
			lines = append(lines, errorStyle.Render(m.dateError))
		}
	}
	return strings.Join(lines, "\n")
}

func renderOverview(history []model.DayRecord, st model.Statistics, today model.TodaySummary, todayDate string, days, width int) string {
	cards := []string{
		metricCard("Total", stats.FormatMinutes(st.TotalMinutes)),
		metricCard("Active days", fmt.Sprintf("%d", st.RecordDays)),
		metricCard("Daily avg", stats.FormatMinutes(st.DailyAverage)),
		metricCard("Longest streak", fmt.Sprintf("%dd", st.LongestStreak)),
		metricCard("Current streak", fmt.Sprintf("%dd", stats.CurrentStreak(history, todayDate))),
		metricCard("Today", todayLabel(today)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	if len(history) == 0 {
		return summary + "\n\nNo focus sessions recorded yet."
	}

	end, ok := stats.ParseDate(todayDate)
	if !ok {
		return summary
	}
	from := end.AddDate(0, 0, -(days - 1)).Format(model.DateLayout)
	var buf bytes.Buffer
	title := fmt.Sprintf("Last %d days", days)
	if err := stats.RenderDailyChart(&buf, title, stats.DailySeries(history, from, todayDate), width); err != nil {
		return summary + "\n\n" + errorStyle.Render(err.Error())
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func todayLabel(today model.TodaySummary) string {
	if !today.HasData() {
		return "-"
	}
	return fmt.Sprintf("%s / %d", stats.FormatMinutes(today.TodayTotal), today.SessionCount)
}

func renderAbout() string {
	return strings.Join([]string{
		"tufocus keeps your focus sessions grouped by day.",
		"",
		"Analysis  totals, averages, streaks and a daily chart",
		"History   one row per day, newest first; enter opens the day",
		"Day       the sessions of one day in the order they were recorded",
		"",
		"Records older than the retention window are removed by `tufocus cleanup`.",
	}, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func buildHistoryTable(history []model.DayRecord, height int) table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Total", Width: 8},
		{Title: "Minutes", Width: 7},
		{Title: "Sessions", Width: 8},
	}
	rows := make([]table.Row, 0, len(history))
	for _, r := range history {
		rows = append(rows, table.Row{
			r.Date,
			stats.FormatMinutes(r.Total),
			fmt.Sprintf("%d", r.Total),
			fmt.Sprintf("%d", len(r.Sessions)),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(maxInt(1, height)),
		table.WithStyles(historyTableStyles()),
	)
	return t
}

func historyTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
