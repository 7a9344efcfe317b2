// Package tui provides the Bubble Tea focus timer.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tufocus/internal/model"
	"github.com/verte-zerg/tufocus/internal/nav"
	"github.com/verte-zerg/tufocus/internal/records"
	statsPkg "github.com/verte-zerg/tufocus/internal/stats"
)

// Recorder is the part of the record store the timer needs.
type Recorder interface {
	AddRecord(ctx context.Context, session model.Session) (model.Database, error)
	GetTodaySummary() model.TodaySummary
	GetStatistics() model.Statistics
	Save(ctx context.Context) error
}

// Cache receives the today total after every completed session.
type Cache interface {
	Set(ctx context.Context, key, value string) error
}

type keyMap struct {
	Toggle key.Binding
	Finish key.Binding
	Reset  key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Finish, k.Reset, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultKeys = keyMap{
	Toggle: key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "start/pause")),
	Finish: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finish early")),
	Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "discard")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
	clockStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea focus timer UI.
type Model struct {
	config   model.TimerConfig
	recorder Recorder
	cache    Cache
	logger   hclog.Logger

	keys  keyMap
	help  help.Model
	timer timer.Model

	width  int
	height int

	started   bool
	paused    bool
	startedAt time.Time
	now       func() time.Time

	today   model.TodaySummary
	stats   model.Statistics
	unsaved bool
	lastMsg string
	errMsg  string
}

// NewModel constructs a focus timer model. cache may be nil.
func NewModel(cfg model.TimerConfig, recorder Recorder, cache Cache, logger hclog.Logger) *Model {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	m := &Model{
		config:   cfg,
		recorder: recorder,
		cache:    cache,
		logger:   logger,
		keys:     defaultKeys,
		help:     help.New(),
		now:      time.Now,
	}
	m.resetTimer()
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
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case timer.TimeoutMsg:
		if msg.ID != m.timer.ID() {
			return m, nil
		}
		m.finishSession(m.total())
		return m, nil
	case timer.TickMsg, timer.StartStopMsg:
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.flush()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		if !m.started {
			m.started = true
			m.startedAt = m.now()
			m.errMsg = ""
			return m, m.timer.Init()
		}
		m.paused = !m.paused
		return m, m.timer.Toggle()
	case key.Matches(msg, m.keys.Finish):
		if m.started {
			m.finishSession(m.elapsed())
		}
		return m, nil
	case key.Matches(msg, m.keys.Reset):
		if m.started {
			m.lastMsg = "Session discarded."
			m.resetTimer()
		}
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	lines := []string{
		titleStyle.Render(nav.Index.Title()),
		clockStyle.Render(formatClock(m.timer.Timeout)),
		statusStyle.Render(m.status()),
	}
	if m.lastMsg != "" {
		lines = append(lines, footerStyle.Render(m.lastMsg))
	}
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(m.errMsg))
	}
	lines = append(lines, "", m.help.View(m.keys))
	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter()
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, m.renderFooter())
	return body + "\n" + footerLine
}

func (m *Model) status() string {
	mode := m.config.Mode
	if mode == "" {
		mode = "focus"
	}
	switch {
	case !m.started:
		return fmt.Sprintf("%s · %d min · press space to start", mode, m.config.Minutes)
	case m.paused:
		return fmt.Sprintf("%s · paused", mode)
	default:
		return fmt.Sprintf("%s · running", mode)
	}
}

func (m *Model) renderFooter() string {
	segments := []string{}
	if m.today.HasData() {
		segments = append(segments, fmt.Sprintf("Today %s · %d sessions", statsPkg.FormatMinutes(m.today.TodayTotal), m.today.SessionCount))
	} else {
		segments = append(segments, "Today: no sessions yet")
	}
	if m.stats.RecordDays > 0 {
		segments = append(segments,
			fmt.Sprintf("All-time %s", statsPkg.FormatMinutes(m.stats.TotalMinutes)),
			fmt.Sprintf("Avg %s/day", statsPkg.FormatMinutes(m.stats.DailyAverage)),
			fmt.Sprintf("Best streak %dd", m.stats.LongestStreak),
		)
	}
	footer := strings.Join(segments, "  ")
	if m.width > 0 {
		footer = runewidth.Truncate(footer, m.width, "…")
	}
	return footerStyle.Render(footer)
}

func (m *Model) loadFooterStats() {
	m.today = m.recorder.GetTodaySummary()
	m.stats = m.recorder.GetStatistics()
}

func (m *Model) total() time.Duration {
	return time.Duration(m.config.Minutes) * time.Minute
}

func (m *Model) elapsed() time.Duration {
	return m.total() - m.timer.Timeout
}

func (m *Model) resetTimer() {
	m.timer = timer.NewWithInterval(m.total(), time.Second)
	m.started = false
	m.paused = false
	m.startedAt = time.Time{}
}

func (m *Model) finishSession(elapsed time.Duration) {
	minutes := int(elapsed / time.Minute)
	if minutes < 1 {
		m.lastMsg = "Sessions shorter than a minute are not recorded."
		m.resetTimer()
		return
	}
	session := model.Session{
		ID:        uuid.NewString(),
		StartTime: m.startedAt,
		EndTime:   m.now(),
		Duration:  minutes,
		Mode:      m.config.Mode,
	}
	ctx := context.Background()
	if _, err := m.recorder.AddRecord(ctx, session); err != nil {
		m.logger.Error("failed to save session", "id", session.ID, "error", err)
		m.errMsg = fmt.Sprintf("failed to save session: %v", err)
		m.unsaved = true
	} else {
		m.unsaved = false
		m.lastMsg = fmt.Sprintf("Recorded %s of %s.", statsPkg.FormatMinutes(minutes), session.Mode)
	}
	m.loadFooterStats()
	m.updateCache(ctx)
	m.resetTimer()
}

// flush retries persisting the database after a failed session save.
func (m *Model) flush() {
	if !m.unsaved {
		return
	}
	if err := m.recorder.Save(context.Background()); err != nil {
		m.logger.Error("failed to save database on quit", "error", err)
		return
	}
	m.unsaved = false
}

func (m *Model) updateCache(ctx context.Context) {
	if m.cache == nil || !m.today.HasData() {
		return
	}
	if err := m.cache.Set(ctx, records.TodayTotalKey, strconv.Itoa(m.today.TodayTotal)); err != nil {
		m.logger.Warn("failed to cache today total", "error", err)
	}
}

func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
