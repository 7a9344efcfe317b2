package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tufocus/internal/model"
	"github.com/verte-zerg/tufocus/internal/records"
)

type fakeRecorder struct {
	sessions []model.Session
	err      error
	saves    int
}

func (f *fakeRecorder) AddRecord(_ context.Context, s model.Session) (model.Database, error) {
	f.sessions = append(f.sessions, s)
	return model.Database{}, f.err
}

func (f *fakeRecorder) GetTodaySummary() model.TodaySummary {
	if len(f.sessions) == 0 {
		return model.TodaySummary{TodayTotal: -1, SessionCount: -1}
	}
	total := 0
	for _, s := range f.sessions {
		total += s.Duration
	}
	return model.TodaySummary{TodayTotal: total, SessionCount: len(f.sessions)}
}

func (f *fakeRecorder) GetStatistics() model.Statistics {
	s := f.GetTodaySummary()
	if !s.HasData() {
		return model.Statistics{}
	}
	return model.Statistics{TotalMinutes: s.TodayTotal, RecordDays: 1, DailyAverage: s.TodayTotal, LongestStreak: 1}
}

func (f *fakeRecorder) Save(_ context.Context) error {
	f.saves++
	return f.err
}

type fakeCache map[string]string

func (c fakeCache) Set(_ context.Context, key, value string) error {
	c[key] = value
	return nil
}

func TestRenderFooterFormats(t *testing.T) {
	m := &Model{
		today: model.TodaySummary{TodayTotal: 75, SessionCount: 3},
		stats: model.Statistics{TotalMinutes: 600, RecordDays: 8, DailyAverage: 75, LongestStreak: 4},
	}
	out := m.renderFooter()
	if !containsAll(out, []string{"Today 1h 15m · 3 sessions", "All-time 10h 00m", "Avg 1h 15m/day", "Best streak 4d"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterNoDataToday(t *testing.T) {
	m := &Model{today: model.TodaySummary{TodayTotal: -1, SessionCount: -1}}
	out := m.renderFooter()
	if !strings.Contains(out, "Today: no sessions yet") {
		t.Fatalf("expected no-data marker, got %s", out)
	}
	if strings.Contains(out, "All-time") {
		t.Fatalf("all-time segment should be hidden without records: %s", out)
	}
}

func TestFinishSessionRecordsAndCaches(t *testing.T) {
	rec := &fakeRecorder{}
	cache := fakeCache{}
	m := NewModel(model.TimerConfig{Minutes: 25, Mode: "focus"}, rec, cache, nil)
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return start }

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.started || !m.startedAt.Equal(start) {
		t.Fatalf("expected timer to start")
	}
	m.finishSession(25 * time.Minute)

	if len(rec.sessions) != 1 {
		t.Fatalf("expected one recorded session, got %d", len(rec.sessions))
	}
	s := rec.sessions[0]
	if s.Duration != 25 || s.Mode != "focus" || s.ID == "" || !s.StartTime.Equal(start) {
		t.Fatalf("unexpected session: %+v", s)
	}
	if cache[records.TodayTotalKey] != "25" {
		t.Fatalf("expected cached today total, got %q", cache[records.TodayTotalKey])
	}
	if m.started {
		t.Fatalf("timer should reset after finishing")
	}
	if !strings.Contains(m.renderFooter(), "Today 25m · 1 sessions") {
		t.Fatalf("footer not refreshed: %s", m.renderFooter())
	}
}

func TestFinishSessionTooShort(t *testing.T) {
	rec := &fakeRecorder{}
	m := NewModel(model.TimerConfig{Minutes: 25}, rec, nil, nil)
	m.finishSession(30 * time.Second)
	if len(rec.sessions) != 0 {
		t.Fatalf("short sessions must not be recorded")
	}
}

func TestFinishSessionSaveError(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("storage write failed")}
	m := NewModel(model.TimerConfig{Minutes: 5, Mode: "focus"}, rec, nil, nil)
	m.finishSession(5 * time.Minute)
	if !strings.Contains(m.errMsg, "failed to save session") {
		t.Fatalf("expected error message, got %q", m.errMsg)
	}
}

func TestQuitRetriesFailedSave(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("storage write failed")}
	m := NewModel(model.TimerConfig{Minutes: 5, Mode: "focus"}, rec, nil, nil)
	m.finishSession(5 * time.Minute)

	rec.err = nil
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if rec.saves != 1 || m.unsaved {
		t.Fatalf("expected one retried save, got saves=%d unsaved=%v", rec.saves, m.unsaved)
	}
}

func TestQuitSkipsSaveWhenPersisted(t *testing.T) {
	rec := &fakeRecorder{}
	m := NewModel(model.TimerConfig{Minutes: 5, Mode: "focus"}, rec, nil, nil)
	m.finishSession(5 * time.Minute)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if rec.saves != 0 {
		t.Fatalf("no save expected, got %d", rec.saves)
	}
}

func TestViewShowsScreenTitle(t *testing.T) {
	m := NewModel(model.TimerConfig{Minutes: 25, Mode: "focus"}, &fakeRecorder{}, nil, nil)
	if !strings.Contains(m.View(), "Timer") {
		t.Fatalf("expected timer title in view:\n%s", m.View())
	}
}

func TestFormatClock(t *testing.T) {
	if got := formatClock(25 * time.Minute); got != "25:00" {
		t.Fatalf("unexpected clock: %s", got)
	}
	if got := formatClock(-time.Second); got != "00:00" {
		t.Fatalf("unexpected clock: %s", got)
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
