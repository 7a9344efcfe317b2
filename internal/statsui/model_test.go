package statsui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tufocus/internal/model"
	"github.com/verte-zerg/tufocus/internal/nav"
)

type fakeSource struct {
	today   string
	records []model.DayRecord
}

func (f fakeSource) Today() string { return f.today }

func (f fakeSource) GetHistoryRecords() []model.DayRecord { return f.records }

func (f fakeSource) GetStatistics() model.Statistics {
	return model.Statistics{TotalMinutes: 70, RecordDays: 2, DailyAverage: 35, LongestStreak: 2}
}

func (f fakeSource) GetTodaySummary() model.TodaySummary {
	return model.TodaySummary{TodayTotal: -1, SessionCount: -1}
}

func (f fakeSource) GetDayRecord(date any) (model.DayRecord, bool) {
	for _, r := range f.records {
		if r.Date == date {
			return r, true
		}
	}
	return model.DayRecord{}, false
}

func (f fakeSource) GetDaySummary(date any) model.DaySummary {
	r, ok := f.GetDayRecord(date)
	if !ok {
		return model.DaySummary{}
	}
	return model.DaySummary{Total: r.Total, SessionCount: len(r.Sessions)}
}

func newTestModel() *Model {
	src := fakeSource{
		today: "2024-01-03",
		records: []model.DayRecord{
			{Date: "2024-01-02", Total: 40, Sessions: []model.Session{{ID: "b", Duration: 40, Mode: "deep"}}},
			{Date: "2024-01-01", Total: 30, Sessions: []model.Session{{ID: "a", Duration: 30, Mode: "focus"}}},
		},
	}
	m := NewModel(src, 7)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTabNavigation(t *testing.T) {
	m := newTestModel()
	if m.router.Current() != nav.Analysis {
		t.Fatalf("expected analysis tab first, got %s", m.router.Current())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.router.Current() != nav.Record {
		t.Fatalf("expected record tab, got %s", m.router.Current())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.router.Current() != nav.About {
		t.Fatalf("expected wrap-around to about, got %s", m.router.Current())
	}
}

func TestOpenDayFromHistory(t *testing.T) {
	m := newTestModel()
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.router.Current() != nav.Detail {
		t.Fatalf("expected detail screen, got %s", m.router.Current())
	}
	if m.selectedDate != "2024-01-02" {
		t.Fatalf("expected newest day selected, got %s", m.selectedDate)
	}
	view := m.View()
	if !strings.Contains(view, "2024-01-02") || !strings.Contains(view, "deep") {
		t.Fatalf("detail view missing day content:\n%s", view)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.router.Current() != nav.Record {
		t.Fatalf("expected back to history, got %s", m.router.Current())
	}
}

func TestDateInputMissingDay(t *testing.T) {
	m := newTestModel()
	m.Update(keyRunes("/"))
	if !m.dateMode {
		t.Fatalf("expected date input mode")
	}
	for _, r := range "2023-12-31" {
		m.Update(keyRunes(string(r)))
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.dateMode {
		t.Fatalf("input should stay open for a day without data")
	}
	if m.dateError != "2023-12-31: 0m, 0 sessions" {
		t.Fatalf("unexpected message: %q", m.dateError)
	}
}

func TestDateInputOpensDay(t *testing.T) {
	m := newTestModel()
	m.Update(keyRunes("/"))
	for _, r := range "2024-01-01" {
		m.Update(keyRunes(string(r)))
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.dateMode || m.router.Current() != nav.Detail || m.selectedDate != "2024-01-01" {
		t.Fatalf("expected detail for 2024-01-01, got mode=%v screen=%s date=%s", m.dateMode, m.router.Current(), m.selectedDate)
	}
}

func TestOverviewShowsStatistics(t *testing.T) {
	m := newTestModel()
	view := m.View()
	for _, want := range []string{"Analysis", "1h 10m", "Longest streak", "Last 7 days"} {
		if !strings.Contains(view, want) {
			t.Fatalf("overview missing %q:\n%s", want, view)
		}
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := truncateLine("abc", 6); got != "abc" {
		t.Fatalf("unexpected truncation: %q", got)
	}
}
