package stats

import (
	"testing"

	"github.com/verte-zerg/tufocus/internal/model"
)

func day(date string, total int) model.DayRecord {
	return model.DayRecord{Date: date, Total: total, Sessions: []model.Session{{Duration: total}}}
}

func TestRecomputeEmpty(t *testing.T) {
	got := Recompute(nil)
	if got != (model.Statistics{}) {
		t.Fatalf("expected zero statistics, got %+v", got)
	}
}

func TestRecomputeConsecutiveDays(t *testing.T) {
	records := []model.DayRecord{
		day("2024-01-03", 10),
		day("2024-01-01", 10),
		day("2024-01-05", 10),
		day("2024-01-02", 10),
		day("2024-01-04", 10),
	}
	got := Recompute(records)
	if got.LongestStreak != 5 {
		t.Fatalf("expected streak 5, got %d", got.LongestStreak)
	}
	if got.TotalMinutes != 50 || got.RecordDays != 5 || got.DailyAverage != 10 {
		t.Fatalf("unexpected statistics: %+v", got)
	}
	if records[0].Date != "2024-01-03" {
		t.Fatalf("input was reordered: %v", records[0].Date)
	}
}

func TestRecomputeGapBreaksStreak(t *testing.T) {
	got := Recompute([]model.DayRecord{day("2024-01-01", 5), day("2024-01-03", 5)})
	if got.LongestStreak != 1 {
		t.Fatalf("expected streak 1, got %d", got.LongestStreak)
	}
}

func TestRecomputeLongestOfSeveralRuns(t *testing.T) {
	got := Recompute([]model.DayRecord{
		day("2024-01-01", 1),
		day("2024-01-02", 1),
		day("2024-01-10", 1),
		day("2024-01-11", 1),
		day("2024-01-12", 1),
		day("2024-02-01", 1),
	})
	if got.LongestStreak != 3 {
		t.Fatalf("expected streak 3, got %d", got.LongestStreak)
	}
}

func TestRecomputeStreakAcrossMonthAndLeapDay(t *testing.T) {
	got := Recompute([]model.DayRecord{
		day("2024-02-28", 1),
		day("2024-02-29", 1),
		day("2024-03-01", 1),
	})
	if got.LongestStreak != 3 {
		t.Fatalf("expected streak 3, got %d", got.LongestStreak)
	}
}

func TestRecomputeRoundsAverage(t *testing.T) {
	got := Recompute([]model.DayRecord{
		day("2024-01-01", 20),
		day("2024-01-02", 20),
		day("2024-01-03", 25),
		day("2024-01-04", 25),
	})
	if got.TotalMinutes != 90 || got.RecordDays != 4 {
		t.Fatalf("unexpected totals: %+v", got)
	}
	if got.DailyAverage != 23 {
		t.Fatalf("expected average 23, got %d", got.DailyAverage)
	}
}

func TestRecomputeUnparsableDateBreaksStreak(t *testing.T) {
	got := Recompute([]model.DayRecord{
		day("2024-01-01", 1),
		day("2024-01-02", 1),
		day("garbage", 1),
	})
	if got.LongestStreak != 2 {
		t.Fatalf("expected streak 2, got %d", got.LongestStreak)
	}
	if got.RecordDays != 3 {
		t.Fatalf("expected 3 record days, got %d", got.RecordDays)
	}
}

func TestCurrentStreak(t *testing.T) {
	records := []model.DayRecord{
		day("2024-01-01", 1),
		day("2024-01-03", 1),
		day("2024-01-04", 1),
	}
	if got := CurrentStreak(records, "2024-01-04"); got != 2 {
		t.Fatalf("expected streak ending today 2, got %d", got)
	}
	if got := CurrentStreak(records, "2024-01-05"); got != 2 {
		t.Fatalf("expected streak ending yesterday 2, got %d", got)
	}
	if got := CurrentStreak(records, "2024-01-07"); got != 0 {
		t.Fatalf("expected broken streak 0, got %d", got)
	}
}
