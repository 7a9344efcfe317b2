package stats

import (
	"math"
	"sort"
	"time"

	"github.com/verte-zerg/tufocus/internal/model"
)

// Recompute derives statistics from the day records. It does not modify
// the input.
func Recompute(records []model.DayRecord) model.Statistics {
	if len(records) == 0 {
		return model.Statistics{}
	}
	sorted := sortedByDate(records)

	var out model.Statistics
	out.RecordDays = len(sorted)
	current := 0
	var prev time.Time
	prevOK := false
	for _, r := range sorted {
		out.TotalMinutes += r.Total

		day, ok := ParseDate(r.Date)
		if prevOK && ok && isNextDay(prev, day) {
			current++
		} else {
			current = 1
		}
		if current > out.LongestStreak {
			out.LongestStreak = current
		}
		prev, prevOK = day, ok
	}
	out.DailyAverage = int(math.Round(float64(out.TotalMinutes) / float64(out.RecordDays)))
	return out
}

// CurrentStreak returns the length of the consecutive-day run ending today,
// or ending yesterday when nothing has been recorded today yet.
func CurrentStreak(records []model.DayRecord, today string) int {
	days := make(map[string]struct{}, len(records))
	for _, r := range records {
		days[r.Date] = struct{}{}
	}
	day, ok := ParseDate(today)
	if !ok {
		return 0
	}
	if _, ok := days[today]; !ok {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for {
		if _, ok := days[day.Format(model.DateLayout)]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// ParseDate parses a canonical YYYY-MM-DD date as a UTC midnight.
func ParseDate(value string) (time.Time, bool) {
	t, err := time.Parse(model.DateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func isNextDay(prev, cur time.Time) bool {
	return prev.AddDate(0, 0, 1).Equal(cur)
}

func sortedByDate(records []model.DayRecord) []model.DayRecord {
	sorted := make([]model.DayRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})
	return sorted
}
