// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/tufocus/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// DayPoint is one calendar day of a zero-filled daily series.
type DayPoint struct {
	Date    string
	Minutes int
}

// DailySeries returns minutes per day for every date in [from, to], filling
// days without a record with zero. Dates are canonical YYYY-MM-DD strings.
func DailySeries(records []model.DayRecord, from, to string) []DayPoint {
	start, ok := ParseDate(from)
	if !ok {
		return nil
	}
	end, ok := ParseDate(to)
	if !ok || end.Before(start) {
		return nil
	}
	totals := make(map[string]int, len(records))
	for _, r := range records {
		totals[r.Date] += r.Total
	}
	var out []DayPoint
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format(model.DateLayout)
		out = append(out, DayPoint{Date: key, Minutes: totals[key]})
	}
	return out
}

// SeriesValues extracts the minute values of a daily series.
func SeriesValues(points []DayPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = float64(p.Minutes)
	}
	return out
}

// FormatMinutes renders minutes as "1h 05m" or "45m".
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

// RenderSummary prints the derived statistics.
func RenderSummary(w io.Writer, st model.Statistics) error {
	if st.RecordDays == 0 {
		_, err := fmt.Fprintln(w, "No focus sessions recorded yet.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Total focus: %s (%d min)", FormatMinutes(st.TotalMinutes), st.TotalMinutes),
		fmt.Sprintf("Active days: %d", st.RecordDays),
		fmt.Sprintf("Daily average: %s", FormatMinutes(st.DailyAverage)),
		fmt.Sprintf("Longest streak: %d days", st.LongestStreak),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistory prints one row per day, in the order given.
func RenderHistory(w io.Writer, records []model.DayRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No history found.")
		return err
	}
	headers := []string{"Date", "Total", "Minutes", "Sessions"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Date,
			FormatMinutes(r.Total),
			fmt.Sprintf("%d", r.Total),
			fmt.Sprintf("%d", len(r.Sessions)),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderDay prints the sessions of a single day in insertion order.
func RenderDay(w io.Writer, r model.DayRecord) error {
	if _, err := fmt.Fprintf(w, "%s  total %s  sessions %d\n", r.Date, FormatMinutes(r.Total), len(r.Sessions)); err != nil {
		return err
	}
	if len(r.Sessions) == 0 {
		return nil
	}
	headers := []string{"#", "Start", "End", "Minutes", "Mode"}
	rows := make([][]string, 0, len(r.Sessions))
	for i, s := range r.Sessions {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			clockTime(s.StartTime),
			clockTime(s.EndTime),
			fmt.Sprintf("%d", s.Duration),
			s.Mode,
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{0: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func clockTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("15:04")
}
