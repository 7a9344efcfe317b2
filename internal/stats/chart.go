package stats

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	barFull             = '█'
	minBarWidth         = 10
	terminalWidthBackup = 80
	barColor            = "\x1b[33m"
	colorReset          = "\x1b[0m"
)

// eighth blocks, index n draws n/8 of a cell.
var barPartials = []rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉'}

// RenderDailyChart prints one horizontal bar per day scaled to the busiest
// day. A width of 0 sizes the chart to the terminal.
func RenderDailyChart(w io.Writer, title string, points []DayPoint, width int) error {
	return renderDailyChart(w, title, points, width, false)
}

// RenderDailyChartWithColor is RenderDailyChart with optional forced color.
func RenderDailyChartWithColor(w io.Writer, title string, points []DayPoint, width int, forceColor bool) error {
	return renderDailyChart(w, title, points, width, forceColor)
}

func renderDailyChart(w io.Writer, title string, points []DayPoint, width int, forceColor bool) error {
	if len(points) == 0 {
		return nil
	}
	if width <= 0 {
		width = terminalWidth()
	}
	maxMinutes := 0
	for _, p := range points {
		maxMinutes = max(maxMinutes, p.Minutes)
	}
	labelWidth := len(FormatMinutes(maxMinutes))
	// "MM-DD " prefix plus " <label>" suffix.
	barWidth := max(width-6-1-labelWidth, minBarWidth)
	useColor := shouldUseColor(w, forceColor)

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for _, p := range points {
		bar := renderBar(p.Minutes, maxMinutes, barWidth)
		if useColor && bar != "" {
			bar = barColor + bar + colorReset
		}
		pad := strings.Repeat(" ", barWidth-barCells(p.Minutes, maxMinutes, barWidth))
		if _, err := fmt.Fprintf(w, "%s %s%s %*s\n", shortDate(p.Date), bar, pad, labelWidth, FormatMinutes(p.Minutes)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Trend: %s\n\n", Sparkline(MovingAverage(SeriesValues(points), 7)))
	return err
}

func renderBar(value, maxValue, width int) string {
	if value <= 0 || maxValue <= 0 {
		return ""
	}
	eighths := value * width * 8 / maxValue
	var b strings.Builder
	b.WriteString(strings.Repeat(string(barFull), eighths/8))
	if rem := eighths % 8; rem > 0 {
		b.WriteRune(barPartials[rem])
	}
	return b.String()
}

func barCells(value, maxValue, width int) int {
	if value <= 0 || maxValue <= 0 {
		return 0
	}
	eighths := value * width * 8 / maxValue
	cells := eighths / 8
	if eighths%8 > 0 {
		cells++
	}
	return cells
}

func shortDate(date string) string {
	if len(date) == len("2006-01-02") {
		return date[5:]
	}
	return date
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
