// Package model defines shared data structures.
package model

import "time"

// DateLayout is the canonical calendar date form used for day buckets.
const DateLayout = "2006-01-02"

// SchemaVersion is stored with every snapshot. It is reserved for future
// migrations and is not inspected on load.
const SchemaVersion = 1.0

// Session captures one completed focus session.
type Session struct {
	ID        string    `json:"id" yaml:"id"`
	StartTime time.Time `json:"startTime" yaml:"startTime"`
	EndTime   time.Time `json:"endTime" yaml:"endTime"`
	Duration  int       `json:"duration" yaml:"duration"`
	Mode      string    `json:"mode" yaml:"mode"`
}

// DayRecord aggregates all sessions of one calendar date.
// Total is always the sum of the session durations.
type DayRecord struct {
	Date     string    `json:"date" yaml:"date"`
	Total    int       `json:"total" yaml:"total"`
	Sessions []Session `json:"sessions" yaml:"sessions"`
}

// Statistics is derived from the day records and never edited directly.
type Statistics struct {
	TotalMinutes  int `json:"totalMinutes" yaml:"totalMinutes"`
	RecordDays    int `json:"recordDays" yaml:"recordDays"`
	DailyAverage  int `json:"dailyAverage" yaml:"dailyAverage"`
	LongestStreak int `json:"longestStreak" yaml:"longestStreak"`
}

// Database is the persisted snapshot.
type Database struct {
	Version    float64     `json:"version" yaml:"version"`
	Records    []DayRecord `json:"records" yaml:"records"`
	Statistics Statistics  `json:"statistics" yaml:"statistics"`
}

// TodaySummary reports today's totals. Both fields are -1 when no session
// has been recorded today.
type TodaySummary struct {
	TodayTotal   int
	SessionCount int
}

// HasData reports whether the summary carries a recorded day.
func (s TodaySummary) HasData() bool {
	return s.TodayTotal >= 0 && s.SessionCount >= 0
}

// DaySummary reports the totals of an arbitrary date. Missing days are zero.
type DaySummary struct {
	Total        int
	SessionCount int
}

// NewDatabase returns the empty first-run snapshot.
func NewDatabase() Database {
	return Database{
		Version: SchemaVersion,
		Records: []DayRecord{},
	}
}

// Clone returns a deep copy of the record.
func (r DayRecord) Clone() DayRecord {
	out := r
	out.Sessions = make([]Session, len(r.Sessions))
	copy(out.Sessions, r.Sessions)
	return out
}

// Clone returns a deep copy of the database.
func (d Database) Clone() Database {
	out := d
	out.Records = make([]DayRecord, len(d.Records))
	for i, r := range d.Records {
		out.Records[i] = r.Clone()
	}
	return out
}

// TimerConfig defines focus timer settings.
type TimerConfig struct {
	Minutes int
	Mode    string
}
