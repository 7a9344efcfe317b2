package records

import (
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/tufocus/internal/model"
)

// GetHistoryRecords returns a copy of all day records, newest first.
func (s *Store) GetHistoryRecords() []model.DayRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return []model.DayRecord{}
	}
	out := make([]model.DayRecord, len(s.db.Records))
	for i, r := range s.db.Records {
		out[i] = r.Clone()
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	s.log().Debug("history requested", "records", len(out))
	return out
}

// GetStatistics returns the current statistics, or zeros before Init.
func (s *Store) GetStatistics() model.Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return model.Statistics{}
	}
	return s.db.Statistics
}

// GetTodaySummary reports today's total and session count. When nothing has
// been recorded today both fields are -1.
func (s *Store) GetTodaySummary() model.TodaySummary {
	r, ok := s.lookup(s.Today())
	if !ok {
		return model.TodaySummary{TodayTotal: -1, SessionCount: -1}
	}
	return model.TodaySummary{TodayTotal: r.Total, SessionCount: len(r.Sessions)}
}

// GetDaySummary reports the totals for date, which may be a YYYY-MM-DD or
// RFC 3339 string, a time.Time or a *time.Time. Unknown days and invalid
// arguments yield zeros; invalid arguments are logged.
func (s *Store) GetDaySummary(date any) model.DaySummary {
	r, ok := s.GetDayRecord(date)
	if !ok {
		return model.DaySummary{}
	}
	return model.DaySummary{Total: r.Total, SessionCount: len(r.Sessions)}
}

// GetDayRecord returns a copy of the record for date. It accepts the same
// arguments as GetDaySummary.
func (s *Store) GetDayRecord(date any) (model.DayRecord, bool) {
	key, err := s.DayKey(date)
	if err != nil {
		s.logger.Warn("invalid day summary argument", "error", err)
		return model.DayRecord{}, false
	}
	return s.lookup(key)
}

// DayKey returns the canonical day that date is bucketed under. RFC 3339
// strings are moved into the clock's location first. Invalid arguments
// yield a *ValidationError.
func (s *Store) DayKey(date any) (string, error) {
	return normalizeDate(date, s.clock.Now().Location())
}

// Snapshot returns a copy of the whole database. The boolean is false
// before Init.
func (s *Store) Snapshot() (model.Database, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return model.Database{}, false
	}
	return s.db.Clone(), true
}

func (s *Store) lookup(date string) (model.DayRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return model.DayRecord{}, false
	}
	for _, r := range s.db.Records {
		if r.Date == date {
			return r.Clone(), true
		}
	}
	return model.DayRecord{}, false
}

// normalizeDate converts a date argument to canonical form. Time values use
// the calendar date of their own location; RFC 3339 strings use loc.
func normalizeDate(date any, loc *time.Location) (string, error) {
	switch v := date.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if t, err := time.Parse(model.DateLayout, trimmed); err == nil {
			return t.Format(model.DateLayout), nil
		}
		if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
			return t.In(loc).Format(model.DateLayout), nil
		}
		return "", &ValidationError{Arg: date, Reason: "expected YYYY-MM-DD or RFC 3339"}
	case time.Time:
		if v.IsZero() {
			return "", &ValidationError{Arg: date, Reason: "zero time"}
		}
		return v.Format(model.DateLayout), nil
	case *time.Time:
		if v == nil {
			return "", &ValidationError{Arg: date, Reason: "nil time"}
		}
		return normalizeDate(*v, loc)
	default:
		return "", &ValidationError{Arg: date, Reason: "unsupported type"}
	}
}
