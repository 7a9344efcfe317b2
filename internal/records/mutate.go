package records

import (
	"context"

	"github.com/verte-zerg/tufocus/internal/model"
)

// AddRecord folds session into today's day bucket, creating the bucket when
// needed, then persists. The session is stored as given.
func (s *Store) AddRecord(ctx context.Context, session model.Session) (model.Database, error) {
	today := s.Today()
	s.log().Info("adding record", "date", today, "id", session.ID, "duration", session.Duration, "mode", session.Mode)

	db, err := s.mutate(ctx, StateMutating, false, func(db *model.Database) {
		for i := range db.Records {
			if db.Records[i].Date != today {
				continue
			}
			db.Records[i].Sessions = append(db.Records[i].Sessions, session)
			db.Records[i].Total += session.Duration
			return
		}
		s.log().Debug("creating day bucket", "date", today)
		db.Records = append(db.Records, model.DayRecord{
			Date:     today,
			Total:    session.Duration,
			Sessions: []model.Session{session},
		})
	})
	if err != nil {
		s.logger.Error("adding record failed", "error", err)
		return db, err
	}
	return db, nil
}

// CleanupOldRecords drops day buckets older than the retention window and
// persists the result.
func (s *Store) CleanupOldRecords(ctx context.Context) (model.Database, error) {
	cutoff := s.clock.Now().AddDate(0, 0, -s.retention).Format(model.DateLayout)
	before, removed := 0, 0

	db, err := s.mutate(ctx, StateMutating, false, func(db *model.Database) {
		before = len(db.Records)
		kept := make([]model.DayRecord, 0, len(db.Records))
		for _, r := range db.Records {
			if r.Date >= cutoff {
				kept = append(kept, r)
			}
		}
		db.Records = kept
		removed = before - len(kept)
	})
	if err != nil {
		return db, err
	}
	s.log().Info("cleanup finished", "cutoff", cutoff, "kept", before-removed, "removed", removed)
	return db, nil
}

// ResetDatabase replaces the database with an empty one and persists it.
// The cached today total is removed on a best-effort basis.
func (s *Store) ResetDatabase(ctx context.Context) error {
	s.log().Info("resetting database")
	if _, err := s.mutate(ctx, StateResetting, true, func(db *model.Database) {
		*db = model.NewDatabase()
	}); err != nil {
		return err
	}
	if err := s.backend.Delete(ctx, TodayTotalKey); err != nil {
		s.logger.Warn("failed to clear cached today total", "key", TodayTotalKey, "error", err)
	}
	return nil
}

// Today returns the current date in canonical form.
func (s *Store) Today() string {
	return s.clock.Now().Format(model.DateLayout)
}
