// Package records owns the day-bucketed focus session database: loading it,
// folding new sessions into it, deriving statistics and persisting the full
// snapshot after every change.
package records

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-hclog"

	"github.com/verte-zerg/tufocus/internal/model"
	"github.com/verte-zerg/tufocus/internal/stats"
)

// Storage keys.
const (
	SnapshotKey   = "focusDatabase"
	TodayTotalKey = "todayTotal"
)

// DefaultRetentionDays is how many calendar days CleanupOldRecords keeps.
const DefaultRetentionDays = 30

// Backend is the persistent key-value contract the store consumes.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// State is the lifecycle stage of the in-memory database.
type State int

// Lifecycle states.
const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateMutating
	StateResetting
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateMutating:
		return "mutating"
	case StateResetting:
		return "resetting"
	default:
		return "unknown"
	}
}

// Store is the single owner of the focus database.
//
// Mutations are serialized: each in-memory change and the write of the
// resulting snapshot run under writeMu, so two back-to-back mutations can no
// longer persist out of order. Queries only take mu and never wait on the
// backend.
type Store struct {
	backend   Backend
	clock     Clock
	logger    hclog.Logger
	retention int
	logging   atomic.Bool

	writeMu sync.Mutex

	mu    sync.RWMutex
	db    *model.Database
	state State
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for "today".
func WithClock(c Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l hclog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithRetentionDays overrides how many days CleanupOldRecords keeps.
func WithRetentionDays(days int) Option {
	return func(s *Store) {
		if days > 0 {
			s.retention = days
		}
	}
}

// New returns an uninitialized store. Call Init before mutating it.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:   backend,
		clock:     SystemClock(nil),
		logger:    hclog.NewNullLogger(),
		retention: DefaultRetentionDays,
	}
	s.logging.Store(true)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetLogging turns info and debug diagnostics on or off. Warnings and
// errors are always logged.
func (s *Store) SetLogging(enabled bool) {
	s.logging.Store(enabled)
	s.log().Info("logging toggled", "enabled", enabled)
}

// State reports the current lifecycle stage.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Init loads the stored snapshot, or creates and persists an empty database
// on first use. A read failure leaves the store without a database.
func (s *Store) Init(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.log().Info("initializing database")
	s.setState(StateLoading)

	raw, found, err := s.backend.Get(ctx, SnapshotKey)
	if err != nil {
		s.logger.Error("database initialization failed", "error", err)
		s.abortLoad()
		return readError(err)
	}

	if found {
		var db model.Database
		if err := json.Unmarshal([]byte(raw), &db); err != nil {
			s.logger.Error("stored snapshot is not valid JSON", "error", err)
			s.abortLoad()
			return readError(err)
		}
		if db.Records == nil {
			db.Records = []model.DayRecord{}
		}
		s.adopt(db)
		s.logDatabase("loaded database from storage", db)
		return nil
	}

	s.log().Info("first use, creating empty database")
	db := model.NewDatabase()
	s.adopt(db)
	return s.write(ctx, db)
}

// Save writes the full in-memory database under SnapshotKey.
func (s *Store) Save(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	if s.db == nil {
		s.mu.RUnlock()
		return ErrUninitialized
	}
	snapshot := s.db.Clone()
	s.mu.RUnlock()
	return s.write(ctx, snapshot)
}

func (s *Store) write(ctx context.Context, db model.Database) error {
	blob, err := json.Marshal(db)
	if err != nil {
		s.logger.Error("database save failed", "error", err)
		return writeError(err)
	}
	if err := s.backend.Set(ctx, SnapshotKey, string(blob)); err != nil {
		s.logger.Error("database save failed", "error", err)
		return writeError(err)
	}
	s.log().Info("database saved", "records", len(db.Records), "statistics", db.Statistics)
	return nil
}

func (s *Store) adopt(db model.Database) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.db = &db
	s.state = StateReady
}

func (s *Store) abortLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		s.state = StateReady
		return
	}
	s.state = StateUninitialized
}

func (s *Store) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// mutate applies fn to the database, refreshes statistics and persists the
// result. The returned snapshot reflects the change even when persisting
// failed.
func (s *Store) mutate(ctx context.Context, state State, allowEmpty bool, fn func(db *model.Database)) (model.Database, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.db == nil {
		if !allowEmpty {
			s.mu.Unlock()
			return model.Database{}, ErrUninitialized
		}
		db := model.NewDatabase()
		s.db = &db
	}
	s.state = state
	fn(s.db)
	s.db.Statistics = stats.Recompute(s.db.Records)
	snapshot := s.db.Clone()
	s.mu.Unlock()

	s.log().Debug("statistics updated", "statistics", snapshot.Statistics)
	err := s.write(ctx, snapshot)
	s.setState(StateReady)
	return snapshot, err
}

// log returns the logger for info and debug output.
func (s *Store) log() hclog.Logger {
	if !s.logging.Load() {
		return hclog.NewNullLogger()
	}
	return s.logger
}

func (s *Store) logDatabase(msg string, db model.Database) {
	logger := s.log()
	logger.Info(msg, "version", db.Version, "records", len(db.Records), "statistics", db.Statistics)
	if !logger.IsDebug() {
		return
	}
	for i, r := range db.Records {
		logger.Debug("record", "index", i+1, "date", r.Date, "total", r.Total, "sessions", len(r.Sessions))
		for j, sess := range r.Sessions {
			logger.Debug("session", "index", j+1, "id", sess.ID, "start", sess.StartTime, "end", sess.EndTime, "duration", sess.Duration, "mode", sess.Mode)
		}
	}
}
