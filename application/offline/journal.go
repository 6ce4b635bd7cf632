// Package offline is the client-side practice journal. It keeps the
// authoritative state in memory and mirrors it to a local key-value store
// after each mutation. Storage failures are logged and otherwise ignored.
package offline

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"breathe-backend/application/ports"
	"breathe-backend/domain/favorites"
	"breathe-backend/domain/progress"
	"breathe-backend/domain/session"
	"breathe-backend/domain/user"
)

// Storage keys
const (
	KeySessions  = "breathe_sessions"
	KeyStats     = "breathe_stats"
	KeyFavorites = "breathe_favorites"
	KeyUser      = "breathe_user"
)

// LocalUser is the single profile of an offline install
type LocalUser struct {
	Name     string        `json:"name"`
	Goal     string        `json:"goal,omitempty"`
	Settings user.Settings `json:"settings"`
}

// Journal is the offline source of truth for one user
type Journal struct {
	mu        sync.Mutex
	store     ports.KeyValueStore
	engine    *progress.Engine
	logger    *zap.Logger
	userID    string
	sessions  []session.Record
	tracker   *progress.Tracker
	favorites *favorites.Set
	profile   LocalUser
}

// Open loads whatever the store holds. Unreadable keys start empty.
func Open(ctx context.Context, store ports.KeyValueStore, engine *progress.Engine, userID string, logger *zap.Logger) *Journal {
	if logger == nil {
		logger = zap.NewNop()
	}
	j := &Journal{
		store:     store,
		engine:    engine,
		logger:    logger,
		userID:    userID,
		sessions:  []session.Record{},
		favorites: favorites.New(),
		profile:   LocalUser{Settings: user.DefaultSettings()},
	}

	var records []session.Record
	if j.load(ctx, KeySessions, &records) && records != nil {
		j.sessions = records
	}

	var ids []string
	j.load(ctx, KeyFavorites, &ids)
	j.favorites = favorites.New(ids...)

	var profile LocalUser
	if j.load(ctx, KeyUser, &profile) {
		j.profile = profile
	}

	var state progress.TrackerState
	if j.load(ctx, KeyStats, &state) && state.Restorable(engine.Location, len(j.sessions)) {
		j.tracker = progress.RestoreTracker(engine.Location, state)
	} else {
		j.rebuildTracker()
	}
	return j
}

// SaveRecord appends a finished session. It satisfies runtime.RecordSink and
// never fails: the in-memory journal is updated even when storage is not.
func (j *Journal) SaveRecord(ctx context.Context, r session.Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if r.UserID == "" {
		r.UserID = j.userID
	}
	j.sessions = append(j.sessions, r)
	j.tracker.Append(r)

	j.persist(ctx, KeySessions, j.sessions)
	j.persist(ctx, KeyStats, j.tracker.State())
	return nil
}

// Sessions returns a copy of the history, oldest first
func (j *Journal) Sessions() []session.Record {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]session.Record(nil), j.sessions...)
}

// Snapshot recomputes the full progress snapshot from the history
func (j *Journal) Snapshot() progress.Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.engine.Compute(j.sessions, j.favorites.Len())
}

// Streaks reports the incrementally tracked streaks without a replay
func (j *Journal) Streaks() (current, longest int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.tracker.CurrentStreak(j.engine.Today()), j.tracker.LongestStreak()
}

// ToggleFavorite flips membership and reports whether id is now a favorite
func (j *Journal) ToggleFavorite(ctx context.Context, id string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	in := j.favorites.Toggle(id)
	j.persist(ctx, KeyFavorites, j.favorites.IDs())
	return in
}

// AddFavorite adds id. Adding twice changes nothing.
func (j *Journal) AddFavorite(ctx context.Context, id string) []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.favorites.Add(id) {
		j.persist(ctx, KeyFavorites, j.favorites.IDs())
	}
	return j.favorites.IDs()
}

// RemoveFavorite removes id. Removing an absent id changes nothing.
func (j *Journal) RemoveFavorite(ctx context.Context, id string) []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.favorites.Remove(id) {
		j.persist(ctx, KeyFavorites, j.favorites.IDs())
	}
	return j.favorites.IDs()
}

// Favorites returns favorite ids in insertion order
func (j *Journal) Favorites() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.favorites.IDs()
}

// Profile returns the local profile
func (j *Journal) Profile() LocalUser {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.profile
}

// SetProfile replaces the local profile
func (j *Journal) SetProfile(ctx context.Context, p LocalUser) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.profile = p
	j.persist(ctx, KeyUser, p)
}

// Reset clears every key and the in-memory state
func (j *Journal) Reset(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.sessions = []session.Record{}
	j.favorites = favorites.New()
	j.profile = LocalUser{Settings: user.DefaultSettings()}
	j.tracker = progress.NewTracker(j.engine.Location)
	for _, key := range []string{KeySessions, KeyStats, KeyFavorites, KeyUser} {
		if err := j.store.Delete(ctx, key); err != nil {
			j.logger.Warn("Failed to clear local key", zap.String("key", key), zap.Error(err))
		}
	}
}

func (j *Journal) rebuildTracker() {
	j.tracker = progress.NewTracker(j.engine.Location)
	for _, r := range j.sessions {
		j.tracker.Append(r)
	}
}

// load decodes key into dst and reports whether a value was found
func (j *Journal) load(ctx context.Context, key string, dst interface{}) bool {
	raw, ok, err := j.store.Get(ctx, key)
	if err != nil {
		j.logger.Error("Failed to read local key", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		j.logger.Error("Discarding corrupt local key", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (j *Journal) persist(ctx context.Context, key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		j.logger.Error("Failed to encode local key", zap.String("key", key), zap.Error(err))
		return
	}
	if err := j.store.Set(ctx, key, string(raw)); err != nil {
		j.logger.Warn("Failed to write local key", zap.String("key", key), zap.Error(err))
	}
}
