// Package memory provides process-local repositories for development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"breathe-backend/application/ports"
	"breathe-backend/domain/favorites"
	"breathe-backend/domain/session"
	"breathe-backend/domain/user"
	"breathe-backend/pkg/errors"
)

// SessionRepository keeps each user's records sorted oldest first
type SessionRepository struct {
	mu     sync.RWMutex
	byUser map[string][]session.Record
	ids    map[string]struct{}
}

// NewSessionRepository creates an empty SessionRepository
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		byUser: make(map[string][]session.Record),
		ids:    make(map[string]struct{}),
	}
}

func (r *SessionRepository) Save(_ context.Context, record session.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ids[record.ID]; exists {
		return fmt.Errorf("session %s already exists", record.ID)
	}
	records := r.byUser[record.UserID]
	i := sort.Search(len(records), func(i int) bool {
		return records[i].OccurredAt.After(record.OccurredAt)
	})
	records = append(records, session.Record{})
	copy(records[i+1:], records[i:])
	records[i] = record
	r.byUser[record.UserID] = records
	r.ids[record.ID] = struct{}{}
	return nil
}

func (r *SessionRepository) GetByID(_ context.Context, userID, id string) (session.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.byUser[userID] {
		if rec.ID == id {
			return rec, nil
		}
	}
	return session.Record{}, errors.NewNotFoundError("Session")
}

func (r *SessionRepository) ListByUser(_ context.Context, userID string, filter ports.SessionFilter) ([]session.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.byUser[userID]
	out := []session.Record{}
	skipped := 0
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		if filter.TechniqueID != "" && rec.TechniqueID != filter.TechniqueID {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		out = append(out, rec)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (r *SessionRepository) ListAllByUser(_ context.Context, userID string) ([]session.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]session.Record{}, r.byUser[userID]...), nil
}

func (r *SessionRepository) CountByUser(_ context.Context, userID string, filter ports.SessionFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if filter.TechniqueID == "" {
		return len(r.byUser[userID]), nil
	}
	count := 0
	for _, rec := range r.byUser[userID] {
		if rec.TechniqueID == filter.TechniqueID {
			count++
		}
	}
	return count, nil
}

// UserRepository stores copies so callers cannot mutate stored users
type UserRepository struct {
	mu      sync.RWMutex
	users   map[string]*user.User
	byEmail map[string]string
}

// NewUserRepository creates an empty UserRepository
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[string]*user.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, errors.NewNotFoundError("User")
	}
	return clone(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[user.NormalizeEmail(email)]
	if !ok {
		return nil, errors.NewNotFoundError("User")
	}
	return clone(r.users[id]), nil
}

// Save stores u only if it carries the stored version, then bumps it.
func (r *UserRepository) Save(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.users[u.ID]
	if (ok && prev.Version != u.Version) || (!ok && u.Version != 0) {
		return errors.NewConcurrencyError("User")
	}
	if ok && prev.Email != u.Email {
		delete(r.byEmail, prev.Email)
	}
	u.Version++
	r.users[u.ID] = clone(u)
	r.byEmail[u.Email] = u.ID
	return nil
}

func clone(u *user.User) *user.User {
	c := *u
	c.Favorites = favorites.New(u.FavoriteIDs()...)
	return &c
}

// KeyValueStore is an in-memory ports.KeyValueStore
type KeyValueStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewKeyValueStore creates an empty KeyValueStore
func NewKeyValueStore() *KeyValueStore {
	return &KeyValueStore{data: make(map[string]string)}
}

func (s *KeyValueStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *KeyValueStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *KeyValueStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

var (
	_ ports.SessionRepository = (*SessionRepository)(nil)
	_ ports.UserRepository    = (*UserRepository)(nil)
	_ ports.KeyValueStore     = (*KeyValueStore)(nil)
)
