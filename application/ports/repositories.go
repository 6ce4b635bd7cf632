package ports

import (
	"context"
	"time"

	"breathe-backend/domain/events"
	"breathe-backend/domain/session"
	"breathe-backend/domain/user"
)

// SessionRepository defines the interface for session record persistence.
// This is a port in hexagonal architecture - the domain doesn't know about the implementation.
// Records are append-only; there is no update or delete.
type SessionRepository interface {
	// Save appends a new record
	Save(ctx context.Context, record session.Record) error

	// GetByID retrieves a record owned by userID
	GetByID(ctx context.Context, userID, id string) (session.Record, error)

	// ListByUser returns one page of a user's records, newest first
	ListByUser(ctx context.Context, userID string, filter SessionFilter) ([]session.Record, error)

	// ListAllByUser returns every record of a user, oldest first
	ListAllByUser(ctx context.Context, userID string) ([]session.Record, error)

	// CountByUser counts records matching the filter's technique, ignoring paging
	CountByUser(ctx context.Context, userID string, filter SessionFilter) (int, error)
}

// SessionFilter narrows a session listing
type SessionFilter struct {
	TechniqueID string
	Limit       int
	Offset      int
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// GetByID retrieves a user by id
	GetByID(ctx context.Context, id string) (*user.User, error)

	// GetByEmail retrieves a user by normalized email
	GetByEmail(ctx context.Context, email string) (*user.User, error)

	// Save creates or replaces a user. It fails with a concurrency error when
	// u.Version is not the stored version, and advances u.Version on success.
	Save(ctx context.Context, u *user.User) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// MetricsRecorder receives business metrics about recorded sessions
type MetricsRecorder interface {
	RecordSession(ctx context.Context, techniqueID string, durationSeconds int, completed bool)
	RecordError(ctx context.Context, errorType string)
}

// Clock returns the current time
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock
type SystemClock struct{}

// Now returns time.Now
func (SystemClock) Now() time.Time { return time.Now() }

// KeyValueStore is the local persistence used by offline clients
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
