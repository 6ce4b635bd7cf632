// Package mocks provides testify mocks of the application ports.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"breathe-backend/application/ports"
	"breathe-backend/domain/events"
	"breathe-backend/domain/session"
	"breathe-backend/domain/user"
)

// MockSessionRepository mocks ports.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Save(ctx context.Context, record session.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByID(ctx context.Context, userID, id string) (session.Record, error) {
	args := m.Called(ctx, userID, id)
	if r, ok := args.Get(0).(session.Record); ok {
		return r, args.Error(1)
	}
	return session.Record{}, args.Error(1)
}

func (m *MockSessionRepository) ListByUser(ctx context.Context, userID string, filter ports.SessionFilter) ([]session.Record, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) != nil {
		return args.Get(0).([]session.Record), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionRepository) ListAllByUser(ctx context.Context, userID string) ([]session.Record, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]session.Record), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionRepository) CountByUser(ctx context.Context, userID string, filter ports.SessionFilter) (int, error) {
	args := m.Called(ctx, userID, filter)
	return args.Int(0), args.Error(1)
}

// MockUserRepository mocks ports.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*user.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) != nil {
		return args.Get(0).(*user.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

// MockEventPublisher mocks ports.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

// MockMetricsRecorder mocks ports.MetricsRecorder
type MockMetricsRecorder struct {
	mock.Mock
}

func (m *MockMetricsRecorder) RecordSession(ctx context.Context, techniqueID string, durationSeconds int, completed bool) {
	m.Called(ctx, techniqueID, durationSeconds, completed)
}

func (m *MockMetricsRecorder) RecordError(ctx context.Context, errorType string) {
	m.Called(ctx, errorType)
}

// MockKeyValueStore mocks ports.KeyValueStore
type MockKeyValueStore struct {
	mock.Mock
}

func (m *MockKeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockKeyValueStore) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockKeyValueStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// FixedClock always reports the same instant
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

var (
	_ ports.SessionRepository = (*MockSessionRepository)(nil)
	_ ports.UserRepository    = (*MockUserRepository)(nil)
	_ ports.EventPublisher    = (*MockEventPublisher)(nil)
	_ ports.MetricsRecorder   = (*MockMetricsRecorder)(nil)
	_ ports.KeyValueStore     = (*MockKeyValueStore)(nil)
	_ ports.Clock             = FixedClock{}
)
