package events

import (
	"time"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

const (
	TypeSessionRecorded     = "session.recorded"
	TypeFavoriteAdded       = "favorite.added"
	TypeFavoriteRemoved     = "favorite.removed"
	TypeAchievementUnlocked = "achievement.unlocked"
	TypeUserRegistered      = "user.registered"
)

// Session Events

// SessionRecorded is raised when a practice session is appended to a user's history
type SessionRecorded struct {
	BaseEvent
	SessionID       string `json:"session_id"`
	UserID          string `json:"user_id"`
	TechniqueID     string `json:"technique_id"`
	DurationSeconds int    `json:"duration_seconds"`
	Completed       bool   `json:"completed"`
}

// NewSessionRecorded creates a SessionRecorded event
func NewSessionRecorded(sessionID, userID, techniqueID string, duration int, completed bool, timestamp time.Time) SessionRecorded {
	return SessionRecorded{
		BaseEvent: BaseEvent{
			AggregateID: userID,
			EventType:   TypeSessionRecorded,
			Timestamp:   timestamp,
			Version:     1,
		},
		SessionID:       sessionID,
		UserID:          userID,
		TechniqueID:     techniqueID,
		DurationSeconds: duration,
		Completed:       completed,
	}
}

// AchievementUnlocked is raised the first time a user reaches a milestone
type AchievementUnlocked struct {
	BaseEvent
	UserID        string `json:"user_id"`
	AchievementID string `json:"achievement_id"`
}

// NewAchievementUnlocked creates an AchievementUnlocked event
func NewAchievementUnlocked(userID, achievementID string, timestamp time.Time) AchievementUnlocked {
	return AchievementUnlocked{
		BaseEvent: BaseEvent{
			AggregateID: userID,
			EventType:   TypeAchievementUnlocked,
			Timestamp:   timestamp,
			Version:     1,
		},
		UserID:        userID,
		AchievementID: achievementID,
	}
}

// Favorite Events

// FavoriteChanged is raised when a technique is added to or removed from favorites
type FavoriteChanged struct {
	BaseEvent
	UserID      string `json:"user_id"`
	TechniqueID string `json:"technique_id"`
}

// NewFavoriteAdded creates a favorite.added event
func NewFavoriteAdded(userID, techniqueID string, timestamp time.Time) FavoriteChanged {
	return newFavoriteChanged(TypeFavoriteAdded, userID, techniqueID, timestamp)
}

// NewFavoriteRemoved creates a favorite.removed event
func NewFavoriteRemoved(userID, techniqueID string, timestamp time.Time) FavoriteChanged {
	return newFavoriteChanged(TypeFavoriteRemoved, userID, techniqueID, timestamp)
}

func newFavoriteChanged(eventType, userID, techniqueID string, timestamp time.Time) FavoriteChanged {
	return FavoriteChanged{
		BaseEvent: BaseEvent{
			AggregateID: userID,
			EventType:   eventType,
			Timestamp:   timestamp,
			Version:     1,
		},
		UserID:      userID,
		TechniqueID: techniqueID,
	}
}

// User Events

// UserRegistered is raised when a new account is created
type UserRegistered struct {
	BaseEvent
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// NewUserRegistered creates a UserRegistered event
func NewUserRegistered(userID, email string, timestamp time.Time) UserRegistered {
	return UserRegistered{
		BaseEvent: BaseEvent{
			AggregateID: userID,
			EventType:   TypeUserRegistered,
			Timestamp:   timestamp,
			Version:     1,
		},
		UserID: userID,
		Email:  email,
	}
}
