package commands

import (
	"time"

	"breathe-backend/domain/session"
	"breathe-backend/pkg/errors"
)

// RecordSessionCommand appends a practice session to a user's history
type RecordSessionCommand struct {
	SessionID       string
	UserID          string
	TechniqueID     string
	DurationSeconds int
	Completed       bool
	PreMood         *int
	PostMood        *int
	Rating          *int
	Notes           string
	// OccurredAt defaults to the handler's clock when zero
	OccurredAt time.Time
}

// Record builds the session record described by the command
func (cmd RecordSessionCommand) Record() session.Record {
	return session.Record{
		ID:              cmd.SessionID,
		UserID:          cmd.UserID,
		TechniqueID:     cmd.TechniqueID,
		OccurredAt:      cmd.OccurredAt,
		DurationSeconds: cmd.DurationSeconds,
		Completed:       cmd.Completed,
		PreMood:         cmd.PreMood,
		PostMood:        cmd.PostMood,
		Rating:          cmd.Rating,
		Notes:           cmd.Notes,
	}
}

// Validate validates the command
func (cmd RecordSessionCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.NewUnauthorizedError("user ID is required")
	}
	if cmd.SessionID == "" {
		return errors.NewValidationError("session ID is required")
	}
	return cmd.Record().Validate(nil)
}
