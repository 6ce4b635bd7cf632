// Package session defines the immutable practice-session record.
package session

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"breathe-backend/domain/config"
	"breathe-backend/pkg/errors"
)

// Record is one attempted or completed breathing session. Records are
// append-only: once saved they are never mutated.
type Record struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	TechniqueID     string    `json:"techniqueId"`
	OccurredAt      time.Time `json:"date"`
	DurationSeconds int       `json:"duration"`
	Completed       bool      `json:"completed"`
	PreMood         *int      `json:"preMood,omitempty"`
	PostMood        *int      `json:"postMood,omitempty"`
	Rating          *int      `json:"rating,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

// NewID returns a time-ordered unique record id
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Validate checks the record invariants and returns a field-itemized
// validation error when any of them is violated.
func (r Record) Validate(cfg *config.DomainConfig) error {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	var fields []errors.FieldError
	if r.TechniqueID == "" {
		fields = append(fields, errors.FieldError{Field: "techniqueId", Message: "techniqueId is required"})
	}
	if r.DurationSeconds < 0 {
		fields = append(fields, errors.FieldError{Field: "duration", Message: "duration must be at least 0"})
	}
	checkScore := func(name string, v *int) {
		if v != nil && !cfg.ValidScore(*v) {
			fields = append(fields, errors.FieldError{Field: name, Message: fmt.Sprintf("%s must be between %d and %d", name, cfg.MinScore, cfg.MaxScore)})
		}
	}
	checkScore("preMood", r.PreMood)
	checkScore("postMood", r.PostMood)
	checkScore("rating", r.Rating)
	if utf8.RuneCountInString(r.Notes) > cfg.MaxNotesLength {
		fields = append(fields, errors.FieldError{Field: "notes", Message: fmt.Sprintf("notes must be at most %d characters", cfg.MaxNotesLength)})
	}

	if len(fields) > 0 {
		return errors.NewFieldValidationError(fields)
	}
	return nil
}

// Minutes is the whole minutes this record contributes to totals
func (r Record) Minutes() int {
	if r.DurationSeconds <= 0 {
		return 0
	}
	return r.DurationSeconds / 60
}

// MoodDelta returns postMood minus preMood when both are present and positive
func (r Record) MoodDelta() (int, bool) {
	if r.PreMood == nil || r.PostMood == nil || *r.PreMood <= 0 || *r.PostMood <= 0 {
		return 0, false
	}
	return *r.PostMood - *r.PreMood, true
}

// Int returns a pointer to v, for optional score fields
func Int(v int) *int {
	return &v
}
