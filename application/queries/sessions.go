package queries

import (
	"breathe-backend/domain/session"
	"breathe-backend/pkg/common"
	"breathe-backend/pkg/errors"
)

// ListSessionsQuery pages through a user's sessions, newest first
type ListSessionsQuery struct {
	UserID      string
	TechniqueID string
	Page        int
	Limit       int
}

// Validate validates the ListSessionsQuery
func (q ListSessionsQuery) Validate() error {
	if q.UserID == "" {
		return errors.NewUnauthorizedError("user ID is required")
	}
	var fields []errors.FieldError
	if q.Page < 1 {
		fields = append(fields, errors.FieldError{Field: "page", Message: "page must be a positive integer"})
	}
	if q.Limit < 1 || q.Limit > common.MaxLimit {
		fields = append(fields, errors.FieldError{Field: "limit", Message: "limit must be between 1 and 100"})
	}
	if len(fields) > 0 {
		return errors.NewFieldValidationError(fields)
	}
	return nil
}

// ListSessionsResult is one page of sessions
type ListSessionsResult struct {
	Sessions   []session.Record      `json:"sessions"`
	Pagination common.PaginationInfo `json:"pagination"`
}

// GetSessionQuery fetches a single session owned by the user
type GetSessionQuery struct {
	UserID    string
	SessionID string
}

// Validate validates the GetSessionQuery
func (q GetSessionQuery) Validate() error {
	if q.UserID == "" {
		return errors.NewUnauthorizedError("user ID is required")
	}
	if q.SessionID == "" {
		return errors.NewNotFoundError("Session")
	}
	return nil
}
