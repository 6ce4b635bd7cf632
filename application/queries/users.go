package queries

import "breathe-backend/pkg/errors"

// GetProfileQuery fetches a user by id, or by email when no id is given
type GetProfileQuery struct {
	UserID string
	Email  string
}

// Validate validates the GetProfileQuery
func (q GetProfileQuery) Validate() error {
	if q.UserID == "" && q.Email == "" {
		return errors.NewValidationError("user ID or email is required")
	}
	return nil
}

// ListFavoritesQuery lists a user's favorite technique ids
type ListFavoritesQuery struct {
	UserID string
}

// Validate validates the ListFavoritesQuery
func (q ListFavoritesQuery) Validate() error {
	return requireUser(q.UserID)
}
