package queries

import "breathe-backend/pkg/errors"

// GetStatsQuery asks for the summary statistics of a user
type GetStatsQuery struct {
	UserID string
}

// Validate validates the GetStatsQuery
func (q GetStatsQuery) Validate() error {
	return requireUser(q.UserID)
}

// GetWeeklyQuery asks for minutes practised on each of the last seven days
type GetWeeklyQuery struct {
	UserID string
}

// Validate validates the GetWeeklyQuery
func (q GetWeeklyQuery) Validate() error {
	return requireUser(q.UserID)
}

// GetProgressQuery asks for the full progress snapshot
type GetProgressQuery struct {
	UserID string
}

// Validate validates the GetProgressQuery
func (q GetProgressQuery) Validate() error {
	return requireUser(q.UserID)
}

func requireUser(userID string) error {
	if userID == "" {
		return errors.NewUnauthorizedError("user ID is required")
	}
	return nil
}
