package commands

import "breathe-backend/pkg/errors"

// AddFavoriteCommand adds a technique to a user's favorites
type AddFavoriteCommand struct {
	UserID      string
	TechniqueID string
}

// Validate validates the command
func (cmd AddFavoriteCommand) Validate() error {
	return validateFavorite(cmd.UserID, cmd.TechniqueID)
}

// RemoveFavoriteCommand removes a technique from a user's favorites
type RemoveFavoriteCommand struct {
	UserID      string
	TechniqueID string
}

// Validate validates the command
func (cmd RemoveFavoriteCommand) Validate() error {
	return validateFavorite(cmd.UserID, cmd.TechniqueID)
}

func validateFavorite(userID, techniqueID string) error {
	if userID == "" {
		return errors.NewUnauthorizedError("user ID is required")
	}
	if techniqueID == "" {
		return errors.NewFieldValidationError([]errors.FieldError{{Field: "techniqueId", Message: "techniqueId is required"}})
	}
	return nil
}
