package commands

import "breathe-backend/pkg/errors"

// RegisterUserCommand creates a new account
type RegisterUserCommand struct {
	UserID string
	Email  string
	Name   string
	Goal   string
}

// Validate validates the command
func (cmd RegisterUserCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.NewValidationError("user ID is required")
	}
	if cmd.Email == "" {
		return errors.NewFieldValidationError([]errors.FieldError{{Field: "email", Message: "email is required"}})
	}
	return nil
}

// LoginUserCommand signs a user in. Demo auth accepts any credentials and
// creates the account under UserID when the email is unknown.
type LoginUserCommand struct {
	UserID string
	Email  string
	Name   string
}

// Validate validates the command
func (cmd LoginUserCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.NewValidationError("user ID is required")
	}
	if cmd.Email == "" {
		return errors.NewFieldValidationError([]errors.FieldError{{Field: "email", Message: "email is required"}})
	}
	return nil
}

// UpdateProfileCommand changes name and/or email. Nil fields are left as is.
type UpdateProfileCommand struct {
	UserID string
	Name   *string
	Email  *string
}

// Validate validates the command
func (cmd UpdateProfileCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.NewUnauthorizedError("user ID is required")
	}
	return nil
}

// UpdateSettingsCommand merges preference changes. Nil fields are left as is.
type UpdateSettingsCommand struct {
	UserID        string
	Notifications *bool
	DarkMode      *bool
	ReminderTime  *string
}

// Validate validates the command
func (cmd UpdateSettingsCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.NewUnauthorizedError("user ID is required")
	}
	return nil
}
