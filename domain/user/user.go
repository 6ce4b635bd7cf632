// Package user models the practitioner profile, settings and favorites.
package user

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"breathe-backend/domain/config"
	"breathe-backend/domain/favorites"
	"breathe-backend/pkg/errors"
)

// Settings are user preferences
type Settings struct {
	Notifications bool   `json:"notifications"`
	DarkMode      bool   `json:"darkMode"`
	ReminderTime  string `json:"reminderTime,omitempty"`
}

// DefaultSettings are applied to new users
func DefaultSettings() Settings {
	return Settings{Notifications: true, ReminderTime: "09:00"}
}

// User is a registered practitioner
type User struct {
	ID        string
	Email     string
	Name      string
	Goal      string
	Settings  Settings
	Favorites *favorites.Set
	CreatedAt time.Time
	UpdatedAt time.Time
	// Version counts stored writes. Zero means never saved.
	Version int
}

// NewID returns a fresh user id
func NewID() string {
	return uuid.NewString()
}

// New creates a user with default settings
func New(id, email, name string, now time.Time) (*User, error) {
	email = NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errors.NewFieldValidationError([]errors.FieldError{{Field: "email", Message: "email must be a valid email"}})
	}
	return &User{
		ID:        id,
		Email:     email,
		Name:      strings.TrimSpace(name),
		Settings:  DefaultSettings(),
		Favorites: favorites.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NormalizeEmail lowercases and trims an address so lookups are case insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Rename changes the display name
func (u *User) Rename(name string, cfg *config.DomainConfig, now time.Time) error {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > cfg.MaxNameLength {
		return errors.NewFieldValidationError([]errors.FieldError{{Field: "name", Message: "name must be at most 50 characters"}})
	}
	u.Name = name
	u.UpdatedAt = now
	return nil
}

// ChangeEmail replaces the address. Uniqueness is checked by the caller.
func (u *User) ChangeEmail(email string, now time.Time) error {
	email = NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.NewFieldValidationError([]errors.FieldError{{Field: "email", Message: "email must be a valid email"}})
	}
	u.Email = email
	u.UpdatedAt = now
	return nil
}

// SettingsPatch carries the settings fields a client chose to change
type SettingsPatch struct {
	Notifications *bool
	DarkMode      *bool
	ReminderTime  *string
}

// ApplySettings merges a patch, leaving absent fields unchanged
func (u *User) ApplySettings(p SettingsPatch, now time.Time) {
	if p.Notifications != nil {
		u.Settings.Notifications = *p.Notifications
	}
	if p.DarkMode != nil {
		u.Settings.DarkMode = *p.DarkMode
	}
	if p.ReminderTime != nil {
		u.Settings.ReminderTime = *p.ReminderTime
	}
	u.UpdatedAt = now
}

// FavoriteIDs returns the favorite technique ids in insertion order
func (u *User) FavoriteIDs() []string {
	if u.Favorites == nil {
		return []string{}
	}
	return u.Favorites.IDs()
}

// Profile is the public view of a user
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Goal      string    `json:"goal,omitempty"`
	Settings  Settings  `json:"settings"`
	Favorites []string  `json:"favorites"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile renders the public view
func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Goal:      u.Goal,
		Settings:  u.Settings,
		Favorites: u.FavoriteIDs(),
		CreatedAt: u.CreatedAt,
	}
}
