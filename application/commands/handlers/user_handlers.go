package handlers

import (
	"context"

	"go.uber.org/zap"

	"breathe-backend/application/commands"
	"breathe-backend/application/ports"
	"breathe-backend/domain/config"
	"breathe-backend/domain/events"
	"breathe-backend/domain/user"
	"breathe-backend/pkg/errors"
)

// UserHandler handles account and profile commands
type UserHandler struct {
	users     ports.UserRepository
	publisher ports.EventPublisher
	rules     *config.DomainConfig
	clock     ports.Clock
	logger    *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	users ports.UserRepository,
	publisher ports.EventPublisher,
	rules *config.DomainConfig,
	clock ports.Clock,
	logger *zap.Logger,
) *UserHandler {
	return &UserHandler{
		users:     users,
		publisher: publisher,
		rules:     rules,
		clock:     clock,
		logger:    logger,
	}
}

// HandleRegister creates an account, rejecting a taken email
func (h *UserHandler) HandleRegister(ctx context.Context, cmd commands.RegisterUserCommand) error {
	if err := h.ensureEmailFree(ctx, cmd.Email, ""); err != nil {
		return err
	}
	return h.create(ctx, cmd.UserID, cmd.Email, cmd.Name, cmd.Goal)
}

// HandleLogin creates the account on first sign in and otherwise does nothing
func (h *UserHandler) HandleLogin(ctx context.Context, cmd commands.LoginUserCommand) error {
	_, err := h.users.GetByEmail(ctx, user.NormalizeEmail(cmd.Email))
	if err == nil {
		return nil
	}
	if !errors.IsNotFound(err) {
		return err
	}
	h.logger.Info("Creating demo user on first login", zap.String("userID", cmd.UserID))
	return h.create(ctx, cmd.UserID, cmd.Email, cmd.Name, "")
}

// HandleUpdateProfile changes name and email
func (h *UserHandler) HandleUpdateProfile(ctx context.Context, cmd commands.UpdateProfileCommand) error {
	u, err := h.users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return err
	}

	now := h.clock.Now()
	if cmd.Name != nil {
		if err := u.Rename(*cmd.Name, h.rules, now); err != nil {
			return err
		}
	}
	if cmd.Email != nil && *cmd.Email != "" {
		if err := h.ensureEmailFree(ctx, *cmd.Email, u.ID); err != nil {
			return err
		}
		if err := u.ChangeEmail(*cmd.Email, now); err != nil {
			return err
		}
	}

	if err := h.users.Save(ctx, u); err != nil {
		return saveUserError(err)
	}
	return nil
}

// HandleUpdateSettings merges preference changes
func (h *UserHandler) HandleUpdateSettings(ctx context.Context, cmd commands.UpdateSettingsCommand) error {
	u, err := h.users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return err
	}

	u.ApplySettings(user.SettingsPatch{
		Notifications: cmd.Notifications,
		DarkMode:      cmd.DarkMode,
		ReminderTime:  cmd.ReminderTime,
	}, h.clock.Now())

	if err := h.users.Save(ctx, u); err != nil {
		return saveUserError(err)
	}
	return nil
}

func (h *UserHandler) create(ctx context.Context, id, email, name, goal string) error {
	now := h.clock.Now()
	u, err := user.New(id, email, name, now)
	if err != nil {
		return err
	}
	if err := u.Rename(name, h.rules, now); err != nil {
		return err
	}
	u.Goal = goal

	if err := h.users.Save(ctx, u); err != nil {
		return saveUserError(err)
	}

	if h.publisher != nil {
		if err := h.publisher.Publish(ctx, events.NewUserRegistered(u.ID, u.Email, now)); err != nil {
			h.logger.Warn("Failed to publish user registration", zap.String("userID", u.ID), zap.Error(err))
		}
	}
	return nil
}

// ensureEmailFree fails with a conflict when another user owns email
func (h *UserHandler) ensureEmailFree(ctx context.Context, email, ownerID string) error {
	existing, err := h.users.GetByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != ownerID {
		return errors.NewConflictError("Email already in use")
	}
	return nil
}

func saveUserError(err error) error {
	if errors.IsConcurrency(err) {
		return err
	}
	return errors.NewDatabaseError("save user", err)
}
