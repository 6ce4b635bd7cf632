package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"breathe-backend/application/commands"
	"breathe-backend/application/ports"
	"breathe-backend/domain/events"
	"breathe-backend/domain/technique"
	"breathe-backend/domain/user"
	"breathe-backend/pkg/errors"
)

const (
	maxSaveAttempts = 3
	retryBaseDelay  = 10 * time.Millisecond
)

// FavoritesHandler adds and removes favorite techniques
type FavoritesHandler struct {
	users     ports.UserRepository
	catalog   *technique.Holder
	publisher ports.EventPublisher
	clock     ports.Clock
	logger    *zap.Logger
}

// NewFavoritesHandler creates a new favorites handler
func NewFavoritesHandler(
	users ports.UserRepository,
	catalog *technique.Holder,
	publisher ports.EventPublisher,
	clock ports.Clock,
	logger *zap.Logger,
) *FavoritesHandler {
	return &FavoritesHandler{
		users:     users,
		catalog:   catalog,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// HandleAdd adds a favorite. Adding an existing favorite changes nothing.
func (h *FavoritesHandler) HandleAdd(ctx context.Context, cmd commands.AddFavoriteCommand) error {
	if _, ok := h.catalog.Catalog().Get(cmd.TechniqueID); !ok {
		return errors.NewNotFoundError("Technique")
	}

	changed, err := h.updateWithRetry(ctx, cmd.UserID, func(u *user.User) bool {
		return u.Favorites.Add(cmd.TechniqueID)
	})
	if err != nil || !changed {
		return err
	}

	h.publish(ctx, events.NewFavoriteAdded(cmd.UserID, cmd.TechniqueID, h.clock.Now()))
	return nil
}

// HandleRemove removes a favorite. Removing an absent favorite changes nothing.
func (h *FavoritesHandler) HandleRemove(ctx context.Context, cmd commands.RemoveFavoriteCommand) error {
	changed, err := h.updateWithRetry(ctx, cmd.UserID, func(u *user.User) bool {
		return u.Favorites.Remove(cmd.TechniqueID)
	})
	if err != nil || !changed {
		return err
	}

	h.publish(ctx, events.NewFavoriteRemoved(cmd.UserID, cmd.TechniqueID, h.clock.Now()))
	return nil
}

// updateWithRetry loads the user, applies apply and saves. A save that lost
// to a concurrent write is retried on a fresh copy.
func (h *FavoritesHandler) updateWithRetry(ctx context.Context, userID string, apply func(*user.User) bool) (bool, error) {
	for attempt := 0; ; attempt++ {
		u, err := h.users.GetByID(ctx, userID)
		if err != nil {
			return false, err
		}
		if !apply(u) {
			return false, nil
		}
		u.UpdatedAt = h.clock.Now()

		err = h.users.Save(ctx, u)
		if err == nil {
			return true, nil
		}
		if !errors.IsConcurrency(err) {
			return false, errors.NewDatabaseError("save favorites", err)
		}
		if attempt == maxSaveAttempts-1 {
			return false, err
		}

		h.logger.Debug("Retrying favorites update",
			zap.String("userID", userID),
			zap.Int("attempt", attempt+1),
		)
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(retryBaseDelay * time.Duration(1<<attempt)):
		}
	}
}

func (h *FavoritesHandler) publish(ctx context.Context, event events.DomainEvent) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("Failed to publish favorite event",
			zap.String("eventType", event.GetEventType()),
			zap.Error(err),
		)
	}
}
