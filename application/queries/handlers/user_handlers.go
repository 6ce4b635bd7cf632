package handlers

import (
	"context"

	"go.uber.org/zap"

	"breathe-backend/application/ports"
	"breathe-backend/application/queries"
	"breathe-backend/domain/user"
	"breathe-backend/pkg/errors"
)

// UserQueryHandler serves profile and favorites reads
type UserQueryHandler struct {
	users  ports.UserRepository
	logger *zap.Logger
}

// NewUserQueryHandler creates a new user query handler
func NewUserQueryHandler(users ports.UserRepository, logger *zap.Logger) *UserQueryHandler {
	return &UserQueryHandler{
		users:  users,
		logger: logger,
	}
}

// HandleProfile looks the user up by id, falling back to email
func (h *UserQueryHandler) HandleProfile(ctx context.Context, query queries.GetProfileQuery) (*user.Profile, error) {
	var (
		u   *user.User
		err error
	)
	if query.UserID != "" {
		u, err = h.users.GetByID(ctx, query.UserID)
	} else {
		u, err = h.users.GetByEmail(ctx, user.NormalizeEmail(query.Email))
	}
	if err != nil {
		return nil, notFoundOr(err, "User", "get user")
	}
	profile := u.Profile()
	return &profile, nil
}

// HandleFavorites returns the user's favorite technique ids in insertion order
func (h *UserQueryHandler) HandleFavorites(ctx context.Context, query queries.ListFavoritesQuery) ([]string, error) {
	u, err := h.users.GetByID(ctx, query.UserID)
	if err != nil {
		return nil, notFoundOr(err, "User", "get user")
	}
	return u.FavoriteIDs(), nil
}

func notFoundOr(err error, resource, op string) error {
	if errors.IsNotFound(err) {
		return errors.NewNotFoundError(resource)
	}
	return errors.NewDatabaseError(op, err)
}
