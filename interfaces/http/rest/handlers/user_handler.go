package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"breathe-backend/application/commands"
	"breathe-backend/application/commands/bus"
	"breathe-backend/application/queries"
	querybus "breathe-backend/application/queries/bus"
	"breathe-backend/domain/user"
	"breathe-backend/pkg/common"
	"breathe-backend/pkg/errors"
	"breathe-backend/pkg/utils"
)

// UserHandler handles profile, settings and favorites requests
type UserHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errs       *errors.ErrorHandler
	logger     *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *errors.ErrorHandler,
	logger *zap.Logger,
) *UserHandler {
	return &UserHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errs:       errs,
		logger:     logger,
	}
}

// UpdateProfileRequest represents the request body for a profile change
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,max=50"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

// UpdateSettingsRequest represents the request body for a settings change
type UpdateSettingsRequest struct {
	Notifications *bool   `json:"notifications,omitempty"`
	DarkMode      *bool   `json:"darkMode,omitempty"`
	ReminderTime  *string `json:"reminderTime,omitempty" validate:"omitempty,datetime=15:04"`
}

// GetMe handles GET /users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	profile, err := h.profile(r, u.UserID)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /users/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	var req UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	cmd := commands.UpdateProfileCommand{UserID: u.UserID, Name: req.Name, Email: req.Email}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	profile, err := h.profile(r, u.UserID)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, profile)
}

// UpdateSettings handles PUT /users/settings
func (h *UserHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	var req UpdateSettingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	cmd := commands.UpdateSettingsCommand{
		UserID:        u.UserID,
		Notifications: req.Notifications,
		DarkMode:      req.DarkMode,
		ReminderTime:  req.ReminderTime,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	profile, err := h.profile(r, u.UserID)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, profile.Settings)
}

// ListFavorites handles GET /users/favorites
func (h *UserHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	h.respondFavorites(w, r, u.UserID)
}

// AddFavorite handles POST /users/favorites/{techniqueID}
func (h *UserHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	cmd := commands.AddFavoriteCommand{UserID: u.UserID, TechniqueID: chi.URLParam(r, "techniqueID")}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	h.respondFavorites(w, r, u.UserID)
}

// RemoveFavorite handles DELETE /users/favorites/{techniqueID}
func (h *UserHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	cmd := commands.RemoveFavoriteCommand{UserID: u.UserID, TechniqueID: chi.URLParam(r, "techniqueID")}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	h.respondFavorites(w, r, u.UserID)
}

func (h *UserHandler) respondFavorites(w http.ResponseWriter, r *http.Request, userID string) {
	result, err := h.queryBus.Ask(r.Context(), queries.ListFavoritesQuery{UserID: userID})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

func (h *UserHandler) profile(r *http.Request, userID string) (*user.Profile, error) {
	return querybus.AskAs[*user.Profile](r.Context(), h.queryBus, queries.GetProfileQuery{UserID: userID})
}
