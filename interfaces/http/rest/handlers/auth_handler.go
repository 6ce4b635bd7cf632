package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"breathe-backend/application/commands"
	"breathe-backend/application/commands/bus"
	"breathe-backend/application/queries"
	querybus "breathe-backend/application/queries/bus"
	"breathe-backend/domain/user"
	"breathe-backend/pkg/auth"
	"breathe-backend/pkg/common"
	"breathe-backend/pkg/errors"
	"breathe-backend/pkg/utils"
)

// AuthHandler issues demo access tokens
type AuthHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	jwt        *auth.JWTService
	errs       *errors.ErrorHandler
	logger     *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	jwt *auth.JWTService,
	errs *errors.ErrorHandler,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		jwt:        jwt,
		errs:       errs,
		logger:     logger,
	}
}

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"max=50"`
	Goal     string `json:"goal,omitempty"`
	Password string `json:"password,omitempty"`
}

// LoginRequest represents the request body for signing in
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password,omitempty"`
}

// AuthResponse carries the issued token and the signed-in user
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      user.Profile `json:"user"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	userID := user.NewID()
	cmd := commands.RegisterUserCommand{
		UserID: userID,
		Email:  req.Email,
		Name:   req.Name,
		Goal:   req.Goal,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	h.respondWithToken(w, r, queries.GetProfileQuery{UserID: userID}, http.StatusCreated)
}

// Login handles POST /auth/login. Demo auth accepts any password and creates
// the account on first sign in.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	cmd := commands.LoginUserCommand{
		UserID: user.NewID(),
		Email:  req.Email,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	h.respondWithToken(w, r, queries.GetProfileQuery{Email: req.Email}, http.StatusOK)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, query queries.GetProfileQuery, status int) {
	profile, err := querybus.AskAs[*user.Profile](r.Context(), h.queryBus, query)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	token, expiresAt, err := h.jwt.GenerateToken(profile.ID, profile.Email)
	if err != nil {
		h.errs.Handle(w, r, errors.NewInternalError("failed to issue token").WithCause(err))
		return
	}

	common.RespondJSON(w, status, AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *profile,
	})
}
