package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"breathe-backend/application/commands"
	"breathe-backend/application/commands/bus"
	"breathe-backend/application/ports"
	"breathe-backend/application/queries"
	querybus "breathe-backend/application/queries/bus"
	"breathe-backend/domain/session"
	"breathe-backend/pkg/common"
	"breathe-backend/pkg/errors"
	"breathe-backend/pkg/utils"
)

// SessionHandler handles practice session and progress requests
type SessionHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	clock      ports.Clock
	errs       *errors.ErrorHandler
	logger     *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	clock ports.Clock,
	errs *errors.ErrorHandler,
	logger *zap.Logger,
) *SessionHandler {
	return &SessionHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		clock:      clock,
		errs:       errs,
		logger:     logger,
	}
}

// RecordSessionRequest represents the request body for recording a session
type RecordSessionRequest struct {
	TechniqueID string `json:"techniqueId" validate:"required"`
	Duration    *int   `json:"duration" validate:"required,min=0"`
	Completed   bool   `json:"completed"`
	PreMood     *int   `json:"preMood,omitempty" validate:"omitempty,min=1,max=5"`
	PostMood    *int   `json:"postMood,omitempty" validate:"omitempty,min=1,max=5"`
	Rating      *int   `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Notes       string `json:"notes,omitempty" validate:"max=500"`
}

// RecordSession handles POST /sessions
func (h *SessionHandler) RecordSession(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	var req RecordSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	sessionID := session.NewID()
	cmd := commands.RecordSessionCommand{
		SessionID:       sessionID,
		UserID:          u.UserID,
		TechniqueID:     req.TechniqueID,
		DurationSeconds: *req.Duration,
		Completed:       req.Completed,
		PreMood:         req.PreMood,
		PostMood:        req.PostMood,
		Rating:          req.Rating,
		Notes:           req.Notes,
		OccurredAt:      h.clock.Now().UTC(),
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	// Answer with the record as written; index reads may lag the write.
	record := cmd.Record()

	h.logger.Info("Session recorded",
		zap.String("userID", u.UserID),
		zap.String("sessionID", sessionID),
		zap.String("techniqueID", req.TechniqueID),
	)
	common.RespondJSON(w, http.StatusCreated, &record)
}

// ListSessions handles GET /sessions
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	params, fields := common.ExtractPaginationParams(r)
	if len(fields) > 0 {
		common.RespondValidationErrors(w, fields)
		return
	}

	h.ask(w, r, queries.ListSessionsQuery{
		UserID:      u.UserID,
		TechniqueID: r.URL.Query().Get("techniqueId"),
		Page:        params.Page,
		Limit:       params.Limit,
	})
}

// GetSession handles GET /sessions/{sessionID}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	h.ask(w, r, queries.GetSessionQuery{UserID: u.UserID, SessionID: chi.URLParam(r, "sessionID")})
}

// GetStats handles GET /sessions/stats
func (h *SessionHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	h.ask(w, r, queries.GetStatsQuery{UserID: u.UserID})
}

// GetWeekly handles GET /sessions/weekly
func (h *SessionHandler) GetWeekly(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	h.ask(w, r, queries.GetWeeklyQuery{UserID: u.UserID})
}

// GetProgress handles GET /sessions/progress
func (h *SessionHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	h.ask(w, r, queries.GetProgressQuery{UserID: u.UserID})
}

func (h *SessionHandler) ask(w http.ResponseWriter, r *http.Request, query querybus.Query) {
	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
