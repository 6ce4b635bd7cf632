package handlers

import (
	"context"

	"go.uber.org/zap"

	"breathe-backend/application/ports"
	"breathe-backend/application/queries"
	"breathe-backend/domain/session"
	"breathe-backend/pkg/common"
	"breathe-backend/pkg/errors"
)

// SessionQueryHandler serves session history reads
type SessionQueryHandler struct {
	sessions ports.SessionRepository
	logger   *zap.Logger
}

// NewSessionQueryHandler creates a new session query handler
func NewSessionQueryHandler(sessions ports.SessionRepository, logger *zap.Logger) *SessionQueryHandler {
	return &SessionQueryHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// HandleList returns one page of the user's sessions, newest first
func (h *SessionQueryHandler) HandleList(ctx context.Context, query queries.ListSessionsQuery) (*queries.ListSessionsResult, error) {
	params := common.PaginationParams{Page: query.Page, Limit: query.Limit}
	filter := ports.SessionFilter{
		TechniqueID: query.TechniqueID,
		Limit:       params.Limit,
		Offset:      params.Offset(),
	}

	total, err := h.sessions.CountByUser(ctx, query.UserID, filter)
	if err != nil {
		return nil, errors.NewDatabaseError("count sessions", err)
	}

	records := []session.Record{}
	if filter.Offset < total {
		records, err = h.sessions.ListByUser(ctx, query.UserID, filter)
		if err != nil {
			return nil, errors.NewDatabaseError("list sessions", err)
		}
		if records == nil {
			records = []session.Record{}
		}
	}

	return &queries.ListSessionsResult{
		Sessions:   records,
		Pagination: common.BuildPaginationInfo(params, total),
	}, nil
}

// HandleGet returns one session. A record owned by another user is reported
// as missing.
func (h *SessionQueryHandler) HandleGet(ctx context.Context, query queries.GetSessionQuery) (*session.Record, error) {
	record, err := h.sessions.GetByID(ctx, query.UserID, query.SessionID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewNotFoundError("Session")
		}
		return nil, errors.NewDatabaseError("get session", err)
	}
	if record.UserID != query.UserID {
		return nil, errors.NewNotFoundError("Session")
	}
	return &record, nil
}
