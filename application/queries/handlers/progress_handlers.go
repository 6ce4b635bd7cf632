package handlers

import (
	"context"

	"go.uber.org/zap"

	"breathe-backend/application/ports"
	"breathe-backend/application/queries"
	"breathe-backend/domain/progress"
	"breathe-backend/domain/session"
	"breathe-backend/pkg/errors"
	"breathe-backend/pkg/observability"
)

// ProgressQueryHandler recomputes progress from the stored history on every
// request. Nothing derived is cached.
type ProgressQueryHandler struct {
	sessions ports.SessionRepository
	users    ports.UserRepository
	engine   *progress.Engine
	tracer   *observability.Tracer
	logger   *zap.Logger
}

// NewProgressQueryHandler creates a new progress query handler
func NewProgressQueryHandler(
	sessions ports.SessionRepository,
	users ports.UserRepository,
	engine *progress.Engine,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *ProgressQueryHandler {
	return &ProgressQueryHandler{
		sessions: sessions,
		users:    users,
		engine:   engine,
		tracer:   tracer,
		logger:   logger,
	}
}

// HandleStats returns the summary statistics
func (h *ProgressQueryHandler) HandleStats(ctx context.Context, query queries.GetStatsQuery) (*progress.Stats, error) {
	snap, err := h.snapshot(ctx, query.UserID, 0)
	if err != nil {
		return nil, err
	}
	stats := snap.Stats()
	return &stats, nil
}

// HandleWeekly returns minutes per day, oldest first, today last
func (h *ProgressQueryHandler) HandleWeekly(ctx context.Context, query queries.GetWeeklyQuery) ([]int, error) {
	snap, err := h.snapshot(ctx, query.UserID, 0)
	if err != nil {
		return nil, err
	}
	return snap.WeeklyMinutes[:], nil
}

// HandleProgress returns the full snapshot including favorites count
func (h *ProgressQueryHandler) HandleProgress(ctx context.Context, query queries.GetProgressQuery) (*progress.Snapshot, error) {
	favorites := 0
	u, err := h.users.GetByID(ctx, query.UserID)
	switch {
	case err == nil:
		favorites = u.Favorites.Len()
	case errors.IsNotFound(err):
		h.logger.Debug("No profile for progress request", zap.String("userID", query.UserID))
	default:
		return nil, errors.NewDatabaseError("get user", err)
	}

	snap, err := h.snapshot(ctx, query.UserID, favorites)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (h *ProgressQueryHandler) snapshot(ctx context.Context, userID string, favorites int) (progress.Snapshot, error) {
	var records []session.Record
	err := h.tracer.TraceFunction(ctx, "progress.load", func(ctx context.Context) error {
		var err error
		records, err = h.sessions.ListAllByUser(ctx, userID)
		return err
	})
	if err != nil {
		return progress.Snapshot{}, errors.NewDatabaseError("list sessions", err)
	}

	var snap progress.Snapshot
	_ = h.tracer.TraceFunction(ctx, "progress.compute", func(ctx context.Context) error {
		snap = h.engine.Compute(records, favorites)
		h.tracer.AddMetadata(ctx, "records", len(records))
		return nil
	})
	return snap, nil
}
