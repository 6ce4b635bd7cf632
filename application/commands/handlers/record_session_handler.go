package handlers

import (
	"context"

	"go.uber.org/zap"

	"breathe-backend/application/commands"
	"breathe-backend/application/ports"
	"breathe-backend/domain/events"
	"breathe-backend/domain/progress"
	"breathe-backend/domain/session"
	"breathe-backend/pkg/errors"
)

// RecordSessionHandler appends session records and announces them
type RecordSessionHandler struct {
	sessions  ports.SessionRepository
	publisher ports.EventPublisher
	metrics   ports.MetricsRecorder
	engine    *progress.Engine
	clock     ports.Clock
	logger    *zap.Logger
}

// NewRecordSessionHandler creates a new record session handler
func NewRecordSessionHandler(
	sessions ports.SessionRepository,
	publisher ports.EventPublisher,
	metrics ports.MetricsRecorder,
	engine *progress.Engine,
	clock ports.Clock,
	logger *zap.Logger,
) *RecordSessionHandler {
	return &RecordSessionHandler{
		sessions:  sessions,
		publisher: publisher,
		metrics:   metrics,
		engine:    engine,
		clock:     clock,
		logger:    logger,
	}
}

// Handle executes the record session command
func (h *RecordSessionHandler) Handle(ctx context.Context, cmd commands.RecordSessionCommand) error {
	record := cmd.Record()
	if record.OccurredAt.IsZero() {
		record.OccurredAt = h.clock.Now().UTC()
	}
	if err := record.Validate(nil); err != nil {
		return err
	}

	history, err := h.sessions.ListAllByUser(ctx, cmd.UserID)
	if err != nil {
		return h.databaseError(ctx, "list sessions", err)
	}

	if err := h.sessions.Save(ctx, record); err != nil {
		return h.databaseError(ctx, "save session", err)
	}

	if h.metrics != nil {
		h.metrics.RecordSession(ctx, record.TechniqueID, record.DurationSeconds, record.Completed)
	}

	h.publish(ctx, record, history)
	return nil
}

func (h *RecordSessionHandler) databaseError(ctx context.Context, operation string, err error) error {
	if h.metrics != nil {
		h.metrics.RecordError(ctx, string(errors.ErrorTypeDatabase))
	}
	return errors.NewDatabaseError(operation, err)
}

// publish announces the new record and any milestone it unlocked. Failures
// are logged; the record is already durable.
func (h *RecordSessionHandler) publish(ctx context.Context, record session.Record, history []session.Record) {
	if h.publisher == nil {
		return
	}

	now := h.clock.Now()
	batch := []events.DomainEvent{
		events.NewSessionRecorded(record.ID, record.UserID, record.TechniqueID, record.DurationSeconds, record.Completed, now),
	}

	before := h.engine.Compute(history, 0).Achievements
	after := h.engine.Compute(append(history, record), 0).Achievements
	for _, a := range progress.NewlyUnlocked(before, after) {
		batch = append(batch, events.NewAchievementUnlocked(record.UserID, a.ID, now))
	}

	if err := h.publisher.PublishBatch(ctx, batch); err != nil {
		h.logger.Warn("Failed to publish session events",
			zap.String("userID", record.UserID),
			zap.String("sessionID", record.ID),
			zap.Error(err),
		)
	}
}
