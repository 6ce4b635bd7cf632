package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"breathe-backend/application/commands"
	"breathe-backend/application/mocks"
	"breathe-backend/domain/events"
	"breathe-backend/domain/progress"
	"breathe-backend/domain/session"
	appErrors "breathe-backend/pkg/errors"
)

var fixedNow = time.Date(2026, 10, 16, 10, 30, 0, 0, time.UTC)

func newRecordHandler() (*RecordSessionHandler, *mocks.MockSessionRepository, *mocks.MockEventPublisher, *mocks.MockMetricsRecorder) {
	sessions := new(mocks.MockSessionRepository)
	publisher := new(mocks.MockEventPublisher)
	metrics := new(mocks.MockMetricsRecorder)
	clock := mocks.FixedClock{T: fixedNow}
	engine := progress.NewEngine(time.UTC, clock.Now, 3)
	h := NewRecordSessionHandler(sessions, publisher, metrics, engine, clock, zap.NewNop())
	return h, sessions, publisher, metrics
}

func TestRecordSessionHandler_Handle_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	h, sessions, publisher, metrics := newRecordHandler()

	cmd := commands.RecordSessionCommand{
		SessionID:       "s1",
		UserID:          "user123",
		TechniqueID:     "box-breathing",
		DurationSeconds: 300,
		Completed:       true,
		PreMood:         session.Int(2),
		PostMood:        session.Int(4),
	}

	sessions.On("ListAllByUser", ctx, "user123").Return([]session.Record{}, nil)
	sessions.On("Save", ctx, mock.MatchedBy(func(r session.Record) bool {
		return r.ID == "s1" && r.OccurredAt.Equal(fixedNow) && r.DurationSeconds == 300
	})).Return(nil)
	metrics.On("RecordSession", ctx, "box-breathing", 300, true).Return()
	publisher.On("PublishBatch", ctx, mock.MatchedBy(func(batch []events.DomainEvent) bool {
		// the first session unlocks first-breath
		return len(batch) == 2 &&
			batch[0].GetEventType() == events.TypeSessionRecorded &&
			batch[1].GetEventType() == events.TypeAchievementUnlocked
	})).Return(nil)

	// Act
	err := h.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	sessions.AssertExpectations(t)
	metrics.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestRecordSessionHandler_Handle_NoNewAchievement(t *testing.T) {
	ctx := context.Background()
	h, sessions, publisher, metrics := newRecordHandler()

	history := []session.Record{{ID: "s0", UserID: "user123", TechniqueID: "coherent", OccurredAt: fixedNow.Add(-time.Hour), DurationSeconds: 60}}
	sessions.On("ListAllByUser", ctx, "user123").Return(history, nil)
	sessions.On("Save", ctx, mock.Anything).Return(nil)
	metrics.On("RecordSession", ctx, "coherent", 120, false).Return()
	publisher.On("PublishBatch", ctx, mock.MatchedBy(func(batch []events.DomainEvent) bool {
		return len(batch) == 1
	})).Return(nil)

	err := h.Handle(ctx, commands.RecordSessionCommand{SessionID: "s1", UserID: "user123", TechniqueID: "coherent", DurationSeconds: 120})

	require.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestRecordSessionHandler_Handle_ValidationError(t *testing.T) {
	ctx := context.Background()
	h, sessions, _, _ := newRecordHandler()

	err := h.Handle(ctx, commands.RecordSessionCommand{
		SessionID:       "s1",
		UserID:          "user123",
		TechniqueID:     "box-breathing",
		DurationSeconds: -1,
		Rating:          session.Int(6),
	})

	require.Error(t, err)
	appErr := appErrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ErrorTypeValidation, appErr.Type)
	assert.Len(t, appErr.Fields, 2)
	sessions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRecordSessionHandler_Handle_SaveFails(t *testing.T) {
	ctx := context.Background()
	h, sessions, publisher, metrics := newRecordHandler()

	sessions.On("ListAllByUser", ctx, "user123").Return(nil, nil)
	sessions.On("Save", ctx, mock.Anything).Return(errors.New("table unavailable"))
	metrics.On("RecordError", ctx, "DATABASE").Return()

	err := h.Handle(ctx, commands.RecordSessionCommand{SessionID: "s1", UserID: "user123", TechniqueID: "coherent", DurationSeconds: 60})

	assert.True(t, appErrors.IsType(err, appErrors.ErrorTypeDatabase))
	publisher.AssertNotCalled(t, "PublishBatch", mock.Anything, mock.Anything)
	metrics.AssertExpectations(t)
}

func TestRecordSessionHandler_Handle_PublishFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	h, sessions, publisher, metrics := newRecordHandler()

	sessions.On("ListAllByUser", ctx, "user123").Return(nil, nil)
	sessions.On("Save", ctx, mock.Anything).Return(nil)
	metrics.On("RecordSession", ctx, mock.Anything, mock.Anything, mock.Anything).Return()
	publisher.On("PublishBatch", ctx, mock.Anything).Return(errors.New("bus down"))

	err := h.Handle(ctx, commands.RecordSessionCommand{SessionID: "s1", UserID: "user123", TechniqueID: "coherent", DurationSeconds: 60})

	assert.NoError(t, err)
}
