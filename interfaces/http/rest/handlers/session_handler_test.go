package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"breathe-backend/application/commands"
	"breathe-backend/application/commands/bus"
	cmdhandlers "breathe-backend/application/commands/handlers"
	"breathe-backend/application/mocks"
	"breathe-backend/application/queries"
	querybus "breathe-backend/application/queries/bus"
	queryhandlers "breathe-backend/application/queries/handlers"
	"breathe-backend/domain/session"
	"breathe-backend/pkg/auth"
	"breathe-backend/pkg/errors"
)

var recordedAt = time.Date(2026, 10, 16, 7, 30, 0, 0, time.UTC)

func newSessionHandler(t *testing.T, sessions *mocks.MockSessionRepository) *SessionHandler {
	t.Helper()
	clock := mocks.FixedClock{T: recordedAt}
	logger := zap.NewNop()

	record := cmdhandlers.NewRecordSessionHandler(sessions, nil, nil, nil, clock, logger)
	commandBus := bus.NewCommandBus()
	require.NoError(t, commandBus.Register(commands.RecordSessionCommand{}, bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) error {
			return record.Handle(ctx, cmd.(commands.RecordSessionCommand))
		})))

	get := queryhandlers.NewSessionQueryHandler(sessions, logger)
	queryBus := querybus.NewQueryBus()
	require.NoError(t, queryBus.Register(queries.GetSessionQuery{}, querybus.QueryHandlerFunc(
		func(ctx context.Context, q querybus.Query) (interface{}, error) {
			return get.HandleGet(ctx, q.(queries.GetSessionQuery))
		})))

	return NewSessionHandler(commandBus, queryBus, clock, errors.NewErrorHandler(logger, false), logger)
}

func postSession(h *SessionHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(body))
	req = req.WithContext(auth.SetUserInContext(req.Context(), &auth.UserContext{UserID: "user123"}))
	w := httptest.NewRecorder()
	h.RecordSession(w, req)
	return w
}

func TestRecordSession_RespondsWithWrittenRecord(t *testing.T) {
	// Arrange
	sessions := new(mocks.MockSessionRepository)
	sessions.On("ListAllByUser", mock.Anything, "user123").Return(nil, nil)
	sessions.On("Save", mock.Anything, mock.AnythingOfType("session.Record")).Return(nil)
	// The index has not caught up with the write yet.
	sessions.On("GetByID", mock.Anything, "user123", mock.Anything).Return(nil, errors.NewNotFoundError("Session")).Maybe()
	h := newSessionHandler(t, sessions)

	// Act
	w := postSession(h, `{"techniqueId":"box-breathing","duration":300,"completed":true,"preMood":2,"postMood":4}`)

	// Assert
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Success bool           `json:"success"`
		Data    session.Record `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.ID)
	assert.Equal(t, "user123", resp.Data.UserID)
	assert.Equal(t, "box-breathing", resp.Data.TechniqueID)
	assert.Equal(t, 300, resp.Data.DurationSeconds)
	assert.True(t, resp.Data.Completed)
	assert.True(t, recordedAt.Equal(resp.Data.OccurredAt))
	require.NotNil(t, resp.Data.PostMood)
	assert.Equal(t, 4, *resp.Data.PostMood)

	saved := sessions.Calls[1].Arguments.Get(1).(session.Record)
	assert.Equal(t, saved.ID, resp.Data.ID)
	sessions.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordSession_SaveFailureIsServerError(t *testing.T) {
	sessions := new(mocks.MockSessionRepository)
	sessions.On("ListAllByUser", mock.Anything, "user123").Return(nil, nil)
	sessions.On("Save", mock.Anything, mock.Anything).Return(assert.AnError)
	h := newSessionHandler(t, sessions)

	w := postSession(h, `{"techniqueId":"box-breathing","duration":60}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Server error")
}
