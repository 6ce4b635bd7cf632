package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"breathe-backend/application/mocks"
	"breathe-backend/application/ports"
	"breathe-backend/application/queries"
	"breathe-backend/domain/progress"
	"breathe-backend/domain/session"
	"breathe-backend/domain/user"
	appErrors "breathe-backend/pkg/errors"
	"breathe-backend/pkg/observability"
)

var fixedNow = time.Date(2026, 10, 16, 10, 30, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return fixedNow.AddDate(0, 0, -n)
}

func TestSessionQueryHandler_HandleList(t *testing.T) {
	tests := []struct {
		name      string
		query     queries.ListSessionsQuery
		total     int
		wantCall  bool
		wantPages int
	}{
		{
			name:      "first page",
			query:     queries.ListSessionsQuery{UserID: "user123", Page: 1, Limit: 2},
			total:     5,
			wantCall:  true,
			wantPages: 3,
		},
		{
			name:      "page past the end",
			query:     queries.ListSessionsQuery{UserID: "user123", Page: 4, Limit: 2},
			total:     5,
			wantPages: 3,
		},
		{
			name:      "technique filter",
			query:     queries.ListSessionsQuery{UserID: "user123", TechniqueID: "coherent", Page: 1, Limit: 20},
			total:     1,
			wantCall:  true,
			wantPages: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := new(mocks.MockSessionRepository)
			filter := ports.SessionFilter{
				TechniqueID: tt.query.TechniqueID,
				Limit:       tt.query.Limit,
				Offset:      (tt.query.Page - 1) * tt.query.Limit,
			}
			repo.On("CountByUser", ctx, "user123", filter).Return(tt.total, nil)
			if tt.wantCall {
				repo.On("ListByUser", ctx, "user123", filter).Return([]session.Record{{ID: "s1"}}, nil)
			}

			h := NewSessionQueryHandler(repo, zap.NewNop())
			result, err := h.HandleList(ctx, tt.query)

			require.NoError(t, err)
			assert.Equal(t, tt.total, result.Pagination.Total)
			assert.Equal(t, tt.wantPages, result.Pagination.Pages)
			assert.NotNil(t, result.Sessions)
			if !tt.wantCall {
				assert.Empty(t, result.Sessions)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestSessionQueryHandler_HandleGet(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockSessionRepository)
	repo.On("GetByID", ctx, "user123", "s1").Return(session.Record{ID: "s1", UserID: "user123"}, nil)
	repo.On("GetByID", ctx, "user123", "s2").Return(session.Record{ID: "s2", UserID: "someone-else"}, nil)
	repo.On("GetByID", ctx, "user123", "s3").Return(nil, appErrors.NewNotFoundError("Session"))
	repo.On("GetByID", ctx, "user123", "s4").Return(nil, errors.New("throttled"))

	h := NewSessionQueryHandler(repo, zap.NewNop())

	record, err := h.HandleGet(ctx, queries.GetSessionQuery{UserID: "user123", SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "s1", record.ID)

	_, err = h.HandleGet(ctx, queries.GetSessionQuery{UserID: "user123", SessionID: "s2"})
	assert.True(t, appErrors.IsNotFound(err))

	_, err = h.HandleGet(ctx, queries.GetSessionQuery{UserID: "user123", SessionID: "s3"})
	assert.True(t, appErrors.IsNotFound(err))

	_, err = h.HandleGet(ctx, queries.GetSessionQuery{UserID: "user123", SessionID: "s4"})
	assert.True(t, appErrors.IsType(err, appErrors.ErrorTypeDatabase))
}

func newProgressHandler() (*ProgressQueryHandler, *mocks.MockSessionRepository, *mocks.MockUserRepository) {
	sessions := new(mocks.MockSessionRepository)
	users := new(mocks.MockUserRepository)
	engine := progress.NewEngine(time.UTC, func() time.Time { return fixedNow }, 3)
	h := NewProgressQueryHandler(sessions, users, engine, observability.NewTracer("test", false), zap.NewNop())
	return h, sessions, users
}

func history() []session.Record {
	return []session.Record{
		{ID: "a", TechniqueID: "box-breathing", OccurredAt: daysAgo(2), DurationSeconds: 119, PreMood: session.Int(2), PostMood: session.Int(4), Rating: session.Int(5)},
		{ID: "b", TechniqueID: "coherent", OccurredAt: daysAgo(1), DurationSeconds: 61, PostMood: session.Int(5)},
		{ID: "c", TechniqueID: "box-breathing", OccurredAt: daysAgo(0), DurationSeconds: 300, PreMood: session.Int(3), PostMood: session.Int(3), Rating: session.Int(3)},
	}
}

func TestProgressQueryHandler_HandleStats(t *testing.T) {
	ctx := context.Background()
	h, sessions, _ := newProgressHandler()
	sessions.On("ListAllByUser", ctx, "user123").Return(history(), nil)

	stats, err := h.HandleStats(ctx, queries.GetStatsQuery{UserID: "user123"})

	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalSessions)
	assert.Equal(t, 1+1+5, stats.TotalMinutes)
	assert.Equal(t, 3, stats.CurrentStreak)
	assert.InDelta(t, 1.0, stats.AvgMoodImprovement, 1e-9)
	assert.InDelta(t, 4.0, stats.AvgRating, 1e-9)
}

func TestProgressQueryHandler_HandleWeekly(t *testing.T) {
	ctx := context.Background()
	h, sessions, _ := newProgressHandler()
	sessions.On("ListAllByUser", ctx, "user123").Return(history(), nil)

	weekly, err := h.HandleWeekly(ctx, queries.GetWeeklyQuery{UserID: "user123"})

	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 0, 1, 1, 5}, weekly)
}

func TestProgressQueryHandler_HandleProgress(t *testing.T) {
	ctx := context.Background()
	h, sessions, users := newProgressHandler()
	u, err := user.New("user123", "ada@example.com", "Ada", fixedNow)
	require.NoError(t, err)
	u.Favorites.Add("coherent")
	u.Favorites.Add("4-7-8")

	sessions.On("ListAllByUser", ctx, "user123").Return(history(), nil)
	users.On("GetByID", ctx, "user123").Return(u, nil)

	snap, err := h.HandleProgress(ctx, queries.GetProgressQuery{UserID: "user123"})

	require.NoError(t, err)
	assert.Equal(t, 2, snap.FavoritesCount)
	assert.Equal(t, "box-breathing", snap.MostPracticed)
	assert.Equal(t, 1, snap.TodaysSessions)
	require.Len(t, snap.Achievements, 5)
	assert.True(t, snap.Achievements[0].Unlocked)
}

func TestProgressQueryHandler_EmptyHistory(t *testing.T) {
	ctx := context.Background()
	h, sessions, users := newProgressHandler()
	sessions.On("ListAllByUser", ctx, "user123").Return(nil, nil)
	users.On("GetByID", ctx, "user123").Return(nil, appErrors.NewNotFoundError("User"))

	snap, err := h.HandleProgress(ctx, queries.GetProgressQuery{UserID: "user123"})

	require.NoError(t, err)
	assert.Zero(t, snap.TotalSessions)
	assert.Zero(t, snap.CurrentStreak)
	assert.Equal(t, [7]int{}, snap.WeeklyMinutes)
}

func TestProgressQueryHandler_StoreFailure(t *testing.T) {
	ctx := context.Background()
	h, sessions, _ := newProgressHandler()
	sessions.On("ListAllByUser", ctx, "user123").Return(nil, errors.New("unavailable"))

	_, err := h.HandleStats(ctx, queries.GetStatsQuery{UserID: "user123"})

	assert.True(t, appErrors.IsType(err, appErrors.ErrorTypeDatabase))
}

func TestUserQueryHandler(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.MockUserRepository)
	u, err := user.New("user123", "ada@example.com", "Ada", fixedNow)
	require.NoError(t, err)
	u.Favorites.Add("physiological-sigh")

	users.On("GetByID", ctx, "user123").Return(u, nil)
	users.On("GetByEmail", ctx, "ada@example.com").Return(u, nil)
	users.On("GetByID", ctx, "ghost").Return(nil, appErrors.NewNotFoundError("User"))

	h := NewUserQueryHandler(users, zap.NewNop())

	profile, err := h.HandleProfile(ctx, queries.GetProfileQuery{Email: "ADA@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "user123", profile.ID)

	favs, err := h.HandleFavorites(ctx, queries.ListFavoritesQuery{UserID: "user123"})
	require.NoError(t, err)
	assert.Equal(t, []string{"physiological-sigh"}, favs)

	_, err = h.HandleProfile(ctx, queries.GetProfileQuery{UserID: "ghost"})
	assert.True(t, appErrors.IsNotFound(err))
}
