package di

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"breathe-backend/application/commands"
	"breathe-backend/application/queries"
	"breathe-backend/domain/user"
	"breathe-backend/infrastructure/config"
	"breathe-backend/infrastructure/messaging/eventbridge"
	"breathe-backend/infrastructure/persistence/dynamodb"
	"breathe-backend/infrastructure/persistence/memory"
	"breathe-backend/pkg/auth"
	"breathe-backend/pkg/observability"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func testConfig() *config.Config {
	return &config.Config{
		Environment:        "test",
		Persistence:        config.PersistenceMemory,
		TableName:          "breathe",
		IndexName:          "GSI1",
		EventBusName:       "breathe-events",
		StreakTimezone:     "UTC",
		CompletionRatio:    1,
		JWTIssuer:          "breathe-api",
		JWTTTLHours:        1,
		RateLimitPerMinute: 10,
		MetricsNamespace:   "Breathe",
	}
}

func TestProvideRepositories(t *testing.T) {
	logger := zap.NewNop()

	cfg := testConfig()
	assert.IsType(t, &memory.SessionRepository{}, ProvideSessionRepository(nil, cfg, logger))
	assert.IsType(t, &memory.UserRepository{}, ProvideUserRepository(nil, cfg, logger))

	cfg.Persistence = config.PersistenceDynamoDB
	assert.IsType(t, &dynamodb.SessionRepository{}, ProvideSessionRepository(nil, cfg, logger))
	assert.IsType(t, &dynamodb.UserRepository{}, ProvideUserRepository(nil, cfg, logger))
}

func TestProvideEventPublisher(t *testing.T) {
	tests := []struct {
		name        string
		persistence string
		bus         string
		want        interface{}
	}{
		{"memory logs", config.PersistenceMemory, "breathe-events", &eventbridge.LogPublisher{}},
		{"dynamodb with bus", config.PersistenceDynamoDB, "breathe-events", &eventbridge.Publisher{}},
		{"dynamodb without bus", config.PersistenceDynamoDB, "", &eventbridge.LogPublisher{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Persistence = tt.persistence
			cfg.EventBusName = tt.bus

			assert.IsType(t, tt.want, ProvideEventPublisher(nil, cfg, zap.NewNop()))
		})
	}
}

func TestProvideJWTService(t *testing.T) {
	cfg := testConfig()
	svc, err := ProvideJWTService(cfg)
	require.NoError(t, err)
	token, _, err := svc.GenerateToken("u1", "a@b.co")
	require.NoError(t, err)
	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)

	cfg.Environment = "production"
	_, err = ProvideJWTService(cfg)
	assert.Error(t, err)
}

func TestProvideRateLimiter(t *testing.T) {
	cfg := testConfig()
	assert.IsType(t, &auth.SlidingWindowLimiter{}, ProvideRateLimiter(nil, cfg))

	cfg.IsLambda = true
	cfg.Persistence = config.PersistenceDynamoDB
	assert.IsType(t, &auth.DistributedRateLimiter{}, ProvideRateLimiter(nil, cfg))
}

func TestProvideCatalogWatcher_DisabledByDefault(t *testing.T) {
	cfg := testConfig()
	holder, err := ProvideCatalog(cfg)
	require.NoError(t, err)
	assert.Greater(t, holder.Catalog().Len(), 0)

	w, err := ProvideCatalogWatcher(cfg, holder, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestMetricsFanout(t *testing.T) {
	collector := observability.NewCollector("test")
	recorder := ProvideMetricsRecorder(observability.NewMetrics("Breathe/test", nil, zap.NewNop()), collector)

	recorder.RecordSession(context.Background(), "box-breathing", 300, true)
	recorder.RecordError(context.Background(), "DATABASE")

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.SessionsRecorded.WithLabelValues("box-breathing", "true")))
	assert.Equal(t, 5.0, testutil.ToFloat64(collector.MinutesPractised))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Errors.WithLabelValues("DATABASE")))
}

func TestBusesRoundTrip(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cfg := testConfig()
	logger := zap.NewNop()
	sessions := memory.NewSessionRepository()
	users := memory.NewUserRepository()
	holder, err := ProvideCatalog(cfg)
	require.NoError(t, err)
	rules := ProvideDomainConfig(cfg)
	clock := fixedClock{time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)}
	engine := ProvideEngine(rules, clock)
	collector := ProvideCollector()

	commandBus, err := ProvideCommandBus(sessions, users, holder, eventbridge.NewLogPublisher(logger),
		ProvideMetricsRecorder(ProvideMetrics(nil, cfg, logger), collector), engine, rules, clock, logger)
	require.NoError(t, err)
	queryBus, err := ProvideQueryBus(sessions, users, engine, ProvideTracer(cfg), collector, logger)
	require.NoError(t, err)

	// Act
	require.NoError(t, commandBus.Send(ctx, commands.RegisterUserCommand{UserID: "u1", Email: "Ada@Example.com", Name: "Ada"}))
	require.NoError(t, commandBus.Send(ctx, commands.AddFavoriteCommand{UserID: "u1", TechniqueID: "box-breathing"}))
	result, err := queryBus.Ask(ctx, queries.GetProfileQuery{Email: "ada@example.com"})

	// Assert
	require.NoError(t, err)
	profile := result.(*user.Profile)
	assert.Equal(t, "u1", profile.ID)
	assert.Equal(t, []string{"box-breathing"}, profile.Favorites)
}
