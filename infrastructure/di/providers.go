package di

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"breathe-backend/application/commands"
	"breathe-backend/application/commands/bus"
	commands_handlers "breathe-backend/application/commands/handlers"
	"breathe-backend/application/ports"
	"breathe-backend/application/queries"
	querybus "breathe-backend/application/queries/bus"
	queries_handlers "breathe-backend/application/queries/handlers"
	domainconfig "breathe-backend/domain/config"
	"breathe-backend/domain/progress"
	"breathe-backend/domain/technique"
	"breathe-backend/infrastructure/catalog"
	"breathe-backend/infrastructure/config"
	"breathe-backend/infrastructure/messaging/eventbridge"
	"breathe-backend/infrastructure/persistence/dynamodb"
	"breathe-backend/infrastructure/persistence/memory"
	"breathe-backend/pkg/auth"
	"breathe-backend/pkg/observability"
)

// devJWTSecret signs tokens outside production when JWT_SECRET is unset
const devJWTSecret = "development-secret-change-in-production"

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}

	return zcfg.Build()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideDomainConfig derives the business rules from configuration
func ProvideDomainConfig(cfg *config.Config) *domainconfig.DomainConfig {
	return cfg.DomainConfig()
}

// ProvideClock returns the wall clock
func ProvideClock() ports.Clock {
	return ports.SystemClock{}
}

// ProvideEngine creates the progress engine shared by all progress queries
func ProvideEngine(rules *domainconfig.DomainConfig, clock ports.Clock) *progress.Engine {
	return progress.NewEngine(rules.Location(), clock.Now, rules.TopTechniquesLimit)
}

// ProvideSessionRepository selects the session store for the configured backend
func ProvideSessionRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.SessionRepository {
	if cfg.Persistence == config.PersistenceDynamoDB {
		return dynamodb.NewSessionRepository(client, cfg.TableName, cfg.IndexName, logger)
	}
	return memory.NewSessionRepository()
}

// ProvideUserRepository selects the user store for the configured backend
func ProvideUserRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.UserRepository {
	if cfg.Persistence == config.PersistenceDynamoDB {
		return dynamodb.NewUserRepository(client, cfg.TableName, cfg.IndexName, logger)
	}
	return memory.NewUserRepository()
}

// ProvideEventPublisher publishes to EventBridge when a bus is configured
// alongside DynamoDB, and to the log otherwise
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.Persistence == config.PersistenceDynamoDB && cfg.EventBusName != "" {
		return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
	}
	return eventbridge.NewLogPublisher(logger)
}

// ProvideCatalog loads the technique catalog
func ProvideCatalog(cfg *config.Config) (*technique.Holder, error) {
	c, err := catalog.Load(cfg.TechniquesPath)
	if err != nil {
		return nil, err
	}
	return technique.NewHolder(c), nil
}

// ProvideCatalogWatcher creates a watcher when hot reload is enabled and the
// catalog comes from a file. It returns nil otherwise.
func ProvideCatalogWatcher(cfg *config.Config, holder *technique.Holder, logger *zap.Logger) (*catalog.Watcher, error) {
	if !cfg.WatchTechniques || cfg.TechniquesPath == "" {
		return nil, nil
	}
	return catalog.NewWatcher(cfg.TechniquesPath, holder, logger)
}

// ProvideMetrics creates the CloudWatch business metrics. Without
// ENABLE_METRICS the recorder has no client and discards everything.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	namespace := fmt.Sprintf("%s/%s", cfg.MetricsNamespace, cfg.Environment)
	if !cfg.EnableMetrics || cfg.Persistence != config.PersistenceDynamoDB {
		return observability.NewMetrics(namespace, nil, logger)
	}
	return observability.NewMetrics(namespace, client, logger)
}

// ProvideCollector creates the Prometheus collector served on /metrics
func ProvideCollector() *observability.Collector {
	return observability.NewCollector("breathe")
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer("breathe-api", cfg.EnableTracing)
}

// ProvideMetricsRecorder fans session and error metrics out to CloudWatch and Prometheus
func ProvideMetricsRecorder(metrics *observability.Metrics, collector *observability.Collector) ports.MetricsRecorder {
	return metricsFanout{metrics, collector}
}

type metricsFanout []ports.MetricsRecorder

func (f metricsFanout) RecordSession(ctx context.Context, techniqueID string, durationSeconds int, completed bool) {
	for _, r := range f {
		r.RecordSession(ctx, techniqueID, durationSeconds, completed)
	}
}

func (f metricsFanout) RecordError(ctx context.Context, errorType string) {
	for _, r := range f {
		r.RecordError(ctx, errorType)
	}
}

// ProvideJWTService creates the token service
func ProvideJWTService(cfg *config.Config) (*auth.JWTService, error) {
	secret := cfg.JWTSecret
	if secret == "" && !cfg.IsProduction() {
		secret = devJWTSecret
	}
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
		Audience:  []string{"breathe-api"},
		TTL:       cfg.JWTTTL(),
	})
}

// ProvideRateLimiter shares counters through DynamoDB when running in Lambda
// and keeps them in process otherwise
func ProvideRateLimiter(client *awsdynamodb.Client, cfg *config.Config) auth.RateLimiter {
	if cfg.IsLambda && cfg.Persistence == config.PersistenceDynamoDB {
		return auth.NewDistributedRateLimiter(client, cfg.TableName, cfg.RateLimitPerMinute, time.Minute)
	}
	return auth.NewSlidingWindowLimiter(cfg.RateLimitPerMinute, time.Minute)
}

// CommandHandlerAdapter adapts specific command handlers to the generic interface
type CommandHandlerAdapter struct {
	handler func(context.Context, bus.Command) error
}

func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) error {
	return a.handler(ctx, cmd)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	sessions ports.SessionRepository,
	users ports.UserRepository,
	holder *technique.Holder,
	publisher ports.EventPublisher,
	recorder ports.MetricsRecorder,
	engine *progress.Engine,
	rules *domainconfig.DomainConfig,
	clock ports.Clock,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(bus.LoggingMiddleware(logger))

	recordHandler := commands_handlers.NewRecordSessionHandler(sessions, publisher, recorder, engine, clock, logger)
	favoritesHandler := commands_handlers.NewFavoritesHandler(users, holder, publisher, clock, logger)
	userHandler := commands_handlers.NewUserHandler(users, publisher, rules, clock, logger)

	registrations := []struct {
		cmd     bus.Command
		handler func(context.Context, bus.Command) error
	}{
		{commands.RecordSessionCommand{}, func(ctx context.Context, cmd bus.Command) error {
			c, ok := cmd.(commands.RecordSessionCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return recordHandler.Handle(ctx, c)
		}},
		{commands.AddFavoriteCommand{}, func(ctx context.Context, cmd bus.Command) error {
			c, ok := cmd.(commands.AddFavoriteCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return favoritesHandler.HandleAdd(ctx, c)
		}},
		{commands.RemoveFavoriteCommand{}, func(ctx context.Context, cmd bus.Command) error {
			c, ok := cmd.(commands.RemoveFavoriteCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return favoritesHandler.HandleRemove(ctx, c)
		}},
		{commands.RegisterUserCommand{}, func(ctx context.Context, cmd bus.Command) error {
			c, ok := cmd.(commands.RegisterUserCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return userHandler.HandleRegister(ctx, c)
		}},
		{commands.LoginUserCommand{}, func(ctx context.Context, cmd bus.Command) error {
			c, ok := cmd.(commands.LoginUserCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return userHandler.HandleLogin(ctx, c)
		}},
		{commands.UpdateProfileCommand{}, func(ctx context.Context, cmd bus.Command) error {
			c, ok := cmd.(commands.UpdateProfileCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return userHandler.HandleUpdateProfile(ctx, c)
		}},
		{commands.UpdateSettingsCommand{}, func(ctx context.Context, cmd bus.Command) error {
			c, ok := cmd.(commands.UpdateSettingsCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return userHandler.HandleUpdateSettings(ctx, c)
		}},
	}

	for _, reg := range registrations {
		if err := commandBus.Register(reg.cmd, &CommandHandlerAdapter{handler: reg.handler}); err != nil {
			return nil, err
		}
	}

	return commandBus, nil
}

// QueryHandlerAdapter adapts specific query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// queryBusMetrics exposes the collector through the query bus metrics interface
type queryBusMetrics struct {
	collector *observability.Collector
}

func (m queryBusMetrics) StartTimer(metric, label string) querybus.Timer {
	return m.collector.StartTimer(metric, label)
}

func (m queryBusMetrics) Increment(metric, label string) {
	m.collector.Increment(metric, label)
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	sessions ports.SessionRepository,
	users ports.UserRepository,
	engine *progress.Engine,
	tracer *observability.Tracer,
	collector *observability.Collector,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(querybus.NewMetricsMiddleware(queryBusMetrics{collector}))

	sessionHandler := queries_handlers.NewSessionQueryHandler(sessions, logger)
	progressHandler := queries_handlers.NewProgressQueryHandler(sessions, users, engine, tracer, logger)
	userHandler := queries_handlers.NewUserQueryHandler(users, logger)

	registrations := []struct {
		query   querybus.Query
		handler func(context.Context, querybus.Query) (interface{}, error)
	}{
		{queries.ListSessionsQuery{}, func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.ListSessionsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return sessionHandler.HandleList(ctx, q)
		}},
		{queries.GetSessionQuery{}, func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.GetSessionQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return sessionHandler.HandleGet(ctx, q)
		}},
		{queries.GetStatsQuery{}, func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.GetStatsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return progressHandler.HandleStats(ctx, q)
		}},
		{queries.GetWeeklyQuery{}, func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.GetWeeklyQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return progressHandler.HandleWeekly(ctx, q)
		}},
		{queries.GetProgressQuery{}, func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.GetProgressQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return progressHandler.HandleProgress(ctx, q)
		}},
		{queries.GetProfileQuery{}, func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.GetProfileQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return userHandler.HandleProfile(ctx, q)
		}},
		{queries.ListFavoritesQuery{}, func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.ListFavoritesQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return userHandler.HandleFavorites(ctx, q)
		}},
	}

	for _, reg := range registrations {
		if err := queryBus.Register(reg.query, &QueryHandlerAdapter{handler: reg.handler}); err != nil {
			return nil, err
		}
	}

	return queryBus, nil
}
