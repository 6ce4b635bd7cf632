package di

import (
	"go.uber.org/zap"

	"breathe-backend/application/commands/bus"
	"breathe-backend/application/ports"
	querybus "breathe-backend/application/queries/bus"
	"breathe-backend/domain/progress"
	"breathe-backend/domain/technique"
	"breathe-backend/infrastructure/catalog"
	"breathe-backend/infrastructure/config"
	"breathe-backend/pkg/auth"
	"breathe-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	Sessions       ports.SessionRepository
	Users          ports.UserRepository
	Publisher      ports.EventPublisher
	Catalog        *technique.Holder
	CatalogWatcher *catalog.Watcher
	Engine         *progress.Engine
	Clock          ports.Clock
	CommandBus     *bus.CommandBus
	QueryBus       *querybus.QueryBus
	Metrics        *observability.Metrics
	Collector      *observability.Collector
	Tracer         *observability.Tracer
	JWT            *auth.JWTService
	RateLimiter    auth.RateLimiter
}

// Close stops background workers and flushes the logger
func (c *Container) Close() {
	if c.CatalogWatcher != nil {
		c.CatalogWatcher.Stop()
	}
	_ = c.Logger.Sync()
}
