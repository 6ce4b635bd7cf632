package rest

import (
	"time"

	"breathe-backend/infrastructure/di"
	"breathe-backend/interfaces/http/rest/middleware"
)

// DependenciesFrom collects router dependencies from a wired container
func DependenciesFrom(c *di.Container) Dependencies {
	cfg := c.Config
	return Dependencies{
		CommandBus:      c.CommandBus,
		QueryBus:        c.QueryBus,
		Catalog:         c.Catalog,
		Clock:           c.Clock,
		JWT:             c.JWT,
		RateLimiter:     c.RateLimiter,
		Collector:       c.Collector,
		Tracer:          c.Tracer,
		Logger:          c.Logger,
		Recommendations: cfg.DomainConfig().RecommendationsLimit,
		EnableCORS:      cfg.EnableCORS,
		Debug:           cfg.IsDevelopment(),
		Breaker: middleware.CircuitBreakerConfig{
			Name:        "breathe-api",
			MaxFailures: uint32(max(cfg.BreakerMaxFailures, 0)),
			Timeout:     time.Duration(cfg.BreakerTimeoutSeconds) * time.Second,
		},
	}
}
