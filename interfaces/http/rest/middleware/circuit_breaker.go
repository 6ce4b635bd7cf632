package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	appErrors "breathe-backend/pkg/errors"
)

// errServerFailure marks a 5xx response as a breaker failure
var errServerFailure = errors.New("server failure")

// CircuitBreakerConfig holds configuration for circuit breaker
type CircuitBreakerConfig struct {
	Name        string
	MaxFailures uint32
	Timeout     time.Duration
	MaxRequests uint32
}

// CircuitBreaker stops calling the store-backed handlers after MaxFailures
// consecutive 5xx responses and answers 503 until Timeout elapses.
func CircuitBreaker(config CircuitBreakerConfig, errs *appErrors.ErrorHandler, logger *zap.Logger) func(http.Handler) http.Handler {
	if config.MaxRequests == 0 {
		config.MaxRequests = 1
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return config.MaxFailures > 0 && counts.ConsecutiveFailures >= config.MaxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := cb.Execute(func() (any, error) {
				ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
				next.ServeHTTP(ww, r)
				if ww.Status() >= http.StatusInternalServerError {
					return nil, errServerFailure
				}
				return nil, nil
			})

			switch {
			case errors.Is(err, gobreaker.ErrOpenState):
				errs.HandleStatus(w, r, http.StatusServiceUnavailable, "Service temporarily unavailable")
			case errors.Is(err, gobreaker.ErrTooManyRequests):
				errs.HandleStatus(w, r, http.StatusServiceUnavailable, "Service temporarily unavailable")
			}
		})
	}
}
