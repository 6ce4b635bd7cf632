package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"breathe-backend/pkg/auth"
	appErrors "breathe-backend/pkg/errors"
	"breathe-backend/pkg/observability"
)

type stubLimiter struct {
	allowed map[string]bool
	err     error
	keys    []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (bool, error) {
	s.keys = append(s.keys, key)
	if s.err != nil {
		return false, s.err
	}
	if allowed, ok := s.allowed[key]; ok {
		return allowed, nil
	}
	return true, nil
}

func (s *stubLimiter) Reset(_ context.Context, _ string) error { return nil }

func newJWT(t *testing.T) *auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(auth.JWTConfig{
		SecretKey: "test-secret",
		Issuer:    "breathe-api",
		Audience:  []string{"breathe-api"},
		TTL:       time.Hour,
	})
	require.NoError(t, err)
	return svc
}

func TestAuthenticate(t *testing.T) {
	jwtSvc := newJWT(t)
	token, _, err := jwtSvc.GenerateToken("user123", "a@b.co")
	require.NoError(t, err)

	other, err := auth.NewJWTService(auth.JWTConfig{SecretKey: "other-secret", Issuer: "breathe-api", Audience: []string{"breathe-api"}})
	require.NoError(t, err)
	forged, _, err := other.GenerateToken("user123", "a@b.co")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		limiter    *stubLimiter
		wantStatus int
		wantUser   string
	}{
		{name: "valid token", header: "Bearer " + token, limiter: &stubLimiter{}, wantStatus: http.StatusOK, wantUser: "user123"},
		{name: "lowercase scheme", header: "bearer " + token, limiter: &stubLimiter{}, wantStatus: http.StatusOK, wantUser: "user123"},
		{name: "missing header", header: "", limiter: &stubLimiter{}, wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", limiter: &stubLimiter{}, wantStatus: http.StatusUnauthorized},
		{name: "forged signature", header: "Bearer " + forged, limiter: &stubLimiter{}, wantStatus: http.StatusUnauthorized},
		{
			name:       "ip limited",
			header:     "Bearer " + token,
			limiter:    &stubLimiter{allowed: map[string]bool{"ip:192.0.2.1": false}},
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "user limited",
			header:     "Bearer " + token,
			limiter:    &stubLimiter{allowed: map[string]bool{"user:user123": false}},
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "limiter failure fails open",
			header:     "Bearer " + token,
			limiter:    &stubLimiter{err: errors.New("table unavailable")},
			wantStatus: http.StatusOK,
			wantUser:   "user123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			var gotUser string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				u, err := auth.GetUserFromContext(r.Context())
				require.NoError(t, err)
				gotUser = u.UserID
				w.WriteHeader(http.StatusOK)
			})
			handler := Authenticate(jwtSvc, tt.limiter, appErrors.NewErrorHandler(zap.NewNop(), false), zap.NewNop())(next)

			req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
			req.RemoteAddr = "192.0.2.1:4321"
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			// Act
			handler.ServeHTTP(rec, req)

			// Assert
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantUser, gotUser)
		})
	}
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	// Arrange
	calls := 0
	failing := true
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	handler := CircuitBreaker(CircuitBreakerConfig{
		Name:        "test",
		MaxFailures: 2,
		Timeout:     time.Hour,
	}, appErrors.NewErrorHandler(zap.NewNop(), false), zap.NewNop())(next)

	serve := func() int {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		return rec.Code
	}

	// Act & Assert
	assert.Equal(t, http.StatusInternalServerError, serve())
	assert.Equal(t, http.StatusInternalServerError, serve())

	failing = false
	assert.Equal(t, http.StatusServiceUnavailable, serve())
	assert.Equal(t, 2, calls)
}

func TestCircuitBreaker_ClientErrorsDoNotTrip(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	handler := CircuitBreaker(CircuitBreakerConfig{MaxFailures: 1, Timeout: time.Hour},
		appErrors.NewErrorHandler(zap.NewNop(), false), zap.NewNop())(next)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	// Arrange
	collector := observability.NewCollector("test")
	r := chi.NewRouter()
	r.Use(Metrics(collector))
	r.Get("/sessions/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Act
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sessions/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sessions/def", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	// Assert
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("GET", "/sessions/{sessionID}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestTracing_DisabledPassesThrough(t *testing.T) {
	tracer := observability.NewTracer("test", false)
	handler := Tracing(tracer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestLogger_PassesStatusThrough(t *testing.T) {
	handler := Logger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader("{}")))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
