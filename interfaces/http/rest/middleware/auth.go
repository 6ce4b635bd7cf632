package middleware

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"breathe-backend/pkg/auth"
	appErrors "breathe-backend/pkg/errors"
)

// Authenticate validates the bearer token and applies per-IP and per-user
// rate limits. A limiter error fails open.
func Authenticate(jwt *auth.JWTService, limiter auth.RateLimiter, errs *appErrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	ipLimiter := auth.NewIPRateLimiter(limiter)
	userLimiter := auth.NewUserRateLimiter(limiter)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowed, err := ipLimiter.Allow(r.Context(), clientIP(r)); err != nil {
				logger.Warn("Rate limiter unavailable", zap.Error(err))
			} else if !allowed {
				errs.HandleStatus(w, r, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				errs.HandleStatus(w, r, http.StatusUnauthorized, "Missing authorization header")
				return
			}
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				errs.HandleStatus(w, r, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}

			claims, err := jwt.ValidateToken(token)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrExpiredToken):
					errs.HandleStatus(w, r, http.StatusUnauthorized, "Token has expired")
				case errors.Is(err, auth.ErrInvalidSignature):
					errs.HandleStatus(w, r, http.StatusUnauthorized, "Invalid token signature")
				default:
					errs.HandleStatus(w, r, http.StatusUnauthorized, "Invalid token")
				}
				return
			}

			if allowed, err := userLimiter.Allow(r.Context(), claims.UserID); err != nil {
				logger.Warn("Rate limiter unavailable", zap.Error(err))
			} else if !allowed {
				errs.HandleStatus(w, r, http.StatusTooManyRequests, "User rate limit exceeded")
				return
			}

			ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{
				UserID: claims.UserID,
				Email:  claims.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// clientIP prefers the address set by chi's RealIP middleware
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
