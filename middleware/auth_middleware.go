package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/joed123/GoogleCloudCourseManager/auth0"
	"github.com/joed123/GoogleCloudCourseManager/repositories"
	"github.com/joed123/GoogleCloudCourseManager/utils"
	"go.uber.org/zap"
)

// TokenValidator defines the interface for validating bearer tokens
type TokenValidator interface {
	// ValidateToken validates a bearer token and returns its claims
	ValidateToken(ctx context.Context, token string) (*auth0.Claims, error)
}

// AuthMiddleware provides authentication and authorization middleware
type AuthMiddleware struct {
	validator TokenValidator
	users     repositories.UserRepository
	logger    *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(validator TokenValidator, users repositories.UserRepository, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
		users:     users,
		logger:    logger,
	}
}

// RequireAuth is a middleware that requires a valid bearer token.
// Missing credential, malformed header, and verification failure all
// collapse to the same 401 body.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		token := extractBearerToken(r)
		if token == "" {
			m.logger.Warn("missing or malformed bearer token",
				zap.String("request_id", requestID))
			_ = utils.WriteUnauthorized(w)
			return
		}

		claims, err := m.validator.ValidateToken(ctx, token)
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			_ = utils.WriteUnauthorized(w)
			return
		}

		ctx = WithClaims(ctx, claims)

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("sub", claims.Subject))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractBearerToken extracts the token from an Authorization header of
// the exact "Bearer <token>" form
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
