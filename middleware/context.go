package middleware

import (
	"context"

	"github.com/joed123/GoogleCloudCourseManager/auth0"
	"github.com/joed123/GoogleCloudCourseManager/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"

	// ClaimsKey is the context key for verified token claims
	ClaimsKey contextKey = "claims"

	// UserKey is the context key for the resolved caller
	UserKey contextKey = "user"
)

// GetRequestIDFromContext retrieves the request ID from context
func GetRequestIDFromContext(ctx context.Context) string {
	if val := ctx.Value(RequestIDKey); val != nil {
		if requestID, ok := val.(string); ok {
			return requestID
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetClaimsFromContext retrieves verified token claims from context
func GetClaimsFromContext(ctx context.Context) *auth0.Claims {
	if val := ctx.Value(ClaimsKey); val != nil {
		if claims, ok := val.(*auth0.Claims); ok {
			return claims
		}
	}
	return nil
}

// WithClaims adds verified token claims to the context
func WithClaims(ctx context.Context, claims *auth0.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// GetUserFromContext retrieves the resolved caller from context
func GetUserFromContext(ctx context.Context) *models.User {
	if val := ctx.Value(UserKey); val != nil {
		if user, ok := val.(*models.User); ok {
			return user
		}
	}
	return nil
}

// WithUser adds the resolved caller to the context
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}
