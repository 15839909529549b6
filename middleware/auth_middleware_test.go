package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joed123/GoogleCloudCourseManager/auth0"
	"github.com/joed123/GoogleCloudCourseManager/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockTokenValidator is a mock implementation of TokenValidator
type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) ValidateToken(ctx context.Context, token string) (*auth0.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth0.Claims), args.Error(1)
}

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetBySub(ctx context.Context, sub string) (*models.User, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) SetAvatar(ctx context.Context, id int64, present bool) error {
	args := m.Called(ctx, id, present)
	return args.Error(0)
}

func claimsForSub(sub string) *auth0.Claims {
	return &auth0.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: sub},
	}
}

func TestRequireAuth(t *testing.T) {
	logger := zap.NewNop()

	t.Run("valid bearer token allows request", func(t *testing.T) {
		mockValidator := new(MockTokenValidator)
		m := NewAuthMiddleware(mockValidator, nil, logger)

		claims := claimsForSub("auth0|user-123")
		mockValidator.On("ValidateToken", mock.Anything, "valid-token").Return(claims, nil)

		handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			extracted := GetClaimsFromContext(r.Context())
			assert.NotNil(t, extracted)
			assert.Equal(t, "auth0|user-123", extracted.Subject)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockValidator.AssertExpectations(t)
	})

	t.Run("missing token returns 401", func(t *testing.T) {
		mockValidator := new(MockTokenValidator)
		m := NewAuthMiddleware(mockValidator, nil, logger)

		handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"Error": "Unauthorized"}`, w.Body.String())
		mockValidator.AssertNotCalled(t, "ValidateToken")
	})

	t.Run("malformed authorization header returns 401", func(t *testing.T) {
		for _, header := range []string{"valid-token", "Basic dXNlcg==", "Bearer"} {
			mockValidator := new(MockTokenValidator)
			m := NewAuthMiddleware(mockValidator, nil, logger)

			handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatalf("handler should not be called for header %q", header)
			}))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", header)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
			mockValidator.AssertNotCalled(t, "ValidateToken")
		}
	})

	t.Run("invalid token returns 401", func(t *testing.T) {
		mockValidator := new(MockTokenValidator)
		m := NewAuthMiddleware(mockValidator, nil, logger)

		mockValidator.On("ValidateToken", mock.Anything, "bad-token").Return(nil, auth0.ErrInvalidToken)

		handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"Error": "Unauthorized"}`, w.Body.String())
		mockValidator.AssertExpectations(t)
	})

	t.Run("bearer scheme is case-insensitive", func(t *testing.T) {
		mockValidator := new(MockTokenValidator)
		m := NewAuthMiddleware(mockValidator, nil, logger)

		claims := claimsForSub("auth0|user-456")
		mockValidator.On("ValidateToken", mock.Anything, "token").Return(claims, nil)

		handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "bearer token")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
