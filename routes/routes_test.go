package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joed123/GoogleCloudCourseManager/app"
	"github.com/joed123/GoogleCloudCourseManager/auth0"
	"github.com/joed123/GoogleCloudCourseManager/middleware"
	"github.com/joed123/GoogleCloudCourseManager/models"
	"github.com/joed123/GoogleCloudCourseManager/repositories"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type rejectingValidator struct{}

func (rejectingValidator) ValidateToken(ctx context.Context, token string) (*auth0.Claims, error) {
	return nil, auth0.ErrInvalidToken
}

type stubUserRepository struct{}

func (stubUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return nil, repositories.ErrNotFound
}

func (stubUserRepository) GetBySub(ctx context.Context, sub string) (*models.User, error) {
	return nil, repositories.ErrNotFound
}

func (stubUserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	return nil, nil
}

func (stubUserRepository) SetAvatar(ctx context.Context, id int64, present bool) error {
	return nil
}

type stubCourseRepository struct{}

func (stubCourseRepository) Create(ctx context.Context, course *models.Course) error { return nil }

func (stubCourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	return nil, repositories.ErrNotFound
}

func (stubCourseRepository) List(ctx context.Context, offset, limit int) ([]*models.Course, error) {
	return []*models.Course{}, nil
}

func (stubCourseRepository) ForStudent(ctx context.Context, userID int64) ([]*models.Course, error) {
	return nil, nil
}

func (stubCourseRepository) ForInstructor(ctx context.Context, userID int64) ([]*models.Course, error) {
	return nil, nil
}

func newTestRouter() http.Handler {
	logger := zap.NewNop()
	users := stubUserRepository{}

	deps := &app.Dependencies{
		Logger:         logger,
		Users:          users,
		Courses:        stubCourseRepository{},
		AuthMiddleware: middleware.NewAuthMiddleware(rejectingValidator{}, users, logger),
	}
	return SetupRoutes(deps)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	router := newTestRouter()

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/users"},
		{http.MethodGet, "/users/1"},
		{http.MethodPost, "/users/1/avatar"},
		{http.MethodGet, "/users/1/avatar"},
		{http.MethodDelete, "/users/1/avatar"},
		{http.MethodPost, "/courses"},
	}

	for _, req := range requests {
		t.Run(req.method+" "+req.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(req.method, req.path, nil))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"Error": "Unauthorized"}`, rec.Body.String())
		})
	}
}

func TestInvalidTokenRejected(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPublicRoutes(t *testing.T) {
	router := newTestRouter()

	t.Run("index banner", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message": "Tarpaulin API is up"}`, rec.Body.String())
	})

	t.Run("course listing needs no token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/courses", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("request id header set", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	})
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"Error": "Not found"}`, rec.Body.String())
}
