package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/joed123/GoogleCloudCourseManager/middleware"
	"github.com/joed123/GoogleCloudCourseManager/models"
	"github.com/joed123/GoogleCloudCourseManager/repositories"
	"github.com/joed123/GoogleCloudCourseManager/utils"
	"go.uber.org/zap"
)

// UserSummary is the per-user shape of the admin user listing
type UserSummary struct {
	ID   int64           `json:"id"`
	Role models.UserRole `json:"role"`
	Sub  string          `json:"sub"`
}

// UserDetail is the user detail response. AvatarURL appears only when
// the avatar flag is set; Courses only for students and instructors.
type UserDetail struct {
	ID        int64           `json:"id"`
	Role      models.UserRole `json:"role"`
	Sub       string          `json:"sub"`
	AvatarURL string          `json:"avatar_url,omitempty"`
	Courses   *[]string       `json:"courses,omitempty"`
}

// UserHandler handles user directory HTTP requests
type UserHandler struct {
	users   repositories.UserRepository
	courses repositories.CourseRepository
	logger  *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users repositories.UserRepository, courses repositories.CourseRepository, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:   users,
		courses: courses,
		logger:  logger,
	}
}

// HandleListUsers handles GET /users. Admin-only, enforced by the
// route's policy.
func (h *UserHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	users, err := h.users.GetAll(ctx)
	if err != nil {
		h.logger.Error("failed to list users",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w)
		return
	}

	summaries := make([]UserSummary, len(users))
	for i, u := range users {
		summaries[i] = UserSummary{ID: u.ID, Role: u.Role, Sub: u.Sub}
	}

	_ = utils.WriteJSON(w, http.StatusOK, summaries)
}

// HandleGetUser handles GET /users/{id}. The policy admits the
// addressed user or an admin; here only the target lookup remains.
func (h *UserHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		_ = utils.WriteForbidden(w)
		return
	}

	user, err := h.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Historical contract: a missing target is reported as 403
			// with a "Not found" body, not as 404.
			_ = utils.WriteNotFoundForbidden(w)
			return
		}
		h.logger.Error("failed to get user",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w)
		return
	}

	detail := UserDetail{
		ID:   user.ID,
		Role: user.Role,
		Sub:  user.Sub,
	}

	base := baseURL(r)
	if user.Avatar {
		detail.AvatarURL = avatarURL(base, user.ID)
	}

	if user.HasCourses() {
		links, err := h.courseLinks(r, user)
		if err != nil {
			h.logger.Error("failed to load user courses",
				zap.String("request_id", requestID),
				zap.Int64("user_id", user.ID),
				zap.Error(err))
			_ = utils.WriteInternalServerError(w)
			return
		}
		detail.Courses = &links
	}

	_ = utils.WriteJSON(w, http.StatusOK, detail)
}

// courseLinks returns self links for the courses the user takes or
// teaches, depending on role.
func (h *UserHandler) courseLinks(r *http.Request, user *models.User) ([]string, error) {
	var courses []*models.Course
	var err error
	if user.IsInstructor() {
		courses, err = h.courses.ForInstructor(r.Context(), user.ID)
	} else {
		courses, err = h.courses.ForStudent(r.Context(), user.ID)
	}
	if err != nil {
		return nil, err
	}

	base := baseURL(r)
	links := make([]string, len(courses))
	for i, c := range courses {
		links[i] = courseSelfLink(base, c.ID)
	}
	return links, nil
}
