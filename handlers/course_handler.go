package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/joed123/GoogleCloudCourseManager/middleware"
	"github.com/joed123/GoogleCloudCourseManager/models"
	"github.com/joed123/GoogleCloudCourseManager/repositories"
	"github.com/joed123/GoogleCloudCourseManager/utils"
	"go.uber.org/zap"
)

const (
	defaultListOffset = 0
	defaultListLimit  = 3
)

// CreateCourseRequest represents a request to create a course.
// Pointer fields distinguish a missing key from a zero value.
type CreateCourseRequest struct {
	Title        *string `json:"title" validate:"required"`
	Subject      *string `json:"subject" validate:"required"`
	Number       *int    `json:"number" validate:"required"`
	Term         *string `json:"term" validate:"required"`
	InstructorID *int64  `json:"instructor_id" validate:"required"`
}

// CourseResponse represents a course in API responses
type CourseResponse struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Subject      string `json:"subject"`
	Number       int    `json:"number"`
	Term         string `json:"term"`
	InstructorID int64  `json:"instructor_id"`
	Self         string `json:"self"`
}

// CourseListResponse is a page of the public course listing
type CourseListResponse struct {
	Courses []CourseResponse `json:"courses"`
	Next    string           `json:"next,omitempty"`
}

// CourseHandler handles course catalog HTTP requests
type CourseHandler struct {
	courses repositories.CourseRepository
	users   repositories.UserRepository
	logger  *zap.Logger
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(courses repositories.CourseRepository, users repositories.UserRepository, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		courses: courses,
		users:   users,
		logger:  logger,
	}
}

// HandleCreateCourse handles POST /courses. Admin-only, enforced by the
// route's policy.
func (h *CourseHandler) HandleCreateCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var req CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		_ = utils.WriteBadRequest(w)
		return
	}

	instructor, err := h.users.GetByID(ctx, *req.InstructorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = utils.WriteBadRequest(w)
			return
		}
		h.logger.Error("failed to look up instructor",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w)
		return
	}
	if !instructor.IsInstructor() {
		_ = utils.WriteBadRequest(w)
		return
	}

	course := models.NewCourse(0, *req.Title, *req.Subject, *req.Number, *req.Term, *req.InstructorID)
	if err := h.courses.Create(ctx, course); err != nil {
		h.logger.Error("failed to create course",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w)
		return
	}

	h.logger.Info("course created",
		zap.String("request_id", requestID),
		zap.Int64("id", course.ID),
		zap.Int64("instructor_id", course.InstructorID))

	_ = utils.WriteJSON(w, http.StatusCreated, courseToResponse(course, baseURL(r)))
}

// HandleListCourses handles GET /courses. Public; pages through the
// catalog ordered by subject.
func (h *CourseHandler) HandleListCourses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	offset := queryInt(r, "offset", defaultListOffset)
	limit := queryInt(r, "limit", defaultListLimit)

	// One extra record decides whether a next page exists
	page, err := h.courses.List(ctx, offset, limit+1)
	if err != nil {
		h.logger.Error("failed to list courses",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w)
		return
	}

	hasMore := len(page) > limit
	if hasMore {
		page = page[:limit]
	}

	base := baseURL(r)
	response := CourseListResponse{
		Courses: make([]CourseResponse, len(page)),
	}
	for i, c := range page {
		withDefaults := c.WithDefaults()
		response.Courses[i] = courseToResponse(&withDefaults, base)
	}
	if hasMore {
		response.Next = fmt.Sprintf("%s/courses?offset=%d&limit=%d", base, offset+limit, limit)
	}

	_ = utils.WriteJSON(w, http.StatusOK, response)
}

// HandleGetCourse handles GET /courses/{id}. Public.
func (h *CourseHandler) HandleGetCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		_ = utils.WriteNotFound(w)
		return
	}

	course, err := h.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = utils.WriteNotFound(w)
			return
		}
		h.logger.Error("failed to get course",
			zap.String("request_id", requestID),
			zap.Int64("id", id),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w)
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, courseToResponse(course, baseURL(r)))
}

func courseToResponse(c *models.Course, base string) CourseResponse {
	return CourseResponse{
		ID:           c.ID,
		Title:        c.Title,
		Subject:      c.Subject,
		Number:       c.Number,
		Term:         c.Term,
		InstructorID: c.InstructorID,
		Self:         courseSelfLink(base, c.ID),
	}
}

// queryInt reads a non-negative integer query parameter, degrading to
// the default on anything unparsable.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return def
	}
	return value
}
