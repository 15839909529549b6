package repositories

import (
	"context"
	"errors"

	"github.com/joed123/GoogleCloudCourseManager/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// UserRepository handles user data operations
type UserRepository interface {
	// GetByID retrieves a user by its numeric ID
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetBySub retrieves the user matching an identity-provider subject
	GetBySub(ctx context.Context, sub string) (*models.User, error)

	// GetAll retrieves every user record
	GetAll(ctx context.Context) ([]*models.User, error)

	// SetAvatar sets or clears the avatar presence flag
	SetAvatar(ctx context.Context, id int64, present bool) error
}

// CourseRepository handles course data operations
type CourseRepository interface {
	// Create persists a new course and assigns its numeric ID
	Create(ctx context.Context, course *models.Course) error

	// GetByID retrieves a course by its numeric ID
	GetByID(ctx context.Context, id int64) (*models.Course, error)

	// List retrieves up to limit courses ordered by subject ascending,
	// skipping offset records
	List(ctx context.Context, offset, limit int) ([]*models.Course, error)

	// ForStudent retrieves courses where the user appears on the roster
	ForStudent(ctx context.Context, userID int64) ([]*models.Course, error)

	// ForInstructor retrieves courses taught by the user
	ForInstructor(ctx context.Context, userID int64) ([]*models.Course, error)
}
