package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/joed123/GoogleCloudCourseManager/models"
	"github.com/joed123/GoogleCloudCourseManager/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// CourseRepository implements the repositories.CourseRepository interface
type CourseRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *DB, logger *zap.Logger) repositories.CourseRepository {
	return &CourseRepository{
		db:     db,
		logger: logger,
	}
}

func (r *CourseRepository) collection() *mongo.Collection {
	return r.db.Collection(models.Course{}.CollectionName())
}

// Create persists a new course and assigns its numeric ID
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	id, err := nextSequence(ctx, r.db, models.Course{}.CollectionName())
	if err != nil {
		return err
	}
	course.ID = id

	if _, err := r.collection().InsertOne(ctx, course); err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	r.logger.Debug("course created",
		zap.Int64("id", course.ID),
		zap.String("subject", course.Subject))
	return nil
}

// GetByID retrieves a course by its numeric ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	course := &models.Course{}

	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(course)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	return course, nil
}

// List retrieves up to limit courses ordered by subject ascending,
// skipping offset records
func (r *CourseRepository) List(ctx context.Context, offset, limit int) ([]*models.Course, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "subject", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	return r.find(ctx, bson.M{}, opts)
}

// ForStudent retrieves courses where the user appears on the roster
func (r *CourseRepository) ForStudent(ctx context.Context, userID int64) ([]*models.Course, error) {
	return r.find(ctx, bson.M{"students": userID}, nil)
}

// ForInstructor retrieves courses taught by the user
func (r *CourseRepository) ForInstructor(ctx context.Context, userID int64) ([]*models.Course, error) {
	return r.find(ctx, bson.M{"instructor_id": userID}, nil)
}

func (r *CourseRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Course, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.collection().Find(ctx, filter, opts)
	} else {
		cursor, err = r.collection().Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer cursor.Close(ctx)

	var courses []*models.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("failed to decode courses: %w", err)
	}

	return courses, nil
}
