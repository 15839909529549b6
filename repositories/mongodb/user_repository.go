package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/joed123/GoogleCloudCourseManager/models"
	"github.com/joed123/GoogleCloudCourseManager/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// UserRepository implements the repositories.UserRepository interface
type UserRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB, logger *zap.Logger) repositories.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

func (r *UserRepository) collection() *mongo.Collection {
	return r.db.Collection(models.User{}.CollectionName())
}

// GetByID retrieves a user by its numeric ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}

	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetBySub retrieves the user matching an identity-provider subject
func (r *UserRepository) GetBySub(ctx context.Context, sub string) (*models.User, error) {
	user := &models.User{}

	err := r.collection().FindOne(ctx, bson.M{"sub": sub}).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by sub: %w", err)
	}

	return user, nil
}

// GetAll retrieves every user record
func (r *UserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	cursor, err := r.collection().Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}

// SetAvatar sets or clears the avatar presence flag
func (r *UserRepository) SetAvatar(ctx context.Context, id int64, present bool) error {
	var update bson.M
	if present {
		update = bson.M{"$set": bson.M{"avatar": true}}
	} else {
		update = bson.M{"$unset": bson.M{"avatar": ""}}
	}

	result, err := r.collection().UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update avatar flag: %w", err)
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("avatar flag updated",
		zap.Int64("user_id", id),
		zap.Bool("present", present))
	return nil
}
