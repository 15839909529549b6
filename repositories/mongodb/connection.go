package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/joed123/GoogleCloudCourseManager/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// DB wraps the mongo client and the application database handle
type DB struct {
	client   *mongo.Client
	database *mongo.Database
	logger   *zap.Logger
}

// NewDB connects to MongoDB and verifies the connection
func NewDB(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info("database connection established",
		zap.String("database", cfg.Database))

	return &DB{
		client:   client,
		database: client.Database(cfg.Database),
		logger:   logger,
	}, nil
}

// Collection returns a handle to the named collection
func (db *DB) Collection(name string) *mongo.Collection {
	return db.database.Collection(name)
}

// Close disconnects the underlying client
func (db *DB) Close(ctx context.Context) error {
	db.logger.Info("closing database connection")
	return db.client.Disconnect(ctx)
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}
