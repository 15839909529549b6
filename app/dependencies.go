package app

import (
	"context"
	"fmt"

	"github.com/joed123/GoogleCloudCourseManager/auth0"
	"github.com/joed123/GoogleCloudCourseManager/config"
	"github.com/joed123/GoogleCloudCourseManager/filestore"
	"github.com/joed123/GoogleCloudCourseManager/middleware"
	"github.com/joed123/GoogleCloudCourseManager/repositories"
	"github.com/joed123/GoogleCloudCourseManager/repositories/mongodb"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies. This is the central
// wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *mongodb.DB
	Logger *zap.Logger

	// Repositories
	Users   repositories.UserRepository
	Courses repositories.CourseRepository

	// Blob store
	Avatars *filestore.MinioStore

	// Auth
	Exchanger      *auth0.TokenExchanger
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := deps.initBlobStore(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize blob store: %w", err)
	}

	if err := deps.initAuth(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase connects to MongoDB and builds the repositories
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	db, err := mongodb.NewDB(ctx, cfg.Database, d.Logger)
	if err != nil {
		return err
	}

	d.DB = db
	d.Users = mongodb.NewUserRepository(db, d.Logger)
	d.Courses = mongodb.NewCourseRepository(db, d.Logger)

	d.Logger.Info("repositories initialized")
	return nil
}

// initBlobStore connects to the object store and ensures the bucket
func (d *Dependencies) initBlobStore(ctx context.Context, cfg *config.Config) error {
	client, err := minio.New(cfg.BlobStore.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.BlobStore.AccessKey, cfg.BlobStore.SecretKey, ""),
		Secure: cfg.BlobStore.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create object store client: %w", err)
	}

	store := filestore.NewMinio(client, cfg.BlobStore.Bucket)
	if err := store.EnsureBucket(ctx); err != nil {
		return err
	}

	d.Avatars = store
	d.Logger.Info("blob store initialized",
		zap.String("endpoint", cfg.BlobStore.Endpoint),
		zap.String("bucket", cfg.BlobStore.Bucket))
	return nil
}

// initAuth fetches the signing key set and builds the auth middleware.
// The key set is read-only for the life of the process; rotating keys
// at the identity provider requires a restart.
func (d *Dependencies) initAuth(ctx context.Context, cfg *config.Config) error {
	if cfg.Auth0.Domain == "" {
		d.Logger.Warn("identity provider not configured, protected routes will reject all requests")
		d.AuthMiddleware = middleware.NewAuthMiddleware(&rejectAllValidator{}, d.Users, d.Logger)
		return nil
	}

	validator, err := auth0.NewValidator(ctx, auth0.Config{
		JWKSURL:  cfg.Auth0.JWKSURL(),
		Issuer:   cfg.Auth0.IssuerURL(),
		Audience: cfg.Auth0.Audience,
	})
	if err != nil {
		return err
	}

	d.AuthMiddleware = middleware.NewAuthMiddleware(validator, d.Users, d.Logger)
	d.Exchanger = auth0.NewTokenExchanger(cfg.Auth0)

	d.Logger.Info("auth initialized",
		zap.String("issuer", cfg.Auth0.IssuerURL()),
		zap.Int("signing_keys", validator.KeyCount()))
	return nil
}

// Close releases held connections
func (d *Dependencies) Close(ctx context.Context) {
	if d.DB != nil {
		if err := d.DB.Close(ctx); err != nil {
			d.Logger.Warn("failed to close database", zap.Error(err))
		}
	}
}

// rejectAllValidator fails every token so protected routes 401 when no
// identity provider is configured
type rejectAllValidator struct{}

func (rejectAllValidator) ValidateToken(ctx context.Context, token string) (*auth0.Claims, error) {
	return nil, auth0.ErrInvalidToken
}
