package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
)

// ErrBlobNotFound is returned when the requested object does not exist.
var ErrBlobNotFound = errors.New("blob not found")

// Store is the blob-store interface the handlers depend on
type Store interface {
	// Put stores an object under key with the given content type
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Get opens the object for reading; ErrBlobNotFound when absent
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists reports whether the object is present
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes the object; ErrBlobNotFound when absent
	Delete(ctx context.Context, key string) error
}

// MinioStore is a Store backed by an S3-compatible bucket
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinio creates a MinioStore over an existing client and bucket
func NewMinio(client *minio.Client, bucket string) *MinioStore {
	return &MinioStore{
		client: client,
		bucket: bucket,
	}
}

// EnsureBucket creates the bucket when it does not exist yet
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if ok {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Put stores an object under key with the given content type
func (s *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// Get opens the object for reading. The object handle is lazy, so a
// Stat round-trip distinguishes a missing key from a readable one.
func (s *MinioStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}

	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		if isNoSuchKey(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to stat %s: %w", key, err)
	}

	return obj, nil
}

// Exists reports whether the object is present
func (s *MinioStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", key, err)
	}
	return true, nil
}

// Delete removes the object
func (s *MinioStore) Delete(ctx context.Context, key string) error {
	exists, err := s.Exists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return ErrBlobNotFound
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// HealthCheck verifies the bucket is reachable
func (s *MinioStore) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("blob store health check failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("bucket %s does not exist", s.bucket)
	}
	return nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
