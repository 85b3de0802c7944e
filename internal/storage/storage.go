package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/yoockh/placementcell/config"
)

// ErrObjectNotFound is returned by Open/Delete when the object is absent.
var ErrObjectNotFound = errors.New("object not found")

// Storage persists resume files. Save returns the path to record in the
// metadata row; Open and Delete take that same path.
type Storage interface {
	Save(ctx context.Context, key string, contentType string, r io.Reader) (storedPath string, err error)
	Open(ctx context.Context, storedPath string) (io.ReadCloser, error)
	Delete(ctx context.Context, storedPath string) error
}

// New builds the backend selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.UploadDir)
	case "gcs":
		return NewGCS(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile)
	case "s3":
		return NewS3(S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
