// Package storage abstracts where raw dataset files live. The local-disk
// backend is the default; an S3-compatible backend is available for
// deployments with an object store.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/slmforge/trainbench/internal/config"
)

type Storage interface {
	Upload(ctx context.Context, path string, data io.Reader, contentType string) error
	Download(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}

// NewFromConfig selects a backend by driver name.
func NewFromConfig(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStorage(cfg.LocalDir)
	case "s3":
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
