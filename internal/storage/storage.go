// Package storage persists uploaded photo files.
package storage

import (
	"context" // Cancellation for remote backends
	"fmt"     // Error formatting
	"io"      // Upload streams

	"travel_photos/internal/config" // Storage settings
)

// Store saves and removes photo objects
type Store interface {
	// Save writes r under key and returns the public URL of the object
	Save(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	// Delete removes the object stored under key
	Delete(ctx context.Context, key string) error
}

// New builds the backend selected by cfg.StorageDriver
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageDriver {
	case "", "disk":
		return NewDiskStore(cfg.UploadDir, cfg.BaseURL)
	case "s3":
		return NewS3Store(ctx, S3Options{
			Endpoint:     cfg.S3Endpoint,
			Region:       cfg.S3Region,
			Bucket:       cfg.S3Bucket,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			UsePathStyle: cfg.S3UsePathStyle,
			PublicURL:    cfg.S3PublicURL,
		})
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}
