package storage

import (
	"context"       // Interface conformance
	"errors"        // Error inspection
	"fmt"           // Error formatting
	"io"            // Copying uploads
	"io/fs"         // Not-exist errors
	"os"            // File system access
	"path/filepath" // Path handling
	"strings"       // URL joining
)

// DiskStore keeps photos in a local directory served under /uploads
type DiskStore struct {
	dir     string // Upload directory
	baseURL string // Optional absolute prefix for returned URLs
}

// NewDiskStore creates dir when missing
func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the directory the store writes to
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}

// Save writes r to dir/key
func (s *DiskStore) Save(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	dest, err := s.path(key)
	if err != nil {
		return "", err
	}
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dest) // Clean up the partial file
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("close file: %w", err)
	}
	return s.baseURL + "/uploads/" + key, nil
}

// Delete removes dir/key; a missing file is not an error
func (s *DiskStore) Delete(ctx context.Context, key string) error {
	dest, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dest); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
