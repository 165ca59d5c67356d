package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalConfig parameterizes the filesystem backend.
type LocalConfig struct {
	// Dir is the managed upload directory.
	Dir string
	// BaseURL is the public prefix under which Dir is served,
	// e.g. "http://localhost:4000/uploads".
	BaseURL string
}

// LocalBackend stores objects as files under a managed directory. The
// directory is served statically by the HTTP layer.
type LocalBackend struct {
	dir     string
	baseURL string
}

func NewLocalBackend(cfg LocalConfig) (*LocalBackend, error) {
	if cfg.Dir == "" || cfg.BaseURL == "" {
		return nil, fmt.Errorf("local storage config missing")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalBackend{dir: cfg.Dir, baseURL: strings.TrimRight(cfg.BaseURL, "/")}, nil
}

func (b *LocalBackend) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	path := filepath.Join(b.dir, filepath.Base(key))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	return b.baseURL + "/" + key, nil
}

// Delete removes the file for key. A missing file is not an error.
func (b *LocalBackend) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(b.dir, filepath.Base(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
