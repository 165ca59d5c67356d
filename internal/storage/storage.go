package storage

import (
	"context"
	"fmt"
	"io"
)

// Backend is the uniform interface over physical object storage. Save
// overwrites by key and returns the public URL of the stored object.
// Delete is idempotent: a missing key is success, an error means the
// backend itself is unavailable.
type Backend interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Provider selector values.
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

// Config selects and parameterizes a storage backend. It is resolved once
// at process start and injected; there is no lazy global.
type Config struct {
	Provider string
	Local    LocalConfig
	S3       S3Config
}

// New resolves the configured backend. An unknown provider is a
// configuration error and should abort startup.
func New(cfg Config) (Backend, error) {
	switch cfg.Provider {
	case ProviderLocal:
		return NewLocalBackend(cfg.Local)
	case ProviderS3:
		return NewS3Backend(cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage provider: %q", cfg.Provider)
	}
}
