package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config parameterizes the S3-compatible backend (MinIO, Cloudflare R2).
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	// PublicBaseURL is the prefix of publicly served object URLs,
	// e.g. "https://pub-xxxx.r2.dev".
	PublicBaseURL string
}

// S3Backend is a thin wrapper around the minio client.
type S3Backend struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewS3Backend creates the client and ensures the bucket exists.
func NewS3Backend(cfg S3Config) (*S3Backend, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("s3 storage config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 new: %w", err)
	}
	b := &S3Backend{client: mc, bucket: cfg.Bucket, baseURL: strings.TrimRight(cfg.PublicBaseURL, "/")}
	// ensure bucket exists (idempotent)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, b.bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := mc.BucketExists(ctx, b.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("s3 bucket ensure: %w", err)
		}
	}
	return b, nil
}

func (b *S3Backend) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := b.client.PutObject(ctx, b.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return b.baseURL + "/" + key, nil
}

// Delete removes the object. S3 deletes are idempotent already: removing a
// missing key succeeds, only transport/auth failures surface as errors.
func (b *S3Backend) Delete(ctx context.Context, key string) error {
	if err := b.client.RemoveObject(ctx, b.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
