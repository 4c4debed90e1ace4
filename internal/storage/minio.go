package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/seriseptian210525/odoo-stock-dashboard/pkg/logger"
)

// MinioConfig encapsulates the connection info for S3-compatible storage.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioArchive implements UploadArchive on any S3-compatible service.
type MinioArchive struct {
	client *minio.Client
	bucket string
}

func NewMinioArchive(ctx context.Context, cfg MinioConfig) (*MinioArchive, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("storage endpoint must be provided")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("storage credentials must be provided")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket must be provided")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("creating bucket %q: %w", cfg.Bucket, err)
		}
		logger.Log.Info().Str("bucket", cfg.Bucket).Msg("created upload archive bucket")
	}

	return &MinioArchive{client: client, bucket: cfg.Bucket}, nil
}

func (a *MinioArchive) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	_, err := a.client.PutObject(ctx, a.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return fmt.Errorf("archiving %q: %w", key, err)
	}
	return nil
}

func (a *MinioArchive) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var infos []ObjectInfo
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("listing uploads: %w", obj.Err)
		}
		infos = append(infos, ObjectInfo{Key: obj.Key, Size: obj.Size})
	}
	return infos, nil
}

func (a *MinioArchive) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetching %q: %w", key, err)
	}
	return obj, nil
}

var _ UploadArchive = (*MinioArchive)(nil)

// NoopArchive is used when object storage is not configured. Uploads still
// process; they are just not archived.
type NoopArchive struct{}

func (NoopArchive) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	logger.Log.Debug().Str("key", key).Msg("upload archive disabled, skipping")
	return nil
}

func (NoopArchive) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	return nil, nil
}

func (NoopArchive) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("upload archive disabled")
}

var _ UploadArchive = NoopArchive{}
