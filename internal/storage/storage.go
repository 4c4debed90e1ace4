// Package storage archives uploaded moves exports to S3-compatible object
// storage so any pipeline run can be replayed from its exact input.
package storage

import (
	"context"
	"io"
)

// ObjectInfo represents metadata for a stored upload.
type ObjectInfo struct {
	Key  string
	Size int64
}

// UploadArchive captures the operations the dashboard needs from object
// storage.
type UploadArchive interface {
	Put(ctx context.Context, key string, r io.Reader, size int64) error
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}
