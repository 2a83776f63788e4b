// Package storage is the image store behind NFT uploads.
//
// Two drivers are available:
//   - "local"  local filesystem rooted at UPLOAD_DIR (default)
//   - "s3"     S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
//	storage.Connect(ctx)
//	storage.Default().Put(ctx, name, r)
//	rc, _ := storage.Use("s3").Open(ctx, name)
package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
)

// ErrNotExist is returned by Open when no object is stored under the name.
var ErrNotExist = fs.ErrNotExist

// Disk is the filesystem driver interface.
type Disk interface {
	// Put writes r to path, replacing any existing object.
	Put(ctx context.Context, path string, r io.Reader) error

	// Open returns a reader for path. Caller must close it.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes path. Returns nil if it did not exist.
	Delete(ctx context.Context, path string) error
}

// IsNotExist reports whether err means the object is missing.
func IsNotExist(err error) bool { return errors.Is(err, ErrNotExist) }
