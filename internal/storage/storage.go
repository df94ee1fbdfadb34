package storage

import (
	"context"
	"io"
)

// ObjectStorage is the boundary to the managed object store holding
// product images.
type ObjectStorage interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}
