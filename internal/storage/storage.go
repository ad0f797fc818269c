package storage

import (
	"context"
	"errors"
)

var ErrObjectNotFound = errors.New("object not found")

// BlobStorage keeps opaque objects under slash separated keys
type BlobStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Backend() string
}
