package model

import "context"

// BlobStorage stores opaque blobs by path. Get returns ErrNotFound when the
// path holds nothing.
type BlobStorage interface {
	Put(ctx context.Context, path string, data []byte) error
	Get(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) (bool, error)
	Delete(ctx context.Context, path string) error
}
