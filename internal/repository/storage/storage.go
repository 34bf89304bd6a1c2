package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("record not found")

// Backend is a key/value store of serialized games. Put replaces a record
// atomically: readers see the old value or the new one, never a mix.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
