// Package kvstore is the storage backend behind the counter's persisted
// state. Values are opaque bytes under fixed string keys.
package kvstore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("kvstore: key not found")

// Store is implemented by the memory, Redis and PostgreSQL backends.
// A ttl of zero means the value never expires.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
