package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Store is the durable side of the cache-aside map.
//
// Update and Delete are single statements without an existence check:
// updating or deleting an absent key succeeds without touching anything.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Update(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
