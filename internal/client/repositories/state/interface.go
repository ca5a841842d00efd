// Package state persists durable client state as key/value pairs.
package state

import (
	"context"
)

// Repository is a flat key/value store. Get of an absent key returns (nil, nil).
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
