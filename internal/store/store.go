// Package store provides the durable ordered key-value maps the services are
// built on. Every backend serializes values on write, so callers never share
// memory with stored state.
package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("store: key not found")

// Map is an ordered string-keyed map of V.
type Map[V any] interface {
	// Get returns the value at key or ErrNotFound.
	Get(ctx context.Context, key string) (V, error)
	// Insert stores v at key, replacing any previous value.
	Insert(ctx context.Context, key string, v V) error
	// Values returns all values ordered ascending by key.
	Values(ctx context.Context) ([]V, error)
}
