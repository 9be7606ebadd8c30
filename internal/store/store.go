// Package store persists the prompt collection as one blob under a fixed key.
package store

import (
	"context"
	"errors"
)

// DefaultKey is the key the collection is stored under.
const DefaultKey = "prompts"

// ErrNotFound is returned by backends when the key holds no value.
var ErrNotFound = errors.New("key not found")

// Backend is a synchronous get/set-by-key store.
type Backend interface {
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value under key.
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}
