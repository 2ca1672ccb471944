// Package kv is the small key-value store behind which the trader profile
// and the Deriv API token live. The storage medium (JSON file, Redis,
// memory) is swappable without touching business logic; state is never
// kept in ambient globals.
package kv

import (
	"context"
	"errors"
)

// Keys in use. They mirror the browser client's storage keys so exported
// data stays recognizable.
const (
	KeyProfile    = "tradequest_profile"
	KeyDerivToken = "deriv_api_token"
)

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("kv: key not found")

// Store is a minimal key-value store. Values are opaque strings; callers
// own serialization.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
