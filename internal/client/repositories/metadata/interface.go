// Package metadata stores the console's persisted client-side state (session
// tokens, profile fields, lookup caches) as string key/value pairs that
// survive restarts.
package metadata

import (
	"context"
)

// Repository is a string key/value store. Get returns "" with a nil error
// for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	// SetMany writes all pairs atomically.
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
