package tokenstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("tokenstore: not found")

// Store persists small string values across process restarts, the way a browser's
// local storage does for the front-end.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Reader returns a function that reads key, yielding "" when the value is absent or
// cannot be read.
func Reader(s Store, key string) func(ctx context.Context) string {
	return func(ctx context.Context) string {
		v, err := s.Get(ctx, key)
		if err != nil {
			return ""
		}
		return v
	}
}
