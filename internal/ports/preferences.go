package ports

import (
	"context"
	"errors"
)

// ErrPreferenceNotFound is returned by PreferenceStore.Load for a key that has
// never been saved.
var ErrPreferenceNotFound = errors.New("preference not found")

// PreferenceStore persists small string values under well-known keys across
// sessions. Save must be atomic per key: a reader never observes a partially
// written value.
type PreferenceStore interface {
	Load(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, value string) error
}
