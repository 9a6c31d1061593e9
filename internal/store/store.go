// Package store persists visitor preferences.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// PreferenceStoreIface exposes preference operations scoped to a visitor.
// No handler may query the DB directly; all access goes through this interface.
type PreferenceStoreIface interface {
	Get(ctx context.Context, visitorID, key string) (string, error)
	Set(ctx context.Context, visitorID, key, value string) error
	Delete(ctx context.Context, visitorID, key string) error
}

var _ PreferenceStoreIface = (*PreferenceStore)(nil)
