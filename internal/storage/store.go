// Package storage is the durable key-value store behind the session manager.
// Values are opaque strings; callers own the encoding.
package storage

import (
	"context"
	"errors"
)

// Keys used by the session manager.
const (
	KeyAccounts        = "app_users"
	KeyCurrentSession  = "current_user"
	KeyRememberedEmail = "remembered_email"
)

var ErrNotFound = errors.New("storage: key not found")

type Store interface {
	// Get returns ErrNotFound when key has never been set or was deleted.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is a no-op for absent keys.
	Delete(ctx context.Context, key string) error
	Close() error
}
