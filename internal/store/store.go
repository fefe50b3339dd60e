// Package store provides the namespaced key-value memory the agent core
// depends on. Namespaces are (kind, owner) pairs, e.g. ("memories",
// assistantID) or ("custom_actions", userID); values are opaque JSON.
//
// Two implementations are provided: an in-memory store for tests and
// single-process use, and a PostgreSQL store for persistence between
// turns.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("store: not found")

// Namespace scopes keys by kind and owner.
type Namespace struct {
	Kind  string
	Owner string
}

// Store is the get/put contract the core depends on. Implementations must
// be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, ns Namespace, key string) ([]byte, error)
	Put(ctx context.Context, ns Namespace, key string, value []byte) error
	Delete(ctx context.Context, ns Namespace, key string) error
}
