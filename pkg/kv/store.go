// Package kv provides the durable key-value store the booking core
// persists into. Values are JSON-serialized under logical keys; the
// store offers no multi-key transactions, so callers sequence their
// writes explicitly.
package kv

import "context"

// ErrKeyNotFound is returned by Get when the key has never been written
// or has been deleted.
var ErrKeyNotFound = errKeyNotFound{}

type errKeyNotFound struct{}

func (errKeyNotFound) Error() string { return "key not found" }

// Store is the persistence collaborator of the booking core. Get decodes
// the stored JSON value into dest; Set marshals value to JSON and writes
// it durably.
type Store interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}
