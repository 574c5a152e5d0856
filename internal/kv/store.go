// Package kv provides the durable local store the sync core persists into:
// a namespaced mapping from string key to JSON blob that survives process
// restarts. One blob per entity collection, one for the pending-op queue.
package kv

import "errors"

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// Store is the persistence boundary. Implementations must be safe for
// concurrent use; every collection writes under its own key so there is no
// cross-key contention.
type Store interface {
	// Get returns the blob stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)
	// Put stores value under key, replacing any previous blob.
	Put(key string, value []byte) error
	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key string) error
	// Close releases underlying resources.
	Close() error
}
