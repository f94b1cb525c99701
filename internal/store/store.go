// Package store provides the persistence slot the journal is mirrored into.
package store

import "context"

// TradesKey is the key the full trade sequence is persisted under.
const TradesKey = "trades"

// BlobStore is a single opaque key-value slot. Every save replaces the whole
// value; there is no incremental diffing and no schema versioning.
type BlobStore interface {
	// Get returns the value stored under key. The second return value is
	// false when the key has never been written.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases underlying resources.
	Close() error
}
