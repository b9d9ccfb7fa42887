// Package snapshotstore provides optional persistence for the opaque
// consumer snapshot a host attaches to a vertex via depgraph's EmitCallback.
//
// depgraph itself never calls into this package: a host that wants its
// ConsumerSnapshot values to survive a process restart wires a Store into
// its own EmitCallback, keyed by the vertex descriptor the callback already
// receives. This keeps "does the consumer persist state" entirely a
// host-side decision, matching the core's non-goal of not persisting state
// itself.
package snapshotstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no snapshot has been saved for key.
var ErrNotFound = errors.New("snapshotstore: not found")

// Key identifies a saved snapshot by the vertex it belongs to.
type Key struct {
	Type string
	Name string
}

// Store persists and retrieves opaque consumer snapshots.
//
// Implementations:
//   - MemStore: in-process, for tests and single-process hosts.
//   - SQLiteStore: single-file, for a single host process that wants its
//     snapshots to survive a restart.
//   - MySQLStore: shared, for multi-process consumer deployments where every
//     process needs the same view of the latest snapshot per vertex.
type Store interface {
	// Save persists payload (already JSON-encoded by the caller) for key,
	// overwriting any previous value.
	Save(ctx context.Context, key Key, payload []byte) error

	// Load retrieves the payload most recently saved for key.
	// Returns ErrNotFound if key has never been saved.
	Load(ctx context.Context, key Key) ([]byte, error)

	// Delete removes any saved payload for key. Deleting an absent key is
	// not an error, matching depgraph's own deleted-vertex tolerance.
	Delete(ctx context.Context, key Key) error

	// Close releases any resources held by the store (open file handles,
	// database connections). Safe to call multiple times.
	Close() error
}
