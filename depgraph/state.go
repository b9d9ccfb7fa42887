package depgraph

import (
	"sync"
	"sync/atomic"

	"github.com/ctrlgraph/depgraph-go/graphstore"
)

// VertexState is the per-vertex marker a Tracker attaches to every vertex it
// has observed. It carries a reference count that keeps it attached to the
// vertex while a PendingBatch entry still holds it.
//
// newVertexState creates a VertexState with refcount 1, representing the
// hold the GraphStore attachment slot itself keeps on it. ref/unref track
// additional holds from PendingBatch membership; once unref brings the count
// to zero the caller detaches the state from the GraphStore slot.
// ChangeList entries take no hold: an entry carries its own copy of the
// snapshot, and the state may be detached while the entry is still unread.
type VertexState struct {
	vertex   graphstore.VertexHandle
	refcount atomic.Int32

	mu       sync.RWMutex
	snapshot any
	hasSnap  bool
}

func newVertexState(vertex graphstore.VertexHandle) *VertexState {
	s := &VertexState{vertex: vertex}
	s.refcount.Store(1)
	return s
}

// ref records an additional hold (PendingBatch membership).
func (s *VertexState) ref() {
	s.refcount.Add(1)
}

// unref releases a hold acquired via ref, or the slot's own release call.
// Returns true if the count reached zero and the caller should detach.
func (s *VertexState) unref() bool {
	return s.refcount.Add(-1) == 0
}

// setSnapshot records the consumer-owned snapshot captured at event time.
func (s *VertexState) setSnapshot(snapshot any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
	s.hasSnap = true
}

// Snapshot returns the most recently captured consumer snapshot, or
// (nil, false) if none has been set (e.g. the vertex was observed only as a
// deletion).
func (s *VertexState) Snapshot() (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.hasSnap
}
