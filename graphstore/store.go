// Package graphstore defines the external collaborator contract the
// dependency tracker consumes: a schema-aware, typed vertex/edge graph with
// per-table listener registration and adjacency iteration.
//
// The tracker holds no ownership of vertices or edges; it observes them
// through VertexHandle values that are only guaranteed stable for the
// duration of a callback, plus whatever extra lifetime a VertexState keeps
// alive via AttachState. GraphStore implementations are responsible for:
//
//   - Delivering vertex/edge events to registered listeners.
//   - Guaranteeing stable adjacency iteration during a callback.
//   - Not destroying a vertex while a VertexState is attached to it.
//
// This package ships one reference implementation, MemStore, suitable for
// tests. Production hosts provide their own
// GraphStore backed by the real metadata-store client.
package graphstore

import "iter"

// ListenerID identifies a registered listener so it can later be
// unregistered, and doubles as the key under which a VertexState is
// attached to a vertex (one slot per distinct listener/tracker instance).
type ListenerID int

// GraphStore is the collaborator contract consumed by the dependency
// tracker.
type GraphStore interface {
	// FindVertexTable returns the table for the given vertex type, if the
	// store knows about that type at all.
	FindVertexTable(vertexType string) (VertexTable, bool)

	// EdgeTable returns the single, store-wide edge table.
	EdgeTable() EdgeTable
}

// VertexTable is the per-type collection of vertices.
type VertexTable interface {
	// RegisterListener arms fn to be called once per vertex add/change/
	// delete event on this table. Returns an id usable with Unregister.
	RegisterListener(fn func(VertexHandle)) ListenerID

	// Unregister removes a previously registered listener.
	Unregister(id ListenerID)

	// Find resolves name to a handle, or (nil, false) if this table has no
	// record of such a vertex. A vertex marked deleted may still be found;
	// callers check IsDeleted.
	Find(name string) (VertexHandle, bool)
}

// EdgeTable is the store-wide collection of edges. An undirected link is
// modelled as two unidirectional edges sharing a label (each endpoint lists
// the other in OutgoingEdges); a link change is delivered as one EdgeEvent
// carrying both endpoints, and each side is evaluated by policy
// independently.
type EdgeTable interface {
	// RegisterListener arms fn to be called once per edge add/delete event.
	RegisterListener(fn func(EdgeEvent)) ListenerID

	// Unregister removes a previously registered listener.
	Unregister(id ListenerID)
}

// EdgeEvent describes one observed link change. Either endpoint may be nil
// if the far side isn't resolvable yet (a creation race); the collaborator
// is expected to redeliver once it resolves. The two endpoints are
// evaluated independently by the tracker — there is no requirement that
// both be non-nil in the same event.
type EdgeEvent struct {
	Label string
	Left  VertexHandle
	Right VertexHandle
}

// VertexHandle is an opaque reference to a vertex inside a GraphStore.
// Handles obtained from different callbacks for the same logical vertex are
// not required to be the same Go value, only to behave identically.
type VertexHandle interface {
	// Type is the vertex's identifier type (e.g. "routing-instance").
	Type() string

	// Name is the vertex's identifier name within its type.
	Name() string

	// IsDeleted reports whether this vertex has been marked deleted. A
	// deleted vertex is never dereferenced further by the tracker.
	IsDeleted() bool

	// OutgoingEdges iterates the vertex's outgoing edges as (label, target)
	// pairs, in the store's own adjacency order. The store must guarantee
	// stable iteration for the duration of the call.
	OutgoingEdges() iter.Seq2[string, VertexHandle]

	// AttachState, DetachState and GetState manage the per-listener state
	// slot the tracker uses to keep a VertexState (and whatever consumer
	// object it references) alive for as long as it's needed. A vertex may
	// carry at most one attached state per ListenerID.
	AttachState(id ListenerID, state any)
	DetachState(id ListenerID)
	GetState(id ListenerID) (any, bool)
}
