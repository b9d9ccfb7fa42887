package depgraph

import (
	"fmt"
	"sync/atomic"

	"github.com/ctrlgraph/depgraph-go/emit"
	"github.com/ctrlgraph/depgraph-go/graphstore"
	"github.com/ctrlgraph/depgraph-go/policy"
)

var nextSlotID int64

func newSlotID() graphstore.ListenerID {
	return graphstore.ListenerID(atomic.AddInt64(&nextSlotID, 1))
}

// EmitCallback is invoked once per vertex event (add, change, or delete) in
// the listener domain, letting the consumer record the vertex and,
// optionally through setSnapshot, attach an opaque snapshot that will ride
// along on the eventual ChangeListEntry for this vertex. setSnapshot may be
// called zero or one times per invocation; calling it after the callback
// returns has no effect.
type EmitCallback func(vertex graphstore.VertexHandle, setSnapshot func(snapshot any))

// ConfigListener converts raw GraphStore vertex/edge events into
// PendingBatch entries and arms a single-shot drain trigger. It owns the
// listener-domain side of the two-domain contract: OnVertexEvent and
// OnEdgeEvent are the only methods meant to be called from GraphStore
// callbacks, and must not run concurrently with the drain domain's use of
// the same PendingBatch.
type ConfigListener struct {
	store        graphstore.GraphStore
	policy       *policy.ReactionPolicy
	emitCallback EmitCallback
	emitter      emit.Emitter
	metrics      *Metrics
	slot         graphstore.ListenerID
	onArm        func()
	guard        domainGuard

	batch *PendingBatch
	armed bool

	// tracked remembers which vertices currently carry an attached
	// VertexState, so Terminate can detach all of them without needing the
	// GraphStore to enumerate its own attachment slots.
	tracked map[VertexDescriptor]graphstore.VertexHandle

	edgeTable      graphstore.EdgeTable
	edgeListenerID graphstore.ListenerID
	vertexTables   map[string]graphstore.VertexTable
	vertexListenerIDs map[string]graphstore.ListenerID
}

func newConfigListener(store graphstore.GraphStore, pol *policy.ReactionPolicy, emitCallback EmitCallback, emitter emit.Emitter, metrics *Metrics, onArm func()) *ConfigListener {
	return &ConfigListener{
		store:        store,
		policy:       pol,
		emitCallback: emitCallback,
		emitter:      emitter,
		metrics:      metrics,
		slot:         newSlotID(),
		onArm:        onArm,
		batch:        newPendingBatch(),
		tracked:      make(map[VertexDescriptor]graphstore.VertexHandle),
	}
}

// Initialize registers a listener on the edge table and one listener on
// each vertex table named as a key in the policy. Returns ErrUnknownVertexType
// if a referenced table is absent.
func (l *ConfigListener) Initialize() error {
	l.edgeTable = l.store.EdgeTable()
	l.edgeListenerID = l.edgeTable.RegisterListener(l.OnEdgeEvent)

	l.vertexTables = make(map[string]graphstore.VertexTable)
	l.vertexListenerIDs = make(map[string]graphstore.ListenerID)
	for _, vertexType := range l.policy.VertexTypes() {
		table, ok := l.store.FindVertexTable(vertexType)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownVertexType, vertexType)
		}
		l.vertexTables[vertexType] = table
		l.vertexListenerIDs[vertexType] = table.RegisterListener(l.OnVertexEvent)
	}
	return nil
}

// OnVertexEvent is the GraphStore callback for vertex add/change/delete.
func (l *ConfigListener) OnVertexEvent(v graphstore.VertexHandle) {
	release := l.guard.enter("listener")
	defer release()

	l.metrics.recordEvent("vertex")

	existing, attached := v.GetState(l.slot)
	var state *VertexState
	if attached {
		state = existing.(*VertexState)
	}

	if v.IsDeleted() && !attached {
		// Untracked deletion: we never had interest in this vertex, so a
		// delete is not a change to anything a consumer has seen.
		return
	}

	if !attached {
		state = newVertexState(v)
		v.AttachState(l.slot, state)
		l.tracked[VertexDescriptor{Type: v.Type(), Name: v.Name()}] = v
	}

	if l.emitCallback != nil {
		var open atomic.Bool
		open.Store(true)
		l.emitCallback(v, func(snapshot any) {
			if open.Load() {
				state.setSnapshot(snapshot)
			}
		})
		open.Store(false)
	}

	if l.emitter != nil {
		l.emitter.Emit(emit.Event{
			NodeID: v.Type() + ":" + v.Name(),
			Msg:    "vertex_event",
			Meta:   map[string]interface{}{"deleted": v.IsDeleted()},
		})
	}

	// A deleted vertex is never resolved back off the NodeList (Tracker.resolve
	// skips anything IsDeleted), so enqueuing it here would only hold an extra
	// ref that nothing downstream ever releases. Run the delete-side detach
	// first and skip the SELF enqueue entirely for a deleted vertex.
	if v.IsDeleted() {
		if state.unref() {
			v.DetachState(l.slot)
			delete(l.tracked, VertexDescriptor{Type: v.Type(), Name: v.Name()})
		}
		return
	}

	if pset, ok := l.policy.Lookup(v.Type(), policy.SELF); ok && len(pset) > 0 {
		l.batch.addNode(v.Type(), v.Name())
		state.ref()
		l.arm()
	}

	l.metrics.setPendingBatchSize(len(l.batch.Nodes) + len(l.batch.Edges))
}

// OnEdgeEvent is the GraphStore callback for edge add/delete. Each side is
// evaluated independently; either side may be nil on a creation race, and
// the collaborator is assumed to redeliver once it resolves.
func (l *ConfigListener) OnEdgeEvent(ev graphstore.EdgeEvent) {
	release := l.guard.enter("listener")
	defer release()

	l.metrics.recordEvent("edge")

	interesting := false
	for _, side := range [2]graphstore.VertexHandle{ev.Left, ev.Right} {
		if side == nil {
			continue
		}
		pset, ok := l.policy.Lookup(side.Type(), ev.Label)
		if !ok || len(pset) == 0 {
			continue
		}
		l.batch.addEdge(ev.Label, side.Type(), side.Name())
		if existing, attached := side.GetState(l.slot); attached {
			existing.(*VertexState).ref()
		}
		interesting = true
	}
	if interesting {
		l.arm()
		if l.emitter != nil {
			l.emitter.Emit(emit.Event{
				NodeID: ev.Label,
				Msg:    "edge_event",
			})
		}
	}

	l.metrics.setPendingBatchSize(len(l.batch.Nodes) + len(l.batch.Edges))
}

func (l *ConfigListener) arm() {
	if l.armed {
		return
	}
	l.armed = true
	if l.onArm != nil {
		l.onArm()
	}
}

// takeBatch hands the accumulated PendingBatch to the drain domain and
// starts a fresh, empty one. Must only be called from within a Drain call,
// which already holds the domain guard; takeBatch itself does not re-enter
// it.
func (l *ConfigListener) takeBatch() *PendingBatch {
	batch := l.batch
	l.batch = newPendingBatch()
	l.armed = false
	l.metrics.setPendingBatchSize(0)
	return batch
}

// Terminate unregisters all listeners, detaches and drops every VertexState,
// and discards any unread PendingBatch.
func (l *ConfigListener) Terminate() {
	if l.edgeTable != nil {
		l.edgeTable.Unregister(l.edgeListenerID)
	}
	for vertexType, table := range l.vertexTables {
		table.Unregister(l.vertexListenerIDs[vertexType])
	}
	for desc, v := range l.tracked {
		v.DetachState(l.slot)
		delete(l.tracked, desc)
	}
	l.batch = newPendingBatch()
	l.armed = false
}
