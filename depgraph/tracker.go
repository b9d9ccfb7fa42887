package depgraph

import (
	"time"

	"github.com/ctrlgraph/depgraph-go/emit"
	"github.com/ctrlgraph/depgraph-go/graphstore"
	"github.com/ctrlgraph/depgraph-go/policy"
)

// Tracker is the dependency-tracker facade: it owns a ConfigListener for the
// listener-domain side of the contract and implements the recursive,
// policy-guided walk for the drain-domain side. Initialize registers
// GraphStore listeners; OnVertexEvent/OnEdgeEvent (invoked by the
// GraphStore) accumulate a PendingBatch; Drain converts that batch into a
// ChangeList.
type Tracker struct {
	store    graphstore.GraphStore
	policy   *policy.ReactionPolicy
	listener *ConfigListener
	metrics  *Metrics
	emitter  emit.Emitter
	drainSeq int
}

// NewTracker builds a Tracker over store. emitCallback is invoked once per
// vertex event in the listener domain (see EmitCallback); build populates a
// policy.Builder whose frozen ReactionPolicy governs the walk.
func NewTracker(store graphstore.GraphStore, emitCallback EmitCallback, build func(*policy.Builder), opts ...Option) *Tracker {
	cfg := &trackerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	b := policy.NewBuilder()
	if build != nil {
		build(b)
	}
	pol := b.Build()

	t := &Tracker{
		store:   store,
		policy:  pol,
		metrics: cfg.metrics,
		emitter: cfg.emitter,
	}
	t.listener = newConfigListener(store, pol, emitCallback, cfg.emitter, cfg.metrics, cfg.drainTrigger)
	return t
}

// Initialize registers all listeners. Idempotent only in the sense that the
// GraphStore contract allows re-registration; callers should call this
// exactly once per Tracker.
func (t *Tracker) Initialize() error {
	return t.listener.Initialize()
}

// Terminate unregisters all listeners and releases every attached
// VertexState. The Tracker must not be used after Terminate.
func (t *Tracker) Terminate() {
	t.listener.Terminate()
}

// InjectNode is the test-facing equivalent of a GraphStore vertex-table
// event, bypassing the need for a real GraphStore listener registration.
func (t *Tracker) InjectNode(vertex graphstore.VertexHandle) {
	t.listener.OnVertexEvent(vertex)
}

// InjectEdge is the test-facing equivalent of a GraphStore edge-table event.
func (t *Tracker) InjectEdge(label string, left, right graphstore.VertexHandle) {
	t.listener.OnEdgeEvent(graphstore.EdgeEvent{Label: label, Left: left, Right: right})
}

// Drain consumes the current PendingBatch and appends every vertex the
// reaction policy says must be reprocessed to out, in first-emission order.
// Callable only from the drain domain; must not run concurrently with a
// listener-domain call on the same Tracker.
func (t *Tracker) Drain(out *ChangeList) {
	release := t.listener.guard.enter("drain")
	defer release()

	start := time.Now()
	startLen := len(out.Entries)
	batch := t.listener.takeBatch()
	t.drainSeq++

	if t.emitter != nil {
		t.emitter.Emit(emit.Event{RunID: batch.ID, Step: t.drainSeq, Msg: "drain_start"})
	}

	visited := make(map[visitedKey]struct{})
	emitted := make(map[string]struct{})

	for _, n := range batch.Nodes {
		v, ok := t.resolve(n.Type, n.Name)
		if !ok {
			continue
		}
		t.propagateNode(v, visited, emitted, out)
		t.releaseBatchRef(v)
	}

	for _, e := range batch.Edges {
		v, ok := t.resolve(e.Type, e.Name)
		if !ok {
			continue
		}
		t.propagateEdge(v, e.Label, visited, emitted, out)
		t.releaseBatchRef(v)
	}

	t.metrics.recordDrain(time.Since(start), len(out.Entries)-startLen)

	if t.emitter != nil {
		t.emitter.Emit(emit.Event{
			RunID: batch.ID,
			Step:  t.drainSeq,
			Msg:   "drain_end",
			Meta: map[string]interface{}{
				"duration_ms":     time.Since(start).Milliseconds(),
				"changelist_size": len(out.Entries) - startLen,
			},
		})
	}
}

// resolve re-fetches a vertex by descriptor at drain time, skipping it if
// the vertex (or its table) no longer exists or has been deleted.
// Descriptor stability: a NodeList/EdgeList entry remains a legal lookup key
// even after the vertex it named has since vanished.
func (t *Tracker) resolve(vertexType, name string) (graphstore.VertexHandle, bool) {
	table, ok := t.store.FindVertexTable(vertexType)
	if !ok {
		return nil, false
	}
	v, ok := table.Find(name)
	if !ok || v.IsDeleted() {
		return nil, false
	}
	return v, true
}

// releaseBatchRef drops the hold a NodeList/EdgeList entry placed on v's
// VertexState when it was queued, detaching the state if nothing else holds
// it. A vertex with no attached state (never tracked, or already detached)
// is a no-op.
func (t *Tracker) releaseBatchRef(v graphstore.VertexHandle) {
	existing, ok := v.GetState(t.listener.slot)
	if !ok {
		return
	}
	if existing.(*VertexState).unref() {
		v.DetachState(t.listener.slot)
	}
}

func (t *Tracker) propagateNode(v graphstore.VertexHandle, visited map[visitedKey]struct{}, emitted map[string]struct{}, out *ChangeList) {
	plist, ok := t.policy.Lookup(v.Type(), policy.SELF)
	if !ok {
		// v only reached the NodeList because OnVertexEvent found a
		// non-empty SELF entry for its type; a miss here means the policy
		// changed shape between enqueue and drain, which must not happen
		// given ReactionPolicy's immutability.
		assertPolicyInvariant(v.Type(), policy.SELF)
		return
	}

	// SELF here does not emit v: the node-level notification for v already
	// went out at listener time, via EmitCallback, and this path adds no
	// ChangeList entry for v. Only the non-SELF labels drive further
	// propagation from this point.
	for label, target := range v.OutgoingEdges() {
		if !plist.Has(label) {
			continue
		}
		t.propagateEdge(target, label, visited, emitted, out)
	}
}

type visitedKey struct {
	vertex VertexDescriptor
	label  string
}

func (t *Tracker) propagateEdge(v graphstore.VertexHandle, label string, visited map[visitedKey]struct{}, emitted map[string]struct{}, out *ChangeList) {
	plist, ok := t.policy.Lookup(v.Type(), label)
	if !ok {
		assertPolicyInvariant(v.Type(), label)
		return
	}

	key := visitedKey{vertex: VertexDescriptor{Type: v.Type(), Name: v.Name()}, label: label}
	if _, seen := visited[key]; seen {
		return
	}
	visited[key] = struct{}{}

	if plist.Has(policy.SELF) {
		t.emit(v, emitted, out)
	}

	for edgeLabel, target := range v.OutgoingEdges() {
		if !plist.Has(edgeLabel) {
			continue
		}
		t.propagateEdge(target, edgeLabel, visited, emitted, out)
	}
}

func (t *Tracker) emit(v graphstore.VertexHandle, emitted map[string]struct{}, out *ChangeList) {
	desc := VertexDescriptor{Type: v.Type(), Name: v.Name()}
	id := desc.id()
	if _, ok := emitted[id]; ok {
		return
	}
	emitted[id] = struct{}{}

	entry := ChangeListEntry{Descriptor: desc}
	if !v.IsDeleted() {
		if existing, ok := v.GetState(t.listener.slot); ok {
			if snap, has := existing.(*VertexState).Snapshot(); has {
				entry.Snapshot = snap
			}
		}
	}
	out.append(entry)
}
