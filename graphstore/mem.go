package graphstore

import (
	"iter"
	"sync"
)

// MemStore is an in-memory GraphStore, grounded on the teacher's
// MemStore[S] (mutex-guarded maps, no external dependency). It is the
// reference collaborator used by this module's own tests; it is not meant for production use against a real metadata
// store, which would instead stream vertex/edge events from the network.
//
// MemStore is safe for concurrent use, though callers are still expected to
// honor the two-domain discipline documented on Tracker: a given listener
// callback must not run concurrently with the drain it's feeding.
type MemStore struct {
	mu     sync.RWMutex
	tables map[string]*memVertexTable
	edges  *memEdgeTable
}

// NewMemStore returns an empty in-memory GraphStore.
func NewMemStore() *MemStore {
	return &MemStore{
		tables: make(map[string]*memVertexTable),
		edges:  newMemEdgeTable(),
	}
}

// FindVertexTable implements GraphStore.
func (m *MemStore) FindVertexTable(vertexType string) (VertexTable, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[vertexType]
	if !ok {
		return nil, false
	}
	return t, true
}

// EdgeTable implements GraphStore.
func (m *MemStore) EdgeTable() EdgeTable {
	return m.edges
}

func (m *MemStore) tableFor(vertexType string) *memVertexTable {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[vertexType]
	if !ok {
		t = newMemVertexTable(m, vertexType)
		m.tables[vertexType] = t
	}
	return t
}

// AddVertex creates (or updates, if already present) a vertex and notifies
// the vertex table's listeners. It auto-creates the table for vertexType if
// this is the first vertex of that type.
func (m *MemStore) AddVertex(vertexType, name string) {
	t := m.tableFor(vertexType)
	t.upsert(name, false)
}

// DeleteVertex marks a vertex deleted and notifies listeners. Deleting a
// vertex that was never added is not an error: it creates a record already
// marked deleted (which Find then returns) and notifies listeners, matching
// the real metadata store's tolerance for delete-of-unknown.
func (m *MemStore) DeleteVertex(vertexType, name string) {
	t := m.tableFor(vertexType)
	t.upsert(name, true)
}

// AddEdge creates a symmetric link: vertex (leftType,leftName) gets an
// outgoing edge labeled label to (rightType,rightName) and vice versa, then
// notifies the edge table's listeners with both endpoints resolved.
func (m *MemStore) AddEdge(label, leftType, leftName, rightType, rightName string) {
	left := m.tableFor(leftType)
	right := m.tableFor(rightType)

	leftRec := left.record(leftName)
	rightRec := right.record(rightName)

	leftRec.addAdjacency(label, rightType, rightName)
	rightRec.addAdjacency(label, leftType, leftName)

	leftHandle := &memVertexHandle{table: left, rec: leftRec}
	rightHandle := &memVertexHandle{table: right, rec: rightRec}
	m.edges.notify(EdgeEvent{Label: label, Left: leftHandle, Right: rightHandle})
}

type memAdjEdge struct {
	label      string
	targetType string
	targetName string
}

type memVertexRecord struct {
	mu      sync.RWMutex
	typ     string
	name    string
	deleted bool
	edges   []memAdjEdge
	state   map[ListenerID]any
}

func (r *memVertexRecord) addAdjacency(label, targetType, targetName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edges = append(r.edges, memAdjEdge{label: label, targetType: targetType, targetName: targetName})
}

type memVertexTable struct {
	mu        sync.Mutex
	store     *MemStore
	typ       string
	vertices  map[string]*memVertexRecord
	listeners map[ListenerID]func(VertexHandle)
	nextID    ListenerID
}

func newMemVertexTable(store *MemStore, typ string) *memVertexTable {
	return &memVertexTable{
		store:     store,
		typ:       typ,
		vertices:  make(map[string]*memVertexRecord),
		listeners: make(map[ListenerID]func(VertexHandle)),
	}
}

// record returns (creating if necessary) the vertex record for name,
// without marking it deleted or notifying listeners. Used internally by
// AddEdge so that an edge's endpoints exist even if no vertex event for
// them has been seen yet.
func (t *memVertexTable) record(name string) *memVertexRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.vertices[name]
	if !ok {
		rec = &memVertexRecord{typ: t.typ, name: name, state: make(map[ListenerID]any)}
		t.vertices[name] = rec
	}
	return rec
}

func (t *memVertexTable) upsert(name string, deleted bool) *memVertexRecord {
	t.mu.Lock()
	rec, ok := t.vertices[name]
	if !ok {
		rec = &memVertexRecord{typ: t.typ, name: name, state: make(map[ListenerID]any)}
		t.vertices[name] = rec
	}
	rec.mu.Lock()
	rec.deleted = deleted
	rec.mu.Unlock()

	listeners := make([]func(VertexHandle), 0, len(t.listeners))
	for _, fn := range t.listeners {
		listeners = append(listeners, fn)
	}
	t.mu.Unlock()

	handle := &memVertexHandle{table: t, rec: rec}
	for _, fn := range listeners {
		fn(handle)
	}
	return rec
}

// RegisterListener implements VertexTable.
func (t *memVertexTable) RegisterListener(fn func(VertexHandle)) ListenerID {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	id := t.nextID
	t.listeners[id] = fn
	return id
}

// Unregister implements VertexTable.
func (t *memVertexTable) Unregister(id ListenerID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.listeners, id)
}

// Find implements VertexTable.
func (t *memVertexTable) Find(name string) (VertexHandle, bool) {
	t.mu.Lock()
	rec, ok := t.vertices[name]
	t.mu.Unlock()
	if !ok {
		return nil, false
	}
	return &memVertexHandle{table: t, rec: rec}, true
}

type memEdgeTable struct {
	mu        sync.Mutex
	listeners map[ListenerID]func(EdgeEvent)
	nextID    ListenerID
}

func newMemEdgeTable() *memEdgeTable {
	return &memEdgeTable{listeners: make(map[ListenerID]func(EdgeEvent))}
}

// RegisterListener implements EdgeTable.
func (t *memEdgeTable) RegisterListener(fn func(EdgeEvent)) ListenerID {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	id := t.nextID
	t.listeners[id] = fn
	return id
}

// Unregister implements EdgeTable.
func (t *memEdgeTable) Unregister(id ListenerID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.listeners, id)
}

func (t *memEdgeTable) notify(ev EdgeEvent) {
	t.mu.Lock()
	listeners := make([]func(EdgeEvent), 0, len(t.listeners))
	for _, fn := range t.listeners {
		listeners = append(listeners, fn)
	}
	t.mu.Unlock()
	for _, fn := range listeners {
		fn(ev)
	}
}

// memVertexHandle is the VertexHandle implementation returned by MemStore.
// Distinct memVertexHandle values wrapping the same record compare unequal
// as Go values but behave identically, matching the VertexHandle contract.
type memVertexHandle struct {
	table *memVertexTable
	rec   *memVertexRecord
}

func (h *memVertexHandle) Type() string { return h.rec.typ }
func (h *memVertexHandle) Name() string { return h.rec.name }

func (h *memVertexHandle) IsDeleted() bool {
	h.rec.mu.RLock()
	defer h.rec.mu.RUnlock()
	return h.rec.deleted
}

// OutgoingEdges iterates this vertex's adjacency in insertion order,
// resolving each target through the owning MemStore's table for the
// target's type. A target whose table or record has vanished is skipped
// rather than erroring, matching the tracker's own tolerance for stale
// references.
func (h *memVertexHandle) OutgoingEdges() iter.Seq2[string, VertexHandle] {
	return func(yield func(string, VertexHandle) bool) {
		h.rec.mu.RLock()
		edges := make([]memAdjEdge, len(h.rec.edges))
		copy(edges, h.rec.edges)
		h.rec.mu.RUnlock()

		for _, e := range edges {
			targetTable, ok := h.table.store.FindVertexTable(e.targetType)
			if !ok {
				continue
			}
			targetHandle, ok := targetTable.Find(e.targetName)
			if !ok {
				continue
			}
			if !yield(e.label, targetHandle) {
				return
			}
		}
	}
}

func (h *memVertexHandle) AttachState(id ListenerID, state any) {
	h.rec.mu.Lock()
	defer h.rec.mu.Unlock()
	h.rec.state[id] = state
}

func (h *memVertexHandle) DetachState(id ListenerID) {
	h.rec.mu.Lock()
	defer h.rec.mu.Unlock()
	delete(h.rec.state, id)
}

func (h *memVertexHandle) GetState(id ListenerID) (any, bool) {
	h.rec.mu.RLock()
	defer h.rec.mu.RUnlock()
	s, ok := h.rec.state[id]
	return s, ok
}
