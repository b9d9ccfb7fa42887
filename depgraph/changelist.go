package depgraph

// ChangeListEntry carries one vertex a consumer must reprocess. Snapshot is
// the opaque, consumer-owned object captured via the emit callback at event
// time. Snapshot is nil for a vertex that is marked deleted ("apply
// deletion"), and also for a live vertex whose VertexState holds no
// snapshot (none was set, or no state is attached).
type ChangeListEntry struct {
	Descriptor VertexDescriptor
	Snapshot   any
}

// ChangeList is the typed, ordered output of a single Drain call. Order
// follows first-emission order: node-seeded traversal before edge-seeded
// traversal, source-list insertion order within each, and GraphStore
// adjacency order within each recursive step.
type ChangeList struct {
	Entries []ChangeListEntry
}

func (c *ChangeList) append(e ChangeListEntry) {
	c.Entries = append(c.Entries, e)
}

// Reset empties the list for reuse across drains, avoiding a fresh
// allocation for callers that drain on a hot path.
func (c *ChangeList) Reset() {
	c.Entries = c.Entries[:0]
}
