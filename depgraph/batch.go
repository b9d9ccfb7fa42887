package depgraph

import "github.com/google/uuid"

// VertexDescriptor identifies a vertex by its schema type and name. It
// remains a legal lookup key even after the underlying vertex is deleted or
// removed from the graph store; resolution happens fresh at drain time.
type VertexDescriptor struct {
	Type string
	Name string
}

func (d VertexDescriptor) id() string { return d.Type + ":" + d.Name }

// NodeRef is a NodeList entry: a vertex whose own properties changed.
type NodeRef struct {
	Type string
	Name string
}

// EdgeRef is an EdgeList entry: one side of a link event, carrying the
// metadata label and the identity of the interesting endpoint.
type EdgeRef struct {
	Label string
	Type  string
	Name  string
}

// PendingBatch accumulates NodeList and EdgeList entries between drains. It
// is owned by the listener domain and handed to the drain domain as a whole;
// the two domains never mutate the same PendingBatch value concurrently.
type PendingBatch struct {
	// ID correlates this batch's drain across logs, metrics, and traces.
	ID string

	Nodes []NodeRef
	Edges []EdgeRef
}

func newPendingBatch() *PendingBatch {
	return &PendingBatch{ID: uuid.NewString()}
}

func (b *PendingBatch) addNode(vertexType, name string) {
	b.Nodes = append(b.Nodes, NodeRef{Type: vertexType, Name: name})
}

func (b *PendingBatch) addEdge(label, vertexType, name string) {
	b.Edges = append(b.Edges, EdgeRef{Label: label, Type: vertexType, Name: name})
}

func (b *PendingBatch) empty() bool {
	return len(b.Nodes) == 0 && len(b.Edges) == 0
}
