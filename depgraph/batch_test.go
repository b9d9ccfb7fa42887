package depgraph

import "testing"

func TestPendingBatch_AddAndEmpty(t *testing.T) {
	b := newPendingBatch()
	if !b.empty() {
		t.Fatal("expected new batch to be empty")
	}
	if b.ID == "" {
		t.Fatal("expected a non-empty batch id")
	}

	b.addNode("routing-instance", "red")
	if b.empty() {
		t.Fatal("expected batch with a node to be non-empty")
	}

	b.addEdge("connection", "routing-instance", "blue")
	if len(b.Nodes) != 1 || len(b.Edges) != 1 {
		t.Fatalf("unexpected batch contents: %+v", b)
	}
}

func TestVertexDescriptor_ID(t *testing.T) {
	d := VertexDescriptor{Type: "routing-instance", Name: "red"}
	if d.id() != "routing-instance:red" {
		t.Fatalf("unexpected id %q", d.id())
	}
}
