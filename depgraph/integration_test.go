package depgraph_test

import (
	"testing"

	"github.com/ctrlgraph/depgraph-go/depgraph"
	"github.com/ctrlgraph/depgraph-go/graphstore"
	"github.com/ctrlgraph/depgraph-go/policy"
)

// referencePolicy builds the reaction policy used across most scenarios:
// the routing-instance/bgp-router/virtual-network fragments together with a
// bgp-peering reaction so that a bgp-router's neighbors get reprocessed.
func referencePolicy(b *policy.Builder) {
	b.AddFragment("routing-instance", policy.ReactionMap{
		"instance-target":                 policy.Set(policy.SELF, "connection"),
		"connection":                       policy.Set(policy.SELF),
		"virtual-network-routing-instance": policy.Set(policy.SELF),
	})
	b.AddFragment("bgp-router", policy.ReactionMap{
		policy.SELF: policy.Set("bgp-peering"),
	})
	b.AddFragment("virtual-network", policy.ReactionMap{
		policy.SELF: policy.Set("virtual-network-routing-instance"),
	})
	b.AddFragment("bgp-peering", policy.ReactionMap{
		"bgp-peering": policy.Set(policy.SELF),
	})
}

// seedPolicyTables ensures every vertex type referencePolicy names has at
// least one table in store, which Initialize requires even for types a
// given scenario doesn't otherwise touch.
func seedPolicyTables(store *graphstore.MemStore) {
	store.AddVertex("routing-instance", "__seed")
	store.AddVertex("bgp-router", "__seed")
	store.AddVertex("virtual-network", "__seed")
	store.AddVertex("bgp-peering", "__seed")
}

func descriptors(cl *depgraph.ChangeList) []string {
	out := make([]string, len(cl.Entries))
	for i, e := range cl.Entries {
		out[i] = e.Descriptor.Type + ":" + e.Descriptor.Name
	}
	return out
}

func countOf(list []string, want string) int {
	n := 0
	for _, s := range list {
		if s == want {
			n++
		}
	}
	return n
}

func TestScenario_IrrelevantVertexChange(t *testing.T) {
	store := graphstore.NewMemStore()
	store.AddVertex("route-target", "target:1:1")

	tr := depgraph.NewTracker(store, nil, referencePolicy)
	seedPolicyTables(store)
	if err := tr.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	handle, ok := mustHandle(t, store, "route-target", "target:1:1")
	if !ok {
		t.Fatal("expected to find route-target vertex")
	}
	tr.InjectNode(handle)

	var cl depgraph.ChangeList
	tr.Drain(&cl)
	if len(cl.Entries) != 0 {
		t.Fatalf("expected empty ChangeList, got %v", descriptors(&cl))
	}
}

func TestScenario_DuplicateNodeEvents(t *testing.T) {
	store := graphstore.NewMemStore()
	store.AddVertex("bgp-router", "master:local")
	store.AddVertex("bgp-peering", "peer-a")
	store.AddVertex("bgp-peering", "peer-b")
	store.AddVertex("bgp-peering", "peer-c")
	store.AddEdge("bgp-peering", "bgp-router", "master:local", "bgp-peering", "peer-a")
	store.AddEdge("bgp-peering", "bgp-router", "master:local", "bgp-peering", "peer-b")
	store.AddEdge("bgp-peering", "bgp-router", "master:local", "bgp-peering", "peer-c")

	var emitCalls []string
	emitCallback := func(v graphstore.VertexHandle, setSnapshot func(any)) {
		emitCalls = append(emitCalls, v.Type()+":"+v.Name())
	}

	tr := depgraph.NewTracker(store, emitCallback, referencePolicy)
	seedPolicyTables(store)
	if err := tr.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	store.AddVertex("bgp-router", "master:local")
	store.AddVertex("bgp-router", "master:local")

	if got := countOf(emitCalls, "bgp-router:master:local"); got != 2 {
		t.Fatalf("expected 2 listener-time emissions for bgp-router, got %d (%v)", got, emitCalls)
	}

	var cl depgraph.ChangeList
	tr.Drain(&cl)
	entries := descriptors(&cl)
	if len(entries) != 3 {
		t.Fatalf("expected 3 deduplicated bgp-peering entries, got %v", entries)
	}
	for _, want := range []string{"bgp-peering:peer-a", "bgp-peering:peer-b", "bgp-peering:peer-c"} {
		if countOf(entries, want) != 1 {
			t.Fatalf("expected exactly one %s in %v", want, entries)
		}
	}
}

func TestScenario_UninterestingLinkEvent(t *testing.T) {
	store := graphstore.NewMemStore()
	store.AddVertex("domain", "default-domain")
	store.AddVertex("project", "default-project")

	tr := depgraph.NewTracker(store, nil, referencePolicy)
	seedPolicyTables(store)
	if err := tr.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	left, _ := mustHandle(t, store, "domain", "default-domain")
	right, _ := mustHandle(t, store, "project", "default-project")
	tr.InjectEdge("domain-project", left, right)

	var cl depgraph.ChangeList
	tr.Drain(&cl)
	if len(cl.Entries) != 0 {
		t.Fatalf("expected empty ChangeList, got %v", descriptors(&cl))
	}
}

func TestScenario_TransitiveConnectionConfinement(t *testing.T) {
	store := graphstore.NewMemStore()
	store.AddVertex("routing-instance", "red")
	store.AddVertex("routing-instance", "blue")
	store.AddVertex("routing-instance", "green")
	store.AddEdge("connection", "routing-instance", "blue", "routing-instance", "green")

	tr := depgraph.NewTracker(store, nil, referencePolicy)
	seedPolicyTables(store)
	if err := tr.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	store.AddEdge("connection", "routing-instance", "red", "routing-instance", "blue")

	var cl depgraph.ChangeList
	tr.Drain(&cl)
	entries := descriptors(&cl)
	if len(entries) != 2 || countOf(entries, "routing-instance:red") != 1 || countOf(entries, "routing-instance:blue") != 1 {
		t.Fatalf("expected exactly {red, blue}, got %v", entries)
	}
	if countOf(entries, "routing-instance:green") != 0 {
		t.Fatalf("green must not be reached, got %v", entries)
	}
}

func TestScenario_TargetFanOutWithSecondHopStop(t *testing.T) {
	store := graphstore.NewMemStore()
	store.AddVertex("routing-instance", "red")
	store.AddVertex("routing-instance", "blue")
	store.AddVertex("routing-instance", "green")
	store.AddVertex("route-target", "target:1:100")
	store.AddEdge("connection", "routing-instance", "red", "routing-instance", "blue")
	store.AddEdge("connection", "routing-instance", "blue", "routing-instance", "green")

	tr := depgraph.NewTracker(store, nil, referencePolicy)
	seedPolicyTables(store)
	if err := tr.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	store.AddEdge("instance-target", "routing-instance", "red", "route-target", "target:1:100")

	var cl depgraph.ChangeList
	tr.Drain(&cl)
	entries := descriptors(&cl)
	if len(entries) != 2 || countOf(entries, "routing-instance:red") != 1 || countOf(entries, "routing-instance:blue") != 1 {
		t.Fatalf("expected exactly {red, blue}, got %v", entries)
	}
	if countOf(entries, "routing-instance:green") != 0 {
		t.Fatalf("green must not be reached via the second connection hop, got %v", entries)
	}
}

func TestScenario_DeletedVertexNoOpForUntrackedType(t *testing.T) {
	store := graphstore.NewMemStore()

	var emitCalls []string
	emitCallback := func(v graphstore.VertexHandle, setSnapshot func(any)) {
		emitCalls = append(emitCalls, v.Type()+":"+v.Name())
	}

	tr := depgraph.NewTracker(store, emitCallback, referencePolicy)
	// virtual-network is a policy-tracked type, so it needs a table to
	// Initialize, but this specific vertex is never added before its
	// delete reaches the tracker — simulating a remote object that
	// disappeared before this process ever observed it.
	seedPolicyTables(store)
	if err := tr.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	store.DeleteVertex("virtual-network", "never-added")

	if countOf(emitCalls, "virtual-network:never-added") != 0 {
		t.Fatalf("expected the untracked delete to be filtered before emit_callback, got %v", emitCalls)
	}

	var cl depgraph.ChangeList
	tr.Drain(&cl)
	if len(cl.Entries) != 0 {
		t.Fatalf("expected no ChangeList entries from the untracked delete, got %v", descriptors(&cl))
	}
}

func mustHandle(t *testing.T, store *graphstore.MemStore, vertexType, name string) (graphstore.VertexHandle, bool) {
	t.Helper()
	table, ok := store.FindVertexTable(vertexType)
	if !ok {
		return nil, false
	}
	return table.Find(name)
}
