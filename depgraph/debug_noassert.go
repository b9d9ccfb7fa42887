//go:build !depgraph_debug

package depgraph

// assertPolicyInvariant is a no-op in the default build; propagateEdge
// treats a policy-lookup miss here as a silent skip rather than a panic.
// Build with -tags depgraph_debug to turn this into a hard failure during
// development or testing.
func assertPolicyInvariant(vertexType, label string) {}
