//go:build depgraph_debug

package depgraph

import "fmt"

// assertPolicyInvariant panics when built with the depgraph_debug tag,
// surfacing ErrPolicyInvariantViolation with enough context to find the
// offending policy fragment. The default build (debug_noassert.go) treats
// the same condition as a silent skip: a node only reaches propagateEdge
// because an upstream interest check found a matching entry, so a miss here
// means the policy or event filtering disagreed with itself.
func assertPolicyInvariant(vertexType, label string) {
	panic(fmt.Errorf("%w: vertex type %q, label %q", ErrPolicyInvariantViolation, vertexType, label))
}
