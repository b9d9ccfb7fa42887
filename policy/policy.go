// Package policy implements the declarative reaction-map used by the
// dependency tracker to decide, for a given vertex type and trigger label,
// which labels to follow next while walking the configuration graph.
//
// A ReactionPolicy is a two-level lookup table:
//
//	vertex_type -> trigger_label -> PropagateSet
//
// The sentinel trigger (and member) label SELF means "the vertex's own
// properties changed" when used as a key, and "emit the current vertex to
// the change list" when it appears inside a PropagateSet. Every other label
// names a graph edge metadata type.
//
// Once built, a ReactionPolicy is immutable and safe for concurrent
// lock-free reads from the drain domain while the listener domain keeps
// accumulating the next batch.
package policy

// SELF is the sentinel label. Keyed at (vertexType, SELF) it names the
// reaction to an intrinsic vertex property change; inside a PropagateSet it
// means "add the current vertex to the change list".
const SELF = "self"

// PropagateSet is the set of labels to follow out of a vertex once a
// trigger fires, possibly including SELF.
type PropagateSet map[string]struct{}

// Has reports whether label is a member of the set. A nil set behaves like
// an empty one.
func (s PropagateSet) Has(label string) bool {
	_, ok := s[label]
	return ok
}

// ReactionMap maps a trigger label (SELF or an edge metadata label) to the
// set of labels to propagate across.
type ReactionMap map[string]PropagateSet

// ReactionPolicy maps a vertex type to its ReactionMap. It is built once via
// Builder and never mutated afterward; Lookup is the only operation needed
// during propagation.
type ReactionPolicy struct {
	byType map[string]ReactionMap
}

// Lookup returns the PropagateSet for (vertexType, triggerLabel), or
// (nil, false) if there is no entry — meaning the walk terminates at this
// vertex for this trigger.
func (p *ReactionPolicy) Lookup(vertexType, triggerLabel string) (PropagateSet, bool) {
	rmap, ok := p.byType[vertexType]
	if !ok {
		return nil, false
	}
	pset, ok := rmap[triggerLabel]
	return pset, ok
}

// VertexTypes returns the vertex types referenced by this policy, in no
// particular order. Used by Tracker.Initialize to register exactly the
// listeners the policy needs.
func (p *ReactionPolicy) VertexTypes() []string {
	types := make([]string, 0, len(p.byType))
	for t := range p.byType {
		types = append(types, t)
	}
	return types
}

// setOf builds a PropagateSet from a list of labels, deduplicating.
func setOf(labels ...string) PropagateSet {
	s := make(PropagateSet, len(labels))
	for _, l := range labels {
		s[l] = struct{}{}
	}
	return s
}

// Set is a convenience constructor for a PropagateSet literal, most often
// used directly in a policy fragment:
//
//	policy.ReactionMap{
//	    "instance-target": policy.Set(policy.SELF, "connection"),
//	    "connection":       policy.Set(policy.SELF),
//	}
func Set(labels ...string) PropagateSet {
	return setOf(labels...)
}
