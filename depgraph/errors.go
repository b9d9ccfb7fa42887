// Package depgraph implements the dependency-tracker and change-propagation
// engine: it listens to raw vertex/edge events from a graphstore.GraphStore,
// walks the graph under a policy.ReactionPolicy, and produces a
// de-duplicated, ordered ChangeList for a consumer to reprocess.
package depgraph

import "errors"

// ErrUnknownVertexType is returned by Tracker.Initialize when the policy
// references a vertex type for which the GraphStore has no table. Fatal to
// initialization; never surfaced afterward.
var ErrUnknownVertexType = errors.New("depgraph: policy references a vertex type with no table in the graph store")

// ErrPolicyInvariantViolation indicates the walk reached a vertex via an
// edge label for which the policy has no entry, despite having been enqueued
// by an upstream interest check. This is a programming error in the policy
// or the caller's event filtering, not a data condition; see
// assertPolicyInvariant (debug_assert.go / debug_noassert.go) for the
// debug/release split.
var ErrPolicyInvariantViolation = errors.New("depgraph: propagate_edge reached a vertex with no matching policy entry")

// ErrConcurrencyContractViolation is raised only by a depgraph_debug build
// when a listener-domain call (OnVertexEvent/OnEdgeEvent) overlaps a
// drain-domain call (Drain) on the same Tracker. In the default build this
// condition is undefined behavior the host is responsible for preventing;
// see domainGuard.
var ErrConcurrencyContractViolation = errors.New("depgraph: listener and drain domains entered concurrently")
