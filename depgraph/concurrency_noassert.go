//go:build !depgraph_debug

package depgraph

// domainGuard is a no-op placeholder in the default build. The host is
// trusted to keep the listener and drain domains mutually exclusive w.r.t. a
// given PendingBatch; build with -tags depgraph_debug to catch a violation
// of that contract during development.
type domainGuard struct{}

func (g *domainGuard) enter(domain string) func() { return func() {} }
