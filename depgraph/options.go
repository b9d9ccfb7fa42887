package depgraph

import "github.com/ctrlgraph/depgraph-go/emit"

// Option configures a Tracker at construction time. There is no on-disk or
// environment-variable configuration for the core; every knob a host needs
// is expressed this way.
type Option func(*trackerConfig)

type trackerConfig struct {
	metrics     *Metrics
	emitter     emit.Emitter
	drainTrigger func()
}

// WithMetrics attaches a Prometheus-backed Metrics collector. Omit for no
// metrics overhead.
func WithMetrics(m *Metrics) Option {
	return func(c *trackerConfig) {
		c.metrics = m
	}
}

// WithEmitter attaches an ambient observability emitter (logging, tracing,
// or buffered-for-tests). A nil emitter, or omitting this option, means
// events are silently skipped — matching emit.NullEmitter's behavior.
func WithEmitter(e emit.Emitter) Option {
	return func(c *trackerConfig) {
		c.emitter = e
	}
}

// WithDrainTrigger registers a callback fired the first time a PendingBatch
// transitions from empty to non-empty (the "drain trigger" arming described
// for ConfigListener). The host uses this to schedule the next Drain call;
// the trigger fires at most once per batch and re-arms only after the next
// Drain starts a fresh one.
func WithDrainTrigger(fn func()) Option {
	return func(c *trackerConfig) {
		c.drainTrigger = fn
	}
}
