package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Option adjusts how a Manager names and registers its series.
type Option func(*Manager)

// WithNamespace sets the first segment of every series name. Empty keeps
// the default.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem sets the second segment of every series name. Empty keeps
// the default.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithPrometheusRegistry registers the series on registry instead of the
// default registerer.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// Init rebuilds the global manager on a fresh registry, so series names
// follow opts. It must run at startup before metrics are recorded or served;
// handlers capture GetRegistry when they are built.
func Init(opts ...Option) {
	registry := prometheus.NewRegistry()
	opts = append(opts, WithPrometheusRegistry(registry))
	globalManager = NewManager(opts...)
	customRegistry = registry
}
