// Package observe holds the tracing, metrics and logging hooks shared by the
// statehandler and eventdispatch machines.
//
// Spans are created from the global OpenTelemetry tracer provider, so they
// are no-ops until a provider is installed (see package telemetry). Metrics
// are registered on the default Prometheus registry. Logging only happens
// when a machine was given a logger.
package observe
