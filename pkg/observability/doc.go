/*
Package observability turns engine lifecycle events into metrics and logs.

Metrics exposes Prometheus collectors fed by domain.LifecycleHooks; LogHooks
writes the same events to a structured logger.
*/
package observability
