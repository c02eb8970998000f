/*
Package observability turns lookup lifecycle events into Prometheus metrics and
structured log records.

Both are exposed as domain.LifecycleHooks and can be merged and passed to the
Finder with findsimulator.WithLifecycleHooks.
*/
package observability
