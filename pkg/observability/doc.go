/*
Package observability provides tools for monitoring the annotation engine.

It turns the engine's lifecycle hooks into structured log records and
Prometheus metrics: geometry rebuilds, container flushes, grip edits and
interactive sessions.
*/
package observability
