/*
Package observability exposes calculator activity as Prometheus metrics.

Metrics plugs into a Calculator (or a session.Manager) through
domain.LifecycleHooks, and into HTTP servers through Middleware and Handler.
*/
package observability
