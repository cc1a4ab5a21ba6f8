/*
Package observability provides lifecycle hooks for monitoring timelines.

Metrics turns scheduler events into Prometheus series; LogHooks writes them
to a structured logger. Both return domain.LifecycleHooks, so they can be
combined with domain.CombineHooks and passed to coroutines.WithLifecycleHooks.
*/
package observability
