// Package trace provides a small leveled tracer for the expander.
//
// The engine emits point events for the task lifecycle (spawned, step,
// blocked, woken) at ScopeTask; no other package emits events, so the
// ScopePhase and ScopeDriver scopes currently carry none. Tracing is off by
// default; the CLI enables it with --trace.
package trace
