// Package trace records what a scriptgate invocation did and how long it took.
//
// Tracing is enabled from the command line:
//
//	scriptgate exec --trace=- --trace-level=detail job.py
//
// Tracers:
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes each event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events for a dump after a failure
//   - MultiTracer: fans out to several tracers
//
// Levels map onto scopes: phase shows invocations and validation passes,
// detail adds every execution attempt, debug shows everything.
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "scope", parentID)
//	defer span.End("")
package trace
