// Package trace is the observability channel of the nafi front end.
//
// There is no global logger. A Tracer travels through context.Context
// (WithTracer / FromContext) and receives Events: span begin/end pairs for
// driver and pass boundaries, and point events for fine-grained activity such
// as lexer mode transitions and parser node pushes.
//
// # Levels
//
//   - LevelOff: nothing
//   - LevelError: reserved for failure dumps
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: per-file events
//   - LevelDebug: everything, including node-level events
//
// # Implementations
//
//   - Nop: zero-cost default
//   - StreamTracer: writes text or NDJSON lines immediately
//   - RingTracer: keeps the last N events in memory
//
// Usage:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "lex", 0)
//	defer span.End("")
package trace
