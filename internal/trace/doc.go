// Package trace provides the live-commentary console tracer.
//
// Each call to Print locates its own call site, replays (dimmed) every source
// line of the calling file since the previous call from that file, and then
// prints the message highlighted, indented like the call itself.
//
// # Usage
//
//	tr := trace.New(trace.WithRenderer(style.ColorRenderer{}))
//	...
//	tr.Print("Alice:", alice)
//
// # State
//
// A Tracer owns two per-file maps for its whole lifetime: the styled source
// lines (through a source.Cache) and the cursor, the last line already
// replayed. Cursors never move backwards.
//
// # Transcript
//
// With WithTranscript every message is also appended to a transcript.Transcript,
// which the harness compares against the documented output at program end.
//
// # Errors
//
// A calling file that cannot be read makes Print panic with a *LoadError at
// the call site, after the message has gone to the transcript. Callers that
// prefer an error return defer Recover.
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tr)
//	trace.Print(ctx, "Users:", users)
package trace
