package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"fullyhacks/internal/source"
	"fullyhacks/internal/style"
	"fullyhacks/internal/transcript"
)

// marker is the gutter glyph printed in front of every message.
const marker = "┃"

// Tracer echoes the caller's source since the previous call and prints a
// highlighted message. It is safe for concurrent use, although replay output
// only reads well when calls from one file happen in source order.
type Tracer struct {
	mu         sync.Mutex
	w          io.Writer
	renderer   style.Renderer
	locator    Locator
	cache      *source.Cache
	cursors    map[string]uint32
	transcript *transcript.Transcript
}

type config struct {
	w          io.Writer
	renderer   style.Renderer
	locator    Locator
	loader     source.Loader
	syntax     source.Syntax
	transcript *transcript.Transcript
}

// Option configures a Tracer.
type Option func(*config)

// WithWriter sets the output (default os.Stdout).
func WithWriter(w io.Writer) Option {
	return func(c *config) { c.w = w }
}

// WithRenderer sets the styling backend for replay and message (default plain).
func WithRenderer(r style.Renderer) Option {
	return func(c *config) { c.renderer = r }
}

// WithLocator replaces the runtime call-site lookup.
func WithLocator(l Locator) Option {
	return func(c *config) { c.locator = l }
}

// WithLoader sets where source units are read from (default disk).
func WithLoader(l source.Loader) Option {
	return func(c *config) { c.loader = l }
}

// WithSyntax sets the comment and call patterns used to style replayed lines.
func WithSyntax(s source.Syntax) Option {
	return func(c *config) { c.syntax = s }
}

// WithTranscript records every printed message into t.
func WithTranscript(t *transcript.Transcript) Option {
	return func(c *config) { c.transcript = t }
}

// New creates a Tracer with fresh cursors and an empty source cache.
func New(opts ...Option) *Tracer {
	cfg := config{
		w:        os.Stdout,
		renderer: style.Plain{},
		locator:  RuntimeLocator{},
		syntax:   source.DefaultSyntax,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Tracer{
		w:          cfg.w,
		renderer:   cfg.renderer,
		locator:    cfg.locator,
		cache:      source.NewCache(cfg.loader, cfg.renderer, cfg.syntax),
		cursors:    make(map[string]uint32),
		transcript: cfg.transcript,
	}
}

// Print joins values with single spaces and prints them after replaying the
// caller's source since the previous Print from the same file.
//
// Print panics when called without a caller frame. When the caller's source
// cannot be read it panics with a *LoadError at the call site; use Recover to
// turn that into an error return.
func (t *Tracer) Print(values ...any) {
	t.emit(2, values)
}

// Cursor returns the last replayed line of unit, 0 if unit was never traced.
func (t *Tracer) Cursor(unit string) uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cursors[unit]
}

// Transcript returns the attached transcript, or nil.
func (t *Tracer) Transcript() *transcript.Transcript {
	return t.transcript
}

// emit does the work of Print; depth is the number of frames between emit and
// the user's call site.
func (t *Tracer) emit(depth int, values []any) {
	msg := Join(values...)

	loc, err := t.locator.Locate(depth)
	if err != nil {
		panic(fmt.Errorf("trace: cannot resolve call site: %w", err))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.transcript != nil {
		t.transcript.Append(msg)
	}

	lines, err := t.cache.Lines(loc.Unit)
	if err != nil {
		panic(&LoadError{Unit: loc.Unit, Line: loc.Line, Err: err})
	}

	start := t.cursors[loc.Unit]
	replay := replayRange(lines, start, loc.Line)
	if loc.Line > start {
		t.cursors[loc.Unit] = loc.Line
	}

	var indent string
	if len(replay) > 0 {
		indent, _ = style.SplitIndent(replay[len(replay)-1])
	} else if int(loc.Line) >= 1 && int(loc.Line) <= len(lines) {
		indent, _ = style.SplitIndent(lines[loc.Line-1])
	}

	var b strings.Builder
	if len(replay) > 0 {
		b.WriteString(t.renderer.Render(strings.Join(replay, "\n"), style.Faint))
		b.WriteByte('\n')
	}
	b.WriteString(indent)
	b.WriteString(t.renderer.Render(marker, style.Marker))
	b.WriteByte(' ')
	b.WriteString(t.renderer.Render(msg, style.Highlight))
	b.WriteByte('\n')
	_, _ = io.WriteString(t.w, b.String())
}

// replayRange returns lines[start:line] clamped to the available lines. It is
// empty when line does not move past start.
func replayRange(lines []string, start, line uint32) []string {
	end := min(int(line), len(lines))
	if int(start) >= end {
		return nil
	}
	return lines[start:end]
}

// Join converts each value with fmt.Sprint (so fmt.Stringer decides the
// rendering) and joins the results with single spaces.
func Join(values ...any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}
