// Package style holds the terminal styling primitive used by the tracer and the
// source cache: a small Spec describing faint/bold/foreground and a Renderer that
// turns text plus Spec into styled terminal output.
package style

import (
	"strings"
	"unicode"
)

// Color names a basic ANSI foreground color.
type Color uint8

const (
	// ColorNone keeps the terminal's default foreground.
	ColorNone Color = iota
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
)

// String returns the lower-case color name.
func (c Color) String() string {
	switch c {
	case ColorNone:
		return "none"
	case ColorBlack:
		return "black"
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorYellow:
		return "yellow"
	case ColorBlue:
		return "blue"
	case ColorMagenta:
		return "magenta"
	case ColorCyan:
		return "cyan"
	case ColorWhite:
		return "white"
	default:
		return "unknown"
	}
}

// Spec describes how a piece of text should look.
type Spec struct {
	Faint bool
	Bold  bool
	FG    Color
}

// IsZero reports whether the spec leaves text untouched.
func (s Spec) IsZero() bool {
	return !s.Faint && !s.Bold && s.FG == ColorNone
}

// Specs used by the tracer output.
var (
	// Faint dims replayed source and comments.
	Faint = Spec{Faint: true}
	// Accent marks tracer call lines inside replayed source.
	Accent = Spec{FG: ColorCyan}
	// Marker is the gutter glyph in front of a traced message.
	Marker = Spec{Faint: true, FG: ColorCyan}
	// Highlight is the traced message itself.
	Highlight = Spec{Bold: true, FG: ColorCyan}
)

// Renderer applies a Spec to text.
type Renderer interface {
	Render(text string, spec Spec) string
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(text string, spec Spec) string

// Render calls f(text, spec).
func (f RendererFunc) Render(text string, spec Spec) string { return f(text, spec) }

// Plain renders every spec as pass-through.
type Plain struct{}

// Render returns text unchanged.
func (Plain) Render(text string, _ Spec) string { return text }

// SplitIndent splits line into its leading whitespace and the rest.
func SplitIndent(line string) (indent, rest string) {
	rest = strings.TrimLeftFunc(line, unicode.IsSpace)
	return line[:len(line)-len(rest)], rest
}
