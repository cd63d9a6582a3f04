package style

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

// ColorRenderer renders specs as ANSI escape sequences via fatih/color.
// It always emits escapes; terminal detection is the caller's job (see Mode).
type ColorRenderer struct{}

// Render wraps text in the escape sequences described by spec.
func (ColorRenderer) Render(text string, spec Spec) string {
	if spec.IsZero() || text == "" {
		return text
	}
	attrs := make([]color.Attribute, 0, 3)
	if spec.Bold {
		attrs = append(attrs, color.Bold)
	}
	if spec.Faint {
		attrs = append(attrs, color.Faint)
	}
	if fg, ok := fatihColors[spec.FG]; ok {
		attrs = append(attrs, fg)
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(text)
}

var fatihColors = map[Color]color.Attribute{
	ColorBlack:   color.FgBlack,
	ColorRed:     color.FgRed,
	ColorGreen:   color.FgGreen,
	ColorYellow:  color.FgYellow,
	ColorBlue:    color.FgBlue,
	ColorMagenta: color.FgMagenta,
	ColorCyan:    color.FgCyan,
	ColorWhite:   color.FgWhite,
}

// LipglossRenderer renders specs through a lipgloss renderer, which picks the
// color profile of the writer it was created for.
type LipglossRenderer struct {
	R *lipgloss.Renderer
}

// NewLipglossRenderer returns a LipglossRenderer bound to r, or to the default
// lipgloss renderer when r is nil.
func NewLipglossRenderer(r *lipgloss.Renderer) LipglossRenderer {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return LipglossRenderer{R: r}
}

// Render styles text line by line so lipgloss does not pad lines to a common width.
func (l LipglossRenderer) Render(text string, spec Spec) string {
	if spec.IsZero() || text == "" {
		return text
	}
	st := l.R.NewStyle().Faint(spec.Faint).Bold(spec.Bold)
	if spec.FG != ColorNone {
		st = st.Foreground(lipgloss.Color(ansiIndex[spec.FG]))
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		lines[i] = st.Render(line)
	}
	return strings.Join(lines, "\n")
}

var ansiIndex = map[Color]string{
	ColorBlack:   "0",
	ColorRed:     "1",
	ColorGreen:   "2",
	ColorYellow:  "3",
	ColorBlue:    "4",
	ColorMagenta: "5",
	ColorCyan:    "6",
	ColorWhite:   "7",
}
