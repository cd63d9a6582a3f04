package style

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Mode selects whether output is colorized.
type Mode string

const (
	ModeAuto Mode = "auto"
	ModeOn   Mode = "on"
	ModeOff  Mode = "off"
)

// ParseMode reads an auto|on|off switch such as --color or --ui.
func ParseMode(value string) (Mode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return ModeAuto, nil
	case "on", "always":
		return ModeOn, nil
	case "off", "never":
		return ModeOff, nil
	default:
		return "", fmt.Errorf("invalid mode %q (expected auto|on|off)", value)
	}
}

// Terminal resolves m for output written to f: on and off are fixed, auto
// follows whether f is a terminal.
func (m Mode) Terminal(f *os.File) bool {
	switch m {
	case ModeOn:
		return true
	case ModeOff:
		return false
	default:
		return f != nil && term.IsTerminal(int(f.Fd()))
	}
}

// Enabled reports whether color should be used when writing to f. In auto
// mode NO_COLOR turns color off even on a terminal.
func (m Mode) Enabled(f *os.File) bool {
	if m == ModeAuto {
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false
		}
	}
	return m.Terminal(f)
}

// ForMode returns the renderer matching m for output written to f. Forced
// color uses fatih/color; auto mode on a terminal uses a lipgloss renderer
// bound to f, which downgrades colors to the terminal's profile.
func ForMode(m Mode, f *os.File) Renderer {
	switch {
	case !m.Enabled(f):
		return Plain{}
	case m == ModeOn:
		return ColorRenderer{}
	default:
		return NewLipglossRenderer(lipgloss.NewRenderer(f))
	}
}
