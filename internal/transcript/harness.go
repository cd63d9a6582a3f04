package transcript

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Harness turns a transcript mismatch into a failed run.
type Harness struct {
	// Out receives the mismatch report. Defaults to os.Stdout.
	Out io.Writer
	// Exit terminates the process. Defaults to os.Exit.
	Exit func(code int)
	// Diff appends a line-by-line comparison after the raw texts.
	Diff bool
}

// Assert prints nothing and returns when tr matches expected. Otherwise it
// prints both texts and calls Exit(1).
func (h Harness) Assert(tr *Transcript, expected string) {
	err := tr.Check(expected)
	if err == nil {
		return
	}
	out := h.Out
	if out == nil {
		out = os.Stdout
	}
	exit := h.Exit
	if exit == nil {
		exit = os.Exit
	}

	fmt.Fprintln(out, "Expected:")
	fmt.Fprintln(out, expected)
	fmt.Fprintln(out, "Got:")
	fmt.Fprintln(out, tr.String())

	var mismatch *MismatchError
	if h.Diff && errors.As(err, &mismatch) {
		fmt.Fprint(out, RenderDiff(lipgloss.NewRenderer(out), mismatch.Expected, mismatch.Actual))
	}
	exit(1)
}

// RenderDiff lays expected and actual lines side by side, marking rows that
// differ. Column alignment accounts for wide runes.
func RenderDiff(r *lipgloss.Renderer, expected, actual string) string {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	same := r.NewStyle().Faint(true)
	changed := r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	header := r.NewStyle().Bold(true)

	want := strings.Split(expected, "\n")
	got := strings.Split(actual, "\n")
	rows := max(len(want), len(got))

	width := runewidth.StringWidth("expected")
	for _, line := range want {
		width = max(width, runewidth.StringWidth(line))
	}
	// очень длинные строки режем, чтобы вторая колонка оставалась видимой
	width = min(width, 100)

	var b strings.Builder
	b.WriteString(header.Render("  " + runewidth.FillRight("expected", width) + " │ got"))
	b.WriteByte('\n')
	for i := 0; i < rows; i++ {
		var w, g string
		if i < len(want) {
			w = want[i]
		}
		if i < len(got) {
			g = got[i]
		}
		cell := runewidth.FillRight(runewidth.Truncate(w, width, "…"), width)
		if i < len(want) && i < len(got) && w == g {
			b.WriteString(same.Render("  " + cell + " │ " + g))
		} else {
			b.WriteString(changed.Render("≠ " + cell + " │ " + g))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
