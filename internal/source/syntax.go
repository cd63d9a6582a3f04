package source

import (
	"regexp"
	"strings"

	"fullyhacks/internal/style"
)

// Syntax describes the two line shapes the cache highlights.
type Syntax struct {
	// CommentPrefix marks a whole-line comment once indentation is stripped.
	CommentPrefix string
	// TracerCall matches a stripped line that is exactly one tracer call.
	TracerCall *regexp.Regexp
}

// GoSyntax returns the syntax for Go units whose tracer calls use one of the
// given callee expressions, e.g. "tr.Print" or "trace.Print".
func GoSyntax(callees ...string) Syntax {
	syn := Syntax{CommentPrefix: "//"}
	if len(callees) == 0 {
		return syn
	}
	quoted := make([]string, 0, len(callees))
	for _, c := range callees {
		quoted = append(quoted, regexp.QuoteMeta(c))
	}
	syn.TracerCall = regexp.MustCompile(`^(?:` + strings.Join(quoted, "|") + `)\(.*\)$`)
	return syn
}

// DefaultSyntax matches the tracer calls used throughout this repository.
var DefaultSyntax = GoSyntax("tr.Print", "trace.Print")

// LineSpec picks the style for one line.
func (s Syntax) LineSpec(line string) style.Spec {
	_, stripped := style.SplitIndent(line)
	if s.CommentPrefix != "" && strings.HasPrefix(stripped, s.CommentPrefix) {
		return style.Faint
	}
	if s.TracerCall != nil && s.TracerCall.MatchString(stripped) {
		return style.Accent
	}
	return style.Spec{}
}

// StyleLine renders line with its indentation kept outside the styled span.
func (s Syntax) StyleLine(r style.Renderer, line string) string {
	indent, rest := style.SplitIndent(line)
	return indent + r.Render(rest, s.LineSpec(line))
}
