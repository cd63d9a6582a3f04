package trace

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"fullyhacks/internal/source"
	"fullyhacks/internal/style"
	"fullyhacks/internal/transcript"
)

const demoSource = "package demo\n" +
	"\n" +
	"func run() {\n" +
	"\t// say hi\n" +
	"\ttr.Print(\"hi\")\n" +
	"\tx := 1\n" +
	"\ttr.Print(\"x:\", x)\n" +
	"}\n"

// fakeSite is a movable call site for the fake locator.
type fakeSite struct {
	loc Location
}

func (s *fakeSite) at(unit string, line uint32) {
	s.loc = Location{Unit: unit, Line: line}
}

func newTestTracer(t *testing.T, site *fakeSite, opts ...Option) (*Tracer, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	units := map[string]string{
		"demo.go":  demoSource,
		"other.go": "package other\n\tfirst()\n\ttr.Print(\"other\")\n",
	}
	loader := source.LoaderFunc(func(unit string) ([]byte, error) {
		text, ok := units[unit]
		if !ok {
			return nil, fs.ErrNotExist
		}
		return []byte(text), nil
	})
	base := []Option{
		WithWriter(&out),
		WithLoader(loader),
		WithLocator(LocatorFunc(func(int) (Location, error) { return site.loc, nil })),
	}
	return New(append(base, opts...)...), &out
}

func TestFirstCallReplaysFromTop(t *testing.T) {
	site := &fakeSite{}
	tr, out := newTestTracer(t, site)

	site.at("demo.go", 5)
	tr.Print("hi")

	want := "package demo\n\nfunc run() {\n\t// say hi\n\ttr.Print(\"hi\")\n\t┃ hi\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if got := tr.Cursor("demo.go"); got != 5 {
		t.Fatalf("cursor = %d, want 5", got)
	}
}

func TestSecondCallReplaysOnlyNewLines(t *testing.T) {
	site := &fakeSite{}
	tr, out := newTestTracer(t, site)

	site.at("demo.go", 5)
	tr.Print("hi")
	out.Reset()

	site.at("demo.go", 7)
	tr.Print("x:", 1)

	want := "\tx := 1\n\ttr.Print(\"x:\", x)\n\t┃ x: 1\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if got := tr.Cursor("demo.go"); got != 7 {
		t.Fatalf("cursor = %d, want 7", got)
	}
}

func TestReplayNeverRepeatsOrSkipsLines(t *testing.T) {
	site := &fakeSite{}
	tr, out := newTestTracer(t, site, WithRenderer(style.Plain{}))

	for _, line := range []uint32{2, 2, 5, 7, 9} {
		site.at("demo.go", line)
		tr.Print("m")
	}

	var replayed []string
	for _, l := range strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n") {
		if strings.Contains(l, "┃ m") {
			continue
		}
		replayed = append(replayed, l)
	}
	want := strings.Split(demoSource, "\n")
	if diff := cmp.Diff(want, replayed); diff != "" {
		t.Fatalf("replay must cover every line exactly once (-want +got):\n%s", diff)
	}
}

func TestRepeatOnSameLineUsesLineIndent(t *testing.T) {
	site := &fakeSite{}
	tr, out := newTestTracer(t, site)

	site.at("demo.go", 7)
	tr.Print("first")
	out.Reset()

	// e.g. a call inside a loop body
	tr.Print("second")

	if got, want := out.String(), "\t┃ second\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
	if got := tr.Cursor("demo.go"); got != 7 {
		t.Fatalf("cursor = %d, want 7", got)
	}
}

func TestOutOfOrderCallKeepsCursor(t *testing.T) {
	site := &fakeSite{}
	tr, out := newTestTracer(t, site)

	site.at("demo.go", 7)
	tr.Print("late")
	out.Reset()

	site.at("demo.go", 5)
	tr.Print("early")

	if got, want := out.String(), "\t┃ early\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
	if got := tr.Cursor("demo.go"); got != 7 {
		t.Fatalf("cursor moved backwards to %d", got)
	}
}

func TestUnitsKeepIndependentCursors(t *testing.T) {
	site := &fakeSite{}
	tr, out := newTestTracer(t, site)

	site.at("demo.go", 5)
	tr.Print("a")
	site.at("other.go", 3)
	tr.Print("b")
	out.Reset()

	if tr.Cursor("demo.go") != 5 || tr.Cursor("other.go") != 3 {
		t.Fatalf("cursors = %d/%d", tr.Cursor("demo.go"), tr.Cursor("other.go"))
	}

	site.at("demo.go", 7)
	tr.Print("c")
	want := "\tx := 1\n\ttr.Print(\"x:\", x)\n\t┃ c\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Fatalf("unit B must not consume unit A's lines (-want +got):\n%s", diff)
	}
}

func TestLineBeyondSourceIsClamped(t *testing.T) {
	site := &fakeSite{}
	tr, out := newTestTracer(t, site)

	site.at("other.go", 40)
	tr.Print("edited")

	want := "package other\n\tfirst()\n\ttr.Print(\"other\")\n\n┃ edited\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestStyledOutput(t *testing.T) {
	tags := style.RendererFunc(func(text string, spec style.Spec) string {
		switch spec {
		case style.Faint:
			return "<f>" + text + "</f>"
		case style.Accent:
			return "<a>" + text + "</a>"
		case style.Marker:
			return "<m>" + text + "</m>"
		case style.Highlight:
			return "<h>" + text + "</h>"
		}
		return text
	})
	site := &fakeSite{}
	tr, out := newTestTracer(t, site, WithRenderer(tags))

	site.at("demo.go", 5)
	tr.Print("hi")

	want := "<f>package demo\n\nfunc run() {\n\t<f>// say hi</f>\n\t<a>tr.Print(\"hi\")</a></f>\n" +
		"\t<m>┃</m> <h>hi</h>\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestTranscriptRecordsMessages(t *testing.T) {
	site := &fakeSite{}
	rec := transcript.New()
	tr, _ := newTestTracer(t, site, WithTranscript(rec))

	site.at("demo.go", 5)
	tr.Print("hi", "there")
	tr.Print(42, nil)

	if got, want := rec.String(), "hi there\n42 <nil>\n"; got != want {
		t.Fatalf("transcript = %q, want %q", got, want)
	}
	if tr.Transcript() != rec {
		t.Fatal("Transcript() must return the attached transcript")
	}
}

func TestUnreadableUnitPanicsAtCallSite(t *testing.T) {
	site := &fakeSite{}
	rec := transcript.New()
	tr, out := newTestTracer(t, site, WithTranscript(rec))

	site.at("missing.go", 3)
	err := printRecovered(tr, "Alice:", 1)

	var le *LoadError
	if !errors.As(err, &le) || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want *LoadError wrapping fs.ErrNotExist", err)
	}
	if le.Unit != "missing.go" || le.Line != 3 {
		t.Fatalf("unexpected location %s:%d", le.Unit, le.Line)
	}
	if out.Len() != 0 {
		t.Fatalf("a failed call must not print, got %q", out.String())
	}
	if rec.String() != "Alice: 1\n" {
		t.Fatalf("message must be recorded before the source is read, transcript = %q", rec.String())
	}
	if tr.Cursor("missing.go") != 0 {
		t.Fatal("a failed call must not move the cursor")
	}

	// The tracer stays usable for readable units.
	site.at("demo.go", 5)
	tr.Print("hi")
	if !strings.HasSuffix(out.String(), "\t┃ hi\n") {
		t.Fatalf("unexpected output after failure: %q", out.String())
	}
}

func printRecovered(tr *Tracer, values ...any) (err error) {
	defer Recover(&err)
	tr.Print(values...)
	return nil
}

func TestRecoverRepanicsOnOtherValues(t *testing.T) {
	defer func() {
		if r := recover(); r != "boom" {
			t.Fatalf("recovered %v, want the original panic value", r)
		}
	}()
	func() (err error) {
		defer Recover(&err)
		panic("boom")
	}()
}

func TestMissingCallerPanics(t *testing.T) {
	tr := New(
		WithWriter(&bytes.Buffer{}),
		WithLocator(LocatorFunc(func(int) (Location, error) { return Location{}, ErrNoCaller })),
	)
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrNoCaller) {
			t.Fatalf("expected panic wrapping ErrNoCaller, got %v", r)
		}
	}()
	tr.Print("nobody called me")
}

func TestRuntimeLocatorFindsCallSite(t *testing.T) {
	var out bytes.Buffer
	tr := New(WithWriter(&out))

	tr.Print("here")
	_, file, line, _ := runtime.Caller(0)
	line-- // the Print call sits one line above

	if got := tr.Cursor(file); int(got) != line {
		t.Fatalf("cursor = %d, want %d", got, line)
	}
	if !strings.HasSuffix(out.String(), "\t┃ here\n") {
		t.Fatalf("unexpected tail: %q", out.String())
	}
}

func TestContextPrintUsesAttachedTracer(t *testing.T) {
	var out bytes.Buffer
	rec := transcript.New()
	tr := New(WithWriter(&out), WithTranscript(rec))
	ctx := WithTracer(context.Background(), tr)

	Print(ctx, "via", "context")
	_, file, line, _ := runtime.Caller(0)
	line--

	if got := tr.Cursor(file); int(got) != line {
		t.Fatalf("cursor = %d, want %d", got, line)
	}
	if rec.String() != "via context\n" {
		t.Fatalf("transcript = %q", rec.String())
	}
	if FromContext(context.Background()) != Default() {
		t.Fatal("bare context must fall back to the default tracer")
	}
}

func TestJoin(t *testing.T) {
	if got := Join("Users:", []int{1, 2}, 3.5); got != "Users: [1 2] 3.5" {
		t.Fatalf("Join = %q", got)
	}
	if Join() != "" {
		t.Fatal("Join of nothing must be empty")
	}
}
