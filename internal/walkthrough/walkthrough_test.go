package walkthrough

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"fullyhacks/internal/source"
	"fullyhacks/internal/store"
	"fullyhacks/internal/trace"
	"fullyhacks/internal/transcript"
)

func runWalkthrough(t *testing.T, loader source.Loader) (*transcript.Transcript, string) {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, store.MemoryPath)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	var out bytes.Buffer
	rec := transcript.New()
	tr := trace.New(trace.WithWriter(&out), trace.WithLoader(loader), trace.WithTranscript(rec))
	if err := Run(trace.WithTracer(ctx, tr), st); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return rec, out.String()
}

func TestRunMatchesDocumentedTranscript(t *testing.T) {
	rec, _ := runWalkthrough(t, source.ChainLoader{source.DiskLoader{}, Sources})
	if err := rec.Check(ExpectedTranscript); err != nil {
		t.Fatalf("transcript drifted: %v\n%s", err, rec.String())
	}
}

func TestRunTwiceIsReproducible(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(ctx, store.MemoryPath)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer st.Close()

	for i := 0; i < 2; i++ {
		rec := transcript.New()
		tr := trace.New(trace.WithWriter(&bytes.Buffer{}), trace.WithLoader(Sources), trace.WithTranscript(rec))
		if err := Run(trace.WithTracer(ctx, tr), st); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if err := rec.Check(ExpectedTranscript); err != nil {
			t.Fatalf("run %d drifted: %v", i, err)
		}
	}
}

func TestRunReplaysOwnSource(t *testing.T) {
	_, out := runWalkthrough(t, Sources)

	raw, err := Sources.Load("walkthrough.go")
	if err != nil {
		t.Fatalf("load embedded source: %v", err)
	}
	src := strings.Split(string(raw), "\n")

	var replayed []string
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		if strings.Contains(line, "┃ ") {
			continue
		}
		replayed = append(replayed, line)
	}
	if len(replayed) == 0 || len(replayed) > len(src) {
		t.Fatalf("unexpected replay length %d for %d source lines", len(replayed), len(src))
	}
	if diff := cmp.Diff(src[:len(replayed)], replayed); diff != "" {
		t.Fatalf("replay must be the source prefix in order (-want +got):\n%s", diff)
	}
	if last := replayed[len(replayed)-1]; strings.TrimSpace(last) != `trace.Print(ctx, "Bob:", bob)` {
		t.Fatalf("replay should stop at the last tracer call, got %q", last)
	}
	if !strings.Contains(out, "\t┃ Bob: None\n") {
		t.Fatalf("expected indented Bob message in output:\n%s", out)
	}
}

func TestRunStopsAtUnreadableSource(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(ctx, store.MemoryPath)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer st.Close()

	var out bytes.Buffer
	rec := transcript.New()
	missing := source.LoaderFunc(func(string) ([]byte, error) { return nil, fs.ErrNotExist })
	tr := trace.New(trace.WithWriter(&out), trace.WithLoader(missing), trace.WithTranscript(rec))

	err = Run(trace.WithTracer(ctx, tr), st)
	var le *trace.LoadError
	if !errors.As(err, &le) || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Run error = %v, want *trace.LoadError wrapping fs.ErrNotExist", err)
	}
	if out.Len() != 0 {
		t.Fatalf("nothing should be printed, got %q", out.String())
	}
	if got, want := rec.String(), "Alice: id=1 username='alice' password='1234' bio=None\n"; got != want {
		t.Fatalf("transcript = %q, want %q", got, want)
	}

	// The run ended at the first narration: no bio update, bob not deleted.
	alice, err := st.UserByUsername(ctx, "alice")
	if err != nil || alice == nil || alice.Bio != nil {
		t.Fatalf("alice = %v, %v; want untouched bio", alice, err)
	}
	bob, err := st.UserByUsername(ctx, "bob")
	if err != nil || bob == nil {
		t.Fatalf("bob = %v, %v; want still present", bob, err)
	}
}
