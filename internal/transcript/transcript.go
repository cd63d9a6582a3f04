// Package transcript records every message the tracer prints and checks the
// record against a documented expected output at the end of a run.
package transcript

import (
	"fmt"
	"strings"
	"sync"
)

// Transcript is an append-only, newline-separated record of traced messages.
type Transcript struct {
	mu  sync.Mutex
	buf strings.Builder
	n   int
}

// New returns an empty transcript.
func New() *Transcript {
	return &Transcript{}
}

// Append records msg followed by a newline.
func (t *Transcript) Append(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf.WriteString(msg)
	t.buf.WriteByte('\n')
	t.n++
}

// String returns everything recorded so far.
func (t *Transcript) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.String()
}

// Len returns the number of recorded messages.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.n
}

// MismatchError reports that the recorded output drifted from the expected one.
type MismatchError struct {
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	line := firstDifferentLine(e.Expected, e.Actual)
	return fmt.Sprintf("transcript mismatch at line %d", line)
}

// Check compares the transcript with expected after trimming surrounding
// whitespace on both sides. It returns a *MismatchError on any difference.
func (t *Transcript) Check(expected string) error {
	got := strings.TrimSpace(t.String())
	want := strings.TrimSpace(expected)
	if got == want {
		return nil
	}
	return &MismatchError{Expected: want, Actual: got}
}

func firstDifferentLine(expected, actual string) int {
	want := strings.Split(expected, "\n")
	got := strings.Split(actual, "\n")
	for i := 0; i < len(want) && i < len(got); i++ {
		if want[i] != got[i] {
			return i + 1
		}
	}
	return min(len(want), len(got)) + 1
}
