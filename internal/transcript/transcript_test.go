package transcript

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

const documented = `
Alice: id=1 username='alice' password='1234' bio=None
Users: [User(id=1, username='alice', password='1234', bio=None), User(id=2, username='bob', password='1234', bio=None)]
Alice: id=1 username='alice' password='1234' bio='I am Alice'
Bob: None
`

func recorded() *Transcript {
	tr := New()
	tr.Append("Alice: id=1 username='alice' password='1234' bio=None")
	tr.Append("Users: [User(id=1, username='alice', password='1234', bio=None), User(id=2, username='bob', password='1234', bio=None)]")
	tr.Append("Alice: id=1 username='alice' password='1234' bio='I am Alice'")
	tr.Append("Bob: None")
	return tr
}

func TestAppendJoinsWithNewlines(t *testing.T) {
	tr := New()
	tr.Append("a")
	tr.Append("b c")
	if got := tr.String(); got != "a\nb c\n" {
		t.Fatalf("String() = %q", got)
	}
	if tr.Len() != 2 {
		t.Fatalf("Len() = %d", tr.Len())
	}
}

func TestCheckMatchesDocumentedOutput(t *testing.T) {
	if err := recorded().Check(documented); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestCheckSingleCharacterDrift(t *testing.T) {
	drifted := strings.Replace(documented, "Bob: None", "Bob: 'None'", 1)
	err := recorded().Check(drifted)
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected *MismatchError, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 4") {
		t.Fatalf("expected mismatch at line 4, got %q", err.Error())
	}

	drifted = strings.Replace(documented, "bio=None\nUsers", "bio='None'\nUsers", 1)
	if err := recorded().Check(drifted); err == nil {
		t.Fatal("expected mismatch for bio='None'")
	}
}

func TestCheckInternalWhitespaceMatters(t *testing.T) {
	tr := New()
	tr.Append("a  b")
	if err := tr.Check("a b"); err == nil {
		t.Fatal("internal spacing must be compared exactly")
	}
}

func TestAssertSuccessIsSilentAndIdempotent(t *testing.T) {
	var out bytes.Buffer
	exits := 0
	h := Harness{Out: &out, Exit: func(int) { exits++ }, Diff: true}
	tr := recorded()

	h.Assert(tr, documented)
	h.Assert(tr, documented)

	if exits != 0 {
		t.Fatalf("exit called %d times on matching output", exits)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output on success, got %q", out.String())
	}
}

func TestAssertMismatchReportsAndExits(t *testing.T) {
	var out bytes.Buffer
	code := -1
	h := Harness{Out: &out, Exit: func(c int) { code = c }}

	h.Assert(recorded(), "Alice: nobody")

	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	report := out.String()
	for _, want := range []string{"Expected:\nAlice: nobody\n", "Got:\nAlice: id=1", "Bob: None\n\n"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
	if strings.Contains(report, "│") {
		t.Error("diff table must be omitted when Diff is false")
	}
}

func TestAssertMismatchWithDiff(t *testing.T) {
	var out bytes.Buffer
	h := Harness{Out: &out, Exit: func(int) {}, Diff: true}
	h.Assert(recorded(), strings.Replace(documented, "Bob: None", "Bob: gone", 1))
	if !strings.Contains(out.String(), "≠ Bob: gone") {
		t.Fatalf("expected differing row to be marked:\n%s", out.String())
	}
}

func TestRenderDiffAlignsColumns(t *testing.T) {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	got := RenderDiff(r, "ab\n日本", "ab\nxx")
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d:\n%s", len(lines), got)
	}
	if lines[1] != "  ab       │ ab" {
		t.Fatalf("unexpected equal row %q", lines[1])
	}
	if lines[2] != "≠ 日本     │ xx" {
		t.Fatalf("unexpected changed row %q", lines[2])
	}
}
