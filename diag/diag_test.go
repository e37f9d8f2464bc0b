package diag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gel-lang/gelc/loc"
)

func TestFprintFormat(t *testing.T) {
	t.Parallel()
	r := loc.NewReader("test.gel", "do print(x)\n")
	r.Advance(len("do print("))
	var buf bytes.Buffer
	Message{Error, r.Location(), "Undefined identifier " + Detail("x", false) + "."}.Fprint(&buf, false)
	got := buf.String()
	wantPrefix := "test.gel:1:10: error: Undefined identifier `x`.\n\n  do print(x)\n"
	if !strings.HasPrefix(got, wantPrefix) {
		t.Fatalf("Fprint() = %q, want prefix %q", got, wantPrefix)
	}
	if !strings.HasSuffix(got, strings.Repeat(" ", 9)+"^\n") {
		t.Fatalf("Fprint() = %q, want caret under column 10", got)
	}
}

func TestReportSummary(t *testing.T) {
	t.Parallel()
	var r Report
	loc := loc.NewReader("t", "x").Location()
	r.Errorf(loc, "bad")
	r.Warningf(loc, "meh")
	r.Warningf(loc, "meh2")
	if got, want := r.ErrorCount(), 1; got != want {
		t.Errorf("ErrorCount() = %d, want %d", got, want)
	}
	if got, want := r.WarningCount(), 2; got != want {
		t.Errorf("WarningCount() = %d, want %d", got, want)
	}
	want := "Compile finished with 1 error(s) and 2 warning(s)."
	if got := r.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestDetailColor(t *testing.T) {
	t.Parallel()
	if got, want := Detail("x", false), "`x`"; got != want {
		t.Errorf("Detail(x, false) = %q, want %q", got, want)
	}
	if got := Detail("x", true); got == "`x`" {
		t.Errorf("Detail(x, true) did not add color codes")
	}
}
