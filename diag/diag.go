// Package diag defines compiler diagnostics and their textual rendering:
// a severity-colored header line naming the location and message,
// followed by the offending source line and a caret pointing at the
// column.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/gel-lang/gelc/loc"
)

// Severity is the importance of a Message.
type Severity int

const (
	// Error diagnostics reject the program; the compiler exits 1.
	Error Severity = iota
	// Warning diagnostics still allow emission.
	Warning
	// Note diagnostics never stand alone; they annotate a preceding
	// Error or Warning with a related location.
	Note
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// ANSI SGR codes, matching the original implementation's convention: bold
// red for errors, yellow for warnings, cyan for notes, bold white for an
// inline detail, and the reset code to clear styling.
const (
	clearCode   = "\x1b[0m"
	errorCode   = "\x1b[31;1m"
	warningCode = "\x1b[33m"
	noteCode    = "\x1b[36m"
	detailCode  = "\x1b[37;1m"
)

func (s Severity) code() string {
	switch s {
	case Error:
		return errorCode
	case Warning:
		return warningCode
	case Note:
		return noteCode
	default:
		return clearCode
	}
}

// Detail formats a value for inline emphasis within a diagnostic message
// (an identifier name, a type, a count): backtick-quoted, and in bold
// white on a colorized terminal.
func Detail(v interface{}, color bool) string {
	s := fmt.Sprintf("`%v`", v)
	if !color {
		return s
	}
	return detailCode + s + clearCode
}

// A Message is a single diagnostic: a severity, the location it refers
// to, and free-form text (which may itself embed Detail-formatted
// substrings).
type Message struct {
	Severity Severity
	Loc      loc.Location
	Text     string
}

// Fprint writes the message in the format:
//
//	<input>:<line>:<col>: <severity>: <message>
//
//	  <line contents>
//	  <spaces>^
//
// colorizing the severity label when color is true.
func (m Message) Fprint(w io.Writer, color bool) {
	sev := m.Severity.String()
	if color {
		sev = m.Severity.code() + sev + clearCode
	}
	fmt.Fprintf(w, "%s: %s: %s\n\n", m.Loc, sev, m.Text)
	fmt.Fprintf(w, "  %s\n", m.Loc.LineContents())
	fmt.Fprintf(w, "  %s^\n", strings.Repeat(" ", m.Loc.Column()-1))
}

// A Report accumulates Messages in the order they were generated and
// renders them together with a trailing summary line.
type Report struct {
	Messages []Message
}

// Add appends a message to the report.
func (r *Report) Add(m Message) {
	r.Messages = append(r.Messages, m)
}

// Errorf appends an Error-severity message built from a printf-style
// format string.
func (r *Report) Errorf(loc loc.Location, format string, args ...interface{}) {
	r.Add(Message{Error, loc, fmt.Sprintf(format, args...)})
}

// Warningf appends a Warning-severity message.
func (r *Report) Warningf(loc loc.Location, format string, args ...interface{}) {
	r.Add(Message{Warning, loc, fmt.Sprintf(format, args...)})
}

// Notef appends a Note-severity message.
func (r *Report) Notef(loc loc.Location, format string, args ...interface{}) {
	r.Add(Message{Note, loc, fmt.Sprintf(format, args...)})
}

// ErrorCount returns the number of Error-severity messages.
func (r *Report) ErrorCount() int { return r.count(Error) }

// WarningCount returns the number of Warning-severity messages.
func (r *Report) WarningCount() int { return r.count(Warning) }

func (r *Report) count(sev Severity) int {
	n := 0
	for _, m := range r.Messages {
		if m.Severity == sev {
			n++
		}
	}
	return n
}

// Fprint writes every message in order, each followed by a blank line,
// then the summary line.
func (r *Report) Fprint(w io.Writer, color bool) {
	for _, m := range r.Messages {
		m.Fprint(w, color)
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, r.Summary())
}

// Summary renders the trailing "Compile finished with N error(s) and M
// warning(s)." line.
func (r *Report) Summary() string {
	return fmt.Sprintf("Compile finished with %d error(s) and %d warning(s).",
		r.ErrorCount(), r.WarningCount())
}
