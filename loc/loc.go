// Package loc tracks byte offset, line, and column positions within a
// single source buffer as it is consumed from left to right.
package loc

import "strings"

// A Reader is a cursor over an immutable source buffer.
// It tracks the current byte offset and the 1-based line and column that
// offset falls on. Reader raises no errors; running out of input is
// signaled by Empty.
type Reader struct {
	name   string
	source string
	offset int
	line   int
	column int
}

// NewReader returns a Reader over source, identified by name for use in
// Location.InputName and in rendered diagnostics.
func NewReader(name, source string) *Reader {
	return &Reader{name: name, source: source, line: 1, column: 1}
}

// Location is a value snapshot of a Reader's position. It remains valid
// after the Reader that produced it advances further.
type Location struct {
	reader *Reader
	offset int
	line   int
	column int
}

// Location returns a snapshot of the Reader's current position.
func (r *Reader) Location() Location {
	return Location{reader: r, offset: r.offset, line: r.line, column: r.column}
}

// InputName returns the name of the source the location refers to.
func (l Location) InputName() string {
	if l.reader == nil {
		return ""
	}
	return l.reader.name
}

// Line returns the location's 1-based line number.
func (l Location) Line() int { return l.line }

// Column returns the location's 1-based column number.
func (l Location) Column() int { return l.column }

// Offset returns the location's 0-based byte offset into the source.
func (l Location) Offset() int { return l.offset }

// LineContents returns the full text of the line the location falls on,
// excluding the trailing newline.
func (l Location) LineContents() string {
	if l.reader == nil {
		return ""
	}
	src := l.reader.source
	lineStart := l.offset - (l.column - 1)
	if lineStart < 0 {
		lineStart = 0
	}
	end := strings.IndexByte(src[lineStart:], '\n')
	if end < 0 {
		return src[lineStart:]
	}
	return src[lineStart : lineStart+end]
}

// Equal reports whether two locations refer to the same offset in the same
// Reader. Locations from different readers are never equal, even if their
// source text happens to be identical.
func (l Location) Equal(o Location) bool {
	return l.reader == o.reader && l.offset == o.offset
}

func (l Location) String() string {
	var b strings.Builder
	b.WriteString(l.InputName())
	b.WriteByte(':')
	writeInt(&b, l.line)
	b.WriteByte(':')
	writeInt(&b, l.column)
	return b.String()
}

func writeInt(b *strings.Builder, n int) {
	if n < 0 {
		b.WriteByte('-')
		n = -n
	}
	if n >= 10 {
		writeInt(b, n/10)
	}
	b.WriteByte(byte('0' + n%10))
}

// Remaining returns the unconsumed suffix of the source.
func (r *Reader) Remaining() string { return r.source[r.offset:] }

// Prefix returns the leading n bytes of the remaining source, or the
// entire remaining source if it is shorter than n.
func (r *Reader) Prefix(n int) string {
	rem := r.Remaining()
	if n > len(rem) {
		n = len(rem)
	}
	return rem[:n]
}

// Empty reports whether the Reader has consumed the entire source.
func (r *Reader) Empty() bool { return r.offset >= len(r.source) }

// StartsWith reports whether the remaining source begins with s, without
// advancing the Reader.
func (r *Reader) StartsWith(s string) bool {
	return strings.HasPrefix(r.Remaining(), s)
}

// Consume advances past s and returns true if the remaining source begins
// with s; otherwise it leaves the Reader unchanged and returns false.
func (r *Reader) Consume(s string) bool {
	if !r.StartsWith(s) {
		return false
	}
	r.Advance(len(s))
	return true
}

// Advance moves the Reader forward by n bytes, updating line and column by
// scanning those bytes for newlines: a '\n' increments the line and resets
// the column to 1; any other byte increments the column.
func (r *Reader) Advance(n int) {
	prefix := r.Prefix(n)
	for i := 0; i < len(prefix); i++ {
		if prefix[i] == '\n' {
			r.line++
			r.column = 1
		} else {
			r.column++
		}
	}
	r.offset += n
}
