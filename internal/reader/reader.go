// Package reader provides a character stream with arbitrary lookahead
// and line/column tracking, for the IFJ25 lexer (spec.md §4.1).
package reader

import "github.com/ifj25lang/ifj25c/pkg/token"

// Reader wraps a source buffer and tracks the current line/column.
type Reader struct {
	src    []byte
	pos    int
	line   int
	column int
}

// New creates a Reader over src. Line numbers start at 1.
func New(src string) *Reader {
	return &Reader{src: []byte(src), line: 1, column: 0}
}

// Next consumes and returns the next byte. ok is false at end of input.
// A line feed advances Line and resets Column to zero; any other byte
// (including a carriage return) advances Column by one. Carriage
// returns carry no special meaning here — spec.md §6 only excludes them
// from line/column accounting outside of string literals, and the
// lexer is responsible for any string-literal-specific handling.
func (r *Reader) Next() (byte, bool) {
	if r.pos >= len(r.src) {
		return 0, false
	}
	ch := r.src[r.pos]
	r.pos++
	if ch == '\n' {
		r.line++
		r.column = 0
	} else {
		r.column++
	}
	return ch, true
}

// Peek returns the next byte without consuming it. ok is false at EOF.
func (r *Reader) Peek() (byte, bool) {
	if r.pos >= len(r.src) {
		return 0, false
	}
	return r.src[r.pos], true
}

// PeekAt returns the byte n positions ahead of the current read
// position (PeekAt(0) is equivalent to Peek). ok is false past EOF.
func (r *Reader) PeekAt(n int) (byte, bool) {
	idx := r.pos + n
	if idx < 0 || idx >= len(r.src) {
		return 0, false
	}
	return r.src[idx], true
}

// Pos returns the current line/column/offset, suitable for stamping a
// token that starts at the next byte to be read.
func (r *Reader) Pos() token.Position {
	return token.Position{Line: r.line, Column: r.column + 1, Offset: r.pos}
}

// AtEOF reports whether the reader has no more bytes to produce.
func (r *Reader) AtEOF() bool {
	return r.pos >= len(r.src)
}
