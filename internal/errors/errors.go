// Package errors provides the IFJ25 front end's error taxonomy and
// source-context formatting (spec.md §4.8, §7).
package errors

import (
	"fmt"
	"strings"

	"github.com/ifj25lang/ifj25c/pkg/token"
)

// Code identifies the error band and exit status per spec.md §4.8.
type Code int

const (
	CodeLexical       Code = 1
	CodeSyntax        Code = 2
	CodeUndefined     Code = 3
	CodeRedefinition  Code = 4
	CodeArity         Code = 5
	CodeTypeMismatch  Code = 6
	CodeOtherSemantic Code = 10
	CodeInternal      Code = 99
)

func (c Code) String() string {
	switch c {
	case CodeLexical:
		return "lexical error"
	case CodeSyntax:
		return "syntax error"
	case CodeUndefined:
		return "undefined name"
	case CodeRedefinition:
		return "redefinition"
	case CodeArity:
		return "argument error"
	case CodeTypeMismatch:
		return "type error"
	case CodeOtherSemantic:
		return "semantic error"
	case CodeInternal:
		return "internal error"
	default:
		return "error"
	}
}

// CompilerError is a single compilation error with position and source
// context, carrying the exit code its band maps to.
type CompilerError struct {
	Code    Code
	Message string
	Source  string
	File    string
	Pos     token.Position
}

// New creates a CompilerError.
func New(code Code, pos token.Position, message string) *CompilerError {
	return &CompilerError{Code: code, Pos: pos, Message: message}
}

// Newf creates a CompilerError with a formatted message.
func Newf(code Code, pos token.Position, format string, args ...any) *CompilerError {
	return New(code, pos, fmt.Sprintf(format, args...))
}

// WithSource attaches source text and a file name, used later for
// Format's source-line/caret rendering.
func (e *CompilerError) WithSource(source, file string) *CompilerError {
	e.Source = source
	e.File = file
	return e
}

// Error implements the error interface.
func (e *CompilerError) Error() string {
	return e.Format(false)
}

// Format renders the error with a file:line:col header, the offending
// source line, and a caret pointing at the column. If color is true,
// ANSI codes highlight the caret and message.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "%s:%d:%d: %s: ", e.File, e.Pos.Line, e.Pos.Column, e.Code)
	} else {
		fmt.Fprintf(&sb, "%d:%d: %s: ", e.Pos.Line, e.Pos.Column, e.Code)
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		sb.WriteString("\n")
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		col := e.Pos.Column
		if col < 1 {
			col = 1
		}
		sb.WriteString(strings.Repeat(" ", len(prefix)+col-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
	}

	return sb.String()
}

func (e *CompilerError) sourceLine(lineNum int) string {
	if e.Source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// ExitCode returns the process exit status for this error, per spec.md §4.8.
func (e *CompilerError) ExitCode() int {
	return int(e.Code)
}
