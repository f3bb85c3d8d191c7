// Package lexer implements the IFJ25 DFA-based lexical scanner
// (spec.md §4.2). It pulls bytes from an internal/reader.Reader and
// produces one pkg/token.Token at a time.
package lexer

import (
	"log"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ifj25lang/ifj25c/internal/errors"
	"github.com/ifj25lang/ifj25c/internal/reader"
	"github.com/ifj25lang/ifj25c/pkg/token"
)

var keywords = map[string]bool{
	"class": true, "if": true, "else": true, "is": true, "null": true,
	"return": true, "var": true, "while": true, "static": true,
	"import": true, "for": true, "Num": true, "String": true,
	"Null": true, "Ifj": true,
}

// Option configures a Lexer at construction time.
type Option func(*Lexer)

// WithTracing enables debug tracing of lexer progress to the pipeline's
// tracer, matching the teacher's functional-options idiom for its
// lexer (internal/lexer/lexer.go's WithTracing).
func WithTracing(trace bool) Option {
	return func(l *Lexer) { l.tracing = trace }
}

// Lexer scans IFJ25 source text into tokens, re-entering its START
// state after every token (spec.md §4.2).
type Lexer struct {
	r       *reader.Reader
	tracing bool
	errs    []*errors.CompilerError
}

// New creates a Lexer over src, stripping a leading UTF-8 BOM if
// present (matching the teacher's lexer's BOM handling).
func New(src string, opts ...Option) *Lexer {
	if len(src) >= 3 && src[0] == 0xEF && src[1] == 0xBB && src[2] == 0xBF {
		src = src[3:]
	}
	l := &Lexer{r: reader.New(src)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Errors returns every lexical error encountered so far.
func (l *Lexer) Errors() []*errors.CompilerError {
	return l.errs
}

func isDigit(ch byte) bool      { return ch >= '0' && ch <= '9' }
func isHexDigit(ch byte) bool   { return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F') }
func isAlpha(ch byte) bool      { return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') }
func isAlnum(ch byte) bool      { return isAlpha(ch) || isDigit(ch) }
func hexValue(ch byte) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10
	default:
		return int(ch-'A') + 10
	}
}

func (l *Lexer) errorToken(pos token.Position, format string, args ...any) token.Token {
	ce := errors.Newf(errors.CodeLexical, pos, format, args...)
	l.errs = append(l.errs, ce)
	return token.New(token.ERROR, ce.Message, pos)
}

// NextToken produces the next token from the stream. EOF is stable:
// once reached, it can be requested repeatedly (spec.md §4.2).
// NextToken scans and returns the next token. When tracing is
// enabled (WithTracing), it also logs the token to stderr.
func (l *Lexer) NextToken() token.Token {
	tok := l.nextToken()
	if l.tracing {
		log.Printf("ifj25c: lexer: %s", tok)
	}
	return tok
}

func (l *Lexer) nextToken() token.Token {
	sawEOL, lexErr := l.skipInsignificant()
	if lexErr != nil {
		return l.errorToken(lexErr.Pos, "%s", lexErr.Message)
	}
	pos := l.r.Pos()
	if sawEOL {
		return token.NewNoLexeme(token.EOL, pos)
	}

	ch, ok := l.r.Peek()
	if !ok {
		return token.NewNoLexeme(token.EOF, pos)
	}

	switch {
	case ch == '_':
		return l.lexGID(pos)
	case isAlpha(ch):
		return l.lexIdentOrKeyword(pos)
	case ch == '0':
		return l.lexNumber(pos)
	case isDigit(ch):
		return l.lexNumber(pos)
	case ch == '"':
		return l.lexString(pos)
	}

	l.r.Next()
	switch ch {
	case '(':
		return token.NewNoLexeme(token.LPAREN, pos)
	case ')':
		return token.NewNoLexeme(token.RPAREN, pos)
	case '{':
		return token.NewNoLexeme(token.LBRACE, pos)
	case '}':
		return token.NewNoLexeme(token.RBRACE, pos)
	case ',':
		return token.NewNoLexeme(token.COMMA, pos)
	case '.':
		return token.NewNoLexeme(token.DOT, pos)
	case ';':
		return token.NewNoLexeme(token.SEMICOLON, pos)
	case ':':
		return token.NewNoLexeme(token.COLON, pos)
	case '?':
		return token.NewNoLexeme(token.QUESTION, pos)
	case '+':
		return token.NewNoLexeme(token.PLUS, pos)
	case '-':
		return token.NewNoLexeme(token.MINUS, pos)
	case '*':
		return token.NewNoLexeme(token.STAR, pos)
	case '/':
		return token.NewNoLexeme(token.SLASH, pos)
	case '=':
		if l.matchAndConsume('=') {
			return token.NewNoLexeme(token.EQ, pos)
		}
		return token.NewNoLexeme(token.ASSIGN, pos)
	case '<':
		if l.matchAndConsume('=') {
			return token.NewNoLexeme(token.LE, pos)
		}
		return token.NewNoLexeme(token.LT, pos)
	case '>':
		if l.matchAndConsume('=') {
			return token.NewNoLexeme(token.GE, pos)
		}
		return token.NewNoLexeme(token.GT, pos)
	case '!':
		if l.matchAndConsume('=') {
			return token.NewNoLexeme(token.NEQ, pos)
		}
		return l.errorToken(pos, "'!' is not a valid operator on its own")
	default:
		return l.errorToken(pos, "unexpected character %q", ch)
	}
}

func (l *Lexer) matchAndConsume(expected byte) bool {
	if ch, ok := l.r.Peek(); ok && ch == expected {
		l.r.Next()
		return true
	}
	return false
}

// skipInsignificant consumes spaces, tabs, carriage returns, line
// comments, and nested block comments. It reports sawEOL=true when a
// real newline (or a line comment standing in for one) was consumed.
func (l *Lexer) skipInsignificant() (sawEOL bool, lexErr *errors.CompilerError) {
	for {
		ch, ok := l.r.Peek()
		if !ok {
			return false, nil
		}
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.r.Next()
		case ch == '\n':
			l.r.Next()
			return true, nil
		case ch == '/':
			next, okNext := l.r.PeekAt(1)
			switch {
			case okNext && next == '/':
				l.r.Next()
				l.r.Next()
				for {
					c, ok2 := l.r.Peek()
					if !ok2 {
						return false, nil
					}
					if c == '\n' {
						l.r.Next()
						return true, nil
					}
					l.r.Next()
				}
			case okNext && next == '*':
				pos := l.r.Pos()
				l.r.Next()
				l.r.Next()
				if err := l.skipBlockComment(pos); err != nil {
					return false, err
				}
			default:
				return false, nil
			}
		default:
			return false, nil
		}
	}
}

func (l *Lexer) skipBlockComment(start token.Position) *errors.CompilerError {
	depth := 1
	for {
		ch, ok := l.r.Next()
		if !ok {
			return errors.New(errors.CodeLexical, start, "unterminated block comment")
		}
		switch ch {
		case '/':
			if next, ok2 := l.r.Peek(); ok2 && next == '*' {
				l.r.Next()
				depth++
			}
		case '*':
			if next, ok2 := l.r.Peek(); ok2 && next == '/' {
				l.r.Next()
				depth--
				if depth == 0 {
					return nil
				}
			}
		}
	}
}

func (l *Lexer) lexIdentOrKeyword(pos token.Position) token.Token {
	var buf strings.Builder
	for {
		ch, ok := l.r.Peek()
		if !ok || !(isAlnum(ch) || ch == '_') {
			break
		}
		l.r.Next()
		buf.WriteByte(ch)
	}
	lex := buf.String()
	if keywords[lex] {
		return token.New(token.KEYWORD, lex, pos)
	}
	return token.New(token.IDENT, lex, pos)
}

func (l *Lexer) lexGID(pos token.Position) token.Token {
	l.r.Next() // first '_'
	ch, ok := l.r.Peek()
	if !ok || ch != '_' {
		return l.errorToken(pos, "identifiers cannot start with a single '_'")
	}
	l.r.Next() // second '_'
	ch, ok = l.r.Peek()
	if !ok || !isAlnum(ch) {
		return l.errorToken(pos, "'__' must be followed by a letter or digit")
	}
	var buf strings.Builder
	buf.WriteString("__")
	for {
		c, ok2 := l.r.Peek()
		if !ok2 || !(isAlnum(c) || c == '_') {
			break
		}
		l.r.Next()
		buf.WriteByte(c)
	}
	return token.New(token.GID, buf.String(), pos)
}

func (l *Lexer) lexNumber(pos token.Position) token.Token {
	var buf strings.Builder
	first, _ := l.r.Next()
	buf.WriteByte(first)

	if first == '0' {
		if ch, ok := l.r.Peek(); ok && (ch == 'x' || ch == 'X') {
			buf.WriteByte(ch)
			l.r.Next()
			if ch2, ok2 := l.r.Peek(); !ok2 || !isHexDigit(ch2) {
				return l.errorToken(pos, "malformed hexadecimal literal")
			}
			for {
				c, ok2 := l.r.Peek()
				if !ok2 || !isHexDigit(c) {
					break
				}
				l.r.Next()
				buf.WriteByte(c)
			}
			return token.New(token.HEX, buf.String(), pos)
		}
		if ch, ok := l.r.Peek(); ok && ch == '.' {
			return l.lexFraction(pos, &buf)
		}
		if ch, ok := l.r.Peek(); ok && (ch == 'e' || ch == 'E') {
			if err := l.lexExponent(&buf); err != nil {
				return l.errorToken(pos, "%s", err.Message)
			}
			return token.New(token.FLOAT, buf.String(), pos)
		}
		return token.New(token.INT, buf.String(), pos)
	}

	for {
		c, ok := l.r.Peek()
		if !ok || !isDigit(c) {
			break
		}
		l.r.Next()
		buf.WriteByte(c)
	}
	if ch, ok := l.r.Peek(); ok && ch == '.' {
		return l.lexFraction(pos, &buf)
	}
	if ch, ok := l.r.Peek(); ok && (ch == 'e' || ch == 'E') {
		if err := l.lexExponent(&buf); err != nil {
			return l.errorToken(pos, "%s", err.Message)
		}
		return token.New(token.FLOAT, buf.String(), pos)
	}
	return token.New(token.INT, buf.String(), pos)
}

func (l *Lexer) lexFraction(pos token.Position, buf *strings.Builder) token.Token {
	buf.WriteByte('.')
	l.r.Next() // consume '.'
	if ch, ok := l.r.Peek(); !ok || !isDigit(ch) {
		return l.errorToken(pos, "malformed decimal literal")
	}
	for {
		c, ok := l.r.Peek()
		if !ok || !isDigit(c) {
			break
		}
		l.r.Next()
		buf.WriteByte(c)
	}
	if ch, ok := l.r.Peek(); ok && (ch == 'e' || ch == 'E') {
		if err := l.lexExponent(buf); err != nil {
			return l.errorToken(pos, "%s", err.Message)
		}
	}
	return token.New(token.FLOAT, buf.String(), pos)
}

func (l *Lexer) lexExponent(buf *strings.Builder) *errors.CompilerError {
	pos := l.r.Pos()
	ch, _ := l.r.Next() // 'e' or 'E'
	buf.WriteByte(ch)
	if sign, ok := l.r.Peek(); ok && (sign == '+' || sign == '-') {
		l.r.Next()
		buf.WriteByte(sign)
	}
	if d, ok := l.r.Peek(); !ok || !isDigit(d) {
		return errors.New(errors.CodeLexical, pos, "malformed exponent")
	}
	for {
		c, ok := l.r.Peek()
		if !ok || !isDigit(c) {
			break
		}
		l.r.Next()
		buf.WriteByte(c)
	}
	return nil
}

func (l *Lexer) lexString(pos token.Position) token.Token {
	l.r.Next() // opening '"'
	if ch, ok := l.r.Peek(); ok && ch == '"' {
		if ch2, ok2 := l.r.PeekAt(1); ok2 && ch2 == '"' {
			l.r.Next()
			l.r.Next()
			return l.lexMultilineString(pos)
		}
	}
	return l.lexSingleLineString(pos)
}

func (l *Lexer) lexSingleLineString(pos token.Position) token.Token {
	var buf strings.Builder
	for {
		ch, ok := l.r.Peek()
		if !ok || ch == '\n' {
			return l.errorToken(pos, "unterminated string literal")
		}
		if ch == '\\' {
			l.r.Next()
			if err := l.lexEscape(&buf); err != nil {
				return l.errorToken(pos, "%s", err.Message)
			}
			continue
		}
		if ch == '"' {
			l.r.Next()
			return token.New(token.STRING, norm.NFC.String(buf.String()), pos)
		}
		if ch <= 31 {
			return l.errorToken(pos, "invalid control character in string literal")
		}
		l.r.Next()
		buf.WriteByte(ch)
	}
}

func (l *Lexer) lexEscape(buf *strings.Builder) *errors.CompilerError {
	pos := l.r.Pos()
	ch, ok := l.r.Peek()
	if !ok {
		return errors.New(errors.CodeLexical, pos, "unterminated escape sequence")
	}
	switch ch {
	case 'n':
		buf.WriteByte('\n')
		l.r.Next()
	case 'r':
		buf.WriteByte('\r')
		l.r.Next()
	case 't':
		buf.WriteByte('\t')
		l.r.Next()
	case '\\':
		buf.WriteByte('\\')
		l.r.Next()
	case '"':
		buf.WriteByte('"')
		l.r.Next()
	case 'x':
		l.r.Next()
		h1, ok1 := l.r.Next()
		h2, ok2 := l.r.Next()
		if !ok1 || !ok2 || !isHexDigit(h1) || !isHexDigit(h2) {
			return errors.New(errors.CodeLexical, pos, "invalid hex escape \\x??")
		}
		buf.WriteByte(byte(hexValue(h1)*16 + hexValue(h2)))
	default:
		return errors.New(errors.CodeLexical, pos, "invalid escape sequence")
	}
	return nil
}

func (l *Lexer) lexMultilineString(pos token.Position) token.Token {
	var raw strings.Builder
	quoteRun := 0
	for {
		ch, ok := l.r.Next()
		if !ok {
			return l.errorToken(pos, "unterminated multi-line string")
		}
		if ch == '"' {
			quoteRun++
			if quoteRun == 3 {
				break
			}
			continue
		}
		if quoteRun > 0 {
			raw.WriteString(strings.Repeat("\"", quoteRun))
			quoteRun = 0
		}
		raw.WriteByte(ch)
	}
	return token.New(token.STRING, norm.NFC.String(trimMultilineDelimiters(raw.String())), pos)
}

// trimMultilineDelimiters implements spec.md §4.2's multi-line string
// whitespace rules: a whitespace-only opening line is elided, and the
// closing line's leading whitespace (and its preceding newline, when
// that leaves the line empty) is stripped.
func trimMultilineDelimiters(raw string) string {
	lines := strings.Split(raw, "\n")
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if n := len(lines); n > 0 {
		trimmed := strings.TrimLeft(lines[n-1], " \t\r")
		if trimmed == "" {
			lines = lines[:n-1]
		} else {
			lines[n-1] = trimmed
		}
	}
	return strings.Join(lines, "\n")
}
