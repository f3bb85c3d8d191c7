package lexer

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/ifj25lang/ifj25c/pkg/token"
)

func allTokens(src string) []token.Token {
	l := New(src)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestBareZeroIsInt(t *testing.T) {
	toks := allTokens("0")
	if toks[0].Kind != token.INT || toks[0].Lexeme != "0" {
		t.Fatalf("got %+v, want INT \"0\"", toks[0])
	}
}

func TestHexWithNoDigitsIsLexicalError(t *testing.T) {
	toks := allTokens("0x")
	if toks[0].Kind != token.ERROR {
		t.Fatalf("got %+v, want ERROR", toks[0])
	}
}

func TestHexLiteral(t *testing.T) {
	toks := allTokens("0x1F")
	if toks[0].Kind != token.HEX || toks[0].Lexeme != "0x1F" {
		t.Fatalf("got %+v, want HEX \"0x1F\"", toks[0])
	}
}

func TestFloatLiteral(t *testing.T) {
	toks := allTokens("3.14")
	if toks[0].Kind != token.FLOAT || toks[0].Lexeme != "3.14" {
		t.Fatalf("got %+v, want FLOAT \"3.14\"", toks[0])
	}
}

func TestFloatWithExponent(t *testing.T) {
	toks := allTokens("1e10")
	if toks[0].Kind != token.FLOAT || toks[0].Lexeme != "1e10" {
		t.Fatalf("got %+v, want FLOAT \"1e10\"", toks[0])
	}
}

func TestMalformedDecimalIsError(t *testing.T) {
	toks := allTokens("1.")
	if toks[0].Kind != token.ERROR {
		t.Fatalf("got %+v, want ERROR", toks[0])
	}
}

func TestIdentifierVsKeyword(t *testing.T) {
	toks := allTokens("while foo")
	if toks[0].Kind != token.KEYWORD || toks[0].Lexeme != "while" {
		t.Fatalf("got %+v, want KEYWORD \"while\"", toks[0])
	}
	if toks[1].Kind != token.IDENT || toks[1].Lexeme != "foo" {
		t.Fatalf("got %+v, want IDENT \"foo\"", toks[1])
	}
}

func TestGID(t *testing.T) {
	toks := allTokens("__tmp1")
	if toks[0].Kind != token.GID || toks[0].Lexeme != "__tmp1" {
		t.Fatalf("got %+v, want GID \"__tmp1\"", toks[0])
	}
}

func TestSingleLeadingUnderscoreIsError(t *testing.T) {
	toks := allTokens("_x")
	if toks[0].Kind != token.ERROR {
		t.Fatalf("got %+v, want ERROR", toks[0])
	}
}

func TestLineCommentActsAsNewline(t *testing.T) {
	toks := allTokens("var a // trailing\n")
	found := false
	for _, tok := range toks {
		if tok.Kind == token.EOL {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an EOL token, got %+v", toks)
	}
}

func TestNestedBlockComment(t *testing.T) {
	toks := allTokens("/* outer /* inner */ still-outer */ var")
	if toks[0].Kind != token.KEYWORD || toks[0].Lexeme != "var" {
		t.Fatalf("got %+v, want KEYWORD \"var\" after nested comment", toks[0])
	}
}

func TestUnterminatedBlockCommentIsError(t *testing.T) {
	toks := allTokens("/* never closes")
	if toks[0].Kind != token.ERROR {
		t.Fatalf("got %+v, want ERROR", toks[0])
	}
}

func TestSlashDisambiguation(t *testing.T) {
	toks := allTokens("a / b")
	if toks[1].Kind != token.SLASH {
		t.Fatalf("got %+v, want SLASH", toks[1])
	}
}

func TestStringEscapes(t *testing.T) {
	toks := allTokens(`"a\tb\n\x41"`)
	if toks[0].Kind != token.STRING || toks[0].Lexeme != "a\tb\nA" {
		t.Fatalf("got %+v, want STRING \"a\\tb\\nA\"", toks[0])
	}
}

func TestUnterminatedStringIsError(t *testing.T) {
	toks := allTokens("\"abc\n")
	if toks[0].Kind != token.ERROR {
		t.Fatalf("got %+v, want ERROR", toks[0])
	}
}

func TestMultilineStringElidesWhitespaceOnlyOpeningLine(t *testing.T) {
	toks := allTokens("\"\"\"\n  Hello\n  \"\"\"")
	if toks[0].Kind != token.STRING {
		t.Fatalf("got %+v, want STRING", toks[0])
	}
	want := "  Hello"
	if toks[0].Lexeme != want {
		t.Fatalf("got %q, want %q", toks[0].Lexeme, want)
	}
}

func TestMultilineStringPreservesEmbeddedOneOrTwoQuoteRuns(t *testing.T) {
	toks := allTokens(`"""a""b"""`)
	if toks[0].Kind != token.STRING || toks[0].Lexeme != `a""b` {
		t.Fatalf("got %+v, want STRING a\"\"b", toks[0])
	}
}

func TestTwoCharOperators(t *testing.T) {
	toks := allTokens("a == b != c <= d >= e")
	kinds := []token.Kind{token.IDENT, token.EQ, token.IDENT, token.NEQ, token.IDENT, token.LE, token.IDENT, token.GE, token.IDENT, token.EOF}
	for i, k := range kinds {
		if toks[i].Kind != k {
			t.Fatalf("token %d: got %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestLoneBangIsError(t *testing.T) {
	toks := allTokens("!")
	if toks[0].Kind != token.ERROR {
		t.Fatalf("got %+v, want ERROR", toks[0])
	}
}

func TestTokenStreamSnapshot(t *testing.T) {
	toks := allTokens("static main() {\nreturn 1 + __GLOBAL * 2\n}\n")
	var lines []string
	for _, tok := range toks {
		lines = append(lines, tok.String())
	}
	snaps.MatchSnapshot(t, strings.Join(lines, "\n"))
}
