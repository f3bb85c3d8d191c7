package parser

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/ifj25lang/ifj25c/internal/ast"
)

const envelope = "import \"ifj25\" for Ifj\n\nclass Program {\n%s\n}\n"

func wrap(body string) string {
	return strings.Replace(envelope, "%s", body, 1)
}

func TestParsesMinimalProgram(t *testing.T) {
	src := wrap("static main() {\n}\n")
	p := New(src)
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram() error = %v", err)
	}
	if prog.Kind != ast.PROGRAM || len(prog.Children) != 2 {
		t.Fatalf("got %s, want PROGRAM[PROLOG CLASS]", prog.String())
	}
	if prog.Children[0].Kind != ast.PROLOG {
		t.Fatalf("child 0 = %s, want PROLOG", prog.Children[0].Kind)
	}
	if prog.Children[1].Kind != ast.CLASS {
		t.Fatalf("child 1 = %s, want CLASS", prog.Children[1].Kind)
	}
}

func TestReturnExpressionPrecedence(t *testing.T) {
	src := wrap("static main() {\nreturn 1 + 2 * 3\n}\n")
	p := New(src)
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram() error = %v", err)
	}
	fn := prog.Children[1].Children[0] // FUNCTION_DEF
	body := fn.Children[1].Children[1] // FUNCTION -> BLOCK
	stmts := body.Children[0]          // STATEMENTS
	ret := stmts.Children[0]
	if ret.Kind != ast.RETURN {
		t.Fatalf("got %s, want RETURN", ret.Kind)
	}
	want := "EXPR(+)[LITERAL(1) EXPR(*)[LITERAL(2) LITERAL(3)]]"
	if got := ret.Children[0].String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestVarDeclWithParenthesizedInitializer(t *testing.T) {
	src := wrap("static main() {\nvar a = (1 + 2) * 3\n}\n")
	p := New(src)
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram() error = %v", err)
	}
	stmts := prog.Children[1].Children[0].Children[1].Children[1].Children[0]
	decl := stmts.Children[0]
	if decl.Kind != ast.VAR_DECL || decl.Lexeme() != "a" {
		t.Fatalf("got %s, want VAR_DECL(a)", decl.String())
	}
	if len(decl.Children) != 1 || decl.Children[0].Kind != ast.ASSIGN {
		t.Fatalf("got %s, want one ASSIGN child", decl.String())
	}
}

func TestIfElseBothBranchesRequired(t *testing.T) {
	src := wrap("static main() {\nif (a < b) {\nreturn 1\n} else {\nreturn 2\n}\n}\n")
	p := New(src)
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram() error = %v", err)
	}
	stmts := prog.Children[1].Children[0].Children[1].Children[1].Children[0]
	ifNode := stmts.Children[0]
	if ifNode.Kind != ast.IF {
		t.Fatalf("got %s, want IF", ifNode.Kind)
	}
	if len(ifNode.Children) != 2 || ifNode.Children[1].Kind != ast.ELSE {
		t.Fatalf("got %s, want [cond ELSE]", ifNode.String())
	}
}

func TestIfWithoutElseIsSyntaxError(t *testing.T) {
	src := wrap("static main() {\nif (a < b) {\nreturn 1\n}\n}\n")
	p := New(src)
	if _, err := p.ParseProgram(); err == nil {
		t.Fatal("ParseProgram() error = nil, want a syntax error (missing 'else')")
	}
}

func TestBuiltinCallStatement(t *testing.T) {
	src := wrap("static main() {\nIfj.write(\"hi\", 42)\n}\n")
	p := New(src)
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram() error = %v", err)
	}
	stmts := prog.Children[1].Children[0].Children[1].Children[1].Children[0]
	call := stmts.Children[0]
	if call.Kind != ast.CALL {
		t.Fatalf("got %s, want CALL", call.Kind)
	}
	if ast.FuncNameString(call.Children[0]) != "Ifj.write" {
		t.Fatalf("callee = %s, want Ifj.write", call.Children[0].String())
	}
	if len(call.Children[1].Children) != 2 {
		t.Fatalf("args = %s, want 2 children", call.Children[1].String())
	}
}

func TestGetterAndSetterDefs(t *testing.T) {
	src := wrap("static size {\nreturn 1\n}\nstatic size = (v) {\nvar x = v\n}\n")
	p := New(src)
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram() error = %v", err)
	}
	defs := prog.Children[1].Children
	if len(defs) != 2 {
		t.Fatalf("got %d function defs, want 2", len(defs))
	}
	if defs[0].Children[1].Kind != ast.GETTER {
		t.Fatalf("def 0 kind = %s, want GETTER", defs[0].Children[1].Kind)
	}
	if defs[1].Children[1].Kind != ast.SETTER {
		t.Fatalf("def 1 kind = %s, want SETTER", defs[1].Children[1].Kind)
	}
}

func TestFullProgramASTSnapshot(t *testing.T) {
	src := wrap(strings.Join([]string{
		"static main() {",
		"var total = 0",
		"while (total < 10) {",
		"total = total + 1",
		"}",
		"if (total == 10) {",
		"Ifj.write(\"done\")",
		"} else {",
		"Ifj.write(\"never\")",
		"}",
		"return total",
		"}",
		"",
	}, "\n"))
	p := New(src)
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram() error = %v", err)
	}
	snaps.MatchSnapshot(t, prog.String())
}

func TestMissingMainEnvelopeStillParsesSyntactically(t *testing.T) {
	src := wrap("static foo() {\n}\n")
	p := New(src)
	if _, err := p.ParseProgram(); err != nil {
		t.Fatalf("ParseProgram() error = %v (syntax should accept; 'main' presence is a semantic check)", err)
	}
}
