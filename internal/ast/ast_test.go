package ast

import (
	"testing"

	"github.com/ifj25lang/ifj25c/pkg/token"
)

func lit(v string) *Node {
	tok := token.New(token.INT, v, token.Position{Line: 1, Column: 1})
	return New(LITERAL, &tok)
}

func TestStringRendersKindAndChildren(t *testing.T) {
	plus := token.New(token.PLUS, "+", token.Position{Line: 1, Column: 3})
	expr := New(EXPR, &plus, lit("1"), lit("2"))

	got := expr.String()
	want := "EXPR(+)[LITERAL(1) LITERAL(2)]"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestPosFallsBackToFirstChild(t *testing.T) {
	expr := New(EXPR, nil, lit("1"), lit("2"))
	pos := expr.Pos()
	if pos.Line != 1 || pos.Column != 1 {
		t.Errorf("Pos() = %+v, want line 1 col 1", pos)
	}
}

func TestWalkVisitsPreOrder(t *testing.T) {
	expr := New(EXPR, nil, lit("1"), lit("2"))
	var visited []Kind
	Walk(expr, func(n *Node) bool {
		visited = append(visited, n.Kind)
		return true
	})
	if len(visited) != 3 || visited[0] != EXPR || visited[1] != LITERAL || visited[2] != LITERAL {
		t.Errorf("Walk() order = %v, want [EXPR LITERAL LITERAL]", visited)
	}
}

func TestWalkStopsDescendingWhenVisitReturnsFalse(t *testing.T) {
	expr := New(EXPR, nil, lit("1"), lit("2"))
	count := 0
	Walk(expr, func(n *Node) bool {
		count++
		return n.Kind != EXPR
	})
	if count != 1 {
		t.Errorf("Walk() visited %d nodes, want 1 (children should be skipped)", count)
	}
}

func TestFuncNameString(t *testing.T) {
	ns := token.New(token.IDENT, "Ifj", token.Position{})
	member := token.New(token.IDENT, "write", token.Position{})
	fn := New(FUNC_NAME, nil, New(IDENTIFIER, &ns), New(IDENTIFIER, &member))

	if got, want := FuncNameString(fn), "Ifj.write"; got != want {
		t.Errorf("FuncNameString() = %q, want %q", got, want)
	}
}

func TestFuncNameStringRejectsWrongShape(t *testing.T) {
	if got := FuncNameString(New(CALL, nil)); got != "" {
		t.Errorf("FuncNameString(non-FUNC_NAME) = %q, want \"\"", got)
	}
}
