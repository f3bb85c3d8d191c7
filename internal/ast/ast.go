// Package ast defines the IFJ25 abstract syntax tree.
//
// Unlike a typical recursive-descent compiler's AST — one Go type per
// node shape — spec.md §3 mandates a single uniform tagged node: a
// Kind, an ordered slice of children, and an optional owned token
// payload. Every invariant in the spec (child ordering, "a CALL
// carries the callee name in its token", VAR_DECL having 0 or 1
// child) is phrased in terms of that shape, so this package
// implements it directly rather than the teacher's per-kind struct
// hierarchy.
package ast

import (
	"fmt"
	"strings"

	"github.com/ifj25lang/ifj25c/pkg/token"
)

// Kind enumerates the AST node kinds from spec.md §3.
type Kind int

const (
	PROGRAM Kind = iota
	PROLOG
	CLASS
	FUNCTION_S
	FUNCTION_DEF
	FUNCTION
	GETTER
	SETTER
	FUNC_NAME
	PARAM_LIST
	ARG_LIST
	BLOCK
	STATEMENTS
	VAR_DECL
	ASSIGN
	CALL
	RETURN
	IF
	ELSE
	WHILE
	EXPR
	IDENTIFIER
	GID
	LITERAL
)

var kindNames = [...]string{
	PROGRAM:      "PROGRAM",
	PROLOG:       "PROLOG",
	CLASS:        "CLASS",
	FUNCTION_S:   "FUNCTION_S",
	FUNCTION_DEF: "FUNCTION_DEF",
	FUNCTION:     "FUNCTION",
	GETTER:       "GETTER",
	SETTER:       "SETTER",
	FUNC_NAME:    "FUNC_NAME",
	PARAM_LIST:   "PARAM_LIST",
	ARG_LIST:     "ARG_LIST",
	BLOCK:        "BLOCK",
	STATEMENTS:   "STATEMENTS",
	VAR_DECL:     "VAR_DECL",
	ASSIGN:       "ASSIGN",
	CALL:         "CALL",
	RETURN:       "RETURN",
	IF:           "IF",
	ELSE:         "ELSE",
	WHILE:        "WHILE",
	EXPR:         "EXPR",
	IDENTIFIER:   "IDENTIFIER",
	GID:          "GID",
	LITERAL:      "LITERAL",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// Node is the single uniform AST node type (spec.md §3).
type Node struct {
	Kind     Kind
	Children []*Node
	Tok      *token.Token // optional; owned by this node
}

// New builds a node with the given kind, optional token, and children.
func New(kind Kind, tok *token.Token, children ...*Node) *Node {
	return &Node{Kind: kind, Tok: tok, Children: children}
}

// Pos returns the node's source position: its own token if it has
// one, otherwise the position of its first child, otherwise a zero
// position.
func (n *Node) Pos() token.Position {
	if n == nil {
		return token.Position{}
	}
	if n.Tok != nil {
		return n.Tok.Pos
	}
	for _, c := range n.Children {
		if c != nil {
			return c.Pos()
		}
	}
	return token.Position{}
}

// Lexeme returns the node's token lexeme, or "" if it has no token.
func (n *Node) Lexeme() string {
	if n == nil || n.Tok == nil {
		return ""
	}
	return n.Tok.Lexeme
}

// String renders the node and its subtree for debugging and test
// snapshots, e.g. "EXPR(+)[LITERAL(1) EXPR(*)[LITERAL(2) LITERAL(3)]]".
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	var sb strings.Builder
	sb.WriteString(n.Kind.String())
	if n.Tok != nil && n.Tok.HasLex {
		fmt.Fprintf(&sb, "(%s)", n.Tok.Lexeme)
	}
	if len(n.Children) > 0 {
		sb.WriteString("[")
		for i, c := range n.Children {
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(c.String())
		}
		sb.WriteString("]")
	}
	return sb.String()
}

// Walk calls visit for n and then recursively for every descendant, in
// child order (a pre-order traversal). visit returning false stops
// recursion into that node's children, but Walk continues with the
// node's siblings.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, visit)
	}
}

// FuncNameString reconstructs the dotted "Ifj.xxx" name from a
// FUNC_NAME node whose children are the namespace and member
// identifiers (grounded on original_source's builtin_extract_name).
func FuncNameString(n *Node) string {
	if n == nil || n.Kind != FUNC_NAME || len(n.Children) != 2 {
		return ""
	}
	return n.Children[0].Lexeme() + "." + n.Children[1].Lexeme()
}
