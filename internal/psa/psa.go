// Package psa implements the IFJ25 expression engine: a
// precedence-climbing parser that builds an internal/ast tree directly
// (spec.md §4.5) instead of merely validating a token stream. Each
// binary-operator group has a binding power ordered like the rows of
// original_source's psa.c precedence table (MD tightest, EQ loosest);
// there is no symbol stack and no 9x9 table lookup. It also implements the
// call-form production E -> E ( ArgList ), which the original C
// engine never needed because DWScript-style calls were parsed
// outside the PSA loop entirely.
package psa

import (
	"github.com/ifj25lang/ifj25c/internal/ast"
	"github.com/ifj25lang/ifj25c/internal/errors"
	"github.com/ifj25lang/ifj25c/pkg/token"
)

// Group is one of the five binary-operator groups of original_source's
// psa.c precedence table (GRP_MUL_DIV, GRP_ADD_SUB, ...); operands,
// parentheses and the end marker have no Group.
type Group int

const (
	GroupMulDiv Group = iota
	GroupAddSub
	GroupRel
	GroupIs
	GroupEq
)

// precedence gives each binary-operator group its binding power;
// higher binds tighter. Ordering matches the original prec_table's
// row order (MD tightest, EQ loosest).
var precedence = map[Group]int{
	GroupMulDiv: 5,
	GroupAddSub: 4,
	GroupRel:    3,
	GroupIs:     2,
	GroupEq:     1,
}

// TokenSource is the minimal lookahead interface the expression engine
// needs from its caller (internal/parser supplies a cursor over the
// lexer's token stream).
type TokenSource interface {
	Peek() token.Token
	Next() token.Token
}

func operatorGroup(tok token.Token) (Group, bool) {
	switch tok.Kind {
	case token.STAR, token.SLASH:
		return GroupMulDiv, true
	case token.PLUS, token.MINUS:
		return GroupAddSub, true
	case token.LT, token.LE, token.GT, token.GE:
		return GroupRel, true
	case token.EQ, token.NEQ:
		return GroupEq, true
	case token.KEYWORD:
		if tok.Lexeme == "is" {
			return GroupIs, true
		}
	}
	return 0, false
}

func skipEOLs(src TokenSource) {
	for src.Peek().Kind == token.EOL {
		src.Next()
	}
}

// ParseExpression parses one expression from src and returns its AST.
// It consumes tokens up to (but not including) whatever terminates the
// expression: EOL, SEMICOLON, RPAREN, COMMA, or EOF.
func ParseExpression(src TokenSource) (*ast.Node, *errors.CompilerError) {
	return parseExpr(src, 1)
}

func parseExpr(src TokenSource, minPrec int) (*ast.Node, *errors.CompilerError) {
	left, err := parsePrimary(src)
	if err != nil {
		return nil, err
	}

	for {
		peek := src.Peek()
		group, ok := operatorGroup(peek)
		if !ok {
			return left, nil
		}
		prec := precedence[group]
		if prec < minPrec {
			return left, nil
		}

		opTok := src.Next()
		skipEOLs(src)

		right, err := parseExpr(src, prec+1)
		if err != nil {
			return nil, err
		}
		opTokCopy := opTok
		left = ast.New(ast.EXPR, &opTokCopy, left, right)
	}
}

func parsePrimary(src TokenSource) (*ast.Node, *errors.CompilerError) {
	tok := src.Peek()

	switch tok.Kind {
	case token.LPAREN:
		src.Next()
		skipEOLs(src)
		inner, err := parseExpr(src, 1)
		if err != nil {
			return nil, err
		}
		skipEOLs(src)
		if closeTok := src.Peek(); closeTok.Kind != token.RPAREN {
			return nil, errors.Newf(errors.CodeSyntax, closeTok.Pos, "expected ')', found %s", closeTok.Kind)
		}
		src.Next()
		return inner, nil

	case token.IDENT:
		idTok := src.Next()

		if src.Peek().Kind == token.LPAREN {
			nameNode := ast.New(ast.IDENTIFIER, &idTok)
			return parseCallTail(src, nameNode)
		}

		return ast.New(ast.IDENTIFIER, &idTok), nil

	case token.GID:
		gidTok := src.Next()
		return ast.New(ast.GID, &gidTok), nil

	case token.INT, token.FLOAT, token.HEX, token.STRING:
		litTok := src.Next()
		return ast.New(ast.LITERAL, &litTok), nil

	case token.KEYWORD:
		switch tok.Lexeme {
		case "null":
			litTok := src.Next()
			return ast.New(ast.LITERAL, &litTok), nil
		case "Num", "String", "Null":
			// a bare type name, the right-hand operand of an "is" test
			litTok := src.Next()
			return ast.New(ast.LITERAL, &litTok), nil
		case "Ifj":
			return parseIfjCall(src)
		}
		return nil, errors.Newf(errors.CodeSyntax, tok.Pos, "unexpected keyword %q in expression", tok.Lexeme)

	default:
		return nil, errors.Newf(errors.CodeSyntax, tok.Pos, "unexpected token %s in expression", tok.Kind)
	}
}

// parseIfjCall parses the "Ifj" keyword token already peeked, followed
// by ".member(ArgList)", building the FUNC_NAME callee node the
// semantic analyzer's built-in lookup expects.
func parseIfjCall(src TokenSource) (*ast.Node, *errors.CompilerError) {
	ifjTok := src.Next()

	dotTok := src.Peek()
	if dotTok.Kind != token.DOT {
		return nil, errors.Newf(errors.CodeSyntax, dotTok.Pos, "expected '.' after 'Ifj', found %s", dotTok.Kind)
	}
	src.Next()

	memberTok := src.Peek()
	if memberTok.Kind != token.IDENT {
		return nil, errors.Newf(errors.CodeSyntax, memberTok.Pos, "expected member name after 'Ifj.', found %s", memberTok.Kind)
	}
	src.Next()

	nameNode := ast.New(ast.FUNC_NAME, nil, ast.New(ast.IDENTIFIER, &ifjTok), ast.New(ast.IDENTIFIER, &memberTok))
	return parseCallTail(src, nameNode)
}

// parseCallTail implements the E -> E ( ArgList ) production: name has
// already been parsed (a plain identifier or an "Ifj.xxx" FUNC_NAME),
// and the next token must be '('.
func parseCallTail(src TokenSource, nameNode *ast.Node) (*ast.Node, *errors.CompilerError) {
	openTok := src.Peek()
	if openTok.Kind != token.LPAREN {
		return nil, errors.Newf(errors.CodeSyntax, openTok.Pos, "expected '(' to start call, found %s", openTok.Kind)
	}
	src.Next()
	skipEOLs(src)

	argList := ast.New(ast.ARG_LIST, nil)
	if src.Peek().Kind != token.RPAREN {
		for {
			arg, err := parseExpr(src, 1)
			if err != nil {
				return nil, err
			}
			argList.Children = append(argList.Children, arg)
			skipEOLs(src)
			if src.Peek().Kind != token.COMMA {
				break
			}
			src.Next()
			skipEOLs(src)
		}
	}

	closeTok := src.Peek()
	if closeTok.Kind != token.RPAREN {
		return nil, errors.Newf(errors.CodeSyntax, closeTok.Pos, "expected ')' to close call, found %s", closeTok.Kind)
	}
	src.Next()

	return ast.New(ast.CALL, nil, nameNode, argList), nil
}
