// Package parser implements the IFJ25 recursive-descent statement and
// declaration grammar (spec.md §4.3), delegating expressions to
// internal/psa. Grounded on the teacher's Parser/TokenCursor shape
// (internal/parser/parser.go) but simplified: IFJ25's grammar is
// LL(1) over a single token of lookahead, so no speculative
// backtracking state is needed.
package parser

import (
	"github.com/ifj25lang/ifj25c/internal/ast"
	"github.com/ifj25lang/ifj25c/internal/errors"
	"github.com/ifj25lang/ifj25c/internal/lexer"
	"github.com/ifj25lang/ifj25c/internal/psa"
	"github.com/ifj25lang/ifj25c/pkg/token"
)

// cursor gives one token of lookahead over a lexer, and satisfies
// psa.TokenSource so expressions can be handed off without copying
// tokens around.
type cursor struct {
	lex *lexer.Lexer
	cur token.Token
}

func newCursor(lex *lexer.Lexer) *cursor {
	c := &cursor{lex: lex}
	c.cur = lex.NextToken()
	return c
}

func (c *cursor) Peek() token.Token { return c.cur }

func (c *cursor) Next() token.Token {
	tok := c.cur
	c.cur = c.lex.NextToken()
	return tok
}

// Parser drives the statement grammar over one source file.
type Parser struct {
	c *cursor
}

// Option configures a Parser at construction time.
type Option func(*lexer.Lexer)

// WithTracing enables the underlying lexer's one-line stderr trace
// output (see internal/lexer.WithTracing).
func WithTracing(trace bool) Option {
	return Option(lexer.WithTracing(trace))
}

// New creates a Parser over src.
func New(src string, opts ...Option) *Parser {
	lexOpts := make([]lexer.Option, len(opts))
	for i, opt := range opts {
		lexOpts[i] = lexer.Option(opt)
	}
	return &Parser{c: newCursor(lexer.New(src, lexOpts...))}
}

// ParseProgram parses a full translation unit: prog := prolog class-def EOF.
// When parsing fails after the lexer has produced an ERROR token, the
// first lexical error (code 1) is returned instead of the syntax error.
func (p *Parser) ParseProgram() (*ast.Node, *errors.CompilerError) {
	prog, err := p.parseProgram()
	if err != nil {
		if lexErrs := p.c.lex.Errors(); len(lexErrs) > 0 {
			return nil, lexErrs[0]
		}
		return nil, err
	}
	return prog, nil
}

func (p *Parser) parseProgram() (*ast.Node, *errors.CompilerError) {
	prolog, err := p.parseProlog()
	if err != nil {
		return nil, err
	}
	classDef, err := p.parseClassDef()
	if err != nil {
		return nil, err
	}
	p.eatEOLZeroOrMore()
	if _, err := p.expect(token.EOF); err != nil {
		return nil, err
	}
	return ast.New(ast.PROGRAM, nil, prolog, classDef), nil
}

func (p *Parser) expect(kind token.Kind) (token.Token, *errors.CompilerError) {
	tok := p.c.Peek()
	if tok.Kind != kind {
		return tok, errors.Newf(errors.CodeSyntax, tok.Pos, "expected %s, found %s", kind, tok.Kind)
	}
	return p.c.Next(), nil
}

func (p *Parser) expectKeyword(lexeme string) (token.Token, *errors.CompilerError) {
	tok := p.c.Peek()
	if tok.Kind != token.KEYWORD || tok.Lexeme != lexeme {
		return tok, errors.Newf(errors.CodeSyntax, tok.Pos, "expected keyword %q, found %s", lexeme, tok.Kind)
	}
	return p.c.Next(), nil
}

func (p *Parser) isKeyword(lexeme string) bool {
	return p.c.Peek().IsKeyword(lexeme)
}

// eatEOLOneOrMore requires at least one EOL and consumes any further run.
func (p *Parser) eatEOLOneOrMore() *errors.CompilerError {
	tok := p.c.Peek()
	if tok.Kind != token.EOL {
		return errors.Newf(errors.CodeSyntax, tok.Pos, "expected end of line, found %s", tok.Kind)
	}
	for p.c.Peek().Kind == token.EOL {
		p.c.Next()
	}
	return nil
}

// eatEOLZeroOrMore consumes any run of EOL tokens, possibly none.
func (p *Parser) eatEOLZeroOrMore() {
	for p.c.Peek().Kind == token.EOL {
		p.c.Next()
	}
}

// consumeStatementTerminator allows an optional SEMICOLON before the
// mandatory EOL run that closes a statement.
func (p *Parser) consumeStatementTerminator() *errors.CompilerError {
	if p.c.Peek().Kind == token.SEMICOLON {
		p.c.Next()
	}
	return p.eatEOLOneOrMore()
}

func (p *Parser) parseProlog() (*ast.Node, *errors.CompilerError) {
	if _, err := p.expectKeyword("import"); err != nil {
		return nil, err
	}
	p.eatEOLZeroOrMore()

	strTok, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	if strTok.Lexeme != "ifj25" {
		return nil, errors.Newf(errors.CodeSyntax, strTok.Pos, "expected the string \"ifj25\", found %q", strTok.Lexeme)
	}

	if _, err := p.expectKeyword("for"); err != nil {
		return nil, err
	}
	p.eatEOLZeroOrMore()

	if _, err := p.expectKeyword("Ifj"); err != nil {
		return nil, err
	}
	if err := p.eatEOLOneOrMore(); err != nil {
		return nil, err
	}

	return ast.New(ast.PROLOG, nil), nil
}

func (p *Parser) parseClassDef() (*ast.Node, *errors.CompilerError) {
	if _, err := p.expectKeyword("class"); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if nameTok.Lexeme != "Program" {
		return nil, errors.Newf(errors.CodeSyntax, nameTok.Pos, "expected class name \"Program\", found %q", nameTok.Lexeme)
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	if err := p.eatEOLOneOrMore(); err != nil {
		return nil, err
	}

	defs, err := p.parseFunctionDefs()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}

	return ast.New(ast.CLASS, nil, defs...), nil
}

func (p *Parser) parseFunctionDefs() ([]*ast.Node, *errors.CompilerError) {
	var defs []*ast.Node
	for p.isKeyword("static") {
		def, err := p.parseFunctionDef()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (p *Parser) parseFunctionDef() (*ast.Node, *errors.CompilerError) {
	if _, err := p.expectKeyword("static"); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	kindNode, err := p.parseFunctionKind()
	if err != nil {
		return nil, err
	}
	return ast.New(ast.FUNCTION_DEF, nil, ast.New(ast.IDENTIFIER, &nameTok), kindNode), nil
}

func (p *Parser) parseFunctionKind() (*ast.Node, *errors.CompilerError) {
	switch p.c.Peek().Kind {
	case token.LPAREN:
		return p.parseFunctionSig()
	case token.LBRACE:
		return p.parseGetterSig()
	case token.ASSIGN:
		return p.parseSetterSig()
	default:
		tok := p.c.Peek()
		return nil, errors.Newf(errors.CodeSyntax, tok.Pos, "expected '(', '{', or '=' to begin a function body, found %s", tok.Kind)
	}
}

func (p *Parser) parseFunctionSig() (*ast.Node, *errors.CompilerError) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if err := p.eatEOLOneOrMore(); err != nil {
		return nil, err
	}
	return ast.New(ast.FUNCTION, nil, params, block), nil
}

func (p *Parser) parseGetterSig() (*ast.Node, *errors.CompilerError) {
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if err := p.eatEOLOneOrMore(); err != nil {
		return nil, err
	}
	return ast.New(ast.GETTER, nil, block), nil
}

func (p *Parser) parseSetterSig() (*ast.Node, *errors.CompilerError) {
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	paramTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if err := p.eatEOLOneOrMore(); err != nil {
		return nil, err
	}
	return ast.New(ast.SETTER, nil, ast.New(ast.IDENTIFIER, &paramTok), block), nil
}

func (p *Parser) parseParamList() (*ast.Node, *errors.CompilerError) {
	list := ast.New(ast.PARAM_LIST, nil)
	if p.c.Peek().Kind == token.RPAREN {
		return list, nil
	}
	for {
		idTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		list.Children = append(list.Children, ast.New(ast.IDENTIFIER, &idTok))
		if p.c.Peek().Kind != token.COMMA {
			break
		}
		p.c.Next()
		p.eatEOLZeroOrMore()
	}
	return list, nil
}

func (p *Parser) parseBlock() (*ast.Node, *errors.CompilerError) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	if err := p.eatEOLOneOrMore(); err != nil {
		return nil, err
	}
	stmts, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return ast.New(ast.BLOCK, nil, ast.New(ast.STATEMENTS, nil, stmts...)), nil
}

func (p *Parser) parseStatements() ([]*ast.Node, *errors.CompilerError) {
	var stmts []*ast.Node
	for p.c.Peek().Kind != token.RBRACE && p.c.Peek().Kind != token.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *Parser) parseStatement() (*ast.Node, *errors.CompilerError) {
	switch {
	case p.isKeyword("var"):
		return p.parseVarStmt()
	case p.isKeyword("return"):
		return p.parseReturnStmt()
	case p.isKeyword("if"):
		return p.parseIfStmt()
	case p.isKeyword("while"):
		return p.parseWhileStmt()
	case p.c.Peek().Kind == token.IDENT || p.c.Peek().Kind == token.GID || p.isKeyword("Ifj"):
		return p.parseSidStmt()
	default:
		tok := p.c.Peek()
		if tok.Kind == token.KEYWORD && tok.Lexeme == "else" {
			return nil, errors.Newf(errors.CodeSyntax, tok.Pos, "'else' without a matching 'if'")
		}
		return nil, errors.Newf(errors.CodeSyntax, tok.Pos, "expected a statement, found %s", tok.Kind)
	}
}

func (p *Parser) parseVarStmt() (*ast.Node, *errors.CompilerError) {
	if _, err := p.expectKeyword("var"); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}

	var children []*ast.Node
	if p.c.Peek().Kind == token.ASSIGN {
		p.c.Next()
		exprNode, err := psa.ParseExpression(p.c)
		if err != nil {
			return nil, err
		}
		children = append(children, ast.New(ast.ASSIGN, &nameTok, exprNode))
	}

	if err := p.consumeStatementTerminator(); err != nil {
		return nil, err
	}
	return ast.New(ast.VAR_DECL, &nameTok, children...), nil
}

func (p *Parser) parseSidStmt() (*ast.Node, *errors.CompilerError) {
	idTok := p.c.Next()

	var node *ast.Node
	if idTok.Lexeme == "Ifj" && p.c.Peek().Kind == token.DOT {
		p.c.Next() // '.'
		memberTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		nameNode := ast.New(ast.FUNC_NAME, nil, ast.New(ast.IDENTIFIER, &idTok), ast.New(ast.IDENTIFIER, &memberTok))
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		args, err := p.parseArgList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		node = ast.New(ast.CALL, nil, nameNode, args)

		if err := p.consumeStatementTerminator(); err != nil {
			return nil, err
		}
		return node, nil
	}

	switch p.c.Peek().Kind {
	case token.ASSIGN:
		p.c.Next()
		exprNode, err := psa.ParseExpression(p.c)
		if err != nil {
			return nil, err
		}
		node = ast.New(ast.ASSIGN, &idTok, exprNode)

	case token.LPAREN:
		p.c.Next()
		args, err := p.parseArgList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		calleeKind := ast.IDENTIFIER
		if idTok.Kind == token.GID {
			calleeKind = ast.GID
		}
		node = ast.New(ast.CALL, nil, ast.New(calleeKind, &idTok), args)

	default:
		calleeKind := ast.IDENTIFIER
		if idTok.Kind == token.GID {
			calleeKind = ast.GID
		}
		node = ast.New(calleeKind, &idTok)
	}

	if err := p.consumeStatementTerminator(); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *Parser) parseReturnStmt() (*ast.Node, *errors.CompilerError) {
	if _, err := p.expectKeyword("return"); err != nil {
		return nil, err
	}

	var children []*ast.Node
	switch p.c.Peek().Kind {
	case token.EOL, token.SEMICOLON, token.EOF, token.RBRACE:
		// no expression
	default:
		exprNode, err := psa.ParseExpression(p.c)
		if err != nil {
			return nil, err
		}
		children = append(children, exprNode)
	}

	if err := p.consumeStatementTerminator(); err != nil {
		return nil, err
	}
	return ast.New(ast.RETURN, nil, children...), nil
}

func (p *Parser) parseIfStmt() (*ast.Node, *errors.CompilerError) {
	if _, err := p.expectKeyword("if"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := psa.ParseExpression(p.c)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	thenBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("else"); err != nil {
		return nil, err
	}
	elseBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if err := p.eatEOLOneOrMore(); err != nil {
		return nil, err
	}
	return ast.New(ast.IF, nil, cond, ast.New(ast.ELSE, nil, thenBlock, elseBlock)), nil
}

func (p *Parser) parseWhileStmt() (*ast.Node, *errors.CompilerError) {
	if _, err := p.expectKeyword("while"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := psa.ParseExpression(p.c)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if err := p.eatEOLOneOrMore(); err != nil {
		return nil, err
	}
	return ast.New(ast.WHILE, nil, cond, body), nil
}

func (p *Parser) parseArgList() (*ast.Node, *errors.CompilerError) {
	list := ast.New(ast.ARG_LIST, nil)
	if p.c.Peek().Kind == token.RPAREN {
		return list, nil
	}
	for {
		arg, err := psa.ParseExpression(p.c)
		if err != nil {
			return nil, err
		}
		list.Children = append(list.Children, arg)
		if p.c.Peek().Kind != token.COMMA {
			break
		}
		p.c.Next()
		p.eatEOLZeroOrMore()
	}
	return list, nil
}
