// Package semantic implements the IFJ25 two-pass semantic analyzer
// (spec.md §4.7): pass A registers every function, pass B resolves
// names and checks scoping. Grounded on the teacher's single
// struct-holding-maps Analyzer (internal/semantic/analyzer.go), but
// threading one mutable symtable.Table instead of the teacher's
// package-global-shaped state, per spec.md §9's "thread a context
// record through every analysis function instead of a global".
package semantic

import (
	"github.com/ifj25lang/ifj25c/internal/ast"
	"github.com/ifj25lang/ifj25c/internal/builtins"
	"github.com/ifj25lang/ifj25c/internal/errors"
	"github.com/ifj25lang/ifj25c/internal/symtable"
	"github.com/ifj25lang/ifj25c/pkg/token"
)

// Analyzer walks a finished AST and populates a symbol table. It never
// mutates the AST (spec.md §8's invariant).
type Analyzer struct {
	global   *symtable.Table
	scope    *symtable.Table
	builtins *builtins.Registry
}

// New creates an Analyzer with a fresh global scope.
func New(reg *builtins.Registry) *Analyzer {
	global := symtable.New()
	return &Analyzer{global: global, scope: global, builtins: reg}
}

// Global returns the analyzer's global symbol table, for callers (the
// CLI's --dump-json flag) that want to inspect it after a successful
// Analyze.
func (a *Analyzer) Global() *symtable.Table {
	return a.global
}

// Analyze runs both passes over prog and returns the first error
// encountered, or nil on success. Per spec.md §7, analysis does not
// attempt to collect multiple errors: the first one terminates.
func (a *Analyzer) Analyze(prog *ast.Node) *errors.CompilerError {
	if prog == nil || prog.Kind != ast.PROGRAM || len(prog.Children) != 2 {
		return errors.New(errors.CodeInternal, prog.Pos(), "analyzer expected a PROGRAM node with [PROLOG, CLASS] children")
	}
	classNode := prog.Children[1]

	if err := a.registerFunctions(classNode); err != nil {
		return err
	}
	if err := a.analyzeClass(classNode); err != nil {
		return err
	}
	if err := a.checkAllDefined(); err != nil {
		return err
	}
	mainSym, ok := a.global.ResolveFunc("main", 0)
	if !ok || mainSym.Func == nil || !mainSym.Func.Defined {
		return errors.New(errors.CodeUndefined, prog.Pos(), "missing function \"main\" with arity 0")
	}
	return nil
}

func maskAllN(n int) []symtable.TypeMask {
	masks := make([]symtable.TypeMask, n)
	for i := range masks {
		masks[i] = symtable.MaskAll
	}
	return masks
}

// registerFunctions is pass A: every FUNCTION_DEF is inserted into the
// global scope under its overload key. A name+arity collision is a
// redefinition (code 4).
func (a *Analyzer) registerFunctions(classNode *ast.Node) *errors.CompilerError {
	for _, def := range classNode.Children {
		name := def.Children[0].Lexeme()
		kindNode := def.Children[1]

		switch kindNode.Kind {
		case ast.FUNCTION:
			arity := len(kindNode.Children[0].Children)
			info := symtable.FuncInfo{
				Arity:         arity,
				ParamTypeMask: maskAllN(arity),
				RetTypeMask:   symtable.MaskAll,
				Declared:      true,
				Defined:       true,
			}
			if !a.global.DefineFunc(name, info) {
				return errors.Newf(errors.CodeRedefinition, def.Pos(), "function %q/%d is already defined", name, arity)
			}
		case ast.GETTER:
			info := symtable.FuncInfo{RetTypeMask: symtable.MaskAll, Declared: true, Defined: true}
			if !a.global.DefineGetter(name, info) {
				return errors.Newf(errors.CodeRedefinition, def.Pos(), "getter %q is already defined", name)
			}
		case ast.SETTER:
			info := symtable.FuncInfo{Arity: 1, ParamTypeMask: maskAllN(1), Declared: true, Defined: true}
			if !a.global.DefineSetter(name, info) {
				return errors.Newf(errors.CodeRedefinition, def.Pos(), "setter %q is already defined", name)
			}
		}
	}
	return nil
}

// analyzeClass is pass B's entry point over every function definition.
func (a *Analyzer) analyzeClass(classNode *ast.Node) *errors.CompilerError {
	for _, def := range classNode.Children {
		if err := a.analyzeFunctionDef(def); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) analyzeFunctionDef(def *ast.Node) *errors.CompilerError {
	kindNode := def.Children[1]

	switch kindNode.Kind {
	case ast.FUNCTION:
		params, block := kindNode.Children[0], kindNode.Children[1]
		fnScope := symtable.Enter(a.global)
		for _, p := range params.Children {
			pname := p.Lexeme()
			if fnScope.IsDeclaredInCurrentScope(pname) {
				return errors.Newf(errors.CodeRedefinition, p.Pos(), "duplicate parameter %q", pname)
			}
			fnScope.DefineVar(pname, symtable.VarInfo{TypeMask: symtable.MaskAll})
		}
		return a.withScope(fnScope, func() *errors.CompilerError { return a.analyzeBlock(block) })

	case ast.GETTER:
		block := kindNode.Children[0]
		fnScope := symtable.Enter(a.global)
		return a.withScope(fnScope, func() *errors.CompilerError { return a.analyzeBlock(block) })

	case ast.SETTER:
		param, block := kindNode.Children[0], kindNode.Children[1]
		fnScope := symtable.Enter(a.global)
		fnScope.DefineVar(param.Lexeme(), symtable.VarInfo{TypeMask: symtable.MaskAll})
		return a.withScope(fnScope, func() *errors.CompilerError { return a.analyzeBlock(block) })
	}
	return nil
}

func (a *Analyzer) withScope(scope *symtable.Table, fn func() *errors.CompilerError) *errors.CompilerError {
	prev := a.scope
	a.scope = scope
	err := fn()
	a.scope = prev
	return err
}

func (a *Analyzer) analyzeBlock(block *ast.Node) *errors.CompilerError {
	return a.withScope(symtable.Enter(a.scope), func() *errors.CompilerError {
		stmts := block.Children[0]
		for _, stmt := range stmts.Children {
			if err := a.analyzeStatement(stmt); err != nil {
				return err
			}
		}
		return nil
	})
}

func (a *Analyzer) analyzeStatement(node *ast.Node) *errors.CompilerError {
	switch node.Kind {
	case ast.VAR_DECL:
		return a.analyzeVarDecl(node)
	case ast.ASSIGN:
		return a.analyzeAssign(node)
	case ast.CALL:
		return a.analyzeCall(node)
	case ast.IDENTIFIER, ast.GID:
		return a.analyzeExpr(node)
	case ast.RETURN:
		if len(node.Children) > 0 {
			return a.analyzeExpr(node.Children[0])
		}
		return nil
	case ast.IF:
		return a.analyzeIf(node)
	case ast.WHILE:
		return a.analyzeWhile(node)
	default:
		return errors.Newf(errors.CodeInternal, node.Pos(), "unexpected statement kind %s", node.Kind)
	}
}

func (a *Analyzer) analyzeVarDecl(node *ast.Node) *errors.CompilerError {
	name := node.Lexeme()
	inGlobalScope := a.scope == a.global

	if node.Tok != nil && node.Tok.Kind == token.GID && !inGlobalScope {
		return errors.Newf(errors.CodeRedefinition, node.Pos(), "global identifier %q cannot be declared with 'var' outside the global scope", name)
	}
	if a.scope.IsDeclaredInCurrentScope(name) {
		return errors.Newf(errors.CodeRedefinition, node.Pos(), "variable %q is already declared in this scope", name)
	}
	a.scope.DefineVar(name, symtable.VarInfo{IsGlobal: inGlobalScope, TypeMask: symtable.MaskAll})

	if len(node.Children) > 0 {
		assign := node.Children[0]
		return a.analyzeExpr(assign.Children[0])
	}
	return nil
}

func (a *Analyzer) analyzeAssign(node *ast.Node) *errors.CompilerError {
	name := node.Lexeme()
	rhs := node.Children[0]

	if node.Tok != nil && node.Tok.Kind == token.GID {
		if _, ok := a.global.Resolve(name); !ok {
			a.global.DefineVar(name, symtable.VarInfo{IsGlobal: true, TypeMask: symtable.MaskAll})
		}
		return a.analyzeExpr(rhs)
	}

	if sym, ok := a.scope.Resolve(name); ok && sym.Kind == symtable.SymVar {
		return a.analyzeExpr(rhs)
	}
	if _, ok := a.scope.ResolveSetter(name); ok {
		return a.analyzeExpr(rhs)
	}

	a.global.DefineVar(name, symtable.VarInfo{IsGlobal: true, TypeMask: symtable.MaskAll})
	return a.analyzeExpr(rhs)
}

func (a *Analyzer) analyzeIf(node *ast.Node) *errors.CompilerError {
	cond, elseNode := node.Children[0], node.Children[1]
	if err := a.analyzeExpr(cond); err != nil {
		return err
	}
	thenBlock, elseBlock := elseNode.Children[0], elseNode.Children[1]
	if err := a.analyzeBlock(thenBlock); err != nil {
		return err
	}
	return a.analyzeBlock(elseBlock)
}

func (a *Analyzer) analyzeWhile(node *ast.Node) *errors.CompilerError {
	cond, body := node.Children[0], node.Children[1]
	if err := a.analyzeExpr(cond); err != nil {
		return err
	}
	return a.analyzeBlock(body)
}

func (a *Analyzer) analyzeExpr(node *ast.Node) *errors.CompilerError {
	switch node.Kind {
	case ast.LITERAL:
		return nil

	case ast.IDENTIFIER, ast.GID:
		name := node.Lexeme()
		if _, ok := a.scope.Resolve(name); ok {
			return nil
		}
		if _, ok := a.scope.ResolveFunc(name, 0); ok {
			return nil
		}
		if _, ok := a.scope.ResolveGetter(name); ok {
			return nil
		}
		return errors.Newf(errors.CodeUndefined, node.Pos(), "undefined identifier %q", name)

	case ast.EXPR:
		if err := a.analyzeExpr(node.Children[0]); err != nil {
			return err
		}
		return a.analyzeExpr(node.Children[1])

	case ast.CALL:
		return a.analyzeCall(node)

	default:
		return errors.Newf(errors.CodeInternal, node.Pos(), "unexpected expression kind %s", node.Kind)
	}
}

func (a *Analyzer) analyzeCall(node *ast.Node) *errors.CompilerError {
	nameNode, argList := node.Children[0], node.Children[1]
	argc := len(argList.Children)

	if nameNode.Kind == ast.FUNC_NAME {
		fqname := ast.FuncNameString(nameNode)
		if _, ok := a.builtins.Lookup(fqname, argc); !ok {
			if a.builtins.Exists(fqname) {
				return errors.Newf(errors.CodeUndefined, node.Pos(), "wrong number of arguments to %s", fqname)
			}
			return errors.Newf(errors.CodeUndefined, node.Pos(), "undefined built-in %s", fqname)
		}
	} else {
		name := nameNode.Lexeme()
		key := symtable.MakeFuncKey(name, argc)
		if sym, ok := a.global.Resolve(key); ok {
			if sym.Kind != symtable.SymFunc {
				return errors.Newf(errors.CodeUndefined, node.Pos(), "%q is not a function", name)
			}
		} else {
			a.global.DefineFunc(name, symtable.FuncInfo{Arity: argc, ParamTypeMask: maskAllN(argc), Pos: node.Pos()})
		}
	}

	for _, arg := range argList.Children {
		if err := a.analyzeExpr(arg); err != nil {
			return err
		}
	}
	return nil
}

// checkAllDefined is the end-of-pass-B sweep: any function symbol left
// with Defined == false is an unresolved forward declaration (code 3).
func (a *Analyzer) checkAllDefined() *errors.CompilerError {
	for _, sym := range a.global.AllSymbols() {
		if sym.Kind == symtable.SymFunc && !sym.Func.Defined {
			return errors.Newf(errors.CodeUndefined, sym.Func.Pos, "undefined function %q", sym.Name)
		}
	}
	return nil
}
