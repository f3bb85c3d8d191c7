// Package symtable implements the IFJ25 scoped symbol table (spec.md
// §4.6), grounded on the teacher's chained-scope SymbolTable
// (internal/semantic/symbol_table.go) and on original_source's
// symtable.h VarInfo/FuncInfo shape. Unlike the teacher's DWScript
// table, lookups here are case-sensitive (spec.md §4.6 makes no
// mention of case folding, and original_source's symtable_find does a
// plain strcmp).
package symtable

import (
	"fmt"

	"github.com/ifj25lang/ifj25c/pkg/token"
)

// TypeMask is a bitmask over IFJ25's three runtime value kinds,
// mirroring original_source's TYPEMASK_* constants.
type TypeMask uint8

const (
	MaskNum    TypeMask = 1 << 0
	MaskString TypeMask = 1 << 1
	MaskNull   TypeMask = 1 << 2
	MaskAll             = MaskNum | MaskString | MaskNull
)

// Kind tags which payload a Symbol carries.
type Kind int

const (
	SymVar Kind = iota
	SymFunc
)

// VarInfo is the payload for a variable symbol.
type VarInfo struct {
	IsGlobal bool
	TypeMask TypeMask
}

// FuncInfo is the payload for a function, getter, or setter symbol.
type FuncInfo struct {
	Arity         int
	ParamTypeMask []TypeMask
	RetTypeMask   TypeMask
	Declared      bool
	Defined       bool
	IsGetter      bool
	IsSetter      bool
	// Pos is the call-site position recorded when a forward
	// declaration is inserted, used to anchor "undefined function"
	// diagnostics at that call site rather than a zero position.
	// Definitions leave it zero.
	Pos token.Position
}

// Symbol is a single entry in a Table: either a variable or a function,
// never both (the teacher's union of Symbol.Type vs. Symbol.Overloads,
// simplified to Go's tagged-pointer idiom since IFJ25 has no overload
// ambiguity rules to track).
type Symbol struct {
	Name string
	Kind Kind
	Var  *VarInfo
	Func *FuncInfo
}

// MakeFuncKey builds the overload-by-arity storage key for a plain
// function name, per original_source's make_func_key.
func MakeFuncKey(name string, arity int) string {
	return fmt.Sprintf("%s$%d", name, arity)
}

// MakeGetterKey builds the storage key for a class property getter.
func MakeGetterKey(name string) string {
	return "get$" + name
}

// MakeSetterKey builds the storage key for a class property setter.
func MakeSetterKey(name string) string {
	return "set$" + name
}

// Table is one lexical scope; Resolve walks outward through parent
// scopes, matching the teacher's chained SymbolTable.outer.
type Table struct {
	symbols map[string]*Symbol
	parent  *Table
}

// New creates a root (global) scope.
func New() *Table {
	return &Table{symbols: make(map[string]*Symbol)}
}

// Enter creates a new scope nested inside t.
func Enter(t *Table) *Table {
	return &Table{symbols: make(map[string]*Symbol), parent: t}
}

// Parent returns the enclosing scope, or nil for the global scope.
func (t *Table) Parent() *Table {
	return t.parent
}

// DefineVar declares a variable in the current scope. It reports false
// if name is already declared in this scope (redefinition, spec.md
// §4.8 code 4); shadowing an outer scope's declaration is allowed.
func (t *Table) DefineVar(name string, info VarInfo) bool {
	if _, exists := t.symbols[name]; exists {
		return false
	}
	infoCopy := info
	t.symbols[name] = &Symbol{Name: name, Kind: SymVar, Var: &infoCopy}
	return true
}

// DefineFunc declares a function under its arity-qualified key. It
// reports false if a function with the same name and arity already
// exists in this scope (spec.md §4.6's overload-by-arity rule).
func (t *Table) DefineFunc(name string, info FuncInfo) bool {
	key := MakeFuncKey(name, info.Arity)
	if _, exists := t.symbols[key]; exists {
		return false
	}
	infoCopy := info
	t.symbols[key] = &Symbol{Name: name, Kind: SymFunc, Func: &infoCopy}
	return true
}

// DefineGetter declares a property getter (zero-arity accessor).
func (t *Table) DefineGetter(name string, info FuncInfo) bool {
	info.IsGetter = true
	key := MakeGetterKey(name)
	if _, exists := t.symbols[key]; exists {
		return false
	}
	infoCopy := info
	t.symbols[key] = &Symbol{Name: name, Kind: SymFunc, Func: &infoCopy}
	return true
}

// DefineSetter declares a property setter (single-arity mutator).
func (t *Table) DefineSetter(name string, info FuncInfo) bool {
	info.IsSetter = true
	key := MakeSetterKey(name)
	if _, exists := t.symbols[key]; exists {
		return false
	}
	infoCopy := info
	t.symbols[key] = &Symbol{Name: name, Kind: SymFunc, Func: &infoCopy}
	return true
}

// Resolve looks up a variable by name, searching outward through
// enclosing scopes.
func (t *Table) Resolve(name string) (*Symbol, bool) {
	if sym, ok := t.symbols[name]; ok {
		return sym, true
	}
	if t.parent != nil {
		return t.parent.Resolve(name)
	}
	return nil, false
}

// ResolveFunc looks up a function by name and arity, searching outward
// through enclosing scopes.
func (t *Table) ResolveFunc(name string, arity int) (*Symbol, bool) {
	return t.Resolve(MakeFuncKey(name, arity))
}

// ResolveGetter looks up a property getter by name.
func (t *Table) ResolveGetter(name string) (*Symbol, bool) {
	return t.Resolve(MakeGetterKey(name))
}

// ResolveSetter looks up a property setter by name.
func (t *Table) ResolveSetter(name string) (*Symbol, bool) {
	return t.Resolve(MakeSetterKey(name))
}

// IsDeclaredInCurrentScope reports whether name is declared directly in
// t, ignoring enclosing scopes.
func (t *Table) IsDeclaredInCurrentScope(name string) bool {
	_, ok := t.symbols[name]
	return ok
}

// AllSymbols returns every symbol declared directly in t, ignoring any
// parent scope. Used by the semantic analyzer's end-of-pass check over
// the global scope's function symbols.
func (t *Table) AllSymbols() map[string]*Symbol {
	return t.symbols
}

// FuncArities returns every arity under which name was declared as a
// function in this scope or an enclosing one.
func (t *Table) FuncArities(name string) []int {
	var arities []int
	for scope := t; scope != nil; scope = scope.parent {
		for _, sym := range scope.symbols {
			if sym.Kind != SymFunc || sym.Name != name {
				continue
			}
			arities = append(arities, sym.Func.Arity)
		}
	}
	return arities
}
