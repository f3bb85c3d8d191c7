// Package jsondump renders the uniform AST and the global symbol
// table to JSON for the CLI's --dump-json flag and for test
// assertions. Grounded on SPEC_FULL.md §1/§2: since internal/ast uses
// one dynamic node type rather than one Go struct per kind, building
// the document incrementally with github.com/tidwall/sjson's path-set
// API is a closer match to the shape of the data than struct tags and
// encoding/json would be.
package jsondump

import (
	"github.com/ifj25lang/ifj25c/internal/ast"
	"github.com/ifj25lang/ifj25c/internal/symtable"
	"github.com/tidwall/sjson"
)

// AST renders n as a JSON document: {"kind":..., "lexeme":..., "pos":
// "L:C", "children":[...]}. A nil node renders as JSON null.
func AST(n *ast.Node) (string, error) {
	if n == nil {
		return "null", nil
	}
	doc := "{}"
	var err error

	doc, err = sjson.Set(doc, "kind", n.Kind.String())
	if err != nil {
		return "", err
	}
	if n.Tok != nil && n.Tok.HasLex {
		doc, err = sjson.Set(doc, "lexeme", n.Lexeme())
		if err != nil {
			return "", err
		}
	}
	pos := n.Pos()
	if pos.IsValid() {
		doc, err = sjson.Set(doc, "pos", pos.String())
		if err != nil {
			return "", err
		}
	}

	if len(n.Children) == 0 {
		return doc, nil
	}

	doc, err = sjson.SetRaw(doc, "children", "[]")
	if err != nil {
		return "", err
	}
	for _, c := range n.Children {
		childJSON, err := AST(c)
		if err != nil {
			return "", err
		}
		doc, err = sjson.SetRaw(doc, "children.-1", childJSON)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

// SymbolTable renders every symbol declared directly in t (ignoring
// parent scopes, since the CLI only ever dumps the finished global
// scope) as a JSON object keyed by storage key.
func SymbolTable(t *symtable.Table) (string, error) {
	doc := "{}"
	var err error

	for key, sym := range t.AllSymbols() {
		base := "symbols." + key
		doc, err = sjson.Set(doc, base+".name", sym.Name)
		if err != nil {
			return "", err
		}
		switch sym.Kind {
		case symtable.SymVar:
			doc, err = sjson.Set(doc, base+".kind", "var")
			if err != nil {
				return "", err
			}
			doc, err = sjson.Set(doc, base+".isGlobal", sym.Var.IsGlobal)
			if err != nil {
				return "", err
			}
		case symtable.SymFunc:
			doc, err = sjson.Set(doc, base+".kind", "func")
			if err != nil {
				return "", err
			}
			doc, err = sjson.Set(doc, base+".arity", sym.Func.Arity)
			if err != nil {
				return "", err
			}
			doc, err = sjson.Set(doc, base+".declared", sym.Func.Declared)
			if err != nil {
				return "", err
			}
			doc, err = sjson.Set(doc, base+".defined", sym.Func.Defined)
			if err != nil {
				return "", err
			}
			if sym.Func.IsGetter {
				doc, err = sjson.Set(doc, base+".isGetter", true)
				if err != nil {
					return "", err
				}
			}
			if sym.Func.IsSetter {
				doc, err = sjson.Set(doc, base+".isSetter", true)
				if err != nil {
					return "", err
				}
			}
		}
	}
	return doc, nil
}
