package symtable

import "testing"

func TestDefineAndResolveVar(t *testing.T) {
	global := New()
	if !global.DefineVar("x", VarInfo{TypeMask: MaskNum}) {
		t.Fatal("DefineVar() = false, want true for first declaration")
	}
	sym, ok := global.Resolve("x")
	if !ok || sym.Kind != SymVar || sym.Var.TypeMask != MaskNum {
		t.Fatalf("Resolve(x) = %+v, %v", sym, ok)
	}
}

func TestDefineVarRejectsRedefinitionInSameScope(t *testing.T) {
	global := New()
	global.DefineVar("x", VarInfo{TypeMask: MaskNum})
	if global.DefineVar("x", VarInfo{TypeMask: MaskString}) {
		t.Fatal("DefineVar() = true, want false for redeclaration in same scope")
	}
}

func TestShadowingAcrossScopesIsAllowed(t *testing.T) {
	global := New()
	global.DefineVar("x", VarInfo{TypeMask: MaskNum})
	inner := Enter(global)
	if !inner.DefineVar("x", VarInfo{TypeMask: MaskString}) {
		t.Fatal("DefineVar() = false, want true when shadowing an outer scope")
	}
	sym, _ := inner.Resolve("x")
	if sym.Var.TypeMask != MaskString {
		t.Fatalf("Resolve(x) in inner scope = %+v, want shadowed string mask", sym.Var)
	}
	outerSym, _ := global.Resolve("x")
	if outerSym.Var.TypeMask != MaskNum {
		t.Fatalf("Resolve(x) in outer scope = %+v, want original num mask", outerSym.Var)
	}
}

func TestResolveWalksOuterScopes(t *testing.T) {
	global := New()
	global.DefineVar("x", VarInfo{TypeMask: MaskNum})
	inner := Enter(global)
	if _, ok := inner.Resolve("x"); !ok {
		t.Fatal("Resolve(x) from inner scope should find outer declaration")
	}
}

func TestIsDeclaredInCurrentScopeIgnoresOuter(t *testing.T) {
	global := New()
	global.DefineVar("x", VarInfo{TypeMask: MaskNum})
	inner := Enter(global)
	if inner.IsDeclaredInCurrentScope("x") {
		t.Fatal("IsDeclaredInCurrentScope(x) = true, want false (declared only in outer scope)")
	}
}

func TestFunctionOverloadByArity(t *testing.T) {
	global := New()
	if !global.DefineFunc("f", FuncInfo{Arity: 1}) {
		t.Fatal("DefineFunc(f/1) = false, want true")
	}
	if !global.DefineFunc("f", FuncInfo{Arity: 2}) {
		t.Fatal("DefineFunc(f/2) = false, want true (different arity is not a redefinition)")
	}
	if global.DefineFunc("f", FuncInfo{Arity: 1}) {
		t.Fatal("DefineFunc(f/1) again = true, want false (same arity is a redefinition)")
	}
	if _, ok := global.ResolveFunc("f", 1); !ok {
		t.Fatal("ResolveFunc(f, 1) should find the 1-arity overload")
	}
	if _, ok := global.ResolveFunc("f", 3); ok {
		t.Fatal("ResolveFunc(f, 3) should not find a 3-arity overload")
	}
}

func TestGetterAndSetterAreIndependentOfPlainFunction(t *testing.T) {
	global := New()
	global.DefineGetter("size", FuncInfo{Arity: 0, RetTypeMask: MaskNum})
	global.DefineSetter("size", FuncInfo{Arity: 1})
	if _, ok := global.ResolveFunc("size", 0); ok {
		t.Fatal("ResolveFunc(size, 0) should not see the getter key")
	}
	getter, ok := global.ResolveGetter("size")
	if !ok || !getter.Func.IsGetter {
		t.Fatalf("ResolveGetter(size) = %+v, %v", getter, ok)
	}
	setter, ok := global.ResolveSetter("size")
	if !ok || !setter.Func.IsSetter {
		t.Fatalf("ResolveSetter(size) = %+v, %v", setter, ok)
	}
}

func TestFuncArities(t *testing.T) {
	global := New()
	global.DefineFunc("f", FuncInfo{Arity: 1})
	global.DefineFunc("f", FuncInfo{Arity: 2})
	arities := global.FuncArities("f")
	if len(arities) != 2 {
		t.Fatalf("FuncArities(f) = %v, want 2 entries", arities)
	}
}
