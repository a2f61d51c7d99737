package scope

import (
	"testing"

	. "github.com/cottand/flowty/frontend/construct"

	"github.com/cottand/flowty/frontend/ast"
	"github.com/cottand/flowty/frontend/flowerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bind(stmts ...ast.Stmt) (*Graph, *ast.File) {
	f, _ := Build("test.js", stmts...)
	return Bind(f), f
}

func codes(g *Graph) []flowerr.ErrCode {
	var out []flowerr.ErrCode
	for _, e := range g.Errors.Sorted() {
		out = append(out, e.Code())
	}
	return out
}

func TestDeclarationErrors(t *testing.T) {
	cases := map[string]struct {
		stmts    []ast.Stmt
		expected []flowerr.ErrCode
	}{
		"var redeclaration is allowed": {
			stmts: []ast.Stmt{Var("x", nil, Num(1)), Var("x", nil, Num(2))},
		},
		"annotated var then unannotated var": {
			stmts: []ast.Stmt{Var("x", TNumber(), nil), Var("x", nil, Num(2))},
		},
		"var redeclared with annotation": {
			stmts:    []ast.Stmt{Var("x", TNumber(), nil), Var("x", TNumber(), nil)},
			expected: []flowerr.ErrCode{flowerr.InconsistentRedeclaration},
		},
		"let redeclared": {
			stmts:    []ast.Stmt{Let("x", nil, Num(1)), Let("x", nil, Num(2))},
			expected: []flowerr.ErrCode{flowerr.DuplicateBinding},
		},
		"var after let": {
			stmts:    []ast.Stmt{Let("x", nil, Num(1)), Var("x", nil, Num(2))},
			expected: []flowerr.ErrCode{flowerr.DuplicateBinding},
		},
		"var in a block declaring the same let": {
			stmts:    []ast.Stmt{Func("f", nil, nil, Block(Let("x", nil, Num(1)), Var("x", nil, Num(2))))},
			expected: []flowerr.ErrCode{flowerr.DuplicateBinding},
		},
		"var nested below a block let": {
			stmts:    []ast.Stmt{Block(Let("x", nil, Num(1)), If(Id("c"), Block(Var("x", nil, Num(2))), nil))},
			expected: []flowerr.ErrCode{flowerr.DuplicateBinding},
		},
		"var in a sibling block": {
			stmts: []ast.Stmt{Block(Let("x", nil, Num(1))), Block(Var("x", nil, Num(2)))},
		},
		"var redeclaring a catch parameter": {
			stmts: []ast.Stmt{Try(Block(), "e", Block(Var("e", nil, Num(1))), nil)},
		},
		"let shadowing in a block": {
			stmts: []ast.Stmt{Let("x", nil, Num(1)), Block(Let("x", nil, Num(2)))},
		},
		"let clashing with a parameter": {
			stmts:    []ast.Stmt{Func("f", Params("x"), nil, Let("x", nil, Num(1)))},
			expected: []flowerr.ErrCode{flowerr.DuplicateBinding},
		},
		"var redeclaring a parameter": {
			stmts: []ast.Stmt{Func("f", Params("x"), nil, Var("x", nil, Num(1)))},
		},
		"let used before declaration": {
			stmts: []ast.Stmt{Func("f", nil, nil,
				Do(Id("x")),
				Let("x", nil, Num(1)),
			)},
			expected: []flowerr.ErrCode{flowerr.UseBeforeDeclaration},
		},
		"let used before declaration from a closure": {
			stmts: []ast.Stmt{
				Func("f", nil, nil, Return(Id("x"))),
				Let("x", nil, Num(1)),
			},
		},
		"class used before declaration": {
			stmts: []ast.Stmt{
				Do(New(Id("A"))),
				Class("A", nil),
			},
			expected: []flowerr.ErrCode{flowerr.UseBeforeDeclaration},
		},
		"function used before declaration": {
			stmts: []ast.Stmt{
				Do(Call(Id("f"))),
				Func("f", nil, nil),
			},
		},
		"duplicate type alias": {
			stmts:    []ast.Stmt{TypeAlias("T", TNumber()), TypeAlias("T", TString())},
			expected: []flowerr.ErrCode{flowerr.DuplicateBinding},
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			g, _ := bind(c.stmts...)
			assert.Equal(t, c.expected, codes(g), "errors: %v", g.Errors.Errors())
		})
	}
}

func TestVarIsHoisted(t *testing.T) {
	read := Id("x")
	f := Func("f", nil, nil,
		Var("y", nil, read),
		Var("x", nil, Num(0)),
	)
	g, _ := bind(f)

	require.Empty(t, codes(g))
	b, ok := g.Refs[read]
	require.True(t, ok)
	assert.Equal(t, "x", b.Name)
	assert.Equal(t, VarBinding, b.Kind)
	assert.Same(t, f.Function, b.Func)
	assert.Equal(t, FunctionScope, g.Scope(b.Scope).Kind)
}

func TestVarInNestedBlockIsFunctionScoped(t *testing.T) {
	read := Id("x")
	f := Func("f", Params("c"), nil,
		If(Id("c"), Block(Var("x", nil, Num(1))), nil),
		Return(read),
	)
	g, _ := bind(f)

	b, ok := g.Refs[read]
	require.True(t, ok)
	assert.Equal(t, g.ScopeOf[f.Function], b.Scope)
}

func TestWrites(t *testing.T) {
	loop := While(Id("c"), Set("y", Num(1)))
	g, _ := bind(
		Var("c", nil, Bool(true)),
		Var("x", nil, Num(1)),
		Var("y", TNumber(), nil),
		Func("g", nil, nil, Set("x", Num(2))),
		loop,
	)
	require.Empty(t, codes(g))

	x, _ := g.Lookup(0, "x")
	y, _ := g.Lookup(0, "y")
	assert.True(t, x.ClosureWritten)
	assert.Equal(t, 2, x.Writes)
	assert.False(t, y.ClosureWritten)
	assert.Equal(t, []*Binding{y}, g.LoopWrites[loop])
	assert.Equal(t, []*Binding{x}, g.ClosureWritten())
}

func TestVisibleNearestFirst(t *testing.T) {
	cursor := Id("here")
	g, _ := bind(
		Let("a", nil, Num(1)),
		Let("b", nil, Num(1)),
		Func("f", Params("b", "c"), nil,
			Let("d", nil, Num(1)),
			Do(cursor),
		),
	)
	scope := g.ScopeAt(cursor.Pos())
	var names []string
	var kinds []BindingKind
	for _, b := range g.Visible(scope) {
		names = append(names, b.Name)
		kinds = append(kinds, b.Kind)
	}
	assert.Equal(t, []string{"b", "c", "d", "a", "f"}, names)
	assert.Equal(t, []BindingKind{ParamBinding, ParamBinding, LetBinding, LetBinding, FunctionBinding}, kinds)
}

func TestEnclosingClass(t *testing.T) {
	inMethod := Id("m")
	inArrow := Id("a")
	inFunc := Id("f")
	cls := Class("A", nil,
		Method("m", nil, nil,
			Do(inMethod),
			Do(Arrow(nil, Do(inArrow))),
			Do(FuncExpr(nil, nil, Do(inFunc))),
		),
	)
	g, _ := bind(cls)

	c, ok := g.EnclosingClass(g.ScopeAt(inMethod.Pos()))
	assert.True(t, ok)
	assert.Same(t, cls.Class, c)

	c, ok = g.EnclosingClass(g.ScopeAt(inArrow.Pos()))
	assert.True(t, ok)
	assert.Same(t, cls.Class, c)

	_, ok = g.EnclosingClass(g.ScopeAt(inFunc.Pos()))
	assert.False(t, ok)
}

func TestTypesAndImports(t *testing.T) {
	g, _ := bind(
		ImportAll("./mod", "M"),
		ImportType("./types", "Props"),
		Import("./values", "helper"),
		TypeAlias("T", TNumber()),
		Interface("I", TObject()),
		Class("C", nil),
	)
	require.Empty(t, codes(g))

	var names []string
	var kinds []TypeKind
	for _, tb := range g.VisibleTypes(0) {
		names = append(names, tb.Name)
		kinds = append(kinds, tb.Kind)
	}
	assert.Equal(t, []string{"M", "Props", "helper", "T", "I", "C"}, names)
	assert.Equal(t, []TypeKind{ModuleNamespace, ImportedType, ImportedType, AliasType, InterfaceType, ClassType}, kinds)

	_, isValue := g.Lookup(0, "Props")
	assert.False(t, isValue)
	m, isValue := g.Lookup(0, "M")
	assert.True(t, isValue)
	assert.Equal(t, ImportBinding, m.Kind)
}

func TestExported(t *testing.T) {
	g, _ := bind(
		Export(Const("a", nil, Num(1))),
		Export(Func("f", nil, nil)),
		Var("b", nil, nil),
		&ast.ExportDecl{Specs: []ast.ExportSpec{{Local: Id("b")}}},
	)
	require.Empty(t, codes(g))
	for _, name := range []string{"a", "f", "b"} {
		b, ok := g.Lookup(0, name)
		require.True(t, ok, name)
		assert.True(t, b.Exported, name)
	}
}
