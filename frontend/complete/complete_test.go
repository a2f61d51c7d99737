package complete

import (
	"context"
	"strings"
	"testing"

	. "github.com/cottand/flowty/frontend/construct"

	"github.com/cottand/flowty/frontend/ast"
	"github.com/cottand/flowty/frontend/flow"
	"github.com/cottand/flowty/frontend/scope"
	"github.com/cottand/flowty/frontend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completeAt analyses stmts and completes at the sentinel they contain
func completeAt(t *testing.T, req Request, stmts ...ast.Stmt) (*List, ast.Position) {
	t.Helper()
	f, src := Build("test.js", stmts...)
	res, err := flow.Analyze(context.Background(), f, scope.Bind(f), flow.Options{})
	require.NoError(t, err)
	off := strings.Index(src.Text, Sentinel)
	require.GreaterOrEqual(t, off, 0, "no sentinel in %q", src.Text)
	req.Source = src
	req.Cursor = src.PositionOf(ast.PosOfOffset(off))
	list, err := Complete(res, req)
	require.NoError(t, err)
	return list, req.Cursor
}

func labels(list *List) []string {
	var out []string
	for _, it := range list.Items {
		out = append(out, it.Label)
	}
	return out
}

func details(list *List) []string {
	var out []string
	for _, it := range list.Items {
		out = append(out, it.Detail)
	}
	return out
}

func find(t *testing.T, list *List, label string) Item {
	t.Helper()
	for _, it := range list.Items {
		if it.Label == label {
			return it
		}
	}
	require.Failf(t, "missing item", "no item %q in %v", label, labels(list))
	return Item{}
}

func declaredA() []ast.Stmt {
	return []ast.Stmt{
		DeclareClass("A", Field("test", TString(), nil)),
		Const("b", nil, New(Id("A"))),
	}
}

func TestMemberCompletion(t *testing.T) {
	t.Run("declared class instance", func(t *testing.T) {
		list, cursor := completeAt(t, Request{}, append(declaredA(), Do(Dot(Id("b"), Sentinel)))...)
		require.Len(t, list.Items, 1)
		assert.Equal(t, Item{
			Label:       "test",
			Kind:        KindVariable,
			Detail:      "string",
			SortText:    "00000000000000000000",
			NewText:     "test",
			Insert:      Range{Start: cursor, End: cursor},
			Group:       "member",
			Token:       Sentinel,
			TypedLength: 0,
		}, list.Items[0])
		assert.False(t, list.IsIncomplete)
	})

	t.Run("typed prefix", func(t *testing.T) {
		list, cursor := completeAt(t, Request{}, append(declaredA(), Do(Dot(Id("b"), "te"+Sentinel)))...)
		require.Len(t, list.Items, 1)
		it := list.Items[0]
		assert.Equal(t, cursor.Character-2, it.Insert.Start.Character)
		assert.Equal(t, cursor, it.Insert.End)
		assert.Equal(t, 2, it.TypedLength)
		assert.Equal(t, "te"+Sentinel, it.Token)
		assert.Nil(t, it.Replace)
	})

	t.Run("insert and replace ranges", func(t *testing.T) {
		list, cursor := completeAt(t, Request{InsertReplace: true}, append(declaredA(), Do(Dot(Id("b"), Sentinel+"te")))...)
		require.Len(t, list.Items, 1)
		it := list.Items[0]
		assert.Equal(t, Range{Start: cursor, End: cursor}, it.Insert)
		require.NotNil(t, it.Replace)
		assert.Equal(t, cursor, it.Replace.Start)
		assert.Equal(t, cursor.Character+2, it.Replace.End.Character)
		assert.Equal(t, 0, it.TypedLength)
	})

	t.Run("replace range needs client support", func(t *testing.T) {
		list, _ := completeAt(t, Request{}, append(declaredA(), Do(Dot(Id("b"), Sentinel+"te")))...)
		require.Len(t, list.Items, 1)
		assert.Nil(t, list.Items[0].Replace)
	})

	t.Run("class statics before Function.prototype", func(t *testing.T) {
		static := Field("displayName", TString(), Str("C"))
		static.Static = true
		list, _ := completeAt(t, Request{}, Class("C", nil, static), Do(Dot(Id("C"), Sentinel)))
		assert.Equal(t, []string{"displayName", "apply", "arguments", "bind", "call", "caller", "length", "name", "toString"}, labels(list))
		assert.Equal(t, KindFunction, find(t, list, "apply").Kind)
		assert.Equal(t, "(thisArg: any, argArray?: any) => any", find(t, list, "apply").Detail)
		assert.Equal(t, KindEnum, find(t, list, "caller").Kind)
		assert.Equal(t, "any | null", find(t, list, "caller").Detail)
		assert.Equal(t, "Returns a string representation of a function.", find(t, list, "toString").Documentation)
	})

	t.Run("inexact object offers Object.prototype last", func(t *testing.T) {
		list, _ := completeAt(t, Request{},
			Func("f", []ast.Param{Param("o", TInexact(TProp("z", TNumber())))}, nil, Do(Dot(Id("o"), Sentinel))))
		require.NotEmpty(t, list.Items)
		assert.Equal(t, "z", list.Items[0].Label)
		assert.Contains(t, labels(list), "hasOwnProperty")
	})
}

func TestValueCompletion(t *testing.T) {
	fred := Func("fred", []ast.Param{Param("a", TNumber()), Param("b", TString())}, TNumber(), Return(Id("a")))
	fred.Doc = "Docblock for 'fred'\n@return {number} Docblock for return"

	list, cursor := completeAt(t, Request{},
		Let("a", nil, Num(1)),
		Let("b", nil, Str("s")),
		fred,
		Do(Id(Sentinel)),
	)
	assert.Equal(t, []string{"a", "b", "fred"}, labels(list))
	assert.Equal(t, []string{"number", "string", "(a: number, b: string) => number"}, details(list))

	f := find(t, list, "fred")
	assert.Equal(t, KindFunction, f.Kind)
	assert.Equal(t, "Docblock for 'fred'\n\n**@return** {number} Docblock for return", f.Documentation)
	assert.Equal(t, "00000000000000000002", f.SortText)
	assert.Equal(t, 2, f.Index)
	assert.Equal(t, "local value identifier", f.Group)
	assert.Equal(t, Range{Start: cursor, End: cursor}, f.Insert)

	t.Run("this inside a method", func(t *testing.T) {
		list, _ := completeAt(t, Request{}, Class("K", nil, Method("m", nil, nil, Do(Id(Sentinel)))))
		assert.Equal(t, []string{"K", "this"}, labels(list))
		k := find(t, list, "K")
		assert.Equal(t, KindClass, k.Kind)
		assert.Equal(t, "class K", k.Detail)
		this := find(t, list, "this")
		assert.Equal(t, "this", this.Detail)
		assert.Equal(t, "this", this.Group)
	})

	t.Run("space outside jsx", func(t *testing.T) {
		list, _ := completeAt(t, Request{Trigger: Trigger{Kind: TriggerCharacter, Char: " "}}, Let("a", nil, Num(1)), Do(Id(Sentinel)))
		assert.Empty(t, list.Items)
	})

	t.Run("declaration position", func(t *testing.T) {
		list, _ := completeAt(t, Request{}, Let("a", nil, Num(1)), Let(Sentinel, nil, Num(2)))
		assert.Empty(t, list.Items)
	})
}

func TestBracketCompletion(t *testing.T) {
	t.Run("expression", func(t *testing.T) {
		list, _ := completeAt(t, Request{Trigger: Trigger{Kind: TriggerCharacter, Char: "["}},
			Const("o", nil, Obj(Prop("a", Num(1)), Prop("b", Str("s")))),
			Const("a", nil, Index(Id("o"), Id(Sentinel))),
		)
		assert.Equal(t, []string{`"a"`, `"b"`, "a", "o"}, labels(list))
		assert.Equal(t, []string{"number", "string", "empty", "{|a: number, b: string|}"}, details(list))
		assert.Equal(t, "bracket syntax member", list.Items[0].Group)
		assert.Equal(t, "local value identifier", list.Items[2].Group)
	})

	t.Run("indexed access type", func(t *testing.T) {
		list, _ := completeAt(t, Request{Trigger: Trigger{Kind: TriggerCharacter, Char: "["}},
			TypeAlias("T", TExact(TProp("foo", TBoolean()), TProp("bar", TString()))),
			TypeAlias("B", TIndexed(T("T"), T(Sentinel))),
		)
		got := labels(list)
		require.Len(t, got, 4+len(types.BuiltinTypeNames))
		assert.Equal(t, []string{`"bar"`, `"foo"`, "B", "T"}, got[:4])
		assert.Equal(t, "type T = {|foo: boolean, bar: string|}", list.Items[3].Detail)
		assert.Equal(t, "any", got[4])
		assert.Equal(t, "Class", got[len(got)-1])
	})
}

func TestTypeCompletion(t *testing.T) {
	list, _ := completeAt(t, Request{},
		ImportAll("./type-exports.js", "Types"),
		TypeAlias("Tyrant", TString()),
		Interface("Typeset", TObject(TProp("x", TNumber()))),
		Class("Typewriter", nil),
		Let("x", T(Sentinel), nil),
	)
	got := labels(list)
	require.Len(t, got, 4+len(types.BuiltinTypeNames))
	assert.Equal(t, []string{"Types", "Typeset", "Typewriter", "Tyrant"}, got[:4])
	assert.Equal(t, types.BuiltinTypeNames, got[4:])

	mod := find(t, list, "Types")
	assert.Equal(t, KindModule, mod.Kind)
	assert.Equal(t, `module "./type-exports.js"`, mod.Detail)
	assert.Equal(t, "Types.", mod.NewText)
	assert.Equal(t, "unqualified type -> qualified type", mod.Group)

	iface := find(t, list, "Typeset")
	assert.Equal(t, KindInterface, iface.Kind)
	assert.Equal(t, "interface Typeset", iface.Detail)
	assert.Equal(t, "unqualified type: local type identifier", iface.Group)

	class := find(t, list, "Typewriter")
	assert.Equal(t, KindClass, class.Kind)
	assert.Equal(t, "unqualified type: class or enum", class.Group)

	alias := find(t, list, "Tyrant")
	assert.Equal(t, KindVariable, alias.Kind)
	assert.Equal(t, "type Tyrant = string", alias.Detail)

	assert.Equal(t, KindVariable, find(t, list, "mixed").Kind)
	assert.Equal(t, KindFunction, find(t, list, "$Keys").Kind)
	assert.Equal(t, "builtin type", find(t, list, "$Keys").Group)

	t.Run("type parameter in scope", func(t *testing.T) {
		g := Func("g", []ast.Param{Param("p", T(Sentinel))}, nil)
		g.TypeParams = []ast.TypeParam{{Name: "Typaram"}}
		list, _ := completeAt(t, Request{}, g)
		tp := find(t, list, "Typaram")
		assert.Equal(t, KindTypeParameter, tp.Kind)
		assert.Equal(t, "Typaram", tp.Detail)
		assert.Equal(t, "unqualified type parameter", tp.Group)
	})

	t.Run("truncated", func(t *testing.T) {
		list, _ := completeAt(t, Request{MaxItems: 3}, TypeAlias("Tyrant", TString()), Let("x", T(Sentinel), nil))
		assert.Equal(t, []string{"Tyrant", "any", "bigint"}, labels(list))
		assert.True(t, list.IsIncomplete)
		assert.Equal(t, "00000000000000000002", list.Items[2].SortText)
	})
}

func TestJSXAttributeCompletion(t *testing.T) {
	component := Func("D", []ast.Param{Param("props", TExact(TProp("aaab", TNumber()), TProp("aaaa", TNumber()), TProp("key", TString())))}, TVoid())
	space := Request{Trigger: Trigger{Kind: TriggerCharacter, Char: " "}}

	t.Run("without value", func(t *testing.T) {
		list, _ := completeAt(t, space, component, Do(JSX("D", Attr("key", Str("k")), Attr(Sentinel, nil))))
		assert.Equal(t, []string{"aaaa", "aaab"}, labels(list))
		assert.Equal(t, "aaaa=", list.Items[0].NewText)
		assert.Equal(t, "jsx attribute", list.Items[0].Group)
		assert.Equal(t, "number", list.Items[0].Detail)
	})

	t.Run("with value", func(t *testing.T) {
		list, cursor := completeAt(t, Request{Trigger: Trigger{Kind: Invoked}}, component, Do(JSX("D", Attr("a"+Sentinel, Num(1)))))
		assert.Equal(t, []string{"aaaa", "aaab", "key"}, labels(list))
		it := list.Items[0]
		assert.Equal(t, "aaaa", it.NewText)
		assert.Equal(t, 1, it.TypedLength)
		assert.Equal(t, "a"+Sentinel, it.Token)
		assert.Equal(t, cursor.Character-1, it.Insert.Start.Character)
	})

	t.Run("class component", func(t *testing.T) {
		list, _ := completeAt(t, space,
			Class("C", nil, Field("props", TExact(TProp("a", TNumber())), nil)),
			Do(JSX("C", Attr(Sentinel, nil))),
		)
		assert.Equal(t, []string{"a"}, labels(list))
	})
}

func TestMarkdown(t *testing.T) {
	cases := map[string]string{
		"":                            "",
		"plain":                       "plain",
		"first\nsecond":               "first\nsecond",
		"desc\n@return {number} some": "desc\n\n**@return** {number} some",
		"@param x the\n  value":       "**@param** x the value",
		"desc\n@deprecated":           "desc\n\n**@deprecated**",
	}
	for in, expected := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, expected, markdown(in))
		})
	}
}

func TestInsertSentinel(t *testing.T) {
	text := "const b = new A();\nb.\n"
	assert.Equal(t, "const b = new A();\nb."+Sentinel+"\n", InsertSentinel(text, ast.Position{Line: 1, Character: 2}))
	assert.Equal(t, Sentinel+text, InsertSentinel(text, ast.Position{}))
}

func TestCompleteWithoutResult(t *testing.T) {
	_, err := Complete(nil, Request{})
	assert.Error(t, err)
}
