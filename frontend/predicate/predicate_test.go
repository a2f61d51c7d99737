package predicate

import (
	"testing"

	"github.com/cottand/flowty/frontend/ast"
	"github.com/cottand/flowty/frontend/construct"
	"github.com/stretchr/testify/assert"
)

func checks(params []string, body ast.Expr) *ast.Function {
	return construct.ChecksFunc("p", construct.Params(params...), construct.Return(body)).Function
}

func TestInfer(t *testing.T) {
	isString := TypeOf{Arg: 0, Tag: "string"}
	resolve := func(callee ast.Expr) (Predicate, bool) {
		if id, ok := callee.(*ast.Ident); ok && id.Name == "isString" {
			return isString, true
		}
		return nil, false
	}

	cases := map[string]struct {
		params   []string
		body     ast.Expr
		expected Predicate
	}{
		"typeof": {
			params:   []string{"x"},
			body:     construct.TypeOfIs(construct.Id("x"), "string"),
			expected: isString,
		},
		"typeof on the right": {
			params:   []string{"x"},
			body:     construct.Bin(construct.Str("number"), "===", construct.TypeOf(construct.Id("x"))),
			expected: TypeOf{Arg: 0, Tag: "number"},
		},
		"negated typeof": {
			params:   []string{"x"},
			body:     construct.Bin(construct.TypeOf(construct.Id("x")), "!==", construct.Str("string")),
			expected: Not{isString},
		},
		"bare parameter": {
			params:   []string{"a", "b"},
			body:     construct.Id("b"),
			expected: Truthy{Arg: 1},
		},
		"strict null": {
			params:   []string{"x"},
			body:     construct.Bin(construct.Id("x"), "===", construct.Null()),
			expected: NullCheck{Arg: 0, Value: IsNull},
		},
		"loose undefined": {
			params:   []string{"x"},
			body:     construct.Bin(construct.Undefined(), "==", construct.Id("x")),
			expected: NullCheck{Arg: 0, Value: IsUndefined, Loose: true},
		},
		"conjunction": {
			params:   []string{"x", "y"},
			body:     construct.And(construct.Id("x"), construct.Not(construct.Id("y"))),
			expected: And{Truthy{Arg: 0}, Not{Truthy{Arg: 1}}},
		},
		"disjunction": {
			params:   []string{"x"},
			body:     construct.Or(construct.TypeOfIs(construct.Id("x"), "string"), construct.TypeOfIs(construct.Id("x"), "number")),
			expected: Or{isString, TypeOf{Arg: 0, Tag: "number"}},
		},
		"call to another predicate": {
			params:   []string{"a", "b"},
			body:     construct.Call(construct.Id("isString"), construct.Id("b")),
			expected: Custom{Name: "isString", Params: []int{1}, Body: isString},
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			p, ok := Infer(checks(c.params, c.body), resolve)
			assert.True(t, ok)
			assert.Equal(t, c.expected, p)
		})
	}

	rejected := map[string]struct {
		params []string
		body   ast.Expr
	}{
		"unknown typeof tag":       {[]string{"x"}, construct.TypeOfIs(construct.Id("x"), "int")},
		"not a parameter":          {[]string{"x"}, construct.TypeOfIs(construct.Id("y"), "string")},
		"arithmetic":               {[]string{"x"}, construct.Bin(construct.Id("x"), "+", construct.Num(1))},
		"call to a plain function": {[]string{"x"}, construct.Call(construct.Id("f"), construct.Id("x"))},
		"call with a non-parameter": {[]string{"x"}, construct.Call(construct.Id("isString"), construct.Str("s"))},
		"literal comparison":       {[]string{"x"}, construct.Bin(construct.Id("x"), "===", construct.Num(1))},
	}
	for name, c := range rejected {
		t.Run(name, func(t *testing.T) {
			_, ok := Infer(checks(c.params, c.body), resolve)
			assert.False(t, ok)
		})
	}

	t.Run("body with several statements", func(t *testing.T) {
		fn := construct.ChecksFunc("p", construct.Params("x"), construct.Do(construct.Id("x")), construct.Return(construct.Id("x"))).Function
		_, ok := Infer(fn, resolve)
		assert.False(t, ok)
	})

	t.Run("arrow expression body", func(t *testing.T) {
		p, ok := Infer(construct.ArrowExpr(construct.Params("x"), construct.Id("x")).Function, resolve)
		assert.True(t, ok)
		assert.Equal(t, Truthy{Arg: 0}, p)
	})

	t.Run("declared with an expression", func(t *testing.T) {
		fn := construct.DeclareFunc("p", construct.Params("x"), construct.TBoolean(), construct.TypeOfIs(construct.Id("x"), "string")).Function
		p, ok := Infer(fn, nil)
		assert.True(t, ok)
		assert.Equal(t, isString, p)
	})
}

func TestFormat(t *testing.T) {
	p := And{
		TypeOf{Arg: 0, Tag: "string"},
		Or{NullCheck{Arg: 1, Value: IsNull, Loose: true}, Not{Custom{Name: "isFoo", Params: []int{1, 0}}}},
	}
	assert.Equal(t, `(typeof x === "string" && (y == null || !isFoo(y, x)))`, p.Format([]string{"x", "y"}))
	assert.Equal(t, `(typeof $0 === "string" && ($1 == null || !isFoo($1, $0)))`, p.String())
	assert.Equal(t, []int{0, 1}, p.Args())
}

func TestNegate(t *testing.T) {
	truthy := Truthy{Arg: 0}
	assert.Equal(t, Not{truthy}, Negate(truthy))
	assert.Equal(t, truthy, Negate(Negate(truthy)))
}
