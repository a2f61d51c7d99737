package types

import (
	"testing"

	"github.com/cottand/flowty/frontend/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obj(exact bool, fields ...Field) *Object {
	return &Object{Fields: fields, Exact: exact, Sealed: true}
}

func field(name string, t Type) Field { return Field{Name: name, Type: t} }

func lit(v any) Literal { return Literal{Value: v} }

// unsealed is the type of `{}`
func unsealed() *Object { return &Object{Exact: true} }

func TestNewUnion(t *testing.T) {
	cases := map[string]struct {
		members  []Type
		expected string
	}{
		"deduplicates":        {[]Type{NumberT, StringT, NumberT}, "number | string"},
		"drops empty":         {[]Type{NumberT, EmptyT}, "number"},
		"no members is empty": {nil, "empty"},
		"any absorbs":         {[]Type{NumberT, AnyT}, "any"},
		"mixed absorbs":       {[]Type{StringT, MixedT}, "mixed"},
		"flattens":            {[]Type{NewUnion(NumberT, StringT), BooleanT}, "number | string | boolean"},
		"literals stay apart": {[]Type{lit("a"), lit("b"), lit("a")}, `"a" | "b"`},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, c.expected, NewUnion(c.members...).String())
		})
	}
}

func TestFlatten(t *testing.T) {
	assert.Equal(t, []Type{NullT, VoidT, NumberT}, Flatten(Maybe{Elem: NumberT}))
	assert.Equal(t, []Type{VoidT, StringT}, Flatten(Optional{Elem: StringT}))
	assert.Empty(t, Flatten(EmptyT))
}

func TestIsSubtype(t *testing.T) {
	a := &ClassDef{ID: ast.Range{PosStart: 1, PosEnd: 2}, Name: "A", Fields: []Field{field("x", NumberT)}}
	b := &ClassDef{ID: ast.Range{PosStart: 3, PosEnd: 4}, Name: "B", Super: a}

	cases := map[string]struct {
		sub, super Type
		expected   bool
	}{
		"literal in its primitive":        {lit(1.0), NumberT, true},
		"primitive in a literal":          {NumberT, lit(1.0), false},
		"number in maybe number":          {NumberT, Maybe{Elem: NumberT}, true},
		"null in maybe number":            {NullT, Maybe{Elem: NumberT}, true},
		"maybe number in number":          {Maybe{Elem: NumberT}, NumberT, false},
		"member in a union":               {NumberT, NewUnion(NumberT, StringT), true},
		"union in one of its members":     {NewUnion(NumberT, StringT), NumberT, false},
		"anything in mixed":               {obj(true), MixedT, true},
		"any in anything":                 {AnyT, NumberT, true},
		"empty in anything":               {EmptyT, StringT, true},
		"exact in inexact":                {obj(true, field("a", NumberT)), obj(false, field("a", NumberT)), true},
		"inexact in exact":                {obj(false, field("a", NumberT)), obj(true, field("a", NumberT)), false},
		"extra property in exact":         {obj(true, field("a", NumberT), field("b", StringT)), obj(true, field("a", NumberT)), false},
		"extra property in inexact":       {obj(true, field("a", NumberT), field("b", StringT)), obj(false, field("a", NumberT)), true},
		"properties are invariant":        {obj(true, field("a", NumberT)), obj(false, field("a", NewUnion(NumberT, StringT))), false},
		"covariant property":              {obj(true, field("a", NumberT)), obj(false, Field{Name: "a", Type: NewUnion(NumberT, StringT), Variance: ast.Covariant}), true},
		"missing optional property":       {obj(true), obj(false, Field{Name: "a", Type: NumberT, Optional: true}), true},
		"arrays are invariant":            {Array{Elem: NumberT}, Array{Elem: NewUnion(NumberT, StringT)}, false},
		"read-only arrays are covariant":  {Array{Elem: NumberT}, Array{Elem: NewUnion(NumberT, StringT), ReadOnly: true}, true},
		"read-only array in array":        {Array{Elem: NumberT, ReadOnly: true}, Array{Elem: NumberT}, false},
		"subclass in superclass":          {Instance{Class: b}, Instance{Class: a}, true},
		"superclass in subclass":          {Instance{Class: a}, Instance{Class: b}, false},
		"instance in matching object":     {Instance{Class: b}, obj(false, field("x", NumberT)), true},
		"instance in exact object":        {Instance{Class: b}, obj(true, field("x", NumberT)), false},
		"wider parameter, narrower return": {
			&Func{Params: []Param{{Name: "x", Type: MixedT}}, Return: NumberT},
			&Func{Params: []Param{{Name: "x", Type: NumberT}}, Return: NewUnion(NumberT, StringT)},
			true,
		},
		"narrower parameter": {
			&Func{Params: []Param{{Name: "x", Type: NumberT}}, Return: NumberT},
			&Func{Params: []Param{{Name: "x", Type: MixedT}}, Return: NumberT},
			false,
		},
		"fewer parameters": {
			&Func{Return: NumberT},
			&Func{Params: []Param{{Name: "x", Type: NumberT}}, Return: NumberT},
			true,
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, c.expected, IsSubtype(c.sub, c.super))
		})
	}
}

func TestRefine(t *testing.T) {
	maybeString := Maybe{Elem: StringT}
	cases := map[string]struct {
		refined  Type
		expected string
	}{
		"truthy maybe":          {RefineTruthy(maybeString, true), "string"},
		"falsy maybe":           {RefineTruthy(maybeString, false), "?string"},
		"falsy literal":         {RefineTruthy(NewUnion(lit(""), lit("a")), false), `""`},
		"typeof on a union":     {RefineTypeof(NewUnion(NumberT, StringT), "number", true), "number"},
		"typeof on mixed":       {RefineTypeof(MixedT, "string", true), "string"},
		"typeof on any":         {RefineTypeof(AnyT, "string", true), "any"},
		"not typeof":            {RefineTypeof(NewUnion(NumberT, StringT, BooleanT), "number", false), "string | boolean"},
		"loose null check":      {RefineNullish(Maybe{Elem: NumberT}, true, true, false), "number"},
		"strict null check":     {RefineNullish(Maybe{Elem: NumberT}, true, false, false), "void | number"},
		"null check on mixed":   {RefineNullish(MixedT, true, true, true), "null | void"},
		"literal":               {RefineLiteral(StringT, lit("a"), true), `"a"`},
		"other than a literal":  {RefineLiteral(NewUnion(lit("a"), lit("b")), lit("a"), false), `"b"`},
		"literal of other type": {RefineLiteral(NumberT, lit("a"), true), "empty"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, c.expected, c.refined.String())
		})
	}

	t.Run("instanceof", func(t *testing.T) {
		a := &ClassDef{ID: ast.Range{PosStart: 1, PosEnd: 2}, Name: "A"}
		b := &ClassDef{ID: ast.Range{PosStart: 3, PosEnd: 4}, Name: "B", Super: a}
		u := NewUnion(Instance{Class: b}, StringT)
		assert.Equal(t, "B", RefineInstance(u, a, true).String())
		assert.Equal(t, "string", RefineInstance(u, a, false).String())
		assert.Equal(t, "A", RefineInstance(MixedT, a, true).String())
	})
}

func TestOperators(t *testing.T) {
	cases := map[string]struct {
		op       string
		l, r     Type
		expected string
		fails    bool
	}{
		"numbers":                {"+", NumberT, NumberT, "number", false},
		"string and number":      {"+", StringT, lit(1.0), "string", false},
		"number and null":        {"+", NumberT, NullT, "number", false},
		"string and boolean":     {"+", StringT, BooleanT, "string", true},
		"any operand":            {"+", AnyT, unsealed(), "any", false},
		"bigint and number":      {"+", BigIntT, NumberT, "any", true},
		"union operands":         {"+", NewUnion(NumberT, StringT), NumberT, "number | string", false},
		"arithmetic on strings":  {"-", StringT, NumberT, "number", true},
		"arithmetic on bigints":  {"*", BigIntT, BigIntT, "bigint", false},
		"comparison":             {"<", NumberT, NumberT, "boolean", false},
		"comparison with mixed":  {"<", MixedT, NumberT, "boolean", true},
		"equality never fails":   {"===", StringT, NumberT, "boolean", false},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := Binary(c.op, c.l, c.r)
			assert.Equal(t, c.expected, res.String())
			if c.fails {
				var opErr *OperandError
				require.ErrorAs(t, err, &opErr)
				assert.Equal(t, c.op, opErr.Op)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("message", func(t *testing.T) {
		_, err := Binary("+", StringT, BooleanT)
		assert.EqualError(t, err, "cannot apply '+' to 'string' and 'boolean'")
		_, err = UnaryOp("-", MixedT)
		assert.EqualError(t, err, "cannot apply '-' to 'mixed'")
	})
}

func TestDestructors(t *testing.T) {
	ab := obj(true, field("a", NumberT), field("b", StringT))
	tp := &TypeParam{ID: ast.Range{PosStart: 1, PosEnd: 2}, Name: "T"}

	cases := map[string]struct {
		kind     DestructorKind
		operands []Type
		expected string
	}{
		"keys":                {KeysD, []Type{ab}, `"a" | "b"`},
		"values":              {ValuesD, []Type{ab}, "number | string"},
		"exact":               {ExactD, []Type{obj(false, field("a", NumberT))}, "{|a: number|}"},
		"non-maybe":           {NonMaybeD, []Type{Maybe{Elem: NumberT}}, "number"},
		"diff":                {DiffD, []Type{ab, obj(false, field("a", NumberT))}, "{|b: string|}"},
		"rest keeps optional": {RestD, []Type{ab, obj(false, Field{Name: "a", Type: NumberT, Optional: true})}, "{|a?: number, b: string|}"},
		"element of array":    {ElementTypeD, []Type{Array{Elem: StringT}, NumberT}, "string"},
		"property type":       {PropertyTypeD, []Type{ab, lit("b")}, "string"},
		"read-only":           {ReadOnlyD, []Type{ab}, "{|+a: number, +b: string|}"},
		"shape":               {ShapeD, []Type{ab}, "{a?: number, b?: string, ...}"},
		"generic operand":     {KeysD, []Type{tp}, "$Keys<T>"},
		"any operand":         {KeysD, []Type{AnyT}, "any"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := ApplyDestructor(c.kind, c.operands)
			require.NoError(t, err)
			assert.Equal(t, c.expected, res.String())
		})
	}

	t.Run("errors", func(t *testing.T) {
		res, err := ApplyDestructor(KeysD, []Type{ab, ab})
		assert.EqualError(t, err, "$Keys expects 1 type arguments, but got 2")
		assert.Equal(t, AnyT, res)

		_, err = ApplyDestructor(ExactD, []Type{NumberT})
		var notObj *NotObjectError
		assert.ErrorAs(t, err, &notObj)

		_, err = ApplyDestructor(PropertyTypeD, []Type{ab, lit("c")})
		var missing *MissingPropertyError
		assert.ErrorAs(t, err, &missing)
	})

	t.Run("by name", func(t *testing.T) {
		k, ok := DestructorByName("$ElementType")
		assert.True(t, ok)
		assert.Equal(t, ElementTypeD, k)
		_, ok = DestructorByName("$Nope")
		assert.False(t, ok)
	})
}

func TestExactify(t *testing.T) {
	tp := &TypeParam{ID: ast.Range{PosStart: 1, PosEnd: 2}, Name: "X"}
	a := obj(false, field("a", NumberT))

	cases := map[string]struct {
		typ      Type
		expected string
	}{
		"inexact object":   {a, "{|a: number|}"},
		"exact object":     {obj(true, field("a", NumberT)), "{|a: number|}"},
		"type parameter":   {tp, "$Exact<X>"},
		"union of objects": {NewUnion(a, obj(false, field("b", StringT))), "{|a: number|} | {|b: string|}"},
		"any":              {AnyT, "any"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			once, err := Exactify(c.typ)
			require.NoError(t, err)
			assert.Equal(t, c.expected, once.String())

			twice, err := Exactify(once)
			require.NoError(t, err)
			assert.True(t, Equal(once, twice), "%v then %v", once, twice)
		})
	}

	t.Run("nested destructors", func(t *testing.T) {
		for _, operand := range []Type{a, tp} {
			inner, err := ApplyDestructor(ExactD, []Type{operand})
			require.NoError(t, err)
			outer, err := ApplyDestructor(ExactD, []Type{inner})
			require.NoError(t, err)
			assert.True(t, Equal(inner, outer), "%v then %v", inner, outer)
		}
	})

	t.Run("does not modify its input", func(t *testing.T) {
		_, err := Exactify(a)
		require.NoError(t, err)
		assert.False(t, a.Exact)
	})
}

func TestGenerics(t *testing.T) {
	tp := &TypeParam{ID: ast.Range{PosStart: 1, PosEnd: 2}, Name: "T"}
	m := map[*TypeParam]Type{}

	Infer(Array{Elem: tp}, Array{Elem: NumberT}, []*TypeParam{tp}, m)
	Infer(Maybe{Elem: tp}, NewUnion(NullT, StringT), []*TypeParam{tp}, m)
	assert.Equal(t, "number | string", m[tp].String())

	fn := &Func{Params: []Param{{Name: "x", Type: tp}}, Return: Maybe{Elem: tp}}
	assert.Equal(t, "(x: number | string) => ?(number | string)", Subst(fn, m).String())
	assert.Equal(t, "(x: T) => ?T", fn.String(), "Subst must not modify its input")

	other := &TypeParam{ID: ast.Range{PosStart: 3, PosEnd: 4}, Name: "U"}
	Infer(other, BooleanT, []*TypeParam{tp}, m)
	assert.NotContains(t, m, other)

	t.Run("deferred destructor is evaluated", func(t *testing.T) {
		d := Destructor{Kind: KeysD, Operands: []Type{tp}}
		res := Subst(d, map[*TypeParam]Type{tp: obj(true, field("a", NumberT))})
		assert.Equal(t, `"a"`, res.String())
	})
}

func TestLookup(t *testing.T) {
	a := &ClassDef{ID: ast.Range{PosStart: 1, PosEnd: 2}, Name: "A", Fields: []Field{field("x", NumberT)}}
	b := &ClassDef{ID: ast.Range{PosStart: 3, PosEnd: 4}, Name: "B", Super: a, Fields: []Field{field("y", StringT)}}

	cases := map[string]struct {
		t        Type
		name     string
		expected string
		found    bool
	}{
		"string length":         {StringT, "length", "number", true},
		"literal method":        {lit("a"), "length", "number", true},
		"array length":          {Array{Elem: StringT}, "length", "number", true},
		"object field":          {obj(true, field("a", NumberT)), "a", "number", true},
		"missing in exact":      {obj(true, field("a", NumberT)), "b", "any", false},
		"unsealed object":       {unsealed(), "b", "any", true},
		"own instance field":    {Instance{Class: b}, "y", "string", true},
		"inherited field":       {Instance{Class: b}, "x", "number", true},
		"number has no length":  {NumberT, "length", "any", false},
		"any has everything":    {AnyT, "whatever", "any", true},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			res, ok := Lookup(c.t, c.name)
			assert.Equal(t, c.found, ok)
			assert.Equal(t, c.expected, res.String())
		})
	}
}

func TestMembers(t *testing.T) {
	a := &ClassDef{ID: ast.Range{PosStart: 1, PosEnd: 2}, Name: "A", Fields: []Field{field("x", NumberT)}}
	b := &ClassDef{ID: ast.Range{PosStart: 3, PosEnd: 4}, Name: "B", Super: a, Fields: []Field{field("y", StringT)}}
	declared := &ClassDef{ID: ast.Range{PosStart: 5, PosEnd: 6}, Name: "D", Declared: true, Fields: []Field{field("z", StringT)}}

	names := func(ms []Member, keep func(Member) bool) []string {
		var out []string
		for _, m := range ms {
			if keep(m) {
				out = append(out, m.Name)
			}
		}
		return out
	}
	all := func(Member) bool { return true }
	proto := func(m Member) bool { return m.Proto }
	inherited := func(m Member) bool { return m.Inherited && !m.Proto }

	t.Run("exact object has no prototype", func(t *testing.T) {
		assert.Equal(t, []string{"a"}, names(Members(obj(true, field("a", NumberT))), all))
	})
	t.Run("inexact object ends with Object.prototype", func(t *testing.T) {
		ms := Members(obj(false, field("a", NumberT)))
		assert.Equal(t, "a", ms[0].Name)
		assert.Len(t, names(ms, proto), len(ObjectProto))
	})
	t.Run("instance", func(t *testing.T) {
		ms := Members(Instance{Class: b})
		assert.Equal(t, []string{"y"}, names(ms, func(m Member) bool { return !m.Inherited }))
		assert.Equal(t, []string{"x"}, names(ms, inherited))
		assert.NotEmpty(t, names(ms, proto))
	})
	t.Run("declared class", func(t *testing.T) {
		assert.Equal(t, []string{"z"}, names(Members(Instance{Class: declared}), all))
	})
	t.Run("class statics", func(t *testing.T) {
		withStatic := &ClassDef{ID: ast.Range{PosStart: 7, PosEnd: 8}, Name: "S", Statics: []Field{field("make", NumberT)}}
		ms := Members(ClassOf{Class: withStatic})
		assert.Equal(t, "make", ms[0].Name)
		assert.False(t, ms[0].Proto)
		assert.Len(t, names(ms, proto), len(FunctionProto))
	})
	t.Run("union keeps common members", func(t *testing.T) {
		u := NewUnion(obj(true, field("a", NumberT), field("b", NumberT)), obj(true, field("a", StringT)), NullT)
		ms := Members(u)
		require.Len(t, ms, 1)
		assert.Equal(t, "a", ms[0].Name)
		assert.Equal(t, "number | string", ms[0].Type.String())
	})
}
