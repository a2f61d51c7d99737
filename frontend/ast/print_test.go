package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExprString(t *testing.T) {
	x, y, z := &Ident{Name: "x"}, &Ident{Name: "y"}, &Ident{Name: "z"}
	sum := &Binary{Op: "+", X: x, Y: y}

	cases := map[string]struct {
		expr     Expr
		expected string
	}{
		"member of a sum": {
			expr:     &Member{X: sum, Prop: "length"},
			expected: "(x + y).length",
		},
		"call of a conditional": {
			expr:     &Call{Callee: &Cond{Test: x, Then: y, Else: z}},
			expected: "(x ? y : z)()",
		},
		"call of an arrow": {
			expr:     &Call{Callee: &FuncExpr{Function: &Function{Arrow: true}}},
			expected: "((...) => ...)()",
		},
		"member of a call": {
			expr:     &Member{X: &Call{Callee: x}, Prop: "p"},
			expected: "x().p",
		},
		"member of new": {
			expr:     &Member{X: &New{Callee: x}, Prop: "p"},
			expected: "new x().p",
		},
		"computed member of an assignment": {
			expr:     &Member{X: &Assign{Op: "=", Target: x, Value: y}, Index: z},
			expected: "(x = y)[z]",
		},
		"left-nested sum": {
			expr:     &Binary{Op: "-", X: sum, Y: z},
			expected: "x + y - z",
		},
		"right-nested difference": {
			expr:     &Binary{Op: "-", X: x, Y: &Binary{Op: "-", X: y, Y: z}},
			expected: "x - (y - z)",
		},
		"sum inside a product": {
			expr:     &Binary{Op: "*", X: sum, Y: z},
			expected: "(x + y) * z",
		},
		"product inside a sum": {
			expr:     &Binary{Op: "+", X: &Binary{Op: "*", X: x, Y: y}, Y: z},
			expected: "x * y + z",
		},
		"or inside and": {
			expr:     &Logical{Op: "&&", X: &Logical{Op: "||", X: x, Y: y}, Y: z},
			expected: "(x || y) && z",
		},
		"negated sum": {
			expr:     &Unary{Op: "-", X: sum},
			expected: "-(x + y)",
		},
		"typeof member": {
			expr:     &Unary{Op: "typeof", X: &Member{X: x, Prop: "p"}},
			expected: "typeof x.p",
		},
		"spread argument": {
			expr:     &Call{Callee: x, Args: []Expr{&Opaque{X: y}}},
			expected: "x(...y)",
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, c.expected, ExprString(c.expr))
		})
	}
}
