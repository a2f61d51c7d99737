package predicate

import (
	"github.com/cottand/flowty/frontend/ast"
)

// Resolver returns the predicate of the function a callee expression refers
// to, when that function is itself a predicate function
type Resolver func(callee ast.Expr) (Predicate, bool)

var typeofTags = map[string]bool{
	"string":    true,
	"number":    true,
	"boolean":   true,
	"object":    true,
	"function":  true,
	"undefined": true,
	"symbol":    true,
	"bigint":    true,
}

// Infer derives the predicate established by fn when it returns a truthy
// value. fn qualifies when its body is a single return statement (or an
// arrow expression body) built from typeof comparisons, null checks, bare
// parameters, &&, || and ! over those, and calls to predicate functions
// whose arguments are parameters of fn. Declared functions are checked
// against their %checks(expr) expression instead.
//
// ok is false when fn does not qualify, in which case it is an ordinary
// function.
func Infer(fn *ast.Function, resolve Resolver) (p Predicate, ok bool) {
	var body ast.Expr
	switch {
	case fn.Checks != nil && fn.Checks.Expr != nil:
		body = fn.Checks.Expr
	case fn.ExprBody != nil:
		body = fn.ExprBody
	case fn.Body != nil && len(fn.Body.Body) == 1:
		ret, isRet := fn.Body.Body[0].(*ast.Return)
		if !isRet || ret.X == nil {
			return nil, false
		}
		body = ret.X
	default:
		return nil, false
	}
	params := map[string]int{}
	for i, param := range fn.Params {
		if param.Name != nil {
			params[param.Name.Name] = i
		}
	}
	in := inferrer{params: params, resolve: resolve}
	return in.expr(body)
}

type inferrer struct {
	params  map[string]int
	resolve Resolver
}

func (in inferrer) param(e ast.Expr) (int, bool) {
	id, ok := e.(*ast.Ident)
	if !ok {
		return 0, false
	}
	i, ok := in.params[id.Name]
	return i, ok
}

func (in inferrer) expr(e ast.Expr) (Predicate, bool) {
	switch e := e.(type) {
	case *ast.Ident:
		if i, ok := in.param(e); ok {
			return Truthy{Arg: i}, true
		}
	case *ast.Unary:
		if e.Op != "!" {
			return nil, false
		}
		inner, ok := in.expr(e.X)
		if !ok {
			return nil, false
		}
		return Not{inner}, true
	case *ast.Logical:
		l, ok := in.expr(e.X)
		if !ok {
			return nil, false
		}
		r, ok := in.expr(e.Y)
		if !ok {
			return nil, false
		}
		switch e.Op {
		case "&&":
			return And{l, r}, true
		case "||":
			return Or{l, r}, true
		}
	case *ast.Binary:
		return in.comparison(e)
	case *ast.Call:
		return in.call(e)
	}
	return nil, false
}

func (in inferrer) comparison(e *ast.Binary) (Predicate, bool) {
	var negated, strict bool
	switch e.Op {
	case "===":
		strict = true
	case "==":
	case "!==":
		strict, negated = true, true
	case "!=":
		negated = true
	default:
		return nil, false
	}
	p, ok := in.typeofCheck(e.X, e.Y)
	if !ok {
		p, ok = in.typeofCheck(e.Y, e.X)
	}
	if !ok {
		p, ok = in.nullCheck(e.X, e.Y, strict)
	}
	if !ok {
		p, ok = in.nullCheck(e.Y, e.X, strict)
	}
	if !ok {
		return nil, false
	}
	if negated {
		return Not{p}, true
	}
	return p, true
}

func (in inferrer) typeofCheck(x, y ast.Expr) (Predicate, bool) {
	un, ok := x.(*ast.Unary)
	if !ok || un.Op != "typeof" {
		return nil, false
	}
	i, ok := in.param(un.X)
	if !ok {
		return nil, false
	}
	lit, ok := y.(*ast.StringLit)
	if !ok || !typeofTags[lit.Value] {
		return nil, false
	}
	return TypeOf{Arg: i, Tag: lit.Value}, true
}

func (in inferrer) nullCheck(x, y ast.Expr, strict bool) (Predicate, bool) {
	i, ok := in.param(x)
	if !ok {
		return nil, false
	}
	switch y := y.(type) {
	case *ast.NullLit:
		return NullCheck{Arg: i, Value: IsNull, Loose: !strict}, true
	case *ast.Ident:
		if y.Name == "undefined" {
			return NullCheck{Arg: i, Value: IsUndefined, Loose: !strict}, true
		}
	case *ast.Unary:
		if y.Op == "void" {
			return NullCheck{Arg: i, Value: IsUndefined, Loose: !strict}, true
		}
	}
	return nil, false
}

func (in inferrer) call(e *ast.Call) (Predicate, bool) {
	if in.resolve == nil {
		return nil, false
	}
	callee, ok := in.resolve(e.Callee)
	if !ok {
		return nil, false
	}
	positions := make([]int, len(e.Args))
	for j, arg := range e.Args {
		i, ok := in.param(arg)
		if !ok {
			return nil, false
		}
		positions[j] = i
	}
	return Custom{Name: ast.ExprString(e.Callee), Params: positions, Body: callee}, true
}
