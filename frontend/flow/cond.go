package flow

import (
	"github.com/cottand/flowty/frontend/ast"
	"github.com/cottand/flowty/frontend/predicate"
	"github.com/cottand/flowty/frontend/types"
)

// cond evaluates a test, returning its type along with the states where it
// is truthy and where it is falsy
func (a *analyzer) cond(e ast.Expr, st State) (t types.Type, tt, ff State) {
	switch e := e.(type) {
	case *ast.Unary:
		if e.Op == "!" {
			_, tt, ff = a.cond(e.X, st)
			a.record(e, types.BooleanT)
			return types.BooleanT, ff, tt
		}
	case *ast.Logical:
		t, tt, ff = a.logical(e, st)
		a.record(e, t)
		return t, tt, ff
	case *ast.Binary:
		switch e.Op {
		case "===", "!==", "==", "!=":
			_, st = a.expr(e.X, st)
			_, st = a.expr(e.Y, st)
			a.record(e, types.BooleanT)
			tt, ff = a.equality(e.X, e.Y, len(e.Op) == 3, st)
			if e.Op[0] == '!' {
				tt, ff = ff, tt
			}
			return types.BooleanT, tt, ff
		case "instanceof":
			t, st = a.expr(e, st)
			c, ok := a.last[e.Y].(types.ClassOf)
			if !ok {
				return t, st, st
			}
			tt = a.refineExpr(e.X, st, func(t types.Type) types.Type { return types.RefineInstance(t, c.Class, true) })
			ff = a.refineExpr(e.X, st, func(t types.Type) types.Type { return types.RefineInstance(t, c.Class, false) })
			return t, tt, ff
		}
	case *ast.Call:
		t, st = a.expr(e, st)
		p, ok := a.predicateCall(e)
		if !ok {
			break
		}
		return t, a.applyPredicate(p, e.Args, st, true), a.applyPredicate(p, e.Args, st, false)
	case *ast.Assign:
		// `if (x = f())` tests the assigned value
		t, st = a.expr(e, st)
		if e.Op == "=" {
			return t, a.refineTruthy(e.Target, st, true), a.refineTruthy(e.Target, st, false)
		}
		return t, st, st
	default:
		t, st = a.expr(e, st)
		return t, a.refineTruthy(e, st, true), a.refineTruthy(e, st, false)
	}
	if t == nil {
		t, st = a.expr(e, st)
	}
	return t, st, st
}

func (a *analyzer) refineTruthy(e ast.Expr, st State, sense bool) State {
	return a.refineExpr(e, st, func(t types.Type) types.Type { return types.RefineTruthy(t, sense) })
}

// equality refines both sides of x === y, or x == y when strict is false,
// where x and y have already been evaluated
func (a *analyzer) equality(x, y ast.Expr, strict bool, st State) (tt, ff State) {
	tt, ff = st, st
	refine := func(target ast.Expr, f func(t types.Type, sense bool) types.Type) {
		tt = a.refineExpr(target, tt, func(t types.Type) types.Type { return f(t, true) })
		ff = a.refineExpr(target, ff, func(t types.Type) types.Type { return f(t, false) })
	}
	for _, pair := range [][2]ast.Expr{{x, y}, {y, x}} {
		subject, other := pair[0], pair[1]
		if tag, ok := typeofOf(subject, other); ok {
			refine(subject.(*ast.Unary).X, func(t types.Type, sense bool) types.Type {
				return types.RefineTypeof(t, tag, sense)
			})
			return tt, ff
		}
		if null, void, ok := nullishOf(other, strict); ok {
			refine(subject, func(t types.Type, sense bool) types.Type {
				return types.RefineNullish(t, null, void, sense)
			})
			return tt, ff
		}
	}
	if !strict {
		return tt, ff
	}
	if lit, ok := literalOf(y); ok {
		refine(x, func(t types.Type, sense bool) types.Type { return types.RefineLiteral(t, lit, sense) })
	} else if lit, ok := literalOf(x); ok {
		refine(y, func(t types.Type, sense bool) types.Type { return types.RefineLiteral(t, lit, sense) })
	}
	return tt, ff
}

// typeofOf matches `typeof x` compared against a string
func typeofOf(subject, other ast.Expr) (string, bool) {
	un, ok := subject.(*ast.Unary)
	if !ok || un.Op != "typeof" {
		return "", false
	}
	lit, ok := other.(*ast.StringLit)
	if !ok {
		return "", false
	}
	return lit.Value, true
}

// nullishOf matches null, undefined and void 0, returning which of the
// nullish values a comparison against e matches
func nullishOf(e ast.Expr, strict bool) (null, void, ok bool) {
	switch e := e.(type) {
	case *ast.NullLit:
		return true, !strict, true
	case *ast.Ident:
		if e.Name == "undefined" {
			return !strict, true, true
		}
	case *ast.Unary:
		if e.Op == "void" {
			return !strict, true, true
		}
	}
	return false, false, false
}

func literalOf(e ast.Expr) (types.Literal, bool) {
	switch e := e.(type) {
	case *ast.StringLit:
		return types.Literal{Value: e.Value}, true
	case *ast.NumberLit:
		return types.Literal{Value: e.Value}, true
	case *ast.BoolLit:
		return types.Literal{Value: e.Value}, true
	case *ast.Unary:
		if n, ok := e.X.(*ast.NumberLit); ok && e.Op == "-" {
			return types.Literal{Value: -n.Value}, true
		}
	}
	return types.Literal{}, false
}

// refineExpr applies f to the current type of e when e is a variable or a
// property path, returning st unchanged otherwise
func (a *analyzer) refineExpr(e ast.Expr, st State, f func(types.Type) types.Type) State {
	if st.Dead() {
		return st
	}
	switch x := e.(type) {
	case *ast.Ident:
		b, ok := a.graph.Refs[x]
		if !ok {
			return st
		}
		cur := a.general(b)
		if entry, ok := st.Get(b); ok {
			if entry.Init == Uninitialized {
				return st
			}
			cur = entry.Type
		}
		return st.Refine(b, f(cur), a.general(b))
	case *ast.Member, *ast.This:
		path, ok := ast.RefPath(e)
		if !ok {
			return st
		}
		cur, ok := st.Path(path)
		if !ok {
			if cur, ok = a.last[e]; !ok {
				return st
			}
		}
		return st.SetPath(path, f(cur))
	}
	return st
}

// predicateCall returns the predicate established by the function a call
// invokes, if it has one
func (a *analyzer) predicateCall(e *ast.Call) (predicate.Predicate, bool) {
	if fn, ok := a.last[e.Callee].(*types.Func); ok && fn.Checks != nil {
		return fn.Checks, true
	}
	return nil, false
}

// applyPredicate refines the arguments of a call to a predicate function
// for the branch where the call returned a truthy value, or a falsy one
// when sense is false
func (a *analyzer) applyPredicate(p predicate.Predicate, args []ast.Expr, st State, sense bool) State {
	arg := func(i int) ast.Expr {
		if i < 0 || i >= len(args) {
			return nil
		}
		return args[i]
	}
	switch p := p.(type) {
	case predicate.Truthy:
		if x := arg(p.Arg); x != nil {
			return a.refineTruthy(x, st, sense)
		}
	case predicate.TypeOf:
		if x := arg(p.Arg); x != nil {
			return a.refineExpr(x, st, func(t types.Type) types.Type { return types.RefineTypeof(t, p.Tag, sense) })
		}
	case predicate.NullCheck:
		null, void := true, true
		if !p.Loose {
			null, void = p.Value == predicate.IsNull, p.Value == predicate.IsUndefined
		}
		if x := arg(p.Arg); x != nil {
			return a.refineExpr(x, st, func(t types.Type) types.Type { return types.RefineNullish(t, null, void, sense) })
		}
	case predicate.Not:
		return a.applyPredicate(p.P, args, st, !sense)
	case predicate.And:
		if sense {
			return a.applyPredicate(p.R, args, a.applyPredicate(p.L, args, st, true), true)
		}
		return Join(
			a.applyPredicate(p.L, args, st, false),
			a.applyPredicate(p.R, args, a.applyPredicate(p.L, args, st, true), false),
		)
	case predicate.Or:
		if sense {
			return Join(
				a.applyPredicate(p.L, args, st, true),
				a.applyPredicate(p.R, args, a.applyPredicate(p.L, args, st, false), true),
			)
		}
		return a.applyPredicate(p.R, args, a.applyPredicate(p.L, args, st, false), false)
	case predicate.Custom:
		inner := make([]ast.Expr, len(p.Params))
		for j, i := range p.Params {
			inner[j] = arg(i)
		}
		return a.applyPredicate(p.Body, inner, st, sense)
	}
	return st
}
