package flow

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cottand/flowty/frontend/ast"
	"github.com/cottand/flowty/frontend/flowerr"
	"github.com/cottand/flowty/frontend/scope"
	"github.com/cottand/flowty/frontend/types"
)

// expr returns the type of e and the state after evaluating it
func (a *analyzer) expr(e ast.Expr, st State) (types.Type, State) {
	if e == nil {
		return types.VoidT, st
	}
	t, st := a.eval(e, st)
	a.record(e, t)
	return t, st
}

func (a *analyzer) eval(e ast.Expr, st State) (types.Type, State) {
	switch e := e.(type) {
	case *ast.Ident:
		return a.read(e, st), st
	case *ast.NumberLit:
		return types.NumberT, st
	case *ast.StringLit:
		return types.StringT, st
	case *ast.BoolLit:
		return types.BooleanT, st
	case *ast.NullLit:
		return types.NullT, st
	case *ast.BigIntLit:
		return types.BigIntT, st
	case *ast.TemplateLit:
		for _, x := range e.Exprs {
			_, st = a.expr(x, st)
		}
		return types.StringT, st
	case *ast.RegExpLit:
		return types.AnyT, st
	case *ast.This:
		if c, ok := a.graph.EnclosingClass(a.graph.ScopeAt(e.Pos())); ok {
			return types.Instance{Class: a.classDef(c)}, st
		}
		return types.AnyT, st
	case *ast.ArrayLit:
		return a.array(e, st)
	case *ast.ObjectLit:
		return a.objectLit(e, st)
	case *ast.FuncExpr:
		a.schedule(e.Function)
		return a.signature(e.Function), st
	case *ast.ClassExpr:
		return a.class(e.Class, st)
	case *ast.Unary:
		return a.unary(e, st)
	case *ast.Update:
		t, st := a.expr(e.X, st)
		res, err := types.UnaryOp("+", t)
		if err != nil {
			a.operandError(e, err)
		}
		return res, a.assignTo(e.X, e, types.NumberT, st)
	case *ast.Binary:
		return a.binary(e, st)
	case *ast.Logical:
		t, tt, ff := a.logical(e, st)
		return t, Join(tt, ff)
	case *ast.Assign:
		return a.assignment(e, st)
	case *ast.Cond:
		_, tt, ff := a.cond(e.Test, st)
		th, tst := a.expr(e.Then, tt)
		el, fst := a.expr(e.Else, ff)
		return types.NewUnion(th, el), Join(tst, fst)
	case *ast.Call:
		return a.call(e, st)
	case *ast.New:
		return a.construct(e, st)
	case *ast.Member:
		return a.member(e, st)
	case *ast.Seq:
		t := types.VoidT
		for _, x := range e.Exprs {
			t, st = a.expr(x, st)
		}
		return t, st
	case *ast.TypeCast:
		t, st := a.expr(e.X, st)
		want := a.annot(e.Type)
		a.checkFlow(e.X, t, want)
		return want, st
	case *ast.JSXElement:
		for _, attr := range e.Attrs {
			if attr.Value != nil {
				_, st = a.expr(attr.Value, st)
			}
			if attr.Spread != nil {
				_, st = a.expr(attr.Spread, st)
			}
		}
		for _, c := range e.Children {
			_, st = a.expr(c, st)
		}
		return types.AnyT, st
	case *ast.JSXText:
		return types.StringT, st
	case *ast.Await:
		_, st = a.expr(e.X, st)
		return types.AnyT, st
	case *ast.Opaque:
		_, st = a.expr(e.X, st)
		for _, id := range e.Bound {
			st = a.assignTo(id, id, types.AnyT, st)
		}
		return types.AnyT, st
	}
	return types.AnyT, st
}

// read returns the type of a variable reference, reporting reads of
// bindings that are not initialised on every path
func (a *analyzer) read(id *ast.Ident, st State) types.Type {
	b, ok := a.graph.Refs[id]
	if !ok {
		if t, isGlobal := types.Globals[id.Name]; isGlobal {
			return t
		}
		return types.AnyT
	}
	e, ok := st.Get(b)
	if !ok {
		// captured from an enclosing function
		return a.general(b)
	}
	// reads before a lexical declaration are reported by the binder
	early := a.graph.EarlyRefs[id]
	switch e.Init {
	case Uninitialized:
		if !early {
			a.report(flowerr.New(flowerr.NewUseBeforeInit{Positioner: id.Range, Name: id.Name}))
		}
		return a.general(b)
	case MaybeInitialized:
		if !early {
			a.report(flowerr.New(flowerr.NewPossiblyUninitialized{Positioner: id.Range, Name: id.Name}))
		}
	}
	return e.Type
}

// assign stores a value of type t in b. Annotated bindings keep their
// annotation when the value does not fit it.
func (a *analyzer) assign(b *scope.Binding, at ast.Expr, t types.Type, st State) State {
	stored := t
	if a.fixed(b) {
		want := a.general(b)
		if !a.checkFlow(at, t, want) {
			stored = want
		}
	} else if a.quiet == 0 {
		if prev, ok := a.assigned[b]; ok {
			a.assigned[b] = types.NewUnion(prev, t)
		} else {
			a.assigned[b] = t
		}
	}
	st = st.Set(b, Entry{Type: stored, Init: Initialized})
	return st.ForgetPath(b.Name)
}

// fixed reports whether the general type of b does not depend on what is
// assigned to it
func (a *analyzer) fixed(b *scope.Binding) bool {
	switch b.Kind {
	case scope.VarBinding, scope.LetBinding, scope.ConstBinding:
		return b.Annot != nil
	}
	return true
}

// assignTo stores a value of type t in the place target denotes
func (a *analyzer) assignTo(target ast.Expr, at ast.Expr, t types.Type, st State) State {
	switch target := target.(type) {
	case *ast.Ident:
		b, ok := a.graph.Refs[target]
		if !ok {
			return st
		}
		st = a.assign(b, at, t, st)
		a.record(target, t)
		return st
	case *ast.Member:
		var ot types.Type
		ot, st = a.expr(target.X, st)
		if target.Computed() {
			_, st = a.expr(target.Index, st)
		} else if want, ok := a.writable(ot, target.Prop); ok {
			a.checkFlow(at, t, want)
		}
		if path, ok := ast.RefPath(target); ok {
			st = st.SetPath(path, t)
		}
		a.record(target, t)
		return st
	}
	_, st = a.expr(target, st)
	return st
}

// writable returns the declared type of property name of t when writes to
// it are checked
func (a *analyzer) writable(t types.Type, name string) (types.Type, bool) {
	switch t := t.(type) {
	case *types.Object:
		if f, ok := t.Field(name); ok {
			return f.Type, true
		}
	case types.Instance:
		for cur := t.Class; cur != nil; cur = cur.Super {
			if f, ok := cur.Own(name); ok && !f.Method {
				return f.Type, true
			}
		}
	}
	return nil, false
}

func (a *analyzer) assignment(e *ast.Assign, st State) (types.Type, State) {
	if e.Op == "=" || e.Op == "" {
		t, st := a.expr(e.Value, st)
		return t, a.assignTo(e.Target, e.Value, t, st)
	}
	cur, st := a.expr(e.Target, st)
	op := strings.TrimSuffix(e.Op, "=")
	var res types.Type
	switch op {
	case "&&", "||", "??":
		var vt types.Type
		vt, st = a.expr(e.Value, st)
		keep := types.RefineTruthy(cur, op == "||")
		if op == "??" {
			keep = types.RefineNullish(cur, true, true, false)
		}
		res = types.NewUnion(keep, vt)
	default:
		var vt types.Type
		vt, st = a.expr(e.Value, st)
		var err error
		res, err = types.Binary(op, cur, vt)
		if err != nil {
			a.operandError(e, err)
		}
	}
	return res, a.assignTo(e.Target, e, res, st)
}

func (a *analyzer) operandError(at ast.Positioner, err error) {
	a.report(flowerr.New(flowerr.NewTypeMismatch{Positioner: ast.RangeOf(at), Message: err.Error()}))
}

func (a *analyzer) unary(e *ast.Unary, st State) (types.Type, State) {
	if e.Op == "!" {
		_, tt, ff := a.cond(e.X, st)
		return types.BooleanT, Join(tt, ff)
	}
	t, st := a.expr(e.X, st)
	res, err := types.UnaryOp(e.Op, t)
	if err != nil {
		a.operandError(e, err)
	}
	return res, st
}

func (a *analyzer) binary(e *ast.Binary, st State) (types.Type, State) {
	l, st := a.expr(e.X, st)
	r, st := a.expr(e.Y, st)
	res, err := types.Binary(e.Op, l, r)
	if err != nil {
		a.operandError(e, err)
	}
	return res, st
}

// logical evaluates && || and ??, returning the states where the whole
// expression is truthy and falsy
func (a *analyzer) logical(e *ast.Logical, st State) (t types.Type, tt, ff State) {
	switch e.Op {
	case "&&":
		xt, xtt, xff := a.cond(e.X, st)
		yt, ytt, yff := a.cond(e.Y, xtt)
		return types.NewUnion(types.RefineTruthy(xt, false), yt), ytt, Join(xff, yff)
	case "||":
		xt, xtt, xff := a.cond(e.X, st)
		yt, ytt, yff := a.cond(e.Y, xff)
		return types.NewUnion(types.RefineTruthy(xt, true), yt), Join(xtt, ytt), yff
	default:
		xt, st := a.expr(e.X, st)
		present := a.refineExpr(e.X, st, func(t types.Type) types.Type {
			return types.RefineNullish(t, true, true, false)
		})
		absent := a.refineExpr(e.X, st, func(t types.Type) types.Type {
			return types.RefineNullish(t, true, true, true)
		})
		yt, ytt, yff := a.cond(e.Y, absent)
		res := types.NewUnion(types.RefineNullish(xt, true, true, false), yt)
		return res, Join(present, ytt), Join(present, yff)
	}
}

func (a *analyzer) array(e *ast.ArrayLit, st State) (types.Type, State) {
	var elems []types.Type
	for _, el := range e.Elems {
		if el == nil {
			elems = append(elems, types.VoidT)
			continue
		}
		var t types.Type
		t, st = a.expr(el, st)
		elems = append(elems, t)
	}
	if len(elems) == 0 {
		return types.Array{Elem: types.AnyT}, st
	}
	return types.Array{Elem: types.NewUnion(elems...)}, st
}

func (a *analyzer) objectLit(e *ast.ObjectLit, st State) (types.Type, State) {
	obj := &types.Object{Exact: true, Sealed: len(e.Props) > 0}
	set := func(f types.Field) {
		if i := fieldIndex(obj.Fields, f.Name); i >= 0 {
			obj.Fields[i] = f
			return
		}
		obj.Fields = append(obj.Fields, f)
	}
	for _, p := range e.Props {
		if p.KeyExpr != nil {
			_, st = a.expr(p.KeyExpr, st)
		}
		var t types.Type
		t, st = a.expr(p.Value, st)
		switch p.Kind {
		case ast.PropSpread:
			if spread, ok := t.(*types.Object); ok {
				for _, f := range spread.Fields {
					set(f)
				}
				obj.Exact = obj.Exact && spread.Exact
			} else if !types.IsPrim(t, types.Null) && !types.IsPrim(t, types.Void) {
				obj.Exact = false
			}
		case ast.PropGet:
			if fn, ok := t.(*types.Func); ok {
				set(types.Field{Name: p.Key, Type: fn.Return})
			}
		case ast.PropSet:
			if fn, ok := t.(*types.Func); ok && len(fn.Params) > 0 {
				if _, exists := obj.Field(p.Key); !exists {
					set(types.Field{Name: p.Key, Type: fn.Params[0].Type})
				}
			}
		default:
			if p.KeyExpr != nil {
				obj.Sealed = false
				continue
			}
			set(types.Field{Name: p.Key, Type: t, Method: p.Kind == ast.PropMethod})
		}
	}
	return obj, st
}

// havoc forgets what calls may have changed: bindings written by closures
// go back to their general type and property refinements are dropped
func (a *analyzer) havoc(st State) State {
	for _, b := range a.closureWritten {
		e, ok := st.Get(b)
		if !ok {
			continue
		}
		e.Type = a.general(b)
		if e.Init == Uninitialized {
			e.Init = MaybeInitialized
		}
		st = st.Set(b, e)
	}
	return st.ForgetPaths()
}

func (a *analyzer) call(e *ast.Call, st State) (types.Type, State) {
	var ct types.Type
	ct, st = a.expr(e.Callee, st)
	args := make([]types.Type, len(e.Args))
	for i, arg := range e.Args {
		args[i], st = a.expr(arg, st)
	}
	if e.Optional {
		ct = types.RefineNullish(ct, true, true, false)
	}
	res := a.apply(e, ast.ExprString(e.Callee), ct, args)
	if e.Optional {
		res = types.NewUnion(res, types.VoidT)
	}
	return res, a.havoc(st)
}

// apply returns the result of calling a value of type ct with arguments of
// types args
func (a *analyzer) apply(e *ast.Call, name string, ct types.Type, args []types.Type) types.Type {
	switch ct := ct.(type) {
	case *types.Func:
		return a.callFunc(e, name, ct, args)
	case types.Union:
		var results []types.Type
		for _, m := range ct.Members {
			results = append(results, a.apply(e, name, m, args))
		}
		return types.NewUnion(results...)
	case types.Prim:
		if ct.Kind == types.Any || ct.Kind == types.Empty {
			return ct
		}
	case types.Instance, types.Interface, types.Module, *types.TypeParam, types.Destructor, types.Intersection:
		return types.AnyT
	}
	a.report(flowerr.New(flowerr.NewTypeMismatch{
		Positioner: ast.RangeOf(e.Callee),
		Message:    fmt.Sprintf("Cannot call `%s` because %s is not a function.", name, ct),
	}))
	return types.AnyT
}

func (a *analyzer) callFunc(e *ast.Call, name string, fn *types.Func, args []types.Type) types.Type {
	m := map[*types.TypeParam]types.Type{}
	if len(fn.TypeParams) > 0 {
		for i, p := range fn.Params {
			if i < len(args) {
				types.Infer(p.Type, args[i], fn.TypeParams, m)
			}
		}
	}
	subst := func(t types.Type) types.Type {
		if len(m) == 0 {
			return t
		}
		return types.Subst(t, m)
	}
	// a spread argument may fill any number of parameters
	spread := slices.IndexFunc(e.Args, func(arg ast.Expr) bool {
		o, ok := arg.(*ast.Opaque)
		return ok && o.X != nil
	})
	for i, p := range fn.Params {
		if spread >= 0 && i >= spread {
			break
		}
		if i >= len(args) {
			if !p.Optional && !types.IsSubtype(types.VoidT, p.Type) {
				a.report(flowerr.New(flowerr.NewTypeMismatch{
					Positioner: e.Range,
					Message:    fmt.Sprintf("Cannot call `%s` because function requires another argument.", name),
				}))
			}
			continue
		}
		a.checkFlow(e.Args[i], args[i], subst(p.Type))
	}
	if fn.Rest != nil {
		elem := elemType(fn.Rest)
		for i := len(fn.Params); i < len(args); i++ {
			a.checkFlow(e.Args[i], args[i], subst(elem))
		}
	}
	return subst(fn.Return)
}

// construct types `new C(...)`
func (a *analyzer) construct(e *ast.New, st State) (types.Type, State) {
	var ct types.Type
	ct, st = a.expr(e.Callee, st)
	args := make([]types.Type, len(e.Args))
	for i, arg := range e.Args {
		args[i], st = a.expr(arg, st)
	}
	var res types.Type = types.AnyT
	switch c := ct.(type) {
	case types.ClassOf:
		res = types.Instance{Class: c.Class}
		if ctor := a.constructor(c.Class); ctor != nil {
			a.callFunc(&ast.Call{Range: e.Range, Callee: e.Callee, Args: e.Args}, ast.ExprString(e.Callee), ctor, args)
		}
	case types.Prim:
		if c.Kind != types.Any && c.Kind != types.Empty {
			a.report(flowerr.New(flowerr.NewTypeMismatch{
				Positioner: ast.RangeOf(e.Callee),
				Message:    fmt.Sprintf("Cannot construct `%s` because %s is not a class.", ast.ExprString(e.Callee), c),
			}))
		}
	}
	return res, a.havoc(st)
}

// constructor returns the signature of the nearest constructor of c
func (a *analyzer) constructor(c *types.ClassDef) *types.Func {
	for cur := c; cur != nil; cur = cur.Super {
		node, ok := a.classNodes[cur]
		if !ok {
			return nil
		}
		for _, m := range node.Members {
			if m.Kind == ast.ConstructorMember && m.Func != nil {
				return a.signature(m.Func)
			}
		}
	}
	return nil
}

func (a *analyzer) member(e *ast.Member, st State) (types.Type, State) {
	var ot types.Type
	ot, st = a.expr(e.X, st)
	if path, ok := ast.RefPath(e); ok {
		if t, refined := st.Path(path); refined {
			if e.Computed() {
				_, st = a.expr(e.Index, st)
			}
			return t, st
		}
	}
	base := ot
	if e.Optional {
		base = types.RefineNullish(ot, true, true, false)
	}
	var res types.Type
	if e.Computed() {
		var it types.Type
		it, st = a.expr(e.Index, st)
		if lit, ok := e.Index.(*ast.StringLit); ok {
			res = a.lookup(e, lit.Value, base)
		} else if t, ok := types.Index(base, it); ok {
			res = t
		} else {
			a.report(flowerr.New(flowerr.NewTypeMismatch{
				Positioner: e.Range,
				Message:    fmt.Sprintf("Cannot access `%s` because %s cannot be indexed by %s.", ast.ExprString(e), base, it),
			}))
			res = types.AnyT
		}
	} else {
		res = a.lookup(e, e.Prop, base)
	}
	if e.Optional {
		res = types.NewUnion(res, types.VoidT)
	}
	return res, st
}

func (a *analyzer) lookup(e *ast.Member, name string, t types.Type) types.Type {
	res, ok := types.Lookup(t, name)
	if ok {
		return res
	}
	at := e.PropRange
	if e.Computed() {
		at = ast.RangeOf(e.Index)
	}
	a.report(flowerr.New(flowerr.NewTypeMismatch{
		Positioner: at,
		Message:    fmt.Sprintf("Cannot get `%s` because property `%s` is missing in `%s`.", ast.ExprString(e), name, t),
	}))
	return types.AnyT
}
