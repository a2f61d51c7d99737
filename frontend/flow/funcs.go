package flow

import (
	"github.com/cottand/flowty/frontend/ast"
	"github.com/cottand/flowty/frontend/flowerr"
	"github.com/cottand/flowty/frontend/predicate"
	"github.com/cottand/flowty/frontend/scope"
	"github.com/cottand/flowty/frontend/types"
)

// general returns the type a binding may hold anywhere in its scope: its
// annotation when it has one, otherwise what its declaration implies or
// the union of everything assigned to it so far
func (a *analyzer) general(b *scope.Binding) types.Type {
	if t, ok := a.annotated[b]; ok {
		return t
	}
	var t types.Type
	switch b.Kind {
	case scope.ParamBinding:
		p := b.Node.(*ast.Param)
		t = a.paramType(p)
		if p.Name == nil {
			// a name bound by a destructuring pattern
			t = types.AnyT
		} else if fn := a.paramOwner(b); fn != nil && fn.Rest == p && p.Annot == nil {
			t = types.Array{Elem: types.AnyT}
		}
	case scope.FunctionBinding:
		fn := funcOf(b)
		if fn == nil {
			return types.AnyT
		}
		t = a.signature(fn)
	case scope.ClassBinding:
		decl, ok := b.Node.(*ast.ClassDecl)
		if !ok {
			return types.AnyT
		}
		t = types.ClassOf{Class: a.classDef(decl.Class)}
	case scope.ImportBinding:
		t = types.AnyT
		if spec, ok := b.Node.(*ast.ImportSpec); ok && spec.Kind == ast.ImportNamespace {
			t = types.Module{Path: a.importSource(spec)}
		}
	case scope.CatchBinding:
		t = types.AnyT
	default:
		if b.Annot == nil {
			if assigned, ok := a.assigned[b]; ok {
				return assigned
			}
			return types.AnyT
		}
		t = a.annot(b.Annot)
	}
	a.annotated[b] = t
	return t
}

func (a *analyzer) paramType(p *ast.Param) types.Type {
	if p.Annot == nil {
		return types.AnyT
	}
	t := a.annot(p.Annot)
	if p.Optional && p.Default == nil {
		return types.NewUnion(t, types.VoidT)
	}
	return t
}

func (a *analyzer) paramOwner(b *scope.Binding) *ast.Function {
	return a.graph.Scope(b.Scope).Func
}

// funcOf returns the function a binding is declared by, if any
func funcOf(b *scope.Binding) *ast.Function {
	switch n := b.Node.(type) {
	case *ast.FuncDecl:
		return n.Function
	case *ast.FuncExpr:
		return n.Function
	case *ast.Declarator:
		if fe, ok := n.Init.(*ast.FuncExpr); ok && b.Kind == scope.ConstBinding {
			return fe.Function
		}
	}
	return nil
}

// signature returns the function type of fn. The return type of an
// unannotated function is inferred from its body the first time it is
// asked for; recursive calls made meanwhile see any.
func (a *analyzer) signature(fn *ast.Function) *types.Func {
	if sig, ok := a.sigs[fn]; ok {
		return sig
	}
	sig := &types.Func{Doc: string(fn.Doc), Return: types.AnyT}
	a.sigs[fn] = sig
	for i := range fn.TypeParams {
		sig.TypeParams = append(sig.TypeParams, a.typeParam(&fn.TypeParams[i]))
	}
	for _, p := range fn.Params {
		name := ""
		if p.Name != nil {
			name = p.Name.Name
		}
		sig.Params = append(sig.Params, types.Param{
			Name:     name,
			Type:     a.paramType(&p),
			Optional: p.Optional || p.Default != nil,
		})
	}
	if fn.Rest != nil {
		sig.Rest = types.Array{Elem: types.AnyT}
		if fn.Rest.Annot != nil {
			sig.Rest = a.annot(fn.Rest.Annot)
		}
		if fn.Rest.Name != nil {
			sig.RestName = fn.Rest.Name.Name
		}
	}
	if p, ok := a.predicateOf(fn); ok {
		sig.Checks = p
	}
	switch {
	case fn.Return != nil:
		sig.Return = a.annot(fn.Return)
	case fn.Declared || fn.Async:
	default:
		if t, ok := a.returned[fn]; ok {
			sig.Return = t
		} else if !a.analysed[fn] {
			a.body(fn)
		}
	}
	return sig
}

// predicateOf infers the predicate a %checks function establishes
func (a *analyzer) predicateOf(fn *ast.Function) (predicate.Predicate, bool) {
	if fn.Checks == nil {
		return nil, false
	}
	if p, ok := a.predicates[fn]; ok {
		return p, p != nil
	}
	// recursive predicates resolve to nothing
	a.predicates[fn] = nil
	p, ok := predicate.Infer(fn, a.resolvePredicate)
	if !ok {
		return nil, false
	}
	a.predicates[fn] = p
	return p, true
}

func (a *analyzer) resolvePredicate(callee ast.Expr) (predicate.Predicate, bool) {
	id, ok := callee.(*ast.Ident)
	if !ok {
		return nil, false
	}
	b, ok := a.graph.Refs[id]
	if !ok {
		return nil, false
	}
	fn := funcOf(b)
	if fn == nil {
		return nil, false
	}
	return a.predicateOf(fn)
}

// checkReturn checks a returned value against the declared return type
func (a *analyzer) checkReturn(fn *ast.Function, e ast.Expr, t types.Type) {
	if fn == nil || fn.Return == nil {
		return
	}
	want := a.annot(fn.Return)
	if e == nil {
		if !types.IsSubtype(types.VoidT, want) {
			a.report(flowerr.New(flowerr.NewTypeMismatch{Positioner: fn.Return, Expected: want, Found: types.VoidT}))
		}
		return
	}
	a.checkFlow(e, t, want)
}

// checkFlow reports a mismatch when a value of type t flows into a place
// expecting want
func (a *analyzer) checkFlow(e ast.Expr, t, want types.Type) bool {
	if types.IsSubtype(t, want) {
		return true
	}
	a.report(flowerr.New(flowerr.NewTypeMismatch{Positioner: ast.RangeOf(e), Expected: want, Found: t}))
	return false
}
