package flow

import (
	"go/token"

	"github.com/cottand/flowty/frontend/ast"
	"github.com/cottand/flowty/frontend/flowerr"
	"github.com/cottand/flowty/frontend/scope"
	"github.com/cottand/flowty/frontend/types"
)

// Result is the outcome of analysing one module. It is not modified after
// Analyze returns, so it may be queried concurrently.
type Result struct {
	File   *ast.File
	Graph  *scope.Graph
	Errors *flowerr.Errors

	exprs        map[ast.Expr]types.Type
	order        []ast.Expr
	bindings     map[*scope.Binding]types.Type
	typeBindings map[*scope.TypeBinding]types.Type
	classes      map[*ast.Class]*types.ClassDef
}

func newResult(file *ast.File, graph *scope.Graph) *Result {
	return &Result{
		File:         file,
		Graph:        graph,
		exprs:        map[ast.Expr]types.Type{},
		bindings:     map[*scope.Binding]types.Type{},
		typeBindings: map[*scope.TypeBinding]types.Type{},
		classes:      map[*ast.Class]*types.ClassDef{},
	}
}

func (r *Result) record(e ast.Expr, t types.Type) {
	if _, seen := r.exprs[e]; !seen {
		r.order = append(r.order, e)
	}
	r.exprs[e] = t
}

// TypeOf returns the type e had where it was evaluated
func (r *Result) TypeOf(e ast.Expr) (types.Type, bool) {
	t, ok := r.exprs[e]
	return t, ok
}

// TypeAt returns the type of the innermost expression whose range contains
// pos, along with the expression
func (r *Result) TypeAt(pos token.Pos) (types.Type, ast.Expr, bool) {
	var best ast.Expr
	for _, e := range r.order {
		if !ast.RangeOf(e).Contains(pos) {
			continue
		}
		if best == nil || ast.RangeOf(e).Width() <= ast.RangeOf(best).Width() {
			best = e
		}
	}
	if best == nil {
		return nil, nil, false
	}
	return r.exprs[best], best, true
}

// BindingType returns the general type of b: its annotation, or the union
// of the types assigned to it when it has none
func (r *Result) BindingType(b *scope.Binding) types.Type {
	if t, ok := r.bindings[b]; ok {
		return t
	}
	return types.AnyT
}

// TypeBindingType returns the type a type name stands for
func (r *Result) TypeBindingType(tb *scope.TypeBinding) types.Type {
	if t, ok := r.typeBindings[tb]; ok {
		return t
	}
	return types.AnyT
}

// ClassDef returns the definition built for a class declaration or
// expression
func (r *Result) ClassDef(c *ast.Class) (*types.ClassDef, bool) {
	def, ok := r.classes[c]
	return def, ok
}
