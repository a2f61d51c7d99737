package flow

import (
	"github.com/cottand/flowty/frontend/ast"
	"github.com/cottand/flowty/frontend/flowerr"
	"github.com/cottand/flowty/frontend/scope"
	"github.com/cottand/flowty/frontend/types"
)

// annot converts a type annotation to a type, resolving names in the scope
// the annotation is written in
func (a *analyzer) annot(t ast.TypeAnnot) types.Type {
	if t == nil {
		return types.AnyT
	}
	return a.convert(t, a.graph.ScopeAt(t.Pos()), nil)
}

// convert resolves t in sc. params maps the type parameters of a generic
// alias being instantiated.
func (a *analyzer) convert(t ast.TypeAnnot, sc scope.ScopeID, params map[string]types.Type) types.Type {
	switch t := t.(type) {
	case *ast.NamedType:
		return a.named(t, sc, params)
	case *ast.LiteralType:
		return types.Literal{Value: t.Value}
	case *ast.MaybeType:
		return types.Maybe{Elem: a.convert(t.Elem, sc, params)}
	case *ast.UnionType:
		return types.NewUnion(a.convertAll(t.Types, sc, params)...)
	case *ast.IntersectionType:
		return types.NewIntersection(a.convertAll(t.Types, sc, params)...)
	case *ast.ArrayType:
		return types.Array{Elem: a.convert(t.Elem, sc, params)}
	case *ast.TupleType:
		if len(t.Elems) == 0 {
			return types.Array{Elem: types.EmptyT}
		}
		return types.Array{Elem: types.NewUnion(a.convertAll(t.Elems, sc, params)...)}
	case *ast.ObjectType:
		return a.object(t, sc, params)
	case *ast.FuncType:
		fn := &types.Func{}
		for _, p := range t.Params {
			fn.Params = append(fn.Params, types.Param{Name: p.Name, Type: a.convert(p.Type, sc, params), Optional: p.Optional})
		}
		if t.Rest != nil {
			fn.Rest = a.convert(t.Rest.Type, sc, params)
			fn.RestName = t.Rest.Name
		}
		fn.Return = a.convert(t.Return, sc, params)
		return fn
	case *ast.TypeofType:
		if b, ok := a.graph.Refs[t.X]; ok {
			return a.general(b)
		}
		if g, ok := types.Globals[t.X.Name]; ok {
			return g
		}
		return types.AnyT
	case *ast.IndexedAccessType:
		obj := a.convert(t.Obj, sc, params)
		index := a.convert(t.Index, sc, params)
		if t.Optional {
			obj = types.Filter(obj, func(m types.Type) bool {
				return !types.IsPrim(m, types.Null) && !types.IsPrim(m, types.Void)
			})
		}
		res, err := types.ApplyDestructor(types.ElementTypeD, []types.Type{obj, index})
		if err != nil {
			a.report(flowerr.New(flowerr.NewNotObjectType{Positioner: t.Range, From: err}))
			return types.AnyT
		}
		if t.Optional {
			return types.NewUnion(res, types.VoidT)
		}
		return res
	}
	return types.AnyT
}

func (a *analyzer) convertAll(ts []ast.TypeAnnot, sc scope.ScopeID, params map[string]types.Type) []types.Type {
	out := make([]types.Type, len(ts))
	for i, t := range ts {
		out[i] = a.convert(t, sc, params)
	}
	return out
}

func (a *analyzer) object(t *ast.ObjectType, sc scope.ScopeID, params map[string]types.Type) types.Type {
	obj := &types.Object{
		Exact:  t.Exact || a.opts.ExactByDefault && !t.Inexact,
		Sealed: true,
	}
	for _, s := range t.Spreads {
		if spread, ok := a.convert(s, sc, params).(*types.Object); ok {
			obj.Fields = append(obj.Fields, spread.Fields...)
			obj.Exact = obj.Exact && spread.Exact
		} else {
			obj.Exact = false
		}
	}
	for _, p := range t.Props {
		f := types.Field{
			Name:     p.Name,
			Type:     a.convert(p.Type, sc, params),
			Variance: p.Variance,
			Optional: p.Optional,
			Method:   p.Method,
			Doc:      string(p.Doc),
		}
		if i := fieldIndex(obj.Fields, p.Name); i >= 0 {
			obj.Fields[i] = f
		} else {
			obj.Fields = append(obj.Fields, f)
		}
	}
	if len(t.Indexers) > 0 {
		ix := t.Indexers[0]
		obj.Indexer = &types.Indexer{Key: a.convert(ix.Key, sc, params), Value: a.convert(ix.Value, sc, params)}
	}
	return obj
}

func fieldIndex(fields []types.Field, name string) int {
	for i, f := range fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (a *analyzer) named(t *ast.NamedType, sc scope.ScopeID, params map[string]types.Type) types.Type {
	args := a.convertAll(t.Args, sc, params)
	if t.Qualifier != "" {
		// members of other modules are not resolved
		return types.AnyT
	}
	if p, ok := params[t.Name]; ok {
		return p
	}
	if tb, ok := a.graph.LookupType(sc, t.Name); ok {
		return a.typeBinding(tb, args)
	}
	if p, ok := types.PrimByName(t.Name); ok {
		return p
	}
	if kind, ok := types.DestructorByName(t.Name); ok {
		res, err := types.ApplyDestructor(kind, args)
		if err != nil {
			a.report(flowerr.New(flowerr.NewNotObjectType{Positioner: t.Range, From: err}))
			return types.AnyT
		}
		return res
	}
	switch t.Name {
	case "Array", "$ReadOnlyArray":
		elem := types.AnyT
		if len(args) > 0 {
			elem = args[0]
		}
		return types.Array{Elem: elem, ReadOnly: t.Name == "$ReadOnlyArray"}
	case "Class":
		if len(args) == 1 {
			if inst, ok := args[0].(types.Instance); ok {
				return types.ClassOf{Class: inst.Class}
			}
		}
	}
	return types.AnyT
}

// typeBinding returns the type a type name stands for, instantiated with
// args when it is generic
func (a *analyzer) typeBinding(tb *scope.TypeBinding, args []types.Type) types.Type {
	switch tb.Kind {
	case scope.AliasType, scope.OpaqueType:
		alias := tb.Node.(*ast.TypeAlias)
		if len(alias.TypeParams) > 0 {
			params := map[string]types.Type{}
			for i, tp := range alias.TypeParams {
				arg := types.AnyT
				if i < len(args) {
					arg = args[i]
				}
				params[tp.Name] = arg
			}
			if a.resolving[alias] {
				return types.AnyT
			}
			a.resolving[alias] = true
			defer delete(a.resolving, alias)
			return a.convert(alias.Type, a.graph.ScopeAt(alias.Type.Pos()), params)
		}
		if t, ok := a.aliases[alias]; ok {
			return t
		}
		if a.resolving[alias] {
			// recursive aliases are not unfolded
			return types.AnyT
		}
		a.resolving[alias] = true
		t := a.convert(alias.Type, a.graph.ScopeAt(alias.Type.Pos()), nil)
		delete(a.resolving, alias)
		a.aliases[alias] = t
		return t
	case scope.InterfaceType:
		return types.Interface{Def: a.interfaceDef(tb.Node.(*ast.InterfaceDecl))}
	case scope.ClassType:
		return types.Instance{Class: a.classDef(tb.Node.(*ast.ClassDecl).Class)}
	case scope.TypeParamType:
		return a.typeParam(tb.Node.(*ast.TypeParam))
	case scope.ModuleNamespace:
		spec := tb.Node.(*ast.ImportSpec)
		return types.Module{Path: a.importSource(spec)}
	}
	return types.AnyT
}

func (a *analyzer) importSource(spec *ast.ImportSpec) string {
	for _, s := range a.file.Body {
		if d, ok := s.(*ast.ImportDecl); ok {
			for i := range d.Specs {
				if &d.Specs[i] == spec {
					return d.Source
				}
			}
		}
	}
	return ""
}

func (a *analyzer) typeParam(tp *ast.TypeParam) *types.TypeParam {
	if p, ok := a.typeParams[tp]; ok {
		return p
	}
	p := &types.TypeParam{ID: tp.Range, Name: tp.Name}
	a.typeParams[tp] = p
	if tp.Bound != nil {
		p.Bound = a.annot(tp.Bound)
	}
	return p
}

func (a *analyzer) interfaceDef(d *ast.InterfaceDecl) *types.InterfaceDef {
	if def, ok := a.interfaces[d]; ok {
		return def
	}
	def := &types.InterfaceDef{ID: d.Name.Range, Name: d.Name.Name, Doc: string(d.Doc)}
	a.interfaces[d] = def
	sc := a.graph.ScopeAt(d.Pos())
	for _, e := range d.Extends {
		if iface, ok := a.convert(e, sc, nil).(types.Interface); ok {
			def.Extends = append(def.Extends, iface.Def)
		}
	}
	if d.Body != nil {
		if obj, ok := a.object(d.Body, sc, nil).(*types.Object); ok {
			def.Fields = obj.Fields
		}
	}
	return def
}
