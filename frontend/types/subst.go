package types

import (
	"slices"
)

// Subst replaces the type parameters in t by their binding in m
func Subst(t Type, m map[*TypeParam]Type) Type {
	if len(m) == 0 {
		return t
	}
	switch t := t.(type) {
	case *TypeParam:
		if bound, ok := m[t]; ok {
			return bound
		}
		return t
	case Maybe:
		return Maybe{Elem: Subst(t.Elem, m)}
	case Optional:
		return Optional{Elem: Subst(t.Elem, m)}
	case Union:
		return NewUnion(substAll(t.Members, m)...)
	case Intersection:
		return NewIntersection(substAll(t.Members, m)...)
	case Array:
		return Array{Elem: Subst(t.Elem, m), ReadOnly: t.ReadOnly}
	case *Object:
		cp := *t
		cp.Fields = slices.Clone(t.Fields)
		for i := range cp.Fields {
			cp.Fields[i].Type = Subst(cp.Fields[i].Type, m)
		}
		if t.Indexer != nil {
			cp.Indexer = &Indexer{Key: Subst(t.Indexer.Key, m), Value: Subst(t.Indexer.Value, m)}
		}
		return &cp
	case *Func:
		cp := *t
		cp.Params = slices.Clone(t.Params)
		for i := range cp.Params {
			cp.Params[i].Type = Subst(cp.Params[i].Type, m)
		}
		if t.Rest != nil {
			cp.Rest = Subst(t.Rest, m)
		}
		cp.Return = Subst(t.Return, m)
		return &cp
	case Destructor:
		operands := substAll(t.Operands, m)
		if evaluated, err := ApplyDestructor(t.Kind, operands); err == nil {
			return evaluated
		}
		return Destructor{Kind: t.Kind, Operands: operands}
	}
	return t
}

func substAll(ts []Type, m map[*TypeParam]Type) []Type {
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = Subst(t, m)
	}
	return out
}

// Infer binds the type parameters of params that occur in param to the
// matching parts of arg, widening existing bindings with a union
func Infer(param, arg Type, params []*TypeParam, m map[*TypeParam]Type) {
	switch param := param.(type) {
	case *TypeParam:
		if !slices.Contains(params, param) {
			return
		}
		if prev, ok := m[param]; ok {
			m[param] = NewUnion(prev, arg)
		} else {
			m[param] = arg
		}
	case Maybe:
		Infer(param.Elem, Filter(arg, func(t Type) bool { return !IsPrim(t, Null) && !IsPrim(t, Void) }), params, m)
	case Optional:
		Infer(param.Elem, Filter(arg, func(t Type) bool { return !IsPrim(t, Void) }), params, m)
	case Array:
		if a, ok := arg.(Array); ok {
			Infer(param.Elem, a.Elem, params, m)
		}
	case *Object:
		if a, ok := arg.(*Object); ok {
			for _, f := range param.Fields {
				if af, found := a.Field(f.Name); found {
					Infer(f.Type, af.Type, params, m)
				}
			}
		}
	case *Func:
		if a, ok := arg.(*Func); ok {
			for i := range min(len(param.Params), len(a.Params)) {
				Infer(param.Params[i].Type, a.Params[i].Type, params, m)
			}
			Infer(param.Return, a.Return, params, m)
		}
	}
}
