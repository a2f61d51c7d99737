package types

import (
	"github.com/hashicorp/go-set/v3"
)

// NewUnion returns the normalised union of ts: nested unions are flattened,
// structurally equal members deduplicated, empty dropped, and any or mixed
// absorb everything else. Member order follows first occurrence.
func NewUnion(ts ...Type) Type {
	seen := set.NewHashSet[Type, uint64](len(ts))
	var members []Type
	var add func(t Type)
	add = func(t Type) {
		switch t := t.(type) {
		case Union:
			for _, m := range t.Members {
				add(m)
			}
			return
		case Prim:
			if t.Kind == Empty {
				return
			}
		}
		if seen.Insert(t) {
			members = append(members, t)
		}
	}
	for _, t := range ts {
		add(t)
	}
	if seen.Contains(AnyT) {
		return AnyT
	}
	if seen.Contains(MixedT) {
		return MixedT
	}
	switch len(members) {
	case 0:
		return EmptyT
	case 1:
		return members[0]
	}
	return Union{Members: members}
}

// NewIntersection is the intersection counterpart of NewUnion. Intersections
// with empty are empty, and mixed members are dropped.
func NewIntersection(ts ...Type) Type {
	seen := set.NewHashSet[Type, uint64](len(ts))
	var members []Type
	var add func(t Type)
	add = func(t Type) {
		switch t := t.(type) {
		case Intersection:
			for _, m := range t.Members {
				add(m)
			}
			return
		case Prim:
			if t.Kind == Mixed {
				return
			}
		}
		if seen.Insert(t) {
			members = append(members, t)
		}
	}
	for _, t := range ts {
		add(t)
	}
	if seen.Contains(EmptyT) {
		return EmptyT
	}
	if seen.Contains(AnyT) {
		return AnyT
	}
	switch len(members) {
	case 0:
		return MixedT
	case 1:
		return members[0]
	}
	return Intersection{Members: members}
}

// Flatten returns the union members t stands for, expanding ?T into
// null | void | T and Optional T into void | T
func Flatten(t Type) []Type {
	switch t := t.(type) {
	case Union:
		var out []Type
		for _, m := range t.Members {
			out = append(out, Flatten(m)...)
		}
		return out
	case Maybe:
		return append([]Type{NullT, VoidT}, Flatten(t.Elem)...)
	case Optional:
		return append([]Type{VoidT}, Flatten(t.Elem)...)
	case Prim:
		if t.Kind == Empty {
			return nil
		}
		if t.Kind == Boolean {
			return []Type{t}
		}
	}
	return []Type{t}
}

// Filter keeps the members of t for which keep returns true. The result
// keeps the Maybe and Optional wrappers of t when all of their extra members
// survive.
func Filter(t Type, keep func(Type) bool) Type {
	switch t := t.(type) {
	case Maybe:
		inner := Filter(t.Elem, keep)
		keepNull, keepVoid := keep(NullT), keep(VoidT)
		if keepNull && keepVoid {
			if IsPrim(inner, Empty) {
				return NewUnion(NullT, VoidT)
			}
			return Maybe{Elem: inner}
		}
		var out []Type
		if keepNull {
			out = append(out, NullT)
		}
		if keepVoid {
			out = append(out, VoidT)
		}
		return NewUnion(append(out, inner)...)
	case Optional:
		inner := Filter(t.Elem, keep)
		if keep(VoidT) {
			if IsPrim(inner, Empty) {
				return VoidT
			}
			return Optional{Elem: inner}
		}
		return inner
	case Union:
		var out []Type
		for _, m := range t.Members {
			out = append(out, Filter(m, keep))
		}
		return NewUnion(out...)
	}
	if keep(t) {
		return t
	}
	return EmptyT
}

// Map applies f to every member of the union t, rebuilding the union
func Map(t Type, f func(Type) Type) Type {
	if u, ok := t.(Union); ok {
		out := make([]Type, len(u.Members))
		for i, m := range u.Members {
			out[i] = f(m)
		}
		return NewUnion(out...)
	}
	return f(t)
}
