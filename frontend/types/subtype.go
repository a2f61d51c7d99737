package types

import (
	"github.com/cottand/flowty/frontend/ast"
)

// IsSubtype reports whether every value of a is a value of b
func IsSubtype(a, b Type) bool {
	s := subtyper{assumed: map[[2]uint64]bool{}}
	return s.sub(a, b)
}

// subtyper carries the pairs currently being compared, so that recursive
// class and interface types terminate
type subtyper struct {
	assumed map[[2]uint64]bool
}

func (s subtyper) sub(a, b Type) bool {
	if Equal(a, b) {
		return true
	}
	if IsPrim(a, Any) || IsPrim(b, Any) || IsPrim(b, Mixed) || IsPrim(a, Empty) {
		return true
	}
	key := [2]uint64{a.Hash(), b.Hash()}
	if s.assumed[key] {
		return true
	}
	s.assumed[key] = true
	defer delete(s.assumed, key)

	// decompose the left side first so that a union on the left is checked
	// member by member against the whole right side
	switch a := a.(type) {
	case Union:
		for _, m := range a.Members {
			if !s.sub(m, b) {
				return false
			}
		}
		return true
	case Maybe:
		return s.sub(NullT, b) && s.sub(VoidT, b) && s.sub(a.Elem, b)
	case Optional:
		return s.sub(VoidT, b) && s.sub(a.Elem, b)
	case *TypeParam:
		if tp, ok := b.(*TypeParam); ok {
			return a.ID == tp.ID && a.Name == tp.Name
		}
		if a.Bound == nil {
			return false
		}
		return s.sub(a.Bound, b)
	case Intersection:
		for _, m := range a.Members {
			if s.sub(m, b) {
				return true
			}
		}
	}

	switch b := b.(type) {
	case Union:
		for _, m := range b.Members {
			if s.sub(a, m) {
				return true
			}
		}
		return false
	case Maybe:
		return IsPrim(a, Null) || IsPrim(a, Void) || s.sub(a, b.Elem)
	case Optional:
		return IsPrim(a, Void) || s.sub(a, b.Elem)
	case Intersection:
		for _, m := range b.Members {
			if !s.sub(a, m) {
				return false
			}
		}
		return true
	case Interface:
		fields, ok := s.structuralFields(a)
		if !ok {
			return false
		}
		return s.fieldsSub(fields, b.Def.AllFields(), false)
	}

	switch a := a.(type) {
	case Literal:
		if p, ok := b.(Prim); ok {
			return a.Base() == p
		}
	case Prim:
		// structural equality already compared equal primitives
	case *Object:
		if bo, ok := b.(*Object); ok {
			return s.objectSub(a, bo)
		}
	case Instance:
		switch b := b.(type) {
		case Instance:
			return a.Class.Inherits(b.Class)
		case *Object:
			if b.Exact {
				return false
			}
			return s.fieldsSub(InstanceFields(a.Class), b.Fields, false)
		}
	case Interface:
		if bo, ok := b.(*Object); ok && !bo.Exact {
			return s.fieldsSub(a.Def.AllFields(), bo.Fields, false)
		}
	case ClassOf:
		if bc, ok := b.(ClassOf); ok {
			return a.Class.Inherits(bc.Class)
		}
	case Array:
		if ba, ok := b.(Array); ok {
			if ba.ReadOnly {
				return s.sub(a.Elem, ba.Elem)
			}
			return !a.ReadOnly && s.sub(a.Elem, ba.Elem) && s.sub(ba.Elem, a.Elem)
		}
	case *Func:
		if bf, ok := b.(*Func); ok {
			return s.funcSub(a, bf)
		}
	}
	return false
}

// structuralFields returns the properties of t when it can be compared
// structurally against an interface
func (s subtyper) structuralFields(t Type) ([]Field, bool) {
	switch t := t.(type) {
	case *Object:
		return t.Fields, true
	case Instance:
		return InstanceFields(t.Class), true
	case Interface:
		return t.Def.AllFields(), true
	}
	return nil, false
}

func (s subtyper) objectSub(a, b *Object) bool {
	// unsealed objects still accumulate properties, and are accepted
	// wherever an object is expected
	if !a.Sealed {
		return true
	}
	if b.Exact && !a.Exact {
		return false
	}
	if !s.fieldsSub(a.Fields, b.Fields, a.Indexer != nil) {
		return false
	}
	if a.Indexer != nil && b.Indexer == nil {
		for _, bf := range b.Fields {
			if _, ok := a.Field(bf.Name); !ok && !s.sub(a.Indexer.Value, bf.Type) {
				return false
			}
		}
	}
	for _, af := range a.Fields {
		if _, ok := b.Field(af.Name); ok {
			continue
		}
		if b.Exact {
			return false
		}
		if b.Indexer != nil && !s.sub(af.Type, b.Indexer.Value) {
			return false
		}
	}
	if a.Indexer != nil && b.Indexer != nil {
		return s.sub(a.Indexer.Key, b.Indexer.Key) && s.sub(b.Indexer.Key, a.Indexer.Key) &&
			s.sub(a.Indexer.Value, b.Indexer.Value) && s.sub(b.Indexer.Value, a.Indexer.Value)
	}
	return true
}

// fieldsSub checks that the properties of a satisfy each property of b,
// honouring variance. Missing properties are allowed when optional in b, or
// when lenient is set because a has an indexer that is checked separately.
func (s subtyper) fieldsSub(a, b []Field, lenient bool) bool {
	for _, bf := range b {
		af, ok := findField(a, bf.Name)
		if !ok {
			if bf.Optional || lenient {
				continue
			}
			return false
		}
		if af.Optional && !bf.Optional {
			return false
		}
		switch bf.Variance {
		case ast.Covariant:
			if !s.sub(af.Type, bf.Type) {
				return false
			}
		case ast.Contravariant:
			if !s.sub(bf.Type, af.Type) {
				return false
			}
		default:
			// methods are read-only in practice, compare them covariantly
			if af.Method || bf.Method {
				if !s.sub(af.Type, bf.Type) {
					return false
				}
				continue
			}
			if !s.sub(af.Type, bf.Type) || !s.sub(bf.Type, af.Type) {
				return false
			}
		}
	}
	return true
}

func findField(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (s subtyper) funcSub(a, b *Func) bool {
	for i, ap := range a.Params {
		if i >= len(b.Params) {
			if ap.Optional {
				continue
			}
			if b.Rest != nil {
				if !s.sub(restElem(b.Rest), ap.Type) {
					return false
				}
				continue
			}
			return false
		}
		if !s.sub(b.Params[i].Type, ap.Type) {
			return false
		}
	}
	if a.Rest != nil {
		for _, bp := range b.Params[min(len(a.Params), len(b.Params)):] {
			if !s.sub(bp.Type, restElem(a.Rest)) {
				return false
			}
		}
	}
	return s.sub(a.Return, b.Return)
}

func restElem(t Type) Type {
	if arr, ok := t.(Array); ok {
		return arr.Elem
	}
	return AnyT
}

// InstanceFields returns the instance members of c, then the members it
// inherits that it does not override
func InstanceFields(c *ClassDef) []Field {
	seen := map[string]bool{}
	var out []Field
	for cur := c; cur != nil; cur = cur.Super {
		for _, f := range cur.Fields {
			if !seen[f.Name] {
				seen[f.Name] = true
				out = append(out, f)
			}
		}
	}
	return out
}
