package types

// Member is a property of a type as offered to completion. Inherited is set
// for members that come from a superclass or a builtin prototype, Proto only
// for those of Object.prototype and Function.prototype.
type Member struct {
	Field
	Inherited bool
	Proto     bool
}

// Lookup returns the type of reading property name from a value of type t.
// ok is false when values of t may not have the property.
func Lookup(t Type, name string) (result Type, ok bool) {
	switch t := t.(type) {
	case Prim:
		switch t.Kind {
		case Any, Empty:
			return t, true
		case String:
			return lookupFields(stringProto, name)
		case Number:
			return lookupFields(numberProto, name)
		case Boolean:
			return lookupFields(booleanProto, name)
		}
		return AnyT, false
	case Literal:
		return Lookup(t.Base(), name)
	case *Object:
		if f, found := t.Field(name); found {
			return fieldType(f), true
		}
		if t.Indexer != nil && IsSubtype(StringT, t.Indexer.Key) {
			return t.Indexer.Value, true
		}
		if !t.Sealed {
			return AnyT, true
		}
		if !t.Exact {
			return lookupFields(ObjectProto, name)
		}
		return AnyT, false
	case Array:
		return lookupFields(arrayProto(t.Elem), name)
	case Instance:
		if f, found := findField(InstanceFields(t.Class), name); found {
			return fieldType(f), true
		}
		return lookupFields(ObjectProto, name)
	case ClassOf:
		for cur := t.Class; cur != nil; cur = cur.Super {
			if f, found := findField(cur.Statics, name); found {
				return fieldType(f), true
			}
		}
		if name == "prototype" {
			return Instance{Class: t.Class}, true
		}
		return lookupFields(FunctionProto, name)
	case Interface:
		if f, found := findField(t.Def.AllFields(), name); found {
			return fieldType(f), true
		}
		return AnyT, false
	case *Func:
		return lookupFields(FunctionProto, name)
	case Module, Destructor:
		return AnyT, true
	case *TypeParam:
		if t.Bound == nil {
			return AnyT, false
		}
		return Lookup(t.Bound, name)
	case Union:
		var results []Type
		for _, m := range t.Members {
			res, found := Lookup(m, name)
			if !found {
				return AnyT, false
			}
			results = append(results, res)
		}
		return NewUnion(results...), true
	case Intersection:
		for _, m := range t.Members {
			if res, found := Lookup(m, name); found {
				return res, true
			}
		}
		return AnyT, false
	case Maybe, Optional:
		// reading a property of a possibly null or undefined value
		return AnyT, false
	}
	return AnyT, false
}

func fieldType(f Field) Type {
	if f.Optional {
		return Optional{Elem: f.Type}
	}
	return f.Type
}

func lookupFields(fields []Field, name string) (Type, bool) {
	if f, ok := findField(fields, name); ok {
		return fieldType(f), true
	}
	return AnyT, false
}

// Index returns the type of reading x[key] from a value of type t
func Index(t, key Type) (Type, bool) {
	switch t := t.(type) {
	case Prim:
		if t.Kind == Any || t.Kind == Empty {
			return t, true
		}
		if t.Kind == String && IsSubtype(key, NumberT) {
			return StringT, true
		}
	case Array:
		if IsSubtype(key, NumberT) {
			return t.Elem, true
		}
	case *Object:
		if lit, ok := key.(Literal); ok {
			if name, isStr := lit.Value.(string); isStr {
				return Lookup(t, name)
			}
		}
		if t.Indexer != nil && IsSubtype(key, t.Indexer.Key) {
			return t.Indexer.Value, true
		}
		if !t.Sealed {
			return AnyT, true
		}
	case Instance, Interface, ClassOf:
		if lit, ok := key.(Literal); ok {
			if name, isStr := lit.Value.(string); isStr {
				return Lookup(t, name)
			}
		}
	case Union:
		var results []Type
		for _, m := range t.Members {
			res, found := Index(m, key)
			if !found {
				return AnyT, false
			}
			results = append(results, res)
		}
		return NewUnion(results...), true
	case Module, Destructor:
		return AnyT, true
	}
	return AnyT, false
}

// Members enumerates the properties of t for completion: own members first,
// then inherited ones. Object.prototype is only offered for inexact objects
// and for classes defined in the module, not for declared classes.
func Members(t Type) []Member {
	own := func(fields []Field) []Member {
		out := make([]Member, len(fields))
		for i, f := range fields {
			out[i] = Member{Field: f}
		}
		return out
	}
	inherited := func(fields []Field) []Member {
		out := make([]Member, len(fields))
		for i, f := range fields {
			out[i] = Member{Field: f, Inherited: true}
		}
		return out
	}
	proto := func(fields []Field) []Member {
		out := inherited(fields)
		for i := range out {
			out[i].Proto = true
		}
		return out
	}

	switch t := t.(type) {
	case Prim:
		switch t.Kind {
		case String:
			return own(stringProto)
		case Number:
			return own(numberProto)
		case Boolean:
			return own(booleanProto)
		}
	case Literal:
		return Members(t.Base())
	case *Object:
		out := own(t.Fields)
		if !t.Exact {
			out = append(out, proto(ObjectProto)...)
		}
		return out
	case Array:
		return own(arrayProto(t.Elem))
	case Instance:
		out := own(t.Class.Fields)
		seen := map[string]bool{}
		for _, f := range t.Class.Fields {
			seen[f.Name] = true
		}
		for _, f := range InstanceFields(t.Class) {
			if !seen[f.Name] {
				out = append(out, Member{Field: f, Inherited: true})
			}
		}
		if !t.Class.Declared {
			for _, f := range ObjectProto {
				if !seen[f.Name] {
					out = append(out, Member{Field: f, Inherited: true, Proto: true})
				}
			}
		}
		return out
	case ClassOf:
		var out []Member
		for cur := t.Class; cur != nil; cur = cur.Super {
			if cur == t.Class {
				out = append(out, own(cur.Statics)...)
			} else {
				out = append(out, inherited(cur.Statics)...)
			}
		}
		return append(out, proto(FunctionProto)...)
	case Interface:
		return own(t.Def.AllFields())
	case *Func:
		return proto(FunctionProto)
	case Maybe:
		return Members(t.Elem)
	case Optional:
		return Members(t.Elem)
	case *TypeParam:
		if t.Bound != nil {
			return Members(t.Bound)
		}
	case Union:
		return commonMembers(t.Members)
	case Intersection:
		var out []Member
		seen := map[string]bool{}
		for _, m := range t.Members {
			for _, member := range Members(m) {
				if !seen[member.Name] {
					seen[member.Name] = true
					out = append(out, member)
				}
			}
		}
		return out
	}
	return nil
}

// commonMembers keeps the members every alternative of a union has, typed
// as the union of their types
func commonMembers(alternatives []Type) []Member {
	var out []Member
	var nonNull []Type
	for _, a := range alternatives {
		if !IsPrim(a, Null) && !IsPrim(a, Void) {
			nonNull = append(nonNull, a)
		}
	}
	if len(nonNull) == 0 {
		return nil
	}
	first := Members(nonNull[0])
outer:
	for _, candidate := range first {
		types := []Type{candidate.Type}
		for _, a := range nonNull[1:] {
			found := false
			for _, m := range Members(a) {
				if m.Name == candidate.Name {
					types = append(types, m.Type)
					found = true
					break
				}
			}
			if !found {
				continue outer
			}
		}
		candidate.Type = NewUnion(types...)
		out = append(out, candidate)
	}
	return out
}
