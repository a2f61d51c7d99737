package types

// RefineTruthy narrows t to the values that are truthy, or falsy when sense
// is false
func RefineTruthy(t Type, sense bool) Type {
	return Filter(t, func(m Type) bool {
		return canBeTruthy(m) == sense || (!sense && canBeFalsy(m))
	})
}

func canBeTruthy(t Type) bool {
	switch t := t.(type) {
	case Prim:
		return t.Kind != Null && t.Kind != Void && t.Kind != Empty
	case Literal:
		switch v := t.Value.(type) {
		case string:
			return v != ""
		case float64:
			return v != 0
		case bool:
			return v
		}
	}
	return true
}

func canBeFalsy(t Type) bool {
	switch t := t.(type) {
	case Prim:
		return t.Kind != Symbol && t.Kind != Empty
	case Literal:
		return !canBeTruthy(t)
	case Destructor, *TypeParam:
		return true
	}
	return false
}

// typeofTag returns the typeof result of the values of t, or "" when it
// cannot be told statically
func typeofTag(t Type) string {
	switch t := t.(type) {
	case Prim:
		switch t.Kind {
		case Number:
			return "number"
		case String:
			return "string"
		case Boolean:
			return "boolean"
		case Void:
			return "undefined"
		case Null:
			return "object"
		case BigInt:
			return "bigint"
		case Symbol:
			return "symbol"
		}
	case Literal:
		return typeofTag(t.Base())
	case *Func, ClassOf:
		return "function"
	case *Object, Array, Instance, Interface, Module:
		return "object"
	}
	return ""
}

// typeofTop is the widest type whose values have the given typeof tag
func typeofTop(tag string) Type {
	switch tag {
	case "number":
		return NumberT
	case "string":
		return StringT
	case "boolean":
		return BooleanT
	case "undefined":
		return VoidT
	case "bigint":
		return BigIntT
	case "symbol":
		return SymbolT
	case "function":
		return &Func{Rest: Array{Elem: AnyT}, RestName: "args", Return: AnyT}
	case "object":
		return NewUnion(NullT, &Object{})
	}
	return EmptyT
}

// RefineTypeof narrows t by the condition `typeof x === tag`, or its
// negation when sense is false
func RefineTypeof(t Type, tag string, sense bool) Type {
	if IsPrim(t, Any) {
		return t
	}
	return Map(t, func(m Type) Type {
		if IsPrim(m, Mixed) {
			if sense {
				return typeofTop(tag)
			}
			return m
		}
		return Filter(m, func(member Type) bool {
			memberTag := typeofTag(member)
			if memberTag == "" {
				return true
			}
			return (memberTag == tag) == sense
		})
	})
}

// RefineNullish narrows t by a comparison against null and/or undefined.
// With both set the comparison is the loose `x == null`.
func RefineNullish(t Type, null, void bool, sense bool) Type {
	if IsPrim(t, Any) {
		return t
	}
	matches := func(m Type) bool {
		return (null && IsPrim(m, Null)) || (void && IsPrim(m, Void))
	}
	return Map(t, func(m Type) Type {
		if IsPrim(m, Mixed) {
			if !sense {
				return m
			}
			var out []Type
			if null {
				out = append(out, NullT)
			}
			if void {
				out = append(out, VoidT)
			}
			return NewUnion(out...)
		}
		return Filter(m, func(member Type) bool {
			if _, generic := member.(*TypeParam); generic {
				return true
			}
			return matches(member) == sense
		})
	})
}

// RefineInstance narrows t by `x instanceof C`
func RefineInstance(t Type, c *ClassDef, sense bool) Type {
	if IsPrim(t, Any) {
		if sense {
			return Instance{Class: c}
		}
		return t
	}
	return Map(t, func(m Type) Type {
		if IsPrim(m, Mixed) {
			if sense {
				return Instance{Class: c}
			}
			return m
		}
		return Map(Filter(m, func(member Type) bool {
			inst, ok := member.(Instance)
			if !ok {
				if !sense {
					return true
				}
				_, isObj := member.(*Object)
				_, isIface := member.(Interface)
				return isObj || isIface
			}
			if inst.Class.Inherits(c) {
				return sense
			}
			return !sense || c.Inherits(inst.Class)
		}), func(member Type) Type {
			if !sense || IsPrim(member, Empty) {
				return member
			}
			// a superclass or structural type narrows down to c itself
			if inst, ok := member.(Instance); ok && inst.Class.Inherits(c) {
				return member
			}
			return Instance{Class: c}
		})
	})
}

// RefineLiteral narrows t by `x === lit`
func RefineLiteral(t Type, lit Literal, sense bool) Type {
	if IsPrim(t, Any) {
		return t
	}
	return Map(t, func(m Type) Type {
		if IsPrim(m, Mixed) {
			if sense {
				return lit
			}
			return m
		}
		if sense {
			return Map(Filter(m, func(member Type) bool {
				return IsSubtype(lit, member)
			}), func(member Type) Type {
				if _, generic := member.(*TypeParam); generic || IsPrim(member, Empty) {
					return member
				}
				return lit
			})
		}
		return Filter(m, func(member Type) bool {
			return !Equal(member, lit)
		})
	})
}
