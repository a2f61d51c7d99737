package types

import (
	"fmt"
	"slices"

	"github.com/cottand/flowty/frontend/ast"
)

// NotObjectError is returned by operations which only apply to object types
type NotObjectError struct {
	Op   string
	Type Type
}

func (e *NotObjectError) Error() string {
	return fmt.Sprintf("cannot apply %s to '%v', which is not an object type", e.Op, e.Type)
}

// ArityError is returned when a destructor gets the wrong number of operands
type ArityError struct {
	Kind DestructorKind
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%v expects %d type arguments, but got %d", e.Kind, e.Want, e.Got)
}

// MissingPropertyError is returned when a destructor looks up a property a
// type does not have
type MissingPropertyError struct {
	Name string
	Type Type
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("property '%s' is missing in '%v'", e.Name, e.Type)
}

// Exactify closes an object type. Type parameters are kept as an unevaluated
// $Exact, and exactifying something already exact returns it unchanged.
func Exactify(t Type) (Type, error) {
	switch t := t.(type) {
	case *Object:
		if t.Exact {
			return t, nil
		}
		cp := *t
		cp.Exact = true
		return &cp, nil
	case *TypeParam:
		return Destructor{Kind: ExactD, Operands: []Type{t}}, nil
	case Destructor:
		if t.Kind == ExactD {
			return t, nil
		}
		return Destructor{Kind: ExactD, Operands: []Type{t}}, nil
	case Union:
		members := make([]Type, len(t.Members))
		for i, m := range t.Members {
			exact, err := Exactify(m)
			if err != nil {
				return AnyT, err
			}
			members[i] = exact
		}
		return NewUnion(members...), nil
	case Prim:
		if t.Kind == Any || t.Kind == Empty {
			return t, nil
		}
	}
	return AnyT, &NotObjectError{Op: "$Exact", Type: t}
}

var destructorArity = map[DestructorKind]int{
	ExactD:        1,
	DiffD:         2,
	RestD:         2,
	KeysD:         1,
	ValuesD:       1,
	ElementTypeD:  2,
	PropertyTypeD: 2,
	ReadOnlyD:     1,
	NonMaybeD:     1,
	ShapeD:        1,
}

// ApplyDestructor evaluates a type destructor. When an operand is generic
// the destructor stays unevaluated. On error the returned type is any so
// analysis can continue.
func ApplyDestructor(kind DestructorKind, operands []Type) (Type, error) {
	if want := destructorArity[kind]; want != len(operands) {
		return AnyT, &ArityError{Kind: kind, Want: want, Got: len(operands)}
	}
	for _, o := range operands {
		if IsPrim(o, Any) {
			return AnyT, nil
		}
		if isGeneric(o) {
			if kind == ExactD {
				return Exactify(o)
			}
			return Destructor{Kind: kind, Operands: slices.Clone(operands)}, nil
		}
	}

	switch kind {
	case ExactD:
		return Exactify(operands[0])
	case NonMaybeD:
		return Filter(operands[0], func(m Type) bool {
			return !IsPrim(m, Null) && !IsPrim(m, Void)
		}), nil
	case KeysD:
		fields, indexer, err := objectParts(kind, operands[0])
		if err != nil {
			return AnyT, err
		}
		var keys []Type
		for _, f := range fields {
			keys = append(keys, Literal{Value: f.Name})
		}
		if indexer != nil {
			keys = append(keys, indexer.Key)
		}
		return NewUnion(keys...), nil
	case ValuesD:
		fields, indexer, err := objectParts(kind, operands[0])
		if err != nil {
			return AnyT, err
		}
		var values []Type
		for _, f := range fields {
			values = append(values, f.Type)
		}
		if indexer != nil {
			values = append(values, indexer.Value)
		}
		return NewUnion(values...), nil
	case DiffD, RestD:
		return diff(kind, operands[0], operands[1])
	case ElementTypeD, PropertyTypeD:
		return elementType(kind, operands[0], operands[1])
	case ReadOnlyD:
		switch t := operands[0].(type) {
		case Array:
			return Array{Elem: t.Elem, ReadOnly: true}, nil
		case *Object:
			cp := *t
			cp.Fields = slices.Clone(t.Fields)
			for i := range cp.Fields {
				cp.Fields[i].Variance = ast.Covariant
			}
			return &cp, nil
		}
		return AnyT, &NotObjectError{Op: kind.String(), Type: operands[0]}
	case ShapeD:
		fields, indexer, err := objectParts(kind, operands[0])
		if err != nil {
			return AnyT, err
		}
		shape := &Object{Sealed: true, Indexer: indexer}
		for _, f := range fields {
			f.Optional = true
			shape.Fields = append(shape.Fields, f)
		}
		return shape, nil
	}
	panic(fmt.Sprintf("unexpected destructor %v", kind))
}

func isGeneric(t Type) bool {
	switch t.(type) {
	case *TypeParam, Destructor:
		return true
	}
	return false
}

func objectParts(kind DestructorKind, t Type) ([]Field, *Indexer, error) {
	switch t := t.(type) {
	case *Object:
		return t.Fields, t.Indexer, nil
	case Instance:
		return InstanceFields(t.Class), nil, nil
	case Interface:
		return t.Def.AllFields(), nil, nil
	}
	return nil, nil, &NotObjectError{Op: kind.String(), Type: t}
}

// diff removes the properties of b from a. For $Rest properties which are
// optional in b stay in the result as optional.
func diff(kind DestructorKind, a, b Type) (Type, error) {
	aFields, indexer, err := objectParts(kind, a)
	if err != nil {
		return AnyT, err
	}
	bFields, _, err := objectParts(kind, b)
	if err != nil {
		return AnyT, err
	}
	exact := false
	if ao, ok := a.(*Object); ok {
		exact = ao.Exact
	}
	out := &Object{Exact: exact, Sealed: true, Indexer: indexer}
	for _, f := range aFields {
		bf, inB := findField(bFields, f.Name)
		switch {
		case !inB:
			out.Fields = append(out.Fields, f)
		case kind == RestD && bf.Optional:
			f.Optional = true
			out.Fields = append(out.Fields, f)
		case kind == DiffD && bf.Optional:
			// $Diff only removes properties b requires
			out.Fields = append(out.Fields, f)
		}
	}
	return out, nil
}

func elementType(kind DestructorKind, t, key Type) (Type, error) {
	if arr, ok := t.(Array); ok && kind == ElementTypeD {
		if IsSubtype(key, NumberT) {
			return arr.Elem, nil
		}
		return AnyT, &MissingPropertyError{Name: key.String(), Type: t}
	}
	fields, indexer, err := objectParts(kind, t)
	if err != nil {
		return AnyT, err
	}
	if lit, ok := key.(Literal); ok {
		if name, isStr := lit.Value.(string); isStr {
			if f, found := findField(fields, name); found {
				if f.Optional {
					return Optional{Elem: f.Type}, nil
				}
				return f.Type, nil
			}
		}
	}
	if indexer != nil && IsSubtype(key, indexer.Key) {
		return indexer.Value, nil
	}
	return AnyT, &MissingPropertyError{Name: key.String(), Type: t}
}
