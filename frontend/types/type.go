package types

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/cottand/flowty/frontend/ast"
	"github.com/cottand/flowty/frontend/predicate"
	"github.com/hashicorp/go-set/v3"
)

// Type is the closed set of types the analyzer reasons about. Two types are
// structurally equal when their Hash is equal, see Equal.
type Type interface {
	fmt.Stringer
	Hash() uint64
	isType()
}

var (
	_ Type = Prim{}
	_ Type = Literal{}
	_ Type = Maybe{}
	_ Type = Optional{}
	_ Type = Union{}
	_ Type = Intersection{}
	_ Type = (*Object)(nil)
	_ Type = Array{}
	_ Type = Instance{}
	_ Type = ClassOf{}
	_ Type = Interface{}
	_ Type = (*Func)(nil)
	_ Type = Destructor{}
	_ Type = (*TypeParam)(nil)
	_ Type = Module{}
)

// Equal compares types structurally
func Equal[H, HH set.Hasher[uint64]](this H, other HH) bool {
	return this.Hash() == other.Hash()
}

type PrimKind int

const (
	Number PrimKind = iota
	String
	Boolean
	Null
	Void
	Mixed
	Any
	Empty
	BigInt
	Symbol
)

var primNames = [...]string{
	Number:  "number",
	String:  "string",
	Boolean: "boolean",
	Null:    "null",
	Void:    "void",
	Mixed:   "mixed",
	Any:     "any",
	Empty:   "empty",
	BigInt:  "bigint",
	Symbol:  "symbol",
}

type Prim struct {
	Kind PrimKind
}

var (
	NumberT  Type = Prim{Number}
	StringT  Type = Prim{String}
	BooleanT Type = Prim{Boolean}
	NullT    Type = Prim{Null}
	VoidT    Type = Prim{Void}
	MixedT   Type = Prim{Mixed}
	AnyT     Type = Prim{Any}
	EmptyT   Type = Prim{Empty}
	BigIntT  Type = Prim{BigInt}
	SymbolT  Type = Prim{Symbol}
)

// IsPrim returns true when t is the primitive k
func IsPrim(t Type, k PrimKind) bool {
	p, ok := t.(Prim)
	return ok && p.Kind == k
}

// Literal is a singleton type. Value is a string, float64 or bool.
type Literal struct {
	Value any
}

// Base returns the primitive a literal belongs to
func (l Literal) Base() Prim {
	switch l.Value.(type) {
	case string:
		return Prim{String}
	case float64:
		return Prim{Number}
	case bool:
		return Prim{Boolean}
	}
	panic(fmt.Sprintf("unexpected literal value %T", l.Value))
}

// Maybe is ?T, which admits null and void
type Maybe struct {
	Elem Type
}

// Optional is the type of an optional field or parameter: T or void.
// Optional(Maybe(T)) and Maybe(Optional(T)) are kept distinct.
type Optional struct {
	Elem Type
}

// Union holds at least two normalised members, build it with NewUnion
type Union struct {
	Members []Type
}

type Intersection struct {
	Members []Type
}

type Field struct {
	Name     string
	Type     Type
	Variance ast.Variance
	Optional bool
	Method   bool
	Doc      string
}

type Indexer struct {
	Key, Value Type
}

// Object is a structural object type. Exact objects admit no other
// properties, unsealed objects admit reads and writes of unknown properties.
type Object struct {
	Fields  []Field
	Exact   bool
	Sealed  bool
	Indexer *Indexer
}

// Field returns the field named name
func (o *Object) Field(name string) (Field, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

type Array struct {
	Elem     Type
	ReadOnly bool
}

// ClassDef is the declaration of a class. It is shared by pointer between
// the instance type and the class value so members can refer to the class.
type ClassDef struct {
	ID       ast.Range
	Name     string
	Fields   []Field
	Statics  []Field
	Super    *ClassDef
	Declared bool
	Doc      string
}

// Own returns the instance member declared directly on the class
func (c *ClassDef) Own(name string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Inherits reports whether c is other or one of its subclasses
func (c *ClassDef) Inherits(other *ClassDef) bool {
	for cur := c; cur != nil; cur = cur.Super {
		if cur.ID == other.ID && cur.Name == other.Name {
			return true
		}
	}
	return false
}

// Instance is the type of values constructed from a class
type Instance struct {
	Class *ClassDef
}

// ClassOf is the type of the class value itself, written Class<C>
type ClassOf struct {
	Class *ClassDef
}

type InterfaceDef struct {
	ID      ast.Range
	Name    string
	Fields  []Field
	Extends []*InterfaceDef
	Doc     string
}

// AllFields returns own fields followed by the fields inherited through
// extends which are not overridden
func (i *InterfaceDef) AllFields() []Field {
	seen := map[string]bool{}
	var out []Field
	var walk func(def *InterfaceDef)
	walk = func(def *InterfaceDef) {
		for _, f := range def.Fields {
			if !seen[f.Name] {
				seen[f.Name] = true
				out = append(out, f)
			}
		}
		for _, e := range def.Extends {
			walk(e)
		}
	}
	walk(i)
	return out
}

type Interface struct {
	Def *InterfaceDef
}

type Param struct {
	Name     string
	Type     Type
	Optional bool
}

type Func struct {
	TypeParams []*TypeParam
	Params     []Param
	// Rest is the type of the rest parameter, an Array, or nil
	Rest     Type
	RestName string
	Return   Type
	// Checks is the predicate a %checks function establishes about its
	// parameters when it returns a truthy value
	Checks predicate.Predicate
	Doc    string
}

type DestructorKind int

const (
	ExactD DestructorKind = iota
	DiffD
	RestD
	KeysD
	ValuesD
	ElementTypeD
	PropertyTypeD
	ReadOnlyD
	NonMaybeD
	ShapeD
)

var destructorNames = [...]string{
	ExactD:        "$Exact",
	DiffD:         "$Diff",
	RestD:         "$Rest",
	KeysD:         "$Keys",
	ValuesD:       "$Values",
	ElementTypeD:  "$ElementType",
	PropertyTypeD: "$PropertyType",
	ReadOnlyD:     "$ReadOnly",
	NonMaybeD:     "$NonMaybeType",
	ShapeD:        "$Shape",
}

// DestructorByName maps the written name of a type destructor to its kind
func DestructorByName(name string) (DestructorKind, bool) {
	for k, n := range destructorNames {
		if n == name {
			return DestructorKind(k), true
		}
	}
	return 0, false
}

func (k DestructorKind) String() string { return destructorNames[k] }

// Destructor is a type-level operation that could not be evaluated yet,
// typically because an operand is a type parameter
type Destructor struct {
	Kind     DestructorKind
	Operands []Type
}

type TypeParam struct {
	ID    ast.Range
	Name  string
	Bound Type
}

// Module is the namespace object of `import * as M from "path"`
type Module struct {
	Path string
}

func (Prim) isType()         {}
func (Literal) isType()      {}
func (Maybe) isType()        {}
func (Optional) isType()     {}
func (Union) isType()        {}
func (Intersection) isType() {}
func (*Object) isType()      {}
func (Array) isType()        {}
func (Instance) isType()     {}
func (ClassOf) isType()      {}
func (Interface) isType()    {}
func (*Func) isType()        {}
func (Destructor) isType()   {}
func (*TypeParam) isType()   {}
func (Module) isType()       {}

const (
	fnvOffset uint64 = 14695981039346656037
	fnvPrime  uint64 = 1099511628211
)

func mix(hash uint64, v uint64) uint64 {
	return (hash ^ v) * fnvPrime
}

func hashString(tag uint64, s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return mix(tag, h.Sum64())
}

func hashRange(tag uint64, name string, r ast.Range) uint64 {
	arr := binary.LittleEndian.AppendUint64(nil, r.Hash())
	h := fnv.New64a()
	_, _ = h.Write(arr)
	_, _ = h.Write([]byte(name))
	return mix(tag, h.Sum64())
}

func (t Prim) Hash() uint64 {
	return mix(fnvOffset, uint64(t.Kind)+1)
}

func (t Literal) Hash() uint64 {
	switch v := t.Value.(type) {
	case string:
		return hashString(101, v)
	case float64:
		return mix(103, math.Float64bits(v))
	case bool:
		if v {
			return mix(107, 1)
		}
		return mix(107, 2)
	}
	return 0
}

func (t Maybe) Hash() uint64 { return mix(109, t.Elem.Hash()) }

func (t Optional) Hash() uint64 { return mix(113, t.Elem.Hash()) }

// Hash of a union does not depend on member order
func (t Union) Hash() uint64 {
	var sum, xor uint64
	for _, m := range t.Members {
		sum += m.Hash()
		xor ^= m.Hash()
	}
	return mix(mix(127, sum), xor)
}

func (t Intersection) Hash() uint64 {
	var sum, xor uint64
	for _, m := range t.Members {
		sum += m.Hash()
		xor ^= m.Hash()
	}
	return mix(mix(131, sum), xor)
}

func (f Field) hash() uint64 {
	hash := hashString(137, f.Name)
	hash = mix(hash, f.Type.Hash())
	hash = mix(hash, uint64(f.Variance))
	if f.Optional {
		hash = mix(hash, 1)
	}
	return hash
}

func (t *Object) Hash() uint64 {
	hash := uint64(139)
	for _, f := range t.Fields {
		hash = mix(hash, f.hash())
	}
	if t.Exact {
		hash = mix(hash, 3)
	}
	if t.Indexer != nil {
		hash = mix(mix(hash, t.Indexer.Key.Hash()), t.Indexer.Value.Hash())
	}
	return hash
}

func (t Array) Hash() uint64 {
	if t.ReadOnly {
		return mix(151, t.Elem.Hash())
	}
	return mix(149, t.Elem.Hash())
}

func (t Instance) Hash() uint64 { return hashRange(157, t.Class.Name, t.Class.ID) }

func (t ClassOf) Hash() uint64 { return hashRange(163, t.Class.Name, t.Class.ID) }

func (t Interface) Hash() uint64 { return hashRange(167, t.Def.Name, t.Def.ID) }

func (t *Func) Hash() uint64 {
	hash := uint64(173)
	for _, p := range t.Params {
		hash = mix(hash, p.Type.Hash())
		if p.Optional {
			hash = mix(hash, 1)
		}
	}
	if t.Rest != nil {
		hash = mix(hash, mix(179, t.Rest.Hash()))
	}
	return mix(hash, t.Return.Hash())
}

func (t Destructor) Hash() uint64 {
	hash := mix(181, uint64(t.Kind))
	for _, o := range t.Operands {
		hash = mix(hash, o.Hash())
	}
	return hash
}

func (t *TypeParam) Hash() uint64 { return hashRange(191, t.Name, t.ID) }

func (t Module) Hash() uint64 { return hashString(193, t.Path) }
