package ast

var (
	_ TypeAnnot = (*NamedType)(nil)
	_ TypeAnnot = (*LiteralType)(nil)
	_ TypeAnnot = (*MaybeType)(nil)
	_ TypeAnnot = (*UnionType)(nil)
	_ TypeAnnot = (*IntersectionType)(nil)
	_ TypeAnnot = (*ArrayType)(nil)
	_ TypeAnnot = (*TupleType)(nil)
	_ TypeAnnot = (*ObjectType)(nil)
	_ TypeAnnot = (*FuncType)(nil)
	_ TypeAnnot = (*TypeofType)(nil)
	_ TypeAnnot = (*IndexedAccessType)(nil)
)

type Variance int

const (
	Invariant Variance = iota
	Covariant
	Contravariant
)

func (v Variance) String() string {
	switch v {
	case Covariant:
		return "+"
	case Contravariant:
		return "-"
	default:
		return ""
	}
}

// NamedType is a reference to a type by name, possibly qualified
// (React.Node) and possibly applied (Array<T>). Builtins like number or
// $Exact are NamedTypes too.
type NamedType struct {
	Range
	Name string
	// Qualifier is set for qualified names: in React.Node it is "React"
	Qualifier string
	Args      []TypeAnnot
}

// FullName returns the dotted name as written
func (n *NamedType) FullName() string {
	if n.Qualifier == "" {
		return n.Name
	}
	return n.Qualifier + "." + n.Name
}

// LiteralType is a singleton type written as a literal: "a", 1 or true.
// Value holds a string, float64 or bool.
type LiteralType struct {
	Range
	Value any
}

type MaybeType struct {
	Range
	Elem TypeAnnot
}

type UnionType struct {
	Range
	Types []TypeAnnot
}

type IntersectionType struct {
	Range
	Types []TypeAnnot
}

// ArrayType is T[]
type ArrayType struct {
	Range
	Elem TypeAnnot
}

type TupleType struct {
	Range
	Elems []TypeAnnot
}

type ObjectTypeProp struct {
	Range
	Name     string
	Type     TypeAnnot
	Optional bool
	Variance Variance
	Method   bool
	Doc      Doc
}

type Indexer struct {
	Range
	Key, Value TypeAnnot
	Variance   Variance
}

type ObjectType struct {
	Range
	Props    []ObjectTypeProp
	Indexers []Indexer
	Spreads  []TypeAnnot
	// Exact is set for {| |} objects
	Exact bool
	// Inexact is set when the object ends with an explicit '...'
	Inexact bool
}

type FuncTypeParam struct {
	Range
	Name     string
	Type     TypeAnnot
	Optional bool
}

type FuncType struct {
	Range
	TypeParams []TypeParam
	Params     []FuncTypeParam
	Rest       *FuncTypeParam
	Return     TypeAnnot
}

// TypeofType is `typeof x`
type TypeofType struct {
	Range
	X *Ident
}

// IndexedAccessType is Obj[Index]
type IndexedAccessType struct {
	Range
	Obj, Index TypeAnnot
	Optional   bool
}

func (*NamedType) typeNode()         {}
func (*LiteralType) typeNode()       {}
func (*MaybeType) typeNode()         {}
func (*UnionType) typeNode()         {}
func (*IntersectionType) typeNode()  {}
func (*ArrayType) typeNode()         {}
func (*TupleType) typeNode()         {}
func (*ObjectType) typeNode()        {}
func (*FuncType) typeNode()          {}
func (*TypeofType) typeNode()        {}
func (*IndexedAccessType) typeNode() {}
