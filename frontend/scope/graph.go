// Package scope builds the binding graph of a module: an arena of scopes
// indexed by ScopeID, the bindings declared in each, and the resolution of
// every identifier to its binding.
package scope

import (
	"go/token"
	"slices"

	"github.com/cottand/flowty/frontend/ast"
	"github.com/cottand/flowty/frontend/flowerr"
)

type ScopeID int

// NoScope is the parent of the module scope
const NoScope ScopeID = -1

type Kind int

const (
	ModuleScope Kind = iota
	FunctionScope
	BlockScope
	ClassScope
)

type BindingKind int

const (
	VarBinding BindingKind = iota
	LetBinding
	ConstBinding
	ParamBinding
	FunctionBinding
	ClassBinding
	ImportBinding
	CatchBinding
)

// Lexical reports whether the binding is only usable after its declaration
func (k BindingKind) Lexical() bool {
	return k == LetBinding || k == ConstBinding || k == ClassBinding
}

func (k BindingKind) String() string {
	switch k {
	case LetBinding:
		return "let"
	case ConstBinding:
		return "const"
	case ParamBinding:
		return "param"
	case FunctionBinding:
		return "function"
	case ClassBinding:
		return "class"
	case ImportBinding:
		return "import"
	case CatchBinding:
		return "catch"
	default:
		return "var"
	}
}

type BindingID int

// Binding is a value-level name. Its initialisation state is not kept here
// but in the flow state of each program point.
type Binding struct {
	ID    BindingID
	Name  string
	Kind  BindingKind
	Scope ScopeID
	// Decl is the range of the identifier of the first declaration
	Decl ast.Range
	// Annot is the annotation of the first annotated declaration, if any
	Annot ast.TypeAnnot
	// Node is the declaring node: *ast.Declarator, *ast.FuncDecl,
	// *ast.ClassDecl, *ast.ImportSpec, *ast.Param or *ast.Try
	Node ast.Node
	// Func is the function the binding belongs to, nil at module level
	Func *ast.Function
	Doc  ast.Doc

	// Writes counts the assignments to the binding, initialisers included
	Writes int
	// ClosureWritten is set when a function nested in Func assigns the
	// binding, so calls may change its value behind the analysis' back
	ClosureWritten bool
	Exported       bool
}

type TypeKind int

const (
	AliasType TypeKind = iota
	OpaqueType
	InterfaceType
	ClassType
	TypeParamType
	ImportedType
	ModuleNamespace
)

// TypeBinding is a type-level name
type TypeBinding struct {
	Name  string
	Kind  TypeKind
	Scope ScopeID
	Decl  ast.Range
	// Node is the *ast.TypeAlias, *ast.InterfaceDecl, *ast.ClassDecl,
	// *ast.TypeParam or *ast.ImportSpec declaring the type
	Node ast.Node
	// Value is the value binding sharing the name, for classes and imports
	Value *Binding
	Doc   ast.Doc
}

type Scope struct {
	ID     ScopeID
	Parent ScopeID
	Kind   Kind
	Range  ast.Range
	// Func is the function whose body or parameters this scope holds
	Func *ast.Function
	// Class is set on the function scope of methods, where `this` is an
	// instance of the class
	Class *ast.Class

	names     []string
	values    map[string]*Binding
	typeNames []string
	types     map[string]*TypeBinding
}

// Names returns the value names declared in the scope in declaration order
func (s *Scope) Names() []string { return s.names }

// TypeNames returns the type names declared in the scope in declaration order
func (s *Scope) TypeNames() []string { return s.typeNames }

func (s *Scope) Value(name string) (*Binding, bool) {
	b, ok := s.values[name]
	return b, ok
}

func (s *Scope) Type(name string) (*TypeBinding, bool) {
	b, ok := s.types[name]
	return b, ok
}

// Graph is the scope arena of one module
type Graph struct {
	Scopes   []*Scope
	Bindings []*Binding

	// Refs resolves identifiers in reference position. Identifiers referring
	// to globals are absent.
	Refs map[*ast.Ident]*Binding
	// Decls maps declaring identifiers to their binding
	Decls map[*ast.Ident]*Binding
	// EarlyRefs holds the references to let, const and class bindings that
	// come before the declaration and were reported as such
	EarlyRefs map[*ast.Ident]bool
	// ScopeOf maps *ast.File, *ast.Function, *ast.Block, *ast.For, *ast.ForIn,
	// *ast.ForOf, *ast.Switch, *ast.Try and *ast.Class to the scope they open
	ScopeOf map[ast.Node]ScopeID
	// LoopWrites lists the bindings assigned in the body of each loop
	LoopWrites map[ast.Stmt][]*Binding
	// FuncOf maps function declarations and expressions to the binding
	// holding them, when there is one
	FuncOf map[*ast.Function]*Binding

	Errors *flowerr.Errors
}

func newGraph() *Graph {
	return &Graph{
		Refs:       map[*ast.Ident]*Binding{},
		Decls:      map[*ast.Ident]*Binding{},
		EarlyRefs:  map[*ast.Ident]bool{},
		ScopeOf:    map[ast.Node]ScopeID{},
		LoopWrites: map[ast.Stmt][]*Binding{},
		FuncOf:     map[*ast.Function]*Binding{},
		Errors:     &flowerr.Errors{},
	}
}

// NewScope adds a scope to the arena
func (g *Graph) NewScope(parent ScopeID, kind Kind, r ast.Range, fn *ast.Function) *Scope {
	s := &Scope{
		ID:     ScopeID(len(g.Scopes)),
		Parent: parent,
		Kind:   kind,
		Range:  r,
		Func:   fn,
		values: map[string]*Binding{},
		types:  map[string]*TypeBinding{},
	}
	g.Scopes = append(g.Scopes, s)
	return s
}

func (g *Graph) Scope(id ScopeID) *Scope {
	return g.Scopes[id]
}

// FunctionScope returns the nearest enclosing function or module scope
func (g *Graph) FunctionScope(id ScopeID) *Scope {
	s := g.Scopes[id]
	for s.Kind != FunctionScope && s.Kind != ModuleScope {
		s = g.Scopes[s.Parent]
	}
	return s
}

// Declare adds a value binding named name to scope. Redeclaring a var,
// function or parameter with var or function returns the existing binding.
// Any redeclaration that involves a lexical binding or an import fails with
// a DuplicateBinding error. Function bodies share the scope of their
// parameters, so `let x` clashes with a parameter x.
func (g *Graph) Declare(scope ScopeID, name string, kind BindingKind, at ast.Range) (*Binding, error) {
	s := g.Scopes[scope]
	if prev, ok := s.values[name]; ok {
		if (kind == VarBinding || kind == FunctionBinding) && !prev.Kind.Lexical() && prev.Kind != ImportBinding {
			return prev, nil
		}
		return prev, flowerr.New(flowerr.NewDuplicateBinding{Positioner: at, Name: name})
	}
	b := &Binding{
		ID:    BindingID(len(g.Bindings)),
		Name:  name,
		Kind:  kind,
		Scope: scope,
		Decl:  at,
		Func:  g.FunctionScope(scope).Func,
	}
	g.Bindings = append(g.Bindings, b)
	s.values[name] = b
	s.names = append(s.names, name)
	return b, nil
}

// DeclareType adds a type binding, failing with DuplicateBinding when the
// scope already has a type of that name
func (g *Graph) DeclareType(scope ScopeID, name string, kind TypeKind, node ast.Node, at ast.Range) (*TypeBinding, error) {
	s := g.Scopes[scope]
	if prev, ok := s.types[name]; ok {
		return prev, flowerr.New(flowerr.NewDuplicateBinding{Positioner: at, Name: name})
	}
	b := &TypeBinding{Name: name, Kind: kind, Scope: scope, Decl: at, Node: node}
	s.types[name] = b
	s.typeNames = append(s.typeNames, name)
	return b, nil
}

// Lookup resolves name from scope outwards
func (g *Graph) Lookup(scope ScopeID, name string) (*Binding, bool) {
	for id := scope; id != NoScope; id = g.Scopes[id].Parent {
		if b, ok := g.Scopes[id].values[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// LookupType resolves a type name from scope outwards
func (g *Graph) LookupType(scope ScopeID, name string) (*TypeBinding, bool) {
	for id := scope; id != NoScope; id = g.Scopes[id].Parent {
		if b, ok := g.Scopes[id].types[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// ScopeAt returns the innermost scope whose range contains pos
func (g *Graph) ScopeAt(pos token.Pos) ScopeID {
	best := ScopeID(0)
	for _, s := range g.Scopes[1:] {
		if s.Range.PosStart <= pos && pos < s.Range.PosEnd {
			// scopes are created in source order, so a later match is nested
			// in or after an earlier one
			if g.isAncestor(best, s.ID) {
				best = s.ID
			}
		}
	}
	return best
}

func (g *Graph) isAncestor(ancestor, id ScopeID) bool {
	for cur := id; cur != NoScope; cur = g.Scopes[cur].Parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// Visible returns the value bindings visible from scope, nearest first.
// Shadowed bindings are omitted.
func (g *Graph) Visible(scope ScopeID) []*Binding {
	var out []*Binding
	seen := map[string]bool{}
	for id := scope; id != NoScope; id = g.Scopes[id].Parent {
		s := g.Scopes[id]
		for _, name := range s.names {
			if !seen[name] {
				seen[name] = true
				out = append(out, s.values[name])
			}
		}
	}
	return out
}

// VisibleTypes is the type-level counterpart of Visible
func (g *Graph) VisibleTypes(scope ScopeID) []*TypeBinding {
	var out []*TypeBinding
	seen := map[string]bool{}
	for id := scope; id != NoScope; id = g.Scopes[id].Parent {
		s := g.Scopes[id]
		for _, name := range s.typeNames {
			if !seen[name] {
				seen[name] = true
				out = append(out, s.types[name])
			}
		}
	}
	return out
}

// EnclosingClass returns the class `this` refers to in scope, if any. Arrow
// functions see the `this` of their enclosing function.
func (g *Graph) EnclosingClass(scope ScopeID) (*ast.Class, bool) {
	for id := scope; id != NoScope; id = g.Scopes[id].Parent {
		s := g.Scopes[id]
		if s.Class != nil {
			return s.Class, true
		}
		if s.Kind == FunctionScope && s.Func != nil && !s.Func.Arrow {
			return nil, false
		}
	}
	return nil, false
}

// ClosureWritten returns the bindings written by functions nested in the
// function that declares them
func (g *Graph) ClosureWritten() []*Binding {
	return slices.DeleteFunc(slices.Clone(g.Bindings), func(b *Binding) bool {
		return !b.ClosureWritten
	})
}
