package ast

// Node is any syntax element of a File
type Node interface {
	Positioner
}

// Expr is a value-level expression
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement or a declaration
type Stmt interface {
	Node
	stmtNode()
}

// TypeAnnot is a type written in the source, as found after ':' or in a
// type alias body
type TypeAnnot interface {
	Node
	typeNode()
}

var _ Positioner = (*File)(nil)

// File is a parsed module. Its positions are relative to the text the parser
// was given, see Source.
type File struct {
	Range
	Name string
	Body []Stmt
	// Problems are the constructs the parser front end could only
	// approximate
	Problems []Problem
}

// Problem is a construct of the source that the tree does not represent
// faithfully
type Problem struct {
	Range
	Message string
}

func (p Problem) Error() string { return p.Message }

// Ident is an identifier in binding or reference position
type Ident struct {
	Range
	Name string
}

func (i *Ident) exprNode() {}

// Doc holds the text of the /** */ comment immediately preceding a declaration,
// with the comment delimiters and leading '*' stripped
type Doc string

// VarKind is the declaration keyword of a VarDecl
type VarKind int

const (
	Var VarKind = iota
	Let
	Const
)

func (k VarKind) String() string {
	switch k {
	case Let:
		return "let"
	case Const:
		return "const"
	default:
		return "var"
	}
}
