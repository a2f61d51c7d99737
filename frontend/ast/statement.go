package ast

var (
	_ Stmt = (*VarDecl)(nil)
	_ Stmt = (*FuncDecl)(nil)
	_ Stmt = (*ClassDecl)(nil)
	_ Stmt = (*TypeAlias)(nil)
	_ Stmt = (*InterfaceDecl)(nil)
	_ Stmt = (*ImportDecl)(nil)
	_ Stmt = (*ExportDecl)(nil)
	_ Stmt = (*ExprStmt)(nil)
	_ Stmt = (*Block)(nil)
	_ Stmt = (*If)(nil)
	_ Stmt = (*While)(nil)
	_ Stmt = (*DoWhile)(nil)
	_ Stmt = (*For)(nil)
	_ Stmt = (*ForIn)(nil)
	_ Stmt = (*ForOf)(nil)
	_ Stmt = (*Switch)(nil)
	_ Stmt = (*Break)(nil)
	_ Stmt = (*Continue)(nil)
	_ Stmt = (*Labeled)(nil)
	_ Stmt = (*Return)(nil)
	_ Stmt = (*Throw)(nil)
	_ Stmt = (*Try)(nil)
	_ Stmt = (*Empty)(nil)
)

type Declarator struct {
	Range
	Name  *Ident
	Annot TypeAnnot
	Init  Expr
	// Pattern is set on the declarators a destructuring pattern was split
	// into. Their value is any.
	Pattern bool
}

type VarDecl struct {
	Range
	Kind  VarKind
	Decls []Declarator
	Doc   Doc
}

// Param is a function parameter. Rest parameters are kept in Function.Rest.
type Param struct {
	Range
	// Name is nil when the parameter is a destructuring pattern, whose
	// names are in Bound
	Name     *Ident
	Bound    []*Ident
	Annot    TypeAnnot
	Optional bool
	Default  Expr
}

type TypeParam struct {
	Range
	Name  string
	Bound TypeAnnot
}

// Function is shared by declarations, expressions, arrows, methods and
// 'declare function'
type Function struct {
	Range
	// Name is nil for anonymous functions
	Name       *Ident
	TypeParams []TypeParam
	Params     []Param
	Rest       *Param
	Return     TypeAnnot
	// Checks is set for functions annotated with %checks
	Checks *Checks
	// Body is nil for arrows with an expression body and for declared functions
	Body     *Block
	ExprBody Expr
	Arrow    bool
	Async    bool
	// Declared is true for 'declare function' and method signatures
	Declared bool
	Doc      Doc
}

// Checks is a %checks annotation. Expr is only set on declared functions,
// as in `declare function f(x: mixed): boolean %checks(typeof x === "string")`.
type Checks struct {
	Range
	Expr Expr
}

type FuncDecl struct {
	*Function
}

type MemberKind int

const (
	FieldMember MemberKind = iota
	MethodMember
	GetterMember
	SetterMember
	ConstructorMember
)

type ClassMember struct {
	Range
	Kind     MemberKind
	Name     string
	Static   bool
	Variance Variance
	// Annot is the field type, or for declared classes the method type
	Annot TypeAnnot
	Value Expr
	Func  *Function
	Doc   Doc
}

type Class struct {
	Range
	Name       *Ident
	TypeParams []TypeParam
	Super      Expr
	Implements []TypeAnnot
	Members    []ClassMember
	Declared   bool
	Doc        Doc
}

type ClassDecl struct {
	*Class
}

type TypeAlias struct {
	Range
	Name       *Ident
	TypeParams []TypeParam
	Type       TypeAnnot
	Opaque     bool
	Doc        Doc
}

type InterfaceDecl struct {
	Range
	Name       *Ident
	TypeParams []TypeParam
	Extends    []TypeAnnot
	Body       *ObjectType
	Doc        Doc
}

type ImportKind int

const (
	ImportNamed ImportKind = iota
	ImportDefault
	ImportNamespace
)

type ImportSpec struct {
	Range
	Kind     ImportKind
	Imported string
	Local    *Ident
	TypeOnly bool
}

type ImportDecl struct {
	Range
	Specs    []ImportSpec
	Source   string
	TypeOnly bool
}

type ExportSpec struct {
	Range
	Local    *Ident
	Exported string
}

// ExportDecl is `export <decl>`, `export default <expr>` or `export {a, b}`
type ExportDecl struct {
	Range
	Decl    Stmt
	Default Expr
	Specs   []ExportSpec
}

type ExprStmt struct {
	Range
	X Expr
}

type Block struct {
	Range
	Body []Stmt
}

type If struct {
	Range
	Test Expr
	Then Stmt
	// Else is nil without an else branch
	Else Stmt
}

type While struct {
	Range
	Test Expr
	Body Stmt
}

type DoWhile struct {
	Range
	Body Stmt
	Test Expr
}

type For struct {
	Range
	// Init is a *VarDecl, an *ExprStmt or nil
	Init   Stmt
	Test   Expr
	Update Expr
	Body   Stmt
}

// ForIn is `for (left in right)`. Left is a *VarDecl without initialiser or
// an *ExprStmt holding the assignment target.
type ForIn struct {
	Range
	Left  Stmt
	Right Expr
	Body  Stmt
}

type ForOf struct {
	Range
	Left  Stmt
	Right Expr
	Body  Stmt
}

type Case struct {
	Range
	// Test is nil for the default clause
	Test Expr
	Body []Stmt
}

type Switch struct {
	Range
	Disc  Expr
	Cases []Case
}

// Break and Continue have an empty Label when they refer to the innermost
// enclosing statement
type Break struct {
	Range
	Label string
}

type Continue struct {
	Range
	Label string
}

// Labeled is `label: Body`
type Labeled struct {
	Range
	Label string
	Body  Stmt
}

type Return struct {
	Range
	X Expr
}

type Throw struct {
	Range
	X Expr
}

type Try struct {
	Range
	Block *Block
	// Param is nil for `catch {` and when there is no handler
	Param     *Ident
	Handler   *Block
	Finalizer *Block
}

type Empty struct{ Range }

func (*VarDecl) stmtNode()       {}
func (*FuncDecl) stmtNode()      {}
func (*ClassDecl) stmtNode()     {}
func (*TypeAlias) stmtNode()     {}
func (*InterfaceDecl) stmtNode() {}
func (*ImportDecl) stmtNode()    {}
func (*ExportDecl) stmtNode()    {}
func (*ExprStmt) stmtNode()      {}
func (*Block) stmtNode()         {}
func (*If) stmtNode()            {}
func (*While) stmtNode()         {}
func (*DoWhile) stmtNode()       {}
func (*For) stmtNode()           {}
func (*ForIn) stmtNode()         {}
func (*ForOf) stmtNode()         {}
func (*Switch) stmtNode()        {}
func (*Break) stmtNode()         {}
func (*Continue) stmtNode()      {}
func (*Labeled) stmtNode()       {}
func (*Return) stmtNode()        {}
func (*Throw) stmtNode()         {}
func (*Try) stmtNode()           {}
func (*Empty) stmtNode()         {}
