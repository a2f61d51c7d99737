package ast

var (
	_ Expr = (*Ident)(nil)
	_ Expr = (*Opaque)(nil)
	_ Expr = (*NumberLit)(nil)
	_ Expr = (*StringLit)(nil)
	_ Expr = (*BoolLit)(nil)
	_ Expr = (*NullLit)(nil)
	_ Expr = (*BigIntLit)(nil)
	_ Expr = (*TemplateLit)(nil)
	_ Expr = (*RegExpLit)(nil)
	_ Expr = (*This)(nil)
	_ Expr = (*ArrayLit)(nil)
	_ Expr = (*ObjectLit)(nil)
	_ Expr = (*FuncExpr)(nil)
	_ Expr = (*ClassExpr)(nil)
	_ Expr = (*Unary)(nil)
	_ Expr = (*Update)(nil)
	_ Expr = (*Binary)(nil)
	_ Expr = (*Logical)(nil)
	_ Expr = (*Assign)(nil)
	_ Expr = (*Cond)(nil)
	_ Expr = (*Call)(nil)
	_ Expr = (*New)(nil)
	_ Expr = (*Member)(nil)
	_ Expr = (*Seq)(nil)
	_ Expr = (*TypeCast)(nil)
	_ Expr = (*JSXElement)(nil)
	_ Expr = (*JSXText)(nil)
	_ Expr = (*Await)(nil)
)

type NumberLit struct {
	Range
	Value float64
	Raw   string
}

type StringLit struct {
	Range
	Value string
}

type BoolLit struct {
	Range
	Value bool
}

type NullLit struct {
	Range
}

type BigIntLit struct {
	Range
	Raw string
}

// TemplateLit is a template string; only its embedded expressions matter
type TemplateLit struct {
	Range
	Exprs []Expr
}

type RegExpLit struct {
	Range
	Pattern string
}

type This struct {
	Range
}

type ArrayLit struct {
	Range
	// Elems may contain nil for holes
	Elems []Expr
}

// PropKind distinguishes object literal entries
type PropKind int

const (
	PropInit PropKind = iota
	PropMethod
	PropGet
	PropSet
	PropSpread
)

// Property is an entry of an ObjectLit. For PropSpread only Value is set.
type Property struct {
	Range
	Kind     PropKind
	Key      string
	KeyRange Range
	// KeyExpr is set for computed keys, in which case Key is empty
	KeyExpr Expr
	Value   Expr
}

type ObjectLit struct {
	Range
	Props []Property
}

type FuncExpr struct {
	*Function
}

type ClassExpr struct {
	*Class
}

type Unary struct {
	Range
	// Op is one of "-", "+", "!", "~", "typeof", "void", "delete"
	Op string
	X  Expr
}

type Update struct {
	Range
	Op     string
	Prefix bool
	X      Expr
}

type Binary struct {
	Range
	Op   string
	X, Y Expr
}

// Logical is a short-circuiting binary expression: &&, || or ??
type Logical struct {
	Range
	Op   string
	X, Y Expr
}

type Assign struct {
	Range
	// Op is "=" or a compound assignment operator like "+="
	Op     string
	Target Expr
	Value  Expr
}

type Cond struct {
	Range
	Test, Then, Else Expr
}

type Call struct {
	Range
	Callee   Expr
	Args     []Expr
	Optional bool
}

type New struct {
	Range
	Callee Expr
	Args   []Expr
}

// Member is a property access. For computed accesses Index is set and Prop is
// empty.
type Member struct {
	Range
	X         Expr
	Prop      string
	PropRange Range
	Index     Expr
	Optional  bool
}

// Computed returns true for x[e] accesses
func (m *Member) Computed() bool { return m.Index != nil }

type Seq struct {
	Range
	Exprs []Expr
}

// TypeCast is the (x: T) expression
type TypeCast struct {
	Range
	X    Expr
	Type TypeAnnot
}

type JSXAttr struct {
	Range
	Name      string
	NameRange Range
	// Value is nil for attributes written without '='
	Value Expr
	// Spread is set for {...props}, in which case Name is empty
	Spread Expr
}

type JSXElement struct {
	Range
	Name      string
	NameRange Range
	Attrs     []JSXAttr
	Children  []Expr
}

type JSXText struct {
	Range
	Value string
}

type Await struct {
	Range
	X Expr
}

// Opaque stands for a construct the tree does not model, such as a
// destructuring assignment or a spread. Its value is any. X, when set, is
// still evaluated, and each identifier in Bound is assigned any.
type Opaque struct {
	Range
	X     Expr
	Bound []*Ident
}

func (*NumberLit) exprNode()   {}
func (*StringLit) exprNode()   {}
func (*BoolLit) exprNode()     {}
func (*NullLit) exprNode()     {}
func (*BigIntLit) exprNode()   {}
func (*TemplateLit) exprNode() {}
func (*RegExpLit) exprNode()   {}
func (*This) exprNode()        {}
func (*ArrayLit) exprNode()    {}
func (*ObjectLit) exprNode()   {}
func (*FuncExpr) exprNode()    {}
func (*ClassExpr) exprNode()   {}
func (*Unary) exprNode()       {}
func (*Update) exprNode()      {}
func (*Binary) exprNode()      {}
func (*Logical) exprNode()     {}
func (*Assign) exprNode()      {}
func (*Cond) exprNode()        {}
func (*Call) exprNode()        {}
func (*New) exprNode()         {}
func (*Member) exprNode()      {}
func (*Seq) exprNode()         {}
func (*TypeCast) exprNode()    {}
func (*JSXElement) exprNode()  {}
func (*JSXText) exprNode()     {}
func (*Await) exprNode()       {}
func (*Opaque) exprNode()      {}
