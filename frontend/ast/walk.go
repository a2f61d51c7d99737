package ast

import "fmt"

// Inspect traverses the tree rooted at n in depth-first order, like
// go/ast.Inspect: it calls f(node), and if f returns true it visits the
// children of node, followed by a call of f(nil).
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
	f(nil)
}

// Path returns the chain of nodes from root to the innermost node for which
// match returns true, or nil if there is none
func Path(root Node, match func(Node) bool) []Node {
	var stack, found []Node
	Inspect(root, func(n Node) bool {
		if n == nil {
			stack = stack[:len(stack)-1]
			return false
		}
		stack = append(stack, n)
		if match(n) {
			found = append(found[:0], stack...)
		}
		return true
	})
	return found
}

// Children returns the direct children of n in source order. nil children are
// omitted.
func Children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if !isNil(c) {
				out = append(out, c)
			}
		}
	}
	addFunc := func(fn *Function) {
		if fn == nil {
			return
		}
		if fn.Name != nil {
			add(fn.Name)
		}
		for _, tp := range fn.TypeParams {
			add(tp.Bound)
		}
		for i := range fn.Params {
			for _, id := range fn.Params[i].Bound {
				add(id)
			}
			add(fn.Params[i].Name, fn.Params[i].Annot, fn.Params[i].Default)
		}
		if fn.Rest != nil {
			add(fn.Rest.Name, fn.Rest.Annot)
		}
		add(fn.Return)
		if fn.Checks != nil {
			add(fn.Checks.Expr)
		}
		if fn.Body != nil {
			add(fn.Body)
		}
		add(fn.ExprBody)
	}
	addClass := func(c *Class) {
		if c.Name != nil {
			add(c.Name)
		}
		add(c.Super)
		for _, i := range c.Implements {
			add(i)
		}
		for _, m := range c.Members {
			add(m.Annot, m.Value)
			addFunc(m.Func)
		}
	}
	addStmts := func(stmts []Stmt) {
		for _, s := range stmts {
			add(s)
		}
	}
	addExprs := func(exprs []Expr) {
		for _, e := range exprs {
			add(e)
		}
	}
	addTypes := func(ts []TypeAnnot) {
		for _, t := range ts {
			add(t)
		}
	}

	switch n := n.(type) {
	case *File:
		addStmts(n.Body)
	case *Ident, *NumberLit, *StringLit, *BoolLit, *NullLit, *BigIntLit, *RegExpLit, *This, *JSXText,
		*Break, *Continue, *Empty, *LiteralType:
	case *TemplateLit:
		addExprs(n.Exprs)
	case *ArrayLit:
		addExprs(n.Elems)
	case *ObjectLit:
		for _, p := range n.Props {
			add(p.KeyExpr, p.Value)
		}
	case *FuncExpr:
		addFunc(n.Function)
	case *ClassExpr:
		addClass(n.Class)
	case *Unary:
		add(n.X)
	case *Update:
		add(n.X)
	case *Binary:
		add(n.X, n.Y)
	case *Logical:
		add(n.X, n.Y)
	case *Assign:
		add(n.Target, n.Value)
	case *Cond:
		add(n.Test, n.Then, n.Else)
	case *Call:
		add(n.Callee)
		addExprs(n.Args)
	case *New:
		add(n.Callee)
		addExprs(n.Args)
	case *Member:
		add(n.X, n.Index)
	case *Seq:
		addExprs(n.Exprs)
	case *TypeCast:
		add(n.X, n.Type)
	case *JSXElement:
		for _, a := range n.Attrs {
			add(a.Value, a.Spread)
		}
		addExprs(n.Children)
	case *Await:
		add(n.X)
	case *Opaque:
		add(n.X)
		for _, id := range n.Bound {
			add(id)
		}

	case *VarDecl:
		for _, d := range n.Decls {
			add(d.Name, d.Annot, d.Init)
		}
	case *FuncDecl:
		addFunc(n.Function)
	case *ClassDecl:
		addClass(n.Class)
	case *TypeAlias:
		add(n.Name)
		for _, tp := range n.TypeParams {
			add(tp.Bound)
		}
		add(n.Type)
	case *InterfaceDecl:
		add(n.Name)
		addTypes(n.Extends)
		if n.Body != nil {
			add(n.Body)
		}
	case *ImportDecl:
		for _, s := range n.Specs {
			add(s.Local)
		}
	case *ExportDecl:
		add(n.Decl, n.Default)
		for _, s := range n.Specs {
			add(s.Local)
		}
	case *ExprStmt:
		add(n.X)
	case *Block:
		addStmts(n.Body)
	case *If:
		add(n.Test, n.Then, n.Else)
	case *While:
		add(n.Test, n.Body)
	case *DoWhile:
		add(n.Body, n.Test)
	case *For:
		add(n.Init, n.Test, n.Update, n.Body)
	case *ForIn:
		add(n.Left, n.Right, n.Body)
	case *ForOf:
		add(n.Left, n.Right, n.Body)
	case *Switch:
		add(n.Disc)
		for _, c := range n.Cases {
			add(c.Test)
			addStmts(c.Body)
		}
	case *Labeled:
		add(n.Body)
	case *Return:
		add(n.X)
	case *Throw:
		add(n.X)
	case *Try:
		if n.Block != nil {
			add(n.Block)
		}
		if n.Param != nil {
			add(n.Param)
		}
		if n.Handler != nil {
			add(n.Handler)
		}
		if n.Finalizer != nil {
			add(n.Finalizer)
		}

	case *NamedType:
		addTypes(n.Args)
	case *MaybeType:
		add(n.Elem)
	case *UnionType:
		addTypes(n.Types)
	case *IntersectionType:
		addTypes(n.Types)
	case *ArrayType:
		add(n.Elem)
	case *TupleType:
		addTypes(n.Elems)
	case *ObjectType:
		for _, p := range n.Props {
			add(p.Type)
		}
		for _, i := range n.Indexers {
			add(i.Key, i.Value)
		}
		addTypes(n.Spreads)
	case *FuncType:
		for _, tp := range n.TypeParams {
			add(tp.Bound)
		}
		for _, p := range n.Params {
			add(p.Type)
		}
		if n.Rest != nil {
			add(n.Rest.Type)
		}
		add(n.Return)
	case *TypeofType:
		if n.X != nil {
			add(n.X)
		}
	case *IndexedAccessType:
		add(n.Obj, n.Index)
	default:
		panic(fmt.Sprintf("ast: unexpected node %T", n))
	}
	return out
}

// isNil catches typed nil pointers stored in interfaces, which the optional
// fields of most nodes are
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch n := n.(type) {
	case *Ident:
		return n == nil
	case *Block:
		return n == nil
	case *ObjectType:
		return n == nil
	case *FuncExpr:
		return n == nil || n.Function == nil
	case *FuncDecl:
		return n == nil || n.Function == nil
	}
	return false
}
