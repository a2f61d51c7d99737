package construct

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"

	"github.com/cottand/flowty/frontend/ast"
)

// Build prints stmts as the module name and sets the Range of every node to
// where it was printed. The returned Source holds the printed text, so
// positions can be computed from it like for a parsed file.
func Build(name string, stmts ...ast.Stmt) (*ast.File, *ast.Source) {
	p := &printer{}
	f := &ast.File{Name: name, Body: stmts}
	start := p.pos()
	for i, s := range stmts {
		if i > 0 {
			p.newline()
		}
		p.stmt(s)
	}
	p.sb.WriteString("\n")
	f.Range = ast.Range{PosStart: start, PosEnd: p.pos()}
	return f, ast.NewSource(name, p.sb.String())
}

type printer struct {
	sb     strings.Builder
	indent int
}

func (p *printer) pos() token.Pos { return ast.PosOfOffset(p.sb.Len()) }

func (p *printer) print(parts ...string) {
	for _, s := range parts {
		p.sb.WriteString(s)
	}
}

func (p *printer) newline() {
	p.sb.WriteString("\n")
	p.sb.WriteString(strings.Repeat("  ", p.indent))
}

// ident prints name and returns where it went
func (p *printer) ident(name string) ast.Range {
	start := p.pos()
	p.print(name)
	return ast.Range{PosStart: start, PosEnd: p.pos()}
}

func (p *printer) doc(d ast.Doc) {
	if d == "" {
		return
	}
	p.print("/** ", string(d), " */")
	p.newline()
}

func (p *printer) stmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		p.newline()
		p.stmt(s)
	}
}

func (p *printer) block(b *ast.Block) {
	start := p.pos()
	p.print("{")
	p.indent++
	p.stmts(b.Body)
	p.indent--
	if len(b.Body) > 0 {
		p.newline()
	}
	p.print("}")
	b.Range = ast.Range{PosStart: start, PosEnd: p.pos()}
}

func (p *printer) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.VarDecl:
		p.doc(s.Doc)
		p.varDecl(s)
		p.print(";")
		s.Range.PosEnd = p.pos()
	case *ast.FuncDecl:
		p.doc(s.Doc)
		p.function(s.Function, "function ")
	case *ast.ClassDecl:
		p.doc(s.Doc)
		p.class(s.Class)
	case *ast.TypeAlias:
		p.doc(s.Doc)
		start := p.pos()
		if s.Opaque {
			p.print("opaque ")
		}
		p.print("type ")
		s.Name.Range = p.ident(s.Name.Name)
		p.typeParams(s.TypeParams)
		p.print(" = ")
		p.typ(s.Type)
		p.print(";")
		s.Range = ast.Range{PosStart: start, PosEnd: p.pos()}
	case *ast.InterfaceDecl:
		p.doc(s.Doc)
		start := p.pos()
		p.print("interface ")
		s.Name.Range = p.ident(s.Name.Name)
		p.typeParams(s.TypeParams)
		if len(s.Extends) > 0 {
			p.print(" extends ")
			p.typeList(s.Extends, ", ")
		}
		p.print(" ")
		if s.Body == nil {
			s.Body = &ast.ObjectType{}
		}
		p.typ(s.Body)
		s.Range = ast.Range{PosStart: start, PosEnd: p.pos()}
	case *ast.ImportDecl:
		p.importDecl(s)
	case *ast.ExportDecl:
		start := p.pos()
		p.print("export ")
		switch {
		case s.Decl != nil:
			p.stmt(s.Decl)
		case s.Default != nil:
			p.print("default ")
			p.expr(s.Default)
			p.print(";")
		default:
			p.print("{")
			for i := range s.Specs {
				spec := &s.Specs[i]
				if i > 0 {
					p.print(", ")
				}
				specStart := p.pos()
				p.expr(spec.Local)
				if spec.Exported != "" && spec.Exported != spec.Local.Name {
					p.print(" as ", spec.Exported)
				}
				spec.Range = ast.Range{PosStart: specStart, PosEnd: p.pos()}
			}
			p.print("};")
		}
		s.Range = ast.Range{PosStart: start, PosEnd: p.pos()}
	case *ast.ExprStmt:
		start := p.pos()
		p.expr(s.X)
		p.print(";")
		s.Range = ast.Range{PosStart: start, PosEnd: p.pos()}
	case *ast.Block:
		p.block(s)
	case *ast.If:
		start := p.pos()
		p.print("if (")
		p.expr(s.Test)
		p.print(") ")
		p.stmt(s.Then)
		if s.Else != nil {
			p.print(" else ")
			p.stmt(s.Else)
		}
		s.Range = ast.Range{PosStart: start, PosEnd: p.pos()}
	case *ast.While:
		start := p.pos()
		p.print("while (")
		p.expr(s.Test)
		p.print(") ")
		p.stmt(s.Body)
		s.Range = ast.Range{PosStart: start, PosEnd: p.pos()}
	case *ast.DoWhile:
		start := p.pos()
		p.print("do ")
		p.stmt(s.Body)
		p.print(" while (")
		p.expr(s.Test)
		p.print(");")
		s.Range = ast.Range{PosStart: start, PosEnd: p.pos()}
	case *ast.For:
		start := p.pos()
		p.print("for (")
		switch init := s.Init.(type) {
		case *ast.VarDecl:
			p.varDecl(init)
		case *ast.ExprStmt:
			initStart := p.pos()
			p.expr(init.X)
			init.Range = ast.Range{PosStart: initStart, PosEnd: p.pos()}
		}
		p.print("; ")
		p.optExpr(s.Test)
		p.print("; ")
		p.optExpr(s.Update)
		p.print(") ")
		p.stmt(s.Body)
		s.Range = ast.Range{PosStart: start, PosEnd: p.pos()}
	case *ast.ForIn:
		start := p.pos()
		p.forEach(s.Left, " in ", s.Right, s.Body)
		s.Range = ast.Range{PosStart: start, PosEnd: p.pos()}
	case *ast.ForOf:
		start := p.pos()
		p.forEach(s.Left, " of ", s.Right, s.Body)
		s.Range = ast.Range{PosStart: start, PosEnd: p.pos()}
	case *ast.Switch:
		start := p.pos()
		p.print("switch (")
		p.expr(s.Disc)
		p.print(") {")
		p.indent++
		for i := range s.Cases {
			c := &s.Cases[i]
			p.newline()
			caseStart := p.pos()
			if c.Test == nil {
				p.print("default:")
			} else {
				p.print("case ")
				p.expr(c.Test)
				p.print(":")
			}
			p.indent++
			p.stmts(c.Body)
			p.indent--
			c.Range = ast.Range{PosStart: caseStart, PosEnd: p.pos()}
		}
		p.indent--
		p.newline()
		p.print("}")
		s.Range = ast.Range{PosStart: start, PosEnd: p.pos()}
	case *ast.Break:
		s.Range = p.ident(jump("break", s.Label))
	case *ast.Continue:
		s.Range = p.ident(jump("continue", s.Label))
	case *ast.Labeled:
		start := p.pos()
		p.print(s.Label, ": ")
		p.stmt(s.Body)
		s.Range = ast.Range{PosStart: start, PosEnd: p.pos()}
	case *ast.Return:
		start := p.pos()
		p.print("return")
		if s.X != nil {
			p.print(" ")
			p.expr(s.X)
		}
		p.print(";")
		s.Range = ast.Range{PosStart: start, PosEnd: p.pos()}
	case *ast.Throw:
		start := p.pos()
		p.print("throw ")
		p.expr(s.X)
		p.print(";")
		s.Range = ast.Range{PosStart: start, PosEnd: p.pos()}
	case *ast.Try:
		start := p.pos()
		p.print("try ")
		p.block(s.Block)
		if s.Handler != nil {
			p.print(" catch ")
			if s.Param != nil {
				p.print("(")
				s.Param.Range = p.ident(s.Param.Name)
				p.print(") ")
			}
			p.block(s.Handler)
		}
		if s.Finalizer != nil {
			p.print(" finally ")
			p.block(s.Finalizer)
		}
		s.Range = ast.Range{PosStart: start, PosEnd: p.pos()}
	case *ast.Empty:
		s.Range = p.ident(";")
	default:
		panic(fmt.Sprintf("construct: cannot print statement %T", s))
	}
}

func jump(keyword, label string) string {
	if label == "" {
		return keyword + ";"
	}
	return keyword + " " + label + ";"
}

func (p *printer) varDecl(s *ast.VarDecl) {
	start := p.pos()
	p.print(s.Kind.String(), " ")
	for i := range s.Decls {
		d := &s.Decls[i]
		if i > 0 {
			p.print(", ")
		}
		dStart := p.pos()
		d.Name.Range = p.ident(d.Name.Name)
		if d.Annot != nil {
			p.print(": ")
			p.typ(d.Annot)
		}
		if d.Init != nil {
			p.print(" = ")
			p.expr(d.Init)
		}
		d.Range = ast.Range{PosStart: dStart, PosEnd: p.pos()}
	}
	s.Range = ast.Range{PosStart: start, PosEnd: p.pos()}
}

func (p *printer) forEach(left ast.Stmt, kw string, right ast.Expr, body ast.Stmt) {
	p.print("for (")
	switch left := left.(type) {
	case *ast.VarDecl:
		p.varDecl(left)
	case *ast.ExprStmt:
		start := p.pos()
		p.expr(left.X)
		left.Range = ast.Range{PosStart: start, PosEnd: p.pos()}
	}
	p.print(kw)
	p.expr(right)
	p.print(") ")
	p.stmt(body)
}

func (p *printer) importDecl(s *ast.ImportDecl) {
	start := p.pos()
	p.print("import ")
	if s.TypeOnly {
		p.print("type ")
	}
	var named []*ast.ImportSpec
	wrote := false
	for i := range s.Specs {
		spec := &s.Specs[i]
		switch spec.Kind {
		case ast.ImportDefault:
			specStart := p.pos()
			spec.Local.Range = p.ident(spec.Local.Name)
			spec.Range = ast.Range{PosStart: specStart, PosEnd: p.pos()}
			wrote = true
		case ast.ImportNamespace:
			if wrote {
				p.print(", ")
			}
			specStart := p.pos()
			p.print("* as ")
			spec.Local.Range = p.ident(spec.Local.Name)
			spec.Range = ast.Range{PosStart: specStart, PosEnd: p.pos()}
			wrote = true
		default:
			named = append(named, spec)
		}
	}
	if len(named) > 0 {
		if wrote {
			p.print(", ")
		}
		p.print("{")
		for i, spec := range named {
			if i > 0 {
				p.print(", ")
			}
			specStart := p.pos()
			if spec.TypeOnly {
				p.print("type ")
			}
			if spec.Imported != "" && spec.Imported != spec.Local.Name {
				p.print(spec.Imported, " as ")
			}
			spec.Local.Range = p.ident(spec.Local.Name)
			spec.Range = ast.Range{PosStart: specStart, PosEnd: p.pos()}
		}
		p.print("}")
	}
	p.print(" from ", strconv.Quote(s.Source), ";")
	s.Range = ast.Range{PosStart: start, PosEnd: p.pos()}
}

func (p *printer) typeParams(tps []ast.TypeParam) {
	if len(tps) == 0 {
		return
	}
	p.print("<")
	for i := range tps {
		tp := &tps[i]
		if i > 0 {
			p.print(", ")
		}
		start := p.pos()
		p.print(tp.Name)
		if tp.Bound != nil {
			p.print(": ")
			p.typ(tp.Bound)
		}
		tp.Range = ast.Range{PosStart: start, PosEnd: p.pos()}
	}
	p.print(">")
}

func (p *printer) param(prm *ast.Param, rest bool) {
	start := p.pos()
	if rest {
		p.print("...")
	}
	if prm.Name != nil {
		prm.Name.Range = p.ident(prm.Name.Name)
	} else {
		p.print("{")
		for i, id := range prm.Bound {
			if i > 0 {
				p.print(", ")
			}
			id.Range = p.ident(id.Name)
		}
		p.print("}")
	}
	if prm.Optional {
		p.print("?")
	}
	if prm.Annot != nil {
		p.print(": ")
		p.typ(prm.Annot)
	}
	if prm.Default != nil {
		p.print(" = ")
		p.expr(prm.Default)
	}
	prm.Range = ast.Range{PosStart: start, PosEnd: p.pos()}
}

// function prints fn after the given keyword, which is "function " for
// declarations and expressions and empty for methods
func (p *printer) function(fn *ast.Function, keyword string) {
	start := p.pos()
	if fn.Declared && keyword != "" {
		p.print("declare ")
	}
	if fn.Async {
		p.print("async ")
	}
	if !fn.Arrow {
		p.print(keyword)
		if fn.Name != nil {
			fn.Name.Range = p.ident(fn.Name.Name)
		}
	}
	p.typeParams(fn.TypeParams)
	p.print("(")
	for i := range fn.Params {
		if i > 0 {
			p.print(", ")
		}
		p.param(&fn.Params[i], false)
	}
	if fn.Rest != nil {
		if len(fn.Params) > 0 {
			p.print(", ")
		}
		p.param(fn.Rest, true)
	}
	p.print(")")
	if fn.Return != nil {
		p.print(": ")
		p.typ(fn.Return)
	}
	if fn.Checks != nil {
		checksStart := p.pos()
		p.print(" %checks")
		if fn.Checks.Expr != nil {
			p.print("(")
			p.expr(fn.Checks.Expr)
			p.print(")")
		}
		fn.Checks.Range = ast.Range{PosStart: checksStart, PosEnd: p.pos()}
	}
	switch {
	case fn.Declared:
		p.print(";")
	case fn.Arrow && fn.ExprBody != nil:
		p.print(" => ")
		if _, isObj := fn.ExprBody.(*ast.ObjectLit); isObj {
			p.print("(")
			p.expr(fn.ExprBody)
			p.print(")")
		} else {
			p.expr(fn.ExprBody)
		}
	default:
		if fn.Arrow {
			p.print(" =>")
		}
		p.print(" ")
		if fn.Body == nil {
			fn.Body = &ast.Block{}
		}
		p.block(fn.Body)
	}
	fn.Range = ast.Range{PosStart: start, PosEnd: p.pos()}
}

func (p *printer) class(c *ast.Class) {
	start := p.pos()
	if c.Declared {
		p.print("declare ")
	}
	p.print("class")
	if c.Name != nil {
		p.print(" ")
		c.Name.Range = p.ident(c.Name.Name)
	}
	p.typeParams(c.TypeParams)
	if c.Super != nil {
		p.print(" extends ")
		p.expr(c.Super)
	}
	if len(c.Implements) > 0 {
		p.print(" implements ")
		p.typeList(c.Implements, ", ")
	}
	p.print(" {")
	p.indent++
	for i := range c.Members {
		m := &c.Members[i]
		p.newline()
		p.doc(m.Doc)
		mStart := p.pos()
		if m.Static {
			p.print("static ")
		}
		switch m.Kind {
		case ast.FieldMember:
			p.print(m.Variance.String(), m.Name)
			if m.Annot != nil {
				p.print(": ")
				p.typ(m.Annot)
			}
			if m.Value != nil {
				p.print(" = ")
				p.expr(m.Value)
			}
			p.print(";")
		default:
			switch m.Kind {
			case ast.GetterMember:
				p.print("get ")
			case ast.SetterMember:
				p.print("set ")
			}
			p.print(m.Name)
			p.function(m.Func, "")
		}
		m.Range = ast.Range{PosStart: mStart, PosEnd: p.pos()}
	}
	p.indent--
	if len(c.Members) > 0 {
		p.newline()
	}
	p.print("}")
	c.Range = ast.Range{PosStart: start, PosEnd: p.pos()}
}

func (p *printer) optExpr(e ast.Expr) {
	if e != nil {
		p.expr(e)
	}
}

func (p *printer) exprs(es []ast.Expr) {
	for i, e := range es {
		if i > 0 {
			p.print(", ")
		}
		if e != nil {
			p.expr(e)
		}
	}
}

// operand prints e, parenthesised when it is not a primary expression
func (p *printer) operand(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Binary, *ast.Logical, *ast.Assign, *ast.Cond, *ast.Seq, *ast.Await, *ast.Unary, *ast.Update:
		p.print("(")
		p.expr(e)
		p.print(")")
	case *ast.FuncExpr:
		p.print("(")
		p.expr(e)
		p.print(")")
	default:
		p.expr(e)
	}
}

func (p *printer) expr(e ast.Expr) {
	start := p.pos()
	end := func() ast.Range { return ast.Range{PosStart: start, PosEnd: p.pos()} }
	switch e := e.(type) {
	case *ast.Ident:
		e.Range = p.ident(e.Name)
	case *ast.NumberLit:
		if e.Raw == "" {
			e.Raw = strconv.FormatFloat(e.Value, 'f', -1, 64)
		}
		e.Range = p.ident(e.Raw)
	case *ast.StringLit:
		e.Range = p.ident(strconv.Quote(e.Value))
	case *ast.BoolLit:
		e.Range = p.ident(strconv.FormatBool(e.Value))
	case *ast.NullLit:
		e.Range = p.ident("null")
	case *ast.BigIntLit:
		e.Range = p.ident(e.Raw)
	case *ast.RegExpLit:
		e.Range = p.ident("/" + e.Pattern + "/")
	case *ast.This:
		e.Range = p.ident("this")
	case *ast.TemplateLit:
		p.print("`")
		for _, x := range e.Exprs {
			p.print("${")
			p.expr(x)
			p.print("}")
		}
		p.print("`")
		e.Range = end()
	case *ast.ArrayLit:
		p.print("[")
		p.exprs(e.Elems)
		p.print("]")
		e.Range = end()
	case *ast.ObjectLit:
		p.print("{")
		for i := range e.Props {
			prop := &e.Props[i]
			if i > 0 {
				p.print(", ")
			}
			propStart := p.pos()
			switch {
			case prop.Kind == ast.PropSpread:
				p.print("...")
				p.expr(prop.Value)
			case prop.KeyExpr != nil:
				p.print("[")
				p.expr(prop.KeyExpr)
				p.print("]: ")
				p.expr(prop.Value)
			case prop.Kind == ast.PropMethod:
				prop.KeyRange = p.ident(prop.Key)
				fe := prop.Value.(*ast.FuncExpr)
				p.function(fe.Function, "")
			default:
				prop.KeyRange = p.ident(prop.Key)
				p.print(": ")
				p.expr(prop.Value)
			}
			prop.Range = ast.Range{PosStart: propStart, PosEnd: p.pos()}
		}
		p.print("}")
		e.Range = end()
	case *ast.FuncExpr:
		p.function(e.Function, "function ")
	case *ast.ClassExpr:
		p.class(e.Class)
	case *ast.Unary:
		p.print(e.Op)
		if len(e.Op) > 1 {
			p.print(" ")
		}
		p.operand(e.X)
		e.Range = end()
	case *ast.Update:
		if e.Prefix {
			p.print(e.Op)
			p.operand(e.X)
		} else {
			p.operand(e.X)
			p.print(e.Op)
		}
		e.Range = end()
	case *ast.Binary:
		p.operand(e.X)
		p.print(" ", e.Op, " ")
		p.operand(e.Y)
		e.Range = end()
	case *ast.Logical:
		p.operand(e.X)
		p.print(" ", e.Op, " ")
		p.operand(e.Y)
		e.Range = end()
	case *ast.Assign:
		p.expr(e.Target)
		p.print(" ", e.Op, " ")
		p.expr(e.Value)
		e.Range = end()
	case *ast.Cond:
		p.operand(e.Test)
		p.print(" ? ")
		p.operand(e.Then)
		p.print(" : ")
		p.operand(e.Else)
		e.Range = end()
	case *ast.Call:
		p.operand(e.Callee)
		if e.Optional {
			p.print("?.")
		}
		p.print("(")
		p.exprs(e.Args)
		p.print(")")
		e.Range = end()
	case *ast.New:
		p.print("new ")
		p.operand(e.Callee)
		p.print("(")
		p.exprs(e.Args)
		p.print(")")
		e.Range = end()
	case *ast.Member:
		p.operand(e.X)
		if e.Optional {
			p.print("?.")
		}
		if e.Index != nil {
			p.print("[")
			p.expr(e.Index)
			p.print("]")
		} else {
			if !e.Optional {
				p.print(".")
			}
			e.PropRange = p.ident(e.Prop)
		}
		e.Range = end()
	case *ast.Seq:
		p.exprs(e.Exprs)
		e.Range = end()
	case *ast.TypeCast:
		p.print("(")
		p.expr(e.X)
		p.print(": ")
		p.typ(e.Type)
		p.print(")")
		e.Range = end()
	case *ast.Await:
		p.print("await ")
		p.operand(e.X)
		e.Range = end()
	case *ast.Opaque:
		if len(e.Bound) > 0 {
			p.print("[")
			for i, id := range e.Bound {
				if i > 0 {
					p.print(", ")
				}
				id.Range = p.ident(id.Name)
			}
			p.print("]")
		}
		if e.X != nil {
			p.print("...")
			p.operand(e.X)
		}
		e.Range = end()
	case *ast.JSXText:
		e.Range = p.ident(e.Value)
	case *ast.JSXElement:
		p.print("<")
		e.NameRange = p.ident(e.Name)
		for i := range e.Attrs {
			a := &e.Attrs[i]
			p.print(" ")
			aStart := p.pos()
			if a.Spread != nil {
				p.print("{...")
				p.expr(a.Spread)
				p.print("}")
			} else {
				a.NameRange = p.ident(a.Name)
				if a.Value != nil {
					p.print("=")
					if s, ok := a.Value.(*ast.StringLit); ok {
						p.expr(s)
					} else {
						p.print("{")
						p.expr(a.Value)
						p.print("}")
					}
				}
			}
			a.Range = ast.Range{PosStart: aStart, PosEnd: p.pos()}
		}
		if len(e.Children) == 0 {
			p.print(" />")
		} else {
			p.print(">")
			for _, c := range e.Children {
				switch c.(type) {
				case *ast.JSXText, *ast.JSXElement:
					p.expr(c)
				default:
					p.print("{")
					p.expr(c)
					p.print("}")
				}
			}
			p.print("</", e.Name, ">")
		}
		e.Range = end()
	default:
		panic(fmt.Sprintf("construct: cannot print expression %T", e))
	}
}

func (p *printer) typeList(ts []ast.TypeAnnot, sep string) {
	for i, t := range ts {
		if i > 0 {
			p.print(sep)
		}
		p.typ(t)
	}
}

// typeOperand parenthesises function types inside unions and arrays
func (p *printer) typeOperand(t ast.TypeAnnot) {
	switch t.(type) {
	case *ast.FuncType, *ast.UnionType, *ast.IntersectionType:
		p.print("(")
		p.typ(t)
		p.print(")")
	default:
		p.typ(t)
	}
}

func (p *printer) typ(t ast.TypeAnnot) {
	start := p.pos()
	end := func() ast.Range { return ast.Range{PosStart: start, PosEnd: p.pos()} }
	switch t := t.(type) {
	case *ast.NamedType:
		p.print(t.FullName())
		if len(t.Args) > 0 {
			p.print("<")
			p.typeList(t.Args, ", ")
			p.print(">")
		}
		t.Range = end()
	case *ast.LiteralType:
		switch v := t.Value.(type) {
		case string:
			p.print(strconv.Quote(v))
		case float64:
			p.print(strconv.FormatFloat(v, 'f', -1, 64))
		default:
			p.print(fmt.Sprint(v))
		}
		t.Range = end()
	case *ast.MaybeType:
		p.print("?")
		p.typeOperand(t.Elem)
		t.Range = end()
	case *ast.UnionType:
		for i, m := range t.Types {
			if i > 0 {
				p.print(" | ")
			}
			p.typeOperand(m)
		}
		t.Range = end()
	case *ast.IntersectionType:
		for i, m := range t.Types {
			if i > 0 {
				p.print(" & ")
			}
			p.typeOperand(m)
		}
		t.Range = end()
	case *ast.ArrayType:
		p.typeOperand(t.Elem)
		p.print("[]")
		t.Range = end()
	case *ast.TupleType:
		p.print("[")
		p.typeList(t.Elems, ", ")
		p.print("]")
		t.Range = end()
	case *ast.ObjectType:
		open, closing := "{", "}"
		if t.Exact {
			open, closing = "{|", "|}"
		}
		p.print(open)
		n := 0
		sep := func() {
			if n > 0 {
				p.print(", ")
			}
			n++
		}
		for i := range t.Props {
			prop := &t.Props[i]
			sep()
			if prop.Doc != "" {
				p.print("/** ", string(prop.Doc), " */ ")
			}
			propStart := p.pos()
			p.print(prop.Variance.String(), prop.Name)
			if prop.Optional {
				p.print("?")
			}
			p.print(": ")
			p.typ(prop.Type)
			prop.Range = ast.Range{PosStart: propStart, PosEnd: p.pos()}
		}
		for i := range t.Indexers {
			ix := &t.Indexers[i]
			sep()
			ixStart := p.pos()
			p.print(ix.Variance.String(), "[")
			p.typ(ix.Key)
			p.print("]: ")
			p.typ(ix.Value)
			ix.Range = ast.Range{PosStart: ixStart, PosEnd: p.pos()}
		}
		for _, s := range t.Spreads {
			sep()
			p.print("...")
			p.typ(s)
		}
		if t.Inexact {
			sep()
			p.print("...")
		}
		p.print(closing)
		t.Range = end()
	case *ast.FuncType:
		p.typeParams(t.TypeParams)
		p.print("(")
		for i := range t.Params {
			prm := &t.Params[i]
			if i > 0 {
				p.print(", ")
			}
			prmStart := p.pos()
			if prm.Name != "" {
				p.print(prm.Name)
				if prm.Optional {
					p.print("?")
				}
				p.print(": ")
			}
			p.typ(prm.Type)
			prm.Range = ast.Range{PosStart: prmStart, PosEnd: p.pos()}
		}
		if t.Rest != nil {
			if len(t.Params) > 0 {
				p.print(", ")
			}
			restStart := p.pos()
			p.print("...", t.Rest.Name, ": ")
			p.typ(t.Rest.Type)
			t.Rest.Range = ast.Range{PosStart: restStart, PosEnd: p.pos()}
		}
		p.print(") => ")
		p.typ(t.Return)
		t.Range = end()
	case *ast.TypeofType:
		p.print("typeof ")
		t.X.Range = p.ident(t.X.Name)
		t.Range = end()
	case *ast.IndexedAccessType:
		p.typeOperand(t.Obj)
		if t.Optional {
			p.print("?.")
		}
		p.print("[")
		p.typ(t.Index)
		p.print("]")
		t.Range = end()
	default:
		panic(fmt.Sprintf("construct: cannot print type %T", t))
	}
}
