package estree

import (
	"fmt"

	"github.com/cottand/flowty/frontend/ast"
)

func (d *decoder) stmts(list []object) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(list))
	for _, o := range list {
		if s := d.stmt(o); s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (d *decoder) stmt(o object) ast.Stmt {
	if o == nil {
		return nil
	}
	r := d.rng(o)
	var s ast.Stmt
	switch o.kind() {
	case "VariableDeclaration":
		s = d.varDecl(o)
	case "FunctionDeclaration":
		s = &ast.FuncDecl{Function: d.function(o)}
	case "DeclareFunction":
		s = &ast.FuncDecl{Function: d.declareFunction(o)}
	case "ClassDeclaration":
		s = &ast.ClassDecl{Class: d.class(o)}
	case "DeclareClass":
		s = &ast.ClassDecl{Class: d.declareClass(o)}
	case "TypeAlias", "DeclareTypeAlias":
		s = &ast.TypeAlias{
			Range:      r,
			Name:       d.ident(o.obj("id")),
			TypeParams: d.typeParams(o.obj("typeParameters")),
			Type:       d.typ(o.obj("right")),
		}
	case "OpaqueType", "DeclareOpaqueType":
		underlying := o.obj("impltype")
		if underlying == nil {
			underlying = o.obj("supertype")
		}
		alias := &ast.TypeAlias{
			Range:      r,
			Name:       d.ident(o.obj("id")),
			TypeParams: d.typeParams(o.obj("typeParameters")),
			Type:       d.typ(underlying),
			Opaque:     true,
		}
		if alias.Type == nil {
			alias.Type = &ast.NamedType{Range: r, Name: "mixed"}
		}
		s = alias
	case "InterfaceDeclaration", "DeclareInterface":
		s = &ast.InterfaceDecl{
			Range:      r,
			Name:       d.ident(o.obj("id")),
			TypeParams: d.typeParams(o.obj("typeParameters")),
			Extends:    d.extends(o.list("extends")),
			Body:       d.objectType(o.obj("body")),
		}
	case "ImportDeclaration":
		s = d.importDecl(o)
	case "ExportNamedDeclaration", "ExportDefaultDeclaration":
		s = d.exportDecl(o)
	case "ExpressionStatement":
		s = &ast.ExprStmt{Range: r, X: d.expr(o.obj("expression"))}
	case "BlockStatement":
		s = d.block(o)
	case "IfStatement":
		s = &ast.If{
			Range: r,
			Test:  d.expr(o.obj("test")),
			Then:  d.stmt(o.obj("consequent")),
			Else:  d.stmt(o.obj("alternate")),
		}
	case "WhileStatement":
		s = &ast.While{Range: r, Test: d.expr(o.obj("test")), Body: d.stmt(o.obj("body"))}
	case "DoWhileStatement":
		s = &ast.DoWhile{Range: r, Body: d.stmt(o.obj("body")), Test: d.expr(o.obj("test"))}
	case "ForStatement":
		s = &ast.For{
			Range:  r,
			Init:   d.forHead(o.obj("init")),
			Test:   d.expr(o.obj("test")),
			Update: d.expr(o.obj("update")),
			Body:   d.stmt(o.obj("body")),
		}
	case "ForInStatement":
		s = &ast.ForIn{Range: r, Left: d.forHead(o.obj("left")), Right: d.expr(o.obj("right")), Body: d.stmt(o.obj("body"))}
	case "ForOfStatement":
		s = &ast.ForOf{Range: r, Left: d.forHead(o.obj("left")), Right: d.expr(o.obj("right")), Body: d.stmt(o.obj("body"))}
	case "SwitchStatement":
		sw := &ast.Switch{Range: r, Disc: d.expr(o.obj("discriminant"))}
		for _, c := range o.list("cases") {
			sw.Cases = append(sw.Cases, ast.Case{
				Range: d.rng(c),
				Test:  d.expr(c.obj("test")),
				Body:  d.stmts(c.list("consequent")),
			})
		}
		s = sw
	case "BreakStatement":
		s = &ast.Break{Range: r, Label: o.obj("label").str("name")}
	case "ContinueStatement":
		s = &ast.Continue{Range: r, Label: o.obj("label").str("name")}
	case "ReturnStatement":
		s = &ast.Return{Range: r, X: d.expr(o.obj("argument"))}
	case "ThrowStatement":
		s = &ast.Throw{Range: r, X: d.expr(o.obj("argument"))}
	case "TryStatement":
		try := &ast.Try{Range: r, Block: d.block(o.obj("block")), Finalizer: d.block(o.obj("finalizer"))}
		if h := o.obj("handler"); h != nil {
			if p := h.obj("param"); p == nil || p.kind() == "Identifier" {
				try.Param = d.ident(p)
			} else {
				d.unsupported(p, "catch parameter")
			}
			try.Handler = d.block(h.obj("body"))
		}
		s = try
	case "EmptyStatement":
		s = &ast.Empty{Range: r}
	case "LabeledStatement":
		s = &ast.Labeled{Range: r, Label: o.obj("label").str("name"), Body: d.stmt(o.obj("body"))}
	default:
		d.unsupported(o, "statement")
		return &ast.Empty{Range: r}
	}
	setDoc(s, d.doc(o))
	return s
}

func (d *decoder) block(o object) *ast.Block {
	if o == nil {
		return nil
	}
	return &ast.Block{Range: d.rng(o), Body: d.stmts(o.list("body"))}
}

// forHead decodes the init of a for loop or the left side of for-in and
// for-of loops
func (d *decoder) forHead(o object) ast.Stmt {
	switch {
	case o == nil:
		return nil
	case o.kind() == "VariableDeclaration":
		return d.varDecl(o)
	}
	return &ast.ExprStmt{Range: d.rng(o), X: d.expr(o)}
}

func (d *decoder) varDecl(o object) *ast.VarDecl {
	decl := &ast.VarDecl{Range: d.rng(o)}
	switch o.str("kind") {
	case "let":
		decl.Kind = ast.Let
	case "const":
		decl.Kind = ast.Const
	default:
		decl.Kind = ast.Var
	}
	for _, v := range o.list("declarations") {
		id := v.obj("id")
		if id.kind() != "Identifier" {
			decl.Decls = append(decl.Decls, d.patternDecls(v)...)
			continue
		}
		decl.Decls = append(decl.Decls, ast.Declarator{
			Range: d.rng(v),
			Name:  d.ident(id),
			Annot: d.typ(id.obj("typeAnnotation")),
			Init:  d.expr(v.obj("init")),
		})
	}
	return decl
}

// patternDecls splits a destructuring declarator into one declarator per
// bound name. The initialiser is kept on the first.
func (d *decoder) patternDecls(v object) []ast.Declarator {
	id, r := v.obj("id"), d.rng(v)
	init := d.expr(v.obj("init"))
	var out []ast.Declarator
	for i, name := range d.pattern(id) {
		decl := ast.Declarator{Range: r, Name: name, Pattern: true}
		switch {
		case i == 0 && init != nil:
			decl.Init = &ast.Opaque{Range: d.rng(id), X: init}
		case init != nil:
			decl.Init = &ast.Opaque{Range: d.rng(id)}
		}
		out = append(out, decl)
	}
	return out
}

func (d *decoder) function(o object) *ast.Function {
	fn := &ast.Function{
		Range:      d.rng(o),
		Name:       d.ident(o.obj("id")),
		TypeParams: d.typeParams(o.obj("typeParameters")),
		Return:     d.typ(o.obj("returnType")),
		Checks:     d.predicate(o.obj("predicate")),
		Arrow:      o.kind() == "ArrowFunctionExpression",
		Async:      o.bool("async"),
		Doc:        d.doc(o),
	}
	for _, p := range o.list("params") {
		switch p.kind() {
		case "AssignmentPattern":
			param := d.param(p.obj("left"))
			param.Range = d.rng(p)
			param.Default = d.expr(p.obj("right"))
			fn.Params = append(fn.Params, param)
		case "RestElement":
			param := d.param(p.obj("argument"))
			if param.Annot == nil {
				param.Annot = d.typ(p.obj("typeAnnotation"))
			}
			fn.Rest = &param
		default:
			fn.Params = append(fn.Params, d.param(p))
		}
	}
	body := o.obj("body")
	if body.kind() == "BlockStatement" {
		fn.Body = d.block(body)
	} else {
		fn.ExprBody = d.expr(body)
	}
	return fn
}

func (d *decoder) param(o object) ast.Param {
	switch o.kind() {
	case "ObjectPattern", "ArrayPattern":
		return ast.Param{
			Range: d.rng(o),
			Bound: d.pattern(o),
			Annot: d.typ(o.obj("typeAnnotation")),
		}
	}
	return ast.Param{
		Range:    d.rng(o),
		Name:     d.ident(o),
		Annot:    d.typ(o.obj("typeAnnotation")),
		Optional: o.bool("optional"),
	}
}

func (d *decoder) predicate(o object) *ast.Checks {
	switch o.kind() {
	case "":
		return nil
	case "InferredPredicate":
		return &ast.Checks{Range: d.rng(o)}
	case "DeclaredPredicate":
		return &ast.Checks{Range: d.rng(o), Expr: d.expr(o.obj("value"))}
	}
	d.unsupported(o, "predicate")
	return nil
}

// declaredFunc builds the Function of a function type, as found in declare
// function and declared class methods
func (d *decoder) declaredFunc(ft object) *ast.Function {
	fn := &ast.Function{
		Range:      d.rng(ft),
		TypeParams: d.typeParams(ft.obj("typeParameters")),
		Return:     d.typ(ft.obj("returnType")),
		Declared:   true,
	}
	param := func(i int, p object) ast.Param {
		name := d.ident(p.obj("name"))
		if name == nil {
			// unnamed parameters, as in (number) => void
			name = &ast.Ident{Range: d.rng(p), Name: fmt.Sprintf("arg%d", i)}
		}
		return ast.Param{
			Range:    d.rng(p),
			Name:     name,
			Annot:    d.typ(p.obj("typeAnnotation")),
			Optional: p.bool("optional"),
		}
	}
	params := ft.list("params")
	for i, p := range params {
		fn.Params = append(fn.Params, param(i, p))
	}
	if rest := ft.obj("rest"); rest != nil {
		p := param(len(params), rest)
		fn.Rest = &p
	}
	return fn
}

func (d *decoder) declareFunction(o object) *ast.Function {
	id := o.obj("id")
	ft := id.obj("typeAnnotation").obj("typeAnnotation")
	if ft.kind() != "FunctionTypeAnnotation" {
		d.problemf(o, "declare function without a function type")
		return &ast.Function{Range: d.rng(o), Name: d.ident(id), Declared: true}
	}
	fn := d.declaredFunc(ft)
	fn.Range = d.rng(o)
	fn.Name = d.ident(id)
	fn.Checks = d.predicate(o.obj("predicate"))
	return fn
}

func (d *decoder) class(o object) *ast.Class {
	c := &ast.Class{
		Range:      d.rng(o),
		Name:       d.ident(o.obj("id")),
		TypeParams: d.typeParams(o.obj("typeParameters")),
		Super:      d.expr(o.obj("superClass")),
		Doc:        d.doc(o),
	}
	for _, impl := range o.list("implements") {
		c.Implements = append(c.Implements, d.generic(impl, impl.obj("id"), impl.obj("typeParameters")))
	}
	for _, m := range o.obj("body").list("body") {
		if member, ok := d.classMember(m); ok {
			c.Members = append(c.Members, member)
		}
	}
	return c
}

func (d *decoder) classMember(m object) (ast.ClassMember, bool) {
	if m.bool("computed") {
		// computed members have no name to look up
		return ast.ClassMember{}, false
	}
	name, _ := d.propName(m.obj("key"))
	member := ast.ClassMember{
		Range:  d.rng(m),
		Name:   name,
		Static: m.bool("static"),
		Doc:    d.doc(m),
	}
	switch m.kind() {
	case "MethodDefinition":
		member.Func = d.function(m.obj("value"))
		switch m.str("kind") {
		case "constructor":
			member.Kind = ast.ConstructorMember
		case "get":
			member.Kind = ast.GetterMember
		case "set":
			member.Kind = ast.SetterMember
		default:
			member.Kind = ast.MethodMember
		}
	case "ClassProperty", "PropertyDefinition", "ClassPrivateProperty":
		member.Kind = ast.FieldMember
		member.Variance = variance(m.obj("variance"))
		member.Annot = d.typ(m.obj("typeAnnotation"))
		member.Value = d.expr(m.obj("value"))
	default:
		d.unsupported(m, "class member")
		return ast.ClassMember{}, false
	}
	return member, true
}

func (d *decoder) declareClass(o object) *ast.Class {
	c := &ast.Class{
		Range:      d.rng(o),
		Name:       d.ident(o.obj("id")),
		TypeParams: d.typeParams(o.obj("typeParameters")),
		Declared:   true,
		Doc:        d.doc(o),
	}
	if ext := o.list("extends"); len(ext) > 0 {
		c.Super = d.expr(ext[0].obj("id"))
	}
	for _, impl := range o.list("implements") {
		c.Implements = append(c.Implements, d.generic(impl, impl.obj("id"), impl.obj("typeParameters")))
	}
	for _, p := range o.obj("body").list("properties") {
		if p.kind() != "ObjectTypeProperty" {
			continue
		}
		name, _ := d.propName(p.obj("key"))
		member := ast.ClassMember{
			Range:    d.rng(p),
			Kind:     ast.FieldMember,
			Name:     name,
			Static:   p.bool("static"),
			Variance: variance(p.obj("variance")),
			Doc:      d.doc(p),
		}
		value := p.obj("value")
		if p.bool("method") && value.kind() == "FunctionTypeAnnotation" {
			member.Kind = ast.MethodMember
			if name == "constructor" {
				member.Kind = ast.ConstructorMember
			}
			member.Func = d.declaredFunc(value)
		} else {
			member.Annot = d.typ(value)
		}
		c.Members = append(c.Members, member)
	}
	return c
}

func (d *decoder) extends(list []object) []ast.TypeAnnot {
	var out []ast.TypeAnnot
	for _, e := range list {
		out = append(out, d.generic(e, e.obj("id"), e.obj("typeParameters")))
	}
	return out
}

func (d *decoder) importDecl(o object) *ast.ImportDecl {
	decl := &ast.ImportDecl{
		Range:    d.rng(o),
		Source:   o.obj("source").str("value"),
		TypeOnly: typeOnly(o.str("importKind")),
	}
	for _, spec := range o.list("specifiers") {
		is := ast.ImportSpec{Range: d.rng(spec), Local: d.ident(spec.obj("local"))}
		switch spec.kind() {
		case "ImportSpecifier":
			is.Kind = ast.ImportNamed
			is.Imported, _ = d.propName(spec.obj("imported"))
			is.TypeOnly = typeOnly(spec.str("importKind"))
		case "ImportDefaultSpecifier":
			is.Kind = ast.ImportDefault
			is.Imported = "default"
		case "ImportNamespaceSpecifier":
			is.Kind = ast.ImportNamespace
		default:
			d.unsupported(spec, "import")
			continue
		}
		decl.Specs = append(decl.Specs, is)
	}
	return decl
}

func typeOnly(importKind string) bool {
	return importKind == "type" || importKind == "typeof"
}

func (d *decoder) exportDecl(o object) ast.Stmt {
	r := d.rng(o)
	if o.obj("source") != nil {
		// re-exports bind nothing in this module
		return &ast.Empty{Range: r}
	}
	decl := o.obj("declaration")
	if o.kind() == "ExportDefaultDeclaration" {
		switch decl.kind() {
		case "FunctionDeclaration", "ClassDeclaration":
			if decl.obj("id") != nil {
				return &ast.ExportDecl{Range: r, Decl: d.stmt(decl)}
			}
			if decl.kind() == "FunctionDeclaration" {
				return &ast.ExportDecl{Range: r, Default: &ast.FuncExpr{Function: d.function(decl)}}
			}
			return &ast.ExportDecl{Range: r, Default: &ast.ClassExpr{Class: d.class(decl)}}
		}
		return &ast.ExportDecl{Range: r, Default: d.expr(decl)}
	}
	export := &ast.ExportDecl{Range: r}
	if decl != nil {
		export.Decl = d.stmt(decl)
		setDoc(export.Decl, d.doc(o))
	}
	for _, spec := range o.list("specifiers") {
		exported, _ := d.propName(spec.obj("exported"))
		export.Specs = append(export.Specs, ast.ExportSpec{
			Range:    d.rng(spec),
			Local:    d.ident(spec.obj("local")),
			Exported: exported,
		})
	}
	return export
}
