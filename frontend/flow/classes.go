package flow

import (
	"go/token"

	"github.com/cottand/flowty/frontend/ast"
	"github.com/cottand/flowty/frontend/flowerr"
	"github.com/cottand/flowty/frontend/scope"
	"github.com/cottand/flowty/frontend/types"
)

// classDef builds the definition of c. Unannotated fields take the type of
// their initializer.
func (a *analyzer) classDef(c *ast.Class) *types.ClassDef {
	if def, ok := a.classes[c]; ok {
		return def
	}
	def := &types.ClassDef{ID: c.Range, Name: "<anonymous>", Declared: c.Declared, Doc: string(c.Doc)}
	if c.Name != nil {
		def.ID, def.Name = c.Name.Range, c.Name.Name
	}
	a.classes[c] = def
	a.classNodes[def] = c
	def.Super = a.superClass(c.Super)

	add := func(static bool, f types.Field) {
		if static {
			def.Statics = append(def.Statics, f)
		} else if i := fieldIndex(def.Fields, f.Name); i >= 0 {
			def.Fields[i] = f
		} else {
			def.Fields = append(def.Fields, f)
		}
	}
	for _, m := range c.Members {
		switch m.Kind {
		case ast.FieldMember:
			add(m.Static, types.Field{Name: m.Name, Type: a.fieldType(m), Variance: m.Variance, Doc: string(m.Doc)})
		case ast.MethodMember:
			sig := a.signature(m.Func)
			add(m.Static, types.Field{Name: m.Name, Type: sig, Method: true, Doc: string(m.Doc)})
		case ast.GetterMember:
			sig := a.signature(m.Func)
			add(m.Static, types.Field{Name: m.Name, Type: sig.Return, Variance: ast.Covariant, Doc: string(m.Doc)})
		case ast.SetterMember:
			sig := a.signature(m.Func)
			if len(sig.Params) == 0 {
				continue
			}
			fields := def.Fields
			if m.Static {
				fields = def.Statics
			}
			if fieldIndex(fields, m.Name) < 0 {
				add(m.Static, types.Field{Name: m.Name, Type: sig.Params[0].Type, Variance: ast.Contravariant, Doc: string(m.Doc)})
			}
		}
	}
	return def
}

func (a *analyzer) fieldType(m ast.ClassMember) types.Type {
	if m.Annot != nil {
		return a.annot(m.Annot)
	}
	if m.Value == nil {
		return types.AnyT
	}
	var t types.Type
	a.silently(func() {
		t, _ = a.expr(m.Value, NewState())
	})
	return t
}

func (a *analyzer) superClass(e ast.Expr) *types.ClassDef {
	id, ok := e.(*ast.Ident)
	if !ok {
		return nil
	}
	b, ok := a.graph.Refs[id]
	if !ok {
		return nil
	}
	if decl, isClass := b.Node.(*ast.ClassDecl); isClass {
		return a.classDef(decl.Class)
	}
	if c, isClass := a.general(b).(types.ClassOf); isClass {
		return c.Class
	}
	return nil
}

// class evaluates a class declaration or expression: its superclass and
// field initializers are checked in st, and its methods are analysed later
func (a *analyzer) class(c *ast.Class, st State) (types.Type, State) {
	def := a.classDef(c)
	if c.Super != nil {
		var t types.Type
		t, st = a.expr(c.Super, st)
		switch t := t.(type) {
		case types.ClassOf:
		case types.Prim:
			if t.Kind != types.Any {
				a.report(flowerr.New(flowerr.NewTypeMismatch{
					Positioner: ast.RangeOf(c.Super),
					Message:    "Cannot extend " + t.String() + " because it is not a class.",
				}))
			}
		}
	}
	for _, m := range c.Members {
		if m.Value != nil {
			var t types.Type
			t, st = a.expr(m.Value, st)
			if m.Annot != nil {
				a.checkFlow(m.Value, t, a.annot(m.Annot))
			}
		}
		if m.Func != nil {
			a.schedule(m.Func)
		}
	}
	return types.ClassOf{Class: def}, st
}

// checkExports reports the fields of exported classes whose types cannot
// be determined without looking into other modules
func (a *analyzer) checkExports() {
	for _, s := range a.file.Body {
		switch s := s.(type) {
		case *ast.ExportDecl:
			if cd, ok := s.Decl.(*ast.ClassDecl); ok {
				a.checkExportedClass(cd.Class)
			}
			if ce, ok := s.Default.(*ast.ClassExpr); ok {
				a.checkExportedClass(ce.Class)
			}
		case *ast.ClassDecl:
			if b, ok := a.graph.Decls[s.Name]; ok && b.Exported && b.Kind == scope.ClassBinding {
				a.checkExportedClass(s.Class)
			}
		}
	}
}

func (a *analyzer) checkExportedClass(c *ast.Class) {
	if c.Declared {
		return
	}
	for _, m := range c.Members {
		if m.Kind != ast.FieldMember || m.Annot != nil {
			continue
		}
		subject := "property `" + m.Name + "`"
		switch v := m.Value.(type) {
		case nil:
			a.report(flowerr.New(flowerr.NewSignatureVerificationFailure{Positioner: m.Range, Subject: subject}))
			a.report(flowerr.New(flowerr.NewMissingAnnotation{Positioner: m.Range, Subject: subject}))
		case *ast.FuncExpr:
			a.report(flowerr.New(flowerr.NewSignatureVerificationFailure{Positioner: m.Range, Subject: subject}))
			a.missingFuncAnnotations(v.Function)
		default:
			if !literalLike(v) {
				a.report(flowerr.New(flowerr.NewSignatureVerificationFailure{Positioner: m.Range, Subject: subject}))
			}
		}
	}
}

// missingFuncAnnotations reports the parameters and return of fn that are
// not annotated
func (a *analyzer) missingFuncAnnotations(fn *ast.Function) {
	for _, p := range fn.Params {
		if p.Annot == nil && p.Name != nil {
			a.report(flowerr.New(flowerr.NewMissingAnnotation{Positioner: p.Name.Range, Subject: "`" + p.Name.Name + "`"}))
		}
	}
	if fn.Return != nil {
		return
	}
	var at token.Pos
	switch {
	case fn.Rest != nil:
		at = fn.Rest.End() + 1
	case len(fn.Params) > 0:
		at = fn.Params[len(fn.Params)-1].End() + 1
	default:
		at = fn.Pos() + 2
	}
	a.report(flowerr.New(flowerr.NewMissingAnnotation{Positioner: ast.Range{PosStart: at, PosEnd: at}, Subject: "return"}))
}

// literalLike reports whether the type of e is evident without inference
func literalLike(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.NumberLit, *ast.StringLit, *ast.BoolLit, *ast.NullLit, *ast.BigIntLit,
		*ast.TemplateLit, *ast.RegExpLit, *ast.TypeCast, *ast.New:
		return true
	case *ast.Ident:
		return e.Name == "undefined"
	case *ast.Unary:
		return literalLike(e.X)
	case *ast.ArrayLit:
		for _, el := range e.Elems {
			if el != nil && !literalLike(el) {
				return false
			}
		}
		return true
	case *ast.ObjectLit:
		for _, p := range e.Props {
			if p.Kind != ast.PropInit || p.KeyExpr != nil || !literalLike(p.Value) {
				return false
			}
		}
		return true
	}
	return false
}
