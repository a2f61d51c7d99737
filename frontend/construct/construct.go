// Package construct builds syntax trees by hand. Trees built here have no
// positions until they are given to Build, which prints them as source text
// and records where every node ended up.
package construct

import (
	"strconv"

	"github.com/cottand/flowty/frontend/ast"
)

// Values

func Id(name string) *ast.Ident { return &ast.Ident{Name: name} }

func Num(v float64) *ast.NumberLit {
	return &ast.NumberLit{Value: v, Raw: strconv.FormatFloat(v, 'f', -1, 64)}
}

func Str(s string) *ast.StringLit { return &ast.StringLit{Value: s} }
func Bool(b bool) *ast.BoolLit    { return &ast.BoolLit{Value: b} }
func Null() *ast.NullLit          { return &ast.NullLit{} }
func Undefined() *ast.Ident       { return Id("undefined") }
func This() *ast.This             { return &ast.This{} }

func Arr(elems ...ast.Expr) *ast.ArrayLit { return &ast.ArrayLit{Elems: elems} }

func Obj(props ...ast.Property) *ast.ObjectLit { return &ast.ObjectLit{Props: props} }

// Prop is the object literal entry `key: value`
func Prop(key string, value ast.Expr) ast.Property {
	return ast.Property{Kind: ast.PropInit, Key: key, Value: value}
}

func Spread(x ast.Expr) ast.Property { return ast.Property{Kind: ast.PropSpread, Value: x} }

func Call(callee ast.Expr, args ...ast.Expr) *ast.Call {
	return &ast.Call{Callee: callee, Args: args}
}

func New(callee ast.Expr, args ...ast.Expr) *ast.New {
	return &ast.New{Callee: callee, Args: args}
}

// Dot is x.prop
func Dot(x ast.Expr, prop string) *ast.Member { return &ast.Member{X: x, Prop: prop} }

// Index is x[index]
func Index(x, index ast.Expr) *ast.Member { return &ast.Member{X: x, Index: index} }

func Bin(x ast.Expr, op string, y ast.Expr) *ast.Binary { return &ast.Binary{Op: op, X: x, Y: y} }
func And(x, y ast.Expr) *ast.Logical                   { return &ast.Logical{Op: "&&", X: x, Y: y} }
func Or(x, y ast.Expr) *ast.Logical                    { return &ast.Logical{Op: "||", X: x, Y: y} }
func Not(x ast.Expr) *ast.Unary                        { return &ast.Unary{Op: "!", X: x} }
func TypeOf(x ast.Expr) *ast.Unary                     { return &ast.Unary{Op: "typeof", X: x} }

// TypeOfIs is `typeof x === "tag"`
func TypeOfIs(x ast.Expr, tag string) *ast.Binary { return Bin(TypeOf(x), "===", Str(tag)) }

func Assign(target, value ast.Expr) *ast.Assign {
	return &ast.Assign{Op: "=", Target: target, Value: value}
}

func AssignOp(target ast.Expr, op string, value ast.Expr) *ast.Assign {
	return &ast.Assign{Op: op, Target: target, Value: value}
}

func Incr(x ast.Expr) *ast.Update { return &ast.Update{Op: "++", X: x} }

func Cond(test, then, els ast.Expr) *ast.Cond { return &ast.Cond{Test: test, Then: then, Else: els} }

// Cast is the type cast (x: t)
func Cast(x ast.Expr, t ast.TypeAnnot) *ast.TypeCast { return &ast.TypeCast{X: x, Type: t} }

func Param(name string, annot ast.TypeAnnot) ast.Param {
	return ast.Param{Name: Id(name), Annot: annot}
}

func OptParam(name string, annot ast.TypeAnnot) ast.Param {
	return ast.Param{Name: Id(name), Annot: annot, Optional: true}
}

// PatternParam is the destructuring parameter {names...}
func PatternParam(annot ast.TypeAnnot, names ...string) ast.Param {
	p := ast.Param{Annot: annot}
	for _, n := range names {
		p.Bound = append(p.Bound, Id(n))
	}
	return p
}

// Params builds unannotated parameters
func Params(names ...string) []ast.Param {
	out := make([]ast.Param, len(names))
	for i, n := range names {
		out[i] = Param(n, nil)
	}
	return out
}

// Arrow is `(params) => { body }`
func Arrow(params []ast.Param, body ...ast.Stmt) *ast.FuncExpr {
	return &ast.FuncExpr{Function: &ast.Function{Params: params, Body: Block(body...), Arrow: true}}
}

// ArrowExpr is `(params) => expr`
func ArrowExpr(params []ast.Param, body ast.Expr) *ast.FuncExpr {
	return &ast.FuncExpr{Function: &ast.Function{Params: params, ExprBody: body, Arrow: true}}
}

func FuncExpr(params []ast.Param, ret ast.TypeAnnot, body ...ast.Stmt) *ast.FuncExpr {
	return &ast.FuncExpr{Function: &ast.Function{Params: params, Return: ret, Body: Block(body...)}}
}

func JSX(name string, attrs ...ast.JSXAttr) *ast.JSXElement {
	return &ast.JSXElement{Name: name, Attrs: attrs}
}

// Attr is a JSX attribute; a nil value prints the bare attribute name
func Attr(name string, value ast.Expr) ast.JSXAttr { return ast.JSXAttr{Name: name, Value: value} }

// Statements

func decl(kind ast.VarKind, name string, annot ast.TypeAnnot, init ast.Expr) *ast.VarDecl {
	return &ast.VarDecl{Kind: kind, Decls: []ast.Declarator{{Name: Id(name), Annot: annot, Init: init}}}
}

func Var(name string, annot ast.TypeAnnot, init ast.Expr) *ast.VarDecl {
	return decl(ast.Var, name, annot, init)
}

func Let(name string, annot ast.TypeAnnot, init ast.Expr) *ast.VarDecl {
	return decl(ast.Let, name, annot, init)
}

func Const(name string, annot ast.TypeAnnot, init ast.Expr) *ast.VarDecl {
	return decl(ast.Const, name, annot, init)
}

func Do(x ast.Expr) *ast.ExprStmt { return &ast.ExprStmt{X: x} }

// Set is the statement `name = value;`
func Set(name string, value ast.Expr) *ast.ExprStmt { return Do(Assign(Id(name), value)) }

func Block(stmts ...ast.Stmt) *ast.Block { return &ast.Block{Body: stmts} }

func If(test ast.Expr, then ast.Stmt, els ast.Stmt) *ast.If {
	return &ast.If{Test: test, Then: then, Else: els}
}

func While(test ast.Expr, body ...ast.Stmt) *ast.While {
	return &ast.While{Test: test, Body: Block(body...)}
}

func DoWhile(test ast.Expr, body ...ast.Stmt) *ast.DoWhile {
	return &ast.DoWhile{Test: test, Body: Block(body...)}
}

func For(init ast.Stmt, test, update ast.Expr, body ...ast.Stmt) *ast.For {
	return &ast.For{Init: init, Test: test, Update: update, Body: Block(body...)}
}

func ForOf(left ast.Stmt, right ast.Expr, body ...ast.Stmt) *ast.ForOf {
	return &ast.ForOf{Left: left, Right: right, Body: Block(body...)}
}

func ForIn(left ast.Stmt, right ast.Expr, body ...ast.Stmt) *ast.ForIn {
	return &ast.ForIn{Left: left, Right: right, Body: Block(body...)}
}

func Switch(disc ast.Expr, cases ...ast.Case) *ast.Switch {
	return &ast.Switch{Disc: disc, Cases: cases}
}

func Case(test ast.Expr, body ...ast.Stmt) ast.Case { return ast.Case{Test: test, Body: body} }
func Default(body ...ast.Stmt) ast.Case             { return ast.Case{Body: body} }

func Break() *ast.Break       { return &ast.Break{} }
func Continue() *ast.Continue { return &ast.Continue{} }

func BreakTo(label string) *ast.Break       { return &ast.Break{Label: label} }
func ContinueTo(label string) *ast.Continue { return &ast.Continue{Label: label} }

// Pattern is a destructuring target assigning names
func Pattern(names ...string) *ast.Opaque {
	o := &ast.Opaque{}
	for _, n := range names {
		o.Bound = append(o.Bound, Id(n))
	}
	return o
}

// SpreadArg is `...x` in an argument list or array literal
func SpreadArg(x ast.Expr) *ast.Opaque { return &ast.Opaque{X: x} }

// Label is `label: body`
func Label(label string, body ast.Stmt) *ast.Labeled {
	return &ast.Labeled{Label: label, Body: body}
}
func Return(x ast.Expr) *ast.Return { return &ast.Return{X: x} }
func Throw(x ast.Expr) *ast.Throw { return &ast.Throw{X: x} }

// Try builds try/catch/finally; handler and finalizer may be nil
func Try(block *ast.Block, param string, handler, finalizer *ast.Block) *ast.Try {
	t := &ast.Try{Block: block, Handler: handler, Finalizer: finalizer}
	if param != "" {
		t.Param = Id(param)
	}
	return t
}

func Func(name string, params []ast.Param, ret ast.TypeAnnot, body ...ast.Stmt) *ast.FuncDecl {
	return &ast.FuncDecl{Function: &ast.Function{Name: Id(name), Params: params, Return: ret, Body: Block(body...)}}
}

// ChecksFunc is a function annotated with %checks
func ChecksFunc(name string, params []ast.Param, body ...ast.Stmt) *ast.FuncDecl {
	fn := Func(name, params, TBoolean(), body...)
	fn.Checks = &ast.Checks{}
	return fn
}

// DeclareFunc is `declare function name(params): ret;`, with a
// %checks(checks) clause when checks is not nil
func DeclareFunc(name string, params []ast.Param, ret ast.TypeAnnot, checks ast.Expr) *ast.FuncDecl {
	fn := &ast.Function{Name: Id(name), Params: params, Return: ret, Declared: true}
	if checks != nil {
		fn.Checks = &ast.Checks{Expr: checks}
	}
	return &ast.FuncDecl{Function: fn}
}

func Class(name string, super ast.Expr, members ...ast.ClassMember) *ast.ClassDecl {
	return &ast.ClassDecl{Class: &ast.Class{Name: Id(name), Super: super, Members: members}}
}

// DeclareClass is `declare class name { members }`
func DeclareClass(name string, members ...ast.ClassMember) *ast.ClassDecl {
	c := Class(name, nil, members...)
	c.Declared = true
	return c
}

func Field(name string, annot ast.TypeAnnot, value ast.Expr) ast.ClassMember {
	return ast.ClassMember{Kind: ast.FieldMember, Name: name, Annot: annot, Value: value}
}

func Method(name string, params []ast.Param, ret ast.TypeAnnot, body ...ast.Stmt) ast.ClassMember {
	return ast.ClassMember{
		Kind: ast.MethodMember,
		Name: name,
		Func: &ast.Function{Params: params, Return: ret, Body: Block(body...)},
	}
}

// DeclaredMethod is a method signature of a declared class
func DeclaredMethod(name string, params []ast.Param, ret ast.TypeAnnot) ast.ClassMember {
	return ast.ClassMember{
		Kind: ast.MethodMember,
		Name: name,
		Func: &ast.Function{Params: params, Return: ret, Declared: true},
	}
}

func Constructor(params []ast.Param, body ...ast.Stmt) ast.ClassMember {
	m := Method("constructor", params, nil, body...)
	m.Kind = ast.ConstructorMember
	return m
}

func TypeAlias(name string, t ast.TypeAnnot) *ast.TypeAlias {
	return &ast.TypeAlias{Name: Id(name), Type: t}
}

func Interface(name string, body *ast.ObjectType) *ast.InterfaceDecl {
	return &ast.InterfaceDecl{Name: Id(name), Body: body}
}

// Import builds `import {names} from source`
func Import(source string, names ...string) *ast.ImportDecl {
	d := &ast.ImportDecl{Source: source}
	for _, n := range names {
		d.Specs = append(d.Specs, ast.ImportSpec{Kind: ast.ImportNamed, Imported: n, Local: Id(n)})
	}
	return d
}

// ImportType builds `import type {names} from source`
func ImportType(source string, names ...string) *ast.ImportDecl {
	d := Import(source, names...)
	d.TypeOnly = true
	return d
}

// ImportAll builds `import * as local from source`
func ImportAll(source, local string) *ast.ImportDecl {
	return &ast.ImportDecl{
		Source: source,
		Specs:  []ast.ImportSpec{{Kind: ast.ImportNamespace, Local: Id(local)}},
	}
}

func Export(d ast.Stmt) *ast.ExportDecl        { return &ast.ExportDecl{Decl: d} }
func ExportDefault(x ast.Expr) *ast.ExportDecl { return &ast.ExportDecl{Default: x} }

// Types

// T is a named type reference, like number or Array<T>
func T(name string, args ...ast.TypeAnnot) *ast.NamedType {
	return &ast.NamedType{Name: name, Args: args}
}

// TQualified is Qualifier.Name
func TQualified(qualifier, name string) *ast.NamedType {
	return &ast.NamedType{Qualifier: qualifier, Name: name}
}

func TNumber() *ast.NamedType  { return T("number") }
func TString() *ast.NamedType  { return T("string") }
func TBoolean() *ast.NamedType { return T("boolean") }
func TMixed() *ast.NamedType   { return T("mixed") }
func TAny() *ast.NamedType     { return T("any") }
func TVoid() *ast.NamedType    { return T("void") }
func TNull() *ast.NamedType    { return T("null") }

func TLit(v any) *ast.LiteralType { return &ast.LiteralType{Value: v} }

func TMaybe(t ast.TypeAnnot) *ast.MaybeType { return &ast.MaybeType{Elem: t} }

func TUnion(ts ...ast.TypeAnnot) *ast.UnionType { return &ast.UnionType{Types: ts} }

func TIntersection(ts ...ast.TypeAnnot) *ast.IntersectionType {
	return &ast.IntersectionType{Types: ts}
}

func TArray(t ast.TypeAnnot) *ast.ArrayType { return &ast.ArrayType{Elem: t} }

func TTuple(ts ...ast.TypeAnnot) *ast.TupleType { return &ast.TupleType{Elems: ts} }

func TProp(name string, t ast.TypeAnnot) ast.ObjectTypeProp {
	return ast.ObjectTypeProp{Name: name, Type: t}
}

func TOptProp(name string, t ast.TypeAnnot) ast.ObjectTypeProp {
	return ast.ObjectTypeProp{Name: name, Type: t, Optional: true}
}

// TObject is an object type written without {| |} or ...
func TObject(props ...ast.ObjectTypeProp) *ast.ObjectType { return &ast.ObjectType{Props: props} }

func TExact(props ...ast.ObjectTypeProp) *ast.ObjectType {
	return &ast.ObjectType{Props: props, Exact: true}
}

func TInexact(props ...ast.ObjectTypeProp) *ast.ObjectType {
	return &ast.ObjectType{Props: props, Inexact: true}
}

func TFunc(params []ast.FuncTypeParam, ret ast.TypeAnnot) *ast.FuncType {
	return &ast.FuncType{Params: params, Return: ret}
}

func TParam(name string, t ast.TypeAnnot) ast.FuncTypeParam {
	return ast.FuncTypeParam{Name: name, Type: t}
}

func TTypeof(name string) *ast.TypeofType { return &ast.TypeofType{X: Id(name)} }

func TIndexed(obj, index ast.TypeAnnot) *ast.IndexedAccessType {
	return &ast.IndexedAccessType{Obj: obj, Index: index}
}
