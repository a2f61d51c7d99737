package estree

import (
	"github.com/cottand/flowty/frontend/ast"
)

func (d *decoder) exprs(list []object) []ast.Expr {
	out := make([]ast.Expr, 0, len(list))
	for _, o := range list {
		out = append(out, d.expr(o))
	}
	return out
}

func (d *decoder) expr(o object) ast.Expr {
	if o == nil {
		return nil
	}
	r := d.rng(o)
	switch o.kind() {
	case "Identifier":
		return d.ident(o)
	case "Super":
		return &ast.Ident{Range: r, Name: "super"}
	case "Literal":
		return d.literal(o)
	case "TemplateLiteral":
		return &ast.TemplateLit{Range: r, Exprs: d.exprs(o.list("expressions"))}
	case "TaggedTemplateExpression":
		return &ast.Call{Range: r, Callee: d.expr(o.obj("tag")), Args: []ast.Expr{d.expr(o.obj("quasi"))}}
	case "ThisExpression":
		return &ast.This{Range: r}
	case "ArrayExpression":
		arr := &ast.ArrayLit{Range: r}
		for _, e := range o.list("elements") {
			// holes stay nil
			arr.Elems = append(arr.Elems, d.expr(e))
		}
		return arr
	case "ObjectExpression":
		return d.object(o)
	case "FunctionExpression", "ArrowFunctionExpression":
		return &ast.FuncExpr{Function: d.function(o)}
	case "ClassExpression":
		return &ast.ClassExpr{Class: d.class(o)}
	case "UnaryExpression":
		return &ast.Unary{Range: r, Op: o.str("operator"), X: d.expr(o.obj("argument"))}
	case "UpdateExpression":
		return &ast.Update{Range: r, Op: o.str("operator"), Prefix: o.bool("prefix"), X: d.expr(o.obj("argument"))}
	case "BinaryExpression":
		return &ast.Binary{Range: r, Op: o.str("operator"), X: d.expr(o.obj("left")), Y: d.expr(o.obj("right"))}
	case "LogicalExpression":
		return &ast.Logical{Range: r, Op: o.str("operator"), X: d.expr(o.obj("left")), Y: d.expr(o.obj("right"))}
	case "AssignmentExpression":
		left := o.obj("left")
		var target ast.Expr
		switch left.kind() {
		case "ObjectPattern", "ArrayPattern":
			target = &ast.Opaque{Range: d.rng(left), Bound: d.pattern(left)}
		default:
			target = d.expr(left)
		}
		return &ast.Assign{Range: r, Op: o.str("operator"), Target: target, Value: d.expr(o.obj("right"))}
	case "SpreadElement":
		d.unsupported(o, "expression")
		return &ast.Opaque{Range: r, X: d.expr(o.obj("argument"))}
	case "ConditionalExpression":
		return &ast.Cond{Range: r, Test: d.expr(o.obj("test")), Then: d.expr(o.obj("consequent")), Else: d.expr(o.obj("alternate"))}
	case "CallExpression", "OptionalCallExpression":
		return &ast.Call{Range: r, Callee: d.expr(o.obj("callee")), Args: d.exprs(o.list("arguments")), Optional: o.bool("optional")}
	case "NewExpression":
		return &ast.New{Range: r, Callee: d.expr(o.obj("callee")), Args: d.exprs(o.list("arguments"))}
	case "MemberExpression", "OptionalMemberExpression":
		m := &ast.Member{Range: r, X: d.expr(o.obj("object")), Optional: o.bool("optional")}
		if prop := o.obj("property"); o.bool("computed") {
			m.Index = d.expr(prop)
		} else {
			m.Prop, m.PropRange = d.propName(prop)
		}
		return m
	case "SequenceExpression":
		return &ast.Seq{Range: r, Exprs: d.exprs(o.list("expressions"))}
	case "TypeCastExpression", "AsExpression":
		t := o.obj("typeAnnotation")
		return &ast.TypeCast{Range: r, X: d.expr(o.obj("expression")), Type: d.typ(t)}
	case "AwaitExpression":
		return &ast.Await{Range: r, X: d.expr(o.obj("argument"))}
	case "JSXElement":
		return d.jsx(o)
	case "JSXText":
		return &ast.JSXText{Range: r, Value: o.str("value")}
	case "JSXExpressionContainer":
		return d.expr(o.obj("expression"))
	}
	d.unsupported(o, "expression")
	return &ast.Opaque{Range: r}
}

func (d *decoder) literal(o object) ast.Expr {
	r := d.rng(o)
	if regex := o.obj("regex"); regex != nil {
		return &ast.RegExpLit{Range: r, Pattern: regex.str("pattern")}
	}
	if _, ok := o["bigint"]; ok {
		return &ast.BigIntLit{Range: r, Raw: o.str("raw")}
	}
	switch v := o["value"].(type) {
	case string:
		return &ast.StringLit{Range: r, Value: v}
	case float64:
		return &ast.NumberLit{Range: r, Value: v, Raw: o.str("raw")}
	case bool:
		return &ast.BoolLit{Range: r, Value: v}
	case nil:
		return &ast.NullLit{Range: r}
	}
	d.unsupported(o, "literal")
	return &ast.NullLit{Range: r}
}

func (d *decoder) object(o object) *ast.ObjectLit {
	lit := &ast.ObjectLit{Range: d.rng(o)}
	for _, p := range o.list("properties") {
		prop := ast.Property{Range: d.rng(p)}
		switch p.kind() {
		case "SpreadElement", "SpreadProperty":
			prop.Kind = ast.PropSpread
			prop.Value = d.expr(p.obj("argument"))
		case "Property":
			switch {
			case p.str("kind") == "get":
				prop.Kind = ast.PropGet
			case p.str("kind") == "set":
				prop.Kind = ast.PropSet
			case p.bool("method"):
				prop.Kind = ast.PropMethod
			default:
				prop.Kind = ast.PropInit
			}
			if key := p.obj("key"); p.bool("computed") {
				prop.KeyExpr = d.expr(key)
				prop.KeyRange = d.rng(key)
			} else {
				prop.Key, prop.KeyRange = d.propName(key)
			}
			prop.Value = d.expr(p.obj("value"))
		default:
			d.unsupported(p, "property")
			continue
		}
		lit.Props = append(lit.Props, prop)
	}
	return lit
}

func (d *decoder) jsxName(o object) string {
	switch o.kind() {
	case "JSXIdentifier":
		return o.str("name")
	case "JSXMemberExpression":
		return d.jsxName(o.obj("object")) + "." + d.jsxName(o.obj("property"))
	case "JSXNamespacedName":
		return d.jsxName(o.obj("namespace")) + ":" + d.jsxName(o.obj("name"))
	}
	d.unsupported(o, "JSX name")
	return ""
}

func (d *decoder) jsx(o object) *ast.JSXElement {
	open := o.obj("openingElement")
	name := open.obj("name")
	el := &ast.JSXElement{Range: d.rng(o), Name: d.jsxName(name), NameRange: d.rng(name)}
	for _, a := range open.list("attributes") {
		switch a.kind() {
		case "JSXAttribute":
			n := a.obj("name")
			el.Attrs = append(el.Attrs, ast.JSXAttr{
				Range:     d.rng(a),
				Name:      d.jsxName(n),
				NameRange: d.rng(n),
				Value:     d.expr(a.obj("value")),
			})
		case "JSXSpreadAttribute":
			el.Attrs = append(el.Attrs, ast.JSXAttr{Range: d.rng(a), Spread: d.expr(a.obj("argument"))})
		default:
			d.unsupported(a, "JSX attribute")
		}
	}
	for _, c := range o.list("children") {
		if c.kind() == "JSXExpressionContainer" && c.obj("expression").kind() == "JSXEmptyExpression" {
			continue
		}
		el.Children = append(el.Children, d.expr(c))
	}
	return el
}
