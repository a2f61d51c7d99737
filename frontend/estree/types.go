package estree

import (
	"github.com/cottand/flowty/frontend/ast"
)

var keywordTypes = map[string]string{
	"NumberTypeAnnotation":      "number",
	"StringTypeAnnotation":      "string",
	"BooleanTypeAnnotation":     "boolean",
	"NullLiteralTypeAnnotation": "null",
	"VoidTypeAnnotation":        "void",
	"MixedTypeAnnotation":       "mixed",
	"AnyTypeAnnotation":         "any",
	"EmptyTypeAnnotation":       "empty",
	"BigIntTypeAnnotation":      "bigint",
	"SymbolTypeAnnotation":      "symbol",
}

func (d *decoder) types(list []object) []ast.TypeAnnot {
	out := make([]ast.TypeAnnot, 0, len(list))
	for _, o := range list {
		out = append(out, d.typ(o))
	}
	return out
}

// typ decodes a type annotation, unwrapping the TypeAnnotation node found
// after ':'
func (d *decoder) typ(o object) ast.TypeAnnot {
	if o == nil {
		return nil
	}
	r := d.rng(o)
	if name, ok := keywordTypes[o.kind()]; ok {
		return &ast.NamedType{Range: r, Name: name}
	}
	switch o.kind() {
	case "TypeAnnotation":
		return d.typ(o.obj("typeAnnotation"))
	case "StringLiteralTypeAnnotation", "NumberLiteralTypeAnnotation", "BooleanLiteralTypeAnnotation":
		return &ast.LiteralType{Range: r, Value: o["value"]}
	case "NullableTypeAnnotation":
		return &ast.MaybeType{Range: r, Elem: d.typ(o.obj("typeAnnotation"))}
	case "UnionTypeAnnotation":
		return &ast.UnionType{Range: r, Types: d.types(o.list("types"))}
	case "IntersectionTypeAnnotation":
		return &ast.IntersectionType{Range: r, Types: d.types(o.list("types"))}
	case "ArrayTypeAnnotation":
		return &ast.ArrayType{Range: r, Elem: d.typ(o.obj("elementType"))}
	case "TupleTypeAnnotation":
		elems := o.list("types")
		if len(elems) == 0 {
			elems = o.list("elementTypes")
		}
		return &ast.TupleType{Range: r, Elems: d.types(elems)}
	case "ObjectTypeAnnotation":
		return d.objectType(o)
	case "FunctionTypeAnnotation":
		return d.funcType(o)
	case "GenericTypeAnnotation":
		return d.generic(o, o.obj("id"), o.obj("typeParameters"))
	case "TypeofTypeAnnotation":
		arg := o.obj("argument")
		if arg.kind() == "GenericTypeAnnotation" {
			arg = arg.obj("id")
		}
		return &ast.TypeofType{Range: r, X: d.ident(arg)}
	case "IndexedAccessType", "OptionalIndexedAccessType":
		return &ast.IndexedAccessType{
			Range:    r,
			Obj:      d.typ(o.obj("objectType")),
			Index:    d.typ(o.obj("indexType")),
			Optional: o.bool("optional"),
		}
	}
	d.unsupported(o, "type")
	return &ast.NamedType{Range: r, Name: "any"}
}

// generic decodes a type reference whose name is id, as in Array<T> or
// React.Node
func (d *decoder) generic(o, id, params object) *ast.NamedType {
	t := &ast.NamedType{Range: d.rng(o), Args: d.types(params.list("params"))}
	switch id.kind() {
	case "Identifier":
		t.Name = id.str("name")
	case "QualifiedTypeIdentifier":
		t.Qualifier = d.qualifier(id.obj("qualification"))
		t.Name = id.obj("id").str("name")
	default:
		d.unsupported(id, "type name")
	}
	return t
}

func (d *decoder) qualifier(o object) string {
	if o.kind() == "QualifiedTypeIdentifier" {
		return d.qualifier(o.obj("qualification")) + "." + o.obj("id").str("name")
	}
	return o.str("name")
}

func variance(o object) ast.Variance {
	switch o.str("kind") {
	case "plus":
		return ast.Covariant
	case "minus":
		return ast.Contravariant
	}
	return ast.Invariant
}

func (d *decoder) objectType(o object) *ast.ObjectType {
	if o == nil {
		return nil
	}
	ot := &ast.ObjectType{Range: d.rng(o), Exact: o.bool("exact"), Inexact: o.bool("inexact")}
	for _, p := range o.list("properties") {
		switch p.kind() {
		case "ObjectTypeProperty":
			name, _ := d.propName(p.obj("key"))
			ot.Props = append(ot.Props, ast.ObjectTypeProp{
				Range:    d.rng(p),
				Name:     name,
				Type:     d.typ(p.obj("value")),
				Optional: p.bool("optional"),
				Variance: variance(p.obj("variance")),
				Method:   p.bool("method"),
				Doc:      d.doc(p),
			})
		case "ObjectTypeSpreadProperty":
			ot.Spreads = append(ot.Spreads, d.typ(p.obj("argument")))
		default:
			d.unsupported(p, "object type property")
		}
	}
	for _, ix := range o.list("indexers") {
		ot.Indexers = append(ot.Indexers, ast.Indexer{
			Range:    d.rng(ix),
			Key:      d.typ(ix.obj("key")),
			Value:    d.typ(ix.obj("value")),
			Variance: variance(ix.obj("variance")),
		})
	}
	return ot
}

func (d *decoder) funcType(o object) *ast.FuncType {
	ft := &ast.FuncType{
		Range:      d.rng(o),
		TypeParams: d.typeParams(o.obj("typeParameters")),
		Return:     d.typ(o.obj("returnType")),
	}
	param := func(p object) ast.FuncTypeParam {
		return ast.FuncTypeParam{
			Range:    d.rng(p),
			Name:     p.obj("name").str("name"),
			Type:     d.typ(p.obj("typeAnnotation")),
			Optional: p.bool("optional"),
		}
	}
	for _, p := range o.list("params") {
		ft.Params = append(ft.Params, param(p))
	}
	if rest := o.obj("rest"); rest != nil {
		p := param(rest)
		ft.Rest = &p
	}
	return ft
}

func (d *decoder) typeParams(o object) []ast.TypeParam {
	var out []ast.TypeParam
	for _, p := range o.list("params") {
		out = append(out, ast.TypeParam{
			Range: d.rng(p),
			Name:  p.str("name"),
			Bound: d.typ(p.obj("bound")),
		})
	}
	return out
}
