package complete

import (
	"strconv"
	"strings"

	"github.com/cottand/flowty/frontend/ast"
	"github.com/cottand/flowty/frontend/flow"
	"github.com/cottand/flowty/frontend/scope"
	"github.com/cottand/flowty/frontend/types"
	"github.com/hashicorp/go-set/v3"
)

// Rank groups, as reported in the log command of each item
const (
	groupLocal         = "local value identifier"
	groupMember        = "member"
	groupThis          = "this"
	groupJSXAttr       = "jsx attribute"
	groupBracket       = "bracket syntax member"
	groupLocalType     = "unqualified type: local type identifier"
	groupClassOrEnum   = "unqualified type: class or enum"
	groupTypeParam     = "unqualified type parameter"
	groupQualifiedType = "unqualified type -> qualified type"
	groupBuiltinType   = "builtin type"
)

type completer struct {
	res   *flow.Result
	site  site
	scope scope.ScopeID
}

func valueKind(t types.Type) Kind {
	switch t.(type) {
	case *types.Func:
		return KindFunction
	case types.ClassOf:
		return KindClass
	case types.Module:
		return KindModule
	case types.Union, types.Optional, types.Maybe:
		return KindEnum
	}
	return KindVariable
}

func valueDetail(t types.Type) string {
	if c, ok := t.(types.ClassOf); ok {
		return "class " + c.Class.Name
	}
	return t.String()
}

// values lists the bindings visible at the sentinel, with `this` inside
// methods
func (c *completer) values() []candidate {
	pos := c.site.token.PosStart
	var out []candidate
	for _, b := range c.res.Graph.Visible(c.scope) {
		if strings.Contains(b.Name, Sentinel) {
			continue
		}
		t := c.res.BindingType(b)
		if b.Kind.Lexical() && b.Kind != scope.ClassBinding && before(pos, b.Node) {
			t = types.EmptyT
		}
		doc := string(b.Doc)
		if fn, ok := t.(*types.Func); ok && doc == "" {
			doc = fn.Doc
		}
		out = append(out, candidate{
			label:  b.Name,
			kind:   valueKind(t),
			detail: valueDetail(t),
			doc:    markdown(doc),
			group:  groupLocal,
		})
	}
	if _, ok := c.res.Graph.EnclosingClass(c.scope); ok {
		out = append(out, candidate{label: "this", kind: KindVariable, detail: "this", group: groupThis})
	}
	return byLabel(out)
}

func memberType(f types.Field) types.Type {
	if f.Optional {
		return types.Optional{Elem: f.Type}
	}
	return f.Type
}

func memberCandidate(m types.Member, group string) candidate {
	t := memberType(m.Field)
	kind := valueKind(t)
	if m.Method {
		kind = KindFunction
	}
	return candidate{label: m.Name, kind: kind, detail: valueDetail(t), doc: markdown(m.Doc), group: group}
}

// members lists the properties of the receiver: its own and inherited
// members, then those of the builtin prototypes
func (c *completer) members() [][]candidate {
	recv, ok := c.res.TypeOf(c.site.member.X)
	if !ok {
		return nil
	}
	var own, proto []candidate
	for _, m := range types.Members(recv) {
		if strings.Contains(m.Name, Sentinel) {
			continue
		}
		if m.Proto {
			proto = append(proto, memberCandidate(m, groupMember))
		} else {
			own = append(own, memberCandidate(m, groupMember))
		}
	}
	return [][]candidate{byLabel(own), byLabel(proto)}
}

// propsOf returns the props type of a component: the props field of a class
// or the first parameter of a function
func propsOf(t types.Type) (types.Type, bool) {
	switch t := t.(type) {
	case types.ClassOf:
		for _, f := range types.InstanceFields(t.Class) {
			if f.Name == "props" {
				return f.Type, true
			}
		}
	case *types.Func:
		if len(t.Params) > 0 {
			return t.Params[0].Type, true
		}
	}
	return nil, false
}

func (c *completer) jsxAttributes() []candidate {
	b, ok := c.res.Graph.Lookup(c.scope, c.site.elem.Name)
	if !ok {
		return nil
	}
	props, ok := propsOf(c.res.BindingType(b))
	if !ok {
		return nil
	}
	written := set.New[string](len(c.site.elem.Attrs))
	for _, a := range c.site.elem.Attrs {
		if a.Spread == nil && !strings.Contains(a.Name, Sentinel) {
			written.Insert(a.Name)
		}
	}
	var out []candidate
	for _, m := range types.Members(props) {
		if m.Proto || written.Contains(m.Name) {
			continue
		}
		cand := memberCandidate(m, groupJSXAttr)
		if c.site.attr.Value == nil {
			cand.text = m.Name + "="
		}
		out = append(out, cand)
	}
	return byLabel(out)
}

func (c *completer) typeCandidate(tb *scope.TypeBinding) candidate {
	t := c.res.TypeBindingType(tb)
	cand := candidate{label: tb.Name, kind: KindVariable, doc: markdown(string(tb.Doc)), group: groupLocalType}
	switch tb.Kind {
	case scope.AliasType:
		cand.detail = "type " + tb.Name + " = " + t.String()
	case scope.OpaqueType:
		cand.detail = "opaque type " + tb.Name
	case scope.InterfaceType:
		cand.kind = KindInterface
		cand.detail = "interface " + tb.Name
	case scope.ClassType:
		cand.kind = KindClass
		cand.detail = "class " + tb.Name
		cand.group = groupClassOrEnum
	case scope.TypeParamType:
		cand.kind = KindTypeParameter
		cand.detail = tb.Name
		cand.group = groupTypeParam
	case scope.ModuleNamespace:
		cand.kind = KindModule
		cand.detail = t.String()
		cand.text = tb.Name + "."
		cand.group = groupQualifiedType
	case scope.ImportedType:
		switch t := t.(type) {
		case types.Instance:
			cand.kind = KindClass
			cand.detail = "class " + t.Class.Name
			cand.group = groupClassOrEnum
		case types.Interface:
			cand.kind = KindInterface
			cand.detail = "interface " + t.Def.Name
		default:
			cand.detail = "type " + tb.Name + " = " + t.String()
		}
	}
	return cand
}

// localTypes lists the type names visible at the sentinel
func (c *completer) localTypes() []candidate {
	var out []candidate
	for _, tb := range c.res.Graph.VisibleTypes(c.scope) {
		if strings.Contains(tb.Name, Sentinel) {
			continue
		}
		out = append(out, c.typeCandidate(tb))
	}
	return byLabel(out)
}

// builtinTypes lists the builtin type vocabulary in its fixed order
func builtinTypes() []candidate {
	out := make([]candidate, len(types.BuiltinTypeNames))
	for i, name := range types.BuiltinTypeNames {
		kind := KindVariable
		if strings.HasPrefix(name, "$") || name == "Class" {
			kind = KindFunction
		}
		out[i] = candidate{label: name, kind: kind, detail: name, group: groupBuiltinType}
	}
	return out
}

// keys lists the known properties of the indexed value or type as string
// literals
func (c *completer) keys() []candidate {
	var obj types.Type
	switch c.site.context {
	case bracketContext:
		t, ok := c.res.TypeOf(c.site.member.X)
		if !ok {
			return nil
		}
		obj = t
	case typeBracketContext:
		named, ok := c.site.indexed.Obj.(*ast.NamedType)
		if !ok || named.Qualifier != "" {
			return nil
		}
		tb, ok := c.res.Graph.LookupType(c.scope, named.Name)
		if !ok {
			return nil
		}
		obj = c.res.TypeBindingType(tb)
	}
	var out []candidate
	for _, m := range types.Members(obj) {
		if m.Inherited || strings.Contains(m.Name, Sentinel) {
			continue
		}
		cand := memberCandidate(m, groupBracket)
		cand.label = strconv.Quote(m.Name)
		out = append(out, cand)
	}
	return byLabel(out)
}
