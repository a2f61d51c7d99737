package complete

import (
	"strings"

	"github.com/cottand/flowty/frontend/ast"
	"github.com/cottand/flowty/frontend/scope"
)

type contextKind int

const (
	noContext contextKind = iota
	valueContext
	memberContext
	jsxAttrContext
	typeContext
	bracketContext
	typeBracketContext
)

func (c contextKind) String() string {
	switch c {
	case valueContext:
		return "value"
	case memberContext:
		return "member"
	case jsxAttrContext:
		return "jsx attribute"
	case typeContext:
		return "type"
	case bracketContext:
		return "bracket"
	case typeBracketContext:
		return "type bracket"
	default:
		return "none"
	}
}

// site is where the sentinel was found
type site struct {
	context contextKind
	// token is the range of the identifier holding the sentinel and text
	// its name
	token ast.Range
	text  string

	member  *ast.Member
	elem    *ast.JSXElement
	attr    *ast.JSXAttr
	indexed *ast.IndexedAccessType
}

func holdsSentinel(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.Ident:
		return strings.Contains(n.Name, Sentinel)
	case *ast.Member:
		return !n.Computed() && strings.Contains(n.Prop, Sentinel)
	case *ast.NamedType:
		return strings.Contains(n.Name, Sentinel)
	case *ast.JSXElement:
		if strings.Contains(n.Name, Sentinel) {
			return true
		}
		for _, a := range n.Attrs {
			if a.Spread == nil && strings.Contains(a.Name, Sentinel) {
				return true
			}
		}
	}
	return false
}

// locate finds the innermost node holding the sentinel and classifies it
func locate(file *ast.File, graph *scope.Graph) (site, bool) {
	path := ast.Path(file, holdsSentinel)
	if len(path) == 0 {
		return site{}, false
	}
	var parent ast.Node
	if len(path) > 1 {
		parent = path[len(path)-2]
	}

	switch n := path[len(path)-1].(type) {
	case *ast.Ident:
		s := site{context: valueContext, token: n.Range, text: n.Name}
		if _, declaring := graph.Decls[n]; declaring {
			s.context = noContext
		}
		switch p := parent.(type) {
		case *ast.Member:
			if p.Index == n {
				s.context = bracketContext
				s.member = p
			}
		case *ast.TypeAlias:
			if p.Name == n {
				s.context = noContext
			}
		case *ast.InterfaceDecl:
			if p.Name == n {
				s.context = noContext
			}
		}
		return s, true
	case *ast.Member:
		return site{context: memberContext, token: n.PropRange, text: n.Prop, member: n}, true
	case *ast.NamedType:
		s := site{context: typeContext, token: n.Range, text: n.Name}
		if n.Qualifier != "" {
			// members of other modules are not known
			s.context = noContext
		}
		if p, ok := parent.(*ast.IndexedAccessType); ok && p.Index == n {
			s.context = typeBracketContext
			s.indexed = p
		}
		return s, true
	case *ast.JSXElement:
		for i := range n.Attrs {
			a := &n.Attrs[i]
			if a.Spread == nil && strings.Contains(a.Name, Sentinel) {
				return site{context: jsxAttrContext, token: a.NameRange, text: a.Name, elem: n, attr: a}, true
			}
		}
		return site{context: valueContext, token: n.NameRange, text: n.Name}, true
	}
	return site{}, false
}
