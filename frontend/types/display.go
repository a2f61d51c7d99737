package types

import (
	"strconv"
	"strings"
)

func (t Prim) String() string { return primNames[t.Kind] }

func (t Literal) String() string {
	switch v := t.Value.(type) {
	case string:
		return strconv.Quote(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return "?"
}

func (t Maybe) String() string { return "?" + wrap(t.Elem, true) }

func (t Optional) String() string { return wrap(t.Elem, false) + " | void" }

func (t Union) String() string { return join(t.Members, " | ") }

func (t Intersection) String() string { return join(t.Members, " & ") }

func join(ts []Type, sep string) string {
	parts := make([]string, len(ts))
	for i, m := range ts {
		parts[i] = wrap(m, false)
	}
	return strings.Join(parts, sep)
}

// wrap parenthesises types which would otherwise read ambiguously next to
// a union bar or a leading '?'
func wrap(t Type, underMaybe bool) string {
	switch t.(type) {
	case Maybe, *Func, Intersection:
		return "(" + t.String() + ")"
	case Union, Optional:
		if underMaybe {
			return "(" + t.String() + ")"
		}
	}
	return t.String()
}

func (f Field) String() string {
	sb := &strings.Builder{}
	sb.WriteString(f.Variance.String())
	sb.WriteString(f.Name)
	if f.Optional {
		sb.WriteString("?")
	}
	sb.WriteString(": ")
	sb.WriteString(f.Type.String())
	return sb.String()
}

func (t *Object) String() string {
	open, close := "{", "}"
	if t.Exact {
		open, close = "{|", "|}"
	}
	var parts []string
	for _, f := range t.Fields {
		parts = append(parts, f.String())
	}
	if t.Indexer != nil {
		parts = append(parts, "["+t.Indexer.Key.String()+"]: "+t.Indexer.Value.String())
	}
	if !t.Exact {
		parts = append(parts, "...")
	}
	return open + strings.Join(parts, ", ") + close
}

func (t Array) String() string {
	if t.ReadOnly {
		return "$ReadOnlyArray<" + t.Elem.String() + ">"
	}
	return "Array<" + t.Elem.String() + ">"
}

func (t Instance) String() string { return t.Class.Name }

func (t ClassOf) String() string { return "Class<" + t.Class.Name + ">" }

func (t Interface) String() string { return t.Def.Name }

func (t *Func) String() string {
	sb := &strings.Builder{}
	if len(t.TypeParams) > 0 {
		sb.WriteString("<")
		for i, tp := range t.TypeParams {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(tp.Name)
		}
		sb.WriteString(">")
	}
	sb.WriteString("(")
	for i, p := range t.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if p.Name != "" {
			sb.WriteString(p.Name)
			if p.Optional {
				sb.WriteString("?")
			}
			sb.WriteString(": ")
		}
		sb.WriteString(p.Type.String())
	}
	if t.Rest != nil {
		if len(t.Params) > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("...")
		if t.RestName != "" {
			sb.WriteString(t.RestName + ": ")
		}
		sb.WriteString(t.Rest.String())
	}
	sb.WriteString(") => ")
	sb.WriteString(t.Return.String())
	return sb.String()
}

func (t Destructor) String() string {
	return t.Kind.String() + "<" + join(t.Operands, ", ") + ">"
}

func (t *TypeParam) String() string { return t.Name }

func (t Module) String() string { return "module " + strconv.Quote(t.Path) }
