// Package estree builds syntax trees from the ESTree JSON printed by Flow
// parsers, such as `flow ast` or the flow-parser package.
package estree

import (
	"encoding/json"
	"fmt"
	"go/token"
	"strconv"
	"strings"

	"github.com/cottand/flowty/frontend/ast"
	"github.com/cottand/flowty/internal/log"
	"github.com/pkg/errors"
)

var logger = log.DefaultLogger.With("section", "estree")

// OffsetStyle is the unit of the offsets in node ranges
type OffsetStyle int

const (
	// JSIndices are UTF-16 code unit offsets, as produced by parsers
	// running in JavaScript
	JSIndices OffsetStyle = iota
	UTF8Bytes
)

// ParseOffsetStyle accepts the names used by `flow ast --offset-style`
func ParseOffsetStyle(s string) (OffsetStyle, error) {
	switch s {
	case "", "js-indices":
		return JSIndices, nil
	case "utf8-bytes":
		return UTF8Bytes, nil
	}
	return 0, errors.Errorf("unknown offset style %q", s)
}

type Options struct {
	Offsets OffsetStyle
}

// Decode builds the File for text from the ESTree JSON of its Program
func Decode(name string, data []byte, text string, opts Options) (*ast.File, error) {
	var root object
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrapf(err, "decode ESTree of %s", name)
	}
	if k := root.kind(); k != "Program" {
		return nil, errors.Errorf("decode ESTree of %s: expected a Program, got %q", name, k)
	}
	d := &decoder{name: name, text: text, opts: opts, src: ast.NewSource(name, text)}
	d.collectDocs(root.list("comments"))
	if errs := root.list("errors"); len(errs) > 0 {
		logger.Debug("parser recovered from errors", "file", name, "count", len(errs))
	}

	f := &ast.File{Range: d.rng(root), Name: name, Body: d.stmts(root.list("body"))}
	f.Problems = d.problems
	if len(d.problems) > 0 {
		logger.Debug("approximated constructs", "file", name, "count", len(d.problems))
	}
	return f, nil
}

type decoder struct {
	name string
	text string
	opts Options
	src  *ast.Source
	// u16 maps UTF-16 offsets to byte offsets
	u16  []int
	docs []comment
	// problems are the constructs replaced by an approximation
	problems []ast.Problem
}

// object is a decoded ESTree node
type object map[string]any

func (o object) kind() string { return o.str("type") }

func (o object) str(key string) string {
	s, _ := o[key].(string)
	return s
}

func (o object) bool(key string) bool {
	b, _ := o[key].(bool)
	return b
}

func (o object) num(key string) float64 {
	n, _ := o[key].(float64)
	return n
}

func (o object) obj(key string) object {
	m, _ := o[key].(map[string]any)
	return m
}

// list returns the nodes under key, with nil for null entries like array
// holes
func (o object) list(key string) []object {
	raw, _ := o[key].([]any)
	out := make([]object, len(raw))
	for i, v := range raw {
		m, _ := v.(map[string]any)
		out[i] = m
	}
	return out
}

func (d *decoder) problemf(o object, format string, args ...any) {
	d.problems = append(d.problems, ast.Problem{Range: d.rng(o), Message: fmt.Sprintf(format, args...)})
}

func (d *decoder) unsupported(o object, what string) {
	d.problemf(o, "unsupported %s %s", what, o.kind())
}

func (d *decoder) offsets(o object) (start, end int) {
	var s, e float64
	if r, ok := o["range"].([]any); ok && len(r) == 2 {
		s, _ = r[0].(float64)
		e, _ = r[1].(float64)
	} else {
		s, e = o.num("start"), o.num("end")
	}
	return d.byteOffset(int(s)), d.byteOffset(int(e))
}

func (d *decoder) byteOffset(i int) int {
	if d.opts.Offsets == UTF8Bytes {
		return min(max(i, 0), len(d.text))
	}
	if d.u16 == nil {
		d.u16 = make([]int, 0, len(d.text)+1)
		for off, r := range d.text {
			d.u16 = append(d.u16, off)
			if r >= 0x10000 {
				d.u16 = append(d.u16, off)
			}
		}
		d.u16 = append(d.u16, len(d.text))
	}
	return d.u16[min(max(i, 0), len(d.u16)-1)]
}

func (d *decoder) rng(o object) ast.Range {
	start, end := d.offsets(o)
	return ast.Range{PosStart: ast.PosOfOffset(start), PosEnd: ast.PosOfOffset(end)}
}

// ident decodes an Identifier. Parsers include type annotations in the range
// of identifiers, so the range is cut to the name.
func (d *decoder) ident(o object) *ast.Ident {
	if o == nil {
		return nil
	}
	if o.kind() != "Identifier" {
		d.unsupported(o, "binding")
		return &ast.Ident{Range: d.rng(o)}
	}
	r := d.rng(o)
	name := o.str("name")
	r.PosEnd = r.PosStart + token.Pos(len(name))
	return &ast.Ident{Range: r, Name: name}
}

// bound returns the identifiers a binding pattern assigns to
func (d *decoder) bound(o object) []*ast.Ident {
	switch o.kind() {
	case "Identifier":
		return []*ast.Ident{d.ident(o)}
	case "ObjectPattern":
		var ids []*ast.Ident
		for _, p := range o.list("properties") {
			if p.kind() == "RestElement" {
				ids = append(ids, d.bound(p.obj("argument"))...)
				continue
			}
			ids = append(ids, d.bound(p.obj("value"))...)
		}
		return ids
	case "ArrayPattern":
		var ids []*ast.Ident
		for _, e := range o.list("elements") {
			if e != nil {
				ids = append(ids, d.bound(e)...)
			}
		}
		return ids
	case "AssignmentPattern":
		return d.bound(o.obj("left"))
	case "RestElement":
		return d.bound(o.obj("argument"))
	}
	return nil
}

// pattern decodes a destructuring pattern into the identifiers it binds,
// reporting that their types are approximated
func (d *decoder) pattern(o object) []*ast.Ident {
	d.unsupported(o, "binding")
	return d.bound(o)
}

// propName returns the name of a non-computed property key
func (d *decoder) propName(key object) (string, ast.Range) {
	switch key.kind() {
	case "Identifier":
		id := d.ident(key)
		return id.Name, id.Range
	case "PrivateName":
		id := d.ident(key.obj("id"))
		return "#" + id.Name, d.rng(key)
	case "Literal":
		switch v := key["value"].(type) {
		case string:
			return v, d.rng(key)
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), d.rng(key)
		}
	}
	d.unsupported(key, "property key")
	return "", d.rng(key)
}

// comment is a /** */ comment
type comment struct {
	start, end int
	text       string
}

func (d *decoder) collectDocs(comments []object) {
	for _, c := range comments {
		value := c.str("value")
		if c.kind() != "Block" || !strings.HasPrefix(value, "*") {
			continue
		}
		start, end := d.offsets(c)
		d.docs = append(d.docs, comment{start: start, end: end, text: docText(value)})
	}
}

func docText(value string) string {
	lines := strings.Split(strings.TrimPrefix(value, "*"), "\n")
	for i, l := range lines {
		l = strings.TrimSpace(l)
		lines[i] = strings.TrimSpace(strings.TrimPrefix(l, "*"))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// doc returns the doc comment written right before o, with only whitespace
// in between
func (d *decoder) doc(o object) ast.Doc {
	start, _ := d.offsets(o)
	for i := len(d.docs) - 1; i >= 0; i-- {
		c := d.docs[i]
		if c.end > start {
			continue
		}
		if strings.TrimSpace(d.text[c.end:start]) == "" {
			return ast.Doc(c.text)
		}
		return ""
	}
	return ""
}

func setDoc(s ast.Stmt, doc ast.Doc) {
	if doc == "" {
		return
	}
	switch s := s.(type) {
	case *ast.VarDecl:
		if s.Doc == "" {
			s.Doc = doc
		}
	case *ast.FuncDecl:
		if s.Doc == "" {
			s.Doc = doc
		}
	case *ast.ClassDecl:
		if s.Doc == "" {
			s.Doc = doc
		}
	case *ast.TypeAlias:
		if s.Doc == "" {
			s.Doc = doc
		}
	case *ast.InterfaceDecl:
		if s.Doc == "" {
			s.Doc = doc
		}
	}
}
