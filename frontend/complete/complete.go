// Package complete ranks completion candidates at a cursor. The text is
// analysed with Sentinel inserted at the cursor, and the node holding the
// sentinel tells which kind of completion is wanted.
package complete

import (
	"fmt"
	"go/token"
	"slices"
	"strings"

	"github.com/cottand/flowty/frontend/ast"
	"github.com/cottand/flowty/frontend/flow"
	"github.com/cottand/flowty/internal/log"
)

// Sentinel is inserted at the cursor before parsing so that an incomplete
// expression like `a.` still yields a member access
const Sentinel = "AUTO332"

var logger = log.DefaultLogger.With("section", "complete")

// Kind is an LSP CompletionItemKind
type Kind int

const (
	KindFunction      Kind = 3
	KindVariable      Kind = 6
	KindClass         Kind = 7
	KindInterface     Kind = 8
	KindModule        Kind = 9
	KindEnum          Kind = 13
	KindTypeParameter Kind = 25
)

// TriggerKind is how the client triggered the request
type TriggerKind int

const (
	Invoked TriggerKind = iota + 1
	TriggerCharacter
	TriggerForIncomplete
)

type Trigger struct {
	Kind TriggerKind
	Char string
}

// Range is an editor range, in the text without the sentinel
type Range struct {
	Start ast.Position `json:"start"`
	End   ast.Position `json:"end"`
}

type Request struct {
	// Source is the text the result was computed from, sentinel included
	Source *ast.Source
	// Cursor is where the sentinel was inserted
	Cursor  ast.Position
	Trigger Trigger
	// InsertReplace is set when the client accepts separate insert and
	// replace ranges
	InsertReplace bool
	// MaxItems truncates the list; 0 keeps every item
	MaxItems int
}

type Item struct {
	Label  string
	Kind   Kind
	Detail string
	// Documentation is markdown
	Documentation string
	SortText      string
	NewText       string
	Insert        Range
	// Replace is only set when it differs from Insert and the client
	// supports it
	Replace *Range

	// Group names the list the item was ranked in
	Group string
	// Token is the identifier the sentinel was found in
	Token       string
	TypedLength int
	Index       int
}

type List struct {
	Items        []Item
	IsIncomplete bool
}

// InsertSentinel returns text with Sentinel inserted at cursor
func InsertSentinel(text string, cursor ast.Position) string {
	off := ast.NewSource("", text).OffsetAt(cursor)
	return text[:off] + Sentinel + text[off:]
}

// Complete lists the candidates for the sentinel in res, in rank order
func Complete(res *flow.Result, req Request) (*List, error) {
	if res == nil || res.File == nil {
		return nil, fmt.Errorf("complete: no analysis result")
	}
	if req.Source == nil {
		return nil, fmt.Errorf("complete: no source for %s", res.File.Name)
	}
	site, ok := locate(res.File, res.Graph)
	if !ok {
		logger.Debug("no completion token", "file", res.File.Name, "cursor", req.Cursor)
		return &List{}, nil
	}
	if req.Trigger.Kind == TriggerCharacter && req.Trigger.Char == " " && site.context != jsxAttrContext {
		return &List{}, nil
	}

	c := &completer{res: res, site: site, scope: res.Graph.ScopeAt(site.token.PosStart)}
	var tiers [][]candidate
	switch site.context {
	case valueContext:
		tiers = [][]candidate{c.values()}
	case memberContext:
		tiers = c.members()
	case jsxAttrContext:
		tiers = [][]candidate{c.jsxAttributes()}
	case typeContext:
		tiers = [][]candidate{c.localTypes(), builtinTypes()}
	case bracketContext:
		tiers = [][]candidate{c.keys(), c.values()}
	case typeBracketContext:
		tiers = [][]candidate{c.keys(), c.localTypes(), builtinTypes()}
	case noContext:
		return &List{}, nil
	}

	list := &List{}
	for _, tier := range tiers {
		for _, cand := range tier {
			list.Items = append(list.Items, c.item(cand, req))
		}
	}
	if req.MaxItems > 0 && len(list.Items) > req.MaxItems {
		list.Items = list.Items[:req.MaxItems]
		list.IsIncomplete = true
	}
	for i := range list.Items {
		list.Items[i].Index = i
		list.Items[i].SortText = fmt.Sprintf("%020d", i)
	}
	logger.Debug("completed", "file", res.File.Name, "context", site.context, "token", site.text, "items", len(list.Items))
	return list, nil
}

// candidate is an entry of a tier before edit ranges are known
type candidate struct {
	label  string
	kind   Kind
	detail string
	doc    string
	// text is inserted instead of label when set
	text  string
	group string
}

func (c *completer) item(cand candidate, req Request) Item {
	prefix, suffix, _ := strings.Cut(c.site.text, Sentinel)
	start := req.Source.PositionOf(c.site.token.PosStart)
	if start.Line != req.Cursor.Line {
		start = req.Cursor
		start.Character -= u16Len(prefix)
	}
	insert := Range{Start: start, End: req.Cursor}

	text := cand.text
	if text == "" {
		text = cand.label
	}
	it := Item{
		Label:         cand.label,
		Kind:          cand.kind,
		Detail:        cand.detail,
		Documentation: cand.doc,
		NewText:       text,
		Insert:        insert,
		Group:         cand.group,
		Token:         c.site.text,
		TypedLength:   u16Len(prefix),
	}
	if req.InsertReplace && suffix != "" {
		end := req.Cursor
		end.Character += u16Len(suffix)
		it.Replace = &Range{Start: start, End: end}
	}
	return it
}

func u16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// byLabel sorts a tier alphabetically, keeping the original order of equal
// labels
func byLabel(cands []candidate) []candidate {
	slices.SortStableFunc(cands, func(a, b candidate) int {
		return strings.Compare(a.label, b.label)
	})
	return cands
}

// before reports whether the declaration at decl is still being evaluated,
// or not reached yet, at pos
func before(pos token.Pos, decl ast.Node) bool {
	if decl == nil {
		return false
	}
	return decl.Pos() > pos || ast.RangeOf(decl).Contains(pos)
}
