package flowty

import (
	"strings"

	"github.com/cottand/flowty/frontend/ast"
)

// Edit is a change to the text of a document. A nil Range replaces the whole
// text.
type Edit struct {
	Range *ast.Span `json:"range,omitempty"`
	Text  string    `json:"text"`
}

// ApplyEdits returns text with edits applied. If any edit replaces the whole
// text it is the only one applied, otherwise the edits apply in order, each
// against the text left by the previous one.
func ApplyEdits(text string, edits []Edit) string {
	for _, e := range edits {
		if e.Range == nil {
			return e.Text
		}
	}
	for _, e := range edits {
		src := ast.NewSource("", text)
		start := src.OffsetAt(e.Range.Start)
		end := max(start, src.OffsetAt(e.Range.End))

		var sb strings.Builder
		sb.Grow(len(text) - (end - start) + len(e.Text))
		sb.WriteString(text[:start])
		sb.WriteString(e.Text)
		sb.WriteString(text[end:])
		text = sb.String()
	}
	return text
}
