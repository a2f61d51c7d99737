package flowerr

import (
	"fmt"
	"strings"

	"github.com/cottand/flowty/frontend/ast"
)

// FormatWithSource renders e with the offending line and a caret under its
// span:
//
//	test.js:3
//	  3: export class Foo { a; }
//	                        ^^ Missing an annotation on property `a`. [missing-local-annot]
//
// Spans covering several lines are underlined up to the end of the first line.
func FormatWithSource(e FlowError, src *ast.Source) string {
	start := src.PositionOf(e.Pos())
	end := src.PositionOf(e.End())
	line := src.Line(start.Line)
	lineNo := start.Line + 1

	width := end.Character - start.Character
	if end.Line != start.Line {
		width = len([]rune(line)) - start.Character
	}
	width = max(width, 1)

	prefix := fmt.Sprintf("  %d: ", lineNo)
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "%s:%d\n", src.Name, lineNo)
	sb.WriteString(prefix)
	sb.WriteString(line)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", len(prefix)+start.Character))
	sb.WriteString(strings.Repeat("^", width))
	fmt.Fprintf(sb, " %s [%s]", e.Error(), e.Code().Tag())
	return sb.String()
}

// FormatAll renders every error in r in position order, separated by blank
// lines
func FormatAll(r *Errors, src *ast.Source) string {
	parts := make([]string, 0, r.Len())
	for _, e := range r.Sorted() {
		parts = append(parts, FormatWithSource(e, src))
	}
	return strings.Join(parts, "\n\n")
}
