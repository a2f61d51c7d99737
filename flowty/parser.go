package flowty

import (
	"context"

	"github.com/cottand/flowty/frontend/ast"
)

// Parser turns the text of a module into its syntax tree. Positions in the
// returned tree must be byte offsets into text, as described by ast.Source.
type Parser interface {
	Parse(ctx context.Context, name, text string) (*ast.File, error)
}

// ParserFunc adapts a function to the Parser interface
type ParserFunc func(ctx context.Context, name, text string) (*ast.File, error)

func (f ParserFunc) Parse(ctx context.Context, name, text string) (*ast.File, error) {
	return f(ctx, name, text)
}
