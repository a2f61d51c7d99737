package estree

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/cottand/flowty/frontend/ast"
	"github.com/pkg/errors"
)

// CommandParser parses modules by running an external parser that reads the
// module text on stdin and prints the ESTree of its Program on stdout, like
// `flow ast`
type CommandParser struct {
	Command string
	Args    []string
	Options Options
}

func (p *CommandParser) Parse(ctx context.Context, name, text string) (*ast.File, error) {
	cmd := exec.CommandContext(ctx, p.Command, p.Args...)
	cmd.Stdin = strings.NewReader(text)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("running parser", "command", p.Command, "args", p.Args, "file", name)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrapf(err, "run %s: %s", p.Command, strings.TrimSpace(stderr.String()))
	}
	return Decode(name, stdout.Bytes(), text, p.Options)
}
