package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cottand/flowty/flowty"
	"github.com/cottand/flowty/frontend/ast"
	"github.com/cottand/flowty/internal/config"
	"github.com/cottand/flowty/internal/log"
	"github.com/spf13/cobra"
)

// projectFlags are shared by every command that analyses files
type projectFlags struct {
	root     *string
	logLevel *string
}

func addProjectFlags(c *cobra.Command) projectFlags {
	return projectFlags{
		root:     c.Flags().StringP("root", "r", ".", "project root, where .flowty/ and .env are looked up"),
		logLevel: c.Flags().StringP("log-level", "l", "", "log level, overrides the configured one"),
	}
}

type project struct {
	cfg       *config.Config
	workspace *flowty.Workspace
}

func (f projectFlags) load() (*project, error) {
	cfg, err := config.Load(*f.root)
	if err != nil {
		return nil, fmt.Errorf("could not load configuration: %w", err)
	}
	if *f.logLevel != "" {
		cfg.Log.Level = *f.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	cfg.ApplyLogging()

	parser, err := cfg.NewParser()
	if err != nil {
		return nil, err
	}
	ws, err := flowty.NewWorkspace(parser, cfg.SessionOptions(), cfg.Workspace.MaxSessions)
	if err != nil {
		return nil, err
	}
	return &project{cfg: cfg, workspace: ws}, nil
}

func (p *project) open(ctx context.Context, path string) (*flowty.Session, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("could not get absolute path of %s: %w", path, err)
	}
	text, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	s, err := p.workspace.Open(ctx, path, string(text))
	if err != nil {
		return nil, err
	}
	log.DefaultLogger.Debug("opened file", "section", "session", "path", abs, "session", s.ID.String())
	return s, nil
}

// parsePosition reads a 1-based line and column, as editors display them
func parsePosition(line, column string) (ast.Position, error) {
	l, err := strconv.Atoi(line)
	if err != nil || l < 1 {
		return ast.Position{}, fmt.Errorf("invalid line %q", line)
	}
	c, err := strconv.Atoi(column)
	if err != nil || c < 1 {
		return ast.Position{}, fmt.Errorf("invalid column %q", column)
	}
	return ast.Position{Line: l - 1, Character: c - 1}, nil
}
