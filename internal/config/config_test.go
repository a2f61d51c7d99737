package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	opts := cfg.SessionOptions()
	assert.True(t, opts.Flow.ExactByDefault)
	assert.Equal(t, 100, opts.MaxItems)
}

func TestLoadFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".flowty", "config.yaml"), `
log:
  level: debug
  sections: [complete]
completion:
  maxItems: 10
  insertReplace: true
parser:
  command: hermes-parser
  args: ["--estree"]
  offsets: utf8-bytes
exactByDefault: false
`)
	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"complete"}, cfg.Log.Sections)
	assert.Equal(t, CompletionConfig{MaxItems: 10, InsertReplace: true}, cfg.Completion)
	assert.Equal(t, ParserConfig{Command: "hermes-parser", Args: []string{"--estree"}, Offsets: "utf8-bytes"}, cfg.Parser)
	assert.False(t, cfg.ExactByDefault)
	// untouched keys keep their defaults
	assert.Equal(t, 64, cfg.Workspace.MaxSessions)
}

func TestLoadEnvironment(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".flowty", "config.json"), `{"completion": {"maxItems": 10}}`)
	t.Setenv("FLOWTY_COMPLETION_MAXITEMS", "5")

	writeFile(t, filepath.Join(root, ".env"), "FLOWTY_CHECK_PARALLELISM=2\n")
	t.Cleanup(func() { _ = os.Unsetenv("FLOWTY_CHECK_PARALLELISM") })

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Completion.MaxItems)
	assert.Equal(t, 2, cfg.Check.Parallelism)
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		edit  func(c *Config)
		field string
	}{
		"log level": {
			edit:  func(c *Config) { c.Log.Level = "loud" },
			field: "log.level",
		},
		"negative max items": {
			edit:  func(c *Config) { c.Completion.MaxItems = -1 },
			field: "completion.maxItems",
		},
		"no sessions": {
			edit:  func(c *Config) { c.Workspace.MaxSessions = 0 },
			field: "workspace.maxSessions",
		},
		"no parallelism": {
			edit:  func(c *Config) { c.Check.Parallelism = 0 },
			field: "check.parallelism",
		},
		"offset style": {
			edit:  func(c *Config) { c.Parser.Offsets = "columns" },
			field: "parser.offsets",
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			c.edit(cfg)
			err := cfg.Validate()
			var cfgErr *Error
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, c.field, cfgErr.Field)
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestNewParser(t *testing.T) {
	cfg := Default()
	cfg.Parser.Command = "flowty-parser-that-does-not-exist"
	_, err := cfg.NewParser()
	assert.ErrorContains(t, err, "parser command")
}
