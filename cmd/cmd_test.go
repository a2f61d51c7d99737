package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cottand/flowty/protocol"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newProject lays out a project whose parser prints the ESTree fixture of
// inc.js, and returns its root and the path of the copied source
func newProject(t *testing.T) (root, file string) {
	t.Helper()
	tree, err := filepath.Abs("../frontend/estree/testdata/inc.json")
	require.NoError(t, err)
	text, err := os.ReadFile("../frontend/estree/testdata/inc.js")
	require.NoError(t, err)

	root = t.TempDir()
	file = filepath.Join(root, "inc.js")
	require.NoError(t, os.WriteFile(file, text, 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".flowty"), 0o755))
	config := "parser:\n  command: sh\n  args: [\"-c\", \"cat " + tree + "\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".flowty", "config.yaml"), []byte(config), 0o644))
	return root, file
}

func execute(t *testing.T, c *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), err
}

func TestCheck(t *testing.T) {
	root, file := newProject(t)

	out, err := execute(t, CheckCmd, "--root", root, "--no-color", file)
	require.NoError(t, err)
	assert.Contains(t, out, "No errors!")

	_, err = execute(t, CheckCmd, "--root", root, "--no-color", filepath.Join(root, "missing.js"))
	assert.ErrorContains(t, err, "missing.js")
}

func TestCheckMoreFilesThanSessions(t *testing.T) {
	root, file := newProject(t)
	text, err := os.ReadFile(file)
	require.NoError(t, err)
	files := []string{file}
	for _, name := range []string{"b.js", "c.js", "d.js"} {
		path := filepath.Join(root, name)
		require.NoError(t, os.WriteFile(path, text, 0o644))
		files = append(files, path)
	}
	config := filepath.Join(root, ".flowty", "config.yaml")
	base, err := os.ReadFile(config)
	require.NoError(t, err)
	limits := "workspace:\n  maxSessions: 1\ncheck:\n  parallelism: 4\n"
	require.NoError(t, os.WriteFile(config, append(base, limits...), 0o644))

	out, err := execute(t, CheckCmd, append([]string{"--root", root, "--no-color"}, files...)...)
	require.NoError(t, err, out)
	assert.Contains(t, out, "No errors!")
}

func TestTypeAt(t *testing.T) {
	root, file := newProject(t)

	// the 'a' of o.a on the last line
	out, err := execute(t, TypeAtCmd, "--root", root, file, "8", "3")
	require.NoError(t, err)
	assert.Equal(t, "number\n", out)

	_, err = execute(t, TypeAtCmd, "--root", root, file, "0", "3")
	assert.ErrorContains(t, err, "invalid line")
}

func TestParsePosition(t *testing.T) {
	cases := map[string]struct {
		line, column string
		line0, col0  int
		err          string
	}{
		"first":       {line: "1", column: "1"},
		"editor":      {line: "8", column: "3", line0: 7, col0: 2},
		"zero column": {line: "1", column: "0", err: "invalid column"},
		"not number":  {line: "x", column: "1", err: "invalid line"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			pos, err := parsePosition(c.line, c.column)
			if c.err != "" {
				assert.ErrorContains(t, err, c.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.line0, pos.Line)
			assert.Equal(t, c.col0, pos.Character)
		})
	}
}

func TestCompleteJSON(t *testing.T) {
	root, file := newProject(t)

	// the parser ignores the sentinel, so the completion sees the fixture
	// tree with the cursor at the start of the last line
	out, err := execute(t, CompleteCmd, "--root", root, "--json", file, "8", "1")
	require.NoError(t, err)

	var list protocol.CompletionList
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	for _, it := range list.Items {
		require.NotNil(t, it.Command)
		assert.Equal(t, "log:flowty:"+root, it.Command.Command)
	}
}
