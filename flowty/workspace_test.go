package flowty

import (
	"context"
	"testing"

	. "github.com/cottand/flowty/frontend/construct"

	"github.com/cottand/flowty/frontend/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspace(t *testing.T) {
	f := newFixtures()
	text := f.add(Const("a", nil, Num(1)))
	ctx := context.Background()

	t.Run("sessions are kept per document", func(t *testing.T) {
		w, err := NewWorkspace(f, Options{}, 4)
		require.NoError(t, err)

		a, err := w.Open(ctx, "a.js", text)
		require.NoError(t, err)
		b, err := w.Open(ctx, "b.js", text)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
		assert.Same(t, a, w.Session("a.js"))
		assert.Equal(t, 2, w.Len())

		w.Close("a.js")
		_, ok := w.Lookup("a.js")
		assert.False(t, ok)
	})

	t.Run("least recently used session is dropped", func(t *testing.T) {
		w, err := NewWorkspace(f, Options{}, 2)
		require.NoError(t, err)

		for _, uri := range []string{"a.js", "b.js"} {
			_, err := w.Open(ctx, uri, text)
			require.NoError(t, err)
		}
		// touch a.js so that b.js is the oldest
		_, ok := w.Lookup("a.js")
		require.True(t, ok)
		_, err = w.Open(ctx, "c.js", text)
		require.NoError(t, err)

		_, ok = w.Lookup("b.js")
		assert.False(t, ok)
		_, ok = w.Lookup("a.js")
		assert.True(t, ok)
	})

	t.Run("eviction does not cancel an analysis in flight", func(t *testing.T) {
		started, release := make(chan struct{}), make(chan struct{})
		parser := ParserFunc(func(ctx context.Context, name, src string) (*ast.File, error) {
			if name == "a.js" {
				close(started)
				select {
				case <-release:
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
			return f.Parse(ctx, name, src)
		})
		w, err := NewWorkspace(parser, Options{}, 1)
		require.NoError(t, err)

		done := make(chan error)
		go func() {
			_, err := w.Open(ctx, "a.js", text)
			done <- err
		}()
		<-started
		_, err = w.Open(ctx, "b.js", text)
		require.NoError(t, err)
		_, ok := w.Lookup("a.js")
		assert.False(t, ok)

		close(release)
		assert.NoError(t, <-done)
	})

	t.Run("closing cancels an analysis in flight", func(t *testing.T) {
		started := make(chan struct{})
		parser := ParserFunc(func(ctx context.Context, name, src string) (*ast.File, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		})
		w, err := NewWorkspace(parser, Options{}, 1)
		require.NoError(t, err)

		done := make(chan error)
		go func() {
			_, err := w.Open(ctx, "a.js", text)
			done <- err
		}()
		<-started
		w.Close("a.js")
		assert.True(t, IsCanceled(<-done))
	})

	t.Run("changing a closed document fails", func(t *testing.T) {
		w, err := NewWorkspace(f, Options{}, 2)
		require.NoError(t, err)

		_, err = w.Change(ctx, "a.js", 1, []Edit{{Text: text}})
		assert.ErrorContains(t, err, "not open")
	})

	t.Run("invalid size", func(t *testing.T) {
		_, err := NewWorkspace(f, Options{}, 0)
		assert.Error(t, err)
	})
}

func TestApplyEdits(t *testing.T) {
	span := func(l1, c1, l2, c2 int) *ast.Span {
		return &ast.Span{Start: ast.Position{Line: l1, Character: c1}, End: ast.Position{Line: l2, Character: c2}}
	}
	cases := map[string]struct {
		text     string
		edits    []Edit
		expected string
	}{
		"insertion": {
			text:     "let a = 1;\n",
			edits:    []Edit{{Range: span(0, 4, 0, 4), Text: "bb"}},
			expected: "let bba = 1;\n",
		},
		"deltas apply in order": {
			text: "ab\ncd\n",
			edits: []Edit{
				{Range: span(0, 0, 0, 1), Text: "x\ny"},
				// line 1 is now "yb"
				{Range: span(1, 1, 1, 2), Text: "z"},
			},
			expected: "x\nyz\ncd\n",
		},
		"full replacement wins": {
			text: "old",
			edits: []Edit{
				{Range: span(0, 0, 0, 1), Text: "x"},
				{Text: "new"},
			},
			expected: "new",
		},
		"columns count utf-16 units": {
			text:     "'😀';x",
			edits:    []Edit{{Range: span(0, 5, 0, 6), Text: "y"}},
			expected: "'😀';y",
		},
		"range past the end clamps": {
			text:     "a\n",
			edits:    []Edit{{Range: span(0, 1, 9, 0), Text: "b"}},
			expected: "ab",
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, c.expected, ApplyEdits(c.text, c.edits))
		})
	}
}
