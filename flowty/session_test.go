package flowty

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/cottand/flowty/frontend/construct"

	"github.com/cottand/flowty/frontend/ast"
	"github.com/cottand/flowty/frontend/complete"
	"github.com/cottand/flowty/frontend/flowerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtures parses the texts printed by Build back into the trees they were
// printed from
type fixtures struct {
	mu    sync.Mutex
	files map[string]*ast.File
}

func newFixtures() *fixtures {
	return &fixtures{files: make(map[string]*ast.File)}
}

func (f *fixtures) add(stmts ...ast.Stmt) string {
	file, src := Build("test.js", stmts...)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[src.Text] = file
	return src.Text
}

func (f *fixtures) Parse(_ context.Context, _, text string) (*ast.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.files[text]
	if !ok {
		return nil, fmt.Errorf("no fixture for %q", text)
	}
	return file, nil
}

func openSession(t *testing.T, f *fixtures, text string) *Session {
	t.Helper()
	s := NewSession("test.js", f, Options{})
	require.NoError(t, s.Open(context.Background(), text))
	return s
}

func TestDiagnostics(t *testing.T) {
	f := newFixtures()
	text := f.add(
		Do(Id("x")),
		Var("x", nil, Num(1)),
	)
	s := openSession(t, f, text)

	diags, err := s.Diagnostics(context.Background())
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, flowerr.UseBeforeInit, diags[0].Code)
	assert.Equal(t, flowerr.UseBeforeInit.Tag(), diags[0].Kind)
	assert.Equal(t, ast.Span{Start: ast.Position{Line: 0, Character: 0}, End: ast.Position{Line: 0, Character: 1}}, diags[0].Range)

	snap, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Contains(t, snap.Format(), "test.js:1")
	assert.Contains(t, snap.Format(), "[use-before-init]")
}

func TestTypeAt(t *testing.T) {
	f := newFixtures()
	text := f.add(
		Const("a", nil, Num(1)),
		Do(Id("a")),
	)
	s := openSession(t, f, text)

	info, ok, err := s.TypeAt(context.Background(), ast.Position{Line: 1, Character: 0})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "number", info.Type.String())
	assert.Equal(t, ast.Span{Start: ast.Position{Line: 1, Character: 0}, End: ast.Position{Line: 1, Character: 1}}, info.Range)

	_, ok, err = s.TypeAt(context.Background(), ast.Position{Line: 5, Character: 0})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestChange(t *testing.T) {
	f := newFixtures()
	before := f.add(Const("a", nil, Num(1)), Do(Id("a")))
	after := f.add(Const("a", nil, Str("s")), Do(Id("a")))
	require.True(t, strings.HasPrefix(after, "const a = "))

	s := openSession(t, f, before)
	// replace the literal `1` with `"s"`
	at := strings.Index(before, "1")
	start := ast.Position{Line: 0, Character: at}
	end := ast.Position{Line: 0, Character: at + 1}
	err := s.Change(context.Background(), 1, []Edit{{Range: &ast.Span{Start: start, End: end}, Text: `"s"`}})
	require.NoError(t, err)
	assert.Equal(t, after, s.Text())

	snap, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Version)

	info, ok, err := s.TypeAt(context.Background(), ast.Position{Line: 1, Character: 0})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "string", info.Type.String())
}

func TestParseFailureKeepsSnapshot(t *testing.T) {
	f := newFixtures()
	text := f.add(Const("a", nil, Num(1)))
	s := openSession(t, f, text)

	err := s.Change(context.Background(), 1, []Edit{{Text: "not a fixture"}})
	assert.ErrorContains(t, err, "no fixture")

	snap, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Version)
	assert.Equal(t, text, snap.Source.Text)
}

func TestSnapshotWaitsForAnalysis(t *testing.T) {
	s := NewSession("test.js", newFixtures(), Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.Snapshot(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, IsCanceled(err))
}

func TestSnapshotAfterFailedOpen(t *testing.T) {
	f := newFixtures()
	text := f.add(Const("a", nil, Num(1)))
	s := NewSession("test.js", f, Options{})
	require.Error(t, s.Open(context.Background(), "not a fixture"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := s.Snapshot(ctx)
	assert.ErrorContains(t, err, "test.js is not analysed")
	assert.ErrorContains(t, err, "no fixture")
	assert.False(t, IsCanceled(err))

	require.NoError(t, s.Change(ctx, 1, []Edit{{Text: text}}))
	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Version)
}

func TestChangeCancelsAnalysis(t *testing.T) {
	f := newFixtures()
	second := f.add(Const("b", nil, Num(2)))
	started := make(chan struct{})
	parser := ParserFunc(func(ctx context.Context, name, text string) (*ast.File, error) {
		if text == "slow" {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return f.Parse(ctx, name, text)
	})
	s := NewSession("test.js", parser, Options{})

	done := make(chan error)
	go func() { done <- s.Open(context.Background(), "slow") }()
	<-started
	require.NoError(t, s.Change(context.Background(), 1, []Edit{{Text: second}}))

	// the superseded analysis is dropped without an error
	assert.NoError(t, <-done)
	snap, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Version)
	assert.Equal(t, second, snap.Source.Text)
}

func TestCompletion(t *testing.T) {
	f := newFixtures()
	program := func(last string) []ast.Stmt {
		return []ast.Stmt{
			Const("alpha", nil, Num(1)),
			Const("beta", nil, Str("s")),
			Do(Id(last)),
		}
	}
	text := f.add(program("al")...)
	f.add(program("al" + complete.Sentinel)...)
	s := openSession(t, f, text)

	cursor := ast.Position{Line: 2, Character: 2}
	got, err := s.Completion(context.Background(), cursor, complete.Trigger{Kind: complete.Invoked})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Requests)

	var labels []string
	for _, it := range got.Items {
		labels = append(labels, it.Label)
	}
	assert.Equal(t, []string{"alpha", "beta"}, labels)
	assert.Equal(t, 2, got.Items[0].TypedLength)
	assert.Equal(t, "al"+complete.Sentinel, got.Items[0].Token)
	assert.Equal(t, complete.Range{Start: ast.Position{Line: 2, Character: 0}, End: cursor}, got.Items[0].Insert)

	got, err = s.Completion(context.Background(), cursor, complete.Trigger{Kind: complete.Invoked})
	require.NoError(t, err)
	assert.Equal(t, 2, got.Requests)
}
