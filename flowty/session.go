// Package flowty answers editor queries over a single open document: its
// diagnostics, the type at a position and the completions at a cursor.
package flowty

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cottand/flowty/frontend/ast"
	"github.com/cottand/flowty/frontend/complete"
	"github.com/cottand/flowty/frontend/flow"
	"github.com/cottand/flowty/frontend/flowerr"
	"github.com/cottand/flowty/frontend/scope"
	"github.com/cottand/flowty/frontend/types"
	"github.com/cottand/flowty/internal/log"
	"github.com/google/uuid"
)

var sessionLogger = log.DefaultLogger.With("section", "session")

type Options struct {
	Flow flow.Options
	// MaxItems truncates completion lists, 0 keeps every item
	MaxItems int
	// InsertReplace is set when the client accepts separate insert and
	// replace ranges for completion edits
	InsertReplace bool
}

// Snapshot is an analysed version of a document. Snapshots are never
// modified once committed.
type Snapshot struct {
	Version int
	Source  *ast.Source
	File    *ast.File
	Graph   *scope.Graph
	Result  *flow.Result
}

// Format renders the diagnostics of the snapshot against its source
func (s *Snapshot) Format() string {
	return flowerr.FormatAll(s.Result.Errors, s.Source)
}

// Session holds the latest analysis of one document. Edits are analysed as
// they arrive; an edit cancels the analysis of the previous one, and
// queries are answered from the last committed snapshot.
type Session struct {
	ID  uuid.UUID
	URI string

	parser Parser
	opts   Options
	logger *slog.Logger

	mu    sync.Mutex
	ready chan struct{}
	snap  *Snapshot
	// failed is the error of the first analysis when it did not commit
	failed     error
	text       string
	generation int
	cancel     context.CancelFunc
	requests   int
}

func NewSession(uri string, parser Parser, opts Options) *Session {
	id := uuid.New()
	return &Session{
		ID:     id,
		URI:    uri,
		parser: parser,
		opts:   opts,
		logger: sessionLogger.With("session", id.String(), "uri", uri),
		ready:  make(chan struct{}),
	}
}

// Open replaces the document with text and analyses it
func (s *Session) Open(ctx context.Context, text string) error {
	return s.update(ctx, 0, func(string) string { return text })
}

// Change applies edits to the current text and analyses the result
func (s *Session) Change(ctx context.Context, version int, edits []Edit) error {
	return s.update(ctx, version, func(old string) string { return ApplyEdits(old, edits) })
}

// Close cancels any analysis in flight
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Text is the current text of the document, which may not be analysed yet
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

func (s *Session) update(ctx context.Context, version int, next func(string) string) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.text = next(s.text)
	s.generation++
	gen, text := s.generation, s.text
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	snap, err := s.analyze(ctx, version, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.logger.Debug("analysis superseded", "version", version)
		return nil
	}
	s.cancel = nil
	first := s.snap == nil && s.failed == nil
	if err != nil {
		if first {
			s.failed = err
			close(s.ready)
		}
		return err
	}
	if first {
		close(s.ready)
	}
	s.snap = snap
	s.logger.Debug("committed snapshot", "version", version, "errors", snap.Result.Errors)
	return nil
}

func (s *Session) analyze(ctx context.Context, version int, text string) (*Snapshot, error) {
	file, err := s.parser.Parse(ctx, s.URI, text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.URI, err)
	}
	graph := scope.Bind(file)
	res, err := flow.Analyze(ctx, file, graph, s.opts.Flow)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", s.URI, err)
	}
	return &Snapshot{
		Version: version,
		Source:  ast.NewSource(s.URI, text),
		File:    file,
		Graph:   graph,
		Result:  res,
	}, nil
}

// Snapshot returns the last committed snapshot, waiting for the first
// analysis to finish. It fails when no analysis has committed yet and the
// first one failed.
func (s *Session) Snapshot(ctx context.Context) (*Snapshot, error) {
	select {
	case <-s.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return nil, fmt.Errorf("%s is not analysed: %w", s.URI, s.failed)
	}
	return s.snap, nil
}

type TypeInfo struct {
	Type types.Type
	// Range is the expression the type belongs to
	Range ast.Span
}

// TypeAt returns the type of the innermost expression at pos
func (s *Session) TypeAt(ctx context.Context, pos ast.Position) (TypeInfo, bool, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return TypeInfo{}, false, err
	}
	t, e, ok := snap.Result.TypeAt(snap.Source.PosAt(pos))
	if !ok {
		return TypeInfo{}, false, nil
	}
	return TypeInfo{Type: t, Range: snap.Source.SpanOf(e)}, true, nil
}

// Completion is a completion list along with the number of completion
// requests the session has answered, this one included
type Completion struct {
	*complete.List
	Requests int
}

// Completion lists the candidates at pos. The snapshot text is analysed
// again with complete.Sentinel inserted at pos.
func (s *Session) Completion(ctx context.Context, pos ast.Position, trigger complete.Trigger) (*Completion, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.requests++
	n := s.requests
	s.mu.Unlock()

	text := complete.InsertSentinel(snap.Source.Text, pos)
	file, err := s.parser.Parse(ctx, s.URI, text)
	if err != nil {
		return nil, fmt.Errorf("parse %s for completion: %w", s.URI, err)
	}
	res, err := flow.Analyze(ctx, file, scope.Bind(file), s.opts.Flow)
	if err != nil {
		return nil, fmt.Errorf("analyze %s for completion: %w", s.URI, err)
	}
	list, err := complete.Complete(res, complete.Request{
		Source:        ast.NewSource(s.URI, text),
		Cursor:        pos,
		Trigger:       trigger,
		InsertReplace: s.opts.InsertReplace,
		MaxItems:      s.opts.MaxItems,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("completion", "request", n, "pos", pos, "items", len(list.Items))
	return &Completion{List: list, Requests: n}, nil
}

type Diagnostic struct {
	Range   ast.Span        `json:"range"`
	Message string          `json:"message"`
	Kind    string          `json:"kind"`
	Code    flowerr.ErrCode `json:"-"`
}

// Diagnostics lists the errors of the last snapshot in position order
func (s *Session) Diagnostics(ctx context.Context) ([]Diagnostic, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	errs := snap.Result.Errors.Sorted()
	out := make([]Diagnostic, 0, len(errs))
	for _, e := range errs {
		out = append(out, Diagnostic{
			Range:   snap.Source.SpanOf(e),
			Message: e.Error(),
			Kind:    e.Code().Tag(),
			Code:    e.Code(),
		})
	}
	return out, nil
}

// IsCanceled reports whether err comes from a cancelled or expired context
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
