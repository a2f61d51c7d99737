package flowty

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Workspace keeps a session per open document. When more than maxSessions
// documents are open the least recently used session is dropped. An
// analysis it is running still completes for its caller.
type Workspace struct {
	parser Parser
	opts   Options

	mu       sync.Mutex
	sessions *lru.Cache[string, *Session]
}

func NewWorkspace(parser Parser, opts Options, maxSessions int) (*Workspace, error) {
	cache, err := lru.NewWithEvict[string, *Session](maxSessions, func(uri string, s *Session) {
		sessionLogger.Debug("dropped session", "uri", uri, "session", s.ID.String())
	})
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	return &Workspace{parser: parser, opts: opts, sessions: cache}, nil
}

// Session returns the session of uri, creating it if needed
func (w *Workspace) Session(uri string) *Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s, ok := w.sessions.Get(uri); ok {
		return s
	}
	s := NewSession(uri, w.parser, w.opts)
	w.sessions.Add(uri, s)
	return s
}

// Lookup returns the session of uri if the document is open
func (w *Workspace) Lookup(uri string) (*Session, bool) {
	return w.sessions.Get(uri)
}

// Open analyses text as the content of uri
func (w *Workspace) Open(ctx context.Context, uri, text string) (*Session, error) {
	s := w.Session(uri)
	return s, s.Open(ctx, text)
}

// Change applies edits to an open document
func (w *Workspace) Change(ctx context.Context, uri string, version int, edits []Edit) (*Session, error) {
	s, ok := w.Lookup(uri)
	if !ok {
		return nil, fmt.Errorf("change %s: document is not open", uri)
	}
	return s, s.Change(ctx, version, edits)
}

// Close cancels the analysis of uri in flight and drops its session
func (w *Workspace) Close(uri string) {
	if s, ok := w.sessions.Peek(uri); ok {
		s.Close()
	}
	w.sessions.Remove(uri)
}

func (w *Workspace) Len() int {
	return w.sessions.Len()
}
