package flow

import (
	"fmt"
	"strings"

	"github.com/benbjohnson/immutable"
	"github.com/cottand/flowty/frontend/scope"
	"github.com/cottand/flowty/frontend/types"
)

type InitStatus int

const (
	Uninitialized InitStatus = iota
	MaybeInitialized
	Initialized
)

func (s InitStatus) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case MaybeInitialized:
		return "maybe initialized"
	default:
		return "uninitialized"
	}
}

func joinStatus(a, b InitStatus) InitStatus {
	if a == b {
		return a
	}
	return MaybeInitialized
}

// Entry is what is known about a binding at a program point
type Entry struct {
	Type types.Type
	Init InitStatus
}

func (e Entry) String() string { return fmt.Sprintf("%v (%v)", e.Type, e.Init) }

func joinEntry(a, b Entry) Entry {
	return Entry{Type: types.NewUnion(a.Type, b.Type), Init: joinStatus(a.Init, b.Init)}
}

type bindingHasher struct{}

func (bindingHasher) Hash(b *scope.Binding) uint32 {
	return uint32(b.ID) * 2654435761
}

func (bindingHasher) Equal(a, b *scope.Binding) bool { return a == b }

// State is the persistent flow state at a program point. Forks are cheap:
// every update returns a new State sharing structure with the old one.
//
// The zero State is dead: it describes a point control never reaches, after
// a return or a break.
type State struct {
	vars *immutable.Map[*scope.Binding, Entry]
	// paths holds refinements of property reads like `z.f`, keyed by the
	// dotted path
	paths *immutable.Map[string, types.Type]
}

// NewState returns an empty live state
func NewState() State {
	return State{
		vars:  immutable.NewMap[*scope.Binding, Entry](bindingHasher{}),
		paths: immutable.NewMap[string, types.Type](nil),
	}
}

// Dead reports whether the program point is unreachable
func (s State) Dead() bool { return s.vars == nil }

func (s State) Get(b *scope.Binding) (Entry, bool) {
	if s.Dead() {
		return Entry{}, false
	}
	return s.vars.Get(b)
}

func (s State) Set(b *scope.Binding, e Entry) State {
	if s.Dead() {
		return s
	}
	return State{vars: s.vars.Set(b, e), paths: s.paths}
}

// Refine changes the type of b while keeping its initialisation status
func (s State) Refine(b *scope.Binding, t types.Type, general types.Type) State {
	e, ok := s.Get(b)
	if !ok {
		e = Entry{Type: general, Init: Initialized}
	}
	e.Type = t
	return s.Set(b, e)
}

func (s State) Path(path string) (types.Type, bool) {
	if s.Dead() {
		return nil, false
	}
	return s.paths.Get(path)
}

// SetPath refines path to t, forgetting the refinements of longer paths
// through it
func (s State) SetPath(path string, t types.Type) State {
	if s.Dead() {
		return s
	}
	return State{vars: s.vars, paths: s.ForgetPath(path).paths.Set(path, t)}
}

// ForgetPath drops the refinements of every path starting at path
func (s State) ForgetPath(path string) State {
	if s.Dead() {
		return s
	}
	paths := s.paths
	itr := s.paths.Iterator()
	for !itr.Done() {
		k, _, _ := itr.Next()
		if k == path || strings.HasPrefix(k, path+".") {
			paths = paths.Delete(k)
		}
	}
	return State{vars: s.vars, paths: paths}
}

// ForgetPaths drops every property refinement, as calls may write any
// object
func (s State) ForgetPaths() State {
	if s.Dead() || s.paths.Len() == 0 {
		return s
	}
	return State{vars: s.vars, paths: immutable.NewMap[string, types.Type](nil)}
}

// Join merges the states of two converging paths. Bindings and paths known
// on only one side are dropped, which reverts them to their general type.
func Join(a, b State) State {
	switch {
	case a.Dead():
		return b
	case b.Dead():
		return a
	}
	vars := immutable.NewMap[*scope.Binding, Entry](bindingHasher{})
	itr := a.vars.Iterator()
	for !itr.Done() {
		binding, ea, _ := itr.Next()
		if eb, ok := b.vars.Get(binding); ok {
			vars = vars.Set(binding, joinEntry(ea, eb))
		}
	}
	paths := immutable.NewMap[string, types.Type](nil)
	pitr := a.paths.Iterator()
	for !pitr.Done() {
		path, ta, _ := pitr.Next()
		if tb, ok := b.paths.Get(path); ok {
			paths = paths.Set(path, types.NewUnion(ta, tb))
		}
	}
	return State{vars: vars, paths: paths}
}

// JoinAll folds Join over states
func JoinAll(states ...State) State {
	var out State
	for _, s := range states {
		out = Join(out, s)
	}
	return out
}

// Equal reports whether both states hold the same entries
func (s State) Equal(other State) bool {
	if s.Dead() || other.Dead() {
		return s.Dead() == other.Dead()
	}
	if s.vars.Len() != other.vars.Len() || s.paths.Len() != other.paths.Len() {
		return false
	}
	itr := s.vars.Iterator()
	for !itr.Done() {
		b, e, _ := itr.Next()
		oe, ok := other.vars.Get(b)
		if !ok || oe.Init != e.Init || !types.Equal(oe.Type, e.Type) {
			return false
		}
	}
	pitr := s.paths.Iterator()
	for !pitr.Done() {
		p, t, _ := pitr.Next()
		ot, ok := other.paths.Get(p)
		if !ok || !types.Equal(ot, t) {
			return false
		}
	}
	return true
}
