package flow

import (
	"slices"

	"github.com/cottand/flowty/frontend/ast"
	"github.com/cottand/flowty/frontend/scope"
	"github.com/cottand/flowty/frontend/types"
	"github.com/cottand/flowty/util"
	"github.com/hashicorp/go-set/v3"
)

// maxLoopIterations bounds the quiet passes made over a loop body to find
// the state at its head
const maxLoopIterations = 4

func (a *analyzer) stmts(stmts []ast.Stmt, st State) State {
	for _, s := range stmts {
		st = a.stmt(s, st)
	}
	return st
}

// stmt returns the state after s given the state before it
func (a *analyzer) stmt(s ast.Stmt, st State) State {
	if s == nil {
		return st
	}
	if st.Dead() {
		// hoisted functions may still be called from reachable code
		if fd, ok := s.(*ast.FuncDecl); ok {
			a.schedule(fd.Function)
		}
		return st
	}

	switch s := s.(type) {
	case *ast.VarDecl:
		for i := range s.Decls {
			st = a.declarator(&s.Decls[i], st)
		}
	case *ast.FuncDecl:
		a.schedule(s.Function)
		if b, ok := a.graph.Decls[s.Name]; ok {
			a.record(s.Name, a.general(b))
		}
	case *ast.ClassDecl:
		var t types.Type
		t, st = a.class(s.Class, st)
		if b, ok := a.graph.Decls[s.Name]; ok {
			st = st.Set(b, Entry{Type: t, Init: Initialized})
			a.record(s.Name, t)
		}
	case *ast.TypeAlias, *ast.InterfaceDecl, *ast.ImportDecl, *ast.Empty:
	case *ast.ExportDecl:
		st = a.stmt(s.Decl, st)
		if s.Default != nil {
			_, st = a.expr(s.Default, st)
		}
		for _, spec := range s.Specs {
			_, st = a.expr(spec.Local, st)
		}
	case *ast.ExprStmt:
		_, st = a.expr(s.X, st)
	case *ast.Block:
		st = a.stmts(s.Body, st)
	case *ast.If:
		_, tt, ff := a.cond(s.Test, st)
		then := a.stmt(s.Then, tt)
		els := ff
		if s.Else != nil {
			els = a.stmt(s.Else, ff)
		}
		st = Join(then, els)
	case *ast.While:
		st = a.while(s, st)
	case *ast.DoWhile:
		st = a.doWhile(s, st)
	case *ast.For:
		st = a.forLoop(s, st)
	case *ast.ForIn:
		st = a.forEach(s, s.Left, s.Right, s.Body, false, st)
	case *ast.ForOf:
		st = a.forEach(s, s.Left, s.Right, s.Body, true, st)
	case *ast.Switch:
		st = a.switchStmt(s, st)
	case *ast.Labeled:
		st = a.labeled(s, st)
	case *ast.Break:
		t, ok := a.jumpTarget(s.Label, false)
		if !ok {
			return st
		}
		t.breaks = append(t.breaks, st)
		return State{}
	case *ast.Continue:
		t, ok := a.jumpTarget(s.Label, true)
		if !ok {
			return st
		}
		t.continues = append(t.continues, st)
		return State{}
	case *ast.Return:
		t := types.VoidT
		if s.X != nil {
			t, st = a.expr(s.X, st)
		}
		a.checkReturn(a.fn, s.X, t)
		if a.quiet == 0 {
			a.returns = append(a.returns, t)
		}
		return State{}
	case *ast.Throw:
		a.expr(s.X, st)
		return State{}
	case *ast.Try:
		st = a.try(s, st)
	default:
		a.logger.Warn("unhandled statement", "stmt", ast.Slog(s))
	}
	return st
}

// jumpTarget finds the statement a break or continue leaves: the innermost
// one carrying label, or with no label the innermost loop or switch. A jump
// with no target does not end the path.
func (a *analyzer) jumpTarget(label string, cont bool) (*target, bool) {
	for t := range util.Reverse(a.targets.Items()) {
		if cont && !t.loop {
			continue
		}
		if (label == "" && !t.labelled) || (label != "" && slices.Contains(t.labels, label)) {
			return t, true
		}
	}
	a.logger.Debug("jump without target", "label", label)
	return nil, false
}

// labeled runs the body of a labelled statement. Labels on a loop go to the
// loop's own target so continues can name them too.
func (a *analyzer) labeled(s *ast.Labeled, st State) State {
	labels := []string{s.Label}
	body := s.Body
	for inner, ok := body.(*ast.Labeled); ok; inner, ok = body.(*ast.Labeled) {
		labels = append(labels, inner.Label)
		body = inner.Body
	}
	switch body.(type) {
	case *ast.While, *ast.DoWhile, *ast.For, *ast.ForIn, *ast.ForOf:
		a.loopLabels[body] = labels
		return a.stmt(body, st)
	}
	t := &target{node: s, labelled: true, labels: labels}
	a.targets.Push(t)
	st = a.stmt(body, st)
	a.targets.Pop()
	return JoinAll(append(t.breaks, st)...)
}

func (a *analyzer) loopTarget(loop ast.Stmt) *target {
	return &target{node: loop, loop: true, labels: a.loopLabels[loop]}
}

func (a *analyzer) declarator(d *ast.Declarator, st State) State {
	b, ok := a.graph.Decls[d.Name]
	if !ok {
		return st
	}
	if d.Init == nil {
		a.record(d.Name, a.general(b))
		return st
	}
	var t types.Type
	t, st = a.expr(d.Init, st)
	st = a.assign(b, d.Init, t, st)
	if e, ok := st.Get(b); ok {
		a.record(d.Name, e.Type)
	}
	return st
}

// widen forgets what is known about the annotated bindings a loop writes,
// so the head of the loop starts from their annotations
func (a *analyzer) widen(loop ast.Stmt, st State) State {
	for _, b := range a.graph.LoopWrites[loop] {
		e, ok := st.Get(b)
		if !ok || b.Annot == nil {
			continue
		}
		e.Type = a.general(b)
		if e.Init == Uninitialized {
			e.Type = types.EmptyT
		}
		st = st.Set(b, e)
	}
	return st
}

// loopHead finds the state at the head of loop by running iterate quietly
// until joining the back edge adds nothing. iterate returns the state
// flowing back to the head after one iteration.
func (a *analyzer) loopHead(loop ast.Stmt, entry State, iterate func(head State, t *target) State) State {
	head := a.widen(loop, entry)
	for range maxLoopIterations {
		var back State
		a.silently(func() {
			t := a.loopTarget(loop)
			a.targets.Push(t)
			back = iterate(head, t)
			a.targets.Pop()
		})
		next := Join(head, back)
		if next.Equal(head) {
			break
		}
		head = next
	}
	return head
}

// iteration runs one real pass over a loop body from head
func (a *analyzer) iteration(loop ast.Stmt, head State, iterate func(head State, t *target) State) (back State, t *target) {
	t = a.loopTarget(loop)
	a.targets.Push(t)
	back = iterate(head, t)
	a.targets.Pop()
	return back, t
}

func (a *analyzer) while(s *ast.While, st State) State {
	iterate := func(head State, t *target) State {
		_, tt, _ := a.cond(s.Test, head)
		return JoinAll(append(t.continues, a.stmt(s.Body, tt))...)
	}
	head := a.loopHead(s, st, iterate)
	var ff State
	_, t := a.iteration(s, head, func(head State, t *target) State {
		var tt State
		_, tt, ff = a.cond(s.Test, head)
		return a.stmt(s.Body, tt)
	})
	return JoinAll(append(t.breaks, ff)...)
}

// doWhile differs from while in that the body runs before the first test,
// so what it initialises unconditionally is initialised after the loop
func (a *analyzer) doWhile(s *ast.DoWhile, st State) State {
	iterate := func(head State, t *target) State {
		end := JoinAll(append(t.continues, a.stmt(s.Body, head))...)
		_, tt, _ := a.cond(s.Test, end)
		return tt
	}
	head := a.loopHead(s, st, iterate)
	var ff State
	_, t := a.iteration(s, head, func(head State, t *target) State {
		exit := a.stmt(s.Body, head)
		end := JoinAll(append(t.continues, exit)...)
		var tt State
		_, tt, ff = a.cond(s.Test, end)
		return tt
	})
	return JoinAll(append(t.breaks, ff)...)
}

func (a *analyzer) forLoop(s *ast.For, st State) State {
	st = a.stmt(s.Init, st)
	test := func(head State) (tt, ff State) {
		if s.Test == nil {
			return head, State{}
		}
		_, tt, ff = a.cond(s.Test, head)
		return tt, ff
	}
	iterate := func(head State, t *target) State {
		tt, _ := test(head)
		end := JoinAll(append(t.continues, a.stmt(s.Body, tt))...)
		if s.Update != nil {
			_, end = a.expr(s.Update, end)
		}
		return end
	}
	head := a.loopHead(s, st, iterate)
	var ff State
	_, t := a.iteration(s, head, func(head State, t *target) State {
		var tt State
		tt, ff = test(head)
		end := JoinAll(append(t.continues, a.stmt(s.Body, tt))...)
		if s.Update != nil {
			_, end = a.expr(s.Update, end)
		}
		return end
	})
	return JoinAll(append(t.breaks, ff)...)
}

// forEach handles for-in and for-of loops, whose body may run zero times
func (a *analyzer) forEach(loop ast.Stmt, left ast.Stmt, right ast.Expr, body ast.Stmt, of bool, st State) State {
	var rt types.Type
	rt, st = a.expr(right, st)
	elem := types.StringT
	if of {
		elem = elemType(rt)
	}
	iterate := func(head State, t *target) State {
		return JoinAll(append(t.continues, a.stmt(body, a.bindLeft(left, elem, head)))...)
	}
	head := a.loopHead(loop, st, iterate)
	back, t := a.iteration(loop, head, iterate)
	return JoinAll(append(t.breaks, head, back)...)
}

func elemType(t types.Type) types.Type {
	var elems []types.Type
	for _, m := range types.Flatten(t) {
		switch m := m.(type) {
		case types.Array:
			elems = append(elems, m.Elem)
		case types.Prim:
			if m.Kind == types.String {
				elems = append(elems, types.StringT)
			} else {
				elems = append(elems, types.AnyT)
			}
		default:
			elems = append(elems, types.AnyT)
		}
	}
	if len(elems) == 0 {
		return types.AnyT
	}
	return types.NewUnion(elems...)
}

// bindLeft assigns the element of an iteration to the left side of a
// for-in or for-of loop
func (a *analyzer) bindLeft(left ast.Stmt, elem types.Type, st State) State {
	switch left := left.(type) {
	case *ast.VarDecl:
		for _, d := range left.Decls {
			t := elem
			if d.Pattern {
				t = types.AnyT
			}
			if b, ok := a.graph.Decls[d.Name]; ok {
				st = a.assign(b, d.Name, t, st)
				a.record(d.Name, t)
			}
		}
	case *ast.ExprStmt:
		st = a.assignTo(left.X, left.X, elem, st)
	}
	return st
}

func (a *analyzer) switchStmt(s *ast.Switch, st State) State {
	var dt types.Type
	dt, st = a.expr(s.Disc, st)

	t := &target{node: s}
	a.targets.Push(t)
	defer a.targets.Pop()

	covered := set.NewHashSet[types.Type, uint64](len(s.Cases))
	hasDefault := false
	// rest is the state when none of the cases seen so far matched
	rest := st
	var prev State
	for _, c := range s.Cases {
		var entry State
		if c.Test == nil {
			hasDefault = true
			entry = Join(rest, prev)
		} else {
			_, rest = a.expr(c.Test, rest)
			if lit, ok := literalOf(c.Test); ok {
				covered.Insert(lit)
			}
			tt, ff := a.equality(s.Disc, c.Test, true, rest)
			entry = Join(tt, prev)
			rest = ff
		}
		prev = a.stmts(c.Body, entry)
	}

	post := JoinAll(append(t.breaks, prev)...)
	if !hasDefault && !exhaustive(dt, covered) {
		post = Join(post, rest)
	}
	return post
}

// exhaustive reports whether every value of t is one of the covered
// literals
func exhaustive(t types.Type, covered *set.HashSet[types.Type, uint64]) bool {
	members := types.Flatten(t)
	if len(members) == 0 {
		return false
	}
	for _, m := range members {
		lit, ok := m.(types.Literal)
		if !ok || !covered.Contains(lit) {
			return false
		}
	}
	return true
}

func (a *analyzer) try(s *ast.Try, st State) State {
	blockExit := a.stmt(s.Block, st)
	post := blockExit
	// the handler may be entered from any point of the block
	handlerEntry := Join(st, blockExit)
	if s.Handler != nil {
		hs := handlerEntry
		if s.Param != nil {
			if b, ok := a.graph.Decls[s.Param]; ok {
				hs = hs.Set(b, Entry{Type: types.AnyT, Init: Initialized})
				a.record(s.Param, types.AnyT)
			}
		}
		post = Join(post, a.stmt(s.Handler, hs))
	}
	if s.Finalizer == nil {
		return post
	}
	if post.Dead() {
		a.stmt(s.Finalizer, handlerEntry)
		return State{}
	}
	return a.stmt(s.Finalizer, post)
}

// bindingOf returns the binding an identifier refers to or declares
func (a *analyzer) bindingOf(id *ast.Ident) (*scope.Binding, bool) {
	if b, ok := a.graph.Refs[id]; ok {
		return b, true
	}
	b, ok := a.graph.Decls[id]
	return b, ok
}
