// Package flow walks a bound module statement by statement, tracking the
// initialisation state and refined type of every binding at each program
// point. It reports the diagnostics of the module and records the type of
// every expression for later queries.
package flow

import (
	"context"
	"log/slog"
	"slices"

	"github.com/cottand/flowty/frontend/ast"
	"github.com/cottand/flowty/frontend/flowerr"
	"github.com/cottand/flowty/frontend/predicate"
	"github.com/cottand/flowty/frontend/scope"
	"github.com/cottand/flowty/frontend/types"
	"github.com/cottand/flowty/internal/log"
	"github.com/cottand/flowty/util"
)

type Options struct {
	// ExactByDefault makes object type annotations written without {| |}
	// or a trailing ... exact
	ExactByDefault bool
}

// target collects the states jumping to the end of a loop, switch or
// labelled statement (breaks) and to the next iteration of a loop
// (continues)
type target struct {
	node ast.Stmt
	loop bool
	// labelled is set on labelled statements other than loops, which only
	// take breaks naming one of their labels
	labelled  bool
	labels    []string
	breaks    []State
	continues []State
}

type analyzer struct {
	ctx    context.Context
	file   *ast.File
	graph  *scope.Graph
	opts   Options
	logger *slog.Logger
	errs   *flowerr.Errors
	res    *Result

	// quiet suppresses diagnostics and type recording while an expression is
	// evaluated a second time, as loop tests are
	quiet int

	// fn is the function whose body is being analysed, nil at module level
	fn      *ast.Function
	returns []types.Type
	targets util.Stack[*target]
	// loopLabels are the labels written before each loop
	loopLabels map[ast.Stmt][]string

	deferred []*ast.Function
	analysed map[*ast.Function]bool

	sigs       map[*ast.Function]*types.Func
	returned   map[*ast.Function]types.Type
	predicates map[*ast.Function]predicate.Predicate

	annotated map[*scope.Binding]types.Type
	assigned  map[*scope.Binding]types.Type

	classes    map[*ast.Class]*types.ClassDef
	classNodes map[*types.ClassDef]*ast.Class
	interfaces map[*ast.InterfaceDecl]*types.InterfaceDef
	aliases    map[ast.Node]types.Type
	resolving  map[ast.Node]bool
	typeParams map[*ast.TypeParam]*types.TypeParam

	closureWritten []*scope.Binding

	// last is the type of each expression the last time it was evaluated,
	// quietly or not
	last map[ast.Expr]types.Type
}

// Analyze runs the flow analysis of file. ctx is checked between top-level
// statements and between function bodies; when it is done the analysis stops
// and its error is returned with no result.
func Analyze(ctx context.Context, file *ast.File, graph *scope.Graph, opts Options) (*Result, error) {
	a := &analyzer{
		ctx:            ctx,
		file:           file,
		graph:          graph,
		opts:           opts,
		logger:         ast.NodeLogger(log.DefaultLogger.With("section", "flow")),
		errs:           &flowerr.Errors{},
		analysed:       map[*ast.Function]bool{},
		sigs:           map[*ast.Function]*types.Func{},
		returned:       map[*ast.Function]types.Type{},
		predicates:     map[*ast.Function]predicate.Predicate{},
		annotated:      map[*scope.Binding]types.Type{},
		assigned:       map[*scope.Binding]types.Type{},
		classes:        map[*ast.Class]*types.ClassDef{},
		classNodes:     map[*types.ClassDef]*ast.Class{},
		last:           map[ast.Expr]types.Type{},
		interfaces:     map[*ast.InterfaceDecl]*types.InterfaceDef{},
		aliases:        map[ast.Node]types.Type{},
		resolving:      map[ast.Node]bool{},
		typeParams:     map[*ast.TypeParam]*types.TypeParam{},
		closureWritten: graph.ClosureWritten(),
		loopLabels:     map[ast.Stmt][]string{},
	}
	a.res = newResult(file, graph)
	a.errs.Merge(graph.Errors)
	for _, p := range file.Problems {
		a.errs.With(flowerr.New(flowerr.Unclassified{From: p, Positioner: p.Range}))
	}

	st := a.enter(nil)
	for _, s := range file.Body {
		if err := ctx.Err(); err != nil {
			a.logger.Debug("analysis cancelled", "file", file.Name)
			return nil, err
		}
		st = a.stmt(s, st)
	}
	if err := a.flush(); err != nil {
		return nil, err
	}
	a.checkExports()
	a.finish()
	a.logger.Debug("analysed module", "file", file.Name, "errors", a.errs)
	return a.res, nil
}

func (a *analyzer) report(err flowerr.FlowError) {
	if a.quiet > 0 {
		return
	}
	a.errs.With(err)
}

func (a *analyzer) record(e ast.Expr, t types.Type) {
	a.last[e] = t
	if a.quiet > 0 {
		return
	}
	a.res.record(e, t)
}

// silently evaluates f with diagnostics and recording suppressed
func (a *analyzer) silently(f func()) {
	a.quiet++
	defer func() { a.quiet-- }()
	f()
}

// enter returns the state at the start of fn's body: parameters, imports,
// and hoisted function declarations are initialised, everything else
// declared in fn is not
func (a *analyzer) enter(fn *ast.Function) State {
	st := NewState()
	for _, b := range a.graph.Bindings {
		if b.Func != fn {
			continue
		}
		switch b.Kind {
		case scope.ParamBinding, scope.ImportBinding, scope.CatchBinding, scope.FunctionBinding:
			st = st.Set(b, Entry{Type: a.general(b), Init: Initialized})
		default:
			st = st.Set(b, Entry{Type: types.EmptyT, Init: Uninitialized})
		}
	}
	return st
}

// flush analyses deferred function bodies until none is left
func (a *analyzer) flush() error {
	for len(a.deferred) > 0 {
		if err := a.ctx.Err(); err != nil {
			return err
		}
		fn := a.deferred[0]
		a.deferred = a.deferred[1:]
		a.body(fn)
	}
	return nil
}

func (a *analyzer) schedule(fn *ast.Function) {
	if fn.Declared || a.analysed[fn] || slices.Contains(a.deferred, fn) {
		return
	}
	a.deferred = append(a.deferred, fn)
}

// body analyses the body of fn once, collecting its return types
func (a *analyzer) body(fn *ast.Function) []types.Type {
	if a.analysed[fn] || fn.Declared {
		return nil
	}
	a.analysed[fn] = true

	outerFn, outerReturns, outerTargets, outerQuiet := a.fn, a.returns, a.targets, a.quiet
	a.fn, a.returns, a.targets, a.quiet = fn, nil, util.Stack[*target]{}, 0
	defer func() {
		a.fn, a.returns, a.targets, a.quiet = outerFn, outerReturns, outerTargets, outerQuiet
	}()

	a.logger.Debug("analysing function", "fn", ast.Slog(fn), "name", funcName(fn))
	st := a.enter(fn)
	for i := range fn.Params {
		st = a.param(&fn.Params[i], st)
	}
	if fn.Rest != nil {
		st = a.param(fn.Rest, st)
	}
	switch {
	case fn.Body != nil:
		st = a.stmts(fn.Body.Body, st)
		if !st.Dead() {
			a.returns = append(a.returns, types.VoidT)
		}
	case fn.ExprBody != nil:
		var t types.Type
		t, _ = a.expr(fn.ExprBody, st)
		a.checkReturn(fn, fn.ExprBody, t)
		a.returns = append(a.returns, t)
	}

	ret := types.NewUnion(a.returns...)
	if len(a.returns) == 0 {
		ret = types.VoidT
	}
	a.returned[fn] = ret
	if sig, ok := a.sigs[fn]; ok && fn.Return == nil && !fn.Async {
		sig.Return = ret
		a.logger.Debug("inferred return type", "fn", funcName(fn), "type", ret)
	}
	return a.returns
}

// param evaluates default values and records the type of parameter names
func (a *analyzer) param(p *ast.Param, st State) State {
	if p.Name == nil {
		if p.Default != nil {
			_, st = a.expr(p.Default, st)
		}
		for _, id := range p.Bound {
			a.record(id, types.AnyT)
		}
		return st
	}
	b, ok := a.graph.Decls[p.Name]
	if !ok {
		return st
	}
	if p.Default != nil {
		var t types.Type
		t, st = a.expr(p.Default, st)
		if p.Annot != nil {
			a.checkFlow(p.Default, t, a.general(b))
		}
	}
	a.record(p.Name, a.general(b))
	return st
}

func funcName(fn *ast.Function) string {
	if fn.Name != nil {
		return fn.Name.Name
	}
	return "<anonymous>"
}

// finish computes the general type of every binding for queries made after
// the analysis
func (a *analyzer) finish() {
	for _, b := range a.graph.Bindings {
		a.res.bindings[b] = a.general(b)
	}
	for _, s := range a.graph.Scopes {
		for _, name := range s.TypeNames() {
			tb, _ := s.Type(name)
			a.res.typeBindings[tb] = a.typeBinding(tb, nil)
		}
	}
	for c, def := range a.classes {
		a.res.classes[c] = def
	}
	a.res.Errors = a.errs
}
