package scope

import (
	"log/slog"

	"github.com/cottand/flowty/frontend/ast"
	"github.com/cottand/flowty/frontend/flowerr"
	"github.com/cottand/flowty/internal/log"
)

type binder struct {
	g      *Graph
	logger *slog.Logger
	// fn is the function whose body is being bound, nil at module level
	fn *ast.Function
	// loops are the loops of fn enclosing the current statement
	loops []ast.Stmt
}

// Bind builds the scope graph of file, resolving every identifier in
// reference position. Problems with declarations are collected in
// Graph.Errors rather than returned.
func Bind(file *ast.File) *Graph {
	g := newGraph()
	b := &binder{g: g, logger: ast.NodeLogger(log.DefaultLogger.With("section", "scope"))}
	mod := g.NewScope(NoScope, ModuleScope, file.Range, nil)
	g.ScopeOf[file] = mod.ID
	b.hoistVars(mod.ID, file.Body)
	b.hoistBlock(mod.ID, file.Body)
	b.stmts(mod.ID, file.Body)
	b.logger.Debug("bound module", "scopes", len(g.Scopes), "bindings", len(g.Bindings), "errors", g.Errors)
	return g
}

func (b *binder) report(err error) {
	if err == nil {
		return
	}
	if fe, ok := err.(flowerr.FlowError); ok {
		b.g.Errors.With(fe)
		return
	}
	b.g.Errors.With(flowerr.New(flowerr.Unclassified{From: err, Positioner: ast.Range{}}))
}

// hoistVars declares the var bindings of a function body in its scope,
// looking into nested blocks but not into nested functions
func (b *binder) hoistVars(fnScope ScopeID, stmts []ast.Stmt) {
	var visit func(s ast.Stmt)
	visitDecl := func(d *ast.VarDecl) {
		if d == nil || d.Kind != ast.Var {
			return
		}
		for i := range d.Decls {
			decl := &d.Decls[i]
			binding, err := b.g.Declare(fnScope, decl.Name.Name, VarBinding, decl.Name.Range)
			b.report(err)
			if binding.Node == nil {
				binding.Node = decl
				binding.Doc = d.Doc
			}
			if decl.Annot != nil {
				if binding.Annot != nil {
					b.report(flowerr.New(flowerr.NewInconsistentRedeclaration{Positioner: decl.Name.Range, Name: decl.Name.Name}))
				} else {
					binding.Annot = decl.Annot
				}
			}
			b.g.Decls[decl.Name] = binding
		}
	}
	visit = func(s ast.Stmt) {
		switch s := s.(type) {
		case *ast.VarDecl:
			visitDecl(s)
		case *ast.ExportDecl:
			if s.Decl != nil {
				visit(s.Decl)
			}
		case *ast.Block:
			for _, inner := range s.Body {
				visit(inner)
			}
		case *ast.If:
			visit(s.Then)
			if s.Else != nil {
				visit(s.Else)
			}
		case *ast.While:
			visit(s.Body)
		case *ast.DoWhile:
			visit(s.Body)
		case *ast.For:
			if d, ok := s.Init.(*ast.VarDecl); ok {
				visitDecl(d)
			}
			visit(s.Body)
		case *ast.ForIn:
			if d, ok := s.Left.(*ast.VarDecl); ok {
				visitDecl(d)
			}
			visit(s.Body)
		case *ast.ForOf:
			if d, ok := s.Left.(*ast.VarDecl); ok {
				visitDecl(d)
			}
			visit(s.Body)
		case *ast.Switch:
			for _, c := range s.Cases {
				for _, inner := range c.Body {
					visit(inner)
				}
			}
		case *ast.Labeled:
			visit(s.Body)
		case *ast.Try:
			visit(s.Block)
			if s.Handler != nil {
				visit(s.Handler)
			}
			if s.Finalizer != nil {
				visit(s.Finalizer)
			}
		}
	}
	for _, s := range stmts {
		visit(s)
	}
}

// hoistBlock declares the lexical bindings, function declarations and types
// of a statement list in scope
func (b *binder) hoistBlock(scope ScopeID, stmts []ast.Stmt) {
	for _, s := range stmts {
		b.hoistStmt(scope, s, false)
	}
}

func (b *binder) hoistStmt(scope ScopeID, s ast.Stmt, exported bool) {
	switch s := s.(type) {
	case *ast.ExportDecl:
		if s.Decl != nil {
			b.hoistStmt(scope, s.Decl, true)
		}
	case *ast.VarDecl:
		if s.Kind == ast.Var {
			for _, d := range s.Decls {
				if binding, ok := b.g.Decls[d.Name]; ok {
					binding.Exported = binding.Exported || exported
				}
			}
			return
		}
		kind := LetBinding
		if s.Kind == ast.Const {
			kind = ConstBinding
		}
		for i := range s.Decls {
			decl := &s.Decls[i]
			binding, err := b.g.Declare(scope, decl.Name.Name, kind, decl.Name.Range)
			b.report(err)
			if err == nil {
				binding.Node = decl
				binding.Annot = decl.Annot
				binding.Doc = s.Doc
				binding.Exported = exported
			}
			b.g.Decls[decl.Name] = binding
		}
	case *ast.FuncDecl:
		binding, err := b.g.Declare(scope, s.Name.Name, FunctionBinding, s.Name.Range)
		b.report(err)
		if binding.Node == nil || binding.Kind == VarBinding {
			binding.Node = s
			binding.Doc = s.Doc
		}
		binding.Kind = FunctionBinding
		binding.Exported = binding.Exported || exported
		b.g.Decls[s.Name] = binding
		b.g.FuncOf[s.Function] = binding
	case *ast.ClassDecl:
		binding, err := b.g.Declare(scope, s.Name.Name, ClassBinding, s.Name.Range)
		b.report(err)
		if err == nil {
			binding.Node = s
			binding.Doc = s.Doc
			binding.Exported = exported
		}
		b.g.Decls[s.Name] = binding
		tb, err := b.g.DeclareType(scope, s.Name.Name, ClassType, s, s.Name.Range)
		b.report(err)
		tb.Value = binding
		tb.Doc = s.Doc
	case *ast.TypeAlias:
		kind := AliasType
		if s.Opaque {
			kind = OpaqueType
		}
		tb, err := b.g.DeclareType(scope, s.Name.Name, kind, s, s.Name.Range)
		b.report(err)
		tb.Doc = s.Doc
	case *ast.InterfaceDecl:
		tb, err := b.g.DeclareType(scope, s.Name.Name, InterfaceType, s, s.Name.Range)
		b.report(err)
		tb.Doc = s.Doc
	case *ast.ImportDecl:
		for i := range s.Specs {
			spec := &s.Specs[i]
			typeOnly := s.TypeOnly || spec.TypeOnly
			var value *Binding
			if !typeOnly {
				binding, err := b.g.Declare(scope, spec.Local.Name, ImportBinding, spec.Local.Range)
				b.report(err)
				binding.Node = spec
				binding.Writes = 1
				b.g.Decls[spec.Local] = binding
				value = binding
			}
			kind := ImportedType
			if spec.Kind == ast.ImportNamespace {
				kind = ModuleNamespace
			}
			tb, err := b.g.DeclareType(scope, spec.Local.Name, kind, spec, spec.Local.Range)
			if typeOnly {
				b.report(err)
			}
			tb.Value = value
		}
	}
}

func (b *binder) stmts(scope ScopeID, stmts []ast.Stmt) {
	for _, s := range stmts {
		b.stmt(scope, s)
	}
}

func (b *binder) block(parent ScopeID, node ast.Node, r ast.Range, body []ast.Stmt) ScopeID {
	s := b.g.NewScope(parent, BlockScope, r, nil)
	b.g.ScopeOf[node] = s.ID
	b.hoistBlock(s.ID, body)
	b.stmts(s.ID, body)
	return s.ID
}

func (b *binder) stmt(scope ScopeID, s ast.Stmt) {
	switch s := s.(type) {
	case nil:
	case *ast.VarDecl:
		for i := range s.Decls {
			decl := &s.Decls[i]
			if s.Kind == ast.Var {
				b.varClash(scope, decl.Name)
			}
			b.annot(scope, decl.Annot)
			if decl.Init != nil {
				b.expr(scope, decl.Init)
				if binding, ok := b.g.Decls[decl.Name]; ok {
					b.write(binding)
					if fe, isFn := decl.Init.(*ast.FuncExpr); isFn && s.Kind == ast.Const {
						b.g.FuncOf[fe.Function] = binding
					}
				}
			}
		}
	case *ast.FuncDecl:
		b.function(scope, s.Function, nil)
	case *ast.ClassDecl:
		b.class(scope, s.Class)
	case *ast.TypeAlias:
		b.annot(scope, s.Type)
	case *ast.InterfaceDecl:
		if s.Body != nil {
			b.annot(scope, s.Body)
		}
	case *ast.ImportDecl:
	case *ast.ExportDecl:
		if s.Decl != nil {
			b.stmt(scope, s.Decl)
		}
		if s.Default != nil {
			b.expr(scope, s.Default)
		}
		for _, spec := range s.Specs {
			b.ref(scope, spec.Local)
			if binding, ok := b.g.Refs[spec.Local]; ok {
				binding.Exported = true
			}
		}
	case *ast.ExprStmt:
		b.expr(scope, s.X)
	case *ast.Block:
		b.block(scope, s, s.Range, s.Body)
	case *ast.If:
		b.expr(scope, s.Test)
		b.stmt(scope, s.Then)
		b.stmt(scope, s.Else)
	case *ast.While:
		b.expr(scope, s.Test)
		b.loop(s, func() { b.stmt(scope, s.Body) })
	case *ast.DoWhile:
		b.loop(s, func() { b.stmt(scope, s.Body) })
		b.expr(scope, s.Test)
	case *ast.For:
		inner := b.g.NewScope(scope, BlockScope, s.Range, nil)
		b.g.ScopeOf[s] = inner.ID
		if s.Init != nil {
			b.hoistStmt(inner.ID, s.Init, false)
			b.stmt(inner.ID, s.Init)
		}
		b.expr(inner.ID, s.Test)
		b.loop(s, func() {
			b.stmt(inner.ID, s.Body)
			b.expr(inner.ID, s.Update)
		})
	case *ast.ForIn:
		b.forEach(scope, s, s.Left, s.Right, s.Body)
	case *ast.ForOf:
		b.forEach(scope, s, s.Left, s.Right, s.Body)
	case *ast.Switch:
		b.expr(scope, s.Disc)
		inner := b.g.NewScope(scope, BlockScope, s.Range, nil)
		b.g.ScopeOf[s] = inner.ID
		for _, c := range s.Cases {
			b.hoistBlock(inner.ID, c.Body)
		}
		for _, c := range s.Cases {
			b.expr(inner.ID, c.Test)
			b.stmts(inner.ID, c.Body)
		}
	case *ast.Return:
		b.expr(scope, s.X)
	case *ast.Throw:
		b.expr(scope, s.X)
	case *ast.Try:
		b.block(scope, s.Block, s.Block.Range, s.Block.Body)
		if s.Handler != nil {
			inner := b.g.NewScope(scope, BlockScope, s.Handler.Range, nil)
			b.g.ScopeOf[s] = inner.ID
			b.g.ScopeOf[s.Handler] = inner.ID
			if s.Param != nil {
				binding, err := b.g.Declare(inner.ID, s.Param.Name, CatchBinding, s.Param.Range)
				b.report(err)
				binding.Node = s
				binding.Writes = 1
				b.g.Decls[s.Param] = binding
			}
			b.hoistBlock(inner.ID, s.Handler.Body)
			b.stmts(inner.ID, s.Handler.Body)
		}
		if s.Finalizer != nil {
			b.block(scope, s.Finalizer, s.Finalizer.Range, s.Finalizer.Body)
		}
	case *ast.Labeled:
		b.stmt(scope, s.Body)
	case *ast.Break, *ast.Continue, *ast.Empty:
	}
}

// varClash reports a var declared inside a block that has a lexical binding
// of the same name. The var itself lives in the function scope, where
// Declare cannot see the block.
func (b *binder) varClash(scope ScopeID, name *ast.Ident) {
	for id := scope; id != NoScope; id = b.g.Scopes[id].Parent {
		s := b.g.Scopes[id]
		if s.Kind == FunctionScope || s.Kind == ModuleScope {
			return
		}
		if prev, ok := s.values[name.Name]; ok && prev.Kind != CatchBinding {
			b.report(flowerr.New(flowerr.NewDuplicateBinding{Positioner: name.Range, Name: name.Name}))
			return
		}
	}
}

func (b *binder) forEach(scope ScopeID, loop ast.Stmt, left ast.Stmt, right ast.Expr, body ast.Stmt) {
	b.expr(scope, right)
	inner := b.g.NewScope(scope, BlockScope, ast.RangeOf(loop), nil)
	b.g.ScopeOf[loop] = inner.ID
	b.hoistStmt(inner.ID, left, false)
	b.loop(loop, func() {
		switch left := left.(type) {
		case *ast.VarDecl:
			for _, d := range left.Decls {
				if binding, ok := b.g.Decls[d.Name]; ok {
					b.write(binding)
				}
			}
		case *ast.ExprStmt:
			b.target(inner.ID, left.X)
		}
		b.stmt(inner.ID, body)
	})
}

func (b *binder) loop(s ast.Stmt, body func()) {
	b.loops = append(b.loops, s)
	body()
	b.loops = b.loops[:len(b.loops)-1]
}

func (b *binder) function(scope ScopeID, fn *ast.Function, class *ast.Class) {
	fs := b.g.NewScope(scope, FunctionScope, fn.Range, fn)
	fs.Class = class
	b.g.ScopeOf[fn] = fs.ID

	outerFn, outerLoops := b.fn, b.loops
	b.fn, b.loops = fn, nil
	defer func() { b.fn, b.loops = outerFn, outerLoops }()

	for i := range fn.TypeParams {
		tp := &fn.TypeParams[i]
		_, err := b.g.DeclareType(fs.ID, tp.Name, TypeParamType, tp, tp.Range)
		b.report(err)
		b.annot(fs.ID, tp.Bound)
	}
	declareParam := func(p *ast.Param) {
		for _, id := range p.Bound {
			binding, err := b.g.Declare(fs.ID, id.Name, ParamBinding, id.Range)
			b.report(err)
			binding.Node = p
			binding.Writes = 1
			b.g.Decls[id] = binding
		}
		if p.Name == nil {
			b.annot(fs.ID, p.Annot)
			b.expr(fs.ID, p.Default)
			return
		}
		binding, err := b.g.Declare(fs.ID, p.Name.Name, ParamBinding, p.Name.Range)
		b.report(err)
		binding.Node = p
		binding.Annot = p.Annot
		binding.Writes = 1
		b.g.Decls[p.Name] = binding
		b.annot(fs.ID, p.Annot)
		if p.Default != nil {
			b.expr(fs.ID, p.Default)
		}
	}
	for i := range fn.Params {
		declareParam(&fn.Params[i])
	}
	if fn.Rest != nil {
		declareParam(fn.Rest)
	}
	b.annot(fs.ID, fn.Return)
	if fn.Checks != nil && fn.Checks.Expr != nil {
		b.expr(fs.ID, fn.Checks.Expr)
	}
	if fn.Body != nil {
		b.hoistVars(fs.ID, fn.Body.Body)
		b.hoistBlock(fs.ID, fn.Body.Body)
		b.g.ScopeOf[fn.Body] = fs.ID
		b.stmts(fs.ID, fn.Body.Body)
	}
	if fn.ExprBody != nil {
		b.expr(fs.ID, fn.ExprBody)
	}
}

func (b *binder) class(scope ScopeID, cls *ast.Class) {
	b.expr(scope, cls.Super)
	for _, impl := range cls.Implements {
		b.annot(scope, impl)
	}
	cs := b.g.NewScope(scope, ClassScope, cls.Range, nil)
	cs.Class = cls
	b.g.ScopeOf[cls] = cs.ID
	for i := range cls.TypeParams {
		tp := &cls.TypeParams[i]
		_, err := b.g.DeclareType(cs.ID, tp.Name, TypeParamType, tp, tp.Range)
		b.report(err)
	}
	for _, m := range cls.Members {
		b.annot(cs.ID, m.Annot)
		if m.Value != nil {
			b.expr(cs.ID, m.Value)
		}
		if m.Func != nil {
			b.function(cs.ID, m.Func, cls)
		}
	}
}

// annot resolves the value references inside type annotations, which only
// `typeof x` has
func (b *binder) annot(scope ScopeID, t ast.TypeAnnot) {
	if t == nil {
		return
	}
	ast.Inspect(t, func(n ast.Node) bool {
		if to, ok := n.(*ast.TypeofType); ok && to.X != nil {
			b.ref(scope, to.X)
			return false
		}
		return n != nil
	})
}

func (b *binder) ref(scope ScopeID, id *ast.Ident) {
	binding, ok := b.g.Lookup(scope, id.Name)
	if !ok {
		return
	}
	b.g.Refs[id] = binding
	if binding.Kind.Lexical() && binding.Func == b.fn && id.Pos() < binding.Decl.Pos() {
		b.g.EarlyRefs[id] = true
		b.report(flowerr.New(flowerr.NewUseBeforeDeclaration{
			Positioner: id.Range,
			Name:       id.Name,
			Kind:       declKind(binding.Kind),
		}))
	}
}

func declKind(k BindingKind) ast.VarKind {
	if k == ConstBinding {
		return ast.Const
	}
	return ast.Let
}

func (b *binder) write(binding *Binding) {
	binding.Writes++
	if binding.Func != b.fn {
		binding.ClosureWritten = true
		return
	}
	for _, l := range b.loops {
		writes := b.g.LoopWrites[l]
		found := false
		for _, w := range writes {
			found = found || w == binding
		}
		if !found {
			b.g.LoopWrites[l] = append(writes, binding)
		}
	}
}

// target binds the left hand side of an assignment
func (b *binder) target(scope ScopeID, e ast.Expr) {
	if id, ok := e.(*ast.Ident); ok {
		b.ref(scope, id)
		if binding, found := b.g.Refs[id]; found {
			b.write(binding)
		}
		return
	}
	b.expr(scope, e)
}

func (b *binder) expr(scope ScopeID, e ast.Expr) {
	switch e := e.(type) {
	case nil:
	case *ast.Ident:
		b.ref(scope, e)
	case *ast.FuncExpr:
		if e.Name != nil {
			// the name of a function expression is only visible in its body
			named := b.g.NewScope(scope, BlockScope, e.Range, nil)
			binding, _ := b.g.Declare(named.ID, e.Name.Name, FunctionBinding, e.Name.Range)
			binding.Node = e
			binding.Writes = 1
			b.g.Decls[e.Name] = binding
			b.g.FuncOf[e.Function] = binding
			scope = named.ID
		}
		b.function(scope, e.Function, nil)
	case *ast.ClassExpr:
		b.class(scope, e.Class)
	case *ast.Assign:
		b.expr(scope, e.Value)
		b.target(scope, e.Target)
	case *ast.Update:
		b.target(scope, e.X)
	case *ast.Opaque:
		b.expr(scope, e.X)
		for _, id := range e.Bound {
			b.target(scope, id)
		}
	case *ast.ObjectLit:
		for _, p := range e.Props {
			b.expr(scope, p.KeyExpr)
			b.expr(scope, p.Value)
		}
	case *ast.TypeCast:
		b.expr(scope, e.X)
		b.annot(scope, e.Type)
	case *ast.JSXElement:
		for _, a := range e.Attrs {
			b.expr(scope, a.Value)
			b.expr(scope, a.Spread)
		}
		for _, c := range e.Children {
			b.expr(scope, c)
		}
	default:
		for _, c := range ast.Children(e) {
			if ce, ok := c.(ast.Expr); ok {
				b.expr(scope, ce)
			}
		}
	}
}
