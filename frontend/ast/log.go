package ast

import (
	"context"
	"log/slog"
)

// Slog wraps a Node as a slog.LogValuer to not render expression strings
// unless they definitely need to be logged
func Slog(n Node) slog.LogValuer {
	return nodeLogValuer{n}
}

type nodeLogValuer struct{ Node }

func (l nodeLogValuer) LogValue() slog.Value {
	if e, ok := l.Node.(Expr); ok {
		return slog.StringValue(ExprString(e))
	}
	return slog.GroupValue(
		slog.String("node", nodeName(l.Node)),
		slog.Int("pos", int(l.Pos())),
		slog.Int("end", int(l.End())),
	)
}

func nodeName(n Node) string {
	switch n.(type) {
	case *VarDecl:
		return "var"
	case *FuncDecl:
		return "function"
	case *ClassDecl:
		return "class"
	case *If:
		return "if"
	case *Switch:
		return "switch"
	case *Return:
		return "return"
	case *While, *DoWhile, *For, *ForIn, *ForOf:
		return "loop"
	case *Block:
		return "block"
	}
	return "stmt"
}

// NodeHandler is a slog.Handler capable of lazy-printing syntax trees
func NodeHandler(underlying slog.Handler) slog.Handler {
	return &nodeLogHandler{underlying: underlying}
}

func NodeLogger(underlying *slog.Logger) *slog.Logger {
	return slog.New(NodeHandler(underlying.Handler()))
}

type nodeLogHandler struct {
	underlying slog.Handler
}

func (l *nodeLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return l.underlying.Enabled(ctx, level)
}

func (l *nodeLogHandler) Handle(ctx context.Context, record slog.Record) error {
	newRecord := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	// for each attr, add it wrapped in Slog if it is an Any and then a Node
	record.Attrs(func(attr slog.Attr) bool {
		newRecord.Add(wrapNode(attr))
		return true
	})
	return l.underlying.Handle(ctx, newRecord)
}

func (l *nodeLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	for i, attr := range attrs {
		attrs[i] = wrapNode(attr)
	}
	return NodeHandler(l.underlying.WithAttrs(attrs))
}

func (l *nodeLogHandler) WithGroup(name string) slog.Handler {
	return NodeHandler(l.underlying.WithGroup(name))
}

func wrapNode(attr slog.Attr) slog.Attr {
	if attr.Value.Kind() == slog.KindAny {
		if asNode, isNode := attr.Value.Any().(Node); isNode {
			attr.Value = slog.AnyValue(Slog(asNode))
		}
	}
	return attr
}
