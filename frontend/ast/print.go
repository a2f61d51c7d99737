package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// ExprString renders e in a compact JS-like syntax for logs and messages.
// It is not meant to round-trip.
func ExprString(e Expr) string {
	sb := &strings.Builder{}
	writeExpr(sb, e)
	return sb.String()
}

// RefPath returns the access path of e when e is an identifier or a chain of
// non-computed member accesses on one, like "a.b.c"
func RefPath(e Expr) (string, bool) {
	switch e := e.(type) {
	case *Ident:
		return e.Name, true
	case *This:
		return "this", true
	case *Member:
		if e.Computed() {
			if lit, ok := e.Index.(*StringLit); ok {
				if base, ok := RefPath(e.X); ok {
					return base + "." + lit.Value, true
				}
			}
			return "", false
		}
		base, ok := RefPath(e.X)
		if !ok {
			return "", false
		}
		return base + "." + e.Prop, true
	}
	return "", false
}

func writeExpr(sb *strings.Builder, e Expr) {
	switch e := e.(type) {
	case nil:
		sb.WriteString("<nil>")
	case *Ident:
		sb.WriteString(e.Name)
	case *NumberLit:
		if e.Raw != "" {
			sb.WriteString(e.Raw)
		} else {
			sb.WriteString(strconv.FormatFloat(e.Value, 'g', -1, 64))
		}
	case *StringLit:
		sb.WriteString(strconv.Quote(e.Value))
	case *BoolLit:
		sb.WriteString(strconv.FormatBool(e.Value))
	case *NullLit:
		sb.WriteString("null")
	case *BigIntLit:
		sb.WriteString(e.Raw)
	case *TemplateLit:
		sb.WriteString("`...`")
	case *RegExpLit:
		sb.WriteString("/" + e.Pattern + "/")
	case *This:
		sb.WriteString("this")
	case *ArrayLit:
		sb.WriteString("[")
		for i, el := range e.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			if el != nil {
				writeExpr(sb, el)
			}
		}
		sb.WriteString("]")
	case *ObjectLit:
		sb.WriteString("{")
		for i, p := range e.Props {
			if i > 0 {
				sb.WriteString(", ")
			}
			if p.Kind == PropSpread {
				sb.WriteString("...")
				writeExpr(sb, p.Value)
				continue
			}
			sb.WriteString(p.Key)
			sb.WriteString(": ")
			writeExpr(sb, p.Value)
		}
		sb.WriteString("}")
	case *FuncExpr:
		if e.Name != nil {
			fmt.Fprintf(sb, "function %s(...)", e.Name.Name)
		} else if e.Arrow {
			sb.WriteString("(...) => ...")
		} else {
			sb.WriteString("function(...)")
		}
	case *ClassExpr:
		sb.WriteString("class")
		if e.Name != nil {
			sb.WriteString(" " + e.Name.Name)
		}
	case *Unary:
		sb.WriteString(e.Op)
		if len(e.Op) > 1 {
			sb.WriteString(" ")
		}
		writeGrouped(sb, e.X, precedence(e.X) != 0)
	case *Update:
		if e.Prefix {
			sb.WriteString(e.Op)
		}
		writeExpr(sb, e.X)
		if !e.Prefix {
			sb.WriteString(e.Op)
		}
	case *Binary:
		writeBinary(sb, e.X, e.Op, e.Y)
	case *Logical:
		writeBinary(sb, e.X, e.Op, e.Y)
	case *Assign:
		writeExpr(sb, e.Target)
		sb.WriteString(" " + e.Op + " ")
		writeExpr(sb, e.Value)
	case *Cond:
		writeExpr(sb, e.Test)
		sb.WriteString(" ? ")
		writeExpr(sb, e.Then)
		sb.WriteString(" : ")
		writeExpr(sb, e.Else)
	case *Call:
		writeOperand(sb, e.Callee)
		writeArgs(sb, e.Args)
	case *New:
		sb.WriteString("new ")
		writeOperand(sb, e.Callee)
		writeArgs(sb, e.Args)
	case *Member:
		writeOperand(sb, e.X)
		if e.Computed() {
			sb.WriteString("[")
			writeExpr(sb, e.Index)
			sb.WriteString("]")
		} else {
			sb.WriteString("." + e.Prop)
		}
	case *Seq:
		for i, x := range e.Exprs {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeExpr(sb, x)
		}
	case *TypeCast:
		sb.WriteString("(")
		writeExpr(sb, e.X)
		sb.WriteString(": ...)")
	case *JSXElement:
		fmt.Fprintf(sb, "<%s />", e.Name)
	case *JSXText:
		sb.WriteString(e.Value)
	case *Await:
		sb.WriteString("await ")
		writeExpr(sb, e.X)
	case *Opaque:
		if e.X != nil {
			sb.WriteString("...")
			writeExpr(sb, e.X)
		} else {
			sb.WriteString("<pattern>")
		}
	default:
		fmt.Fprintf(sb, "%T", e)
	}
}

// precedence is the binding power of a binary or logical operator
// expression, lowest for || and ??. Other binary-like expressions that need
// grouping inside one are -1, and everything else is 0.
func precedence(e Expr) int {
	var op string
	switch e := e.(type) {
	case *Binary:
		op = e.Op
	case *Logical:
		op = e.Op
	case *Cond, *Assign, *Seq:
		return -1
	default:
		return 0
	}
	switch op {
	case "||", "??":
		return 1
	case "&&":
		return 2
	case "|":
		return 3
	case "^":
		return 4
	case "&":
		return 5
	case "==", "!=", "===", "!==":
		return 6
	case "<", ">", "<=", ">=", "instanceof", "in":
		return 7
	case "<<", ">>", ">>>":
		return 8
	case "+", "-":
		return 9
	case "*", "/", "%":
		return 10
	}
	return 11
}

// writeBinary groups the operands of x op y that bind looser than op, and
// a right operand of the same precedence
func writeBinary(sb *strings.Builder, x Expr, op string, y Expr) {
	p := precedence(&Binary{Op: op})
	px, py := precedence(x), precedence(y)
	writeGrouped(sb, x, px != 0 && px < p)
	sb.WriteString(" " + op + " ")
	writeGrouped(sb, y, py != 0 && py <= p)
}

func writeGrouped(sb *strings.Builder, e Expr, group bool) {
	if !group {
		writeExpr(sb, e)
		return
	}
	sb.WriteString("(")
	writeExpr(sb, e)
	sb.WriteString(")")
}

// writeOperand writes the receiver of a member access or the callee of a
// call, in parentheses unless it binds tighter than both
func writeOperand(sb *strings.Builder, e Expr) {
	switch e := e.(type) {
	case *Binary, *Logical, *Assign, *Cond, *Seq, *Unary, *Update, *Await:
		sb.WriteString("(")
		writeExpr(sb, e)
		sb.WriteString(")")
	case *FuncExpr:
		if e.Arrow {
			sb.WriteString("(")
			writeExpr(sb, e)
			sb.WriteString(")")
			return
		}
		writeExpr(sb, e)
	default:
		writeExpr(sb, e)
	}
}

func writeArgs(sb *strings.Builder, args []Expr) {
	sb.WriteString("(")
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeExpr(sb, a)
	}
	sb.WriteString(")")
}
