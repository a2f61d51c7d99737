package types

import (
	"fmt"
)

// OperandError is returned when an operator is applied to operands it does
// not accept. The type returned alongside it is the best-effort result.
type OperandError struct {
	Op          string
	Left, Right Type
}

func (e *OperandError) Error() string {
	if e.Right == nil {
		return fmt.Sprintf("cannot apply '%s' to '%v'", e.Op, e.Left)
	}
	return fmt.Sprintf("cannot apply '%s' to '%v' and '%v'", e.Op, e.Left, e.Right)
}

type operandClass int

const (
	numberLike operandClass = iota
	nullishOrBool
	stringLike
	bigintLike
	unknownOperand
)

func classify(t Type) operandClass {
	switch t := t.(type) {
	case Prim:
		switch t.Kind {
		case Number:
			return numberLike
		case Boolean, Null, Void:
			return nullishOrBool
		case String:
			return stringLike
		case BigInt:
			return bigintLike
		}
	case Literal:
		return classify(t.Base())
	}
	return unknownOperand
}

// Plus types the + operator following JS coercions: numbers, booleans, null
// and undefined add up to a number, a string with a string or a number is a
// string. Any other combination is an error; strings concatenated with
// booleans or nullish values still produce a string.
func Plus(l, r Type) (Type, error) {
	if IsPrim(l, Any) || IsPrim(r, Any) {
		return AnyT, nil
	}
	var results []Type
	failed := false
	for _, lm := range Flatten(l) {
		for _, rm := range Flatten(r) {
			res, ok := plusMembers(lm, rm)
			failed = failed || !ok
			results = append(results, res)
		}
	}
	result := NewUnion(results...)
	if failed {
		return result, &OperandError{Op: "+", Left: l, Right: r}
	}
	return result, nil
}

func plusMembers(l, r Type) (Type, bool) {
	if IsPrim(l, Any) || IsPrim(r, Any) {
		return AnyT, true
	}
	lc, rc := classify(l), classify(r)
	switch {
	case lc == unknownOperand || rc == unknownOperand:
		return AnyT, false
	case lc == stringLike || rc == stringLike:
		other := rc
		if lc != stringLike {
			other = lc
		}
		return StringT, other == stringLike || other == numberLike
	case lc == bigintLike && rc == bigintLike:
		return BigIntT, true
	case lc == bigintLike || rc == bigintLike:
		return AnyT, false
	default:
		return NumberT, true
	}
}

// Arithmetic types the numeric operators other than +
func Arithmetic(op string, l, r Type) (Type, error) {
	if IsPrim(l, Any) || IsPrim(r, Any) {
		return NumberT, nil
	}
	allBigint := true
	ok := true
	for _, t := range append(Flatten(l), Flatten(r)...) {
		c := classify(t)
		allBigint = allBigint && c == bigintLike
		ok = ok && (c == numberLike || c == nullishOrBool || c == bigintLike)
	}
	result := NumberT
	if allBigint {
		result = BigIntT
	}
	if !ok {
		return result, &OperandError{Op: op, Left: l, Right: r}
	}
	return result, nil
}

// Binary returns the type of a non-logical binary expression
func Binary(op string, l, r Type) (Type, error) {
	switch op {
	case "+":
		return Plus(l, r)
	case "-", "*", "/", "%", "**", "<<", ">>", ">>>", "&", "|", "^":
		return Arithmetic(op, l, r)
	case "<", ">", "<=", ">=":
		if IsPrim(l, Mixed) || IsPrim(r, Mixed) {
			return BooleanT, &OperandError{Op: op, Left: l, Right: r}
		}
		return BooleanT, nil
	}
	// equality, in and instanceof
	return BooleanT, nil
}

// UnaryOp returns the type of a unary expression
func UnaryOp(op string, x Type) (Type, error) {
	switch op {
	case "typeof":
		return StringT, nil
	case "!", "delete":
		return BooleanT, nil
	case "void":
		return VoidT, nil
	case "-", "~":
		if IsPrim(x, BigInt) {
			return BigIntT, nil
		}
		fallthrough
	case "+":
		if IsPrim(x, Mixed) {
			return NumberT, &OperandError{Op: op, Left: x}
		}
		return NumberT, nil
	}
	return AnyT, nil
}
