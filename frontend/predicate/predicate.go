// Package predicate holds the refinement predicates that %checks functions
// establish about their parameters. Predicates are plain values: parameters
// are referred to by position so a predicate can be applied at any call site.
package predicate

import (
	"fmt"
	"strconv"
)

type Predicate interface {
	fmt.Stringer
	// Format renders the predicate using the given parameter names
	Format(names []string) string
	// Args returns the parameter positions the predicate refines
	Args() []int
	isPredicate()
}

var (
	_ Predicate = Truthy{}
	_ Predicate = TypeOf{}
	_ Predicate = NullCheck{}
	_ Predicate = Custom{}
	_ Predicate = And{}
	_ Predicate = Or{}
	_ Predicate = Not{}
)

// Truthy holds when the argument is truthy
type Truthy struct {
	Arg int
}

// TypeOf holds when typeof the argument evaluates to Tag
type TypeOf struct {
	Arg int
	Tag string
}

type Nullish int

const (
	IsNull Nullish = iota
	IsUndefined
)

// NullCheck holds when the argument is null or undefined. A Loose check
// (== null) accepts both regardless of Value.
type NullCheck struct {
	Arg   int
	Value Nullish
	Loose bool
}

// Custom is a call to another predicate function. Params[i] is the position
// in the enclosing function of the value passed as the callee's i-th
// parameter, and Body is the callee's own predicate.
type Custom struct {
	Name   string
	Params []int
	Body   Predicate
}

type And struct {
	L, R Predicate
}

type Or struct {
	L, R Predicate
}

type Not struct {
	P Predicate
}

// Negate returns the negation of p, collapsing double negations
func Negate(p Predicate) Predicate {
	if n, ok := p.(Not); ok {
		return n.P
	}
	return Not{p}
}

func (Truthy) isPredicate()    {}
func (TypeOf) isPredicate()    {}
func (NullCheck) isPredicate() {}
func (Custom) isPredicate()    {}
func (And) isPredicate()       {}
func (Or) isPredicate()        {}
func (Not) isPredicate()       {}

func (p Truthy) Args() []int    { return []int{p.Arg} }
func (p TypeOf) Args() []int    { return []int{p.Arg} }
func (p NullCheck) Args() []int { return []int{p.Arg} }
func (p Custom) Args() []int    { return p.Params }
func (p And) Args() []int       { return union(p.L.Args(), p.R.Args()) }
func (p Or) Args() []int        { return union(p.L.Args(), p.R.Args()) }
func (p Not) Args() []int       { return p.P.Args() }

func union(a, b []int) []int {
	out := append([]int(nil), a...)
outer:
	for _, x := range b {
		for _, y := range out {
			if x == y {
				continue outer
			}
		}
		out = append(out, x)
	}
	return out
}

func argName(i int, names []string) string {
	if i < len(names) && names[i] != "" {
		return names[i]
	}
	return "$" + strconv.Itoa(i)
}

func (p Truthy) String() string    { return p.Format(nil) }
func (p TypeOf) String() string    { return p.Format(nil) }
func (p NullCheck) String() string { return p.Format(nil) }
func (p Custom) String() string    { return p.Format(nil) }
func (p And) String() string       { return p.Format(nil) }
func (p Or) String() string        { return p.Format(nil) }
func (p Not) String() string       { return p.Format(nil) }

func (p Truthy) Format(names []string) string { return argName(p.Arg, names) }

func (p TypeOf) Format(names []string) string {
	return fmt.Sprintf("typeof %s === %q", argName(p.Arg, names), p.Tag)
}

func (p NullCheck) Format(names []string) string {
	op, val := "===", "null"
	if p.Loose {
		op = "=="
	}
	if p.Value == IsUndefined {
		val = "undefined"
	}
	return fmt.Sprintf("%s %s %s", argName(p.Arg, names), op, val)
}

func (p Custom) Format(names []string) string {
	s := p.Name + "("
	for i, a := range p.Params {
		if i > 0 {
			s += ", "
		}
		s += argName(a, names)
	}
	return s + ")"
}

func (p And) Format(names []string) string {
	return fmt.Sprintf("(%s && %s)", p.L.Format(names), p.R.Format(names))
}

func (p Or) Format(names []string) string {
	return fmt.Sprintf("(%s || %s)", p.L.Format(names), p.R.Format(names))
}

func (p Not) Format(names []string) string {
	return "!" + p.P.Format(names)
}
