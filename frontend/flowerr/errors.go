package flowerr

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/cottand/flowty/frontend/ast"
)

// enableDebugErrorPrinting makes errors include the frame that created them when printed
const enableDebugErrorPrinting bool = false
const enableDebugFullStacktrace bool = false

type ErrCode int

const (
	None ErrCode = iota
	UseBeforeInit
	UseBeforeDeclaration
	PossiblyUninitialized
	InconsistentRedeclaration
	DuplicateBinding
	NotObjectType
	TypeMismatch
	MissingAnnotation
	SignatureVerificationFailure
)

var codeTags = [...]string{
	None:                         "unclassified",
	UseBeforeInit:                "use-before-init",
	UseBeforeDeclaration:         "use-before-declaration",
	PossiblyUninitialized:        "possibly-uninitialized",
	InconsistentRedeclaration:    "inconsistent-redeclaration",
	DuplicateBinding:             "duplicate-binding",
	NotObjectType:                "not-an-object",
	TypeMismatch:                 "incompatible-type",
	MissingAnnotation:            "missing-local-annot",
	SignatureVerificationFailure: "signature-verification-failure",
}

// Tag is the kebab-case name rendered after diagnostics
func (c ErrCode) Tag() string {
	if int(c) < len(codeTags) {
		return codeTags[c]
	}
	return codeTags[None]
}

func (c ErrCode) String() string { return c.Tag() }

// FlowError is a diagnostic about the analysed program. They are reported,
// never returned as Go errors of the analysis itself.
type FlowError interface {
	Error() string
	Code() ErrCode
	ast.Positioner

	withStack([]byte) FlowError
	getStack() []byte
}

func FormatWithCode(e FlowError) string {
	if enableDebugErrorPrinting && e.getStack() != nil {
		stack := string(e.getStack())
		if !enableDebugFullStacktrace {
			if lines := strings.Split(stack, "\n"); len(lines) > 6 {
				stack = lines[6]
			}
		}
		return fmt.Sprintf("%s:(E%03d) %s", stack, e.Code(), e.Error())
	}
	return fmt.Sprintf("(E%03d) %s", e.Code(), e.Error())
}

func New[E FlowError](err E) FlowError {
	return err.withStack(debug.Stack())
}

type Unclassified struct {
	From error
	ast.Positioner
	stack []byte
}

func (e Unclassified) Error() string {
	return fmt.Sprintf("unclassified error: %v", e.From)
}
func (e Unclassified) Code() ErrCode    { return None }
func (e Unclassified) getStack() []byte { return e.stack }
func (e Unclassified) withStack(stack []byte) FlowError {
	e.stack = stack
	return e
}

type NewUseBeforeInit struct {
	ast.Positioner
	Name  string
	stack []byte
}

func (e NewUseBeforeInit) Error() string {
	return fmt.Sprintf("cannot use variable `%s` because it is uninitialized", e.Name)
}
func (e NewUseBeforeInit) Code() ErrCode    { return UseBeforeInit }
func (e NewUseBeforeInit) getStack() []byte { return e.stack }
func (e NewUseBeforeInit) withStack(stack []byte) FlowError {
	e.stack = stack
	return e
}

type NewUseBeforeDeclaration struct {
	ast.Positioner
	Name  string
	Kind  ast.VarKind
	stack []byte
}

func (e NewUseBeforeDeclaration) Error() string {
	return fmt.Sprintf("cannot use `%s` before its %s declaration", e.Name, e.Kind)
}
func (e NewUseBeforeDeclaration) Code() ErrCode    { return UseBeforeDeclaration }
func (e NewUseBeforeDeclaration) getStack() []byte { return e.stack }
func (e NewUseBeforeDeclaration) withStack(stack []byte) FlowError {
	e.stack = stack
	return e
}

type NewPossiblyUninitialized struct {
	ast.Positioner
	Name  string
	stack []byte
}

func (e NewPossiblyUninitialized) Error() string {
	return fmt.Sprintf("variable `%s` is possibly uninitialized", e.Name)
}
func (e NewPossiblyUninitialized) Code() ErrCode    { return PossiblyUninitialized }
func (e NewPossiblyUninitialized) getStack() []byte { return e.stack }
func (e NewPossiblyUninitialized) withStack(stack []byte) FlowError {
	e.stack = stack
	return e
}

type NewInconsistentRedeclaration struct {
	ast.Positioner
	Name  string
	stack []byte
}

func (e NewInconsistentRedeclaration) Error() string {
	return fmt.Sprintf("cannot redeclare `%s` with a type annotation (banned redeclaration)", e.Name)
}
func (e NewInconsistentRedeclaration) Code() ErrCode    { return InconsistentRedeclaration }
func (e NewInconsistentRedeclaration) getStack() []byte { return e.stack }
func (e NewInconsistentRedeclaration) withStack(stack []byte) FlowError {
	e.stack = stack
	return e
}

type NewDuplicateBinding struct {
	ast.Positioner
	Name  string
	stack []byte
}

func (e NewDuplicateBinding) Error() string {
	return fmt.Sprintf("cannot declare `%s` because the name is already bound", e.Name)
}
func (e NewDuplicateBinding) Code() ErrCode    { return DuplicateBinding }
func (e NewDuplicateBinding) getStack() []byte { return e.stack }
func (e NewDuplicateBinding) withStack(stack []byte) FlowError {
	e.stack = stack
	return e
}

type NewNotObjectType struct {
	ast.Positioner
	From  error
	stack []byte
}

func (e NewNotObjectType) Error() string    { return e.From.Error() }
func (e NewNotObjectType) Code() ErrCode    { return NotObjectType }
func (e NewNotObjectType) getStack() []byte { return e.stack }
func (e NewNotObjectType) withStack(stack []byte) FlowError {
	e.stack = stack
	return e
}

// NewTypeMismatch is raised when a value flows into a place that does not
// accept its type, or an operator gets operands it does not accept
type NewTypeMismatch struct {
	ast.Positioner
	// Message takes precedence over Expected and Found when set
	Message  string
	Expected fmt.Stringer
	Found    fmt.Stringer
	stack    []byte
}

func (e NewTypeMismatch) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("type mismatch: '%v' is incompatible with '%v'", e.Found, e.Expected)
}
func (e NewTypeMismatch) Code() ErrCode    { return TypeMismatch }
func (e NewTypeMismatch) getStack() []byte { return e.stack }
func (e NewTypeMismatch) withStack(stack []byte) FlowError {
	e.stack = stack
	return e
}

// NewMissingAnnotation is raised at inference boundaries: Subject is what
// lacks the annotation, like "property `a`", "`p`" or "return"
type NewMissingAnnotation struct {
	ast.Positioner
	Subject string
	stack   []byte
}

func (e NewMissingAnnotation) Error() string {
	return fmt.Sprintf("Missing an annotation on %s.", e.Subject)
}
func (e NewMissingAnnotation) Code() ErrCode    { return MissingAnnotation }
func (e NewMissingAnnotation) getStack() []byte { return e.stack }
func (e NewMissingAnnotation) withStack(stack []byte) FlowError {
	e.stack = stack
	return e
}

type NewSignatureVerificationFailure struct {
	ast.Positioner
	Subject string
	stack   []byte
}

func (e NewSignatureVerificationFailure) Error() string {
	return fmt.Sprintf("Cannot build a typed interface for this module. "+
		"You should annotate the exports of this module with types. Missing type annotation at %s:", e.Subject)
}
func (e NewSignatureVerificationFailure) Code() ErrCode    { return SignatureVerificationFailure }
func (e NewSignatureVerificationFailure) getStack() []byte { return e.stack }
func (e NewSignatureVerificationFailure) withStack(stack []byte) FlowError {
	e.stack = stack
	return e
}
