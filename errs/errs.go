// Package errs defines the error taxonomy shared by every core component of
// the symbolic engine (alphabet reduction, restriction pushing, equation
// classification, and the modal-to-PBES translator).
//
// Every error carries a short technical Error() message and, where it is
// useful to report to an operator, the offending subterm. Errors are typed
// so that callers can use errors.As to recover the specific kind without
// string matching.
package errs

import "fmt"

// Kind distinguishes the entries of the error taxonomy.
type Kind int

const (
	// MalformedInput means the AST violates a data-model invariant.
	MalformedInput Kind = iota
	// NonMonotonousFormula means the translator was given a formula with a
	// negation that cannot legally be pushed to a propositional variable.
	NonMonotonousFormula
	// UnknownConstruct means a traversal encountered an AST variant that is
	// not handled; this is always an implementation bug.
	UnknownConstruct
	// AlphabetNotConverged means the fixed-point iteration in the alphabet
	// driver exceeded its configured iteration limit.
	AlphabetNotConverged
	// NPCRLPatternRejected means an equation looked like the n-parallel
	// template but failed to match it exactly.
	NPCRLPatternRejected
	// AllowRestrictsReachable means a pCRL equation's reachable alphabet has
	// actions forbidden by a surrounding allow.
	AllowRestrictsReachable
	// EvaluationFailure means n-parallel expansion needed a Pos constant
	// that could not be resolved from the data specification.
	EvaluationFailure
)

func (k Kind) String() string {
	switch k {
	case MalformedInput:
		return "MalformedInput"
	case NonMonotonousFormula:
		return "NonMonotonousFormula"
	case UnknownConstruct:
		return "UnknownConstruct"
	case AlphabetNotConverged:
		return "AlphabetNotConverged"
	case NPCRLPatternRejected:
		return "NPCRLPatternRejected"
	case AllowRestrictsReachable:
		return "AllowRestrictsReachable"
	case EvaluationFailure:
		return "EvaluationFailure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the concrete error type produced by the core. Subterm is whatever
// value (a *ast.Process, *ast.StateFormula, etc.) triggered the error; it is
// carried as any so that errs does not need to import ast.
type Error struct {
	kind    Kind
	msg     string
	subterm any
	wrapped error
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.wrapped
}

// Kind returns the taxonomy entry this error belongs to.
func (e *Error) Kind() Kind {
	return e.kind
}

// Subterm returns the offending subterm, or nil if none was attached.
func (e *Error) Subterm() any {
	return e.subterm
}

// New creates an Error of the given kind with a formatted message.
func New(k Kind, format string, a ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf("%s: %s", k, fmt.Sprintf(format, a...))}
}

// WithSubterm attaches a subterm to an error for diagnostics.
func (e *Error) WithSubterm(s any) *Error {
	e.subterm = s
	return e
}

// Wrap creates an Error of the given kind that wraps a lower-level cause.
func Wrap(k Kind, cause error, format string, a ...any) *Error {
	e := New(k, format, a...)
	e.wrapped = cause
	return e
}

// Is reports whether err is an *Error of kind k, unwrapping as needed.
func Is(err error, k Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if e.kind == k {
				return true
			}
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
