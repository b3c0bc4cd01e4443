// Package rewriter declares the opaque data-term rewriter interface: a
// semantics-preserving normal-form
// function the translator may call to simplify time-stamps and guard
// conditions, but never requires for correctness.
//
// The JITty rewriter itself is out of scope; this package only
// specifies the contract the core's translate package programs against.
package rewriter

import "github.com/mcrl2-go/symbolic/ast"

// Rewriter reduces a data expression to a semantically equal normal form.
// Implementations live outside this module; the core never assumes a
// particular one is wired in.
type Rewriter interface {
	Rewrite(e ast.DataExpr) ast.DataExpr
}

// Identity is a Rewriter that performs no simplification, used as the
// default when no backend is wired in (tests, and any caller that does not
// need normal forms for correctness).
type Identity struct{}

func (Identity) Rewrite(e ast.DataExpr) ast.DataExpr { return e }
