package restrict

import (
	"github.com/mcrl2-go/symbolic/ast"
	"github.com/mcrl2-go/symbolic/errs"
)

// ApplyAlpha dispatches to the pusher matching whichever restriction
// operator sits at the top of p: block,
// hide, allow, and comm each drive their own reduction; every other kind is
// walked structurally so that a restriction nested deeper in the term still
// gets reduced.
func (c *Context) ApplyAlpha(p *ast.Process) (*ast.Process, error) {
	switch p.Kind {
	case ast.ProcBlock:
		return c.PushBlock(p.NameSet, p.Operand)
	case ast.ProcHide:
		return c.PushHide(p.NameSet, p.Operand)
	case ast.ProcAllow:
		sets := allowSetsOf(p)
		return c.PushAllow(sets, p.Operand)
	case ast.ProcComm:
		return c.PushComm(p.CommPairs, p.Operand)

	case ast.ProcDelta, ast.ProcTau, ast.ProcAction, ast.ProcRef, ast.ProcRefAssign:
		return p, nil

	case ast.ProcSum:
		body, err := c.ApplyAlpha(p.Operand)
		if err != nil {
			return nil, err
		}
		return c.Arena.Sum(p.SumVars, body), nil

	case ast.ProcAt:
		body, err := c.ApplyAlpha(p.Operand)
		if err != nil {
			return nil, err
		}
		return c.Arena.At(body, p.Time), nil

	case ast.ProcIfThen:
		then, err := c.ApplyAlpha(p.Left)
		if err != nil {
			return nil, err
		}
		return c.Arena.IfThen(p.Cond, then), nil

	case ast.ProcIfThenElse:
		then, err := c.ApplyAlpha(p.Left)
		if err != nil {
			return nil, err
		}
		els, err := c.ApplyAlpha(p.Right)
		if err != nil {
			return nil, err
		}
		return c.Arena.IfThenElse(p.Cond, then, els), nil

	case ast.ProcSeq, ast.ProcChoice, ast.ProcBoundedInit, ast.ProcSync, ast.ProcMerge, ast.ProcLeftMerge:
		l, err := c.ApplyAlpha(p.Left)
		if err != nil {
			return nil, err
		}
		r, err := c.ApplyAlpha(p.Right)
		if err != nil {
			return nil, err
		}
		return rebuildBinary(c.Arena, p.Kind, l, r), nil

	case ast.ProcRename:
		body, err := c.ApplyAlpha(p.Operand)
		if err != nil {
			return nil, err
		}
		return c.Arena.Rename(p.RenamePairs, body), nil

	default:
		return nil, errs.New(errs.UnknownConstruct, "ApplyAlpha: unhandled process kind %v", p.Kind).WithSubterm(p)
	}
}
