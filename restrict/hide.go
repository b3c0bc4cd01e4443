package restrict

import (
	"github.com/mcrl2-go/symbolic/ast"
	"github.com/mcrl2-go/symbolic/errs"
)

// PushHide implements the hide pusher: symmetric to
// PushBlock, substituting tau instead of delta at an action leaf. For
// block/rename/allow/comm operands it recurses via ApplyAlpha first
// (computing the operand's own reductions) and then wraps with hide,
// rather than driving hide through those operators' own restrictions.
func (c *Context) PushHide(i []string, p *ast.Process) (*ast.Process, error) {
	if len(i) == 0 {
		return p, nil
	}
	switch p.Kind {
	case ast.ProcDelta, ast.ProcTau:
		return p, nil

	case ast.ProcAction:
		if containsName(i, ast.Untype(p.Act)) {
			return c.Arena.TauProc(), nil
		}
		return p, nil

	case ast.ProcRef, ast.ProcRefAssign:
		wrapped, err := c.Arena.Hide(i, p)
		if err != nil {
			return nil, err
		}
		c.cacheHideAlpha(wrapped, p, i)
		return wrapped, nil

	case ast.ProcHide:
		return c.PushHide(unionNames(i, p.NameSet), p.Operand)

	case ast.ProcBlock, ast.ProcRename, ast.ProcAllow, ast.ProcComm:
		reduced, err := c.ApplyAlpha(p)
		if err != nil {
			return nil, err
		}
		wrapped, err := c.Arena.Hide(i, reduced)
		if err != nil {
			return nil, err
		}
		c.cacheHideAlpha(wrapped, reduced, i)
		return wrapped, nil

	case ast.ProcSum:
		body, err := c.PushHide(i, p.Operand)
		if err != nil {
			return nil, err
		}
		return c.Arena.Sum(p.SumVars, body), nil

	case ast.ProcAt:
		body, err := c.PushHide(i, p.Operand)
		if err != nil {
			return nil, err
		}
		return c.Arena.At(body, p.Time), nil

	case ast.ProcIfThen:
		then, err := c.PushHide(i, p.Left)
		if err != nil {
			return nil, err
		}
		return c.Arena.IfThen(p.Cond, then), nil

	case ast.ProcIfThenElse:
		then, err := c.PushHide(i, p.Left)
		if err != nil {
			return nil, err
		}
		els, err := c.PushHide(i, p.Right)
		if err != nil {
			return nil, err
		}
		return c.Arena.IfThenElse(p.Cond, then, els), nil

	case ast.ProcSeq, ast.ProcChoice, ast.ProcBoundedInit, ast.ProcSync, ast.ProcMerge, ast.ProcLeftMerge:
		l, err := c.PushHide(i, p.Left)
		if err != nil {
			return nil, err
		}
		r, err := c.PushHide(i, p.Right)
		if err != nil {
			return nil, err
		}
		return rebuildBinary(c.Arena, p.Kind, l, r), nil

	default:
		return nil, errs.New(errs.UnknownConstruct, "PushHide: unhandled process kind %v", p.Kind).WithSubterm(p)
	}
}
