package restrict

import (
	"github.com/mcrl2-go/symbolic/alphabet"
	"github.com/mcrl2-go/symbolic/ast"
	"github.com/mcrl2-go/symbolic/errs"
)

// PushBlock implements the block pusher: it drives block(H,
// P) inward case by case over the shape of P.
func (c *Context) PushBlock(h []string, p *ast.Process) (*ast.Process, error) {
	if len(h) == 0 {
		return p, nil
	}
	switch p.Kind {
	case ast.ProcDelta, ast.ProcTau:
		return p, nil

	case ast.ProcAction:
		if containsName(h, ast.Untype(p.Act)) {
			return c.Arena.Delta(), nil
		}
		return p, nil

	case ast.ProcRef, ast.ProcRefAssign:
		wrapped, err := c.Arena.Block(h, p)
		if err != nil {
			return nil, err
		}
		c.cacheBlockAlpha(wrapped, p, h)
		alpha := c.Calc.GetAlpha(p, 0, nil)
		if len(alphabet.FilterBlock(alpha, h)) != len(alpha) {
			c.Diag.Warnf("allow disallows (multi-)action(s) reachable by %s under block", p.ProcName)
		}
		return wrapped, nil

	case ast.ProcBlock:
		return c.PushBlock(unionNames(h, p.NameSet), p.Operand)

	case ast.ProcHide:
		newH := diffNames(h, p.NameSet)
		pushed, err := c.PushBlock(newH, p.Operand)
		if err != nil {
			return nil, err
		}
		hid, err := c.Arena.Hide(p.NameSet, pushed)
		if err != nil {
			return nil, err
		}
		c.cacheHideAlpha(hid, pushed, p.NameSet)
		return hid, nil

	case ast.ProcComm:
		touching := commTouchedNames(p.CommPairs)
		ha := intersectNames(h, touching)
		hc := diffNames(h, touching)
		pushed, err := c.PushBlock(hc, p.Operand)
		if err != nil {
			return nil, err
		}
		commed, err := c.Arena.Comm(p.CommPairs, pushed)
		if err != nil {
			return nil, err
		}
		if len(ha) == 0 {
			return commed, nil
		}
		blocked, err := c.Arena.Block(ha, commed)
		if err != nil {
			return nil, err
		}
		c.cacheBlockAlpha(blocked, commed, ha)
		return blocked, nil

	case ast.ProcRename, ast.ProcAllow:
		wrapped, err := c.Arena.Block(h, p)
		if err != nil {
			return nil, err
		}
		c.cacheBlockAlpha(wrapped, p, h)
		return wrapped, nil

	case ast.ProcSum:
		body, err := c.PushBlock(h, p.Operand)
		if err != nil {
			return nil, err
		}
		return c.Arena.Sum(p.SumVars, body), nil

	case ast.ProcAt:
		body, err := c.PushBlock(h, p.Operand)
		if err != nil {
			return nil, err
		}
		return c.Arena.At(body, p.Time), nil

	case ast.ProcIfThen:
		then, err := c.PushBlock(h, p.Left)
		if err != nil {
			return nil, err
		}
		return c.Arena.IfThen(p.Cond, then), nil

	case ast.ProcIfThenElse:
		then, err := c.PushBlock(h, p.Left)
		if err != nil {
			return nil, err
		}
		els, err := c.PushBlock(h, p.Right)
		if err != nil {
			return nil, err
		}
		return c.Arena.IfThenElse(p.Cond, then, els), nil

	case ast.ProcSeq, ast.ProcChoice, ast.ProcBoundedInit, ast.ProcSync, ast.ProcMerge, ast.ProcLeftMerge:
		l, err := c.PushBlock(h, p.Left)
		if err != nil {
			return nil, err
		}
		r, err := c.PushBlock(h, p.Right)
		if err != nil {
			return nil, err
		}
		return rebuildBinary(c.Arena, p.Kind, l, r), nil

	default:
		return nil, errs.New(errs.UnknownConstruct, "PushBlock: unhandled process kind %v", p.Kind).WithSubterm(p)
	}
}
