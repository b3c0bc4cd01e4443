package restrict

import (
	"github.com/mcrl2-go/symbolic/alphabet"
	"github.com/mcrl2-go/symbolic/ast"
	"github.com/mcrl2-go/symbolic/mact"
)

// PushComm implements the comm pusher.
func (c *Context) PushComm(comm []ast.CommPair, p *ast.Process) (*ast.Process, error) {
	if len(comm) == 0 {
		return p, nil
	}
	switch p.Kind {
	case ast.ProcDelta, ast.ProcTau:
		return p, nil

	case ast.ProcSum:
		body, err := c.PushComm(comm, p.Operand)
		if err != nil {
			return nil, err
		}
		return c.Arena.Sum(p.SumVars, body), nil

	case ast.ProcAt:
		body, err := c.PushComm(comm, p.Operand)
		if err != nil {
			return nil, err
		}
		return c.Arena.At(body, p.Time), nil

	case ast.ProcChoice, ast.ProcBoundedInit:
		l, err := c.PushComm(comm, p.Left)
		if err != nil {
			return nil, err
		}
		r, err := c.PushComm(comm, p.Right)
		if err != nil {
			return nil, err
		}
		return rebuildBinary(c.Arena, p.Kind, l, r), nil

	case ast.ProcIfThen:
		then, err := c.PushComm(comm, p.Left)
		if err != nil {
			return nil, err
		}
		return c.Arena.IfThen(p.Cond, then), nil

	case ast.ProcIfThenElse:
		then, err := c.PushComm(comm, p.Left)
		if err != nil {
			return nil, err
		}
		els, err := c.PushComm(comm, p.Right)
		if err != nil {
			return nil, err
		}
		return c.Arena.IfThenElse(p.Cond, then, els), nil

	case ast.ProcSync, ast.ProcMerge, ast.ProcLeftMerge:
		return c.pushCommParallel(comm, p)

	case ast.ProcAllow:
		if c.pushCommThroughAllowEnabled() {
			extended := extendAllowComm(allowSetsOf(p), comm, alphabet.UntypedOf(c.Sync, c.Calc.GetAlpha(p.Operand, 0, nil)))
			if sameAllowSet(extended, allowSetsOf(p)) {
				return c.liftCommIntoAllow(comm, p)
			}
		}
		return c.wrapComm(comm, p)

	case ast.ProcSeq:
		// Sequential composition: never distributed.
		return c.wrapComm(comm, p)

	default:
		// action, ref, ref-assign, block, hide, rename, nested comm: wrap
		// as-is, same as PushBlock does for rename/allow.
		return c.wrapComm(comm, p)
	}
}

func (c *Context) wrapComm(comm []ast.CommPair, p *ast.Process) (*ast.Process, error) {
	wrapped, err := c.Arena.Comm(comm, p)
	if err != nil {
		return nil, err
	}
	sub := c.Calc.GetAlpha(p, 0, nil)
	c.Calc.Cache.Put(wrapped, 0, nil, nil, alphabet.ApplyComms(c.Arena, sub, comm))
	return wrapped, nil
}

// liftCommIntoAllow computes V2 = V union apply_comms-images of alpha(Q) and
// pushes C into Q, re-wrapping with allow(V2, _).
func (c *Context) liftCommIntoAllow(comm []ast.CommPair, p *ast.Process) (*ast.Process, error) {
	q := p.Operand
	qAlpha := c.Calc.GetAlpha(q, 0, nil)
	qAlphaUntyped := alphabet.UntypedOf(c.Sync, qAlpha)
	images := alphabet.UntypedOf(c.Sync, alphabet.ApplyComms(c.Arena, qAlpha, comm))
	v2 := unionPatterns(unionPatterns(allowSetsOf(p), qAlphaUntyped), images)

	pushedQ, err := c.PushComm(comm, q)
	if err != nil {
		return nil, err
	}
	sets := append([][]string(nil), v2...)
	wrapped, err := c.Arena.Allow(sets, pushedQ)
	if err != nil {
		return nil, err
	}
	alpha := c.Calc.GetAlpha(pushedQ, 0, nil)
	c.Calc.Cache.Put(wrapped, 0, nil, nil, alphabet.FilterAllow(c.Sync, alpha, sets))
	return wrapped, nil
}

func allowSetsOf(p *ast.Process) [][]string {
	out := make([][]string, len(p.AllowSet))
	for i, s := range p.AllowSet {
		out[i] = []string(s)
	}
	return out
}

func sameAllowSet(a, b [][]string) bool {
	if len(a) != len(b) {
		return false
	}
	ka := map[string]bool{}
	for _, p := range a {
		ka[patternString(p)] = true
	}
	for _, p := range b {
		if !ka[patternString(p)] {
			return false
		}
	}
	return true
}

// pushCommParallel implements can_split_comm: partitions C
// into Cp (names touching only the left operand's alphabet), Cq (right
// only), and Ca (both, or neither; kept conservatively at the join point).
func (c *Context) pushCommParallel(comm []ast.CommPair, p *ast.Process) (*ast.Process, error) {
	namesL := untypedNameSet(c.Sync, c.Calc.GetAlpha(p.Left, 0, nil))
	namesR := untypedNameSet(c.Sync, c.Calc.GetAlpha(p.Right, 0, nil))

	var cp, cq, ca []ast.CommPair
	for _, pair := range comm {
		tl := anyIn(pair.Lhs, namesL)
		tr := anyIn(pair.Lhs, namesR)
		switch {
		case tl && !tr:
			cp = append(cp, pair)
		case tr && !tl:
			cq = append(cq, pair)
		default:
			ca = append(ca, pair)
		}
	}

	l, err := c.PushComm(cp, p.Left)
	if err != nil {
		return nil, err
	}
	r, err := c.PushComm(cq, p.Right)
	if err != nil {
		return nil, err
	}
	joined := rebuildBinary(c.Arena, p.Kind, l, r)
	if len(ca) == 0 {
		return joined, nil
	}
	return c.wrapComm(ca, joined)
}

func untypedNameSet(sync *mact.Cache, mas []*ast.MultiAction) map[string]bool {
	set := map[string]bool{}
	for _, m := range mas {
		for _, n := range sync.Untype(m) {
			set[n] = true
		}
	}
	return set
}

func anyIn(names []string, set map[string]bool) bool {
	for _, n := range names {
		if set[n] {
			return true
		}
	}
	return false
}
