package restrict

import (
	"sort"

	"github.com/mcrl2-go/symbolic/alphabet"
	"github.com/mcrl2-go/symbolic/ast"
	"github.com/mcrl2-go/symbolic/classify"
	"github.com/mcrl2-go/symbolic/diagnostics"
	"github.com/mcrl2-go/symbolic/errs"
)

// SetClassification is called by the driver before PushAllow so the
// clone-or-wrap decision for a process call under allow can be made
// without restrict importing the driver's fixed-point state.
func (c *Context) SetClassification(info map[string]*classify.EquationInfo) {
	c.classification = info
}

// PushAllow implements the allow pusher, the most
// elaborate of the four: equation cloning for bare process calls,
// distribution across parallel operators via split_allow, the comm
// interaction via extend_allow_comm, the redundant-allow omission, and the
// "allow disallows action(s)" diagnostic for pCRL calls.
func (c *Context) PushAllow(v [][]string, p *ast.Process) (*ast.Process, error) {
	if len(v) == 0 {
		return c.Arena.Delta(), nil
	}
	switch p.Kind {
	case ast.ProcDelta, ast.ProcTau:
		return p, nil

	case ast.ProcAction:
		name := ast.Untype(p.Act)
		for _, pat := range v {
			if len(pat) == 1 && pat[0] == name {
				return p, nil
			}
		}
		return c.Arena.Delta(), nil

	case ast.ProcRef, ast.ProcRefAssign:
		return c.pushAllowRef(v, p)

	case ast.ProcComm:
		return c.pushAllowComm(v, p)

	case ast.ProcSync, ast.ProcMerge, ast.ProcLeftMerge:
		return c.pushAllowParallel(v, p)

	case ast.ProcSum:
		body, err := c.PushAllow(v, p.Operand)
		if err != nil {
			return nil, err
		}
		return c.Arena.Sum(p.SumVars, body), nil

	case ast.ProcAt:
		body, err := c.PushAllow(v, p.Operand)
		if err != nil {
			return nil, err
		}
		return c.Arena.At(body, p.Time), nil

	case ast.ProcIfThen:
		then, err := c.PushAllow(v, p.Left)
		if err != nil {
			return nil, err
		}
		return c.Arena.IfThen(p.Cond, then), nil

	case ast.ProcIfThenElse:
		then, err := c.PushAllow(v, p.Left)
		if err != nil {
			return nil, err
		}
		els, err := c.PushAllow(v, p.Right)
		if err != nil {
			return nil, err
		}
		return c.Arena.IfThenElse(p.Cond, then, els), nil

	case ast.ProcSeq, ast.ProcChoice, ast.ProcBoundedInit:
		l, err := c.PushAllow(v, p.Left)
		if err != nil {
			return nil, err
		}
		r, err := c.PushAllow(v, p.Right)
		if err != nil {
			return nil, err
		}
		return rebuildBinary(c.Arena, p.Kind, l, r), nil

	case ast.ProcBlock, ast.ProcHide, ast.ProcRename, ast.ProcAllow:
		return c.wrapAllowOmitIfRedundant(v, p)

	default:
		return nil, errs.New(errs.UnknownConstruct, "PushAllow: unhandled process kind %v", p.Kind).WithSubterm(p)
	}
}

// wrapAllowOmitIfRedundant wraps p in allow(v, p), unless filtering p's
// known alphabet by v leaves it unchanged, in which case the outer allow is
// dropped entirely.
func (c *Context) wrapAllowOmitIfRedundant(v [][]string, p *ast.Process) (*ast.Process, error) {
	alpha := c.Calc.GetAlpha(p, 0, nil)
	filtered := alphabet.FilterAllow(c.Sync, alpha, v)
	if alphabet.Equal(filtered, alpha) {
		return p, nil
	}
	sets := make([][]string, len(v))
	copy(sets, v)
	wrapped, err := c.Arena.Allow(sets, p)
	if err != nil {
		return nil, err
	}
	c.Calc.Cache.Put(wrapped, 0, nil, nil, filtered)
	return wrapped, nil
}

// pushAllowRef handles a bare process-reference call under allow(V, _):
// warn-and-wrap for a non-recursive pCRL call, clone otherwise.
func (c *Context) pushAllowRef(v [][]string, p *ast.Process) (*ast.Process, error) {
	info := c.classification[p.ProcName]
	alpha := c.Calc.GetAlpha(p, 0, nil)
	filtered := alphabet.FilterAllow(c.Sync, alpha, v)

	if info != nil && info.Form == classify.FormPCRL && !info.Recursive {
		if len(filtered) != len(alpha) {
			c.Diag.RecordErr(diagnostics.Warning, errs.New(errs.AllowRestrictsReachable,
				"allow disallows (multi-)action(s) of %s", p.ProcName).WithSubterm(p))
		}
		if alphabet.Equal(filtered, alpha) {
			return p, nil
		}
		sets := make([][]string, len(v))
		copy(sets, v)
		wrapped, err := c.Arena.Allow(sets, p)
		if err != nil {
			return nil, err
		}
		c.Calc.Cache.Put(wrapped, 0, nil, nil, filtered)
		return wrapped, nil
	}

	// Non-pCRL or recursive: clone the equation under this restriction.
	if alphabet.Equal(filtered, alpha) {
		return p, nil
	}
	if name, ok := c.lookupClone(v, p.ProcName); ok {
		return c.Arena.ProcessRef(name, p.RefArgs), nil
	}
	cloneName := c.registerClone(v, p.ProcName)
	if c.Spec != nil {
		eq := c.Spec.EquationByName(p.ProcName)
		if eq != nil {
			pushedBody, err := c.PushAllow(v, eq.Body)
			if err != nil {
				return nil, err
			}
			c.Spec.Equations = append(c.Spec.Equations, &ast.ProcessEquation{
				Name:         cloneName,
				FormalParams: eq.FormalParams,
				Body:         pushedBody,
			})
			c.Calc.EquationAlpha[cloneName] = c.Calc.GetAlpha(pushedBody, 0, nil)
		}
	}
	return c.Arena.ProcessRef(cloneName, p.RefArgs), nil
}

// splitAllow computes V_L and V_R: a name-multiset v
// belongs to V_L iff some v' in the untyped alphabet of the opposite
// operand makes v . v' in V.
func splitAllow(v [][]string, oppositeUntyped [][]string) [][]string {
	seen := map[string]bool{}
	var out [][]string
	for _, candidate := range untypedSubsets(v) {
		k := patternString(candidate)
		if seen[k] {
			continue
		}
		for _, opp := range append(oppositeUntyped, nil) { // include empty (tau) partner
			combined := append(append([]string(nil), candidate...), opp...)
			if matchesAnyPattern(combined, v) {
				seen[k] = true
				out = append(out, candidate)
				break
			}
		}
	}
	return out
}

// untypedSubsets enumerates every distinct sub-multiset occurring as a
// prefix candidate: since V is typically small (action-name patterns), we
// derive candidates directly from each pattern in v plus all of its
// sub-multisets, which is sufficient to cover split_allow's use (matching
// the left operand's own contribution to a joint pattern).
func untypedSubsets(v [][]string) [][]string {
	seen := map[string]bool{}
	var out [][]string
	for _, pat := range v {
		for _, sub := range allSubMultisets(pat) {
			k := patternString(sub)
			if !seen[k] {
				seen[k] = true
				out = append(out, sub)
			}
		}
	}
	return out
}

func allSubMultisets(pat []string) [][]string {
	n := len(pat)
	var out [][]string
	for mask := 0; mask < (1 << n); mask++ {
		var sub []string
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				sub = append(sub, pat[i])
			}
		}
		sort.Strings(sub)
		out = append(out, sub)
	}
	return out
}

func matchesAnyPattern(combined []string, v [][]string) bool {
	cp := append([]string(nil), combined...)
	sort.Strings(cp)
	for _, pat := range v {
		p := append([]string(nil), pat...)
		sort.Strings(p)
		if patternString(p) == patternString(cp) {
			return true
		}
	}
	return false
}

func patternString(p []string) string {
	cp := append([]string(nil), p...)
	sort.Strings(cp)
	out := ""
	for i, n := range cp {
		if i > 0 {
			out += ","
		}
		out += n
	}
	return out
}

func (c *Context) pushAllowParallel(v [][]string, p *ast.Process) (*ast.Process, error) {
	alphaL := c.Calc.GetAlpha(p.Left, 0, nil)
	alphaR := c.Calc.GetAlpha(p.Right, 0, nil)
	untypedL := alphabet.UntypedOf(c.Sync, alphaL)
	untypedR := alphabet.UntypedOf(c.Sync, alphaR)

	vL := splitAllow(v, untypedR)
	vR := splitAllow(v, untypedL)

	l, err := c.PushAllow(vL, p.Left)
	if err != nil {
		return nil, err
	}
	r, err := c.PushAllow(vR, p.Right)
	if err != nil {
		return nil, err
	}
	return rebuildBinary(c.Arena, p.Kind, l, r), nil
}

// pushAllowComm implements the interaction between allow and an inner
// comm.
func (c *Context) pushAllowComm(v [][]string, p *ast.Process) (*ast.Process, error) {
	q := p.Operand
	qAlphaUntyped := alphabet.UntypedOf(c.Sync, c.Calc.GetAlpha(q, 0, nil))
	vExtended := extendAllowComm(v, p.CommPairs, qAlphaUntyped)

	restore := c.disablePushCommThroughAllow()
	defer restore()

	pushedQ, err := c.PushAllow(vExtended, q)
	if err != nil {
		return nil, err
	}
	commed, err := c.Arena.Comm(p.CommPairs, pushedQ)
	if err != nil {
		return nil, err
	}
	return c.wrapAllowOmitIfRedundant(v, commed)
}

// extendAllowComm computes V' such that allow_V . comm_C equals
// allow_V . comm_C . allow_V'. When C contains a pair that
// synchronises to tau, the alphabet of Q is folded in instead, since a tau
// pair can make visible-action patterns appear that no finite unfolding of V
// alone would predict.
func extendAllowComm(v [][]string, pairs []ast.CommPair, qAlphaUntyped [][]string) [][]string {
	hasTau := false
	for _, p := range pairs {
		if p.Rhs == "" {
			hasTau = true
		}
	}
	if hasTau {
		return unionPatterns(v, qAlphaUntyped)
	}
	seen := map[string]bool{}
	var out [][]string
	queue := append([][]string(nil), v...)
	for _, p := range v {
		seen[patternString(p)] = true
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		out = append(out, cur)
		for _, pair := range pairs {
			if pair.Rhs == "" || !containsName(cur, pair.Rhs) {
				continue
			}
			repl := replaceOneOccurrence(cur, pair.Rhs, pair.Lhs)
			k := patternString(repl)
			if !seen[k] {
				seen[k] = true
				queue = append(queue, repl)
			}
		}
	}
	return out
}

func replaceOneOccurrence(pat []string, name string, with []string) []string {
	out := make([]string, 0, len(pat)-1+len(with))
	done := false
	for _, n := range pat {
		if !done && n == name {
			done = true
			out = append(out, with...)
			continue
		}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func unionPatterns(a, b [][]string) [][]string {
	seen := map[string]bool{}
	var out [][]string
	for _, p := range append(append([][]string{}, a...), b...) {
		k := patternString(p)
		if !seen[k] {
			seen[k] = true
			out = append(out, p)
		}
	}
	return out
}
