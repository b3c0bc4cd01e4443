// Package alphabet implements the alphabet calculator: it
// computes an under-approximation of alpha_L(P), the set of multi-actions
// (or untyped action-name multisets) a process term may perform at its
// outermost level, subject to a length bound and an "allowed" pattern
// list.
package alphabet

import (
	"sort"
	"strings"

	"github.com/mcrl2-go/symbolic/ast"
	"github.com/mcrl2-go/symbolic/mact"
)

// partialKey identifies a non-total alphabet query.
type partialKey struct {
	p       *ast.Process
	length  int
	allowed string
	ignore  string
}

// Cache is the single alphabet cache shared by the multi-action algebra,
// the calculator, and the restriction pushers: total
// queries (length 0, allowed and ignore empty) are keyed on process
// identity; every other query is keyed on the full tuple.
type Cache struct {
	total   map[*ast.Process][]*ast.MultiAction
	partial map[partialKey][]*ast.MultiAction
}

// NewCache creates an empty alphabet cache.
func NewCache() *Cache {
	return &Cache{
		total:   make(map[*ast.Process][]*ast.MultiAction),
		partial: make(map[partialKey][]*ast.MultiAction),
	}
}

// Put populates the cache at the point of construction, so any function
// that builds a new term and already knows its alphabet records it
// immediately. A total query (length==0, no allowed/ignore) is also stored in
// the identity-keyed table so future total lookups against this exact
// process pointer are instant.
func (c *Cache) Put(p *ast.Process, length int, allowed, ignore [][]string, result []*ast.MultiAction) {
	if length == 0 && len(allowed) == 0 && len(ignore) == 0 {
		c.total[p] = result
		return
	}
	c.partial[partialKey{p, length, patternKey(allowed), patternKey(ignore)}] = result
}

func (c *Cache) get(p *ast.Process, length int, allowed, ignore [][]string) ([]*ast.MultiAction, bool) {
	if length == 0 && len(allowed) == 0 && len(ignore) == 0 {
		v, ok := c.total[p]
		return v, ok
	}
	v, ok := c.partial[partialKey{p, length, patternKey(allowed), patternKey(ignore)}]
	return v, ok
}

func patternKey(pats [][]string) string {
	parts := make([]string, len(pats))
	for i, p := range pats {
		cp := append([]string(nil), p...)
		sort.Strings(cp)
		parts[i] = strings.Join(cp, ",")
	}
	sort.Strings(parts)
	return strings.Join(parts, ";")
}

// Calculator computes alphabets. EquationAlpha is the driver-maintained,
// monotonically-increasing per-equation alphabet table; a
// name absent from it means "not yet computed / not part of the current
// fixed-point iteration", which GetAlpha treats as the empty under-
// approximation rather than attempting unguarded recursion.
type Calculator struct {
	Arena         *ast.Arena
	Cache         *Cache
	Sync          *mact.Cache
	Spec          *ast.ProcessSpec
	EquationAlpha map[string][]*ast.MultiAction
}

// NewCalculator builds a Calculator over a process specification, sharing
// caches with the rest of the alphabet-reduction pipeline.
func NewCalculator(a *ast.Arena, spec *ast.ProcessSpec, cache *Cache, sync *mact.Cache) *Calculator {
	return &Calculator{Arena: a, Cache: cache, Sync: sync, Spec: spec, EquationAlpha: make(map[string][]*ast.MultiAction)}
}

// GetAlpha computes alpha_L(p) under the given length bound and allowed
// pattern list (ignore is reserved and must be
// empty). length == 0 means unbounded; allowed == nil means unrestricted.
func (calc *Calculator) GetAlpha(p *ast.Process, length int, allowed [][]string) []*ast.MultiAction {
	return calc.getAlpha(p, length, allowed, nil, map[string]bool{})
}

func (calc *Calculator) getAlpha(p *ast.Process, length int, allowed, ignore [][]string, visiting map[string]bool) []*ast.MultiAction {
	if v, ok := calc.Cache.get(p, length, allowed, ignore); ok {
		return v
	}

	var result []*ast.MultiAction
	switch p.Kind {
	case ast.ProcDelta, ast.ProcTau:
		result = nil
	case ast.ProcAction:
		result = []*ast.MultiAction{calc.Arena.NewMultiAction([]*ast.Action{p.Act})}
	case ast.ProcRef, ast.ProcRefAssign:
		result = calc.alphaOfRef(p.ProcName, length, allowed, ignore, visiting)
	case ast.ProcSum, ast.ProcAt:
		result = calc.getAlpha(p.Operand, length, allowed, ignore, visiting)
	case ast.ProcBlock:
		sub := calc.getAlpha(p.Operand, length, allowed, ignore, visiting)
		result = filterBlock(sub, p.NameSet)
	case ast.ProcHide:
		sub := calc.getAlpha(p.Operand, length, allowed, ignore, visiting)
		result = mapHide(calc.Arena, sub, p.NameSet)
	case ast.ProcRename:
		sub := calc.getAlpha(p.Operand, length, allowed, ignore, visiting)
		result = mapRename(calc.Arena, sub, p.RenamePairs)
	case ast.ProcAllow:
		maxLen := 0
		var v [][]string
		for _, s := range p.AllowSet {
			v = append(v, []string(s))
			if len(s) > maxLen {
				maxLen = len(s)
			}
		}
		sub := calc.getAlpha(p.Operand, maxLen, v, ignore, visiting)
		result = filterAllow(calc.Sync, sub, v)
	case ast.ProcComm:
		lhsMax := 0
		anyTau := false
		for _, cp := range p.CommPairs {
			if len(cp.Lhs) > lhsMax {
				lhsMax = len(cp.Lhs)
			}
			if cp.Rhs == "" {
				anyTau = true
			}
		}
		newLen := 0
		if !anyTau && length != 0 && lhsMax != 0 {
			newLen = length * lhsMax
		}
		sub := calc.getAlpha(p.Operand, newLen, allowed, ignore, visiting)
		result = applyComms(calc.Arena, sub, p.CommPairs)
	case ast.ProcSeq, ast.ProcChoice, ast.ProcIfThen, ast.ProcIfThenElse, ast.ProcBoundedInit:
		result = calc.unionChildren(p, length, allowed, ignore, visiting)
	case ast.ProcSync, ast.ProcMerge, ast.ProcLeftMerge:
		l := calc.getAlpha(p.Left, length, allowed, ignore, visiting)
		r := calc.getAlpha(p.Right, length, allowed, ignore, visiting)
		result = unionMA(l, r)
		result = unionMA(result, mact.SyncList(calc.Arena, calc.Sync, l, r, length, allowed))
	default:
		result = nil
	}

	calc.Cache.Put(p, length, allowed, ignore, result)
	return result
}

func (calc *Calculator) unionChildren(p *ast.Process, length int, allowed, ignore [][]string, visiting map[string]bool) []*ast.MultiAction {
	var out []*ast.MultiAction
	if p.Operand != nil {
		out = unionMA(out, calc.getAlpha(p.Operand, length, allowed, ignore, visiting))
	}
	if p.Left != nil {
		out = unionMA(out, calc.getAlpha(p.Left, length, allowed, ignore, visiting))
	}
	if p.Right != nil {
		out = unionMA(out, calc.getAlpha(p.Right, length, allowed, ignore, visiting))
	}
	return out
}

// alphaOfRef resolves the alphabet of a process reference. If the driver
// has already computed (an under-approximation of) the referenced
// equation's alphabet, that is returned (filtered to the caller's length
// bound, since the driver only ever stores total alphabets). Otherwise the
// equation's body is expanded on demand, guarded against cycles by
// `visiting` so a reference chain that loops back on itself (only possible
// among mCRL equations, which the driver's fixed-point loop does not
// precompute) yields the empty under-approximation rather than recursing
// forever; results are under-approximations until the driver's fixed point
// stabilises.
func (calc *Calculator) alphaOfRef(name string, length int, allowed, ignore [][]string, visiting map[string]bool) []*ast.MultiAction {
	if v, ok := calc.EquationAlpha[name]; ok {
		return filterByLengthAllowed(v, length, allowed)
	}
	if visiting[name] {
		return nil
	}
	if calc.Spec == nil {
		return nil
	}
	eq := calc.Spec.EquationByName(name)
	if eq == nil {
		return nil
	}
	visiting[name] = true
	defer delete(visiting, name)
	return calc.getAlpha(eq.Body, length, allowed, ignore, visiting)
}

func filterByLengthAllowed(mas []*ast.MultiAction, length int, allowed [][]string) []*ast.MultiAction {
	if length == 0 && len(allowed) == 0 {
		return mas
	}
	var out []*ast.MultiAction
	for _, m := range mas {
		if length != 0 && m.Len() > length {
			continue
		}
		if len(allowed) > 0 {
			untyped := make([]string, m.Len())
			for i, act := range m.Actions {
				untyped[i] = ast.Untype(act)
			}
			ok := false
			for _, pat := range allowed {
				if mact.SubMultiAction(untyped, pat) {
					ok = true
					break
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, m)
	}
	return out
}

func filterBlock(mas []*ast.MultiAction, blocked []string) []*ast.MultiAction {
	set := map[string]bool{}
	for _, n := range blocked {
		set[n] = true
	}
	var out []*ast.MultiAction
	for _, m := range mas {
		ok := true
		for _, act := range m.Actions {
			if set[ast.Untype(act)] {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, m)
		}
	}
	return out
}

func mapHide(a *ast.Arena, mas []*ast.MultiAction, hidden []string) []*ast.MultiAction {
	set := map[string]bool{}
	for _, n := range hidden {
		set[n] = true
	}
	var out []*ast.MultiAction
	seen := map[*ast.MultiAction]bool{}
	for _, m := range mas {
		var kept []*ast.Action
		for _, act := range m.Actions {
			if !set[ast.Untype(act)] {
				kept = append(kept, act)
			}
		}
		r := a.NewMultiAction(kept)
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

func mapRename(a *ast.Arena, mas []*ast.MultiAction, pairs []ast.RenamePair) []*ast.MultiAction {
	ren := map[string]string{}
	for _, p := range pairs {
		ren[p.From] = p.To
	}
	var out []*ast.MultiAction
	seen := map[*ast.MultiAction]bool{}
	for _, m := range mas {
		acts := make([]*ast.Action, len(m.Actions))
		for i, act := range m.Actions {
			name := act.Label.Name
			if to, ok := ren[name]; ok {
				name = to
			}
			lbl := a.ActionLabel(name, act.Label.Sorts)
			acts[i] = a.ActionOf(lbl, act.Args)
		}
		r := a.NewMultiAction(acts)
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

func filterAllow(sync *mact.Cache, mas []*ast.MultiAction, v [][]string) []*ast.MultiAction {
	var out []*ast.MultiAction
	for _, m := range mas {
		untyped := sync.Untype(m)
		for _, pat := range v {
			if len(untyped) == len(pat) && mact.SubMultiAction(untyped, pat) {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// applyComms synchronises matching actions inside each multi-action
// according to the comm pair list: every
// maximal match of a pair's lhs names inside m is replaced by a single
// action named the pair's rhs (or removed entirely if rhs denotes tau).
func applyComms(a *ast.Arena, mas []*ast.MultiAction, pairs []ast.CommPair) []*ast.MultiAction {
	if len(pairs) == 0 {
		return mas
	}
	seen := map[*ast.MultiAction]bool{}
	var out []*ast.MultiAction
	for _, m := range mas {
		r := applyCommsOne(a, m, pairs)
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

func applyCommsOne(a *ast.Arena, m *ast.MultiAction, pairs []ast.CommPair) *ast.MultiAction {
	remaining := append([]*ast.Action(nil), m.Actions...)
	var produced []*ast.Action

	for _, pair := range pairs {
		for {
			idxs := findLhsMatch(remaining, pair.Lhs)
			if idxs == nil {
				break
			}
			var args []ast.DataExpr
			var matched []*ast.Action
			for _, idx := range idxs {
				matched = append(matched, remaining[idx])
				args = append(args, remaining[idx].Args...)
			}
			remaining = removeIndices(remaining, idxs)
			if pair.Rhs != "" {
				lbl := a.ActionLabel(pair.Rhs, matched[0].Label.Sorts)
				produced = append(produced, a.ActionOf(lbl, args))
			}
			// tau: matched actions vanish entirely
		}
	}

	final := append(remaining, produced...)
	return a.NewMultiAction(final)
}

// findLhsMatch finds one index for each name in lhs among the unmatched
// actions of remaining, returning their indices, or nil if lhs cannot be
// fully matched.
func findLhsMatch(remaining []*ast.Action, lhs []string) []int {
	need := map[string]int{}
	for _, n := range lhs {
		need[n]++
	}
	var idxs []int
	used := map[int]bool{}
	for name, cnt := range need {
		found := 0
		for i, act := range remaining {
			if used[i] {
				continue
			}
			if ast.Untype(act) == name {
				idxs = append(idxs, i)
				used[i] = true
				found++
				if found == cnt {
					break
				}
			}
		}
		if found != cnt {
			return nil
		}
	}
	sort.Ints(idxs)
	return idxs
}

func removeIndices(s []*ast.Action, idxs []int) []*ast.Action {
	drop := map[int]bool{}
	for _, i := range idxs {
		drop[i] = true
	}
	var out []*ast.Action
	for i, act := range s {
		if !drop[i] {
			out = append(out, act)
		}
	}
	return out
}

func unionMA(a, b []*ast.MultiAction) []*ast.MultiAction {
	seen := map[*ast.MultiAction]bool{}
	var out []*ast.MultiAction
	for _, m := range a {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	for _, m := range b {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// Equal reports whether two alphabets (as sets of multi-actions) are the
// same, used by the driver to detect fixed-point convergence.
func Equal(a, b []*ast.MultiAction) bool {
	if len(a) != len(b) {
		return false
	}
	set := map[*ast.MultiAction]bool{}
	for _, m := range a {
		set[m] = true
	}
	for _, m := range b {
		if !set[m] {
			return false
		}
	}
	return true
}

// FilterBlock, MapHide, MapRename, FilterAllow, ApplyComms and UnionMA
// expose the per-operator alphabet transformations so that package restrict
// can populate the shared cache for a pushed term with the
// exact same logic GetAlpha uses, instead of re-deriving it.
func FilterBlock(mas []*ast.MultiAction, blocked []string) []*ast.MultiAction { return filterBlock(mas, blocked) }
func MapHide(a *ast.Arena, mas []*ast.MultiAction, hidden []string) []*ast.MultiAction {
	return mapHide(a, mas, hidden)
}
func MapRename(a *ast.Arena, mas []*ast.MultiAction, pairs []ast.RenamePair) []*ast.MultiAction {
	return mapRename(a, mas, pairs)
}
func FilterAllow(sync *mact.Cache, mas []*ast.MultiAction, v [][]string) []*ast.MultiAction {
	return filterAllow(sync, mas, v)
}
func ApplyComms(a *ast.Arena, mas []*ast.MultiAction, pairs []ast.CommPair) []*ast.MultiAction {
	return applyComms(a, mas, pairs)
}
func UnionMA(a, b []*ast.MultiAction) []*ast.MultiAction { return unionMA(a, b) }

// UntypedOf returns the set of untyped (action-name-multiset) projections
// of an alphabet, deduplicated.
func UntypedOf(sync *mact.Cache, mas []*ast.MultiAction) [][]string {
	seen := map[string]bool{}
	var out [][]string
	for _, m := range mas {
		u := sync.Untype(m)
		k := patternKey([][]string{u})
		if !seen[k] {
			seen[k] = true
			out = append(out, u)
		}
	}
	return out
}
