// Package mact implements the multi-action algebra: untype/
// type projections, synchronisation of two multi-actions, and the
// cartesian sync_list operation used to compute the alphabet of a parallel
// composition.
package mact

import (
	"sort"
	"strings"

	"github.com/mcrl2-go/symbolic/ast"
)

// Untype returns the sorted list of action-label names occurring in a
// multi-action, i.e. its untyped projection. The result is
// memoised on multi-action identity by the caller-supplied cache (see
// Cache.Untype) since an Arena-interned MultiAction pointer is a sound
// cache key.
func untypeSlice(m *ast.MultiAction) []string {
	out := make([]string, len(m.Actions))
	for i, act := range m.Actions {
		out[i] = ast.Untype(act)
	}
	return out
}

// Cache memoises untype and sync so that repeated calls within one
// alphabet-driver fixed-point iteration don't redo the same multiset merge.
type Cache struct {
	untype map[*ast.MultiAction][]string
	sync   map[syncKey]*ast.MultiAction
}

type syncKey struct {
	a, b *ast.MultiAction
}

// NewCache creates an empty memoisation table.
func NewCache() *Cache {
	return &Cache{
		untype: make(map[*ast.MultiAction][]string),
		sync:   make(map[syncKey]*ast.MultiAction),
	}
}

// Untype returns (and caches) the untyped projection of a multi-action.
func (c *Cache) Untype(m *ast.MultiAction) []string {
	if v, ok := c.untype[m]; ok {
		return v
	}
	v := untypeSlice(m)
	c.untype[m] = v
	return v
}

// Sync merges two sorted multi-actions into a new sorted multi-action,
// preserving duplicates. It is memoised symmetrically:
// inserting (a,b) -> r also inserts (b,a) -> r.
func (c *Cache) Sync(a *ast.Arena, x, y *ast.MultiAction) *ast.MultiAction {
	if r, ok := c.sync[syncKey{x, y}]; ok {
		return r
	}
	merged := make([]*ast.Action, 0, len(x.Actions)+len(y.Actions))
	merged = append(merged, x.Actions...)
	merged = append(merged, y.Actions...)
	r := a.NewMultiAction(merged)
	c.sync[syncKey{x, y}] = r
	c.sync[syncKey{y, x}] = r
	return r
}

// SubMultiAction reports whether l is a sub-multiset of m, after sorting
// both.
func SubMultiAction(l, m []string) bool {
	lc := append([]string(nil), l...)
	mc := append([]string(nil), m...)
	sort.Strings(lc)
	sort.Strings(mc)
	need := map[string]int{}
	for _, n := range lc {
		need[n]++
	}
	have := map[string]int{}
	for _, n := range mc {
		have[n]++
	}
	for n, cnt := range need {
		if have[n] < cnt {
			return false
		}
	}
	return true
}

// untypedKey renders a sorted untyped projection as a canonical string, used
// to compare against the "allowed" patterns in SyncList/alphabet filtering.
func untypedKey(names []string) string {
	cp := append([]string(nil), names...)
	sort.Strings(cp)
	return strings.Join(cp, ",")
}

// SyncList computes the cartesian synchronisation of two alphabets L1 and
// L2: every pairwise sync(a,b) for a in L1, b in L2, keeping only results
// whose untyped projection is a sub-multiset of some pattern in allowed
// (when allowed is non-empty) and whose length is at most maxLen (when
// maxLen is non-zero).
func SyncList(a *ast.Arena, c *Cache, l1, l2 []*ast.MultiAction, maxLen int, allowed [][]string) []*ast.MultiAction {
	var out []*ast.MultiAction
	seen := map[*ast.MultiAction]bool{}
	for _, x := range l1 {
		for _, y := range l2 {
			r := c.Sync(a, x, y)
			if maxLen != 0 && r.Len() > maxLen {
				continue
			}
			if len(allowed) > 0 {
				untyped := c.Untype(r)
				ok := false
				for _, pat := range allowed {
					if SubMultiAction(untyped, pat) {
						ok = true
						break
					}
				}
				if !ok {
					continue
				}
			}
			if !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
		}
	}
	return out
}
