package restrict

import (
	"sort"

	"github.com/mcrl2-go/symbolic/ast"
)

func containsName(set []string, n string) bool {
	for _, s := range set {
		if s == n {
			return true
		}
	}
	return false
}

// unionNames returns the sorted, deduplicated union of a and b.
func unionNames(a, b []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, n := range a {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, n := range b {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// diffNames returns a minus b.
func diffNames(a, b []string) []string {
	excl := map[string]bool{}
	for _, n := range b {
		excl[n] = true
	}
	var out []string
	for _, n := range a {
		if !excl[n] {
			out = append(out, n)
		}
	}
	return out
}

// intersectNames returns a intersect b.
func intersectNames(a, b []string) []string {
	set := map[string]bool{}
	for _, n := range b {
		set[n] = true
	}
	var out []string
	for _, n := range a {
		if set[n] {
			out = append(out, n)
		}
	}
	return out
}

// rebuildBinary reconstructs a binary process node of kind k from pushed
// operands l, r, used by every pusher's distributive case.
func rebuildBinary(a *ast.Arena, k ast.ProcKind, l, r *ast.Process) *ast.Process {
	switch k {
	case ast.ProcSync:
		return a.SyncP(l, r)
	case ast.ProcSeq:
		return a.Seq(l, r)
	case ast.ProcBoundedInit:
		return a.BoundedInit(l, r)
	case ast.ProcMerge:
		return a.Merge(l, r)
	case ast.ProcLeftMerge:
		return a.LeftMerge(l, r)
	case ast.ProcChoice:
		return a.Choice(l, r)
	default:
		panic("restrict: rebuildBinary called with non-binary kind")
	}
}

// allowSetKey renders an allow multi-name-set list as a canonical string
// key for the restriction-substitution table.
func allowSetKey(v [][]string) string {
	parts := make([]string, len(v))
	for i, names := range v {
		cp := append([]string(nil), names...)
		sort.Strings(cp)
		parts[i] = ""
		for j, n := range cp {
			if j > 0 {
				parts[i] += ","
			}
			parts[i] += n
		}
	}
	sort.Strings(parts)
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ";"
		}
		out += p
	}
	return out
}

// commTouchedNames returns every name appearing on either side of a comm
// pair list (lhs names and non-tau rhs names), used by PushBlock/PushHide
// to split a block/hide set into the part touching the communication and
// the part disjoint from it.
func commTouchedNames(pairs []ast.CommPair) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range pairs {
		for _, n := range p.Lhs {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
		if p.Rhs != "" && !seen[p.Rhs] {
			seen[p.Rhs] = true
			out = append(out, p.Rhs)
		}
	}
	return out
}
