// Package traverse implements the generic structural fold/map kit: a
// single recursive walk per AST category that visits
// every subterm exactly once, with pre-order (enter) and post-order (leave)
// hooks. It is a plain switch-dispatch walk rather than a visitor-object
// hierarchy.
//
// Two flavours are exposed for each category: a plain walk (ObserveProcess/
// ObserveFormula) that only visits nodes, and a rebuilding map (MapProcess/
// MapFormula) that reconstructs a fresh term bottom-up, which is the shape
// every rewrite in alphabet/restrict/classify/translate is expressed as.
// A binding-aware variant (BoundVars) tracks the multiset of variables
// currently in scope, incremented at sum/forall/exists/mu/nu and
// decremented on leave.
package traverse

import "github.com/mcrl2-go/symbolic/ast"

// BoundVars is a multiset of currently-bound variable names, maintained by
// the binding-aware traversers.
type BoundVars struct {
	counts map[string]int
}

// NewBoundVars creates an empty binding context.
func NewBoundVars() *BoundVars { return &BoundVars{counts: make(map[string]int)} }

// Push increments the bound count for each variable, called on entering a
// binder.
func (b *BoundVars) Push(vars []ast.DataVariable) {
	for _, v := range vars {
		b.counts[v.Name]++
	}
}

// Pop decrements the bound count for each variable, called on leaving a
// binder. Panics if a pop is unbalanced with its push, which would indicate
// a traversal bug.
func (b *BoundVars) Pop(vars []ast.DataVariable) {
	for _, v := range vars {
		if b.counts[v.Name] == 0 {
			panic("traverse: unbalanced BoundVars.Pop for " + v.Name)
		}
		b.counts[v.Name]--
	}
}

// Bound reports whether name is currently bound.
func (b *BoundVars) Bound(name string) bool { return b.counts[name] > 0 }

// ObserveProcess visits every subterm of p exactly once in a pre/post-order
// walk, without rebuilding anything. enter/leave may be nil.
func ObserveProcess(p *ast.Process, enter, leave func(*ast.Process)) {
	if p == nil {
		return
	}
	if enter != nil {
		enter(p)
	}
	if p.Operand != nil {
		ObserveProcess(p.Operand, enter, leave)
	}
	if p.Left != nil {
		ObserveProcess(p.Left, enter, leave)
	}
	if p.Right != nil {
		ObserveProcess(p.Right, enter, leave)
	}
	if leave != nil {
		leave(p)
	}
}

// MapProcess rebuilds p bottom-up: every child is mapped first, a fresh
// node is interned for this level with the mapped children, and transform
// is applied to that fresh node as the post-order hook. transform may
// return its argument unchanged.
func MapProcess(a *ast.Arena, p *ast.Process, transform func(*ast.Process) *ast.Process) *ast.Process {
	if p == nil {
		return nil
	}

	rebuilt := p
	switch p.Kind {
	case ast.ProcSum:
		body := MapProcess(a, p.Operand, transform)
		if body != p.Operand {
			rebuilt = a.Sum(p.SumVars, body)
		}
	case ast.ProcBlock:
		body := MapProcess(a, p.Operand, transform)
		if body != p.Operand {
			rebuilt, _ = a.Block(p.NameSet, body)
		}
	case ast.ProcHide:
		body := MapProcess(a, p.Operand, transform)
		if body != p.Operand {
			rebuilt, _ = a.Hide(p.NameSet, body)
		}
	case ast.ProcRename:
		body := MapProcess(a, p.Operand, transform)
		if body != p.Operand {
			rebuilt = a.Rename(p.RenamePairs, body)
		}
	case ast.ProcAllow:
		body := MapProcess(a, p.Operand, transform)
		if body != p.Operand {
			sets := make([][]string, len(p.AllowSet))
			for i, s := range p.AllowSet {
				sets[i] = []string(s)
			}
			rebuilt, _ = a.Allow(sets, body)
		}
	case ast.ProcComm:
		body := MapProcess(a, p.Operand, transform)
		if body != p.Operand {
			rebuilt, _ = a.Comm(p.CommPairs, body)
		}
	case ast.ProcAt:
		body := MapProcess(a, p.Operand, transform)
		if body != p.Operand {
			rebuilt = a.At(body, p.Time)
		}
	case ast.ProcSync, ast.ProcSeq, ast.ProcBoundedInit, ast.ProcMerge, ast.ProcLeftMerge, ast.ProcChoice:
		l := MapProcess(a, p.Left, transform)
		r := MapProcess(a, p.Right, transform)
		if l != p.Left || r != p.Right {
			rebuilt = rebuildBinary(a, p.Kind, l, r)
		}
	case ast.ProcIfThen:
		then := MapProcess(a, p.Left, transform)
		if then != p.Left {
			rebuilt = a.IfThen(p.Cond, then)
		}
	case ast.ProcIfThenElse:
		then := MapProcess(a, p.Left, transform)
		els := MapProcess(a, p.Right, transform)
		if then != p.Left || els != p.Right {
			rebuilt = a.IfThenElse(p.Cond, then, els)
		}
	default:
		// delta, tau, action, ref, ref-assign: leaves, nothing to recurse into
	}

	return transform(rebuilt)
}

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
		panic("traverse: rebuildBinary called with non-binary kind")
	}
}

// ObserveFormula visits every subterm of f exactly once.
func ObserveFormula(f *ast.StateFormula, enter, leave func(*ast.StateFormula)) {
	if f == nil {
		return
	}
	if enter != nil {
		enter(f)
	}
	if f.Operand != nil {
		ObserveFormula(f.Operand, enter, leave)
	}
	if f.Left != nil {
		ObserveFormula(f.Left, enter, leave)
	}
	if f.Right != nil {
		ObserveFormula(f.Right, enter, leave)
	}
	if leave != nil {
		leave(f)
	}
}

// ReferencedProcessNames collects the set of process identifiers directly
// referenced by p (ProcRef/ProcRefAssign), used by the dependency-graph
// builder in the driver package.
func ReferencedProcessNames(p *ast.Process) []string {
	seen := map[string]bool{}
	var names []string
	ObserveProcess(p, func(n *ast.Process) {
		if n.Kind == ast.ProcRef || n.Kind == ast.ProcRefAssign {
			if !seen[n.ProcName] {
				seen[n.ProcName] = true
				names = append(names, n.ProcName)
			}
		}
	}, nil)
	return names
}
