// Package driver implements the fixed-point alphabet-reduction driver:
// it classifies every equation, expands any
// n-parallel replication pattern, then iterates the alphabet calculator to
// convergence over the equation dependency graph before applying the
// restriction pushers to the initial expression.
package driver

import (
	"github.com/mcrl2-go/symbolic/alphabet"
	"github.com/mcrl2-go/symbolic/ast"
	"github.com/mcrl2-go/symbolic/classify"
	"github.com/mcrl2-go/symbolic/config"
	"github.com/mcrl2-go/symbolic/diagnostics"
	"github.com/mcrl2-go/symbolic/errs"
	"github.com/mcrl2-go/symbolic/mact"
	"github.com/mcrl2-go/symbolic/restrict"
	"github.com/mcrl2-go/symbolic/traverse"
)

// Result is everything the driver produces for a process specification:
// the reduced spec (with every restriction pushed inward and n-parallel
// patterns expanded), the classifier's verdicts, the converged per-equation
// alphabet table, and whether the fixed-point loop actually reached a fixed
// point before IterationLimit was spent.
type Result struct {
	Spec       *ast.ProcessSpec
	Classified map[string]*classify.EquationInfo
	Alphabets  map[string][]*ast.MultiAction
	Stable     bool
	Clones     []restrict.CloneRecord
}

// Run executes the full alphabet-reduction pipeline:
//
//  1. classify every equation (pCRL/nPCRL/mCRL + recursivity)
//  2. expand every n-parallel equation the classifier found
//  3. rebuild the dependency graph if expansion changed anything
//  4. iterate alpha(body) for every equation to a fixed point
//  5. apply the restriction pushers (ApplyAlpha) to the initial expression
//  6. rebuild the dependency graph one final time and emit the result
func Run(a *ast.Arena, spec *ast.ProcessSpec, cfg config.DriverConfig, diag *diagnostics.Sink) (*Result, error) {
	if diag == nil {
		diag = diagnostics.NewSink(nil)
	}

	info := classify.Classify(spec, diag)

	if cfg.EnableNParallelExpansion {
		expanded, changed := classify.ExpandNParallel(a, spec, info, diag)
		if changed {
			spec = expanded
			info = classify.Classify(spec, diag)
		}
	}

	sync := mact.NewCache()
	cache := alphabet.NewCache()
	calc := alphabet.NewCalculator(a, spec, cache, sync)

	stable := iterateToFixedPoint(calc, spec, cfg, diag)

	ctx := restrict.NewContext(a, calc, sync, spec, diag)
	ctx.SetClassification(info)

	reducedInit, err := ctx.ApplyAlpha(spec.Init)
	if err != nil {
		return nil, err
	}

	finalSpec := *spec
	finalSpec.Init = reducedInit
	// Equation cloning during PushAllow may have appended equations to
	// spec.Equations directly (restrict.Context mutates the shared spec
	// pointer), so finalSpec already reflects them.
	finalSpec.Equations = reachableEquations(&finalSpec)

	return &Result{
		Spec:       &finalSpec,
		Classified: info,
		Alphabets:  calc.EquationAlpha,
		Stable:     stable,
		Clones:     ctx.Clones,
	}, nil
}

// iterateToFixedPoint recomputes every equation's total alphabet against
// the current table until no entry changes, or until cfg.IterationLimit
// iterations have been spent, whichever comes first.
// Initial alphabets start at the empty under-approximation (the zero value
// of calc.EquationAlpha), matching "initialize every equation's alphabet to
// the empty set"; this is sound because GetAlpha only ever under-
// approximates a reference whose equation is not yet in the table.
//
// The per-term alphabet cache is rebuilt at the start of every round: a
// term that references an equation whose alphabet grew on the previous
// round must be re-walked, or its parent would keep returning the
// alphabet it had the first time it was visited (the per-term cache
// exists to avoid recomputing within one alpha_L(P) call, not to survive
// across fixed-point rounds).
func iterateToFixedPoint(calc *alphabet.Calculator, spec *ast.ProcessSpec, cfg config.DriverConfig, diag *diagnostics.Sink) bool {
	for _, eq := range spec.Equations {
		if _, ok := calc.EquationAlpha[eq.Name]; !ok {
			calc.EquationAlpha[eq.Name] = nil
		}
	}

	limit := cfg.IterationLimit
	iter := 0
	for {
		iter++
		calc.Cache = alphabet.NewCache()
		changed := false
		for _, eq := range spec.Equations {
			fresh := calc.GetAlpha(eq.Body, 0, nil)
			prev := calc.EquationAlpha[eq.Name]
			if !alphabet.Equal(fresh, prev) {
				calc.EquationAlpha[eq.Name] = alphabet.UnionMA(prev, fresh)
				changed = true
			}
		}
		if !changed {
			return true
		}
		if limit > 0 && iter >= limit {
			diag.Warnf("%s", errs.New(errs.AlphabetNotConverged, "alphabet fixed point did not converge within %d iterations", limit).Error())
			return false
		}
	}
}

// reachableEquations rebuilds the dependency graph one final time and keeps,
// in declaration order, only the equations still referenced transitively
// from the initial expression. Equations minted by PushAllow sit at the end
// of the list and survive on the same terms: they are kept exactly when the
// reduced init (or another surviving equation) still calls them.
func reachableEquations(spec *ast.ProcessSpec) []*ast.ProcessEquation {
	g := classify.DependencyGraph(spec)
	reached := map[string]bool{}
	queue := traverse.ReferencedProcessNames(spec.Init)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if reached[name] {
			continue
		}
		reached[name] = true
		queue = append(queue, g[name]...)
	}
	var out []*ast.ProcessEquation
	for _, eq := range spec.Equations {
		if reached[eq.Name] {
			out = append(out, eq)
		}
	}
	return out
}

// DependencyGraph re-exposes classify.DependencyGraph for callers that only
// have a driver.Result, so the server/CLI layer does not need to import
// classify directly just to render a dependency view.
func DependencyGraph(spec *ast.ProcessSpec) map[string][]string {
	return classify.DependencyGraph(spec)
}
