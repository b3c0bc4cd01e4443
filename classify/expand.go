package classify

import (
	"strconv"

	"github.com/mcrl2-go/symbolic/ast"
	"github.com/mcrl2-go/symbolic/diagnostics"
	"github.com/mcrl2-go/symbolic/errs"
	"github.com/mcrl2-go/symbolic/traverse"
)

// ExpandNParallel materialises every equation classified FormNPCRL (section
// 4.7): for each call P(k, ...) where k resolves to a known Pos constant, it
// replaces the call with Q(1,...) || Q(2,...) || ... || Q(k,...). If every
// call to P across the spec could be expanded, the original equation P is
// dropped; otherwise both coexist and a diagnostic is emitted. Returns the
// rewritten spec and whether any substitution happened (the driver rebuilds
// its dependency graph only when this is true).
func ExpandNParallel(a *ast.Arena, spec *ast.ProcessSpec, info map[string]*EquationInfo, diag *diagnostics.Sink) (*ast.ProcessSpec, bool) {
	if diag == nil {
		diag = diagnostics.NewSink(nil)
	}
	changed := false
	out := *spec
	out.Equations = append([]*ast.ProcessEquation(nil), spec.Equations...)

	for name, eqInfo := range info {
		if eqInfo.Form != FormNPCRL || eqInfo.NParallelQ == "" {
			continue
		}
		allOK := true
		rewrite := func(n *ast.Process) *ast.Process {
			if n.Kind != ast.ProcRef || n.ProcName != name {
				return n
			}
			expanded, ok := expandCall(a, spec, n, eqInfo.NParallelQ)
			if !ok {
				allOK = false
				diag.RecordErr(diagnostics.Warning, errs.New(errs.EvaluationFailure,
					"n-parallel expansion of %s skipped at a call site: Pos constant not known", name).WithSubterm(n))
				return n
			}
			changed = true
			return expanded
		}
		for i, eq := range out.Equations {
			if eq.Name == name {
				continue // the defining equation's own self-calls are handled by the driver's cloning, not here
			}
			newBody := traverse.MapProcess(a, eq.Body, rewrite)
			if newBody != eq.Body {
				cp := *eq
				cp.Body = newBody
				out.Equations[i] = &cp
			}
		}
		out.Init = traverse.MapProcess(a, out.Init, rewrite)

		if allOK {
			out.Equations = removeEquationNamed(out.Equations, name)
		} else {
			diag.Warnf("n-parallel expansion for %s could not be applied at every call site; keeping both the original and its expansions", name)
		}
	}
	return &out, changed
}

func removeEquationNamed(eqs []*ast.ProcessEquation, name string) []*ast.ProcessEquation {
	out := eqs[:0:0]
	for _, eq := range eqs {
		if eq.Name != name {
			out = append(out, eq)
		}
	}
	return out
}

// expandCall resolves the replication count from n's first argument and
// builds Q(1,rest...) || ... || Q(k,rest...).
func expandCall(a *ast.Arena, spec *ast.ProcessSpec, n *ast.Process, qName string) (*ast.Process, bool) {
	if len(n.RefArgs) == 0 {
		return nil, false
	}
	k, ok := resolvePosConstant(spec, n.RefArgs[0])
	if !ok || k < 1 {
		return nil, false
	}
	rest := n.RefArgs[1:]
	var acc *ast.Process
	for i := 1; i <= k; i++ {
		idx := ast.DataApplication{Head: strconv.Itoa(i), RSort: posSort}
		args := append([]ast.DataExpr{ast.DataExpr(idx)}, rest...)
		call := a.ProcessRef(qName, args)
		if acc == nil {
			acc = call
		} else {
			acc = a.Merge(acc, call)
		}
	}
	return acc, true
}

var posSort = &ast.Sort{Kind: ast.SortBasic, Name: "Pos"}

// resolvePosConstant evaluates a data expression to a known positive
// integer: either a literal numeral or a reference to a data-specification
// constant of the form "c : Pos; c = k".
func resolvePosConstant(spec *ast.ProcessSpec, e ast.DataExpr) (int, bool) {
	switch t := e.(type) {
	case ast.DataApplication:
		if len(t.Args) == 0 {
			if n, err := strconv.Atoi(t.Head); err == nil {
				return n, true
			}
			if spec.DataSpec != nil {
				if v, ok := spec.DataSpec.PosConstants[t.Head]; ok {
					return v, true
				}
			}
		}
	case ast.DataVariable:
		if spec.DataSpec != nil {
			if v, ok := spec.DataSpec.PosConstants[t.Name]; ok {
				return v, true
			}
		}
	}
	return 0, false
}
