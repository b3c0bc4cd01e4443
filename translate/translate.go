package translate

import (
	"github.com/mcrl2-go/symbolic/ast"
	"github.com/mcrl2-go/symbolic/config"
	"github.com/mcrl2-go/symbolic/diagnostics"
	"github.com/mcrl2-go/symbolic/errs"
	"github.com/mcrl2-go/symbolic/internal/ids"
)

// Translate runs the full modal-mu-calculus-to-PBES pipeline:
// reject non-monotonous input, wrap a non-binder formula in a fresh outer ν,
// pick the timed or untimed variant, walk the (negation-normalised) formula
// with E to produce every equation, and post-process the result.
func Translate(arena *ast.Arena, phi *ast.StateFormula, lps *ast.LinearProcess, cfg config.TranslateConfig, diag *diagnostics.Sink) (*ast.PBES, error) {
	if diag == nil {
		diag = diagnostics.NewSink(nil)
	}
	if !Monotonous(phi) {
		return nil, errs.New(errs.NonMonotonousFormula, "formula is not monotonous").WithSubterm(phi)
	}

	phi0 := phi
	if !phi.IsFixpoint() {
		phi0 = arena.SFNu(ids.FreshProcessName("X"), nil, nil, phi)
	}

	timed := cfg.Timed || lps.Timed() || formulaIsTimed(phi0)
	workingLPS := lps
	var t ast.DataExpr
	if timed {
		workingLPS = ensureTimed(lps)
		t = ast.DataVariable{Name: tVarName, VSort: timeSort}
	}

	normalized := PushNegations(arena, phi0)

	eqs := E(arena, normalized, normalized, workingLPS, t)
	if len(eqs) == 0 {
		diag.Warnf("translation produced no equations for formula %s", phi.String())
	}

	initArgs := callArgs(t, nil, workingLPS, Par(normalized.VarName, nil, normalized))
	init := arena.PVI(normalized.VarName, initArgs)

	dataSpec := ast.NewDataSpec()
	usedSorts := sortsUsedBy(workingLPS, normalized, t)
	ast.CompleteDataSpec(dataSpec, usedSorts)

	pbes := &ast.PBES{
		DataSpec:   dataSpec,
		GlobalVars: nil,
		Equations:  eqs,
		Init:       init,
	}

	if cfg.NormalizeOutput {
		for _, eq := range pbes.Equations {
			eq.Body = FoldConstants(eq.Body)
		}
		pbes.Init = FoldConstants(pbes.Init)
		pbes = RemoveUnusedParameters(pbes)
	}

	for _, eq := range pbes.Equations {
		if !equationMonotonous(eq) {
			diag.Warnf("translated equation %s may not be monotonous after negation pushing", eq.Var.Name)
		}
	}

	return pbes, nil
}

// formulaIsTimed reports whether phi mentions a timed yaled/delay/at
// construct anywhere, which forces the timed translation variant even when
// the caller's config didn't request it.
func formulaIsTimed(phi *ast.StateFormula) bool {
	found := false
	var walk func(f *ast.StateFormula)
	walk = func(f *ast.StateFormula) {
		if f == nil || found {
			return
		}
		switch f.Kind {
		case ast.SFYaledTimed, ast.SFDelayTimed:
			found = true
		case ast.SFNot, ast.SFForall, ast.SFExists, ast.SFMust, ast.SFMay, ast.SFMu, ast.SFNu:
			if f.Action != nil && actionFormulaIsTimed(f.Action) {
				found = true
			}
			walk(f.Operand)
		case ast.SFAnd, ast.SFOr, ast.SFImp:
			walk(f.Left)
			walk(f.Right)
		}
	}
	walk(phi)
	return found
}

func actionFormulaIsTimed(a *ast.ActionFormula) bool {
	switch a.Kind {
	case ast.AFAt:
		return true
	case ast.AFNot:
		return actionFormulaIsTimed(a.Operand)
	case ast.AFAnd, ast.AFOr, ast.AFImp:
		return actionFormulaIsTimed(a.Left) || actionFormulaIsTimed(a.Right)
	case ast.AFForall, ast.AFExists:
		return actionFormulaIsTimed(a.Operand)
	default:
		return false
	}
}

// ensureTimed associates a fresh time parameter with every summand of lps
// that lacks one, without disturbing summands that already carry one.
func ensureTimed(lps *ast.LinearProcess) *ast.LinearProcess {
	out := *lps
	out.Summands = make([]ast.Summand, len(lps.Summands))
	for i, s := range lps.Summands {
		cp := s
		if cp.Time == nil {
			fresh := ast.DataVariable{Name: ids.FreshProcessName("t"), VSort: timeSort}
			cp.Vars = append(append([]ast.DataVariable(nil), s.Vars...), fresh)
			cp.Time = fresh
		}
		out.Summands[i] = cp
	}
	return &out
}

func sortsUsedBy(lps *ast.LinearProcess, phi0 *ast.StateFormula, t ast.DataExpr) []*ast.Sort {
	seen := map[*ast.Sort]bool{}
	var out []*ast.Sort
	add := func(s *ast.Sort) {
		if s != nil && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, p := range lps.Parameters {
		add(p.VSort)
	}
	for _, s := range lps.Summands {
		for _, v := range s.Vars {
			add(v.VSort)
		}
	}
	if t != nil {
		add(timeSort)
	}
	return out
}

// equationMonotonous is Monotonous specialised to check a single already-
// translated PBES equation's body for a negated propositional-variable
// occurrence, used as a final post-processing sanity check.
func equationMonotonous(eq *ast.PBESEquation) bool {
	ok := true
	var walk func(e *ast.PBESExpr, neg bool)
	walk = func(e *ast.PBESExpr, neg bool) {
		if e == nil || !ok {
			return
		}
		switch e.Kind {
		case ast.PBESVarInstance:
			if neg {
				ok = false
			}
		case ast.PBESNot:
			walk(e.Operand, !neg)
		case ast.PBESAnd, ast.PBESOr:
			walk(e.Left, neg)
			walk(e.Right, neg)
		case ast.PBESImp:
			walk(e.Left, !neg)
			walk(e.Right, neg)
		case ast.PBESForall, ast.PBESExists:
			walk(e.Operand, neg)
		}
	}
	walk(eq.Body, false)
	return ok
}
