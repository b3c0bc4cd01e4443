package translate

import "github.com/mcrl2-go/symbolic/ast"

// E walks phi (already negation-free) collecting one PBES equation per
// fixpoint binder it contains: mu
// becomes a least-fixpoint equation, nu a greatest-fixpoint equation, the
// propositional variable's parameter list is T . xf . xp . Par(X, nil,
// phi0), and the body is RHS(phi0, binder-body, L, T). Binders are walked in
// the order they're first reached so the outermost equation comes first.
func E(arena *ast.Arena, phi0, phi *ast.StateFormula, lps *ast.LinearProcess, t ast.DataExpr) []*ast.PBESEquation {
	var eqs []*ast.PBESEquation
	var walk func(f *ast.StateFormula)
	walk = func(f *ast.StateFormula) {
		if f == nil {
			return
		}
		switch f.Kind {
		case ast.SFMu, ast.SFNu:
			sym := ast.Nu
			if f.Kind == ast.SFMu {
				sym = ast.Mu
			}
			params := fixpointParams(f, lps, t, phi0)
			body := RHS(arena, phi0, f.Operand, lps, t)
			eqs = append(eqs, &ast.PBESEquation{
				Symbol: sym,
				Var:    ast.PropositionalVariable{Name: f.VarName, Params: params},
				Body:   body,
			})
			walk(f.Operand)
		case ast.SFNot:
			walk(f.Operand)
		case ast.SFAnd, ast.SFOr, ast.SFImp:
			walk(f.Left)
			walk(f.Right)
		case ast.SFForall, ast.SFExists, ast.SFMust, ast.SFMay:
			walk(f.Operand)
		}
	}
	walk(phi)
	return eqs
}

// fixpointParams builds T . xf . xp . Par(X, nil, phi0), the formal
// parameter list of the equation defining f.VarName.
func fixpointParams(f *ast.StateFormula, lps *ast.LinearProcess, t ast.DataExpr, phi0 *ast.StateFormula) []ast.DataVariable {
	var params []ast.DataVariable
	if t != nil {
		params = append(params, ast.DataVariable{Name: tVarName, VSort: timeSort})
	}
	params = append(params, f.FixVars...)
	params = append(params, lps.Parameters...)
	params = append(params, Par(f.VarName, nil, phi0)...)
	return dedupVars(params)
}

var timeSort = &ast.Sort{Kind: ast.SortBasic, Name: "Real"}
