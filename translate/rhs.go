package translate

import (
	"github.com/mcrl2-go/symbolic/ast"
)

// tVarName is the name reserved for the extra time parameter threaded by
// the timed translation variant.
const tVarName = "T"

// RHS translates one state formula against phi0 (the whole, possibly
// rewritten, top-level formula the translation started from) and linear
// process lps, producing a PBES expression. T is the current time parameter (nil for the untimed variant);
// phi must already have every SFNot pushed to the leaves (see
// PushNegations), so RHS itself never needs to dualize.
func RHS(arena *ast.Arena, phi0, phi *ast.StateFormula, lps *ast.LinearProcess, t ast.DataExpr) *ast.PBESExpr {
	switch phi.Kind {
	case ast.SFTrue:
		return arena.PBESTrueE()
	case ast.SFFalse:
		return arena.PBESFalseE()
	case ast.SFData:
		return arena.PBESDataE(phi.Data)
	case ast.SFAnd:
		return arena.PBESAndE(RHS(arena, phi0, phi.Left, lps, t), RHS(arena, phi0, phi.Right, lps, t))
	case ast.SFOr:
		return arena.PBESOrE(RHS(arena, phi0, phi.Left, lps, t), RHS(arena, phi0, phi.Right, lps, t))
	case ast.SFImp:
		return arena.PBESImpE(RHS(arena, phi0, phi.Left, lps, t), RHS(arena, phi0, phi.Right, lps, t))
	case ast.SFForall:
		return arena.PBESForallE(phi.Vars, RHS(arena, phi0, phi.Operand, lps, t))
	case ast.SFExists:
		return arena.PBESExistsE(phi.Vars, RHS(arena, phi0, phi.Operand, lps, t))
	case ast.SFMust:
		return rhsMust(arena, phi0, phi, lps, t)
	case ast.SFMay:
		return rhsMay(arena, phi0, phi, lps, t)
	case ast.SFDelay:
		return rhsDelay(arena, lps, nil, nil)
	case ast.SFYaled:
		return rhsYaled(arena, lps, nil, nil)
	case ast.SFDelayTimed:
		return rhsDelay(arena, lps, phi.Time, t)
	case ast.SFYaledTimed:
		return rhsYaled(arena, lps, phi.Time, t)
	case ast.SFVariable:
		args := append([]ast.DataExpr{}, assignmentValues(phi.Assignments)...)
		return arena.PVI(phi.VarName, callArgs(t, args, lps, Par(phi.VarName, nil, phi0)))
	case ast.SFMu, ast.SFNu:
		e := append([]ast.DataExpr{}, assignmentValues(phi.FixInit)...)
		return arena.PVI(phi.VarName, callArgs(t, e, lps, Par(phi.VarName, nil, phi0)))
	default:
		return arena.PBESFalseE()
	}
}

func assignmentValues(as []ast.Assignment) []ast.DataExpr {
	out := make([]ast.DataExpr, len(as))
	for i, a := range as {
		out[i] = a.Value
	}
	return out
}

// callArgs builds T . args . xp . par, the argument order every
// propositional-variable-instantiation produced by RHS carries.
func callArgs(t ast.DataExpr, args []ast.DataExpr, lps *ast.LinearProcess, par []ast.DataVariable) []ast.DataExpr {
	var out []ast.DataExpr
	if t != nil {
		out = append(out, t)
	}
	out = append(out, args...)
	out = append(out, dataVarsToExprs(lps.Parameters)...)
	out = append(out, dataVarsToExprs(par)...)
	return out
}

// rhsMust implements must(alpha, psi): the conjunction, over every summand,
// of a forall over the summand's fresh-renamed local variables of
// (Sat(a_i, alpha) && c_i [&& t_i > T]) => RHS(psi)[xp -> g_i, T -> t_i].
func rhsMust(arena *ast.Arena, phi0 *ast.StateFormula, phi *ast.StateFormula, lps *ast.LinearProcess, t ast.DataExpr) *ast.PBESExpr {
	result := arena.PBESTrueE()
	for _, s := range lps.Summands {
		fresh, _ := freshenSummand(s)
		antecedent := arena.PBESAndE(Sat(arena, fresh.Action, phi.Action, fresh.Time), arena.PBESDataE(guardWithTime(fresh, t, false)))
		consequent := substitutePBES(RHS(arena, phi0, phi.Operand, lps, t), nextStateSubst(lps, fresh, t))
		clause := arena.PBESForallE(fresh.Vars, arena.PBESImpE(antecedent, consequent))
		result = arena.PBESAndE(result, clause)
	}
	return result
}

// rhsMay is must's dual: existential over summands, conjunction instead of
// implication.
func rhsMay(arena *ast.Arena, phi0 *ast.StateFormula, phi *ast.StateFormula, lps *ast.LinearProcess, t ast.DataExpr) *ast.PBESExpr {
	result := arena.PBESFalseE()
	for _, s := range lps.Summands {
		fresh, _ := freshenSummand(s)
		antecedent := arena.PBESAndE(Sat(arena, fresh.Action, phi.Action, fresh.Time), arena.PBESDataE(guardWithTime(fresh, t, false)))
		consequent := substitutePBES(RHS(arena, phi0, phi.Operand, lps, t), nextStateSubst(lps, fresh, t))
		clause := arena.PBESExistsE(fresh.Vars, arena.PBESAndE(antecedent, consequent))
		result = arena.PBESOrE(result, clause)
	}
	return result
}

// rhsDelay is the disjunction over enabled summands' guards;
// the timed variant additionally requires t <= t_i per summand and ORs in
// t <= T at the top.
func rhsDelay(arena *ast.Arena, lps *ast.LinearProcess, formulaTime, t ast.DataExpr) *ast.PBESExpr {
	result := arena.PBESFalseE()
	for _, s := range lps.Summands {
		fresh, _ := freshenSummand(s)
		cond := fresh.Cond
		if formulaTime != nil && fresh.Time != nil {
			cond = ast.DataAnd(cond, ast.DataLE(formulaTime, fresh.Time))
		}
		clause := arena.PBESExistsE(fresh.Vars, arena.PBESDataE(cond))
		result = arena.PBESOrE(result, clause)
	}
	if formulaTime != nil && t != nil {
		result = arena.PBESOrE(result, arena.PBESDataE(ast.DataLE(formulaTime, t)))
	}
	return result
}

// rhsYaled is delay's dual: every summand's guard must fail, conjoined with
// t > T for the timed variant.
func rhsYaled(arena *ast.Arena, lps *ast.LinearProcess, formulaTime, t ast.DataExpr) *ast.PBESExpr {
	result := arena.PBESTrueE()
	for _, s := range lps.Summands {
		fresh, _ := freshenSummand(s)
		cond := ast.DataNot(fresh.Cond)
		if formulaTime != nil && fresh.Time != nil {
			cond = ast.DataOr(cond, ast.DataGT(formulaTime, fresh.Time))
		}
		clause := arena.PBESForallE(fresh.Vars, arena.PBESDataE(cond))
		result = arena.PBESAndE(result, clause)
	}
	if formulaTime != nil && t != nil {
		result = arena.PBESAndE(result, arena.PBESDataE(ast.DataGT(formulaTime, t)))
	}
	return result
}

// guardWithTime returns the summand's condition, conjoined with t_i > T when
// the timed variant is active; forMay is accepted for symmetry with future callers even
// though both variants use the same strict inequality.
func guardWithTime(s ast.Summand, t ast.DataExpr, forMay bool) ast.DataExpr {
	if t == nil || s.Time == nil {
		return s.Cond
	}
	return ast.DataAnd(s.Cond, ast.DataGT(s.Time, t))
}

// nextStateSubst builds the [xp -> g_i, T -> t_i] substitution applied to
// RHS(psi)'s PBES expression once per summand, assignment list first,
// then T.
func nextStateSubst(lps *ast.LinearProcess, s ast.Summand, t ast.DataExpr) map[string]ast.DataExpr {
	subst := make(map[string]ast.DataExpr, len(lps.Parameters)+1)
	assigned := map[string]bool{}
	for _, as := range s.Assignments {
		subst[as.Param] = as.Value
		assigned[as.Param] = true
	}
	for _, p := range lps.Parameters {
		if !assigned[p.Name] {
			subst[p.Name] = p
		}
	}
	if t != nil && s.Time != nil {
		subst[tVarName] = s.Time
	}
	return subst
}

// freshenSummand renames s's existentially-bound local variables to names
// disjoint from the process parameters and from each other, returning the
// renamed summand and the substitution used.
func freshenSummand(s ast.Summand) (ast.Summand, map[string]ast.DataExpr) {
	avoid := map[string]bool{}
	for _, v := range s.Vars {
		avoid[v.Name] = true
	}
	fresh := ast.FreshVariables(s.Vars, avoid)
	subst := make(map[string]ast.DataExpr, len(fresh))
	for i, v := range s.Vars {
		subst[v.Name] = fresh[i]
	}

	out := ast.Summand{Vars: fresh, Cond: ast.Substitute(s.Cond, subst)}
	if s.Action != nil {
		acts := make([]*ast.Action, len(s.Action.Actions))
		for i, act := range s.Action.Actions {
			args := make([]ast.DataExpr, len(act.Args))
			for j, a := range act.Args {
				args[j] = ast.Substitute(a, subst)
			}
			acts[i] = &ast.Action{Label: act.Label, Args: args}
		}
		out.Action = &ast.MultiAction{Actions: acts}
	}
	if s.Time != nil {
		out.Time = ast.Substitute(s.Time, subst)
	}
	out.Assignments = make([]ast.Assignment, len(s.Assignments))
	for i, as := range s.Assignments {
		out.Assignments[i] = ast.Assignment{Param: as.Param, Value: ast.Substitute(as.Value, subst)}
	}
	return out, subst
}

// substitutePBES applies a data-variable substitution throughout a PBES
// expression's data-level leaves and call arguments.
func substitutePBES(e *ast.PBESExpr, subst map[string]ast.DataExpr) *ast.PBESExpr {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ast.PBESVarInstance:
		args := make([]ast.DataExpr, len(e.Args))
		for i, a := range e.Args {
			args[i] = ast.Substitute(a, subst)
		}
		return &ast.PBESExpr{Kind: ast.PBESVarInstance, VarName: e.VarName, Args: args}
	case ast.PBESData:
		return &ast.PBESExpr{Kind: ast.PBESData, Data: ast.Substitute(e.Data, subst)}
	case ast.PBESNot:
		return &ast.PBESExpr{Kind: ast.PBESNot, Operand: substitutePBES(e.Operand, subst)}
	case ast.PBESAnd, ast.PBESOr, ast.PBESImp:
		return &ast.PBESExpr{Kind: e.Kind, Left: substitutePBES(e.Left, subst), Right: substitutePBES(e.Right, subst)}
	case ast.PBESForall, ast.PBESExists:
		inner := copyDataSubst(subst)
		for _, v := range e.Vars {
			delete(inner, v.Name)
		}
		return &ast.PBESExpr{Kind: e.Kind, Vars: e.Vars, Operand: substitutePBES(e.Operand, inner)}
	default:
		return e
	}
}

func copyDataSubst(m map[string]ast.DataExpr) map[string]ast.DataExpr {
	out := make(map[string]ast.DataExpr, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
