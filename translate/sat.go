// Package translate implements the modal-mu-calculus-to-PBES translator:
// the Sat, Par, RHS, and E functions that turn
// a state formula plus a linear process into an equivalent parameterised
// boolean equation system, in both the timed and untimed variants.
package translate

import (
	"fmt"

	"github.com/mcrl2-go/symbolic/ast"
)

// Sat builds a PBES expression witnessing that multi-action a satisfies
// action-formula alpha. t is the
// time stamp observed for a (nil when untimed), used only by the "at" case.
func Sat(arena *ast.Arena, a *ast.MultiAction, alpha *ast.ActionFormula, t ast.DataExpr) *ast.PBESExpr {
	switch alpha.Kind {
	case ast.AFTrue:
		return arena.PBESTrueE()
	case ast.AFFalse:
		return arena.PBESFalseE()
	case ast.AFData:
		return arena.PBESDataE(alpha.Data)
	case ast.AFMultiAction:
		return satEqualMultiActions(arena, a, alpha.Literal)
	case ast.AFNot:
		return arena.PBESNotE(Sat(arena, a, alpha.Operand, t))
	case ast.AFAnd:
		return arena.PBESAndE(Sat(arena, a, alpha.Left, t), Sat(arena, a, alpha.Right, t))
	case ast.AFOr:
		return arena.PBESOrE(Sat(arena, a, alpha.Left, t), Sat(arena, a, alpha.Right, t))
	case ast.AFImp:
		return arena.PBESImpE(Sat(arena, a, alpha.Left, t), Sat(arena, a, alpha.Right, t))
	case ast.AFForall, ast.AFExists:
		avoid := map[string]bool{}
		for _, act := range a.Actions {
			for _, v := range act.Args {
				for _, fv := range v.FreeVariables() {
					avoid[fv.Name] = true
				}
			}
		}
		for _, fv := range freeVarsOfActionFormula(alpha) {
			avoid[fv.Name] = true
		}
		fresh := ast.FreshVariables(alpha.Vars, avoid)
		subst := make(map[string]ast.DataExpr, len(fresh))
		for i, v := range alpha.Vars {
			subst[v.Name] = fresh[i]
		}
		renamed := substituteActionFormula(alpha.Operand, subst)
		inner := Sat(arena, a, renamed, t)
		if alpha.Kind == ast.AFForall {
			return arena.PBESForallE(fresh, inner)
		}
		return arena.PBESExistsE(fresh, inner)
	case ast.AFAt:
		sat := Sat(arena, a, alpha.Operand, t)
		if t == nil {
			return sat
		}
		return arena.PBESAndE(sat, arena.PBESDataE(ast.DataEqual(t, alpha.Time)))
	default:
		return arena.PBESFalseE()
	}
}

// satEqualMultiActions implements equal_multi_actions(a, b): same number of
// actions with the same label names in the order MultiAction keeps them
// sorted in, data arguments compared pairwise by data equality.
func satEqualMultiActions(arena *ast.Arena, a, b *ast.MultiAction) *ast.PBESExpr {
	if a.Len() != b.Len() {
		return arena.PBESFalseE()
	}
	var result *ast.PBESExpr
	for i := range a.Actions {
		if a.Actions[i].Label.Name != b.Actions[i].Label.Name {
			return arena.PBESFalseE()
		}
		if len(a.Actions[i].Args) != len(b.Actions[i].Args) {
			return arena.PBESFalseE()
		}
		for j := range a.Actions[i].Args {
			eq := arena.PBESDataE(ast.DataEqual(a.Actions[i].Args[j], b.Actions[i].Args[j]))
			if result == nil {
				result = eq
			} else {
				result = arena.PBESAndE(result, eq)
			}
		}
	}
	if result == nil {
		return arena.PBESTrueE()
	}
	return result
}

func freeVarsOfActionFormula(alpha *ast.ActionFormula) []ast.DataVariable {
	var out []ast.DataVariable
	seen := map[string]bool{}
	add := func(vs []ast.DataVariable) {
		for _, v := range vs {
			if !seen[v.Name] {
				seen[v.Name] = true
				out = append(out, v)
			}
		}
	}
	switch alpha.Kind {
	case ast.AFData:
		add(alpha.Data.FreeVariables())
	case ast.AFMultiAction:
		for _, act := range alpha.Literal.Actions {
			for _, arg := range act.Args {
				add(arg.FreeVariables())
			}
		}
	case ast.AFNot, ast.AFAt:
		add(freeVarsOfActionFormula(alpha.Operand))
	case ast.AFAnd, ast.AFOr, ast.AFImp:
		add(freeVarsOfActionFormula(alpha.Left))
		add(freeVarsOfActionFormula(alpha.Right))
	case ast.AFForall, ast.AFExists:
		bound := map[string]bool{}
		for _, v := range alpha.Vars {
			bound[v.Name] = true
		}
		for _, v := range freeVarsOfActionFormula(alpha.Operand) {
			if !bound[v.Name] {
				add([]ast.DataVariable{v})
			}
		}
	}
	return out
}

// substituteActionFormula applies a data-variable substitution throughout
// an action formula, used to rename quantified variables before recursing
// in Sat's forall/exists case.
func substituteActionFormula(alpha *ast.ActionFormula, subst map[string]ast.DataExpr) *ast.ActionFormula {
	switch alpha.Kind {
	case ast.AFTrue, ast.AFFalse:
		return alpha
	case ast.AFData:
		return &ast.ActionFormula{Kind: ast.AFData, Data: ast.Substitute(alpha.Data, subst)}
	case ast.AFMultiAction:
		acts := make([]*ast.Action, len(alpha.Literal.Actions))
		for i, act := range alpha.Literal.Actions {
			args := make([]ast.DataExpr, len(act.Args))
			for j, a := range act.Args {
				args[j] = ast.Substitute(a, subst)
			}
			acts[i] = &ast.Action{Label: act.Label, Args: args}
		}
		return &ast.ActionFormula{Kind: ast.AFMultiAction, Literal: &ast.MultiAction{Actions: acts}}
	case ast.AFNot:
		return &ast.ActionFormula{Kind: ast.AFNot, Operand: substituteActionFormula(alpha.Operand, subst)}
	case ast.AFAnd, ast.AFOr, ast.AFImp:
		return &ast.ActionFormula{
			Kind: alpha.Kind,
			Left: substituteActionFormula(alpha.Left, subst), Right: substituteActionFormula(alpha.Right, subst),
		}
	case ast.AFForall, ast.AFExists:
		return &ast.ActionFormula{Kind: alpha.Kind, Vars: alpha.Vars, Operand: substituteActionFormula(alpha.Operand, subst)}
	case ast.AFAt:
		return &ast.ActionFormula{Kind: ast.AFAt, Operand: substituteActionFormula(alpha.Operand, subst), Time: ast.Substitute(alpha.Time, subst)}
	default:
		panic(fmt.Sprintf("translate: unhandled action formula kind %d", alpha.Kind))
	}
}
