package translate

import "github.com/mcrl2-go/symbolic/ast"

// negatedName derives the name of a fixpoint variable's negated dual. Folding
// relies on double negation being collapsed directly (see negate's SFNot
// case) rather than on this suffix ever being stripped back off.
func negatedName(name string) string { return name + "_neg" }

// PushNegations normalises phi so that every SFNot has been eliminated by
// pushing it to the leaves, applied ahead of RHS/E rather than lazily
// inside them, so both operate over an already negation-free tree.
func PushNegations(arena *ast.Arena, f *ast.StateFormula) *ast.StateFormula {
	if f == nil {
		return nil
	}
	switch f.Kind {
	case ast.SFTrue, ast.SFFalse, ast.SFData, ast.SFYaled, ast.SFDelay,
		ast.SFYaledTimed, ast.SFDelayTimed, ast.SFVariable:
		return f
	case ast.SFNot:
		return negate(arena, f.Operand)
	case ast.SFAnd:
		return arena.SFAnd(PushNegations(arena, f.Left), PushNegations(arena, f.Right))
	case ast.SFOr:
		return arena.SFOr(PushNegations(arena, f.Left), PushNegations(arena, f.Right))
	case ast.SFImp:
		return arena.SFOr(negate(arena, f.Left), PushNegations(arena, f.Right))
	case ast.SFForall:
		return arena.SFForall(f.Vars, PushNegations(arena, f.Operand))
	case ast.SFExists:
		return arena.SFExists(f.Vars, PushNegations(arena, f.Operand))
	case ast.SFMust:
		return arena.SFMust(f.Action, PushNegations(arena, f.Operand))
	case ast.SFMay:
		return arena.SFMay(f.Action, PushNegations(arena, f.Operand))
	case ast.SFMu:
		return arena.SFMu(f.VarName, f.FixVars, f.FixInit, PushNegations(arena, f.Operand))
	case ast.SFNu:
		return arena.SFNu(f.VarName, f.FixVars, f.FixInit, PushNegations(arena, f.Operand))
	default:
		return f
	}
}

// negate computes the dual of f: not-must becomes may-not, not-forall
// becomes exists-not, not-mu becomes nu-not with renaming of the bound
// propositional variable, and so on. Double negation folds directly instead of re-entering negate.
func negate(arena *ast.Arena, f *ast.StateFormula) *ast.StateFormula {
	switch f.Kind {
	case ast.SFTrue:
		return arena.SFFalse()
	case ast.SFFalse:
		return arena.SFTrue()
	case ast.SFData:
		return arena.SFDataExpr(ast.DataNot(f.Data))
	case ast.SFNot:
		return PushNegations(arena, f.Operand)
	case ast.SFAnd:
		return arena.SFOr(negate(arena, f.Left), negate(arena, f.Right))
	case ast.SFOr:
		return arena.SFAnd(negate(arena, f.Left), negate(arena, f.Right))
	case ast.SFImp:
		return arena.SFAnd(PushNegations(arena, f.Left), negate(arena, f.Right))
	case ast.SFForall:
		return arena.SFExists(f.Vars, negate(arena, f.Operand))
	case ast.SFExists:
		return arena.SFForall(f.Vars, negate(arena, f.Operand))
	case ast.SFMust:
		return arena.SFMay(f.Action, negate(arena, f.Operand))
	case ast.SFMay:
		return arena.SFMust(f.Action, negate(arena, f.Operand))
	case ast.SFYaled:
		return arena.SFDelay()
	case ast.SFDelay:
		return arena.SFYaled()
	case ast.SFYaledTimed:
		return arena.SFDelayTimed(f.Time)
	case ast.SFDelayTimed:
		return arena.SFYaledTimed(f.Time)
	case ast.SFVariable:
		return arena.SFVariable(negatedName(f.VarName), f.Assignments)
	case ast.SFMu:
		renamed := renameBoundVar(f.Operand, f.VarName, negatedName(f.VarName))
		return arena.SFNu(negatedName(f.VarName), f.FixVars, f.FixInit, negate(arena, renamed))
	case ast.SFNu:
		renamed := renameBoundVar(f.Operand, f.VarName, negatedName(f.VarName))
		return arena.SFMu(negatedName(f.VarName), f.FixVars, f.FixInit, negate(arena, renamed))
	default:
		return f
	}
}

// renameBoundVar rewrites every propositional-variable reference named old
// to new throughout f; used when negating a fixpoint binder so that
// negate_propositional_variable(X, body) also reaches nested occurrences.
func renameBoundVar(f *ast.StateFormula, old, new string) *ast.StateFormula {
	if f == nil {
		return nil
	}
	switch f.Kind {
	case ast.SFVariable:
		if f.VarName == old {
			return &ast.StateFormula{Kind: ast.SFVariable, VarName: new, Assignments: f.Assignments}
		}
		return f
	case ast.SFNot:
		return &ast.StateFormula{Kind: ast.SFNot, Operand: renameBoundVar(f.Operand, old, new)}
	case ast.SFAnd, ast.SFOr, ast.SFImp:
		return &ast.StateFormula{Kind: f.Kind, Left: renameBoundVar(f.Left, old, new), Right: renameBoundVar(f.Right, old, new)}
	case ast.SFForall, ast.SFExists:
		return &ast.StateFormula{Kind: f.Kind, Vars: f.Vars, Operand: renameBoundVar(f.Operand, old, new)}
	case ast.SFMust, ast.SFMay:
		return &ast.StateFormula{Kind: f.Kind, Action: f.Action, Operand: renameBoundVar(f.Operand, old, new)}
	case ast.SFMu, ast.SFNu:
		if f.VarName == old {
			return f // shadowed by an inner binder of the same name
		}
		return &ast.StateFormula{Kind: f.Kind, VarName: f.VarName, FixVars: f.FixVars, FixInit: f.FixInit, Operand: renameBoundVar(f.Operand, old, new)}
	default:
		return f
	}
}

// Monotonous reports whether phi has no propositional-variable occurrence
// under an odd number of negations relative to its own binder.
func Monotonous(phi *ast.StateFormula) bool {
	ok := true
	var walk func(f *ast.StateFormula, neg bool, bound map[string]bool)
	walk = func(f *ast.StateFormula, neg bool, bound map[string]bool) {
		if f == nil || !ok {
			return
		}
		switch f.Kind {
		case ast.SFVariable:
			if neg && bound[f.VarName] {
				ok = false
			}
		case ast.SFNot:
			walk(f.Operand, !neg, bound)
		case ast.SFAnd, ast.SFOr:
			walk(f.Left, neg, bound)
			walk(f.Right, neg, bound)
		case ast.SFImp:
			walk(f.Left, !neg, bound)
			walk(f.Right, neg, bound)
		case ast.SFForall, ast.SFExists:
			walk(f.Operand, neg, bound)
		case ast.SFMust, ast.SFMay:
			walk(f.Operand, neg, bound)
		case ast.SFMu, ast.SFNu:
			nb := make(map[string]bool, len(bound)+1)
			for k := range bound {
				nb[k] = true
			}
			nb[f.VarName] = true
			walk(f.Operand, neg, nb)
		}
	}
	walk(phi, false, map[string]bool{})
	return ok
}

// FoldConstants simplifies trivial PBES boolean connectives produced by a
// translation (and(true, x) -> x, etc.), a lightweight constant-folding pass
// over the post-processing normalizer's remit.
func FoldConstants(e *ast.PBESExpr) *ast.PBESExpr {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ast.PBESNot:
		x := FoldConstants(e.Operand)
		switch x.Kind {
		case ast.PBESTrue:
			return &ast.PBESExpr{Kind: ast.PBESFalse}
		case ast.PBESFalse:
			return &ast.PBESExpr{Kind: ast.PBESTrue}
		default:
			return &ast.PBESExpr{Kind: ast.PBESNot, Operand: x}
		}
	case ast.PBESAnd:
		l, r := FoldConstants(e.Left), FoldConstants(e.Right)
		if l.Kind == ast.PBESFalse || r.Kind == ast.PBESFalse {
			return &ast.PBESExpr{Kind: ast.PBESFalse}
		}
		if l.Kind == ast.PBESTrue {
			return r
		}
		if r.Kind == ast.PBESTrue {
			return l
		}
		return &ast.PBESExpr{Kind: ast.PBESAnd, Left: l, Right: r}
	case ast.PBESOr:
		l, r := FoldConstants(e.Left), FoldConstants(e.Right)
		if l.Kind == ast.PBESTrue || r.Kind == ast.PBESTrue {
			return &ast.PBESExpr{Kind: ast.PBESTrue}
		}
		if l.Kind == ast.PBESFalse {
			return r
		}
		if r.Kind == ast.PBESFalse {
			return l
		}
		return &ast.PBESExpr{Kind: ast.PBESOr, Left: l, Right: r}
	case ast.PBESImp:
		l, r := FoldConstants(e.Left), FoldConstants(e.Right)
		if l.Kind == ast.PBESFalse || r.Kind == ast.PBESTrue {
			return &ast.PBESExpr{Kind: ast.PBESTrue}
		}
		if l.Kind == ast.PBESTrue {
			return r
		}
		return &ast.PBESExpr{Kind: ast.PBESImp, Left: l, Right: r}
	case ast.PBESForall:
		body := FoldConstants(e.Operand)
		if body.Kind == ast.PBESTrue || body.Kind == ast.PBESFalse {
			return body
		}
		return &ast.PBESExpr{Kind: ast.PBESForall, Vars: e.Vars, Operand: body}
	case ast.PBESExists:
		body := FoldConstants(e.Operand)
		if body.Kind == ast.PBESTrue || body.Kind == ast.PBESFalse {
			return body
		}
		return &ast.PBESExpr{Kind: ast.PBESExists, Vars: e.Vars, Operand: body}
	default:
		return e
	}
}
