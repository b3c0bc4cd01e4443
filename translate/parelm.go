package translate

import "github.com/mcrl2-go/symbolic/ast"

// RemoveUnusedParameters drops propositional-variable parameters never read
// by any equation's body: a parameter is used if it occurs free in its own equation's
// body, or if it is ever passed, at a used parameter position, to another
// equation's call. Iterates to a fixed point since usage can propagate
// backward through chains of calls.
func RemoveUnusedParameters(pbes *ast.PBES) *ast.PBES {
	used := make(map[string][]bool, len(pbes.Equations))
	for _, eq := range pbes.Equations {
		used[eq.Var.Name] = make([]bool, len(eq.Var.Params))
	}
	for _, eq := range pbes.Equations {
		markDirectlyUsed(eq, used)
	}

	byName := make(map[string]*ast.PBESEquation, len(pbes.Equations))
	for _, eq := range pbes.Equations {
		byName[eq.Var.Name] = eq
	}

	for changed := true; changed; {
		changed = false
		for _, eq := range pbes.Equations {
			paramIndex := make(map[string]int, len(eq.Var.Params))
			for i, p := range eq.Var.Params {
				paramIndex[p.Name] = i
			}
			forEachCall(eq.Body, func(call *ast.PBESExpr) {
				targetUsed, ok := used[call.VarName]
				if !ok {
					return
				}
				for j, arg := range call.Args {
					if j >= len(targetUsed) || !targetUsed[j] {
						continue
					}
					for _, v := range arg.FreeVariables() {
						if idx, ok := paramIndex[v.Name]; ok && !used[eq.Var.Name][idx] {
							used[eq.Var.Name][idx] = true
							changed = true
						}
					}
				}
			})
		}
	}

	out := *pbes
	out.Equations = make([]*ast.PBESEquation, len(pbes.Equations))
	for i, eq := range pbes.Equations {
		keep := used[eq.Var.Name]
		var newParams []ast.DataVariable
		for j, p := range eq.Var.Params {
			if keep[j] {
				newParams = append(newParams, p)
			}
		}
		cp := *eq
		cp.Var = ast.PropositionalVariable{Name: eq.Var.Name, Params: newParams}
		cp.Body = filterCallArgs(eq.Body, used)
		out.Equations[i] = &cp
	}
	out.Init = filterCallArgs(pbes.Init, used)
	return &out
}

func markDirectlyUsed(eq *ast.PBESEquation, used map[string][]bool) {
	freeSet := map[string]bool{}
	for _, v := range FreeVariables(eq.Body) {
		freeSet[v.Name] = true
	}
	for i, p := range eq.Var.Params {
		if freeSet[p.Name] {
			used[eq.Var.Name][i] = true
		}
	}
}

func forEachCall(e *ast.PBESExpr, f func(*ast.PBESExpr)) {
	if e == nil {
		return
	}
	if e.Kind == ast.PBESVarInstance {
		f(e)
	}
	forEachCall(e.Operand, f)
	forEachCall(e.Left, f)
	forEachCall(e.Right, f)
}

func filterCallArgs(e *ast.PBESExpr, used map[string][]bool) *ast.PBESExpr {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ast.PBESVarInstance:
		keep := used[e.VarName]
		var args []ast.DataExpr
		for i, a := range e.Args {
			if keep == nil || i >= len(keep) || keep[i] {
				args = append(args, a)
			}
		}
		return &ast.PBESExpr{Kind: ast.PBESVarInstance, VarName: e.VarName, Args: args}
	case ast.PBESNot:
		return &ast.PBESExpr{Kind: ast.PBESNot, Operand: filterCallArgs(e.Operand, used)}
	case ast.PBESAnd, ast.PBESOr, ast.PBESImp:
		return &ast.PBESExpr{Kind: e.Kind, Left: filterCallArgs(e.Left, used), Right: filterCallArgs(e.Right, used)}
	case ast.PBESForall, ast.PBESExists:
		return &ast.PBESExpr{Kind: e.Kind, Vars: e.Vars, Operand: filterCallArgs(e.Operand, used)}
	default:
		return e
	}
}
