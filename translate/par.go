package translate

import "github.com/mcrl2-go/symbolic/ast"

// Par returns the data variables bound by quantifiers and fixpoints inside
// phi0 that are in scope at the point where propositional variable name is
// bound, augmented with the explicit context l. Par depends only on where name is *bound* in phi0, not on any one
// occurrence of a call to it, since every call to a propositional variable
// must supply exactly the parameters fixed at its defining binder.
func Par(name string, l []ast.DataVariable, phi0 *ast.StateFormula) []ast.DataVariable {
	var found []ast.DataVariable
	var scope []ast.DataVariable

	var walk func(f *ast.StateFormula)
	walk = func(f *ast.StateFormula) {
		if f == nil || found != nil {
			return
		}
		switch f.Kind {
		case ast.SFForall, ast.SFExists:
			scope = append(scope, f.Vars...)
			walk(f.Operand)
			scope = scope[:len(scope)-len(f.Vars)]
		case ast.SFMu, ast.SFNu:
			scope = append(scope, f.FixVars...)
			if f.VarName == name {
				found = append([]ast.DataVariable(nil), scope...)
			}
			walk(f.Operand)
			scope = scope[:len(scope)-len(f.FixVars)]
		case ast.SFNot, ast.SFMust, ast.SFMay:
			walk(f.Operand)
		case ast.SFAnd, ast.SFOr, ast.SFImp:
			walk(f.Left)
			walk(f.Right)
		}
	}
	walk(phi0)

	return dedupVars(append(append([]ast.DataVariable(nil), found...), l...))
}

func dedupVars(vars []ast.DataVariable) []ast.DataVariable {
	seen := map[string]bool{}
	var out []ast.DataVariable
	for _, v := range vars {
		if !seen[v.Name] {
			seen[v.Name] = true
			out = append(out, v)
		}
	}
	return out
}

func dataVarsToExprs(vars []ast.DataVariable) []ast.DataExpr {
	out := make([]ast.DataExpr, len(vars))
	for i, v := range vars {
		out[i] = v
	}
	return out
}
