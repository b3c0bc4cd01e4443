package translate

import "github.com/mcrl2-go/symbolic/ast"

// FreeVariables collects the data variables occurring free in a PBES
// expression, used by parelm.go's usage analysis and exposed standalone for
// diagnostics.
func FreeVariables(e *ast.PBESExpr) []ast.DataVariable {
	return dedupVars(freeVars(e, map[string]bool{}))
}

func freeVars(e *ast.PBESExpr, bound map[string]bool) []ast.DataVariable {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ast.PBESVarInstance:
		var out []ast.DataVariable
		for _, a := range e.Args {
			out = append(out, filterBound(a.FreeVariables(), bound)...)
		}
		return out
	case ast.PBESData:
		return filterBound(e.Data.FreeVariables(), bound)
	case ast.PBESNot:
		return freeVars(e.Operand, bound)
	case ast.PBESAnd, ast.PBESOr, ast.PBESImp:
		return append(freeVars(e.Left, bound), freeVars(e.Right, bound)...)
	case ast.PBESForall, ast.PBESExists:
		nb := copyStrSet(bound)
		for _, v := range e.Vars {
			nb[v.Name] = true
		}
		return freeVars(e.Operand, nb)
	default:
		return nil
	}
}

func filterBound(vs []ast.DataVariable, bound map[string]bool) []ast.DataVariable {
	var out []ast.DataVariable
	for _, v := range vs {
		if !bound[v.Name] {
			out = append(out, v)
		}
	}
	return out
}

func copyStrSet(s map[string]bool) map[string]bool {
	out := make(map[string]bool, len(s))
	for k := range s {
		out[k] = true
	}
	return out
}
