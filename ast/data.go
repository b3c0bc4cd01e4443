package ast

import (
	"fmt"
	"sort"
	"strings"
)

// DataExpr is the opaque data-expression leaf the core consumes and
// reproduces but never interprets. Sort/type checking and the concrete
// rewriter live outside this module (see rewriter.Rewriter); DataExpr only
// needs enough structure for the translator to build substitutions, compare
// time-stamps, and print results.
type DataExpr interface {
	String() string
	Equal(o DataExpr) bool
	Sort() *Sort
	FreeVariables() []DataVariable
}

// DataVariable is a single typed data variable, e.g. a summand-local
// parameter or a quantifier-bound variable.
type DataVariable struct {
	Name  string
	VSort *Sort
}

func (v DataVariable) String() string { return v.Name }

func (v DataVariable) Equal(o DataExpr) bool {
	other, ok := o.(DataVariable)
	if !ok {
		return false
	}
	return v.Name == other.Name && v.VSort.Equal(other.VSort)
}

func (v DataVariable) Sort() *Sort { return v.VSort }

func (v DataVariable) FreeVariables() []DataVariable { return []DataVariable{v} }

// DataApplication is either a nullary constant (Head, no Args) or an n-ary
// function application over other DataExprs. Operators like "=", "&&", "+"
// are represented as applications of their identifier ("equal_to", "and",
// "plus", ...) the way the jitty rewriter's internal representation does.
type DataApplication struct {
	Head string
	Args []DataExpr
	RSort *Sort
}

func (a DataApplication) String() string {
	if len(a.Args) == 0 {
		return a.Head
	}
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		parts[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", a.Head, strings.Join(parts, ", "))
}

func (a DataApplication) Equal(o DataExpr) bool {
	other, ok := o.(DataApplication)
	if !ok {
		return false
	}
	if a.Head != other.Head || len(a.Args) != len(other.Args) {
		return false
	}
	for i := range a.Args {
		if !a.Args[i].Equal(other.Args[i]) {
			return false
		}
	}
	return true
}

func (a DataApplication) Sort() *Sort { return a.RSort }

func (a DataApplication) FreeVariables() []DataVariable {
	var vars []DataVariable
	seen := map[string]bool{}
	for _, arg := range a.Args {
		for _, v := range arg.FreeVariables() {
			if !seen[v.Name] {
				seen[v.Name] = true
				vars = append(vars, v)
			}
		}
	}
	return vars
}

// True and False are the two data-expression boolean literals used
// throughout guard construction.
var (
	boolSort = &Sort{Kind: SortBasic, Name: "Bool"}
	True     DataExpr = DataApplication{Head: "true", RSort: boolSort}
	False    DataExpr = DataApplication{Head: "false", RSort: boolSort}
)

// And, Or, Not, Equal build the usual boolean connectives over data
// expressions; used by Sat (translate package) to combine guard conditions.
func DataAnd(l, r DataExpr) DataExpr {
	return DataApplication{Head: "and", Args: []DataExpr{l, r}, RSort: boolSort}
}

func DataOr(l, r DataExpr) DataExpr {
	return DataApplication{Head: "or", Args: []DataExpr{l, r}, RSort: boolSort}
}

func DataNot(e DataExpr) DataExpr {
	return DataApplication{Head: "not", Args: []DataExpr{e}, RSort: boolSort}
}

func DataEqual(l, r DataExpr) DataExpr {
	return DataApplication{Head: "equal_to", Args: []DataExpr{l, r}, RSort: boolSort}
}

// DataLE and DataGT build the comparisons the translator needs for timed
// summand guards ("t <= t_i", "t_i > T").
func DataLE(l, r DataExpr) DataExpr {
	return DataApplication{Head: "less_equal", Args: []DataExpr{l, r}, RSort: boolSort}
}

func DataGT(l, r DataExpr) DataExpr {
	return DataApplication{Head: "greater", Args: []DataExpr{l, r}, RSort: boolSort}
}

// Substitute applies a variable -> DataExpr substitution throughout e,
// returning a fresh expression. Substitutions are total over the map; a
// variable not present in subst is left unchanged.
func Substitute(e DataExpr, subst map[string]DataExpr) DataExpr {
	switch t := e.(type) {
	case DataVariable:
		if r, ok := subst[t.Name]; ok {
			return r
		}
		return t
	case DataApplication:
		if len(t.Args) == 0 {
			return t
		}
		newArgs := make([]DataExpr, len(t.Args))
		for i, a := range t.Args {
			newArgs[i] = Substitute(a, subst)
		}
		return DataApplication{Head: t.Head, Args: newArgs, RSort: t.RSort}
	default:
		return e
	}
}

// FreshVariables renames each variable in vars to a name disjoint from
// avoid, preserving sorts. Used by Sat's forall/exists case to
// rename quantified variables before substituting into the multi-action's
// free variables.
func FreshVariables(vars []DataVariable, avoid map[string]bool) []DataVariable {
	fresh := make([]DataVariable, len(vars))
	used := map[string]bool{}
	for k := range avoid {
		used[k] = true
	}
	for i, v := range vars {
		name := v.Name
		for used[name] {
			name = name + "'"
		}
		used[name] = true
		fresh[i] = DataVariable{Name: name, VSort: v.VSort}
	}
	return fresh
}

// NameSet renders a sorted, de-duplicated, comma joined set of names; used
// by String() implementations across the AST for block/hide name sets.
func NameSet(names []string) string {
	cp := append([]string(nil), names...)
	sort.Strings(cp)
	return strings.Join(cp, ", ")
}
