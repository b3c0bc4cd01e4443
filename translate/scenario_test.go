package translate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcrl2-go/symbolic/ast"
	"github.com/mcrl2-go/symbolic/config"
	"github.com/mcrl2-go/symbolic/parsing"
)

func collectPVIs(e *ast.PBESExpr) []*ast.PBESExpr {
	var out []*ast.PBESExpr
	var walk func(x *ast.PBESExpr)
	walk = func(x *ast.PBESExpr) {
		if x == nil {
			return
		}
		if x.Kind == ast.PBESVarInstance {
			out = append(out, x)
		}
		walk(x.Operand)
		walk(x.Left)
		walk(x.Right)
	}
	walk(e)
	return out
}

func collectQuantifiers(e *ast.PBESExpr, kind ast.PBESExprKind) []*ast.PBESExpr {
	var out []*ast.PBESExpr
	var walk func(x *ast.PBESExpr)
	walk = func(x *ast.PBESExpr) {
		if x == nil {
			return
		}
		if x.Kind == kind {
			out = append(out, x)
		}
		walk(x.Operand)
		walk(x.Left)
		walk(x.Right)
	}
	walk(e)
	return out
}

// S = a.S against nu X. [a] X: a single greatest-fixpoint equation whose
// body leads back to X() unconditionally.
func TestTranslate_SelfLoopInvariantFormula(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()

	phi := b.Nu("X", nil, nil, b.Must(b.MultiActionLiteral("a"), b.StateVar("X")))
	lps := &ast.LinearProcess{Summands: []ast.Summand{oneActionSummand(b, "a")}}

	pbes, err := Translate(b.Arena, phi, lps, config.TranslateConfig{}, nil)
	if !assert.NoError(err) {
		return
	}
	if !assert.Len(pbes.Equations, 1) {
		return
	}
	eq := pbes.Equations[0]
	assert.Equal(ast.Nu, eq.Symbol)
	assert.Equal("X", eq.Var.Name)
	assert.Empty(eq.Var.Params)
	assert.True(equationMonotonous(eq))

	pvis := collectPVIs(eq.Body)
	if !assert.Len(pvis, 1) {
		return
	}
	assert.Equal("X", pvis[0].VarName)
	assert.Empty(pvis[0].Args)

	assert.Equal("X", pbes.Init.VarName)
	assert.Empty(pbes.Init.Args)
}

// P(n:Nat) = (n > 2) -> a.P(n+1) against nu X. ([true] X && forall m:Nat.
// [a] false): the equation is parameterised by n, the inner forall ranges
// over m, and the recursive call instantiates n with the summand's n+1.
func TestTranslate_ParameterisedMustInstantiatesNextState(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()

	nat := b.Sort("Nat")
	n := ast.DataVariable{Name: "n", VSort: nat}
	m := ast.DataVariable{Name: "m", VSort: nat}
	two := ast.DataApplication{Head: "2", RSort: nat}
	one := ast.DataApplication{Head: "1", RSort: nat}
	nPlusOne := ast.DataApplication{Head: "+", Args: []ast.DataExpr{n, one}, RSort: nat}

	lps := &ast.LinearProcess{
		Parameters: []ast.DataVariable{n},
		Summands: []ast.Summand{{
			Cond:        ast.DataApplication{Head: ">", Args: []ast.DataExpr{n, two}},
			Action:      b.Arena.NewMultiAction([]*ast.Action{b.Act("a")}),
			Assignments: []ast.Assignment{{Param: "n", Value: nPlusOne}},
		}},
	}

	phi := b.Nu("X", nil, nil,
		b.Arena.SFAnd(
			b.Must(b.Arena.AFTrue(), b.StateVar("X")),
			b.Arena.SFForall([]ast.DataVariable{m}, b.Must(b.MultiActionLiteral("a"), b.Arena.SFFalse())),
		))

	pbes, err := Translate(b.Arena, phi, lps, config.TranslateConfig{}, nil)
	if !assert.NoError(err) {
		return
	}
	if !assert.Len(pbes.Equations, 1) {
		return
	}
	eq := pbes.Equations[0]
	assert.Equal(ast.Nu, eq.Symbol)
	assert.Equal([]ast.DataVariable{n}, eq.Var.Params)
	assert.True(equationMonotonous(eq))

	// the inner forall over the data variable m survives
	foralls := collectQuantifiers(eq.Body, ast.PBESForall)
	foundM := false
	for _, q := range foralls {
		for _, v := range q.Vars {
			if v.Name == "m" {
				foundM = true
			}
		}
	}
	assert.True(foundM, "forall m:Nat was lost in translation")

	// the recursive call carries the summand's next state n+1
	pvis := collectPVIs(eq.Body)
	foundNext := false
	for _, pvi := range pvis {
		for _, arg := range pvi.Args {
			if arg.Equal(nPlusOne) {
				foundNext = true
			}
		}
	}
	assert.True(foundNext, "no X(...) call instantiates n with n+1")
}

// <a>[a]false is not a fixpoint formula, so it is wrapped in a fresh outer
// nu whose equation becomes the initial variable.
func TestTranslate_MayMustChainWrapsInFreshNu(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()

	phi := b.May(b.MultiActionLiteral("a"), b.Must(b.MultiActionLiteral("a"), b.Arena.SFFalse()))
	lps := &ast.LinearProcess{Summands: []ast.Summand{oneActionSummand(b, "a")}}

	pbes, err := Translate(b.Arena, phi, lps, config.TranslateConfig{}, nil)
	if !assert.NoError(err) {
		return
	}
	if !assert.Len(pbes.Equations, 1) {
		return
	}
	eq := pbes.Equations[0]
	assert.Equal(ast.Nu, eq.Symbol)
	assert.True(strings.HasPrefix(eq.Var.Name, "X"))
	assert.Equal(eq.Var.Name, pbes.Init.VarName)
	assert.True(equationMonotonous(eq))

	// may over one summand: an exists at the top of the body
	assert.NotEmpty(collectQuantifiers(eq.Body, ast.PBESExists))
}

func TestTranslate_TimedVariantThreadsTimeParameter(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()

	phi := b.Nu("X", nil, nil, b.Must(b.MultiActionLiteral("a"), b.StateVar("X")))
	lps := &ast.LinearProcess{Summands: []ast.Summand{oneActionSummand(b, "a")}}

	pbes, err := Translate(b.Arena, phi, lps, config.TranslateConfig{Timed: true}, nil)
	if !assert.NoError(err) {
		return
	}
	if !assert.Len(pbes.Equations, 1) {
		return
	}
	eq := pbes.Equations[0]
	if !assert.NotEmpty(eq.Var.Params) {
		return
	}
	assert.Equal("T", eq.Var.Params[0].Name)

	if !assert.NotEmpty(pbes.Init.Args) {
		return
	}
	assert.Equal(ast.DataVariable{Name: "T", VSort: eq.Var.Params[0].VSort}, pbes.Init.Args[0])
}
