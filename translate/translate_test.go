package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcrl2-go/symbolic/ast"
	"github.com/mcrl2-go/symbolic/config"
	"github.com/mcrl2-go/symbolic/parsing"
)

func TestSat_MultiActionLiteralMatchesSameLabel(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	a := b.Arena.NewMultiAction([]*ast.Action{b.Act("a")})
	alpha := b.MultiActionLiteral("a")
	assert.Equal(b.Arena.PBESTrueE(), Sat(b.Arena, a, alpha, nil))
}

func TestSat_MultiActionLiteralRejectsDifferentLabel(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	a := b.Arena.NewMultiAction([]*ast.Action{b.Act("a")})
	alpha := b.MultiActionLiteral("b")
	assert.Equal(b.Arena.PBESFalseE(), Sat(b.Arena, a, alpha, nil))
}

func TestSat_AndOrNotCompose(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	a := b.Arena.NewMultiAction([]*ast.Action{b.Act("a")})

	and := b.Arena.AFAnd(b.Arena.AFTrue(), b.Arena.AFFalse())
	assert.Equal(b.Arena.PBESAndE(b.Arena.PBESTrueE(), b.Arena.PBESFalseE()), Sat(b.Arena, a, and, nil))

	or := b.Arena.AFOr(b.Arena.AFTrue(), b.Arena.AFFalse())
	assert.Equal(b.Arena.PBESOrE(b.Arena.PBESTrueE(), b.Arena.PBESFalseE()), Sat(b.Arena, a, or, nil))

	not := b.Arena.AFNot(b.Arena.AFTrue())
	assert.Equal(b.Arena.PBESNotE(b.Arena.PBESTrueE()), Sat(b.Arena, a, not, nil))
}

func TestSat_AtUntimedIgnoresTimeClause(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	a := b.Arena.NewMultiAction([]*ast.Action{b.Act("a")})
	at := b.Arena.AFAt(b.MultiActionLiteral("a"), b.Var("five", "Nat"))
	assert.Equal(b.Arena.PBESTrueE(), Sat(b.Arena, a, at, nil))
}

func TestSat_AtTimedAddsEqualityClause(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	a := b.Arena.NewMultiAction([]*ast.Action{b.Act("a")})
	stamp := b.Var("five", "Nat")
	at := b.Arena.AFAt(b.MultiActionLiteral("a"), stamp)
	tVar := b.Var("T", "Nat")

	want := b.Arena.PBESAndE(b.Arena.PBESTrueE(), b.Arena.PBESDataE(ast.DataEqual(tVar, stamp)))
	assert.Equal(want, Sat(b.Arena, a, at, tVar))
}

func TestSat_ForallRenamesBoundVariablesAwayFromActionArgs(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()

	x := b.Var("x", "Nat")
	a := b.Arena.NewMultiAction([]*ast.Action{b.Act("f", x)})

	// forall x: Nat . f(x) -- the bound x collides with the observed action's
	// own free variable, so Sat must rename it before recursing.
	lit := b.Arena.AFMultiActionLit(b.Arena.NewMultiAction([]*ast.Action{b.Act("f", b.Var("x", "Nat"))}))
	alpha := b.Arena.AFForall([]ast.DataVariable{{Name: "x", VSort: b.Sort("Nat")}}, lit)

	result := Sat(b.Arena, a, alpha, nil)
	assert.Equal(ast.PBESForall, result.Kind)
	assert.NotEqual("x", result.Vars[0].Name)
}

func TestPar_FindsScopeAtFixpointBinder(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()

	n := ast.DataVariable{Name: "n", VSort: b.Sort("Nat")}
	body := b.StateVar("X")
	mu := b.Mu("X", []ast.DataVariable{n}, nil, body)

	got := Par("X", nil, mu)
	assert.Equal([]ast.DataVariable{n}, got)
}

func TestPar_ContextIsAppendedAndDeduplicated(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	n := ast.DataVariable{Name: "n", VSort: b.Sort("Nat")}
	mu := b.Mu("X", []ast.DataVariable{n}, nil, b.StateVar("X"))

	got := Par("X", []ast.DataVariable{n}, mu)
	assert.Len(got, 1)
}

func TestPar_UnboundNameYieldsNil(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	mu := b.Mu("X", nil, nil, b.StateVar("X"))
	assert.Nil(Par("Y", nil, mu))
}

func TestPushNegations_DoubleNegationCancels(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	f := b.Arena.SFNot(b.Arena.SFNot(b.Arena.SFTrue()))
	assert.Equal(b.Arena.SFTrue(), PushNegations(b.Arena, f))
}

func TestPushNegations_DeMorganOverAnd(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	f := b.Arena.SFNot(b.Arena.SFAnd(b.Arena.SFTrue(), b.Arena.SFFalse()))
	want := b.Arena.SFOr(b.Arena.SFFalse(), b.Arena.SFTrue())
	assert.Equal(want, PushNegations(b.Arena, f))
}

func TestPushNegations_MustMayDualUnderNegation(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	alpha := b.MultiActionLiteral("a")
	f := b.Arena.SFNot(b.Arena.SFMust(alpha, b.Arena.SFTrue()))
	want := b.Arena.SFMay(alpha, b.Arena.SFFalse())
	assert.Equal(want, PushNegations(b.Arena, f))
}

func TestPushNegations_MuBecomesNuWithRenamedVariable(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	mu := b.Mu("X", nil, nil, b.StateVar("X"))
	f := b.Arena.SFNot(mu)

	result := PushNegations(b.Arena, f)
	assert.Equal(ast.SFNu, result.Kind)
	assert.Equal("X_neg", result.VarName)
	assert.Equal(ast.SFVariable, result.Operand.Kind)
	// the bound occurrence is renamed to X_neg before negate() recurses
	// into it, so a bare variable reference picks up the suffix twice.
	assert.Equal("X_neg_neg", result.Operand.VarName)
}

func TestMonotonous_RejectsNegatedOwnVariable(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	phi := b.Mu("X", nil, nil, b.Arena.SFNot(b.StateVar("X")))
	assert.False(Monotonous(phi))
}

func TestMonotonous_AcceptsPositiveOccurrence(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	phi := b.Mu("X", nil, nil, b.Arena.SFOr(b.StateVar("X"), b.Arena.SFTrue()))
	assert.True(Monotonous(phi))
}

func TestMonotonous_NegatingAnUnboundVariableIsFine(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	// mu X. !Y -- Y isn't bound by any enclosing fixpoint, so negating it
	// doesn't make X's own recursion non-monotonous.
	phi := b.Mu("X", nil, nil, b.Arena.SFNot(b.StateVar("Y")))
	assert.True(Monotonous(phi))
}

func TestMonotonous_NestedBinderStillFlagsOuterNegatedRecursion(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	// mu X. nu Y. !X -- X is negated underneath an unrelated binder Y, which
	// doesn't excuse the violation relative to X's own binder.
	inner := b.Nu("Y", nil, nil, b.Arena.SFNot(b.StateVar("X")))
	phi := b.Mu("X", nil, nil, inner)
	assert.False(Monotonous(phi))
}

func TestFoldConstants_AndShortCircuitsOnFalse(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	e := b.Arena.PBESAndE(b.Arena.PBESFalseE(), b.Arena.PVI("X", nil))
	assert.Equal(&ast.PBESExpr{Kind: ast.PBESFalse}, FoldConstants(e))
}

func TestFoldConstants_AndDropsTrueOperand(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	x := b.Arena.PVI("X", nil)
	e := b.Arena.PBESAndE(b.Arena.PBESTrueE(), x)
	assert.Equal(x, FoldConstants(e))
}

func TestFoldConstants_ImpWithFalseAntecedentIsTrue(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	e := b.Arena.PBESImpE(b.Arena.PBESFalseE(), b.Arena.PVI("X", nil))
	assert.Equal(&ast.PBESExpr{Kind: ast.PBESTrue}, FoldConstants(e))
}

func TestFoldConstants_ForallWithConstantBodyCollapses(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	vars := []ast.DataVariable{{Name: "n", VSort: b.Sort("Nat")}}
	e := b.Arena.PBESForallE(vars, b.Arena.PBESTrueE())
	assert.Equal(&ast.PBESExpr{Kind: ast.PBESTrue}, FoldConstants(e))
}

func TestFreeVariables_CollectsFromDataAndSkipsBoundQuantifierVars(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	n := ast.DataVariable{Name: "n", VSort: b.Sort("Nat")}
	m := ast.DataVariable{Name: "m", VSort: b.Sort("Nat")}

	e := b.Arena.PBESForallE([]ast.DataVariable{n}, b.Arena.PBESDataE(ast.DataEqual(n, m)))
	got := FreeVariables(e)
	if assert.Len(got, 1) {
		assert.Equal("m", got[0].Name)
	}
}

func TestFreeVariables_CollectsFromVarInstanceArgs(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	n := ast.DataVariable{Name: "n", VSort: b.Sort("Nat")}
	e := b.Arena.PVI("X", []ast.DataExpr{n})
	got := FreeVariables(e)
	if assert.Len(got, 1) {
		assert.Equal("n", got[0].Name)
	}
}

func TestRemoveUnusedParameters_DropsParameterNeverReadAnywhere(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	usedVar := ast.DataVariable{Name: "used", VSort: b.Sort("Nat")}
	unusedVar := ast.DataVariable{Name: "unused", VSort: b.Sort("Nat")}

	eq := &ast.PBESEquation{
		Symbol: ast.Nu,
		Var:    ast.PropositionalVariable{Name: "X", Params: []ast.DataVariable{usedVar, unusedVar}},
		Body:   b.Arena.PBESDataE(ast.DataEqual(usedVar, usedVar)),
	}
	pbes := &ast.PBES{
		Equations: []*ast.PBESEquation{eq},
		Init:      b.Arena.PVI("X", []ast.DataExpr{usedVar, unusedVar}),
	}

	out := RemoveUnusedParameters(pbes)
	assert.Equal([]ast.DataVariable{usedVar}, out.Equations[0].Var.Params)
	assert.Equal([]ast.DataExpr{usedVar}, out.Init.Args)
}

func TestRemoveUnusedParameters_KeepsParameterPassedToAUsedCallee(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	n := ast.DataVariable{Name: "n", VSort: b.Sort("Nat")}

	// X(n) = Y(n); Y's own parameter is used in its body, so X must keep
	// passing n even though X's body never reads n directly.
	x := &ast.PBESEquation{
		Symbol: ast.Nu,
		Var:    ast.PropositionalVariable{Name: "X", Params: []ast.DataVariable{n}},
		Body:   b.Arena.PVI("Y", []ast.DataExpr{n}),
	}
	y := &ast.PBESEquation{
		Symbol: ast.Nu,
		Var:    ast.PropositionalVariable{Name: "Y", Params: []ast.DataVariable{n}},
		Body:   b.Arena.PBESDataE(ast.DataEqual(n, n)),
	}
	pbes := &ast.PBES{
		Equations: []*ast.PBESEquation{x, y},
		Init:      b.Arena.PVI("X", []ast.DataExpr{n}),
	}

	out := RemoveUnusedParameters(pbes)
	assert.Equal([]ast.DataVariable{n}, out.Equations[0].Var.Params)
	assert.Equal([]ast.DataVariable{n}, out.Equations[1].Var.Params)
}

func oneActionSummand(b *parsing.Builder, name string) ast.Summand {
	return ast.Summand{
		Action: b.Arena.NewMultiAction([]*ast.Action{b.Act(name)}),
		Cond:   ast.True,
	}
}

func TestTranslate_WrapsNonFixpointFormulaAndFoldsTrivialBody(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()

	phi := b.Must(b.MultiActionLiteral("a"), b.Arena.SFTrue())
	lps := &ast.LinearProcess{Summands: []ast.Summand{oneActionSummand(b, "a")}}

	pbes, err := Translate(b.Arena, phi, lps, config.TranslateConfig{NormalizeOutput: true}, nil)
	if !assert.NoError(err) {
		return
	}
	if !assert.Len(pbes.Equations, 1) {
		return
	}
	assert.Equal(ast.Nu, pbes.Equations[0].Symbol)
	assert.Equal(&ast.PBESExpr{Kind: ast.PBESTrue}, pbes.Equations[0].Body)
	assert.Equal(pbes.Equations[0].Var.Name, pbes.Init.VarName)
	assert.Empty(pbes.Init.Args)
}

func TestTranslate_RejectsNonMonotonousFormula(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	phi := b.Mu("X", nil, nil, b.Arena.SFNot(b.StateVar("X")))
	lps := &ast.LinearProcess{Summands: []ast.Summand{oneActionSummand(b, "a")}}

	_, err := Translate(b.Arena, phi, lps, config.TranslateConfig{}, nil)
	assert.Error(err)
}
