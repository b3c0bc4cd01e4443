package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func natSort() *Sort { return &Sort{Kind: SortBasic, Name: "Nat"} }

func TestArena_InternsStructurallyEqualActionsToTheSamePointer(t *testing.T) {
	assert := assert.New(t)
	a := NewArena()
	label := a.ActionLabel("a", nil)

	one := a.ActionOf(label, nil)
	two := a.ActionOf(label, nil)
	assert.Same(one, two)
}

func TestArena_DistinctActionLabelsAreDistinctPointers(t *testing.T) {
	assert := assert.New(t)
	a := NewArena()
	x := a.ActionLabel("a", nil)
	y := a.ActionLabel("b", nil)
	assert.NotSame(x, y)
}

func TestArena_InternsStructurallyEqualProcessesAcrossSeparateConstructions(t *testing.T) {
	assert := assert.New(t)
	a := NewArena()
	label := a.ActionLabel("a", nil)
	act1 := a.ActionOf(label, nil)
	act2 := a.ActionOf(label, nil)

	p1 := a.Choice(a.ActionProc(act1), a.Delta())
	p2 := a.Choice(a.ActionProc(act2), a.Delta())
	assert.Same(p1, p2)
}

func TestArena_TauIsTheCanonicalEmptyMultiAction(t *testing.T) {
	assert := assert.New(t)
	a := NewArena()
	assert.Same(a.Tau(), a.NewMultiAction(nil))
}

func TestNewMultiAction_SortsActionsByCompareActions(t *testing.T) {
	assert := assert.New(t)
	a := NewArena()
	labelA := a.ActionLabel("a", nil)
	labelB := a.ActionLabel("b", nil)
	actA := a.ActionOf(labelA, nil)
	actB := a.ActionOf(labelB, nil)

	m := a.NewMultiAction([]*Action{actB, actA})
	if assert.Len(m.Actions, 2) {
		assert.Equal("a", m.Actions[0].Label.Name)
		assert.Equal("b", m.Actions[1].Label.Name)
	}
}

func TestProcess_StringRendersEachKind(t *testing.T) {
	assert := assert.New(t)
	a := NewArena()
	act := a.ActionOf(a.ActionLabel("a", nil), nil)
	actProc := a.ActionProc(act)

	assert.Equal("delta", a.Delta().String())
	assert.Equal("tau", a.TauProc().String())
	assert.Equal("a", actProc.String())
	assert.Equal("(a . delta)", a.Seq(actProc, a.Delta()).String())
	assert.Equal("(a + delta)", a.Choice(actProc, a.Delta()).String())
	assert.Equal("(a || delta)", a.Merge(actProc, a.Delta()).String())

	blocked, err := a.Block([]string{"b", "a"}, actProc)
	if assert.NoError(err) {
		assert.Equal("block({a, b}, a)", blocked.String())
	}
}

func TestBlock_RejectsDuplicateNames(t *testing.T) {
	a := NewArena()
	_, err := a.Block([]string{"a", "a"}, a.Delta())
	assert.Error(t, err)
}

func TestAllow_RejectsDuplicateMultiNameSets(t *testing.T) {
	a := NewArena()
	_, err := a.Allow([][]string{{"a", "b"}, {"b", "a"}}, a.Delta())
	assert.Error(t, err)
}

func TestAllow_AcceptsDistinctSets(t *testing.T) {
	assert := assert.New(t)
	a := NewArena()
	p, err := a.Allow([][]string{{"a"}, {"b"}}, a.Delta())
	if assert.NoError(err) {
		assert.Len(p.AllowSet, 2)
	}
}

func TestComm_RejectsLhsNameUsedInMultiplePairs(t *testing.T) {
	a := NewArena()
	_, err := a.Comm([]CommPair{{Lhs: []string{"a"}, Rhs: "c"}, {Lhs: []string{"a", "b"}, Rhs: "d"}}, a.Delta())
	assert.Error(t, err)
}

func TestComm_AcceptsDisjointPairs(t *testing.T) {
	assert := assert.New(t)
	a := NewArena()
	p, err := a.Comm([]CommPair{{Lhs: []string{"a", "b"}, Rhs: "c"}}, a.Delta())
	if assert.NoError(err) {
		assert.Len(p.CommPairs, 1)
	}
}

func TestSort_EqualIgnoresArenaOrigin(t *testing.T) {
	assert := assert.New(t)
	s1 := natSort()
	s2 := natSort()
	assert.NotSame(s1, s2)
	assert.True(s1.Equal(s2))
}

func TestSort_EqualRejectsDifferentNames(t *testing.T) {
	assert.False(t, natSort().Equal(&Sort{Kind: SortBasic, Name: "Bool"}))
}

func TestProcessSpec_EquationByName(t *testing.T) {
	assert := assert.New(t)
	a := NewArena()
	eq := &ProcessEquation{Name: "P", Body: a.Delta()}
	spec := &ProcessSpec{Equations: []*ProcessEquation{eq}}

	assert.Same(eq, spec.EquationByName("P"))
	assert.Nil(spec.EquationByName("Q"))
}

func TestUntype_ReturnsLabelName(t *testing.T) {
	a := NewArena()
	act := a.ActionOf(a.ActionLabel("a", []*Sort{natSort()}), nil)
	assert.Equal(t, "a", Untype(act))
}

func TestDataSpec_CompleteDataSpecAddsMissingSortsOnce(t *testing.T) {
	assert := assert.New(t)
	d := NewDataSpec()
	nat := natSort()
	CompleteDataSpec(d, []*Sort{nat, nat})
	assert.Len(d.Sorts, 1)
	assert.True(d.HasSort(natSort()))
}

func TestDataVariable_FreeVariablesIsJustItself(t *testing.T) {
	v := DataVariable{Name: "n", VSort: natSort()}
	assert.Equal(t, []DataVariable{v}, v.FreeVariables())
}

func TestDataApplication_FreeVariablesDedupsRepeatedVariable(t *testing.T) {
	n := DataVariable{Name: "n", VSort: natSort()}
	app := DataApplication{Head: "equal_to", Args: []DataExpr{n, n}, RSort: &Sort{Kind: SortBasic, Name: "Bool"}}
	assert.Equal(t, []DataVariable{n}, app.FreeVariables())
}

func TestSubstitute_ReplacesOnlyNamedVariable(t *testing.T) {
	assert := assert.New(t)
	n := DataVariable{Name: "n", VSort: natSort()}
	m := DataVariable{Name: "m", VSort: natSort()}
	app := DataApplication{Head: "equal_to", Args: []DataExpr{n, m}, RSort: &Sort{Kind: SortBasic, Name: "Bool"}}

	result := Substitute(app, map[string]DataExpr{"n": m})
	want := DataApplication{Head: "equal_to", Args: []DataExpr{m, m}, RSort: app.RSort}
	assert.Equal(want, result)
}

func TestFreshVariables_AvoidsCollisionsByAppendingQuote(t *testing.T) {
	assert := assert.New(t)
	vars := []DataVariable{{Name: "x", VSort: natSort()}}
	fresh := FreshVariables(vars, map[string]bool{"x": true})
	assert.Equal("x'", fresh[0].Name)
}
