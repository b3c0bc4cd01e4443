package alphabet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcrl2-go/symbolic/ast"
	"github.com/mcrl2-go/symbolic/mact"
	"github.com/mcrl2-go/symbolic/parsing"
)

func untypedNames(t *testing.T, sync *mact.Cache, mas []*ast.MultiAction) [][]string {
	t.Helper()
	var out [][]string
	for _, m := range mas {
		out = append(out, sync.Untype(m))
	}
	return out
}

func newCalc(t *testing.T) (*parsing.Builder, *Calculator, *mact.Cache) {
	t.Helper()
	b := parsing.NewBuilder()
	sync := mact.NewCache()
	calc := NewCalculator(b.Arena, nil, NewCache(), sync)
	return b, calc, sync
}

func TestGetAlpha_AtomicProcesses(t *testing.T) {
	b, calc, _ := newCalc(t)

	assert.Empty(t, calc.GetAlpha(b.Delta(), 0, nil))
	assert.Empty(t, calc.GetAlpha(b.Tau(), 0, nil))

	alpha := calc.GetAlpha(b.Action("a"), 0, nil)
	if assert.Len(t, alpha, 1) {
		assert.Equal(t, "a", alpha[0].Actions[0].Label.Name)
	}
}

func TestGetAlpha_ChoiceUnionsBothBranches(t *testing.T) {
	b, calc, sync := newCalc(t)
	p := b.Choice(b.Action("a"), b.Action("b"))
	alpha := calc.GetAlpha(p, 0, nil)
	assert.ElementsMatch(t, [][]string{{"a"}, {"b"}}, untypedNames(t, sync, alpha))
}

func TestGetAlpha_MergeAddsSynchronisedCombination(t *testing.T) {
	b, calc, sync := newCalc(t)
	p := b.Merge(b.Action("a"), b.Action("b"))
	alpha := calc.GetAlpha(p, 0, nil)
	assert.ElementsMatch(t, [][]string{{"a"}, {"b"}, {"a", "b"}}, untypedNames(t, sync, alpha))
}

func TestGetAlpha_BlockRemovesMatchingNames(t *testing.T) {
	b, calc, sync := newCalc(t)
	blocked, err := b.Block([]string{"a"}, b.Choice(b.Action("a"), b.Action("b")))
	if !assert.NoError(t, err) {
		return
	}
	alpha := calc.GetAlpha(blocked, 0, nil)
	assert.ElementsMatch(t, [][]string{{"b"}}, untypedNames(t, sync, alpha))
}

func TestGetAlpha_HideRemovesNameFromEachMultiAction(t *testing.T) {
	b, calc, sync := newCalc(t)
	hidden, err := b.Hide([]string{"a"}, b.Merge(b.Action("a"), b.Action("b")))
	if !assert.NoError(t, err) {
		return
	}
	alpha := calc.GetAlpha(hidden, 0, nil)
	assert.ElementsMatch(t, [][]string{{"b"}, {}}, untypedNames(t, sync, alpha))
}

func TestGetAlpha_AllowKeepsOnlyMatchingPatterns(t *testing.T) {
	b, calc, sync := newCalc(t)
	allowed, err := b.Allow([][]string{{"a"}}, b.Choice(b.Action("a"), b.Action("b")))
	if !assert.NoError(t, err) {
		return
	}
	alpha := calc.GetAlpha(allowed, 0, nil)
	assert.ElementsMatch(t, [][]string{{"a"}}, untypedNames(t, sync, alpha))
}

func TestEqual(t *testing.T) {
	b, calc, _ := newCalc(t)
	p := b.Choice(b.Action("a"), b.Action("b"))
	first := calc.GetAlpha(p, 0, nil)
	second := calc.GetAlpha(p, 0, nil)
	assert.True(t, Equal(first, second))
	assert.False(t, Equal(first, first[:1]))
}
