package alphabet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcrl2-go/symbolic/ast"
)

// P = a | (b | c) performs every non-empty combination of its three
// components: the three singletons, the three pairs, and the full triple.
func TestGetAlpha_ThreeWayParallelIsClosedUnderSync(t *testing.T) {
	assert := assert.New(t)
	b, calc, sync := newCalc(t)

	p := b.Merge(b.Action("a"), b.Merge(b.Action("b"), b.Action("c")))
	alpha := calc.GetAlpha(p, 0, nil)

	assert.ElementsMatch([][]string{
		{"a"}, {"b"}, {"c"},
		{"a", "b"}, {"a", "c"}, {"b", "c"},
		{"a", "b", "c"},
	}, untypedNames(t, sync, alpha))
}

// Restricting a process to its own alphabet changes nothing:
// alpha(allow(alpha(P), P)) == alpha(P).
func TestGetAlpha_AllowOfOwnAlphabetIsIdentity(t *testing.T) {
	assert := assert.New(t)
	b, calc, sync := newCalc(t)

	p := b.Merge(b.Action("a"), b.Action("b"))
	alpha := calc.GetAlpha(p, 0, nil)

	restricted, err := b.Allow(UntypedOf(sync, alpha), p)
	if !assert.NoError(err) {
		return
	}
	assert.True(Equal(alpha, calc.GetAlpha(restricted, 0, nil)))
}

func TestGetAlpha_SyncWithTauIsTheOperandAlphabet(t *testing.T) {
	assert := assert.New(t)
	b, calc, _ := newCalc(t)

	p := b.Choice(b.Action("a"), b.Action("b"))
	synced := b.Sync(b.Tau(), p)

	// the constructor already collapses tau|P to P
	assert.Equal(p, synced)
	assert.True(Equal(calc.GetAlpha(p, 0, nil), calc.GetAlpha(synced, 0, nil)))
}

// Communication multiplies the length bound by the longest lhs and then
// folds matched actions into their rhs name.
func TestGetAlpha_CommSynchronisesMatchingPairs(t *testing.T) {
	assert := assert.New(t)
	b, calc, sync := newCalc(t)

	body := b.Merge(b.Action("a"), b.Action("b"))
	p, err := b.Comm([]ast.CommPair{{Lhs: []string{"a", "b"}, Rhs: "c"}}, body)
	if !assert.NoError(err) {
		return
	}

	alpha := calc.GetAlpha(p, 0, nil)
	assert.ElementsMatch([][]string{{"a"}, {"b"}, {"c"}}, untypedNames(t, sync, alpha))
}
