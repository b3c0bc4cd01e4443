package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcrl2-go/symbolic/ast"
	"github.com/mcrl2-go/symbolic/config"
	"github.com/mcrl2-go/symbolic/parsing"
)

func untypedAlpha(t *testing.T, mas []*ast.MultiAction) []string {
	t.Helper()
	var out []string
	for _, m := range mas {
		out = append(out, ast.Untype(m.Actions[0]))
	}
	return out
}

func TestRun_PropagatesAlphabetThroughProcessReference(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()

	qBody := b.Choice(b.Action("b"), b.Delta())
	pBody := b.Seq(b.Action("a"), b.Arena.ProcessRef("Q", nil))

	spec := &ast.ProcessSpec{
		Equations: []*ast.ProcessEquation{
			{Name: "P", Body: pBody},
			{Name: "Q", Body: qBody},
		},
		Init: b.Arena.ProcessRef("P", nil),
	}

	result, err := Run(b.Arena, spec, config.DriverConfig{IterationLimit: 100}, nil)
	if !assert.NoError(err) {
		return
	}
	assert.True(result.Stable)
	assert.ElementsMatch([]string{"a", "b"}, untypedAlpha(t, result.Alphabets["P"]))
	assert.ElementsMatch([]string{"b"}, untypedAlpha(t, result.Alphabets["Q"]))
}

func TestRun_AppliesBlockToInitialExpression(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()

	blocked, err := b.Block([]string{"a"}, b.Choice(b.Action("a"), b.Action("b")))
	if !assert.NoError(err) {
		return
	}

	spec := &ast.ProcessSpec{
		Equations: nil,
		Init:      blocked,
	}

	result, err := Run(b.Arena, spec, config.DriverConfig{IterationLimit: 10}, nil)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(b.Choice(b.Delta(), b.Action("b")), result.Spec.Init)
}

func TestRun_ReportsNotStableWhenIterationLimitExhausted(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()

	// a mutually-recursive pair whose alphabets keep growing until the
	// limit cuts the loop off artificially low.
	pBody := b.Seq(b.Action("a"), b.Arena.ProcessRef("Q", nil))
	qBody := b.Seq(b.Action("b"), b.Arena.ProcessRef("P", nil))
	spec := &ast.ProcessSpec{
		Equations: []*ast.ProcessEquation{
			{Name: "P", Body: pBody},
			{Name: "Q", Body: qBody},
		},
		Init: b.Arena.ProcessRef("P", nil),
	}

	result, err := Run(b.Arena, spec, config.DriverConfig{IterationLimit: 1}, nil)
	if !assert.NoError(err) {
		return
	}
	assert.False(result.Stable)
}
