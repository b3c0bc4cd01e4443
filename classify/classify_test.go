package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcrl2-go/symbolic/ast"
	"github.com/mcrl2-go/symbolic/parsing"
)

func TestDependencyGraph_CollectsDirectReferences(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	p := b.Arena.ProcessRef("Q", nil)
	spec := &ast.ProcessSpec{
		Equations: []*ast.ProcessEquation{
			{Name: "P", Body: b.Choice(p, b.Action("a"))},
			{Name: "Q", Body: b.Action("b")},
		},
	}
	g := DependencyGraph(spec)
	assert.Equal([]string{"Q"}, g["P"])
	assert.Empty(g["Q"])
}

func TestReachable(t *testing.T) {
	g := map[string][]string{
		"P": {"Q"},
		"Q": {"R"},
		"R": {},
	}
	assert.True(t, Reachable(g, "P", "R"))
	assert.False(t, Reachable(g, "R", "P"))
	assert.False(t, Reachable(g, "P", "P"))
}

func TestClassify_DistinguishesPCRLFromMCRL(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()

	pcrlBody := b.Choice(b.Action("a"), b.Seq(b.Action("b"), b.Delta()))
	mcrlBody, err := b.Hide([]string{"a"}, b.Action("a"))
	if !assert.NoError(err) {
		return
	}

	spec := &ast.ProcessSpec{
		Equations: []*ast.ProcessEquation{
			{Name: "P", Body: pcrlBody},
			{Name: "M", Body: mcrlBody},
		},
	}
	info := Classify(spec, nil)
	assert.Equal(FormPCRL, info["P"].Form)
	assert.Equal(FormMCRL, info["M"].Form)
}

func TestClassify_MarksDirectRecursionAsRecursive(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	selfRef := b.Arena.ProcessRef("P", nil)
	spec := &ast.ProcessSpec{
		Equations: []*ast.ProcessEquation{
			{Name: "P", Body: b.Choice(b.Action("a"), selfRef)},
		},
	}
	info := Classify(spec, nil)
	assert.True(info["P"].Recursive)
}

func TestForm_String(t *testing.T) {
	assert.Equal(t, "pCRL", FormPCRL.String())
	assert.Equal(t, "nPCRL", FormNPCRL.String())
	assert.Equal(t, "mCRL", FormMCRL.String())
	assert.Equal(t, "unknown", Form(99).String())
}
