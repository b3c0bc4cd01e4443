package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcrl2-go/symbolic/ast"
	"github.com/mcrl2-go/symbolic/config"
	"github.com/mcrl2-go/symbolic/parsing"
	"github.com/mcrl2-go/symbolic/traverse"
)

func TestRun_DropsRedundantAllowOverParallelInit(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()

	p := b.Sync(b.Action("a"), b.Action("b"))
	allowed, err := b.Allow([][]string{{"a", "b"}}, p)
	if !assert.NoError(err) {
		return
	}

	spec := &ast.ProcessSpec{Init: allowed}
	result, err := Run(b.Arena, spec, config.DriverConfig{IterationLimit: 10}, nil)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(p, result.Spec.Init)
}

func TestRun_RegistersCloneForRestrictedParallelEquation(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()

	spec := &ast.ProcessSpec{
		Equations: []*ast.ProcessEquation{
			{Name: "P", Body: b.Merge(b.Action("a"), b.Action("b"))},
		},
	}
	allowed, err := b.Allow([][]string{{"a"}}, b.Arena.ProcessRef("P", nil))
	if !assert.NoError(err) {
		return
	}
	spec.Init = allowed

	result, err := Run(b.Arena, spec, config.DriverConfig{IterationLimit: 10}, nil)
	if !assert.NoError(err) {
		return
	}

	if !assert.Len(result.Clones, 1) {
		return
	}
	clone := result.Clones[0]
	assert.Equal("P", clone.Base)
	assert.Equal(clone.Name, result.Spec.Init.ProcName)

	// the result is closed: every reference in the final spec resolves
	for _, eq := range result.Spec.Equations {
		for _, ref := range traverse.ReferencedProcessNames(eq.Body) {
			assert.NotNil(result.Spec.EquationByName(ref), "unresolved reference %s", ref)
		}
	}
	for _, ref := range traverse.ReferencedProcessNames(result.Spec.Init) {
		assert.NotNil(result.Spec.EquationByName(ref), "unresolved reference %s", ref)
	}
}

// Re-running the driver on its own output changes nothing.
func TestRun_IsIdempotentOnItsOwnOutput(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()

	body := b.Sync(b.Action("a"), b.Sync(b.Action("b"), b.Action("d")))
	comm, err := b.Comm([]ast.CommPair{{Lhs: []string{"a", "b"}, Rhs: "c"}}, body)
	if !assert.NoError(err) {
		return
	}
	blocked, err := b.Block([]string{"c", "d"}, comm)
	if !assert.NoError(err) {
		return
	}

	spec := &ast.ProcessSpec{Init: blocked}
	cfg := config.DriverConfig{IterationLimit: 100}

	first, err := Run(b.Arena, spec, cfg, nil)
	if !assert.NoError(err) {
		return
	}
	second, err := Run(b.Arena, first.Spec, cfg, nil)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(first.Spec.Init, second.Spec.Init)
	assert.Len(second.Spec.Equations, len(first.Spec.Equations))
}

func TestRun_ExpandsNParallelReplication(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()

	pos := b.Sort("Pos")
	n := ast.DataVariable{Name: "n", VSort: pos}
	one := ast.DataApplication{Head: "1", RSort: pos}
	cond := ast.DataApplication{Head: ">", Args: []ast.DataExpr{n, one}}
	nMinusOne := ast.DataApplication{Head: "-", Args: []ast.DataExpr{n, one}, RSort: pos}

	pBody := b.Arena.IfThenElse(cond,
		b.Merge(b.Arena.ProcessRef("Q", []ast.DataExpr{ast.DataExpr(n)}),
			b.Arena.ProcessRef("P", []ast.DataExpr{ast.DataExpr(nMinusOne)})),
		b.Arena.ProcessRef("Q", []ast.DataExpr{ast.DataExpr(one)}))

	spec := &ast.ProcessSpec{
		Equations: []*ast.ProcessEquation{
			{Name: "P", FormalParams: []ast.DataVariable{n}, Body: pBody},
			{Name: "Q", FormalParams: []ast.DataVariable{n}, Body: b.Action("a")},
		},
		Init: b.Arena.ProcessRef("P", []ast.DataExpr{ast.DataExpr(ast.DataApplication{Head: "3", RSort: pos})}),
	}

	result, err := Run(b.Arena, spec, config.DriverConfig{IterationLimit: 100, EnableNParallelExpansion: true}, nil)
	if !assert.NoError(err) {
		return
	}

	// P(3) became Q(1) || Q(2) || Q(3) and P itself was erased
	assert.Nil(result.Spec.EquationByName("P"))
	assert.Equal([]string{"Q"}, traverse.ReferencedProcessNames(result.Spec.Init))

	count := 0
	traverse.ObserveProcess(result.Spec.Init, func(p *ast.Process) {
		if p.Kind == ast.ProcRef && p.ProcName == "Q" {
			count++
		}
	}, nil)
	assert.Equal(3, count)
}

func TestRun_PrunesEquationsUnreachableFromInit(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()

	spec := &ast.ProcessSpec{
		Equations: []*ast.ProcessEquation{
			{Name: "P", Body: b.Seq(b.Action("a"), b.Arena.ProcessRef("Q", nil))},
			{Name: "Q", Body: b.Action("b")},
			{Name: "Orphan", Body: b.Action("c")},
		},
		Init: b.Arena.ProcessRef("P", nil),
	}

	result, err := Run(b.Arena, spec, config.DriverConfig{IterationLimit: 10}, nil)
	if !assert.NoError(err) {
		return
	}
	assert.NotNil(result.Spec.EquationByName("P"))
	assert.NotNil(result.Spec.EquationByName("Q"))
	assert.Nil(result.Spec.EquationByName("Orphan"))
}
