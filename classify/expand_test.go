package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcrl2-go/symbolic/ast"
	"github.com/mcrl2-go/symbolic/diagnostics"
	"github.com/mcrl2-go/symbolic/errs"
	"github.com/mcrl2-go/symbolic/parsing"
	"github.com/mcrl2-go/symbolic/traverse"
)

func nParallelSpec(b *parsing.Builder, initArg ast.DataExpr) *ast.ProcessSpec {
	pos := b.Sort("Pos")
	n := ast.DataVariable{Name: "n", VSort: pos}
	one := ast.DataApplication{Head: "1", RSort: pos}
	cond := ast.DataApplication{Head: ">", Args: []ast.DataExpr{n, one}}
	nMinusOne := ast.DataApplication{Head: "-", Args: []ast.DataExpr{n, one}, RSort: pos}

	pBody := b.Arena.IfThenElse(cond,
		b.Merge(b.Arena.ProcessRef("Q", []ast.DataExpr{ast.DataExpr(n)}),
			b.Arena.ProcessRef("P", []ast.DataExpr{ast.DataExpr(nMinusOne)})),
		b.Arena.ProcessRef("Q", []ast.DataExpr{ast.DataExpr(one)}))

	return &ast.ProcessSpec{
		Equations: []*ast.ProcessEquation{
			{Name: "P", FormalParams: []ast.DataVariable{n}, Body: pBody},
			{Name: "Q", FormalParams: []ast.DataVariable{n}, Body: b.Action("a")},
		},
		Init: b.Arena.ProcessRef("P", []ast.DataExpr{initArg}),
	}
}

func TestClassify_RecognisesNParallelTemplate(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	spec := nParallelSpec(b, ast.DataApplication{Head: "3", RSort: b.Sort("Pos")})

	info := Classify(spec, nil)
	if !assert.Contains(info, "P") {
		return
	}
	assert.Equal(FormNPCRL, info["P"].Form)
	assert.Equal("Q", info["P"].NParallelQ)
	assert.Equal(FormPCRL, info["Q"].Form)
}

func TestExpandNParallel_ExpandsConstantCallAndErasesOriginal(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	spec := nParallelSpec(b, ast.DataApplication{Head: "2", RSort: b.Sort("Pos")})

	info := Classify(spec, nil)
	out, changed := ExpandNParallel(b.Arena, spec, info, nil)

	assert.True(changed)
	assert.Nil(out.EquationByName("P"))

	refs := 0
	traverse.ObserveProcess(out.Init, func(p *ast.Process) {
		if p.Kind == ast.ProcRef {
			refs++
			assert.Equal("Q", p.ProcName)
		}
	}, nil)
	assert.Equal(2, refs)
}

func TestExpandNParallel_ResolvesPosConstantFromDataSpec(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	spec := nParallelSpec(b, ast.DataVariable{Name: "c", VSort: b.Sort("Pos")})
	spec.DataSpec = ast.NewDataSpec()
	spec.DataSpec.PosConstants["c"] = 3

	info := Classify(spec, nil)
	out, changed := ExpandNParallel(b.Arena, spec, info, nil)

	assert.True(changed)
	assert.Nil(out.EquationByName("P"))

	refs := 0
	traverse.ObserveProcess(out.Init, func(p *ast.Process) {
		if p.Kind == ast.ProcRef {
			refs++
		}
	}, nil)
	assert.Equal(3, refs)
}

func TestExpandNParallel_UnknownConstantKeepsOriginalAndWarns(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	spec := nParallelSpec(b, ast.DataVariable{Name: "k", VSort: b.Sort("Pos")})

	info := Classify(spec, nil)
	diag := diagnostics.NewSink(nil)
	out, changed := ExpandNParallel(b.Arena, spec, info, diag)

	assert.False(changed)
	assert.NotNil(out.EquationByName("P"))
	assert.Equal(out.Init, spec.Init)

	recorded := diag.Errs()
	if !assert.NotEmpty(recorded) {
		return
	}
	assert.True(errs.Is(recorded[0], errs.EvaluationFailure))
}
