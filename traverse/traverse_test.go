package traverse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcrl2-go/symbolic/ast"
	"github.com/mcrl2-go/symbolic/parsing"
)

func TestBoundVars_PushBoundPop(t *testing.T) {
	assert := assert.New(t)
	bv := NewBoundVars()
	n := ast.DataVariable{Name: "n", VSort: &ast.Sort{Kind: ast.SortBasic, Name: "Nat"}}

	assert.False(bv.Bound("n"))
	bv.Push([]ast.DataVariable{n})
	assert.True(bv.Bound("n"))
	bv.Pop([]ast.DataVariable{n})
	assert.False(bv.Bound("n"))
}

func TestBoundVars_PopUnbalancedPanics(t *testing.T) {
	bv := NewBoundVars()
	n := ast.DataVariable{Name: "n", VSort: &ast.Sort{Kind: ast.SortBasic, Name: "Nat"}}
	assert.Panics(t, func() { bv.Pop([]ast.DataVariable{n}) })
}

func TestObserveProcess_VisitsEveryNodeInPreAndPostOrder(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	p := b.Choice(b.Action("a"), b.Action("b"))

	var entered, left []ast.ProcKind
	ObserveProcess(p, func(n *ast.Process) { entered = append(entered, n.Kind) }, func(n *ast.Process) { left = append(left, n.Kind) })

	assert.Equal([]ast.ProcKind{ast.ProcChoice, ast.ProcAction, ast.ProcAction}, entered)
	assert.Equal([]ast.ProcKind{ast.ProcAction, ast.ProcAction, ast.ProcChoice}, left)
}

func TestObserveProcess_NilIsNoOp(t *testing.T) {
	called := false
	ObserveProcess(nil, func(*ast.Process) { called = true }, nil)
	assert.False(t, called)
}

func TestMapProcess_LeavesTermUnchangedWhenTransformIsIdentity(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	p := b.Choice(b.Action("a"), b.Action("b"))
	result := MapProcess(b.Arena, p, func(n *ast.Process) *ast.Process { return n })
	assert.Equal(p, result)
}

func TestMapProcess_RebuildsBinaryNodeWhenChildChanges(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	p := b.Choice(b.Action("a"), b.Action("b"))

	result := MapProcess(b.Arena, p, func(n *ast.Process) *ast.Process {
		if n.Kind == ast.ProcAction && n.Act.Label.Name == "a" {
			return b.Action("c")
		}
		return n
	})
	assert.Equal(b.Choice(b.Action("c"), b.Action("b")), result)
}

func TestMapProcess_RebuildsUnaryBlockWhenBodyChanges(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	blocked, err := b.Block([]string{"x"}, b.Action("a"))
	if !assert.NoError(err) {
		return
	}

	result := MapProcess(b.Arena, blocked, func(n *ast.Process) *ast.Process {
		if n.Kind == ast.ProcAction && n.Act.Label.Name == "a" {
			return b.Action("c")
		}
		return n
	})
	want, err := b.Block([]string{"x"}, b.Action("c"))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(want, result)
}

func TestObserveFormula_VisitsNestedModalities(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	alpha := b.MultiActionLiteral("a")
	phi := b.Must(alpha, b.Arena.SFTrue())

	var kinds []ast.StateFormKind
	ObserveFormula(phi, func(n *ast.StateFormula) { kinds = append(kinds, n.Kind) }, nil)
	assert.Equal([]ast.StateFormKind{ast.SFMust, ast.SFTrue}, kinds)
}

func TestReferencedProcessNames_CollectsEachNameOnce(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	p := b.Choice(b.Arena.ProcessRef("Q", nil), b.Seq(b.Arena.ProcessRef("Q", nil), b.Arena.ProcessRef("R", nil)))

	names := ReferencedProcessNames(p)
	assert.ElementsMatch([]string{"Q", "R"}, names)
}

func TestReferencedProcessNames_EmptyWhenNoReferences(t *testing.T) {
	b := parsing.NewBuilder()
	p := b.Choice(b.Action("a"), b.Action("b"))
	assert.Empty(t, ReferencedProcessNames(p))
}
