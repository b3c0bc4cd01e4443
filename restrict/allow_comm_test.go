package restrict

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcrl2-go/symbolic/alphabet"
	"github.com/mcrl2-go/symbolic/ast"
	"github.com/mcrl2-go/symbolic/classify"
	"github.com/mcrl2-go/symbolic/diagnostics"
	"github.com/mcrl2-go/symbolic/errs"
	"github.com/mcrl2-go/symbolic/mact"
	"github.com/mcrl2-go/symbolic/parsing"
)

func TestPushAllow_EmptyAllowSetYieldsDelta(t *testing.T) {
	assert := assert.New(t)
	b, c := newTestContext(t)
	result, err := c.PushAllow(nil, b.Choice(b.Action("a"), b.Action("b")))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(b.Delta(), result)
}

func TestPushAllow_ActionOutsideSetBecomesDelta(t *testing.T) {
	assert := assert.New(t)
	b, c := newTestContext(t)
	result, err := c.PushAllow([][]string{{"a"}}, b.Action("b"))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(b.Delta(), result)
}

// allow({a|b}, a|b): every component of the sync contributes to an allowed
// pattern, so the restriction distributes and vanishes entirely.
func TestPushAllow_RedundantAllowOverSyncIsDropped(t *testing.T) {
	assert := assert.New(t)
	b, c := newTestContext(t)

	p := b.Sync(b.Action("a"), b.Action("b"))
	result, err := c.PushAllow([][]string{{"a", "b"}}, p)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(p, result)
}

func TestPushAllow_WrapsRenameWhoseAlphabetIsNarrowed(t *testing.T) {
	assert := assert.New(t)
	b, c := newTestContext(t)

	renamed := b.Rename([]ast.RenamePair{{From: "a", To: "b"}}, b.Choice(b.Action("a"), b.Action("c")))
	result, err := c.PushAllow([][]string{{"b"}}, renamed)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(ast.ProcAllow, result.Kind)
	assert.Equal(renamed, result.Operand)
}

func TestPushAllow_DropsRedundantWrapAroundRename(t *testing.T) {
	assert := assert.New(t)
	b, c := newTestContext(t)

	renamed := b.Rename([]ast.RenamePair{{From: "a", To: "b"}}, b.Action("a"))
	result, err := c.PushAllow([][]string{{"b"}}, renamed)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(renamed, result)
}

func TestPushAllow_RestoresCommFlagOnExit(t *testing.T) {
	assert := assert.New(t)
	b, c := newTestContext(t)

	body := b.Sync(b.Action("a"), b.Action("b"))
	comm, err := b.Comm([]ast.CommPair{{Lhs: []string{"a", "b"}, Rhs: "c"}}, body)
	if !assert.NoError(err) {
		return
	}

	_, err = c.PushAllow([][]string{{"c"}}, comm)
	if !assert.NoError(err) {
		return
	}
	assert.True(c.pushCommThroughAllowEnabled())
}

func TestPushAllow_WarnsWhenSetNarrowsPCRLReference(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	spec := &ast.ProcessSpec{
		Equations: []*ast.ProcessEquation{
			{Name: "P", Body: b.Choice(b.Action("a"), b.Action("b"))},
		},
	}
	sync := mact.NewCache()
	calc := alphabet.NewCalculator(b.Arena, spec, alphabet.NewCache(), sync)
	diag := diagnostics.NewSink(nil)
	c := NewContext(b.Arena, calc, sync, spec, diag)
	c.SetClassification(classify.Classify(spec, nil))

	result, err := c.PushAllow([][]string{{"a"}}, b.Arena.ProcessRef("P", nil))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(ast.ProcAllow, result.Kind)

	recorded := diag.Errs()
	if !assert.Len(recorded, 1) {
		return
	}
	assert.True(errs.Is(recorded[0], errs.AllowRestrictsReachable))
}

func TestPushAllow_ClonesMCRLReferenceUnderRestriction(t *testing.T) {
	assert := assert.New(t)
	b := parsing.NewBuilder()
	spec := &ast.ProcessSpec{
		Equations: []*ast.ProcessEquation{
			{Name: "P", Body: b.Merge(b.Action("a"), b.Action("b"))},
		},
	}
	sync := mact.NewCache()
	calc := alphabet.NewCalculator(b.Arena, spec, alphabet.NewCache(), sync)
	c := NewContext(b.Arena, calc, sync, spec, nil)
	c.SetClassification(classify.Classify(spec, nil))

	result, err := c.PushAllow([][]string{{"a"}}, b.Arena.ProcessRef("P", nil))
	if !assert.NoError(err) {
		return
	}

	if !assert.Len(c.Clones, 1) {
		return
	}
	clone := c.Clones[0]
	assert.Equal("P", clone.Base)
	assert.Equal(ast.ProcRef, result.Kind)
	assert.Equal(clone.Name, result.ProcName)
	assert.NotNil(spec.EquationByName(clone.Name))

	// a second push of the same restriction reuses the registered clone
	again, err := c.PushAllow([][]string{{"a"}}, b.Arena.ProcessRef("P", nil))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(result, again)
	assert.Len(c.Clones, 1)
}

func TestPushComm_EmptyPairListReturnsOperand(t *testing.T) {
	assert := assert.New(t)
	b, c := newTestContext(t)
	p := b.Choice(b.Action("a"), b.Action("b"))
	result, err := c.PushComm(nil, p)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(p, result)
}

func TestPushComm_DoesNotDistributeOverSeq(t *testing.T) {
	assert := assert.New(t)
	b, c := newTestContext(t)

	pairs := []ast.CommPair{{Lhs: []string{"a", "b"}, Rhs: "c"}}
	seq := b.Seq(b.Action("a"), b.Action("b"))
	result, err := c.PushComm(pairs, seq)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(ast.ProcComm, result.Kind)
	assert.Equal(seq, result.Operand)
}

// Pairs whose lhs names live entirely in one operand of a parallel
// composition move into that operand; only pairs straddling both sides stay
// at the join point.
func TestPushComm_PartitionsPairsAcrossParallelOperands(t *testing.T) {
	assert := assert.New(t)
	b, c := newTestContext(t)

	left := b.Sync(b.Action("a"), b.Action("a"))
	right := b.Sync(b.Action("b"), b.Action("b"))
	pairs := []ast.CommPair{
		{Lhs: []string{"a", "a"}, Rhs: "x"},
		{Lhs: []string{"b", "b"}, Rhs: "y"},
	}

	result, err := c.PushComm(pairs, b.Merge(left, right))
	if !assert.NoError(err) {
		return
	}

	assert.Equal(ast.ProcMerge, result.Kind)
	assert.Equal(ast.ProcComm, result.Left.Kind)
	assert.Equal([]ast.CommPair{{Lhs: []string{"a", "a"}, Rhs: "x"}}, result.Left.CommPairs)
	assert.Equal(ast.ProcComm, result.Right.Kind)
	assert.Equal([]ast.CommPair{{Lhs: []string{"b", "b"}, Rhs: "y"}}, result.Right.CommPairs)
}

func TestPushComm_PairTouchingBothOperandsStaysAtJoin(t *testing.T) {
	assert := assert.New(t)
	b, c := newTestContext(t)

	pairs := []ast.CommPair{{Lhs: []string{"a", "b"}, Rhs: "c"}}
	p := b.Merge(b.Action("a"), b.Action("b"))
	result, err := c.PushComm(pairs, p)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(ast.ProcComm, result.Kind)
	assert.Equal(pairs, result.CommPairs)
	assert.Equal(p, result.Operand)
}

// block({c,d}, comm({a|b -> c}, a | (b | d))): the block set splits into the
// part touching the communication ({c}, which must stay outside) and the
// part disjoint from it ({d}, pushed all the way to the d action).
func TestPushBlock_SplitsSetAroundComm(t *testing.T) {
	assert := assert.New(t)
	b, c := newTestContext(t)

	body := b.Sync(b.Action("a"), b.Sync(b.Action("b"), b.Action("d")))
	comm, err := b.Comm([]ast.CommPair{{Lhs: []string{"a", "b"}, Rhs: "c"}}, body)
	if !assert.NoError(err) {
		return
	}

	result, err := c.PushBlock([]string{"c", "d"}, comm)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(ast.ProcBlock, result.Kind)
	assert.Equal([]string{"c"}, result.NameSet)
	inner := result.Operand
	assert.Equal(ast.ProcComm, inner.Kind)
	assert.Equal(b.Sync(b.Action("a"), b.Sync(b.Action("b"), b.Delta())), inner.Operand)
}
