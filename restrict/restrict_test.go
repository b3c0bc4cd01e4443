package restrict

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcrl2-go/symbolic/alphabet"
	"github.com/mcrl2-go/symbolic/mact"
	"github.com/mcrl2-go/symbolic/parsing"
)

func newTestContext(t *testing.T) (*parsing.Builder, *Context) {
	t.Helper()
	b := parsing.NewBuilder()
	sync := mact.NewCache()
	calc := alphabet.NewCalculator(b.Arena, nil, alphabet.NewCache(), sync)
	return b, NewContext(b.Arena, calc, sync, nil, nil)
}

func TestPushBlock_ReplacesBlockedActionWithDelta(t *testing.T) {
	assert := assert.New(t)
	b, c := newTestContext(t)
	result, err := c.PushBlock([]string{"a"}, b.Action("a"))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(b.Delta(), result)
}

func TestPushBlock_LeavesUnblockedActionAlone(t *testing.T) {
	assert := assert.New(t)
	b, c := newTestContext(t)
	result, err := c.PushBlock([]string{"a"}, b.Action("b"))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(b.Action("b"), result)
}

func TestPushBlock_DistributesOverChoice(t *testing.T) {
	assert := assert.New(t)
	b, c := newTestContext(t)
	result, err := c.PushBlock([]string{"a"}, b.Choice(b.Action("a"), b.Action("b")))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(b.Choice(b.Delta(), b.Action("b")), result)
}

func TestPushBlock_MergesTwoNestedBlocksIntoOne(t *testing.T) {
	assert := assert.New(t)
	b, c := newTestContext(t)
	inner, err := b.Block([]string{"a"}, b.Action("a"))
	if !assert.NoError(err) {
		return
	}
	result, err := c.PushBlock([]string{"b"}, inner)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(b.Delta(), result)
}

func TestPushHide_ReplacesHiddenActionWithTau(t *testing.T) {
	assert := assert.New(t)
	b, c := newTestContext(t)
	result, err := c.PushHide([]string{"a"}, b.Action("a"))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(b.Tau(), result)
}

func TestApplyAlpha_DispatchesToBlockAtTopOfTerm(t *testing.T) {
	assert := assert.New(t)
	b, c := newTestContext(t)
	blocked, err := b.Block([]string{"a"}, b.Action("a"))
	if !assert.NoError(err) {
		return
	}
	result, err := c.ApplyAlpha(blocked)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(b.Delta(), result)
}

func TestApplyAlpha_LeavesUnrestrictedTermsUnchanged(t *testing.T) {
	assert := assert.New(t)
	b, c := newTestContext(t)
	p := b.Choice(b.Action("a"), b.Action("b"))
	result, err := c.ApplyAlpha(p)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(p, result)
}
