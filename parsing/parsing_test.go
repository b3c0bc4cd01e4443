package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLex_TokenizesProcessExpression(t *testing.T) {
	assert := assert.New(t)
	toks, err := Lex("a.b + tau || delta")
	if !assert.NoError(err) {
		return
	}
	kinds := make([]TokenKind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	assert.Equal([]TokenKind{
		TokIdent, TokDot, TokIdent, TokPlus, TokTau, TokBar, TokDelta, TokEOF,
	}, kinds)
}

func TestLex_SkipsCommentsAndWhitespace(t *testing.T) {
	assert := assert.New(t)
	toks, err := Lex("a % this is a comment\n. b")
	if !assert.NoError(err) {
		return
	}
	assert.Equal([]TokenKind{TokIdent, TokDot, TokIdent, TokEOF}, []TokenKind{
		toks[0].Kind, toks[1].Kind, toks[2].Kind, toks[3].Kind,
	})
}

func TestLex_RejectsUnknownCharacter(t *testing.T) {
	_, err := Lex("a # b")
	assert.Error(t, err)
	var syntaxErr *SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
}

func TestParseProcess(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		expected string
	}{
		{name: "atomic action", src: "a", expected: "a"},
		{name: "sequence binds tighter than choice", src: "a.b + c", expected: "((a . b) + c)"},
		{name: "delta and tau", src: "delta + tau", expected: "(delta + tau)"},
		{name: "parenthesised merge", src: "(a || b)", expected: "(a || b)"},
		{name: "block restricts a name set", src: "block({a}, a.b)", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			b := NewBuilder()
			proc, err := ParseProcess(b, tc.src)
			if !assert.NoError(err) {
				return
			}
			assert.NotNil(proc)
			if tc.expected != "" {
				assert.Equal(tc.expected, proc.String())
			}
		})
	}
}

func TestParseProcess_RejectsTrailingInput(t *testing.T) {
	b := NewBuilder()
	_, err := ParseProcess(b, "a )")
	assert.Error(t, err)
}

func TestParseDataExpr_PrecedenceClimbing(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		expected string
	}{
		{name: "times binds tighter than plus", src: "a + b * c", expected: "plus(a, times(b, c))"},
		{name: "and binds tighter than or", src: "a || b && c", expected: "or(a, and(b, c))"},
		{name: "comparison sits between and and additive", src: "a + b == c", expected: "equal_to(plus(a, b), c)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			b := NewBuilder()
			d, err := ParseDataExpr(b, tc.src)
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expected, d.String())
		})
	}
}

func TestParseStateFormula_FixpointAndModalities(t *testing.T) {
	assert := assert.New(t)
	b := NewBuilder()
	f, err := ParseStateFormula(b, "mu X. [a]X && <b>true")
	if !assert.NoError(err) {
		return
	}
	assert.True(f.IsFixpoint())
}

func TestParseStateFormula_QuantifiersAndImplication(t *testing.T) {
	assert := assert.New(t)
	b := NewBuilder()
	f, err := ParseStateFormula(b, "forall n: Nat. X(n) => Y")
	if !assert.NoError(err) {
		return
	}
	assert.NotNil(f)
}
