package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_FormatsMessageWithKindPrefix(t *testing.T) {
	assert := assert.New(t)
	e := New(NonMonotonousFormula, "variable %s occurs under negation", "X")
	assert.Equal("NonMonotonousFormula: variable X occurs under negation", e.Error())
	assert.Equal(NonMonotonousFormula, e.Kind())
	assert.Nil(e.Subterm())
}

func TestWithSubterm_AttachesOffendingTerm(t *testing.T) {
	assert := assert.New(t)
	e := New(MalformedInput, "bad arity")
	e.WithSubterm("some-term")
	assert.Equal("some-term", e.Subterm())
}

func TestWrap_PreservesCauseForUnwrap(t *testing.T) {
	assert := assert.New(t)
	cause := errors.New("underlying cause")
	e := Wrap(EvaluationFailure, cause, "could not resolve constant")
	assert.Same(cause, errors.Unwrap(e))
	assert.Equal(cause, e.Unwrap())
}

func TestIs_MatchesKindThroughWrappedChain(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		kind     Kind
		expected bool
	}{
		{
			name:     "direct match",
			err:      New(AlphabetNotConverged, "exceeded limit"),
			kind:     AlphabetNotConverged,
			expected: true,
		},
		{
			name:     "mismatch",
			err:      New(AlphabetNotConverged, "exceeded limit"),
			kind:     MalformedInput,
			expected: false,
		},
		{
			name:     "wrapped in a plain fmt.Errorf-style wrapper still misses without *Error",
			err:      errors.New("plain error"),
			kind:     MalformedInput,
			expected: false,
		},
		{
			name:     "nil error never matches",
			err:      nil,
			kind:     MalformedInput,
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Is(tc.err, tc.kind))
		})
	}
}

func TestKind_StringUnknownValue(t *testing.T) {
	assert.Equal(t, "Kind(99)", Kind(99).String())
}
