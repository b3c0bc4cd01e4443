package diagnostics

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSink_RecordsEveryEntryRegardlessOfMinLevel(t *testing.T) {
	assert := assert.New(t)
	var buf bytes.Buffer
	s := NewSink(&buf)
	s.MinLevel = Error

	s.Verbosef("starting pass %d", 1)
	s.Warnf("equation %s may not converge", "X")
	s.Errorf("fatal: %s", "bad input")

	entries := s.Entries()
	if assert.Len(entries, 3) {
		assert.Equal(Verbose, entries[0].Level)
		assert.Equal("starting pass 1", entries[0].Message)
		assert.Equal(Warning, entries[1].Level)
		assert.Equal(Error, entries[2].Level)
	}

	// MinLevel suppresses mirroring to the writer but not recording.
	assert.Contains(buf.String(), "fatal: bad input")
	assert.NotContains(buf.String(), "starting pass 1")
}

func TestSink_Warnings_FiltersToWarningLevelOnly(t *testing.T) {
	assert := assert.New(t)
	s := NewSink(nil)
	s.Verbosef("noise")
	s.Warnf("first warning")
	s.Errorf("an error")
	s.Warnf("second warning")

	assert.Equal([]string{"first warning", "second warning"}, s.Warnings())
}

func TestSink_NilWriterNeverPanics(t *testing.T) {
	s := NewSink(nil)
	assert.NotPanics(t, func() {
		s.Warnf("line that would otherwise wrap past the default width set by NewSink, just to be safe")
	})
}

func TestLevel_String(t *testing.T) {
	testCases := []struct {
		level    Level
		expected string
	}{
		{Verbose, "verbose"},
		{Warning, "warning"},
		{Error, "error"},
		{Level(99), "unknown"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, tc.level.String())
	}
}
