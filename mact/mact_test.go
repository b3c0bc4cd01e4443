package mact

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcrl2-go/symbolic/ast"
)

func actionOf(t *testing.T, a *ast.Arena, name string) *ast.Action {
	t.Helper()
	label := a.ActionLabel(name, nil)
	return a.ActionOf(label, nil)
}

func TestCache_Sync(t *testing.T) {
	testCases := []struct {
		name     string
		x, y     []string
		expected []string
	}{
		{
			name:     "disjoint names merge and sort",
			x:        []string{"b"},
			y:        []string{"a"},
			expected: []string{"a", "b"},
		},
		{
			name:     "duplicate names are preserved",
			x:        []string{"a"},
			y:        []string{"a"},
			expected: []string{"a", "a"},
		},
		{
			name:     "tau sync with tau stays empty",
			x:        nil,
			y:        nil,
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			a := ast.NewArena()
			c := NewCache()

			mkMA := func(names []string) *ast.MultiAction {
				acts := make([]*ast.Action, len(names))
				for i, n := range names {
					acts[i] = actionOf(t, a, n)
				}
				return a.NewMultiAction(acts)
			}

			x := mkMA(tc.x)
			y := mkMA(tc.y)

			result := c.Sync(a, x, y)
			assert.Equal(tc.expected, c.Untype(result))

			// symmetric memoisation: sync(y, x) returns the identical pointer
			assert.Same(result, c.Sync(a, y, x))
		})
	}
}

func TestSubMultiAction(t *testing.T) {
	testCases := []struct {
		name     string
		l, m     []string
		expected bool
	}{
		{name: "subset with duplicates satisfied", l: []string{"a", "a"}, m: []string{"a", "a", "b"}, expected: true},
		{name: "missing duplicate fails", l: []string{"a", "a"}, m: []string{"a", "b"}, expected: false},
		{name: "empty is always a sub-multiset", l: nil, m: []string{"a"}, expected: true},
		{name: "extra element not present fails", l: []string{"c"}, m: []string{"a", "b"}, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SubMultiAction(tc.l, tc.m))
		})
	}
}

func TestSyncList_FiltersByAllowedAndMaxLen(t *testing.T) {
	assert := assert.New(t)
	a := ast.NewArena()
	c := NewCache()

	mkMA := func(names ...string) *ast.MultiAction {
		acts := make([]*ast.Action, len(names))
		for i, n := range names {
			acts[i] = actionOf(t, a, n)
		}
		return a.NewMultiAction(acts)
	}

	l1 := []*ast.MultiAction{mkMA("a"), mkMA("b")}
	l2 := []*ast.MultiAction{mkMA("c"), mkMA("d")}

	// no restriction: all 4 pairwise syncs survive
	all := SyncList(a, c, l1, l2, 0, nil)
	assert.Len(all, 4)

	// only allow a|c pattern through
	restricted := SyncList(a, c, l1, l2, 0, [][]string{{"a", "c"}})
	assert.Len(restricted, 1)
	assert.Equal([]string{"a", "c"}, c.Untype(restricted[0]))

	// maxLen 1 rejects every 2-action sync
	assert.Empty(SyncList(a, c, l1, l2, 1, nil))
}
