package ast

import (
	"sort"
	"strings"
)

// MultiAction is a sorted non-empty multiset of actions performed
// simultaneously; the empty multi-action represents tau. The Actions slice is always kept in ascending CompareActions
// order, including duplicates, which is what makes equality a plain
// element-wise comparison and what sync_mact (package mact) relies on to
// merge two multi-actions by a single sorted merge.
type MultiAction struct {
	Actions []*Action
}

// NewMultiAction sorts a copy of acts and interns the result. This is the
// only legal way to build a MultiAction from the ast package so that the
// ascending-order invariant always holds.
func (a *Arena) NewMultiAction(acts []*Action) *MultiAction {
	cp := append([]*Action(nil), acts...)
	sort.SliceStable(cp, func(i, j int) bool { return CompareActions(cp[i], cp[j]) < 0 })
	return a.internMultiAction(&MultiAction{Actions: cp})
}

func multiActionKey(m *MultiAction) string {
	var sb strings.Builder
	for _, act := range m.Actions {
		sb.WriteString(actionKey(act))
		sb.WriteByte(';')
	}
	return sb.String()
}

func (m *MultiAction) String() string {
	if len(m.Actions) == 0 {
		return "tau"
	}
	parts := make([]string, len(m.Actions))
	for i, act := range m.Actions {
		parts[i] = act.String()
	}
	return strings.Join(parts, "|")
}

// Equal is an element-wise comparison; since both operands are
// kept sorted this is sound as a multiset equality check.
func (m *MultiAction) Equal(o *MultiAction) bool {
	if m == o {
		return true
	}
	if m == nil || o == nil {
		return false
	}
	if len(m.Actions) != len(o.Actions) {
		return false
	}
	for i := range m.Actions {
		if !m.Actions[i].Equal(o.Actions[i]) {
			return false
		}
	}
	return true
}

// IsTau reports whether this multi-action is the empty one.
func (m *MultiAction) IsTau() bool { return len(m.Actions) == 0 }

// Len returns the number of component actions.
func (m *MultiAction) Len() int { return len(m.Actions) }
