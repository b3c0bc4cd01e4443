package ast

import (
	"fmt"
	"strings"
)

// ActionLabel is an action name paired with the ordered list of sorts its
// arguments must have. Two labels are equal iff both components match.
type ActionLabel struct {
	Name  string
	Sorts []*Sort
}

func (l *ActionLabel) String() string {
	if len(l.Sorts) == 0 {
		return l.Name
	}
	parts := make([]string, len(l.Sorts))
	for i, s := range l.Sorts {
		parts[i] = s.String()
	}
	return fmt.Sprintf("%s: %s", l.Name, strings.Join(parts, " # "))
}

func (l *ActionLabel) Equal(o *ActionLabel) bool {
	if l == o {
		return true
	}
	if l == nil || o == nil {
		return false
	}
	if l.Name != o.Name || len(l.Sorts) != len(o.Sorts) {
		return false
	}
	for i := range l.Sorts {
		if !l.Sorts[i].Equal(o.Sorts[i]) {
			return false
		}
	}
	return true
}

func actionLabelKey(l *ActionLabel) string {
	var sb strings.Builder
	sb.WriteString(l.Name)
	for _, s := range l.Sorts {
		sb.WriteByte('|')
		sb.WriteString(sortKey(s))
	}
	return sb.String()
}

// ActionLabel interns a fresh action label.
func (a *Arena) ActionLabel(name string, sorts []*Sort) *ActionLabel {
	l := &ActionLabel{Name: name, Sorts: sorts}
	return a.internActionLabel(actionLabelKey(l), l)
}

// Action is a label applied to a list of data arguments.
type Action struct {
	Label *ActionLabel
	Args  []DataExpr
}

func (act *Action) String() string {
	if len(act.Args) == 0 {
		return act.Label.Name
	}
	parts := make([]string, len(act.Args))
	for i, d := range act.Args {
		parts[i] = d.String()
	}
	return fmt.Sprintf("%s(%s)", act.Label.Name, strings.Join(parts, ", "))
}

func (act *Action) Equal(o *Action) bool {
	if act == o {
		return true
	}
	if act == nil || o == nil {
		return false
	}
	if !act.Label.Equal(o.Label) || len(act.Args) != len(o.Args) {
		return false
	}
	for i := range act.Args {
		if !act.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

func actionKey(act *Action) string {
	var sb strings.Builder
	sb.WriteString(actionLabelKey(act.Label))
	for _, d := range act.Args {
		sb.WriteByte('|')
		sb.WriteString(d.String())
	}
	return sb.String()
}

// ActionOf interns an action application of a label to arguments.
func (a *Arena) ActionOf(label *ActionLabel, args []DataExpr) *Action {
	act := &Action{Label: label, Args: args}
	return a.internAction(actionKey(act), act)
}

// Untype returns the label name of an action, i.e. its untyped
// projection.
func Untype(act *Action) string {
	return act.Label.Name
}

// Type returns the sort list of an action's label.
func Type(act *Action) []*Sort {
	return act.Label.Sorts
}

// CompareActions defines the fixed total order on actions used to keep
// multi-actions sorted: lexicographic on label name, then on the structural
// key of arguments. It is stable for the duration of a run
// because DataExpr.String() is deterministic for any fixed AST.
func CompareActions(a, b *Action) int {
	if a.Label.Name != b.Label.Name {
		if a.Label.Name < b.Label.Name {
			return -1
		}
		return 1
	}
	n := len(a.Args)
	if len(b.Args) < n {
		n = len(b.Args)
	}
	for i := 0; i < n; i++ {
		as, bs := a.Args[i].String(), b.Args[i].String()
		if as != bs {
			if as < bs {
				return -1
			}
			return 1
		}
	}
	if len(a.Args) != len(b.Args) {
		if len(a.Args) < len(b.Args) {
			return -1
		}
		return 1
	}
	return 0
}
