package ast

import (
	"fmt"
	"strings"
)

// SortKind distinguishes the variants of Sort: basic-sort, container-sort, function-sort, structured-sort,
// unknown-sort, and multiple-possible-sorts.
type SortKind int

const (
	SortBasic SortKind = iota
	SortContainer
	SortFunction
	SortStructured
	SortUnknown
	SortMultiple
)

// StructuredConstructor is one constructor of a structured-sort, e.g. the
// "cons" of a list or the "some"/"none" of an option type. Arguments are
// named projection functions paired with their sort.
type StructuredConstructor struct {
	Name string
	Args []StructuredArg
}

type StructuredArg struct {
	Name string
	ASort *Sort
}

// Sort is the hash-consed representation of a sort expression. Two Sorts
// produced through the same Arena are pointer-identical iff they are
// structurally equal; Equal is provided for cross-arena and test use.
type Sort struct {
	Kind SortKind

	// SortBasic
	Name string

	// SortContainer
	Element *Sort

	// SortFunction
	Domain   []*Sort
	Codomain *Sort

	// SortStructured
	Constructors []StructuredConstructor

	// SortMultiple
	Alternatives []*Sort
}

func (s *Sort) String() string {
	if s == nil {
		return "<nil-sort>"
	}
	switch s.Kind {
	case SortBasic:
		return s.Name
	case SortContainer:
		return fmt.Sprintf("%s(%s)", "Container", s.Element.String())
	case SortFunction:
		doms := make([]string, len(s.Domain))
		for i, d := range s.Domain {
			doms[i] = d.String()
		}
		return fmt.Sprintf("(%s) -> %s", strings.Join(doms, " # "), s.Codomain.String())
	case SortStructured:
		names := make([]string, len(s.Constructors))
		for i, c := range s.Constructors {
			names[i] = c.Name
		}
		return fmt.Sprintf("struct %s", strings.Join(names, " | "))
	case SortUnknown:
		return "?"
	case SortMultiple:
		names := make([]string, len(s.Alternatives))
		for i, a := range s.Alternatives {
			names[i] = a.String()
		}
		return fmt.Sprintf("{%s}", strings.Join(names, ", "))
	default:
		return "<invalid-sort>"
	}
}

// Equal is structural equality, usable regardless of which Arena (if any)
// produced the two sorts.
func (s *Sort) Equal(o *Sort) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil {
		return false
	}
	if s.Kind != o.Kind {
		return false
	}
	switch s.Kind {
	case SortBasic:
		return s.Name == o.Name
	case SortContainer:
		return s.Element.Equal(o.Element)
	case SortFunction:
		if len(s.Domain) != len(o.Domain) || !s.Codomain.Equal(o.Codomain) {
			return false
		}
		for i := range s.Domain {
			if !s.Domain[i].Equal(o.Domain[i]) {
				return false
			}
		}
		return true
	case SortStructured:
		if len(s.Constructors) != len(o.Constructors) {
			return false
		}
		for i := range s.Constructors {
			if s.Constructors[i].Name != o.Constructors[i].Name {
				return false
			}
			if len(s.Constructors[i].Args) != len(o.Constructors[i].Args) {
				return false
			}
			for j := range s.Constructors[i].Args {
				if s.Constructors[i].Args[j].Name != o.Constructors[i].Args[j].Name {
					return false
				}
				if !s.Constructors[i].Args[j].ASort.Equal(o.Constructors[i].Args[j].ASort) {
					return false
				}
			}
		}
		return true
	case SortUnknown:
		return true
	case SortMultiple:
		if len(s.Alternatives) != len(o.Alternatives) {
			return false
		}
		for i := range s.Alternatives {
			if !s.Alternatives[i].Equal(o.Alternatives[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func sortKey(s *Sort) string {
	if s == nil {
		return "nil"
	}
	return fmt.Sprintf("%p", s)
}
