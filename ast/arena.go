// Package ast implements the hash-consed term store for
// every syntactic category used by the symbolic engine: sorts, actions,
// multi-actions, process expressions, modal-mu-calculus state and action
// formulas, and parameterised boolean equation systems.
//
// Construction of any node goes through an Arena, which returns the unique
// representative of a structurally equal term. This makes pointer identity
// a sound proxy for structural equality within one Arena, which is what
// lets alphabet/restrict/classify/driver key their caches on term identity
// instead of re-hashing structurally equal subterms on every lookup.
//
// An Arena behaves like a term arena: it has no
// explicit teardown, nodes are never removed once added, and it is meant to
// be threaded explicitly through every computation rather than hidden
// behind package-level globals.
package ast

// Arena is the hash-consing pool. The zero value is not usable; construct
// one with NewArena.
type Arena struct {
	sorts        map[string]*Sort
	actionLabels map[string]*ActionLabel
	actions      map[string]*Action
	multiActions map[string]*MultiAction
	processes    map[string]*Process
	formulas     map[string]*StateFormula
	actionForms  map[string]*ActionFormula
	pbesExprs    map[string]*PBESExpr

	// tau is the canonical empty multi-action; kept so that every caller
	// asking for "the" tau multi-action gets the identical pointer.
	tau *MultiAction
}

// NewArena creates an empty term store.
func NewArena() *Arena {
	a := &Arena{
		sorts:        make(map[string]*Sort),
		actionLabels: make(map[string]*ActionLabel),
		actions:      make(map[string]*Action),
		multiActions: make(map[string]*MultiAction),
		processes:    make(map[string]*Process),
		formulas:     make(map[string]*StateFormula),
		actionForms:  make(map[string]*ActionFormula),
		pbesExprs:    make(map[string]*PBESExpr),
	}
	a.tau = a.internMultiAction(&MultiAction{Actions: nil})
	return a
}

func (a *Arena) internSort(key string, s *Sort) *Sort {
	if existing, ok := a.sorts[key]; ok {
		return existing
	}
	a.sorts[key] = s
	return s
}

func (a *Arena) internActionLabel(key string, l *ActionLabel) *ActionLabel {
	if existing, ok := a.actionLabels[key]; ok {
		return existing
	}
	a.actionLabels[key] = l
	return l
}

func (a *Arena) internAction(key string, act *Action) *Action {
	if existing, ok := a.actions[key]; ok {
		return existing
	}
	a.actions[key] = act
	return act
}

func (a *Arena) internMultiAction(key *MultiAction) *MultiAction {
	k := multiActionKey(key)
	if existing, ok := a.multiActions[k]; ok {
		return existing
	}
	a.multiActions[k] = key
	return key
}

func (a *Arena) internProcess(p *Process) *Process {
	k := processKey(p)
	if existing, ok := a.processes[k]; ok {
		return existing
	}
	a.processes[k] = p
	return p
}

func (a *Arena) internFormula(f *StateFormula) *StateFormula {
	k := formulaKey(f)
	if existing, ok := a.formulas[k]; ok {
		return existing
	}
	a.formulas[k] = f
	return f
}

func (a *Arena) internActionFormula(f *ActionFormula) *ActionFormula {
	k := actionFormulaKey(f)
	if existing, ok := a.actionForms[k]; ok {
		return existing
	}
	a.actionForms[k] = f
	return f
}

func (a *Arena) internPBESExpr(e *PBESExpr) *PBESExpr {
	k := pbesExprKey(e)
	if existing, ok := a.pbesExprs[k]; ok {
		return existing
	}
	a.pbesExprs[k] = e
	return e
}

// Tau returns the canonical empty multi-action (the representation of the
// silent step).
func (a *Arena) Tau() *MultiAction { return a.tau }
