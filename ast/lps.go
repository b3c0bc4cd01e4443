package ast

// Summand is one linear-process summand: an existentially-quantified local
// variable list, a boolean guard over those variables and the process
// parameters, the multi-action performed (nil means tau), an optional time
// stamp, and the next-state assignment to every process parameter. This is
// the linear form the translator consumes, already
// flattened out of the general process-algebra terms that C4/C5/C6/C7
// operate over.
type Summand struct {
	Vars        []DataVariable
	Cond        DataExpr
	Action      *MultiAction
	Time        DataExpr
	Assignments []Assignment
}

// LinearProcess is a single linear process equation: its parameters and the
// summand list, plus the action labels it may use.
type LinearProcess struct {
	Parameters   []DataVariable
	Summands     []Summand
	ActionLabels []*ActionLabel
}

// Timed reports whether any summand already carries an explicit time stamp.
func (lps *LinearProcess) Timed() bool {
	for _, s := range lps.Summands {
		if s.Time != nil {
			return true
		}
	}
	return false
}
