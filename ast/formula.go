package ast

import (
	"fmt"
	"strings"
)

// ActionFormKind enumerates the action-formula variants.
type ActionFormKind int

const (
	AFTrue ActionFormKind = iota
	AFFalse
	AFData
	AFMultiAction
	AFNot
	AFAnd
	AFOr
	AFImp
	AFForall
	AFExists
	AFAt
)

// ActionFormula classifies what a multi-action is allowed to look like at a
// must/may modality.
type ActionFormula struct {
	Kind ActionFormKind

	Data DataExpr // AFData

	Literal *MultiAction // AFMultiAction

	Vars []DataVariable // AFForall / AFExists

	Operand *ActionFormula // AFNot, AFForall, AFExists, AFAt
	Left    *ActionFormula // AFAnd, AFOr, AFImp
	Right   *ActionFormula // AFAnd, AFOr, AFImp

	Time DataExpr // AFAt
}

func (a *Arena) AFTrue() *ActionFormula  { return a.internActionFormula(&ActionFormula{Kind: AFTrue}) }
func (a *Arena) AFFalse() *ActionFormula { return a.internActionFormula(&ActionFormula{Kind: AFFalse}) }
func (a *Arena) AFDataExpr(d DataExpr) *ActionFormula {
	return a.internActionFormula(&ActionFormula{Kind: AFData, Data: d})
}
func (a *Arena) AFMultiActionLit(m *MultiAction) *ActionFormula {
	return a.internActionFormula(&ActionFormula{Kind: AFMultiAction, Literal: m})
}
func (a *Arena) AFNot(x *ActionFormula) *ActionFormula {
	return a.internActionFormula(&ActionFormula{Kind: AFNot, Operand: x})
}
func (a *Arena) AFAnd(l, r *ActionFormula) *ActionFormula {
	return a.internActionFormula(&ActionFormula{Kind: AFAnd, Left: l, Right: r})
}
func (a *Arena) AFOr(l, r *ActionFormula) *ActionFormula {
	return a.internActionFormula(&ActionFormula{Kind: AFOr, Left: l, Right: r})
}
func (a *Arena) AFImp(l, r *ActionFormula) *ActionFormula {
	return a.internActionFormula(&ActionFormula{Kind: AFImp, Left: l, Right: r})
}
func (a *Arena) AFForall(vars []DataVariable, body *ActionFormula) *ActionFormula {
	return a.internActionFormula(&ActionFormula{Kind: AFForall, Vars: vars, Operand: body})
}
func (a *Arena) AFExists(vars []DataVariable, body *ActionFormula) *ActionFormula {
	return a.internActionFormula(&ActionFormula{Kind: AFExists, Vars: vars, Operand: body})
}
func (a *Arena) AFAt(body *ActionFormula, t DataExpr) *ActionFormula {
	return a.internActionFormula(&ActionFormula{Kind: AFAt, Operand: body, Time: t})
}

func (x *ActionFormula) String() string {
	switch x.Kind {
	case AFTrue:
		return "true"
	case AFFalse:
		return "false"
	case AFData:
		return x.Data.String()
	case AFMultiAction:
		return x.Literal.String()
	case AFNot:
		return "!" + x.Operand.String()
	case AFAnd:
		return fmt.Sprintf("(%s && %s)", x.Left.String(), x.Right.String())
	case AFOr:
		return fmt.Sprintf("(%s || %s)", x.Left.String(), x.Right.String())
	case AFImp:
		return fmt.Sprintf("(%s => %s)", x.Left.String(), x.Right.String())
	case AFForall:
		return fmt.Sprintf("forall %s. %s", varNames(x.Vars), x.Operand.String())
	case AFExists:
		return fmt.Sprintf("exists %s. %s", varNames(x.Vars), x.Operand.String())
	case AFAt:
		return fmt.Sprintf("%s@%s", x.Operand.String(), x.Time.String())
	default:
		return "<invalid action formula>"
	}
}

func actionFormulaKey(x *ActionFormula) string { return x.String() + fmt.Sprintf("%p%p", x.Operand, x.Left) }

func varNames(vars []DataVariable) string {
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	return strings.Join(names, ", ")
}

// StateFormKind enumerates the regular modal-mu-calculus state formula
// variants.
type StateFormKind int

const (
	SFTrue StateFormKind = iota
	SFFalse
	SFData
	SFNot
	SFAnd
	SFOr
	SFImp
	SFForall
	SFExists
	SFMust
	SFMay
	SFYaled
	SFDelay
	SFYaledTimed
	SFDelayTimed
	SFVariable
	SFMu
	SFNu
)

// StateFormula is the tagged representation of a state formula.
type StateFormula struct {
	Kind StateFormKind

	Data DataExpr // SFData

	Vars []DataVariable // SFForall / SFExists

	Action *ActionFormula // SFMust / SFMay

	Operand *StateFormula // SFNot, SFForall, SFExists, SFMust, SFMay
	Left    *StateFormula // SFAnd, SFOr, SFImp
	Right   *StateFormula // SFAnd, SFOr, SFImp

	Time DataExpr // SFYaledTimed / SFDelayTimed

	// SFVariable / SFMu / SFNu
	VarName     string
	Assignments []Assignment   // SFVariable: actual arguments as assignments to bound vars
	FixVars     []DataVariable // SFMu / SFNu: formal parameters with initial values in Assignments
	FixInit     []Assignment
}

func (a *Arena) SFTrue() *StateFormula  { return a.internFormula(&StateFormula{Kind: SFTrue}) }
func (a *Arena) SFFalse() *StateFormula { return a.internFormula(&StateFormula{Kind: SFFalse}) }
func (a *Arena) SFDataExpr(d DataExpr) *StateFormula {
	return a.internFormula(&StateFormula{Kind: SFData, Data: d})
}
func (a *Arena) SFNot(x *StateFormula) *StateFormula {
	return a.internFormula(&StateFormula{Kind: SFNot, Operand: x})
}
func (a *Arena) SFAnd(l, r *StateFormula) *StateFormula {
	return a.internFormula(&StateFormula{Kind: SFAnd, Left: l, Right: r})
}
func (a *Arena) SFOr(l, r *StateFormula) *StateFormula {
	return a.internFormula(&StateFormula{Kind: SFOr, Left: l, Right: r})
}
func (a *Arena) SFImp(l, r *StateFormula) *StateFormula {
	return a.internFormula(&StateFormula{Kind: SFImp, Left: l, Right: r})
}
func (a *Arena) SFForall(vars []DataVariable, body *StateFormula) *StateFormula {
	return a.internFormula(&StateFormula{Kind: SFForall, Vars: vars, Operand: body})
}
func (a *Arena) SFExists(vars []DataVariable, body *StateFormula) *StateFormula {
	return a.internFormula(&StateFormula{Kind: SFExists, Vars: vars, Operand: body})
}
func (a *Arena) SFMust(act *ActionFormula, body *StateFormula) *StateFormula {
	return a.internFormula(&StateFormula{Kind: SFMust, Action: act, Operand: body})
}
func (a *Arena) SFMay(act *ActionFormula, body *StateFormula) *StateFormula {
	return a.internFormula(&StateFormula{Kind: SFMay, Action: act, Operand: body})
}
func (a *Arena) SFYaled() *StateFormula { return a.internFormula(&StateFormula{Kind: SFYaled}) }
func (a *Arena) SFDelay() *StateFormula { return a.internFormula(&StateFormula{Kind: SFDelay}) }
func (a *Arena) SFYaledTimed(t DataExpr) *StateFormula {
	return a.internFormula(&StateFormula{Kind: SFYaledTimed, Time: t})
}
func (a *Arena) SFDelayTimed(t DataExpr) *StateFormula {
	return a.internFormula(&StateFormula{Kind: SFDelayTimed, Time: t})
}
func (a *Arena) SFVariable(name string, args []Assignment) *StateFormula {
	return a.internFormula(&StateFormula{Kind: SFVariable, VarName: name, Assignments: args})
}
func (a *Arena) SFMu(name string, vars []DataVariable, init []Assignment, body *StateFormula) *StateFormula {
	return a.internFormula(&StateFormula{Kind: SFMu, VarName: name, FixVars: vars, FixInit: init, Operand: body})
}
func (a *Arena) SFNu(name string, vars []DataVariable, init []Assignment, body *StateFormula) *StateFormula {
	return a.internFormula(&StateFormula{Kind: SFNu, VarName: name, FixVars: vars, FixInit: init, Operand: body})
}

// IsFixpoint reports whether this formula is a mu or nu binder, the
// preprocessing check used to decide whether to wrap phi in
// a fresh nu X.
func (f *StateFormula) IsFixpoint() bool { return f.Kind == SFMu || f.Kind == SFNu }

func (f *StateFormula) String() string {
	switch f.Kind {
	case SFTrue:
		return "true"
	case SFFalse:
		return "false"
	case SFData:
		return f.Data.String()
	case SFNot:
		return "!" + f.Operand.String()
	case SFAnd:
		return fmt.Sprintf("(%s && %s)", f.Left.String(), f.Right.String())
	case SFOr:
		return fmt.Sprintf("(%s || %s)", f.Left.String(), f.Right.String())
	case SFImp:
		return fmt.Sprintf("(%s => %s)", f.Left.String(), f.Right.String())
	case SFForall:
		return fmt.Sprintf("forall %s. %s", varNames(f.Vars), f.Operand.String())
	case SFExists:
		return fmt.Sprintf("exists %s. %s", varNames(f.Vars), f.Operand.String())
	case SFMust:
		return fmt.Sprintf("[%s]%s", f.Action.String(), f.Operand.String())
	case SFMay:
		return fmt.Sprintf("<%s>%s", f.Action.String(), f.Operand.String())
	case SFYaled:
		return "yaled"
	case SFDelay:
		return "delay"
	case SFYaledTimed:
		return fmt.Sprintf("yaled@%s", f.Time.String())
	case SFDelayTimed:
		return fmt.Sprintf("delay@%s", f.Time.String())
	case SFVariable:
		return fmt.Sprintf("%s(%s)", f.VarName, assignStr(f.Assignments))
	case SFMu:
		return fmt.Sprintf("mu %s(%s). %s", f.VarName, assignStr(f.FixInit), f.Operand.String())
	case SFNu:
		return fmt.Sprintf("nu %s(%s). %s", f.VarName, assignStr(f.FixInit), f.Operand.String())
	default:
		return "<invalid state formula>"
	}
}

func assignStr(as []Assignment) string {
	parts := make([]string, len(as))
	for i, a := range as {
		parts[i] = fmt.Sprintf("%s = %s", a.Param, a.Value.String())
	}
	return strings.Join(parts, ", ")
}

func formulaKey(f *StateFormula) string {
	return fmt.Sprintf("%d|%s|%p|%p|%p", f.Kind, f.VarName, f.Operand, f.Left, f.Right)
}
