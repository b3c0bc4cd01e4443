package ast

import (
	"fmt"
	"strings"
)

// PBESExprKind enumerates the PBES-expression variants.
type PBESExprKind int

const (
	PBESVarInstance PBESExprKind = iota
	PBESTrue
	PBESFalse
	PBESNot
	PBESAnd
	PBESOr
	PBESImp
	PBESForall
	PBESExists
	PBESData
)

// PBESExpr is the tagged representation of a PBES expression.
type PBESExpr struct {
	Kind PBESExprKind

	// PBESVarInstance
	VarName string
	Args    []DataExpr

	// PBESData
	Data DataExpr

	Vars []DataVariable // PBESForall / PBESExists

	Operand *PBESExpr // PBESNot, PBESForall, PBESExists
	Left    *PBESExpr // PBESAnd, PBESOr, PBESImp
	Right   *PBESExpr // PBESAnd, PBESOr, PBESImp
}

func (a *Arena) PVI(name string, args []DataExpr) *PBESExpr {
	return a.internPBESExpr(&PBESExpr{Kind: PBESVarInstance, VarName: name, Args: args})
}
func (a *Arena) PBESTrueE() *PBESExpr  { return a.internPBESExpr(&PBESExpr{Kind: PBESTrue}) }
func (a *Arena) PBESFalseE() *PBESExpr { return a.internPBESExpr(&PBESExpr{Kind: PBESFalse}) }
func (a *Arena) PBESNotE(x *PBESExpr) *PBESExpr {
	return a.internPBESExpr(&PBESExpr{Kind: PBESNot, Operand: x})
}
func (a *Arena) PBESAndE(l, r *PBESExpr) *PBESExpr {
	return a.internPBESExpr(&PBESExpr{Kind: PBESAnd, Left: l, Right: r})
}
func (a *Arena) PBESOrE(l, r *PBESExpr) *PBESExpr {
	return a.internPBESExpr(&PBESExpr{Kind: PBESOr, Left: l, Right: r})
}
func (a *Arena) PBESImpE(l, r *PBESExpr) *PBESExpr {
	return a.internPBESExpr(&PBESExpr{Kind: PBESImp, Left: l, Right: r})
}
func (a *Arena) PBESForallE(vars []DataVariable, body *PBESExpr) *PBESExpr {
	return a.internPBESExpr(&PBESExpr{Kind: PBESForall, Vars: vars, Operand: body})
}
func (a *Arena) PBESExistsE(vars []DataVariable, body *PBESExpr) *PBESExpr {
	return a.internPBESExpr(&PBESExpr{Kind: PBESExists, Vars: vars, Operand: body})
}
func (a *Arena) PBESDataE(d DataExpr) *PBESExpr {
	return a.internPBESExpr(&PBESExpr{Kind: PBESData, Data: d})
}

func (e *PBESExpr) String() string {
	switch e.Kind {
	case PBESVarInstance:
		parts := make([]string, len(e.Args))
		for i, d := range e.Args {
			parts[i] = d.String()
		}
		return fmt.Sprintf("%s(%s)", e.VarName, strings.Join(parts, ", "))
	case PBESTrue:
		return "true"
	case PBESFalse:
		return "false"
	case PBESNot:
		return "!" + e.Operand.String()
	case PBESAnd:
		return fmt.Sprintf("(%s && %s)", e.Left.String(), e.Right.String())
	case PBESOr:
		return fmt.Sprintf("(%s || %s)", e.Left.String(), e.Right.String())
	case PBESImp:
		return fmt.Sprintf("(%s => %s)", e.Left.String(), e.Right.String())
	case PBESForall:
		return fmt.Sprintf("forall %s. %s", varNames(e.Vars), e.Operand.String())
	case PBESExists:
		return fmt.Sprintf("exists %s. %s", varNames(e.Vars), e.Operand.String())
	case PBESData:
		return e.Data.String()
	default:
		return "<invalid pbes expr>"
	}
}

func pbesExprKey(e *PBESExpr) string {
	return fmt.Sprintf("%d|%s|%p|%p|%p", e.Kind, e.VarName, e.Operand, e.Left, e.Right)
}

// FixpointSymbol is mu (least) or nu (greatest).
type FixpointSymbol int

const (
	Mu FixpointSymbol = iota
	Nu
)

func (s FixpointSymbol) String() string {
	if s == Mu {
		return "mu"
	}
	return "nu"
}

// Flip returns the dual fixpoint symbol, used when a negation is pushed
// through a binder.
func (s FixpointSymbol) Flip() FixpointSymbol {
	if s == Mu {
		return Nu
	}
	return Mu
}

// PropositionalVariable is a PBES equation's left-hand-side variable with
// its typed formal parameters.
type PropositionalVariable struct {
	Name   string
	Params []DataVariable
}

func (v PropositionalVariable) String() string {
	parts := make([]string, len(v.Params))
	for i, p := range v.Params {
		parts[i] = fmt.Sprintf("%s: %s", p.Name, p.VSort.String())
	}
	return fmt.Sprintf("%s(%s)", v.Name, strings.Join(parts, ", "))
}

// PBESEquation is (fixpoint-symbol, propositional-variable, body).
type PBESEquation struct {
	Symbol FixpointSymbol
	Var    PropositionalVariable
	Body   *PBESExpr
}

func (e PBESEquation) String() string {
	return fmt.Sprintf("%s %s = %s;", e.Symbol, e.Var.String(), e.Body.String())
}

// PBES is data-spec + equation list + global variables + initial
// propositional-variable-instance.
type PBES struct {
	DataSpec   *DataSpec
	GlobalVars []DataVariable
	Equations  []*PBESEquation
	Init       *PBESExpr
}

func (p *PBES) String() string {
	var sb strings.Builder
	sb.WriteString("pbes\n")
	for _, eq := range p.Equations {
		sb.WriteString("  ")
		sb.WriteString(eq.String())
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "init %s;\n", p.Init.String())
	return sb.String()
}
