// Package classify implements the equation classifier and n-parallel
// expander: for every process equation it tags a form
// (pCRL / nPCRL / mCRL) and a recursivity bit, and recognises the
// "n-parallel" replication template so the driver can expand it away.
package classify

import (
	"strconv"

	"github.com/mcrl2-go/symbolic/ast"
	"github.com/mcrl2-go/symbolic/diagnostics"
	"github.com/mcrl2-go/symbolic/errs"
	"github.com/mcrl2-go/symbolic/traverse"
)

// Form is the pCRL / nPCRL / mCRL classification of an equation.
type Form int

const (
	FormPCRL Form = iota
	FormNPCRL
	FormMCRL
)

func (f Form) String() string {
	switch f {
	case FormPCRL:
		return "pCRL"
	case FormNPCRL:
		return "nPCRL"
	case FormMCRL:
		return "mCRL"
	default:
		return "unknown"
	}
}

// EquationInfo is the classifier's verdict for one equation.
type EquationInfo struct {
	Name      string
	Form      Form
	Recursive bool
	// NParallelQ is the Q process name recognised by the n-parallel
	// template, empty unless Form == FormNPCRL.
	NParallelQ string
}

// DependencyGraph maps each equation name to the process names its body
// directly references.
func DependencyGraph(spec *ast.ProcessSpec) map[string][]string {
	g := make(map[string][]string, len(spec.Equations))
	for _, eq := range spec.Equations {
		g[eq.Name] = traverse.ReferencedProcessNames(eq.Body)
	}
	return g
}

// Reachable reports whether target is reachable from start in g, which the
// classifier uses both for the equation's own recursivity bit and for the
// n-parallel template's "Q does not depend on P" side condition.
func Reachable(g map[string][]string, start, target string) bool {
	visited := map[string]bool{}
	var dfs func(n string) bool
	dfs = func(n string) bool {
		for _, m := range g[n] {
			if m == target {
				return true
			}
			if visited[m] {
				continue
			}
			visited[m] = true
			if dfs(m) {
				return true
			}
		}
		return false
	}
	return dfs(start)
}

// classifyForm determines pCRL vs mCRL from the literal operators used in
// eq's own body: pCRL means only {sum, at, choice, seq, if-then,
// if-then-else, bounded-init, action, tau, delta, process-reference}
// appear. Process references are leaves here: what
// the referenced equation itself does is irrelevant to this equation's own
// syntactic shape.
func classifyForm(body *ast.Process) Form {
	pcrl := true
	traverse.ObserveProcess(body, func(n *ast.Process) {
		switch n.Kind {
		case ast.ProcSync, ast.ProcMerge, ast.ProcLeftMerge,
			ast.ProcBlock, ast.ProcHide, ast.ProcRename, ast.ProcAllow, ast.ProcComm:
			pcrl = false
		}
	}, nil)
	if pcrl {
		return FormPCRL
	}
	return FormMCRL
}

// Classify computes form + recursivity for every equation in spec, then
// runs n-parallel template recognition which may upgrade an
// equation's Form to FormNPCRL. diag receives NPCRLPatternRejected-style
// warnings when a plausible candidate (first parameter of sort Pos, body
// shaped as an if-then-else) fails to match the template exactly.
func Classify(spec *ast.ProcessSpec, diag *diagnostics.Sink) map[string]*EquationInfo {
	if diag == nil {
		diag = diagnostics.NewSink(nil)
	}
	g := DependencyGraph(spec)
	info := make(map[string]*EquationInfo, len(spec.Equations))
	for _, eq := range spec.Equations {
		info[eq.Name] = &EquationInfo{
			Name:      eq.Name,
			Form:      classifyForm(eq.Body),
			Recursive: Reachable(g, eq.Name, eq.Name),
		}
	}
	for _, eq := range spec.Equations {
		qName, candidate, ok := matchNParallelTemplate(eq)
		if !ok {
			if candidate {
				diag.RecordErr(diagnostics.Warning, errs.New(errs.NPCRLPatternRejected,
					"equation %s looks like an n-parallel replication but does not match the template exactly", eq.Name).WithSubterm(eq))
			}
			continue
		}
		if Reachable(g, qName, eq.Name) {
			diag.RecordErr(diagnostics.Warning, errs.New(errs.NPCRLPatternRejected,
				"equation %s matches the n-parallel template but %s depends on it; rejecting", eq.Name, qName).WithSubterm(eq))
			continue
		}
		info[eq.Name].Form = FormNPCRL
		info[eq.Name].NParallelQ = qName
	}
	return info
}

// matchNParallelTemplate recognises:
//
//	P(n:Pos, ...) = (n > 1) -> Q(n, ...) || P(n-1 or max(n-1,1), ...) <> Q(1, ...)
//
// where Q does not depend on P (checked by the caller). The second return
// value reports whether the equation was at least a plausible candidate (so
// the caller can distinguish "not attempted" from "attempted and failed",
// the latter warranting an NPCRLPatternRejected-style diagnostic).
func matchNParallelTemplate(eq *ast.ProcessEquation) (qName string, candidate bool, ok bool) {
	if len(eq.FormalParams) == 0 {
		return "", false, false
	}
	n := eq.FormalParams[0]
	if n.VSort == nil || n.VSort.String() != "Pos" {
		return "", false, false
	}
	ite := eq.Body
	if ite.Kind != ast.ProcIfThenElse {
		return "", false, false
	}
	candidate = true
	if !isGreaterThanOne(ite.Cond, n.Name) {
		return "", candidate, false
	}
	then := ite.Left
	els := ite.Right
	if then.Kind != ast.ProcMerge {
		return "", candidate, false
	}
	var qCall *ast.Process
	switch {
	case then.Left.Kind == ast.ProcRef && then.Left.ProcName == eq.Name:
		qCall = then.Right
	case then.Right.Kind == ast.ProcRef && then.Right.ProcName == eq.Name:
		qCall = then.Left
	default:
		return "", candidate, false
	}
	if qCall == nil || qCall.Kind != ast.ProcRef {
		return "", candidate, false
	}
	if els.Kind != ast.ProcRef || els.ProcName != qCall.ProcName {
		return "", candidate, false
	}
	return qCall.ProcName, candidate, true
}

func isGreaterThanOne(cond ast.DataExpr, nName string) bool {
	app, ok := cond.(ast.DataApplication)
	if !ok || len(app.Args) != 2 {
		return false
	}
	if app.Head != "greater" && app.Head != ">" {
		return false
	}
	v, ok := app.Args[0].(ast.DataVariable)
	if !ok || v.Name != nName {
		return false
	}
	return isPosLiteral(app.Args[1], 1)
}

func isPosLiteral(e ast.DataExpr, want int) bool {
	app, ok := e.(ast.DataApplication)
	if !ok || len(app.Args) != 0 {
		return false
	}
	n, err := strconv.Atoi(app.Head)
	return err == nil && n == want
}
