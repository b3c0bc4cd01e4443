package ast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mcrl2-go/symbolic/errs"
)

// ProcKind enumerates the process-expression variants.
type ProcKind int

const (
	ProcDelta ProcKind = iota
	ProcTau
	ProcAction
	ProcRef
	ProcRefAssign
	ProcSum
	ProcBlock
	ProcHide
	ProcRename
	ProcAllow
	ProcComm
	ProcSync
	ProcAt
	ProcSeq
	ProcIfThen
	ProcIfThenElse
	ProcBoundedInit
	ProcMerge
	ProcLeftMerge
	ProcChoice
)

func (k ProcKind) String() string {
	names := [...]string{
		"delta", "tau", "action", "ref", "ref-assign", "sum", "block", "hide",
		"rename", "allow", "comm", "sync", "at", "seq", "if-then",
		"if-then-else", "bounded-init", "merge", "left-merge", "choice",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("ProcKind(%d)", int(k))
}

// Assignment binds a formal parameter name to a replacement value, used by
// process-reference-assignment (e.g. P(x = 1, y = y+1)).
type Assignment struct {
	Param string
	Value DataExpr
}

// RenamePair is one entry of a rename operator's pair list: rename
// occurrences of From to To.
type RenamePair struct {
	From string
	To   string
}

// CommPair is one entry of a comm operator's pair list. Rhs == "" denotes
// synchronisation to tau.
type CommPair struct {
	Lhs []string
	Rhs string
}

// Process is the tagged representation of a process expression. Only the
// fields relevant to Kind are populated; see each constructor for which
// fields it sets. Variant dispatch is a plain switch on Kind.
type Process struct {
	Kind ProcKind

	// ProcAction
	Act *Action

	// ProcRef / ProcRefAssign
	ProcName    string
	RefArgs     []DataExpr
	Assignments []Assignment

	// ProcSum
	SumVars []DataVariable

	// ProcBlock / ProcHide: name set (no duplicates)
	NameSet []string

	// ProcRename
	RenamePairs []RenamePair

	// ProcAllow: multi-name sets, each stored sorted
	AllowSet []MultiNameSet

	// ProcComm
	CommPairs []CommPair

	// ProcAt
	Time DataExpr

	// ProcIfThen / ProcIfThenElse
	Cond DataExpr

	// Unary wrap operand: sum, block, hide, rename, allow, comm, at
	Operand *Process

	// Binary operands: sync, seq, bounded-init, merge, left-merge, choice,
	// and the Then/Else arms of if-then(-else)
	Left, Right *Process
}

// MultiNameSet is a sorted, duplicate-free set of action names, as used by
// allow.
type MultiNameSet []string

func newMultiNameSet(names []string) MultiNameSet {
	cp := append([]string(nil), names...)
	sort.Strings(cp)
	out := cp[:0]
	var prev string
	for i, n := range cp {
		if i == 0 || n != prev {
			out = append(out, n)
		}
		prev = n
	}
	return MultiNameSet(out)
}

func (s MultiNameSet) String() string { return strings.Join(s, "|") }

func (s MultiNameSet) Equal(o MultiNameSet) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// SubMultiAction reports whether the untyped multi-action m (a multiset of
// action names) is a sub-multiset of s,
// specialised to the untyped domain used by allow/block filters.
func (s MultiNameSet) ContainsSub(m []string) bool {
	counts := map[string]int{}
	for _, n := range s {
		counts[n]++
	}
	need := map[string]int{}
	for _, n := range m {
		need[n]++
	}
	for n, c := range need {
		if counts[n] < c {
			return false
		}
	}
	return true
}

func dedupSortedNames(names []string) []string {
	cp := append([]string(nil), names...)
	sort.Strings(cp)
	out := cp[:0]
	var prev string
	for i, n := range cp {
		if i == 0 || n != prev {
			out = append(out, n)
		}
		prev = n
	}
	return out
}

func hasDuplicates(names []string) bool {
	seen := map[string]bool{}
	for _, n := range names {
		if seen[n] {
			return true
		}
		seen[n] = true
	}
	return false
}

// --- constructors -----------------------------------------------------

func (a *Arena) Delta() *Process { return a.internProcess(&Process{Kind: ProcDelta}) }
func (a *Arena) TauProc() *Process { return a.internProcess(&Process{Kind: ProcTau}) }

func (a *Arena) ActionProc(act *Action) *Process {
	return a.internProcess(&Process{Kind: ProcAction, Act: act})
}

func (a *Arena) ProcessRef(name string, args []DataExpr) *Process {
	return a.internProcess(&Process{Kind: ProcRef, ProcName: name, RefArgs: args})
}

func (a *Arena) ProcessRefAssign(name string, assigns []Assignment) *Process {
	return a.internProcess(&Process{Kind: ProcRefAssign, ProcName: name, Assignments: assigns})
}

func (a *Arena) Sum(vars []DataVariable, body *Process) *Process {
	return a.internProcess(&Process{Kind: ProcSum, SumVars: vars, Operand: body})
}

// Block validates that H has no duplicate names before
// constructing block(H, P).
func (a *Arena) Block(names []string, body *Process) (*Process, error) {
	if hasDuplicates(names) {
		return nil, errs.New(errs.MalformedInput, "block name set contains duplicates: %v", names)
	}
	return a.internProcess(&Process{Kind: ProcBlock, NameSet: dedupSortedNames(names), Operand: body}), nil
}

func (a *Arena) Hide(names []string, body *Process) (*Process, error) {
	if hasDuplicates(names) {
		return nil, errs.New(errs.MalformedInput, "hide name set contains duplicates: %v", names)
	}
	return a.internProcess(&Process{Kind: ProcHide, NameSet: dedupSortedNames(names), Operand: body}), nil
}

func (a *Arena) Rename(pairs []RenamePair, body *Process) *Process {
	cp := append([]RenamePair(nil), pairs...)
	sort.Slice(cp, func(i, j int) bool { return cp[i].From < cp[j].From })
	return a.internProcess(&Process{Kind: ProcRename, RenamePairs: cp, Operand: body})
}

// Allow validates that V contains no duplicate multi-name sets and stores
// each one sorted.
func (a *Arena) Allow(v [][]string, body *Process) (*Process, error) {
	sets := make([]MultiNameSet, len(v))
	for i, names := range v {
		sets[i] = newMultiNameSet(names)
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].String() < sets[j].String() })
	for i := 1; i < len(sets); i++ {
		if sets[i].Equal(sets[i-1]) {
			return nil, errs.New(errs.MalformedInput, "allow multi-name set contains duplicate entry: %v", sets[i])
		}
	}
	return a.internProcess(&Process{Kind: ProcAllow, AllowSet: sets, Operand: body}), nil
}

// Comm validates the comm disjointness invariants: lhs names are
// disjoint across pairs, and every rhs name is either absent (tau) or
// distinct from every other pair's lhs names. This is what later lets
// the comm pusher's partitioning assume the invariant instead of
// re-checking it.
func (a *Arena) Comm(pairs []CommPair, body *Process) (*Process, error) {
	if len(pairs) == 0 {
		return body, nil
	}
	lhsSeen := map[string]bool{}
	rhsNames := map[string]bool{}
	for _, p := range pairs {
		for _, n := range p.Lhs {
			if lhsSeen[n] {
				return nil, errs.New(errs.MalformedInput, "comm lhs name %q used in more than one pair", n)
			}
			lhsSeen[n] = true
		}
		if p.Rhs != "" {
			rhsNames[p.Rhs] = true
		}
	}
	for _, p := range pairs {
		if p.Rhs != "" && lhsSeen[p.Rhs] && !isLhsOf(p, p.Rhs) {
			return nil, errs.New(errs.MalformedInput, "comm rhs name %q collides with another pair's lhs", p.Rhs)
		}
	}
	cp := append([]CommPair(nil), pairs...)
	sort.Slice(cp, func(i, j int) bool { return strings.Join(cp[i].Lhs, ",") < strings.Join(cp[j].Lhs, ",") })
	return a.internProcess(&Process{Kind: ProcComm, CommPairs: cp, Operand: body}), nil
}

func isLhsOf(p CommPair, name string) bool {
	for _, n := range p.Lhs {
		if n == name {
			return true
		}
	}
	return false
}

// SyncP builds l|r. Syncing with tau is the identity on the other operand,
// so that case never produces a node at all.
func (a *Arena) SyncP(l, r *Process) *Process {
	if l.Kind == ProcTau {
		return r
	}
	if r.Kind == ProcTau {
		return l
	}
	return a.internProcess(&Process{Kind: ProcSync, Left: l, Right: r})
}

func (a *Arena) At(body *Process, t DataExpr) *Process {
	return a.internProcess(&Process{Kind: ProcAt, Operand: body, Time: t})
}

func (a *Arena) Seq(l, r *Process) *Process {
	return a.internProcess(&Process{Kind: ProcSeq, Left: l, Right: r})
}

func (a *Arena) IfThen(cond DataExpr, then *Process) *Process {
	return a.internProcess(&Process{Kind: ProcIfThen, Cond: cond, Left: then})
}

func (a *Arena) IfThenElse(cond DataExpr, then, els *Process) *Process {
	return a.internProcess(&Process{Kind: ProcIfThenElse, Cond: cond, Left: then, Right: els})
}

func (a *Arena) BoundedInit(l, r *Process) *Process {
	return a.internProcess(&Process{Kind: ProcBoundedInit, Left: l, Right: r})
}

func (a *Arena) Merge(l, r *Process) *Process {
	return a.internProcess(&Process{Kind: ProcMerge, Left: l, Right: r})
}

func (a *Arena) LeftMerge(l, r *Process) *Process {
	return a.internProcess(&Process{Kind: ProcLeftMerge, Left: l, Right: r})
}

func (a *Arena) Choice(l, r *Process) *Process {
	return a.internProcess(&Process{Kind: ProcChoice, Left: l, Right: r})
}

// --- printing / keys ----------------------------------------------------

func (p *Process) String() string {
	switch p.Kind {
	case ProcDelta:
		return "delta"
	case ProcTau:
		return "tau"
	case ProcAction:
		return p.Act.String()
	case ProcRef:
		parts := make([]string, len(p.RefArgs))
		for i, d := range p.RefArgs {
			parts[i] = d.String()
		}
		return fmt.Sprintf("%s(%s)", p.ProcName, strings.Join(parts, ", "))
	case ProcRefAssign:
		parts := make([]string, len(p.Assignments))
		for i, as := range p.Assignments {
			parts[i] = fmt.Sprintf("%s = %s", as.Param, as.Value.String())
		}
		return fmt.Sprintf("%s(%s)", p.ProcName, strings.Join(parts, ", "))
	case ProcSum:
		names := make([]string, len(p.SumVars))
		for i, v := range p.SumVars {
			names[i] = v.Name
		}
		return fmt.Sprintf("sum %s. %s", strings.Join(names, ", "), p.Operand.String())
	case ProcBlock:
		return fmt.Sprintf("block({%s}, %s)", strings.Join(p.NameSet, ", "), p.Operand.String())
	case ProcHide:
		return fmt.Sprintf("hide({%s}, %s)", strings.Join(p.NameSet, ", "), p.Operand.String())
	case ProcRename:
		parts := make([]string, len(p.RenamePairs))
		for i, rp := range p.RenamePairs {
			parts[i] = fmt.Sprintf("%s -> %s", rp.From, rp.To)
		}
		return fmt.Sprintf("rename({%s}, %s)", strings.Join(parts, ", "), p.Operand.String())
	case ProcAllow:
		parts := make([]string, len(p.AllowSet))
		for i, s := range p.AllowSet {
			parts[i] = s.String()
		}
		return fmt.Sprintf("allow({%s}, %s)", strings.Join(parts, ", "), p.Operand.String())
	case ProcComm:
		parts := make([]string, len(p.CommPairs))
		for i, cp := range p.CommPairs {
			rhs := cp.Rhs
			if rhs == "" {
				rhs = "tau"
			}
			parts[i] = fmt.Sprintf("%s -> %s", strings.Join(cp.Lhs, "|"), rhs)
		}
		return fmt.Sprintf("comm({%s}, %s)", strings.Join(parts, ", "), p.Operand.String())
	case ProcSync:
		return fmt.Sprintf("(%s | %s)", p.Left.String(), p.Right.String())
	case ProcAt:
		return fmt.Sprintf("%s@%s", p.Operand.String(), p.Time.String())
	case ProcSeq:
		return fmt.Sprintf("(%s . %s)", p.Left.String(), p.Right.String())
	case ProcIfThen:
		return fmt.Sprintf("(%s -> %s)", p.Cond.String(), p.Left.String())
	case ProcIfThenElse:
		return fmt.Sprintf("(%s -> %s <> %s)", p.Cond.String(), p.Left.String(), p.Right.String())
	case ProcBoundedInit:
		return fmt.Sprintf("(%s << %s)", p.Left.String(), p.Right.String())
	case ProcMerge:
		return fmt.Sprintf("(%s || %s)", p.Left.String(), p.Right.String())
	case ProcLeftMerge:
		return fmt.Sprintf("(%s |_ %s)", p.Left.String(), p.Right.String())
	case ProcChoice:
		return fmt.Sprintf("(%s + %s)", p.Left.String(), p.Right.String())
	default:
		return fmt.Sprintf("<invalid process kind %d>", p.Kind)
	}
}

func processKey(p *Process) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d", p.Kind)
	if p.Act != nil {
		sb.WriteString("|act=" + actionKey(p.Act))
	}
	if p.ProcName != "" {
		sb.WriteString("|name=" + p.ProcName)
	}
	for _, d := range p.RefArgs {
		sb.WriteString("|arg=" + d.String())
	}
	for _, as := range p.Assignments {
		sb.WriteString("|asn=" + as.Param + "=" + as.Value.String())
	}
	for _, v := range p.SumVars {
		sb.WriteString("|var=" + v.Name)
	}
	for _, n := range p.NameSet {
		sb.WriteString("|n=" + n)
	}
	for _, rp := range p.RenamePairs {
		sb.WriteString("|rn=" + rp.From + ">" + rp.To)
	}
	for _, s := range p.AllowSet {
		sb.WriteString("|v=" + s.String())
	}
	for _, cp := range p.CommPairs {
		sb.WriteString("|c=" + strings.Join(cp.Lhs, ",") + ">" + cp.Rhs)
	}
	if p.Time != nil {
		sb.WriteString("|t=" + p.Time.String())
	}
	if p.Cond != nil {
		sb.WriteString("|cond=" + p.Cond.String())
	}
	if p.Operand != nil {
		sb.WriteString("|op=" + processKeyRef(p.Operand))
	}
	if p.Left != nil {
		sb.WriteString("|l=" + processKeyRef(p.Left))
	}
	if p.Right != nil {
		sb.WriteString("|r=" + processKeyRef(p.Right))
	}
	return sb.String()
}

// processKeyRef yields a cheap, stable reference to an already-interned
// child: its pointer, since within one Arena identity implies structural
// equality.
func processKeyRef(p *Process) string {
	return fmt.Sprintf("%p", p)
}

// ProcessEquation is (process-id, formal-parameters, body).
type ProcessEquation struct {
	Name         string
	FormalParams []DataVariable
	Body         *Process
}

// ProcessSpec is a full process specification: data-spec, action labels,
// global variables, equations, and an initial expression.
type ProcessSpec struct {
	DataSpec     *DataSpec
	ActionLabels []*ActionLabel
	GlobalVars   []DataVariable
	Equations    []*ProcessEquation
	Init         *Process
}

// EquationByName looks up an equation by process id.
func (ps *ProcessSpec) EquationByName(name string) *ProcessEquation {
	for _, eq := range ps.Equations {
		if eq.Name == name {
			return eq
		}
	}
	return nil
}
