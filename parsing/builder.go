package parsing

import "github.com/mcrl2-go/symbolic/ast"

// Builder is the typed-AST construction API: a thin, named-lookup layer over
// an *ast.Arena that lets callers build process/data/formula terms by name
// instead of hand-assembling every ast.Action/ActionLabel/Sort reference.
type Builder struct {
	Arena   *ast.Arena
	sorts   map[string]*ast.Sort
	labels  map[string]*ast.ActionLabel
}

// NewBuilder creates a Builder over a fresh arena.
func NewBuilder() *Builder {
	return &Builder{
		Arena:  ast.NewArena(),
		sorts:  map[string]*ast.Sort{},
		labels: map[string]*ast.ActionLabel{},
	}
}

// Sort returns (creating if necessary) the basic sort named name.
func (b *Builder) Sort(name string) *ast.Sort {
	if s, ok := b.sorts[name]; ok {
		return s
	}
	s := &ast.Sort{Kind: ast.SortBasic, Name: name}
	b.sorts[name] = s
	return s
}

// ActionLabel declares (or reuses) an action label with the given argument
// sorts, named by the sort names passed in.
func (b *Builder) ActionLabel(name string, argSorts ...string) *ast.ActionLabel {
	key := name
	for _, s := range argSorts {
		key += "|" + s
	}
	if l, ok := b.labels[key]; ok {
		return l
	}
	sorts := make([]*ast.Sort, len(argSorts))
	for i, s := range argSorts {
		sorts[i] = b.Sort(s)
	}
	l := b.Arena.ActionLabel(name, sorts)
	b.labels[key] = l
	return l
}

// Act builds an ast.Action for a previously declared label, or auto-declares
// one with len(args) placeholder sorts if name was never registered at that
// arity (the parser's textual surface never declares labels up front).
func (b *Builder) Act(name string, args ...ast.DataExpr) *ast.Action {
	label, ok := b.lookupLabel(name, len(args))
	if !ok {
		placeholderSorts := make([]string, len(args))
		for i := range placeholderSorts {
			placeholderSorts[i] = "Unknown"
		}
		label = b.ActionLabel(name, placeholderSorts...)
	}
	return b.Arena.ActionOf(label, args)
}

func (b *Builder) lookupLabel(name string, arity int) (*ast.ActionLabel, bool) {
	for _, l := range b.labels {
		if l.Name == name && len(l.Sorts) == arity {
			return l, true
		}
	}
	return nil, false
}

// Action wraps a single action into a one-element multi-action process.
func (b *Builder) Action(name string, args ...ast.DataExpr) *ast.Process {
	act := b.Act(name, args...)
	return b.Arena.ActionProc(act)
}

// MultiAction builds a process performing every named action simultaneously,
// represented as the sync of each individual action term (the way a literal
// "a|b" step is written at the process-expression level; ast.MultiAction
// proper is reserved for the alphabet calculator's own domain).
func (b *Builder) MultiAction(names ...string) *ast.Process {
	if len(names) == 0 {
		return b.Tau()
	}
	proc := b.Action(names[0])
	for _, n := range names[1:] {
		proc = b.Arena.SyncP(proc, b.Action(n))
	}
	return proc
}

// Delta, Tau are the two atomic processes.
func (b *Builder) Delta() *ast.Process { return b.Arena.Delta() }
func (b *Builder) Tau() *ast.Process   { return b.Arena.TauProc() }

// Seq, Choice, Merge, LeftMerge build the binary process operators.
func (b *Builder) Seq(l, r *ast.Process) *ast.Process       { return b.Arena.Seq(l, r) }
func (b *Builder) Choice(l, r *ast.Process) *ast.Process    { return b.Arena.Choice(l, r) }
func (b *Builder) Merge(l, r *ast.Process) *ast.Process     { return b.Arena.Merge(l, r) }
func (b *Builder) LeftMerge(l, r *ast.Process) *ast.Process { return b.Arena.LeftMerge(l, r) }
func (b *Builder) Sync(l, r *ast.Process) *ast.Process      { return b.Arena.SyncP(l, r) }

// Block, Hide, Rename, Allow, Comm build the restriction operators,
// propagating the Arena's own validation errors (duplicate name sets,
// malformed comm pairs) unchanged.
func (b *Builder) Block(names []string, p *ast.Process) (*ast.Process, error) {
	return b.Arena.Block(names, p)
}
func (b *Builder) Hide(names []string, p *ast.Process) (*ast.Process, error) {
	return b.Arena.Hide(names, p)
}
func (b *Builder) Rename(pairs []ast.RenamePair, p *ast.Process) *ast.Process {
	return b.Arena.Rename(pairs, p)
}
func (b *Builder) Allow(sets [][]string, p *ast.Process) (*ast.Process, error) {
	return b.Arena.Allow(sets, p)
}
func (b *Builder) Comm(pairs []ast.CommPair, p *ast.Process) (*ast.Process, error) {
	return b.Arena.Comm(pairs, p)
}

// Sum builds an existential sum over freshly declared variables of sort.
func (b *Builder) Sum(sortName string, varNames []string, body *ast.Process) *ast.Process {
	vars := make([]ast.DataVariable, len(varNames))
	for i, n := range varNames {
		vars[i] = ast.DataVariable{Name: n, VSort: b.Sort(sortName)}
	}
	return b.Arena.Sum(vars, body)
}

// Var builds a reference to a free data variable of sort.
func (b *Builder) Var(name, sortName string) ast.DataExpr {
	return ast.DataVariable{Name: name, VSort: b.Sort(sortName)}
}

// StateVar builds a state-formula propositional-variable occurrence.
func (b *Builder) StateVar(name string, assigns ...ast.Assignment) *ast.StateFormula {
	return b.Arena.SFVariable(name, assigns)
}

// Mu, Nu build fixpoint binders.
func (b *Builder) Mu(name string, vars []ast.DataVariable, init []ast.Assignment, body *ast.StateFormula) *ast.StateFormula {
	return b.Arena.SFMu(name, vars, init, body)
}
func (b *Builder) Nu(name string, vars []ast.DataVariable, init []ast.Assignment, body *ast.StateFormula) *ast.StateFormula {
	return b.Arena.SFNu(name, vars, init, body)
}

// Must, May build the two modalities.
func (b *Builder) Must(act *ast.ActionFormula, body *ast.StateFormula) *ast.StateFormula {
	return b.Arena.SFMust(act, body)
}
func (b *Builder) May(act *ast.ActionFormula, body *ast.StateFormula) *ast.StateFormula {
	return b.Arena.SFMay(act, body)
}

// MultiActionLiteral builds the action formula matching exactly the named
// simultaneous actions, for use at a must/may modality.
func (b *Builder) MultiActionLiteral(names ...string) *ast.ActionFormula {
	acts := make([]*ast.Action, len(names))
	for i, n := range names {
		acts[i] = b.Act(n)
	}
	return b.Arena.AFMultiActionLit(b.Arena.NewMultiAction(acts))
}
