// Package restrict implements the restriction pushers PushBlock, PushHide,
// PushAllow, and PushComm, plus the ApplyAlpha dispatcher that drives the
// right pusher for whichever restriction operator sits at the top of a
// process term. Each pusher returns a semantically equivalent term with
// the restriction driven inward when that shrinks the alphabet, and
// populates the shared alphabet cache for every term it builds.
package restrict

import (
	"github.com/mcrl2-go/symbolic/alphabet"
	"github.com/mcrl2-go/symbolic/ast"
	"github.com/mcrl2-go/symbolic/classify"
	"github.com/mcrl2-go/symbolic/diagnostics"
	"github.com/mcrl2-go/symbolic/internal/ids"
	"github.com/mcrl2-go/symbolic/mact"
)

// allowCloneKey identifies a (V, base-process-name) pair already cloned by
// PushAllow.
type allowCloneKey struct {
	v    string
	base string
}

// CloneRecord is one entry of PushAllow's restriction-substitution table:
// the forward mapping (V, base) -> cloned name, and the reverse mapping
// clone name -> (V, base) recorded for diagnostics / driver bookkeeping.
type CloneRecord struct {
	V    [][]string
	Base string
	Name string
}

// Context threads the shared arena, alphabet calculator, sync cache,
// process specification (mutated by PushAllow as it mints fresh equations),
// and diagnostics sink through every pusher call. It also owns the
// push_comm_through_allow flag, toggled false only for the scope of the
// specific PushComm(C, allow(V,Q)) / PushAllow(V, comm(C,Q)) interaction.
type Context struct {
	Arena *ast.Arena
	Calc  *alphabet.Calculator
	Sync  *mact.Cache
	Spec  *ast.ProcessSpec
	Diag  *diagnostics.Sink

	clones  map[allowCloneKey]string
	Clones  []CloneRecord
	allowOn bool

	classification map[string]*classify.EquationInfo
}

// NewContext creates a pusher context over a shared arena/calculator/sync
// cache/spec. push_comm_through_allow starts enabled.
func NewContext(a *ast.Arena, calc *alphabet.Calculator, sync *mact.Cache, spec *ast.ProcessSpec, diag *diagnostics.Sink) *Context {
	if diag == nil {
		diag = diagnostics.NewSink(nil)
	}
	return &Context{
		Arena:   a,
		Calc:    calc,
		Sync:    sync,
		Spec:    spec,
		Diag:    diag,
		clones:  make(map[allowCloneKey]string),
		allowOn: true,
	}
}

// disablePushCommThroughAllow is the scoped acquisition of the
// push_comm_through_allow flag: the caller must `defer` the returned
// restore function so the flag is guaranteed to be put back on every exit
// path, including a panic unwinding through this call.
func (c *Context) disablePushCommThroughAllow() func() {
	prev := c.allowOn
	c.allowOn = false
	return func() { c.allowOn = prev }
}

func (c *Context) pushCommThroughAllowEnabled() bool { return c.allowOn }

// lookupClone returns the already-minted clone name for (v, base), if any.
func (c *Context) lookupClone(v [][]string, base string) (string, bool) {
	name, ok := c.clones[allowCloneKey{v: allowSetKey(v), base: base}]
	return name, ok
}

// registerClone mints and records a fresh clone mapping.
func (c *Context) registerClone(v [][]string, base string) string {
	name := ids.FreshProcessName(base + "_allow")
	c.clones[allowCloneKey{v: allowSetKey(v), base: base}] = name
	c.Clones = append(c.Clones, CloneRecord{V: v, Base: base, Name: name})
	return name
}

// cacheBlockAlpha computes alpha(operand) once and stores its filter-by-H
// projection as the total alphabet of wrapped.
func (c *Context) cacheBlockAlpha(wrapped, operand *ast.Process, h []string) {
	sub := c.Calc.GetAlpha(operand, 0, nil)
	c.Calc.Cache.Put(wrapped, 0, nil, nil, alphabet.FilterBlock(sub, h))
}

func (c *Context) cacheHideAlpha(wrapped, operand *ast.Process, i []string) {
	sub := c.Calc.GetAlpha(operand, 0, nil)
	c.Calc.Cache.Put(wrapped, 0, nil, nil, alphabet.MapHide(c.Arena, sub, i))
}
