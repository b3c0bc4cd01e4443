// Package specio loads process specifications and linear processes from a
// small TOML-based document format. Concrete mCRL2 syntax already has a
// dedicated grammar in parsing/ for a single process/data/state-formula term;
// specio reuses those entry points for every free-form field and only adds
// the surrounding structure (named equations, summand lists) that grammar
// does not cover. Both cmd/mcrl2core and server/backend load documents through this
// package so the two front ends never drift apart on file shape.
package specio

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/mcrl2-go/symbolic/ast"
	"github.com/mcrl2-go/symbolic/parsing"
)

// paramEntry is one formal-parameter/local-variable declaration shared by
// the process-spec and linear-process document shapes.
type paramEntry struct {
	Name string `toml:"name"`
	Sort string `toml:"sort"`
}

func (p paramEntry) toVariable(b *parsing.Builder) ast.DataVariable {
	return ast.DataVariable{Name: p.Name, VSort: b.Sort(p.Sort)}
}

func toVariables(b *parsing.Builder, params []paramEntry) []ast.DataVariable {
	vars := make([]ast.DataVariable, len(params))
	for i, p := range params {
		vars[i] = p.toVariable(b)
	}
	return vars
}

// equationEntry is one [[equation]] table in a process-spec document: a
// process identifier, its formal parameters, and its body written in the
// surface process-expression grammar (parsing.ParseProcess).
type equationEntry struct {
	Name   string       `toml:"name"`
	Params []paramEntry `toml:"param"`
	Body   string       `toml:"body"`
}

// processSpecDoc is the on-disk shape of a process specification: a set of
// named equations plus the initial expression.
type processSpecDoc struct {
	Equation []equationEntry `toml:"equation"`
	Init     string          `toml:"init"`
}

// ParseProcessSpec decodes data as a process-specification document and
// builds an *ast.ProcessSpec over b's arena.
func ParseProcessSpec(b *parsing.Builder, data []byte) (*ast.ProcessSpec, error) {
	var doc processSpecDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse spec document: %w", err)
	}

	spec := &ast.ProcessSpec{}
	for _, eq := range doc.Equation {
		body, err := parsing.ParseProcess(b, eq.Body)
		if err != nil {
			return nil, fmt.Errorf("equation %s: body: %w", eq.Name, err)
		}
		spec.Equations = append(spec.Equations, &ast.ProcessEquation{
			Name:         eq.Name,
			FormalParams: toVariables(b, eq.Params),
			Body:         body,
		})
	}

	if doc.Init == "" {
		return nil, fmt.Errorf("spec document is missing required init expression")
	}
	init, err := parsing.ParseProcess(b, doc.Init)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	spec.Init = init
	return spec, nil
}

// actionEntry is one [[summand.action]] table: an action label name and its
// argument expressions, written in the surface data-expression grammar
// (parsing.ParseDataExpr).
type actionEntry struct {
	Name string   `toml:"name"`
	Args []string `toml:"args"`
}

// summandEntry is one [[summand]] table of a linear-process document: the
// local (existentially-quantified) variables, the boolean guard, the
// multi-action performed (absent means tau), an optional time stamp, and the
// next-state assignment to every process parameter.
type summandEntry struct {
	Var    []paramEntry      `toml:"var"`
	Cond   string            `toml:"cond"`
	Action []actionEntry     `toml:"action"`
	Time   string            `toml:"time"`
	Assign map[string]string `toml:"assign"`
}

// lpsDoc is the on-disk shape of a linear process: its parameters and
// summand list.
type lpsDoc struct {
	Param   []paramEntry   `toml:"param"`
	Summand []summandEntry `toml:"summand"`
}

// ParseLinearProcess decodes data as a linear-process document and builds an
// *ast.LinearProcess over b's arena, the counterpart input a "real" mCRL2
// tool would get by linearizing a process specification; linearization
// itself is out of scope, so callers take the already-linear form directly.
func ParseLinearProcess(b *parsing.Builder, data []byte) (*ast.LinearProcess, error) {
	var doc lpsDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse lps document: %w", err)
	}

	lps := &ast.LinearProcess{Parameters: toVariables(b, doc.Param)}
	for i, se := range doc.Summand {
		cond := ast.True
		if se.Cond != "" {
			var err error
			cond, err = parsing.ParseDataExpr(b, se.Cond)
			if err != nil {
				return nil, fmt.Errorf("summand %d: cond: %w", i, err)
			}
		}

		var multi *ast.MultiAction
		if len(se.Action) > 0 {
			acts := make([]*ast.Action, len(se.Action))
			for j, ae := range se.Action {
				args := make([]ast.DataExpr, len(ae.Args))
				for k, argSrc := range ae.Args {
					var err error
					args[k], err = parsing.ParseDataExpr(b, argSrc)
					if err != nil {
						return nil, fmt.Errorf("summand %d: action %s: arg %d: %w", i, ae.Name, k, err)
					}
				}
				acts[j] = b.Act(ae.Name, args...)
			}
			multi = b.Arena.NewMultiAction(acts)
		}

		var timeExpr ast.DataExpr
		if se.Time != "" {
			var err error
			timeExpr, err = parsing.ParseDataExpr(b, se.Time)
			if err != nil {
				return nil, fmt.Errorf("summand %d: time: %w", i, err)
			}
		}

		var assigns []ast.Assignment
		for _, param := range lps.Parameters {
			src, ok := se.Assign[param.Name]
			if !ok {
				continue
			}
			val, err := parsing.ParseDataExpr(b, src)
			if err != nil {
				return nil, fmt.Errorf("summand %d: assign %s: %w", i, param.Name, err)
			}
			assigns = append(assigns, ast.Assignment{Param: param.Name, Value: val})
		}

		lps.Summands = append(lps.Summands, ast.Summand{
			Vars:        toVariables(b, se.Var),
			Cond:        cond,
			Action:      multi,
			Time:        timeExpr,
			Assignments: assigns,
		})
	}
	return lps, nil
}
