package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mcrl2-go/symbolic/ast"
	"github.com/mcrl2-go/symbolic/config"
	"github.com/mcrl2-go/symbolic/diagnostics"
	"github.com/mcrl2-go/symbolic/driver"
	"github.com/mcrl2-go/symbolic/internal/repl"
	"github.com/mcrl2-go/symbolic/parsing"
	"github.com/mcrl2-go/symbolic/serialize"
	"github.com/mcrl2-go/symbolic/translate"
)

// session holds everything one interactive or batch invocation operates on:
// a single shared arena (so terms loaded from the spec file and terms typed
// at the query prompt intern against each other), the most recently loaded
// process spec and linear process, and the configuration/diagnostics the
// rest of the core expects.
type session struct {
	builder *parsing.Builder
	cfg     config.Config
	diag    *diagnostics.Sink
	out     io.Writer

	spec   *ast.ProcessSpec
	lps    *ast.LinearProcess
	result *driver.Result
}

func newSession(cfg config.Config, diag *diagnostics.Sink, out io.Writer) *session {
	return &session{builder: parsing.NewBuilder(), cfg: cfg, diag: diag, out: out}
}

// runQuery dispatches one REPL line. The leading word is the command name;
// everything after is passed through to the command verbatim.
func (s *session) runQuery(line string) (quit bool, err error) {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case ":quit", ":exit":
		return true, nil
	case ":help":
		s.printHelp()
	case ":load-spec":
		return false, s.cmdLoadSpec(rest)
	case ":load-lps":
		return false, s.cmdLoadLPS(rest)
	case ":reduce":
		return false, s.cmdReduce()
	case ":show":
		return false, s.cmdShow()
	case ":translate":
		return false, s.cmdTranslate(rest)
	case ":monotonous":
		return false, s.cmdMonotonous(rest)
	case ":warnings":
		return false, s.cmdWarnings()
	default:
		fmt.Fprintf(s.out, "unrecognized query %q; try :help\n", name)
	}
	return false, nil
}

func (s *session) printHelp() {
	fmt.Fprint(s.out, `queries:
  :load-spec FILE    load a process-specification TOML file
  :load-lps FILE     load a linear-process TOML file
  :reduce            run the alphabet-reduction driver on the loaded spec
  :show              print the (possibly reduced) initial process
  :translate FORMULA translate FORMULA against the loaded linear process
  :monotonous FORMULA push negations inward and report monotonicity
  :warnings          print every diagnostic recorded so far
  :quit, :exit       leave the session
`)
}

func (s *session) cmdLoadSpec(path string) error {
	if path == "" {
		return fmt.Errorf(":load-spec requires a file path")
	}
	spec, err := loadProcessSpec(s.builder, path)
	if err != nil {
		return err
	}
	s.spec = spec
	s.result = nil
	fmt.Fprintf(s.out, "loaded %d equation(s)\n", len(spec.Equations))
	return nil
}

func (s *session) cmdLoadLPS(path string) error {
	if path == "" {
		return fmt.Errorf(":load-lps requires a file path")
	}
	lps, err := loadLinearProcess(s.builder, path)
	if err != nil {
		return err
	}
	s.lps = lps
	fmt.Fprintf(s.out, "loaded linear process with %d summand(s)\n", len(lps.Summands))
	return nil
}

func (s *session) cmdReduce() error {
	if s.spec == nil {
		return fmt.Errorf("no spec loaded; use :load-spec first")
	}
	result, err := driver.Run(s.builder.Arena, s.spec, s.cfg.Driver, s.diag)
	if err != nil {
		return err
	}
	s.result = result
	s.spec = result.Spec
	if result.Stable {
		fmt.Fprintln(s.out, "alphabet fixed point converged")
	} else {
		fmt.Fprintln(s.out, "alphabet fixed point did NOT converge within the iteration limit")
	}
	for _, eq := range s.spec.Equations {
		alpha := result.Alphabets[eq.Name]
		names := make([]string, len(alpha))
		for i, m := range alpha {
			names[i] = ast.Untype(m.Actions[0])
		}
		fmt.Fprintf(s.out, "  %s: {%s}\n", eq.Name, strings.Join(names, ", "))
	}
	return nil
}

func (s *session) cmdShow() error {
	if s.spec == nil {
		return fmt.Errorf("no spec loaded; use :load-spec first")
	}
	fmt.Fprintln(s.out, serialize.FormatProcess(s.spec.Init))
	return nil
}

func (s *session) cmdTranslate(formula string) error {
	if formula == "" {
		return fmt.Errorf(":translate requires a formula")
	}
	if s.lps == nil {
		return fmt.Errorf("no linear process loaded; use :load-lps first")
	}
	phi, err := parsing.ParseStateFormula(s.builder, formula)
	if err != nil {
		return fmt.Errorf("parse formula: %w", err)
	}
	pbes, err := translate.Translate(s.builder.Arena, phi, s.lps, s.cfg.Translate, s.diag)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, serialize.FormatPBES(pbes))
	return nil
}

func (s *session) cmdMonotonous(formula string) error {
	if formula == "" {
		return fmt.Errorf(":monotonous requires a formula")
	}
	phi, err := parsing.ParseStateFormula(s.builder, formula)
	if err != nil {
		return fmt.Errorf("parse formula: %w", err)
	}
	normalized := translate.PushNegations(s.builder.Arena, phi)
	fmt.Fprintf(s.out, "%s\nmonotonous: %t\n", normalized.String(), translate.Monotonous(normalized))
	return nil
}

func (s *session) cmdWarnings() error {
	warnings := s.diag.Warnings()
	if len(warnings) == 0 {
		fmt.Fprintln(s.out, "no warnings recorded")
		return nil
	}
	for _, w := range warnings {
		fmt.Fprintln(s.out, w)
	}
	return nil
}

// runREPL drives the interactive query loop until the reader reaches EOF,
// the user types :quit, or an unrecoverable reader error occurs.
func runREPL(s *session, reader repl.QueryReader) error {
	for {
		line, err := reader.ReadQuery()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		quit, cmdErr := s.runQuery(line)
		if cmdErr != nil {
			fmt.Fprintf(s.out, "ERROR: %s\n", cmdErr.Error())
		}
		if quit {
			return nil
		}
	}
}
