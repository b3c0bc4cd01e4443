/*
Mcrl2core runs the alphabet-reduction driver and the modal-to-PBES
translator over a process specification.

Usage:

	mcrl2core [flags]

The flags are:

	-v, --version
		Give the current version of the engine and then exit.

	-s, --spec FILE
		Load a process-specification TOML file (equations plus an initial
		expression) before running any query.

	-l, --lps FILE
		Load a linear-process TOML file, required before a --formula or
		:translate query can run.

	-f, --formula FORMULA
		Immediately translate FORMULA against the loaded linear process and
		print the resulting PBES, then exit unless --interactive is also
		given.

	-c, --config FILE
		Load driver/translator configuration from a TOML file. Defaults to
		config.Default() if not given.

	-i, --interactive
		Drop into the interactive query session even after a one-shot
		--formula run completes.

	-d, --direct
		Force reading query input directly from stdin instead of through
		GNU readline, even when connected to a tty.

Once a session has started, queries are read from stdin; type :help for an
explanation of the available queries. To leave the session type :quit.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/mcrl2-go/symbolic/config"
	"github.com/mcrl2-go/symbolic/diagnostics"
	"github.com/mcrl2-go/symbolic/internal/repl"
	"github.com/mcrl2-go/symbolic/internal/version"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue initializing the session (a bad config, spec, or lps file).
	ExitInitError

	// ExitQueryError indicates an unsuccessful program execution due to a
	// problem answering a one-shot query.
	ExitQueryError
)

var (
	returnCode int = ExitSuccess

	flagVersion      = pflag.BoolP("version", "v", false, "Give the current version of the engine")
	specFile         = pflag.StringP("spec", "s", "", "Process-specification TOML file to load at start")
	lpsFlagFile      = pflag.StringP("lps", "l", "", "Linear-process TOML file to load at start")
	formulaFlag      = pflag.StringP("formula", "f", "", "Translate this formula against the loaded linear process and exit")
	configFlag       = pflag.StringP("config", "c", "", "Driver/translator configuration TOML file")
	forceInteractive = pflag.BoolP("interactive", "i", false, "Drop into the interactive query session")
	forceDirect      = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	cfg := config.Default()
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		cfg = loaded
	}

	diag := diagnostics.NewSink(os.Stderr)
	s := newSession(cfg, diag, os.Stdout)

	if *specFile != "" {
		if err := s.cmdLoadSpec(*specFile); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
	}
	if *lpsFlagFile != "" {
		if err := s.cmdLoadLPS(*lpsFlagFile); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
	}

	ranBatchQuery := false
	if *formulaFlag != "" {
		if err := s.cmdTranslate(*formulaFlag); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitQueryError
			return
		}
		ranBatchQuery = true
	}

	if ranBatchQuery && !*forceInteractive {
		return
	}

	var reader repl.QueryReader
	var err error
	if *forceDirect {
		reader = repl.NewDirectReader(os.Stdin)
	} else {
		reader, err = repl.NewInteractiveReader("mcrl2core> ")
		if err != nil {
			reader = repl.NewDirectReader(os.Stdin)
		}
	}
	defer reader.Close()

	if err := runREPL(s, reader); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitQueryError
	}
}
