/*
Zanderc compiles a definition file into a regex tokenizer and a BNF grammar,
builds the requested parse table, and drives it over either a single input
file or an interactive line-at-a-time session.

Usage:

	zanderc [flags]

The flags are:

	-v, --version
		Give the current version and exit.

	-g, --grammar FILE
		The definition file describing the tokenizer's terminals and the
		grammar's rules. Defaults to "grammar.defs" in the current directory.

	-m, --mode {ll1,slr,lalr,glr}
		Which table builder and driver to use. Defaults to "lalr".

	-i, --input FILE
		Parse the contents of FILE once and exit instead of starting an
		interactive session.

	-c, --cache FILE
		Cache the compiled grammar and LALR table at FILE (via package
		persist) and reuse it on a later run against the same grammar,
		skipping table construction. Used in lalr mode only; ignored in
		ll1, slr and glr mode.

	-d, --direct
		Force reading interactive input directly from stdin rather than
		through GNU readline.

	--config FILE
		Load flag defaults from a TOML file before applying the flags above.

Once a session has started, each line of input is parsed independently and
its parse tree is printed to stdout. Type "QUIT" to exit an interactive
session.
*/
package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/zanderlang/zander/perr"
)

const (
	// ExitSuccess indicates a successful run.
	ExitSuccess = iota

	// ExitBuildError indicates the definition file or the table it describes
	// failed to compile.
	ExitBuildError

	// ExitParseError indicates a run of the interpreter ended because input
	// failed to parse.
	ExitParseError
)

const version = "0.1.0"

// fileConfig is the shape a --config TOML file is unmarshaled into; flags
// passed on the command line always take priority over it.
type fileConfig struct {
	Grammar string
	Mode    string
	Input   string
	Cache   string
	Direct  bool
}

var (
	returnCode  int
	flagVersion = pflag.BoolP("version", "v", false, "Gives the version info")
	grammarFile = pflag.StringP("grammar", "g", "grammar.defs", "The definition file describing the tokenizer and grammar")
	mode        = pflag.StringP("mode", "m", "lalr", "Table builder to use: ll1, slr, lalr, or glr")
	inputFile   = pflag.StringP("input", "i", "", "Parse the contents of FILE once and exit")
	cacheFile   = pflag.StringP("cache", "c", "", "Cache the compiled LALR table at FILE and reuse it on a later run (lalr mode only)")
	forceDirect = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of through GNU readline")
	configFile  = pflag.String("config", "", "Load flag defaults from a TOML file")
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

	if *configFile != "" {
		if err := applyFileConfig(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitBuildError
			return
		}
	}

	if *flagVersion {
		fmt.Printf("zanderc %s\n", version)
		return
	}

	rt, err := build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitBuildError
		return
	}

	if *inputFile != "" {
		data, err := os.ReadFile(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitBuildError
			return
		}
		if err := rt.parseAndPrint(string(data)); err != nil {
			reportParseError(err)
			returnCode = ExitParseError
		}
		return
	}

	if err := runSession(rt); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitParseError
	}
}

// applyFileConfig loads a TOML config file and fills in any flag that was
// not explicitly set on the command line, the same precedence a layered
// config/flags setup always uses: explicit flags win.
func applyFileConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	set := map[string]bool{}
	pflag.CommandLine.Visit(func(f *pflag.Flag) { set[f.Name] = true })

	if !set["grammar"] && fc.Grammar != "" {
		*grammarFile = fc.Grammar
	}
	if !set["mode"] && fc.Mode != "" {
		*mode = fc.Mode
	}
	if !set["input"] && fc.Input != "" {
		*inputFile = fc.Input
	}
	if !set["cache"] && fc.Cache != "" {
		*cacheFile = fc.Cache
	}
	if !set["direct"] && fc.Direct {
		*forceDirect = fc.Direct
	}
	return nil
}

// reportParseError prints a perr.SyntaxError's source-line context if the
// error carries one, otherwise falls back to its plain message.
func reportParseError(err error) {
	if se, ok := err.(*perr.SyntaxError); ok {
		fmt.Fprintln(os.Stderr, se.FullMessage())
		return
	}
	fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
}
