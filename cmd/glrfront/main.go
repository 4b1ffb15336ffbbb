/*
Glrfront starts an interactive session against one loaded grammar.

It reads a grammar file and prints a table of its rules, then repeatedly
reads a path to a source file and prints a summary of that file's parse:
its trace id, token and lexer-path counts, and elapsed time, then either
the errors or the parse tree's root symbol with the number of ambiguous
parses and conflicts the GLR engine recorded. Type "quit" to exit.

Usage:

	glrfront [flags]

The flags are:

	-g, --grammar FILE
		The grammar file to load. Defaults to "grammar.glr" in the current
		working directory.

	-d, --direct
		Force reading directly from the console instead of using GNU
		readline based routines, even when stdin/stdout are a tty.

	-c, --command FILE
		Parse the given source file immediately at start, then exit instead
		of opening an interactive session.
*/
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/duskline/glrfront/engine"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota
	// ExitInitError indicates the grammar or input reader could not be set up.
	ExitInitError
	// ExitParseError indicates a requested source file could not be parsed.
	ExitParseError
)

var (
	returnCode  = ExitSuccess
	grammarFile = pflag.StringP("grammar", "g", "grammar.glr", "The grammar file defining the language to parse")
	forceDirect = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of GNU readline")
	runOnce     = pflag.StringP("command", "c", "", "Parse the given source file immediately at start and exit")
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

	def, diags, err := engine.LoadGrammar(context.Background(), *grammarFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "WARNING: line %d: %s\n", d.Line, d.Message)
	}

	eng := engine.New(def).WithLogger(engine.NewLogger(os.Stderr))

	sess, err := newSession(eng, def, *forceDirect)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer sess.Close()

	if *runOnce != "" {
		fmt.Println(def.Describe())
		if err := sess.parseFile(*runOnce); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitParseError
		}
		return
	}

	if err := sess.RunUntilQuit(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitParseError
	}
}
