// cmd/loq/commands/run.go
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kr/pretty"

	"loq/internal/parser"
	"loq/internal/session"
)

// RunCommand evaluates a file one line at a time, as if typed into the REPL.
// It stops at the first failing line unless -k is given.
func RunCommand(args []string) error {
	o, err := parseOptions("run", args, "k")
	if err != nil {
		return err
	}
	filename, err := o.fileArg("run")
	if err != nil {
		return err
	}
	_, keepGoing := o.Flags['k']
	return runFile(context.Background(), filename, o, os.Stdout, os.Stderr, keepGoing)
}

func runFile(ctx context.Context, filename string, o *Options, stdout, stderr io.Writer, keepGoing bool) error {
	lines, err := readLines(filename)
	if err != nil {
		return err
	}

	sess := session.New(stdout, o.sessionOptions(filename))
	store, err := o.openHistory(ctx)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if store != nil {
		defer store.Close()
		sess.WithRecorder(store)
	}

	failed := 0
	for _, line := range lines {
		if err := sess.Eval(ctx, line); err != nil {
			report(stderr, err)
			failed++
			if !keepGoing {
				break
			}
		}
	}
	if failed > 0 {
		return errReported
	}
	return nil
}

// CheckCommand parses a file without evaluating it and reports every line
// with a syntax error.
func CheckCommand(args []string) error {
	o, err := parseOptions("check", args, "")
	if err != nil {
		return err
	}
	filename, err := o.fileArg("check")
	if err != nil {
		return err
	}
	return checkFile(filename, o, os.Stdout, os.Stderr)
}

func checkFile(filename string, o *Options, stdout, stderr io.Writer) error {
	lines, err := readLines(filename)
	if err != nil {
		return err
	}
	sess := session.New(io.Discard, o.sessionOptions(filename))
	failed := 0
	for _, line := range lines {
		if _, err := sess.Parse(line); err != nil {
			report(stderr, err)
			failed++
		}
		sess.Skip()
	}
	if failed > 0 {
		return errReported
	}
	fmt.Fprintf(stdout, "%s: syntax is valid\n", filename)
	return nil
}

// ASTCommand prints the parsed statements of a file.
func ASTCommand(args []string) error {
	o, err := parseOptions("ast", args, "")
	if err != nil {
		return err
	}
	filename, err := o.fileArg("ast")
	if err != nil {
		return err
	}
	nodes, err := parseFile(filename, o, os.Stderr)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		pretty.Fprintf(os.Stdout, "%# v\n", n)
	}
	return nil
}

// parseFile parses every line of a file, reporting the first syntax error.
func parseFile(filename string, o *Options, stderr io.Writer) ([]parser.Node, error) {
	lines, err := readLines(filename)
	if err != nil {
		return nil, err
	}
	sess := session.New(io.Discard, o.sessionOptions(filename))
	var all []parser.Node
	for _, line := range lines {
		nodes, err := sess.Parse(line)
		if err != nil {
			report(stderr, err)
			return nil, errReported
		}
		sess.Skip()
		all = append(all, nodes...)
	}
	return all, nil
}
