// cmd/loq/commands/fmt.go
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"loq/internal/formatter"
	"loq/internal/session"
)

// FormatCommand prints a file in canonical form, or rewrites it in place with -w.
func FormatCommand(args []string) error {
	o, err := parseOptions("fmt", args, "w")
	if err != nil {
		return err
	}
	filename, err := o.fileArg("fmt")
	if err != nil {
		return err
	}
	var b strings.Builder
	if err := formatFile(filename, o, &b, os.Stderr); err != nil {
		return err
	}
	if _, ok := o.Flags['w']; ok {
		return os.WriteFile(filename, []byte(b.String()), 0o644)
	}
	_, err = fmt.Fprint(os.Stdout, b.String())
	return err
}

// formatFile formats line by line so the output keeps the input's line
// structure. Nothing is written when any line fails to parse. Lexing is always
// strict: an unrecognized character must not silently truncate the line.
func formatFile(filename string, o *Options, out, stderr io.Writer) error {
	lines, err := readLines(filename)
	if err != nil {
		return err
	}
	opts := o.sessionOptions(filename)
	opts.StrictLexing = true
	sess := session.New(io.Discard, opts)
	f := formatter.NewFormatter()
	formatted := make([]string, 0, len(lines))
	failed := 0
	for _, line := range lines {
		nodes, err := sess.Parse(line)
		sess.Skip()
		if err != nil {
			report(stderr, err)
			failed++
			continue
		}
		formatted = append(formatted, f.Format(nodes))
	}
	if failed > 0 {
		return errReported
	}
	for _, line := range formatted {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}
