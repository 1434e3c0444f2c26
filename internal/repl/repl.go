// internal/repl/repl.go
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/kr/pretty"
	"github.com/mattn/go-isatty"

	loqerrors "loq/internal/errors"
	"loq/internal/interpreter"
	"loq/internal/session"
)

// Options controls how the loop talks to its terminal.
type Options struct {
	Prompt string
	// Interactive shows the banner and prompt.
	Interactive bool
	// Color is auto, always or never.
	Color string
}

// REPL reads lines and feeds each one to a session.
type REPL struct {
	sess     *session.Session
	in       io.Reader
	out      io.Writer
	errOut   io.Writer
	opts     Options
	errColor *color.Color
	dim      *color.Color
}

func New(sess *session.Session, in io.Reader, out, errOut io.Writer, opts Options) *REPL {
	r := &REPL{
		sess:     sess,
		in:       in,
		out:      out,
		errOut:   errOut,
		opts:     opts,
		errColor: color.New(color.FgRed, color.Bold),
		dim:      color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{r.errColor, r.dim} {
		switch opts.Color {
		case "always":
			c.EnableColor()
		case "never":
			c.DisableColor()
		}
	}
	return r
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run loops until end of input or "exit". Errors in a line are reported and
// the loop moves on to the next line.
func (r *REPL) Run(ctx context.Context) error {
	if r.opts.Interactive {
		fmt.Fprintln(r.out, "LOQ REPL | type 'exit' to quit")
	}
	scanner := bufio.NewScanner(r.in)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.opts.Interactive {
			fmt.Fprint(r.out, r.opts.Prompt)
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "exit" {
			return nil
		}
		if strings.HasPrefix(trimmed, ":") {
			r.command(trimmed)
			continue
		}

		if err := r.sess.Eval(ctx, line); err != nil {
			r.Report(err)
		}
	}
}

// Report prints an evaluation error.
func (r *REPL) Report(err error) {
	if le, ok := loqerrors.As(err); ok {
		r.errColor.Fprintln(r.errOut, le.Error())
		return
	}
	r.errColor.Fprintln(r.errOut, err.Error())
}

func (r *REPL) command(cmd string) {
	name, arg, _ := strings.Cut(cmd, " ")
	switch name {
	case ":env":
		env := r.sess.Env()
		if env.Len() == 0 {
			r.dim.Fprintln(r.out, "(no variables)")
			return
		}
		snap := env.Snapshot()
		for _, k := range env.Keys() {
			fmt.Fprintf(r.out, "%s = %s\n", k, interpreter.FormatNumber(snap[k]))
		}
	case ":ast":
		nodes, err := r.sess.Parse(arg)
		if err != nil {
			r.Report(err)
			return
		}
		for _, n := range nodes {
			pretty.Fprintf(r.out, "%# v\n", n)
		}
	case ":reset":
		r.sess.Reset()
		r.dim.Fprintln(r.out, "environment cleared")
	case ":session":
		fmt.Fprintln(r.out, r.sess.ID)
	default:
		r.errColor.Fprintf(r.errOut, "unknown command %s (try :env, :ast, :reset, :session)\n", name)
	}
}
