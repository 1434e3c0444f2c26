// cmd/loq/commands/options.go
package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"

	"loq/internal/config"
	"loq/internal/database"
	loqerrors "loq/internal/errors"
	"loq/internal/session"
)

// errReported means diagnostics were already printed.
var errReported = errors.New("errors reported")

// IsReported reports whether err only signals that diagnostics were printed.
func IsReported(err error) bool {
	return errors.Is(err, errReported)
}

// commonFlags are accepted by every command.
const commonFlags = "c:sxC:"

// Options is the result of parsing a command line.
type Options struct {
	Config *config.Config
	Args   []string
	Flags  map[rune]string
}

// parseOptions handles the shared flags plus the command specific ones in extra.
//
//	-c FILE   config file (default: nearest .loq.yml)
//	-s        strict lexing
//	-x        identifiers as operands
//	-C MODE   color: auto, always or never
func parseOptions(name string, args []string, extra string) (*Options, error) {
	opts, optind, err := getopt.Getopts(append([]string{name}, args...), commonFlags+extra)
	if err != nil {
		return nil, err
	}

	flags := make(map[rune]string, len(opts))
	for _, opt := range opts {
		flags[opt.Option] = opt.Value
	}

	var cfg *config.Config
	if path, ok := flags['c']; ok {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return nil, err
	}

	if _, ok := flags['s']; ok {
		cfg.StrictLexing = true
	}
	if _, ok := flags['x']; ok {
		cfg.IdentifierOperands = true
	}
	if mode, ok := flags['C']; ok {
		cfg.Color = mode
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	applyColor(cfg.Color)

	return &Options{
		Config: cfg,
		Args:   append([]string{name}, args...)[optind:],
		Flags:  flags,
	}, nil
}

func applyColor(mode string) {
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}
}

func (o *Options) sessionOptions(file string) session.Options {
	return session.Options{
		StrictLexing:       o.Config.StrictLexing,
		IdentifierOperands: o.Config.IdentifierOperands,
		File:               file,
	}
}

// openHistory connects to the configured history database, or returns nil
// when history is disabled.
func (o *Options) openHistory(ctx context.Context) (*database.Store, error) {
	h := o.Config.History
	if h.DSN == "" {
		return nil, nil
	}
	return database.Open(ctx, h.Driver, h.DSN)
}

// fileArg returns the single file operand.
func (o *Options) fileArg(command string) (string, error) {
	if len(o.Args) != 1 {
		return "", fmt.Errorf("usage: loq %s [options] <file.loq>", command)
	}
	return o.Args[0], nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not read file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

var errColor = color.New(color.FgRed, color.Bold)

// report prints a diagnostic the way the REPL does.
func report(w io.Writer, err error) {
	if le, ok := loqerrors.As(err); ok {
		errColor.Fprintln(w, le.Error())
		return
	}
	errColor.Fprintln(w, err.Error())
}
