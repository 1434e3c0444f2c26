// Package session runs input lines through the lex, parse and evaluate
// pipeline against one long-lived interpreter.
package session

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"loq/internal/database"
	loqerrors "loq/internal/errors"
	"loq/internal/interpreter"
	"loq/internal/lexer"
	"loq/internal/parser"
)

// Options selects the language policies a session runs with.
type Options struct {
	StrictLexing       bool
	IdentifierOperands bool
	// File names the source in diagnostics when lines come from a file.
	File string
}

// Recorder persists evaluated lines.
type Recorder interface {
	Record(ctx context.Context, entry database.Entry) error
}

// Session owns an interpreter and numbers the lines fed to it.
type Session struct {
	ID       uuid.UUID
	opts     Options
	interp   *interpreter.Interpreter
	out      io.Writer
	recorder Recorder
	seq      int
}

// New creates a session writing program output to out.
func New(out io.Writer, opts Options) *Session {
	return &Session{
		ID:     uuid.New(),
		opts:   opts,
		interp: interpreter.New(out),
		out:    out,
	}
}

// WithRecorder makes the session journal every line it evaluates.
func (s *Session) WithRecorder(r Recorder) *Session {
	s.recorder = r
	return s
}

// Env exposes the session's bindings.
func (s *Session) Env() *interpreter.Environment {
	return s.interp.Env()
}

// Lines reports how many lines have been evaluated.
func (s *Session) Lines() int {
	return s.seq
}

// Parse lexes and parses one line without evaluating it.
func (s *Session) Parse(line string) ([]parser.Node, error) {
	scanner := lexer.NewScannerWithOptions(line, lexer.Options{Strict: s.opts.StrictLexing})
	p := parser.NewParserWithOptions(scanner, parser.Options{IdentOperands: s.opts.IdentifierOperands})
	nodes, err := p.Parse()
	if err != nil {
		return nil, errors.Wrap(s.annotate(err, line, s.seq+1), "parse")
	}
	return nodes, nil
}

// Eval runs one line. A failing line leaves the effects of the statements
// before the failure in place, and the session stays usable.
func (s *Session) Eval(ctx context.Context, line string) error {
	err := s.eval(line)
	if s.recorder != nil {
		entry := database.Entry{
			SessionID: s.ID.String(),
			Seq:       s.seq,
			Line:      line,
			OK:        err == nil,
			CreatedAt: time.Now().UTC(),
		}
		if err != nil {
			entry.Error = err.Error()
		}
		if rerr := s.recorder.Record(ctx, entry); rerr != nil {
			log.Printf("history: %v", rerr)
		}
	}
	return err
}

func (s *Session) eval(line string) error {
	nodes, err := s.Parse(line)
	s.seq++
	if err != nil {
		return err
	}
	if err := s.interp.Interpret(nodes); err != nil {
		return errors.Wrap(s.annotate(err, line, s.seq), "eval")
	}
	return nil
}

// Restore replays the recorded lines of an earlier session to rebuild its
// environment. Lines that failed originally fail again at the same statement,
// keeping the effects before it. Output is discarded. With a recorder attached
// the lines are journaled under this session, so it can be resumed in turn.
// Restore returns the number of lines that failed.
func (s *Session) Restore(ctx context.Context, lines []string) int {
	s.interp.SetOutput(io.Discard)
	defer s.interp.SetOutput(s.out)
	failed := 0
	for _, line := range lines {
		if err := s.Eval(ctx, line); err != nil {
			failed++
		}
	}
	return failed
}

// Skip counts a line handled outside Eval so later diagnostics keep their
// input line numbers.
func (s *Session) Skip() {
	s.seq++
}

// Reset drops every binding.
func (s *Session) Reset() {
	s.interp.Env().Clear()
}

func (s *Session) annotate(err error, line string, lineNo int) error {
	if le, ok := loqerrors.As(err); ok {
		le.Location.Line = lineNo
		if s.opts.File != "" {
			le.WithFile(s.opts.File)
		}
		le.WithSource(line)
	}
	return err
}
