package session

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"loq/internal/database"
	loqerrors "loq/internal/errors"
)

type memoryRecorder struct {
	entries []database.Entry
}

func (m *memoryRecorder) Record(_ context.Context, e database.Entry) error {
	m.entries = append(m.entries, e)
	return nil
}

func TestEvalAcrossLines(t *testing.T) {
	var out bytes.Buffer
	s := New(&out, Options{})
	ctx := context.Background()

	for _, line := range []string{"let x = 1 + 2;", "pnl x;", "pn 5 - 2;"} {
		if err := s.Eval(ctx, line); err != nil {
			t.Fatalf("eval %q: %v", line, err)
		}
	}
	if out.String() != "3\n3" {
		t.Errorf("output = %q", out.String())
	}
	if s.Lines() != 3 {
		t.Errorf("lines = %d", s.Lines())
	}
}

func TestErrorsCarryLineAndSource(t *testing.T) {
	s := New(&bytes.Buffer{}, Options{File: "prog.loq"})
	ctx := context.Background()

	_ = s.Eval(ctx, "let a = 1;")
	err := s.Eval(ctx, "let x = 1")
	le, ok := loqerrors.As(err)
	if !ok || le.Type != loqerrors.SyntaxError {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
	if le.Location.Line != 2 || le.Location.File != "prog.loq" || le.Source != "let x = 1" {
		t.Errorf("location = %+v, source = %q", le.Location, le.Source)
	}
	if !strings.HasPrefix(err.Error(), "parse: ") {
		t.Errorf("expected stage prefix, got %q", err.Error())
	}
	rendered := le.Error()
	if !strings.Contains(rendered, "at prog.loq:2:10") || !strings.Contains(rendered, "2 | let x = 1") {
		t.Errorf("rendered = %q", rendered)
	}

	err = s.Eval(ctx, "pnl nope;")
	if !loqerrors.Is(err, loqerrors.ReferenceError) || !strings.HasPrefix(err.Error(), "eval: ") {
		t.Errorf("expected wrapped ReferenceError, got %v", err)
	}
}

func TestPartialLineKeepsEarlierEffects(t *testing.T) {
	var out bytes.Buffer
	s := New(&out, Options{})
	err := s.Eval(context.Background(), "let a = 5; pnl b; let c = 1;")
	if err == nil {
		t.Fatal("expected failure")
	}
	if v, err := s.Env().Get("a"); err != nil || v != 5 {
		t.Errorf("a = %v, %v", v, err)
	}
	if _, err := s.Env().Get("c"); err == nil {
		t.Error("statement after the failure was evaluated")
	}
}

func TestPolicyOptions(t *testing.T) {
	ctx := context.Background()

	var out bytes.Buffer
	lenient := New(&out, Options{})
	if err := lenient.Eval(ctx, "pnl 3.5;"); err == nil {
		t.Error("default lexing should leave 'pnl 3' without its terminator")
	}
	if err := lenient.Eval(ctx, "pnl 3; $ this is ignored"); err != nil || out.String() != "3\n" {
		t.Errorf("default lexing: %v, output %q", err, out.String())
	}

	strict := New(&bytes.Buffer{}, Options{StrictLexing: true})
	if err := strict.Eval(ctx, "pnl 3; $"); !loqerrors.Is(err, loqerrors.LexError) {
		t.Errorf("strict lexing: %v", err)
	}

	out.Reset()
	ops := New(&out, Options{IdentifierOperands: true})
	if err := ops.Eval(ctx, "let x = 2; pnl x + 40;"); err != nil || out.String() != "42\n" {
		t.Errorf("identifier operands: %v, output %q", err, out.String())
	}
}

func TestRecorderSeesEveryLine(t *testing.T) {
	rec := &memoryRecorder{}
	s := New(&bytes.Buffer{}, Options{}).WithRecorder(rec)
	ctx := context.Background()
	_ = s.Eval(ctx, "let x = 1;")
	_ = s.Eval(ctx, "pnl y;")

	if len(rec.entries) != 2 {
		t.Fatalf("recorded %d entries", len(rec.entries))
	}
	if !rec.entries[0].OK || rec.entries[0].Seq != 1 || rec.entries[0].SessionID != s.ID.String() {
		t.Errorf("first entry = %+v", rec.entries[0])
	}
	if rec.entries[1].OK || !strings.Contains(rec.entries[1].Error, "undefined variable 'y'") {
		t.Errorf("second entry = %+v", rec.entries[1])
	}
}

func (m *memoryRecorder) lines(sessionID string) []string {
	var lines []string
	for _, e := range m.entries {
		if e.SessionID == sessionID {
			lines = append(lines, e.Line)
		}
	}
	return lines
}

func TestRestoreIsSilent(t *testing.T) {
	var out bytes.Buffer
	s := New(&out, Options{})
	if failed := s.Restore(context.Background(), []string{"let x = 4;", "pnl x;"}); failed != 0 {
		t.Fatalf("%d lines failed", failed)
	}
	if out.Len() != 0 {
		t.Errorf("restore produced output %q", out.String())
	}
	if err := s.Eval(context.Background(), "pnl x;"); err != nil || out.String() != "4\n" {
		t.Errorf("after restore: %v, %q", err, out.String())
	}
}

func TestRestoreKeepsPartialLines(t *testing.T) {
	s := New(&bytes.Buffer{}, Options{})
	failed := s.Restore(context.Background(), []string{"let a = 1; pnl y;", "let b = a;"})
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
	if v, err := s.Env().Get("b"); err != nil || v != 1 {
		t.Errorf("b = %v, %v", v, err)
	}
}

func TestRestoredSessionCanBeResumed(t *testing.T) {
	ctx := context.Background()
	rec := &memoryRecorder{}

	first := New(&bytes.Buffer{}, Options{}).WithRecorder(rec)
	_ = first.Eval(ctx, "let x = 1;")

	second := New(&bytes.Buffer{}, Options{}).WithRecorder(rec)
	second.Restore(ctx, rec.lines(first.ID.String()))
	_ = second.Eval(ctx, "pnl x;")
	if got := rec.lines(second.ID.String()); len(got) != 2 || got[0] != "let x = 1;" {
		t.Fatalf("second session journal = %q", got)
	}

	var out bytes.Buffer
	third := New(&out, Options{}).WithRecorder(rec)
	third.Restore(ctx, rec.lines(second.ID.String()))
	if err := third.Eval(ctx, "pnl x;"); err != nil || out.String() != "1\n" {
		t.Errorf("third session: %v, %q", err, out.String())
	}
}

func TestReset(t *testing.T) {
	s := New(&bytes.Buffer{}, Options{})
	_ = s.Eval(context.Background(), "let x = 1;")
	s.Reset()
	if s.Env().Len() != 0 {
		t.Error("reset kept bindings")
	}
}
