package repl

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"loq/internal/session"
)

func runREPL(t *testing.T, input string) (string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	sess := session.New(&out, session.Options{})
	r := New(sess, strings.NewReader(input), &out, &errOut, Options{Prompt: "LOQ> ", Color: "never"})
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String(), errOut.String()
}

func TestLoopContinuesAfterErrors(t *testing.T) {
	out, errOut := runREPL(t, "let x = 1 + 2;\npnl y;\nlet z = 1\npnl x;\n")
	if out != "3\n" {
		t.Errorf("stdout = %q, want %q", out, "3\n")
	}
	if !strings.Contains(errOut, "ReferenceError: undefined variable 'y'") {
		t.Errorf("missing reference error in %q", errOut)
	}
	if !strings.Contains(errOut, "SyntaxError: expected ';', found end of input") {
		t.Errorf("missing syntax error in %q", errOut)
	}
}

func TestExitStopsTheLoop(t *testing.T) {
	out, _ := runREPL(t, "pnl 1;\n  exit  \npnl 2;\n")
	if out != "1\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestNonInteractiveHasNoPrompt(t *testing.T) {
	out, _ := runREPL(t, "pn 4;\n")
	if strings.Contains(out, "LOQ>") {
		t.Errorf("prompt written in non-interactive mode: %q", out)
	}
}

func TestInteractivePrompt(t *testing.T) {
	var out bytes.Buffer
	sess := session.New(&out, session.Options{})
	r := New(sess, strings.NewReader("pn 4;\n"), &out, &out, Options{Prompt: "LOQ> ", Interactive: true, Color: "never"})
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := "LOQ REPL | type 'exit' to quit\nLOQ> 4LOQ> "
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestMetaCommands(t *testing.T) {
	out, errOut := runREPL(t, "let b = 2; let a = 1;\n:env\n:reset\n:env\n:ast pn 1 + 2;\n:nope\n")
	for _, want := range []string{"a = 1\nb = 2\n", "environment cleared", "(no variables)", "parser.PrintStmt", "parser.Binary"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(errOut, "unknown command :nope") {
		t.Errorf("stderr = %q", errOut)
	}
}
