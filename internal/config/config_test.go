package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), `
prompt: "> "
strict_lexing: true
history:
  driver: postgres
  dsn: postgres://localhost/loq
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Prompt != "> " || !cfg.StrictLexing || cfg.IdentifierOperands {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.History.Driver != "postgres" || cfg.History.DSN != "postgres://localhost/loq" {
		t.Errorf("history = %+v", cfg.History)
	}
	if cfg.Serve.Addr != "127.0.0.1:7878" || cfg.Color != "auto" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, t.TempDir(), ""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Prompt != "LOQ> " {
		t.Errorf("prompt = %q", cfg.Prompt)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(writeFile(t, t.TempDir(), "promt: x\n"))
	if err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestValidation(t *testing.T) {
	_, err := Load(writeFile(t, t.TempDir(), "color: purple\nhistory:\n  driver: oracle\nserve:\n  addr: \"\"\n"))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Issues) != 3 {
		t.Errorf("issues = %v", verr.Issues)
	}
	if !strings.Contains(verr.Error(), "history.driver") {
		t.Errorf("message = %q", verr.Error())
	}
}

func TestFindWalksUpwards(t *testing.T) {
	root := t.TempDir()
	want := writeFile(t, root, "prompt: up\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	got, err := Find(nested)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != want {
		t.Errorf("found %s, want %s", got, want)
	}
	cfg, err := Discover(nested)
	if err != nil || cfg.Prompt != "up" {
		t.Errorf("discover = %+v, %v", cfg, err)
	}
}
