package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up from the working directory upwards.
const FileName = ".loq.yml"

// ErrNotFound is returned by Find when no config file exists.
var ErrNotFound = errors.New(FileName + " not found")

// Config holds interpreter and tooling settings.
type Config struct {
	Path               string        `yaml:"-"`
	Prompt             string        `yaml:"prompt"`
	StrictLexing       bool          `yaml:"strict_lexing"`
	IdentifierOperands bool          `yaml:"identifier_operands"`
	Color              string        `yaml:"color"`
	History            HistoryConfig `yaml:"history"`
	Serve              ServeConfig   `yaml:"serve"`
}

// HistoryConfig points at the database that journals evaluated lines.
// An empty DSN disables history.
type HistoryConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// ServeConfig configures the WebSocket server.
type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Prompt: "LOQ> ",
		Color:  "auto",
		History: HistoryConfig{
			Driver: "sqlite",
		},
		Serve: ServeConfig{
			Addr: "127.0.0.1:7878",
		},
	}
}

// Load parses a config file over the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	cfg.Path = absPath
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find walks from start towards the filesystem root looking for FileName.
func Find(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// Discover loads the nearest config file, falling back to defaults when none exists.
func Discover(start string) (*Config, error) {
	path, err := Find(start)
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Validate checks field values.
func (c *Config) Validate() error {
	var errs ValidationError
	switch c.Color {
	case "auto", "always", "never":
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("color must be auto, always or never, got %q", c.Color))
	}
	switch c.History.Driver {
	case "sqlite", "postgres", "mysql", "sqlserver":
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("history.driver %q is not supported", c.History.Driver))
	}
	if c.Serve.Addr == "" {
		errs.Issues = append(errs.Issues, "serve.addr must not be empty")
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}
