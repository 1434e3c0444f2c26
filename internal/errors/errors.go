// internal/errors/errors.go
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorType represents the stage an error was raised in
type ErrorType string

const (
	LexError       ErrorType = "LexError"
	SyntaxError    ErrorType = "SyntaxError"
	ReferenceError ErrorType = "ReferenceError"
	RuntimeError   ErrorType = "RuntimeError"
)

// SourceLocation represents a location in source code. Column is 1-based; zero means unknown.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

// LoqError represents an error with source location information
type LoqError struct {
	Type     ErrorType
	Message  string
	Location SourceLocation
	Source   string // The source line where error occurred
}

// Error implements the error interface
func (e *LoqError) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s: %s", e.Type, e.Message))

	if e.Location.Line > 0 {
		if e.Location.File != "" {
			sb.WriteString(fmt.Sprintf("\n  at %s:%d:%d", e.Location.File, e.Location.Line, e.Location.Column))
		} else if e.Location.Column > 0 {
			sb.WriteString(fmt.Sprintf("\n  at %d:%d", e.Location.Line, e.Location.Column))
		}
	}

	if e.Source != "" && e.Location.Column > 0 {
		gutter := fmt.Sprintf("  %d | ", e.Location.Line)
		sb.WriteString("\n\n")
		sb.WriteString(gutter)
		sb.WriteString(e.Source)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(gutter)+e.Location.Column-1))
		sb.WriteString("^")
	}

	return sb.String()
}

// NewLexError creates a new lexical error
func NewLexError(message string, line, column int) *LoqError {
	return newError(LexError, message, line, column)
}

// NewSyntaxError creates a new syntax error
func NewSyntaxError(message string, line, column int) *LoqError {
	return newError(SyntaxError, message, line, column)
}

// NewReferenceError creates an error for a read of an unbound name
func NewReferenceError(name string) *LoqError {
	return newError(ReferenceError, fmt.Sprintf("undefined variable '%s'", name), 0, 0)
}

// NewRuntimeError creates a new runtime error
func NewRuntimeError(message string) *LoqError {
	return newError(RuntimeError, message, 0, 0)
}

func newError(t ErrorType, message string, line, column int) *LoqError {
	return &LoqError{
		Type:    t,
		Message: message,
		Location: SourceLocation{
			Line:   line,
			Column: column,
		},
	}
}

// WithSource adds source code context to the error
func (e *LoqError) WithSource(source string) *LoqError {
	e.Source = strings.TrimRight(source, "\r\n")
	return e
}

// WithFile records the file the failing line came from
func (e *LoqError) WithFile(file string) *LoqError {
	e.Location.File = file
	return e
}

// As finds the first LoqError in err's chain.
func As(err error) (*LoqError, bool) {
	var le *LoqError
	if stderrors.As(err, &le) {
		return le, true
	}
	return nil, false
}

// Is reports whether err carries a LoqError of the given type.
func Is(err error, t ErrorType) bool {
	le, ok := As(err)
	return ok && le.Type == t
}
