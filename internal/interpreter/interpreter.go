package interpreter

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"loq/internal/errors"
	"loq/internal/lexer"
	"loq/internal/parser"
)

// Interpreter walks parsed statements against its own environment.
type Interpreter struct {
	env *Environment
	out io.Writer
}

// New returns an interpreter with an empty environment that prints to out.
func New(out io.Writer) *Interpreter {
	return &Interpreter{
		env: NewEnvironment(),
		out: out,
	}
}

// Env exposes the interpreter's variable bindings.
func (i *Interpreter) Env() *Environment {
	return i.env
}

// SetOutput redirects pn/pnl output.
func (i *Interpreter) SetOutput(out io.Writer) {
	i.out = out
}

// Interpret evaluates nodes in order, stopping at the first failure. Effects of
// the statements before it are kept.
func (i *Interpreter) Interpret(nodes []parser.Node) error {
	for _, node := range nodes {
		if _, err := i.Evaluate(node); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate computes a node's value. Statements yield 0.
func (i *Interpreter) Evaluate(node parser.Node) (float64, error) {
	switch n := node.(type) {
	case *parser.Number:
		return n.Value, nil

	case *parser.LetStmt:
		value, err := i.Evaluate(n.Expr)
		if err != nil {
			return 0, err
		}
		i.env.Define(n.Name, value)
		return 0, nil

	case *parser.Variable:
		value, err := i.env.Get(n.Name)
		if err != nil {
			if le, ok := errors.As(err); ok {
				le.Location.Line, le.Location.Column = n.Line, n.Column
			}
			return 0, err
		}
		return value, nil

	case *parser.PrintStmt:
		return 0, i.print(n.Expr, "")

	case *parser.PrintLnStmt:
		return 0, i.print(n.Expr, "\n")

	case *parser.Binary:
		left, err := i.Evaluate(n.Left)
		if err != nil {
			return 0, err
		}
		right, err := i.Evaluate(n.Right)
		if err != nil {
			return 0, err
		}
		switch n.Operator {
		case lexer.TokenPlus:
			return left + right, nil
		case lexer.TokenMinus:
			return left - right, nil
		case lexer.TokenStar:
			return left * right, nil
		case lexer.TokenSlash:
			return left / right, nil
		}
		return 0, errors.NewRuntimeError(fmt.Sprintf("unexpected operator: %s", n.Operator.Display()))
	}
	return 0, errors.NewRuntimeError(fmt.Sprintf("cannot evaluate %T", node))
}

func (i *Interpreter) print(expr parser.Node, suffix string) error {
	value, err := i.Evaluate(expr)
	if err != nil {
		return err
	}
	_, err = io.WriteString(i.out, FormatNumber(value)+suffix)
	return err
}

// FormatNumber renders v as the shortest decimal that round-trips, without an
// exponent: 3, 0.5, 1000000000000000000000.
func FormatNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
