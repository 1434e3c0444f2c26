package parser

import (
	"strconv"

	"loq/internal/lexer"
)

// Node is any parsed statement or expression. The set of implementations is
// closed; consumers switch on the concrete type.
type Node interface {
	node()
	String() string
}

// Number literal: 42
type Number struct {
	Value float64
}

func (*Number) node() {}

func (n *Number) String() string {
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// Variable reference: x
type Variable struct {
	Name   string
	Line   int
	Column int
}

func (*Variable) node() {}

func (v *Variable) String() string {
	return v.Name
}

// Binary expression: a + b
type Binary struct {
	Left     Node
	Operator lexer.TokenType
	Right    Node
	Line     int
	Column   int
}

func (*Binary) node() {}

func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + string(b.Operator) + " " + b.Right.String() + ")"
}
