package formatter

import (
	"strconv"
	"strings"

	"loq/internal/parser"
)

// Formatter renders parsed statements in canonical form: one space around
// operators and after keywords, statements on a line separated by a space.
type Formatter struct {
	output strings.Builder
}

func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format renders the statements of one input line, without a line break.
func (f *Formatter) Format(nodes []parser.Node) string {
	f.output.Reset()
	for i, node := range nodes {
		if i > 0 {
			f.output.WriteString(" ")
		}
		f.formatStmt(node)
	}
	return f.output.String()
}

func (f *Formatter) formatStmt(node parser.Node) {
	switch s := node.(type) {
	case *parser.LetStmt:
		f.output.WriteString("let ")
		f.output.WriteString(s.Name)
		f.output.WriteString(" = ")
		f.formatExpr(s.Expr)
	case *parser.PrintStmt:
		f.output.WriteString("pn ")
		f.formatExpr(s.Expr)
	case *parser.PrintLnStmt:
		f.output.WriteString("pnl ")
		f.formatExpr(s.Expr)
	default:
		f.formatExpr(node)
	}
	f.output.WriteString(";")
}

// Binary chains are left-nested and the grammar has no grouping, so
// operands print flat.
func (f *Formatter) formatExpr(node parser.Node) {
	switch e := node.(type) {
	case *parser.Number:
		f.output.WriteString(strconv.FormatFloat(e.Value, 'f', -1, 64))
	case *parser.Variable:
		f.output.WriteString(e.Name)
	case *parser.Binary:
		f.formatExpr(e.Left)
		f.output.WriteString(" ")
		f.output.WriteString(string(e.Operator))
		f.output.WriteString(" ")
		f.formatExpr(e.Right)
	}
}
