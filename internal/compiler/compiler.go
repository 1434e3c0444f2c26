// internal/compiler/compiler.go
package compiler

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"loq/internal/errors"
	"loq/internal/lexer"
	"loq/internal/parser"
)

// Compiler lowers a program to an LLVM module whose main function runs the
// statements in order.
type Compiler struct {
	module *ir.Module
	entry  *ir.Block
	printf *ir.Func
	fmtPn  *ir.Global
	fmtPnl *ir.Global
	vars   map[string]*ir.InstAlloca
}

func NewCompiler() *Compiler {
	m := ir.NewModule()
	printf := m.NewFunc("printf", types.I32, ir.NewParam("format", types.NewPointer(types.I8)))
	printf.Sig.Variadic = true

	mainFn := m.NewFunc("main", types.I32)
	return &Compiler{
		module: m,
		entry:  mainFn.NewBlock("entry"),
		printf: printf,
		fmtPn:  m.NewGlobalDef(".fmt.pn", constant.NewCharArrayFromString("%g\x00")),
		fmtPnl: m.NewGlobalDef(".fmt.pnl", constant.NewCharArrayFromString("%g\n\x00")),
		vars:   make(map[string]*ir.InstAlloca),
	}
}

// Compile appends nodes to main. Call Module once every line is compiled.
func (c *Compiler) Compile(nodes []parser.Node) error {
	for _, node := range nodes {
		if _, err := c.emit(node); err != nil {
			return err
		}
	}
	return nil
}

// Module terminates main and returns the finished module.
func (c *Compiler) Module() *ir.Module {
	if c.entry.Term == nil {
		c.entry.NewRet(constant.NewInt(types.I32, 0))
	}
	return c.module
}

func (c *Compiler) emit(node parser.Node) (value.Value, error) {
	switch n := node.(type) {
	case *parser.Number:
		return constant.NewFloat(types.Double, n.Value), nil

	case *parser.LetStmt:
		v, err := c.emit(n.Expr)
		if err != nil {
			return nil, err
		}
		slot, ok := c.vars[n.Name]
		if !ok {
			slot = c.entry.NewAlloca(types.Double)
			slot.SetName(n.Name)
			c.vars[n.Name] = slot
		}
		c.entry.NewStore(v, slot)
		return nil, nil

	case *parser.Variable:
		slot, ok := c.vars[n.Name]
		if !ok {
			err := errors.NewReferenceError(n.Name)
			err.Location.Line, err.Location.Column = n.Line, n.Column
			return nil, err
		}
		return c.entry.NewLoad(types.Double, slot), nil

	case *parser.PrintStmt:
		return nil, c.print(n.Expr, c.fmtPn)

	case *parser.PrintLnStmt:
		return nil, c.print(n.Expr, c.fmtPnl)

	case *parser.Binary:
		left, err := c.emit(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := c.emit(n.Right)
		if err != nil {
			return nil, err
		}
		switch n.Operator {
		case lexer.TokenPlus:
			return c.entry.NewFAdd(left, right), nil
		case lexer.TokenMinus:
			return c.entry.NewFSub(left, right), nil
		case lexer.TokenStar:
			return c.entry.NewFMul(left, right), nil
		case lexer.TokenSlash:
			return c.entry.NewFDiv(left, right), nil
		}
		return nil, errors.NewRuntimeError(fmt.Sprintf("unexpected operator: %s", n.Operator.Display()))
	}
	return nil, errors.NewRuntimeError(fmt.Sprintf("cannot compile %T", node))
}

func (c *Compiler) print(expr parser.Node, format *ir.Global) error {
	v, err := c.emit(expr)
	if err != nil {
		return err
	}
	if v == nil {
		// Statements evaluate to zero.
		v = constant.NewFloat(types.Double, 0)
	}
	zero := constant.NewInt(types.I64, 0)
	ptr := constant.NewGetElementPtr(format.ContentType, format, zero, zero)
	c.entry.NewCall(c.printf, ptr, v)
	return nil
}
