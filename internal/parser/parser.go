// internal/parser/parser.go
package parser

import (
	"fmt"

	"loq/internal/errors"
	"loq/internal/lexer"
)

// Options tunes the grammar.
type Options struct {
	// IdentOperands lets identifiers appear as operands of + and -. Without it
	// an identifier is always a complete expression on its own.
	IdentOperands bool
}

// Parser is a recursive-descent parser holding one token of lookahead.
type Parser struct {
	scanner *lexer.Scanner
	current lexer.Token
	opts    Options
}

func NewParser(scanner *lexer.Scanner) *Parser {
	return NewParserWithOptions(scanner, Options{})
}

func NewParserWithOptions(scanner *lexer.Scanner, opts Options) *Parser {
	p := &Parser{
		scanner: scanner,
		opts:    opts,
	}
	p.advance()
	return p
}

// Parse consumes the token stream and returns its statements in order. The
// first error abandons the rest of the input.
func (p *Parser) Parse() ([]Node, error) {
	var nodes []Node
	for !p.isAtEnd() {
		node, err := p.statement()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (p *Parser) statement() (Node, error) {
	switch p.current.Type {
	case lexer.TokenLet:
		p.advance()
		if !p.check(lexer.TokenIdent) {
			if p.check(lexer.TokenIllegal) {
				return nil, p.lexError()
			}
			return nil, p.errorAt(p.current, fmt.Sprintf("expected identifier after 'let', found %s", p.current.Describe()))
		}
		name := p.advance().Lexeme
		if _, err := p.consume(lexer.TokenEqual); err != nil {
			return nil, err
		}
		expr, err := p.terminated()
		if err != nil {
			return nil, err
		}
		return &LetStmt{Name: name, Expr: expr}, nil

	case lexer.TokenPrint:
		p.advance()
		expr, err := p.terminated()
		if err != nil {
			return nil, err
		}
		return &PrintStmt{Expr: expr}, nil

	case lexer.TokenPrintLn:
		p.advance()
		expr, err := p.terminated()
		if err != nil {
			return nil, err
		}
		return &PrintLnStmt{Expr: expr}, nil
	}

	// Expression statement
	return p.terminated()
}

// terminated parses an expression followed by the mandatory ';'.
func (p *Parser) terminated() (Node, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokenSemicolon); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) expression() (Node, error) {
	if !p.opts.IdentOperands && p.check(lexer.TokenIdent) {
		return p.variable(), nil
	}
	return p.term()
}

// term builds a left-nested chain. Every Binary is positioned at the first
// token of its left-most operand.
func (p *Parser) term() (Node, error) {
	start := p.current
	node, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.TokenPlus) || p.check(lexer.TokenMinus) {
		op := p.advance()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		node = &Binary{
			Left:     node,
			Operator: op.Type,
			Right:    right,
			Line:     start.Line,
			Column:   start.Column,
		}
	}
	return node, nil
}

func (p *Parser) factor() (Node, error) {
	switch p.current.Type {
	case lexer.TokenNumber:
		return &Number{Value: p.advance().Number}, nil
	case lexer.TokenIdent:
		if p.opts.IdentOperands {
			return p.variable(), nil
		}
	case lexer.TokenIllegal:
		return nil, p.lexError()
	}
	return nil, p.errorAt(p.current, fmt.Sprintf("unexpected token: %s", p.current.Describe()))
}

func (p *Parser) variable() *Variable {
	tok := p.advance()
	return &Variable{Name: tok.Lexeme, Line: tok.Line, Column: tok.Column}
}

func (p *Parser) consume(t lexer.TokenType) (lexer.Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	if p.check(lexer.TokenIllegal) {
		return lexer.Token{}, p.lexError()
	}
	return lexer.Token{}, p.errorAt(p.current, fmt.Sprintf("expected %s, found %s", t.Display(), p.current.Describe()))
}

func (p *Parser) lexError() error {
	tok := p.current
	msg := fmt.Sprintf("unrecognized character '%s'", tok.Lexeme)
	if tok.Lexeme != "" && tok.Lexeme[0] >= '0' && tok.Lexeme[0] <= '9' {
		msg = fmt.Sprintf("number literal %s is out of range", tok.Lexeme)
	}
	return errors.NewLexError(msg, tok.Line, tok.Column)
}

func (p *Parser) errorAt(tok lexer.Token, msg string) error {
	return errors.NewSyntaxError(msg, tok.Line, tok.Column)
}

func (p *Parser) check(t lexer.TokenType) bool {
	return p.current.Type == t
}

// advance moves the lookahead forward and returns the token it replaced.
func (p *Parser) advance() lexer.Token {
	prev := p.current
	p.current = p.scanner.NextToken()
	return prev
}

func (p *Parser) isAtEnd() bool {
	return p.current.Type == lexer.TokenEOF
}
