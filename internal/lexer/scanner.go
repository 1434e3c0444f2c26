package lexer

import (
	"fmt"
	"strconv"
	"unicode"
)

type TokenType string

const (
	// Keywords
	TokenLet     TokenType = "LET"
	TokenPrint   TokenType = "PN"
	TokenPrintLn TokenType = "PNL"

	// Literals
	TokenIdent  TokenType = "IDENT"
	TokenNumber TokenType = "NUMBER"

	// Symbols
	TokenPlus      TokenType = "+"
	TokenMinus     TokenType = "-"
	TokenStar      TokenType = "*"
	TokenSlash     TokenType = "/"
	TokenEqual     TokenType = "="
	TokenSemicolon TokenType = ";"

	TokenIllegal TokenType = "ILLEGAL"
	TokenEOF     TokenType = "EOF"
)

var keywordText = map[TokenType]string{
	TokenLet:     "let",
	TokenPrint:   "pn",
	TokenPrintLn: "pnl",
}

// Display renders a token type the way it is written in source.
func (t TokenType) Display() string {
	if kw, ok := keywordText[t]; ok {
		return "'" + kw + "'"
	}
	switch t {
	case TokenIdent:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenEOF:
		return "end of input"
	case TokenIllegal:
		return "illegal character"
	}
	return "'" + string(t) + "'"
}

type Token struct {
	Type   TokenType
	Lexeme string
	Number float64
	Line   int
	Column int
	Pos    int
}

func (t Token) String() string {
	return fmt.Sprintf("[%s] '%s'", t.Type, t.Lexeme)
}

// Describe renders the token for diagnostics.
func (t Token) Describe() string {
	switch t.Type {
	case TokenIdent:
		return fmt.Sprintf("identifier '%s'", t.Lexeme)
	case TokenNumber:
		return fmt.Sprintf("number %s", t.Lexeme)
	case TokenIllegal:
		return fmt.Sprintf("illegal character '%s'", t.Lexeme)
	}
	return t.Type.Display()
}

// Options tunes lexing policy.
type Options struct {
	// Strict reports unrecognized characters as ILLEGAL tokens instead of
	// ending the stream at them.
	Strict bool
}

// Scanner produces tokens on demand. Once it returns EOF it keeps returning EOF.
type Scanner struct {
	source    []rune
	start     int
	current   int
	line      int
	lineStart int
	done      bool
	opts      Options
}

func NewScanner(source string) *Scanner {
	return NewScannerWithOptions(source, Options{})
}

func NewScannerWithOptions(source string, opts Options) *Scanner {
	return &Scanner{
		source: []rune(source),
		line:   1,
		opts:   opts,
	}
}

// ScanTokens drains the scanner, returning every token up to and including EOF.
func (s *Scanner) ScanTokens() []Token {
	var tokens []Token
	for {
		tok := s.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

// NextToken returns the next token and advances past it.
func (s *Scanner) NextToken() Token {
	if s.done {
		return s.makeToken(TokenEOF, "")
	}
	s.sanitize()
	s.start = s.current
	if s.isAtEnd() {
		return s.finish()
	}

	c := s.peek()
	switch {
	case c == 'p':
		if kw, ok := s.matchKeyword(TokenPrintLn, TokenPrint); ok {
			return kw
		}
		return s.identifier()
	case c == 'l':
		if kw, ok := s.matchKeyword(TokenLet); ok {
			return kw
		}
		return s.identifier()
	case isAlpha(c):
		return s.identifier()
	case isDigit(c):
		return s.number()
	}

	s.advance()
	switch c {
	case '=':
		return s.addToken(TokenEqual)
	case '+':
		return s.addToken(TokenPlus)
	case '-':
		return s.addToken(TokenMinus)
	case '*':
		return s.addToken(TokenStar)
	case '/':
		return s.addToken(TokenSlash)
	case ';':
		return s.addToken(TokenSemicolon)
	}

	if s.opts.Strict {
		return s.addToken(TokenIllegal)
	}
	// Unrecognized input terminates the stream.
	s.current = s.start
	return s.finish()
}

func (s *Scanner) finish() Token {
	s.done = true
	return s.makeToken(TokenEOF, "")
}

// matchKeyword tries each keyword in order as a raw prefix at the cursor.
// Word boundaries are not checked: "letter" scans as 'let' then 'ter'.
func (s *Scanner) matchKeyword(candidates ...TokenType) (Token, bool) {
	for _, t := range candidates {
		kw := []rune(keywordText[t])
		if s.current+len(kw) > len(s.source) {
			continue
		}
		if string(s.source[s.current:s.current+len(kw)]) == string(kw) {
			s.current += len(kw)
			return s.addToken(t), true
		}
	}
	return Token{}, false
}

func (s *Scanner) identifier() Token {
	for !s.isAtEnd() && isAlphaNumeric(s.peek()) {
		s.advance()
	}
	return s.addToken(TokenIdent)
}

func (s *Scanner) number() Token {
	for !s.isAtEnd() && isDigit(s.peek()) {
		s.advance()
	}
	tok := s.addToken(TokenNumber)
	n, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil {
		// Digit runs past the float64 range would not be finite.
		tok.Type = TokenIllegal
		return tok
	}
	tok.Number = n
	return tok
}

func (s *Scanner) addToken(t TokenType) Token {
	return s.makeToken(t, string(s.source[s.start:s.current]))
}

func (s *Scanner) makeToken(t TokenType, lexeme string) Token {
	return Token{
		Type:   t,
		Lexeme: lexeme,
		Line:   s.line,
		Column: s.start - s.lineStart + 1,
		Pos:    s.start,
	}
}

func (s *Scanner) advance() rune {
	s.current++
	return s.source[s.current-1]
}

func (s *Scanner) peek() rune {
	if s.isAtEnd() {
		return 0
	}
	return s.source[s.current]
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

func (s *Scanner) sanitize() {
	for !s.isAtEnd() && unicode.IsSpace(s.peek()) {
		if s.advance() == '\n' {
			s.line++
			s.lineStart = s.current
		}
	}
}

// isAlpha reports whether c can start an identifier. Only ASCII letters do;
// later characters may be any letter or digit.
func isAlpha(c rune) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isAlphaNumeric(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c)
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
