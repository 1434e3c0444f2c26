package lexer

import (
	"testing"
)

func scanTypes(input string, opts Options) []TokenType {
	var types []TokenType
	for _, tok := range NewScannerWithOptions(input, opts).ScanTokens() {
		types = append(types, tok.Type)
	}
	return types
}

func equalTypes(a, b []TokenType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		strict bool
		want   []TokenType
	}{
		{"empty", "", false, []TokenType{TokenEOF}},
		{"whitespace only", " \t\r\n ", false, []TokenType{TokenEOF}},
		{"let statement", "let x = 1 + 2;", false, []TokenType{TokenLet, TokenIdent, TokenEqual, TokenNumber, TokenPlus, TokenNumber, TokenSemicolon, TokenEOF}},
		{"print", "pn 5 - 2;", false, []TokenType{TokenPrint, TokenNumber, TokenMinus, TokenNumber, TokenSemicolon, TokenEOF}},
		{"println", "pnl x;", false, []TokenType{TokenPrintLn, TokenIdent, TokenSemicolon, TokenEOF}},
		{"all operators", "+-*/=;", false, []TokenType{TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenEqual, TokenSemicolon, TokenEOF}},
		{"keyword prefix let", "letter", false, []TokenType{TokenLet, TokenIdent, TokenEOF}},
		{"keyword prefix pnl", "pnlx", false, []TokenType{TokenPrintLn, TokenIdent, TokenEOF}},
		{"keyword prefix pn", "pnx", false, []TokenType{TokenPrint, TokenIdent, TokenEOF}},
		{"p identifier", "pa", false, []TokenType{TokenIdent, TokenEOF}},
		{"l identifier", "lx", false, []TokenType{TokenIdent, TokenEOF}},
		{"alphanumeric identifier", "x1y2", false, []TokenType{TokenIdent, TokenEOF}},
		{"digits then letters", "12ab", false, []TokenType{TokenNumber, TokenIdent, TokenEOF}},
		{"unicode identifier", "größe", false, []TokenType{TokenIdent, TokenEOF}},
		{"non-ascii letter cannot start identifier", "pnl élan;", false, []TokenType{TokenPrintLn, TokenEOF}},
		{"non-ascii start strict", "élan", true, []TokenType{TokenIllegal, TokenIdent, TokenEOF}},
		{"decimal point ends stream", "3.5;", false, []TokenType{TokenNumber, TokenEOF}},
		{"decimal point strict", "3.5;", true, []TokenType{TokenNumber, TokenIllegal, TokenNumber, TokenSemicolon, TokenEOF}},
		{"underscore ends stream", "a_b;", false, []TokenType{TokenIdent, TokenEOF}},
		{"underscore strict", "a_b", true, []TokenType{TokenIdent, TokenIllegal, TokenIdent, TokenEOF}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := scanTypes(test.input, Options{Strict: test.strict})
			if !equalTypes(got, test.want) {
				t.Errorf("scan %q: got %v, want %v", test.input, got, test.want)
			}
		})
	}
}

func TestNumberValues(t *testing.T) {
	tests := map[string]float64{
		"0":        0,
		"7":        7,
		"0042":     42,
		"12345678": 12345678,
	}
	for input, want := range tests {
		tok := NewScanner(input).NextToken()
		if tok.Type != TokenNumber || tok.Number != want {
			t.Errorf("scan %q: got %v %v, want NUMBER %v", input, tok.Type, tok.Number, want)
		}
	}
}

func TestOutOfRangeNumberIsIllegal(t *testing.T) {
	digits := make([]byte, 400)
	for i := range digits {
		digits[i] = '9'
	}
	tok := NewScanner(string(digits)).NextToken()
	if tok.Type != TokenIllegal {
		t.Fatalf("expected ILLEGAL for out-of-range literal, got %v", tok.Type)
	}
}

func TestEOFRepeats(t *testing.T) {
	s := NewScanner("x")
	if tok := s.NextToken(); tok.Type != TokenIdent || tok.Lexeme != "x" {
		t.Fatalf("unexpected first token %v", tok)
	}
	for i := 0; i < 5; i++ {
		if tok := s.NextToken(); tok.Type != TokenEOF {
			t.Fatalf("call %d after end: got %v, want EOF", i, tok)
		}
	}
}

func TestUnrecognizedCharacterStopsStream(t *testing.T) {
	s := NewScanner("pn 1; # pn 2;")
	got := []TokenType{}
	for i := 0; i < 6; i++ {
		got = append(got, s.NextToken().Type)
	}
	want := []TokenType{TokenPrint, TokenNumber, TokenSemicolon, TokenEOF, TokenEOF, TokenEOF}
	if !equalTypes(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPositions(t *testing.T) {
	tokens := NewScanner("let x =\n  7;").ScanTokens()
	want := []struct {
		line, col int
	}{
		{1, 1}, {1, 5}, {1, 7}, {2, 3}, {2, 4}, {2, 5},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		if tokens[i].Line != w.line || tokens[i].Column != w.col {
			t.Errorf("token %d %v: at %d:%d, want %d:%d", i, tokens[i], tokens[i].Line, tokens[i].Column, w.line, w.col)
		}
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Type: TokenSemicolon, Lexeme: ";"}, "';'"},
		{Token{Type: TokenEOF}, "end of input"},
		{Token{Type: TokenIdent, Lexeme: "abc"}, "identifier 'abc'"},
		{Token{Type: TokenNumber, Lexeme: "12"}, "number 12"},
		{Token{Type: TokenPrintLn, Lexeme: "pnl"}, "'pnl'"},
	}
	for _, test := range tests {
		if got := test.tok.Describe(); got != test.want {
			t.Errorf("Describe(%v) = %q, want %q", test.tok, got, test.want)
		}
	}
}
