// internal/parser/stmt.go
package parser

// LetStmt represents a variable declaration: let x = expr
type LetStmt struct {
	Name string
	Expr Node
}

func (*LetStmt) node() {}

func (l *LetStmt) String() string {
	return "let " + l.Name + " = " + l.Expr.String() + ";"
}

// PrintStmt writes its value with no trailing newline: pn expr
type PrintStmt struct {
	Expr Node
}

func (*PrintStmt) node() {}

func (p *PrintStmt) String() string {
	return "pn " + p.Expr.String() + ";"
}

// PrintLnStmt writes its value followed by a newline: pnl expr
type PrintLnStmt struct {
	Expr Node
}

func (*PrintLnStmt) node() {}

func (p *PrintLnStmt) String() string {
	return "pnl " + p.Expr.String() + ";"
}
