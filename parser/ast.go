package parser

// Node represents any AST node.
type Node interface {
	Line() int
}

// Decl represents a declaration: a variable binding or a statement.
type Decl interface {
	Node
	declNode()
}

// Stmt represents a statement.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression.
type Expr interface {
	Node
	exprNode()
}

// Literal is a number, string, boolean or nil literal.
type Literal struct {
	Value Token
}

func (e *Literal) Line() int { return e.Value.Line }
func (*Literal) exprNode()   {}

// Identifier refers to a variable.
type Identifier struct {
	Name Token
}

func (e *Identifier) Line() int { return e.Name.Line }
func (*Identifier) exprNode()   {}

// Grouping is a parenthesized expression.
type Grouping struct {
	Expr Expr
}

func (e *Grouping) Line() int { return e.Expr.Line() }
func (*Grouping) exprNode()   {}

// Unary represents prefix operator application.
type Unary struct {
	Op      Token
	Operand Expr
}

func (e *Unary) Line() int { return e.Op.Line }
func (*Unary) exprNode()   {}

// Binary represents arithmetic, comparison and equality operators.
type Binary struct {
	Left  Expr
	Op    Token
	Right Expr
}

func (e *Binary) Line() int { return e.Op.Line }
func (*Binary) exprNode()   {}

// Logical represents the short-circuiting and/or operators.
type Logical struct {
	Left  Expr
	Op    Token
	Right Expr
}

func (e *Logical) Line() int { return e.Op.Line }
func (*Logical) exprNode()   {}

// Assign rebinds an existing variable.
type Assign struct {
	Target Token
	Value  Expr
}

func (e *Assign) Line() int { return e.Target.Line }
func (*Assign) exprNode()   {}

// ExpressionStmt evaluates an expression for its value or side effects.
type ExpressionStmt struct {
	Expr Expr
}

func (s *ExpressionStmt) Line() int { return s.Expr.Line() }
func (*ExpressionStmt) stmtNode()   {}

// PrintStmt writes the value of an expression to the output sink.
type PrintStmt struct {
	Keyword Token
	Expr    Expr
}

func (s *PrintStmt) Line() int { return s.Keyword.Line }
func (*PrintStmt) stmtNode()   {}

// IfStmt conditionally executes branches.
type IfStmt struct {
	Keyword Token
	Cond    Expr
	Then    Stmt
	Else    Stmt // may be nil
}

func (s *IfStmt) Line() int { return s.Keyword.Line }
func (*IfStmt) stmtNode()   {}

// BlockStmt is a braced sequence of declarations with its own scope.
type BlockStmt struct {
	Brace Token
	Decls []Decl
}

func (s *BlockStmt) Line() int { return s.Brace.Line }
func (*BlockStmt) stmtNode()   {}

// VarDecl declares a variable, optionally initialised.
type VarDecl struct {
	Name Token
	Init Expr // may be nil
}

func (d *VarDecl) Line() int { return d.Name.Line }
func (*VarDecl) declNode()   {}

// StmtDecl wraps a statement in declaration position.
type StmtDecl struct {
	Stmt Stmt
}

func (d *StmtDecl) Line() int { return d.Stmt.Line() }
func (*StmtDecl) declNode()   {}
