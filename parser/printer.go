package parser

import "strings"

const indentUnit = "  "

// Print renders node as canonical source text. Nested blocks are indented
// two spaces per level. Printing a parsed tree and parsing the output again
// yields a tree that prints identically.
func Print(node Node) string {
	var p printer
	p.node(node)
	return p.buf.String()
}

type printer struct {
	buf   strings.Builder
	depth int
}

func (p *printer) node(node Node) {
	switch n := node.(type) {
	case Expr:
		p.expr(n)
	case Stmt:
		p.stmt(n)
	case Decl:
		p.decl(n)
	}
}

func (p *printer) indent() {
	for i := 0; i < p.depth; i++ {
		p.buf.WriteString(indentUnit)
	}
}

func (p *printer) decl(decl Decl) {
	switch d := decl.(type) {
	case *VarDecl:
		p.buf.WriteString("var ")
		p.buf.WriteString(d.Name.Lexeme)
		if d.Init != nil {
			p.buf.WriteString(" = ")
			p.expr(d.Init)
		}
		p.buf.WriteByte(';')
	case *StmtDecl:
		p.stmt(d.Stmt)
	}
}

func (p *printer) stmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *ExpressionStmt:
		p.expr(s.Expr)
		p.buf.WriteByte(';')
	case *PrintStmt:
		p.buf.WriteString("print ")
		p.expr(s.Expr)
		p.buf.WriteByte(';')
	case *IfStmt:
		p.buf.WriteString("if (")
		p.expr(s.Cond)
		p.buf.WriteString(") ")
		p.stmt(s.Then)
		if s.Else != nil {
			p.buf.WriteByte('\n')
			p.indent()
			p.buf.WriteString("else ")
			p.stmt(s.Else)
		}
	case *BlockStmt:
		if len(s.Decls) == 0 {
			p.buf.WriteString("{}")
			return
		}
		p.buf.WriteByte('{')
		p.depth++
		for _, d := range s.Decls {
			p.buf.WriteByte('\n')
			p.indent()
			p.decl(d)
		}
		p.depth--
		p.buf.WriteByte('\n')
		p.indent()
		p.buf.WriteByte('}')
	}
}

func (p *printer) expr(expr Expr) {
	switch e := expr.(type) {
	case *Literal:
		p.buf.WriteString(e.Value.Lexeme)
	case *Identifier:
		p.buf.WriteString(e.Name.Lexeme)
	case *Grouping:
		p.buf.WriteByte('(')
		p.expr(e.Expr)
		p.buf.WriteByte(')')
	case *Unary:
		p.buf.WriteString(e.Op.Lexeme)
		p.expr(e.Operand)
	case *Binary:
		p.infix(e.Left, e.Op, e.Right)
	case *Logical:
		p.infix(e.Left, e.Op, e.Right)
	case *Assign:
		p.buf.WriteString(e.Target.Lexeme)
		p.buf.WriteString(" = ")
		p.expr(e.Value)
	}
}

func (p *printer) infix(left Expr, op Token, right Expr) {
	p.expr(left)
	p.buf.WriteByte(' ')
	p.buf.WriteString(op.Lexeme)
	p.buf.WriteByte(' ')
	p.expr(right)
}
