package parser

import (
	"errors"
	"strings"
	"testing"
)

func parseSource(t *testing.T, src string, opts ...Option) []Result {
	t.Helper()
	results, err := ParseString(src, opts...)
	if err != nil {
		t.Fatalf("ParseString(%q) returned lex error: %v", src, err)
	}
	return results
}

func mustParse(t *testing.T, src string) []Decl {
	t.Helper()
	var decls []Decl
	for i, res := range parseSource(t, src) {
		if res.Err != nil {
			t.Fatalf("declaration %d of %q failed: %v", i, src, res.Err)
		}
		decls = append(decls, res.Decl)
	}
	return decls
}

func mustParseExpr(t *testing.T, src string) Expr {
	t.Helper()
	decls := mustParse(t, src)
	if len(decls) != 1 {
		t.Fatalf("expected one declaration, got %d", len(decls))
	}
	sd, ok := decls[0].(*StmtDecl)
	if !ok {
		t.Fatalf("expected *StmtDecl, got %T", decls[0])
	}
	es, ok := sd.Stmt.(*ExpressionStmt)
	if !ok {
		t.Fatalf("expected *ExpressionStmt, got %T", sd.Stmt)
	}
	return es.Expr
}

func TestParseVarDecl(t *testing.T) {
	decls := mustParse(t, "var a = 1; var b;")
	if len(decls) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(decls))
	}
	first, ok := decls[0].(*VarDecl)
	if !ok {
		t.Fatalf("expected *VarDecl, got %T", decls[0])
	}
	if first.Name.Lexeme != "a" {
		t.Fatalf("expected name a, got %s", first.Name.Lexeme)
	}
	lit, ok := first.Init.(*Literal)
	if !ok || lit.Value.Literal != int64(1) {
		t.Fatalf("expected literal initializer 1, got %#v", first.Init)
	}
	second := decls[1].(*VarDecl)
	if second.Init != nil {
		t.Fatalf("expected no initializer, got %#v", second.Init)
	}
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"(1 + 2) * 3", "(* (group (+ 1 2)) 3)"},
		{"-a * b", "(* (- a) b)"},
		{"!!x", "(! (! x))"},
		{"a == b < c", "(== a (< b c))"},
		{"a != b == c", "(== (!= a b) c)"},
		{"a or b and c", "(or a (and b c))"},
		{"a and b or c", "(or (and a b) c)"},
		{"a = b = c", "(= a (= b c))"},
		{"x = 1 + 2", "(= x (+ 1 2))"},
		{"a >= b <= c", "(<= (>= a b) c)"},
		{"8 / 4 / 2", "(/ (/ 8 4) 2)"},
	}
	for _, tt := range tests {
		got := sexpr(mustParseExpr(t, tt.src))
		if got != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.src, tt.want, got)
		}
	}
}

// sexpr renders an expression with explicit structure so tests can check
// associativity and precedence independently of Print.
func sexpr(expr Expr) string {
	switch e := expr.(type) {
	case *Literal:
		return e.Value.Lexeme
	case *Identifier:
		return e.Name.Lexeme
	case *Grouping:
		return "(group " + sexpr(e.Expr) + ")"
	case *Unary:
		return "(" + e.Op.Lexeme + " " + sexpr(e.Operand) + ")"
	case *Binary:
		return "(" + e.Op.Lexeme + " " + sexpr(e.Left) + " " + sexpr(e.Right) + ")"
	case *Logical:
		return "(" + e.Op.Lexeme + " " + sexpr(e.Left) + " " + sexpr(e.Right) + ")"
	case *Assign:
		return "(= " + e.Target.Lexeme + " " + sexpr(e.Value) + ")"
	}
	return "?"
}

func TestParseIfElseBindsToNearestIf(t *testing.T) {
	decls := mustParse(t, "if (a) if (b) print 1; else print 2;")
	if len(decls) != 1 {
		t.Fatalf("expected a single declaration, got %d", len(decls))
	}
	outer := decls[0].(*StmtDecl).Stmt.(*IfStmt)
	if outer.Else != nil {
		t.Fatalf("outer if should have no else branch")
	}
	inner, ok := outer.Then.(*IfStmt)
	if !ok {
		t.Fatalf("expected nested if, got %T", outer.Then)
	}
	if inner.Else == nil {
		t.Fatalf("inner if should own the else branch")
	}
}

func TestParseBlock(t *testing.T) {
	decls := mustParse(t, "{ var a = 1; { print a; } }")
	block := decls[0].(*StmtDecl).Stmt.(*BlockStmt)
	if len(block.Decls) != 2 {
		t.Fatalf("expected 2 declarations in block, got %d", len(block.Decls))
	}
	inner := block.Decls[1].(*StmtDecl).Stmt.(*BlockStmt)
	if _, ok := inner.Decls[0].(*StmtDecl).Stmt.(*PrintStmt); !ok {
		t.Fatalf("expected print inside nested block, got %T", inner.Decls[0])
	}
}

func TestParseOptionalSemicolons(t *testing.T) {
	decls := mustParse(t, "var a = 1\nprint a\na = 2\n")
	if len(decls) != 3 {
		t.Fatalf("expected 3 declarations without terminators, got %d", len(decls))
	}
}

func TestParseEmptyInput(t *testing.T) {
	if results := parseSource(t, "  // nothing\n"); len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
	if results := Parse(nil); len(results) != 0 {
		t.Fatalf("expected no results for nil tokens, got %d", len(results))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src     string
		kind    error
		message string
	}{
		{"var 5;", ErrUnexpectedToken, `[line 1] parse error: unexpected token "5", expected variable name`},
		{"print ;", ErrUnexpectedToken, `[line 1] parse error: unexpected token ";", expected expression`},
		{"if a) print 1;", ErrWrongTokenType, `[line 1] parse error: expected "(" but found "a"`},
		{"(1 + 2;", ErrWrongTokenType, `[line 1] parse error: expected ")" but found ";"`},
		{"1 +", ErrUnexpectedEOF, "[line 1] parse error: unexpected end of input, expected expression"},
		{"{ print 1;\n", ErrUnexpectedEOF, "[line 2] parse error: unexpected end of input, expected }"},
		{"1 + 2 = 3;", ErrInvalidAssignmentTarget, `[line 1] parse error: invalid assignment target "1 + 2"`},
		{"\n\n(a) = 1;", ErrInvalidAssignmentTarget, `[line 3] parse error: invalid assignment target "(a)"`},
	}
	for _, tt := range tests {
		results := parseSource(t, tt.src)
		if len(results) == 0 || results[0].Err == nil {
			t.Fatalf("%q: expected an error, got %+v", tt.src, results)
		}
		err := results[0].Err
		if !errors.Is(err, tt.kind) {
			t.Errorf("%q: expected %v, got %v", tt.src, tt.kind, err)
		}
		if err.Error() != tt.message {
			t.Errorf("%q: unexpected message\n got %s\nwant %s", tt.src, err.Error(), tt.message)
		}
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("%q: expected *ParseError, got %T", tt.src, err)
		}
	}
}

func TestParseRecoversAfterErrors(t *testing.T) {
	src := "print 1;\nvar = 2;\nprint 3;\n1 +* 2;\nprint 4;"
	results := parseSource(t, src)
	var ok, failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		ok++
	}
	if failed != 2 {
		t.Fatalf("expected 2 errors, got %d: %+v", failed, results)
	}
	if ok != 3 {
		t.Fatalf("expected 3 good declarations, got %d", ok)
	}
	if results[len(results)-1].Err != nil {
		t.Fatalf("last declaration should parse after recovery")
	}
}

func TestParseRecoveryKeepsFollowingStatement(t *testing.T) {
	results := parseSource(t, "(1 + 2 print 3;")
	if len(results) != 2 {
		t.Fatalf("expected error then print, got %+v", results)
	}
	if results[0].Err == nil || results[1].Err != nil {
		t.Fatalf("unexpected results: %+v", results)
	}
	if _, ok := results[1].Decl.(*StmtDecl).Stmt.(*PrintStmt); !ok {
		t.Fatalf("expected the print statement to survive recovery")
	}
}

func TestParseDepthLimit(t *testing.T) {
	deep := strings.Repeat("(", 50) + "1" + strings.Repeat(")", 50)
	results := parseSource(t, deep, WithMaxDepth(20))
	if len(results) == 0 || !errors.Is(results[0].Err, ErrTooDeep) {
		t.Fatalf("expected ErrTooDeep, got %+v", results)
	}

	results = parseSource(t, deep)
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("default depth should accept moderate nesting: %+v", results)
	}

	blocks := strings.Repeat("{", 40) + strings.Repeat("}", 40)
	results = parseSource(t, blocks, WithMaxDepth(10))
	if len(results) == 0 || !errors.Is(results[0].Err, ErrTooDeep) {
		t.Fatalf("expected ErrTooDeep for nested blocks, got %+v", results)
	}
}

func TestParseNeverPanics(t *testing.T) {
	inputs := []string{
		"", ";", ")", "}", "{", "else", "var", "var x =", "if", "if (", "if (x", "if (x)",
		"= = =", "print", "!", "-", "((((", "))))", "a = ", "{ var }", "class fun for while return",
		"1 2 3", "\"s\" = 1", "{ { { } }", "if (1) else", "a and", "or b",
	}
	for _, src := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Parse panicked on %q: %v", src, r)
				}
			}()
			results := parseSource(t, src)
			for _, res := range results {
				if (res.Decl == nil) == (res.Err == nil) {
					t.Fatalf("%q: result must hold exactly one of Decl and Err: %+v", src, res)
				}
			}
		}()
	}
}

func TestParseAcceptsUnfilteredTokens(t *testing.T) {
	tokens, errs := Split(Tokenize("print 1; // trailing\n"))
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	results := Parse(tokens)
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("expected trivia to be ignored: %+v", results)
	}
	results = Parse(Filter(tokens)[:2])
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("expected missing EOF to be supplied: %+v", results)
	}
}

func TestParseStringReportsLexErrors(t *testing.T) {
	_, err := ParseString("print 1; @ $")
	if err == nil {
		t.Fatalf("expected lex errors")
	}
	if !errors.Is(err, ErrUnexpectedCharacter) {
		t.Fatalf("expected joined error to wrap ErrUnexpectedCharacter, got %v", err)
	}
	if got := strings.Count(err.Error(), "lex error"); got != 2 {
		t.Fatalf("expected both lex errors reported, got %q", err.Error())
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("boom")
}

func TestParseReader(t *testing.T) {
	if _, err := ParseReader(failingReader{}); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected underlying IO error, got %v", err)
	}
	results, err := ParseReader(strings.NewReader("var v = 5; v;"))
	if err != nil {
		t.Fatalf("ParseReader returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected two declarations from reader, got %d", len(results))
	}
}
