package parser

// DefaultMaxDepth bounds parser recursion unless overridden by WithMaxDepth.
const DefaultMaxDepth = 256

// Result is the outcome of parsing one top-level declaration. Exactly one
// of Decl and Err is set; Err always holds a *ParseError.
type Result struct {
	Decl Decl
	Err  error
}

// Option configures the parser.
type Option func(*parser)

// WithMaxDepth limits how deeply statements and expressions may nest.
// Non-positive values select DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(p *parser) {
		if n <= 0 {
			n = DefaultMaxDepth
		}
		p.maxDepth = n
	}
}

// Parse builds one Result per top-level declaration. After an error the
// parser skips to the next statement boundary and keeps going, so a
// source with several broken statements reports one error for each.
// Whitespace and comment tokens are ignored and a missing EOF token is
// supplied, so any token sequence is accepted without panicking.
func Parse(tokens []Token, opts ...Option) []Result {
	p := newParser(tokens, opts...)
	var results []Result
	for !p.atEnd() {
		start := p.cursor
		decl, err := p.parseDeclaration()
		if err != nil {
			results = append(results, Result{Err: err})
			p.synchronize(start)
			continue
		}
		results = append(results, Result{Decl: decl})
	}
	return results
}

type parser struct {
	tokens   []Token
	cursor   int
	depth    int
	maxDepth int
}

func newParser(tokens []Token, opts ...Option) *parser {
	stream := make([]Token, 0, len(tokens)+1)
	for _, tok := range tokens {
		if tok.Kind.IsTrivia() {
			continue
		}
		stream = append(stream, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
	if len(stream) == 0 || stream[len(stream)-1].Kind != TokenEOF {
		line := 1
		if len(stream) > 0 {
			line = stream[len(stream)-1].Line
		}
		stream = append(stream, Token{Kind: TokenEOF, Line: line})
	}
	p := &parser{
		tokens:   stream,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *parser) peek() Token {
	return p.tokens[p.cursor]
}

func (p *parser) previous() Token {
	if p.cursor == 0 {
		return Token{}
	}
	return p.tokens[p.cursor-1]
}

func (p *parser) atEnd() bool {
	return p.peek().Kind == TokenEOF
}

func (p *parser) advance() Token {
	tok := p.peek()
	if !p.atEnd() {
		p.cursor++
	}
	return tok
}

func (p *parser) check(kind TokenKind) bool {
	return p.peek().Is(kind)
}

func (p *parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return &ParseError{
			Kind:  TooDeep,
			Line:  p.peek().Line,
			Found: p.peek().Lexeme,
			Limit: p.maxDepth,
		}
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// synchronize discards tokens until a likely statement boundary: end of
// input, just past a semicolon, or a keyword that starts a statement. At
// least one token is discarded unless the failed declaration already
// consumed some, so recovery always makes progress.
func (p *parser) synchronize(start int) {
	p.depth = 0
	if p.cursor == start || !startsStatement(p.peek().Kind) {
		p.advance()
	}
	for !p.atEnd() {
		if p.previous().Is(TokenSemicolon) {
			return
		}
		if startsStatement(p.peek().Kind) {
			return
		}
		p.advance()
	}
}

func startsStatement(kind TokenKind) bool {
	switch kind {
	case TokenClass, TokenFun, TokenVar, TokenFor, TokenIf, TokenWhile, TokenPrint, TokenReturn:
		return true
	}
	return false
}

// expect consumes a token of the given kind or reports what was found.
func (p *parser) expect(kind TokenKind, expected string) (Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	tok := p.peek()
	if tok.Kind == TokenEOF {
		return Token{}, eofError(tok, expected)
	}
	return Token{}, &ParseError{
		Kind:     WrongTokenType,
		Line:     tok.Line,
		Found:    tok.Lexeme,
		Expected: expected,
	}
}

func eofError(tok Token, expected string) error {
	return &ParseError{
		Kind:     UnexpectedEOF,
		Line:     tok.Line,
		Expected: expected,
	}
}

func (p *parser) parseDeclaration() (Decl, error) {
	if p.check(TokenVar) {
		return p.parseVarDecl()
	}
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	p.match(TokenSemicolon)
	return &StmtDecl{Stmt: stmt}, nil
}

func (p *parser) parseVarDecl() (Decl, error) {
	p.advance()
	tok := p.peek()
	if tok.Kind == TokenEOF {
		return nil, eofError(tok, "variable name")
	}
	if tok.Kind != TokenIdentifier {
		return nil, &ParseError{
			Kind:     UnexpectedToken,
			Line:     tok.Line,
			Found:    tok.Lexeme,
			Expected: "variable name",
		}
	}
	name := p.advance()
	var init Expr
	if p.match(TokenEqual) {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		init = value
	}
	p.match(TokenSemicolon)
	return &VarDecl{
		Name: name,
		Init: init,
	}, nil
}

func (p *parser) parseStatement() (Stmt, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	switch p.peek().Kind {
	case TokenPrint:
		keyword := p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		p.match(TokenSemicolon)
		return &PrintStmt{
			Keyword: keyword,
			Expr:    expr,
		}, nil
	case TokenLeftBrace:
		return p.parseBlock()
	case TokenIf:
		return p.parseIfStmt()
	default:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		p.match(TokenSemicolon)
		return &ExpressionStmt{Expr: expr}, nil
	}
}

func (p *parser) parseBlock() (Stmt, error) {
	brace := p.advance()
	var decls []Decl
	for !p.check(TokenRightBrace) {
		if p.atEnd() {
			return nil, eofError(p.peek(), "}")
		}
		decl, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	p.advance()
	return &BlockStmt{
		Brace: brace,
		Decls: decls,
	}, nil
}

// parseIfStmt leaves a trailing else to the innermost open if: the nested
// statement parse claims it before control returns here.
func (p *parser) parseIfStmt() (Stmt, error) {
	keyword := p.advance()
	if _, err := p.expect(TokenLeftParen, "("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRightParen, ")"); err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var alt Stmt
	if p.match(TokenElse) {
		alt, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return &IfStmt{
		Keyword: keyword,
		Cond:    cond,
		Then:    then,
		Else:    alt,
	}, nil
}

func (p *parser) parseExpression() (Expr, error) {
	return p.parseAssignment()
}

func (p *parser) parseAssignment() (Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.check(TokenEqual) {
		return expr, nil
	}
	equals := p.advance()
	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if id, ok := expr.(*Identifier); ok {
		return &Assign{
			Target: id.Name,
			Value:  value,
		}, nil
	}
	return nil, &ParseError{
		Kind:  InvalidAssignmentTarget,
		Line:  equals.Line,
		Found: equals.Lexeme,
		Expr:  Print(expr),
	}
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.check(TokenOr) {
		op := p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Logical{
			Left:  left,
			Op:    op,
			Right: right,
		}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.check(TokenAnd) {
		op := p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &Logical{
			Left:  left,
			Op:    op,
			Right: right,
		}
	}
	return left, nil
}

// parseBinary parses a left-associative chain of operators from ops whose
// operands come from next.
func (p *parser) parseBinary(next func() (Expr, error), ops ...TokenKind) (Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		matched := false
		for _, kind := range ops {
			if p.check(kind) {
				matched = true
				break
			}
		}
		if !matched {
			return left, nil
		}
		op := p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &Binary{
			Left:  left,
			Op:    op,
			Right: right,
		}
	}
}

func (p *parser) parseEquality() (Expr, error) {
	return p.parseBinary(p.parseComparison, TokenBangEqual, TokenEqualEqual)
}

func (p *parser) parseComparison() (Expr, error) {
	return p.parseBinary(p.parseTerm,
		TokenGreater, TokenGreaterEqual, TokenLess, TokenLessEqual)
}

func (p *parser) parseTerm() (Expr, error) {
	return p.parseBinary(p.parseFactor, TokenMinus, TokenPlus)
}

func (p *parser) parseFactor() (Expr, error) {
	return p.parseBinary(p.parseUnary, TokenSlash, TokenStar)
}

func (p *parser) parseUnary() (Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	if p.check(TokenBang) || p.check(TokenMinus) {
		op := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{
			Op:      op,
			Operand: operand,
		}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenEOF:
		return nil, eofError(tok, "expression")
	case TokenTrue, TokenFalse, TokenNil, TokenNumber, TokenString:
		p.advance()
		return &Literal{Value: tok}, nil
	case TokenIdentifier:
		p.advance()
		return &Identifier{Name: tok}, nil
	case TokenLeftParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRightParen, ")"); err != nil {
			return nil, err
		}
		return &Grouping{Expr: inner}, nil
	default:
		return nil, &ParseError{
			Kind:     UnexpectedToken,
			Line:     tok.Line,
			Found:    tok.Lexeme,
			Expected: "expression",
		}
	}
}
