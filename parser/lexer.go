package parser

import (
	"strconv"
	"unicode/utf8"
)

type lexer struct {
	src  string
	pos  int
	line int
}

func newLexer(src string) *lexer {
	return &lexer{
		src:  src,
		line: 1,
	}
}

// Tokenize scans src in a single pass. Errors are recorded in place and
// scanning continues, so one call can surface several lexical errors. The
// result always ends with exactly one successful EOF token. Whitespace and
// comments are returned as tokens; use [Split] and [Filter] before parsing.
func Tokenize(src string) []LexResult {
	lx := newLexer(src)
	var results []LexResult
	for {
		res := lx.nextToken()
		results = append(results, res)
		if res.Err == nil && res.Token.Kind == TokenEOF {
			return results
		}
	}
}

type runeState struct {
	pos  int
	line int
}

func (lx *lexer) mark() runeState {
	return runeState{pos: lx.pos, line: lx.line}
}

func (lx *lexer) restore(state runeState) {
	lx.pos = state.pos
	lx.line = state.line
}

func (lx *lexer) readRune() (rune, bool) {
	if lx.pos >= len(lx.src) {
		return 0, false
	}
	r, w := utf8.DecodeRuneInString(lx.src[lx.pos:])
	lx.pos += w
	if r == '\n' {
		lx.line++
	}
	return r, true
}

func (lx *lexer) peek() (rune, bool) {
	state := lx.mark()
	r, ok := lx.readRune()
	lx.restore(state)
	return r, ok
}

func (lx *lexer) match(expected rune) bool {
	state := lx.mark()
	r, ok := lx.readRune()
	if !ok || r != expected {
		lx.restore(state)
		return false
	}
	return true
}

// consumeWhile reads runes while pred holds and leaves the first
// non-matching rune unread.
func (lx *lexer) consumeWhile(pred func(rune) bool) {
	for {
		state := lx.mark()
		r, ok := lx.readRune()
		if !ok {
			return
		}
		if !pred(r) {
			lx.restore(state)
			return
		}
	}
}

func (lx *lexer) nextToken() LexResult {
	start := lx.mark()
	r, ok := lx.readRune()
	if !ok {
		return LexResult{Token: Token{Kind: TokenEOF, Line: lx.line}}
	}

	switch {
	case isSpace(r):
		lx.consumeWhile(isSpace)
		return lx.emit(TokenWhitespace, start, nil)
	case isIdentifierStart(r):
		lx.consumeWhile(isIdentifierPart)
		return lx.identifier(start)
	case isDigit(r):
		return lx.scanNumber(start)
	case r == '"':
		return lx.scanString(start)
	}

	switch r {
	case '(':
		return lx.emit(TokenLeftParen, start, nil)
	case ')':
		return lx.emit(TokenRightParen, start, nil)
	case '{':
		return lx.emit(TokenLeftBrace, start, nil)
	case '}':
		return lx.emit(TokenRightBrace, start, nil)
	case ',':
		return lx.emit(TokenComma, start, nil)
	case '.':
		return lx.emit(TokenDot, start, nil)
	case '-':
		return lx.emit(TokenMinus, start, nil)
	case '+':
		return lx.emit(TokenPlus, start, nil)
	case ';':
		return lx.emit(TokenSemicolon, start, nil)
	case '*':
		return lx.emit(TokenStar, start, nil)
	case '!':
		if lx.match('=') {
			return lx.emit(TokenBangEqual, start, nil)
		}
		return lx.emit(TokenBang, start, nil)
	case '=':
		if lx.match('=') {
			return lx.emit(TokenEqualEqual, start, nil)
		}
		return lx.emit(TokenEqual, start, nil)
	case '<':
		if lx.match('=') {
			return lx.emit(TokenLessEqual, start, nil)
		}
		return lx.emit(TokenLess, start, nil)
	case '>':
		if lx.match('=') {
			return lx.emit(TokenGreaterEqual, start, nil)
		}
		return lx.emit(TokenGreater, start, nil)
	case '/':
		if lx.match('/') {
			lx.consumeWhile(func(r rune) bool { return r != '\n' })
			return lx.emit(TokenComment, start, nil)
		}
		return lx.emit(TokenSlash, start, nil)
	}

	return lx.fail(UnexpectedCharacter, start.line, lx.src[start.pos:lx.pos])
}

func (lx *lexer) emit(kind TokenKind, start runeState, literal any) LexResult {
	return LexResult{Token: Token{
		Kind:    kind,
		Lexeme:  lx.src[start.pos:lx.pos],
		Literal: literal,
		Line:    start.line,
	}}
}

func (lx *lexer) fail(kind LexErrorKind, line int, text string) LexResult {
	return LexResult{Err: &LexError{
		Kind: kind,
		Line: line,
		Text: text,
	}}
}

func (lx *lexer) identifier(start runeState) LexResult {
	lexeme := lx.src[start.pos:lx.pos]
	kind, ok := keywords[lexeme]
	if !ok {
		return lx.emit(TokenIdentifier, start, nil)
	}
	switch kind {
	case TokenTrue:
		return lx.emit(kind, start, true)
	case TokenFalse:
		return lx.emit(kind, start, false)
	}
	return lx.emit(kind, start, nil)
}

// scanNumber reads digits with at most one decimal point. A malformed
// literal is consumed in full so it yields a single error.
func (lx *lexer) scanNumber(start runeState) LexResult {
	seenDot := false
	malformed := false
	for {
		state := lx.mark()
		r, ok := lx.readRune()
		if !ok {
			break
		}
		if isDigit(r) {
			continue
		}
		if r == '.' {
			if seenDot {
				malformed = true
			}
			seenDot = true
			continue
		}
		lx.restore(state)
		break
	}

	lexeme := lx.src[start.pos:lx.pos]
	if malformed {
		return lx.fail(UnparsableNumber, start.line, lexeme)
	}
	if seenDot {
		f, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return lx.fail(UnparsableNumber, start.line, lexeme)
		}
		return lx.emit(TokenNumber, start, f)
	}
	i, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return lx.fail(UnparsableNumber, start.line, lexeme)
	}
	return lx.emit(TokenNumber, start, i)
}

// scanString reads up to the closing quote. Newlines are kept in the
// literal; an unterminated string is reported at the line it opened on.
func (lx *lexer) scanString(start runeState) LexResult {
	for {
		r, ok := lx.readRune()
		if !ok {
			return lx.fail(UnterminatedString, start.line, lx.src[start.pos:lx.pos])
		}
		if r == '"' {
			break
		}
	}
	value := lx.src[start.pos+1 : lx.pos-1]
	return lx.emit(TokenString, start, value)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentifierStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isIdentifierPart(r rune) bool {
	return isIdentifierStart(r) || isDigit(r)
}
