package parser

// TokenKind enumerates lexical categories recognised by the Lox lexer.
type TokenKind int

const (
	TokenEOF TokenKind = iota

	// Single-character tokens.
	TokenLeftParen  // (
	TokenRightParen // )
	TokenLeftBrace  // {
	TokenRightBrace // }
	TokenComma      // ,
	TokenDot        // .
	TokenMinus      // -
	TokenPlus       // +
	TokenSemicolon  // ;
	TokenSlash      // /
	TokenStar       // *

	// One or two character tokens.
	TokenBang         // !
	TokenBangEqual    // !=
	TokenEqual        // =
	TokenEqualEqual   // ==
	TokenGreater      // >
	TokenGreaterEqual // >=
	TokenLess         // <
	TokenLessEqual    // <=

	// Literals.
	TokenIdentifier
	TokenString
	TokenNumber

	// Keywords
	TokenAnd
	TokenClass
	TokenElse
	TokenFalse
	TokenFor
	TokenFun
	TokenIf
	TokenNil
	TokenOr
	TokenPrint
	TokenReturn
	TokenSuper
	TokenThis
	TokenTrue
	TokenVar
	TokenWhile

	// Trivia, filtered out before parsing.
	TokenWhitespace
	TokenComment
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenLeftParen:
		return "("
	case TokenRightParen:
		return ")"
	case TokenLeftBrace:
		return "{"
	case TokenRightBrace:
		return "}"
	case TokenComma:
		return ","
	case TokenDot:
		return "."
	case TokenMinus:
		return "-"
	case TokenPlus:
		return "+"
	case TokenSemicolon:
		return ";"
	case TokenSlash:
		return "/"
	case TokenStar:
		return "*"
	case TokenBang:
		return "!"
	case TokenBangEqual:
		return "!="
	case TokenEqual:
		return "="
	case TokenEqualEqual:
		return "=="
	case TokenGreater:
		return ">"
	case TokenGreaterEqual:
		return ">="
	case TokenLess:
		return "<"
	case TokenLessEqual:
		return "<="
	case TokenIdentifier:
		return "identifier"
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenAnd:
		return "and"
	case TokenClass:
		return "class"
	case TokenElse:
		return "else"
	case TokenFalse:
		return "false"
	case TokenFor:
		return "for"
	case TokenFun:
		return "fun"
	case TokenIf:
		return "if"
	case TokenNil:
		return "nil"
	case TokenOr:
		return "or"
	case TokenPrint:
		return "print"
	case TokenReturn:
		return "return"
	case TokenSuper:
		return "super"
	case TokenThis:
		return "this"
	case TokenTrue:
		return "true"
	case TokenVar:
		return "var"
	case TokenWhile:
		return "while"
	case TokenWhitespace:
		return "whitespace"
	case TokenComment:
		return "comment"
	default:
		return "unknown"
	}
}

// IsTrivia reports whether tokens of this kind carry no syntax.
func (k TokenKind) IsTrivia() bool {
	return k == TokenWhitespace || k == TokenComment
}

var keywords = map[string]TokenKind{
	"and":    TokenAnd,
	"class":  TokenClass,
	"else":   TokenElse,
	"false":  TokenFalse,
	"for":    TokenFor,
	"fun":    TokenFun,
	"if":     TokenIf,
	"nil":    TokenNil,
	"or":     TokenOr,
	"print":  TokenPrint,
	"return": TokenReturn,
	"super":  TokenSuper,
	"this":   TokenThis,
	"true":   TokenTrue,
	"var":    TokenVar,
	"while":  TokenWhile,
}

// Token is a single lexical unit produced by the lexer.
type Token struct {
	Kind    TokenKind
	Lexeme  string // raw source text
	Literal any    // nil, string, int64, float64 or bool
	Line    int    // one-based line the token starts on
}

// Is reports whether the token has the given kind. Parsing only ever
// compares kinds, never lexemes.
func (t Token) Is(kind TokenKind) bool {
	return t.Kind == kind
}

// LexResult is the outcome of scanning a single token: either a token or
// the error recorded at that position.
type LexResult struct {
	Token Token
	Err   *LexError
}

// Filter drops whitespace and comment tokens, leaving the stream the
// parser expects.
func Filter(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind.IsTrivia() {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Split separates successfully scanned tokens from lexical errors,
// preserving the order of each.
func Split(results []LexResult) ([]Token, []error) {
	tokens := make([]Token, 0, len(results))
	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, res.Err)
			continue
		}
		tokens = append(tokens, res.Token)
	}
	return tokens, errs
}
