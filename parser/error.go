package parser

import (
	"errors"
	"fmt"
	"log/slog"
)

// Sentinel errors matched by [errors.Is] against *LexError and *ParseError.
var (
	ErrUnexpectedCharacter     = errors.New("unexpected character")
	ErrUnterminatedString      = errors.New("unterminated string")
	ErrUnparsableNumber        = errors.New("unparsable number")
	ErrUnexpectedToken         = errors.New("unexpected token")
	ErrWrongTokenType          = errors.New("wrong token type")
	ErrUnexpectedEOF           = errors.New("unexpected end of input")
	ErrInvalidAssignmentTarget = errors.New("invalid assignment target")
	ErrTooDeep                 = errors.New("nesting too deep")
)

// LexErrorKind classifies lexical errors.
type LexErrorKind int

const (
	UnexpectedCharacter LexErrorKind = iota
	UnterminatedString
	UnparsableNumber
)

func (k LexErrorKind) String() string {
	switch k {
	case UnexpectedCharacter:
		return "unexpected character"
	case UnterminatedString:
		return "unterminated string"
	case UnparsableNumber:
		return "unparsable number"
	default:
		return "unknown"
	}
}

// LexError is recorded for a bad character or literal. Scanning continues
// after it.
type LexError struct {
	Kind LexErrorKind
	Line int
	Text string // offending character or literal
}

func (e *LexError) Error() string {
	var msg string
	switch e.Kind {
	case UnexpectedCharacter:
		msg = fmt.Sprintf("unexpected character %q", e.Text)
	case UnterminatedString:
		msg = "unterminated string literal"
	case UnparsableNumber:
		msg = fmt.Sprintf("unparsable number %q", e.Text)
	default:
		msg = e.Kind.String()
	}
	return formatDiagnostic(e.Line, "lex error", msg)
}

// Is maps the error kind onto the package sentinels.
func (e *LexError) Is(target error) bool {
	switch e.Kind {
	case UnexpectedCharacter:
		return target == ErrUnexpectedCharacter
	case UnterminatedString:
		return target == ErrUnterminatedString
	case UnparsableNumber:
		return target == ErrUnparsableNumber
	}
	return false
}

// LogValue implements slog.LogValuer.
func (e *LexError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", e.Kind.String()),
		slog.Int("line", e.Line),
		slog.String("text", e.Text),
	)
}

// ParseErrorKind classifies syntax errors.
type ParseErrorKind int

const (
	UnexpectedToken ParseErrorKind = iota
	WrongTokenType
	UnexpectedEOF
	InvalidAssignmentTarget
	TooDeep
)

func (k ParseErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected token"
	case WrongTokenType:
		return "wrong token type"
	case UnexpectedEOF:
		return "unexpected end of input"
	case InvalidAssignmentTarget:
		return "invalid assignment target"
	case TooDeep:
		return "nesting too deep"
	default:
		return "unknown"
	}
}

// ParseError describes one malformed declaration. The parser reports at
// most one per declaration and resynchronizes afterwards.
type ParseError struct {
	Kind     ParseErrorKind
	Line     int
	Found    string // lexeme of the offending token
	Expected string // what the parser wanted, if known
	Expr     string // rendered left-hand side for invalid assignments
	Limit    int    // depth limit for TooDeep
}

func (e *ParseError) Error() string {
	var msg string
	switch e.Kind {
	case UnexpectedToken:
		msg = fmt.Sprintf("unexpected token %q", e.Found)
		if e.Expected != "" {
			msg += ", expected " + e.Expected
		}
	case WrongTokenType:
		msg = fmt.Sprintf("expected %q but found %q", e.Expected, e.Found)
	case UnexpectedEOF:
		msg = "unexpected end of input"
		if e.Expected != "" {
			msg += ", expected " + e.Expected
		}
	case InvalidAssignmentTarget:
		msg = fmt.Sprintf("invalid assignment target %q", e.Expr)
	case TooDeep:
		msg = fmt.Sprintf("nesting exceeds maximum depth of %d", e.Limit)
	default:
		msg = e.Kind.String()
	}
	return formatDiagnostic(e.Line, "parse error", msg)
}

// Is maps the error kind onto the package sentinels.
func (e *ParseError) Is(target error) bool {
	switch e.Kind {
	case UnexpectedToken:
		return target == ErrUnexpectedToken
	case WrongTokenType:
		return target == ErrWrongTokenType
	case UnexpectedEOF:
		return target == ErrUnexpectedEOF
	case InvalidAssignmentTarget:
		return target == ErrInvalidAssignmentTarget
	case TooDeep:
		return target == ErrTooDeep
	}
	return false
}

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", e.Kind.String()),
		slog.Int("line", e.Line),
	}
	if e.Found != "" {
		attrs = append(attrs, slog.String("found", e.Found))
	}
	if e.Expected != "" {
		attrs = append(attrs, slog.String("expected", e.Expected))
	}
	if e.Expr != "" {
		attrs = append(attrs, slog.String("expr", e.Expr))
	}
	return slog.GroupValue(attrs...)
}

// IsIncomplete reports whether err means the input stopped short: an open
// string literal or an expression or block cut off by end of input. A REPL
// uses it to keep reading lines instead of reporting the error.
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrUnterminatedString) || errors.Is(err, ErrUnexpectedEOF)
}

func formatDiagnostic(line int, category, msg string) string {
	return fmt.Sprintf("[line %d] %s: %s", line, category, msg)
}
