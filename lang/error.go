package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Sentinel errors matched by [errors.Is] against *RuntimeError.
var (
	ErrWrongType         = errors.New("wrong type")
	ErrIncompatibleTypes = errors.New("incompatible types")
	ErrInoperableTypes   = errors.New("inoperable types")
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrDivideByZero      = errors.New("division by zero")
	ErrTooDeep           = errors.New("nesting too deep")
)

// ErrorKind classifies runtime errors.
type ErrorKind int

const (
	WrongType ErrorKind = iota
	IncompatibleTypes
	InoperableTypes
	UndefinedVariable
	DivideByZero
	TooDeep
)

func (k ErrorKind) String() string {
	switch k {
	case WrongType:
		return "wrong type"
	case IncompatibleTypes:
		return "incompatible types"
	case InoperableTypes:
		return "inoperable types"
	case UndefinedVariable:
		return "undefined variable"
	case DivideByZero:
		return "division by zero"
	case TooDeep:
		return "nesting too deep"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case WrongType:
		return ErrWrongType
	case IncompatibleTypes:
		return ErrIncompatibleTypes
	case InoperableTypes:
		return ErrInoperableTypes
	case UndefinedVariable:
		return ErrUndefinedVariable
	case DivideByZero:
		return ErrDivideByZero
	case TooDeep:
		return ErrTooDeep
	}
	return nil
}

// RuntimeError aborts evaluation of the declaration that raised it. Which
// fields are meaningful depends on Kind.
type RuntimeError struct {
	Kind ErrorKind
	Line int
	Expr string // offending expression rendered by parser.Print

	// WrongType: the type required and the type found.
	Expected ValueType
	Found    ValueType

	// IncompatibleTypes and InoperableTypes: the operand types. For
	// IncompatibleTypes the operand whose type the operator accepts comes
	// first.
	Left, Right ValueType

	// InoperableTypes: the operator and the types it accepts.
	Op        string
	Supported []ValueType

	Name  string // UndefinedVariable
	Limit int    // TooDeep
}

func (e *RuntimeError) Error() string {
	var msg string
	switch e.Kind {
	case WrongType:
		msg = fmt.Sprintf("expected %s, found %s in %q", e.Expected, e.Found, e.Expr)
	case IncompatibleTypes:
		msg = fmt.Sprintf("incompatible types %s and %s in %q", e.Left, e.Right, e.Expr)
	case InoperableTypes:
		msg = fmt.Sprintf("operator %q supports %s, found %s and %s in %q",
			e.Op, joinTypes(e.Supported), e.Left, e.Right, e.Expr)
	case UndefinedVariable:
		msg = fmt.Sprintf("undefined variable %q", e.Name)
	case DivideByZero:
		msg = fmt.Sprintf("division by zero in %q", e.Expr)
	case TooDeep:
		msg = fmt.Sprintf("nesting exceeds maximum depth of %d", e.Limit)
	default:
		msg = e.Kind.String()
	}
	return fmt.Sprintf("[line %d] runtime error: %s", e.Line, msg)
}

// Is maps the error kind onto the package sentinels.
func (e *RuntimeError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// LogValue implements slog.LogValuer.
func (e *RuntimeError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", e.Kind.String()),
		slog.Int("line", e.Line),
	}
	if e.Expr != "" {
		attrs = append(attrs, slog.String("expr", e.Expr))
	}
	switch e.Kind {
	case WrongType:
		attrs = append(attrs,
			slog.String("expected", e.Expected.String()),
			slog.String("found", e.Found.String()))
	case IncompatibleTypes, InoperableTypes:
		attrs = append(attrs,
			slog.String("left", e.Left.String()),
			slog.String("right", e.Right.String()))
	case UndefinedVariable:
		attrs = append(attrs, slog.String("name", e.Name))
	}
	return slog.GroupValue(attrs...)
}

func joinTypes(types []ValueType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, " and ")
}
