package lang

import (
	"fmt"

	"github.com/sergev/lox/parser"
)

var (
	numericTypes  = []ValueType{TypeNumber}
	additiveTypes = []ValueType{TypeNumber, TypeString}
)

// evalBinary evaluates both operands left to right before checking types.
func (ev *Evaluator) evalBinary(e *parser.Binary, env *Env) (Value, error) {
	left, err := ev.evalLeft(e.Left, env)
	if err != nil {
		return Nil, err
	}
	right, err := ev.evalExpr(e.Right, env)
	if err != nil {
		return Nil, err
	}
	lt, rt := left.Type(), right.Type()

	switch e.Op.Kind {
	case parser.TokenEqualEqual, parser.TokenBangEqual:
		if lt != TypeNil && rt != TypeNil && lt != rt {
			return Nil, incompatible(e, lt, rt)
		}
		eq := left.Equal(right)
		if e.Op.Kind == parser.TokenBangEqual {
			eq = !eq
		}
		return BoolValue(eq), nil

	case parser.TokenGreater, parser.TokenGreaterEqual, parser.TokenLess, parser.TokenLessEqual:
		if lt == TypeNil || rt == TypeNil || lt != rt {
			return Nil, incompatible(e, lt, rt)
		}
		switch lt {
		case TypeNumber:
			return BoolValue(compare(e.Op.Kind, left.Number(), right.Number())), nil
		case TypeString:
			return BoolValue(compare(e.Op.Kind, left.Str(), right.Str())), nil
		}
		return Nil, inoperable(e, additiveTypes, lt, rt)

	case parser.TokenMinus, parser.TokenStar, parser.TokenSlash:
		switch {
		case lt == TypeNumber && rt == TypeNumber:
		case rt == TypeNumber:
			return Nil, incompatible(e, rt, lt)
		case lt == TypeNumber:
			return Nil, incompatible(e, lt, rt)
		default:
			return Nil, inoperable(e, numericTypes, lt, rt)
		}
		l, r := left.Number(), right.Number()
		switch e.Op.Kind {
		case parser.TokenMinus:
			return NumberValue(l - r), nil
		case parser.TokenStar:
			return NumberValue(l * r), nil
		}
		if r == 0 {
			return Nil, &RuntimeError{
				Kind: DivideByZero,
				Line: e.Op.Line,
				Expr: parser.Print(e),
			}
		}
		return NumberValue(l / r), nil

	case parser.TokenPlus:
		switch {
		case lt == TypeNumber && rt == TypeNumber:
			return NumberValue(left.Number() + right.Number()), nil
		case lt == TypeString && rt == TypeString:
			return StringValue(left.Str() + right.Str()), nil
		case lt == TypeNumber:
			return Nil, incompatible(e, lt, rt)
		case rt == TypeNumber:
			return Nil, incompatible(e, rt, lt)
		case lt == TypeString:
			return Nil, incompatible(e, lt, rt)
		case rt == TypeString:
			return Nil, incompatible(e, rt, lt)
		}
		return Nil, inoperable(e, additiveTypes, lt, rt)
	}

	return Nil, fmt.Errorf("unsupported binary operator %s", e.Op.Kind)
}

func incompatible(e *parser.Binary, first, second ValueType) error {
	return &RuntimeError{
		Kind:  IncompatibleTypes,
		Line:  e.Op.Line,
		Expr:  parser.Print(e),
		Left:  first,
		Right: second,
	}
}

func inoperable(e *parser.Binary, supported []ValueType, lt, rt ValueType) error {
	return &RuntimeError{
		Kind:      InoperableTypes,
		Line:      e.Op.Line,
		Expr:      parser.Print(e),
		Left:      lt,
		Right:     rt,
		Op:        e.Op.Lexeme,
		Supported: supported,
	}
}

// compare applies an ordering operator. Comparisons involving NaN are
// false.
func compare[T float64 | string](op parser.TokenKind, l, r T) bool {
	switch op {
	case parser.TokenGreater:
		return l > r
	case parser.TokenGreaterEqual:
		return l >= r
	case parser.TokenLess:
		return l < r
	case parser.TokenLessEqual:
		return l <= r
	}
	return false
}
