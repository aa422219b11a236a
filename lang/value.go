package lang

import (
	"fmt"
	"math"
	"strconv"
)

// ValueType enumerates the runtime value categories.
type ValueType int

const (
	TypeNil ValueType = iota
	TypeNumber
	TypeBool
	TypeString
)

func (t ValueType) String() string {
	switch t {
	case TypeNil:
		return "nil"
	case TypeNumber:
		return "number"
	case TypeBool:
		return "bool"
	case TypeString:
		return "string"
	default:
		return "unknown"
	}
}

// Value represents any runtime object in the interpreter. The zero Value
// is Nil.
type Value struct {
	typ     ValueType
	payload any
}

// Nil is the only value of type nil.
var Nil = Value{}

// NumberValue constructs a number Value.
func NumberValue(f float64) Value {
	return Value{typ: TypeNumber, payload: f}
}

// BoolValue returns the boolean Value equivalent.
func BoolValue(b bool) Value {
	return Value{typ: TypeBool, payload: b}
}

// StringValue constructs a string Value.
func StringValue(s string) Value {
	return Value{typ: TypeString, payload: s}
}

// Type reports the value category.
func (v Value) Type() ValueType {
	return v.typ
}

// Number returns the numeric payload. It panics if v is not a number.
func (v Value) Number() float64 {
	if v.typ != TypeNumber {
		panic(fmt.Sprintf("lang: Number called on %s value", v.typ))
	}
	return v.payload.(float64)
}

// Bool returns the boolean payload. It panics if v is not a bool.
func (v Value) Bool() bool {
	if v.typ != TypeBool {
		panic(fmt.Sprintf("lang: Bool called on %s value", v.typ))
	}
	return v.payload.(bool)
}

// Str returns the string payload. It panics if v is not a string.
func (v Value) Str() string {
	if v.typ != TypeString {
		panic(fmt.Sprintf("lang: Str called on %s value", v.typ))
	}
	return v.payload.(string)
}

// Equal reports whether v and other have the same type and payload.
// Numbers compare by IEEE equality, so NaN is not equal to itself.
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeNil:
		return true
	case TypeNumber:
		return v.Number() == other.Number()
	case TypeBool:
		return v.Bool() == other.Bool()
	case TypeString:
		return v.Str() == other.Str()
	}
	return false
}

// String renders v the way print displays it: numbers in their shortest
// decimal form without a trailing ".0", strings without quotes.
func (v Value) String() string {
	switch v.typ {
	case TypeNil:
		return "nil"
	case TypeNumber:
		return formatNumber(v.Number())
	case TypeBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case TypeString:
		return v.Str()
	default:
		return "<unknown>"
	}
}

// GoString renders v as a literal, quoting strings.
func (v Value) GoString() string {
	if v.typ == TypeString {
		return strconv.Quote(v.Str())
	}
	return v.String()
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FromLiteral converts a token literal produced by the lexer into a Value.
func FromLiteral(lit any) (Value, error) {
	switch x := lit.(type) {
	case nil:
		return Nil, nil
	case bool:
		return BoolValue(x), nil
	case string:
		return StringValue(x), nil
	case int64:
		return NumberValue(float64(x)), nil
	case float64:
		return NumberValue(x), nil
	default:
		return Nil, fmt.Errorf("unsupported literal %T", lit)
	}
}
