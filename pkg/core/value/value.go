package value

import (
	"fmt"
	"math"
	"strings"
)

// Type represents the tag in the Value tagged union.
type Type uint8

const (
	TypeVoid Type = iota
	TypeInt
	TypeFloat
	TypeName
)

// Value is a tagged union. Numeric payloads live in Data as raw bits;
// TypeName carries the textual name of a symbol that is resolved at use time.
type Value struct {
	Type Type
	Data uint64
	Name string
}

// Int constructs an integer value.
func Int(i int64) Value {
	return Value{Type: TypeInt, Data: uint64(i)}
}

// Float constructs a float value.
func Float(f float64) Value {
	return Value{Type: TypeFloat, Data: math.Float64bits(f)}
}

// Name constructs an operand that names a symbol instead of carrying a value.
func Name(s string) Value {
	return Value{Type: TypeName, Name: s}
}

// Bool constructs the canonical 0/1 integer for a comparison result.
func Bool(b bool) Value {
	if b {
		return Int(1)
	}
	return Int(0)
}

// Int returns the value as int64. Floats are truncated.
func (v Value) Int() int64 {
	if v.Type == TypeFloat {
		return int64(math.Float64frombits(v.Data))
	}
	return int64(v.Data)
}

// Float returns the value as float64.
func (v Value) Float() float64 {
	if v.Type == TypeFloat {
		return math.Float64frombits(v.Data)
	}
	return float64(int64(v.Data))
}

// IsName reports whether the value is an unresolved symbol name.
func (v Value) IsName() bool {
	return v.Type == TypeName
}

// Truthy reports whether the value is non-zero.
func (v Value) Truthy() bool {
	if v.Type == TypeFloat {
		return math.Float64frombits(v.Data) != 0
	}
	return v.Data != 0
}

// Format returns a string representation of the value.
func (v Value) Format() string {
	switch v.Type {
	case TypeInt:
		return fmt.Sprintf("%d", int64(v.Data))
	case TypeFloat:
		s := fmt.Sprintf("%g", math.Float64frombits(v.Data))
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s
	case TypeName:
		return v.Name
	default:
		return "void"
	}
}
