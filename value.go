package tickstream

import "strconv"

// Element is the set of types a stream can be parameterized over. Admission
// is checked at compile time through this constraint.
type Element interface {
	int8 | int16 | int32 | int64 | int |
		uint8 | uint16 | uint32 | uint64 | uint |
		float32 | float64 | string
}

type valueClass uint8

const (
	classNone valueClass = iota
	classInt
	classUint
	classFloat
	classString
)

// Value is a type-erased carrier for a single element. It remembers the
// class and width of the originating type, renders a canonical ASCII string
// form, and casts back to a concrete element type through As.
type Value struct {
	class valueClass
	width uint8

	i int64
	u uint64
	f float64
	s string
}

// ValueOf wraps a concrete element.
func ValueOf[T Element](v T) Value {
	val, _ := valueOfAny(any(v))
	return val
}

// valueOfAny wraps any supported dynamic type. The second return is false
// for types outside the Element set.
func valueOfAny(v any) (Value, bool) {
	switch x := v.(type) {
	case int8:
		return Value{class: classInt, width: 8, i: int64(x)}, true
	case int16:
		return Value{class: classInt, width: 16, i: int64(x)}, true
	case int32:
		return Value{class: classInt, width: 32, i: int64(x)}, true
	case int64:
		return Value{class: classInt, width: 64, i: x}, true
	case int:
		return Value{class: classInt, width: 64, i: int64(x)}, true
	case uint8:
		return Value{class: classUint, width: 8, u: uint64(x)}, true
	case uint16:
		return Value{class: classUint, width: 16, u: uint64(x)}, true
	case uint32:
		return Value{class: classUint, width: 32, u: uint64(x)}, true
	case uint64:
		return Value{class: classUint, width: 64, u: x}, true
	case uint:
		return Value{class: classUint, width: 64, u: uint64(x)}, true
	case float32:
		return Value{class: classFloat, width: 32, f: float64(x)}, true
	case float64:
		return Value{class: classFloat, width: 64, f: x}, true
	case string:
		return Value{class: classString, s: x}, true
	default:
		return Value{}, false
	}
}

// IsString reports whether the wrapped element is a string.
func (v Value) IsString() bool {
	return v.class == classString
}

// String returns the canonical ASCII rendering of the wrapped element.
// Floats use the shortest representation that round-trips at the element's
// original width.
func (v Value) String() string {
	switch v.class {
	case classInt:
		return strconv.FormatInt(v.i, 10)
	case classUint:
		return strconv.FormatUint(v.u, 10)
	case classFloat:
		return strconv.FormatFloat(v.f, 'f', -1, int(v.width))
	case classString:
		return v.s
	default:
		return ""
	}
}

// Int64 returns the wrapped element as an int64, truncating floats.
// Strings yield zero.
func (v Value) Int64() int64 {
	switch v.class {
	case classInt:
		return v.i
	case classUint:
		return int64(v.u)
	case classFloat:
		return int64(v.f)
	default:
		return 0
	}
}

// Uint64 returns the wrapped element as a uint64, truncating floats.
// Strings yield zero.
func (v Value) Uint64() uint64 {
	switch v.class {
	case classInt:
		return uint64(v.i)
	case classUint:
		return v.u
	case classFloat:
		return uint64(v.f)
	default:
		return 0
	}
}

// Float64 returns the wrapped element as a float64. Strings yield zero.
func (v Value) Float64() float64 {
	switch v.class {
	case classInt:
		return float64(v.i)
	case classUint:
		return float64(v.u)
	case classFloat:
		return v.f
	default:
		return 0
	}
}

// As casts the wrapped element back to a concrete element type. Numeric
// values convert freely between numeric targets, with the usual lossy
// semantics of a Go conversion. Any value converts to a string target via
// its canonical form. Strings never cast to numeric targets.
func As[T Element](v Value) (T, error) {
	var zero T

	class, _ := elemClassWidth[T]()
	if class == classString {
		return any(v.String()).(T), nil
	}

	if v.class == classString {
		return zero, typeErr("As", "string value has no numeric cast")
	}

	return numericElem[T](v), nil
}

// elemClassWidth reports the class and bit width of the element type T.
func elemClassWidth[T Element]() (valueClass, uint8) {
	var zero T

	switch any(zero).(type) {
	case int8:
		return classInt, 8
	case int16:
		return classInt, 16
	case int32:
		return classInt, 32
	case int64, int:
		return classInt, 64
	case uint8:
		return classUint, 8
	case uint16:
		return classUint, 16
	case uint32:
		return classUint, 32
	case uint64, uint:
		return classUint, 64
	case float32:
		return classFloat, 32
	case float64:
		return classFloat, 64
	default:
		return classString, 0
	}
}

// numericElem converts a numeric Value to the element type T. Callers must
// have class-checked v first; string values yield the zero T.
func numericElem[T Element](v Value) T {
	var zero T

	var out any
	switch any(zero).(type) {
	case int8:
		out = int8(v.Int64())
	case int16:
		out = int16(v.Int64())
	case int32:
		out = int32(v.Int64())
	case int64:
		out = v.Int64()
	case int:
		out = int(v.Int64())
	case uint8:
		out = uint8(v.Uint64())
	case uint16:
		out = uint16(v.Uint64())
	case uint32:
		out = uint32(v.Uint64())
	case uint64:
		out = v.Uint64()
	case uint:
		out = uint(v.Uint64())
	case float32:
		out = float32(v.Float64())
	case float64:
		out = v.Float64()
	default:
		return zero
	}

	return out.(T)
}
