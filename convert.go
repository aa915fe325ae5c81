package tickstream

import "fmt"

// number is the numeric subset of Element, used by the narrowing copy path.
type number interface {
	int8 | int16 | int32 | int64 | int |
		uint8 | uint16 | uint32 | uint64 | uint |
		float32 | float64
}

// pushConvert widens a caller value toward the element type T. Widening
// walks the caller's class upward (int8 through int64, uint8 through uint64,
// float32 to float64) and must land on T exactly; every numeric value widens
// into a string stream through its canonical form. Strings never convert to
// numeric element types.
func pushConvert[T Element](v any) (T, error) {
	var zero T

	if tv, ok := v.(T); ok {
		return tv, nil
	}
	if gv, ok := v.(Value); ok {
		return As[T](gv)
	}

	src, ok := valueOfAny(v)
	if !ok {
		return zero, typeErr("Push", fmt.Sprintf("unsupported value type %T", v))
	}

	class, width := elemClassWidth[T]()
	if class == classString {
		return any(src.String()).(T), nil
	}

	if src.class != class || src.width > width {
		return zero, typeErr("Push", fmt.Sprintf("no widening path from %T", v))
	}

	return numericElem[T](src), nil
}

// narrowPath reports whether a destination of the given class and width can
// receive elements of type T. The copy chain descends from the destination
// type, so the destination must share T's numeric class and be at least as
// wide.
func narrowPath[T Element](destClass valueClass, destWidth uint8) bool {
	class, width := elemClassWidth[T]()
	return class != classString && destClass == class && destWidth >= width
}

// copyNumeric snapshots a range into a numeric destination of a different
// (wider) type, converting element by element.
func copyNumeric[D number, T Element, S any](s *Stream[T, S], dest []D, end, beg int, op string) (int, error) {
	var zeroD D

	dv, _ := valueOfAny(any(zeroD))
	if !narrowPath[T](dv.class, dv.width) {
		return 0, typeErr(op, fmt.Sprintf("no conversion path to destination type []%T", zeroD))
	}

	tmp := make([]T, len(dest))
	n, err := s.Copy(tmp, end, beg)
	if err != nil {
		return 0, err
	}

	for i := 0; i < n; i++ {
		val := ValueOf(tmp[i])
		switch val.class {
		case classInt:
			dest[i] = D(val.i)
		case classUint:
			dest[i] = D(val.u)
		case classFloat:
			dest[i] = D(val.f)
		}
	}

	return n, nil
}
