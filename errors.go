package tickstream

import (
	"fmt"
)

// ErrorKind discriminates the failure classes a stream operation can report.
type ErrorKind uint8

const (
	// KindTypeMismatch reports a value or destination type with no
	// conversion path to or from the stream's element type.
	KindTypeMismatch ErrorKind = iota + 1
	// KindSizeViolation reports a broken internal length invariant.
	KindSizeViolation
	// KindOutOfRange reports a normalized index outside [0, bound).
	KindOutOfRange
	// KindInvalidArgument reports a malformed request, such as a nil
	// destination or a begin index past the end index.
	KindInvalidArgument
	// KindUnsetMarker reports a marker-relative read before any read has
	// placed the marker.
	KindUnsetMarker
)

func (k ErrorKind) String() string {
	switch k {
	case KindTypeMismatch:
		return "type mismatch"
	case KindSizeViolation:
		return "size violation"
	case KindOutOfRange:
		return "out of range"
	case KindInvalidArgument:
		return "invalid argument"
	case KindUnsetMarker:
		return "unset marker"
	default:
		return "unknown"
	}
}

// StreamError is the error type returned by every failing stream operation.
// Index and size payloads are filled in where they apply.
type StreamError struct {
	Kind ErrorKind
	Op   string

	Bound int
	Size  int
	Beg   int
	End   int

	detail string
}

func (e *StreamError) Error() string {
	msg := fmt.Sprintf("tickstream: %s: %s", e.Op, e.Kind)
	if e.detail != "" {
		msg += ": " + e.detail
	}

	switch e.Kind {
	case KindOutOfRange:
		return fmt.Sprintf("%s (size=%d beg=%d end=%d)", msg, e.Size, e.Beg, e.End)
	case KindSizeViolation:
		return fmt.Sprintf("%s (bound=%d size=%d)", msg, e.Bound, e.Size)
	}

	return msg
}

// Is matches any StreamError of the same kind, so callers can test with
// errors.Is against the package sentinels below.
func (e *StreamError) Is(target error) bool {
	t, ok := target.(*StreamError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is checks. Returned errors carry operation and index
// payloads on top of these kinds.
var (
	ErrTypeMismatch    = &StreamError{Kind: KindTypeMismatch}
	ErrSizeViolation   = &StreamError{Kind: KindSizeViolation}
	ErrOutOfRange      = &StreamError{Kind: KindOutOfRange}
	ErrInvalidArgument = &StreamError{Kind: KindInvalidArgument}
	ErrUnsetMarker     = &StreamError{Kind: KindUnsetMarker}
)

func typeErr(op string, detail string) *StreamError {
	return &StreamError{Kind: KindTypeMismatch, Op: op, detail: detail}
}

func sizeErr(op string, bound, size int) *StreamError {
	return &StreamError{Kind: KindSizeViolation, Op: op, Bound: bound, Size: size}
}

func rangeErr(op string, size, beg, end int) *StreamError {
	return &StreamError{Kind: KindOutOfRange, Op: op, Size: size, Beg: beg, End: end}
}

func argErr(op string, detail string) *StreamError {
	return &StreamError{Kind: KindInvalidArgument, Op: op, detail: detail}
}

func markerErr(op string) *StreamError {
	return &StreamError{Kind: KindUnsetMarker, Op: op, detail: "no ranged read has set the marker"}
}
