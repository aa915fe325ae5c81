package tickstream

import "time"

// Window is the typed read/write facade over a stream with secondary type
// S. Both stream variants implement it; only the paired variant gives the
// secondary operations meaning. The element type is erased behind Value and
// the any-typed push/copy operations, which widen or narrow convertible
// caller types and reject the rest with a type-mismatch error.
type Window[S any] interface {
	// Introspection.
	BoundSize() int
	Size() int
	Empty() bool
	UsesSecondary() bool
	Marker() int

	// Resize clamps to [1, MaxBound] and returns the new capacity.
	Resize(n int) int

	// PushValue widens v toward the element type; sec is ignored on a
	// non-paired stream.
	PushValue(v any, sec S) error

	// Indexed reads.
	At(i int) (Value, error)
	Secondary(i int) (S, error)
	Both(i int) (Value, S, error)

	// Ranged snapshots into fresh containers.
	Vector(end, beg int) ([]Value, error)
	SecondaryVector(end, beg int) ([]S, error)

	// Ranged snapshots into caller memory.
	CopyInto(dest any, end, beg int) (int, error)
	CopyIntoUsingMarker(dest any, beg int) (int, error)
	CopyStrings(dest [][]byte, colBytes, end, beg int) (int, error)
	CopyStringsUsingMarker(dest [][]byte, colBytes, beg int) (int, error)
}

var (
	_ Window[time.Time] = (*Stream[float64, time.Time])(nil)
	_ Window[time.Time] = (*PairedStream[float64, time.Time])(nil)
	_ Window[string]    = (*Stream[int64, string])(nil)
	_ Window[string]    = (*PairedStream[string, string])(nil)
)
