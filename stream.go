// Package tickstream implements a bounded, thread-safe "latest-K" window
// over a live feed. A producer pushes the most recent value to the front of
// the window and any number of readers copy out snapshots of the most recent
// elements. The window is lossy under sustained push pressure: the oldest
// element is silently evicted, which is the normal operating mode.
package tickstream

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// MaxBound is the largest capacity a stream accepts. Requested bounds are
// clamped to it.
const MaxBound = math.MaxInt32

const markerUnset = -1

// Stream is a bounded window of elements of type T. Index 0 is the newest
// element; Size()-1 is the oldest still valid. The secondary type parameter
// S only carries meaning for the paired variant, but is part of the stream's
// read interface so that paired and non-paired streams are interchangeable
// behind Window.
//
// A Stream must not be copied by value; use Clone.
type Stream[T Element, S any] struct {
	mu sync.Mutex

	// marker is the read cursor: the index just before the start of the
	// last ranged read, advanced by pushes until it saturates at bound-1.
	// markerUnset means no read has placed it.
	marker atomic.Int64

	_ cpu.CacheLinePad

	// pushPriority is an advisory flag. A push that fails to acquire the
	// lock without blocking clears it, telling readers to yield once
	// before taking the lock themselves. It biases scheduling only.
	pushPriority atomic.Bool

	_ cpu.CacheLinePad

	prim  []T
	head  int
	count int
	bound int
}

// New returns a stream with the given capacity, clamped to [1, MaxBound].
func New[T Element, S any](bound int) *Stream[T, S] {
	bound = clampBound(bound)

	s := &Stream[T, S]{
		prim:  make([]T, bound),
		bound: bound,
	}

	s.marker.Store(markerUnset)
	s.pushPriority.Store(true)

	return s
}

func clampBound(bound int) int {
	if bound < 1 {
		return 1
	}
	if bound > MaxBound {
		return MaxBound
	}
	return bound
}

// slot maps a logical index (0 = newest) to the backing slice.
func (s *Stream[T, S]) slot(i int) T {
	return s.prim[(s.head+i)%s.bound]
}

func (s *Stream[T, S]) yieldToPush() {
	if !s.pushPriority.Load() {
		runtime.Gosched()
	}
}

// checkAdj normalizes a (end, beg) pair against the window: negative
// indexes count from the bound, both must land in [0, bound) and beg must
// not pass end. It also verifies the backing slice still matches the bound.
// Callers must hold the lock.
func (s *Stream[T, S]) checkAdj(op string, end, beg int) (int, int, error) {
	sz := len(s.prim)
	if s.bound != sz {
		return 0, 0, sizeErr(op, s.bound, sz)
	}

	if end < 0 {
		end += sz
	}
	if beg < 0 {
		beg += sz
	}

	if beg >= sz || end >= sz || beg < 0 || end < 0 {
		return 0, 0, rangeErr(op, sz, beg, end)
	}
	if beg > end {
		return 0, 0, argErr(op, "begin index past end index")
	}

	return end, beg, nil
}

// Push inserts v at the front of the window, evicting the oldest element.
// It never fails; it may block briefly on the stream lock.
func (s *Stream[T, S]) Push(v T) {
	acquired := s.mu.TryLock()
	s.pushPriority.Store(acquired)
	if !acquired {
		s.mu.Lock()
	}

	s.insertLocked(v)

	s.mu.Unlock()
}

func (s *Stream[T, S]) insertLocked(v T) {
	s.head = (s.head - 1 + s.bound) % s.bound
	s.prim[s.head] = v

	if s.count < s.bound {
		s.count++
	}

	if m := s.marker.Load(); m < int64(s.bound-1) {
		s.marker.Store(m + 1)
	}
}

// PushValue pushes a value of any convertible type, widening it toward the
// element type. The secondary value is ignored on a non-paired stream.
func (s *Stream[T, S]) PushValue(v any, sec S) error {
	_ = sec

	tv, err := pushConvert[T](v)
	if err != nil {
		return err
	}

	s.Push(tv)

	return nil
}

// Size returns the number of valid elements in the window.
func (s *Stream[T, S]) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Empty reports whether the window holds no valid elements.
func (s *Stream[T, S]) Empty() bool {
	return s.Size() == 0
}

// BoundSize returns the window capacity.
func (s *Stream[T, S]) BoundSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bound
}

// Marker returns the current read marker, markerUnset (-1) if no read has
// placed it.
func (s *Stream[T, S]) Marker() int {
	return int(s.marker.Load())
}

// UsesSecondary reports whether the stream carries a secondary sequence.
func (s *Stream[T, S]) UsesSecondary() bool {
	return false
}

// Resize changes the window capacity to n, clamped to [1, MaxBound].
// Shrinking truncates from the oldest end; growing pads the oldest end with
// zero-valued elements. The count and the marker are clamped to the new
// bound. Returns the new capacity.
func (s *Stream[T, S]) Resize(n int) int {
	n = clampBound(n)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.resizeLocked(n)

	return n
}

func (s *Stream[T, S]) resizeLocked(n int) {
	s.prim = resizeSeq(s.prim, s.head, s.bound, n)
	s.head = 0
	s.bound = n

	if s.count > n {
		s.count = n
	}
	if m := s.marker.Load(); m > int64(n-1) {
		s.marker.Store(int64(n - 1))
	}
}

// resizeSeq rebuilds a ring-addressed sequence in logical order at the new
// capacity.
func resizeSeq[E any](seq []E, head, oldBound, newBound int) []E {
	out := make([]E, newBound)
	for i, bound := 0, min(oldBound, newBound); i < bound; i++ {
		out[i] = seq[(head+i)%oldBound]
	}
	return out
}

// At returns the element at logical index i wrapped as a Value. Reading
// index 0 resets the marker to unset; any other index places the marker at
// i-1. Negative indexes count from the bound.
func (s *Stream[T, S]) At(i int) (Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.atLocked(i)
}

func (s *Stream[T, S]) atLocked(i int) (Value, error) {
	if i == 0 {
		s.marker.Store(markerUnset)
		return ValueOf(s.prim[s.head]), nil
	}

	i, _, err := s.checkAdj("At", i, 0)
	if err != nil {
		return Value{}, err
	}

	s.marker.Store(int64(i) - 1)

	return ValueOf(s.slot(i)), nil
}

// Secondary is a no-op on a non-paired stream: it returns the zero S.
func (s *Stream[T, S]) Secondary(i int) (S, error) {
	var zero S
	return zero, nil
}

// Both returns the element at index i paired with the zero S.
func (s *Stream[T, S]) Both(i int) (Value, S, error) {
	var sec S

	s.mu.Lock()
	defer s.mu.Unlock()

	gen, err := s.atLocked(i)

	return gen, sec, err
}

// Copy snapshots the inclusive element range [beg, end] (0 = newest, -1 =
// oldest slot) into dest, truncated to the destination length and to the
// valid element count. It returns the number of elements written and places
// the marker at beg-1.
func (s *Stream[T, S]) Copy(dest []T, end, beg int) (int, error) {
	const op = "Copy"

	if dest == nil {
		return 0, argErr(op, "nil destination")
	}

	s.yieldToPush()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.copyLocked(op, dest, end, beg)
}

func (s *Stream[T, S]) copyLocked(op string, dest []T, end, beg int) (int, error) {
	end, beg, err := s.checkAdj(op, end, beg)
	if err != nil {
		return 0, err
	}

	n := s.copyRange(dest, end, beg)
	s.marker.Store(int64(beg) - 1)

	return n, nil
}

func (s *Stream[T, S]) copyRange(dest []T, end, beg int) int {
	// Single-element reads skip the range walk.
	if end == beg {
		if len(dest) == 0 || beg >= s.count {
			return 0
		}
		dest[0] = s.slot(beg)
		return 1
	}

	stop := min(beg+len(dest), end+1, s.count)

	n := 0
	for i := beg; i < stop; i++ {
		dest[n] = s.slot(i)
		n++
	}

	return n
}

// CopyUsingMarker behaves like Copy with the marker as the end index,
// enabling incremental "everything since my last read" snapshots. It fails
// with ErrUnsetMarker while the marker is unset.
func (s *Stream[T, S]) CopyUsingMarker(dest []T, beg int) (int, error) {
	m := s.marker.Load()
	if m < 0 {
		return 0, markerErr("CopyUsingMarker")
	}

	return s.Copy(dest, int(m), beg)
}

// CopyInto snapshots a range into a destination slice of any type with a
// conversion path from T: the element type itself, a wider type of the same
// numeric class, or strings via the canonical form.
func (s *Stream[T, S]) CopyInto(dest any, end, beg int) (int, error) {
	const op = "CopyInto"

	switch d := dest.(type) {
	case nil:
		return 0, argErr(op, "nil destination")
	case []T:
		return s.Copy(d, end, beg)
	case []string:
		return s.copyIntoStrings(d, end, beg)
	case []int8:
		return copyNumeric(s, d, end, beg, op)
	case []int16:
		return copyNumeric(s, d, end, beg, op)
	case []int32:
		return copyNumeric(s, d, end, beg, op)
	case []int64:
		return copyNumeric(s, d, end, beg, op)
	case []int:
		return copyNumeric(s, d, end, beg, op)
	case []uint8:
		return copyNumeric(s, d, end, beg, op)
	case []uint16:
		return copyNumeric(s, d, end, beg, op)
	case []uint32:
		return copyNumeric(s, d, end, beg, op)
	case []uint64:
		return copyNumeric(s, d, end, beg, op)
	case []uint:
		return copyNumeric(s, d, end, beg, op)
	case []float32:
		return copyNumeric(s, d, end, beg, op)
	case []float64:
		return copyNumeric(s, d, end, beg, op)
	default:
		return 0, typeErr(op, "unsupported destination type")
	}
}

// CopyIntoUsingMarker is CopyInto with the marker as the end index.
func (s *Stream[T, S]) CopyIntoUsingMarker(dest any, beg int) (int, error) {
	m := s.marker.Load()
	if m < 0 {
		return 0, markerErr("CopyIntoUsingMarker")
	}

	return s.CopyInto(dest, int(m), beg)
}

func (s *Stream[T, S]) copyIntoStrings(dest []string, end, beg int) (int, error) {
	mat := NewStringMatrix(len(dest), DefaultStrSize)

	n, err := s.CopyStrings(mat, DefaultStrSize, end, beg)
	if err != nil {
		return 0, err
	}

	for i := 0; i < n; i++ {
		dest[i] = RowString(mat[i])
	}

	return n, nil
}

// CopyStrings renders each element of the range through its canonical
// string form into the rows of dest, truncated to colBytes-1 bytes plus a
// trailing NUL. Rows beyond the copied range are untouched.
func (s *Stream[T, S]) CopyStrings(dest [][]byte, colBytes, end, beg int) (int, error) {
	const op = "CopyStrings"

	if dest == nil {
		return 0, argErr(op, "nil destination")
	}
	if colBytes < 2 {
		return 0, argErr(op, "column size must hold at least one byte and a NUL")
	}

	s.yieldToPush()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.copyStringsLocked(op, dest, colBytes, end, beg)
}

func (s *Stream[T, S]) copyStringsLocked(op string, dest [][]byte, colBytes, end, beg int) (int, error) {
	end, beg, err := s.checkAdj(op, end, beg)
	if err != nil {
		return 0, err
	}

	stop := min(end+1, s.count)

	n := 0
	for i := beg; i < stop && n < len(dest); i++ {
		writeRow(dest[n], colBytes, ValueOf(s.slot(i)).String())
		n++
	}

	s.marker.Store(int64(beg) - 1)

	return n, nil
}

// CopyStringsUsingMarker is CopyStrings with the marker as the end index.
func (s *Stream[T, S]) CopyStringsUsingMarker(dest [][]byte, colBytes, beg int) (int, error) {
	m := s.marker.Load()
	if m < 0 {
		return 0, markerErr("CopyStringsUsingMarker")
	}

	return s.CopyStrings(dest, colBytes, int(m), beg)
}

// Vector returns a freshly allocated snapshot of the range as generic
// values and places the marker at beg-1.
func (s *Stream[T, S]) Vector(end, beg int) ([]Value, error) {
	s.yieldToPush()

	s.mu.Lock()
	defer s.mu.Unlock()

	end, beg, err := s.checkAdj("Vector", end, beg)
	if err != nil {
		return nil, err
	}

	stop := min(end+1, s.count)

	out := make([]Value, 0, max(stop-beg, 0))
	for i := beg; i < stop; i++ {
		out = append(out, ValueOf(s.slot(i)))
	}

	s.marker.Store(int64(beg) - 1)

	return out, nil
}

// SecondaryVector on a non-paired stream returns a zero-valued sequence of
// the requested range length. It does not move the marker.
func (s *Stream[T, S]) SecondaryVector(end, beg int) ([]S, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	end, beg, err := s.checkAdj("SecondaryVector", end, beg)
	if err != nil {
		return nil, err
	}

	return make([]S, min(end-beg+1, s.count)), nil
}

// Clone returns a deep copy sharing no mutable state with the source: the
// elements, count and bound carry over, the marker value is copied into a
// fresh cell and the clone gets its own lock.
func (s *Stream[T, S]) Clone() *Stream[T, S] {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cloneLocked()
}

func (s *Stream[T, S]) cloneLocked() *Stream[T, S] {
	c := &Stream[T, S]{
		prim:  make([]T, len(s.prim)),
		head:  s.head,
		count: s.count,
		bound: s.bound,
	}
	copy(c.prim, s.prim)

	c.marker.Store(s.marker.Load())
	c.pushPriority.Store(true)

	return c
}
