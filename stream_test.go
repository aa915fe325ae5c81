package tickstream

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Stream_PushEviction(t *testing.T) {
	assert := assert.New(t)

	s := New[int, struct{}](3)

	for _, v := range []int{1, 2, 3, 4} {
		s.Push(v)
	}

	assert.Equal(3, s.Size())
	assert.Equal(3, s.BoundSize())

	for i, want := range []int64{4, 3, 2} {
		v, err := s.At(i)
		require.NoError(t, err)
		assert.Equal(want, v.Int64())
	}
}

func Test_Stream_CopyTruncation(t *testing.T) {
	assert := assert.New(t)

	s := New[string, struct{}](5)

	s.Push("A")
	s.Push("B")
	s.Push("C")

	dest := make([]string, 5)
	n, err := s.Copy(dest, -1, 0)
	require.NoError(t, err)

	assert.Equal(3, n)
	assert.Equal([]string{"C", "B", "A"}, dest[:3])
	assert.Equal(-1, s.Marker())
}

func Test_Stream_CopyDestTruncation(t *testing.T) {
	assert := assert.New(t)

	s := New[int, struct{}](8)
	for v := 0; v < 8; v++ {
		s.Push(v)
	}

	dest := make([]int, 3)
	n, err := s.Copy(dest, -1, 0)
	require.NoError(t, err)

	assert.Equal(3, n)
	assert.Equal([]int{7, 6, 5}, dest)
}

func Test_Stream_CopyErrors(t *testing.T) {
	s := New[int, struct{}](5)
	s.Push(1)

	dest := make([]int, 5)

	_, err := s.Copy(nil, -1, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.Copy(dest, 5, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = s.Copy(dest, -6, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = s.Copy(dest, 1, 3)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	var serr *StreamError
	_, err = s.Copy(dest, 7, 0)
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, KindOutOfRange, serr.Kind)
	assert.Equal(t, 5, serr.Size)
	assert.Equal(t, 7, serr.End)
}

func Test_Stream_NegativeIndexNormalization(t *testing.T) {
	s := New[int, struct{}](4)
	for v := 0; v < 4; v++ {
		s.Push(v)
	}

	a := make([]int, 4)
	b := make([]int, 4)

	na, err := s.Copy(a, -1, 0)
	require.NoError(t, err)

	nb, err := s.Copy(b, s.Size()-1, 0)
	require.NoError(t, err)

	assert.Equal(t, na, nb)
	assert.Equal(t, a, b)
}

func Test_Stream_SingleElementRead(t *testing.T) {
	s := New[int, struct{}](6)
	for v := 0; v < 4; v++ {
		s.Push(v * 10)
	}

	// A beg == end read must observe the same element as a one-element
	// range copy.
	one := make([]int, 1)
	n, err := s.Copy(one, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 10, one[0])
	assert.Equal(t, 1, s.Marker())

	// Past the valid count nothing is observed.
	n, err = s.Copy(one, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func Test_Stream_MarkerLaws(t *testing.T) {
	assert := assert.New(t)

	s := New[int, struct{}](4)
	assert.Equal(-1, s.Marker())

	s.Push(1)
	assert.Equal(0, s.Marker())

	for i := 0; i < 10; i++ {
		s.Push(2)
	}
	assert.Equal(3, s.Marker())

	_, err := s.At(0)
	require.NoError(t, err)
	assert.Equal(-1, s.Marker())

	_, err = s.At(2)
	require.NoError(t, err)
	assert.Equal(1, s.Marker())

	dest := make([]int, 4)
	_, err = s.Copy(dest, 3, 2)
	require.NoError(t, err)
	assert.Equal(1, s.Marker())

	_, err = s.Vector(-1, 0)
	require.NoError(t, err)
	assert.Equal(-1, s.Marker())
}

func Test_Stream_UnsetMarker(t *testing.T) {
	s := New[int, struct{}](4)

	dest := make([]int, 4)
	_, err := s.CopyUsingMarker(dest, 0)
	assert.ErrorIs(t, err, ErrUnsetMarker)

	for _, v := range []int{10, 20, 30, 40} {
		s.Push(v)
	}

	_, err = s.At(2)
	require.NoError(t, err)
	require.Equal(t, 1, s.Marker())

	n, err := s.CopyUsingMarker(dest, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int{40, 30}, dest[:2])
}

func Test_Stream_MarkerIncrementalReads(t *testing.T) {
	assert := assert.New(t)

	s := New[int, struct{}](8)
	dest := make([]int, 8)

	for v := 0; v < 3; v++ {
		s.Push(v)
	}

	// Pushes since construction advanced the marker to cover them all.
	n, err := s.CopyUsingMarker(dest, 0)
	require.NoError(t, err)
	assert.Equal(3, n)
	assert.Equal([]int{2, 1, 0}, dest[:3])
	assert.Equal(-1, s.Marker())

	// Nothing new: the beg=0 read reset the marker to unset.
	_, err = s.CopyUsingMarker(dest, 0)
	assert.ErrorIs(err, ErrUnsetMarker)

	s.Push(3)
	s.Push(4)

	n, err = s.CopyUsingMarker(dest, 0)
	require.NoError(t, err)
	assert.Equal(2, n)
	assert.Equal([]int{4, 3}, dest[:2])
}

func Test_Stream_Resize(t *testing.T) {
	assert := assert.New(t)

	s := New[int, struct{}](3)
	for _, v := range []int{1, 2, 3} {
		s.Push(v)
	}

	// Grow: existing elements keep their logical positions, the tail is
	// zero padded.
	assert.Equal(5, s.Resize(5))
	assert.Equal(5, s.BoundSize())
	assert.Equal(3, s.Size())

	v, err := s.At(0)
	require.NoError(t, err)
	assert.Equal(int64(3), v.Int64())

	// Shrink truncates from the oldest end and clamps count and marker.
	_, err = s.At(4)
	require.NoError(t, err)
	assert.Equal(3, s.Marker())

	assert.Equal(2, s.Resize(2))
	assert.Equal(2, s.Size())
	assert.Equal(1, s.Marker())

	dest := make([]int, 2)
	n, err := s.Copy(dest, -1, 0)
	require.NoError(t, err)
	assert.Equal(2, n)
	assert.Equal([]int{3, 2}, dest)

	// Bounds clamp.
	assert.Equal(1, s.Resize(0))
	assert.Equal(1, s.Resize(-7))
}

func Test_Stream_Vector(t *testing.T) {
	assert := assert.New(t)

	s := New[int, struct{}](5)
	for _, v := range []int{100, 200, 300} {
		s.Push(v)
	}

	vals, err := s.Vector(-1, 0)
	require.NoError(t, err)
	require.Len(t, vals, 3)
	for i, want := range []int64{300, 200, 100} {
		assert.Equal(want, vals[i].Int64())
	}
	assert.Equal(-1, s.Marker())

	vals, err = s.Vector(2, 1)
	require.NoError(t, err)
	require.Len(t, vals, 2)
	assert.Equal(int64(200), vals[0].Int64())
	assert.Equal(0, s.Marker())

	// Range entirely beyond the valid count.
	vals, err = s.Vector(4, 4)
	require.NoError(t, err)
	assert.Empty(vals)
}

func Test_Stream_SecondaryVectorUnpaired(t *testing.T) {
	s := New[int, string](5)
	s.Push(1)
	s.Push(2)

	sec, err := s.SecondaryVector(-1, 0)
	require.NoError(t, err)
	require.Len(t, sec, 2)
	for _, v := range sec {
		assert.Empty(t, v)
	}

	assert.False(t, s.UsesSecondary())

	v, err := s.Secondary(0)
	require.NoError(t, err)
	assert.Empty(t, v)
}

func Test_Stream_CopyStrings(t *testing.T) {
	assert := assert.New(t)

	s := New[int32, struct{}](4)
	for _, v := range []int32{7, 42, 1234} {
		s.Push(v)
	}

	mat := NewStringMatrix(4, DefaultStrSize)
	n, err := s.CopyStrings(mat, DefaultStrSize, -1, 0)
	require.NoError(t, err)

	assert.Equal(3, n)
	assert.Equal("1234", RowString(mat[0]))
	assert.Equal("42", RowString(mat[1]))
	assert.Equal("7", RowString(mat[2]))
	assert.Empty(RowString(mat[3]))

	// Truncation to colBytes-1 plus NUL.
	tight := NewStringMatrix(4, 3)
	n, err = s.CopyStrings(tight, 3, -1, 0)
	require.NoError(t, err)
	assert.Equal(3, n)
	assert.Equal("12", RowString(tight[0]))

	_, err = s.CopyStrings(nil, DefaultStrSize, -1, 0)
	assert.ErrorIs(err, ErrInvalidArgument)

	_, err = s.CopyStrings(mat, 1, -1, 0)
	assert.ErrorIs(err, ErrInvalidArgument)
}

func Test_Stream_Clone(t *testing.T) {
	assert := assert.New(t)

	s := New[int, struct{}](3)
	s.Push(1)
	s.Push(2)

	_, err := s.At(1)
	require.NoError(t, err)

	c := s.Clone()

	s.Push(99)
	s.Push(98)

	assert.Equal(2, c.Size())
	assert.Equal(0, c.Marker())

	v, err := c.At(0)
	require.NoError(t, err)
	assert.Equal(int64(2), v.Int64())
}

func Test_Stream_Empty(t *testing.T) {
	s := New[float64, struct{}](2)
	assert.True(t, s.Empty())

	s.Push(1.5)
	assert.False(t, s.Empty())
	assert.Equal(t, 1, s.Size())
}

func Test_Stream_ConcurrentVector(t *testing.T) {
	const pushCount = 1_000_000

	s := New[int, struct{}](3)

	wg := &sync.WaitGroup{}
	wg.Add(1)

	done := make(chan struct{})

	go func() {
		defer wg.Done()

		for v := 0; v < pushCount; v++ {
			s.Push(v)
		}

		close(done)
	}()

	readerWg := &sync.WaitGroup{}
	readerWg.Add(1)

	go func() {
		defer readerWg.Done()

		for {
			select {
			case <-done:
				return
			default:
			}

			vals, err := s.Vector(-1, 0)
			if err != nil {
				t.Errorf("vector failed: %v", err)
				return
			}

			if len(vals) > 3 {
				t.Errorf("vector longer than bound: %d", len(vals))
				return
			}

			for i := 1; i < len(vals); i++ {
				if vals[i].Int64() > vals[i-1].Int64() {
					t.Errorf("vector not non-increasing: %v then %v", vals[i-1].Int64(), vals[i].Int64())
					return
				}
			}

			if n := len(vals); n > 0 {
				if got := vals[0].Int64(); got < 0 || got >= pushCount {
					t.Errorf("observed value never pushed: %d", got)
					return
				}
			}
		}
	}()

	wg.Wait()
	readerWg.Wait()
}
