package tickstream

import "bytes"

// DefaultStrSize is the default row width in bytes for string-rendered
// copies, including the trailing NUL.
const DefaultStrSize = 0xFF

// NewStringMatrix allocates a rows x colBytes byte matrix backed by one
// contiguous allocation. Each row holds a NUL-terminated string after a
// string copy. The matrix is garbage collected; there is no paired
// deallocator.
func NewStringMatrix(rows, colBytes int) [][]byte {
	if rows < 0 {
		rows = 0
	}
	if colBytes < 1 {
		colBytes = 1
	}

	backing := make([]byte, rows*colBytes)

	mat := make([][]byte, rows)
	for i := range mat {
		mat[i] = backing[i*colBytes : (i+1)*colBytes]
	}

	return mat
}

// RowString returns the row's contents up to the first NUL.
func RowString(row []byte) string {
	if i := bytes.IndexByte(row, 0); i >= 0 {
		return string(row[:i])
	}
	return string(row)
}

// writeRow copies s into row truncated to colBytes-1 bytes (and to the
// row's own length) with a trailing NUL.
func writeRow(row []byte, colBytes int, s string) {
	limit := min(colBytes, len(row))
	if limit == 0 {
		return
	}

	n := min(len(s), limit-1)
	copy(row[:n], s[:n])
	row[n] = 0
}
