package tickstream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Sprint(t *testing.T) {
	s := New[int, struct{}](5)
	for _, v := range []int{100, 200, 300} {
		s.Push(v)
	}

	out, err := Sprint[struct{}](s)
	require.NoError(t, err)
	assert.Equal(t, "stream(3/5)[300 200 100]", out)
}

func Test_Fprint_Empty(t *testing.T) {
	s := New[float64, struct{}](2)

	var b strings.Builder
	require.NoError(t, Fprint[struct{}](&b, s))
	assert.Equal(t, "stream(0/2)[]", b.String())
}
