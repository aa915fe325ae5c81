package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseTick(t *testing.T) {
	assert := assert.New(t)

	now := time.Unix(1_700_000_000, 0)

	symbol, price, ts, err := parseTick("AAPL 182.45", now)
	require.NoError(t, err)
	assert.Equal("AAPL", symbol)
	assert.Equal(182.45, price)
	assert.Equal(now, ts)

	symbol, price, ts, err = parseTick("ETH-USD 2410.1 1700000001000000000", now)
	require.NoError(t, err)
	assert.Equal("ETH-USD", symbol)
	assert.Equal(2410.1, price)
	assert.Equal(time.Unix(0, 1_700_000_001_000_000_000), ts)

	// Leading and trailing whitespace is tolerated.
	_, _, _, err = parseTick("  BTC 42000.0  ", now)
	assert.NoError(err)
}

func Test_parseTick_Errors(t *testing.T) {
	assert := assert.New(t)

	now := time.Now()

	_, _, _, err := parseTick("AAPL", now)
	assert.Error(err)

	_, _, _, err = parseTick("AAPL 1.0 2.0 3.0", now)
	assert.Error(err)

	_, _, _, err = parseTick("AAPL not-a-price", now)
	assert.Error(err)

	_, _, _, err = parseTick("AAPL 1.0 not-a-timestamp", now)
	assert.Error(err)
}
