package feed

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseTick parses one tick line of the form "SYMBOL price [unix-nanos]".
// When the timestamp field is absent the tick is stamped with now.
func parseTick(line string, now time.Time) (string, float64, time.Time, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || len(fields) > 3 {
		return "", 0, time.Time{}, fmt.Errorf("tick %q: want 2 or 3 fields, got %d", line, len(fields))
	}

	symbol := fields[0]

	price, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return "", 0, time.Time{}, fmt.Errorf("tick %q: bad price: %w", line, err)
	}

	ts := now
	if len(fields) == 3 {
		nanos, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return "", 0, time.Time{}, fmt.Errorf("tick %q: bad timestamp: %w", line, err)
		}
		ts = time.Unix(0, nanos)
	}

	return symbol, price, ts, nil
}
