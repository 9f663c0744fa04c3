// Package player implements the per-room playback scheduler: a
// supervisor owning the room status map and one background loop per
// active room that walks the room's queue in enqueue order.
package player

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDuration converts an ISO-8601-style duration string into total
// seconds. Numeric runs are read right to left: the rightmost run is
// seconds, the next minutes, the next hours. Any of the three segments
// may be absent.
//
// Example: "PT1H10M10S" -> 4210
func ParseDuration(duration string) (int64, error) {
	runs := strings.FieldsFunc(duration, func(r rune) bool {
		return r < '0' || r > '9'
	})

	var total int64
	var multiplier int64 = 1

	for i := len(runs) - 1; i >= 0; i-- {
		n, err := strconv.ParseInt(runs[i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, duration)
		}
		total += n * multiplier
		multiplier *= 60
	}

	return total, nil
}
