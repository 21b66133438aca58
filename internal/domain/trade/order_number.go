package trade

import (
	"crypto/rand"
	"fmt"
	"time"
)

// orderNumberPrefix tags every generated order number
const orderNumberPrefix = "SO"

const base36Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateOrderNumber produces a human-readable order number: the SO
// prefix, the low digits of the current unix milliseconds (rough
// chronological ordering), and ten random base36 characters. The
// random part makes same-millisecond collisions practically
// improbable; actual uniqueness is enforced by the order number's
// unique index, not by construction.
func GenerateOrderNumber() string {
	millis := time.Now().UnixMilli() % 1_000_000

	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform entropy source is
		// broken; fall back to a nanosecond tail rather than panic.
		return fmt.Sprintf("%s%06d%010d", orderNumberPrefix, millis, time.Now().UnixNano()%10_000_000_000)
	}
	for i := range buf {
		buf[i] = base36Alphabet[int(buf[i])%len(base36Alphabet)]
	}

	return fmt.Sprintf("%s%06d%s", orderNumberPrefix, millis, buf)
}
