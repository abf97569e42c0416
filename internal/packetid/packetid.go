// Package packetid issues process-unique identifiers for inbound telemetry
// packets. Identifiers are unique only within one process lifetime: the
// counter starts at zero on startup and is never persisted, which matches
// the lifetime of the in-memory store they tag.
package packetid

import (
	"fmt"
	"sync/atomic"
	"time"
)

var counter atomic.Uint64

// Next returns an identifier of the form sec-<yyyyMMdd-HHmmss>-<n> with the
// timestamp in UTC at second precision. The counter suffix is the only
// strictly monotonic component; two calls within the same second differ only
// by it, so callers needing sub-second ordering must compare full ids.
func Next() string {
	n := counter.Add(1) - 1
	ts := time.Now().UTC().Format("20060102-150405")
	return fmt.Sprintf("sec-%s-%d", ts, n)
}
