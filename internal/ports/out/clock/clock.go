package clock

import "time"

// Clock stamps entities and drives TTL expiry. Tests substitute a manual clock.
type Clock interface {
	Now() time.Time
}
