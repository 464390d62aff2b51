package clock

import "time"

// System reads the wall clock in UTC, truncated to microseconds so values survive a round trip
// through timestamptz columns unchanged.
type System struct{}

func NewSystemClock() System { return System{} }

func (System) Now() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }
