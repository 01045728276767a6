package driven

import "time"

// Clock supplies the current time. The reference-period fallback is the
// only extraction path that reads it.
type Clock interface {
	Now() time.Time
}
