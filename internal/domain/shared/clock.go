package shared

import "time"

// Clock supplies the current instant. Services read it once per operation
// and thread the result through queries, so a whole operation observes a
// single "now" and tests can pin time deterministically.
type Clock func() time.Time

// SystemUTC returns the production clock.
func SystemUTC() Clock {
	return func() time.Time { return time.Now().UTC() }
}
