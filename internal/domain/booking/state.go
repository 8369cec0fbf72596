package booking

import "github.com/shareit-platform/service-sharing/internal/domain/shared"

// State is the derived temporal/status bucket used to filter booking
// listings. It is computed per query from start, end, status and "now",
// and is never persisted.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState converts the raw query value into a State. An unrecognized
// value is a dedicated error kind, distinct from plain invalid arguments.
func ParseState(raw string) (State, error) {
	switch State(raw) {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return State(raw), nil
	default:
		return "", shared.NewUnsupportedStateError(raw)
	}
}
