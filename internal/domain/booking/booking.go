package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/shareit-platform/service-sharing/internal/domain/shared"
)

// Booking is the aggregate root for the booking domain: a time-bounded
// request by a booker against an item, decided once by the item owner.
type Booking struct {
	id        uuid.UUID
	start     time.Time
	end       time.Time
	status    Status
	itemID    uuid.UUID
	bookerID  uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking in WAITING state. The time range must be
// fully specified, strictly ordered, and must not start in the past
// relative to now.
func NewBooking(itemID, bookerID uuid.UUID, start, end time.Time, now time.Time) (*Booking, error) {
	if start.IsZero() || end.IsZero() ||
		end.Equal(start) || end.Before(start) ||
		start.Before(now) {
		return nil, shared.NewValidationError("booking time range is invalid")
	}
	return &Booking{
		id:        uuid.New(),
		start:     start,
		end:       end,
		status:    StatusWaiting,
		itemID:    itemID,
		bookerID:  bookerID,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	start, end time.Time,
	status Status,
	itemID, bookerID uuid.UUID,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		start:     start,
		end:       end,
		status:    status,
		itemID:    itemID,
		bookerID:  bookerID,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// Start returns the booking's start instant.
func (b *Booking) Start() time.Time { return b.start }

// End returns the booking's end instant.
func (b *Booking) End() time.Time { return b.end }

// Status returns the current booking status.
func (b *Booking) Status() Status { return b.status }

// ItemID returns the booked item's identifier.
func (b *Booking) ItemID() uuid.UUID { return b.itemID }

// BookerID returns the requesting user's identifier.
func (b *Booking) BookerID() uuid.UUID { return b.bookerID }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// Decide applies the owner's decision. Once a booking is APPROVED the
// decision is final; any further decision attempt is a conflict.
func (b *Booking) Decide(approve bool) error {
	target := StatusRejected
	if approve {
		target = StatusApproved
	}
	if !b.status.CanTransitionTo(target) {
		return shared.NewConflictError("booking status is already approved")
	}
	b.status = target
	b.updatedAt = time.Now().UTC()
	return nil
}

// IsBooker reports whether userID is the booker of this booking.
func (b *Booking) IsBooker(userID uuid.UUID) bool {
	return b.bookerID == userID
}
