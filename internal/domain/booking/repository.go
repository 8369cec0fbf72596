package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shareit-platform/service-sharing/internal/domain/shared"
)

// Repository defines the persistence contract for booking aggregates.
// The per-bucket query methods take "now" as an argument so that one
// operation observes a single instant across engine and store.
type Repository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// Save persists a new booking.
	Save(ctx context.Context, b *Booking) error

	// Update persists changes to an existing booking.
	Update(ctx context.Context, b *Booking) error

	// FindByBooker retrieves the booker's bookings, start descending.
	FindByBooker(ctx context.Context, bookerID uuid.UUID, page shared.Page) ([]*Booking, error)

	// FindByBookerAndStatus retrieves the booker's bookings with the given
	// status, start descending.
	FindByBookerAndStatus(ctx context.Context, bookerID uuid.UUID, status Status, page shared.Page) ([]*Booking, error)

	// FindCurrentByBooker retrieves bookings with start <= now <= end,
	// start ascending.
	FindCurrentByBooker(ctx context.Context, bookerID uuid.UUID, now time.Time, page shared.Page) ([]*Booking, error)

	// FindPastByBooker retrieves bookings with end < now, start descending.
	FindPastByBooker(ctx context.Context, bookerID uuid.UUID, now time.Time, page shared.Page) ([]*Booking, error)

	// FindByItems retrieves bookings on any of the items, start descending.
	FindByItems(ctx context.Context, itemIDs []uuid.UUID, page shared.Page) ([]*Booking, error)

	// FindByItemsAndStatus retrieves bookings on any of the items with the
	// given status, start descending.
	FindByItemsAndStatus(ctx context.Context, itemIDs []uuid.UUID, status Status, page shared.Page) ([]*Booking, error)

	// FindCurrentByItems retrieves bookings on any of the items with
	// start <= now <= end, start ascending.
	FindCurrentByItems(ctx context.Context, itemIDs []uuid.UUID, now time.Time, page shared.Page) ([]*Booking, error)

	// FindPastByItems retrieves bookings on any of the items with end < now,
	// start descending.
	FindPastByItems(ctx context.Context, itemIDs []uuid.UUID, now time.Time, page shared.Page) ([]*Booking, error)
}

// ItemBookingLookup is the narrow capability the item module needs for
// detail enrichment and comment authorization. A nil booking with a nil
// error means "none found" and is not an error.
type ItemBookingLookup interface {
	// LastFinishedByItemAndBooker returns the most recent APPROVED booking
	// by the user on the item that ended before now, or nil.
	LastFinishedByItemAndBooker(ctx context.Context, itemID, bookerID uuid.UUID, now time.Time) (*Booking, error)

	// NextApprovedByItem returns the APPROVED booking on the item with the
	// smallest start after now, or nil.
	NextApprovedByItem(ctx context.Context, itemID uuid.UUID, now time.Time) (*Booking, error)

	// LastApprovedByItem returns the APPROVED booking on the item with the
	// largest start before now, or nil.
	LastApprovedByItem(ctx context.Context, itemID uuid.UUID, now time.Time) (*Booking, error)
}
