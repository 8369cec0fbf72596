package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	bookingDomain "github.com/shareit-platform/service-sharing/internal/domain/booking"
	"github.com/shareit-platform/service-sharing/internal/domain/item"
	"github.com/shareit-platform/service-sharing/internal/domain/shared"
	"github.com/shareit-platform/service-sharing/internal/domain/user"
	"github.com/shareit-platform/service-sharing/internal/events"
	"github.com/shareit-platform/service-sharing/pkg/kafka"
	"go.uber.org/zap"
)

// EventPublisher is the outbound event stream contract. Publishing is
// best-effort: the engine logs failures and never fails an operation
// because of them.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event kafka.CloudEvent) error
}

// CreateBookingRequest holds the data needed to request a booking.
type CreateBookingRequest struct {
	ItemID uuid.UUID  `json:"itemId" binding:"required"`
	Start  *time.Time `json:"start"`
	End    *time.Time `json:"end"`
}

// ItemRef is the item part of a booking representation.
type ItemRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// UserRef is the user part of a booking representation.
type UserRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// BookingDTO is the response representation of a booking, with the item
// and booker resolved.
type BookingDTO struct {
	ID     uuid.UUID `json:"id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status string    `json:"status"`
	Item   ItemRef   `json:"item"`
	Booker UserRef   `json:"booker"`
}

// BookingService is the booking lifecycle engine: it validates and creates
// booking requests, applies the owner's decision, and classifies bookings
// into temporal buckets for the renter and owner views.
type BookingService struct {
	bookings bookingDomain.Repository
	items    item.Repository
	users    user.Repository
	producer EventPublisher
	logger   *zap.Logger
	clock    shared.Clock
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.Repository,
	items item.Repository,
	users user.Repository,
	producer EventPublisher,
	logger *zap.Logger,
	clock shared.Clock,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		items:    items,
		users:    users,
		producer: producer,
		logger:   logger,
		clock:    clock,
	}
}

// RequestBooking creates a booking request in WAITING state. Preconditions
// are checked in a fixed order and the first failure wins: item exists,
// requester exists, item available, requester is not the owner, time range
// valid. The item's availability flag is not touched.
func (s *BookingService) RequestBooking(ctx context.Context, bookerID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	it, err := s.items.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	booker, err := s.users.FindByID(ctx, bookerID)
	if err != nil {
		return nil, err
	}

	if !it.Available() {
		return nil, shared.NewConflictError("item is not available for booking")
	}

	if it.OwnerID() == bookerID {
		return nil, shared.NewForbiddenError("owner cannot book own item")
	}

	now := s.clock()
	var start, end time.Time
	if req.Start != nil {
		start = *req.Start
	}
	if req.End != nil {
		end = *req.End
	}
	bk, err := bookingDomain.NewBooking(it.ID(), bookerID, start, end, now)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.publishEvent(ctx, events.BookingRequested, bk.ID().String(), events.BookingRequestedEvent{
		BookingID:  bk.ID(),
		ItemID:     it.ID(),
		OwnerID:    it.OwnerID(),
		BookerID:   bookerID,
		Start:      bk.Start(),
		End:        bk.End(),
		OccurredAt: now,
	})

	s.logger.Info("booking requested",
		zap.String("booking_id", bk.ID().String()),
		zap.String("item_id", it.ID().String()),
		zap.String("booker_id", bookerID.String()),
	)

	dto := toBookingDTO(bk, it, booker)
	return &dto, nil
}

// DecideBooking applies the owner's approve/reject decision exactly once:
// an already-approved booking cannot be decided again, while a rejected
// one may be re-decided (matching the source system).
func (s *BookingService) DecideBooking(ctx context.Context, bookingID, actorID uuid.UUID, approve bool) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	it, err := s.items.FindByID(ctx, bk.ItemID())
	if err != nil {
		return nil, err
	}

	if it.OwnerID() != actorID {
		return nil, shared.NewForbiddenError("only the item owner can change the booking status")
	}

	if err := bk.Decide(approve); err != nil {
		return nil, err
	}

	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	eventType := events.BookingRejected
	if approve {
		eventType = events.BookingApproved
	}
	s.publishEvent(ctx, eventType, bk.ID().String(), events.BookingDecidedEvent{
		BookingID:  bk.ID(),
		ItemID:     it.ID(),
		OwnerID:    it.OwnerID(),
		BookerID:   bk.BookerID(),
		Status:     bk.Status().String(),
		OccurredAt: s.clock(),
	})

	s.logger.Info("booking decided",
		zap.String("booking_id", bk.ID().String()),
		zap.String("status", bk.Status().String()),
	)

	booker, err := s.users.FindByID(ctx, bk.BookerID())
	if err != nil {
		return nil, err
	}
	dto := toBookingDTO(bk, it, booker)
	return &dto, nil
}

// GetBooking retrieves a single booking for the booker or the item owner.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, callerID uuid.UUID) (*BookingDTO, error) {
	exists, err := s.users.ExistsByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewNotFoundError("User", callerID.String())
	}

	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	it, err := s.items.FindByID(ctx, bk.ItemID())
	if err != nil {
		return nil, err
	}

	if !bk.IsBooker(callerID) && it.OwnerID() != callerID {
		return nil, shared.NewForbiddenError("user is neither the booker nor the item owner")
	}

	booker, err := s.users.FindByID(ctx, bk.BookerID())
	if err != nil {
		return nil, err
	}
	dto := toBookingDTO(bk, it, booker)
	return &dto, nil
}

// ListForBooker lists the user's own bookings filtered by state bucket.
func (s *BookingService) ListForBooker(ctx context.Context, userID uuid.UUID, state string, from, size int) ([]BookingDTO, error) {
	page, st, err := s.checkListArgs(ctx, userID, state, from, size)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	var bookings []*bookingDomain.Booking
	switch st {
	case bookingDomain.StateCurrent:
		bookings, err = s.bookings.FindCurrentByBooker(ctx, userID, now, page)
	case bookingDomain.StatePast:
		bookings, err = s.bookings.FindPastByBooker(ctx, userID, now, page)
	case bookingDomain.StateFuture:
		bookings, err = s.futureForBooker(ctx, userID, page)
	case bookingDomain.StateWaiting:
		bookings, err = s.bookings.FindByBookerAndStatus(ctx, userID, bookingDomain.StatusWaiting, page)
	case bookingDomain.StateRejected:
		bookings, err = s.bookings.FindByBookerAndStatus(ctx, userID, bookingDomain.StatusRejected, page)
	case bookingDomain.StateAll:
		bookings, err = s.bookings.FindByBooker(ctx, userID, page)
	}
	if err != nil {
		return nil, err
	}

	return s.resolveBookingDTOs(ctx, bookings)
}

// ListForOwner lists bookings against the owner's items filtered by state
// bucket. The owner's item set is fetched first and the booking queries
// join against it.
func (s *BookingService) ListForOwner(ctx context.Context, ownerID uuid.UUID, state string, from, size int) ([]BookingDTO, error) {
	page, st, err := s.checkListArgs(ctx, ownerID, state, from, size)
	if err != nil {
		return nil, err
	}

	itemIDs, err := s.items.IDsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(itemIDs) == 0 {
		return []BookingDTO{}, nil
	}

	now := s.clock()
	var bookings []*bookingDomain.Booking
	switch st {
	case bookingDomain.StateCurrent:
		bookings, err = s.bookings.FindCurrentByItems(ctx, itemIDs, now, page)
	case bookingDomain.StatePast:
		bookings, err = s.bookings.FindPastByItems(ctx, itemIDs, now, page)
	case bookingDomain.StateFuture:
		bookings, err = s.futureForOwner(ctx, itemIDs, page)
	case bookingDomain.StateWaiting:
		bookings, err = s.bookings.FindByItemsAndStatus(ctx, itemIDs, bookingDomain.StatusWaiting, page)
	case bookingDomain.StateRejected:
		bookings, err = s.bookings.FindByItemsAndStatus(ctx, itemIDs, bookingDomain.StatusRejected, page)
	case bookingDomain.StateAll:
		bookings, err = s.bookings.FindByItems(ctx, itemIDs, page)
	}
	if err != nil {
		return nil, err
	}

	return s.resolveBookingDTOs(ctx, bookings)
}

// --- Helpers ---

func (s *BookingService) checkListArgs(ctx context.Context, userID uuid.UUID, state string, from, size int) (shared.Page, bookingDomain.State, error) {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return shared.Page{}, "", err
	}
	if !exists {
		return shared.Page{}, "", shared.NewNotFoundError("User", userID.String())
	}

	page, err := shared.PageFromOffset(from, size)
	if err != nil {
		return shared.Page{}, "", err
	}

	st, err := bookingDomain.ParseState(state)
	if err != nil {
		return shared.Page{}, "", err
	}
	return page, st, nil
}

// futureForBooker builds the FUTURE bucket the way the source system does:
// one page of APPROVED and one page of WAITING bookings, concatenated and
// re-sorted by start descending.
func (s *BookingService) futureForBooker(ctx context.Context, userID uuid.UUID, page shared.Page) ([]*bookingDomain.Booking, error) {
	approved, err := s.bookings.FindByBookerAndStatus(ctx, userID, bookingDomain.StatusApproved, page)
	if err != nil {
		return nil, err
	}
	waiting, err := s.bookings.FindByBookerAndStatus(ctx, userID, bookingDomain.StatusWaiting, page)
	if err != nil {
		return nil, err
	}
	return mergeByStartDesc(approved, waiting), nil
}

func (s *BookingService) futureForOwner(ctx context.Context, itemIDs []uuid.UUID, page shared.Page) ([]*bookingDomain.Booking, error) {
	approved, err := s.bookings.FindByItemsAndStatus(ctx, itemIDs, bookingDomain.StatusApproved, page)
	if err != nil {
		return nil, err
	}
	waiting, err := s.bookings.FindByItemsAndStatus(ctx, itemIDs, bookingDomain.StatusWaiting, page)
	if err != nil {
		return nil, err
	}
	return mergeByStartDesc(approved, waiting), nil
}

func mergeByStartDesc(a, b []*bookingDomain.Booking) []*bookingDomain.Booking {
	merged := make([]*bookingDomain.Booking, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Start().After(merged[j].Start())
	})
	return merged
}

// resolveBookingDTOs batch-loads the referenced items and bookers and maps
// the bookings in their incoming order.
func (s *BookingService) resolveBookingDTOs(ctx context.Context, bookings []*bookingDomain.Booking) ([]BookingDTO, error) {
	if len(bookings) == 0 {
		return []BookingDTO{}, nil
	}

	itemIDs := make([]uuid.UUID, 0, len(bookings))
	bookerIDs := make([]uuid.UUID, 0, len(bookings))
	seenItems := make(map[uuid.UUID]bool)
	seenUsers := make(map[uuid.UUID]bool)
	for _, bk := range bookings {
		if !seenItems[bk.ItemID()] {
			seenItems[bk.ItemID()] = true
			itemIDs = append(itemIDs, bk.ItemID())
		}
		if !seenUsers[bk.BookerID()] {
			seenUsers[bk.BookerID()] = true
			bookerIDs = append(bookerIDs, bk.BookerID())
		}
	}

	items, err := s.items.FindByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	users, err := s.users.FindByIDs(ctx, bookerIDs)
	if err != nil {
		return nil, err
	}

	itemsByID := make(map[uuid.UUID]*item.Item, len(items))
	for _, it := range items {
		itemsByID[it.ID()] = it
	}
	usersByID := make(map[uuid.UUID]*user.User, len(users))
	for _, u := range users {
		usersByID[u.ID()] = u
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk, itemsByID[bk.ItemID()], usersByID[bk.BookerID()])
	}
	return dtos, nil
}

func toBookingDTO(bk *bookingDomain.Booking, it *item.Item, booker *user.User) BookingDTO {
	dto := BookingDTO{
		ID:     bk.ID(),
		Start:  bk.Start(),
		End:    bk.End(),
		Status: bk.Status().String(),
		Item:   ItemRef{ID: bk.ItemID()},
		Booker: UserRef{ID: bk.BookerID()},
	}
	if it != nil {
		dto.Item.Name = it.Name()
	}
	if booker != nil {
		dto.Booker.Name = booker.Name()
	}
	return dto
}

func (s *BookingService) publishEvent(ctx context.Context, eventType, key string, data interface{}) {
	if s.producer == nil {
		return
	}
	cloudEvent, err := kafka.NewCloudEvent("service-sharing", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", events.TopicBookingEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
