package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	bookingDomain "github.com/shareit-platform/service-sharing/internal/domain/booking"
	"github.com/shareit-platform/service-sharing/internal/domain/shared"
	"gorm.io/gorm"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	StartDate time.Time `gorm:"column:start_date;not null;index"`
	EndDate   time.Time `gorm:"column:end_date;not null;index"`
	Status    string    `gorm:"not null;size:20;index"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;index"`
	BookerID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of the booking
// Repository and ItemBookingLookup contracts.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, b *bookingDomain.Booking) error {
	if err := r.db.WithContext(ctx).Create(toBookingModel(b)).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking.
func (r *GormBookingRepository) Update(ctx context.Context, b *bookingDomain.Booking) error {
	model := toBookingModel(b)
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"start_date": model.StartDate,
			"end_date":   model.EndDate,
			"status":     model.Status,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Booking", model.ID.String())
	}
	return nil
}

// FindByBooker retrieves the booker's bookings, start descending.
func (r *GormBookingRepository) FindByBooker(ctx context.Context, bookerID uuid.UUID, page shared.Page) ([]*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx).
		Where("booker_id = ?", bookerID).
		Order("start_date DESC")
	return r.findPage(q, page)
}

// FindByBookerAndStatus retrieves the booker's bookings with the given
// status, start descending.
func (r *GormBookingRepository) FindByBookerAndStatus(ctx context.Context, bookerID uuid.UUID, status bookingDomain.Status, page shared.Page) ([]*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx).
		Where("booker_id = ? AND status = ?", bookerID, string(status)).
		Order("start_date DESC")
	return r.findPage(q, page)
}

// FindCurrentByBooker retrieves the booker's in-flight bookings, start ascending.
func (r *GormBookingRepository) FindCurrentByBooker(ctx context.Context, bookerID uuid.UUID, now time.Time, page shared.Page) ([]*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx).
		Where("booker_id = ? AND start_date <= ? AND end_date >= ?", bookerID, now, now).
		Order("start_date ASC")
	return r.findPage(q, page)
}

// FindPastByBooker retrieves the booker's finished bookings, start descending.
func (r *GormBookingRepository) FindPastByBooker(ctx context.Context, bookerID uuid.UUID, now time.Time, page shared.Page) ([]*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx).
		Where("booker_id = ? AND end_date < ?", bookerID, now).
		Order("start_date DESC")
	return r.findPage(q, page)
}

// FindByItems retrieves bookings on any of the items, start descending.
func (r *GormBookingRepository) FindByItems(ctx context.Context, itemIDs []uuid.UUID, page shared.Page) ([]*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx).
		Where("item_id IN ?", itemIDs).
		Order("start_date DESC")
	return r.findPage(q, page)
}

// FindByItemsAndStatus retrieves bookings on any of the items with the
// given status, start descending.
func (r *GormBookingRepository) FindByItemsAndStatus(ctx context.Context, itemIDs []uuid.UUID, status bookingDomain.Status, page shared.Page) ([]*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx).
		Where("item_id IN ? AND status = ?", itemIDs, string(status)).
		Order("start_date DESC")
	return r.findPage(q, page)
}

// FindCurrentByItems retrieves in-flight bookings on any of the items,
// start ascending.
func (r *GormBookingRepository) FindCurrentByItems(ctx context.Context, itemIDs []uuid.UUID, now time.Time, page shared.Page) ([]*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx).
		Where("item_id IN ? AND start_date <= ? AND end_date >= ?", itemIDs, now, now).
		Order("start_date ASC")
	return r.findPage(q, page)
}

// FindPastByItems retrieves finished bookings on any of the items,
// start descending.
func (r *GormBookingRepository) FindPastByItems(ctx context.Context, itemIDs []uuid.UUID, now time.Time, page shared.Page) ([]*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx).
		Where("item_id IN ? AND end_date < ?", itemIDs, now).
		Order("start_date DESC")
	return r.findPage(q, page)
}

// LastFinishedByItemAndBooker returns the most recent APPROVED booking by
// the user on the item that ended before now, or nil when none exists.
func (r *GormBookingRepository) LastFinishedByItemAndBooker(ctx context.Context, itemID, bookerID uuid.UUID, now time.Time) (*bookingDomain.Booking, error) {
	var model BookingModel
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND booker_id = ? AND end_date < ? AND status = ?",
			itemID, bookerID, now, string(bookingDomain.StatusApproved)).
		Order("end_date DESC").
		First(&model).Error
	return r.firstOrNil(&model, err)
}

// NextApprovedByItem returns the APPROVED booking on the item with the
// smallest start after now, or nil when none exists.
func (r *GormBookingRepository) NextApprovedByItem(ctx context.Context, itemID uuid.UUID, now time.Time) (*bookingDomain.Booking, error) {
	var model BookingModel
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND status = ? AND start_date > ?",
			itemID, string(bookingDomain.StatusApproved), now).
		Order("start_date ASC").
		First(&model).Error
	return r.firstOrNil(&model, err)
}

// LastApprovedByItem returns the APPROVED booking on the item with the
// largest start before now, or nil when none exists.
func (r *GormBookingRepository) LastApprovedByItem(ctx context.Context, itemID uuid.UUID, now time.Time) (*bookingDomain.Booking, error) {
	var model BookingModel
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND status = ? AND start_date < ?",
			itemID, string(bookingDomain.StatusApproved), now).
		Order("start_date DESC").
		First(&model).Error
	return r.firstOrNil(&model, err)
}

// --- Helpers ---

func (r *GormBookingRepository) findPage(q *gorm.DB, page shared.Page) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := q.Offset(page.Offset()).Limit(page.Limit()).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		b, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = b
	}
	return bookings, nil
}

func (r *GormBookingRepository) firstOrNil(model *BookingModel, err error) (*bookingDomain.Booking, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query booking: %w", err)
	}
	return toDomainBooking(model)
}

func toBookingModel(b *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:        b.ID(),
		StartDate: b.Start(),
		EndDate:   b.End(),
		Status:    string(b.Status()),
		ItemID:    b.ItemID(),
		BookerID:  b.BookerID(),
		CreatedAt: b.CreatedAt(),
		UpdatedAt: b.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return bookingDomain.ReconstructBooking(
		m.ID,
		m.StartDate,
		m.EndDate,
		status,
		m.ItemID,
		m.BookerID,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
