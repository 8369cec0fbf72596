package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	bookingDomain "github.com/shareit-platform/service-sharing/internal/domain/booking"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&UserModel{},
		&ItemModel{},
		&BookingModel{},
		&CommentModel{},
	))
	return db
}

// seedBooking inserts a booking row directly.
func seedBooking(t *testing.T, db *gorm.DB, itemID, bookerID uuid.UUID, start, end time.Time, status bookingDomain.Status) uuid.UUID {
	t.Helper()
	id := uuid.New()
	now := time.Now().UTC()
	require.NoError(t, db.Create(&BookingModel{
		ID:        id,
		StartDate: start,
		EndDate:   end,
		Status:    string(status),
		ItemID:    itemID,
		BookerID:  bookerID,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error)
	return id
}
