package item

import (
	"time"

	"github.com/google/uuid"
	"github.com/shareit-platform/service-sharing/internal/domain/shared"
)

// Item is a thing offered for sharing. The availability flag is the only
// gate on new booking requests; it is set by the owner and never flipped
// by the booking lifecycle itself.
type Item struct {
	id          uuid.UUID
	name        string
	description string
	available   bool
	ownerID     uuid.UUID
	requestID   *uuid.UUID
	createdAt   time.Time
	updatedAt   time.Time
}

// NewItem creates a new Item owned by ownerID. requestID links the item to
// the originating item request, if any.
func NewItem(ownerID uuid.UUID, name, description string, available *bool, requestID *uuid.UUID) (*Item, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewValidationError("item owner is required")
	}
	if name == "" {
		return nil, shared.NewValidationError("item name is required")
	}
	if description == "" {
		return nil, shared.NewValidationError("item description is required")
	}
	if available == nil {
		return nil, shared.NewValidationError("item availability is required")
	}
	now := time.Now().UTC()
	return &Item{
		id:          uuid.New(),
		name:        name,
		description: description,
		available:   *available,
		ownerID:     ownerID,
		requestID:   requestID,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructItem rebuilds an Item from persistence data (no validation).
func ReconstructItem(
	id uuid.UUID,
	name, description string,
	available bool,
	ownerID uuid.UUID,
	requestID *uuid.UUID,
	createdAt, updatedAt time.Time,
) *Item {
	return &Item{
		id:          id,
		name:        name,
		description: description,
		available:   available,
		ownerID:     ownerID,
		requestID:   requestID,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the item's unique identifier.
func (i *Item) ID() uuid.UUID { return i.id }

// Name returns the item's name.
func (i *Item) Name() string { return i.name }

// Description returns the item's description.
func (i *Item) Description() string { return i.description }

// Available reports whether the item accepts new booking requests.
func (i *Item) Available() bool { return i.available }

// OwnerID returns the owning user's identifier.
func (i *Item) OwnerID() uuid.UUID { return i.ownerID }

// RequestID returns the originating item request, or nil.
func (i *Item) RequestID() *uuid.UUID { return i.requestID }

// CreatedAt returns the creation timestamp.
func (i *Item) CreatedAt() time.Time { return i.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (i *Item) UpdatedAt() time.Time { return i.updatedAt }

// ApplyUpdate patches the item with the provided fields; nil means unchanged.
func (i *Item) ApplyUpdate(name, description *string, available *bool) error {
	if name != nil {
		if *name == "" {
			return shared.NewValidationError("item name must not be empty")
		}
		i.name = *name
	}
	if description != nil {
		if *description == "" {
			return shared.NewValidationError("item description must not be empty")
		}
		i.description = *description
	}
	if available != nil {
		i.available = *available
	}
	i.updatedAt = time.Now().UTC()
	return nil
}
