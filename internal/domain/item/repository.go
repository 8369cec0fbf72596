package item

import (
	"context"

	"github.com/google/uuid"
	"github.com/shareit-platform/service-sharing/internal/domain/shared"
)

// Repository defines the persistence contract for items.
type Repository interface {
	// FindByID retrieves an item by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindByIDs retrieves the items with the given identifiers.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Item, error)

	// FindByOwner retrieves the owner's items, oldest first, with pagination.
	FindByOwner(ctx context.Context, ownerID uuid.UUID, page shared.Page) ([]*Item, error)

	// IDsByOwner retrieves the identifiers of every item owned by ownerID.
	IDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)

	// Search retrieves available items whose name or description matches
	// the text, case-insensitively.
	Search(ctx context.Context, text string, page shared.Page) ([]*Item, error)

	// Save persists a new item.
	Save(ctx context.Context, i *Item) error

	// Update persists changes to an existing item.
	Update(ctx context.Context, i *Item) error

	// Delete removes an item.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CommentRepository defines the persistence contract for item comments.
type CommentRepository interface {
	// Save persists a new comment.
	Save(ctx context.Context, c *Comment) error

	// FindByItemID retrieves an item's comments, oldest first.
	FindByItemID(ctx context.Context, itemID uuid.UUID) ([]*Comment, error)
}
