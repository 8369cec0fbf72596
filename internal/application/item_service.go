package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	bookingDomain "github.com/shareit-platform/service-sharing/internal/domain/booking"
	itemDomain "github.com/shareit-platform/service-sharing/internal/domain/item"
	"github.com/shareit-platform/service-sharing/internal/domain/shared"
	"github.com/shareit-platform/service-sharing/internal/domain/user"
	"go.uber.org/zap"
)

// CreateItemRequest holds the data needed to list a new item.
type CreateItemRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Available   *bool      `json:"available"`
	RequestID   *uuid.UUID `json:"requestId"`
}

// UpdateItemRequest holds a partial item update; nil fields stay unchanged.
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// CreateCommentRequest holds the body of a new comment.
type CreateCommentRequest struct {
	Text string `json:"text"`
}

// BookingBrief is the compact booking reference embedded in item details.
type BookingBrief struct {
	ID       uuid.UUID `json:"id"`
	BookerID uuid.UUID `json:"bookerId"`
}

// CommentDTO is the response representation of a comment.
type CommentDTO struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

// ItemDTO is the response representation of an item. LastBooking and
// NextBooking are populated only for the owner's view.
type ItemDTO struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Available   bool          `json:"available"`
	OwnerID     uuid.UUID     `json:"ownerId"`
	RequestID   *uuid.UUID    `json:"requestId,omitempty"`
	LastBooking *BookingBrief `json:"lastBooking,omitempty"`
	NextBooking *BookingBrief `json:"nextBooking,omitempty"`
	Comments    []CommentDTO  `json:"comments"`
}

// ItemService orchestrates item CRUD, search, detail enrichment and
// comment creation.
type ItemService struct {
	items    itemDomain.Repository
	comments itemDomain.CommentRepository
	users    user.Repository
	bookings bookingDomain.ItemBookingLookup
	logger   *zap.Logger
	clock    shared.Clock
}

// NewItemService creates a new ItemService.
func NewItemService(
	items itemDomain.Repository,
	comments itemDomain.CommentRepository,
	users user.Repository,
	bookings bookingDomain.ItemBookingLookup,
	logger *zap.Logger,
	clock shared.Clock,
) *ItemService {
	return &ItemService{
		items:    items,
		comments: comments,
		users:    users,
		bookings: bookings,
		logger:   logger,
		clock:    clock,
	}
}

// CreateItem lists a new item for the owner.
func (s *ItemService) CreateItem(ctx context.Context, ownerID uuid.UUID, req CreateItemRequest) (*ItemDTO, error) {
	exists, err := s.users.ExistsByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewNotFoundError("User", ownerID.String())
	}

	it, err := itemDomain.NewItem(ownerID, req.Name, req.Description, req.Available, req.RequestID)
	if err != nil {
		return nil, err
	}

	if err := s.items.Save(ctx, it); err != nil {
		return nil, fmt.Errorf("failed to save item: %w", err)
	}

	s.logger.Info("item created",
		zap.String("item_id", it.ID().String()),
		zap.String("owner_id", ownerID.String()),
	)

	dto := s.baseItemDTO(it)
	return &dto, nil
}

// UpdateItem patches an item; only the owner may edit it.
func (s *ItemService) UpdateItem(ctx context.Context, ownerID, itemID uuid.UUID, req UpdateItemRequest) (*ItemDTO, error) {
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.OwnerID() != ownerID {
		return nil, shared.NewForbiddenError("only the owner can edit the item")
	}

	if err := it.ApplyUpdate(req.Name, req.Description, req.Available); err != nil {
		return nil, err
	}

	if err := s.items.Update(ctx, it); err != nil {
		return nil, err
	}

	dto := s.baseItemDTO(it)
	return &dto, nil
}

// GetItem retrieves one item with comments; the owner additionally sees
// the item's last and next approved bookings.
func (s *ItemService) GetItem(ctx context.Context, itemID, callerID uuid.UUID) (*ItemDTO, error) {
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.enrichItem(ctx, it, callerID)
}

// ListOwnerItems retrieves the owner's items with enrichment.
func (s *ItemService) ListOwnerItems(ctx context.Context, ownerID uuid.UUID, from, size int) ([]ItemDTO, error) {
	page, err := shared.PageFromOffset(from, size)
	if err != nil {
		return nil, err
	}

	items, err := s.items.FindByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, err
	}

	dtos := make([]ItemDTO, 0, len(items))
	for _, it := range items {
		dto, err := s.enrichItem(ctx, it, ownerID)
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, *dto)
	}
	return dtos, nil
}

// SearchItems retrieves available items matching the text. An empty text
// yields an empty result, not an error.
func (s *ItemService) SearchItems(ctx context.Context, text string, from, size int) ([]ItemDTO, error) {
	if text == "" {
		return []ItemDTO{}, nil
	}

	page, err := shared.PageFromOffset(from, size)
	if err != nil {
		return nil, err
	}

	items, err := s.items.Search(ctx, text, page)
	if err != nil {
		return nil, err
	}

	dtos := make([]ItemDTO, len(items))
	for i, it := range items {
		dtos[i] = s.baseItemDTO(it)
	}
	return dtos, nil
}

// DeleteItem removes an item; only the owner may delete it.
func (s *ItemService) DeleteItem(ctx context.Context, ownerID, itemID uuid.UUID) error {
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	if it.OwnerID() != ownerID {
		return shared.NewForbiddenError("only the owner can delete the item")
	}
	return s.items.Delete(ctx, itemID)
}

// CreateComment adds a review to an item. Only a user with a finished
// APPROVED booking of the item may comment.
func (s *ItemService) CreateComment(ctx context.Context, authorID, itemID uuid.UUID, req CreateCommentRequest) (*CommentDTO, error) {
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		return nil, err
	}

	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	qualifying, err := s.bookings.LastFinishedByItemAndBooker(ctx, itemID, authorID, now)
	if err != nil {
		return nil, err
	}
	if qualifying == nil {
		return nil, shared.NewValidationError("user has not completed a booking of this item")
	}

	comment, err := itemDomain.NewComment(itemID, authorID, author.Name(), req.Text, now)
	if err != nil {
		return nil, err
	}

	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	s.logger.Info("comment created",
		zap.String("item_id", itemID.String()),
		zap.String("author_id", authorID.String()),
	)

	dto := toCommentDTO(comment)
	return &dto, nil
}

// --- Helpers ---

func (s *ItemService) baseItemDTO(it *itemDomain.Item) ItemDTO {
	return ItemDTO{
		ID:          it.ID(),
		Name:        it.Name(),
		Description: it.Description(),
		Available:   it.Available(),
		OwnerID:     it.OwnerID(),
		RequestID:   it.RequestID(),
		Comments:    []CommentDTO{},
	}
}

func (s *ItemService) enrichItem(ctx context.Context, it *itemDomain.Item, callerID uuid.UUID) (*ItemDTO, error) {
	dto := s.baseItemDTO(it)

	comments, err := s.comments.FindByItemID(ctx, it.ID())
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		dto.Comments = append(dto.Comments, toCommentDTO(c))
	}

	// Booking references are owner-only.
	if callerID == it.OwnerID() {
		now := s.clock()
		last, err := s.bookings.LastApprovedByItem(ctx, it.ID(), now)
		if err != nil {
			return nil, err
		}
		if last != nil {
			dto.LastBooking = &BookingBrief{ID: last.ID(), BookerID: last.BookerID()}
		}
		next, err := s.bookings.NextApprovedByItem(ctx, it.ID(), now)
		if err != nil {
			return nil, err
		}
		if next != nil {
			dto.NextBooking = &BookingBrief{ID: next.ID(), BookerID: next.BookerID()}
		}
	}
	return &dto, nil
}

func toCommentDTO(c *itemDomain.Comment) CommentDTO {
	return CommentDTO{
		ID:         c.ID(),
		Text:       c.Text(),
		AuthorName: c.AuthorName(),
		Created:    c.CreatedAt(),
	}
}
