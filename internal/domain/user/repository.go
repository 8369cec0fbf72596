package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for users.
type Repository interface {
	ExistenceChecker

	// FindByID retrieves a user by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByIDs retrieves the users with the given identifiers.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*User, error)

	// FindAll retrieves every user.
	FindAll(ctx context.Context) ([]*User, error)

	// ExistsByEmail reports whether another user already claims the email.
	ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)

	// Save persists a new user.
	Save(ctx context.Context, u *User) error

	// Update persists changes to an existing user.
	Update(ctx context.Context, u *User) error

	// Delete removes a user.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExistenceChecker is the narrow capability other modules need when they
// only have to know whether a caller is registered.
type ExistenceChecker interface {
	// ExistsByID reports whether a user with the given identifier exists.
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}
