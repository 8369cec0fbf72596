package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/shareit-platform/service-sharing/internal/domain/shared"
)

// User is a registered participant: an item owner, a booker, or both.
type User struct {
	id        uuid.UUID
	name      string
	email     string
	createdAt time.Time
	updatedAt time.Time
}

// NewUser creates a new User.
func NewUser(name, email string) (*User, error) {
	if name == "" {
		return nil, shared.NewValidationError("user name is required")
	}
	if email == "" {
		return nil, shared.NewValidationError("user email is required")
	}
	now := time.Now().UTC()
	return &User{
		id:        uuid.New(),
		name:      name,
		email:     email,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructUser rebuilds a User from persistence data (no validation).
func ReconstructUser(id uuid.UUID, name, email string, createdAt, updatedAt time.Time) *User {
	return &User{
		id:        id,
		name:      name,
		email:     email,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the user's unique identifier.
func (u *User) ID() uuid.UUID { return u.id }

// Name returns the user's display name.
func (u *User) Name() string { return u.name }

// Email returns the user's email address.
func (u *User) Email() string { return u.email }

// CreatedAt returns the creation timestamp.
func (u *User) CreatedAt() time.Time { return u.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// ApplyUpdate patches the user with the provided fields; nil means unchanged.
func (u *User) ApplyUpdate(name, email *string) error {
	if name != nil {
		if *name == "" {
			return shared.NewValidationError("user name must not be empty")
		}
		u.name = *name
	}
	if email != nil {
		if *email == "" {
			return shared.NewValidationError("user email must not be empty")
		}
		u.email = *email
	}
	u.updatedAt = time.Now().UTC()
	return nil
}
