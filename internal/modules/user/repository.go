package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for user data storage.
//
// Save inserts or replaces the whole aggregate, phones included, and must
// reject an email owned by another user with ErrDuplicateEmail. Finders
// return ErrNotFound when nothing matches.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	Save(ctx context.Context, user *User) (*User, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
}
