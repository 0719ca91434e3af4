package user

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for user-related business logic.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
