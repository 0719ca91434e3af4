package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockRepository struct {
	mock.Mock
}

var _ Repository = (*mockRepository)(nil)

func (m *mockRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *mockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *mockRepository) FindAll(ctx context.Context) ([]*User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*User)
	return users, args.Error(1)
}

// Save returns the first Return value, or calls it when it is a func(*User) *User.
func (m *mockRepository) Save(ctx context.Context, user *User) (*User, error) {
	args := m.Called(ctx, user)
	if fn, ok := args.Get(0).(func(*User) *User); ok {
		return fn(user), args.Error(1)
	}
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *mockRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func echo(u *User) *User { return u.Clone() }
