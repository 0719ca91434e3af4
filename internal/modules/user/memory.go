package user

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
)

const usersTable = "users"

type userRecord struct {
	ID    string
	Email string
	User  *User
}

func memorySchema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			usersTable: {
				Name: usersTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					"email": {
						Name:    "email",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Email"},
					},
				},
			},
		},
	}
}

type memoryRepository struct {
	db          *memdb.MemDB
	nextPhoneID atomic.Int64
}

// NewMemoryRepository creates a user repository kept in process memory.
func NewMemoryRepository() (Repository, error) {
	db, err := memdb.NewMemDB(memorySchema())
	if err != nil {
		return nil, fmt.Errorf("failed to create memdb: %w", err)
	}
	return &memoryRepository{db: db}, nil
}

func (r *memoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.first("id", id.String())
}

func (r *memoryRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.first("email", email)
}

func (r *memoryRepository) first(index, value string) (*User, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(usersTable, index, value)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if raw == nil {
		return nil, ErrNotFound
	}
	return raw.(*userRecord).User.Clone(), nil
}

func (r *memoryRepository) FindAll(ctx context.Context) ([]*User, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(usersTable, "id")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := []*User{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		users = append(users, obj.(*userRecord).User.Clone())
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].Created.Before(users[j].Created)
	})
	return users, nil
}

// Save checks email ownership and writes inside one write transaction; memdb
// allows a single writer at a time.
func (r *memoryRepository) Save(ctx context.Context, user *User) (*User, error) {
	txn := r.db.Txn(true)
	defer txn.Abort()

	owner, err := txn.First(usersTable, "email", user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if owner != nil && owner.(*userRecord).ID != user.ID.String() {
		return nil, ErrDuplicateEmail
	}

	saved := user.Clone()
	existing, err := txn.First(usersTable, "id", saved.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if existing != nil {
		saved.Created = existing.(*userRecord).User.Created
	}
	for i := range saved.Phones {
		if saved.Phones[i].ID == 0 {
			saved.Phones[i].ID = r.nextPhoneID.Add(1)
		}
	}

	record := &userRecord{ID: saved.ID.String(), Email: saved.Email, User: saved}
	if err := txn.Insert(usersTable, record); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	txn.Commit()

	return saved.Clone(), nil
}

func (r *memoryRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	if _, err := txn.DeleteAll(usersTable, "id", id.String()); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	txn.Commit()
	return nil
}

func (r *memoryRepository) Ping(ctx context.Context) error {
	return nil
}
