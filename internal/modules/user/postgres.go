package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

const selectUsers = `
		SELECT id, name, email, password_hash, is_active, token, created_at, modified_at, last_login_at
		FROM users
	`

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.IsActive,
		&user.Token,
		&user.Created,
		&user.Modified,
		&user.LastLogin,
	)
	if err != nil {
		return nil, err
	}
	user.Phones = []Phone{}
	return user, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.findOne(ctx, selectUsers+"WHERE id = $1", id)
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, selectUsers+"WHERE email = $1", email)
}

func (r *postgresRepository) findOne(ctx context.Context, query string, arg any) (*User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	phones, err := r.phonesOf(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Phones = phones
	return user, nil
}

func (r *postgresRepository) phonesOf(ctx context.Context, userID uuid.UUID) ([]Phone, error) {
	query := `
		SELECT id, number, city_code, country_code
		FROM phones
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get phones: %w", err)
	}
	defer rows.Close()

	phones := []Phone{}
	for rows.Next() {
		var p Phone
		if err := rows.Scan(&p.ID, &p.Number, &p.CityCode, &p.CountryCode); err != nil {
			return nil, fmt.Errorf("failed to scan phone: %w", err)
		}
		phones = append(phones, p)
	}
	return phones, rows.Err()
}

func (r *postgresRepository) FindAll(ctx context.Context) ([]*User, error) {
	rows, err := r.db.QueryContext(ctx, selectUsers+"ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*User{}
	byID := make(map[uuid.UUID]*User)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
		byID[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		return users, nil
	}

	phoneRows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, number, city_code, country_code
		FROM phones
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list phones: %w", err)
	}
	defer phoneRows.Close()

	for phoneRows.Next() {
		var (
			p      Phone
			userID uuid.UUID
		)
		if err := phoneRows.Scan(&p.ID, &userID, &p.Number, &p.CityCode, &p.CountryCode); err != nil {
			return nil, fmt.Errorf("failed to scan phone: %w", err)
		}
		if user, ok := byID[userID]; ok {
			user.Phones = append(user.Phones, p)
		}
	}
	if err := phoneRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list phones: %w", err)
	}

	return users, nil
}

// Save upserts the user row and brings its phones in line with user.Phones
// inside one transaction.
func (r *postgresRepository) Save(ctx context.Context, user *User) (*User, error) {
	saved := user.Clone()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	upsert := `
		INSERT INTO users (id, name, email, password_hash, is_active, token, created_at, modified_at, last_login_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			is_active = EXCLUDED.is_active,
			token = EXCLUDED.token,
			modified_at = EXCLUDED.modified_at,
			last_login_at = EXCLUDED.last_login_at
	`
	_, err = tx.ExecContext(ctx, upsert,
		saved.ID, saved.Name, saved.Email, saved.PasswordHash, saved.IsActive, saved.Token,
		saved.Created, saved.Modified, saved.LastLogin,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	keep := make([]int64, 0, len(saved.Phones))
	for _, p := range saved.Phones {
		if p.ID != 0 {
			keep = append(keep, p.ID)
		}
	}
	_, err = tx.ExecContext(ctx,
		`DELETE FROM phones WHERE user_id = $1 AND NOT (id = ANY($2))`,
		saved.ID, pq.Array(keep),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to prune phones: %w", err)
	}

	for i := range saved.Phones {
		p := &saved.Phones[i]
		if p.ID == 0 {
			err = tx.QueryRowContext(ctx,
				`INSERT INTO phones (user_id, number, city_code, country_code) VALUES ($1, $2, $3, $4) RETURNING id`,
				saved.ID, p.Number, p.CityCode, p.CountryCode,
			).Scan(&p.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to insert phone: %w", err)
			}
			continue
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE phones SET number = $1, city_code = $2, country_code = $3 WHERE id = $4 AND user_id = $5`,
			p.Number, p.CityCode, p.CountryCode, p.ID, saved.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update phone: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to commit user: %w", err)
	}

	return saved, nil
}

// DeleteByID removes the user; phones go with it through ON DELETE CASCADE.
func (r *postgresRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (r *postgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
