package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/user-registry/internal/logger"
	"github.com/georgemunganga/user-registry/internal/modules/auth"
)

type service struct {
	repo     Repository
	tokens   auth.Service
	policy   *Policy
	validate *Validator
	cost     int
	log      *logger.Logger
	now      func() time.Time
}

// NewService creates a new user service. cost is the bcrypt work factor.
func NewService(repo Repository, tokens auth.Service, policy *Policy, cost int, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		tokens:   tokens,
		policy:   policy,
		validate: NewValidator(),
		cost:     cost,
		log:      log.With("service", "user"),
		now:      time.Now,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	if err := s.validateEmail(ctx, email); err != nil {
		return nil, err
	}
	if err := s.validatePassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.IssueToken(email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	now := s.now().UTC()
	user := &User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		Phones:       toPhones(req.Phones),
		Created:      now,
		Modified:     now,
		LastLogin:    now,
		Token:        token,
		IsActive:     true,
	}

	saved, err := s.save(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", "user_id", saved.ID, "phones", len(saved.Phones))
	return saved, nil
}

func (s *service) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to find user %s: %w", id, err)
	}
	return user, nil
}

func (s *service) FindAll(ctx context.Context) ([]*User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []*User{}
	}
	return users, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	phones, replacePhones := req.Phones.Get()
	if replacePhones {
		if err := s.validate.Phones(phones); err != nil {
			return nil, err
		}
	}

	if name, ok := req.Name.Get(); ok && strings.TrimSpace(name) != "" {
		user.Name = name
	}

	if raw, ok := req.Email.Get(); ok {
		email := normalizeEmail(raw)
		if email != user.Email {
			if err := s.validateEmail(ctx, email); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}

	if password, ok := req.Password.Get(); ok && strings.TrimSpace(password) != "" {
		if err := s.validatePassword(password); err != nil {
			return nil, err
		}
		hash, err := s.hashPassword(password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if active, ok := req.Active.Get(); ok {
		user.IsActive = active
	}

	if replacePhones {
		res := Reconcile(user.Phones, toPhones(phones), phoneNumber, mergePhone)
		user.Phones = res.Merged
		s.log.Debug("phones reconciled",
			"user_id", id,
			"updated", len(res.Updated),
			"added", len(res.Added),
			"removed", len(res.Removed),
		)
	}

	user.Modified = s.now().UTC()

	saved, err := s.save(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info("user updated", "user_id", saved.ID)
	return saved, nil
}

// Delete removes the user by id. Deleting an unknown id is not an error.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	s.log.Info("user deleted", "user_id", id)
	return nil
}

func (s *service) save(ctx context.Context, user *User) (*User, error) {
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, &EmailValidationError{Message: msgDuplicateEmail}
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return saved, nil
}

// validateEmail checks the format and that no user owns email yet. The
// repository enforces uniqueness again on save.
func (s *service) validateEmail(ctx context.Context, email string) error {
	if !s.policy.ValidEmail(email) {
		return &EmailValidationError{Message: msgInvalidEmail}
	}

	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return &EmailValidationError{Message: msgDuplicateEmail}
	case errors.Is(err, ErrNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check email: %w", err)
	}
}

func (s *service) validatePassword(password string) error {
	if !s.policy.ValidPassword(password) {
		return &PasswordValidationError{Message: msgInvalidPassword}
	}
	return nil
}

func (s *service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", &PasswordValidationError{Message: msgPasswordTooLong}
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// normalizeEmail makes email comparison case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
