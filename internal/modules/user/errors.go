package user

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by repositories when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned by repositories when another user already
	// owns the email being saved.
	ErrDuplicateEmail = errors.New("email already registered")
)

const (
	msgInvalidEmail    = "email has an invalid format"
	msgDuplicateEmail  = "email already registered"
	msgInvalidPassword = "password must be at least 8 characters long and include an uppercase letter, " +
		"a lowercase letter, a digit and a special character"
	msgPasswordTooLong = "password must not exceed 72 bytes"
)

// EmailValidationError reports a malformed or already registered email.
type EmailValidationError struct {
	Message string
}

func (e *EmailValidationError) Error() string { return e.Message }

// PasswordValidationError reports a password that fails the policy.
type PasswordValidationError struct {
	Message string
}

func (e *PasswordValidationError) Error() string { return e.Message }

// NotFoundError reports an unknown user id on read or update.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("user not found with id: %s", e.ID)
}

// FieldErrors maps request field paths to what is wrong with them.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
