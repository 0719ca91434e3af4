package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token fails signature or claim checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the registered claims carried by an issued token.
type Claims = jwt.RegisteredClaims

// Service defines the interface for issuing and verifying user tokens.
type Service interface {
	IssueToken(subject string) (string, error)
	VerifyToken(token string) (*Claims, error)
}
