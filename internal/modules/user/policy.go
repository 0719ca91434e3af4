package user

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

const policyMatchTimeout = time.Second

// Policy holds the configured email and password patterns. Both are matched
// against the whole input.
type Policy struct {
	password *regexp2.Regexp
	email    *regexp2.Regexp
}

func NewPolicy(passwordPattern, emailPattern string) (*Policy, error) {
	password, err := compileWhole(passwordPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid password pattern: %w", err)
	}
	email, err := compileWhole(emailPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid email pattern: %w", err)
	}
	return &Policy{password: password, email: email}, nil
}

func compileWhole(pattern string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(`\A(?:`+pattern+`)\z`, regexp2.None)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = policyMatchTimeout
	return re, nil
}

func (p *Policy) ValidEmail(email string) bool {
	return matches(p.email, email)
}

func (p *Policy) ValidPassword(password string) bool {
	return matches(p.password, password)
}

// matches treats a match timeout as a mismatch.
func matches(re *regexp2.Regexp, s string) bool {
	ok, err := re.MatchString(s)
	return err == nil && ok
}
