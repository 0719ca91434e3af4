package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_Defaults(t *testing.T) {
	p, err := NewPolicy(testPasswordPattern, testEmailPattern)
	require.NoError(t, err)

	assert.True(t, p.ValidPassword("P@ssw0rd123"))
	assert.False(t, p.ValidPassword("password"))
	assert.True(t, p.ValidEmail("jerry@mail.com"))
	assert.False(t, p.ValidEmail("jerry@mail"))
}

func TestPolicy_MatchesWholeInput(t *testing.T) {
	p, err := NewPolicy(`[a-z]+`, `[a-z]+@[a-z]+\.com`)
	require.NoError(t, err)

	assert.True(t, p.ValidPassword("abc"))
	assert.False(t, p.ValidPassword("abc1"))
	assert.True(t, p.ValidEmail("a@b.com"))
	assert.False(t, p.ValidEmail("x a@b.com y"))
}

func TestPolicy_InvalidPattern(t *testing.T) {
	_, err := NewPolicy(`(`, testEmailPattern)
	assert.ErrorContains(t, err, "password pattern")

	_, err = NewPolicy(testPasswordPattern, `[`)
	assert.ErrorContains(t, err, "email pattern")
}
