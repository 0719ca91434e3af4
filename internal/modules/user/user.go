package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user together with the phones it owns.
// @Description User information
// @Description with id, name, email, phones, created, modified, last_login, token and is_active
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phones       []Phone   `json:"phones"`
	Created      time.Time `json:"created"`
	Modified     time.Time `json:"modified"`
	LastLogin    time.Time `json:"last_login"`
	Token        string    `json:"token"`
	IsActive     bool      `json:"is_active"`
}

// Phone is a phone number owned by exactly one user.
type Phone struct {
	ID          int64  `json:"-"`
	Number      string `json:"number"`
	CityCode    string `json:"citycode"`
	CountryCode string `json:"countrycode"`
}

// Clone returns a deep copy of u.
func (u *User) Clone() *User {
	c := *u
	c.Phones = make([]Phone, len(u.Phones))
	copy(c.Phones, u.Phones)
	return &c
}

func phoneNumber(p Phone) string { return p.Number }

// mergePhone keeps the identity of current and takes the codes from incoming.
func mergePhone(current, incoming Phone) Phone {
	current.Number = incoming.Number
	current.CityCode = incoming.CityCode
	current.CountryCode = incoming.CountryCode
	return current
}
