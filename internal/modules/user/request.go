package user

// PhoneRequest is a phone entry as received from clients.
type PhoneRequest struct {
	Number      string `json:"number" validate:"notblank"`
	CityCode    string `json:"citycode" validate:"notblank"`
	CountryCode string `json:"countrycode" validate:"notblank"`
}

// RegisterRequest is the payload of a registration.
type RegisterRequest struct {
	Name     string         `json:"name" validate:"notblank"`
	Email    string         `json:"email" validate:"notblank"`
	Password string         `json:"password" validate:"notblank"`
	Active   *bool          `json:"active,omitempty"`
	Phones   []PhoneRequest `json:"phones" validate:"dive"`
}

// UpdateRequest is a partial update. Fields left out of the payload keep
// their stored value.
type UpdateRequest struct {
	Name     Optional[string]         `json:"name"`
	Email    Optional[string]         `json:"email"`
	Password Optional[string]         `json:"password"`
	Active   Optional[bool]           `json:"active"`
	Phones   Optional[[]PhoneRequest] `json:"phones"`
}

func (p PhoneRequest) toPhone() Phone {
	return Phone{
		Number:      p.Number,
		CityCode:    p.CityCode,
		CountryCode: p.CountryCode,
	}
}

func toPhones(reqs []PhoneRequest) []Phone {
	phones := make([]Phone, 0, len(reqs))
	for _, p := range reqs {
		phones = append(phones, p.toPhone())
	}
	return phones
}
