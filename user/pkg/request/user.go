package request

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

type Register struct {
	Email     string `validate:"required,email" json:"email"`
	Password  string `validate:"required"       json:"password"`
	FirstName string `validate:"required"       json:"first_name"`
	LastName  string `validate:"required"       json:"last_name"`
}

func (r Register) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", r.Email).Str("first_name", r.FirstName).Str("last_name", r.LastName)
}

func (r Register) MarshalJSON() ([]byte, error) {
	r.Password = "***"
	type R Register
	return json.Marshal(R(r))
}

type Login struct {
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required"       json:"password"`
}

func (l Login) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", l.Email).Str("password", "***")
}

func (l Login) MarshalJSON() ([]byte, error) {
	l.Password = "***"
	type L Login
	return json.Marshal(L(l))
}

type UpdateDetails struct {
	Email     string `validate:"required,email" json:"email"`
	FirstName string `validate:"required"       json:"first_name"`
	LastName  string `validate:"required"       json:"last_name"`
}

type UpdatePassword struct {
	OldPassword string `validate:"required" json:"old_password"`
	NewPassword string `validate:"required" json:"new_password"`
}

func (u UpdatePassword) MarshalJSON() ([]byte, error) {
	u.OldPassword = "***"
	u.NewPassword = "***"
	type U UpdatePassword
	return json.Marshal(U(u))
}
