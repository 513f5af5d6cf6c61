package response

import (
	"github.com/google/uuid"
)

type User struct {
	UserID                           uuid.UUID `json:"userId"`
	Name                             string    `json:"name"`
	Email                            string    `json:"email"`
	NumSuccessfulLogins              int32     `json:"numSuccessfulLogins"`
	NumFailedPasswordsSinceLastLogin int32     `json:"numFailedPasswordsSinceLastLogin"`
}
