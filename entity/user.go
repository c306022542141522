package entity

import (
	"time"

	"reunion/lib/validate"
)

// User is an organizer account for the admin API, authenticated by a
// bearer token looked up in the users store.
type User struct {
	Username     string    `json:"username" bson:"username" validate:"required"`
	Name         string    `json:"name" bson:"name" validate:"omitempty"`
	Email        string    `json:"email" bson:"email" validate:"omitempty,emailshape"`
	Token        string    `json:"-" bson:"token" validate:"required,min=1"`
	RegisteredAt time.Time `json:"registered_at" bson:"registered_at"`
}

func (u *User) Validate() error {
	return validate.Struct(u)
}
