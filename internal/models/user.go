package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is created on the first pin request for a new username and is
// never deleted by this service.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username" validate:"required,min=3,max=50,username"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// HasPassword reports whether the user set a persistent password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
