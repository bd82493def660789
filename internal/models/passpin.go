package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PassPin is a single-use login credential. Only the SHA-256 hash of
// the issued token is stored; the plaintext leaves the process exactly
// once, in the issue response. A row is mutated once (used=true) on
// redemption and never again.
type PassPin struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"userId"`
	HashedToken string             `bson:"token" json:"-"`
	ExpiresAt   time.Time          `bson:"expires_at" json:"expiresAt"`
	Used        bool               `bson:"used" json:"used"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

const (
	// PinLength is the number of characters in an issued pin.
	PinLength = 8
	// PinTTL is how long a pin stays redeemable after issuance.
	PinTTL = 10 * time.Minute
)
