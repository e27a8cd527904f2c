package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account.
type User struct {
	// ID is the unique identifier of the user.
	ID primitive.ObjectID `json:"id" bson:"_id,omitempty"`

	// Username is the unique login name chosen by the user.
	Username string `json:"username" bson:"username"`

	// Email is the user's email address, unique across the store.
	Email string `json:"email" bson:"email"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" bson:"password"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
