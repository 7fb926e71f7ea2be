package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthToken is one entry in a user's token set.  A token is valid for as
// long as it remains in the set; logout removes it, logoutAll clears the
// whole set.  Tokens never appear in JSON responses.
type AuthToken struct {
	Token string `bson:"token" json:"-"`
}

// User represents an application user document in the `users` collection.
// The password hash, the token set and the avatar bytes are internal state
// and are stripped from JSON responses.
//
// Fields:
//
//	ID        – document id.
//	Name      – display name.
//	Email     – unique email address (lowercased on write).
//	Age       – optional, positive when set.
//	Password  – bcrypt hash, never the plaintext.
//	Tokens    – currently valid auth tokens (multi-device).
//	Avatar    – normalized PNG bytes, empty when no avatar is set.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Age       int                `bson:"age,omitempty" json:"age,omitempty"`
	Password  string             `bson:"password" json:"-"`
	Tokens    []AuthToken        `bson:"tokens" json:"-"`
	Avatar    []byte             `bson:"avatar,omitempty" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
