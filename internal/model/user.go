package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Closed role enumeration. Every user document carries exactly one of these;
// documents created without a role default to RoleUser.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is a document in the `users` collection. The password hash is stored
// but never serialized to JSON; presentation layers only ever see the
// PublicIdentity projection below.
//
// Fields:
//  ID           – Mongo ObjectID (_id).
//  Email        – unique login key, stored lowercased and trimmed.
//  DisplayName  – presentation name, not an identity key.
//  PasswordHash – bcrypt digest of the password, never the plaintext.
//  Role         – RoleAdmin or RoleUser.
//  CreatedAt    – set at insert.
//  UpdatedAt    – bumped on every mutation.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	DisplayName  string             `bson:"display_name" json:"display_name"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         string             `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// PublicIdentity is the renderer-safe projection of a User. It is built fresh
// per request and holds exactly these four fields; in particular it can never
// carry the password hash, whatever extra fields the source document has.
type PublicIdentity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

// Public projects the user onto its four-field public view.
func (u *User) Public() *PublicIdentity {
	return &PublicIdentity{
		ID:          u.ID.Hex(),
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Role:        u.Role,
	}
}
