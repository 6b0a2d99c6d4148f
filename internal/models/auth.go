package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultPhoto is the image reference given to new accounts
const DefaultPhoto = "user.jpeg"

// User represents a user in the system
type User struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	Email               string     `json:"email" db:"email"`
	PasswordHash        string     `json:"-" db:"password_hash"` // Hidden from JSON responses
	ResetTokenDigest    *string    `json:"-" db:"reset_token_digest"`
	ResetTokenExpiresAt *time.Time `json:"-" db:"reset_token_expires_at"`
	PasswordChangedAt   *time.Time `json:"-" db:"password_changed_at"`
	Name                string     `json:"name" db:"name"`
	BirthDate           *time.Time `json:"birthdate,omitempty" db:"birthdate"`
	Bio                 string     `json:"bio" db:"bio"`
	Photo               string     `json:"photo" db:"photo"`
	Active              bool       `json:"-" db:"active"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
}

// Public returns the projection of the user that other users may see
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Bio: u.Bio, Photo: u.Photo}
}

// PublicUser is the set of user columns exposed in listings
type PublicUser struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Name  string    `json:"name" db:"name"`
	Bio   string    `json:"bio" db:"bio"`
	Photo string    `json:"photo" db:"photo"`
}

// UserUpdate carries the allow-listed profile fields. Nil means unchanged.
type UserUpdate struct {
	Name      *string
	Email     *string
	BirthDate *time.Time
	Bio       *string
	Photo     *string
}
