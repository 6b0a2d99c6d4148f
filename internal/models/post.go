package models

import (
	"time"

	"github.com/google/uuid"
)

// Post represents a user post
type Post struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	Content   string     `json:"content" db:"content"`
	Image     *string    `json:"image,omitempty" db:"image"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	Author    PublicUser `json:"author"`
}
