package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge: FollowerID follows FolloweeID
type Follow struct {
	FollowerID uuid.UUID `json:"follower_id" db:"follower_id"`
	FolloweeID uuid.UUID `json:"followee_id" db:"followee_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// FollowView is a follow edge joined with the public columns of the other party
type FollowView struct {
	PublicUser
	FollowedAt time.Time `json:"followed_at"`
}
