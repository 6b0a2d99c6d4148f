package dto

// FollowRequest represents the request payload for following a user
type FollowRequest struct {
	ToFollowID string `json:"toFollowId" validate:"required,uuid"`
}

// IsFollowingResponse reports whether the caller follows a user
type IsFollowingResponse struct {
	IsFollowing bool `json:"isFollowing"`
}
