package dto

// CreatePostRequest represents the request payload for a new post
type CreatePostRequest struct {
	Content string  `json:"content" validate:"max=2000"`
	Image   *string `json:"image,omitempty" validate:"omitempty,max=255"`
}
