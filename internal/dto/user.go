package dto

import (
	"time"

	"CREATESHARE_BACK-END/internal/models"
)

// UserResponse represents the owner's view of their account
type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	BirthDate *string `json:"birthdate,omitempty"`
	Bio       string  `json:"bio"`
	Photo     string  `json:"photo"`
	CreatedAt string  `json:"created_at"`
}

// NewUserResponse converts a user model to its response form
func NewUserResponse(u *models.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		Bio:       u.Bio,
		Photo:     u.Photo,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
	if u.BirthDate != nil {
		d := u.BirthDate.Format("2006-01-02")
		resp.BirthDate = &d
	}
	return resp
}

// UpdateMeRequest is the allow-list for PATCH /me/update. Password fields
// are decoded only so they can be refused.
type UpdateMeRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1,max=40"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	BirthDate       *string `json:"birthdate,omitempty"`
	Password        string  `json:"password,omitempty"`
	PasswordConfirm string  `json:"passwordConfirm,omitempty"`
}

// UpdateBioRequest represents the request payload for PATCH /me/updatebio
type UpdateBioRequest struct {
	Bio string `json:"bio" validate:"max=500"`
}

// UpdatePhotoRequest records an already stored image reference
type UpdatePhotoRequest struct {
	Photo string `json:"photo" validate:"required,max=255"`
}
