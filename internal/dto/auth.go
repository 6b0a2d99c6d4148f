package dto

// SignupRequest represents the request payload for user registration
type SignupRequest struct {
	Name            string  `json:"name" validate:"required,max=40"`
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirm string  `json:"passwordConfirm" validate:"required"`
	BirthDate       *string `json:"birthdate,omitempty"` // YYYY-MM-DD
}

// LoginRequest represents the request payload for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest represents the request payload for starting a password reset
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents the request payload for finishing a password reset
type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
}

// ChangePasswordRequest represents the request payload for changing the password
type ChangePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent" validate:"required"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// LoggedInResponse represents the response of the session check
type LoggedInResponse struct {
	LoggedIn bool          `json:"loggedIn"`
	User     *UserResponse `json:"user,omitempty"`
}

// MessageResponse carries a human readable confirmation
type MessageResponse struct {
	Message string `json:"message"`
}
