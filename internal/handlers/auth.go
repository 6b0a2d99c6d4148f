package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"CREATESHARE_BACK-END/internal/dto"
	"CREATESHARE_BACK-END/internal/middleware"
	"CREATESHARE_BACK-END/internal/services"
	"CREATESHARE_BACK-END/internal/utils"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	auth     *services.AuthService
	cookie   CookieConfig
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(auth *services.AuthService, cookie CookieConfig, validate *validator.Validate, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie, validate: validate, logger: logger}
}

func (h *AuthHandler) respondWithSession(w http.ResponseWriter, status int, token string, resp dto.UserResponse) {
	setSessionCookie(w, h.cookie, token, time.Now())
	utils.WriteSuccess(w, status, dto.AuthResponse{Token: token, User: resp})
}

// Signup handles user registration
// @Summary Register a new user
// @Description Create a new account and start a session
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "User registration data"
// @Success 201 {object} dto.AuthResponse "User created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/v1/users/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := decodeJSON(w, r, h.validate, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, token, err := h.auth.Signup(r.Context(), services.SignupInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		BirthDate:       birthDate,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.respondWithSession(w, http.StatusCreated, token, dto.NewUserResponse(user))
}

// Login handles user login
// @Summary Login user
// @Description Authenticate user with email and password
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /api/v1/users/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, h.validate, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.respondWithSession(w, http.StatusOK, token, dto.NewUserResponse(user))
}

// Logout overwrites the session cookie
// @Summary Logout user
// @Tags authentication
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Router /api/v1/users/logout [get]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, h.cookie, time.Now())
	utils.WriteJSONResponse(w, http.StatusOK, dto.SuccessResponse{Status: "success"})
}

// LoggedIn reports whether the request carries a valid session
// @Summary Check session
// @Tags authentication
// @Produce json
// @Success 200 {object} dto.LoggedInResponse
// @Router /api/v1/users/loggedin [get]
func (h *AuthHandler) LoggedIn(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.WriteSuccess(w, http.StatusOK, dto.LoggedInResponse{LoggedIn: false})
		return
	}
	resp := dto.NewUserResponse(user)
	utils.WriteSuccess(w, http.StatusOK, dto.LoggedInResponse{LoggedIn: true, User: &resp})
}

// ChangePassword updates the password of the current user
// @Summary Change password
// @Description Verify the current password, set a new one and issue a fresh session
// @Tags authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "Passwords"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/users/me/updatepassword [patch]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req dto.ChangePasswordRequest
	if err := decodeJSON(w, r, h.validate, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, token, err := h.auth.ChangePassword(r.Context(), userID, req.PasswordCurrent, req.Password, req.PasswordConfirm)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.respondWithSession(w, http.StatusOK, token, dto.NewUserResponse(user))
}
