package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"CREATESHARE_BACK-END/internal/dto"
	"CREATESHARE_BACK-END/internal/services"
	"CREATESHARE_BACK-END/internal/utils"
)

const resetPath = "/api/v1/users/resetpassword"

// ForgotPasswordHandler handles the password reset flow
type ForgotPasswordHandler struct {
	auth      *services.AuthService
	cookie    CookieConfig
	publicURL string
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewForgotPasswordHandler creates a new ForgotPasswordHandler instance.
// publicURL is the externally visible base URL; when empty it is derived
// from the request.
func NewForgotPasswordHandler(auth *services.AuthService, cookie CookieConfig, publicURL string, validate *validator.Validate, logger *zap.Logger) *ForgotPasswordHandler {
	return &ForgotPasswordHandler{
		auth:      auth,
		cookie:    cookie,
		publicURL: strings.TrimRight(publicURL, "/"),
		validate:  validate,
		logger:    logger,
	}
}

func (h *ForgotPasswordHandler) resetURLBase(r *http.Request) string {
	if h.publicURL != "" {
		return h.publicURL + resetPath
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + resetPath
}

// ForgotPassword emails a reset link
// @Summary Request password reset
// @Description Email a single-use reset link valid for 10 minutes. The response is the same whether or not the email is registered.
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Email address"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /api/v1/users/forgotpassword [post]
func (h *ForgotPasswordHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := decodeJSON(w, r, h.validate, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.auth.RequestPasswordReset(r.Context(), req.Email, h.resetURLBase(r)); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.MessageResponse{
		Message: "If that email is registered, a reset link has been sent",
	})
}

// ResetPassword sets a new password using a reset token
// @Summary Reset password
// @Tags authentication
// @Accept json
// @Produce json
// @Param token path string true "Reset token from the email"
// @Param request body dto.ResetPasswordRequest true "New password"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid data or expired token"
// @Failure 401 {object} dto.ErrorResponse "Invalid token"
// @Router /api/v1/users/resetpassword/{token} [patch]
func (h *ForgotPasswordHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req dto.ResetPasswordRequest
	if err := decodeJSON(w, r, h.validate, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, session, err := h.auth.ResetPassword(r.Context(), token, req.Password, req.PasswordConfirm)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	setSessionCookie(w, h.cookie, session, time.Now())
	utils.WriteSuccess(w, http.StatusOK, dto.AuthResponse{Token: session, User: dto.NewUserResponse(user)})
}
