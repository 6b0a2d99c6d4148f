package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"CREATESHARE_BACK-END/internal/apperr"
	"CREATESHARE_BACK-END/internal/dto"
	"CREATESHARE_BACK-END/internal/query"
	"CREATESHARE_BACK-END/internal/services"
	"CREATESHARE_BACK-END/internal/utils"
)

// UserHandler serves profile reads and updates
type UserHandler struct {
	users    *services.UserService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(users *services.UserService, validate *validator.Validate, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, validate: validate, logger: logger}
}

// ListUsers lists active users
// @Summary List users
// @Description Filter with field=value or field[gte|gt|lte|lt]=value, sort with sort=-createdAt,name, page with page and limit (max 100), project with fields=name,bio
// @Tags users
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 100, max 100)"
// @Param sort query string false "Sort fields, prefix with - for descending"
// @Param fields query string false "Fields to return"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.users.ListUsers(r.Context(), r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writePage(w, r, h.logger, page)
}

// GetMe returns the current user's account
// @Summary Get my account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/users/me [get]
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.users.GetMe(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.NewUserResponse(user))
}

// GetUser returns the public profile of a user
// @Summary Get user profile
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	profile, err := h.users.GetProfile(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, profile)
}

// UpdateMe changes name, email or birthdate
// @Summary Update my account
// @Description Only name, email and birthdate can be changed here. Use /me/updatepassword for passwords.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateMeRequest true "Fields to change"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/users/me/update [patch]
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req dto.UpdateMeRequest
	if err := decodeJSON(w, r, h.validate, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if req.Password != "" || req.PasswordConfirm != "" {
		writeError(w, r, h.logger, apperr.Validation("this route is not for password updates, please use /me/updatepassword"))
		return
	}

	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.users.UpdateMe(r.Context(), userID, services.UpdateMeInput{
		Name:      req.Name,
		Email:     req.Email,
		BirthDate: birthDate,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.NewUserResponse(user))
}

// UpdateBio replaces the current user's bio
// @Summary Update my bio
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateBioRequest true "Bio"
// @Success 200 {object} dto.UserResponse
// @Router /api/v1/users/me/updatebio [patch]
func (h *UserHandler) UpdateBio(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req dto.UpdateBioRequest
	if err := decodeJSON(w, r, h.validate, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.users.UpdateBio(r.Context(), userID, req.Bio)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.NewUserResponse(user))
}

// UpdatePhoto records a new profile image reference
// @Summary Update my photo
// @Description Stores the reference of an image already processed by the media service
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdatePhotoRequest true "Image reference"
// @Success 200 {object} dto.UserResponse
// @Router /api/v1/users/me/photo [patch]
func (h *UserHandler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req dto.UpdatePhotoRequest
	if err := decodeJSON(w, r, h.validate, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.users.UpdatePhoto(r.Context(), userID, req.Photo)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.NewUserResponse(user))
}

// writePage renders a listing, applying the requested projection
func writePage[T any](w http.ResponseWriter, r *http.Request, logger *zap.Logger, page services.Page[T]) {
	items, err := query.Project(page.Items, page.Fields)
	if err != nil {
		writeError(w, r, logger, apperr.Internal("project fields", err))
		return
	}
	utils.WriteList(w, len(items), items)
}
