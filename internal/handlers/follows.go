package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"CREATESHARE_BACK-END/internal/apperr"
	"CREATESHARE_BACK-END/internal/dto"
	"CREATESHARE_BACK-END/internal/models"
	"CREATESHARE_BACK-END/internal/services"
	"CREATESHARE_BACK-END/internal/utils"
)

// FollowHandler serves the follow graph
type FollowHandler struct {
	follows  *services.FollowService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewFollowHandler creates a new FollowHandler instance
func NewFollowHandler(follows *services.FollowService, validate *validator.Validate, logger *zap.Logger) *FollowHandler {
	return &FollowHandler{follows: follows, validate: validate, logger: logger}
}

// Follow makes the current user follow another user
// @Summary Follow a user
// @Tags follows
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.FollowRequest true "User to follow"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid target"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "Already following"
// @Router /api/v1/users/follow [post]
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUserID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req dto.FollowRequest
	if err := decodeJSON(w, r, h.validate, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	target, err := uuid.Parse(req.ToFollowID)
	if err != nil {
		writeError(w, r, h.logger, apperr.Validation("invalid toFollowId"))
		return
	}

	if err := h.follows.Follow(r.Context(), actor, target); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, dto.MessageResponse{Message: "now following " + target.String()})
}

// Unfollow removes a follow edge
// @Summary Unfollow a user
// @Tags follows
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 204
// @Router /api/v1/users/follow/{id} [delete]
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUserID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	target, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.follows.Unfollow(r.Context(), actor, target); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// IsFollowing reports whether the current user follows a user
// @Summary Check follow
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} dto.IsFollowingResponse
// @Router /api/v1/users/isfollowed/{id} [get]
func (h *FollowHandler) IsFollowing(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUserID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	target, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	ok, err := h.follows.IsFollowing(r.Context(), actor, target)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.IsFollowingResponse{IsFollowing: ok})
}

func (h *FollowHandler) serveList(w http.ResponseWriter, r *http.Request, userID uuid.UUID, followers bool) {
	var (
		page services.Page[models.FollowView]
		err  error
	)
	if followers {
		page, err = h.follows.ListFollowers(r.Context(), userID, r.URL.Query())
	} else {
		page, err = h.follows.ListFollowing(r.Context(), userID, r.URL.Query())
	}
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writePage(w, r, h.logger, page)
}

// MyFollowers lists who follows the current user
// @Summary My followers
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Param sort query string false "name, -name, followedAt, -followedAt"
// @Success 200 {object} dto.SuccessResponse
// @Router /api/v1/users/me/followers [get]
func (h *FollowHandler) MyFollowers(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUserID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.serveList(w, r, actor, true)
}

// MyFollowing lists who the current user follows
// @Summary My following
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Router /api/v1/users/me/following [get]
func (h *FollowHandler) MyFollowing(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUserID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.serveList(w, r, actor, false)
}

// UserFollowers lists who follows a user
// @Summary User followers
// @Tags follows
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/users/{id}/followers [get]
func (h *FollowHandler) UserFollowers(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.serveList(w, r, id, true)
}

// UserFollowing lists who a user follows
// @Summary User following
// @Tags follows
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/users/{id}/following [get]
func (h *FollowHandler) UserFollowing(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.serveList(w, r, id, false)
}
