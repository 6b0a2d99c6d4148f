package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"CREATESHARE_BACK-END/internal/dto"
	"CREATESHARE_BACK-END/internal/services"
	"CREATESHARE_BACK-END/internal/utils"
)

// PostHandler serves posts and the follow feed
type PostHandler struct {
	posts    *services.PostService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewPostHandler creates a new PostHandler instance
func NewPostHandler(posts *services.PostService, validate *validator.Validate, logger *zap.Logger) *PostHandler {
	return &PostHandler{posts: posts, validate: validate, logger: logger}
}

// Create publishes a post
// @Summary Create post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePostRequest true "Post"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/posts [post]
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	author, err := currentUserID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req dto.CreatePostRequest
	if err := decodeJSON(w, r, h.validate, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	post, err := h.posts.Create(r.Context(), author, req.Content, req.Image)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, post)
}

// ListAll lists every post
// @Summary List posts
// @Tags posts
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Param sort query string false "Default -createdAt"
// @Success 200 {object} dto.SuccessResponse
// @Router /api/v1/posts [get]
func (h *PostHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	page, err := h.posts.ListAll(r.Context(), r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writePage(w, r, h.logger, page)
}

// Get returns one post
// @Summary Get post
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/posts/{id} [get]
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, post)
}

// ListByUser lists the posts of one user
// @Summary User posts
// @Tags posts
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.SuccessResponse
// @Router /api/v1/posts/user/{id} [get]
func (h *PostHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	page, err := h.posts.ListByUser(r.Context(), id, r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writePage(w, r, h.logger, page)
}

// ListMine lists the current user's posts
// @Summary My posts
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Router /api/v1/posts/me [get]
func (h *PostHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	me, err := currentUserID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	page, err := h.posts.ListByUser(r.Context(), me, r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writePage(w, r, h.logger, page)
}

// Feed lists posts from followed users
// @Summary My feed
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Router /api/v1/posts/feed [get]
func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	me, err := currentUserID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	page, err := h.posts.Feed(r.Context(), me, r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writePage(w, r, h.logger, page)
}

// Delete removes one of the current user's posts
// @Summary Delete post
// @Tags posts
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/posts/{id} [delete]
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	me, err := currentUserID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.posts.Delete(r.Context(), me, id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
