package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"CREATESHARE_BACK-END/internal/apperr"
	"CREATESHARE_BACK-END/internal/middleware"
	"CREATESHARE_BACK-END/internal/models"
	"CREATESHARE_BACK-END/internal/query"
	"CREATESHARE_BACK-END/internal/repository"
	"CREATESHARE_BACK-END/internal/services"
)

type stubPosts struct {
	byID map[uuid.UUID]models.Post
}

func (s *stubPosts) Create(_ context.Context, p *models.Post) error {
	s.byID[p.ID] = *p
	return nil
}

func (s *stubPosts) GetByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, apperr.NotFound("post not found")
	}
	return &p, nil
}

func (s *stubPosts) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.byID, id)
	return nil
}

func (s *stubPosts) List(context.Context, repository.PostScope, query.Spec) ([]models.Post, error) {
	out := make([]models.Post, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, p)
	}
	return out, nil
}

func newPostRouter(posts *stubPosts, actor uuid.UUID) chi.Router {
	h := NewPostHandler(services.NewPostService(posts, query.Options{}), NewValidator(), zap.NewNop())
	as := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), &models.User{ID: actor, Active: true})))
		})
	}

	r := chi.NewRouter()
	r.With(as).Post("/posts", h.Create)
	r.With(as).Delete("/posts/{id}", h.Delete)
	r.Get("/posts", h.ListAll)
	r.Get("/posts/{id}", h.Get)
	return r
}

func TestCreatePost(t *testing.T) {
	posts := &stubPosts{byID: map[uuid.UUID]models.Post{}}
	r := newPostRouter(posts, uuid.New())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{"content":"  hello  "}`)))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, posts.byID, 1)
	for _, p := range posts.byID {
		assert.Equal(t, "hello", p.Content)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{"content":"   "}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeletePostOwnership(t *testing.T) {
	owner, stranger := uuid.New(), uuid.New()
	postID := uuid.New()
	posts := &stubPosts{byID: map[uuid.UUID]models.Post{postID: {ID: postID, UserID: owner, Content: "mine"}}}

	rec := httptest.NewRecorder()
	newPostRouter(posts, stranger).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/posts/"+postID.String(), nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, posts.byID, 1)

	rec = httptest.NewRecorder()
	newPostRouter(posts, owner).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/posts/"+postID.String(), nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, posts.byID)

	rec = httptest.NewRecorder()
	newPostRouter(posts, owner).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/posts/"+postID.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPostsRejectsUnknownField(t *testing.T) {
	posts := &stubPosts{byID: map[uuid.UUID]models.Post{}}
	rec := httptest.NewRecorder()
	newPostRouter(posts, uuid.New()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts?fields=password", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
