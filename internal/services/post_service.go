package services

import (
	"context"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"CREATESHARE_BACK-END/internal/apperr"
	"CREATESHARE_BACK-END/internal/models"
	"CREATESHARE_BACK-END/internal/query"
	"CREATESHARE_BACK-END/internal/repository"
)

const maxPostLength = 2000

// PostService manages posts and the follow feed
type PostService struct {
	posts PostStore
	limit query.Options
}

// NewPostService creates a new PostService instance
func NewPostService(posts PostStore, limit query.Options) *PostService {
	return &PostService{posts: posts, limit: limit}
}

// Create stores a post by author. A post needs text or an image.
func (s *PostService) Create(ctx context.Context, author uuid.UUID, content string, image *string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if image != nil {
		trimmed := strings.TrimSpace(*image)
		image = &trimmed
		if trimmed == "" {
			image = nil
		}
	}
	if content == "" && image == nil {
		return nil, apperr.Validation("a post needs content or an image")
	}
	if utf8.RuneCountInString(content) > maxPostLength {
		return nil, apperr.Validation("a post must have less or equal than 2000 characters")
	}

	p := &models.Post{ID: uuid.New(), UserID: author, Content: content, Image: image}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, p.ID)
}

// Get returns one post
func (s *PostService) Get(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// ListAll lists posts of every active user
func (s *PostService) ListAll(ctx context.Context, params url.Values) (Page[models.Post], error) {
	return s.list(ctx, repository.PostScope{}, params)
}

// ListByUser lists posts written by userID
func (s *PostService) ListByUser(ctx context.Context, userID uuid.UUID, params url.Values) (Page[models.Post], error) {
	return s.list(ctx, repository.PostScope{AuthorID: &userID}, params)
}

// Feed lists posts written by the users viewer follows
func (s *PostService) Feed(ctx context.Context, viewer uuid.UUID, params url.Values) (Page[models.Post], error) {
	return s.list(ctx, repository.PostScope{FollowerID: &viewer}, params)
}

// Delete removes a post owned by actor
func (s *PostService) Delete(ctx context.Context, actor, postID uuid.UUID) error {
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if p.UserID != actor {
		return apperr.Unauthorized("you can only delete your own posts")
	}
	return s.posts.Delete(ctx, postID)
}

func (s *PostService) list(ctx context.Context, scope repository.PostScope, params url.Values) (Page[models.Post], error) {
	spec, fields, err := parseListing(params, s.limit, "-createdAt", repository.PostListSchema)
	if err != nil {
		return Page[models.Post]{}, err
	}
	posts, err := s.posts.List(ctx, scope, spec)
	if err != nil {
		return Page[models.Post]{}, err
	}
	return Page[models.Post]{Items: posts, Page: spec.Page, Limit: spec.Limit, Fields: fields}, nil
}
