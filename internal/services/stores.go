// Package services holds the business rules of the API. Services depend on
// the storage interfaces below, satisfied by internal/repository in
// production and by in-memory fakes in tests.
package services

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"CREATESHARE_BACK-END/internal/models"
	"CREATESHARE_BACK-END/internal/query"
	"CREATESHARE_BACK-END/internal/repository"
)

// UserStore persists users
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetDigest(ctx context.Context, digest string) (*models.User, error)
	SaveResetToken(ctx context.Context, u *models.User) error
	UpdateCredentials(ctx context.Context, u *models.User, expectDigest *string) error
	UpdateProfile(ctx context.Context, id uuid.UUID, upd models.UserUpdate) (*models.User, error)
	List(ctx context.Context, spec query.Spec) ([]models.PublicUser, error)
}

// FollowStore persists follow edges
type FollowStore interface {
	Insert(ctx context.Context, follower, followee uuid.UUID) error
	Delete(ctx context.Context, follower, followee uuid.UUID) error
	Exists(ctx context.Context, follower, followee uuid.UUID) (bool, error)
	ListFollowers(ctx context.Context, userID uuid.UUID, spec query.Spec) ([]models.FollowView, error)
	ListFollowing(ctx context.Context, userID uuid.UUID, spec query.Spec) ([]models.FollowView, error)
}

// PostStore persists posts
type PostStore interface {
	Create(ctx context.Context, p *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, scope repository.PostScope, spec query.Spec) ([]models.Post, error)
}

// Page is one page of a listing. Fields are the JSON keys the caller asked
// to keep; empty means all.
type Page[T any] struct {
	Items  []T
	Page   int
	Limit  int
	Fields []string
}

// parseListing turns request parameters into a Spec for schema, using
// defaultSort when the request names none.
func parseListing(params url.Values, base query.Options, defaultSort string, schema query.Schema) (query.Spec, []string, error) {
	opts := base
	opts.DefaultSort = defaultSort
	spec, err := query.Parse(params, opts)
	if err != nil {
		return query.Spec{}, nil, err
	}
	// Rejects unknown filters and sorts before any lookup. Repositories
	// compile again with their own argument offsets.
	if _, err := query.Compile(spec, schema, 1); err != nil {
		return query.Spec{}, nil, err
	}
	fields, err := schema.Keys(spec.Fields)
	if err != nil {
		return query.Spec{}, nil, err
	}
	return spec, fields, nil
}

var (
	_ UserStore   = (*repository.UserRepository)(nil)
	_ FollowStore = (*repository.FollowRepository)(nil)
	_ PostStore   = (*repository.PostRepository)(nil)
)
