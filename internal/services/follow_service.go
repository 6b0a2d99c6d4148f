package services

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"CREATESHARE_BACK-END/internal/apperr"
	"CREATESHARE_BACK-END/internal/models"
	"CREATESHARE_BACK-END/internal/query"
	"CREATESHARE_BACK-END/internal/repository"
)

// FollowService maintains the follow graph
type FollowService struct {
	follows FollowStore
	users   UserStore
	limit   query.Options
}

// NewFollowService creates a new FollowService instance
func NewFollowService(follows FollowStore, users UserStore, limit query.Options) *FollowService {
	return &FollowService{follows: follows, users: users, limit: limit}
}

// Follow makes actor follow target. Self-follows are rejected before any
// storage access; duplicates surface as ErrAlreadyFollowing, including
// when two requests race.
func (s *FollowService) Follow(ctx context.Context, actor, target uuid.UUID) error {
	if actor == target {
		return apperr.ErrInvalidTarget
	}
	return s.follows.Insert(ctx, actor, target)
}

// Unfollow removes the edge; unfollowing someone not followed succeeds
func (s *FollowService) Unfollow(ctx context.Context, actor, target uuid.UUID) error {
	return s.follows.Delete(ctx, actor, target)
}

// IsFollowing reports whether actor follows target
func (s *FollowService) IsFollowing(ctx context.Context, actor, target uuid.UUID) (bool, error) {
	if actor == target {
		return false, nil
	}
	return s.follows.Exists(ctx, actor, target)
}

// ListFollowers lists who follows userID
func (s *FollowService) ListFollowers(ctx context.Context, userID uuid.UUID, params url.Values) (Page[models.FollowView], error) {
	return s.list(ctx, userID, params, s.follows.ListFollowers)
}

// ListFollowing lists who userID follows
func (s *FollowService) ListFollowing(ctx context.Context, userID uuid.UUID, params url.Values) (Page[models.FollowView], error) {
	return s.list(ctx, userID, params, s.follows.ListFollowing)
}

type followLister func(ctx context.Context, userID uuid.UUID, spec query.Spec) ([]models.FollowView, error)

func (s *FollowService) list(ctx context.Context, userID uuid.UUID, params url.Values, fetch followLister) (Page[models.FollowView], error) {
	spec, fields, err := parseListing(params, s.limit, "name", repository.FollowListSchema)
	if err != nil {
		return Page[models.FollowView]{}, err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return Page[models.FollowView]{}, err
	}
	if !u.Active {
		return Page[models.FollowView]{}, apperr.NotFound("user not found")
	}

	views, err := fetch(ctx, userID, spec)
	if err != nil {
		return Page[models.FollowView]{}, err
	}
	return Page[models.FollowView]{Items: views, Page: spec.Page, Limit: spec.Limit, Fields: fields}, nil
}
