package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"CREATESHARE_BACK-END/internal/apperr"
	"CREATESHARE_BACK-END/internal/models"
	"CREATESHARE_BACK-END/internal/query"
	"CREATESHARE_BACK-END/internal/repository"
)

// UpdateMeInput is the allow-list of account fields a user may change
type UpdateMeInput struct {
	Name      *string
	Email     *string
	BirthDate *time.Time
}

// UserService reads and updates user profiles
type UserService struct {
	users UserStore
	limit query.Options
}

// NewUserService creates a new UserService instance
func NewUserService(users UserStore, limit query.Options) *UserService {
	return &UserService{users: users, limit: limit}
}

// GetMe returns the full account of the caller
func (s *UserService) GetMe(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetProfile returns the public profile of an active user
func (s *UserService) GetProfile(ctx context.Context, id uuid.UUID) (models.PublicUser, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.PublicUser{}, err
	}
	if !u.Active {
		return models.PublicUser{}, apperr.NotFound("user not found")
	}
	return u.Public(), nil
}

// UpdateMe applies name, email and birthdate changes
func (s *UserService) UpdateMe(ctx context.Context, id uuid.UUID, in UpdateMeInput) (*models.User, error) {
	upd := models.UserUpdate{BirthDate: in.BirthDate}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := checkName(name); err != nil {
			return nil, err
		}
		upd.Name = &name
	}
	if in.Email != nil {
		email := NormalizeEmail(*in.Email)
		if email == "" {
			return nil, apperr.Validation("please provide your email")
		}
		upd.Email = &email
	}
	if upd.Name == nil && upd.Email == nil && upd.BirthDate == nil {
		return nil, apperr.Validation("nothing to update")
	}
	return s.users.UpdateProfile(ctx, id, upd)
}

// UpdateBio replaces the caller's bio
func (s *UserService) UpdateBio(ctx context.Context, id uuid.UUID, bio string) (*models.User, error) {
	bio = strings.TrimSpace(bio)
	return s.users.UpdateProfile(ctx, id, models.UserUpdate{Bio: &bio})
}

// UpdatePhoto records the reference of an image stored by the media pipeline
func (s *UserService) UpdatePhoto(ctx context.Context, id uuid.UUID, photo string) (*models.User, error) {
	photo = strings.TrimSpace(photo)
	if photo == "" || strings.ContainsAny(photo, `/\`) {
		return nil, apperr.Validation("invalid image reference")
	}
	return s.users.UpdateProfile(ctx, id, models.UserUpdate{Photo: &photo})
}

// ListUsers returns active users matching the request parameters
func (s *UserService) ListUsers(ctx context.Context, params url.Values) (Page[models.PublicUser], error) {
	spec, fields, err := parseListing(params, s.limit, "-createdAt", repository.UserListSchema)
	if err != nil {
		return Page[models.PublicUser]{}, err
	}
	users, err := s.users.List(ctx, spec)
	if err != nil {
		return Page[models.PublicUser]{}, err
	}
	return Page[models.PublicUser]{Items: users, Page: spec.Page, Limit: spec.Limit, Fields: fields}, nil
}
