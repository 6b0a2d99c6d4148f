package services

import (
	"context"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CREATESHARE_BACK-END/internal/apperr"
	"CREATESHARE_BACK-END/internal/models"
	"CREATESHARE_BACK-END/internal/query"
)

func seedUser(t *testing.T, users *memUsers, email string, active bool) uuid.UUID {
	t.Helper()
	u := &models.User{ID: uuid.New(), Email: email, Name: email, Photo: models.DefaultPhoto, Active: active}
	require.NoError(t, users.Create(context.Background(), u))
	return u.ID
}

func newFollowFixture(t *testing.T) (*FollowService, *memFollows, *memUsers) {
	t.Helper()
	users := newMemUsers()
	follows := newMemFollows(users)
	return NewFollowService(follows, users, query.Options{}), follows, users
}

func TestFollow_SelfRejectedWithoutStorage(t *testing.T) {
	svc, follows, users := newFollowFixture(t)
	me := seedUser(t, users, "a@example.com", true)

	err := svc.Follow(context.Background(), me, me)

	assert.ErrorIs(t, err, apperr.ErrInvalidTarget)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Zero(t, follows.inserts)
}

func TestFollow_TwiceConflicts(t *testing.T) {
	svc, _, users := newFollowFixture(t)
	ctx := context.Background()
	a := seedUser(t, users, "a@example.com", true)
	b := seedUser(t, users, "b@example.com", true)

	require.NoError(t, svc.Follow(ctx, a, b))
	err := svc.Follow(ctx, a, b)
	assert.ErrorIs(t, err, apperr.ErrAlreadyFollowing)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	ok, err := svc.IsFollowing(ctx, a, b)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.IsFollowing(ctx, b, a)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFollow_MissingOrInactiveTarget(t *testing.T) {
	svc, _, users := newFollowFixture(t)
	ctx := context.Background()
	a := seedUser(t, users, "a@example.com", true)
	gone := seedUser(t, users, "gone@example.com", false)

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(svc.Follow(ctx, a, uuid.New())))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(svc.Follow(ctx, a, gone)))
}

func TestUnfollow_Idempotent(t *testing.T) {
	svc, _, users := newFollowFixture(t)
	ctx := context.Background()
	a := seedUser(t, users, "a@example.com", true)
	b := seedUser(t, users, "b@example.com", true)
	require.NoError(t, svc.Follow(ctx, a, b))

	assert.NoError(t, svc.Unfollow(ctx, a, b))
	assert.NoError(t, svc.Unfollow(ctx, a, b))

	ok, err := svc.IsFollowing(ctx, a, b)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListFollowersAndFollowing(t *testing.T) {
	svc, _, users := newFollowFixture(t)
	ctx := context.Background()
	a := seedUser(t, users, "a@example.com", true)
	b := seedUser(t, users, "b@example.com", true)
	c := seedUser(t, users, "c@example.com", true)
	require.NoError(t, svc.Follow(ctx, b, a))
	require.NoError(t, svc.Follow(ctx, c, a))

	followers, err := svc.ListFollowers(ctx, a, url.Values{"fields": {"name,followedAt"}})
	require.NoError(t, err)
	assert.Len(t, followers.Items, 2)
	assert.Equal(t, 1, followers.Page)
	assert.Equal(t, query.DefaultLimit, followers.Limit)
	assert.Equal(t, []string{"name", "followed_at"}, followers.Fields)

	following, err := svc.ListFollowing(ctx, b, url.Values{})
	require.NoError(t, err)
	require.Len(t, following.Items, 1)
	assert.Equal(t, a, following.Items[0].ID)
}

func TestListFollowers_Errors(t *testing.T) {
	svc, _, users := newFollowFixture(t)
	ctx := context.Background()
	a := seedUser(t, users, "a@example.com", true)

	_, err := svc.ListFollowers(ctx, uuid.New(), url.Values{})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.ListFollowers(ctx, a, url.Values{"name[like]": {"x"}})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.ListFollowing(ctx, a, url.Values{"fields": {"email"}})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
