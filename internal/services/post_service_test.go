package services

import (
	"context"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CREATESHARE_BACK-END/internal/apperr"
	"CREATESHARE_BACK-END/internal/query"
)

func TestPostCreate(t *testing.T) {
	svc := NewPostService(newMemPosts(), query.Options{})
	ctx := context.Background()
	author := uuid.New()

	p, err := svc.Create(ctx, author, "  hello  ", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", p.Content)
	assert.Equal(t, author, p.UserID)

	blank := "  "
	_, err = svc.Create(ctx, author, " ", &blank)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	img := "post-1.jpeg"
	p, err = svc.Create(ctx, author, "", &img)
	require.NoError(t, err)
	require.NotNil(t, p.Image)
	assert.Equal(t, "post-1.jpeg", *p.Image)
}

func TestPostDelete_OwnerOnly(t *testing.T) {
	svc := NewPostService(newMemPosts(), query.Options{})
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	p, err := svc.Create(ctx, owner, "mine", nil)
	require.NoError(t, err)

	err = svc.Delete(ctx, other, p.ID)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	require.NoError(t, svc.Delete(ctx, owner, p.ID))

	err = svc.Delete(ctx, owner, p.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestPostListings_Scopes(t *testing.T) {
	posts := newMemPosts()
	svc := NewPostService(posts, query.Options{})
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()
	_, err := svc.Create(ctx, a, "from a", nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, b, "from b", nil)
	require.NoError(t, err)

	all, err := svc.ListAll(ctx, url.Values{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	mine, err := svc.ListByUser(ctx, a, url.Values{"limit": {"5"}})
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, 5, mine.Limit)

	_, err = svc.Feed(ctx, b, url.Values{})
	require.NoError(t, err)
	require.NotNil(t, posts.lastScope.FollowerID)
	assert.Equal(t, b, *posts.lastScope.FollowerID)

	_, err = svc.ListAll(ctx, url.Values{"fields": {"password"}})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
