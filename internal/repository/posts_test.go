package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CREATESHARE_BACK-END/internal/apperr"
	"CREATESHARE_BACK-END/internal/models"
	"CREATESHARE_BACK-END/internal/query"
)

var postRowColumns = []string{"id", "user_id", "content", "image", "created_at", "aid", "name", "bio", "photo"}

func TestPostCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db, time.Second)
	p := &models.Post{ID: uuid.New(), UserID: uuid.New(), Content: "hi"}
	at := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO posts \(id, user_id, content, image\)`).
		WithArgs(p.ID, p.UserID, "hi", nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(at))

	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, at, p.CreatedAt)
}

func TestPostList_FeedScope(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db, time.Second)
	viewer, author, postID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(`(?s)WHERE u\.active AND p\.user_id IN \(SELECT followee_id FROM follows WHERE follower_id = \$1\) AND p\.created_at >= \$2\s+ORDER BY p\.created_at DESC, p\.id ASC LIMIT \$3 OFFSET \$4$`).
		WithArgs(viewer, sqlmock.AnyArg(), 5, 5).
		WillReturnRows(sqlmock.NewRows(postRowColumns).
			AddRow(postID.String(), author.String(), "hello", nil, time.Now(), author.String(), "Ann", "", "user.jpeg"))

	spec := query.Spec{
		Filters: []query.Filter{{Field: "createdAt", Op: query.OpGte, Value: "2026-01-01"}},
		Sort:    []query.SortKey{{Field: "createdAt", Desc: true}},
		Page:    2,
		Limit:   5,
		Skip:    5,
	}
	posts, err := repo.List(context.Background(), PostScope{FollowerID: &viewer}, spec)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Ann", posts[0].Author.Name)
	assert.Nil(t, posts[0].Image)
}

func TestPostDelete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db, time.Second)

	mock.ExpectExec(`DELETE FROM posts WHERE id = \$1`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), uuid.New())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
