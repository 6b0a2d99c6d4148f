package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CREATESHARE_BACK-END/internal/apperr"
	"CREATESHARE_BACK-END/internal/query"
)

func TestFollowInsert_Success(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFollowRepository(db, time.Second)
	a, b := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT active FROM users WHERE id = \$1 FOR SHARE`).WithArgs(b).
		WillReturnRows(sqlmock.NewRows([]string{"active"}).AddRow(true))
	mock.ExpectExec(`INSERT INTO follows \(follower_id, followee_id\) VALUES \(\$1, \$2\)`).WithArgs(a, b).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Insert(context.Background(), a, b))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowInsert_Errors(t *testing.T) {
	tests := []struct {
		name   string
		active bool
		insErr error
		want   error
		kind   apperr.Kind
	}{
		{name: "inactive target", active: false, kind: apperr.KindNotFound},
		{name: "duplicate edge", active: true, insErr: &pgconn.PgError{Code: "23505", ConstraintName: "follows_pkey"}, want: apperr.ErrAlreadyFollowing, kind: apperr.KindConflict},
		{name: "self edge", active: true, insErr: &pgconn.PgError{Code: "23514", ConstraintName: "follows_no_self"}, want: apperr.ErrInvalidTarget, kind: apperr.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewFollowRepository(db, time.Second)

			mock.ExpectBegin()
			mock.ExpectQuery(`FOR SHARE`).WillReturnRows(sqlmock.NewRows([]string{"active"}).AddRow(tt.active))
			if tt.active {
				mock.ExpectExec(`INSERT INTO follows`).WillReturnError(tt.insErr)
			}
			mock.ExpectRollback()

			err := repo.Insert(context.Background(), uuid.New(), uuid.New())
			assert.Equal(t, tt.kind, apperr.KindOf(err))
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFollowDelete_AbsentIsFine(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFollowRepository(db, time.Second)

	mock.ExpectExec(`DELETE FROM follows`).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), uuid.New(), uuid.New()))
}

func TestFollowExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFollowRepository(db, time.Second)

	mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestListFollowers_PublicColumnsAndDefaultOrder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFollowRepository(db, time.Second)
	me, fan := uuid.New(), uuid.New()
	at := time.Now().UTC()

	mock.ExpectQuery(`(?s)^SELECT u\.id, u\.name, u\.bio, u\.photo, f\.created_at\s+FROM follows f\s+JOIN users u ON u\.id = f\.follower_id\s+WHERE f\.followee_id = \$1 AND u\.active AND TRUE\s+ORDER BY u\.name ASC, u\.id ASC LIMIT \$2 OFFSET \$3$`).
		WithArgs(me, 100, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "bio", "photo", "created_at"}).
			AddRow(fan.String(), "Fan", "", "user.jpeg", at))

	views, err := repo.ListFollowers(context.Background(), me, query.Spec{Sort: []query.SortKey{{Field: "name"}}, Page: 1, Limit: 100})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, fan, views[0].ID)
	assert.Equal(t, at, views[0].FollowedAt)
}

func TestListFollowing_JoinsOnFollowee(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFollowRepository(db, time.Second)

	mock.ExpectQuery(`JOIN users u ON u\.id = f\.followee_id\s+WHERE f\.follower_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "bio", "photo", "created_at"}))

	views, err := repo.ListFollowing(context.Background(), uuid.New(), query.Spec{Limit: 100})
	require.NoError(t, err)
	assert.Empty(t, views)
}
