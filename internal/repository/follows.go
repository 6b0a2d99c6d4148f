package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"CREATESHARE_BACK-END/internal/apperr"
	"CREATESHARE_BACK-END/internal/models"
	"CREATESHARE_BACK-END/internal/query"
)

// FollowListSchema is the set of fields accepted when listing followers or followees
var FollowListSchema = query.Schema{
	Columns: map[string]query.Column{
		"id":         {Expr: "u.id", Type: query.UUID},
		"name":       {Expr: "u.name", Type: query.Text, Filterable: true, Sortable: true},
		"bio":        {Expr: "u.bio", Type: query.Text},
		"photo":      {Expr: "u.photo", Type: query.Text},
		"followedAt": {Expr: "f.created_at", Type: query.Time, Filterable: true, Sortable: true, Key: "followed_at"},
	},
	Tiebreak: "u.id",
}

// FollowRepository stores follow edges in Postgres
type FollowRepository struct {
	db      *sql.DB
	timeout time.Duration
}

// NewFollowRepository creates a new FollowRepository instance
func NewFollowRepository(db *sql.DB, timeout time.Duration) *FollowRepository {
	return &FollowRepository{db: db, timeout: timeout}
}

func (r *FollowRepository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// Insert creates the edge follower -> followee. The followee row is locked
// for the duration so it cannot be deactivated between check and insert.
func (r *FollowRepository) Insert(ctx context.Context, follower, followee uuid.UUID) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	err := WithTx(ctx, r.db, nil, func(ctx context.Context, tx DBTX) error {
		var active bool
		err := tx.QueryRowContext(ctx, `SELECT active FROM users WHERE id = $1 FOR SHARE`, followee).Scan(&active)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && !active) {
			return errUserNotFound
		}
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO follows (follower_id, followee_id) VALUES ($1, $2)`, follower, followee)
		return err
	})
	if err == nil {
		return nil
	}

	switch code, _ := pgError(err); code {
	case codeUniqueViolation:
		return apperr.ErrAlreadyFollowing
	case codeForeignKeyViolation:
		return errUserNotFound
	case codeCheckViolation:
		return apperr.ErrInvalidTarget
	}
	return dbError("follow", err)
}

// Delete removes the edge if present. Absence is not an error.
func (r *FollowRepository) Delete(ctx context.Context, follower, followee uuid.UUID) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`, follower, followee)
	return dbError("unfollow", err)
}

// Exists reports whether follower follows followee
func (r *FollowRepository) Exists(ctx context.Context, follower, followee uuid.UUID) (bool, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`,
		follower, followee).Scan(&exists)
	if err != nil {
		return false, dbError("is following", err)
	}
	return exists, nil
}

// ListFollowers returns the active users following userID
func (r *FollowRepository) ListFollowers(ctx context.Context, userID uuid.UUID, spec query.Spec) ([]models.FollowView, error) {
	return r.list(ctx, "f.follower_id", "f.followee_id", userID, spec)
}

// ListFollowing returns the active users userID follows
func (r *FollowRepository) ListFollowing(ctx context.Context, userID uuid.UUID, spec query.Spec) ([]models.FollowView, error) {
	return r.list(ctx, "f.followee_id", "f.follower_id", userID, spec)
}

// list joins follows to users on joinCol and filters on anchorCol = userID.
// Only public user columns are selected.
func (r *FollowRepository) list(ctx context.Context, joinCol, anchorCol string, userID uuid.UUID, spec query.Spec) ([]models.FollowView, error) {
	c, err := query.Compile(spec, FollowListSchema, 2)
	if err != nil {
		return nil, err
	}
	page, args := c.Page()
	args = append([]any{userID}, args...)

	ctx, cancel := r.bound(ctx)
	defer cancel()

	q := fmt.Sprintf(`SELECT u.id, u.name, u.bio, u.photo, f.created_at
		FROM follows f
		JOIN users u ON u.id = %s
		WHERE %s = $1 AND u.active AND %s
		ORDER BY %s %s`, joinCol, anchorCol, c.WhereSQL(), c.OrderBy, page)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, dbError("list follows", err)
	}
	defer rows.Close()

	views := make([]models.FollowView, 0)
	for rows.Next() {
		var v models.FollowView
		if err := rows.Scan(&v.ID, &v.Name, &v.Bio, &v.Photo, &v.FollowedAt); err != nil {
			return nil, dbError("list follows", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list follows", err)
	}
	return views, nil
}
