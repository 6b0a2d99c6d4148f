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

// PostListSchema is the set of fields accepted when listing posts
var PostListSchema = query.Schema{
	Columns: map[string]query.Column{
		"id":        {Expr: "p.id", Type: query.UUID},
		"userId":    {Expr: "p.user_id", Type: query.UUID, Filterable: true, Key: "user_id"},
		"content":   {Expr: "p.content", Type: query.Text, Filterable: true},
		"image":     {Expr: "p.image", Type: query.Text},
		"author":    {Expr: "u.id", Type: query.UUID},
		"createdAt": {Expr: "p.created_at", Type: query.Time, Filterable: true, Sortable: true, Key: "created_at"},
	},
	Tiebreak: "p.id",
}

var errPostNotFound = apperr.NotFound("post not found")

// PostScope narrows a post listing. At most one field should be set.
type PostScope struct {
	AuthorID *uuid.UUID
	// FollowerID lists posts by the users FollowerID follows
	FollowerID *uuid.UUID
}

// PostRepository stores posts in Postgres
type PostRepository struct {
	db      DBTX
	timeout time.Duration
}

// NewPostRepository creates a new PostRepository instance
func NewPostRepository(db DBTX, timeout time.Duration) *PostRepository {
	return &PostRepository{db: db, timeout: timeout}
}

func (r *PostRepository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// Create inserts p and fills in CreatedAt
func (r *PostRepository) Create(ctx context.Context, p *models.Post) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO posts (id, user_id, content, image) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		p.ID, p.UserID, p.Content, p.Image).Scan(&p.CreatedAt)
	if err != nil {
		if code, _ := pgError(err); code == codeForeignKeyViolation {
			return errUserNotFound
		}
		return dbError("create post", err)
	}
	return nil
}

// GetByID loads a single post with its author
func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	q := `SELECT p.id, p.user_id, p.content, p.image, p.created_at, u.id, u.name, u.bio, u.photo
		FROM posts p JOIN users u ON u.id = p.user_id
		WHERE p.id = $1`
	p, err := scanPost(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errPostNotFound
		}
		return nil, dbError("get post", err)
	}
	return p, nil
}

// Delete removes the post id
func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return dbError("delete post", err)
	}
	return requireRow(res, errPostNotFound)
}

// List returns posts by active authors within scope, matching spec
func (r *PostRepository) List(ctx context.Context, scope PostScope, spec query.Spec) ([]models.Post, error) {
	var (
		scopeSQL = "TRUE"
		scopeArg []any
	)
	switch {
	case scope.AuthorID != nil:
		scopeSQL = "p.user_id = $1"
		scopeArg = []any{*scope.AuthorID}
	case scope.FollowerID != nil:
		scopeSQL = "p.user_id IN (SELECT followee_id FROM follows WHERE follower_id = $1)"
		scopeArg = []any{*scope.FollowerID}
	}

	c, err := query.Compile(spec, PostListSchema, len(scopeArg)+1)
	if err != nil {
		return nil, err
	}
	page, args := c.Page()
	args = append(scopeArg, args...)

	ctx, cancel := r.bound(ctx)
	defer cancel()

	q := fmt.Sprintf(`SELECT p.id, p.user_id, p.content, p.image, p.created_at, u.id, u.name, u.bio, u.photo
		FROM posts p JOIN users u ON u.id = p.user_id
		WHERE u.active AND %s AND %s
		ORDER BY %s %s`, scopeSQL, c.WhereSQL(), c.OrderBy, page)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, dbError("list posts", err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, dbError("list posts", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list posts", err)
	}
	return posts, nil
}

func scanPost(row rowScanner) (*models.Post, error) {
	p := &models.Post{}
	err := row.Scan(&p.ID, &p.UserID, &p.Content, &p.Image, &p.CreatedAt,
		&p.Author.ID, &p.Author.Name, &p.Author.Bio, &p.Author.Photo)
	if err != nil {
		return nil, err
	}
	return p, nil
}
