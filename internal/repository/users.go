package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"CREATESHARE_BACK-END/internal/apperr"
	"CREATESHARE_BACK-END/internal/models"
	"CREATESHARE_BACK-END/internal/query"
)

const userColumns = `id, email, password_hash, reset_token_digest, reset_token_expires_at,
	password_changed_at, name, birthdate, bio, photo, active, created_at`

// UserListSchema is the set of fields accepted when listing users
var UserListSchema = query.Schema{
	Columns: map[string]query.Column{
		"id":        {Expr: "id", Type: query.UUID, Filterable: true},
		"name":      {Expr: "name", Type: query.Text, Filterable: true, Sortable: true},
		"bio":       {Expr: "bio", Type: query.Text},
		"photo":     {Expr: "photo", Type: query.Text},
		"createdAt": {Expr: "created_at", Type: query.Time, Filterable: true, Sortable: true, Key: "created_at"},
	},
	Tiebreak: "id",
}

var errUserNotFound = apperr.NotFound("user not found")

// UserRepository stores users in Postgres
type UserRepository struct {
	db      DBTX
	timeout time.Duration
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db DBTX, timeout time.Duration) *UserRepository {
	return &UserRepository{db: db, timeout: timeout}
}

func (r *UserRepository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.ResetTokenDigest, &u.ResetTokenExpiresAt,
		&u.PasswordChangedAt, &u.Name, &u.BirthDate, &u.Bio, &u.Photo, &u.Active, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts u and fills in CreatedAt
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	q := `INSERT INTO users (id, email, password_hash, name, birthdate, bio, photo, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, q,
		u.ID, u.Email, u.PasswordHash, u.Name, u.BirthDate, u.Bio, u.Photo, u.Active).Scan(&u.CreatedAt)
	if err != nil {
		if code, constraint := pgError(err); code == codeUniqueViolation && constraint == "users_email_key" {
			return apperr.ErrDuplicateEmail
		}
		return dbError("create user", err)
	}
	return nil
}

func (r *UserRepository) getBy(ctx context.Context, column string, arg any) (*models.User, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	q := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userColumns, column)
	u, err := scanUser(r.db.QueryRowContext(ctx, q, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errUserNotFound
		}
		return nil, dbError("get user", err)
	}
	return u, nil
}

// GetByID loads a user by id, including inactive users
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetByEmail loads a user by normalised email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email", email)
}

// GetByResetDigest loads the user holding the given reset token digest
func (r *UserRepository) GetByResetDigest(ctx context.Context, digest string) (*models.User, error) {
	return r.getBy(ctx, "reset_token_digest", digest)
}

// SaveResetToken stores (or clears) the reset token fields of u
func (r *UserRepository) SaveResetToken(ctx context.Context, u *models.User) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	q := `UPDATE users SET reset_token_digest = $2, reset_token_expires_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, u.ID, u.ResetTokenDigest, u.ResetTokenExpiresAt)
	if err != nil {
		return dbError("save reset token", err)
	}
	return requireRow(res, errUserNotFound)
}

// UpdateCredentials writes the password hash, change time and reset fields
// of u. When expectDigest is set the update only applies while that reset
// token is still stored, so a token can be consumed once.
func (r *UserRepository) UpdateCredentials(ctx context.Context, u *models.User, expectDigest *string) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	q := `UPDATE users
		SET password_hash = $2, password_changed_at = $3, reset_token_digest = $4, reset_token_expires_at = $5
		WHERE id = $1 AND ($6::text IS NULL OR reset_token_digest = $6)`

	res, err := r.db.ExecContext(ctx, q,
		u.ID, u.PasswordHash, u.PasswordChangedAt, u.ResetTokenDigest, u.ResetTokenExpiresAt, expectDigest)
	if err != nil {
		return dbError("update credentials", err)
	}
	if expectDigest != nil {
		return requireRow(res, apperr.ErrResetInvalid)
	}
	return requireRow(res, errUserNotFound)
}

// UpdateProfile applies the non-nil fields of upd and returns the stored user.
// The password columns are never touched here.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, upd models.UserUpdate) (*models.User, error) {
	sets := make([]string, 0, 5)
	args := []any{id}
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.BirthDate != nil {
		add("birthdate", *upd.BirthDate)
	}
	if upd.Bio != nil {
		add("bio", *upd.Bio)
	}
	if upd.Photo != nil {
		add("photo", *upd.Photo)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()

	q := fmt.Sprintf(`UPDATE users SET %s WHERE id = $1 AND active RETURNING %s`, strings.Join(sets, ", "), userColumns)
	u, err := scanUser(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errUserNotFound
		}
		if code, constraint := pgError(err); code == codeUniqueViolation && constraint == "users_email_key" {
			return nil, apperr.ErrDuplicateEmail
		}
		return nil, dbError("update user", err)
	}
	return u, nil
}

// List returns active users matching spec, projected to public columns
func (r *UserRepository) List(ctx context.Context, spec query.Spec) ([]models.PublicUser, error) {
	c, err := query.Compile(spec, UserListSchema, 1)
	if err != nil {
		return nil, err
	}
	page, args := c.Page()

	ctx, cancel := r.bound(ctx)
	defer cancel()

	q := fmt.Sprintf(`SELECT id, name, bio, photo FROM users WHERE active AND %s ORDER BY %s %s`,
		c.WhereSQL(), c.OrderBy, page)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, dbError("list users", err)
	}
	defer rows.Close()

	users := make([]models.PublicUser, 0)
	for rows.Next() {
		var u models.PublicUser
		if err := rows.Scan(&u.ID, &u.Name, &u.Bio, &u.Photo); err != nil {
			return nil, dbError("list users", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list users", err)
	}
	return users, nil
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return dbError("rows affected", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
