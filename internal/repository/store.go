package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	"CREATESHARE_BACK-END/internal/repository/migrations"
)

// Store bundles the Postgres repositories over one *sql.DB
type Store struct {
	DB      *sql.DB
	Users   *UserRepository
	Follows *FollowRepository
	Posts   *PostRepository
}

// NewStore creates the repositories. Every call is bounded by queryTimeout.
func NewStore(db *sql.DB, queryTimeout time.Duration) *Store {
	return &Store{
		DB:      db,
		Users:   NewUserRepository(db, queryTimeout),
		Follows: NewFollowRepository(db, queryTimeout),
		Posts:   NewPostRepository(db, queryTimeout),
	}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations
func (s *Store) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, s.DB, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
