package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"CREATESHARE_BACK-END/internal/apperr"
	"CREATESHARE_BACK-END/internal/models"
	"CREATESHARE_BACK-END/internal/query"
	"CREATESHARE_BACK-END/internal/repository"
)

type memUsers struct {
	mu   sync.Mutex
	byID map[uuid.UUID]models.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[uuid.UUID]models.User{}}
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return apperr.ErrDuplicateEmail
		}
	}
	u.CreatedAt = time.Now()
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return &u, nil
}

func (m *memUsers) find(match func(models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if match(u) {
			u := u
			return &u, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.Email == email })
}

func (m *memUsers) GetByResetDigest(_ context.Context, digest string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.ResetTokenDigest != nil && *u.ResetTokenDigest == digest })
}

func (m *memUsers) SaveResetToken(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byID[u.ID]
	if !ok {
		return apperr.NotFound("user not found")
	}
	stored.ResetTokenDigest = u.ResetTokenDigest
	stored.ResetTokenExpiresAt = u.ResetTokenExpiresAt
	m.byID[u.ID] = stored
	return nil
}

func (m *memUsers) UpdateCredentials(_ context.Context, u *models.User, expectDigest *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byID[u.ID]
	if !ok {
		return apperr.NotFound("user not found")
	}
	if expectDigest != nil && (stored.ResetTokenDigest == nil || *stored.ResetTokenDigest != *expectDigest) {
		return apperr.ErrResetInvalid
	}
	stored.PasswordHash = u.PasswordHash
	stored.PasswordChangedAt = u.PasswordChangedAt
	stored.ResetTokenDigest = u.ResetTokenDigest
	stored.ResetTokenExpiresAt = u.ResetTokenExpiresAt
	m.byID[u.ID] = stored
	return nil
}

func (m *memUsers) UpdateProfile(_ context.Context, id uuid.UUID, upd models.UserUpdate) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byID[id]
	if !ok || !stored.Active {
		return nil, apperr.NotFound("user not found")
	}
	if upd.Email != nil {
		for otherID, other := range m.byID {
			if otherID != id && other.Email == *upd.Email {
				return nil, apperr.ErrDuplicateEmail
			}
		}
		stored.Email = *upd.Email
	}
	if upd.Name != nil {
		stored.Name = *upd.Name
	}
	if upd.BirthDate != nil {
		stored.BirthDate = upd.BirthDate
	}
	if upd.Bio != nil {
		stored.Bio = *upd.Bio
	}
	if upd.Photo != nil {
		stored.Photo = *upd.Photo
	}
	m.byID[id] = stored
	return &stored, nil
}

func (m *memUsers) List(_ context.Context, spec query.Spec) ([]models.PublicUser, error) {
	if _, err := query.Compile(spec, repository.UserListSchema, 1); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.PublicUser, 0, len(m.byID))
	for _, u := range m.byID {
		if u.Active {
			out = append(out, u.Public())
		}
	}
	return out, nil
}

type edge struct{ follower, followee uuid.UUID }

type memFollows struct {
	mu      sync.Mutex
	users   *memUsers
	edges   map[edge]time.Time
	inserts int
}

func newMemFollows(users *memUsers) *memFollows {
	return &memFollows{users: users, edges: map[edge]time.Time{}}
}

func (m *memFollows) Insert(ctx context.Context, follower, followee uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserts++
	target, err := m.users.GetByID(ctx, followee)
	if err != nil || !target.Active {
		return apperr.NotFound("user not found")
	}
	e := edge{follower, followee}
	if _, ok := m.edges[e]; ok {
		return apperr.ErrAlreadyFollowing
	}
	m.edges[e] = time.Now()
	return nil
}

func (m *memFollows) Delete(_ context.Context, follower, followee uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.edges, edge{follower, followee})
	return nil
}

func (m *memFollows) Exists(_ context.Context, follower, followee uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.edges[edge{follower, followee}]
	return ok, nil
}

func (m *memFollows) collect(ctx context.Context, match func(edge) (uuid.UUID, bool)) ([]models.FollowView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.FollowView, 0)
	for e, at := range m.edges {
		other, ok := match(e)
		if !ok {
			continue
		}
		u, err := m.users.GetByID(ctx, other)
		if err != nil {
			return nil, err
		}
		out = append(out, models.FollowView{PublicUser: u.Public(), FollowedAt: at})
	}
	return out, nil
}

func (m *memFollows) ListFollowers(ctx context.Context, userID uuid.UUID, _ query.Spec) ([]models.FollowView, error) {
	return m.collect(ctx, func(e edge) (uuid.UUID, bool) { return e.follower, e.followee == userID })
}

func (m *memFollows) ListFollowing(ctx context.Context, userID uuid.UUID, _ query.Spec) ([]models.FollowView, error) {
	return m.collect(ctx, func(e edge) (uuid.UUID, bool) { return e.followee, e.follower == userID })
}

type memPosts struct {
	mu        sync.Mutex
	byID      map[uuid.UUID]models.Post
	lastScope repository.PostScope
}

func newMemPosts() *memPosts {
	return &memPosts{byID: map[uuid.UUID]models.Post{}}
}

func (m *memPosts) Create(_ context.Context, p *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.CreatedAt = time.Now()
	m.byID[p.ID] = *p
	return nil
}

func (m *memPosts) GetByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, apperr.NotFound("post not found")
	}
	return &p, nil
}

func (m *memPosts) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return apperr.NotFound("post not found")
	}
	delete(m.byID, id)
	return nil
}

func (m *memPosts) List(_ context.Context, scope repository.PostScope, _ query.Spec) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastScope = scope
	out := make([]models.Post, 0)
	for _, p := range m.byID {
		if scope.AuthorID != nil && p.UserID != *scope.AuthorID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	urls []string
	err  error
}

func (f *fakeMailer) SendPasswordReset(_ context.Context, _, _, resetURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, resetURL)
	return f.err
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
