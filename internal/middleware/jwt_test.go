package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CREATESHARE_BACK-END/internal/apperr"
	"CREATESHARE_BACK-END/internal/models"
)

type stubAuth struct {
	users map[string]*models.User
	err   error
}

func (s *stubAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[token]
	if !ok {
		return nil, apperr.Unauthenticated("invalid token, please log in again")
	}
	return u, nil
}

func echoUser(t *testing.T, called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if id, ok := UserIDFromContext(r.Context()); ok {
			w.Header().Set("X-User", id.String())
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth(t *testing.T) {
	u := &models.User{ID: uuid.New()}
	gate := NewGate(&stubAuth{users: map[string]*models.User{"good": u}})

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
		wantCalled bool
	}{
		{"no token", func(r *http.Request) {}, http.StatusUnauthorized, false},
		{"logged out cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "loggedout"}) }, http.StatusUnauthorized, false},
		{"bad bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer bad") }, http.StatusUnauthorized, false},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"}) }, http.StatusOK, true},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, http.StatusOK, true},
		{"bearer behind logged out cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: SessionCookie, Value: LoggedOutCookie})
			r.Header.Set("Authorization", "Bearer good")
		}, http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			gate.RequireAuth(echoUser(t, &called)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
			if tt.wantCalled {
				assert.Equal(t, u.ID.String(), rec.Header().Get("X-User"))
			}
		})
	}
}

func TestRequireAuth_TimeoutIsNot401(t *testing.T) {
	gate := NewGate(&stubAuth{err: apperr.Timeout("load user", context.DeadlineExceeded)})
	called := false
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	rec := httptest.NewRecorder()

	gate.RequireAuth(echoUser(t, &called)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.False(t, called)
}

func TestOptionalAuth(t *testing.T) {
	u := &models.User{ID: uuid.New()}
	gate := NewGate(&stubAuth{users: map[string]*models.User{"good": u}})

	called := false
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	gate.OptionalAuth(echoUser(t, &called)).ServeHTTP(rec, req)
	require.True(t, called)
	assert.Empty(t, rec.Header().Get("X-User"))

	called = false
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"})
	rec = httptest.NewRecorder()
	gate.OptionalAuth(echoUser(t, &called)).ServeHTTP(rec, req)
	require.True(t, called)
	assert.Equal(t, u.ID.String(), rec.Header().Get("X-User"))
}

func TestTokenFromRequest_CookieWins(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "from-cookie"})
	req.Header.Set("Authorization", "Bearer from-header")

	assert.Equal(t, "from-cookie", TokenFromRequest(req))
}

func TestTokenFromRequest_SkipsLoggedOutCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: LoggedOutCookie})
	assert.Equal(t, "", TokenFromRequest(req))

	req.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-header", TokenFromRequest(req))
}
