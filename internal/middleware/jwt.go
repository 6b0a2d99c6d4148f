package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"CREATESHARE_BACK-END/internal/apperr"
	"CREATESHARE_BACK-END/internal/models"
	"CREATESHARE_BACK-END/internal/utils"
)

// SessionCookie is the name of the cookie carrying the session token
const SessionCookie = "jwt"

type contextKey int

const userKey contextKey = iota

// Authenticator resolves a session token to its user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Gate holds the authentication middlewares. Each route picks one explicitly.
type Gate struct {
	auth Authenticator
}

// NewGate creates a new Gate instance
func NewGate(auth Authenticator) *Gate {
	return &Gate{auth: auth}
}

// LoggedOutCookie is the value logout writes over the session cookie
const LoggedOutCookie = "loggedout"

// TokenFromRequest reads the session token from the jwt cookie, falling back
// to an "Authorization: Bearer" header when the cookie is absent, empty or
// logged out
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" && c.Value != LoggedOutCookie {
		return c.Value
	}
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// RequireAuth rejects requests without a valid session before the handler runs
func (g *Gate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := TokenFromRequest(r)
		if token == "" {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", apperr.ErrNotLoggedIn.Message)
			return
		}

		u, err := g.auth.Authenticate(r.Context(), token)
		if err != nil {
			status, message := http.StatusUnauthorized, "invalid token, please log in again"
			var appErr *apperr.Error
			switch apperr.KindOf(err) {
			case apperr.KindUnauthenticated:
				if errors.As(err, &appErr) {
					message = appErr.Message
				}
			case apperr.KindTimeout:
				status, message = http.StatusGatewayTimeout, "request timed out"
			case apperr.KindInternal:
				status, message = http.StatusInternalServerError, "something went wrong"
			}
			utils.WriteErrorResponse(w, status, http.StatusText(status), message)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

// OptionalAuth attaches the user when the session is valid and otherwise
// continues anonymously
func (g *Gate) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := TokenFromRequest(r); token != "" {
			if u, err := g.auth.Authenticate(r.Context(), token); err == nil {
				r = r.WithContext(WithUser(r.Context(), u))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// WithUser stores the authenticated user in ctx
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the authenticated user, if any
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}

// UserIDFromContext returns the authenticated user id, if any
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	u, ok := UserFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return u.ID, true
}
