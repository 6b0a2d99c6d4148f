package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"CREATESHARE_BACK-END/internal/apperr"
	"CREATESHARE_BACK-END/internal/models"
)

// Claims represents the claims in a session token. PasswordStamp is the
// user's password change time in Unix milliseconds when the token was
// minted, zero if the password never changed.
type Claims struct {
	UserID        uuid.UUID `json:"id"`
	PasswordStamp int64     `json:"pwd,omitempty"`
	jwt.RegisteredClaims
}

// SessionTokens issues and verifies HS256 session tokens
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewSessionTokens creates a new SessionTokens instance
func NewSessionTokens(secret string, ttl time.Duration, issuer string) *SessionTokens {
	return &SessionTokens{secret: []byte(secret), ttl: ttl, issuer: issuer}
}

// TTL returns the lifetime of issued tokens
func (s *SessionTokens) TTL() time.Duration { return s.ttl }

// Issue signs a token for u, issued at now
func (s *SessionTokens) Issue(u *models.User, now time.Time) (string, error) {
	claims := Claims{
		UserID:        u.ID,
		PasswordStamp: passwordStamp(u.PasswordChangedAt),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperr.Internal("sign session token", err)
	}
	return signed, nil
}

// Parse verifies signature, issuer and expiry as of now
func (s *SessionTokens) Parse(tokenString string, now time.Time) (*Claims, error) {
	if tokenString == "" {
		return nil, apperr.ErrNotLoggedIn
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &apperr.Error{Kind: apperr.KindUnauthenticated, Message: "your token has expired, please log in again", Err: err}
		}
		return nil, &apperr.Error{Kind: apperr.KindUnauthenticated, Message: "invalid token, please log in again", Err: err}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.IssuedAt == nil || claims.UserID == uuid.Nil {
		return nil, apperr.Unauthenticated("invalid token, please log in again")
	}
	return claims, nil
}

func passwordStamp(changedAt *time.Time) int64 {
	if changedAt == nil {
		return 0
	}
	return changedAt.UnixMilli()
}

// Stale reports whether the token was minted against a password other than
// the one changed at changedAt. Any change after issue, however soon,
// makes the token stale.
func (c *Claims) Stale(changedAt *time.Time) bool {
	return c.PasswordStamp != passwordStamp(changedAt)
}
