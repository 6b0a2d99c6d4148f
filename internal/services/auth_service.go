package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"CREATESHARE_BACK-END/internal/apperr"
	"CREATESHARE_BACK-END/internal/auth"
	"CREATESHARE_BACK-END/internal/dto"
	"CREATESHARE_BACK-END/internal/models"
	"CREATESHARE_BACK-END/internal/utils"
)

const maxNameLength = 40

// Clock returns the current time
type Clock func() time.Time

// SignupInput holds the fields accepted at registration
type SignupInput struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
	BirthDate       *time.Time
}

// AuthService implements signup, login, session checks and password flows
type AuthService struct {
	users    UserStore
	hasher   *auth.Hasher
	tokens   *auth.SessionTokens
	mailer   utils.Mailer
	resetTTL time.Duration
	logger   *zap.Logger
	now      Clock
}

// NewAuthService creates a new AuthService instance
func NewAuthService(users UserStore, hasher *auth.Hasher, tokens *auth.SessionTokens, mailer utils.Mailer, resetTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		mailer:   mailer,
		resetTTL: resetTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the time source
func (s *AuthService) WithClock(now Clock) *AuthService {
	s.now = now
	return s
}

// SessionTTL returns how long issued session tokens live
func (s *AuthService) SessionTTL() time.Duration { return s.tokens.TTL() }

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkConfirm(password, confirm string) error {
	if password != confirm {
		return apperr.Validation("passwords are not the same")
	}
	return nil
}

func checkName(name string) error {
	if name == "" {
		return apperr.Validation("please tell us your name")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return apperr.Validation("a name must have less or equal than 40 characters")
	}
	return nil
}

// Signup creates an account and returns it with a session token
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, string, error) {
	name := strings.TrimSpace(in.Name)
	if err := checkName(name); err != nil {
		return nil, "", err
	}
	email := NormalizeEmail(in.Email)
	if email == "" {
		return nil, "", apperr.Validation("please provide your email")
	}
	if err := checkConfirm(in.Password, in.PasswordConfirm); err != nil {
		return nil, "", err
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, "", err
	}

	u := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		BirthDate:    in.BirthDate,
		Photo:        models.DefaultPhoto,
		Active:       true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(u, s.now())
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("user signed up", zap.String("user_id", u.ID.String()))
	return u, token, nil
}

// Login checks credentials and returns a fresh session token. Unknown email,
// inactive account and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", apperr.Validation("please provide email and password")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, "", apperr.ErrInvalidCredentials
		}
		return nil, "", err
	}

	ok, err := s.hasher.Compare(ctx, u.PasswordHash, password)
	if err != nil {
		return nil, "", err
	}
	if !ok || !u.Active {
		return nil, "", apperr.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u, s.now())
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Authenticate resolves a session token to its active user
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Parse(token, s.now())
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Unauthenticated("the user belonging to this token no longer exists")
		}
		return nil, err
	}
	if !u.Active {
		return nil, apperr.Unauthenticated("the user belonging to this token no longer exists")
	}
	if claims.Stale(u.PasswordChangedAt) {
		return nil, apperr.Unauthenticated("user recently changed password, please log in again")
	}
	return u, nil
}

// IsLoggedIn reports the user behind token, or false for any failure
func (s *AuthService) IsLoggedIn(ctx context.Context, token string) (*models.User, bool) {
	if token == "" {
		return nil, false
	}
	u, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, false
	}
	return u, true
}

// RequestPasswordReset issues a reset token and mails a link built from
// resetURLBase. It reports success for unknown addresses too.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email, resetURLBase string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return apperr.Validation("please provide your email")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			s.logger.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}
	if !u.Active {
		return nil
	}

	plaintext, err := auth.IssueResetToken(u, s.now(), s.resetTTL)
	if err != nil {
		return err
	}
	if err := s.users.SaveResetToken(ctx, u); err != nil {
		return err
	}

	resetURL := strings.TrimRight(resetURLBase, "/") + "/" + plaintext
	if err := s.mailer.SendPasswordReset(ctx, u.Email, u.Name, resetURL); err != nil {
		s.logger.Error("send password reset email", zap.String("user_id", u.ID.String()), zap.Error(err))
		auth.ClearResetToken(u)
		if clearErr := s.users.SaveResetToken(ctx, u); clearErr != nil {
			s.logger.Error("clear reset token", zap.String("user_id", u.ID.String()), zap.Error(clearErr))
		}
	}
	return nil
}

// ResetPassword consumes a reset token, sets the new password and returns a
// fresh session token
func (s *AuthService) ResetPassword(ctx context.Context, token, password, confirm string) (*models.User, string, error) {
	if err := checkConfirm(password, confirm); err != nil {
		return nil, "", err
	}

	digest := auth.DigestResetToken(token)
	u, err := s.users.GetByResetDigest(ctx, digest)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, "", apperr.ErrResetInvalid
		}
		return nil, "", err
	}

	now := s.now()
	if err := auth.VerifyResetToken(u, token, now); err != nil {
		return nil, "", err
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, "", err
	}
	u.PasswordHash = hash
	auth.RecordPasswordChange(u, now)
	auth.ClearResetToken(u)

	if err := s.users.UpdateCredentials(ctx, u, &digest); err != nil {
		return nil, "", err
	}

	session, err := s.tokens.Issue(u, now)
	if err != nil {
		return nil, "", err
	}
	return u, session, nil
}

// ChangePassword replaces the password of an authenticated user after
// checking the current one. Earlier session tokens stop working.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, password, confirm string) (*models.User, string, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	ok, err := s.hasher.Compare(ctx, u.PasswordHash, current)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", apperr.Unauthenticated("your current password is wrong")
	}
	if err := checkConfirm(password, confirm); err != nil {
		return nil, "", err
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, "", err
	}
	now := s.now()
	u.PasswordHash = hash
	auth.RecordPasswordChange(u, now)

	if err := s.users.UpdateCredentials(ctx, u, nil); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(u, now)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// GoogleSignIn finds or provisions the account for a verified Google profile.
// Provisioned accounts have no password and can only sign in through Google
// until they run a password reset.
func (s *AuthService) GoogleSignIn(ctx context.Context, info *dto.GoogleUserInfo) (*models.User, string, error) {
	if info == nil || !info.Verified {
		return nil, "", apperr.Unauthenticated("google account email is not verified")
	}
	email := NormalizeEmail(info.Email)
	if email == "" {
		return nil, "", apperr.Unauthenticated("google account has no email")
	}

	u, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if !u.Active {
			return nil, "", apperr.ErrInvalidCredentials
		}
	case apperr.Is(err, apperr.KindNotFound):
		u, err = s.provisionGoogleUser(ctx, email, info)
		if err != nil {
			return nil, "", err
		}
	default:
		return nil, "", err
	}

	token, err := s.tokens.Issue(u, s.now())
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *AuthService) provisionGoogleUser(ctx context.Context, email string, info *dto.GoogleUserInfo) (*models.User, error) {
	name := strings.TrimSpace(info.Name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		name = string([]rune(name)[:maxNameLength])
	}
	photo := info.Picture
	if photo == "" {
		photo = models.DefaultPhoto
	}

	u := &models.User{
		ID:     uuid.New(),
		Email:  email,
		Name:   name,
		Photo:  photo,
		Active: true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			// lost a race with a concurrent sign-in for the same address
			return s.users.GetByEmail(ctx, email)
		}
		return nil, err
	}
	s.logger.Info("provisioned google user", zap.String("user_id", u.ID.String()))
	return u, nil
}
